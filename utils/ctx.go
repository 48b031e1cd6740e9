package utils

import (
	"context"

	"rta-backend/entity"

	"github.com/gin-gonic/gin"
)

type sessionKey struct{}

const ginSessionKey = "session"

func WithSession(ctx context.Context, s *entity.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session attached to ctx, or nil for anonymous requests.
func SessionFrom(ctx context.Context) *entity.Session {
	s, _ := ctx.Value(sessionKey{}).(*entity.Session)
	return s
}

// SetSession attaches s to both the gin context and the request context.
func SetSession(c *gin.Context, s *entity.Session) {
	c.Set(ginSessionKey, s)
	c.Request = c.Request.WithContext(WithSession(c.Request.Context(), s))
}

func CurrentSession(c *gin.Context) *entity.Session {
	if v, ok := c.Get(ginSessionKey); ok {
		if s, ok := v.(*entity.Session); ok {
			return s
		}
	}
	return SessionFrom(c.Request.Context())
}
