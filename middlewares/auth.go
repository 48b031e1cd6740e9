package middlewares

import (
	"strings"

	"rta-backend/entity"
	"rta-backend/utils"

	"github.com/gin-gonic/gin"
)

type TokenAuthenticator interface {
	Authenticate(token string) (*entity.Session, error)
}

// SessionMiddleware attaches the session for a valid bearer token. Requests without
// a token, or with an invalid/revoked one, continue as anonymous.
func SessionMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			c.Next()
			return
		}
		sess, err := auth.Authenticate(tokenStr)
		if err == nil {
			utils.SetSession(c, sess)
		}
		c.Next()
	}
}

// tokenFromRequest reads the Authorization header, falling back to ?token= for websocket clients
// that cannot set headers.
func tokenFromRequest(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h != "" && strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if strings.HasPrefix(c.Request.URL.Path, "/ws/") {
		return c.Query("token")
	}
	return ""
}
