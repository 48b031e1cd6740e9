package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"rta-backend/pkg/logger"
	"rta-backend/pkg/resp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and writes one access log line when it finishes.
func RequestLogger(mylog logger.Logger) gin.HandlerFunc {
	mylog = mylog.Action("http_request")
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))

		start := time.Now()
		c.Next()

		args := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			mylog.Error("request failed", err, args...)
		case c.Writer.Status() >= http.StatusBadRequest:
			mylog.Warn("request rejected", args...)
		default:
			mylog.Info("request served", args...)
		}
	}
}

// Recovery turns a panic into a 500 envelope.
func Recovery(mylog logger.Logger) gin.HandlerFunc {
	mylog = mylog.Action("panic_recovery")
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		err := fmt.Errorf("panic: %v", rec)
		logger.ForContext(c.Request.Context(), mylog).Error("recovered from panic", err, "path", c.Request.URL.Path)
		resp.ServerError(c, nil)
		c.Abort()
	})
}
