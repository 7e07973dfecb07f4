package middleware

import (
	"fmt"
	"net/http"

	"github.com/bhataakib02/retail-app/common/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a 500 diagnostic response instead of
// dropping the connection.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString(logger.RequestIDKey)
			log.Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestID),
				zap.Stack("stack"),
			)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "An internal error occurred",
				"detail":     fmt.Sprint(rec),
				"request_id": requestID,
			})
		}()
		c.Next()
	}
}
