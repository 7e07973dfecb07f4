package middleware

import (
	"context"
	"time"

	"github.com/bhataakib02/retail-app/common/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger writes one "http_request" line per request. 5xx responses
// log at error, 4xx at warn, the rest at info. Paths in quiet are logged at
// debug so health probes do not flood the output.
func RequestLogger(log *zap.Logger, quiet ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(quiet))
	for _, p := range quiet {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		}
		if _, ok := skip[c.Request.URL.Path]; ok && level == zapcore.InfoLevel {
			level = zapcore.DebugLevel
		}

		ce := log.Check(level, "http_request")
		if ce == nil {
			return
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("request_id", c.GetString(logger.RequestIDKey)),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}
		ce.Write(fields...)
	}
}

// Timeout bounds the request context and carries the request id on it, so
// database and AWS calls made with c.Request.Context() stop with the request.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(logger.WithRequestID(ctx, c.GetString(logger.RequestIDKey)))
		c.Next()
	}
}
