package middleware

import (
	"context"
	"net/http"
	"time"

	awspkg "github.com/bhataakib02/retail-app/pkg/aws"
	"github.com/gin-gonic/gin"
)

// MetricsRecorder is satisfied by *awspkg.MetricsClient.
type MetricsRecorder interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, d time.Duration, dimensions map[string]string) error
}

// MetricsMiddleware reports request count and latency per route, plus error
// counters split by status class. Metrics are sent off the request path.
func MetricsMiddleware(rec MetricsRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rec == nil || !rec.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		dims := map[string]string{
			"Service": serviceName,
			"Route":   c.Request.Method + " " + route,
			"Status":  statusCodeToRange(status),
		}

		names := []string{awspkg.MetricHTTPRequests}
		switch {
		case status >= http.StatusInternalServerError:
			names = append(names, awspkg.MetricHTTPErrors, awspkg.MetricHTTP5xx)
		case status >= http.StatusBadRequest:
			names = append(names, awspkg.MetricHTTPErrors, awspkg.MetricHTTP4xx)
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = rec.RecordLatency(ctx, awspkg.MetricHTTPLatency, elapsed, dims)
			for _, name := range names {
				_ = rec.RecordCount(ctx, name, dims)
			}
		}()
	}
}

func statusCodeToRange(code int) string {
	if code < 200 || code > 599 {
		return "unknown"
	}
	return string(rune('0'+code/100)) + "xx"
}
