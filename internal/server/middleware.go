package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mcp-mealdb/internal/logging"
)

const (
	headerRequestID = "X-Request-Id"
	ctxKeyRequestID = "requestID"
)

// requestIDMiddleware extracts or generates request IDs
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(ctxKeyRequestID, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}

// loggingMiddleware logs requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDFrom(c)

		logging.Debug("request started",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		c.Next()

		logging.Debug("request completed",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// metricsMiddleware records rate, errors and duration per route.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func logPanic(c *gin.Context, recovered any) {
	var errMsg string
	switch v := recovered.(type) {
	case error:
		errMsg = v.Error()
	default:
		errMsg = fmt.Sprintf("%v", v)
	}
	logging.Error("panic recovered",
		"error", errMsg,
		"requestID", requestIDFrom(c),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
}
