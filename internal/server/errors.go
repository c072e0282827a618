package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mcp-mealdb/internal/errors"
)

// Transport-level error codes. Tool failures use the apperrors.Kind string.
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeUnknownTool    = "UNKNOWN_TOOL"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	Retryable bool      `json:"retryable"`
}

// HTTPStatusFromKind maps a tool error kind to an HTTP status.
func HTTPStatusFromKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidArgument:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUpstreamStatus, apperrors.KindUpstreamPayload:
		return http.StatusBadGateway
	case apperrors.KindUpstreamNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// retryable reports whether the same call may succeed later: network
// failures, and upstream 5xx or 429 responses.
func retryable(err error) bool {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return false
	}

	switch appErr.Kind {
	case apperrors.KindUpstreamNetwork:
		return true
	case apperrors.KindUpstreamStatus:
		return appErr.StatusCode >= http.StatusInternalServerError || appErr.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// writeError writes error response
func (s *MealDBServer) writeError(c *gin.Context, statusCode int, code, message string, canRetry bool) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: requestIDFrom(c),
		Timestamp: time.Now().UTC(),
		Retryable: canRetry,
	})
}

// writeToolError classifies err and writes it with its message unchanged.
func (s *MealDBServer) writeToolError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	if kind == "" {
		s.writeError(c, http.StatusInternalServerError, ErrCodeInternalError, err.Error(), false)
		return
	}
	s.writeError(c, HTTPStatusFromKind(kind), string(kind), err.Error(), retryable(err))
}

func (s *MealDBServer) recoverPanic(c *gin.Context, recovered any) {
	panicRecoveries.Inc()
	logPanic(c, recovered)
	s.writeError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error", true)
}
