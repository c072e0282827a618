// Package errors classifies every failure a tool call can surface.
//
// A tool call either succeeds with a complete envelope or fails with exactly
// one *Error. The Kind lets the transport branch (status code, retry hint)
// while the Message is passed through to the caller verbatim.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is the closed set of tool failure classes.
type Kind string

const (
	// KindInvalidArgument means a required argument was empty after trimming.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	// KindUpstreamStatus means upstream answered with a non-success HTTP status.
	KindUpstreamStatus Kind = "UPSTREAM_STATUS"
	// KindUpstreamNetwork means upstream could not be reached (DNS, connect, timeout).
	KindUpstreamNetwork Kind = "UPSTREAM_NETWORK"
	// KindUpstreamPayload means upstream answered with something other than the expected object.
	KindUpstreamPayload Kind = "UPSTREAM_PAYLOAD"
	// KindNotFound means a well-formed lookup matched no record.
	KindNotFound Kind = "NOT_FOUND"
)

// Error is a classified tool failure. Endpoint and StatusCode are set only for
// the upstream kinds that carry them.
type Error struct {
	Kind       Kind
	Message    string
	Endpoint   string
	StatusCode int
	Cause      error
}

// Error implements the error interface. The message is returned as-is so the
// host can show it to the agent unchanged.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// InvalidArgument reports an unusable tool argument.
func InvalidArgument(message string) *Error {
	return &Error{
		Kind:    KindInvalidArgument,
		Message: message,
	}
}

// NotFound reports a lookup with no matching record.
func NotFound(message string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: message,
	}
}

// UpstreamStatus reports a non-success HTTP status returned for endpoint.
func UpstreamStatus(endpoint string, statusCode int) *Error {
	return &Error{
		Kind:       KindUpstreamStatus,
		Message:    fmt.Sprintf("upstream returned status %d for %s", statusCode, endpoint),
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
}

// UpstreamNetwork reports a transport-level failure while calling endpoint.
func UpstreamNetwork(endpoint string, cause error) *Error {
	return &Error{
		Kind:     KindUpstreamNetwork,
		Message:  fmt.Sprintf("network error while contacting upstream for %s: %v", endpoint, cause),
		Endpoint: endpoint,
		Cause:    cause,
	}
}

// UpstreamPayload reports a response body that is not the expected JSON object.
func UpstreamPayload(endpoint string, cause error) *Error {
	return &Error{
		Kind:     KindUpstreamPayload,
		Message:  "unexpected response payload from upstream",
		Endpoint: endpoint,
		Cause:    cause,
	}
}

// UpstreamPayloadf reports upstream misbehavior with a custom message.
func UpstreamPayloadf(endpoint, format string, args ...any) *Error {
	return &Error{
		Kind:     KindUpstreamPayload,
		Message:  fmt.Sprintf(format, args...),
		Endpoint: endpoint,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
