package requests

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid request client configuration")
	// ErrMissingBody indicates a POST or PUT request was composed without a body
	ErrMissingBody = errors.New("a body for the POST/PUT request was not provided")
	// ErrFormBody indicates a body that cannot be form encoded
	ErrFormBody = errors.New("form body must be a flat string-keyed map")

	// ErrUnauthorized matches a StatusError with status 401
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches a StatusError with status 404
	ErrNotFound = errors.New("not found")
	// ErrConflict matches a StatusError with status 409
	ErrConflict = errors.New("conflict")
	// ErrServiceUnavailable matches a StatusError with status 503
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ErrorKind is the closed set of classifications for a non-2xx response.
type ErrorKind int

const (
	// KindGeneric is any status without a dedicated kind
	KindGeneric ErrorKind = iota
	// KindUnauthorized is HTTP 401
	KindUnauthorized
	// KindNotFound is HTTP 404
	KindNotFound
	// KindConflict is HTTP 409
	KindConflict
	// KindServiceUnavailable is HTTP 503
	KindServiceUnavailable
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServiceUnavailable:
		return "service_unavailable"
	default:
		return "generic"
	}
}

// kindForStatus maps an HTTP status to its ErrorKind
func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusServiceUnavailable:
		return KindServiceUnavailable
	default:
		return KindGeneric
	}
}

// StatusError signals a response with a non-successful status code.
// It is only built by Classify.
type StatusError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: status %d", e.Status)
	}
	return fmt.Sprintf("request failed: status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is match the status sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrServiceUnavailable:
		return e.Kind == KindServiceUnavailable
	default:
		return false
	}
}

// IsUnauthorized checks if the error is a 401
func (e *StatusError) IsUnauthorized() bool {
	return e.Kind == KindUnauthorized
}

// IsNotFound checks if the error is a 404
func (e *StatusError) IsNotFound() bool {
	return e.Kind == KindNotFound
}

// IsConflict checks if the error is a 409
func (e *StatusError) IsConflict() bool {
	return e.Kind == KindConflict
}

// IsServiceUnavailable checks if the error is a 503
func (e *StatusError) IsServiceUnavailable() bool {
	return e.Kind == KindServiceUnavailable
}

// ConnectionError signals that no usable response could be obtained: the
// transport failed before a status was available, or a successful body could
// not be decoded.
type ConnectionError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ValidationError is a local programmer error raised before the transport
// is called. It must not be retried.
type ValidationError struct {
	Method Method
	Err    error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s request: %v", e.Method, e.Err)
}

// Unwrap returns the underlying cause
func (e *ValidationError) Unwrap() error {
	return e.Err
}
