package registry

import (
	"fmt"
	"strings"
)

// transportErrorPrefix starts every TransportError message.
const transportErrorPrefix = "Registry API error: "

// ValidationError reports caller-supplied arguments that are insufficient or
// malformed. It is detected before any network call and never retried.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TransportError reports a network failure, a timeout, or a non-2xx status
// from the registry. It is never retried automatically.
type TransportError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Detail is the registry's "detail" field, the raw body, or the cause message.
	Detail string

	// Cause is the underlying transport error, if any.
	Cause error
}

// Error implements the error interface.
//
// Formats:
//
//	Registry API error: HTTP 404: not found
//	Registry API error: HTTP 502
//	Registry API error: dial tcp: connection refused
func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString(transportErrorPrefix)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "HTTP %d", e.StatusCode)
		if e.Detail != "" {
			b.WriteString(": ")
			b.WriteString(e.Detail)
		}
		return b.String()
	}
	switch {
	case e.Detail != "":
		b.WriteString(e.Detail)
	case e.Cause != nil:
		b.WriteString(e.Cause.Error())
	default:
		b.WriteString("unknown transport failure")
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NotFound reports whether the registry answered 404.
func (e *TransportError) NotFound() bool {
	return e.StatusCode == 404
}

// DispatchError reports a failure at the tool dispatcher boundary, such as
// an unknown tool name or a missing required argument.
type DispatchError struct {
	Message string
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return e.Message
}

// UnknownToolError builds the DispatchError for an unrecognized tool name.
func UnknownToolError(name string) *DispatchError {
	return &DispatchError{Message: "Unknown tool: " + name}
}

// MissingArgumentError builds the DispatchError for an absent required argument.
func MissingArgumentError(tool, arg string) *DispatchError {
	return &DispatchError{Message: fmt.Sprintf("tool %s: missing required argument %q", tool, arg)}
}

// InvalidArgumentsError builds the DispatchError for arguments rejected
// before routing.
func InvalidArgumentsError(tool string, err error) *DispatchError {
	return &DispatchError{Message: fmt.Sprintf("tool %s: invalid arguments: %v", tool, err)}
}
