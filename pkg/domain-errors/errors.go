// Package domainerrors provides the code-based error taxonomy shared by all
// services. Services construct errors with New or Wrap; handlers translate
// them to HTTP statuses with ToHTTPStatus and match on codes with Is.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of failure independent of transport.
type Code string

const (
	// CodeBadRequest covers malformed payloads and unparseable parameters.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidFilter covers semantically invalid filter selections:
	// year ranges with from > to, unknown region or technique names.
	CodeInvalidFilter Code = "invalid_filter"
	// CodeNotFound covers missing sessions and snapshots.
	CodeNotFound Code = "not_found"
	// CodeTimeout covers context cancellation and deadline expiry.
	CodeTimeout Code = "timeout"
	// CodeUnavailable covers optional backends that are not configured or
	// not reachable (archive database, redis).
	CodeUnavailable Code = "unavailable"
	// CodeInternal is the fallback for unexpected failures.
	CodeInternal Code = "internal"
)

// Error is the concrete domain error. Message is safe to log; it must not
// carry user data beyond the offending filter values.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap annotates err with a code and message while keeping the chain intact
// for errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in this package.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status. Unknown codes map to 500 so a
// forgotten mapping fails loud in tests rather than leaking a 200.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeInvalidFilter:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
