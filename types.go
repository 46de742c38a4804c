package legcosearch

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorCode represents specific error codes for search operations.
type ErrorCode int

const (
	// ErrCodeValidation is returned when caller input fails validation.
	ErrCodeValidation ErrorCode = iota + 1000

	// ErrCodeUnknownEndpoint is returned when a logical endpoint name is not
	// in the registry. This indicates internal misconfiguration, not bad
	// caller input.
	ErrCodeUnknownEndpoint

	// ErrCodeNetwork is returned when the upstream request fails at the
	// network level (DNS, connect, timeout).
	ErrCodeNetwork

	// ErrCodeHTTPStatus is returned when the upstream replies with a
	// non-2xx status.
	ErrCodeHTTPStatus

	// ErrCodeInvalidJSON is returned when the upstream JSON body cannot be
	// parsed.
	ErrCodeInvalidJSON
)

// String returns the human-readable string representation of the error code.
// This implements the fmt.Stringer interface.
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeValidation:
		return "invalid input"
	case ErrCodeUnknownEndpoint:
		return "unknown endpoint"
	case ErrCodeNetwork:
		return "network failure"
	case ErrCodeHTTPStatus:
		return "upstream rejected request"
	case ErrCodeInvalidJSON:
		return "invalid JSON payload"
	default:
		return "unknown error"
	}
}

// newErrorWithCode creates a new error with a code and message.
func newErrorWithCode(code ErrorCode, msg string) error {
	err := errors.New(msg)
	return errors.WithSecondaryError(err, errors.Newf("code: %d", int(code)))
}

// Common errors that can be returned by search operations. The structured
// errors below are marked with these so callers can classify with
// errors.Is and still extract fields with errors.As.
var (
	// ErrValidation is returned when caller input fails validation. No
	// network I/O happens after a validation failure.
	ErrValidation = newErrorWithCode(ErrCodeValidation, "legcosearch: invalid input")

	// ErrUnknownEndpoint is returned when a logical endpoint name is not
	// registered.
	ErrUnknownEndpoint = newErrorWithCode(ErrCodeUnknownEndpoint, "legcosearch: unknown endpoint")

	// ErrNetwork is returned when the upstream request fails at the network
	// level.
	ErrNetwork = newErrorWithCode(ErrCodeNetwork, "legcosearch: network failure")

	// ErrHTTPStatus is returned when the upstream replies with a non-2xx
	// status.
	ErrHTTPStatus = newErrorWithCode(ErrCodeHTTPStatus, "legcosearch: upstream rejected request")

	// ErrInvalidJSON is returned when the upstream JSON body cannot be
	// parsed.
	ErrInvalidJSON = newErrorWithCode(ErrCodeInvalidJSON, "legcosearch: invalid JSON payload")
)

// EnumError reports a value outside a field's allow-list.
type EnumError struct {
	Field   string
	Value   string
	Allowed []string
}

// Error implements the error interface for EnumError.
func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s: %q (allowed: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// NewEnumError creates a validation error for a value outside an allow-list.
func NewEnumError(field, value string, allowed []string) error {
	return errors.Mark(&EnumError{Field: field, Value: value, Allowed: allowed}, ErrValidation)
}

// DateError reports a date field that is not a valid YYYY-MM-DD date.
type DateError struct {
	Field string
	Value string
}

// Error implements the error interface for DateError.
func (e *DateError) Error() string {
	return fmt.Sprintf("invalid %s: %q (use YYYY-MM-DD)", e.Field, e.Value)
}

// NewDateError creates a validation error for a malformed date field.
func NewDateError(field, value string) error {
	return errors.Mark(&DateError{Field: field, Value: value}, ErrValidation)
}

// RangeError reports a numeric field outside its accepted range. A Max of
// zero means the field has no upper bound.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

// Error implements the error interface for RangeError.
func (e *RangeError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("invalid %s: %d (must be at least %d)", e.Field, e.Value, e.Min)
	}
	return fmt.Sprintf("invalid %s: %d (must be between %d and %d)", e.Field, e.Value, e.Min, e.Max)
}

// NewRangeError creates a validation error for an out-of-range numeric
// field. A max of zero means the field has no upper bound.
func NewRangeError(field string, value, min, max int) error {
	return errors.Mark(&RangeError{Field: field, Value: value, Min: min, Max: max}, ErrValidation)
}

// FormatError reports a result format that is neither "json" nor "xml".
type FormatError struct {
	Value string
}

// Error implements the error interface for FormatError.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid format: %q (must be %q or %q)", e.Value, FormatJSON, FormatXML)
}

// NewFormatError creates a validation error for an unsupported result
// format.
func NewFormatError(value string) error {
	return errors.Mark(&FormatError{Value: value}, ErrValidation)
}

// HTTPStatusError reports a non-2xx upstream reply. Body carries at most
// the first 200 characters of the upstream body.
type HTTPStatusError struct {
	Status int
	Body   string
}

// Error implements the error interface for HTTPStatusError.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Status, e.Body)
}

// NewHTTPStatusError creates an error for a non-2xx upstream reply.
func NewHTTPStatusError(status int, body string) error {
	return errors.Mark(&HTTPStatusError{Status: status, Body: body}, ErrHTTPStatus)
}

// NewNetworkError creates an error for a network-level failure. The message
// should already be truncated by the transport layer.
func NewNetworkError(msg string) error {
	return errors.Mark(errors.Newf("request error: %s", msg), ErrNetwork)
}

// NewInvalidJSONError creates an error for an unparseable upstream JSON
// body. The excerpt should already be truncated by the normalizer.
func NewInvalidJSONError(excerpt string) error {
	return errors.Mark(errors.Newf("invalid JSON response: %s", excerpt), ErrInvalidJSON)
}
