// Package domainerrors defines the coded error type used across formdesk.
//
// Services and domain models return coded errors; stores return sentinel
// errors (pkg/platform/sentinel) that services translate. Transport layers
// map codes to HTTP statuses via ToHTTPStatus and never inspect messages.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for callers that branch on failure kind.
type Code string

const (
	// CodeValidation marks malformed creation or update input: empty form
	// names, unrecognized type aliases, schema nodes that cannot be decoded.
	CodeValidation Code = "validation"

	// CodeInvalidInput marks a value that failed boundary parsing (IDs,
	// enum aliases). Kept distinct from CodeValidation so handlers can
	// report which field was unusable rather than which rule was violated.
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks a request body that could not be decoded at all.
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks a reference to a record that does not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a cardinality violation: a constrained form type
	// already has a live holder.
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks a domain invariant broken by a state
	// transition. Surfaced by models, usually converted to CodeConflict or
	// CodeValidation before reaching transport.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Construct with New or Wrap.
type Error struct {
	ErrCode Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.ErrCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the error's classification code.
func (e *Error) Code() Code { return e.ErrCode }

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{ErrCode: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{ErrCode: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/As inspection.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{ErrCode: code, Message: message, Err: err}
}

// coder lets foreign error types participate in code matching without
// wrapping an *Error. Registry conflict errors use this to carry the
// current holder alongside a CodeConflict classification.
type coder interface {
	Code() Code
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		if c, ok := err.(coder); ok && c.Code() == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Is is a readability alias for HasCode, matching how handlers phrase
// their branching: dErrors.Is(err, dErrors.CodeNotFound).
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in err's chain, or CodeInternal when no
// coded error is present.
func CodeOf(err error) Code {
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		err = errors.Unwrap(err)
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status the transport layer writes.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
