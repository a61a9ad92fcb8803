// Package domainerrors provides coded errors for the domain and service
// layers. Stores return sentinel errors (pkg/platform/sentinel); services
// translate them into coded errors so transports can map codes to status
// codes without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers and transports.
type Code string

const (
	// CodeValidation marks caller input that fails domain validation.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks malformed input at a trust boundary (parse failures).
	CodeInvalidInput Code = "invalid_input"
	// CodeInvariantViolation marks a domain constructor rejecting bad state.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeBadRequest marks requests that cannot be processed as sent.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks lookups for entities that do not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict marks uniqueness or concurrent-update conflicts.
	CodeConflict Code = "conflict"
	// CodeConfiguration marks misconfiguration (unsupported award/level).
	// These are operator faults, never compliance findings.
	CodeConfiguration Code = "configuration"
	// CodeUnavailable marks a dependency that is down or unreachable.
	CodeUnavailable Code = "unavailable"
	// CodeRateLimited marks callers sending requests faster than allowed.
	CodeRateLimited Code = "rate_limited"
	// CodeTimeout marks operations cancelled by deadline or context.
	CodeTimeout Code = "timeout"
	// CodeInternal marks unexpected faults; details are never exposed to clients.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It wraps an optional cause so errors.Is and
// errors.As keep working across layers.
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

// New constructs a coded error without a cause.
func New(code Code, message string) error {
	return &Error{ErrCode: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{ErrCode: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{ErrCode: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.ErrCode == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal when err is not a
// coded error. Callers use this at transport boundaries.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.ErrCode
	}
	return CodeInternal
}

// MessageOf returns the safe, user-facing message for err. Internal errors
// return an empty message so details never leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.ErrCode != CodeInternal {
		return e.Message
	}
	return ""
}
