package errors

import (
	"errors"
	"fmt"

	"github.com/tendric/steamauth/pkg/authapi"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes surfaced by the authentication session engine
const (
	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Start-call errors
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"

	// Guard errors
	ErrCodeUnsupportedConfirmationType ErrorCode = "UNSUPPORTED_CONFIRMATION_TYPE"
	ErrCodeGuardCodeMismatch           ErrorCode = "GUARD_CODE_MISMATCH"
	ErrCodeGuardAlreadySatisfied       ErrorCode = "GUARD_ALREADY_SATISFIED"

	// Session lifecycle errors
	ErrCodeSessionExpired ErrorCode = "SESSION_EXPIRED"
	ErrCodeSessionDenied  ErrorCode = "SESSION_DENIED"
	ErrCodeTimedOut       ErrorCode = "TIMED_OUT"
	ErrCodeCancelled      ErrorCode = "CANCELLED"

	// Delivery errors
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
)

// Error represents a structured error with code, message, and optional details
type Error struct {
	Code    ErrorCode              // Unique error code
	Message string                 // Human-readable error message
	Result  authapi.EResult        // Server result code, when one was received
	Details map[string]interface{} // Optional additional details
	Err     error                  // Wrapped underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithResult attaches the server result code to the error
func (e *Error) WithResult(result authapi.EResult) *Error {
	e.Result = result
	return e
}

// Terminal reports whether the error ends the session. Transport errors,
// rate limits and code mismatches are retryable; everything else in the
// taxonomy is final.
func (e *Error) Terminal() bool {
	switch e.Code {
	case ErrCodeTransport, ErrCodeRateLimited, ErrCodeGuardCodeMismatch:
		return false
	default:
		return true
	}
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrapf wraps an existing error with code and formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
// Returns ErrCodeInternal if the error is not a structured Error
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// GetResult extracts the server result code from an error, if any
func GetResult(err error) authapi.EResult {
	var e *Error
	if errors.As(err, &e) {
		return e.Result
	}
	return authapi.EResultInvalid
}

// IsRetryable reports whether the caller may retry the failed operation.
// Structured errors answer from their code; anything else is assumed
// terminal.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return !e.Terminal()
	}
	return false
}

// FromEResult maps a non-OK server result code onto the engine's error
// taxonomy. It returns nil for EResultOK.
func FromEResult(result authapi.EResult, message string) *Error {
	if result == authapi.EResultOK {
		return nil
	}
	if message == "" {
		message = result.String()
	}
	return &Error{
		Code:    mapEResult(result),
		Message: message,
		Result:  result,
	}
}

func mapEResult(result authapi.EResult) ErrorCode {
	switch result {
	case authapi.EResultInvalidPassword, authapi.EResultAccountNotFound:
		return ErrCodeInvalidCredentials
	case authapi.EResultRateLimitExceeded, authapi.EResultAccountLoginDeniedThrottle:
		return ErrCodeRateLimited
	case authapi.EResultInvalidLoginAuthCode, authapi.EResultTwoFactorCodeMismatch:
		return ErrCodeGuardCodeMismatch
	case authapi.EResultExpired, authapi.EResultRevoked, authapi.EResultFileNotFound:
		return ErrCodeSessionExpired
	case authapi.EResultAccessDenied:
		return ErrCodeSessionDenied
	case authapi.EResultTimeout:
		return ErrCodeTimedOut
	case authapi.EResultServiceUnavailable, authapi.EResultBusy:
		return ErrCodeTransport
	case authapi.EResultInvalidParam:
		return ErrCodeInvalidInput
	default:
		return ErrCodeInternal
	}
}

// Common error constructors for frequently used errors

// InvalidInput creates an "invalid input" error
func InvalidInput(field, reason string) *Error {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason))
}

// Transport wraps a delivery failure
func Transport(err error, message string) *Error {
	return Wrap(err, ErrCodeTransport, message)
}

// Internal creates an "internal error"
func Internal(message string) *Error {
	return New(ErrCodeInternal, message)
}

// Cancelled creates a caller-initiated cancellation error
func Cancelled() *Error {
	return New(ErrCodeCancelled, "session cancelled by caller")
}

// TimedOut creates a caller-deadline error, distinct from a server-declared
// session expiry
func TimedOut() *Error {
	return New(ErrCodeTimedOut, "caller deadline exceeded")
}
