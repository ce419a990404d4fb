package errors

import (
	stderrors "errors"
)

// Error codes
const (
	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeInvalidFormat = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"

	// Business logic errors
	ErrCodeInvalidStatus    = "INVALID_STATUS"
	ErrCodeInvalidOperation = "INVALID_OPERATION"

	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Error is a coded error. Errors created with Newf unwrap to the kind they
// were derived from, so errors.Is(err, ErrNotFound) matches every not-found
// error regardless of its message.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`

	kind *Error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the kind e was derived from, if any.
func (e *Error) Unwrap() error {
	if e.kind == nil {
		return nil
	}
	return e.kind
}

// New creates a new error kind
func New(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf derives a specific error from kind.
func Newf(kind *Error, message string) *Error {
	return &Error{
		Code:    kind.Code,
		Message: message,
		kind:    kind,
	}
}

// WithDetails derives a specific error from kind carrying details.
func WithDetails(kind *Error, message string, details interface{}) *Error {
	return &Error{
		Code:    kind.Code,
		Message: message,
		Details: details,
		kind:    kind,
	}
}

// Kinds
var (
	ErrForbidden        = New(ErrCodeForbidden, "access denied")
	ErrValidation       = New(ErrCodeInvalidInput, "invalid input")
	ErrNotFound         = New(ErrCodeNotFound, "resource not found")
	ErrInvalidStatus    = New(ErrCodeInvalidStatus, "invalid status")
	ErrInvalidOperation = New(ErrCodeInvalidOperation, "invalid operation")
)

// CodeOf returns the code of the first *Error in err's chain, or
// ErrCodeInternalError when there is none.
func CodeOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternalError
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return stderrors.Is(err, ErrValidation)
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}
