package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by every bounded context.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidState     = "INVALID_STATE"
	CodeCurrencyMismatch = "CURRENCY_MISMATCH"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnauthorized     = "UNAUTHORIZED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so sentinel
// comparisons via errors.Is work on errors built with a custom message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput     = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState     = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrCurrencyMismatch = NewDomainError(CodeCurrencyMismatch, "Currencies do not match")
	ErrUnauthorized     = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
)

// NotFoundError reports a missing entity.
func NotFoundError(entity string, id fmt.Stringer) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %s not found", entity, id))
}

// InvalidStateError reports a transition whose precondition does not hold.
func InvalidStateError(message string) *DomainError {
	return NewDomainError(CodeInvalidState, message)
}

// CurrencyMismatchError reports arithmetic or assignment across currencies.
func CurrencyMismatchError(expected, actual string) *DomainError {
	return NewDomainError(CodeCurrencyMismatch,
		fmt.Sprintf("currency mismatch: expected %s, got %s", expected, actual))
}

// InvalidInputError reports malformed input rejected at a boundary.
func InvalidInputError(message string) *DomainError {
	return NewDomainError(CodeInvalidInput, message)
}

// ErrorCode returns the DomainError code carried by err, or "" if none.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries the given DomainError code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}
