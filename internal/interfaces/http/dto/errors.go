package dto

import (
	"net/http"

	"github.com/cecagem/backoffice/internal/domain/shared"
)

// Error codes carried in the response envelope. Domain codes pass through
// unchanged; the rest are produced by the HTTP layer itself.
const (
	ErrCodeNotFound         = shared.CodeNotFound
	ErrCodeInvalidState     = shared.CodeInvalidState
	ErrCodeCurrencyMismatch = shared.CodeCurrencyMismatch
	ErrCodeInvalidInput     = shared.CodeInvalidInput
	ErrCodeUnauthorized     = shared.CodeUnauthorized

	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound    = "ROUTE_NOT_FOUND"
	ErrCodeServiceUnhealthy = "SERVICE_UNAVAILABLE"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeCurrencyMismatch: http.StatusUnprocessableEntity,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:    http.StatusNotFound,
	ErrCodeServiceUnhealthy: http.StatusServiceUnavailable,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
