package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes here mirror the ones raised by the domain layer; anything
// unknown falls through to 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Input errors -> 400 Bad Request
	"INVALID_INPUT":      http.StatusBadRequest,
	"INVALID_QUANTITY":   http.StatusBadRequest,
	"INVALID_DISCOUNT":   http.StatusBadRequest,
	"INVALID_CUSTOMER":   http.StatusBadRequest,
	"INVALID_STAGE":      http.StatusBadRequest,
	"INDEX_OUT_OF_RANGE": http.StatusBadRequest,

	// Missing resources -> 404 Not Found
	"NOT_FOUND":         http.StatusNotFound,
	"SESSION_NOT_FOUND": http.StatusNotFound,
	"BATCH_NOT_FOUND":   http.StatusNotFound,

	// Stock conflicts -> 409 Conflict
	"OUT_OF_STOCK":       http.StatusConflict,
	"INSUFFICIENT_STOCK": http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"COMPLIANCE_VIOLATION": http.StatusUnprocessableEntity,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"EMPTY_ORDER":          http.StatusUnprocessableEntity,

	// The remote API broke its batch-ordering contract
	"BATCH_ORDER_VIOLATION": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
