package dto

import "net/http"

// Error code constants, format ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	ErrCodeUnauthorized  = "ERR_UNAUTHORIZED"
	ErrCodeForbidden     = "ERR_FORBIDDEN"
	ErrCodeTokenExpired  = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid  = "ERR_TOKEN_INVALID"
	ErrCodeReauthNeeded  = "ERR_REAUTH_REQUIRED"
	ErrCodeBadCredential = "ERR_INVALID_CREDENTIALS"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState    = "ERR_INVALID_STATE"
	ErrCodeBusinessRule    = "ERR_BUSINESS_RULE"
	ErrCodeUnitOccupied    = "ERR_UNIT_OCCUPIED"
	ErrCodeOccupancyLocked = "ERR_OCCUPANCY_LOCKED"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeTokenExpired:  http.StatusUnauthorized,
	ErrCodeTokenInvalid:  http.StatusUnauthorized,
	ErrCodeBadCredential: http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeReauthNeeded:  http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:    http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:    http.StatusUnprocessableEntity,
	ErrCodeUnitOccupied:    http.StatusConflict,
	ErrCodeOccupancyLocked: http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code, defaulting
// to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to wire error codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"UNAUTHORIZED":              ErrCodeUnauthorized,
	"FORBIDDEN":                 ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":      ErrCodeConcurrencyConflict,
	"UNIT_OCCUPIED":             ErrCodeUnitOccupied,
	"UNITS_OCCUPIED":            ErrCodeUnitOccupied,
	"OCCUPANCY_LOCKED":          ErrCodeOccupancyLocked,
	"INVALID_CREDENTIALS":       ErrCodeBadCredential,
	"ACCOUNT_DISABLED":          ErrCodeForbidden,
	"INVALID_PROPERTY":          ErrCodeInvalidInput,
	"INVALID_UNIT":              ErrCodeInvalidInput,
	"INVALID_UNIT_STATUS":       ErrCodeInvalidState,
	"INVALID_FEE_POLICY":        ErrCodeInvalidInput,
	"INVALID_TENANT":            ErrCodeInvalidInput,
	"INVALID_TENANT_STATE":      ErrCodeInvalidState,
	"INVALID_APPLICATION":       ErrCodeInvalidInput,
	"INVALID_APPLICATION_STATE": ErrCodeInvalidState,
	"INVALID_LANDLORD":          ErrCodeInvalidInput,
	"INVALID_PAYMENT":           ErrCodeInvalidInput,
	"INVALID_PAYMENT_STATE":     ErrCodeInvalidState,
	"INVALID_CALLBACK":          ErrCodeBadRequest,
	"INVALID_USER":              ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Codes already in the wire format, or unknown ones, pass through as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := domainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
