package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
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
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	ErrCodeBadRequest    = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput  = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON   = "ERR_INVALID_JSON"
	ErrCodeTooLarge      = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited   = "ERR_RATE_LIMITED"
	ErrCodeUpstreamError = "ERR_UPSTREAM"
)

// Domain error codes that keep their own name on the wire
const (
	CodeInvalidFiscalYearLabel = "INVALID_FISCAL_YEAR_LABEL"
	CodeCategoryNotFound       = "CATEGORY_NOT_FOUND"
	CodeInvalidRate            = "INVALID_RATE"
	CodeUnknownMethod          = "UNKNOWN_DEPRECIATION_METHOD"
	CodeSnapshotMissing        = "SNAPSHOT_MISSING"
	CodeUserNotFound           = "USER_NOT_FOUND"
	CodeEmailExists            = "EMAIL_EXISTS"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeAccountDeactivated     = "ACCOUNT_DEACTIVATED"
	CodeInvalidEmail           = "INVALID_EMAIL"
	CodeInvalidPassword        = "INVALID_PASSWORD"
	CodeUploadURLFailed        = "UPLOAD_URL_FAILED"
	CodeInvalidResetCode       = "INVALID_RESET_CODE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidJSON:   http.StatusBadRequest,
	ErrCodeTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:   http.StatusTooManyRequests,
	ErrCodeUpstreamError: http.StatusBadGateway,

	CodeInvalidFiscalYearLabel: http.StatusBadRequest,
	CodeCategoryNotFound:       http.StatusNotFound,
	CodeInvalidRate:            http.StatusBadRequest,
	CodeUnknownMethod:          http.StatusBadRequest,
	CodeSnapshotMissing:        http.StatusInternalServerError,
	CodeUserNotFound:           http.StatusNotFound,
	CodeEmailExists:            http.StatusConflict,
	CodeInvalidCredentials:     http.StatusUnauthorized,
	CodeAccountDeactivated:     http.StatusForbidden,
	CodeInvalidEmail:           http.StatusBadRequest,
	CodeInvalidPassword:        http.StatusBadRequest,
	CodeUploadURLFailed:        http.StatusBadGateway,
	CodeInvalidResetCode:       http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps the generic domain error codes to the
// standardized wire codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":        ErrCodeValidation,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"PASSWORD_HASH_ERROR":     ErrCodeInternal,
	"INVALID_QUANTITY":        ErrCodeInvalidInput,
	"INVALID_CONVERSION_RATE": ErrCodeInvalidInput,
	"TOKEN_EXPIRED":           ErrCodeTokenExpired,
	"TOKEN_INVALID":           ErrCodeTokenInvalid,
	"TOKEN_REVOKED":           ErrCodeTokenRevoked,
}

// NormalizeErrorCode converts a generic domain code to the standardized format.
// Domain-specific codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
