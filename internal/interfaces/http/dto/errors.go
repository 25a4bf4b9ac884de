package dto

import "net/http"

// API error codes. Format: ERR_<DESCRIPTION>
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeUnauthorized    = "ERR_UNAUTHORIZED"
	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists   = "ERR_ALREADY_EXISTS"
	ErrCodeConflict        = "ERR_CONFLICT"
	ErrCodeSyncInProgress  = "ERR_SYNC_IN_PROGRESS"
	ErrCodeInvalidState    = "ERR_INVALID_STATE"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:   http.StatusConflict,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeSyncInProgress:  http.StatusConflict,
	ErrCodeInvalidState:    http.StatusUnprocessableEntity,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":          ErrCodeNotFound,
	"BRAND_NOT_FOUND":    ErrCodeNotFound,
	"CATEGORY_NOT_FOUND": ErrCodeNotFound,
	"QUERY_NOT_FOUND":    ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":  ErrCodeNotFound,
	"COUPON_NOT_FOUND":   ErrCodeNotFound,
	"OVERRIDE_NOT_FOUND": ErrCodeNotFound,
	"SYNC_RUN_NOT_FOUND": ErrCodeNotFound,

	"INVALID_INPUT":            ErrCodeInvalidInput,
	"INVALID_SLUG":             ErrCodeInvalidInput,
	"INVALID_QUERY_TEXT":       ErrCodeInvalidInput,
	"QUERY_BRAND_REQUIRED":     ErrCodeInvalidInput,
	"INVALID_EXTERNAL_ID":      ErrCodeInvalidInput,
	"COUPON_OVERRIDE_TOO_LONG": ErrCodeInvalidInput,
	"PROMOTION_NAME_EMPTY":     ErrCodeInvalidInput,
	"INVALID_PRODUCT_PRICE":    ErrCodeInvalidInput,
	"INVALID_TRIGGER":          ErrCodeInvalidInput,
	"UNKNOWN_REFERENCE":        ErrCodeInvalidInput,

	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"PRODUCT_EXISTS":   ErrCodeAlreadyExists,
	"SYNC_IN_PROGRESS": ErrCodeSyncInProgress,

	"INVALID_STATE":     ErrCodeInvalidState,
	"SYNC_RUN_TERMINAL": ErrCodeInvalidState,
	"UNAUTHORIZED":      ErrCodeUnauthorized,
}

// NormalizeErrorCode converts a domain error code to an API error code.
// Codes without a mapping are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
