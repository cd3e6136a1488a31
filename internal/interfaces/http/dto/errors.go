package dto

import "net/http"

// Error codes returned in the response envelope. These are the same codes
// carried by domain errors, so clients see one stable vocabulary.

// General error codes
const (
	// ErrCodeInternal is used for unexpected server-side failures
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeUpstreamFailure is used when a dependency (storage, database) fails
	ErrCodeUpstreamFailure = "UPSTREAM_FAILURE"
)

// Validation and input error codes
const (
	// ErrCodeValidation is used when request payload validation fails
	ErrCodeValidation = "VALIDATION_FAILED"
	// ErrCodeInvalidInput is used for malformed or unparseable input
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Authentication and authorization error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeInvalidCredentials is used when login credentials do not match
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeAccountLocked is used when the account is temporarily locked
	ErrCodeAccountLocked = "ACCOUNT_LOCKED"
	// ErrCodeAccountDeactivated is used when the account has been deactivated
	ErrCodeAccountDeactivated = "ACCOUNT_DEACTIVATED"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	// ErrCodeTokenRevoked is used when the auth token has been revoked
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
	// ErrCodeTokenMaxRefresh is used when a refresh token has aged out
	ErrCodeTokenMaxRefresh = "TOKEN_MAX_REFRESH"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when creating a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidTransition is used for illegal document status transitions
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	// ErrCodePreconditionFailed is used when an operation's precondition is unmet
	ErrCodePreconditionFailed = "PRECONDITION_FAILED"
	// ErrCodeInsufficientStock is used when bin stock cannot cover a movement
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeUpstreamFailure: http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR":  http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	"INVALID_PASSWORD":  http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeTokenMaxRefresh:    http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeAccountLocked:      http.StatusForbidden,
	ErrCodeAccountDeactivated: http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	"ALREADY_ACTIVE":     http.StatusConflict,
	"ALREADY_INACTIVE":   http.StatusConflict,

	// Business rule errors -> 403 Forbidden. The transition guard denied
	// the operation, same family as an authorization denial.
	ErrCodeInvalidTransition:  http.StatusForbidden,
	ErrCodePreconditionFailed: http.StatusForbidden,
	ErrCodeInsufficientStock:  http.StatusForbidden,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
