package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_FAILED error listing the offending fields
func NewValidationError(message string, fields ...string) *DomainError {
	if len(fields) > 0 {
		message = fmt.Sprintf("%s: %v", message, fields)
	}
	return NewDomainError("VALIDATION_FAILED", message)
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConflict           = NewDomainError("CONFLICT", "Resource was modified by another process")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden          = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidTransition  = NewDomainError("INVALID_TRANSITION", "Status change not allowed from current status")
	ErrPreconditionFailed = NewDomainError("PRECONDITION_FAILED", "Document is locked and cannot be modified")
	ErrInsufficientStock  = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrUpstreamFailure    = NewDomainError("UPSTREAM_FAILURE", "Upstream dependency failed")
)
