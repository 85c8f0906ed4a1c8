package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError by code and message so that wrapped
// sentinels compare equal after NewDomainErrorWithCause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidCursor        = NewDomainError(ErrCodeValidation, "invalid pagination cursor")
	ErrInvalidLimit         = NewDomainError(ErrCodeValidation, "invalid limit")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrPrincipalNotFound  = NewDomainError(ErrCodeNotFound, "principal not found")
	ErrUnknownModule      = NewDomainError(ErrCodeNotFound, "unknown search module")
	ErrSuggestionNotFound = NewDomainError(ErrCodeNotFound, "suggestion not found")
)

// Authorization errors
var (
	ErrUnauthenticated   = NewDomainError(ErrCodeUnauthorized, "missing authenticated principal")
	ErrPrincipalInactive = NewDomainError(ErrCodeUnauthorized, "principal is inactive")
)

// Search errors
var (
	ErrSearchBackend = NewDomainError(ErrCodeInternalError, "search backend failed")
)
