package domain

import "fmt"

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeTodoNotFound     ErrorCode = "TODO_NOT_FOUND"
	ErrCodeSubtaskNotFound  ErrorCode = "SUBTASK_NOT_FOUND"
	ErrCodeShareNotFound    ErrorCode = "SHARE_NOT_FOUND"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents an error in the domain layer with context.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewTodoNotFoundError creates a todo not found error.
func NewTodoNotFoundError(todoID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeTodoNotFound,
		Message: fmt.Sprintf("Todo %s not found", todoID),
		Context: map[string]interface{}{"id": todoID},
	}
}

// NewSubtaskNotFoundError creates a subtask not found error.
func NewSubtaskNotFoundError(subtaskID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeSubtaskNotFound,
		Message: fmt.Sprintf("Subtask %s not found", subtaskID),
		Context: map[string]interface{}{"id": subtaskID},
	}
}

// NewShareNotFoundError creates a share not found error for a (todo, user)
// pair.
func NewShareNotFoundError(todoID, userID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeShareNotFound,
		Message: "Share not found for this user",
		Context: map[string]interface{}{
			"todo_id": todoID,
			"user_id": userID,
		},
	}
}

// NewForbiddenError creates a forbidden error with the given message.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeForbidden,
		Message: message,
		Context: map[string]interface{}{},
	}
}

// NewUnauthorizedError creates an unauthorized error. Raised only at the
// transport boundary when identity headers are missing or malformed.
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Context: map[string]interface{}{},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Context: map[string]interface{}{"details": details},
	}
}

// NewConflictError creates a conflict error with the given message.
func NewConflictError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeConflict,
		Message: message,
		Context: map[string]interface{}{},
	}
}

// NewInternalError creates an internal error. The underlying error is not
// exposed to callers.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
		Context: map[string]interface{}{},
	}
}
