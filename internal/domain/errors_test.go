package domain

import (
	"errors"
	"testing"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *DomainError
		code ErrorCode
	}{
		{"todo not found", NewTodoNotFoundError("todo-1"), ErrCodeTodoNotFound},
		{"subtask not found", NewSubtaskNotFoundError("sub-1"), ErrCodeSubtaskNotFound},
		{"share not found", NewShareNotFoundError("todo-1", "bob"), ErrCodeShareNotFound},
		{"forbidden", NewForbiddenError("no access"), ErrCodeForbidden},
		{"unauthorized", NewUnauthorizedError("missing header"), ErrCodeUnauthorized},
		{"validation", NewValidationError([]string{"title is required"}), ErrCodeValidationFailed},
		{"conflict", NewConflictError("already shared"), ErrCodeConflict},
		{"internal", NewInternalError(errors.New("boom")), ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.Message == "" {
				t.Errorf("expected non-empty message")
			}
			if tt.err.Error() == "" {
				t.Errorf("expected non-empty Error() string")
			}
		})
	}
}

func TestValidationError_Context(t *testing.T) {
	err := NewValidationError([]string{"a", "b"})

	details, ok := err.Context["details"].([]string)
	if !ok {
		t.Fatalf("expected details in context, got %+v", err.Context)
	}
	if len(details) != 2 {
		t.Errorf("expected 2 details, got %d", len(details))
	}
}

func TestShareNotFoundError_Context(t *testing.T) {
	err := NewShareNotFoundError("todo-1", "bob")

	if err.Context["todo_id"] != "todo-1" {
		t.Errorf("expected todo_id in context, got %+v", err.Context)
	}
	if err.Context["user_id"] != "bob" {
		t.Errorf("expected user_id in context, got %+v", err.Context)
	}
}
