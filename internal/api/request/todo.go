package request

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/todohub/todohub/internal/domain"
)

// SubtaskRequest represents one subtask in a todo payload. A supplied id
// addresses an existing subtask; without one the subtask is new.
type SubtaskRequest struct {
	ID        *string `json:"id,omitempty"`
	Title     string  `json:"title"`
	Completed *bool   `json:"completed,omitempty"`
}

// Validate validates the subtask request.
func (r *SubtaskRequest) Validate() []string {
	var errors []string

	if r.Title == "" {
		errors = append(errors, "subtask title is required")
	}

	return errors
}

// TodoRequest represents a request to create or fully replace a todo.
type TodoRequest struct {
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	Completed   *bool             `json:"completed,omitempty"`
	UserID      *string           `json:"user_id,omitempty"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	RemindAt    *time.Time        `json:"remind_at,omitempty"`
	Priority    *string           `json:"priority,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Subtasks    []*SubtaskRequest `json:"subtasks,omitempty"`
}

// Validate validates the todo request.
func (r *TodoRequest) Validate() []string {
	var errors []string

	if r.Title == "" {
		errors = append(errors, "title is required")
	}

	if r.Priority != nil && !domain.Priority(*r.Priority).IsValid() {
		errors = append(errors, "priority must be one of LOW, MEDIUM, HIGH")
	}

	return errors
}

// TodoPatchRequest represents a partial update. Absent fields leave the
// stored values untouched.
type TodoPatchRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Completed   *bool             `json:"completed,omitempty"`
	UserID      *string           `json:"user_id,omitempty"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	RemindAt    *time.Time        `json:"remind_at,omitempty"`
	Priority    *string           `json:"priority,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Subtasks    []*SubtaskRequest `json:"subtasks,omitempty"`
}

// Validate validates the patch request.
func (r *TodoPatchRequest) Validate() []string {
	var errors []string

	if r.Title != nil && *r.Title == "" {
		errors = append(errors, "title cannot be empty")
	}

	if r.Priority != nil && !domain.Priority(*r.Priority).IsValid() {
		errors = append(errors, "priority must be one of LOW, MEDIUM, HIGH")
	}

	return errors
}

// SubtaskPatchRequest represents a partial update of one subtask.
type SubtaskPatchRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Validate validates the subtask patch request.
func (r *SubtaskPatchRequest) Validate() []string {
	var errors []string

	if r.Title != nil && *r.Title == "" {
		errors = append(errors, "subtask title cannot be empty")
	}

	return errors
}

// DecodeJSON decodes JSON from request body into the given value.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
