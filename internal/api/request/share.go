package request

import "github.com/todohub/todohub/internal/domain"

// ShareRequest represents a request to grant a user access to a todo.
type ShareRequest struct {
	SharedWithUserID string `json:"shared_with_user_id"`
	Permission       string `json:"permission"`
}

// Validate validates the share request.
func (r *ShareRequest) Validate() []string {
	var errors []string

	if r.SharedWithUserID == "" {
		errors = append(errors, "shared_with_user_id is required")
	}

	if r.Permission == "" {
		errors = append(errors, "permission is required")
	} else if !domain.SharePermission(r.Permission).IsValid() {
		errors = append(errors, "permission must be one of VIEW, EDIT")
	}

	return errors
}

// ShareUpdateRequest represents a request to change the permission on an
// existing share.
type ShareUpdateRequest struct {
	Permission string `json:"permission"`
}

// Validate validates the share update request.
func (r *ShareUpdateRequest) Validate() []string {
	var errors []string

	if r.Permission == "" {
		errors = append(errors, "permission is required")
	} else if !domain.SharePermission(r.Permission).IsValid() {
		errors = append(errors, "permission must be one of VIEW, EDIT")
	}

	return errors
}
