package domain

import "time"

// SharePermission represents the level of delegated access a share grants.
type SharePermission string

const (
	PermissionView SharePermission = "VIEW"
	PermissionEdit SharePermission = "EDIT"
)

// ValidPermissions contains all valid share permission values.
var ValidPermissions = []SharePermission{PermissionView, PermissionEdit}

// IsValid checks if the permission is a valid share permission.
func (p SharePermission) IsValid() bool {
	for _, v := range ValidPermissions {
		if p == v {
			return true
		}
	}
	return false
}

// TodoShare is a grant of delegated access from a todo's owner to another
// user. At most one share exists per (todo, user) pair.
type TodoShare struct {
	ID               string          `json:"id"`
	TodoID           string          `json:"todo_id"`
	SharedWithUserID string          `json:"shared_with_user_id"`
	Permission       SharePermission `json:"permission"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}
