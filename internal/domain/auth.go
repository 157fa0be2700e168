package domain

import "strings"

// AdminRole is the role name that grants elevated privileges everywhere.
// Role comparison is case-insensitive.
const AdminRole = "ADMIN"

// AuthContext is the immutable identity attached to every operation. It is
// constructed once at the transport boundary from trusted gateway headers and
// threaded through every service call; it is never persisted.
type AuthContext struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the context carries the admin role.
func (c AuthContext) IsAdmin() bool {
	return strings.EqualFold(c.Role, AdminRole)
}
