// Package session carries the caller's identity from the auth layer to the
// projections.
package session

import "errors"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleManager    Role = "manager"
	RoleTenant     Role = "tenant"
)

var ErrNoIdentity = errors.New("no identity in context")

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleTenant:
		return true
	}
	return false
}

// Identity is the active user as the projections see it. For managers ID is
// the Manager row id.
type Identity struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// IsStaff reports whether the identity may review payments.
func (i Identity) IsStaff() bool {
	return i.Role == RoleSuperAdmin || i.Role == RoleManager
}
