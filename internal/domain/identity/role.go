package identity

import "strings"

// Role is the capability level of a back-office user
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleSeller     Role = "seller"
	RoleCustom     Role = "custom"
)

// ParseRole normalises a role name, reporting whether it is known
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// IsValid reports whether the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSeller, RoleCustom:
		return true
	}
	return false
}

// IsStaff reports whether the role operates stores and sales
func (r Role) IsStaff() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleSeller
}

// Assignable reports whether an admin may hand out the role.
// The superadmin role is only created by bootstrap.
func (r Role) Assignable() bool {
	return r == RoleAdmin || r == RoleSeller || r == RoleCustom
}

// RoleAllowed is the capability check behind every role gate.
// Superadmin passes every gate; an empty allow list admits any known role.
func RoleAllowed(role Role, allowed ...Role) bool {
	if !role.IsValid() {
		return false
	}
	if role == RoleSuperAdmin || len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Common role sets used by route gates
var (
	AdminRoles = []Role{RoleSuperAdmin, RoleAdmin}
	StaffRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleSeller}
)
