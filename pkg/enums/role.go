package enums

import (
	"fmt"
	"strings"
)

// Role is a store user's permissions role as carried in the credential
// payload. Matching is exact against the closed set; the legacy "ROLE_"
// authority prefix is stripped during parsing so a role literally named
// SUB_ADMIN can never pass as ADMIN.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleKitchen    Role = "KITCHEN"
)

var validRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleStaff,
	RoleKitchen,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Authority returns the role in the backend's Spring-style authority form.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// ParseRole converts a claim value into a Role, tolerating the backend's
// Spring-style "ROLE_" authority prefix. Matching after the strip is
// exact, so a lookalike such as "ROLE_SUB_ADMIN" is rejected.
func ParseRole(value string) (Role, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "ROLE_")
	for _, candidate := range validRoles {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
