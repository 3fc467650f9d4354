package domain

import (
	"strings"
	"time"
)

// Role enumerates account roles. A user holds exactly one role; the
// many-roles model from earlier revisions is gone and must not come back.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleEmployee   Role = "EMPLOYEE"
)

// legacyRolePrefix appears on role names written by older revisions.
const legacyRolePrefix = "ROLE_"

// ParseRole normalizes a role name to its canonical bare form. The legacy
// "ROLE_" prefix and mixed case are accepted on input only; tokens and
// responses always carry the canonical form.
func ParseRole(name string) (Role, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.TrimPrefix(normalized, legacyRolePrefix)
	role := Role(normalized)
	if role.Valid() {
		return role, true
	}
	return "", false
}

// Valid reports whether the role is one of the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleEmployee:
		return true
	}
	return false
}

// User is the account record backing authentication and administration.
// PasswordHash is write-only from the API's perspective and never serialized.
// The two-factor columns exist in the schema but no flow reads them yet.
type User struct {
	ID               int64
	Username         string
	Email            string
	PasswordHash     string
	FirstName        *string
	LastName         *string
	DNI              *string
	DateOfBirth      *time.Time
	PhoneNumber      *string
	Enabled          bool
	TwoFactorSecret  *string
	TwoFactorEnabled bool
	Role             Role
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
