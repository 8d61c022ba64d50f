package domain

import (
	"strings"
	"time"
)

// Role is the single role an account holds.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleLecturer Role = "LECTURER"
	RoleStudent  Role = "STUDENT"
)

// AuthorityPrefix is prepended to a role name to form its granted authority.
const AuthorityPrefix = "ROLE_"

var knownRoles = []Role{RoleAdmin, RoleLecturer, RoleStudent}

// ParseRole maps s to a known role, ignoring case.
func ParseRole(s string) (Role, bool) {
	for _, r := range knownRoles {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

// Authority returns the authority string a token carries for this role.
func (r Role) Authority() string {
	return AuthorityPrefix + string(r)
}

// Account is the user account aggregate.
type Account struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	StudentNumber *string   `json:"studentNumber,omitempty"`
	StaffNumber   *string   `json:"staffNumber,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ChangeRole sets the role and clears every number the new role may not hold.
func (a *Account) ChangeRole(r Role) {
	a.Role = r
	if r != RoleLecturer {
		a.StaffNumber = nil
	}
	if r != RoleStudent {
		a.StudentNumber = nil
	}
}
