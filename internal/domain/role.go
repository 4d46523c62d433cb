package domain

import "strings"

// Role is the closed set of account roles
type Role string

const (
	RoleStandard Role = "standard" // Regular wallet holder
	RoleAgent    Role = "agent"    // Cash-in/cash-out operator, needs admin approval
	RoleAdmin    Role = "admin"    // Moderator
)

// ParseRole maps user input to a Role. "user" is accepted as an alias of standard.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "user":
		return RoleStandard, nil
	case "agent":
		return RoleAgent, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", InvalidInput("unknown role " + s)
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStandard, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// ApprovedOnCreate reports the initial approval state for a freshly registered account
func (r Role) ApprovedOnCreate() bool {
	return r != RoleAgent
}
