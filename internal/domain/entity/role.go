// Package entity contains the core business objects of the project.
package entity

// Role represents the privilege level of a caller.
type Role string

const (
	// RoleGuest indicates an unauthenticated caller. It is never persisted.
	RoleGuest Role = "GUEST"
	// RoleUser indicates a regular authenticated user.
	RoleUser Role = "USER"
	// RoleAdmin indicates an administrator with back-office access.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a value that may be stored on a user record.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleFromString converts a raw claim value into a Role, degrading anything
// unrecognized to RoleUser so a forged or stale claim never grants more
// privilege than a regular account.
func RoleFromString(s string) Role {
	role := Role(s)
	if role.IsValid() {
		return role
	}

	return RoleUser
}
