// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system. Credentials live in separate
// Authentication records so that password and social logins can coexist.
// Users are never hard-deleted by application code; Favorite rows reference them.
type User struct {
	ID        uuid.UUID // The unique identifier for the user.
	Email     string    // The user's primary contact email, used as a login identifier.
	Name      string    // The user's display name.
	Role      Role      // The user's privilege level. Immutable outside direct administrative action.
	CreatedAt time.Time // Timestamp of when this account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this user's data.
}
