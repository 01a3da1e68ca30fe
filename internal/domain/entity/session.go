// Package entity contains the core business objects of the project.
package entity

import "github.com/google/uuid"

// Session is the materialized view of a presented token. A Session value
// always exists once a token is parsed; an empty UserID is the only reliable
// signal that the caller is NOT authenticated. Callers must check
// IsAuthenticated rather than the presence of the object.
type Session struct {
	UserID uuid.UUID // Identity of the caller. uuid.Nil for anonymous or invalidated sessions.
	Name   string    // Display name, empty for invalid sessions.
	Email  string    // Email, empty for invalid sessions.
	Role   Role      // Resolved role. Invalid sessions degrade to RoleUser (least privilege).
}

// IsAuthenticated reports whether the session carries a real identity.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != uuid.Nil
}

// IsAdmin reports whether the session belongs to an authenticated administrator.
func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.Role == RoleAdmin
}

// Anonymous returns the session used for callers without any valid identity.
func Anonymous() *Session {
	return &Session{Role: RoleUser}
}
