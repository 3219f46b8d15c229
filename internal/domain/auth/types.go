// Package auth holds the identity, session and permission model shared by the
// guards, the session store and the identity providers.
package auth

import (
	"strings"
	"time"
)

// Role is the coarse authorization level a session carries. Permissions are
// derived from it through RolePermissions.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// Identity is what a provider returns after a successful login.
type Identity struct {
	UserID    string // sub, or the directory account name
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time
}

// Session is persisted per login and referenced by the session cookie and by
// the sid claim of annotator tokens.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has lapsed at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// DisplayName joins first and last name, falling back to the email and then
// the user ID.
func (s Session) DisplayName() string {
	if name := strings.TrimSpace(s.FirstName + " " + s.LastName); name != "" {
		return name
	}
	if s.Email != "" {
		return s.Email
	}
	return s.UserID
}
