package auth

// User is the principal a request acts on behalf of. Every request has one:
// unauthenticated requests carry AnonymousUser.
type User interface {
	IsAuthenticated() bool
	HasPerm(perm Permission) bool
	Username() string
}

// AnonymousUser is the user attached to requests without a valid session.
type AnonymousUser struct{}

func (AnonymousUser) IsAuthenticated() bool      { return false }
func (AnonymousUser) HasPerm(_ Permission) bool { return false }
func (AnonymousUser) Username() string          { return "" }

// SessionUser is an authenticated user backed by a persisted Session.
type SessionUser struct {
	Session Session
}

// NewSessionUser wraps a session.
func NewSessionUser(s Session) *SessionUser {
	return &SessionUser{Session: s}
}

func (u *SessionUser) IsAuthenticated() bool { return true }

// HasPerm checks the role table. Admins are superusers and hold every permission.
func (u *SessionUser) HasPerm(perm Permission) bool {
	if u.Session.Role == RoleAdmin {
		return true
	}
	return RoleHasPermission(u.Session.Role, perm)
}

func (u *SessionUser) Username() string { return u.Session.UserID }

// Permissions lists what the user holds.
func (u *SessionUser) Permissions() []Permission {
	return RolePermissions(u.Session.Role)
}
