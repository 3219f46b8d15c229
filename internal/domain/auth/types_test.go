package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleUser, RoleGuest} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("").Valid())
	assert.False(t, Role("superuser").Valid())
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := Session{ExpiresAt: now}

	assert.True(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Second)))
	assert.False(t, s.Expired(now.Add(-time.Second)))
}

func TestSession_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want string
	}{
		{"full name", Session{FirstName: "Ada", LastName: "Lovelace", Email: "a@x", UserID: "u"}, "Ada Lovelace"},
		{"first only", Session{FirstName: "Ada", UserID: "u"}, "Ada"},
		{"email fallback", Session{Email: "a@x", UserID: "u"}, "a@x"},
		{"user id fallback", Session{UserID: "u"}, "u"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.DisplayName())
		})
	}
}

func TestAnonymousUser(t *testing.T) {
	var u User = AnonymousUser{}
	assert.False(t, u.IsAuthenticated())
	assert.False(t, u.HasPerm(PermViewAnnotation))
	assert.Empty(t, u.Username())
}

func TestSessionUser_HasPerm(t *testing.T) {
	tests := []struct {
		name string
		role Role
		perm Permission
		want bool
	}{
		{"admin holds everything", RoleAdmin, PermChangeSite, true},
		{"admin holds unknown perms", RoleAdmin, Permission("other.thing"), true},
		{"user can add", RoleUser, PermAddAnnotation, true},
		{"user cannot change site", RoleUser, PermChangeSite, false},
		{"guest can view", RoleGuest, PermViewAnnotation, true},
		{"guest cannot delete", RoleGuest, PermDeleteAnnotation, false},
		{"unknown role has nothing", Role("bogus"), PermViewAnnotation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewSessionUser(Session{UserID: "u1", Role: tt.role})
			assert.True(t, u.IsAuthenticated())
			assert.Equal(t, tt.want, u.HasPerm(tt.perm))
		})
	}
}

func TestRolePermissions_ReturnsCopy(t *testing.T) {
	perms := RolePermissions(RoleGuest)
	perms[0] = PermChangeSite

	assert.Equal(t, []Permission{PermViewAnnotation}, RolePermissions(RoleGuest))
	assert.Nil(t, RolePermissions(Role("nope")))
}
