// Package authroles maps identity-provider groups to application roles.
package authroles

import (
	"strings"

	domainauth "github.com/target/annotator-store/internal/domain/auth"
)

// StaticRoleMapper grants RoleAdmin to members of AdminGroup and RoleUser to
// members of UserGroup; everyone else is a guest. Group names compare
// case-insensitively since directory services disagree on casing.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	role := domainauth.RoleGuest
	for _, g := range groups {
		g = strings.TrimSpace(g)
		switch {
		case m.AdminGroup != "" && strings.EqualFold(g, m.AdminGroup):
			return domainauth.RoleAdmin
		case m.UserGroup != "" && strings.EqualFold(g, m.UserGroup):
			role = domainauth.RoleUser
		}
	}
	return role
}
