package auth

import "slices"

// Permission names a capability in "app_label.codename" form.
type Permission string

const (
	PermAddAnnotation    Permission = "annotator_store.add_annotation"
	PermChangeAnnotation Permission = "annotator_store.change_annotation"
	PermDeleteAnnotation Permission = "annotator_store.delete_annotation"
	PermViewAnnotation   Permission = "annotator_store.view_annotation"
	PermAdminAnnotation  Permission = "annotator_store.admin_annotation"
	PermViewSite         Permission = "sites.view_site"
	PermChangeSite       Permission = "sites.change_site"
)

//nolint:gochecknoglobals // static read-only role table
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermAddAnnotation,
		PermChangeAnnotation,
		PermDeleteAnnotation,
		PermViewAnnotation,
		PermAdminAnnotation,
		PermViewSite,
		PermChangeSite,
	},
	RoleUser: {
		PermAddAnnotation,
		PermChangeAnnotation,
		PermDeleteAnnotation,
		PermViewAnnotation,
	},
	RoleGuest: {
		PermViewAnnotation,
	},
}

// RolePermissions returns a copy of the permissions granted to role.
// Unknown roles get none.
func RolePermissions(role Role) []Permission {
	return slices.Clone(rolePermissions[role])
}

// RoleHasPermission reports whether role grants perm.
func RoleHasPermission(role Role, perm Permission) bool {
	return slices.Contains(rolePermissions[role], perm)
}
