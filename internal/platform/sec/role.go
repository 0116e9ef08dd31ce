// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted platform access, including user and taxonomy management.
	RoleAdmin Role = "admin"

	// Can write, publish and manage their own articles.
	RolePublisher Role = "publisher"

	// Default role for registered users: comments and likes.
	RoleReader Role = "reader"
)

// Roles lists every role, highest first.
var Roles = []Role{RoleAdmin, RolePublisher, RoleReader}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePublisher, RoleReader:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RolePublisher:
		return 20
	case RoleReader:
		return 10
	default:
		return 0
	}
}

// # Grants

// Permissions returns the static permission set of the role.
//
// Each role extends the one below it, so admin ⊇ publisher ⊇ reader holds by
// construction. Unknown roles get the empty set.
func (r Role) Permissions() PermissionSet {
	switch r {
	case RoleReader:
		return readerGrants
	case RolePublisher:
		return publisherGrants
	case RoleAdmin:
		return adminGrants
	default:
		return 0
	}
}

// Can reports whether the role grants p.
func (r Role) Can(p Permission) bool {
	return r.Permissions().Has(p)
}

var (
	readerGrants = NewPermissionSet(
		PermCreateComment,
		PermLikeArticle,
	)

	publisherGrants = readerGrants.With(
		PermCreateArticle,
		PermEditArticle,
		PermDeleteArticle,
		PermPublishArticle,
	)

	adminGrants = publisherGrants.With(
		PermModerateComment,
		PermDeleteComment,
		PermManageUsers,
		PermChangeRole,
		PermManageCategories,
		PermManageTags,
	)
)
