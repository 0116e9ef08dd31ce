// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"math/bits"
	"strings"
)

// # Permissions

// Permission is a single fine-grained capability, encoded as one bit.
type Permission uint32

const (
	PermCreateArticle Permission = 1 << iota
	PermEditArticle
	PermDeleteArticle
	PermPublishArticle
	PermCreateComment
	PermModerateComment
	PermDeleteComment
	PermManageUsers
	PermChangeRole
	PermLikeArticle
	PermManageCategories
	PermManageTags

	// permSentinel marks the end of the enumeration; it is not a permission.
	permSentinel
)

// AllPermissions lists every permission in declaration order.
var AllPermissions = []Permission{
	PermCreateArticle,
	PermEditArticle,
	PermDeleteArticle,
	PermPublishArticle,
	PermCreateComment,
	PermModerateComment,
	PermDeleteComment,
	PermManageUsers,
	PermChangeRole,
	PermLikeArticle,
	PermManageCategories,
	PermManageTags,
}

// String returns the snake_case name used in API payloads.
func (p Permission) String() string {
	switch p {
	case PermCreateArticle:
		return "create_article"
	case PermEditArticle:
		return "edit_article"
	case PermDeleteArticle:
		return "delete_article"
	case PermPublishArticle:
		return "publish_article"
	case PermCreateComment:
		return "create_comment"
	case PermModerateComment:
		return "moderate_comment"
	case PermDeleteComment:
		return "delete_comment"
	case PermManageUsers:
		return "manage_users"
	case PermChangeRole:
		return "change_role"
	case PermLikeArticle:
		return "like_article"
	case PermManageCategories:
		return "manage_categories"
	case PermManageTags:
		return "manage_tags"
	default:
		return "unknown"
	}
}

// # Permission Sets

// PermissionSet is a bitset of permissions.
type PermissionSet uint32

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	var set PermissionSet
	for _, p := range perms {
		set |= PermissionSet(p)
	}
	return set
}

// With returns a copy of the set extended with perms.
func (s PermissionSet) With(perms ...Permission) PermissionSet {
	return s | NewPermissionSet(perms...)
}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	return p != 0 && p < permSentinel && s&PermissionSet(p) == PermissionSet(p)
}

// Contains reports whether every permission of other is in s.
func (s PermissionSet) Contains(other PermissionSet) bool {
	return s&other == other
}

// Len returns the number of permissions in the set.
func (s PermissionSet) Len() int {
	return bits.OnesCount32(uint32(s))
}

// List returns the permissions of the set in declaration order.
func (s PermissionSet) List() []Permission {
	list := make([]Permission, 0, s.Len())
	for _, p := range AllPermissions {
		if s.Has(p) {
			list = append(list, p)
		}
	}
	return list
}

// Names returns the snake_case names of the set, e.g. for the session endpoint.
func (s PermissionSet) Names() []string {
	perms := s.List()
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.String()
	}
	return names
}

// String implements fmt.Stringer.
func (s PermissionSet) String() string {
	return strings.Join(s.Names(), ",")
}

// # Policy Evaluation

// HasPermission reports whether the authenticated user holds p.
// It is false for a nil user and for a missing or unknown role.
func HasPermission(user *AuthClaims, p Permission) bool {
	if user == nil || user.Role == "" {
		return false
	}
	return user.UserRole().Can(p)
}

// HasAnyPermission reports whether the user holds at least one of perms.
func HasAnyPermission(user *AuthClaims, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(user, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every one of perms.
// An empty list is vacuously true only for an authenticated user with a role.
func HasAllPermissions(user *AuthClaims, perms ...Permission) bool {
	if user == nil || user.Role == "" {
		return false
	}
	for _, p := range perms {
		if !HasPermission(user, p) {
			return false
		}
	}
	return true
}
