// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

/*
TestRole_GrantsAreMonotonic verifies that each role holds everything the role
below it holds.
*/
func TestRole_GrantsAreMonotonic(t *testing.T) {
	reader := sec.RoleReader.Permissions()
	publisher := sec.RolePublisher.Permissions()
	admin := sec.RoleAdmin.Permissions()

	assert.True(t, publisher.Contains(reader))
	assert.True(t, admin.Contains(publisher))
	assert.Greater(t, publisher.Len(), reader.Len())
	assert.Greater(t, admin.Len(), publisher.Len())
}

/*
TestRole_AdminHoldsEverything verifies the admin set is the full enumeration.
*/
func TestRole_AdminHoldsEverything(t *testing.T) {
	for _, p := range sec.AllPermissions {
		assert.True(t, sec.RoleAdmin.Can(p), p.String())
	}
}

/*
TestRole_Table pins the grants of the lower roles.
*/
func TestRole_Table(t *testing.T) {
	tests := []struct {
		role sec.Role
		perm sec.Permission
		want bool
	}{
		{sec.RoleReader, sec.PermCreateComment, true},
		{sec.RoleReader, sec.PermLikeArticle, true},
		{sec.RoleReader, sec.PermCreateArticle, false},
		{sec.RoleReader, sec.PermManageUsers, false},
		{sec.RolePublisher, sec.PermCreateArticle, true},
		{sec.RolePublisher, sec.PermPublishArticle, true},
		{sec.RolePublisher, sec.PermModerateComment, false},
		{sec.RolePublisher, sec.PermChangeRole, false},
		{sec.RolePublisher, sec.PermManageTags, false},
		{sec.Role("ghost"), sec.PermLikeArticle, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String()+"/"+tt.perm.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Can(tt.perm))
		})
	}
}

/*
TestRole_AtLeast verifies the hierarchy comparison.
*/
func TestRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RolePublisher))
	assert.True(t, sec.RolePublisher.AtLeast(sec.RolePublisher))
	assert.False(t, sec.RoleReader.AtLeast(sec.RolePublisher))
	assert.False(t, sec.Role("").AtLeast(sec.RoleReader))
	assert.False(t, sec.Role("root").Valid())
}

/*
TestHasPermission_MissingIdentity verifies absent users and roles never pass.
*/
func TestHasPermission_MissingIdentity(t *testing.T) {
	assert.False(t, sec.HasPermission(nil, sec.PermLikeArticle))
	assert.False(t, sec.HasPermission(&sec.AuthClaims{UserID: "u1"}, sec.PermLikeArticle))
	assert.False(t, sec.HasAllPermissions(nil))
	assert.False(t, sec.HasAnyPermission(nil, sec.PermLikeArticle))
}

/*
TestHasAnyAndAll verifies OR and AND evaluation over permission lists.
*/
func TestHasAnyAndAll(t *testing.T) {
	publisher := &sec.AuthClaims{UserID: "u1", Role: string(sec.RolePublisher)}

	assert.True(t, sec.HasAnyPermission(publisher, sec.PermManageUsers, sec.PermEditArticle))
	assert.False(t, sec.HasAnyPermission(publisher, sec.PermManageUsers, sec.PermChangeRole))
	assert.False(t, sec.HasAnyPermission(publisher))

	assert.True(t, sec.HasAllPermissions(publisher, sec.PermCreateArticle, sec.PermLikeArticle))
	assert.False(t, sec.HasAllPermissions(publisher, sec.PermCreateArticle, sec.PermManageTags))
	assert.True(t, sec.HasAllPermissions(publisher))
}

/*
TestPermissionSet_Names verifies declaration order and unknown bits.
*/
func TestPermissionSet_Names(t *testing.T) {
	set := sec.NewPermissionSet(sec.PermLikeArticle, sec.PermCreateComment)

	assert.Equal(t, []string{"create_comment", "like_article"}, set.Names())
	assert.Equal(t, "create_comment,like_article", set.String())
	assert.False(t, set.Has(0))
	assert.Equal(t, "unknown", sec.Permission(1<<30).String())
}
