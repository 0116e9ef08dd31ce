// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/internal/users/auth"
	"github.com/taibuivan/pixelpulse/pkg/pagination"
	"github.com/taibuivan/pixelpulse/pkg/pointer"
)

const (
	adminID  = "0192f5a4-0000-7000-8000-0000000000a1"
	writerID = "0192f5a4-0000-7000-8000-0000000000b2"
)

type memoryAccounts struct {
	users map[string]*auth.User
}

func (store *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := store.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (store *memoryAccounts) List(_ context.Context, filter ListFilter) ([]*auth.User, int, error) {
	var out []*auth.User
	for _, user := range store.users {
		if filter.Role == "" || user.Role == filter.Role {
			clone := *user
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (store *memoryAccounts) Update(_ context.Context, user *auth.User) error {
	for id, other := range store.users {
		if id != user.ID && strings.EqualFold(other.Username, user.Username) {
			return auth.ErrUsernameTaken
		}
	}
	clone := *user
	store.users[user.ID] = &clone
	return nil
}

func (store *memoryAccounts) Delete(_ context.Context, id string) error {
	if _, ok := store.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(store.users, id)
	return nil
}

type recordingRevoker struct {
	users []string
}

func (revoker *recordingRevoker) RevokeAllBefore(_ context.Context, userID string, _ time.Time, _ time.Duration) error {
	revoker.users = append(revoker.users, userID)
	return nil
}

func newTestService() (*Service, *memoryAccounts, *recordingRevoker) {
	store := &memoryAccounts{users: map[string]*auth.User{
		adminID:  {ID: adminID, Name: "Ada", Username: "ada", Email: "ada@example.com", Role: sec.RoleAdmin},
		writerID: {ID: writerID, Name: "Walt", Username: "walt", Email: "walt@example.com", Role: sec.RolePublisher},
	}}
	revoker := &recordingRevoker{}
	return NewService(store, revoker, time.Hour, slog.Default()), store, revoker
}

func claimsOf(id string, role sec.Role) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: id, Role: string(role)}
}

/*
TestUpdateUser_SelfDemotion verifies an admin cannot drop their own admin role,
while re-asserting it is a harmless no-op.
*/
func TestUpdateUser_SelfDemotion(t *testing.T) {
	service, store, revoker := newTestService()
	actor := claimsOf(adminID, sec.RoleAdmin)

	for _, role := range []sec.Role{sec.RolePublisher, sec.RoleReader} {
		_, err := service.UpdateUser(context.Background(), actor, adminID, AdminUpdateInput{Role: pointer.To(role)})
		assert.ErrorIs(t, err, ErrSelfDemotion)
	}
	assert.Equal(t, sec.RoleAdmin, store.users[adminID].Role)

	_, err := service.UpdateUser(context.Background(), actor, adminID, AdminUpdateInput{Role: pointer.To(sec.RoleAdmin)})
	require.NoError(t, err)
	assert.Empty(t, revoker.users)
}

/*
TestUpdateUser_RoleChange verifies the change is stored and the target's
sessions are revoked.
*/
func TestUpdateUser_RoleChange(t *testing.T) {
	service, store, revoker := newTestService()

	user, err := service.UpdateUser(context.Background(), claimsOf(adminID, sec.RoleAdmin), writerID,
		AdminUpdateInput{Role: pointer.To(sec.RoleReader), Email: pointer.To(" Walt@Example.COM ")})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleReader, user.Role)
	assert.Equal(t, "walt@example.com", store.users[writerID].Email)
	assert.Equal(t, []string{writerID}, revoker.users)
}

func TestUpdateUser_Rejections(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	// Without change_role the role cannot move, whatever else the actor holds.
	_, err := service.UpdateUser(ctx, claimsOf(writerID, sec.RolePublisher), adminID, AdminUpdateInput{Role: pointer.To(sec.RoleReader)})
	assert.ErrorIs(t, err, ErrRoleChangeForbidden)

	_, err = service.UpdateUser(ctx, claimsOf(adminID, sec.RoleAdmin), writerID, AdminUpdateInput{Role: pointer.To(sec.Role("owner"))})
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))

	_, err = service.UpdateUser(ctx, claimsOf(adminID, sec.RoleAdmin), writerID, AdminUpdateInput{Email: pointer.To("nope")})
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))

	_, err = service.UpdateUser(ctx, claimsOf(adminID, sec.RoleAdmin), "not-a-uuid", AdminUpdateInput{})
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

func TestDeleteUser(t *testing.T) {
	service, store, revoker := newTestService()
	ctx := context.Background()
	actor := claimsOf(adminID, sec.RoleAdmin)

	assert.ErrorIs(t, service.DeleteUser(ctx, actor, adminID), ErrSelfDeletion)

	require.NoError(t, service.DeleteUser(ctx, actor, writerID))
	assert.NotContains(t, store.users, writerID)
	assert.Equal(t, []string{writerID}, revoker.users)

	assert.True(t, apperr.IsCode(service.DeleteUser(ctx, actor, writerID), "NOT_FOUND"))
}

func TestUpdateProfile(t *testing.T) {
	service, store, _ := newTestService()
	ctx := context.Background()

	user, err := service.UpdateProfile(ctx, writerID, UpdateProfileInput{
		Name: pointer.To("  Walter "),
		Bio:  pointer.To("Writes about Go."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Walter", user.Name)
	assert.Equal(t, "walt", user.Username)
	assert.Equal(t, "Writes about Go.", store.users[writerID].Bio)

	_, err = service.UpdateProfile(ctx, writerID, UpdateProfileInput{Username: pointer.To("ADA")})
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)

	_, err = service.UpdateProfile(ctx, writerID, UpdateProfileInput{Name: pointer.To("  ")})
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))

	_, err = service.UpdateProfile(ctx, writerID, UpdateProfileInput{Bio: pointer.To(strings.Repeat("x", auth.MaxBioLength+1))})
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
}

func TestDeleteAccount(t *testing.T) {
	service, store, revoker := newTestService()

	require.NoError(t, service.DeleteAccount(context.Background(), writerID))
	assert.NotContains(t, store.users, writerID)
	assert.Equal(t, []string{writerID}, revoker.users)
}

func TestListUsers(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	users, total, err := service.ListUsers(ctx, ListFilter{Role: sec.RolePublisher, Params: pagination.Params{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, writerID, users[0].ID)

	_, _, err = service.ListUsers(ctx, ListFilter{Role: "root"})
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
}
