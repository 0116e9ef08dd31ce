// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

type stubRepo struct {
	stats  *Stats
	err    error
	recent int
}

func (repo *stubRepo) Collect(_ context.Context, recent int) (*Stats, error) {
	repo.recent = recent
	return repo.stats, repo.err
}

func TestStats_FillsMissingGroups(t *testing.T) {
	repo := &stubRepo{stats: &Stats{
		Users:    map[string]int{"reader": 7, "admin": 1},
		Articles: map[string]int{"published": 4},
		Comments: CommentStats{Total: 9, Pending: 2},
		Likes:    12,
	}}

	stats, err := NewService(repo).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, RecentLimit, repo.recent)
	assert.Equal(t, map[string]int{"admin": 1, "publisher": 0, "reader": 7}, stats.Users)
	assert.Equal(t, map[string]int{"draft": 0, "published": 4}, stats.Articles)
	assert.Equal(t, 8, stats.TotalUsers)
	assert.Equal(t, 4, stats.TotalArticles)
	assert.NotNil(t, stats.RecentArticles)
}

func TestStats_Error(t *testing.T) {
	_, err := NewService(&stubRepo{err: errors.New("boom")}).Stats(context.Background())
	assert.Error(t, err)
}

func TestRoutes_AdminOnly(t *testing.T) {
	repo := &stubRepo{stats: &Stats{Users: map[string]int{}, Articles: map[string]int{}}}
	router := NewHandler(NewService(repo)).AdminRoutes()

	for role, want := range map[sec.Role]int{
		sec.RolePublisher: http.StatusForbidden,
		sec.RoleAdmin:     http.StatusOK,
	} {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		claims := &sec.AuthClaims{UserID: "u", Role: string(role)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		assert.Equal(t, want, recorder.Code, string(role))
	}
}
