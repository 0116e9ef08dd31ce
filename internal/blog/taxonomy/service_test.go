// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pixelpulse/internal/blog/taxonomy"
	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

type memoryRepo struct {
	categories map[string]*taxonomy.Category
	tags       map[string]*taxonomy.Tag
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{categories: map[string]*taxonomy.Category{}, tags: map[string]*taxonomy.Tag{}}
}

func (repo *memoryRepo) ListCategories(context.Context) ([]*taxonomy.Category, error) {
	out := make([]*taxonomy.Category, 0, len(repo.categories))
	for _, category := range repo.categories {
		out = append(out, category)
	}
	return out, nil
}

func (repo *memoryRepo) GetCategory(_ context.Context, id string) (*taxonomy.Category, error) {
	if category, ok := repo.categories[id]; ok {
		clone := *category
		return &clone, nil
	}
	return nil, apperr.NotFound("Category")
}

func (repo *memoryRepo) slugTaken(id, slug string) bool {
	for _, category := range repo.categories {
		if category.ID != id && category.Slug == slug {
			return true
		}
	}
	return false
}

func (repo *memoryRepo) CreateCategory(_ context.Context, category *taxonomy.Category) error {
	if repo.slugTaken(category.ID, category.Slug) {
		return taxonomy.ErrCategorySlugTaken
	}
	clone := *category
	repo.categories[category.ID] = &clone
	return nil
}

func (repo *memoryRepo) UpdateCategory(ctx context.Context, category *taxonomy.Category) error {
	return repo.CreateCategory(ctx, category)
}

func (repo *memoryRepo) DeleteCategory(_ context.Context, id string) error {
	if _, ok := repo.categories[id]; !ok {
		return apperr.NotFound("Category")
	}
	delete(repo.categories, id)
	return nil
}

func (repo *memoryRepo) ListTags(context.Context) ([]*taxonomy.Tag, error) {
	out := make([]*taxonomy.Tag, 0, len(repo.tags))
	for _, tag := range repo.tags {
		out = append(out, tag)
	}
	return out, nil
}

func (repo *memoryRepo) CreateTag(_ context.Context, tag *taxonomy.Tag) error {
	for _, other := range repo.tags {
		if other.Slug == tag.Slug {
			return taxonomy.ErrTagSlugTaken
		}
	}
	repo.tags[tag.ID] = tag
	return nil
}

func (repo *memoryRepo) DeleteTag(_ context.Context, id string) error {
	if _, ok := repo.tags[id]; !ok {
		return apperr.NotFound("Tag")
	}
	delete(repo.tags, id)
	return nil
}

func TestCreateCategory_DerivesSlug(t *testing.T) {
	service := taxonomy.NewService(newMemoryRepo())

	category, err := service.CreateCategory(context.Background(), taxonomy.CategoryInput{
		Name:        "  Hardware Reviews ",
		Description: "Benchmarks and teardowns",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hardware Reviews", category.Name)
	assert.Equal(t, "hardware-reviews", category.Slug)
	assert.NotEmpty(t, category.ID)
}

func TestCreateCategory_Rejections(t *testing.T) {
	service := taxonomy.NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := service.CreateCategory(ctx, taxonomy.CategoryInput{Name: "Go"})
	require.NoError(t, err)

	_, err = service.CreateCategory(ctx, taxonomy.CategoryInput{Name: "GO"})
	assert.ErrorIs(t, err, taxonomy.ErrCategorySlugTaken)

	_, err = service.CreateCategory(ctx, taxonomy.CategoryInput{Name: "Other", Slug: "Not A Slug"})
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))

	_, err = service.CreateCategory(ctx, taxonomy.CategoryInput{Name: "   "})
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
}

func TestUpdateCategory(t *testing.T) {
	service := taxonomy.NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := service.CreateCategory(ctx, taxonomy.CategoryInput{Name: "Phones"})
	require.NoError(t, err)

	updated, err := service.UpdateCategory(ctx, created.ID, taxonomy.CategoryInput{Name: "Mobile", Slug: "mobile"})
	require.NoError(t, err)
	assert.Equal(t, "mobile", updated.Slug)

	_, err = service.UpdateCategory(ctx, "nope", taxonomy.CategoryInput{Name: "X"})
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

func TestTags(t *testing.T) {
	service := taxonomy.NewService(newMemoryRepo())
	ctx := context.Background()

	tag, err := service.CreateTag(ctx, taxonomy.TagInput{Name: "Rust & Go"})
	require.NoError(t, err)
	assert.Equal(t, "rust-go", tag.Slug)

	_, err = service.CreateTag(ctx, taxonomy.TagInput{Name: "rust go"})
	assert.ErrorIs(t, err, taxonomy.ErrTagSlugTaken)

	require.NoError(t, service.DeleteTag(ctx, tag.ID))
	assert.True(t, apperr.IsCode(service.DeleteTag(ctx, tag.ID), "NOT_FOUND"))
}

/*
TestRoutes_Permissions verifies reads are public while writes need the
matching management permission.
*/
func TestRoutes_Permissions(t *testing.T) {
	handler := taxonomy.NewHandler(taxonomy.NewService(newMemoryRepo()))
	router := chi.NewRouter()
	router.Route("/categories", handler.RegisterCategoryRoutes)
	router.Route("/tags", handler.RegisterTagRoutes)

	as := func(role sec.Role, request *http.Request) *http.Request {
		if role == "" {
			return request
		}
		claims := &sec.AuthClaims{UserID: "u", Role: string(role)}
		return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	tests := []struct {
		name   string
		role   sec.Role
		method string
		path   string
		body   string
		want   int
	}{
		{"public_list", "", http.MethodGet, "/categories", "", http.StatusOK},
		{"anonymous_create", "", http.MethodPost, "/categories", `{"name":"Go"}`, http.StatusUnauthorized},
		{"publisher_create", sec.RolePublisher, http.MethodPost, "/categories", `{"name":"Go"}`, http.StatusForbidden},
		{"admin_create", sec.RoleAdmin, http.MethodPost, "/categories", `{"name":"Go"}`, http.StatusCreated},
		{"admin_conflict", sec.RoleAdmin, http.MethodPost, "/categories", `{"name":"go"}`, http.StatusConflict},
		{"reader_tag", sec.RoleReader, http.MethodPost, "/tags", `{"name":"AI"}`, http.StatusForbidden},
		{"admin_tag", sec.RoleAdmin, http.MethodPost, "/tags", `{"name":"AI"}`, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := as(tt.role, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.want, recorder.Code, recorder.Body.String())
			assert.True(t, json.Valid(recorder.Body.Bytes()))
		})
	}
}
