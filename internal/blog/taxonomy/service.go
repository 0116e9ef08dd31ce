// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
	"github.com/taibuivan/pixelpulse/pkg/slug"
	"github.com/taibuivan/pixelpulse/pkg/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CategoryInput is the payload of category create and update. Slug defaults
// to the slugified name.
type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// TagInput is the payload of tag creation.
type TagInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.ListCategories(context)
}

func (service *Service) CreateCategory(context context.Context, input CategoryInput) (*Category, error) {
	category := &Category{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}

	if err := service.repo.CreateCategory(context, category); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "category_created", slog.String("slug", category.Slug))
	return category, nil
}

func (service *Service) UpdateCategory(context context.Context, id string, input CategoryInput) (*Category, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Category")
	}

	category, err := service.repo.GetCategory(context, id)
	if err != nil {
		return nil, err
	}

	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateCategory(context, category); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "category_updated", slog.String("category_id", id))
	return category, nil
}

// DeleteCategory removes the category. Its articles become uncategorised.
func (service *Service) DeleteCategory(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Category")
	}
	if err := service.repo.DeleteCategory(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).WarnContext(context, "category_deleted", slog.String("category_id", id))
	return nil
}

func (service *Service) ListTags(context context.Context) ([]*Tag, error) {
	return service.repo.ListTags(context)
}

func (service *Service) CreateTag(context context.Context, input TagInput) (*Tag, error) {
	name := strings.TrimSpace(input.Name)
	tag := &Tag{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slugOrDerive(input.Slug, name),
		CreatedAt: time.Now().UTC(),
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, tag.Name).
		MaxLen(FieldName, tag.Name, MaxTagNameLength).
		Slug(FieldSlug, tag.Slug)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.CreateTag(context, tag); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "tag_created", slog.String("slug", tag.Slug))
	return tag, nil
}

func (service *Service) DeleteTag(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Tag")
	}
	if err := service.repo.DeleteTag(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).WarnContext(context, "tag_deleted", slog.String("tag_id", id))
	return nil
}

func applyCategoryInput(category *Category, input CategoryInput) error {
	category.Name = strings.TrimSpace(input.Name)
	category.Slug = slugOrDerive(input.Slug, category.Name)
	category.Description = strings.TrimSpace(input.Description)

	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).
		MaxLen(FieldName, category.Name, MaxCategoryNameLength).
		Slug(FieldSlug, category.Slug).
		MaxLen(FieldDescription, category.Description, MaxDescriptionLength)
	return validator.Err()
}

// slugOrDerive keeps an explicit slug as given, so a malformed one is
// reported rather than silently rewritten.
func slugOrDerive(explicit, name string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	return slug.From(name)
}
