// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package taxonomy manages article categories and tags.
package taxonomy

import (
	"context"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
)

// Category groups articles by topic. An article has at most one.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ArticleCount int       `json:"article_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Tag is a free-form label. An article carries any number of them.
type Tag struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ArticleCount int       `json:"article_count"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldDescription = "description"

	MaxCategoryNameLength = 80
	MaxTagNameLength      = 50
	MaxDescriptionLength  = 500
)

var (
	ErrCategorySlugTaken = apperr.Conflict("A category with this slug already exists")
	ErrTagSlugTaken      = apperr.Conflict("A tag with this slug already exists")
)

// Repository persists categories and tags. Counts only include published articles.
type Repository interface {
	ListCategories(context context.Context) ([]*Category, error)
	GetCategory(context context.Context, id string) (*Category, error)
	CreateCategory(context context.Context, category *Category) error
	UpdateCategory(context context.Context, category *Category) error
	DeleteCategory(context context.Context, id string) error

	ListTags(context context.Context) ([]*Tag, error)
	CreateTag(context context.Context, tag *Tag) error
	DeleteTag(context context.Context, id string) error
}
