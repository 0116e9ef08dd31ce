// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment implements article comments and their moderation.
package comment

import (
	"context"
	"time"

	"github.com/taibuivan/pixelpulse/internal/blog/article"
	"github.com/taibuivan/pixelpulse/pkg/pagination"
)

// Comment is a reader's reply to a published article.
type Comment struct {
	ID        string         `json:"id"`
	ArticleID string         `json:"article_id"`
	Article   *ArticleRef    `json:"article,omitempty"`
	AuthorID  string         `json:"-"`
	Author    article.Author `json:"author"`
	Content   string         `json:"content"`
	Approved  bool           `json:"approved"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ArticleRef identifies the commented article in moderation listings.
type ArticleRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// ModerationFilter narrows the moderation queue. A nil Approved lists all.
type ModerationFilter struct {
	Approved *bool
	pagination.Params
}

const (
	FieldContent  = "content"
	FieldApproved = "approved"

	MaxContentLength = 2000
)

// Repository defines the persistence contract for comments.
type Repository interface {
	ListApproved(context context.Context, articleID string) ([]*Comment, error)
	List(context context.Context, filter ModerationFilter) ([]*Comment, int, error)
	FindByID(context context.Context, id string) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	SetApproved(context context.Context, id string, approved bool) error
	Delete(context context.Context, id string) error
}

// ArticleFinder resolves the article a comment belongs to.
type ArticleFinder interface {
	FindByID(context context.Context, id string) (*article.Article, error)
}

// CommentPolicy reports whether new comments are accepted site-wide.
type CommentPolicy interface {
	CommentsAllowed(context context.Context) bool
}
