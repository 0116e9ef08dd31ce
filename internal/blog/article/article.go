// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package article implements publishing: drafts, published articles, tags and likes.

# Visibility

Published articles are public. A draft is visible to its author and to
administrators only; to everyone else it does not exist (404, never 403).

# Ownership

Editing, deleting and (un)publishing require both the matching permission and
either authorship or the admin role.
*/
package article

import (
	"time"

	"github.com/taibuivan/pixelpulse/pkg/pagination"
)

// # Domain Entities

// Status is the publication state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Author is the public identity attached to an article.
type Author struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// CategoryRef is the category attached to an article.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagRef is a tag attached to an article.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Article is a blog post together with its derived counters.
type Article struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Excerpt      string       `json:"excerpt"`
	Content      string       `json:"content,omitempty"`
	CoverURL     string       `json:"cover_url"`
	Status       Status       `json:"status"`
	AuthorID     string       `json:"-"`
	Author       Author       `json:"author"`
	CategoryID   *string      `json:"-"`
	Category     *CategoryRef `json:"category"`
	Tags         []TagRef     `json:"tags"`
	TagIDs       []string     `json:"-"`
	LikeCount    int          `json:"like_count"`
	CommentCount int          `json:"comment_count"`
	Liked        bool         `json:"liked"`
	PublishedAt  *time.Time   `json:"published_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsPublished reports whether the article is publicly visible.
func (article *Article) IsPublished() bool {
	return article.Status == StatusPublished
}

// LikeState is the result of a like or unlike.
type LikeState struct {
	ArticleID string `json:"article_id"`
	Likes     int    `json:"likes"`
	Liked     bool   `json:"liked"`
}

// # Filters & Inputs

// ListFilter narrows article listings. Empty fields do not filter.
type ListFilter struct {
	CategorySlug   string
	TagSlug        string
	AuthorUsername string
	Query          string
	AuthorID       string
	Status         Status
	pagination.Params
}

// CreateInput is the payload of a new draft.
type CreateInput struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverURL   string   `json:"cover_url"`
	CategoryID *string  `json:"category_id"`
	TagIDs     []string `json:"tag_ids"`
}

// UpdateInput is a partial update. Nil fields are left untouched; an empty
// CategoryID clears the category and an empty TagIDs clears the tags.
type UpdateInput struct {
	Title      *string   `json:"title"`
	Excerpt    *string   `json:"excerpt"`
	Content    *string   `json:"content"`
	CoverURL   *string   `json:"cover_url"`
	CategoryID *string   `json:"category_id"`
	TagIDs     *[]string `json:"tag_ids"`
}

// # Field Identifiers & Limits

const (
	FieldTitle      = "title"
	FieldExcerpt    = "excerpt"
	FieldContent    = "content"
	FieldCoverURL   = "cover_url"
	FieldCategoryID = "category_id"
	FieldTagIDs     = "tag_ids"

	MaxTitleLength   = 200
	MaxExcerptLength = 500
	MaxTags          = 10
)
