// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
)

// ErrSlugTaken is returned by Create when the slug is already used.
var ErrSlugTaken = apperr.Conflict("An article with this slug already exists")

// Repository defines the persistence contract for articles and likes.
type Repository interface {

	/*
		List returns one page of articles matching filter, newest first, and the
		total number of matches. Content is not loaded.
	*/
	List(context context.Context, filter ListFilter) ([]*Article, int, error)

	/*
		FindByID and FindBySlug load one article with author, category, tags
		and counters.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Article, error)
	FindBySlug(context context.Context, slug string) (*Article, error)

	/*
		Create inserts the article and its tag links in one transaction.

		Returns:
		  - error: ErrSlugTaken, a validation error for unknown category or
		    tag ids, or storage failures
	*/
	Create(context context.Context, article *Article) error

	/*
		Update writes the editable fields. Tag links are replaced only when
		replaceTags is true.
	*/
	Update(context context.Context, article *Article, replaceTags bool) error

	/*
		SetStatus moves the article between draft and published.
	*/
	SetStatus(context context.Context, id string, status Status, publishedAt *time.Time) error

	Delete(context context.Context, id string) error

	/*
		Like and Unlike are idempotent and return the resulting state.
	*/
	Like(context context.Context, articleID, userID string) (LikeState, error)
	Unlike(context context.Context, articleID, userID string) (LikeState, error)

	IsLiked(context context.Context, articleID, userID string) (bool, error)
}
