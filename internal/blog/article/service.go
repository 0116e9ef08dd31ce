// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
	"github.com/taibuivan/pixelpulse/pkg/pagination"
	"github.com/taibuivan/pixelpulse/pkg/slug"
	"github.com/taibuivan/pixelpulse/pkg/uuid"
)

// maxSlugAttempts bounds the suffix retries after a slug collision.
const maxSlugAttempts = 3

// ErrNotOwner is returned when a publisher touches someone else's article.
var ErrNotOwner = apperr.Forbidden("You can only manage your own articles")

// Service implements article publishing and likes.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// # Reading

/*
ListPublished returns published articles only, whatever the filter says.
*/
func (service *Service) ListPublished(context context.Context, filter ListFilter) ([]*Article, int, error) {
	filter.Status = StatusPublished
	filter.AuthorID = ""
	return service.repo.List(context, filter)
}

/*
ListMine returns the caller's own articles, drafts included.
*/
func (service *Service) ListMine(context context.Context, claims *sec.AuthClaims, params pagination.Params) ([]*Article, int, error) {
	return service.repo.List(context, ListFilter{AuthorID: claims.UserID, Params: params})
}

/*
Get resolves an article by id or slug for viewer, who may be nil.

Drafts are reported as missing unless viewer may manage them. For an
authenticated viewer the Liked flag is filled in.
*/
func (service *Service) Get(context context.Context, viewer *sec.AuthClaims, ref string) (*Article, error) {
	var article *Article
	var err error
	if uuid.Valid(ref) {
		article, err = service.repo.FindByID(context, ref)
	} else {
		article, err = service.repo.FindBySlug(context, ref)
	}
	if err != nil {
		return nil, err
	}

	if !article.IsPublished() && !canManage(viewer, article) {
		return nil, apperr.NotFound("Article")
	}

	if viewer != nil {
		liked, err := service.repo.IsLiked(context, article.ID, viewer.UserID)
		if err != nil {
			return nil, err
		}
		article.Liked = liked
	}
	return article, nil
}

// # Writing

/*
Create stores a new draft owned by the caller.

The slug is derived from the title. On a collision a short random suffix is
appended and the insert retried.
*/
func (service *Service) Create(context context.Context, claims *sec.AuthClaims, input CreateInput) (*Article, error) {
	now := service.now().UTC()
	article := &Article{
		ID:         uuid.New(),
		Title:      strings.TrimSpace(input.Title),
		Excerpt:    strings.TrimSpace(input.Excerpt),
		Content:    input.Content,
		CoverURL:   strings.TrimSpace(input.CoverURL),
		Status:     StatusDraft,
		AuthorID:   claims.UserID,
		Author:     Author{ID: claims.UserID, Username: claims.Username},
		CategoryID: normalizeCategory(input.CategoryID),
		TagIDs:     dedupe(input.TagIDs),
		Tags:       []TagRef{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := validateArticle(article); err != nil {
		return nil, err
	}

	base := slug.From(article.Title)
	article.Slug = base
	if base == "" {
		article.Slug = slug.WithSuffix("article")
	}

	var err error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		err = service.repo.Create(context, article)
		if !errors.Is(err, ErrSlugTaken) {
			break
		}
		article.Slug = slug.WithSuffix(base)
	}
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "article_created",
		slog.String("article_id", article.ID),
		slog.String("slug", article.Slug),
	)
	return service.repo.FindByID(context, article.ID)
}

/*
Update applies a partial update. The slug stays fixed so published links
keep working after a title edit.
*/
func (service *Service) Update(context context.Context, claims *sec.AuthClaims, id string, input UpdateInput) (*Article, error) {
	article, err := service.loadManaged(context, claims, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		article.Title = strings.TrimSpace(*input.Title)
	}
	if input.Excerpt != nil {
		article.Excerpt = strings.TrimSpace(*input.Excerpt)
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	if input.CoverURL != nil {
		article.CoverURL = strings.TrimSpace(*input.CoverURL)
	}
	if input.CategoryID != nil {
		article.CategoryID = normalizeCategory(input.CategoryID)
	}
	if input.TagIDs != nil {
		article.TagIDs = dedupe(*input.TagIDs)
	}

	if err := validateArticle(article); err != nil {
		return nil, err
	}

	article.UpdatedAt = service.now().UTC()
	if err := service.repo.Update(context, article, input.TagIDs != nil); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "article_updated", slog.String("article_id", id))
	return service.repo.FindByID(context, id)
}

func (service *Service) Delete(context context.Context, claims *sec.AuthClaims, id string) error {
	if _, err := service.loadManaged(context, claims, id); err != nil {
		return err
	}
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).WarnContext(context, "article_deleted",
		slog.String("article_id", id),
		slog.String("by", claims.UserID),
	)
	return nil
}

/*
Publish makes the article public. PublishedAt records the first publication
and survives later unpublish/publish cycles. Publishing twice is a no-op.
*/
func (service *Service) Publish(context context.Context, claims *sec.AuthClaims, id string) (*Article, error) {
	article, err := service.loadManaged(context, claims, id)
	if err != nil {
		return nil, err
	}
	if article.IsPublished() {
		return article, nil
	}

	publishedAt := article.PublishedAt
	if publishedAt == nil {
		now := service.now().UTC()
		publishedAt = &now
	}

	if err := service.repo.SetStatus(context, id, StatusPublished, publishedAt); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "article_published", slog.String("article_id", id))
	return service.repo.FindByID(context, id)
}

// Unpublish turns the article back into a draft.
func (service *Service) Unpublish(context context.Context, claims *sec.AuthClaims, id string) (*Article, error) {
	article, err := service.loadManaged(context, claims, id)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished() {
		return article, nil
	}

	if err := service.repo.SetStatus(context, id, StatusDraft, article.PublishedAt); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "article_unpublished", slog.String("article_id", id))
	return service.repo.FindByID(context, id)
}

// # Likes

// Like records the caller's like. Only published articles can be liked.
func (service *Service) Like(context context.Context, claims *sec.AuthClaims, id string) (LikeState, error) {
	article, err := service.loadPublished(context, id)
	if err != nil {
		return LikeState{}, err
	}
	return service.repo.Like(context, article.ID, claims.UserID)
}

// Unlike removes the caller's like, if any.
func (service *Service) Unlike(context context.Context, claims *sec.AuthClaims, id string) (LikeState, error) {
	article, err := service.loadPublished(context, id)
	if err != nil {
		return LikeState{}, err
	}
	return service.repo.Unlike(context, article.ID, claims.UserID)
}

// # Helpers

// loadManaged loads the article and checks the caller may change it. Drafts
// of other authors are reported as missing, published ones as forbidden.
func (service *Service) loadManaged(context context.Context, claims *sec.AuthClaims, id string) (*Article, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Article")
	}

	article, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !canManage(claims, article) {
		if !article.IsPublished() {
			return nil, apperr.NotFound("Article")
		}
		return nil, ErrNotOwner
	}
	return article, nil
}

func (service *Service) loadPublished(context context.Context, id string) (*Article, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Article")
	}

	article, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished() {
		return nil, apperr.NotFound("Article")
	}
	return article, nil
}

// canManage reports whether claims owns the article or is an administrator.
func canManage(claims *sec.AuthClaims, article *Article) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == article.AuthorID || claims.UserRole() == sec.RoleAdmin
}

func validateArticle(article *Article) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, article.Title).
		MaxLen(FieldTitle, article.Title, MaxTitleLength).
		Required(FieldContent, strings.TrimSpace(article.Content)).
		MaxLen(FieldExcerpt, article.Excerpt, MaxExcerptLength).
		URL(FieldCoverURL, article.CoverURL).
		Custom(FieldTagIDs, len(article.TagIDs) > MaxTags, "Too many tags")

	if article.CategoryID != nil {
		validator.UUID(FieldCategoryID, *article.CategoryID)
	}
	for _, tagID := range article.TagIDs {
		if !uuid.Valid(tagID) {
			validator.Custom(FieldTagIDs, true, "Must contain valid UUIDs")
			break
		}
	}
	return validator.Err()
}

// normalizeCategory maps an empty id to "no category".
func normalizeCategory(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
