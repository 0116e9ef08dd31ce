// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/pixelpulse/internal/blog/article"
	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
	"github.com/taibuivan/pixelpulse/pkg/uuid"
)

var (
	ErrCommentsDisabled = apperr.Forbidden("Comments are currently disabled")
	ErrNotAuthor        = apperr.Forbidden("You can only delete your own comments")
)

type Service struct {
	repo     Repository
	articles ArticleFinder
	policy   CommentPolicy
	now      func() time.Time
}

// NewService wires the comment service. policy may be nil, meaning comments
// are always accepted.
func NewService(repo Repository, articles ArticleFinder, policy CommentPolicy) *Service {
	return &Service{repo: repo, articles: articles, policy: policy, now: time.Now}
}

// ListForArticle returns approved comments of a published article.
func (service *Service) ListForArticle(context context.Context, articleID string) ([]*Comment, error) {
	if _, err := service.publishedArticle(context, articleID); err != nil {
		return nil, err
	}
	return service.repo.ListApproved(context, articleID)
}

/*
Create adds a comment by the caller to a published article.

Returns:
  - error: NotFound for drafts and unknown articles, [ErrCommentsDisabled]
    when the site setting is off, or a validation error
*/
func (service *Service) Create(context context.Context, claims *sec.AuthClaims, articleID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)

	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.publishedArticle(context, articleID); err != nil {
		return nil, err
	}

	if service.policy != nil && !service.policy.CommentsAllowed(context) {
		return nil, ErrCommentsDisabled
	}

	now := service.now().UTC()
	comment := &Comment{
		ID:        uuid.New(),
		ArticleID: articleID,
		AuthorID:  claims.UserID,
		Author:    article.Author{ID: claims.UserID, Username: claims.Username},
		Content:   content,
		Approved:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("article_id", articleID),
	)
	return comment, nil
}

// Delete removes a comment. Authors may delete their own; moderators holding
// delete_comment may delete any.
func (service *Service) Delete(context context.Context, claims *sec.AuthClaims, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Comment")
	}

	comment, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if comment.AuthorID != claims.UserID && !sec.HasPermission(claims, sec.PermDeleteComment) {
		return ErrNotAuthor
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_deleted",
		slog.String("comment_id", id),
		slog.String("by", claims.UserID),
	)
	return nil
}

// # Moderation

func (service *Service) ListForModeration(context context.Context, filter ModerationFilter) ([]*Comment, int, error) {
	return service.repo.List(context, filter)
}

// Moderate approves or hides a comment.
func (service *Service) Moderate(context context.Context, id string, approved bool) (*Comment, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Comment")
	}
	if err := service.repo.SetApproved(context, id, approved); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_moderated",
		slog.String("comment_id", id),
		slog.Bool("approved", approved),
	)
	return service.repo.FindByID(context, id)
}

func (service *Service) publishedArticle(context context.Context, id string) (*article.Article, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Article")
	}

	found, err := service.articles.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if !found.IsPublished() {
		return nil, apperr.NotFound("Article")
	}
	return found, nil
}
