// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/database/schema"
	"github.com/taibuivan/pixelpulse/internal/platform/dberr"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var selectComments = fmt.Sprintf(`
	SELECT m.%s, m.%s, m.%s, u.%s, u.%s, m.%s, m.%s, m.%s, m.%s, a.%s, a.%s
	FROM %s m
	JOIN %s u ON u.%s = m.%s
	JOIN %s a ON a.%s = m.%s`,
	schema.BlogComment.ID, schema.BlogComment.ArticleID, schema.BlogComment.AuthorID,
	schema.UserAccount.Name, schema.UserAccount.Username,
	schema.BlogComment.Content, schema.BlogComment.IsApproved,
	schema.BlogComment.CreatedAt, schema.BlogComment.UpdatedAt,
	schema.BlogArticle.Title, schema.BlogArticle.Slug,
	schema.BlogComment.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.BlogComment.AuthorID,
	schema.BlogArticle.Table, schema.BlogArticle.ID, schema.BlogComment.ArticleID,
)

func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	comment := &Comment{Article: &ArticleRef{}}
	destinations := []any{
		&comment.ID, &comment.ArticleID, &comment.AuthorID,
		&comment.Author.Name, &comment.Author.Username,
		&comment.Content, &comment.Approved, &comment.CreatedAt, &comment.UpdatedAt,
		&comment.Article.Title, &comment.Article.Slug,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}
	comment.Author.ID = comment.AuthorID
	return comment, nil
}

// ListApproved returns the visible comments of an article, oldest first.
func (repository *PostgresRepository) ListApproved(context context.Context, articleID string) ([]*Comment, error) {
	query := selectComments + fmt.Sprintf(`
		WHERE m.%s = $1 AND m.%s
		ORDER BY m.%s ASC`,
		schema.BlogComment.ArticleID, schema.BlogComment.IsApproved,
		schema.BlogComment.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("postgres_comment_list_failed: %w", err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Comment, error) {
		comment, err := scanComment(row)
		if err == nil {
			comment.Article = nil
		}
		return comment, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_comment_list_scan_failed: %w", err)
	}
	return comments, nil
}

// List returns the moderation queue, newest first.
func (repository *PostgresRepository) List(context context.Context, filter ModerationFilter) ([]*Comment, int, error) {
	query := selectComments + fmt.Sprintf(`
		WHERE ($1::boolean IS NULL OR m.%s = $1)
		ORDER BY m.%s DESC
		LIMIT $2 OFFSET $3`,
		schema.BlogComment.IsApproved,
		schema.BlogComment.CreatedAt,
	)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ($1::boolean IS NULL OR %s = $1)`,
		schema.BlogComment.Table, schema.BlogComment.IsApproved)
	if err := repository.pool.QueryRow(context, countQuery, filter.Approved).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, query, filter.Approved, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_moderation_list_failed: %w", err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Comment, error) {
		return scanComment(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_moderation_scan_failed: %w", err)
	}
	return comments, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := selectComments + fmt.Sprintf(` WHERE m.%s = $1`, schema.BlogComment.ID)

	comment, err := scanComment(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "postgres_comment_find_by_id")
	}
	return comment, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		schema.BlogComment.Table,
		schema.BlogComment.ID, schema.BlogComment.ArticleID, schema.BlogComment.AuthorID,
		schema.BlogComment.Content, schema.BlogComment.IsApproved,
		schema.BlogComment.CreatedAt, schema.BlogComment.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		comment.ID, comment.ArticleID, comment.AuthorID, comment.Content, comment.Approved, comment.CreatedAt)
	return dberr.Wrap(err, "Comment", "postgres_comment_create")
}

func (repository *PostgresRepository) SetApproved(context context.Context, id string, approved bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.BlogComment.Table, schema.BlogComment.IsApproved, schema.BlogComment.UpdatedAt,
		schema.BlogComment.ID)

	tag, err := repository.pool.Exec(context, query, id, approved)
	if err != nil {
		return fmt.Errorf("postgres_comment_moderate_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.BlogComment.Table, schema.BlogComment.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_comment_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
