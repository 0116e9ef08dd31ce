// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/database/schema"
	"github.com/taibuivan/pixelpulse/internal/platform/dberr"
)

const (
	constraintCategorySlug = "category_slug_key"
	constraintTagSlug      = "tag_slug_key"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Categories

func (repository *PostgresRepository) ListCategories(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s,
		       (SELECT COUNT(*) FROM %s a WHERE a.%s = c.%s AND a.%s = 'published')
		FROM %s c
		ORDER BY c.%s`,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug,
		schema.BlogCategory.Description, schema.BlogCategory.CreatedAt,
		schema.BlogArticle.Table, schema.BlogArticle.CategoryID, schema.BlogCategory.ID, schema.BlogArticle.Status,
		schema.BlogCategory.Table,
		schema.BlogCategory.Name,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_category_list_failed: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Category, error) {
		category := &Category{}
		err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.Description,
			&category.CreatedAt, &category.ArticleCount)
		return category, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_category_list_scan_failed: %w", err)
	}
	return categories, nil
}

func (repository *PostgresRepository) GetCategory(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug,
		schema.BlogCategory.Description, schema.BlogCategory.CreatedAt,
		schema.BlogCategory.Table, schema.BlogCategory.ID,
	)

	category := &Category{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&category.ID, &category.Name, &category.Slug, &category.Description, &category.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Category", "postgres_category_get")
	}
	return category, nil
}

func (repository *PostgresRepository) CreateCategory(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.BlogCategory.Table,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug,
		schema.BlogCategory.Description, schema.BlogCategory.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		category.ID, category.Name, category.Slug, category.Description, category.CreatedAt)
	return categoryWriteError(err, "postgres_category_create")
}

func (repository *PostgresRepository) UpdateCategory(context context.Context, category *Category) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		schema.BlogCategory.Table,
		schema.BlogCategory.Name, schema.BlogCategory.Slug, schema.BlogCategory.Description,
		schema.BlogCategory.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		category.ID, category.Name, category.Slug, category.Description)
	if err != nil {
		return categoryWriteError(err, "postgres_category_update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}

func (repository *PostgresRepository) DeleteCategory(context context.Context, id string) error {
	return repository.deleteByID(context, schema.BlogCategory.Table, schema.BlogCategory.ID, id, "Category")
}

// # Tags

func (repository *PostgresRepository) ListTags(context context.Context) ([]*Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, COUNT(a.%s)
		FROM %s t
		LEFT JOIN %s at ON at.%s = t.%s
		LEFT JOIN %s a ON a.%s = at.%s AND a.%s = 'published'
		GROUP BY t.%s
		ORDER BY t.%s`,
		schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug, schema.BlogTag.CreatedAt, schema.BlogArticle.ID,
		schema.BlogTag.Table,
		schema.BlogArticleTag.Table, schema.BlogArticleTag.TagID, schema.BlogTag.ID,
		schema.BlogArticle.Table, schema.BlogArticle.ID, schema.BlogArticleTag.ArticleID, schema.BlogArticle.Status,
		schema.BlogTag.ID,
		schema.BlogTag.Name,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_tag_list_failed: %w", err)
	}

	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Tag, error) {
		tag := &Tag{}
		err := row.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.ArticleCount)
		return tag, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_tag_list_scan_failed: %w", err)
	}
	return tags, nil
}

func (repository *PostgresRepository) CreateTag(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.BlogTag.Table,
		schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug, schema.BlogTag.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query, tag.ID, tag.Name, tag.Slug, tag.CreatedAt)
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, constraintTagSlug):
		return ErrTagSlugTaken
	default:
		return fmt.Errorf("postgres_tag_create_failed: %w", err)
	}
}

func (repository *PostgresRepository) DeleteTag(context context.Context, id string) error {
	return repository.deleteByID(context, schema.BlogTag.Table, schema.BlogTag.ID, id, "Tag")
}

func (repository *PostgresRepository) deleteByID(context context.Context, table, column, id, resource string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, column)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_%s_delete_failed: %w", strings.ToLower(resource), err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func categoryWriteError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, constraintCategorySlug):
		return ErrCategorySlugTaken
	default:
		return fmt.Errorf("%s_failed: %w", action, err)
	}
}
