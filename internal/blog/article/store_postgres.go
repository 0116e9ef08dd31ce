// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/database/schema"
	"github.com/taibuivan/pixelpulse/internal/platform/dberr"
	"github.com/taibuivan/pixelpulse/internal/platform/postgres"
)

const constraintSlug = "article_slug_key"

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Queries

// selectArticles returns the SELECT ... FROM ... JOIN prefix shared by every
// read. Listings pass withContent=false to skip the article body; extra is
// appended to the column list.
func selectArticles(withContent bool, extra string) string {
	content := "''"
	if withContent {
		content = "a." + schema.BlogArticle.Content
	}

	return fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, %s, a.%s, a.%s,
		       a.%s, u.%s, u.%s,
		       c.%s, c.%s, c.%s,
		       (SELECT COUNT(*) FROM %s l WHERE l.%s = a.%s),
		       (SELECT COUNT(*) FROM %s m WHERE m.%s = a.%s AND m.%s),
		       a.%s, a.%s, a.%s%s
		FROM %s a
		JOIN %s u ON u.%s = a.%s
		LEFT JOIN %s c ON c.%s = a.%s`,
		schema.BlogArticle.ID, schema.BlogArticle.Title, schema.BlogArticle.Slug, schema.BlogArticle.Excerpt,
		content, schema.BlogArticle.CoverURL, schema.BlogArticle.Status,
		schema.BlogArticle.AuthorID, schema.UserAccount.Name, schema.UserAccount.Username,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug,
		schema.BlogArticleLike.Table, schema.BlogArticleLike.ArticleID, schema.BlogArticle.ID,
		schema.BlogComment.Table, schema.BlogComment.ArticleID, schema.BlogArticle.ID, schema.BlogComment.IsApproved,
		schema.BlogArticle.PublishedAt, schema.BlogArticle.CreatedAt, schema.BlogArticle.UpdatedAt, extra,
		schema.BlogArticle.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.BlogArticle.AuthorID,
		schema.BlogCategory.Table, schema.BlogCategory.ID, schema.BlogArticle.CategoryID,
	)
}

// scanArticle reads one row selected with [selectArticles] plus any trailing
// destinations (e.g. a window-function total).
func scanArticle(row pgx.Row, extra ...any) (*Article, error) {
	article := &Article{}
	var categoryID, categoryName, categorySlug *string

	destinations := []any{
		&article.ID, &article.Title, &article.Slug, &article.Excerpt, &article.Content,
		&article.CoverURL, &article.Status,
		&article.AuthorID, &article.Author.Name, &article.Author.Username,
		&categoryID, &categoryName, &categorySlug,
		&article.LikeCount, &article.CommentCount,
		&article.PublishedAt, &article.CreatedAt, &article.UpdatedAt,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}

	article.Author.ID = article.AuthorID
	article.CategoryID = categoryID
	if categoryID != nil {
		article.Category = &CategoryRef{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	article.Tags = []TagRef{}
	return article, nil
}

/*
List returns one page of articles and the total match count.

Every filter uses the "$n = '' OR ..." form so one statement serves all
combinations. Published listings sort by publication date, drafts fall back
to their creation date.
*/
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*Article, int, error) {
	query := selectArticles(false, ", COUNT(*) OVER()") + fmt.Sprintf(`
		WHERE ($1::text = '' OR a.%s = $1)
		  AND ($2::text = '' OR a.%s::text = $2)
		  AND ($3::text = '' OR c.%s = $3)
		  AND ($4::text = '' OR EXISTS (
		        SELECT 1 FROM %s at JOIN %s t ON t.%s = at.%s
		        WHERE at.%s = a.%s AND t.%s = $4))
		  AND ($5::text = '' OR lower(u.%s) = lower($5))
		  AND ($6::text = '' OR a.%s ILIKE '%%' || $6 || '%%' ESCAPE '\')
		ORDER BY COALESCE(a.%s, a.%s) DESC, a.%s DESC
		LIMIT $7 OFFSET $8`,
		schema.BlogArticle.Status,
		schema.BlogArticle.AuthorID,
		schema.BlogCategory.Slug,
		schema.BlogArticleTag.Table, schema.BlogTag.Table, schema.BlogTag.ID, schema.BlogArticleTag.TagID,
		schema.BlogArticleTag.ArticleID, schema.BlogArticle.ID, schema.BlogTag.Slug,
		schema.UserAccount.Username,
		schema.BlogArticle.Title,
		schema.BlogArticle.PublishedAt, schema.BlogArticle.CreatedAt, schema.BlogArticle.ID,
	)

	rows, err := repository.pool.Query(context, query,
		string(filter.Status), filter.AuthorID, filter.CategorySlug, filter.TagSlug,
		filter.AuthorUsername, escapeLike(filter.Query),
		filter.Limit, filter.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_article_list_failed: %w", err)
	}
	defer rows.Close()

	articles := make([]*Article, 0, filter.Limit)
	total := 0
	for rows.Next() {
		article, err := scanArticle(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_article_list_scan_failed: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_article_list_rows_failed: %w", err)
	}

	if err := repository.loadTags(context, articles); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Article, error) {
	return repository.findOne(context, schema.BlogArticle.ID, id, "postgres_article_find_by_id")
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Article, error) {
	return repository.findOne(context, schema.BlogArticle.Slug, slug, "postgres_article_find_by_slug")
}

func (repository *PostgresRepository) findOne(context context.Context, column, value, action string) (*Article, error) {
	query := selectArticles(true, "") + fmt.Sprintf(` WHERE a.%s = $1`, column)

	article, err := scanArticle(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "Article", action)
	}

	if err := repository.loadTags(context, []*Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}

// loadTags fills the Tags of every article with a single query.
func (repository *PostgresRepository) loadTags(context context.Context, articles []*Article) error {
	if len(articles) == 0 {
		return nil
	}

	byID := make(map[string]*Article, len(articles))
	ids := make([]string, len(articles))
	for i, article := range articles {
		byID[article.ID] = article
		ids[i] = article.ID
	}

	query := fmt.Sprintf(`
		SELECT at.%s, t.%s, t.%s, t.%s
		FROM %s at
		JOIN %s t ON t.%s = at.%s
		WHERE at.%s = ANY($1)
		ORDER BY t.%s`,
		schema.BlogArticleTag.ArticleID, schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug,
		schema.BlogArticleTag.Table,
		schema.BlogTag.Table, schema.BlogTag.ID, schema.BlogArticleTag.TagID,
		schema.BlogArticleTag.ArticleID,
		schema.BlogTag.Name,
	)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return fmt.Errorf("postgres_article_tags_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID string
		var tag TagRef
		if err := rows.Scan(&articleID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return fmt.Errorf("postgres_article_tags_scan_failed: %w", err)
		}
		if article, ok := byID[articleID]; ok {
			article.Tags = append(article.Tags, tag)
		}
	}
	return rows.Err()
}

// # Writes

func (repository *PostgresRepository) Create(context context.Context, article *Article) error {
	return postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
			schema.BlogArticle.Table,
			schema.BlogArticle.ID, schema.BlogArticle.Title, schema.BlogArticle.Slug,
			schema.BlogArticle.Excerpt, schema.BlogArticle.Content, schema.BlogArticle.CoverURL,
			schema.BlogArticle.Status, schema.BlogArticle.AuthorID, schema.BlogArticle.CategoryID,
			schema.BlogArticle.CreatedAt, schema.BlogArticle.UpdatedAt,
		)

		_, err := transaction.Exec(context, query,
			article.ID, article.Title, article.Slug, article.Excerpt, article.Content, article.CoverURL,
			article.Status, article.AuthorID, article.CategoryID, article.CreatedAt,
		)
		if err != nil {
			return writeError(err, "postgres_article_create")
		}

		return replaceTags(context, transaction, article.ID, article.TagIDs)
	})
}

func (repository *PostgresRepository) Update(context context.Context, article *Article, withTags bool) error {
	return postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		query := fmt.Sprintf(`
			UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
			WHERE %s = $1`,
			schema.BlogArticle.Table,
			schema.BlogArticle.Title, schema.BlogArticle.Excerpt, schema.BlogArticle.Content,
			schema.BlogArticle.CoverURL, schema.BlogArticle.CategoryID, schema.BlogArticle.UpdatedAt,
			schema.BlogArticle.ID,
		)

		tag, err := transaction.Exec(context, query,
			article.ID, article.Title, article.Excerpt, article.Content, article.CoverURL,
			article.CategoryID, article.UpdatedAt,
		)
		if err != nil {
			return writeError(err, "postgres_article_update")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Article")
		}

		if !withTags {
			return nil
		}
		return replaceTags(context, transaction, article.ID, article.TagIDs)
	})
}

func (repository *PostgresRepository) SetStatus(context context.Context, id string, status Status, publishedAt *time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = now() WHERE %s = $1`,
		schema.BlogArticle.Table,
		schema.BlogArticle.Status, schema.BlogArticle.PublishedAt, schema.BlogArticle.UpdatedAt,
		schema.BlogArticle.ID,
	)

	tag, err := repository.pool.Exec(context, query, id, status, publishedAt)
	if err != nil {
		return fmt.Errorf("postgres_article_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Article")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.BlogArticle.Table, schema.BlogArticle.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_article_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Article")
	}
	return nil
}

// replaceTags rewrites the tag links of an article inside transaction.
func replaceTags(context context.Context, transaction pgx.Tx, articleID string, tagIDs []string) error {
	unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.BlogArticleTag.Table, schema.BlogArticleTag.ArticleID)
	if _, err := transaction.Exec(context, unlink, articleID); err != nil {
		return fmt.Errorf("postgres_article_tags_clear_failed: %w", err)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.BlogArticleTag.Table, schema.BlogArticleTag.ArticleID, schema.BlogArticleTag.TagID)

	batch := &pgx.Batch{}
	for _, tagID := range tagIDs {
		batch.Queue(insert, articleID, tagID)
	}
	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return dberr.Wrap(err, "Tag", "postgres_article_tags_insert")
	}
	return nil
}

// # Likes

func (repository *PostgresRepository) Like(context context.Context, articleID, userID string) (LikeState, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.BlogArticleLike.Table, schema.BlogArticleLike.ArticleID, schema.BlogArticleLike.UserID)

	if _, err := repository.pool.Exec(context, query, articleID, userID); err != nil {
		return LikeState{}, dberr.Wrap(err, "Article", "postgres_article_like")
	}
	return repository.likeState(context, articleID, true)
}

func (repository *PostgresRepository) Unlike(context context.Context, articleID, userID string) (LikeState, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.BlogArticleLike.Table, schema.BlogArticleLike.ArticleID, schema.BlogArticleLike.UserID)

	if _, err := repository.pool.Exec(context, query, articleID, userID); err != nil {
		return LikeState{}, fmt.Errorf("postgres_article_unlike_failed: %w", err)
	}
	return repository.likeState(context, articleID, false)
}

func (repository *PostgresRepository) IsLiked(context context.Context, articleID, userID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.BlogArticleLike.Table, schema.BlogArticleLike.ArticleID, schema.BlogArticleLike.UserID)

	var liked bool
	if err := repository.pool.QueryRow(context, query, articleID, userID).Scan(&liked); err != nil {
		return false, fmt.Errorf("postgres_article_is_liked_failed: %w", err)
	}
	return liked, nil
}

func (repository *PostgresRepository) likeState(context context.Context, articleID string, liked bool) (LikeState, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.BlogArticleLike.Table, schema.BlogArticleLike.ArticleID)

	state := LikeState{ArticleID: articleID, Liked: liked}
	if err := repository.pool.QueryRow(context, query, articleID).Scan(&state.Likes); err != nil {
		return LikeState{}, fmt.Errorf("postgres_article_like_count_failed: %w", err)
	}
	return state, nil
}

func writeError(err error, action string) error {
	if dberr.IsUniqueViolation(err, constraintSlug) {
		return ErrSlugTaken
	}
	return dberr.Wrap(err, "Article", action)
}

// escapeLike neutralises LIKE wildcards in user search input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
