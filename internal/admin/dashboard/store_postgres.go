// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pixelpulse/internal/platform/database/schema"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Collect runs every aggregate in one pgx batch, so the dashboard costs a
single round trip.
*/
func (repository *PostgresRepository) Collect(context context.Context, recent int) (*Stats, error) {
	batch := &pgx.Batch{}
	stats := &Stats{Users: map[string]int{}, Articles: map[string]int{}}

	batch.Queue(fmt.Sprintf(`SELECT %s, COUNT(*) FROM %s GROUP BY %s`,
		schema.UserAccount.Role, schema.UserAccount.Table, schema.UserAccount.Role,
	)).Query(func(rows pgx.Rows) error {
		return collectGroups(rows, stats.Users)
	})

	batch.Queue(fmt.Sprintf(`SELECT %s, COUNT(*) FROM %s GROUP BY %s`,
		schema.BlogArticle.Status, schema.BlogArticle.Table, schema.BlogArticle.Status,
	)).Query(func(rows pgx.Rows) error {
		return collectGroups(rows, stats.Articles)
	})

	batch.Queue(fmt.Sprintf(`SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT %s) FROM %s`,
		schema.BlogComment.IsApproved, schema.BlogComment.Table,
	)).QueryRow(func(row pgx.Row) error {
		return row.Scan(&stats.Comments.Total, &stats.Comments.Pending)
	})

	batch.Queue(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.BlogArticleLike.Table)).
		QueryRow(func(row pgx.Row) error {
			return row.Scan(&stats.Likes)
		})

	batch.Queue(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE NOT %s`,
		schema.SiteContactMessage.Table, schema.SiteContactMessage.IsRead,
	)).QueryRow(func(row pgx.Row) error {
		return row.Scan(&stats.UnreadMessages)
	})

	batch.Queue(fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, u.%s, a.%s
		FROM %s a JOIN %s u ON u.%s = a.%s
		ORDER BY a.%s DESC
		LIMIT $1`,
		schema.BlogArticle.ID, schema.BlogArticle.Title, schema.BlogArticle.Slug, schema.BlogArticle.Status,
		schema.UserAccount.Name, schema.BlogArticle.CreatedAt,
		schema.BlogArticle.Table, schema.UserAccount.Table, schema.UserAccount.ID, schema.BlogArticle.AuthorID,
		schema.BlogArticle.CreatedAt,
	), recent).Query(func(rows pgx.Rows) error {
		articles, err := pgx.CollectRows(rows, pgx.RowToStructByPos[RecentArticle])
		stats.RecentArticles = articles
		return err
	})

	if err := repository.pool.SendBatch(context, batch).Close(); err != nil {
		return nil, fmt.Errorf("postgres_dashboard_collect_failed: %w", err)
	}
	return stats, nil
}

func collectGroups(rows pgx.Rows, into map[string]int) error {
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}
