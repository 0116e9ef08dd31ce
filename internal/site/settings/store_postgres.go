// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pixelpulse/internal/platform/database/schema"
	"github.com/taibuivan/pixelpulse/internal/platform/postgres"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) List(context context.Context) ([]*Setting, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s ORDER BY %s`,
		schema.SiteSetting.Key, schema.SiteSetting.Value, schema.SiteSetting.Description,
		schema.SiteSetting.UpdatedAt, schema.SiteSetting.Table, schema.SiteSetting.Key,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_setting_list_failed: %w", err)
	}

	settings, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[Setting])
	if err != nil {
		return nil, fmt.Errorf("postgres_setting_list_scan_failed: %w", err)
	}
	return settings, nil
}

func (repository *PostgresRepository) Upsert(context context.Context, values map[string]string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, now())
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		schema.SiteSetting.Table,
		schema.SiteSetting.Key, schema.SiteSetting.Value, schema.SiteSetting.UpdatedAt,
		schema.SiteSetting.Key,
		schema.SiteSetting.Value, schema.SiteSetting.Value,
		schema.SiteSetting.UpdatedAt, schema.SiteSetting.UpdatedAt,
	)

	return postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		batch := &pgx.Batch{}
		for key, value := range values {
			batch.Queue(query, key, value)
		}
		if err := transaction.SendBatch(context, batch).Close(); err != nil {
			return fmt.Errorf("postgres_setting_upsert_failed: %w", err)
		}
		return nil
	})
}
