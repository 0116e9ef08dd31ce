// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

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

var messageColumns = fmt.Sprintf(`%s, %s, %s, %s, %s, %s, %s`,
	schema.SiteContactMessage.ID, schema.SiteContactMessage.Name, schema.SiteContactMessage.Email,
	schema.SiteContactMessage.Subject, schema.SiteContactMessage.Message,
	schema.SiteContactMessage.IsRead, schema.SiteContactMessage.CreatedAt,
)

func (repository *PostgresRepository) Create(context context.Context, message *Message) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.SiteContactMessage.Table, messageColumns)

	_, err := repository.pool.Exec(context, query,
		message.ID, message.Name, message.Email, message.Subject, message.Body, message.Read, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_contact_create_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*Message, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		WHERE (NOT $1 OR NOT %s)
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		messageColumns, schema.SiteContactMessage.Table,
		schema.SiteContactMessage.IsRead,
		schema.SiteContactMessage.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, filter.UnreadOnly, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_contact_list_failed: %w", err)
	}

	total := 0
	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Message, error) {
		message := &Message{}
		err := row.Scan(&message.ID, &message.Name, &message.Email, &message.Subject, &message.Body,
			&message.Read, &message.CreatedAt, &total)
		return message, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_contact_list_scan_failed: %w", err)
	}
	return messages, total, nil
}

func (repository *PostgresRepository) SetRead(context context.Context, id string, read bool) (*Message, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 RETURNING %s`,
		schema.SiteContactMessage.Table, schema.SiteContactMessage.IsRead,
		schema.SiteContactMessage.ID, messageColumns)

	message := &Message{}
	err := repository.pool.QueryRow(context, query, id, read).Scan(
		&message.ID, &message.Name, &message.Email, &message.Subject, &message.Body,
		&message.Read, &message.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Message", "postgres_contact_set_read")
	}
	return message, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.SiteContactMessage.Table, schema.SiteContactMessage.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_contact_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Message")
	}
	return nil
}
