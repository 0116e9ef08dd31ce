// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/database/schema"
	"github.com/taibuivan/pixelpulse/internal/platform/dberr"
	"github.com/taibuivan/pixelpulse/internal/users/auth"
)

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// FindByID retrieves a user record from the users.account table.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		auth.UserColumns, schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "postgres_account_find_by_id")
	}
	return user, nil
}

/*
List returns a page of accounts ordered by creation date, newest first.

The total is computed with a window function so one round trip serves both
the page and the pagination metadata.
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		WHERE ($1::text = '' OR %s = $1)
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		auth.UserColumns, schema.UserAccount.Table,
		schema.UserAccount.Role,
		schema.UserAccount.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, string(filter.Role), filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*auth.User, 0, filter.Limit)
	total := 0
	for rows.Next() {
		user := &auth.User{}
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Username, &user.Email, &user.PasswordHash,
			&user.Role, &user.Bio, &user.CreatedAt, &user.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_list_failed: %w", err)
	}

	return users, total, nil
}

/*
Update syncs the name, username, email, bio and role fields and refreshes the
updatedat timestamp on user.
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Name, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.Bio, schema.UserAccount.Role, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	updatedAt := time.Now().UTC()
	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Username,
		user.Email,
		user.Bio,
		user.Role,
		updatedAt,
	)

	switch {
	case dberr.IsUniqueViolation(err, auth.ConstraintEmail):
		return auth.ErrEmailTaken
	case dberr.IsUniqueViolation(err, auth.ConstraintUsername):
		return auth.ErrUsernameTaken
	case err != nil:
		return fmt.Errorf("postgres_account_update_failed: %w", err)
	case tag.RowsAffected() == 0:
		return apperr.NotFound("User")
	}

	user.UpdatedAt = updatedAt
	return nil
}

// Delete removes the account row; foreign keys cascade to owned content.
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
