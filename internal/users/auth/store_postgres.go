// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

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

// Unique index names from the initial migration.
const (
	ConstraintEmail    = "account_email_key"
	ConstraintUsername = "account_username_key"
)

// UserColumns is the SELECT list matching [ScanUser].
var UserColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// ScanUser reads one users.account row selected with [UserColumns].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value, action string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`,
		UserColumns, schema.UserAccount.Table, column,
	)

	user, err := ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "User", action)
	}
	return user, nil
}

// FindByID retrieves a user by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserColumns, schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "postgres_user_find_by_id")
	}
	return user, nil
}

// FindByEmail retrieves a user by email, ignoring case.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email, "postgres_user_find_by_email")
}

// FindByUsername retrieves a user by username, ignoring case.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username, "postgres_user_find_by_username")
}

/*
Create persists a new user record into users.account.

Unique index violations are reported as [ErrEmailTaken] or
[ErrUsernameTaken] so a race between two signups still yields a clean 409.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Username,
		schema.UserAccount.Email, schema.UserAccount.Password, schema.UserAccount.Role,
		schema.UserAccount.Bio, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Bio,
		user.CreatedAt,
		user.UpdatedAt,
	)

	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, ConstraintEmail):
		return ErrEmailTaken
	case dberr.IsUniqueViolation(err, ConstraintUsername):
		return ErrUsernameTaken
	default:
		return fmt.Errorf("postgres_user_create_failed: %w", err)
	}
}

// UpdatePassword overwrites the password hash of userID.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Password, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query, userID, newHash)
	if err != nil {
		return fmt.Errorf("postgres_user_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// # Reset Code Repository

// PostgresResetCodeRepository implements [ResetCodeRepository] using pgx.
type PostgresResetCodeRepository struct {
	pool *pgxpool.Pool
}

// NewResetCodeRepository creates a new PostgreSQL implementation of the ResetCodeRepository.
func NewResetCodeRepository(pool *pgxpool.Pool) *PostgresResetCodeRepository {
	return &PostgresResetCodeRepository{pool: pool}
}

// Create persists a new unused code.
func (repository *PostgresResetCodeRepository) Create(context context.Context, code *PasswordResetCode) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, FALSE, $5)`,
		schema.PasswordResetCode.Table,
		schema.PasswordResetCode.ID, schema.PasswordResetCode.Email, schema.PasswordResetCode.Code,
		schema.PasswordResetCode.ExpiresAt, schema.PasswordResetCode.Used, schema.PasswordResetCode.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		code.ID,
		code.Email,
		code.Code,
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_reset_code_create_failed: %w", err)
	}
	return nil
}

/*
consumeQuery picks the most recent unused code for (email, code) and flips it
to used in one statement. The expiry is checked on the picked row, so a stale
latest code is rejected rather than falling back to an older one. FOR UPDATE
serializes concurrent consumers; the loser re-evaluates 'used' and matches
nothing.
*/
var consumeQuery = fmt.Sprintf(`
	UPDATE %[1]s
	SET %[6]s = TRUE, %[7]s = $3
	WHERE %[2]s = (
		SELECT %[2]s FROM %[1]s
		WHERE %[3]s = $1 AND %[4]s = $2 AND %[6]s = FALSE
		ORDER BY %[8]s DESC
		LIMIT 1
		FOR UPDATE
	)
	AND %[6]s = FALSE
	AND %[5]s >= $3
	RETURNING %[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s`,
	schema.PasswordResetCode.Table,     // 1
	schema.PasswordResetCode.ID,        // 2
	schema.PasswordResetCode.Email,     // 3
	schema.PasswordResetCode.Code,      // 4
	schema.PasswordResetCode.ExpiresAt, // 5
	schema.PasswordResetCode.Used,      // 6
	schema.PasswordResetCode.UsedAt,    // 7
	schema.PasswordResetCode.CreatedAt, // 8
)

func consume(context context.Context, db postgres.Querier, email, code string, now time.Time) (*PasswordResetCode, error) {
	consumed := &PasswordResetCode{}
	err := db.QueryRow(context, consumeQuery, email, code, now).Scan(
		&consumed.ID,
		&consumed.Email,
		&consumed.Code,
		&consumed.ExpiresAt,
		&consumed.Used,
		&consumed.UsedAt,
		&consumed.CreatedAt,
	)
	if dberr.IsNoRows(err) {
		return nil, ErrInvalidResetCode
	}
	if err != nil {
		return nil, fmt.Errorf("postgres_reset_code_consume_failed: %w", err)
	}
	return consumed, nil
}

// Consume implements [ResetCodeRepository.Consume].
func (repository *PostgresResetCodeRepository) Consume(context context.Context, email, code string, now time.Time) (*PasswordResetCode, error) {
	return consume(context, repository.pool, email, code, now)
}

// ConsumeAndSetPassword implements [ResetCodeRepository.ConsumeAndSetPassword].
func (repository *PostgresResetCodeRepository) ConsumeAndSetPassword(context context.Context, email, code, passwordHash string, now time.Time) (string, error) {
	updatePassword := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3
		WHERE lower(%s) = lower($1)
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Password, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Email,
		schema.UserAccount.ID,
	)

	var userID string
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := consume(context, tx, email, code, now); err != nil {
			return err
		}

		err := tx.QueryRow(context, updatePassword, email, passwordHash, now).Scan(&userID)
		if dberr.IsNoRows(err) {
			// The account was deleted after the code was issued.
			return ErrInvalidResetCode
		}
		if err != nil {
			return fmt.Errorf("postgres_reset_password_update_failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return userID, nil
}

// DeleteStale implements [ResetCodeRepository.DeleteStale].
func (repository *PostgresResetCodeRepository) DeleteStale(context context.Context, cutoff time.Time) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE (%s = TRUE AND %s < $1) OR %s < $1`,
		schema.PasswordResetCode.Table,
		schema.PasswordResetCode.Used, schema.PasswordResetCode.UsedAt,
		schema.PasswordResetCode.ExpiresAt,
	)

	tag, err := repository.pool.Exec(context, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("postgres_reset_code_delete_stale_failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
