// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "article_slug_key"}
	foreign := &pgconn.PgError{Code: "23503"}
	badID := &pgconn.PgError{Code: "22P02"}
	other := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), "NOT_FOUND"},
		{"unique", unique, "CONFLICT"},
		{"foreign_key", foreign, "VALIDATION_ERROR"},
		{"invalid_uuid", badID, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "Article", "postgres_article_find")
			assert.True(t, apperr.IsCode(wrapped, tt.wantCode), "got %v", wrapped)
		})
	}

	wrapped := dberr.Wrap(other, "Article", "postgres_article_find")
	assert.False(t, apperr.IsAppError(wrapped))
	assert.ErrorIs(t, wrapped, other)
	assert.Contains(t, wrapped.Error(), "postgres_article_find_failed")

	assert.NoError(t, dberr.Wrap(nil, "Article", "noop"))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "tag_slug_key"})

	assert.True(t, dberr.IsUniqueViolation(err))
	assert.True(t, dberr.IsUniqueViolation(err, "category_slug_key", "tag_slug_key"))
	assert.False(t, dberr.IsUniqueViolation(err, "article_slug_key"))
	assert.False(t, dberr.IsUniqueViolation(errors.New("plain")))
}
