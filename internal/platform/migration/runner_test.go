// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pixelpulse/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/blog":   "pgx5://u:p@db:5432/blog",
		"postgresql://u:p@db:5432/blog": "pgx5://u:p@db:5432/blog",
		"pgx5://u:p@db:5432/blog":       "pgx5://u:p@db:5432/blog",
		"host=db user=u":                "host=db user=u",
	}

	for input, want := range tests {
		assert.Equal(t, want, migration.ToPgx5DSN(input), input)
	}
}
