// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

/*
TestGenerateResetCode checks format over many draws, including leading zeros
being kept.
*/
func TestGenerateResetCode(t *testing.T) {
	for range 500 {
		code, err := sec.GenerateResetCode()
		require.NoError(t, err)
		assert.Len(t, code, sec.ResetCodeLength)
		assert.True(t, sec.IsResetCode(code), code)
	}
}

func TestIsResetCode(t *testing.T) {
	tests := map[string]bool{
		"000123":  true,
		"999999":  true,
		"12345":   false,
		"1234567": false,
		"12a456":  false,
		" 12345":  false,
		"":        false,
		"١٢٣٤٥٦":  false,
	}

	for input, want := range tests {
		assert.Equal(t, want, sec.IsResetCode(input), "%q", input)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse", hash))
}
