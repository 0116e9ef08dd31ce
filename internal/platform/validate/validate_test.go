// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "PixelPulse", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("title", tt.value)

			if tt.hasError {
				err := v.Err()
				require.Error(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, "title", ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"display_name", "Ann <ann@example.com>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Password checks both length bounds.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"seven_chars", "1234567", false},
		{"eight_chars", "12345678", true},
		{"seventy_two_bytes", strings.Repeat("a", 72), true},
		{"too_long", strings.Repeat("a", 73), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Password("password", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Username checks the public handle format.
*/
func TestValidator_Username(t *testing.T) {
	valid := []string{"tai", "pixel_pulse", "User2026"}
	invalid := []string{"ab", "has space", "dash-ed", strings.Repeat("x", 31)}

	for _, name := range valid {
		assert.False(t, (&validate.Validator{}).Username("username", name).HasErrors(), name)
	}
	for _, name := range invalid {
		assert.True(t, (&validate.Validator{}).Username("username", name).HasErrors(), name)
	}
}

/*
TestValidator_ResetCodeAndURL covers the remaining single-value rules.
*/
func TestValidator_ResetCodeAndURL(t *testing.T) {
	assert.False(t, (&validate.Validator{}).ResetCode("code", "012345").HasErrors())
	assert.True(t, (&validate.Validator{}).ResetCode("code", "12345").HasErrors())

	assert.False(t, (&validate.Validator{}).URL("cover", "").HasErrors())
	assert.False(t, (&validate.Validator{}).URL("cover", "https://cdn.example.com/a.png").HasErrors())
	assert.True(t, (&validate.Validator{}).URL("cover", "javascript:alert(1)").HasErrors())
	assert.True(t, (&validate.Validator{}).URL("cover", "/relative.png").HasErrors())
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "tai").
		MinLen("username", "tai", 3).
		MaxLen("username", "tai", 10).
		Email("email", "tai@pixelpulse.dev").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").       // Fails
		MinLen("username", "a", 5).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@example.com", validate.NormalizeEmail("  Ann@Example.COM "))
}
