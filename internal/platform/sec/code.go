// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// ResetCodeLength is the number of digits in a password-reset code.
const ResetCodeLength = 6

var (
	resetCodeSpace = big.NewInt(1_000_000)
	resetCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)
)

// GenerateResetCode returns a uniformly random, zero-padded 6-digit code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, resetCodeSpace)
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%0*d", ResetCodeLength, n.Int64()), nil
}

// IsResetCode reports whether code is exactly six ASCII digits.
func IsResetCode(code string) bool {
	return resetCodeRegex.MatchString(code)
}
