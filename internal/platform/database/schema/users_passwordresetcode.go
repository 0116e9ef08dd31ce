// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PasswordResetCodeTable represents the 'users.passwordresetcode' table
type PasswordResetCodeTable struct {
	Table     string
	ID        string
	Email     string
	Code      string
	ExpiresAt string
	Used      string
	UsedAt    string
	CreatedAt string
}

var PasswordResetCode = PasswordResetCodeTable{
	Table:     "users.passwordresetcode",
	ID:        "id",
	Email:     "email",
	Code:      "code",
	ExpiresAt: "expiresat",
	Used:      "used",
	UsedAt:    "usedat",
	CreatedAt: "createdat",
}

func (t PasswordResetCodeTable) Columns() []string {
	return []string{t.ID, t.Email, t.Code, t.ExpiresAt, t.Used, t.UsedAt, t.CreatedAt}
}
