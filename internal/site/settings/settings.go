// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package settings stores the runtime site settings editable by administrators.

Only a fixed set of keys exists. Reads go through a short-lived in-process
cache because two of them (posts_per_page, allow_comments) are consulted on
hot paths.
*/
package settings

import (
	"context"
	"time"
)

const (
	KeySiteName        = "site_name"
	KeySiteDescription = "site_description"
	KeyPostsPerPage    = "posts_per_page"
	KeyAllowComments   = "allow_comments"
	KeyContactEmail    = "contact_email"
)

// Defaults are served when a key is missing from storage.
var Defaults = map[string]string{
	KeySiteName:        "PixelPulse",
	KeySiteDescription: "",
	KeyPostsPerPage:    "10",
	KeyAllowComments:   "true",
	KeyContactEmail:    "",
}

// Setting is one stored key/value pair.
type Setting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repository interface {
	List(context context.Context) ([]*Setting, error)

	// Upsert writes every pair atomically.
	Upsert(context context.Context, values map[string]string) error
}
