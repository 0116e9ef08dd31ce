// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dashboard aggregates site statistics for administrators.
package dashboard

import (
	"context"
	"time"
)

// Stats is the dashboard payload.
type Stats struct {
	Users          map[string]int  `json:"users"`
	TotalUsers     int             `json:"total_users"`
	Articles       map[string]int  `json:"articles"`
	TotalArticles  int             `json:"total_articles"`
	Comments       CommentStats    `json:"comments"`
	Likes          int             `json:"likes"`
	UnreadMessages int             `json:"unread_messages"`
	RecentArticles []RecentArticle `json:"recent_articles"`
}

type CommentStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
}

// RecentArticle is a row of the "latest articles" widget.
type RecentArticle struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Status     string    `json:"status"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecentLimit is the size of the recent articles list.
const RecentLimit = 5

type Repository interface {
	// Collect reads every counter. Maps hold only the groups present in
	// storage.
	Collect(context context.Context, recent int) (*Stats, error)
}
