// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"context"

	"github.com/taibuivan/pixelpulse/internal/blog/article"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Stats returns the dashboard. Every role and article status is present,
// zero when nothing matches, and the totals are derived from the groups.
func (service *Service) Stats(context context.Context) (*Stats, error) {
	stats, err := service.repo.Collect(context, RecentLimit)
	if err != nil {
		return nil, err
	}

	for _, role := range sec.Roles {
		if _, ok := stats.Users[string(role)]; !ok {
			stats.Users[string(role)] = 0
		}
	}
	for _, status := range []article.Status{article.StatusDraft, article.StatusPublished} {
		if _, ok := stats.Articles[string(status)]; !ok {
			stats.Articles[string(status)] = 0
		}
	}

	stats.TotalUsers = sum(stats.Users)
	stats.TotalArticles = sum(stats.Articles)
	if stats.RecentArticles == nil {
		stats.RecentArticles = []RecentArticle{}
	}
	return stats, nil
}

func sum(groups map[string]int) int {
	total := 0
	for _, count := range groups {
		total += count
	}
	return total
}
