// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
)

// cacheTTL bounds how stale a read may be on another instance after an update.
const cacheTTL = 30 * time.Second

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	cached   map[string]string
	cachedAt time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

/*
Values returns every known setting, defaults filled in for missing keys.
Unknown rows in storage are ignored.
*/
func (service *Service) Values(context context.Context) (map[string]string, error) {
	service.mu.RLock()
	if service.cached != nil && service.now().Sub(service.cachedAt) < cacheTTL {
		values := maps.Clone(service.cached)
		service.mu.RUnlock()
		return values, nil
	}
	service.mu.RUnlock()

	stored, err := service.repo.List(context)
	if err != nil {
		return nil, err
	}

	values := maps.Clone(Defaults)
	for _, setting := range stored {
		if _, known := Defaults[setting.Key]; known {
			values[setting.Key] = setting.Value
		}
	}

	service.mu.Lock()
	service.cached = values
	service.cachedAt = service.now()
	service.mu.Unlock()

	return maps.Clone(values), nil
}

/*
Update validates and stores the given settings.

Returns:
  - map[string]string: the full settings after the update
  - error: BadRequest UNKNOWN_SETTING for keys outside [Defaults], or a
    validation error
*/
func (service *Service) Update(context context.Context, values map[string]string) (map[string]string, error) {
	var unknown []string
	for key := range values {
		if _, known := Defaults[key]; !known {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, apperr.BadRequest("UNKNOWN_SETTING",
			fmt.Sprintf("Unknown setting: %s", strings.Join(unknown, ", ")))
	}

	normalized := make(map[string]string, len(values))
	for key, value := range values {
		normalized[key] = strings.TrimSpace(value)
	}
	if err := validateValues(normalized); err != nil {
		return nil, err
	}

	if err := service.repo.Upsert(context, normalized); err != nil {
		return nil, err
	}

	service.mu.Lock()
	service.cached = nil
	service.mu.Unlock()

	ctxutil.GetLogger(context).InfoContext(context, "settings_updated",
		slog.Any("keys", slices.Sorted(maps.Keys(normalized))))
	return service.Values(context)
}

// PostsPerPage returns the listing page size, or 0 when unavailable.
func (service *Service) PostsPerPage(context context.Context) int {
	values, err := service.Values(context)
	if err != nil {
		service.logger.WarnContext(context, "settings_read_failed", slog.Any("error", err))
		return 0
	}
	size, _ := strconv.Atoi(values[KeyPostsPerPage])
	return size
}

// CommentsAllowed reports the allow_comments switch. A storage failure falls
// back to the default.
func (service *Service) CommentsAllowed(context context.Context) bool {
	values, err := service.Values(context)
	if err != nil {
		service.logger.WarnContext(context, "settings_read_failed", slog.Any("error", err))
		values = Defaults
	}
	allowed, _ := strconv.ParseBool(values[KeyAllowComments])
	return allowed
}

func validateValues(values map[string]string) error {
	validator := &validate.Validator{}

	for key, value := range values {
		switch key {
		case KeySiteName:
			validator.Required(key, value).MaxLen(key, value, 100)
		case KeySiteDescription:
			validator.MaxLen(key, value, 300)
		case KeyPostsPerPage:
			size, err := strconv.Atoi(value)
			validator.Custom(key, err != nil, "Must be a number")
			if err == nil {
				validator.Range(key, size, 1, 50)
			}
		case KeyAllowComments:
			_, err := strconv.ParseBool(value)
			validator.Custom(key, err != nil, "Must be true or false")
		case KeyContactEmail:
			if value != "" {
				validator.Email(key, value)
			}
		}
	}
	return validator.Err()
}
