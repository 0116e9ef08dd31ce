// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package upload accepts images for articles and stores them in the blob store.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/storage"
	"github.com/taibuivan/pixelpulse/pkg/uuid"
)

// MaxBytes is the largest accepted file.
const MaxBytes = 5 << 20

// extensions maps every accepted sniffed content type to its file extension.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var (
	ErrDisabled    = apperr.ServiceUnavailable("Uploads are not configured")
	ErrTooLarge    = &apperr.AppError{Code: "FILE_TOO_LARGE", Message: "File exceeds the 5 MiB limit", HTTPStatus: http.StatusRequestEntityTooLarge}
	ErrUnsupported = apperr.BadRequest("UNSUPPORTED_MEDIA", "Only JPEG, PNG, GIF and WebP images are accepted")
	ErrEmpty       = apperr.BadRequest("EMPTY_FILE", "File is empty")
)

// Asset describes a stored upload.
type Asset struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Service struct {
	store storage.BlobStore
	now   func() time.Time
}

// NewService creates the upload service. A nil store disables uploads.
func NewService(store storage.BlobStore) *Service {
	return &Service{store: store, now: time.Now}
}

/*
Store reads body fully, checks its size and sniffed type, and writes it under
uploads/<yyyy>/<mm>/<uuid><ext>. The client-declared content type is ignored.
*/
func (service *Service) Store(context context.Context, body io.Reader) (*Asset, error) {
	if service.store == nil {
		return nil, ErrDisabled
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("upload_read_failed: %w", err)
	}
	switch {
	case len(data) == 0:
		return nil, ErrEmpty
	case len(data) > MaxBytes:
		return nil, ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	extension, ok := extensions[contentType]
	if !ok {
		return nil, ErrUnsupported
	}

	now := service.now().UTC()
	key := fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New(), extension)

	url, err := service.store.Put(context, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "upload_stored",
		slog.String("key", key),
		slog.Int("size", len(data)),
	)
	return &Asset{URL: url, Key: key, ContentType: contentType, Size: int64(len(data))}, nil
}
