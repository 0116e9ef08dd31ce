// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/middleware"
	"github.com/taibuivan/pixelpulse/internal/platform/respond"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

// FormField is the multipart field carrying the file.
const FormField = "file"

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 << 10

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /uploads.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequirePermission(sec.PermCreateArticle)).Post("/", handler.upload)
}

func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, MaxBytes+multipartOverhead)

	if err := request.ParseMultipartForm(MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, ErrTooLarge)
			return
		}
		respond.Error(writer, request, apperr.BadRequest("INVALID_MULTIPART", "Expected a multipart/form-data body"))
		return
	}
	defer request.MultipartForm.RemoveAll()

	file, _, err := request.FormFile(FormField)
	if err != nil {
		respond.Error(writer, request, apperr.BadRequest("MISSING_FILE", "Form field 'file' is required"))
		return
	}
	defer file.Close()

	asset, err := handler.service.Store(request.Context(), file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, asset)
}
