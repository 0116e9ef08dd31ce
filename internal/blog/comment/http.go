// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/middleware"
	requestutil "github.com/taibuivan/pixelpulse/internal/platform/request"
	"github.com/taibuivan/pixelpulse/internal/platform/respond"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
	"github.com/taibuivan/pixelpulse/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterArticleRoutes mounts /articles/{id}/comments.
func (handler *Handler) RegisterArticleRoutes(router chi.Router) {
	router.Get("/", handler.listForArticle)
	router.With(middleware.RequirePermission(sec.PermCreateComment)).Post("/", handler.create)
}

// RegisterRoutes mounts /comments.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequireAuth).Delete("/{id}", handler.delete)
}

// AdminRoutes serves the moderation queue under /admin/comments.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequirePermission(sec.PermModerateComment))

	router.Get("/", handler.listForModeration)
	router.Patch("/{id}", handler.moderate)

	return router
}

type createRequest struct {
	Content string `json:"content"`
}

type moderateRequest struct {
	Approved *bool `json:"approved"`
}

func (handler *Handler) listForArticle(writer http.ResponseWriter, request *http.Request) {
	comments, err := handler.service.ListForArticle(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Create(request.Context(), claims, requestutil.Param(request, "id"), input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), claims, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listForModeration(writer http.ResponseWriter, request *http.Request) {
	filter := ModerationFilter{Params: pagination.FromRequest(request)}

	if raw := requestutil.Query(request, "approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(writer, request, apperr.BadRequest("INVALID_FILTER", "approved must be true or false"))
			return
		}
		filter.Approved = &approved
	}

	comments, total, err := handler.service.ListForModeration(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, pagination.NewMeta(filter.Page, filter.Limit, total))
}

func (handler *Handler) moderate(writer http.ResponseWriter, request *http.Request) {
	var input moderateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Approved == nil {
		respond.Error(writer, request, validate.RequiredError(FieldApproved, "This field is required"))
		return
	}

	comment, err := handler.service.Moderate(request.Context(), requestutil.Param(request, "id"), *input.Approved)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}
