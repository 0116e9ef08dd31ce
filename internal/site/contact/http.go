// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

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

// RegisterRoutes mounts the public form at /contact behind strict.
func (handler *Handler) RegisterRoutes(router chi.Router, strict func(http.Handler) http.Handler) {
	router.With(strict).Post("/", handler.submit)
}

// AdminRoutes serves the inbox under /admin/contact.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/", handler.list)
	router.Patch("/{id}", handler.markRead)
	router.Delete("/{id}", handler.delete)

	return router
}

type markReadRequest struct {
	Read *bool `json:"read"`
}

func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var input SubmitInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.service.Submit(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, respond.MessageBody{Success: true, Message: MsgReceived})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{Params: pagination.FromRequest(request)}

	if raw := requestutil.Query(request, "unread"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(writer, request, apperr.BadRequest("INVALID_FILTER", "unread must be true or false"))
			return
		}
		filter.UnreadOnly = unread
	}

	messages, total, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, messages, pagination.NewMeta(filter.Page, filter.Limit, total))
}

func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	var input markReadRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Read == nil {
		respond.Error(writer, request, validate.RequiredError(FieldRead, "This field is required"))
		return
	}

	message, err := handler.service.MarkRead(request.Context(), requestutil.Param(request, "id"), *input.Read)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, message)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
