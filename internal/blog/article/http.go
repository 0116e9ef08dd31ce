// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pixelpulse/internal/platform/middleware"
	requestutil "github.com/taibuivan/pixelpulse/internal/platform/request"
	"github.com/taibuivan/pixelpulse/internal/platform/respond"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/pkg/pagination"
)

// PageSizer supplies the default page size of public listings.
type PageSizer interface {
	PostsPerPage(context context.Context) int
}

type Handler struct {
	service   *Service
	pageSizer PageSizer
}

// NewHandler builds the article handler. pageSizer may be nil, in which case
// listings use the pagination default.
func NewHandler(service *Service, pageSizer PageSizer) *Handler {
	return &Handler{service: service, pageSizer: pageSizer}
}

/*
RegisterRoutes mounts /articles.

The {id} segment of GET /{id} accepts a slug as well, so every route shares
one parameter name and nested routers (comments) can reuse it.
*/
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.With(middleware.RequireAuth).Get("/mine", handler.listMine)
	router.Get("/{id}", handler.get)

	router.With(middleware.RequirePermission(sec.PermCreateArticle)).Post("/", handler.create)
	router.With(middleware.RequirePermission(sec.PermEditArticle)).Patch("/{id}", handler.update)
	router.With(middleware.RequirePermission(sec.PermDeleteArticle)).Delete("/{id}", handler.delete)

	router.Group(func(publishRoute chi.Router) {
		publishRoute.Use(middleware.RequirePermission(sec.PermPublishArticle))

		publishRoute.Post("/{id}/publish", handler.publish)
		publishRoute.Post("/{id}/unpublish", handler.unpublish)
	})

	router.Group(func(likeRoute chi.Router) {
		likeRoute.Use(middleware.RequirePermission(sec.PermLikeArticle))

		likeRoute.Put("/{id}/like", handler.like)
		likeRoute.Delete("/{id}/like", handler.unlike)
	})
}

// # Reading

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{
		CategorySlug:   requestutil.Query(request, "category"),
		TagSlug:        requestutil.Query(request, "tag"),
		AuthorUsername: requestutil.Query(request, "author"),
		Query:          requestutil.Query(request, "q"),
		Params:         handler.pageParams(request),
	}

	articles, total, err := handler.service.ListPublished(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, articles, pagination.NewMeta(filter.Page, filter.Limit, total))
}

func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	articles, total, err := handler.service.ListMine(request.Context(), claims, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, articles, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.service.Get(request.Context(), requestutil.Claims(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
}

// pageParams applies the site-wide page size when the client sent no limit.
func (handler *Handler) pageParams(request *http.Request) pagination.Params {
	params := pagination.FromRequest(request)
	if handler.pageSizer == nil || request.URL.Query().Has("limit") {
		return params
	}
	if size := handler.pageSizer.PostsPerPage(request.Context()); size > 0 && size <= pagination.MaxLimit {
		params.Limit = size
	}
	return params
}

// # Writing

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.Create(request.Context(), claims, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, article)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.Update(request.Context(), claims, requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
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

func (handler *Handler) publish(writer http.ResponseWriter, request *http.Request) {
	handler.changeStatus(writer, request, handler.service.Publish)
}

func (handler *Handler) unpublish(writer http.ResponseWriter, request *http.Request) {
	handler.changeStatus(writer, request, handler.service.Unpublish)
}

func (handler *Handler) changeStatus(writer http.ResponseWriter, request *http.Request,
	change func(context.Context, *sec.AuthClaims, string) (*Article, error)) {

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := change(request.Context(), claims, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
}

// # Likes

func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	handler.toggleLike(writer, request, handler.service.Like)
}

func (handler *Handler) unlike(writer http.ResponseWriter, request *http.Request) {
	handler.toggleLike(writer, request, handler.service.Unlike)
}

func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request,
	toggle func(context.Context, *sec.AuthClaims, string) (LikeState, error)) {

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, err := toggle(request.Context(), claims, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, state)
}
