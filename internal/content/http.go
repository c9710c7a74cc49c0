// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

// Package content implements the health-education blog: posts authored by
// staff, sanitized server-side, and served to the public marketing site.
package content

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vitalink-health/api/internal/platform/ctxutil"
	"github.com/vitalink-health/api/internal/platform/respond"
	"github.com/vitalink-health/api/internal/platform/validate"
	"github.com/vitalink-health/api/pkg/convert"
	"github.com/vitalink-health/api/pkg/pagination"
)

// Handler implements blog post HTTP endpoints.
type Handler struct {
	postService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{postService: service}
}

// Routes returns a [chi.Router] configured with blog routes.
//
// The caller supplies the middleware:
//   - optionalAuthenticate : attaches an identity when a valid token is
//     present, so staff see drafts on the read endpoints.
//   - authenticate         : strict gate for the write endpoints.
//   - requireModerator     : role gate on authoring.
//
// # Endpoints
//   - GET    /           : Paginated list (public sees published only).
//   - GET    /{slug}     : Single post by slug (drafts hidden from public).
//   - POST   /           : Creates a post (moderator+).
//   - PUT    /{id}       : Updates a post (author or admin).
//   - DELETE /{id}       : Deletes a post (author or admin).
func (handler *Handler) Routes(optionalAuthenticate, authenticate, requireModerator func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Group(func(group chi.Router) {
		group.Use(optionalAuthenticate)
		group.Get("/", handler.list)
		group.Get("/{slug}", handler.getBySlug)
	})

	router.Group(func(group chi.Router) {
		group.Use(authenticate, requireModerator)
		group.Post("/", handler.create)
		group.Put("/{id}", handler.update)
		group.Delete("/{id}", handler.delete)
	})

	return router
}

// list handles GET /api/v1/posts requests.
//
// Supports page/limit pagination plus an optional author_id filter.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	viewer := ctxutil.GetIdentity(request.Context())
	authorID := convert.ToInt64(request.URL.Query().Get("author_id"))

	posts, meta, err := handler.postService.List(request.Context(), viewer, authorID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, meta)
}

// getBySlug handles GET /api/v1/posts/{slug} requests.
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	viewer := ctxutil.GetIdentity(request.Context())

	post, err := handler.postService.GetBySlug(request.Context(), viewer, chi.URLParam(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

// createRequest represents the JSON payload for authoring a post.
type createRequest struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Excerpt string `json:"excerpt"`
	Publish bool   `json:"publish"`
}

// create handles POST /api/v1/posts requests.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	author := ctxutil.GetIdentity(request.Context())

	var input createRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := (&validate.Validator{}).
		Required("title", input.Title).
		MaxLen("title", input.Title, 200).
		Required("body", input.Body).
		MaxLen("excerpt", input.Excerpt, 500)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	post, err := handler.postService.Create(request.Context(), author, CreateInput{
		Title:   input.Title,
		Body:    input.Body,
		Excerpt: input.Excerpt,
		Publish: input.Publish,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, post)
}

// updateRequest carries the mutable post fields; pointers distinguish absent
// fields from explicit empties.
type updateRequest struct {
	Title   *string `json:"title"`
	Body    *string `json:"body"`
	Excerpt *string `json:"excerpt"`
	Publish *bool   `json:"publish"`
}

// update handles PUT /api/v1/posts/{id} requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	actor := ctxutil.GetIdentity(request.Context())

	postID, err := parsePostID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required("title", *input.Title).MaxLen("title", *input.Title, 200)
	}
	if input.Body != nil {
		validator.Required("body", *input.Body)
	}
	if input.Excerpt != nil {
		validator.MaxLen("excerpt", *input.Excerpt, 500)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	post, err := handler.postService.Update(request.Context(), actor, postID, UpdateInput{
		Title:   input.Title,
		Body:    input.Body,
		Excerpt: input.Excerpt,
		Publish: input.Publish,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, post)
}

// delete handles DELETE /api/v1/posts/{id} requests.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor := ctxutil.GetIdentity(request.Context())

	postID, err := parsePostID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.postService.Delete(request.Context(), actor, postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// parsePostID extracts and validates the {id} route parameter.
func parsePostID(request *http.Request) (int64, error) {
	postID, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil || postID < 1 {
		return 0, validate.RequiredError("id", "Must be a positive integer")
	}
	return postID, nil
}
