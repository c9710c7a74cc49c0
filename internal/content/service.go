// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vitalink-health/api/internal/platform/apperr"
	"github.com/vitalink-health/api/internal/platform/sec"
	"github.com/vitalink-health/api/internal/sanitize"
	"github.com/vitalink-health/api/pkg/pagination"
	"github.com/vitalink-health/api/pkg/slug"
)

const (
	// excerptMaxRunes caps the auto-derived excerpt length.
	excerptMaxRunes = 280
	// slugSuffixLength is the random suffix appended on slug collision.
	slugSuffixLength = 6
)

// Service implements blog post use cases.
//
// # Security
//
// Every body that enters this service passes through the HTML sanitizer
// before storage. The delivery layer never sanitizes; doing it here keeps
// the invariant enforceable in one place.
type Service struct {
	posts  PostRepository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(posts PostRepository, logger *slog.Logger) *Service {
	return &Service{posts: posts, logger: logger}
}

// CreateInput holds the data required to author a new post.
type CreateInput struct {
	Title   string
	Body    string
	Excerpt string
	Publish bool
}

// Create sanitizes, slugs, and persists a new post in the author's name.
//
// # Slug Collisions
//
// The slug derives from the title. On a unique-constraint collision a single
// retry appends a short random suffix; a second collision surfaces as
// Conflict, which in practice means the random source is broken.
func (service *Service) Create(ctx context.Context, author *sec.Identity, input CreateInput) (*Post, error) {
	post := &Post{
		Title:    strings.TrimSpace(input.Title),
		Slug:     slug.From(input.Title),
		Body:     sanitize.Clean(input.Body),
		AuthorID: author.ID,
		Status:   StatusDraft,
	}
	post.Excerpt = deriveExcerpt(input.Excerpt, post.Body)

	if input.Publish {
		service.markPublished(post)
	}

	err := service.posts.Create(ctx, post)
	if err == nil {
		return post, nil
	}

	appError := apperr.As(err)
	if appError == nil || appError.Code != "CONFLICT" {
		return nil, err
	}

	suffix, randErr := sec.GenerateRandomToken(slugSuffixLength)
	if randErr != nil {
		return nil, fmt.Errorf("content_service_slug_suffix_failed: %w", randErr)
	}
	post.Slug = post.Slug + "-" + strings.ToLower(suffix)

	if err := service.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// UpdateInput carries the mutable post fields. Pointer fields distinguish
// "absent" from "set to empty"; slug and author cannot be changed.
type UpdateInput struct {
	Title   *string
	Body    *string
	Excerpt *string
	Publish *bool
}

// Update applies a partial update to a post.
//
// # Authorization
//
// Only the post's author or an admin may update it. Moderators edit their
// own material; admins edit anything.
func (service *Service) Update(ctx context.Context, actor *sec.Identity, postID int64, input UpdateInput) (*Post, error) {
	post, err := service.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := requireAuthorOrAdmin(actor, post); err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Body != nil {
		post.Body = sanitize.Clean(*input.Body)
	}
	if input.Excerpt != nil || input.Body != nil {
		submitted := ""
		if input.Excerpt != nil {
			submitted = *input.Excerpt
		}
		post.Excerpt = deriveExcerpt(submitted, post.Body)
	}
	if input.Publish != nil {
		if *input.Publish {
			service.markPublished(post)
		} else {
			post.Status = StatusDraft
			post.PublishedAt = nil
		}
	}

	if err := service.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Delete removes a post.
//
// Authorization mirrors [Update]: author or admin only.
func (service *Service) Delete(ctx context.Context, actor *sec.Identity, postID int64) error {
	post, err := service.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := requireAuthorOrAdmin(actor, post); err != nil {
		return err
	}

	if err := service.posts.Delete(ctx, postID); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "post_deleted",
		slog.Int64("post_id", postID), slog.Int64("actor_id", actor.ID))

	return nil
}

// GetBySlug returns a post for public consumption.
//
// Drafts are invisible to the public: a draft behaves exactly like a missing
// post unless the viewer is the author or staff.
func (service *Service) GetBySlug(ctx context.Context, viewer *sec.Identity, postSlug string) (*Post, error) {
	post, err := service.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	if !post.Published() && !canSeeDraft(viewer, post) {
		return nil, apperr.NotFound("Post")
	}

	return post, nil
}

// List returns a page of posts, optionally narrowed to one author.
//
// Anonymous and regular users only see published posts. Moderators and
// admins see drafts as well.
func (service *Service) List(ctx context.Context, viewer *sec.Identity, authorID int64, params pagination.Params) ([]*Post, pagination.Meta, error) {
	filter := ListFilter{PublishedOnly: true, AuthorID: authorID}
	if viewer != nil && viewer.Role.AtLeast(sec.RoleModerator) {
		filter.PublishedOnly = false
	}

	posts, total, err := service.posts.List(ctx, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return posts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Internals

// markPublished flips a post to published, stamping the timestamp once.
// Re-publishing keeps the original publication date.
func (service *Service) markPublished(post *Post) {
	post.Status = StatusPublished
	if post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
}

// deriveExcerpt prefers the submitted excerpt, falling back to truncated
// plain text extracted from the sanitized body.
func deriveExcerpt(submitted, sanitizedBody string) string {
	excerpt := strings.TrimSpace(submitted)
	if excerpt == "" {
		excerpt = strings.Join(strings.Fields(sanitize.Text(sanitizedBody)), " ")
	}

	runes := []rune(excerpt)
	if len(runes) <= excerptMaxRunes {
		return excerpt
	}
	return strings.TrimSpace(string(runes[:excerptMaxRunes])) + "…"
}

// requireAuthorOrAdmin rejects actors who neither own the post nor hold the
// admin role.
func requireAuthorOrAdmin(actor *sec.Identity, post *Post) error {
	if actor == nil {
		return apperr.Unauthorized("Access token required")
	}
	if actor.ID == post.AuthorID || actor.Role.AtLeast(sec.RoleAdmin) {
		return nil
	}
	return apperr.Forbidden("You can only modify your own posts")
}

// canSeeDraft reports whether the viewer may read an unpublished post.
func canSeeDraft(viewer *sec.Identity, post *Post) bool {
	if viewer == nil {
		return false
	}
	return viewer.ID == post.AuthorID || viewer.Role.AtLeast(sec.RoleModerator)
}
