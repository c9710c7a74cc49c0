// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package content

import (
	"context"

	"github.com/vitalink-health/api/pkg/pagination"
)

// ListFilter narrows which posts a listing query returns.
type ListFilter struct {
	// PublishedOnly restricts results to publicly visible posts.
	PublishedOnly bool
	// AuthorID, when non-zero, restricts results to one author.
	AuthorID int64
}

// PostRepository defines the data access contract for blog posts.
//
// # Implementations
//
// The canonical implementation is PostgreSQL (store_postgres.go).
type PostRepository interface {
	// FindByID returns the post with the given ID.
	//
	// Returns [apperr.NotFound] if the post does not exist.
	FindByID(ctx context.Context, id int64) (*Post, error)

	// FindBySlug returns the post with the given slug.
	//
	// Returns [apperr.NotFound] if the post does not exist.
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// List returns a page of posts matching the filter, newest first,
	// together with the total match count for pagination metadata.
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]*Post, int, error)

	// Create persists a brand-new post.
	//
	// The unique constraint on slug is authoritative; a violation surfaces
	// as [apperr.Conflict].
	Create(ctx context.Context, post *Post) error

	// Update persists changes to title, excerpt, body, status, and
	// published_at. Slug and author are immutable after creation.
	Update(ctx context.Context, post *Post) error

	// Delete removes a post permanently.
	//
	// Returns [apperr.NotFound] if the post does not exist.
	Delete(ctx context.Context, id int64) error
}
