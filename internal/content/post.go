// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package content

import (
	"time"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	// StatusDraft marks a post visible only to its author and staff.
	StatusDraft PostStatus = "draft"
	// StatusPublished marks a post visible to the public site.
	StatusPublished PostStatus = "published"
)

// Post represents a health-education blog article.
//
// # Rules
//   - Body always holds sanitized HTML. Raw submitted markup never reaches
//     storage; the service runs it through the sanitizer on every write.
//   - Slug is derived from the title at creation time and is unique.
//   - Excerpt is plain text, derived from the body when not supplied.
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	AuthorID    int64      `json:"author_id"`
	Status      PostStatus `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Published reports whether the post is visible to the public site.
func (p *Post) Published() bool {
	return p.Status == StatusPublished
}
