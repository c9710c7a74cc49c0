// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitalink-health/api/internal/platform/dberr"
	"github.com/vitalink-health/api/pkg/pagination"
)

// PostgresPostRepository implements the PostRepository interface using pgx.
type PostgresPostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new PostgreSQL implementation of the PostRepository.
func NewPostRepository(pool *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

// postColumns is the canonical select list shared by the find queries.
const postColumns = `
	id, title, slug, excerpt, body, author_id,
	status, published_at, created_at, updated_at`

// scanPost populates a Post from a row using the [postColumns] order.
func scanPost(row interface{ Scan(...any) error }) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Excerpt,
		&post.Body,
		&post.AuthorID,
		&post.Status,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Create persists a new post row.
//
// The database assigns the ID; the unique constraint on slug is the
// authoritative duplicate guard (mapped to Conflict via [dberr.Wrap]).
func (repository *PostgresPostRepository) Create(ctx context.Context, post *Post) error {
	const query = `
		INSERT INTO posts (
			title, slug, excerpt, body, author_id,
			status, published_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	err := repository.pool.QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Body,
		post.AuthorID,
		post.Status,
		post.PublishedAt,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID)

	if err != nil {
		return dberr.Wrap(err, "Post")
	}

	return nil
}

// FindByID retrieves a post by its ID.
func (repository *PostgresPostRepository) FindByID(ctx context.Context, id int64) (*Post, error) {
	const query = `SELECT` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Post")
	}

	return post, nil
}

// FindBySlug retrieves a post by its unique slug.
func (repository *PostgresPostRepository) FindBySlug(ctx context.Context, slug string) (*Post, error) {
	const query = `SELECT` + postColumns + ` FROM posts WHERE slug = $1`

	post, err := scanPost(repository.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "Post")
	}

	return post, nil
}

// List returns a page of posts matching the filter, newest first.
//
// The total count runs as a second query over the same predicate so the
// pagination metadata stays consistent with the filter.
func (repository *PostgresPostRepository) List(
	ctx context.Context,
	filter ListFilter,
	params pagination.Params,
) ([]*Post, int, error) {
	where, args := buildListPredicate(filter)

	countQuery := `SELECT COUNT(*) FROM posts` + where
	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Posts")
	}

	listQuery := fmt.Sprintf(
		`SELECT`+postColumns+` FROM posts%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Posts")
	}

	return posts, total, nil
}

// buildListPredicate assembles the WHERE clause and ordered args for [List].
func buildListPredicate(filter ListFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.PublishedOnly {
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, StatusPublished)
	}
	if filter.AuthorID != 0 {
		clauses = append(clauses, fmt.Sprintf("author_id = $%d", len(args)+1))
		args = append(args, filter.AuthorID)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Update persists title, excerpt, body, status, and publication timestamp.
//
// Slug and author_id stay out of the UPDATE list: both are immutable after
// creation (slugs are public permalinks).
func (repository *PostgresPostRepository) Update(ctx context.Context, post *Post) error {
	const query = `
		UPDATE posts
		SET title = $2, excerpt = $3, body = $4, status = $5,
		    published_at = $6, updated_at = $7
		WHERE id = $1`

	post.UpdatedAt = time.Now()
	commandTag, err := repository.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Excerpt,
		post.Body,
		post.Status,
		post.PublishedAt,
		post.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	if commandTag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Post")
	}

	return nil
}

// Delete removes a post permanently.
func (repository *PostgresPostRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM posts WHERE id = $1`

	commandTag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	if commandTag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Post")
	}

	return nil
}
