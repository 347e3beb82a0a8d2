package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import (
	"context"

	"contentapi/internal/model"
)

// PostRepository defines data access for posts using SQL queries only.
// No business logic here — strictly persistence operations.
type PostRepository interface {
	// Create inserts a new post record together with its tag rows, in one
	// transaction. The caller provides ID and timestamps.
	// Returns the stored post (may include values set by the DB).
	Create(ctx context.Context, post *model.Post) (*model.Post, error)

	// FindByID returns a post by its ID, tags included.
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// FindBySlug returns a post by its slug, tags included.
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)

	// List returns a paginated list of posts and total rows count for the given filter.
	List(ctx context.Context, pq PageQuery, f ListFilter) (*PageResult[model.Post], error)

	// ListTags returns every tag carried by at least one non-draft post,
	// with its post count, ordered by tag.
	ListTags(ctx context.Context) ([]model.TagCount, error)

	// Delete removes a post by ID. It returns nil if the row was deleted or did not exist.
	// Tag rows go with it via ON DELETE CASCADE.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// ListFilter narrows a List call. Zero value means: published posts only, any tag.
type ListFilter struct {
	Tag           string
	IncludeDrafts bool
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
