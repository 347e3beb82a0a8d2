package cache

import (
	"context"
	"errors"
	"time"
)

// Package cache holds the rendered-HTML cache used by the post service.
// Rendering a body is pure, so entries are keyed by post ID plus the
// UpdatedAt timestamp and never need explicit invalidation on update; a
// Delete exists for the post-deletion path to keep the keyspace tidy.

// ErrMiss is returned when a key is absent.
var ErrMiss = errors.New("cache miss")

// RenderCache stores rendered HTML keyed by an opaque string.
type RenderCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, html []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Noop is the fallback when no Redis endpoint is configured: every Get
// misses and writes are discarded.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, error) { return nil, ErrMiss }

func (Noop) Set(ctx context.Context, key string, html []byte, ttl time.Duration) error { return nil }

func (Noop) Delete(ctx context.Context, key string) error { return nil }
