package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"contentapi/internal/cache"
	"contentapi/internal/frontmatter"
	"contentapi/internal/lint"
	"contentapi/internal/model"
	"contentapi/internal/render"
	"contentapi/internal/repository"
	"contentapi/internal/storage"
)

var (
	ErrIDRequired     = errors.New("id is required")
	ErrSlugRequired   = errors.New("slug is required")
	ErrNotFound       = errors.New("post not found")
	ErrReaderNil      = errors.New("reader is nil")
	ErrSlugTaken      = errors.New("a post with this slug already exists")
	ErrUnsupportedExt = errors.New("only .md and .mdx documents are accepted")
	ErrTooLarge       = errors.New("document exceeds size limit")
	ErrLintFailed     = errors.New("document failed lint")
)

// maxDocumentSize caps how much of an uploaded document is read into memory.
// MDX posts are text; anything past this is not a blog post.
const maxDocumentSize = 4 << 20

// PostListResult is the service-level DTO for paginated posts.
type PostListResult struct {
	Items []model.Post `json:"data"`
	Total int          `json:"total"`
}

// ListQuery narrows and paginates a post listing.
type ListQuery struct {
	Limit         int
	Offset        int
	Tag           string
	IncludeDrafts bool
}

// PostService defines the use cases for handling MDX posts.
type PostService interface {
	// Publish ingests an MDX document: lints it, decodes its front matter,
	// uploads the raw document to object storage, saves metadata to DB, and
	// rolls back storage if the DB save fails. The lint report is returned
	// whenever one was produced, including alongside ErrLintFailed.
	Publish(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.Post, *lint.Report, error)

	// Get returns a single post by its ID.
	Get(ctx context.Context, id string) (*model.Post, error)

	// GetBySlug returns a post by slug. Draft posts are hidden unless
	// includeDrafts is set.
	GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*model.Post, error)

	// List returns posts matching the query plus a total count.
	List(ctx context.Context, q ListQuery) (*PostListResult, error)

	// Tags returns tag usage across non-draft posts.
	Tags(ctx context.Context) ([]model.TagCount, error)

	// Source streams the raw MDX document of a post.
	Source(ctx context.Context, id string) (io.ReadCloser, *model.Post, error)

	// RenderHTML returns the post body rendered to HTML, serving from the
	// render cache when possible.
	RenderHTML(ctx context.Context, id string) ([]byte, error)

	// Delete removes a post from storage, repository, and cache.
	Delete(ctx context.Context, id string) error
}

// postService is a concrete implementation of PostService.
type postService struct {
	store     storage.Storage
	repo      repository.PostRepository
	cache     cache.RenderCache
	renderer  *render.Renderer
	renderTTL time.Duration
}

// NewPostService constructs a new PostService. Pass cache.Noop{} when no
// Redis endpoint is configured.
func NewPostService(store storage.Storage, repo repository.PostRepository, rc cache.RenderCache, renderTTL time.Duration) PostService {
	return &postService{
		store:     store,
		repo:      repo,
		cache:     rc,
		renderer:  render.New(),
		renderTTL: renderTTL,
	}
}

func (s *postService) Publish(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.Post, *lint.Report, error) {
	if r == nil {
		return nil, nil, ErrReaderNil
	}
	if size > maxDocumentSize {
		return nil, nil, ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if ext != ".md" && ext != ".mdx" {
		return nil, nil, ErrUnsupportedExt
	}

	src, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read document: %w", err)
	}
	if len(src) > maxDocumentSize {
		return nil, nil, ErrTooLarge
	}

	rep := lint.Check(src)
	if rep.HasErrors() {
		return nil, &rep, fmt.Errorf("%w: %v", ErrLintFailed, rep.Err())
	}

	// Lint passed, so the front matter decodes.
	fm, _, err := frontmatter.Parse(src)
	if err != nil {
		return nil, &rep, fmt.Errorf("parse front matter: %w", err)
	}

	slug := model.Slugify(originalFilename)
	if slug == "" {
		return nil, &rep, ErrSlugRequired
	}
	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, &rep, ErrSlugTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, &rep, err
	}

	id := uuid.New().String()
	key := filepath.ToSlash(filepath.Join("posts", id+ext))
	contentType := "text/markdown"
	if ext == ".mdx" {
		contentType = "text/mdx"
	}

	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(src), storage.PutObjectOptions{
		Size:        int64(len(src)),
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, &rep, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	updated := now
	if !fm.LastMod.IsZero() {
		updated = fm.LastMod
	}
	post := &model.Post{
		ID:          id,
		Slug:        slug,
		Title:       fm.Title,
		Date:        fm.Date,
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		Summary:     fm.Summary,
		Filename:    originalFilename,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   now,
		UpdatedAt:   updated,
	}
	stored, err := s.repo.Create(ctx, post)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, &rep, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, &rep, fmt.Errorf("db save failed: %w", err)
	}
	return stored, &rep, nil
}

// Get returns a post by ID.
func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// GetBySlug returns a post by slug, hiding drafts unless asked for.
func (s *postService) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*model.Post, error) {
	if slug == "" {
		return nil, ErrSlugRequired
	}
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.Draft && !includeDrafts {
		return nil, ErrNotFound
	}
	return post, nil
}

// List returns paginated posts without exposing repository types.
func (s *postService) List(ctx context.Context, q ListQuery) (*PostListResult, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	res, err := s.repo.List(ctx,
		repository.PageQuery{Limit: q.Limit, Offset: q.Offset},
		repository.ListFilter{Tag: q.Tag, IncludeDrafts: q.IncludeDrafts},
	)
	if err != nil {
		return nil, err
	}
	return &PostListResult{Items: res.Items, Total: res.Total}, nil
}

// Tags returns tag counts over non-draft posts.
func (s *postService) Tags(ctx context.Context) ([]model.TagCount, error) {
	return s.repo.ListTags(ctx)
}

// Source streams the raw stored document alongside its metadata.
func (s *postService) Source(ctx context.Context, id string) (io.ReadCloser, *model.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, post.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("get from storage: %w", err)
	}
	return rc, post, nil
}

// RenderHTML renders the post body, consulting the cache first. The cache
// key includes UpdatedAt so a changed post never serves stale HTML.
func (s *postService) RenderHTML(ctx context.Context, id string) ([]byte, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := renderKey(post)
	if html, err := s.cache.Get(ctx, key); err == nil {
		return html, nil
	}

	rc, _, err := s.store.Get(ctx, post.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("get from storage: %w", err)
	}
	defer rc.Close()

	src, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	_, body, err := frontmatter.Split(src)
	if errors.Is(err, frontmatter.ErrNoFrontMatter) {
		body = src
	} else if err != nil {
		return nil, fmt.Errorf("split front matter: %w", err)
	}

	html, err := s.renderer.HTML(body)
	if err != nil {
		return nil, err
	}

	// Cache failures are not render failures.
	_ = s.cache.Set(ctx, key, html, s.renderTTL)
	return html, nil
}

// Delete removes the object from storage, then the row, then the cache entry.
func (s *postService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	// Find the post to get its storage path
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, post.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, renderKey(post))
	return nil
}

func renderKey(post *model.Post) string {
	return post.ID + ":" + post.UpdatedAt.UTC().Format(time.RFC3339Nano)
}
