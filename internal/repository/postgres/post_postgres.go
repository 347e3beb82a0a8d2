package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// PostPostgres is a PostgreSQL implementation of repository.PostRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PostPostgres struct {
	db *sql.DB
}

// NewPostPostgres creates a new PostPostgres repository.
func NewPostPostgres(db *sql.DB) *PostPostgres {
	return &PostPostgres{db: db}
}

var _ repository.PostRepository = (*PostPostgres)(nil)

const postColumns = "id, slug, title, date, draft, summary, filename, storage_path, size, content_type, created_at, updated_at"

func scanPost(row interface{ Scan(...any) error }) (*model.Post, error) {
	var p model.Post
	if err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Date,
		&p.Draft,
		&p.Summary,
		&p.Filename,
		&p.StoragePath,
		&p.Size,
		&p.ContentType,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the post row and its tag rows inside one transaction.
func (r *PostPostgres) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		INSERT INTO posts (id, slug, title, date, draft, summary, filename, storage_path, size, content_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + postColumns
	row := tx.QueryRowContext(ctx, q,
		post.ID,
		post.Slug,
		post.Title,
		post.Date,
		post.Draft,
		post.Summary,
		post.Filename,
		post.StoragePath,
		post.Size,
		post.ContentType,
		post.CreatedAt,
		post.UpdatedAt,
	)
	out, err := scanPost(row)
	if err != nil {
		return nil, err
	}

	const qTag = `INSERT INTO post_tags (post_id, tag) VALUES ($1, $2)`
	for _, tag := range post.Tags {
		if _, err := tx.ExecContext(ctx, qTag, out.ID, tag); err != nil {
			return nil, fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out.Tags = append([]string(nil), post.Tags...)
	return out, nil
}

// FindByID fetches a single post by its ID, including tags.
func (r *PostPostgres) FindByID(ctx context.Context, id string) (*model.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	p, err := scanPost(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if p.Tags, err = r.loadTags(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// FindBySlug fetches a single post by its slug, including tags.
func (r *PostPostgres) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	p, err := scanPost(r.db.QueryRowContext(ctx, q, slug))
	if err != nil {
		return nil, err
	}
	if p.Tags, err = r.loadTags(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns posts using LIMIT/OFFSET pagination and a total count.
// Drafts are excluded unless the filter says otherwise; a tag filter
// restricts to posts carrying that tag.
func (r *PostPostgres) List(ctx context.Context, pq repository.PageQuery, f repository.ListFilter) (*repository.PageResult[model.Post], error) {
	where, args := buildFilter(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + postColumns + ` FROM posts` + where +
		fmt.Sprintf(` ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Tags, err = r.loadTags(ctx, items[i].ID); err != nil {
			return nil, err
		}
	}

	return &repository.PageResult[model.Post]{
		Items: items,
		Total: total,
	}, nil
}

// ListTags returns tags of non-draft posts with their post counts.
func (r *PostPostgres) ListTags(ctx context.Context) ([]model.TagCount, error) {
	const q = `
		SELECT pt.tag, COUNT(*)
		FROM post_tags pt
		JOIN posts p ON p.id = pt.post_id
		WHERE p.draft = FALSE
		GROUP BY pt.tag
		ORDER BY pt.tag
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TagCount, 0)
	for rows.Next() {
		var tc model.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// Delete removes a post by ID. It does not return an error if the row does not exist.
func (r *PostPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM posts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	// Ignore rows affected; missing rows are not an error at this layer.
	_, _ = res.RowsAffected()
	return nil
}

func (r *PostPostgres) loadTags(ctx context.Context, postID string) ([]string, error) {
	const q = `SELECT tag FROM post_tags WHERE post_id = $1 ORDER BY tag`
	rows, err := r.db.QueryContext(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func buildFilter(f repository.ListFilter) (where string, args []any) {
	var clauses []string
	if !f.IncludeDrafts {
		clauses = append(clauses, "draft = FALSE")
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		clauses = append(clauses, fmt.Sprintf("id IN (SELECT post_id FROM post_tags WHERE tag = $%d)", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
