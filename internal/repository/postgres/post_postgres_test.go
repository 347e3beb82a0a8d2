package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

var postCols = []string{"id", "slug", "title", "date", "draft", "summary", "filename", "storage_path", "size", "content_type", "created_at", "updated_at"}

func samplePost(now time.Time) *model.Post {
	return &model.Post{
		ID:          "test-uuid",
		Slug:        "throttle-in-react",
		Title:       "Throttle in React",
		Date:        now,
		Tags:        []string{"hooks", "react"},
		Draft:       false,
		Summary:     "A throttling hook.",
		Filename:    "throttle-in-react.mdx",
		StoragePath: "posts/test-uuid.mdx",
		Size:        123,
		ContentType: "text/mdx",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func postRow(p *model.Post) *sqlmock.Rows {
	return sqlmock.NewRows(postCols).
		AddRow(p.ID, p.Slug, p.Title, p.Date, p.Draft, p.Summary, p.Filename, p.StoragePath, p.Size, p.ContentType, p.CreatedAt, p.UpdatedAt)
}

func TestPostPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPostPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	post := samplePost(now)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO posts").
		WithArgs(post.ID, post.Slug, post.Title, post.Date, post.Draft, post.Summary,
			post.Filename, post.StoragePath, post.Size, post.ContentType, post.CreatedAt, post.UpdatedAt).
		WillReturnRows(postRow(post))
	mock.ExpectExec("INSERT INTO post_tags").
		WithArgs(post.ID, "hooks").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO post_tags").
		WithArgs(post.ID, "react").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Create(ctx, post)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, post.ID, result.ID)
	assert.Equal(t, []string{"hooks", "react"}, result.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPostgres_Create_TagInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	post := samplePost(now)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO posts").WillReturnRows(postRow(post))
	mock.ExpectExec("INSERT INTO post_tags").
		WithArgs(post.ID, "hooks").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	result, err := repo.Create(ctx, post)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), `insert tag "hooks"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id = ?").
			WithArgs("test-uuid").
			WillReturnRows(postRow(samplePost(now)))
		mock.ExpectQuery("SELECT tag FROM post_tags").
			WithArgs("test-uuid").
			WillReturnRows(sqlmock.NewRows([]string{"tag"}).AddRow("hooks").AddRow("react"))

		post, err := repo.FindByID(ctx, "test-uuid")

		assert.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, "throttle-in-react", post.Slug)
		assert.Equal(t, []string{"hooks", "react"}, post.Tags)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		post, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, post)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPostgres_FindBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM posts WHERE slug = ?").
		WithArgs("throttle-in-react").
		WillReturnRows(postRow(samplePost(now)))
	mock.ExpectQuery("SELECT tag FROM post_tags").
		WithArgs("test-uuid").
		WillReturnRows(sqlmock.NewRows([]string{"tag"}).AddRow("hooks"))

	post, err := repo.FindBySlug(ctx, "throttle-in-react")

	assert.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "test-uuid", post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("published only", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT(.+) FROM posts WHERE draft = FALSE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM posts WHERE draft = FALSE ORDER BY date DESC").
			WithArgs(10, 0).
			WillReturnRows(postRow(samplePost(now)))
		mock.ExpectQuery("SELECT tag FROM post_tags").
			WithArgs("test-uuid").
			WillReturnRows(sqlmock.NewRows([]string{"tag"}).AddRow("react"))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0}, repository.ListFilter{})

		assert.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, 1, res.Total)
		require.Len(t, res.Items, 1)
		assert.Equal(t, []string{"react"}, res.Items[0].Tags)
	})

	t.Run("tag filter with drafts", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT(.+) FROM posts WHERE id IN").
			WithArgs("react").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id IN").
			WithArgs("react", 5, 10).
			WillReturnRows(sqlmock.NewRows(postCols))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 5, Offset: 10},
			repository.ListFilter{Tag: "react", IncludeDrafts: true})

		assert.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPostgres_ListTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT pt.tag, COUNT(.+)").
		WillReturnRows(sqlmock.NewRows([]string{"tag", "count"}).
			AddRow("hooks", 3).
			AddRow("react", 7))

	tags, err := repo.ListTags(ctx)

	assert.NoError(t, err)
	assert.Equal(t, []model.TagCount{{Tag: "hooks", Count: 3}, {Tag: "react", Count: 7}}, tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostPostgres(db)
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM posts").
			WithArgs("test-uuid").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "test-uuid"))
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM posts").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(ctx, "missing"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
