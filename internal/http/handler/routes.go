package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"contentapi/internal/lint"
	"contentapi/internal/model"
	"contentapi/internal/service"
)

// publishResponse pairs the stored post with the lint report (warnings may be
// present even on a successful publish).
type publishResponse struct {
	Post *model.Post  `json:"post"`
	Lint *lint.Report `json:"lint,omitempty"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, postSvc service.PostService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(db))

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/posts", ListPosts(postSvc))
	app.Post("/posts", PublishPost(postSvc))
	// Registered before /posts/:id so "tags" is never taken for an ID.
	app.Get("/posts/tags", ListTags(postSvc))
	app.Get("/posts/slug/:slug", GetPostBySlug(postSvc))
	app.Get("/posts/:id", GetPost(postSvc))
	app.Get("/posts/:id/source", GetPostSource(postSvc))
	app.Get("/posts/:id/html", GetPostHTML(postSvc))
	app.Delete("/posts/:id", DeletePost(postSvc))
}

// HealthCheck reports healthy only when the database answers a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// ListPosts lists posts with limit/offset paging, optional tag filter, and
// drafts only on request.
func ListPosts(postSvc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := postSvc.List(c.UserContext(), service.ListQuery{
			Limit:         limit,
			Offset:        offset,
			Tag:           c.Query("tag"),
			IncludeDrafts: c.QueryBool("include_drafts", false),
		})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// PublishPost ingests an MDX document (multipart/form-data, field name: file).
func PublishPost(postSvc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		post, rep, err := postSvc.Publish(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrLintFailed):
				return writeLintError(c, rep)
			case errors.Is(err, service.ErrUnsupportedExt):
				return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_DOCUMENT", "only .md and .mdx documents are accepted")
			case errors.Is(err, service.ErrTooLarge):
				return writeError(c, fiber.StatusRequestEntityTooLarge, "DOCUMENT_TOO_LARGE", "document exceeds size limit")
			case errors.Is(err, service.ErrSlugTaken):
				return writeError(c, fiber.StatusConflict, "SLUG_CONFLICT", "a post with this slug already exists")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(publishResponse{Post: post, Lint: rep})
	}
}

// GetPost returns post metadata by ID.
func GetPost(postSvc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		post, err := postSvc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "post not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(post)
	}
}

// GetPostBySlug returns post metadata by slug. Drafts stay hidden unless
// include_drafts=1.
func GetPostBySlug(postSvc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		post, err := postSvc.GetBySlug(c.UserContext(), slug, c.QueryBool("include_drafts", false))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "post not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(post)
	}
}

// GetPostSource streams the raw stored MDX document.
func GetPostSource(postSvc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, post, err := postSvc.Source(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "post not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		c.Set(fiber.HeaderContentType, post.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+post.Filename+`"`)
		return c.SendStream(rc, int(post.Size))
	}
}

// GetPostHTML returns the rendered post body.
func GetPostHTML(postSvc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		html, err := postSvc.RenderHTML(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "post not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Type("html").Send(html)
	}
}

// ListTags returns tag usage across published posts.
func ListTags(postSvc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := postSvc.Tags(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": tags})
	}
}

// DeletePost removes a post by ID.
func DeletePost(postSvc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := postSvc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "post not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
