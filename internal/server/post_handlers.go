package server

import (
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Category    *uint   `json:"category"`
	Tags        *string `json:"tags"`
	Excerpt     *string `json:"excerpt"`
	IsPublished *bool   `json:"isPublished"`
}

func (req *postRequest) validate(create bool) []models.FieldError {
	var fields []models.FieldError

	if req.Title != nil {
		if err := validation.Required("title", *req.Title); err != nil {
			fields = append(fields, models.FieldError{Field: "title", Message: err.Error()})
		} else if err := validation.MaxLen("title", *req.Title, 100); err != nil {
			fields = append(fields, models.FieldError{Field: "title", Message: err.Error()})
		}
	} else if create {
		fields = append(fields, models.FieldError{Field: "title", Message: "title is required"})
	}

	if req.Content != nil {
		if err := validation.Required("content", *req.Content); err != nil {
			fields = append(fields, models.FieldError{Field: "content", Message: err.Error()})
		}
	} else if create {
		fields = append(fields, models.FieldError{Field: "content", Message: "content is required"})
	}

	if create && req.Category == nil {
		fields = append(fields, models.FieldError{Field: "category", Message: "category is required"})
	}

	if req.Excerpt != nil {
		if err := validation.MaxLen("excerpt", *req.Excerpt, 200); err != nil {
			fields = append(fields, models.FieldError{Field: "excerpt", Message: err.Error()})
		}
	}

	return fields
}

// ListPosts handles GET /api/posts with pagination, category-slug filtering,
// and substring search over published posts.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", repository.DefaultPageSize)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = repository.DefaultPageSize
	}

	filter := repository.PostFilter{
		PublishedOnly: true,
		CategorySlug:  c.Query("category"),
		Search:        c.Query("search"),
	}

	posts, total, err := s.postRepo.List(c.UserContext(), filter, page, limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	pages := (total + int64(limit) - 1) / int64(limit)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    posts,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

// GetPost handles GET /api/posts/:id. Every successful read increments the
// view counter, the author's own reads included.
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}

	post, lookupErr := s.postRepo.GetByID(ctx, uint(id))
	if lookupErr != nil {
		return models.RespondWithError(c, lookupErr)
	}

	if err := s.postRepo.IncrementViewCount(ctx, post.ID); err != nil {
		return models.RespondWithError(c, err)
	}
	post.ViewCount++

	return c.JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if fields := req.validate(true); len(fields) > 0 {
		return models.RespondWithError(c, models.NewFieldValidationError(fields))
	}

	post := &models.Post{
		Title:      *req.Title,
		Content:    *req.Content,
		CategoryID: *req.Category,
		AuthorID:   userID,
		Tags:       models.StringList{},
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Tags != nil {
		post.Tags = models.SplitTags(*req.Tags)
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return models.RespondWithError(c, err)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    created,
	})
}

// UpdatePost handles PUT /api/posts/:id. Only the author or an admin may
// update; only supplied fields change.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if fields := req.validate(false); len(fields) > 0 {
		return models.RespondWithError(c, models.NewFieldValidationError(fields))
	}

	post, updateErr := s.postRepo.Update(c.UserContext(), uint(id), repository.PostUpdate{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		CategoryID:  req.Category,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	}, user.ID, user.Role)
	if updateErr != nil {
		return models.RespondWithError(c, updateErr)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}

// DeletePost handles DELETE /api/posts/:id with the same authorization rule
// as UpdatePost.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}

	if err := s.postRepo.Delete(c.UserContext(), uint(id), user.ID, user.Role); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{},
	})
}
