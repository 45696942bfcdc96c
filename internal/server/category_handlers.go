package server

import (
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

func (req *categoryRequest) validate(requireName bool) []models.FieldError {
	var fields []models.FieldError
	if req.Name != nil {
		if err := validation.Required("name", *req.Name); err != nil {
			fields = append(fields, models.FieldError{Field: "name", Message: err.Error()})
		} else if err := validation.MaxLen("name", *req.Name, 50); err != nil {
			fields = append(fields, models.FieldError{Field: "name", Message: err.Error()})
		}
	} else if requireName {
		fields = append(fields, models.FieldError{Field: "name", Message: "name is required"})
	}
	if req.Description != nil {
		if err := validation.MaxLen("description", *req.Description, 200); err != nil {
			fields = append(fields, models.FieldError{Field: "description", Message: err.Error()})
		}
	}
	if req.Color != nil {
		if err := validation.HexColor(*req.Color); err != nil {
			fields = append(fields, models.FieldError{Field: "color", Message: err.Error()})
		}
	}
	return fields
}

// ListCategories handles GET /api/categories. Only active categories are
// returned unless ?includeInactive=true is given.
func (s *Server) ListCategories(c *fiber.Ctx) error {
	activeOnly := !c.QueryBool("includeInactive", false)

	categories, err := s.categoryRepo.List(c.UserContext(), activeOnly)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

// GetCategory handles GET /api/categories/:id, augmenting the category with
// its published-post count.
func (s *Server) GetCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid category ID"))
	}

	category, lookupErr := s.categoryRepo.GetByID(ctx, uint(id))
	if lookupErr != nil {
		return models.RespondWithError(c, lookupErr)
	}

	postsCount, countErr := s.categoryRepo.CountPosts(ctx, category.ID, true)
	if countErr != nil {
		return models.RespondWithError(c, countErr)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": struct {
			models.Category
			PostsCount int64 `json:"postsCount"`
		}{*category, postsCount},
	})
}

// CreateCategory handles POST /api/categories (admin only).
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if fields := req.validate(true); len(fields) > 0 {
		return models.RespondWithError(c, models.NewFieldValidationError(fields))
	}

	category := &models.Category{
		Name:     *req.Name,
		IsActive: true,
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Create(c.UserContext(), category); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    category,
	})
}

// UpdateCategory handles PUT /api/categories/:id (admin only).
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid category ID"))
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if fields := req.validate(false); len(fields) > 0 {
		return models.RespondWithError(c, models.NewFieldValidationError(fields))
	}

	category, updateErr := s.categoryRepo.Update(c.UserContext(), uint(id), repository.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    req.IsActive,
	})
	if updateErr != nil {
		return models.RespondWithError(c, updateErr)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    category,
	})
}

// DeleteCategory handles DELETE /api/categories/:id (admin only). Deletion is
// refused while any post, drafts included, references the category.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid category ID"))
	}

	if err := s.categoryRepo.Delete(c.UserContext(), uint(id)); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{},
	})
}
