package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /api/posts/:id/comments. Comments are append-only;
// the updated post is returned with all comment authors resolved.
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, addErr := s.postRepo.AddComment(c.UserContext(), uint(id), userID, req.Content)
	if addErr != nil {
		return models.RespondWithError(c, addErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}
