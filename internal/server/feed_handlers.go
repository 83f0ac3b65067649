package server

import (
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	viewerID := currentUserID(c)

	posts, err := s.feedService.BuildFeed(c.Context(), viewerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}
