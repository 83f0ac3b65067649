package server

import (
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	profile, err := s.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}

// GetLikedPosts handles GET /api/profile/liked
func (s *Server) GetLikedPosts(c *fiber.Ctx) error {
	userID := currentUserID(c)

	posts, err := s.profileService.GetLikedPosts(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}
