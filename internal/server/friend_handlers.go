package server

import (
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFriends handles GET /api/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID := currentUserID(c)

	friends, err := s.friendService.GetFriends(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(friends)
}

// AddFriend handles POST /api/friends/:userId
func (s *Server) AddFriend(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.friendService.AddFriend(c.Context(), userID, targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Friend added",
	})
}

// RemoveFriend handles DELETE /api/friends/:userId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.friendService.RemoveFriend(c.Context(), userID, targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Friend removed",
	})
}

// GetFriendStatus handles GET /api/friends/status/:userId
func (s *Server) GetFriendStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	isFriend, err := s.friendService.GetFriendStatus(c.Context(), userID, targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"isFriend": isFriend,
	})
}

// SearchCandidates handles GET /api/friends/search?q=...
func (s *Server) SearchCandidates(c *fiber.Ctx) error {
	userID := currentUserID(c)
	query := c.Query("q")

	users, err := s.friendService.SearchCandidates(c.Context(), userID, query)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetCandidates handles GET /api/friends/candidates
func (s *Server) GetCandidates(c *fiber.Ctx) error {
	userID := currentUserID(c)

	users, err := s.friendService.ListCandidates(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}
