package service

import (
	"context"
	"strings"

	"glimpse/internal/models"
	"glimpse/internal/repository"
	"glimpse/internal/validation"
)

// FriendService provides friendship business logic. Friendships are directed
// edges: adding or removing an edge never touches the reverse direction.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// AddFriend records a directed edge from the user to the target. Adding an
// existing friend is a no-op that still succeeds.
func (s *FriendService) AddFriend(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewSelfReferenceError()
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	return s.friendRepo.AddEdge(ctx, userID, targetID)
}

// RemoveFriend drops the user's outgoing edge to the target. The reverse
// edge, if any, survives. Removing an absent edge succeeds quietly.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewSelfReferenceError()
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	return s.friendRepo.RemoveEdge(ctx, userID, targetID)
}

// GetFriends returns the users this user has added.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.ListFriends(ctx, userID)
}

// GetFriendStatus reports whether the user has an outgoing edge to the target.
func (s *FriendService) GetFriendStatus(ctx context.Context, userID, targetID uint) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}
	return s.friendRepo.IsFriend(ctx, userID, targetID)
}

// SearchCandidates finds users matching the query who could still be added:
// the caller and their existing friends are excluded.
func (s *FriendService) SearchCandidates(ctx context.Context, userID uint, query string) ([]models.User, error) {
	if err := validation.ValidateSearchQuery(query); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.friendRepo.SearchCandidates(ctx, userID, strings.TrimSpace(query))
}

// ListCandidates returns every addable user, for browsing without a query.
func (s *FriendService) ListCandidates(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.ListAllCandidates(ctx, userID)
}
