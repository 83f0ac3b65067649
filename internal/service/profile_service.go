package service

import (
	"context"

	"glimpse/internal/models"
	"glimpse/internal/repository"
)

// Profile is the aggregated view of a user's own activity.
type Profile struct {
	User       *models.User       `json:"user"`
	MyPosts    []*models.Post     `json:"myPosts"`
	LikedPosts []*models.Post     `json:"likedPosts"`
	Stats      *models.OwnerStats `json:"stats"`
}

// ProfileService aggregates a user's posts, liked posts, and activity stats.
// Every number is derived at call time; a like or deletion elsewhere shows up
// on the next read with no invalidation step.
type ProfileService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func NewProfileService(userRepo repository.UserRepository, postRepo repository.PostRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, postRepo: postRepo}
}

// GetLikedPosts returns just the posts the user has liked, newest first.
func (s *ProfileService) GetLikedPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.postRepo.LikedBy(ctx, userID)
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	myPosts, err := s.postRepo.GetByUserID(ctx, userID, userID)
	if err != nil {
		return nil, err
	}

	likedPosts, err := s.postRepo.LikedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.postRepo.OwnerStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:       user,
		MyPosts:    myPosts,
		LikedPosts: likedPosts,
		Stats:      stats,
	}, nil
}
