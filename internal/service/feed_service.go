package service

import (
	"context"

	"glimpse/internal/models"
	"glimpse/internal/observability"
	"glimpse/internal/repository"
)

// FeedService assembles the home feed: the viewer's own posts plus posts
// from everyone the viewer has added, newest first. Feeds are computed per
// request from current rows, never cached.
type FeedService struct {
	postRepo repository.PostRepository
}

func NewFeedService(postRepo repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

func (s *FeedService) BuildFeed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.Feed(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	observability.FeedBuilds.Inc()
	return posts, nil
}
