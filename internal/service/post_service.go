package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"glimpse/internal/config"
	"glimpse/internal/middleware"
	"glimpse/internal/models"
	"glimpse/internal/repository"
	"glimpse/internal/storage"
	"glimpse/internal/validation"
)

const DefaultMaxUploadSizeMB = 25

type PostService struct {
	postRepo           repository.PostRepository
	blobs              storage.BlobStore
	maxUploadSizeBytes int64
}

type CreatePostInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
	Caption     string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, blobs storage.BlobStore, cfg *config.Config) *PostService {
	maxUploadSizeMB := DefaultMaxUploadSizeMB
	if cfg != nil && cfg.MaxUploadSizeMB > 0 {
		maxUploadSizeMB = cfg.MaxUploadSizeMB
	}
	return &PostService{
		postRepo:           postRepo,
		blobs:              blobs,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// CreatePost stores the media blob, then the post record referencing it. If
// the record insert fails the blob is released immediately so no blob exists
// without a row pointing at it.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}
	if err := validation.ValidateCaption(in.Caption); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	contentType := normalizeContentType(in.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(in.Content)
	}
	mediaType, err := mediaTypeFor(contentType)
	if err != nil {
		return nil, err
	}

	key, err := s.blobs.Save(ctx, bytes.NewReader(in.Content), int64(len(in.Content)), contentType)
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	post := &models.Post{
		UserID:    in.UserID,
		MediaPath: key,
		MediaType: mediaType,
		Caption:   strings.TrimSpace(in.Caption),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			middleware.Logger.WarnContext(ctx, "Failed to release blob after record insert failure",
				"media_path", key, "error", delErr)
		}
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, viewerID)
}

// DeletePost is a single sequenced operation: load, check ownership before
// any mutation, then remove the record and its like edges in one
// transaction. Blob release comes last; if it fails the soft-deleted row
// stays behind and the sweeper retries, so a blob can outlive its record only
// transiently and never the other way around.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}

	if post.MediaPath != "" {
		if err := s.blobs.Delete(ctx, post.MediaPath); err != nil {
			middleware.Logger.WarnContext(ctx, "Blob release deferred to sweeper",
				"post_id", in.PostID, "media_path", post.MediaPath, "error", err)
			return nil
		}
	}
	if err := s.postRepo.Purge(ctx, in.PostID); err != nil {
		middleware.Logger.WarnContext(ctx, "Purge deferred to sweeper",
			"post_id", in.PostID, "error", err)
	}
	return nil
}

// LikePost records the user's like. Liking twice is a no-op.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if err := s.postRepo.Like(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// UnlikePost removes the user's like. Unliking a post that was never liked
// is a no-op.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if err := s.postRepo.Unlike(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// ToggleLike flips the user's like state, composed from the two canonical
// operations.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	liked, err := s.postRepo.HasLiked(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		return s.UnlikePost(ctx, userID, postID)
	}
	return s.LikePost(ctx, userID, postID)
}

func mediaTypeFor(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return models.MediaTypeImage, nil
	case "video/mp4", "video/webm", "video/quicktime":
		return models.MediaTypeVideo, nil
	default:
		return "", models.NewValidationError("Unsupported media type")
	}
}

func normalizeContentType(contentType string) string {
	base := contentType
	if idx := strings.IndexByte(base, ';'); idx >= 0 {
		base = base[:idx]
	}
	return strings.ToLower(strings.TrimSpace(base))
}
