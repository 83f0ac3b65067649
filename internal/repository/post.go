package repository

import (
	"context"
	"errors"
	"time"

	"glimpse/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post and like-edge data operations.
// Like counts and viewer-liked flags are always computed from like rows at
// query time; nothing aggregate is stored.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, viewerID uint) ([]*models.Post, error)
	Feed(ctx context.Context, viewerID uint) ([]*models.Post, error)
	LikedBy(ctx context.Context, viewerID uint) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, postID, userID uint) error
	Unlike(ctx context.Context, postID, userID uint) error
	LikeCount(ctx context.Context, postID uint) (int64, error)
	HasLiked(ctx context.Context, postID, viewerID uint) (bool, error)
	OwnerStats(ctx context.Context, userID uint) (*models.OwnerStats, error)
	ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]*models.Post, error)
	Purge(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

// annotate adds subqueries so like count and viewer-liked status arrive in a
// single query as SELECT aliases mapped onto the computed Post fields.
func (r *postRepository) annotate(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked",
			viewerID)
	}
	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post
	err := r.annotate(r.db.WithContext(ctx), viewerID).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewStorageUnavailableError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.annotate(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return posts, nil
}

// Feed selects posts owned by the viewer or by anyone the viewer follows,
// newest first. The candidate-owner set is recomputed from friend edges on
// every call; there is no materialized view to go stale.
func (r *postRepository) Feed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.annotate(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.user_id = ? OR posts.user_id IN (?)",
			viewerID,
			r.db.Model(&models.FriendEdge{}).
				Select("friend_id").
				Where("owner_id = ?", viewerID)).
		Order("posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return posts, nil
}

// LikedBy returns the posts the viewer has liked, newest first. Liked is true
// for every row by construction.
func (r *postRepository) LikedBy(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Select("posts.*, "+
			"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count, "+
			"true as liked").
		Preload("User").
		Joins("JOIN likes l ON l.post_id = posts.id").
		Where("l.user_id = ?", viewerID).
		Order("posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return posts, nil
}

// Delete removes the post record and, in the same transaction, every like
// edge referencing it. The post row is soft-deleted so the blob sweeper can
// still find its media reference; like rows are hard-deleted so aggregates
// drop to zero immediately.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("post_id = ?", id).Delete(&models.Like{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

// Like inserts the (user, post) edge. A repeat like is a no-op, enforced
// atomically by the unique index plus ON CONFLICT DO NOTHING.
func (r *postRepository) Like(ctx context.Context, postID, userID uint) error {
	if err := r.requirePost(ctx, postID); err != nil {
		return err
	}
	like := models.Like{PostID: postID, UserID: userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error; err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

// Unlike removes the (user, post) edge; removing an absent edge is a no-op.
func (r *postRepository) Unlike(ctx context.Context, postID, userID uint) error {
	if err := r.requirePost(ctx, postID); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	if err := r.requirePost(ctx, postID); err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewStorageUnavailableError(err)
	}
	return count, nil
}

func (r *postRepository) HasLiked(ctx context.Context, postID, viewerID uint) (bool, error) {
	if err := r.requirePost(ctx, postID); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, viewerID).
		Count(&count).Error; err != nil {
		return false, models.NewStorageUnavailableError(err)
	}
	return count > 0, nil
}

// requirePost distinguishes "post gone" from "zero likes": aggregate reads on
// a deleted post must fail with NotFound rather than answer 0.
func (r *postRepository) requirePost(ctx context.Context, postID uint) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Count(&count).Error; err != nil {
		return models.NewStorageUnavailableError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

func (r *postRepository) OwnerStats(ctx context.Context, userID uint) (*models.OwnerStats, error) {
	stats := &models.OwnerStats{}

	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalPosts).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.user_id = ? AND posts.deleted_at IS NULL", userID).
		Count(&stats.TotalLikesReceived).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalLikesGiven).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	return stats, nil
}

// ListDeletedBefore returns soft-deleted posts whose deletion happened before
// the cutoff. Used by the blob sweeper to release media and purge rows.
func (r *postRepository) ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&posts).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return posts, nil
}

// Purge permanently removes a soft-deleted post row.
func (r *postRepository) Purge(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Unscoped().
		Delete(&models.Post{}, id).Error; err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}
