package repository

import (
	"context"

	"glimpse/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CandidateSearchLimit caps prefix-search results for friend candidates.
const CandidateSearchLimit = 10

// FriendRepository defines the interface for directed friend-edge operations.
// Edges are strictly one-way: AddEdge(a, b) never implies an edge b -> a.
type FriendRepository interface {
	AddEdge(ctx context.Context, ownerID, friendID uint) error
	RemoveEdge(ctx context.Context, ownerID, friendID uint) error
	ListFriends(ctx context.Context, ownerID uint) ([]models.User, error)
	IsFriend(ctx context.Context, ownerID, candidateID uint) (bool, error)
	SearchCandidates(ctx context.Context, ownerID uint, query string) ([]models.User, error)
	ListAllCandidates(ctx context.Context, ownerID uint) ([]models.User, error)
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// AddEdge inserts the directed edge owner -> friend. Repeat inserts are
// no-ops: the unique (owner_id, friend_id) index plus ON CONFLICT DO NOTHING
// makes the operation idempotent in a single atomic statement.
func (r *friendRepository) AddEdge(ctx context.Context, ownerID, friendID uint) error {
	edge := models.FriendEdge{OwnerID: ownerID, FriendID: friendID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error; err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

// RemoveEdge deletes only the owner -> friend direction. Deleting an absent
// edge is not an error.
func (r *friendRepository) RemoveEdge(ctx context.Context, ownerID, friendID uint) error {
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND friend_id = ?", ownerID, friendID).
		Delete(&models.FriendEdge{}).Error; err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

func (r *friendRepository) ListFriends(ctx context.Context, ownerID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN friend_edges f ON users.id = f.friend_id").
		Where("f.owner_id = ?", ownerID).
		Order("users.email ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return users, nil
}

func (r *friendRepository) IsFriend(ctx context.Context, ownerID, candidateID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FriendEdge{}).
		Where("owner_id = ? AND friend_id = ?", ownerID, candidateID).
		Count(&count).Error; err != nil {
		return false, models.NewStorageUnavailableError(err)
	}
	return count > 0, nil
}

// SearchCandidates returns users whose email contains the query
// (case-insensitive), excluding the owner and anyone already followed,
// ordered by email and capped at CandidateSearchLimit.
func (r *friendRepository) SearchCandidates(ctx context.Context, ownerID uint, query string) ([]models.User, error) {
	var users []models.User
	like := "%" + models.NormalizeEmail(query) + "%"
	if err := r.candidateQuery(ctx, ownerID).
		Where("LOWER(users.email) LIKE ?", like).
		Limit(CandidateSearchLimit).
		Find(&users).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return users, nil
}

// ListAllCandidates is SearchCandidates without the match filter or cap.
func (r *friendRepository) ListAllCandidates(ctx context.Context, ownerID uint) ([]models.User, error) {
	var users []models.User
	if err := r.candidateQuery(ctx, ownerID).
		Find(&users).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return users, nil
}

// candidateQuery excludes the owner and every user the owner already follows.
func (r *friendRepository) candidateQuery(ctx context.Context, ownerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users").
		Where("users.id != ?", ownerID).
		Where("users.id NOT IN (?)",
			r.db.Model(&models.FriendEdge{}).
				Select("friend_id").
				Where("owner_id = ?", ownerID)).
		Order("users.email ASC")
}
