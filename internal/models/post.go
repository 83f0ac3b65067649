package models

import (
	"time"

	"gorm.io/gorm"
)

// Media types accepted for a post upload.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post is a single media upload owned by exactly one user. MediaPath is an
// opaque blob-store reference; the bytes themselves live in storage.BlobStore.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID" json:"user"`
	MediaPath string `gorm:"not null" json:"media_path"`
	MediaType string `gorm:"type:varchar(16);default:'image'" json:"media_type"`
	Caption   string `json:"caption"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the requesting viewer liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OwnerStats aggregates a user's content activity. Every field is derived by
// scanning post and like rows at read time; nothing here is stored.
type OwnerStats struct {
	TotalPosts         int64 `json:"total_posts"`
	TotalLikesReceived int64 `json:"total_likes_received"`
	TotalLikesGiven    int64 `json:"total_likes_given"`
}
