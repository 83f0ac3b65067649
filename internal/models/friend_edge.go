package models

import "time"

// FriendEdge is a directed follow-style relation: owner -> friend. An edge
// A->B says nothing about B->A; callers must never assume symmetry. The
// ordered pair is unique so repeated inserts are no-ops.
type FriendEdge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_owner_friend" json:"owner_id"`
	FriendID  uint      `gorm:"not null;uniqueIndex:idx_owner_friend" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`

	Owner  User `gorm:"foreignKey:OwnerID" json:"-"`
	Friend User `gorm:"foreignKey:FriendID" json:"-"`
}

// TableName specifies the table name for GORM
func (FriendEdge) TableName() string {
	return "friend_edges"
}
