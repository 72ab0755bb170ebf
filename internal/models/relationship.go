package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendRequest is a directed, unaccepted relationship proposal.
// At most one row may exist per ordered (sender, receiver) pair; the
// composite unique index is the arbiter under concurrent sends.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;uniqueIndex:idx_friend_requests_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;uniqueIndex:idx_friend_requests_pair" json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// BeforeCreate rejects self-directed requests before they reach the store.
func (r *FriendRequest) BeforeCreate(_ *gorm.DB) error {
	if r.SenderID == r.ReceiverID {
		return NewValidationError("Cannot send a friend request to yourself")
	}
	return nil
}

// Friendship is an established, symmetric relationship. The pair is
// stored canonically (UserLowID < UserHighID) so the composite unique
// index treats {a,b} and {b,a} as the same key.
type Friendship struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserLowID  uint      `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"user_low_id"`
	UserHighID uint      `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"user_high_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// NewFriendship builds a canonically ordered friendship for the pair.
func NewFriendship(a, b uint) *Friendship {
	low, high := OrderPair(a, b)
	return &Friendship{UserLowID: low, UserHighID: high}
}

// BeforeCreate normalizes ordering and rejects degenerate pairs, so a
// row can never bypass the canonical form regardless of caller.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	if f.UserLowID == f.UserHighID {
		return NewValidationError("Cannot befriend yourself")
	}
	f.UserLowID, f.UserHighID = OrderPair(f.UserLowID, f.UserHighID)
	return nil
}

// Involves reports whether the friendship includes the given user.
func (f *Friendship) Involves(userID uint) bool {
	return f.UserLowID == userID || f.UserHighID == userID
}

// OtherUser returns the member of the pair that is not userID.
func (f *Friendship) OtherUser(userID uint) uint {
	if f.UserLowID == userID {
		return f.UserHighID
	}
	return f.UserLowID
}

// OrderPair returns the two ids in canonical (low, high) order.
func OrderPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
