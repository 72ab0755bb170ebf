package models

import (
	"fmt"
	"time"
)

// NotificationType enumerates the events that fan out to receivers.
type NotificationType string

const (
	NotificationLike          NotificationType = "like"
	NotificationComment       NotificationType = "comment"
	NotificationReply         NotificationType = "reply"
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationFriendAccept  NotificationType = "friend_accept"
)

// Notification is a persisted, pull-only notification record. The
// sender is informational and not required to still exist. DedupeKey,
// when set, is unique: relationship fan-out writes deterministic keys so
// a retried or concurrently repeated transition cannot double-notify.
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	ReceiverID uint             `gorm:"not null;index:idx_notifications_receiver;index:idx_notifications_unread" json:"receiver_id"`
	SenderID   uint             `gorm:"not null" json:"sender_id"`
	Sender     User             `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Type       NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	EntityType *LikeTarget      `gorm:"type:varchar(10)" json:"entity_type,omitempty"`
	EntityID   *uint            `json:"entity_id,omitempty"`
	IsRead     bool             `gorm:"not null;default:false;index:idx_notifications_unread" json:"is_read"`
	DedupeKey  *string          `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt  time.Time        `gorm:"index:idx_notifications_receiver,sort:desc" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// FriendAcceptDedupeKey is the deterministic dedupe key for the
// friend_accept notification delivered to receiver for the given pair.
// Both sides of a reconciliation derive the same keys, making the
// two-sided fan-out idempotent.
func FriendAcceptDedupeKey(a, b, receiver uint) string {
	low, high := OrderPair(a, b)
	return fmt.Sprintf("friend_accept:%d:%d:%d", low, high, receiver)
}
