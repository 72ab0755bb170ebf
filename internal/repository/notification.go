package repository

import (
	"context"
	"errors"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// NotificationListLimit caps how many notifications a single fetch
// returns.
const NotificationListLimit = 20

// NotificationRepository persists notifications.
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification. When a dedupe key is set and a record
// with the same key already exists, the insert is silently dropped:
// retried fan-out must not double-notify.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	err := r.db.WithContext(ctx).Create(n).Error
	if err != nil && n.DedupeKey != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// ListByReceiver returns the receiver's newest notifications with
// senders preloaded, capped at NotificationListLimit.
func (r *NotificationRepository) ListByReceiver(ctx context.Context, receiverID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Limit(NotificationListLimit).
		Find(&notifications).Error
	return notifications, err
}

// CountUnread counts the receiver's unread notifications.
func (r *NotificationRepository) CountUnread(ctx context.Context, receiverID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks a single notification read, scoped to its receiver.
// Returns gorm.ErrRecordNotFound when no row matched.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, receiverID uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the receiver read and
// returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, receiverID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// DeleteAll removes every notification of the receiver and returns how
// many were removed. Succeeds on an empty set.
func (r *NotificationRepository) DeleteAll(ctx context.Context, receiverID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

// Delete removes a notification, scoped to its receiver.
func (r *NotificationRepository) Delete(ctx context.Context, id, receiverID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
