package service

import (
	"context"
	"errors"

	"kinship/internal/middleware"
	"kinship/internal/models"
	"kinship/internal/observability"
	"kinship/internal/repository"

	"gorm.io/gorm"
)

// NotificationService creates and serves notification records. All
// Notify* methods are best-effort: a dispatch failure is logged and
// counted but never fails the action that triggered it.
type NotificationService struct {
	repo *repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) dispatch(ctx context.Context, n *models.Notification) {
	if n.ReceiverID == n.SenderID {
		// Users are never notified about their own actions.
		return
	}
	if err := s.repo.Create(ctx, n); err != nil {
		observability.NotificationFailures.Inc()
		middleware.Logger.ErrorContext(ctx, "notification dispatch failed",
			"type", n.Type, "receiver_id", n.ReceiverID, "error", err)
		return
	}
	observability.NotificationFanout.WithLabelValues(string(n.Type)).Inc()
}

// NotifyFriendRequest tells receiver that sender wants to connect.
func (s *NotificationService) NotifyFriendRequest(ctx context.Context, senderID, receiverID uint) {
	s.dispatch(ctx, &models.Notification{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       models.NotificationFriendRequest,
	})
}

// NotifyFriendAccept tells receiver that the pair (a, b) became
// friends. The deterministic dedupe key makes replays, including both
// sides of an auto-accept racing each other, write at most one record
// per receiver.
func (s *NotificationService) NotifyFriendAccept(ctx context.Context, senderID, receiverID uint) {
	key := models.FriendAcceptDedupeKey(senderID, receiverID, receiverID)
	s.dispatch(ctx, &models.Notification{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       models.NotificationFriendAccept,
		DedupeKey:  &key,
	})
}

// NotifyEngagement records a like, comment or reply notification
// pointing at the affected entity.
func (s *NotificationService) NotifyEngagement(ctx context.Context, typ models.NotificationType, senderID, receiverID uint, entityType models.LikeTarget, entityID uint) {
	s.dispatch(ctx, &models.Notification{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       typ,
		EntityType: &entityType,
		EntityID:   &entityID,
	})
}

// List returns the user's newest notifications, capped.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	list, err := s.repo.ListByReceiver(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return list, nil
}

// UnreadCount returns how many unread notifications the user has.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// MarkRead marks one of the user's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	err := s.repo.MarkRead(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Notification", id)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// MarkAllRead marks all of the user's notifications read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	changed, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return changed, nil
}

// DeleteAll removes all of the user's notifications.
func (s *NotificationService) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	removed, err := s.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return removed, nil
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(ctx context.Context, id, userID uint) error {
	err := s.repo.Delete(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Notification", id)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
