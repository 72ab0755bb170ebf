package repository

import (
	"context"
	"errors"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// ErrRequestGone signals that a friend request vanished between lookup
// and mutation, which happens when two transitions race on the same
// pair. Callers map it to Conflict.
var ErrRequestGone = errors.New("friend request no longer exists")

// RelationshipRepository persists friend requests and friendships.
// Uniqueness is enforced by the store: the composite indexes on both
// tables are the arbiter under concurrent writes, so methods surface
// gorm.ErrDuplicatedKey rather than pre-checking.
type RelationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository creates a new RelationshipRepository.
func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

// CreateRequest inserts a directed friend request. A duplicate pair
// surfaces as gorm.ErrDuplicatedKey.
func (r *RelationshipRepository) CreateRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	req := &models.FriendRequest{SenderID: senderID, ReceiverID: receiverID}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// GetRequest fetches the request directed from sender to receiver.
func (r *RelationshipRepository) GetRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetRequestByID fetches a request by primary key.
func (r *RelationshipRepository) GetRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// DeleteRequest removes a request by id scoped to its receiver, so a
// user cannot act on someone else's inbox. Returns ErrRequestGone when
// no row was deleted.
func (r *RelationshipRepository) DeleteRequest(ctx context.Context, id, receiverID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestGone
	}
	return nil
}

// CancelRequest removes a request by id scoped to its sender.
func (r *RelationshipRepository) CancelRequest(ctx context.Context, id, senderID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND sender_id = ?", id, senderID).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestGone
	}
	return nil
}

// ListReceivedRequests returns the user's incoming requests, newest
// first, with senders preloaded.
func (r *RelationshipRepository) ListReceivedRequests(ctx context.Context, receiverID uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListSentRequestReceiverIDs returns the ids of users the sender has
// pending requests to.
func (r *RelationshipRepository) ListSentRequestReceiverIDs(ctx context.Context, senderID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("sender_id = ?", senderID).
		Pluck("receiver_id", &ids).Error
	return ids, err
}

// ListReceivedRequestSenderIDs returns the ids of users with pending
// requests to the receiver.
func (r *RelationshipRepository) ListReceivedRequestSenderIDs(ctx context.Context, receiverID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("receiver_id = ?", receiverID).
		Pluck("sender_id", &ids).Error
	return ids, err
}

// FriendshipExists reports whether the two users are friends.
func (r *RelationshipRepository) FriendshipExists(ctx context.Context, a, b uint) (bool, error) {
	low, high := models.OrderPair(a, b)
	var f models.Friendship
	err := r.db.WithContext(ctx).
		Select("id").
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Accept atomically consumes the request and establishes the
// friendship. The request delete and friendship insert commit together:
// a concurrent accept or reject loses the race on the delete and gets
// ErrRequestGone, a concurrent friendship insert loses on the unique
// index and gets gorm.ErrDuplicatedKey.
func (r *RelationshipRepository) Accept(ctx context.Context, requestID, receiverID uint) (*models.Friendship, error) {
	var friendship *models.Friendship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.FriendRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestGone
			}
			return err
		}
		if req.ReceiverID != receiverID {
			return models.NewForbiddenError("Only the receiver can accept a friend request")
		}

		res := tx.Where("id = ?", requestID).Delete(&models.FriendRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRequestGone
		}

		friendship = models.NewFriendship(req.SenderID, req.ReceiverID)
		return tx.Create(friendship).Error
	})
	if err != nil {
		return nil, err
	}
	return friendship, nil
}

// Reconcile resolves crossed requests: when sender tries to request
// receiver while receiver's own request to sender is still pending, the
// pair is auto-accepted. Both pending rows (the reverse one must exist,
// a forward one should not but is swept defensively) are consumed and
// the friendship is created in one transaction.
func (r *RelationshipRepository) Reconcile(ctx context.Context, senderID, receiverID uint) (*models.Friendship, error) {
	var friendship *models.Friendship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("sender_id = ? AND receiver_id = ?", receiverID, senderID).
			Delete(&models.FriendRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// The reverse request was consumed by a concurrent transition.
			return ErrRequestGone
		}

		if err := tx.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
			Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}

		friendship = models.NewFriendship(senderID, receiverID)
		return tx.Create(friendship).Error
	})
	if err != nil {
		return nil, err
	}
	return friendship, nil
}

// DeleteFriendship removes the friendship between the two users and any
// stray requests in either direction. Returns gorm.ErrRecordNotFound
// when they were not friends.
func (r *RelationshipRepository) DeleteFriendship(ctx context.Context, a, b uint) error {
	low, high := models.OrderPair(a, b)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_low_id = ? AND user_high_id = ?", low, high).
			Delete(&models.Friendship{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			a, b, b, a,
		).Delete(&models.FriendRequest{}).Error
	})
}

// ListFriendIDs returns the ids of all friends of userID.
func (r *RelationshipRepository) ListFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(friendships))
	for i := range friendships {
		ids = append(ids, friendships[i].OtherUser(userID))
	}
	return ids, nil
}

// ListFriends returns the full user records of all friends of userID.
func (r *RelationshipRepository) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	ids, err := r.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	err = r.db.WithContext(ctx).Where("id IN ?", ids).Order("username").Find(&users).Error
	return users, err
}
