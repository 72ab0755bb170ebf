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

// Request outcome statuses returned by SendRequest.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
)

// Friend recommendation batch sizes. Callers may ask for fewer or more
// than the default, never beyond the max.
const (
	DefaultRecommendationLimit = 5
	MaxRecommendationLimit     = 20
)

// SendResult describes what SendRequest did: either a new pending
// request or, when the receiver had already asked, an immediate
// friendship.
type SendResult struct {
	Status     string                `json:"status"`
	Request    *models.FriendRequest `json:"request,omitempty"`
	Friendship *models.Friendship    `json:"friendship,omitempty"`
}

// GraphService drives the relationship state machine. State lives in
// the store; the unique indexes there arbitrate every race, so the
// service never trusts its own pre-checks for correctness, only for
// friendlier error messages.
type GraphService struct {
	relationships *repository.RelationshipRepository
	users         *repository.UserRepository
	graph         *FriendGraph
	notifications *NotificationService
}

// NewGraphService creates a new GraphService.
func NewGraphService(
	relationships *repository.RelationshipRepository,
	users *repository.UserRepository,
	graph *FriendGraph,
	notifications *NotificationService,
) *GraphService {
	return &GraphService{
		relationships: relationships,
		users:         users,
		graph:         graph,
		notifications: notifications,
	}
}

// SendRequest initiates a relationship from sender to receiver. When a
// reverse request is pending the pair is reconciled into an immediate
// friendship and both sides are notified.
func (s *GraphService) SendRequest(ctx context.Context, senderID, receiverID uint) (*SendResult, error) {
	if senderID == receiverID {
		return nil, models.NewValidationError("Cannot send a friend request to yourself")
	}

	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !exists {
		return nil, models.NewNotFoundError("User", receiverID)
	}

	if friends, err := s.relationships.FriendshipExists(ctx, senderID, receiverID); err != nil {
		return nil, models.NewInternalError(err)
	} else if friends {
		return nil, models.NewConflictError("You are already friends")
	}

	if _, err := s.relationships.GetRequest(ctx, receiverID, senderID); err == nil {
		friendship, err := s.relationships.Reconcile(ctx, senderID, receiverID)
		switch {
		case err == nil:
			s.graph.Invalidate(ctx, senderID, receiverID)
			observability.RelationshipTransitions.WithLabelValues("auto_accepted").Inc()
			middleware.Logger.InfoContext(ctx, "crossed friend requests reconciled",
				"sender_id", senderID, "receiver_id", receiverID)
			s.notifications.NotifyFriendAccept(ctx, senderID, receiverID)
			s.notifications.NotifyFriendAccept(ctx, receiverID, senderID)
			return &SendResult{Status: RequestAccepted, Friendship: friendship}, nil
		case errors.Is(err, repository.ErrRequestGone):
			// The reverse request was consumed concurrently; fall
			// through and send a plain request.
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, models.NewConflictError("You are already friends")
		default:
			return nil, models.NewInternalError(err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	req, err := s.relationships.CreateRequest(ctx, senderID, receiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Friend request already sent")
		}
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}

	observability.RelationshipTransitions.WithLabelValues("request_sent").Inc()
	s.notifications.NotifyFriendRequest(ctx, senderID, receiverID)
	return &SendResult{Status: RequestPending, Request: req}, nil
}

// AcceptRequest turns the pending request into a friendship. Only the
// receiver may accept.
func (s *GraphService) AcceptRequest(ctx context.Context, requestID, receiverID uint) (*models.Friendship, error) {
	friendship, err := s.relationships.Accept(ctx, requestID, receiverID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRequestGone):
			return nil, models.NewNotFoundError("Friend request", requestID)
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, models.NewConflictError("You are already friends")
		}
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}

	s.graph.Invalidate(ctx, friendship.UserLowID, friendship.UserHighID)
	observability.RelationshipTransitions.WithLabelValues("request_accepted").Inc()
	s.notifications.NotifyFriendAccept(ctx, receiverID, friendship.OtherUser(receiverID))
	return friendship, nil
}

// RejectRequest discards a pending request. The sender is not notified,
// and rejecting an already-gone request succeeds silently; the outcome
// is identical either way.
func (s *GraphService) RejectRequest(ctx context.Context, requestID, receiverID uint) error {
	err := s.relationships.DeleteRequest(ctx, requestID, receiverID)
	if errors.Is(err, repository.ErrRequestGone) {
		return nil
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	observability.RelationshipTransitions.WithLabelValues("request_rejected").Inc()
	return nil
}

// CancelRequest lets the sender withdraw a pending request.
func (s *GraphService) CancelRequest(ctx context.Context, requestID, senderID uint) error {
	err := s.relationships.CancelRequest(ctx, requestID, senderID)
	if errors.Is(err, repository.ErrRequestGone) {
		return models.NewNotFoundError("Friend request", requestID)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	observability.RelationshipTransitions.WithLabelValues("request_cancelled").Inc()
	return nil
}

// RemoveFriend dissolves the friendship between userID and friendID.
// Removal is idempotent: a second call finds nothing and succeeds.
func (s *GraphService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	err := s.relationships.DeleteFriendship(ctx, userID, friendID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	s.graph.Invalidate(ctx, userID, friendID)
	observability.RelationshipTransitions.WithLabelValues("friend_removed").Inc()
	return nil
}

// ListFriends returns the user's friends as public summaries.
func (s *GraphService) ListFriends(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	friends, err := s.relationships.ListFriends(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	summaries := make([]models.UserSummary, 0, len(friends))
	for i := range friends {
		summaries = append(summaries, friends[i].Summary())
	}
	return summaries, nil
}

// ListReceivedRequests returns the user's incoming pending requests.
func (s *GraphService) ListReceivedRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	reqs, err := s.relationships.ListReceivedRequests(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

// ListSentRequestIDs returns the ids of users the given user has
// pending requests to.
func (s *GraphService) ListSentRequestIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := s.relationships.ListSentRequestReceiverIDs(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// Recommend samples up to limit users the given user might know: anyone
// who is not already a friend, not the user, and not party to a pending
// request with the user in either direction. A non-positive limit falls
// back to the default.
func (s *GraphService) Recommend(ctx context.Context, userID uint, limit int) ([]models.UserSummary, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	if limit > MaxRecommendationLimit {
		limit = MaxRecommendationLimit
	}

	friendIDs, err := s.graph.FriendIDs(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	sentIDs, err := s.relationships.ListSentRequestReceiverIDs(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	receivedIDs, err := s.relationships.ListReceivedRequestSenderIDs(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	exclude := make([]uint, 0, len(friendIDs)+len(sentIDs)+len(receivedIDs)+1)
	exclude = append(exclude, userID)
	exclude = append(exclude, friendIDs...)
	exclude = append(exclude, sentIDs...)
	exclude = append(exclude, receivedIDs...)

	users, err := s.users.SampleExcluding(ctx, exclude, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}
