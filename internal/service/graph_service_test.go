package service

import (
	"context"
	"testing"

	"kinship/internal/models"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receivedTypes(t *testing.T, env *testEnv, userID uint) []models.NotificationType {
	t.Helper()
	list, err := env.notifications.List(context.Background(), userID)
	require.NoError(t, err)
	types := make([]models.NotificationType, 0, len(list))
	for _, n := range list {
		types = append(types, n.Type)
	}
	return types
}

func TestSendAcceptLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")

	res, err := env.graph.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, RequestPending, res.Status)
	require.NotNil(t, res.Request)

	assert.Equal(t, []models.NotificationType{models.NotificationFriendRequest}, receivedTypes(t, env, bob.ID))

	sent, err := env.graph.ListSentRequestIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, sent)

	friendship, err := env.graph.AcceptRequest(ctx, res.Request.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, friendship.Involves(alice.ID))
	assert.True(t, friendship.Involves(bob.ID))

	// The original sender learns the request was accepted.
	assert.Equal(t, []models.NotificationType{models.NotificationFriendAccept}, receivedTypes(t, env, alice.ID))

	friends, err := env.graph.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)

	friends, err = env.graph.ListFriends(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "alice", friends[0].Username)
}

func TestSendRequestValidations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")

	_, err := env.graph.SendRequest(ctx, alice.ID, alice.ID)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = env.graph.SendRequest(ctx, alice.ID, 9999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	_, err = env.graph.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.graph.SendRequest(ctx, alice.ID, bob.ID)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err), "duplicate send")

	testutil.Befriend(t, env.db, alice.ID, bob.ID)
	_, err = env.graph.SendRequest(ctx, bob.ID, alice.ID)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err), "already friends")
}

func TestCrossedRequestsReconcile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")

	_, err := env.graph.SendRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	res, err := env.graph.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, RequestAccepted, res.Status)
	require.NotNil(t, res.Friendship)

	// Both sides receive exactly one friend_accept; bob additionally
	// holds the original friend_request from the first send.
	assert.Equal(t, []models.NotificationType{models.NotificationFriendAccept}, receivedTypes(t, env, alice.ID))
	assert.ElementsMatch(t,
		[]models.NotificationType{models.NotificationFriendAccept, models.NotificationFriendRequest},
		receivedTypes(t, env, bob.ID))

	// No pending requests survive in either direction.
	reqs, err := env.graph.ListReceivedRequests(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, reqs)
	reqs, err = env.graph.ListReceivedRequests(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestRejectIsSilent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")

	res, err := env.graph.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, env.graph.RejectRequest(ctx, res.Request.ID, bob.ID))

	// No friendship, no accept notification for alice.
	friends, err := env.graph.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
	assert.Empty(t, receivedTypes(t, env, alice.ID))

	// Rejecting twice is a silent no-op.
	assert.NoError(t, env.graph.RejectRequest(ctx, res.Request.ID, bob.ID))

	// A rejected sender may try again.
	_, err = env.graph.SendRequest(ctx, alice.ID, bob.ID)
	assert.NoError(t, err)
}

func TestRemoveFriend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	testutil.Befriend(t, env.db, alice.ID, bob.ID)

	require.NoError(t, env.graph.RemoveFriend(ctx, bob.ID, alice.ID))

	friends, err := env.graph.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// Removing again leaves the same state and does not error.
	assert.NoError(t, env.graph.RemoveFriend(ctx, bob.ID, alice.ID))
}

func TestRecommendExcludesGraphNeighbors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	carol := testutil.CreateUser(t, env.db, "carol")
	dave := testutil.CreateUser(t, env.db, "dave")
	eve := testutil.CreateUser(t, env.db, "eve")

	testutil.Befriend(t, env.db, alice.ID, bob.ID)
	_, err := env.graph.SendRequest(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = env.graph.SendRequest(ctx, dave.ID, alice.ID)
	require.NoError(t, err)

	// Friends and pending requests in either direction are excluded.
	recs, err := env.graph.Recommend(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, eve.ID, recs[0].ID)
}

func TestRecommendHonorsCallerLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	for i := 0; i < MaxRecommendationLimit+5; i++ {
		testutil.CreateUser(t, env.db, "stranger"+string(rune('a'+i%26))+string(rune('0'+i/26)))
	}

	recs, err := env.graph.Recommend(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Len(t, recs, DefaultRecommendationLimit, "zero limit falls back to the default")

	recs, err = env.graph.Recommend(ctx, alice.ID, 3)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	recs, err = env.graph.Recommend(ctx, alice.ID, 1000)
	require.NoError(t, err)
	assert.Len(t, recs, MaxRecommendationLimit, "oversized limits are capped")
}
