package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestFriendIDsRoundTrip(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	_, ok := GetFriendIDs(ctx, rdb, 1)
	require.False(t, ok, "expected miss on empty cache")

	SetFriendIDs(ctx, rdb, 1, []uint{2, 3, 5})

	ids, ok := GetFriendIDs(ctx, rdb, 1)
	require.True(t, ok)
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, uint(2))
	assert.Contains(t, ids, uint(3))
	assert.Contains(t, ids, uint(5))
	assert.NotContains(t, ids, uint(4))
}

func TestFriendIDsEmptyListIsAHit(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	SetFriendIDs(ctx, rdb, 7, nil)

	ids, ok := GetFriendIDs(ctx, rdb, 7)
	require.True(t, ok, "cached empty list should be a hit")
	assert.Empty(t, ids)
}

func TestInvalidateFriendsDropsBothSides(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	SetFriendIDs(ctx, rdb, 1, []uint{2})
	SetFriendIDs(ctx, rdb, 2, []uint{1})

	InvalidateFriends(ctx, rdb, 1, 2)

	_, ok := GetFriendIDs(ctx, rdb, 1)
	assert.False(t, ok)
	_, ok = GetFriendIDs(ctx, rdb, 2)
	assert.False(t, ok)
}

func TestNilClientIsMiss(t *testing.T) {
	ctx := context.Background()

	_, ok := GetFriendIDs(ctx, nil, 1)
	assert.False(t, ok)

	// Writes and invalidations on a nil client are no-ops.
	SetFriendIDs(ctx, nil, 1, []uint{2})
	InvalidateFriends(ctx, nil, 1, 2)
}
