package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// friendsTTL bounds staleness if an invalidation is ever lost.
const friendsTTL = 10 * time.Minute

func friendsKey(userID uint) string {
	return fmt.Sprintf("friends:%d", userID)
}

// GetFriendIDs returns the cached friend-id set for userID. The second
// return value reports whether the cache held an entry. Any Redis error
// is reported as a miss so callers fall through to the database.
func GetFriendIDs(ctx context.Context, rdb *redis.Client, userID uint) (map[uint]struct{}, bool) {
	if rdb == nil {
		return nil, false
	}

	members, err := rdb.SMembers(ctx, friendsKey(userID)).Result()
	if err != nil || len(members) == 0 {
		return nil, false
	}

	ids := make(map[uint]struct{}, len(members))
	for _, m := range members {
		if m == "-" {
			// Sentinel marking a cached empty friend list.
			continue
		}
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			return nil, false
		}
		ids[uint(id)] = struct{}{}
	}
	return ids, true
}

// SetFriendIDs stores the friend-id set for userID. An empty list is
// represented with a sentinel member so it still caches as a hit.
func SetFriendIDs(ctx context.Context, rdb *redis.Client, userID uint, ids []uint) {
	if rdb == nil {
		return
	}

	key := friendsKey(userID)
	members := make([]interface{}, 0, len(ids)+1)
	members = append(members, "-")
	for _, id := range ids {
		members = append(members, strconv.FormatUint(uint64(id), 10))
	}

	pipe := rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, friendsTTL)
	_, _ = pipe.Exec(ctx)
}

// InvalidateFriends drops the cached friend sets for both members of a
// changed pair. Called after accept, auto-accept and unfriend.
func InvalidateFriends(ctx context.Context, rdb *redis.Client, a, b uint) {
	if rdb == nil {
		return
	}
	_ = rdb.Del(ctx, friendsKey(a), friendsKey(b)).Err()
}
