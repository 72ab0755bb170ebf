package service

import (
	"context"

	"kinship/internal/cache"
	"kinship/internal/repository"

	"github.com/redis/go-redis/v9"
)

// FriendGraph answers friendship queries, serving friend-id sets from
// Redis when possible. The cache is strictly best-effort: any miss or
// Redis failure falls through to the database.
type FriendGraph struct {
	relationships *repository.RelationshipRepository
	rdb           *redis.Client
}

// NewFriendGraph creates a new FriendGraph.
func NewFriendGraph(relationships *repository.RelationshipRepository, rdb *redis.Client) *FriendGraph {
	return &FriendGraph{relationships: relationships, rdb: rdb}
}

// FriendIDs returns all friend ids of userID, populating the cache on
// a miss.
func (g *FriendGraph) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	if cached, ok := cache.GetFriendIDs(ctx, g.rdb, userID); ok {
		ids := make([]uint, 0, len(cached))
		for id := range cached {
			ids = append(ids, id)
		}
		return ids, nil
	}

	ids, err := g.relationships.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	cache.SetFriendIDs(ctx, g.rdb, userID, ids)
	return ids, nil
}

// IsFriend reports whether a and b are friends.
func (g *FriendGraph) IsFriend(ctx context.Context, a, b uint) (bool, error) {
	if cached, ok := cache.GetFriendIDs(ctx, g.rdb, a); ok {
		_, friend := cached[b]
		return friend, nil
	}
	return g.relationships.FriendshipExists(ctx, a, b)
}

// Invalidate drops both users' cached friend sets after a graph change.
func (g *FriendGraph) Invalidate(ctx context.Context, a, b uint) {
	cache.InvalidateFriends(ctx, g.rdb, a, b)
}
