package repository

import (
	"context"
	"testing"

	"kinship/internal/models"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateRequestDuplicateIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRelationshipRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	_, err := repo.CreateRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = repo.CreateRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCreateRequestRejectsSelf(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRelationshipRepository(db)

	alice := testutil.CreateUser(t, db, "alice")

	_, err := repo.CreateRequest(context.Background(), alice.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestAcceptConsumesRequestAndCreatesFriendship(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRelationshipRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	req, err := repo.CreateRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	friendship, err := repo.Accept(ctx, req.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, friendship.Involves(alice.ID))
	assert.True(t, friendship.Involves(bob.ID))

	exists, err := repo.FriendshipExists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, exists, "friendship is symmetric")

	_, err = repo.GetRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "request must be consumed")

	// A second accept on the same request loses the race.
	_, err = repo.Accept(ctx, req.ID, bob.ID)
	assert.ErrorIs(t, err, ErrRequestGone)
}

func TestAcceptByWrongReceiverIsForbidden(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRelationshipRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	req, err := repo.CreateRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = repo.Accept(ctx, req.ID, carol.ID)
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, models.ErrorCode(err))

	// Request must survive the rejected accept.
	_, err = repo.GetRequest(ctx, alice.ID, bob.ID)
	assert.NoError(t, err)
}

func TestReconcileConsumesReverseRequest(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRelationshipRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	// Bob already asked Alice; Alice now tries to ask Bob.
	_, err := repo.CreateRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	friendship, err := repo.Reconcile(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, friendship.Involves(alice.ID))
	assert.True(t, friendship.Involves(bob.ID))

	exists, err := repo.FriendshipExists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// Neither direction has a pending request left.
	_, err = repo.GetRequest(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Replaying the reconcile finds nothing to consume.
	_, err = repo.Reconcile(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrRequestGone)
}

func TestDeleteFriendshipSweepsStrayRequests(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRelationshipRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	testutil.Befriend(t, db, alice.ID, bob.ID)
	require.NoError(t, db.Create(&models.FriendRequest{SenderID: alice.ID, ReceiverID: bob.ID}).Error)

	require.NoError(t, repo.DeleteFriendship(ctx, bob.ID, alice.ID))

	exists, err := repo.FriendshipExists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Removing again reports not found.
	err = repo.DeleteFriendship(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFriendshipUniquePairAcrossOrderings(t *testing.T) {
	db := testutil.NewDB(t)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	require.NoError(t, db.Create(models.NewFriendship(alice.ID, bob.ID)).Error)

	err := db.Create(models.NewFriendship(bob.ID, alice.ID)).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, "reversed pair must hit the same unique key")
}

func TestListFriends(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRelationshipRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	testutil.CreateUser(t, db, "dave")

	testutil.Befriend(t, db, alice.ID, bob.ID)
	testutil.Befriend(t, db, carol.ID, alice.ID)

	ids, err := repo.ListFriendIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)

	friends, err := repo.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, "bob", friends[0].Username)
	assert.Equal(t, "carol", friends[1].Username)
}
