package service

import (
	"context"
	"testing"

	"kinship/internal/models"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeCreatesThenRemoves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	post := testutil.CreatePost(t, env.db, alice.ID, models.PostPublic)

	liked, err := env.engagement.ToggleLike(ctx, bob.ID, models.TargetPost, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	list, err := env.notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationLike, list[0].Type)
	require.NotNil(t, list[0].EntityType)
	assert.Equal(t, models.TargetPost, *list[0].EntityType)

	// The second toggle removes the like again, silently.
	liked, err = env.engagement.ToggleLike(ctx, bob.ID, models.TargetPost, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	var got models.Post
	require.NoError(t, env.db.First(&got, post.ID).Error)
	assert.Zero(t, got.LikesCount)

	list, err = env.notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "removing a like must not notify")

	// A third toggle likes again.
	liked, err = env.engagement.ToggleLike(ctx, bob.ID, models.TargetPost, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	require.NoError(t, env.db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.LikesCount)
}

func TestSelfEngagementIsNotNotified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	post := testutil.CreatePost(t, env.db, alice.ID, models.PostPublic)

	_, err := env.engagement.ToggleLike(ctx, alice.ID, models.TargetPost, post.ID)
	require.NoError(t, err)
	_, err = env.engagement.AddComment(ctx, alice.ID, post.ID, nil, "my own post")
	require.NoError(t, err)

	list, err := env.notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "own actions never notify")
}

func TestLikeOnInvisiblePostIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	friendsOnly := testutil.CreatePost(t, env.db, alice.ID, models.PostFriends)

	_, err := env.engagement.ToggleLike(ctx, bob.ID, models.TargetPost, friendsOnly.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	_, err = env.engagement.AddComment(ctx, bob.ID, friendsOnly.ID, nil, "sneaky")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestReplyNotifiesParentAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	carol := testutil.CreateUser(t, env.db, "carol")
	post := testutil.CreatePost(t, env.db, alice.ID, models.PostPublic)

	parent, err := env.engagement.AddComment(ctx, bob.ID, post.ID, nil, "top level")
	require.NoError(t, err)

	// Post author got a comment notification.
	list, err := env.notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationComment, list[0].Type)

	_, err = env.engagement.AddComment(ctx, carol.ID, post.ID, &parent.ID, "reply")
	require.NoError(t, err)

	// The reply goes to the parent comment's author, not the post's.
	list, err = env.notifications.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationReply, list[0].Type)

	list, err = env.notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "post author is not notified of replies")
}

func TestReplyMustTargetSamePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	postA := testutil.CreatePost(t, env.db, alice.ID, models.PostPublic)
	postB := testutil.CreatePost(t, env.db, alice.ID, models.PostPublic)

	parent, err := env.engagement.AddComment(ctx, bob.ID, postA.ID, nil, "on A")
	require.NoError(t, err)

	_, err = env.engagement.AddComment(ctx, bob.ID, postB.ID, &parent.ID, "crossed")
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestDeleteCommentKeepsThread(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	post := testutil.CreatePost(t, env.db, alice.ID, models.PostPublic)

	parent, err := env.engagement.AddComment(ctx, bob.ID, post.ID, nil, "will vanish")
	require.NoError(t, err)
	_, err = env.engagement.AddComment(ctx, alice.ID, post.ID, &parent.ID, "kept reply")
	require.NoError(t, err)

	require.NoError(t, env.engagement.DeleteComment(ctx, bob.ID, parent.ID))

	comments, err := env.engagement.ListComments(ctx, &alice.ID, post.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.True(t, comments[0].IsDeleted)
	assert.Equal(t, models.DeletedCommentPlaceholder, comments[0].Content)
	assert.Equal(t, "kept reply", comments[1].Content)

	// Replying to the tombstone still works.
	_, err = env.engagement.AddComment(ctx, alice.ID, post.ID, &parent.ID, "late reply")
	assert.NoError(t, err)
}

func TestListLikersCapAndVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	post := testutil.CreatePost(t, env.db, alice.ID, models.PostPublic)

	for i := 0; i < 12; i++ {
		u := testutil.CreateUser(t, env.db, "liker"+string(rune('a'+i)))
		liked, err := env.engagement.ToggleLike(ctx, u.ID, models.TargetPost, post.ID)
		require.NoError(t, err)
		require.True(t, liked)
	}

	users, total, err := env.engagement.ListLikers(ctx, nil, models.TargetPost, post.ID)
	require.NoError(t, err)
	assert.Len(t, users, LikersListLimit)
	assert.EqualValues(t, 12, total)

	// An invisible target hides its likers too.
	hidden := testutil.CreatePost(t, env.db, alice.ID, models.PostPrivate)
	_, _, err = env.engagement.ListLikers(ctx, nil, models.TargetPost, hidden.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestCommentLikeVisibilityFollowsPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	carol := testutil.CreateUser(t, env.db, "carol")
	testutil.Befriend(t, env.db, alice.ID, bob.ID)
	friendsOnly := testutil.CreatePost(t, env.db, alice.ID, models.PostFriends)

	comment, err := env.engagement.AddComment(ctx, bob.ID, friendsOnly.ID, nil, "friends chat")
	require.NoError(t, err)

	// A stranger cannot like a comment on a post they cannot see.
	_, err = env.engagement.ToggleLike(ctx, carol.ID, models.TargetComment, comment.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	liked, err := env.engagement.ToggleLike(ctx, alice.ID, models.TargetComment, comment.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// Comment author gets the like notification.
	list, err := env.notifications.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationLike, list[0].Type)
}
