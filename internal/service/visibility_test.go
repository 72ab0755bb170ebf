package service

import (
	"testing"

	"kinship/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanView(t *testing.T) {
	owner := func(vis models.ProfileVisibility) *models.User {
		return &models.User{ID: 1, Username: "owner", ProfileVisibility: vis}
	}
	post := func(vis models.PostVisibility) *models.Post {
		return &models.Post{ID: 10, AuthorID: 1, Visibility: vis}
	}
	viewer := uint(2)
	self := uint(1)

	tests := []struct {
		name       string
		viewerID   *uint
		owner      *models.User
		post       *models.Post
		isFriend   bool
		allowed    bool
		wantReason DenialReason
	}{
		{"owner sees own private post", &self, owner(models.ProfilePrivate), post(models.PostPrivate), false, true, ""},
		{"anonymous sees public post of public profile", nil, owner(models.ProfilePublic), post(models.PostPublic), false, true, ""},
		{"anonymous denied on private profile", nil, owner(models.ProfilePrivate), post(models.PostPublic), false, false, DenialPrivateProfile},
		{"non-friend denied on private profile even for public post", &viewer, owner(models.ProfilePrivate), post(models.PostPublic), false, false, DenialPrivateProfile},
		{"friend passes private profile gate", &viewer, owner(models.ProfilePrivate), post(models.PostPublic), true, true, ""},
		{"friend denied on private post", &viewer, owner(models.ProfilePublic), post(models.PostPrivate), true, false, DenialPrivatePost},
		{"non-friend denied on friends post", &viewer, owner(models.ProfilePublic), post(models.PostFriends), false, false, DenialFriendsOnly},
		{"friend sees friends post", &viewer, owner(models.ProfilePublic), post(models.PostFriends), true, true, ""},
		{"profile gate outranks post tier", &viewer, owner(models.ProfilePrivate), post(models.PostFriends), false, false, DenialPrivateProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason := CanView(tt.viewerID, tt.owner, tt.post, tt.isFriend)
			assert.Equal(t, tt.allowed, allowed)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestVisibleTiers(t *testing.T) {
	self := uint(1)
	viewer := uint(2)

	publicOwner := &models.User{ID: 1, ProfileVisibility: models.ProfilePublic}
	privateOwner := &models.User{ID: 1, ProfileVisibility: models.ProfilePrivate}

	tiers, reason := VisibleTiers(&self, privateOwner, false)
	assert.Empty(t, reason)
	assert.Len(t, tiers, 3, "owner lists every tier")

	tiers, reason = VisibleTiers(&viewer, publicOwner, true)
	assert.Empty(t, reason)
	assert.ElementsMatch(t, []models.PostVisibility{models.PostPublic, models.PostFriends}, tiers)

	tiers, reason = VisibleTiers(&viewer, publicOwner, false)
	assert.Empty(t, reason)
	assert.Equal(t, []models.PostVisibility{models.PostPublic}, tiers)

	tiers, reason = VisibleTiers(nil, publicOwner, false)
	assert.Empty(t, reason)
	assert.Equal(t, []models.PostVisibility{models.PostPublic}, tiers)

	tiers, reason = VisibleTiers(&viewer, privateOwner, false)
	assert.Equal(t, DenialPrivateProfile, reason)
	assert.Nil(t, tiers)

	tiers, reason = VisibleTiers(nil, privateOwner, false)
	assert.Equal(t, DenialPrivateProfile, reason)
	assert.Nil(t, tiers)
}
