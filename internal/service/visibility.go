// Package service contains the business logic layer.
package service

import "kinship/internal/models"

// DenialReason labels why the resolver denied access. Exposed for
// metrics; never returned to clients for single-post reads, where every
// denial collapses to not-found so existence cannot be probed.
type DenialReason string

const (
	DenialPrivateProfile DenialReason = "private_profile"
	DenialPrivatePost    DenialReason = "private_post"
	DenialFriendsOnly    DenialReason = "friends_only"
)

// CanView decides whether viewer may see the post. The rules apply in
// strict order: ownership short-circuits everything, then the owner's
// profile gate, then the post tier. A nil viewerID is an anonymous
// request and is never a friend.
func CanView(viewerID *uint, owner *models.User, post *models.Post, isFriend bool) (bool, DenialReason) {
	if viewerID != nil && *viewerID == post.AuthorID {
		return true, ""
	}
	if owner.ProfileVisibility == models.ProfilePrivate && !isFriend {
		return false, DenialPrivateProfile
	}
	switch post.Visibility {
	case models.PostPrivate:
		return false, DenialPrivatePost
	case models.PostFriends:
		if !isFriend {
			return false, DenialFriendsOnly
		}
	}
	return true, ""
}

// VisibleTiers returns the post tiers viewer may list on owner's
// profile, or nil with a reason when the profile itself is closed.
// Listing is where the profile gate surfaces as an explicit denial
// rather than an empty result.
func VisibleTiers(viewerID *uint, owner *models.User, isFriend bool) ([]models.PostVisibility, DenialReason) {
	if viewerID != nil && *viewerID == owner.ID {
		return []models.PostVisibility{models.PostPublic, models.PostFriends, models.PostPrivate}, ""
	}
	if owner.ProfileVisibility == models.ProfilePrivate && !isFriend {
		return nil, DenialPrivateProfile
	}
	if isFriend {
		return []models.PostVisibility{models.PostPublic, models.PostFriends}, ""
	}
	return []models.PostVisibility{models.PostPublic}, ""
}
