package testutil

import (
	"fmt"
	"testing"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// CreateUser inserts a user with a unique username derived from name.
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	u := &models.User{
		Username:          name,
		Email:             fmt.Sprintf("%s@example.com", name),
		Password:          "hashed-password",
		ProfileVisibility: models.ProfilePublic,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %q: %v", name, err)
	}
	return u
}

// CreatePrivateUser inserts a user whose profile is private.
func CreatePrivateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	u := CreateUser(t, db, name)
	u.ProfileVisibility = models.ProfilePrivate
	if err := db.Model(u).Update("profile_visibility", models.ProfilePrivate).Error; err != nil {
		t.Fatalf("set private profile: %v", err)
	}
	return u
}

// CreatePost inserts a post owned by authorID with the given visibility.
func CreatePost(t *testing.T, db *gorm.DB, authorID uint, visibility models.PostVisibility) *models.Post {
	t.Helper()

	p := &models.Post{
		AuthorID:   authorID,
		Content:    "test post content",
		Visibility: visibility,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// Befriend creates an accepted friendship between the two users.
func Befriend(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()

	f := models.NewFriendship(a, b)
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("create friendship: %v", err)
	}
}
