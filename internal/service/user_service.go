package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"kinship/internal/middleware"
	"kinship/internal/models"
	"kinship/internal/repository"
	"kinship/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 72 * time.Hour

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the payload for authenticating.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileInput is the payload for profile edits. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Bio               *string                   `json:"bio"`
	AvatarURL         *string                   `json:"avatar_url"`
	ProfileVisibility *models.ProfileVisibility `json:"profile_visibility"`
}

// UserService manages accounts and authentication.
type UserService struct {
	users *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates an account and returns it with a signed token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := validation.ValidateUsername(input.Username); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	user := &models.User{
		Username:          input.Username,
		Email:             input.Email,
		Password:          string(hash),
		ProfileVisibility: models.ProfilePublic,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", models.NewConflictError("Username or email already taken")
		}
		return nil, "", models.NewInternalError(err)
	}

	token, err := middleware.GenerateToken(user.ID, tokenTTL)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	middleware.Logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown username and wrong password are indistinguishable to the
// caller.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", models.NewUnauthorizedError("Invalid username or password")
		}
		return nil, "", models.NewInternalError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return nil, "", models.NewUnauthorizedError("Invalid username or password")
	}

	token, err := middleware.GenerateToken(user.ID, tokenTTL)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// GetByUsername fetches a user by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of input to the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		if len(*input.Bio) > 500 {
			return nil, models.NewValidationError("Bio exceeds 500 characters")
		}
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.ProfileVisibility != nil {
		v := *input.ProfileVisibility
		if v != models.ProfilePublic && v != models.ProfilePrivate {
			return nil, models.NewValidationError("Profile visibility must be public or private")
		}
		user.ProfileVisibility = v
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// Search returns users matching the query by username.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query cannot be empty")
	}
	if limit <= 0 || limit > 25 {
		limit = 25
	}
	users, err := s.users.SearchByUsername(ctx, query, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}
