// Package validation contains input validators shared by handlers and services.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"kinship/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// ValidateUsername checks length and character set.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return models.NewValidationError("Username must be 3-30 characters of letters, digits or underscore")
	}
	return nil
}

// ValidateEmail performs a minimal structural check.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || len(email) > 255 {
		return models.NewValidationError("A valid email address is required")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return models.NewValidationError("Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return models.NewValidationError("Password must be at most 72 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return models.NewValidationError("Password must contain at least one letter and one digit")
	}
	return nil
}

// ValidatePostContent checks post body length limits.
func ValidatePostContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.NewValidationError("Post content cannot be empty")
	}
	if len(content) > 5000 {
		return models.NewValidationError("Post content exceeds 5000 characters")
	}
	return nil
}

// ValidateCommentContent checks comment body length limits.
func ValidateCommentContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.NewValidationError("Comment content cannot be empty")
	}
	if len(content) > 2000 {
		return models.NewValidationError("Comment content exceeds 2000 characters")
	}
	return nil
}
