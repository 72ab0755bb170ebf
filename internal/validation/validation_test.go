package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with underscore", "alice_b99", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 31), true},
		{"spaces", "alice b", true},
		{"special chars", "alice!", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("sup3rsecret"))
	assert.Error(t, ValidatePassword("short1"), "too short")
	assert.Error(t, ValidatePassword("nodigitshere"), "missing digit")
	assert.Error(t, ValidatePassword("12345678"), "missing letter")
	assert.Error(t, ValidatePassword(strings.Repeat("a1", 40)), "too long")
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@b.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("@b.com"))
	assert.Error(t, ValidateEmail("a@"))
}

func TestValidateContentLimits(t *testing.T) {
	assert.Error(t, ValidatePostContent("   "))
	assert.NoError(t, ValidatePostContent("hello"))
	assert.Error(t, ValidatePostContent(strings.Repeat("x", 5001)))

	assert.Error(t, ValidateCommentContent(""))
	assert.NoError(t, ValidateCommentContent("nice post"))
	assert.Error(t, ValidateCommentContent(strings.Repeat("x", 2001)))
}
