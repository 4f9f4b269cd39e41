package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		username string
		wantErr  bool
	}{
		{"Valid", "Secure-pass-42", "leo", false},
		{"Exactly Min Length", "abcdefg1", "", false},
		{"Too Short", "abc1", "", true},
		{"Too Long", strings.Repeat("a", 129), "", true},
		{"Entirely Numeric", "1234509876", "", true},
		{"Common", "Password1", "", true},
		{"Contains Username", "leo-the-lion", "leo", true},
		{"Unicode Characters", "Пароль-надёжный", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Allowed Punctuation", "a.b+c-d@e", false},
		{"Cyrillic", "Лев", false},
		{"Empty", "", true},
		{"Space", "user name", true},
		{"Illegal Chars", "user#123", true},
		{"Too Long", strings.Repeat("u", 151), true},
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

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "test@example.com", false},
		{"Empty Allowed", "", false},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Space In Local Part", "user @example.com", true},
		{"Trailing Dot In Domain", "user@example.com.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateSlug("test-slug_1"))
	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("with space"))
	assert.Error(t, ValidateSlug("кириллица"))
	assert.Error(t, ValidateSlug(strings.Repeat("s", 51)))
}
