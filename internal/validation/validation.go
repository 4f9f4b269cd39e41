// Package validation holds field-level rules shared by forms and commands.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	UsernameMaxLen    = 150
	EmailMaxLen       = 254
	SlugMaxLen        = 50
	PasswordMinLength = 8
	PasswordMaxLength = 128
)

var (
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@.]+(\.[^\s@.]+)+$`)
	slugRegex     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwertyui":  {},
	"qwerty123": {},
	"iloveyou":  {},
	"11111111":  {},
	"abc12345":  {},
	"sunshine":  {},
	"princess":  {},
	"football":  {},
	"baseball":  {},
	"welcome1":  {},
	"admin123":  {},
	"letmein1":  {},
}

// ValidateUsername accepts letters, digits and @/./+/-/_ up to 150 characters.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("обязательное поле")
	}
	if utf8.RuneCountInString(username) > UsernameMaxLen {
		return fmt.Errorf("не более %d символов", UsernameMaxLen)
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("имя пользователя может содержать только буквы, цифры и символы @/./+/-/_")
	}
	return nil
}

// ValidateEmail checks the address shape. An empty address is allowed.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > EmailMaxLen {
		return fmt.Errorf("не более %d символов", EmailMaxLen)
	}
	if !emailRegex.MatchString(email) {
		return errors.New("введите правильный адрес электронной почты")
	}
	return nil
}

// ValidatePassword applies the length, numeric-only, common-password and
// username-similarity rules.
func ValidatePassword(password, username string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength {
		return fmt.Errorf("пароль слишком короткий: минимум %d символов", PasswordMinLength)
	}
	if n > PasswordMaxLength {
		return fmt.Errorf("пароль слишком длинный: максимум %d символов", PasswordMaxLength)
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return errors.New("пароль не может состоять только из цифр")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return errors.New("пароль слишком простой")
	}
	if username != "" && strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		return errors.New("пароль слишком похож на имя пользователя")
	}
	return nil
}

// ValidateSlug accepts ASCII letters, digits, hyphens and underscores.
func ValidateSlug(slug string) error {
	if slug == "" {
		return errors.New("slug is required")
	}
	if len(slug) > SlugMaxLen {
		return fmt.Errorf("slug must be at most %d characters", SlugMaxLen)
	}
	if !slugRegex.MatchString(slug) {
		return errors.New("slug may contain only letters, numbers, underscores or hyphens")
	}
	return nil
}
