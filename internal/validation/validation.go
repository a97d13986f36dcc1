package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hugh/workops/internal/apperr"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 4000
	MaxEmailLength       = 320
	MaxPhoneLength       = 50
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > MaxEmailLength {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidPassword checks password strength
func IsValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters."
	}
	if len(password) > 128 {
		return false, "Password must be at most 128 characters."
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter || !hasNumber {
		return false, "Password must contain letters and numbers."
	}

	return true, ""
}

// SanitizeString removes null bytes and control characters other than
// newlines and tabs.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	var result strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// Text normalizes a required text field: sanitized and trimmed, non-empty,
// at most maxLen characters. Values are never truncated.
func Text(field, label, value string, maxLen int) (string, error) {
	v := strings.TrimSpace(SanitizeString(value))
	if v == "" {
		return "", apperr.Validation(field, label+" is required.")
	}
	if utf8.RuneCountInString(v) > maxLen {
		return "", apperr.Validation(field, fmt.Sprintf("%s must be at most %d characters.", label, maxLen))
	}
	return v, nil
}

// OptionalText is Text for nullable fields. Nil or blank input yields nil.
func OptionalText(field, label string, value *string, maxLen int) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(SanitizeString(*value))
	if v == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(v) > maxLen {
		return nil, apperr.Validation(field, fmt.Sprintf("%s must be at most %d characters.", label, maxLen))
	}
	return &v, nil
}

// OptionalEmail is OptionalText plus an email format check.
func OptionalEmail(field string, value *string) (*string, error) {
	v, err := OptionalText(field, "Email", value, MaxEmailLength)
	if err != nil || v == nil {
		return v, err
	}
	if !IsValidEmail(*v) {
		return nil, apperr.Validation(field, "Email is not a valid email address.")
	}
	return v, nil
}
