package model

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxNameLength applies to inventory and item names.
const MaxNameLength = 255

// passwordSymbols is the punctuation accepted as a "special character".
const passwordSymbols = "!@#$%^&*()_+-=[]{};:'\",.<>?/\\|`~"

// ValidatePassword checks the password policy and returns all violated
// rules joined into a single error, or nil if the password is strong
// enough. Required: at least 8 characters, an uppercase letter (A-Z), a
// lowercase letter (a-z), a digit (0-9) and a special character. The
// letter and digit classes are ASCII only.
func ValidatePassword(password string) error {
	var problems []string

	if utf8.RuneCountInString(password) < 8 {
		problems = append(problems, "must be at least 8 characters long")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		problems = append(problems, "must contain an uppercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		problems = append(problems, "must contain a lowercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		problems = append(problems, "must contain a digit")
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		problems = append(problems, "must contain a special character")
	}

	if len(problems) > 0 {
		return errors.New("password " + strings.Join(problems, ", "))
	}
	return nil
}

// ValidateName checks that a name is present and within the length limit.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required")
	}
	if len(name) > MaxNameLength {
		return errors.New("name must be at most 255 characters")
	}
	return nil
}
