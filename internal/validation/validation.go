// Package validation provides input validation utilities for request fields.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Username checks the 3-30 character, alphanumeric-plus-underscore rule.
func Username(username string) error {
	if len(username) < 3 || len(username) > 30 {
		return fmt.Errorf("username must be between 3 and 30 characters")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}
	return nil
}

// Email checks basic email format.
func Email(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("please provide a valid email")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	return nil
}

// Password checks password length bounds. The plaintext is never logged.
func Password(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}

// HexColor checks a #RRGGBB color code.
func HexColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return fmt.Errorf("color must be a valid hex color code")
	}
	return nil
}

// Required checks a non-empty value.
func Required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

// MaxLen checks a character-count upper bound.
func MaxLen(name, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s cannot be more than %d characters", name, max)
	}
	return nil
}
