// Package validation provides input validation for registration and login
// submissions.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidatePassword checks a candidate password against the credential
// strength policy: minimum length, not entirely numeric, and not too similar
// to the chosen username.
func ValidatePassword(password, username string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return fmt.Errorf("password cannot be entirely numeric")
	}

	// Similarity check: containment either way, case-insensitive. Very short
	// usernames are skipped to avoid false positives on common substrings.
	if len(username) >= 4 {
		lp := strings.ToLower(password)
		lu := strings.ToLower(username)
		if strings.Contains(lp, lu) || strings.Contains(lu, lp) {
			return fmt.Errorf("password is too similar to the username")
		}
	}

	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}

	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}

	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}

	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidateTruckFields checks listing field lengths against the schema limits.
// Blank optional fields pass; the required-ness of name/city/cuisine is
// decided by the caller (owner signup allows blanks, direct submission does
// not).
func ValidateTruckFields(name, city, cuisine string) error {
	if len(name) > 100 {
		return fmt.Errorf("truck name must not exceed 100 characters")
	}
	if len(city) > 50 {
		return fmt.Errorf("city must not exceed 50 characters")
	}
	if len(cuisine) > 50 {
		return fmt.Errorf("cuisine must not exceed 50 characters")
	}
	return nil
}
