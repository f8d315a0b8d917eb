package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for entity and account fields.
const (
	maxNameLen        = 300
	maxSlugLen        = 300
	maxDescriptionLen = 100_000
	maxUsernameLen    = 100
	minPasswordLen    = 8
)

// validateName checks a required entity name and returns the first error found.
func validateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 300 characters)."
	}
	return ""
}

// validateSlug checks an optional explicit slug override.
func validateSlug(slug string) string {
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	return ""
}

// validateDescription checks an optional markdown description.
func validateDescription(desc string) string {
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return "Description is too long (max 100,000 characters)."
	}
	return ""
}

// validateAccount checks registration inputs and returns the first error found.
func validateAccount(username, email, password string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 100 characters)."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "A valid email address is required."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	return ""
}
