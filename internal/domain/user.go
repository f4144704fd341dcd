package domain

import (
	"strings"
	"time"
)

// User represents an account owning exactly one progress document.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // empty for accounts created through Google sign-in
	GoogleID     string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can log in with a local password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// NormalizeEmail lowercases and trims an email address; emails are unique case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
