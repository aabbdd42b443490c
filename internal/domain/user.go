package domain

import "time"

// User represents a registered account. Username and email are unique
// case-insensitively; the password hash is opaque to everything except
// the password hasher.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
