package domain

import "time"

// Admin is a dashboard account that owns stores.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	// TokenVersion is embedded in every issued token; bumping it revokes them all.
	TokenVersion int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
