package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Don't return the hash in JSON
	IsVerified   bool   `json:"is_verified"`

	// RefreshToken is the single currently-valid refresh token for this user.
	// Empty when no session has been issued.
	RefreshToken string `json:"-"`

	AvatarURL string `json:"avatar_url,omitempty"`
}
