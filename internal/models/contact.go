package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact belongs to exactly one user. Ownership is set at creation and never
// transferred.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"-"`
	CreatedAt time.Time `json:"created_at"`

	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Birthday       Date   `json:"birthday"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}
