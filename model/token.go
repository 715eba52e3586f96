package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken holds the data for a refresh token in the database.
// A token is usable iff it is not revoked and has not expired; Revoked only
// ever moves from false to true.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"-"` // opaque random value, not exposed in JSON responses
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
