package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a plain record; ownership of tokens, categories, transactions and
// budgets is expressed through user_id columns on those tables, never through
// object references.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Password   string    `json:"-"` // bcrypt hash, never serialized
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
