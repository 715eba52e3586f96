package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries the refresh token for rotation and logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateUserRequest defines the payload for profile updates. Nil fields are
// left untouched.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon" validate:"max=50"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon" validate:"omitempty,max=50"`
}

// Amounts are validated in the service layer where exact decimal rules
// (positive, at most two fractional digits, upper bound) apply.
type CreateTransactionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description" validate:"required,min=1,max=500"`
	Type            TransactionType `json:"transaction_type" validate:"required,oneof=income expense transfer"`
	TransactionDate time.Time       `json:"transaction_date" validate:"required"`
	CategoryID      uuid.UUID       `json:"category_id" validate:"required"`
}

type UpdateTransactionRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description" validate:"omitempty,min=1,max=500"`
	Type            *TransactionType `json:"transaction_type" validate:"omitempty,oneof=income expense transfer"`
	TransactionDate *time.Time       `json:"transaction_date"`
	CategoryID      *uuid.UUID       `json:"category_id"`
}

type CreateBudgetRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=100"`
	Amount     decimal.Decimal `json:"amount"`
	Period     string          `json:"period" validate:"required,oneof=daily weekly monthly yearly"`
	StartDate  time.Time       `json:"start_date" validate:"required"`
	EndDate    time.Time       `json:"end_date" validate:"required"`
	CategoryID uuid.UUID       `json:"category_id" validate:"required"`
}

type UpdateBudgetRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Amount     *decimal.Decimal `json:"amount"`
	Period     *string          `json:"period" validate:"omitempty,oneof=daily weekly monthly yearly"`
	StartDate  *time.Time       `json:"start_date"`
	EndDate    *time.Time       `json:"end_date"`
	CategoryID *uuid.UUID       `json:"category_id"`
}
