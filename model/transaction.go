package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction amounts are exact decimals with at most two fractional digits.
// TransactionDate is the business date and is independent of CreatedAt.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	CategoryID      uuid.UUID       `json:"category_id"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Type            TransactionType `json:"transaction_type"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
