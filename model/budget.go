package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BudgetPeriodDaily   = "daily"
	BudgetPeriodWeekly  = "weekly"
	BudgetPeriodMonthly = "monthly"
	BudgetPeriodYearly  = "yearly"
)

// Budget periods are descriptive labels; they do not drive auto-renewal.
// For a given (user, category) pair no two budgets may have overlapping
// [StartDate, EndDate] intervals, inclusive on both ends.
type Budget struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Period     string          `json:"period"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BudgetProgress reports spend against a budget's limit over its date window.
// ProgressPercentage is rounded to two decimal places for display; the other
// amounts carry exact values.
type BudgetProgress struct {
	BudgetID           uuid.UUID       `json:"budget_id"`
	BudgetName         string          `json:"budget_name"`
	BudgetAmount       decimal.Decimal `json:"budget_amount"`
	SpentAmount        decimal.Decimal `json:"spent_amount"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
	IsOverBudget       bool            `json:"is_over_budget"`
	Period             string          `json:"period"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
}
