package repository

import (
	"database/sql"
	"finance-tracker-api/logger"
	"finance-tracker-api/model"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BudgetFilter narrows a budget listing. Nil fields are ignored; ActiveOnly
// keeps budgets whose window contains the current time.
type BudgetFilter struct {
	CategoryID *uuid.UUID
	Period     *string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// IBudgetRepository defines the contract for budget database operations.
// Create and Update run inside a caller-managed transaction so the overlap
// check and the write commit or roll back together.
type IBudgetRepository interface {
	CreateTx(tx *sql.Tx, budget *model.Budget) error
	GetByID(userID, id uuid.UUID) (*model.Budget, error)
	List(userID uuid.UUID, filter BudgetFilter) ([]*model.Budget, error)
	UpdateTx(tx *sql.Tx, budget *model.Budget) error
	Delete(userID, id uuid.UUID) error
	ExistsOverlappingTx(tx *sql.Tx, userID, categoryID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	ExistsByCategoryID(categoryID uuid.UUID) (bool, error)
}

type BudgetRepository struct {
	DB *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{DB: db}
}

const budgetColumns = `id, user_id, category_id, name, amount, period, start_date, end_date, created_at, updated_at`

func (r *BudgetRepository) CreateTx(tx *sql.Tx, budget *model.Budget) error {
	query := `INSERT INTO budgets (user_id, category_id, name, amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, budget.UserID, budget.CategoryID, budget.Name, budget.Amount,
		budget.Period, budget.StartDate, budget.EndDate).
		Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		logger.Log.WithField("user_id", budget.UserID).WithError(err).
			Error("Failed to execute create budget query")
		return err
	}
	return nil
}

func (r *BudgetRepository) GetByID(userID, id uuid.UUID) (*model.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`
	b := &model.Budget{}
	err := r.DB.QueryRow(query, id, userID).Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Name,
		&b.Amount, &b.Period, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BudgetRepository) List(userID uuid.UUID, filter BudgetFilter) ([]*model.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Period != nil {
		args = append(args, *filter.Period)
		query += fmt.Sprintf(" AND period = $%d", len(args))
	}
	if filter.ActiveOnly {
		query += " AND start_date <= NOW() AND end_date >= NOW()"
	}

	query += " ORDER BY start_date DESC"
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).
			Error("Failed to execute list budgets query")
		return nil, err
	}
	defer rows.Close()

	var budgets []*model.Budget
	for rows.Next() {
		var b model.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Name, &b.Amount, &b.Period,
			&b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan budget row")
			return nil, err
		}
		budgets = append(budgets, &b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) UpdateTx(tx *sql.Tx, budget *model.Budget) error {
	query := `UPDATE budgets SET category_id = $1, name = $2, amount = $3, period = $4,
		start_date = $5, end_date = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8 RETURNING updated_at`
	return tx.QueryRow(query, budget.CategoryID, budget.Name, budget.Amount, budget.Period,
		budget.StartDate, budget.EndDate, budget.ID, budget.UserID).Scan(&budget.UpdatedAt)
}

func (r *BudgetRepository) Delete(userID, id uuid.UUID) error {
	result, err := r.DB.Exec(`DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ExistsOverlappingTx reports whether any budget for the same (user, category)
// pair intersects [start, end]. Intervals are inclusive on both ends:
// a.start <= b.end AND a.end >= b.start. The budget being updated, if any,
// is excluded from the scan.
func (r *BudgetRepository) ExistsOverlappingTx(tx *sql.Tx, userID, categoryID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM budgets
		WHERE user_id = $1 AND category_id = $2 AND start_date <= $3 AND end_date >= $4`
	args := []interface{}{userID, categoryID, end, start}

	if excludeID != nil {
		args = append(args, *excludeID)
		query += fmt.Sprintf(" AND id != $%d", len(args))
	}
	query += ")"

	var exists bool
	if err := tx.QueryRow(query, args...).Scan(&exists); err != nil {
		logger.Log.WithField("category_id", categoryID).WithError(err).
			Error("Failed to execute budget overlap query")
		return false, err
	}
	return exists, nil
}

func (r *BudgetRepository) ExistsByCategoryID(categoryID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM budgets WHERE category_id = $1)`
	err := r.DB.QueryRow(query, categoryID).Scan(&exists)
	return exists, err
}
