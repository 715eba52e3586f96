package repository

import (
	"database/sql"
	"finance-tracker-api/logger"
	"finance-tracker-api/model"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows a transaction listing. Nil fields are ignored.
type TransactionFilter struct {
	CategoryID *uuid.UUID
	Type       *model.TransactionType
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// ITransactionRepository defines the contract for transaction database operations.
type ITransactionRepository interface {
	Create(transaction *model.Transaction) error
	GetByID(userID, id uuid.UUID) (*model.Transaction, error)
	List(userID uuid.UUID, filter TransactionFilter) ([]*model.Transaction, error)
	Update(transaction *model.Transaction) error
	Delete(userID, id uuid.UUID) error
	SumExpenses(userID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
	ExistsByCategoryID(categoryID uuid.UUID) (bool, error)
}

type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

const transactionColumns = `id, user_id, category_id, amount, description, transaction_type, transaction_date, created_at, updated_at`

func (r *TransactionRepository) Create(transaction *model.Transaction) error {
	query := `INSERT INTO transactions (user_id, category_id, amount, description, transaction_type, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, transaction.UserID, transaction.CategoryID, transaction.Amount,
		transaction.Description, transaction.Type, transaction.TransactionDate).
		Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		logger.Log.WithField("user_id", transaction.UserID).WithError(err).
			Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

func (r *TransactionRepository) GetByID(userID, id uuid.UUID) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	t := &model.Transaction{}
	err := r.DB.QueryRow(query, id, userID).Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount,
		&t.Description, &t.Type, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) List(userID uuid.UUID, filter TransactionFilter) ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND transaction_type = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}

	query += " ORDER BY transaction_date DESC"
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).
			Error("Failed to execute list transactions query")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Description,
			&t.Type, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) Update(transaction *model.Transaction) error {
	query := `UPDATE transactions SET category_id = $1, amount = $2, description = $3,
		transaction_type = $4, transaction_date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7 RETURNING updated_at`
	return r.DB.QueryRow(query, transaction.CategoryID, transaction.Amount, transaction.Description,
		transaction.Type, transaction.TransactionDate, transaction.ID, transaction.UserID).
		Scan(&transaction.UpdatedAt)
}

func (r *TransactionRepository) Delete(userID, id uuid.UUID) error {
	result, err := r.DB.Exec(`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
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

// SumExpenses totals expense transactions for a category inside an inclusive
// date window. An empty window sums to exactly zero via COALESCE.
func (r *TransactionRepository) SumExpenses(userID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND transaction_type = $3
		AND transaction_date >= $4 AND transaction_date <= $5`

	var spent decimal.Decimal
	err := r.DB.QueryRow(query, userID, categoryID, model.TransactionTypeExpense, start, end).Scan(&spent)
	if err != nil {
		logger.Log.WithField("category_id", categoryID).WithError(err).
			Error("Failed to execute sum expenses query")
		return decimal.Zero, err
	}
	return spent, nil
}

func (r *TransactionRepository) ExistsByCategoryID(categoryID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE category_id = $1)`
	err := r.DB.QueryRow(query, categoryID).Scan(&exists)
	return exists, err
}
