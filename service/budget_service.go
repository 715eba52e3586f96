package service

import (
	"context"
	"database/sql"
	"errors"
	"finance-tracker-api/logger"
	"finance-tracker-api/model"
	"finance-tracker-api/repository"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrBudgetNotFound   = errors.New("budget not found")
	ErrBudgetOverlap    = errors.New("a budget already exists for this category in the specified time period")
	ErrInvalidDateRange = errors.New("end date must be after start date")
)

const budgetListLimit = 100

var oneHundred = decimal.NewFromInt(100)

// BudgetService handles budget business logic: overlap-validated writes and
// decimal-exact progress computation.
type BudgetService struct {
	db              *sql.DB
	repo            repository.IBudgetRepository
	categoryRepo    repository.ICategoryRepository
	transactionRepo repository.ITransactionRepository
}

func NewBudgetService(db *sql.DB, repo repository.IBudgetRepository, categoryRepo repository.ICategoryRepository, transactionRepo repository.ITransactionRepository) *BudgetService {
	return &BudgetService{
		db:              db,
		repo:            repo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *BudgetService) verifyCategory(userID, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(userID, categoryID); err != nil {
		if err == sql.ErrNoRows {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// CreateBudget validates the payload and inserts the budget in the same
// transaction as the overlap check, so two concurrent creates for the same
// (user, category) window cannot both pass validation and commit.
func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, req model.CreateBudgetRequest) (*model.Budget, error) {
	if err := s.verifyCategory(userID, req.CategoryID); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id":     userID,
		"category_id": req.CategoryID,
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	overlaps, err := s.repo.ExistsOverlappingTx(tx, userID, req.CategoryID, req.StartDate, req.EndDate, nil)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, ErrBudgetOverlap
	}

	budget := &model.Budget{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Name:       strings.TrimSpace(req.Name),
		Amount:     req.Amount,
		Period:     req.Period,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if err := s.repo.CreateTx(tx, budget); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	log.Info("Budget created")
	return budget, nil
}

func (s *BudgetService) ListBudgets(userID uuid.UUID, filter repository.BudgetFilter) ([]*model.Budget, error) {
	if filter.Limit <= 0 {
		filter.Limit = budgetListLimit
	}
	return s.repo.List(userID, filter)
}

func (s *BudgetService) GetBudget(userID, budgetID uuid.UUID) (*model.Budget, error) {
	budget, err := s.repo.GetByID(userID, budgetID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// UpdateBudget applies the non-nil fields. The overlap check re-runs whenever
// the dates or the category change, excluding the budget being updated.
func (s *BudgetService) UpdateBudget(ctx context.Context, userID, budgetID uuid.UUID, req model.UpdateBudgetRequest) (*model.Budget, error) {
	budget, err := s.GetBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	rangeChanged := false
	if req.CategoryID != nil && *req.CategoryID != budget.CategoryID {
		if err := s.verifyCategory(userID, *req.CategoryID); err != nil {
			return nil, err
		}
		budget.CategoryID = *req.CategoryID
		rangeChanged = true
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
		rangeChanged = true
	}
	if req.EndDate != nil {
		budget.EndDate = *req.EndDate
		rangeChanged = true
	}
	if req.Name != nil {
		budget.Name = strings.TrimSpace(*req.Name)
	}
	if req.Period != nil {
		budget.Period = *req.Period
	}
	if req.Amount != nil {
		if err := validateAmount(*req.Amount); err != nil {
			return nil, err
		}
		budget.Amount = *req.Amount
	}
	if !budget.EndDate.After(budget.StartDate) {
		return nil, ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if rangeChanged {
		overlaps, err := s.repo.ExistsOverlappingTx(tx, userID, budget.CategoryID,
			budget.StartDate, budget.EndDate, &budgetID)
		if err != nil {
			return nil, err
		}
		if overlaps {
			return nil, ErrBudgetOverlap
		}
	}

	if err := s.repo.UpdateTx(tx, budget); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}
	return budget, nil
}

func (s *BudgetService) DeleteBudget(userID, budgetID uuid.UUID) error {
	if err := s.repo.Delete(userID, budgetID); err != nil {
		if err == sql.ErrNoRows {
			return ErrBudgetNotFound
		}
		return err
	}
	return nil
}

// GetBudgetProgress aggregates expense transactions over the budget window.
// All arithmetic stays in decimals; the percentage is rounded to two places
// for the response only and is 0 when the budget amount is not positive.
func (s *BudgetService) GetBudgetProgress(userID, budgetID uuid.UUID) (*model.BudgetProgress, error) {
	budget, err := s.GetBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	spent, err := s.transactionRepo.SumExpenses(userID, budget.CategoryID, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, err
	}

	remaining := budget.Amount.Sub(spent)
	percentage := decimal.Zero
	if budget.Amount.IsPositive() {
		percentage = spent.Mul(oneHundred).Div(budget.Amount).Round(2)
	}

	return &model.BudgetProgress{
		BudgetID:           budget.ID,
		BudgetName:         budget.Name,
		BudgetAmount:       budget.Amount,
		SpentAmount:        spent,
		RemainingAmount:    remaining,
		ProgressPercentage: percentage,
		IsOverBudget:       spent.GreaterThan(budget.Amount),
		Period:             budget.Period,
		StartDate:          budget.StartDate,
		EndDate:            budget.EndDate,
	}, nil
}
