// file: service/budget_service_test.go

package service

import (
	"context"
	"database/sql"
	"finance-tracker-api/model"
	"finance-tracker-api/repository"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockBudgetRepo is a mock implementation of IBudgetRepository.
type mockBudgetRepo struct{ mock.Mock }

func (m *mockBudgetRepo) CreateTx(tx *sql.Tx, budget *model.Budget) error {
	args := m.Called(tx, budget)
	return args.Error(0)
}
func (m *mockBudgetRepo) GetByID(userID, id uuid.UUID) (*model.Budget, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Budget), args.Error(1)
}
func (m *mockBudgetRepo) List(userID uuid.UUID, filter repository.BudgetFilter) ([]*model.Budget, error) {
	args := m.Called(userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Budget), args.Error(1)
}
func (m *mockBudgetRepo) UpdateTx(tx *sql.Tx, budget *model.Budget) error {
	args := m.Called(tx, budget)
	return args.Error(0)
}
func (m *mockBudgetRepo) Delete(userID, id uuid.UUID) error {
	args := m.Called(userID, id)
	return args.Error(0)
}
func (m *mockBudgetRepo) ExistsOverlappingTx(tx *sql.Tx, userID, categoryID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(tx, userID, categoryID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *mockBudgetRepo) ExistsByCategoryID(categoryID uuid.UUID) (bool, error) {
	args := m.Called(categoryID)
	return args.Bool(0), args.Error(1)
}

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestBudgetService_CreateBudget(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	categoryID := uuid.New()
	category := &model.Category{ID: categoryID, UserID: userID, Name: "Groceries"}

	req := model.CreateBudgetRequest{
		Name:       "February groceries",
		Amount:     decimal.RequireFromString("1000.00"),
		Period:     model.BudgetPeriodMonthly,
		StartDate:  date("2024-02-01"),
		EndDate:    date("2024-02-29"),
		CategoryID: categoryID,
	}

	t.Run("success", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockBudgets := new(mockBudgetRepo)
		mockCategories := new(mockCategoryRepo)

		mockCategories.On("GetByID", userID, categoryID).Return(category, nil).Once()
		dbMock.ExpectBegin()
		mockBudgets.On("ExistsOverlappingTx", mock.Anything, userID, categoryID,
			req.StartDate, req.EndDate, (*uuid.UUID)(nil)).Return(false, nil).Once()
		mockBudgets.On("CreateTx", mock.Anything, mock.MatchedBy(func(b *model.Budget) bool {
			return b.UserID == userID && b.Name == "February groceries" &&
				b.Amount.Equal(req.Amount)
		})).Return(nil).Once()
		dbMock.ExpectCommit()

		budgetService := NewBudgetService(db, mockBudgets, mockCategories, nil)
		budget, err := budgetService.CreateBudget(ctx, userID, req)

		assert.NoError(t, err)
		assert.NotNil(t, budget)
		mockBudgets.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("overlapping window is rejected", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockBudgets := new(mockBudgetRepo)
		mockCategories := new(mockCategoryRepo)

		mockCategories.On("GetByID", userID, categoryID).Return(category, nil).Once()
		dbMock.ExpectBegin()
		mockBudgets.On("ExistsOverlappingTx", mock.Anything, userID, categoryID,
			req.StartDate, req.EndDate, (*uuid.UUID)(nil)).Return(true, nil).Once()
		dbMock.ExpectRollback()

		budgetService := NewBudgetService(db, mockBudgets, mockCategories, nil)
		_, err = budgetService.CreateBudget(ctx, userID, req)

		assert.Equal(t, ErrBudgetOverlap, err)
		mockBudgets.AssertNotCalled(t, "CreateTx")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown category", func(t *testing.T) {
		mockBudgets := new(mockBudgetRepo)
		mockCategories := new(mockCategoryRepo)
		mockCategories.On("GetByID", userID, categoryID).Return(nil, sql.ErrNoRows).Once()

		budgetService := NewBudgetService(nil, mockBudgets, mockCategories, nil)
		_, err := budgetService.CreateBudget(ctx, userID, req)

		assert.Equal(t, ErrCategoryNotFound, err)
	})

	t.Run("end date must follow start date", func(t *testing.T) {
		mockBudgets := new(mockBudgetRepo)
		mockCategories := new(mockCategoryRepo)
		mockCategories.On("GetByID", userID, categoryID).Return(category, nil).Once()

		badReq := req
		badReq.EndDate = badReq.StartDate

		budgetService := NewBudgetService(nil, mockBudgets, mockCategories, nil)
		_, err := budgetService.CreateBudget(ctx, userID, badReq)

		assert.Equal(t, ErrInvalidDateRange, err)
		mockBudgets.AssertNotCalled(t, "ExistsOverlappingTx")
	})

	t.Run("non-positive amount", func(t *testing.T) {
		mockBudgets := new(mockBudgetRepo)
		mockCategories := new(mockCategoryRepo)
		mockCategories.On("GetByID", userID, categoryID).Return(category, nil).Once()

		badReq := req
		badReq.Amount = decimal.Zero

		budgetService := NewBudgetService(nil, mockBudgets, mockCategories, nil)
		_, err := budgetService.CreateBudget(ctx, userID, badReq)

		assert.Equal(t, ErrAmountNotPositive, err)
	})
}

func TestBudgetService_UpdateBudget(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	categoryID := uuid.New()
	budgetID := uuid.New()

	existing := func() *model.Budget {
		return &model.Budget{
			ID:         budgetID,
			UserID:     userID,
			CategoryID: categoryID,
			Name:       "February groceries",
			Amount:     decimal.RequireFromString("1000.00"),
			Period:     model.BudgetPeriodMonthly,
			StartDate:  date("2024-02-01"),
			EndDate:    date("2024-02-29"),
		}
	}

	t.Run("renaming skips the overlap check", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockBudgets := new(mockBudgetRepo)
		mockBudgets.On("GetByID", userID, budgetID).Return(existing(), nil).Once()
		dbMock.ExpectBegin()
		mockBudgets.On("UpdateTx", mock.Anything, mock.MatchedBy(func(b *model.Budget) bool {
			return b.Name == "Food"
		})).Return(nil).Once()
		dbMock.ExpectCommit()

		newName := "Food"
		budgetService := NewBudgetService(db, mockBudgets, nil, nil)
		updated, err := budgetService.UpdateBudget(ctx, userID, budgetID, model.UpdateBudgetRequest{Name: &newName})

		assert.NoError(t, err)
		assert.Equal(t, "Food", updated.Name)
		mockBudgets.AssertNotCalled(t, "ExistsOverlappingTx")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("moving the window re-checks overlap excluding itself", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		newStart := date("2024-03-01")
		newEnd := date("2024-03-31")

		mockBudgets := new(mockBudgetRepo)
		mockBudgets.On("GetByID", userID, budgetID).Return(existing(), nil).Once()
		dbMock.ExpectBegin()
		mockBudgets.On("ExistsOverlappingTx", mock.Anything, userID, categoryID,
			newStart, newEnd, mock.MatchedBy(func(id *uuid.UUID) bool {
				return id != nil && *id == budgetID
			})).Return(false, nil).Once()
		mockBudgets.On("UpdateTx", mock.Anything, mock.AnythingOfType("*model.Budget")).Return(nil).Once()
		dbMock.ExpectCommit()

		budgetService := NewBudgetService(db, mockBudgets, nil, nil)
		_, err = budgetService.UpdateBudget(ctx, userID, budgetID, model.UpdateBudgetRequest{
			StartDate: &newStart,
			EndDate:   &newEnd,
		})

		assert.NoError(t, err)
		mockBudgets.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("moving onto another budget is rejected", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		newStart := date("2024-01-15")

		mockBudgets := new(mockBudgetRepo)
		mockBudgets.On("GetByID", userID, budgetID).Return(existing(), nil).Once()
		dbMock.ExpectBegin()
		mockBudgets.On("ExistsOverlappingTx", mock.Anything, userID, categoryID,
			newStart, date("2024-02-29"), mock.Anything).Return(true, nil).Once()
		dbMock.ExpectRollback()

		budgetService := NewBudgetService(db, mockBudgets, nil, nil)
		_, err = budgetService.UpdateBudget(ctx, userID, budgetID, model.UpdateBudgetRequest{
			StartDate: &newStart,
		})

		assert.Equal(t, ErrBudgetOverlap, err)
		mockBudgets.AssertNotCalled(t, "UpdateTx")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("budget not found", func(t *testing.T) {
		mockBudgets := new(mockBudgetRepo)
		mockBudgets.On("GetByID", userID, budgetID).Return(nil, sql.ErrNoRows).Once()

		budgetService := NewBudgetService(nil, mockBudgets, nil, nil)
		_, err := budgetService.UpdateBudget(ctx, userID, budgetID, model.UpdateBudgetRequest{})

		assert.Equal(t, ErrBudgetNotFound, err)
	})
}

func TestBudgetService_GetBudgetProgress(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	budgetID := uuid.New()

	budget := &model.Budget{
		ID:         budgetID,
		UserID:     userID,
		CategoryID: categoryID,
		Name:       "February groceries",
		Amount:     decimal.RequireFromString("1000.00"),
		Period:     model.BudgetPeriodMonthly,
		StartDate:  date("2024-02-01"),
		EndDate:    date("2024-02-29"),
	}

	progressFor := func(t *testing.T, spent string) *model.BudgetProgress {
		t.Helper()
		mockBudgets := new(mockBudgetRepo)
		mockTransactions := new(mockTransactionRepo)
		mockBudgets.On("GetByID", userID, budgetID).Return(budget, nil).Once()
		mockTransactions.On("SumExpenses", userID, categoryID, budget.StartDate, budget.EndDate).
			Return(decimal.RequireFromString(spent), nil).Once()

		budgetService := NewBudgetService(nil, mockBudgets, nil, mockTransactions)
		progress, err := budgetService.GetBudgetProgress(userID, budgetID)
		assert.NoError(t, err)
		return progress
	}

	t.Run("partial spend", func(t *testing.T) {
		progress := progressFor(t, "550.25")

		assert.True(t, progress.SpentAmount.Equal(decimal.RequireFromString("550.25")))
		assert.True(t, progress.RemainingAmount.Equal(decimal.RequireFromString("449.75")))
		assert.True(t, progress.ProgressPercentage.Equal(decimal.RequireFromString("55.03")),
			"percentage was %s", progress.ProgressPercentage)
		assert.False(t, progress.IsOverBudget)
	})

	t.Run("no spend", func(t *testing.T) {
		progress := progressFor(t, "0")

		assert.True(t, progress.SpentAmount.IsZero())
		assert.True(t, progress.RemainingAmount.Equal(budget.Amount))
		assert.True(t, progress.ProgressPercentage.IsZero())
		assert.False(t, progress.IsOverBudget)
	})

	t.Run("over budget", func(t *testing.T) {
		progress := progressFor(t, "1200.50")

		assert.True(t, progress.RemainingAmount.Equal(decimal.RequireFromString("-200.50")))
		assert.True(t, progress.ProgressPercentage.Equal(decimal.RequireFromString("120.05")))
		assert.True(t, progress.IsOverBudget)
	})

	t.Run("spend equal to the limit is not over budget", func(t *testing.T) {
		progress := progressFor(t, "1000.00")

		assert.True(t, progress.RemainingAmount.IsZero())
		assert.True(t, progress.ProgressPercentage.Equal(decimal.RequireFromString("100")))
		assert.False(t, progress.IsOverBudget)
	})

	t.Run("budget not found", func(t *testing.T) {
		mockBudgets := new(mockBudgetRepo)
		mockBudgets.On("GetByID", userID, budgetID).Return(nil, sql.ErrNoRows).Once()

		budgetService := NewBudgetService(nil, mockBudgets, nil, nil)
		_, err := budgetService.GetBudgetProgress(userID, budgetID)

		assert.Equal(t, ErrBudgetNotFound, err)
	})
}

func TestBudgetService_DeleteBudget(t *testing.T) {
	userID := uuid.New()
	budgetID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockBudgets := new(mockBudgetRepo)
		mockBudgets.On("Delete", userID, budgetID).Return(nil).Once()

		budgetService := NewBudgetService(nil, mockBudgets, nil, nil)
		assert.NoError(t, budgetService.DeleteBudget(userID, budgetID))
	})

	t.Run("not found", func(t *testing.T) {
		mockBudgets := new(mockBudgetRepo)
		mockBudgets.On("Delete", userID, budgetID).Return(sql.ErrNoRows).Once()

		budgetService := NewBudgetService(nil, mockBudgets, nil, nil)
		assert.Equal(t, ErrBudgetNotFound, budgetService.DeleteBudget(userID, budgetID))
	})
}
