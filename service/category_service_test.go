// file: service/category_service_test.go

package service

import (
	"context"
	"database/sql"
	"finance-tracker-api/model"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockCategoryRepo is a mock implementation of ICategoryRepository.
type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) Create(category *model.Category) error {
	args := m.Called(category)
	return args.Error(0)
}
func (m *mockCategoryRepo) GetByID(userID, id uuid.UUID) (*model.Category, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}
func (m *mockCategoryRepo) GetByName(userID uuid.UUID, name string) (*model.Category, error) {
	args := m.Called(userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}
func (m *mockCategoryRepo) ListByUserID(userID uuid.UUID, limit, offset int) ([]*model.Category, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}
func (m *mockCategoryRepo) Update(category *model.Category) error {
	args := m.Called(category)
	return args.Error(0)
}
func (m *mockCategoryRepo) Delete(userID, id uuid.UUID) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

// fakeCache is an in-memory stand-in for the redis client.
type fakeCache struct {
	store map[string]string
	sets  int
	dels  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]string{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if value, ok := f.store[key]; ok {
		return redis.NewStringResult(value, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.store[key] = string(value.([]byte))
	f.sets++
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.store, key)
	}
	f.dels++
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestCategoryService_CreateCategory(t *testing.T) {
	userID := uuid.New()

	t.Run("success applies the default color and invalidates the cache", func(t *testing.T) {
		mockCategories := new(mockCategoryRepo)
		cache := newFakeCache()
		cache.store[categoryCacheKey(userID)] = "[]"

		mockCategories.On("GetByName", userID, "Groceries").Return(nil, sql.ErrNoRows).Once()
		mockCategories.On("Create", mock.MatchedBy(func(c *model.Category) bool {
			return c.UserID == userID && c.Name == "Groceries" && c.Color == defaultCategoryColor
		})).Return(nil).Once()

		categoryService := NewCategoryService(mockCategories, nil, nil, cache)
		category, err := categoryService.CreateCategory(userID, model.CreateCategoryRequest{Name: "  Groceries  "})

		assert.NoError(t, err)
		assert.Equal(t, "Groceries", category.Name)
		assert.NotContains(t, cache.store, categoryCacheKey(userID))
		mockCategories.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mockCategories := new(mockCategoryRepo)
		mockCategories.On("GetByName", userID, "Groceries").
			Return(&model.Category{ID: uuid.New()}, nil).Once()

		categoryService := NewCategoryService(mockCategories, nil, nil, newFakeCache())
		_, err := categoryService.CreateCategory(userID, model.CreateCategoryRequest{Name: "Groceries"})

		assert.Equal(t, ErrCategoryNameTaken, err)
		mockCategories.AssertNotCalled(t, "Create")
	})
}

func TestCategoryService_ListCategories(t *testing.T) {
	userID := uuid.New()
	categories := []*model.Category{
		{ID: uuid.New(), UserID: userID, Name: "Groceries"},
		{ID: uuid.New(), UserID: userID, Name: "Rent"},
	}

	t.Run("second default-page read is served from cache", func(t *testing.T) {
		mockCategories := new(mockCategoryRepo)
		cache := newFakeCache()
		mockCategories.On("ListByUserID", userID, categoryListLimit, 0).Return(categories, nil).Once()

		categoryService := NewCategoryService(mockCategories, nil, nil, cache)

		first, err := categoryService.ListCategories(userID, 0, 0)
		assert.NoError(t, err)
		assert.Len(t, first, 2)
		assert.Equal(t, 1, cache.sets)

		second, err := categoryService.ListCategories(userID, 0, 0)
		assert.NoError(t, err)
		assert.Len(t, second, 2)
		assert.Equal(t, "Groceries", second[0].Name)

		// The .Once() on ListByUserID proves the repo was not hit again.
		mockCategories.AssertExpectations(t)
	})

	t.Run("paginated reads bypass the cache", func(t *testing.T) {
		mockCategories := new(mockCategoryRepo)
		cache := newFakeCache()
		mockCategories.On("ListByUserID", userID, 10, 20).Return(categories, nil).Once()

		categoryService := NewCategoryService(mockCategories, nil, nil, cache)
		_, err := categoryService.ListCategories(userID, 10, 20)

		assert.NoError(t, err)
		assert.Equal(t, 0, cache.sets)
	})
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	category := &model.Category{ID: categoryID, UserID: userID, Name: "Groceries", Color: "#3B82F6"}

	t.Run("saving under the current name is allowed", func(t *testing.T) {
		mockCategories := new(mockCategoryRepo)
		mockCategories.On("GetByID", userID, categoryID).Return(category, nil).Once()
		mockCategories.On("GetByName", userID, "Groceries").Return(category, nil).Once()
		mockCategories.On("Update", mock.AnythingOfType("*model.Category")).Return(nil).Once()

		name := "Groceries"
		categoryService := NewCategoryService(mockCategories, nil, nil, newFakeCache())
		updated, err := categoryService.UpdateCategory(userID, categoryID, model.UpdateCategoryRequest{Name: &name})

		assert.NoError(t, err)
		assert.Equal(t, "Groceries", updated.Name)
		mockCategories.AssertExpectations(t)
	})

	t.Run("renaming onto another category is rejected", func(t *testing.T) {
		other := &model.Category{ID: uuid.New(), UserID: userID, Name: "Rent"}
		mockCategories := new(mockCategoryRepo)
		mockCategories.On("GetByID", userID, categoryID).Return(category, nil).Once()
		mockCategories.On("GetByName", userID, "Rent").Return(other, nil).Once()

		name := "Rent"
		categoryService := NewCategoryService(mockCategories, nil, nil, newFakeCache())
		_, err := categoryService.UpdateCategory(userID, categoryID, model.UpdateCategoryRequest{Name: &name})

		assert.Equal(t, ErrCategoryNameTaken, err)
		mockCategories.AssertNotCalled(t, "Update")
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	category := &model.Category{ID: categoryID, UserID: userID, Name: "Groceries"}

	t.Run("success", func(t *testing.T) {
		mockCategories := new(mockCategoryRepo)
		mockTransactions := new(mockTransactionRepo)
		mockBudgets := new(mockBudgetRepo)

		mockCategories.On("GetByID", userID, categoryID).Return(category, nil).Once()
		mockTransactions.On("ExistsByCategoryID", categoryID).Return(false, nil).Once()
		mockBudgets.On("ExistsByCategoryID", categoryID).Return(false, nil).Once()
		mockCategories.On("Delete", userID, categoryID).Return(nil).Once()

		categoryService := NewCategoryService(mockCategories, mockTransactions, mockBudgets, newFakeCache())
		assert.NoError(t, categoryService.DeleteCategory(userID, categoryID))
		mockCategories.AssertExpectations(t)
	})

	t.Run("category referenced by a transaction", func(t *testing.T) {
		mockCategories := new(mockCategoryRepo)
		mockTransactions := new(mockTransactionRepo)
		mockBudgets := new(mockBudgetRepo)

		mockCategories.On("GetByID", userID, categoryID).Return(category, nil).Once()
		mockTransactions.On("ExistsByCategoryID", categoryID).Return(true, nil).Once()
		mockBudgets.On("ExistsByCategoryID", categoryID).Return(false, nil).Once()

		categoryService := NewCategoryService(mockCategories, mockTransactions, mockBudgets, newFakeCache())
		err := categoryService.DeleteCategory(userID, categoryID)

		assert.Equal(t, ErrCategoryInUse, err)
		mockCategories.AssertNotCalled(t, "Delete")
	})

	t.Run("category referenced by a budget", func(t *testing.T) {
		mockCategories := new(mockCategoryRepo)
		mockTransactions := new(mockTransactionRepo)
		mockBudgets := new(mockBudgetRepo)

		mockCategories.On("GetByID", userID, categoryID).Return(category, nil).Once()
		mockTransactions.On("ExistsByCategoryID", categoryID).Return(false, nil).Once()
		mockBudgets.On("ExistsByCategoryID", categoryID).Return(true, nil).Once()

		categoryService := NewCategoryService(mockCategories, mockTransactions, mockBudgets, newFakeCache())
		err := categoryService.DeleteCategory(userID, categoryID)

		assert.Equal(t, ErrCategoryInUse, err)
		mockCategories.AssertNotCalled(t, "Delete")
	})

	t.Run("not found", func(t *testing.T) {
		mockCategories := new(mockCategoryRepo)
		mockCategories.On("GetByID", userID, categoryID).Return(nil, sql.ErrNoRows).Once()

		categoryService := NewCategoryService(mockCategories, nil, nil, newFakeCache())
		assert.Equal(t, ErrCategoryNotFound, categoryService.DeleteCategory(userID, categoryID))
	})
}
