package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"finance-tracker-api/model"
	"finance-tracker-api/repository"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category with this name already exists")
	ErrCategoryInUse     = errors.New("cannot delete category with associated transactions or budgets")
)

const (
	defaultCategoryColor = "#3B82F6"
	categoryListLimit    = 100
	categoryCacheTTL     = 10 * time.Minute
)

// CategoryService handles category business logic. Listing uses a cache-aside
// strategy; every write invalidates the owner's cached list.
type CategoryService struct {
	repo            repository.ICategoryRepository
	transactionRepo repository.ITransactionRepository
	budgetRepo      repository.IBudgetRepository
	cache           ICacheClient
}

func NewCategoryService(repo repository.ICategoryRepository, transactionRepo repository.ITransactionRepository, budgetRepo repository.IBudgetRepository, cache ICacheClient) *CategoryService {
	return &CategoryService{
		repo:            repo,
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		cache:           cache,
	}
}

func categoryCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("categories:%s", userID)
}

func (s *CategoryService) invalidateCache(userID uuid.UUID) {
	s.cache.Del(context.Background(), categoryCacheKey(userID))
}

func (s *CategoryService) CreateCategory(userID uuid.UUID, req model.CreateCategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)

	if _, err := s.repo.GetByName(userID, name); err == nil {
		return nil, ErrCategoryNameTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = defaultCategoryColor
	}

	category := &model.Category{
		UserID:      userID,
		Name:        name,
		Description: req.Description,
		Color:       color,
		Icon:        req.Icon,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return category, nil
}

// ListCategories returns the user's categories. The first unpaginated page is
// served cache-aside; other pages go straight to the database.
func (s *CategoryService) ListCategories(userID uuid.UUID, limit, offset int) ([]*model.Category, error) {
	if limit <= 0 {
		limit = categoryListLimit
	}

	cacheable := offset == 0 && limit == categoryListLimit
	ctx := context.Background()
	cacheKey := categoryCacheKey(userID)

	if cacheable {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var categories []*model.Category
			if err := json.Unmarshal([]byte(cached), &categories); err == nil {
				return categories, nil
			}
		}
	}

	categories, err := s.repo.ListByUserID(userID, limit, offset)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if data, err := json.Marshal(categories); err == nil {
			s.cache.Set(ctx, cacheKey, data, categoryCacheTTL)
		}
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(userID, categoryID uuid.UUID) (*model.Category, error) {
	category, err := s.repo.GetByID(userID, categoryID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// UpdateCategory applies the non-nil fields. The duplicate-name check excludes
// the category itself, so saving a category under its current name is allowed.
func (s *CategoryService) UpdateCategory(userID, categoryID uuid.UUID, req model.UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.GetCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		existing, err := s.repo.GetByName(userID, name)
		if err == nil && existing.ID != categoryID {
			return nil, ErrCategoryNameTaken
		} else if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}

	if err := s.repo.Update(category); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	s.invalidateCache(userID)
	return category, nil
}

// DeleteCategory refuses to remove a category still referenced by any
// transaction or budget; references guard deletion, nothing cascades.
func (s *CategoryService) DeleteCategory(userID, categoryID uuid.UUID) error {
	if _, err := s.GetCategory(userID, categoryID); err != nil {
		return err
	}

	hasTransactions, err := s.transactionRepo.ExistsByCategoryID(categoryID)
	if err != nil {
		return err
	}
	hasBudgets, err := s.budgetRepo.ExistsByCategoryID(categoryID)
	if err != nil {
		return err
	}
	if hasTransactions || hasBudgets {
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(userID, categoryID); err != nil {
		if err == sql.ErrNoRows {
			return ErrCategoryNotFound
		}
		return err
	}

	s.invalidateCache(userID)
	return nil
}
