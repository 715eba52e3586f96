package service

import (
	"database/sql"
	"errors"
	"finance-tracker-api/model"
	"finance-tracker-api/repository"
	"strings"

	"github.com/google/uuid"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const transactionListLimit = 100

// TransactionService handles transaction business logic.
type TransactionService struct {
	repo         repository.ITransactionRepository
	categoryRepo repository.ICategoryRepository
}

func NewTransactionService(repo repository.ITransactionRepository, categoryRepo repository.ICategoryRepository) *TransactionService {
	return &TransactionService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// verifyCategory checks the category exists and belongs to the caller; a
// foreign category is reported as not found.
func (s *TransactionService) verifyCategory(userID, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(userID, categoryID); err != nil {
		if err == sql.ErrNoRows {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *TransactionService) CreateTransaction(userID uuid.UUID, req model.CreateTransactionRequest) (*model.Transaction, error) {
	if err := s.verifyCategory(userID, req.CategoryID); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	transaction := &model.Transaction{
		UserID:          userID,
		CategoryID:      req.CategoryID,
		Amount:          req.Amount,
		Description:     strings.TrimSpace(req.Description),
		Type:            req.Type,
		TransactionDate: req.TransactionDate,
	}
	if err := s.repo.Create(transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *TransactionService) ListTransactions(userID uuid.UUID, filter repository.TransactionFilter) ([]*model.Transaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = transactionListLimit
	}
	return s.repo.List(userID, filter)
}

func (s *TransactionService) GetTransaction(userID, transactionID uuid.UUID) (*model.Transaction, error) {
	transaction, err := s.repo.GetByID(userID, transactionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

func (s *TransactionService) UpdateTransaction(userID, transactionID uuid.UUID, req model.UpdateTransactionRequest) (*model.Transaction, error) {
	transaction, err := s.GetTransaction(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := s.verifyCategory(userID, *req.CategoryID); err != nil {
			return nil, err
		}
		transaction.CategoryID = *req.CategoryID
	}
	if req.Amount != nil {
		if err := validateAmount(*req.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *req.Amount
	}
	if req.Description != nil {
		transaction.Description = strings.TrimSpace(*req.Description)
	}
	if req.Type != nil {
		transaction.Type = *req.Type
	}
	if req.TransactionDate != nil {
		transaction.TransactionDate = *req.TransactionDate
	}

	if err := s.repo.Update(transaction); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

func (s *TransactionService) DeleteTransaction(userID, transactionID uuid.UUID) error {
	if err := s.repo.Delete(userID, transactionID); err != nil {
		if err == sql.ErrNoRows {
			return ErrTransactionNotFound
		}
		return err
	}
	return nil
}
