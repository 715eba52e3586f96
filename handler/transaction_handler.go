package handler

import (
	"encoding/json"
	"finance-tracker-api/common"
	"finance-tracker-api/model"
	"finance-tracker-api/repository"
	"finance-tracker-api/service"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TransactionHandler holds dependencies for transaction endpoints.
type TransactionHandler struct {
	service *service.TransactionService
}

func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

func (h *TransactionHandler) mapError(err error, fallback string) *common.AppError {
	switch err {
	case service.ErrTransactionNotFound, service.ErrCategoryNotFound:
		return common.NewAppError(http.StatusNotFound, err.Error(), nil)
	case service.ErrAmountNotPositive, service.ErrAmountTooLarge, service.ErrAmountPrecision:
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}

// CreateTransaction godoc
// @Summary      Create a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transaction body model.CreateTransactionRequest true "Transaction payload"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Invalid amount"
// @Failure      404  {object}  common.AppError "Category not found"
// @Router       /api/transactions [post]
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	var req model.CreateTransactionRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	transaction, err := h.service.CreateTransaction(userID, req)
	if err != nil {
		return h.mapError(err, "Could not create transaction")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// ListTransactions godoc
// @Summary      List transactions
// @Description  Lists the caller's transactions, newest business date first, with optional filters.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        category_id      query string false "Filter by category"
// @Param        transaction_type query string false "Filter by type" Enums(income, expense, transfer)
// @Param        start_date       query string false "RFC3339 lower bound"
// @Param        end_date         query string false "RFC3339 upper bound"
// @Param        limit            query int    false "Page size"
// @Param        offset           query int    false "Page offset"
// @Success      200  {array}  model.Transaction
// @Router       /api/transactions [get]
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	filter, appErr := parseTransactionFilter(r)
	if appErr != nil {
		return appErr
	}

	transactions, err := h.service.ListTransactions(userID, *filter)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
	return nil
}

func parseTransactionFilter(r *http.Request) (*repository.TransactionFilter, *common.AppError) {
	query := r.URL.Query()
	filter := &repository.TransactionFilter{}

	if v := query.Get("category_id"); v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			return nil, common.NewAppError(http.StatusBadRequest, "Invalid category_id filter", err)
		}
		filter.CategoryID = &categoryID
	}
	if v := query.Get("transaction_type"); v != "" {
		t := model.TransactionType(v)
		switch t {
		case model.TransactionTypeIncome, model.TransactionTypeExpense, model.TransactionTypeTransfer:
			filter.Type = &t
		default:
			return nil, common.NewAppError(http.StatusBadRequest, "Invalid transaction_type filter", nil)
		}
	}
	if v := query.Get("start_date"); v != "" {
		start, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, common.NewAppError(http.StatusBadRequest, "Invalid start_date filter", err)
		}
		filter.StartDate = &start
	}
	if v := query.Get("end_date"); v != "" {
		end, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, common.NewAppError(http.StatusBadRequest, "Invalid end_date filter", err)
		}
		filter.EndDate = &end
	}
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))
	filter.Offset, _ = strconv.Atoi(query.Get("offset"))

	return filter, nil
}

// GetTransaction godoc
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        transactionId path string true "Transaction ID"
// @Success      200  {object}  model.Transaction
// @Failure      404  {object}  common.AppError
// @Router       /api/transactions/{transactionId} [get]
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	transactionID, err := uuid.Parse(r.PathValue("transactionId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	transaction, err := h.service.GetTransaction(userID, transactionID)
	if err != nil {
		return h.mapError(err, "Could not retrieve transaction")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// UpdateTransaction godoc
// @Summary      Update a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transactionId path string true "Transaction ID"
// @Param        transaction body model.UpdateTransactionRequest true "Fields to update"
// @Success      200  {object}  model.Transaction
// @Failure      404  {object}  common.AppError
// @Router       /api/transactions/{transactionId} [put]
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	transactionID, err := uuid.Parse(r.PathValue("transactionId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	var req model.UpdateTransactionRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	transaction, err := h.service.UpdateTransaction(userID, transactionID, req)
	if err != nil {
		return h.mapError(err, "Could not update transaction")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// DeleteTransaction godoc
// @Summary      Delete a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        transactionId path string true "Transaction ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  common.AppError
// @Router       /api/transactions/{transactionId} [delete]
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	transactionID, err := uuid.Parse(r.PathValue("transactionId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	if err := h.service.DeleteTransaction(userID, transactionID); err != nil {
		return h.mapError(err, "Could not delete transaction")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Transaction deleted successfully"})
	return nil
}
