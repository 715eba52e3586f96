package handler

import (
	"encoding/json"
	"finance-tracker-api/common"
	"finance-tracker-api/model"
	"finance-tracker-api/repository"
	"finance-tracker-api/service"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// BudgetHandler holds dependencies for budget endpoints.
type BudgetHandler struct {
	service *service.BudgetService
}

func NewBudgetHandler(s *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{service: s}
}

func (h *BudgetHandler) mapError(err error, fallback string) *common.AppError {
	switch err {
	case service.ErrBudgetNotFound, service.ErrCategoryNotFound:
		return common.NewAppError(http.StatusNotFound, err.Error(), nil)
	case service.ErrBudgetOverlap:
		return common.NewAppError(http.StatusConflict, err.Error(), nil)
	case service.ErrInvalidDateRange, service.ErrAmountNotPositive, service.ErrAmountTooLarge, service.ErrAmountPrecision:
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}

// CreateBudget godoc
// @Summary      Create a budget
// @Description  Budgets for one category must not overlap in time; interval ends are inclusive.
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        budget body model.CreateBudgetRequest true "Budget payload"
// @Success      201  {object}  model.Budget
// @Failure      400  {object}  common.AppError "Invalid amount or date range"
// @Failure      404  {object}  common.AppError "Category not found"
// @Failure      409  {object}  common.AppError "Overlapping budget"
// @Router       /api/budgets [post]
func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	var req model.CreateBudgetRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	budget, err := h.service.CreateBudget(r.Context(), userID, req)
	if err != nil {
		return h.mapError(err, "Could not create budget")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(budget)
	return nil
}

// ListBudgets godoc
// @Summary      List budgets
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        category_id query string false "Filter by category"
// @Param        period      query string false "Filter by period" Enums(daily, weekly, monthly, yearly)
// @Param        active_only query bool   false "Only budgets whose window contains now"
// @Param        limit       query int    false "Page size"
// @Param        offset      query int    false "Page offset"
// @Success      200  {array}  model.Budget
// @Router       /api/budgets [get]
func (h *BudgetHandler) ListBudgets(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	query := r.URL.Query()
	filter := repository.BudgetFilter{}

	if v := query.Get("category_id"); v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			return common.NewAppError(http.StatusBadRequest, "Invalid category_id filter", err)
		}
		filter.CategoryID = &categoryID
	}
	if v := query.Get("period"); v != "" {
		switch v {
		case model.BudgetPeriodDaily, model.BudgetPeriodWeekly, model.BudgetPeriodMonthly, model.BudgetPeriodYearly:
			filter.Period = &v
		default:
			return common.NewAppError(http.StatusBadRequest, "Invalid period filter", nil)
		}
	}
	filter.ActiveOnly = query.Get("active_only") == "true"
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))
	filter.Offset, _ = strconv.Atoi(query.Get("offset"))

	budgets, err := h.service.ListBudgets(userID, filter)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve budgets", err)
	}
	if budgets == nil {
		budgets = []*model.Budget{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(budgets)
	return nil
}

// GetBudget godoc
// @Summary      Get a budget
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        budgetId path string true "Budget ID"
// @Success      200  {object}  model.Budget
// @Failure      404  {object}  common.AppError
// @Router       /api/budgets/{budgetId} [get]
func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	budgetID, err := uuid.Parse(r.PathValue("budgetId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid budget ID in URL path", err)
	}

	budget, err := h.service.GetBudget(userID, budgetID)
	if err != nil {
		return h.mapError(err, "Could not retrieve budget")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(budget)
	return nil
}

// GetBudgetProgress godoc
// @Summary      Get budget progress
// @Description  Reports expense spend against the budget limit over its date window.
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        budgetId path string true "Budget ID"
// @Success      200  {object}  model.BudgetProgress
// @Failure      404  {object}  common.AppError
// @Router       /api/budgets/{budgetId}/progress [get]
func (h *BudgetHandler) GetBudgetProgress(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	budgetID, err := uuid.Parse(r.PathValue("budgetId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid budget ID in URL path", err)
	}

	progress, err := h.service.GetBudgetProgress(userID, budgetID)
	if err != nil {
		return h.mapError(err, "Could not compute budget progress")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(progress)
	return nil
}

// UpdateBudget godoc
// @Summary      Update a budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        budgetId path string true "Budget ID"
// @Param        budget body model.UpdateBudgetRequest true "Fields to update"
// @Success      200  {object}  model.Budget
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Overlapping budget"
// @Router       /api/budgets/{budgetId} [put]
func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	budgetID, err := uuid.Parse(r.PathValue("budgetId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid budget ID in URL path", err)
	}

	var req model.UpdateBudgetRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	budget, err := h.service.UpdateBudget(r.Context(), userID, budgetID, req)
	if err != nil {
		return h.mapError(err, "Could not update budget")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(budget)
	return nil
}

// DeleteBudget godoc
// @Summary      Delete a budget
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        budgetId path string true "Budget ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  common.AppError
// @Router       /api/budgets/{budgetId} [delete]
func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	budgetID, err := uuid.Parse(r.PathValue("budgetId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid budget ID in URL path", err)
	}

	if err := h.service.DeleteBudget(userID, budgetID); err != nil {
		return h.mapError(err, "Could not delete budget")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Budget deleted successfully"})
	return nil
}
