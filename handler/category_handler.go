package handler

import (
	"encoding/json"
	"finance-tracker-api/common"
	"finance-tracker-api/model"
	"finance-tracker-api/service"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type CategoryHandler struct {
	service *service.CategoryService
}

func NewCategoryHandler(s *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: s}
}

func (h *CategoryHandler) mapError(err error, fallback string) *common.AppError {
	switch err {
	case service.ErrCategoryNotFound:
		return common.NewAppError(http.StatusNotFound, err.Error(), nil)
	case service.ErrCategoryNameTaken, service.ErrCategoryInUse:
		return common.NewAppError(http.StatusConflict, err.Error(), nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        category body model.CreateCategoryRequest true "Category payload"
// @Success      201  {object}  model.Category
// @Failure      409  {object}  common.AppError "Duplicate name"
// @Router       /api/categories [post]
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	var req model.CreateCategoryRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	category, err := h.service.CreateCategory(userID, req)
	if err != nil {
		return h.mapError(err, "Could not create category")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(category)
	return nil
}

// ListCategories godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Page offset"
// @Success      200  {array}  model.Category
// @Router       /api/categories [get]
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	categories, err := h.service.ListCategories(userID, limit, offset)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve categories", err)
	}
	if categories == nil {
		categories = []*model.Category{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(categories)
	return nil
}

// GetCategory godoc
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId path string true "Category ID"
// @Success      200  {object}  model.Category
// @Failure      404  {object}  common.AppError
// @Router       /api/categories/{categoryId} [get]
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	categoryID, err := uuid.Parse(r.PathValue("categoryId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid category ID in URL path", err)
	}

	category, err := h.service.GetCategory(userID, categoryID)
	if err != nil {
		return h.mapError(err, "Could not retrieve category")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(category)
	return nil
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId path string true "Category ID"
// @Param        category body model.UpdateCategoryRequest true "Fields to update"
// @Success      200  {object}  model.Category
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Duplicate name"
// @Router       /api/categories/{categoryId} [put]
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	categoryID, err := uuid.Parse(r.PathValue("categoryId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid category ID in URL path", err)
	}

	var req model.UpdateCategoryRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	category, err := h.service.UpdateCategory(userID, categoryID, req)
	if err != nil {
		return h.mapError(err, "Could not update category")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(category)
	return nil
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Description  Fails while the category is referenced by any transaction or budget.
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId path string true "Category ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Category in use"
// @Router       /api/categories/{categoryId} [delete]
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	categoryID, err := uuid.Parse(r.PathValue("categoryId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid category ID in URL path", err)
	}

	if err := h.service.DeleteCategory(userID, categoryID); err != nil {
		return h.mapError(err, "Could not delete category")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Category deleted successfully"})
	return nil
}
