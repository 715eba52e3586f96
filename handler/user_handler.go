package handler

import (
	"encoding/json"
	"finance-tracker-api/common"
	"finance-tracker-api/model"
	"finance-tracker-api/service"
	"net/http"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetMe godoc
// @Summary      Get current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError
// @Router       /api/users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	user, err := h.service.GetProfile(userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not retrieve profile", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
	return nil
}

// UpdateMe godoc
// @Summary      Update current user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user body model.UpdateUserRequest true "Fields to update"
// @Success      200  {object}  model.User
// @Failure      409  {object}  common.AppError "Email already registered"
// @Router       /api/users/me [put]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	var req model.UpdateUserRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.service.UpdateProfile(userID, req)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		case service.ErrEmailTaken:
			return common.NewAppError(http.StatusConflict, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update profile", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
	return nil
}

// DeactivateMe godoc
// @Summary      Deactivate current user account
// @Description  Soft-deactivates the account and revokes all refresh tokens.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /api/users/me [delete]
func (h *UserHandler) DeactivateMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := userIDFromContext(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.service.Deactivate(userID); err != nil {
		switch err {
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not deactivate account", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "User account deactivated successfully"})
	return nil
}
