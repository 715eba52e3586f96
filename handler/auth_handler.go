package handler

import (
	"encoding/json"
	"finance-tracker-api/common"
	"finance-tracker-api/model"
	"finance-tracker-api/service"
	"net/http"
)

// AuthHandler holds dependencies for authentication endpoints.
type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user account. Emails are case-normalized and must be unique.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  model.User
// @Failure      400  {string}  string "Invalid request body"
// @Failure      409  {object}  common.AppError "Email already registered"
// @Failure      500  {object}  common.AppError
// @Router       /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.service.Register(req)
	if err != nil {
		switch err {
		case service.ErrEmailTaken:
			return common.NewAppError(http.StatusConflict, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not register user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials and returns an access/refresh token pair. All failures share one generic message.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Login payload"
// @Success      200  {object}  service.TokenPair
// @Failure      401  {object}  common.AppError "Incorrect email or password"
// @Failure      500  {object}  common.AppError
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	tokens, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			return common.NewAppError(http.StatusUnauthorized, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not process login", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tokens)
	return nil
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  Consumes the presented refresh token and returns a new token pair. A refresh token is usable exactly once.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token body model.RefreshRequest true "Refresh payload"
// @Success      200  {object}  service.TokenPair
// @Failure      401  {object}  common.AppError "Invalid refresh token"
// @Failure      500  {object}  common.AppError
// @Router       /api/token/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case service.ErrInvalidRefreshToken:
			return common.NewAppError(http.StatusUnauthorized, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not refresh token", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tokens)
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented refresh token. Idempotent; the access token expires on its own.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        token body model.RefreshRequest true "Refresh token to revoke"
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  common.AppError
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.service.Logout(req.RefreshToken); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not process logout", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Successfully logged out"})
	return nil
}
