package service

import (
	"database/sql"
	"errors"
	"finance-tracker-api/logger"
	"finance-tracker-api/model"
	"finance-tracker-api/repository"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// UserService handles profile reads and updates plus soft deactivation.
type UserService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	auth      *AuthService
}

func NewUserService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, auth *AuthService) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		auth:      auth,
	}
}

func (s *UserService) GetProfile(userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields; a changed email must not collide
// with another account, and a changed password is re-hashed.
func (s *UserService) UpdateProfile(userID uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		existing, err := s.userRepo.GetUserByEmail(email)
		if err == nil && existing.ID != userID {
			return nil, ErrEmailTaken
		} else if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		user.Email = email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		hashed, err := s.auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate clears the active flag (accounts are never hard-deleted) and
// revokes every live refresh token so no session survives the deactivation.
func (s *UserService) Deactivate(userID uuid.UUID) error {
	if _, err := s.GetProfile(userID); err != nil {
		return err
	}
	if err := s.userRepo.DeactivateUser(userID); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllByUserID(userID); err != nil {
		return err
	}

	logger.Log.WithField("user_id", userID).Info("User account deactivated")
	return nil
}
