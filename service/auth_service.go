package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"finance-tracker-api/config"
	"finance-tracker-api/logger"
	"finance-tracker-api/model"
	"finance-tracker-api/repository"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers every login failure: unknown email, wrong
	// password and inactive account all look the same to the caller.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrInvalidRefreshToken covers not-found, expired and revoked uniformly.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidAccessToken  = errors.New("invalid or expired token")
)

// TokenPair is the login/refresh response body.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService implements registration, login, refresh rotation and logout.
type AuthService struct {
	db        *sql.DB
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	cfg       *config.Config
}

func NewAuthService(db *sql.DB, userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		db:        db,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash delegates comparison to bcrypt, which is constant-time.
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateAccessToken mints a short-lived HS256 token carrying the user id as
// subject. Access tokens are stateless; validity is signature plus expiry only.
func (s *AuthService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWT.AccessTokenExpireMinutes) * time.Minute)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken returns the subject user id, or ErrInvalidAccessToken
// for any defect: bad signature, malformed payload, expiry passed, subject
// missing or not a uuid.
func (s *AuthService) ValidateAccessToken(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	}, jwt.WithValidMethods([]string{s.cfg.JWT.Algorithm}))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidAccessToken
	}

	if claims.Subject == "" {
		return uuid.Nil, ErrInvalidAccessToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidAccessToken
	}
	return userID, nil
}

// generateRefreshToken produces a URL-safe opaque token from 32 bytes of
// CSPRNG output.
func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account with a hashed password.
func (s *AuthService) Register(req model.RegisterRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	log := logger.Log.WithField("email", email)

	if _, err := s.userRepo.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	hashedPassword, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    email,
		FullName: req.FullName,
		Password: hashedPassword,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	log.Info("User registered")
	return user, nil
}

// Login authenticates the credentials and returns a fresh token pair.
// Every failure path returns ErrInvalidCredentials so callers cannot tell
// which check rejected the attempt.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	refreshValue, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}
	refreshToken := &model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.JWT.RefreshTokenExpireDays) * 24 * time.Hour),
	}
	if err := s.tokenRepo.Create(refreshToken); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		TokenType:    "bearer",
	}, nil
}

// Refresh rotates a refresh token: the presented token is revoked first, then
// a new access token and a new refresh token are issued for the same user.
// The whole sequence runs in one transaction, and the revoke is a conditional
// update, so of two concurrent calls with the same token at most one succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	userID, err := s.tokenRepo.ConsumeTx(tx, refreshToken)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	user, err := s.userRepo.GetUserByIDTx(tx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := s.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	newRefreshValue, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}
	newRefreshToken := &model.RefreshToken{
		UserID:    user.ID,
		Token:     newRefreshValue,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.JWT.RefreshTokenExpireDays) * 24 * time.Hour),
	}
	if err := s.tokenRepo.CreateTx(tx, newRefreshToken); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("Refresh token rotated")
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshValue,
		TokenType:    "bearer",
	}, nil
}

// Logout revokes the presented refresh token. Revocation is idempotent, so
// logout always succeeds from the caller's perspective; the access token the
// client still holds simply expires on its own.
func (s *AuthService) Logout(refreshToken string) error {
	return s.tokenRepo.Revoke(refreshToken)
}
