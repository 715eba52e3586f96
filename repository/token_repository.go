// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"finance-tracker-api/logger"
	"finance-tracker-api/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
// Token values are opaque secrets and are never written to the log.
type ITokenRepository interface {
	Create(token *model.RefreshToken) error
	CreateTx(tx *sql.Tx, token *model.RefreshToken) error
	ConsumeTx(tx *sql.Tx, token string) (uuid.UUID, error)
	Revoke(token string) error
	RevokeAllByUserID(userID uuid.UUID) error
}

type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record.
func (r *TokenRepository) Create(token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)
		RETURNING id, revoked, created_at`
	err := r.DB.QueryRow(query, token.UserID, token.Token, token.ExpiresAt).
		Scan(&token.ID, &token.Revoked, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// CreateTx inserts a new refresh token inside an open transaction; used by the
// rotation flow so the replacement token commits together with the revocation.
func (r *TokenRepository) CreateTx(tx *sql.Tx, token *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)
		RETURNING id, revoked, created_at`
	err := tx.QueryRow(query, token.UserID, token.Token, token.ExpiresAt).
		Scan(&token.ID, &token.Revoked, &token.CreatedAt)
	if err != nil {
		logger.Log.WithField("user_id", token.UserID).WithError(err).
			Error("Failed to execute create refresh token query in transaction")
		return err
	}
	return nil
}

// ConsumeTx atomically verifies and revokes a refresh token. The conditional
// UPDATE is the rotation race guard: of two concurrent calls presenting the
// same token, only one sees an affected row. Not-found, expired and revoked
// all surface as the same sql.ErrNoRows so callers cannot leak which one it was.
func (r *TokenRepository) ConsumeTx(tx *sql.Tx, token string) (uuid.UUID, error) {
	query := `UPDATE refresh_tokens SET revoked = TRUE
		WHERE token = $1 AND revoked = FALSE AND expires_at > NOW()
		RETURNING user_id`

	var userID uuid.UUID
	err := tx.QueryRow(query, token).Scan(&userID)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute consume refresh token query")
		}
		return uuid.Nil, err
	}
	return userID, nil
}

// Revoke marks a token revoked. Idempotent: revoking an already-revoked or
// unknown token is a no-op.
func (r *TokenRepository) Revoke(token string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1 AND revoked = FALSE`
	_, err := r.DB.Exec(query, token)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute revoke refresh token query")
		return err
	}
	return nil
}

// RevokeAllByUserID bulk-revokes every live token for a user.
// Used for account-wide logout on deactivation.
func (r *TokenRepository) RevokeAllByUserID(userID uuid.UUID) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to revoke all refresh tokens for a user")

	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`
	_, err := r.DB.Exec(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke all refresh tokens query")
		return err
	}
	return nil
}
