package repository

import (
	"database/sql"
	"finance-tracker-api/model"

	"github.com/google/uuid"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id uuid.UUID) (*model.User, error)
	GetUserByIDTx(tx *sql.Tx, id uuid.UUID) (*model.User, error)
	UpdateUser(user *model.User) error
	DeactivateUser(id uuid.UUID) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, email, full_name, password, is_active, is_verified, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.Password,
		&user.IsActive, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (email, full_name, password) VALUES ($1, $2, $3)
		RETURNING id, is_active, is_verified, created_at, updated_at`
	return r.DB.QueryRow(query, user.Email, user.FullName, user.Password).
		Scan(&user.ID, &user.IsActive, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(query, email))
}

func (r *UserRepository) GetUserByID(id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(query, id))
}

// GetUserByIDTx reads the user inside an open transaction; the refresh flow
// uses it so the active check sees the same snapshot as the token rotation.
func (r *UserRepository) GetUserByIDTx(tx *sql.Tx, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(tx.QueryRow(query, id))
}

func (r *UserRepository) UpdateUser(user *model.User) error {
	query := `UPDATE users SET email = $1, full_name = $2, password = $3, updated_at = NOW()
		WHERE id = $4 RETURNING updated_at`
	return r.DB.QueryRow(query, user.Email, user.FullName, user.Password, user.ID).
		Scan(&user.UpdatedAt)
}

// DeactivateUser clears the active flag. Users are never hard-deleted.
func (r *UserRepository) DeactivateUser(id uuid.UUID) error {
	query := `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
