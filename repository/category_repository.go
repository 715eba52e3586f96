package repository

import (
	"database/sql"
	"finance-tracker-api/logger"
	"finance-tracker-api/model"

	"github.com/google/uuid"
)

// ICategoryRepository defines the contract for category database operations.
// Every lookup is scoped by the owning user id, so a category belonging to
// another user behaves exactly like a missing one.
type ICategoryRepository interface {
	Create(category *model.Category) error
	GetByID(userID, id uuid.UUID) (*model.Category, error)
	GetByName(userID uuid.UUID, name string) (*model.Category, error)
	ListByUserID(userID uuid.UUID, limit, offset int) ([]*model.Category, error)
	Update(category *model.Category) error
	Delete(userID, id uuid.UUID) error
}

type CategoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

const categoryColumns = `id, user_id, name, description, color, icon, created_at, updated_at`

func (r *CategoryRepository) Create(category *model.Category) error {
	query := `INSERT INTO categories (user_id, name, description, color, icon)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, category.UserID, category.Name, category.Description,
		category.Color, category.Icon).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		logger.Log.WithField("user_id", category.UserID).WithError(err).
			Error("Failed to execute create category query")
		return err
	}
	return nil
}

func (r *CategoryRepository) GetByID(userID, id uuid.UUID) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	return scanCategory(r.DB.QueryRow(query, id, userID))
}

func (r *CategoryRepository) GetByName(userID uuid.UUID, name string) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND name = $2`
	return scanCategory(r.DB.QueryRow(query, userID, name))
}

func (r *CategoryRepository) ListByUserID(userID uuid.UUID, limit, offset int) ([]*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, userID, limit, offset)
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).
			Error("Failed to execute list categories query")
		return nil, err
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan category row")
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(category *model.Category) error {
	query := `UPDATE categories SET name = $1, description = $2, color = $3, icon = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6 RETURNING updated_at`
	return r.DB.QueryRow(query, category.Name, category.Description, category.Color,
		category.Icon, category.ID, category.UserID).Scan(&category.UpdatedAt)
}

func (r *CategoryRepository) Delete(userID, id uuid.UUID) error {
	result, err := r.DB.Exec(`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanCategory(row *sql.Row) (*model.Category, error) {
	c := &model.Category{}
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}
