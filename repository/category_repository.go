package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"

	"modiv-eventcraft/db"
	"modiv-eventcraft/models"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct{}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// Ensure CategoryRepository implements CategoryRepositoryInterface
var _ CategoryRepositoryInterface = (*CategoryRepository)(nil)

// List retrieves all categories ordered by sort_order
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := `
		SELECT id, name, icon_slug, sort_order, created_at::text
		FROM categories
		ORDER BY sort_order ASC, name ASC
	`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IconSlug, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	query := `
		INSERT INTO categories (id, name, icon_slug, sort_order, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, name, icon_slug, sort_order, created_at::text
	`

	var c models.Category
	err := db.DB.QueryRowContext(ctx, query, uuid.NewString(), req.Name, req.IconSlug, req.SortOrder).Scan(
		&c.ID, &c.Name, &c.IconSlug, &c.SortOrder, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	log.Printf("✓ Category created: id=%s, name=%s", c.ID, c.Name)
	return &c, nil
}

// Update modifies an existing category
func (r *CategoryRepository) Update(ctx context.Context, id string, req *models.CreateCategoryRequest) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, icon_slug = $2, sort_order = $3
		WHERE id = $4
		RETURNING id, name, icon_slug, sort_order, created_at::text
	`

	var c models.Category
	err := db.DB.QueryRowContext(ctx, query, req.Name, req.IconSlug, req.SortOrder, id).Scan(
		&c.ID, &c.Name, &c.IconSlug, &c.SortOrder, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &c, nil
}

// Delete removes a category. Items referencing it keep their category_id
// until reassigned; the catalog join simply stops returning them.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := db.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s does not exist", id)
	}

	log.Printf("✓ Category deleted: id=%s", id)
	return nil
}
