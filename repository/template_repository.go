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

// TemplateRepository handles database operations for event templates and
// their preset rows
type TemplateRepository struct{}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{}
}

// Ensure TemplateRepository implements TemplateRepositoryInterface
var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)

const templateColumns = `id, name, description, COALESCE(image_url, ''), capacity_label, sort_order, created_at::text`

func scanTemplate(row interface{ Scan(...interface{}) error }) (*models.EventTemplate, error) {
	var t models.EventTemplate
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.ImageURL, &t.CapacityLabel, &t.SortOrder, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List retrieves all templates in display order
func (r *TemplateRepository) List(ctx context.Context) ([]models.EventTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_templates ORDER BY sort_order ASC, name ASC`, templateColumns)

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.EventTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// GetByID retrieves one template
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*models.EventTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_templates WHERE id = $1`, templateColumns)
	t, err := scanTemplate(db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("template %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

// Create inserts a new template
func (r *TemplateRepository) Create(ctx context.Context, req *models.CreateTemplateRequest) (*models.EventTemplate, error) {
	query := fmt.Sprintf(`
		INSERT INTO event_templates (id, name, description, image_url, capacity_label, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING %s
	`, templateColumns)

	t, err := scanTemplate(db.DB.QueryRowContext(ctx, query,
		uuid.NewString(), req.Name, req.Description, req.ImageURL, req.CapacityLabel, req.SortOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	log.Printf("✓ Template created: id=%s, name=%s", t.ID, t.Name)
	return t, nil
}

// Update modifies an existing template
func (r *TemplateRepository) Update(ctx context.Context, id string, req *models.CreateTemplateRequest) (*models.EventTemplate, error) {
	query := fmt.Sprintf(`
		UPDATE event_templates
		SET name = $1, description = $2, image_url = $3, capacity_label = $4, sort_order = $5
		WHERE id = $6
		RETURNING %s
	`, templateColumns)

	t, err := scanTemplate(db.DB.QueryRowContext(ctx, query,
		req.Name, req.Description, req.ImageURL, req.CapacityLabel, req.SortOrder, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("template %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return t, nil
}

// Delete removes a template and its preset rows
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM template_items WHERE template_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete template items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM event_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("template %s does not exist", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✓ Template deleted: id=%s", id)
	return nil
}

// ListItems retrieves a template's preset rows. These are the rows the
// calculator applies on template load.
func (r *TemplateRepository) ListItems(ctx context.Context, templateID string) ([]models.TemplateItem, error) {
	query := `
		SELECT ti.id, ti.template_id, ti.item_id, ti.default_quantity
		FROM template_items ti
		INNER JOIN items i ON ti.item_id = i.id
		WHERE ti.template_id = $1 AND i.is_active = true
		ORDER BY ti.id ASC
	`

	rows, err := db.DB.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list template items: %w", err)
	}
	defer rows.Close()

	var items []models.TemplateItem
	for rows.Next() {
		var ti models.TemplateItem
		if err := rows.Scan(&ti.ID, &ti.TemplateID, &ti.ItemID, &ti.DefaultQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan template item: %w", err)
		}
		items = append(items, ti)
	}
	return items, rows.Err()
}

// ReplaceItems swaps a template's whole preset row set in one transaction.
// Rows with a default quantity below 1 are rejected up front.
func (r *TemplateRepository) ReplaceItems(ctx context.Context, templateID string, items []models.TemplateItemInput) ([]models.TemplateItem, error) {
	for _, item := range items {
		if item.DefaultQuantity < 1 {
			return nil, fmt.Errorf("default quantity must be at least 1 (item %s)", item.ItemID)
		}
	}

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Verify the template exists before touching its rows
	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM event_templates WHERE id = $1)`, templateID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check template: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("template %s does not exist", templateID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM template_items WHERE template_id = $1`, templateID); err != nil {
		return nil, fmt.Errorf("failed to clear template items: %w", err)
	}

	var inserted []models.TemplateItem
	for _, item := range items {
		var ti models.TemplateItem
		err := tx.QueryRowContext(ctx, `
			INSERT INTO template_items (id, template_id, item_id, default_quantity)
			VALUES ($1, $2, $3, $4)
			RETURNING id, template_id, item_id, default_quantity
		`, uuid.NewString(), templateID, item.ItemID, item.DefaultQuantity).Scan(
			&ti.ID, &ti.TemplateID, &ti.ItemID, &ti.DefaultQuantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert template item %s: %w", item.ItemID, err)
		}
		inserted = append(inserted, ti)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✓ Template %s preset rows replaced: %d rows", templateID, len(inserted))
	return inserted, nil
}

// AddItem upserts one preset row. Adding an item already on the template
// overwrites its default quantity.
func (r *TemplateRepository) AddItem(ctx context.Context, templateID string, item models.TemplateItemInput) (*models.TemplateItem, error) {
	if item.DefaultQuantity < 1 {
		return nil, fmt.Errorf("default quantity must be at least 1")
	}

	query := `
		INSERT INTO template_items (id, template_id, item_id, default_quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (template_id, item_id)
		DO UPDATE SET default_quantity = EXCLUDED.default_quantity
		RETURNING id, template_id, item_id, default_quantity
	`

	var ti models.TemplateItem
	err := db.DB.QueryRowContext(ctx, query, uuid.NewString(), templateID, item.ItemID, item.DefaultQuantity).Scan(
		&ti.ID, &ti.TemplateID, &ti.ItemID, &ti.DefaultQuantity,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add template item: %w", err)
	}

	log.Printf("✓ Template %s preset row set: item=%s, qty=%d", templateID, ti.ItemID, ti.DefaultQuantity)
	return &ti, nil
}

// RemoveItem deletes one preset row from a template
func (r *TemplateRepository) RemoveItem(ctx context.Context, templateID string, itemID string) error {
	result, err := db.DB.ExecContext(ctx, `
		DELETE FROM template_items WHERE template_id = $1 AND item_id = $2
	`, templateID, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove template item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check remove result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("template %s has no preset row for item %s", templateID, itemID)
	}

	log.Printf("✓ Template %s preset row removed: item=%s", templateID, itemID)
	return nil
}
