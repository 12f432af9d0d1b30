package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"modiv-eventcraft/db"
	"modiv-eventcraft/models"
)

// ItemRepository handles database operations for catalog items
type ItemRepository struct{}

// NewItemRepository creates a new ItemRepository
func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

// Ensure ItemRepository implements ItemRepositoryInterface
var _ ItemRepositoryInterface = (*ItemRepository)(nil)

const itemColumns = `id, category_id, name, COALESCE(description, ''), price, unit, COALESCE(image_url, ''), is_active, created_at::text`

func scanItem(row interface{ Scan(...interface{}) error }) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := row.Scan(
		&item.ID,
		&item.CategoryID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Unit,
		&item.ImageURL,
		&item.IsActive,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListActive retrieves all active items in category display order. This is
// the query that feeds a session's catalog snapshot.
func (r *ItemRepository) ListActive(ctx context.Context) ([]models.CatalogItem, error) {
	query := `
		SELECT i.id, i.category_id, i.name, COALESCE(i.description, ''), i.price, i.unit,
		       COALESCE(i.image_url, ''), i.is_active, i.created_at::text
		FROM items i
		INNER JOIN categories c ON i.category_id = c.id
		WHERE i.is_active = true
		ORDER BY c.sort_order ASC, i.name ASC
	`
	return r.queryItems(ctx, query)
}

// ListAll retrieves every item, active or not, for the admin item list
func (r *ItemRepository) ListAll(ctx context.Context) ([]models.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM items ORDER BY created_at DESC`, itemColumns)
	return r.queryItems(ctx, query)
}

func (r *ItemRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]models.CatalogItem, error) {
	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetByID retrieves one item by id
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE id = $1`, itemColumns)
	item, err := scanItem(db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// FindBySlug matches an item by a lowercased, dash-separated version of its
// name. Used by the Drive photo sync, where filenames carry the item slug.
func (r *ItemRepository) FindBySlug(ctx context.Context, slug string) (*models.CatalogItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM items
		WHERE lower(replace(name, ' ', '-')) = $1
	`, itemColumns)

	item, err := scanItem(db.DB.QueryRowContext(ctx, query, strings.ToLower(slug)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find item by slug: %w", err)
	}
	return item, nil
}

// Create inserts a new item
func (r *ItemRepository) Create(ctx context.Context, req *models.CreateItemRequest) (*models.CatalogItem, error) {
	log.Printf("📦 Create item: name=%s, category=%s, price=%d", req.Name, req.CategoryID, req.Price)

	query := fmt.Sprintf(`
		INSERT INTO items (id, category_id, name, description, price, unit, image_url, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, NOW())
		RETURNING %s
	`, itemColumns)

	item, err := scanItem(db.DB.QueryRowContext(ctx, query,
		uuid.NewString(), req.CategoryID, req.Name, req.Description, req.Price, req.Unit, req.ImageURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	log.Printf("✓ Item created: id=%s, name=%s", item.ID, item.Name)
	return item, nil
}

// Update modifies an item. A price change also writes a price_history row
// in the same transaction, so the audit trail can never miss a change.
func (r *ItemRepository) Update(ctx context.Context, id string, req *models.UpdateItemRequest, changedBy string) (*models.CatalogItem, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var oldPrice int64
	err = tx.QueryRowContext(ctx, `SELECT price FROM items WHERE id = $1`, id).Scan(&oldPrice)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to get current price: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	query := fmt.Sprintf(`
		UPDATE items
		SET category_id = $1, name = $2, description = $3, price = $4, unit = $5, image_url = $6, is_active = $7
		WHERE id = $8
		RETURNING %s
	`, itemColumns)

	item, err := scanItem(tx.QueryRowContext(ctx, query,
		req.CategoryID, req.Name, req.Description, req.Price, req.Unit, req.ImageURL, isActive, id))
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if oldPrice != req.Price {
		log.Printf("💰 Price change for item %s: %d -> %d", id, oldPrice, req.Price)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO price_history (id, item_id, old_price, new_price, changed_by, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
		`, uuid.NewString(), id, oldPrice, req.Price, changedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to record price history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✓ Item updated: id=%s", id)
	return item, nil
}

// Deactivate soft-deletes an item so past inquiries keep resolving
func (r *ItemRepository) Deactivate(ctx context.Context, id string) error {
	result, err := db.DB.ExecContext(ctx, `UPDATE items SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivate result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %s does not exist", id)
	}

	log.Printf("✓ Item deactivated: id=%s", id)
	return nil
}

// UpdateImageURL sets an item's image URL (Drive photo sync)
func (r *ItemRepository) UpdateImageURL(ctx context.Context, id string, imageURL string) error {
	_, err := db.DB.ExecContext(ctx, `UPDATE items SET image_url = $1 WHERE id = $2`, imageURL, id)
	if err != nil {
		return fmt.Errorf("failed to update item image url: %w", err)
	}
	return nil
}

// PriceHistory lists an item's recorded price changes, newest first
func (r *ItemRepository) PriceHistory(ctx context.Context, itemID string) ([]models.PriceHistoryEntry, error) {
	query := `
		SELECT id, item_id, old_price, new_price, COALESCE(changed_by, ''), created_at::text
		FROM price_history
		WHERE item_id = $1
		ORDER BY created_at DESC
	`

	rows, err := db.DB.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var entries []models.PriceHistoryEntry
	for rows.Next() {
		var e models.PriceHistoryEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.OldPrice, &e.NewPrice, &e.ChangedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
