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

// InquiryRepository handles database operations for inquiries, their lines
// and their status history
type InquiryRepository struct{}

// NewInquiryRepository creates a new InquiryRepository
func NewInquiryRepository() *InquiryRepository {
	return &InquiryRepository{}
}

// Ensure InquiryRepository implements InquiryRepositoryInterface
var _ InquiryRepositoryInterface = (*InquiryRepository)(nil)

const inquiryColumns = `id, customer_name, COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(event_date, ''), COALESCE(event_location, ''), COALESCE(notes, ''),
	total, status, created_at::text`

func scanInquiry(row interface{ Scan(...interface{}) error }) (*models.Inquiry, error) {
	var inq models.Inquiry
	err := row.Scan(
		&inq.ID,
		&inq.CustomerName,
		&inq.Email,
		&inq.Phone,
		&inq.EventDate,
		&inq.EventLocation,
		&inq.Notes,
		&inq.Total,
		&inq.Status,
		&inq.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inq, nil
}

// Insert persists an inquiry, its lines, and the initial "pending" status
// history row in one transaction
func (r *InquiryRepository) Insert(ctx context.Context, inquiry *models.Inquiry, items []models.InquiryItem) (*models.Inquiry, []models.InquiryItem, error) {
	log.Printf("📥 Insert inquiry: customer=%s, lines=%d, total=%d", inquiry.CustomerName, len(items), inquiry.Total)

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	inquiryID := uuid.NewString()
	query := fmt.Sprintf(`
		INSERT INTO inquiries (id, customer_name, email, phone, event_date, event_location, notes, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING %s
	`, inquiryColumns)

	saved, err := scanInquiry(tx.QueryRowContext(ctx, query,
		inquiryID,
		inquiry.CustomerName,
		nullable(inquiry.Email),
		nullable(inquiry.Phone),
		nullable(inquiry.EventDate),
		nullable(inquiry.EventLocation),
		nullable(inquiry.Notes),
		inquiry.Total,
		models.InquiryStatusPending,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert inquiry: %w", err)
	}

	var savedItems []models.InquiryItem
	for _, item := range items {
		var line models.InquiryItem
		err := tx.QueryRowContext(ctx, `
			INSERT INTO inquiry_items (id, inquiry_id, item_id, item_name, quantity, price_at_time)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, inquiry_id, item_id, item_name, quantity, price_at_time
		`, uuid.NewString(), inquiryID, item.ItemID, item.ItemName, item.Quantity, item.PriceAtTime).Scan(
			&line.ID, &line.InquiryID, &line.ItemID, &line.ItemName, &line.Quantity, &line.PriceAtTime,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert inquiry item %s: %w", item.ItemID, err)
		}
		savedItems = append(savedItems, line)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inquiry_status_history (id, inquiry_id, old_status, new_status, changed_by, created_at)
		VALUES ($1, $2, NULL, $3, 'system', NOW())
	`, uuid.NewString(), inquiryID, models.InquiryStatusPending)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ Inquiry persisted: id=%s, total=%d", saved.ID, saved.Total)
	return saved, savedItems, nil
}

// List retrieves inquiries, newest first, optionally filtered by status
func (r *InquiryRepository) List(ctx context.Context, status string) ([]models.Inquiry, error) {
	query := fmt.Sprintf(`SELECT %s FROM inquiries`, inquiryColumns)
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []models.Inquiry
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inquiries = append(inquiries, *inq)
	}
	return inquiries, rows.Err()
}

// GetDetail retrieves one inquiry with its lines and status history
func (r *InquiryRepository) GetDetail(ctx context.Context, id string) (*models.InquiryDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE id = $1`, inquiryColumns)
	inq, err := scanInquiry(db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("inquiry %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	detail := &models.InquiryDetail{Inquiry: *inq}

	itemRows, err := db.DB.QueryContext(ctx, `
		SELECT id, inquiry_id, item_id, item_name, quantity, price_at_time
		FROM inquiry_items
		WHERE inquiry_id = $1
		ORDER BY item_name ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiry items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var line models.InquiryItem
		if err := itemRows.Scan(&line.ID, &line.InquiryID, &line.ItemID, &line.ItemName, &line.Quantity, &line.PriceAtTime); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry item: %w", err)
		}
		detail.Items = append(detail.Items, line)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inquiry items: %w", err)
	}

	historyRows, err := db.DB.QueryContext(ctx, `
		SELECT id, inquiry_id, COALESCE(old_status, ''), new_status, COALESCE(changed_by, ''), created_at::text
		FROM inquiry_status_history
		WHERE inquiry_id = $1
		ORDER BY created_at ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var change models.InquiryStatusChange
		if err := historyRows.Scan(&change.ID, &change.InquiryID, &change.OldStatus, &change.NewStatus, &change.ChangedBy, &change.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		detail.History = append(detail.History, change)
	}
	return detail, historyRows.Err()
}

// UpdateStatus moves an inquiry to a new status and records the transition
// in the same transaction
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id string, newStatus string, changedBy string) (*models.Inquiry, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var oldStatus string
	err = tx.QueryRowContext(ctx, `SELECT status FROM inquiries WHERE id = $1`, id).Scan(&oldStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("inquiry %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to get current status: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE inquiries SET status = $1 WHERE id = $2
		RETURNING %s
	`, inquiryColumns)

	inq, err := scanInquiry(tx.QueryRowContext(ctx, query, newStatus, id))
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inquiry_status_history (id, inquiry_id, old_status, new_status, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, uuid.NewString(), id, oldStatus, newStatus, changedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to insert status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✓ Inquiry %s status: %s -> %s (by %s)", id, oldStatus, newStatus, changedBy)
	return inq, nil
}

// Stats summarizes inquiries for the admin dashboard
func (r *InquiryRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{CountByStatus: make(map[string]int64)}

	rows, err := db.DB.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM inquiries
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiry stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count, sum int64
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry stats: %w", err)
		}
		stats.CountByStatus[status] = count
		stats.TotalInquiries += count
		stats.TotalValue += sum
		if status == models.InquiryStatusPending {
			stats.PendingValue = sum
		}
	}
	return stats, rows.Err()
}

// nullable maps "" to NULL so optional customer fields stay NULL in storage
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
