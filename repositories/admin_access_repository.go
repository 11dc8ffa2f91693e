package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/securecorp/honeypot/models"
)

// AdminAccessRepository persists PIN gate attempts.
type AdminAccessRepository interface {
	Create(ctx context.Context, record *models.AdminAccessRecord) error
}

type adminAccessRepository struct {
	db *sql.DB
}

// NewAdminAccessRepository creates a new admin access repository
func NewAdminAccessRepository(db *sql.DB) AdminAccessRepository {
	return &adminAccessRepository{db: db}
}

// Create inserts a new admin access record. A session id is stored only
// when access was granted.
func (r *adminAccessRepository) Create(ctx context.Context, record *models.AdminAccessRecord) error {
	query := `
		INSERT INTO admin_access_logs (ip_address, timestamp, pin_entered, access_granted, session_id)
		VALUES (?, ?, ?, ?, ?)
	`

	sessionID := sql.NullString{String: record.SessionID, Valid: record.AccessGranted && record.SessionID != ""}

	result, err := r.db.ExecContext(ctx, query,
		record.IPAddress,
		record.Timestamp,
		record.PinEntered,
		record.AccessGranted,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin access record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	record.ID = id
	return nil
}
