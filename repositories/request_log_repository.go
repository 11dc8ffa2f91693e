package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/securecorp/honeypot/models"
)

// RequestLogRepository handles the request log table ("the watcher").
type RequestLogRepository interface {
	Create(ctx context.Context, entry *models.RequestLogEntry) error
	Count(ctx context.Context) (int64, error)
	PathDistribution(ctx context.Context, limit int) ([]models.LabelCount, error)
}

type requestLogRepository struct {
	db *sql.DB
}

// NewRequestLogRepository creates a new request log repository
func NewRequestLogRepository(db *sql.DB) RequestLogRepository {
	return &requestLogRepository{db: db}
}

// Create inserts a new request log entry
func (r *requestLogRepository) Create(ctx context.Context, entry *models.RequestLogEntry) error {
	query := `
		INSERT INTO general_logs (ip_address, user_agent, timestamp, request_method, request_path, referer)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.IPAddress,
		entry.UserAgent,
		entry.Timestamp,
		entry.Method,
		entry.Path,
		nullIfEmpty(entry.Referer),
	)
	if err != nil {
		return fmt.Errorf("failed to create request log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	entry.ID = id
	return nil
}

// Count returns the total number of logged requests
func (r *requestLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM general_logs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count request log entries: %w", err)
	}
	return count, nil
}

// PathDistribution returns request counts grouped by path, most hit first.
func (r *requestLogRepository) PathDistribution(ctx context.Context, limit int) ([]models.LabelCount, error) {
	query := `
		SELECT request_path, COUNT(id) AS hits
		FROM general_logs
		GROUP BY request_path
		ORDER BY hits DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query path distribution: %w", err)
	}
	defer rows.Close()

	var buckets []models.LabelCount
	for rows.Next() {
		var path sql.NullString
		var bucket models.LabelCount

		if err := rows.Scan(&path, &bucket.Count); err != nil {
			return nil, fmt.Errorf("failed to scan path distribution: %w", err)
		}

		bucket.Label = "Unknown"
		if path.Valid && path.String != "" {
			bucket.Label = path.String
		}
		buckets = append(buckets, bucket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating path distribution: %w", err)
	}

	return buckets, nil
}

// nullIfEmpty maps "" to NULL so optional columns stay NULL in storage.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
