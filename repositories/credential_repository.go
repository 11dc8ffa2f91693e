package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/securecorp/honeypot/models"
)

// CredentialRepository handles captured login attempts ("the trap") and the
// aggregations the analytics console runs over them.
type CredentialRepository interface {
	Create(ctx context.Context, attempt *models.CredentialAttempt) error
	Count(ctx context.Context) (int64, error)
	DistinctIPCount(ctx context.Context) (int64, error)
	AttemptWindow(ctx context.Context) (first, last *time.Time, err error)
	CountByDate(ctx context.Context, since time.Time) ([]models.DateCount, error)
	TopIPs(ctx context.Context, limit int) ([]models.LabelCount, error)
	TopUsernames(ctx context.Context, limit int) ([]models.LabelCount, error)
	Recent(ctx context.Context, limit, offset int) ([]models.CredentialAttempt, error)
}

type credentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *sql.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

// Create inserts a new credential attempt
func (r *credentialRepository) Create(ctx context.Context, attempt *models.CredentialAttempt) error {
	query := `
		INSERT INTO credential_capture (ip_address, user_agent, timestamp, username_attempted, password_attempted, password_length)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		attempt.IPAddress,
		attempt.UserAgent,
		attempt.Timestamp,
		attempt.UsernameAttempted,
		attempt.PasswordAttempted,
		attempt.PasswordLength,
	)
	if err != nil {
		return fmt.Errorf("failed to create credential attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	attempt.ID = id
	return nil
}

// Count returns the total number of captured attempts
func (r *credentialRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credential_capture`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count credential attempts: %w", err)
	}
	return count, nil
}

// DistinctIPCount returns how many distinct IPs have submitted credentials
func (r *credentialRepository) DistinctIPCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT ip_address) FROM credential_capture`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct attacker IPs: %w", err)
	}
	return count, nil
}

// AttemptWindow returns the earliest and latest attempt timestamps, or nils
// when the table is empty.
func (r *credentialRepository) AttemptWindow(ctx context.Context) (*time.Time, *time.Time, error) {
	query := `SELECT MIN(timestamp), MAX(timestamp) FROM credential_capture`

	var minRaw, maxRaw sql.NullString
	if err := r.db.QueryRowContext(ctx, query).Scan(&minRaw, &maxRaw); err != nil {
		return nil, nil, fmt.Errorf("failed to query attempt window: %w", err)
	}

	return parseNullTimestamp(minRaw), parseNullTimestamp(maxRaw), nil
}

// CountByDate returns attempts per calendar date since the cutoff, ascending
// by date. Days without attempts produce no bucket.
func (r *credentialRepository) CountByDate(ctx context.Context, since time.Time) ([]models.DateCount, error) {
	query := `
		SELECT DATE(timestamp) AS day, COUNT(id) AS attempts
		FROM credential_capture
		WHERE timestamp >= ?
		GROUP BY DATE(timestamp)
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt timeline: %w", err)
	}
	defer rows.Close()

	var buckets []models.DateCount
	for rows.Next() {
		var bucket models.DateCount
		if err := rows.Scan(&bucket.Date, &bucket.Count); err != nil {
			return nil, fmt.Errorf("failed to scan timeline bucket: %w", err)
		}
		buckets = append(buckets, bucket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline buckets: %w", err)
	}

	return buckets, nil
}

// TopIPs returns the most active attacker IPs, busiest first.
func (r *credentialRepository) TopIPs(ctx context.Context, limit int) ([]models.LabelCount, error) {
	query := `
		SELECT ip_address, COUNT(id) AS attempts
		FROM credential_capture
		GROUP BY ip_address
		ORDER BY attempts DESC
		LIMIT ?
	`
	return r.queryLabelCounts(ctx, query, "top IPs", limit)
}

// TopUsernames returns the most frequently attempted usernames.
func (r *credentialRepository) TopUsernames(ctx context.Context, limit int) ([]models.LabelCount, error) {
	query := `
		SELECT username_attempted, COUNT(id) AS frequency
		FROM credential_capture
		WHERE username_attempted IS NOT NULL AND username_attempted <> ''
		GROUP BY username_attempted
		ORDER BY frequency DESC
		LIMIT ?
	`
	return r.queryLabelCounts(ctx, query, "top usernames", limit)
}

// Recent returns a page of attempts ordered by timestamp descending.
func (r *credentialRepository) Recent(ctx context.Context, limit, offset int) ([]models.CredentialAttempt, error) {
	query := `
		SELECT id, ip_address, user_agent, timestamp, username_attempted, password_attempted, password_length
		FROM credential_capture
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.CredentialAttempt
	for rows.Next() {
		var attempt models.CredentialAttempt
		var userAgent, username, password sql.NullString
		var passwordLength sql.NullInt64

		err := rows.Scan(
			&attempt.ID,
			&attempt.IPAddress,
			&userAgent,
			&attempt.Timestamp,
			&username,
			&password,
			&passwordLength,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credential attempt: %w", err)
		}

		attempt.UserAgent = userAgent.String
		attempt.UsernameAttempted = username.String
		attempt.PasswordAttempted = password.String
		attempt.PasswordLength = int(passwordLength.Int64)
		attempts = append(attempts, attempt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent attempts: %w", err)
	}

	return attempts, nil
}

func (r *credentialRepository) queryLabelCounts(ctx context.Context, query, what string, limit int) ([]models.LabelCount, error) {
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	var buckets []models.LabelCount
	for rows.Next() {
		var bucket models.LabelCount
		if err := rows.Scan(&bucket.Label, &bucket.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		buckets = append(buckets, bucket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}

	return buckets, nil
}

// sqlite loses the column's declared type through MIN/MAX, so aggregate
// timestamps come back as text and are parsed here.
var timestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseNullTimestamp(raw sql.NullString) *time.Time {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, raw.String); err == nil {
			return &t
		}
	}
	return nil
}
