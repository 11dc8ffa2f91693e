package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/securecorp/honeypot/models"
)

// ErrConfigNotFound is returned when a config key has no row. For the
// admin PIN this means the provisioning step never ran.
var ErrConfigNotFound = errors.New("config entry not found")

// ConfigRepository reads key/value configuration rows.
type ConfigRepository interface {
	Get(ctx context.Context, key string) (*models.ConfigEntry, error)
}

type configRepository struct {
	db *sql.DB
}

// NewConfigRepository creates a new config repository
func NewConfigRepository(db *sql.DB) ConfigRepository {
	return &configRepository{db: db}
}

// Get retrieves a config entry by key
func (r *configRepository) Get(ctx context.Context, key string) (*models.ConfigEntry, error) {
	query := `
		SELECT config_key, config_value, description, updated_at
		FROM app_config
		WHERE config_key = ?
	`

	var entry models.ConfigEntry
	var description sql.NullString

	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&entry.Key,
		&entry.Value,
		&description,
		&entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("config key %q: %w", key, ErrConfigNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config entry %q: %w", key, err)
	}

	entry.Description = description.String
	return &entry, nil
}
