package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
)

// SettingRepository provides data access methods for the system_setting table.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSetting retrieves the value stored under key.
// Returns apperrors.ErrSettingNotFound if the key is absent.
func (r *SettingRepository) GetSetting(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM system_setting WHERE "key" = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to scan system_setting table results: %w", err)
	}
	return value, nil
}

// SetSetting inserts or replaces the value stored under key.
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx,
		`UPDATE system_setting SET value = ?, updated_at = ? WHERE "key" = ?`,
		value, now, key,
	)
	if err != nil {
		return fmt.Errorf("failed to update system_setting table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO system_setting (id, "key", value, updated_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), key, value, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert into system_setting table: %w", err)
	}

	return nil
}
