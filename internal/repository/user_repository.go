package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, first_name, last_name, username, email, password_hash, reset_token, reset_token_expires_at, created_at`

func (r *UserRepository) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var resetToken sql.NullString
	var resetExpiresStr, createdAtStr sql.NullString

	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&resetToken,
		&resetExpiresStr,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user table results: %w", err)
	}

	if resetToken.Valid {
		u.ResetToken = resetToken.String
	}
	if resetExpiresStr.Valid {
		expires, err := ParseTime(resetExpiresStr.String)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to parse date: %w", err)
		}
		u.ResetTokenExpiresAt = &expires
	}
	if createdAtStr.Valid {
		u.CreatedAt, err = ParseTime(createdAtStr.String)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}

	return u, nil
}

// GetUser retrieves a user by ID.
// Returns apperrors.ErrUserNotFound if no row matches.
func (r *UserRepository) GetUser(userID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM user WHERE id = ?`
	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetUserByLogin retrieves a user by username, falling back to email.
// The login form accepts either; both columns are unique.
func (r *UserRepository) GetUserByLogin(login string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM user WHERE username = ? OR email = ?`
	return r.scanUser(r.db.QueryRow(query, login, login))
}

// GetUserByEmail retrieves a user by email address.
func (r *UserRepository) GetUserByEmail(email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM user WHERE email = ?`
	return r.scanUser(r.db.QueryRow(query, email))
}

// UsernameExists reports whether a user with the given username exists.
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(1) FROM user WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query user table: %w", err)
	}
	return count > 0, nil
}

// EmailExists reports whether a user with the given email exists.
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(1) FROM user WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query user table: %w", err)
	}
	return count > 0, nil
}

// InsertUser inserts a new user row.
func (r *UserRepository) InsertUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO user (id, first_name, last_name, username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert into user table: %w", err)
	}

	return nil
}

// SetResetToken stores a password reset token and its expiry on the user row.
// Passing an empty token clears both columns.
func (r *UserRepository) SetResetToken(ctx context.Context, userID, token string, expiresAt *time.Time) error {
	var expires any
	if expiresAt != nil {
		expires = expiresAt.UTC().Format(time.RFC3339)
	}

	var tokenValue any
	if token != "" {
		tokenValue = token
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE user SET reset_token = ?, reset_token_expires_at = ? WHERE id = ?`,
		tokenValue, expires, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE user SET password_hash = ? WHERE id = ?`,
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
