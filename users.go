package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const userColumns = "id, username, email, password_hash, role, is_admin, created_at"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsAdmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts u and fills in its ID. The email check and the insert
// share a transaction; the unique index catches anything that slips past.
func (s *sqliteStore) CreateUser(ctx context.Context, u *User) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.CreatedAt = time.Now().UTC()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", u.Email).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking email: %w", err)
		}
		if exists > 0 {
			return ErrEmailTaken
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO users (username, email, password_hash, role, is_admin, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			u.Username, u.Email, u.PasswordHash, u.Role, u.IsAdmin, u.CreatedAt)
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		if err != nil {
			return fmt.Errorf("inserting user: %w", err)
		}

		u.ID, err = result.LastInsertId()
		return err
	})
}

func (s *sqliteStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

func (s *sqliteStore) UserByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}
