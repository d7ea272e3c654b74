package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// One connection serializes writers and keeps ":memory:" databases from
	// splitting across pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return db, nil
}

func initDB(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		is_admin BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		owner_id INTEGER NOT NULL REFERENCES users(id),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME,
		deleted_at DATETIME
	);`

	_, err := db.Exec(schema)
	if err != nil {
		return err
	}

	if err := migrateDB(db); err != nil {
		return err
	}

	return nil
}

func hasColumn(db *sql.DB, table, column string) (bool, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name = ?`, table)
	if err := db.QueryRow(query, column).Scan(&count); err != nil {
		return false, fmt.Errorf("inspecting %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

// migrateDB brings a posts table created by an older build up to the current
// columns. Posts that predate ownership get owner 0 and are only editable by
// admins.
func migrateDB(db *sql.DB) error {
	columns := []struct {
		name string
		ddl  string
	}{
		{"owner_id", `ALTER TABLE posts ADD COLUMN owner_id INTEGER NOT NULL DEFAULT 0`},
		{"updated_at", `ALTER TABLE posts ADD COLUMN updated_at DATETIME`},
		{"deleted_at", `ALTER TABLE posts ADD COLUMN deleted_at DATETIME`},
	}

	for _, c := range columns {
		ok, err := hasColumn(db, "posts", c.name)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := db.Exec(c.ddl); err != nil {
			return fmt.Errorf("adding posts.%s: %w", c.name, err)
		}
	}

	return nil
}

// seedAdmin creates the configured admin account unless a user with that email
// already exists. It is a no-op when no admin credentials are configured.
func seedAdmin(ctx context.Context, store Store, username, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	_, err := store.UserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
		IsAdmin:      true,
	}
	if err := store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	return nil
}
