package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const postColumns = "id, title, content, owner_id, created_at, updated_at"

func scanPost(row interface{ Scan(...any) error }) (*Post, error) {
	var post Post
	var updatedAt sql.NullTime
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.OwnerID, &post.CreatedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	post.UpdatedAt = post.CreatedAt
	if updatedAt.Valid {
		post.UpdatedAt = updatedAt.Time
	}
	return &post, nil
}

// ListPosts returns active posts oldest first. It never returns a nil slice.
func (s *sqliteStore) ListPosts(ctx context.Context) ([]Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE deleted_at IS NULL ORDER BY id ASC"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}

	return posts, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func activePost(ctx context.Context, q rowQuerier, id int64) (*Post, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = ? AND deleted_at IS NULL`, id)
	return scanPost(row)
}

func (s *sqliteStore) PostByID(ctx context.Context, id int64) (*Post, error) {
	return activePost(ctx, s.db, id)
}

func (s *sqliteStore) CreatePost(ctx context.Context, p *Post) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (title, content, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`, p.Title, p.Content, p.OwnerID, now, now)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading post id: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// UpdatePost loads the active post, lets apply change its title and content,
// and writes those two fields back. The owner is never rewritten.
func (s *sqliteStore) UpdatePost(ctx context.Context, id int64, apply func(*Post) error) (*Post, error) {
	var updated *Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		post, err := activePost(ctx, tx, id)
		if err != nil {
			return err
		}

		owner := post.OwnerID
		if err := apply(post); err != nil {
			return err
		}
		post.OwnerID = owner

		post.UpdatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx, `
			UPDATE posts
			SET title = ?, content = ?, updated_at = ?
			WHERE id = ?`, post.Title, post.Content, post.UpdatedAt, id)
		if err != nil {
			return fmt.Errorf("updating post %d: %w", id, err)
		}

		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePost tombstones the active post after check approves it. A deleted id
// stays reserved and is never visible again.
func (s *sqliteStore) DeletePost(ctx context.Context, id int64, check func(*Post) error) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		post, err := activePost(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := check(post); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE posts
			SET deleted_at = ?
			WHERE id = ? AND deleted_at IS NULL`, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("deleting post %d: %w", id, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting post %d: %w", id, err)
		}
		if n == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}
