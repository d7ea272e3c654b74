package main

import (
	"context"
	"strings"
)

// PostService applies validation, sanitization and ownership rules on top of
// the store.
type PostService struct {
	store Store
}

func NewPostService(store Store) *PostService {
	return &PostService{store: store}
}

// canModify reports whether actor may edit or delete post.
func canModify(actor *User, post *Post) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin || actor.ID == post.OwnerID
}

func cleanPostFields(title, content string) (string, string, error) {
	if strings.TrimSpace(title) == "" {
		return "", "", invalid("title is required")
	}
	if strings.TrimSpace(content) == "" {
		return "", "", invalid("content is required")
	}
	return sanitize(title), sanitize(content), nil
}

func (s *PostService) Create(ctx context.Context, actor *User, title, content string) (*Post, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	title, content, err := cleanPostFields(title, content)
	if err != nil {
		return nil, err
	}

	post := &Post{Title: title, Content: content, OwnerID: actor.ID}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]Post, error) {
	return s.store.ListPosts(ctx)
}

func (s *PostService) Get(ctx context.Context, id int64) (*Post, error) {
	return s.store.PostByID(ctx, id)
}

// Update replaces title and content. Existence is checked before ownership,
// and ownership before the new values.
func (s *PostService) Update(ctx context.Context, actor *User, id int64, title, content string) (*Post, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	return s.store.UpdatePost(ctx, id, func(post *Post) error {
		if !canModify(actor, post) {
			return ErrForbidden
		}

		cleanTitle, cleanContent, err := cleanPostFields(title, content)
		if err != nil {
			return err
		}

		post.Title = cleanTitle
		post.Content = cleanContent
		return nil
	})
}

func (s *PostService) Delete(ctx context.Context, actor *User, id int64) error {
	if actor == nil {
		return ErrUnauthorized
	}

	return s.store.DeletePost(ctx, id, func(post *Post) error {
		if !canModify(actor, post) {
			return ErrForbidden
		}
		return nil
	})
}
