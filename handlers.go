package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"time"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	IsAdmin     bool   `json:"is_admin"`
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a " + t.String()
	}
}

// decodeJSON reads a single JSON object from the request body into dst. Any
// failure, including data after the object, is a ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		if dec.Decode(&struct{}{}) != io.EOF {
			return invalid("request body must be a single JSON object")
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return invalid(fmt.Sprintf("%s must be %s", typeErr.Field, typeName(typeErr.Type)))
	case errors.As(err, &maxErr):
		return invalid("request body too large")
	default:
		return invalid("request body must be a JSON object")
	}
}

func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, invalid("Invalid post ID")
	}
	return id, nil
}

func (b *Blog) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		b.writeError(w, r, err)
		return
	}

	user, err := b.identity.Register(r.Context(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	b.log.Info("user registered", "user_id", user.ID, "is_admin", user.IsAdmin)
	writeMessage(w, http.StatusCreated, "User successfully registered")
}

func (b *Blog) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		b.writeError(w, r, err)
		return
	}

	token, user, err := b.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, IsAdmin: user.IsAdmin})
}

func (b *Blog) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := b.posts.List(r.Context())
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (b *Blog) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	post, err := b.posts.Get(r.Context(), id)
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (b *Blog) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		b.writeError(w, r, err)
		return
	}

	post, err := b.posts.Create(r.Context(), userFromContext(r.Context()), req.Title, req.Content)
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (b *Blog) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		b.writeError(w, r, err)
		return
	}

	post, err := b.posts.Update(r.Context(), userFromContext(r.Context()), id, req.Title, req.Content)
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (b *Blog) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	if err := b.posts.Delete(r.Context(), userFromContext(r.Context()), id); err != nil {
		b.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Post deleted")
}

func (b *Blog) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := b.store.Ping(ctx); err != nil {
		b.log.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
