package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed to modify this post")
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError is a client-facing rejection of request input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

type errorKind struct {
	err     error
	status  int
	message string
}

var errorKinds = []errorKind{
	{ErrEmailTaken, http.StatusBadRequest, "Email already in use"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{ErrUnauthorized, http.StatusUnauthorized, "Authentication required"},
	{ErrForbidden, http.StatusForbidden, "You are not allowed to modify this post"},
	{ErrPostNotFound, http.StatusNotFound, "Post not found"},
}

// classify returns the status and client message for err. Unknown errors map
// to a generic 500.
func classify(err error) (int, string) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Message
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func (b *Blog) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	if status == http.StatusInternalServerError {
		b.log.Error("handling request", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeMessage(w, status, message)
}
