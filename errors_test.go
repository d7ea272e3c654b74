package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", invalid("title is required"), http.StatusBadRequest, "title is required"},
		{"duplicate email", ErrEmailTaken, http.StatusBadRequest, "Email already in use"},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"wrapped unauthorized", fmt.Errorf("%w: token expired", ErrUnauthorized), http.StatusUnauthorized, "Authentication required"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "You are not allowed to modify this post"},
		{"not found", ErrPostNotFound, http.StatusNotFound, "Post not found"},
		{"user lookup miss", ErrUserNotFound, http.StatusInternalServerError, "Internal server error"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := classify(tt.err)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if message != tt.message {
				t.Errorf("message = %q, want %q", message, tt.message)
			}
		})
	}
}
