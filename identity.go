package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
	IsAdmin  bool
}

// Identity registers users and turns credentials into users.
type Identity struct {
	store  Store
	tokens *TokenIssuer
}

func NewIdentity(store Store, tokens *TokenIssuer) *Identity {
	return &Identity{store: store, tokens: tokens}
}

func (s *Identity) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := normalizeEmail(in.Email)

	switch {
	case strings.TrimSpace(in.Username) == "":
		return nil, invalid("username is required")
	case email == "":
		return nil, invalid("email is required")
	case in.Password == "":
		return nil, invalid("password is required")
	}

	role := in.Role
	if role == "" {
		role = RoleUser
	}
	if !validRole(role) {
		return nil, invalid(fmt.Sprintf("role must be one of %q, %q", RoleUser, RoleAdmin))
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Username:     in.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsAdmin:      in.IsAdmin,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the password and issues a credential. An unknown email and a
// wrong password fail the same way.
func (s *Identity) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.store.UserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !checkPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate resolves a credential to the current user row.
func (s *Identity) Authenticate(ctx context.Context, credential string) (*User, error) {
	userID, err := s.tokens.Parse(credential)
	if err != nil {
		return nil, err
	}

	user, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("%w: user %d no longer exists", ErrUnauthorized, userID)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
