package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCheckPassword(t *testing.T) {
	hash, err := hashPassword("secret")
	if err != nil {
		t.Fatalf("hashPassword() error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "secret", true},
		{"wrong password", "wrong", false},
		{"empty password", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkPassword(hash, tt.password)
			if got != tt.want {
				t.Errorf("checkPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, _ := hashPassword("secret")
	second, _ := hashPassword("secret")
	if first == second {
		t.Error("expected different hashes for the same password")
	}
}

func TestGenerateToken(t *testing.T) {
	token1, err := generateToken()
	if err != nil {
		t.Fatalf("generateToken() error: %v", err)
	}

	if len(token1) != 64 { // 32 bytes = 64 hex chars
		t.Errorf("expected token length 64, got %d", len(token1))
	}

	token2, _ := generateToken()
	if token1 == token2 {
		t.Error("expected unique tokens")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	userID, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user id 42, got %d", userID)
	}
}

func TestTokenIssuer_IdentityOnlyClaims(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, _ := issuer.Issue(7)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified() error: %v", err)
	}

	if _, ok := claims["is_admin"]; ok {
		t.Error("credential must not carry is_admin")
	}
	if claims["sub"] != "7" {
		t.Errorf("expected sub %q, got %v", "7", claims["sub"])
	}
	if claims["jti"] == "" || claims["jti"] == nil {
		t.Error("expected a token id")
	}
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	expired, _ := NewTokenIssuer("test-secret", -time.Minute).Issue(1)
	foreign, _ := NewTokenIssuer("other-secret", time.Hour).Issue(1)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing HS384 token: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{
		Subject: "1",
		Issuer:  tokenIssuer,
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token without expiry: %v", err)
	}

	badSubject, err := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{
		Subject:   "ann",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token with bad subject: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", foreign},
		{"wrong algorithm", hs384},
		{"no expiry", noExpiry},
		{"non-numeric subject", badSubject},
		{"garbage", "abc.def.ghi"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Parse(tt.token)
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("Parse() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer abc", "abc"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"missing", "", ""},
		{"basic scheme", "Basic abc", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := bearerToken(req); got != tt.want {
				t.Errorf("bearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireAuth_NoCredential(t *testing.T) {
	blog := setupTestBlog(t)

	handlerCalled := false
	handler := blog.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	if handlerCalled {
		t.Error("expected handler not to be called without auth")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireAuth_ValidCredential(t *testing.T) {
	blog := setupTestBlog(t)
	token := registerAndLogin(t, blog.routes(), "ann@example.com", false)

	var current *User
	handler := blog.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		current = userFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if current == nil || current.Email != "ann@example.com" {
		t.Errorf("expected ann in request context, got %+v", current)
	}
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	blog := setupTestBlog(t)
	token, _ := NewTokenIssuer("test-secret", time.Hour).Issue(99)

	handlerCalled := false
	handler := blog.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler(w, req)

	if handlerCalled {
		t.Error("expected handler not to be called for an unknown user")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
