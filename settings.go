package main

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Settings struct {
	Env          string        `env:"APP_ENV" env-default:"local"`
	Addr         string        `env:"ADDR" env-default:":8080"`
	DatabasePath string        `env:"DATABASE_PATH" env-default:"blog.db"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" env-default:"24h"`

	AdminUsername string `env:"ADMIN_USER" env-default:"admin"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASS"`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// loadSettings reads .env files, if any, and then the process environment.
// Variables already set in the environment win over .env entries.
func loadSettings(files ...string) (*Settings, error) {
	godotenv.Load(files...)

	var s Settings
	if err := cleanenv.ReadEnv(&s); err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	switch s.Env {
	case envLocal, envDev, envProd:
	default:
		return nil, fmt.Errorf("APP_ENV must be %q, %q or %q, got %q", envLocal, envDev, envProd, s.Env)
	}

	if s.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", s.TokenTTL)
	}

	return &s, nil
}
