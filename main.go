package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

type Blog struct {
	store    Store
	identity *Identity
	posts    *PostService
	log      *slog.Logger
}

func NewBlog(store Store, tokens *TokenIssuer, logger *slog.Logger) *Blog {
	return &Blog{
		store:    store,
		identity: NewIdentity(store, tokens),
		posts:    NewPostService(store),
		log:      logger,
	}
}

func (b *Blog) routes() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /register", b.Register)
	mux.HandleFunc("POST /login", b.Login)
	mux.HandleFunc("GET /posts", b.ListPosts)
	mux.HandleFunc("GET /posts/{id}", b.GetPost)
	mux.HandleFunc("GET /healthz", b.Health)

	// Protected routes
	mux.HandleFunc("POST /posts", b.requireAuth(b.CreatePost))
	mux.HandleFunc("PUT /posts/{id}", b.requireAuth(b.UpdatePost))
	mux.HandleFunc("DELETE /posts/{id}", b.requireAuth(b.DeletePost))

	return b.logRequests(mux)
}

func main() {
	settings, err := loadSettings()
	if err != nil {
		log.Fatalf("loading settings: %v", err)
	}

	logger := newLogger(settings.Env, os.Stdout)
	slog.SetDefault(logger)

	if settings.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, using a random secret; credentials will not survive a restart")
		settings.JWTSecret, err = generateToken()
		if err != nil {
			log.Fatalf("generating secret: %v", err)
		}
	}

	db, err := openDB(settings.DatabasePath)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err = initDB(db); err != nil {
		log.Fatalf("initializing database: %v", err)
	}

	store := newSQLiteStore(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = seedAdmin(ctx, store, settings.AdminUsername, settings.AdminEmail, settings.AdminPassword); err != nil {
		log.Fatalf("seeding admin: %v", err)
	}

	blog := NewBlog(store, NewTokenIssuer(settings.JWTSecret, settings.TokenTTL), logger)

	srv := &http.Server{
		Addr:         settings.Addr,
		Handler:      blog.routes(),
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
		IdleTimeout:  settings.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", settings.Addr, "env", settings.Env)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
		}
		return
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutting down server", "error", err)
	}
}
