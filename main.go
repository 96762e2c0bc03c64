package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/usergraph/internal/authz"
	"github.com/msomdec/usergraph/internal/avatar"
	"github.com/msomdec/usergraph/internal/config"
	"github.com/msomdec/usergraph/internal/credential"
	"github.com/msomdec/usergraph/internal/domain"
	"github.com/msomdec/usergraph/internal/handler"
	"github.com/msomdec/usergraph/internal/repository"
	"github.com/msomdec/usergraph/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	ctx := context.Background()

	db, err := repository.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.DatabaseDriver)

	passwords, err := credential.NewPasswords(cfg.SaltRounds)
	if err != nil {
		slog.Error("invalid password hashing cost", "error", err)
		os.Exit(1)
	}
	tokens, err := credential.NewTokens(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		slog.Error("invalid token settings", "error", err)
		os.Exit(1)
	}

	var avatars domain.AvatarStore
	if cfg.S3.Enabled() {
		store, err := avatar.New(ctx, avatar.Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicBaseURL,
			UploadTTL:     cfg.S3.UploadTTL,
		})
		if err != nil {
			slog.Error("failed to configure avatar storage", "error", err)
			os.Exit(1)
		}
		avatars = store
		slog.Info("avatar storage enabled", "bucket", cfg.S3.Bucket)
	}

	social := service.NewSocialService(db.Users(), db.Follows(), passwords, tokens, avatars)

	limiter := service.NewTokenBucket(cfg.LoginRate, float64(cfg.LoginBurst))
	defer limiter.Close()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Social:        social,
		Authenticator: handler.NewAuthenticator(authz.NewGate(tokens), cfg.TrustUserIDHeader),
		LoginLimiter:  limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "trust_user_id_header", cfg.TrustUserIDHeader)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
