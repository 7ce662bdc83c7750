package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"moblind/internal/config"
	"moblind/internal/database"
	"moblind/internal/logging"
	"moblind/internal/mail"
	"moblind/internal/metrics"
	"moblind/internal/server"
	"moblind/internal/services"
	"moblind/internal/session"
	"moblind/internal/util"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	sweepInterval   = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.App.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if err := validateSecrets(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Info("starting",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.Bool("debug", cfg.App.Debug),
		zap.String("host", cfg.App.Host),
		zap.String("port", cfg.App.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Init(logger.Named("database")); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		logger.Info("closing database connections")
		if err := database.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
		}
	}()
	db := database.GetDB()

	sessions, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sessions.Close()

	sender, err := mail.NewSender(&cfg.Email, logger.Named("mail"))
	if err != nil {
		return fmt.Errorf("failed to configure email: %w", err)
	}
	dispatcher := mail.NewDispatcher(sender, logger.Named("mail"))
	// Runs before the database closes so queued notifications still go out.
	defer dispatcher.Close()

	tokens, err := util.NewTokens(&cfg.Auth)
	if err != nil {
		return err
	}

	inquiries := services.NewInquiryService(db, dispatcher, cfg.Email.InquiryTo, logger)
	srv := server.New(cfg, server.Services{
		Form:      services.NewFormService(sessions, inquiries, logger),
		Inquiries: inquiries,
		Auth:      services.NewAuthService(db, tokens, logger),
		Health:    services.NewHealthService(db, cfg.App.Name),
	}, logger)

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received, starting graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("shutdown timeout exceeded, forcing close")
			_ = httpServer.Close()
		}
	}

	logger.Info("server shutdown complete")
	return nil
}

// openSessionStore builds the configured session store. The memory store
// gets a janitor that also reports the live session count.
func openSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, error) {
	ttl := cfg.Session.SessionTTL()
	log := logger.Named("session")

	if cfg.Session.Store == "redis" {
		store, err := session.NewRedisStore(ctx, cfg.Session.RedisURL, ttl, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect session store: %w", err)
		}
		log.Info("using redis session store", zap.Duration("ttl", ttl))
		return store, nil
	}

	store := session.NewMemoryStore(ttl, log)
	go store.RunJanitor(ctx, sweepInterval, metrics.SetActiveSessions)
	log.Info("using in-memory session store", zap.Duration("ttl", ttl))
	return store, nil
}

// validateSecrets refuses to start with the placeholder signing key
func validateSecrets(cfg *config.Config) error {
	if cfg.Auth.SecretKey == "" || cfg.Auth.SecretKey == "your-secret-key-change-in-production" {
		return fmt.Errorf("SECRET_KEY must be set and changed from default value")
	}
	if len(cfg.Auth.SecretKey) < 32 {
		return fmt.Errorf("SECRET_KEY must be at least 32 characters for security")
	}
	return nil
}
