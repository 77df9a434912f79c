package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/timetrack/internal/config"
	"github.com/dukerupert/timetrack/internal/database"
	"github.com/dukerupert/timetrack/internal/handler"
	"github.com/dukerupert/timetrack/internal/logging"
	"github.com/dukerupert/timetrack/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.SecretKey == config.DefaultSecretKey {
		logger.Warn("using the development secret key, set SECRET_KEY in production")
	}

	db, err := database.Open(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	logger.Info("database ready", "url", config.MaskDatabaseURL(cfg.Database.URL), "dialect", db.Dialect)

	srv := server.New(db, server.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Info: handler.SystemInfo{
			DatabaseURL:          config.MaskDatabaseURL(cfg.Database.URL),
			Dialect:              string(db.Dialect),
			SecretKeyFingerprint: cfg.SecretFingerprint(),
		},
	}, logger)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", "http://localhost"+cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
