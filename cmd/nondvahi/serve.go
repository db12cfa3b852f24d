package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gramarogya/nondvahi/internal/server"
)

const (
	sessionCleanupInterval = time.Hour
	rateLimitCleanup       = 5 * time.Minute
	shutdownTimeout        = 10 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := server.New(a.cfg, db, a.logger)
	if err != nil {
		return err
	}

	go srv.RateLimiter().RunCleanup(ctx, rateLimitCleanup)
	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := srv.SessionStore().DeleteExpired()
				if err != nil {
					a.logger.Error("session cleanup", "error", err)
					continue
				}
				if n > 0 {
					a.logger.Info("expired sessions removed", "count", n)
				}
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server started", "addr", httpServer.Addr, "driver", a.cfg.Database.Driver,
			"backups", srv.BackupManager().Enabled())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
