package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/puzzlequest/internal/api"
	"github.com/vytor/puzzlequest/internal/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log := logger.New(
				logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
				logger.WithColors(true),
			)
			logger.SetDefault(log)

			log.Info("===========================================")
			log.Info("PuzzleQuest Server Starting")
			log.Info("===========================================")
			log.Debug("addr=%s", cfg.Addr)
			log.Debug("db_path=%s", cfg.DBPath)
			log.Debug("log_level=%s", cfg.LogLevel)
			log.Debug("puzzle_source=%s", cfg.PuzzleSource)
			log.Debug("session_idle_minutes=%d", cfg.SessionIdleMinutes)
			log.Debug("cors_origins=%v", cfg.CORSOrigins)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = logger.NewContext(ctx, log)

			a, err := newApp(ctx, cfg)
			if err != nil {
				log.Error("failed to start: %v", err)
				return err
			}
			defer func() {
				log.Debug("closing database connection")
				a.Close()
			}()

			srv := &api.Server{
				DB:                 a.db,
				Hub:                a.hub,
				UserService:        a.users,
				ProgressionService: a.progression,
				DailyService:       a.daily,
				ReportService:      a.reports,
				CORSOrigins:        cfg.CORSOrigins,
			}

			httpServer := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("HTTP server listening on %s", cfg.Addr)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					log.Error("HTTP server error: %v", err)
					return err
				}
			case <-ctx.Done():
				log.Info("received shutdown signal, initiating graceful shutdown")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			log.Debug("shutting down HTTP server")
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error: %v", err)
			}

			log.Info("===========================================")
			log.Info("PuzzleQuest Server Stopped")
			log.Info("===========================================")
			return nil
		},
	}
}
