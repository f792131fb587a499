package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/config"
	"github.com/vytor/puzzlequest/internal/db"
	"github.com/vytor/puzzlequest/internal/events"
	"github.com/vytor/puzzlequest/internal/logger"
	"github.com/vytor/puzzlequest/internal/puzzles"
	"github.com/vytor/puzzlequest/internal/repository/sqlite"
	"github.com/vytor/puzzlequest/internal/services"
	"github.com/vytor/puzzlequest/internal/store"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "puzzlequest",
		Short:        "Daily brain puzzles with IQ estimates, levels and streaks",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DB_PATH env var)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newResetCmd())
	return root
}

// loadConfig reads the environment and applies the --db flag on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, cfg.Validate()
}

// app bundles the services a command works with.
type app struct {
	cfg         config.Config
	db          *db.DB
	store       *store.Store
	clock       clock.Clock
	hub         *events.Hub
	users       services.UserService
	progression services.ProgressionService
	daily       services.DailyService
	reports     services.ReportService
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	log := logger.FromContext(ctx)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	c := clock.System()
	st := store.New(sqlite.NewRecordRepository(database.DB))

	var source puzzles.Source = puzzles.NewStaticSource(c)
	if cfg.PuzzleSource == config.SourceGemini {
		gemini, err := puzzles.NewGeminiSource(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, c)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		source = gemini
	}
	log.Debug("puzzle source: %s", cfg.PuzzleSource)

	hub := events.NewHub(cfg.EventBuffer)
	idle := time.Duration(cfg.SessionIdleMinutes) * time.Minute
	progression := services.NewProgressionService(st, c, hub, idle)

	return &app{
		cfg:         cfg,
		db:          database,
		store:       st,
		clock:       c,
		hub:         hub,
		users:       services.NewUserService(st, c, hub),
		progression: progression,
		daily:       services.NewDailyService(st, source, progression, c),
		reports:     services.NewReportService(st, c),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// openApp loads configuration and opens the app for a one-shot command.
// Logs go to stderr so stdout stays readable.
func openApp(cmd *cobra.Command) (context.Context, *app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	level := logger.ParseLevel(cfg.LogLevel)
	if level < logger.WARN {
		level = logger.WARN
	}
	log := logger.New(logger.WithOutput(cmd.ErrOrStderr()), logger.WithLevel(level), logger.WithColors(false))
	logger.SetDefault(log)

	ctx := logger.NewContext(cmd.Context(), log)
	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ctx, a, nil
}
