package main

import (
	"fmt"
	"time"

	app "github.com/okian/synthorbit/internal/app"
	"github.com/okian/synthorbit/internal/config"
	"github.com/okian/synthorbit/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config //nolint:gochecknoglobals // loaded once by the root command
	envFile string         //nolint:gochecknoglobals // flag
)

// rootCmd runs the server when called without a subcommand.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // cobra command tree
	Use:           "synthorbit",
	Short:         "Session journal and leaderboard server for the SynthOrbit instrument",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() { //nolint:gochecknoinits // cobra wiring
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, versionCmd)
}

// setup loads configuration (dotenv -> defaults -> optional file -> env) and
// initializes logging.
func setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	loaded, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// newService builds the journal service from the loaded configuration.
func newService(seed bool) *app.Service {
	return app.New(
		app.WithLogger(logger.Named("journal")),
		app.WithDBPath(cfg.DBPath),
		app.WithMaxOpenConns(cfg.DBMaxOpenConns),
		app.WithBusyTimeout(time.Duration(cfg.DBBusyTimeoutMS)*time.Millisecond),
		app.WithLeaderboardLimits(cfg.LeaderboardLimit, cfg.MaxLeaderboardLimit),
		app.WithCompositionListLimit(cfg.CompositionListLimit),
		app.WithSessionEventsLimit(cfg.SessionEventsLimit),
		app.WithSeedDemo(seed),
	)
}
