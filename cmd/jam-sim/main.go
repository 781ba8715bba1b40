package main

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/okian/synthorbit/internal/jamsim"
	"github.com/okian/synthorbit/pkg/logger"

	"github.com/spf13/cobra"
)

// Default configuration constants.
const (
	defaultPerformers  = 20
	defaultSessions    = 3
	defaultEvents      = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &jamsim.Config{}
	var logFormat string

	cmd := &cobra.Command{
		Use:           "jam-sim",
		Short:         "Play simulated jam sessions against a SynthOrbit server and verify the results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithFormat(logFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			if cfg.Verbose {
				return logger.SetLevelString("debug")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultTestTimeout)
			defer cancel()
			_, err := jamsim.Run(ctx, cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:5080", "Base URL of the service")
	f.IntVar(&cfg.Performers, "performers", defaultPerformers, "Number of performers to register")
	f.IntVar(&cfg.SessionsPerPerformer, "sessions", defaultSessions, "Sessions played by each performer")
	f.IntVar(&cfg.EventsPerSession, "events", defaultEvents, "Events appended per session")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent sessions")
	f.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.Uint64Var(&cfg.Seed, "seed", 0, "Seed for the session plan (0 picks one)")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every session")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	return cmd
}
