// Package service implements the session journal operations used by the
// HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	repository "github.com/okian/synthorbit/internal/adapters/repository"
	"github.com/okian/synthorbit/pkg/logger"
	"github.com/okian/synthorbit/pkg/metrics"
)

// Service owns the journal store and applies the domain rules on top of it.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	ownsStore bool

	// Configuration
	dbPath               string
	maxOpenConns         int
	busyTimeout          time.Duration
	leaderboardLimit     int
	maxLeaderboardLimit  int
	compositionListLimit int
	sessionEventsLimit   int
	seedDemo             bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDBPath sets the SQLite file opened on Start.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithMaxOpenConns caps the SQLite connection pool.
func WithMaxOpenConns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// WithStore injects an already migrated store. The service will not close it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLeaderboardLimits sets the default leaderboard size and the largest
// size a caller may ask for.
func WithLeaderboardLimits(def, maxLimit int) Option {
	return func(s *Service) {
		if def > 0 && maxLimit >= def {
			s.leaderboardLimit = def
			s.maxLeaderboardLimit = maxLimit
		}
	}
}

// WithCompositionListLimit sets the number of compositions listed.
func WithCompositionListLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.compositionListLimit = n
		}
	}
}

// WithSessionEventsLimit caps the events returned for one session.
func WithSessionEventsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sessionEventsLimit = n
		}
	}
}

// WithSeedDemo seeds the demo composition on Start when none exist.
func WithSeedDemo(enabled bool) Option {
	return func(s *Service) {
		s.seedDemo = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:               "synth_orbit.sqlite3",
		maxOpenConns:         8,
		busyTimeout:          5 * time.Second,
		leaderboardLimit:     10,
		maxLeaderboardLimit:  100,
		compositionListLimit: 25,
		sessionEventsLimit:   1000,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens and migrates the store (unless one was injected) and seeds the
// demo data when enabled.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting journal service...", logger.String("db", s.dbPath))

	if s.store == nil {
		store, err := repository.Open(ctx, s.dbPath,
			repository.WithMaxOpenConns(s.maxOpenConns),
			repository.WithBusyTimeout(s.busyTimeout),
		)
		if err != nil {
			return storageError("start", err)
		}
		applied, err := store.Migrate(ctx)
		if err != nil {
			_ = store.Close()
			return storageError("migrate", err)
		}
		for _, name := range applied {
			s.logger.Info(ctx, "applied migration", logger.String("name", name))
		}
		s.store = store
		s.ownsStore = true
	}
	s.started = true

	if s.seedDemo {
		if _, err := s.seed(ctx); err != nil {
			s.logger.Error(ctx, "demo seed failed", logger.Error(err))
		}
	}

	s.logger.Info(ctx, "journal service started",
		logger.Int("leaderboardLimit", s.leaderboardLimit),
		logger.Int("compositionListLimit", s.compositionListLimit),
		logger.Bool("seedDemo", s.seedDemo),
	)
	return nil
}

// Stop closes the store when the service opened it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping journal service...")
	if s.ownsStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(context.Background(), "closing store failed", logger.Error(err))
		}
		s.store = nil
		s.ownsStore = false
	}
	s.started = false
	s.logger.Info(context.Background(), "journal service stopped")
}

// repo returns the store, or ErrNotStarted before Start.
func (s *Service) repo(op string) (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return nil, &Error{Op: op, Kind: ErrNotStarted, Msg: MsgInternal}
	}
	return s.store, nil
}

// HealthReport is the liveness snapshot served at /api/health.
type HealthReport struct {
	DB  string
	UTC time.Time
}

// Health pings the store and reports the database file name.
func (s *Service) Health(ctx context.Context) (HealthReport, error) {
	report := HealthReport{DB: filepath.Base(s.dbPath), UTC: time.Now().UTC()}
	store, err := s.repo("health")
	if err != nil {
		return report, err
	}
	if err := store.Ping(ctx); err != nil {
		return report, storageError("health", err)
	}
	return report, nil
}

// RefreshTotals reads the table counts into the total gauges.
func (s *Service) RefreshTotals(ctx context.Context) error {
	stats, err := s.GlobalStats(ctx)
	if err != nil {
		return err
	}
	metrics.UpdateTotals(stats.Performers, stats.Compositions, stats.Sessions, stats.Events)
	return nil
}

// clampLimit maps non-positive requests to def and caps them at maxLimit.
func clampLimit(requested, def, maxLimit int) int {
	if requested <= 0 {
		return def
	}
	return min(requested, maxLimit)
}

// fail logs and classifies a store error for op.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn(ctx, "operation canceled", logger.String("op", op), logger.Error(err))
	} else {
		s.logger.Error(ctx, "storage operation failed", logger.String("op", op), logger.Error(err))
	}
	return storageError(op, err)
}

// reject counts and wraps a validation failure for op.
func (s *Service) reject(ctx context.Context, op string, err error) error {
	metrics.RecordValidationFailure(op)
	s.logger.Debug(ctx, "rejected request", logger.String("op", op), logger.Error(err))
	return validationError(op, err)
}
