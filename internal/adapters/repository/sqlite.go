package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/synthorbit/internal/adapters/repository/migrations"
	"github.com/okian/synthorbit/internal/domain/types"
	"github.com/okian/synthorbit/pkg/metrics"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Compile-time check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is the Store backed by a single SQLite file.
type SQLiteStore struct {
	db           *sql.DB
	path         string
	maxOpenConns int
	busyTimeout  time.Duration
	now          func() time.Time
}

// Open opens (creating if needed) the database at path. Call Migrate before use
// on a fresh file.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidPath
	}
	s := &SQLiteStore{
		path:         filepath.Clean(path),
		maxOpenConns: 8,
		busyTimeout:  5 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	s.db = db
	return s, nil
}

// dsn applies pragmas on every pooled connection. Foreign keys stay off:
// sessions, events and compositions may reference rows that do not exist.
func (s *SQLiteStore) dsn() string {
	return fmt.Sprintf(
		"%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(0)",
		s.path, s.busyTimeout.Milliseconds(),
	)
}

// Migrate applies the embedded schema migrations and returns the names applied.
func (s *SQLiteStore) Migrate(ctx context.Context) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return ApplyMigrations(ctx, s.db, migrations.FS)
}

// Path returns the cleaned database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Ping checks the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.db.PingContext(ctx)
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrNotConfigured
	}
	return nil
}

func (s *SQLiteStore) stamp() types.Timestamp {
	return types.NewTimestamp(s.now())
}

// observe is deferred by every operation to record latency and failures.
func observe(op string, start time.Time, errp *error) {
	err := *errp
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.ObserveStorage(op, start, err)
}

func parseTimestamp(column, value string) (types.Timestamp, error) {
	ts, err := types.ParseTimestamp(value)
	if err != nil {
		return types.Timestamp{}, fmt.Errorf("decode %s: %w", column, err)
	}
	return ts, nil
}
