// Package repository persists the session journal: performers, compositions,
// jam sessions and their events.
package repository

import (
	"context"

	"github.com/okian/synthorbit/internal/domain/model"
	"github.com/okian/synthorbit/internal/domain/types"
)

// Store provides read/write access to the journal. Every method is a single
// statement; there are no multi-step transactions.
type Store interface {
	// InsertPerformer stores p and fills its ID and CreatedAt.
	InsertPerformer(ctx context.Context, p *model.Performer) error

	// InsertComposition stores c and fills its ID and CreatedAt.
	// The performer reference is not checked.
	InsertComposition(ctx context.Context, c *model.Composition) error
	// ListCompositions returns up to limit summaries, newest id first.
	ListCompositions(ctx context.Context, limit int) ([]types.CompositionSummary, error)
	// GetComposition returns ErrNotFound when no row has id.
	GetComposition(ctx context.Context, id int64) (model.Composition, error)

	// InsertSession stores an open session and fills its ID and StartedAt.
	InsertSession(ctx context.Context, s *model.JamSession) error
	// EndSession stamps ended_at and overwrites the summary. It returns the
	// number of rows changed, which is 0 for unknown ids.
	EndSession(ctx context.Context, id int64, summary model.SessionSummary) (int64, error)
	// GetSession returns ErrNotFound when no row has id.
	GetSession(ctx context.Context, id int64) (model.JamSession, error)

	// InsertEvent appends e and fills its ID and CreatedAt.
	// The session reference is not checked.
	InsertEvent(ctx context.Context, e *model.SynthEvent) error
	// ListEvents returns up to limit events of a session in insertion order.
	ListEvents(ctx context.Context, sessionID int64, limit int) ([]model.SynthEvent, error)

	// Leaderboard ranks every performer by finalized session totals.
	Leaderboard(ctx context.Context, limit int) ([]types.LeaderEntry, error)
	// Totals counts the rows of each journal table.
	Totals(ctx context.Context) (types.GlobalStats, error)

	// Ping checks the database is reachable.
	Ping(ctx context.Context) error
	// Close releases the connection pool.
	Close() error
}
