package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/synthorbit/internal/domain/model"
)

// InsertSession stores an open session and fills its ID and StartedAt.
func (s *SQLiteStore) InsertSession(ctx context.Context, js *model.JamSession) (err error) {
	defer observe("insert_session", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return err
	}

	startedAt := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jam_sessions (performer_id, started_at) VALUES (?, ?)`,
		js.PerformerID, startedAt.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read session id: %w", err)
	}
	js.ID, js.StartedAt, js.EndedAt = id, startedAt, nil
	js.TotalHits, js.TotalNotes, js.AvgFrequency = 0, 0, 0
	return nil
}

// EndSession stamps ended_at and overwrites the summary whether or not the
// session was still open. Unknown ids change nothing and report 0 rows.
func (s *SQLiteStore) EndSession(ctx context.Context, id int64, summary model.SessionSummary) (n int64, err error) {
	defer observe("end_session", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE jam_sessions
		SET ended_at = ?, total_hits = ?, total_notes = ?, avg_frequency = ?
		WHERE id = ?`,
		s.stamp().String(), summary.TotalHits, summary.TotalNotes, summary.AvgFrequency, id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to end session: %w", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

// GetSession returns ErrNotFound when no row has id.
func (s *SQLiteStore) GetSession(ctx context.Context, id int64) (js model.JamSession, err error) {
	defer observe("get_session", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return model.JamSession{}, err
	}

	var (
		startedAt string
		endedAt   sql.NullString
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT id, performer_id, started_at, ended_at,
		       COALESCE(total_hits, 0), COALESCE(total_notes, 0), COALESCE(avg_frequency, 0)
		FROM jam_sessions WHERE id = ?`, id,
	).Scan(&js.ID, &js.PerformerID, &startedAt, &endedAt, &js.TotalHits, &js.TotalNotes, &js.AvgFrequency)
	if errors.Is(err, sql.ErrNoRows) {
		return model.JamSession{}, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.JamSession{}, fmt.Errorf("failed to get session: %w", err)
	}

	if js.StartedAt, err = parseTimestamp("started_at", startedAt); err != nil {
		return model.JamSession{}, err
	}
	if endedAt.Valid {
		ended, err := parseTimestamp("ended_at", endedAt.String)
		if err != nil {
			return model.JamSession{}, err
		}
		js.EndedAt = &ended
	}
	return js, nil
}
