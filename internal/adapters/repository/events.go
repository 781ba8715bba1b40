package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okian/synthorbit/internal/domain/model"
)

// InsertEvent appends e and fills its ID and CreatedAt. AUTOINCREMENT ids
// give the timeline order, even for concurrent appends.
func (s *SQLiteStore) InsertEvent(ctx context.Context, e *model.SynthEvent) (err error) {
	defer observe("insert_event", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return err
	}

	var note sql.NullString
	if e.Note != nil {
		note = sql.NullString{String: *e.Note, Valid: true}
	}
	createdAt := s.stamp()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO synth_events (session_id, event_type, note, frequency, velocity, payload_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.EventType, note, e.Frequency, e.Velocity, string(e.Payload), createdAt.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read event id: %w", err)
	}
	e.ID, e.CreatedAt = id, createdAt
	return nil
}

// ListEvents returns up to limit events of a session in insertion order.
func (s *SQLiteStore) ListEvents(ctx context.Context, sessionID int64, limit int) (out []model.SynthEvent, err error) {
	defer observe("list_events", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, event_type, note,
		       COALESCE(frequency, 0), COALESCE(velocity, 0), COALESCE(payload_json, '{}'), created_at
		FROM synth_events
		WHERE session_id = ?
		ORDER BY id ASC
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	out = []model.SynthEvent{}
	for rows.Next() {
		var (
			e         model.SynthEvent
			note      sql.NullString
			payload   string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.EventType, &note, &e.Frequency, &e.Velocity, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if note.Valid {
			n := note.String
			e.Note = &n
		}
		e.Payload = []byte(payload)
		if e.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return out, nil
}
