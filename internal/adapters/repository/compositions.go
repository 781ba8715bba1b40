package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/synthorbit/internal/domain/model"
	"github.com/okian/synthorbit/internal/domain/types"
)

// InsertComposition stores c and fills its ID and CreatedAt.
func (s *SQLiteStore) InsertComposition(ctx context.Context, c *model.Composition) (err error) {
	defer observe("insert_composition", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return err
	}

	createdAt := s.stamp()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO compositions (performer_id, title, bpm, synth_type, grid_json, scene_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.PerformerID, c.Title, c.BPM, c.SynthType, string(c.Grid), string(c.Scene), createdAt.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert composition: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read composition id: %w", err)
	}
	c.ID, c.CreatedAt = id, createdAt
	return nil
}

// ListCompositions returns up to limit summaries, newest id first. Compositions
// whose performer row is missing are left out by the join.
func (s *SQLiteStore) ListCompositions(ctx context.Context, limit int) (out []types.CompositionSummary, err error) {
	defer observe("list_compositions", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.bpm, c.synth_type, c.created_at, p.name, p.dni
		FROM compositions c
		JOIN performers p ON p.id = c.performer_id
		ORDER BY c.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list compositions: %w", err)
	}
	defer rows.Close()

	out = make([]types.CompositionSummary, 0, limit)
	for rows.Next() {
		var (
			row       types.CompositionSummary
			createdAt string
		)
		if err := rows.Scan(&row.ID, &row.Title, &row.BPM, &row.SynthType, &createdAt, &row.PerformerName, &row.DNI); err != nil {
			return nil, fmt.Errorf("failed to scan composition: %w", err)
		}
		if row.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate compositions: %w", err)
	}
	return out, nil
}

// GetComposition returns ErrNotFound when no row has id.
func (s *SQLiteStore) GetComposition(ctx context.Context, id int64) (c model.Composition, err error) {
	defer observe("get_composition", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return model.Composition{}, err
	}

	var grid, scene, createdAt string
	err = s.db.QueryRowContext(ctx, `
		SELECT id, performer_id, title, bpm, synth_type, grid_json, scene_json, created_at
		FROM compositions WHERE id = ?`, id,
	).Scan(&c.ID, &c.PerformerID, &c.Title, &c.BPM, &c.SynthType, &grid, &scene, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Composition{}, fmt.Errorf("composition %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Composition{}, fmt.Errorf("failed to get composition: %w", err)
	}
	c.Grid, c.Scene = []byte(grid), []byte(scene)
	if c.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return model.Composition{}, err
	}
	return c, nil
}
