package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/synthorbit/internal/domain/types"
)

// Leaderboard ranks every performer by the summaries of their sessions.
// Performers without sessions appear with zeros. Open sessions contribute
// their default zero totals; raw events never count.
func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) (out []types.LeaderEntry, err error) {
	defer observe("leaderboard", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.dni,
		       COUNT(s.id) AS sessions,
		       COALESCE(SUM(s.total_hits), 0) AS hits,
		       COALESCE(SUM(s.total_notes), 0) AS notes
		FROM performers p
		LEFT JOIN jam_sessions s ON s.performer_id = p.id
		GROUP BY p.id
		ORDER BY notes DESC, hits DESC, sessions DESC, p.id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	out = make([]types.LeaderEntry, 0, limit)
	for rows.Next() {
		var e types.LeaderEntry
		if err := rows.Scan(&e.PerformerID, &e.Name, &e.DNI, &e.Sessions, &e.Hits, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return out, nil
}

// Totals counts the rows of each journal table in one statement.
func (s *SQLiteStore) Totals(ctx context.Context) (st types.GlobalStats, err error) {
	defer observe("totals", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return types.GlobalStats{}, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
		    (SELECT COUNT(*) FROM performers),
		    (SELECT COUNT(*) FROM compositions),
		    (SELECT COUNT(*) FROM jam_sessions),
		    (SELECT COUNT(*) FROM synth_events)`,
	).Scan(&st.Performers, &st.Compositions, &st.Sessions, &st.Events)
	if err != nil {
		return types.GlobalStats{}, fmt.Errorf("failed to count totals: %w", err)
	}
	return st, nil
}
