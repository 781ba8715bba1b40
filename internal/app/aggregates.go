package service

import (
	"context"

	"github.com/okian/synthorbit/internal/domain/types"
)

// Leaderboard ranks performers by the totals of their ended sessions:
// notes, then hits, then session count, all descending. limit <= 0 means the
// default size; larger requests are capped.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.LeaderEntry, error) {
	const op = "leaderboard"
	store, err := s.repo(op)
	if err != nil {
		return nil, err
	}

	leaders, err := store.Leaderboard(ctx, clampLimit(limit, s.leaderboardLimit, s.maxLeaderboardLimit))
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return leaders, nil
}

// GlobalStats counts performers, compositions, sessions and events.
func (s *Service) GlobalStats(ctx context.Context) (types.GlobalStats, error) {
	const op = "global_stats"
	store, err := s.repo(op)
	if err != nil {
		return types.GlobalStats{}, err
	}

	stats, err := store.Totals(ctx)
	if err != nil {
		return types.GlobalStats{}, s.fail(ctx, op, err)
	}
	return stats, nil
}
