package jamsim

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/synthorbit/pkg/logger"
)

// verify checks the server's aggregates against what the run sent.
func verify(ctx context.Context, c *client, plans []performerPlan, ids []int64, sessionIDs [][]int64,
	before globalStats, stats *Stats, log logger.Logger,
) error {
	log.Info(ctx, "verifying results")

	var after globalStats
	if err := fetchStats(ctx, c, &after); err != nil {
		return err
	}

	var leaders struct {
		Leaders []leader `json:"leaders"`
	}
	if err := c.get(ctx, leaderboardPath(int(after.Performers)), &leaders); err != nil {
		return fmt.Errorf("fetch leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(leaders.Leaders)

	errs := []error{
		verifyStats(plans, before, after, stats),
		verifyOrder(leaders.Leaders),
		verifyLeaders(plans, ids, leaders.Leaders, int(after.Performers)),
		verifyTimeline(ctx, c, plans, sessionIDs, stats),
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}

	displayTopPerformers(ctx, log, leaders.Leaders)
	log.Info(ctx, "result verification completed")
	return nil
}

// verifyStats compares the global count deltas with what was written.
func verifyStats(plans []performerPlan, before, after globalStats, stats *Stats) error {
	var sessions int64
	for _, p := range plans {
		sessions += int64(len(p.Sessions))
	}
	want := globalStats{
		Performers:   before.Performers + int64(len(plans)),
		Compositions: before.Compositions + int64(stats.CompositionsSaved),
		Sessions:     before.Sessions + sessions,
		Events:       before.Events + int64(stats.EventsSubmitted-stats.EventsFailed),
	}
	if after != want {
		return fmt.Errorf("stats = %+v, want %+v", after, want)
	}
	return nil
}

// verifyOrder checks notes desc, then hits desc, then sessions desc, then id asc.
func verifyOrder(leaders []leader) error {
	for i := 1; i < len(leaders); i++ {
		if !ranksBefore(leaders[i-1], leaders[i]) {
			return fmt.Errorf("leaderboard not properly sorted at position %d (id %d before id %d)",
				i, leaders[i-1].ID, leaders[i].ID)
		}
	}
	return nil
}

func ranksBefore(a, b leader) bool {
	switch {
	case a.Notes != b.Notes:
		return a.Notes > b.Notes
	case a.Hits != b.Hits:
		return a.Hits > b.Hits
	case a.Sessions != b.Sessions:
		return a.Sessions > b.Sessions
	default:
		return a.ID < b.ID
	}
}

// verifyLeaders checks every simulated performer on the page carries the
// totals its sessions reported. When the page holds every performer, all of
// ours must be present.
func verifyLeaders(plans []performerPlan, ids []int64, leaders []leader, totalPerformers int) error {
	want := make(map[int64]leader, len(plans))
	for i, p := range plans {
		want[ids[i]] = p.expected(ids[i])
	}

	seen := 0
	for _, got := range leaders {
		exp, ok := want[got.ID]
		if !ok {
			continue
		}
		seen++
		if got != exp {
			return fmt.Errorf("leader %d = %+v, want %+v", got.ID, got, exp)
		}
	}
	if totalPerformers <= leaderboardCap && seen != len(plans) {
		return fmt.Errorf("leaderboard lists %d of %d simulated performers", seen, len(plans))
	}
	return nil
}

// verifyTimeline reads back the first session and checks its events kept
// their append order.
func verifyTimeline(ctx context.Context, c *client, plans []performerPlan, sessionIDs [][]int64, stats *Stats) error {
	if stats.EventsFailed > 0 || len(plans) == 0 || len(sessionIDs[0]) == 0 {
		return nil
	}
	plan := plans[0].Sessions[0]
	var resp struct {
		Events []struct {
			EventType string  `json:"event_type"`
			Note      *string `json:"note"`
		} `json:"events"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/sessions/%d/events", sessionIDs[0][0]), &resp); err != nil {
		return fmt.Errorf("fetch timeline: %w", err)
	}
	if len(resp.Events) != len(plan.Events) {
		return fmt.Errorf("timeline has %d events, want %d", len(resp.Events), len(plan.Events))
	}
	for i, e := range resp.Events {
		if e.EventType != plan.Events[i].EventType {
			return fmt.Errorf("timeline event %d is %q, want %q", i, e.EventType, plan.Events[i].EventType)
		}
	}
	return nil
}

// displayTopPerformers logs the head of the leaderboard.
func displayTopPerformers(ctx context.Context, log logger.Logger, leaders []leader) {
	topN := min(10, len(leaders))
	for i := range topN {
		l := leaders[i]
		log.Info(ctx, "leader",
			logger.Int("rank", i+1),
			logger.String("name", l.Name),
			logger.Int64("notes", l.Notes),
			logger.Int64("hits", l.Hits),
			logger.Int64("sessions", l.Sessions))
	}
}
