package jamsim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/synthorbit/pkg/logger"
)

// leaderboardCap is the largest page the server hands out.
const leaderboardCap = 100

// Run registers performers, plays their sessions concurrently, saves one
// composition each and then checks the leaderboard and stats against what
// was sent. It assumes no other client writes to the server meanwhile.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	log := logger.Named("jamsim")
	stats := &Stats{StartTime: time.Now()}
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting jam simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("performers", cfg.Performers),
		logger.Int("sessionsPerPerformer", cfg.SessionsPerPerformer),
		logger.Int("eventsPerSession", cfg.EventsPerSession),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed))

	// Step 1: Check service health
	if err := c.get(ctx, "/api/health", nil); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	var before globalStats
	if err := fetchStats(ctx, c, &before); err != nil {
		return stats, err
	}

	// Step 2: Plan and register performers
	runID := fmt.Sprintf("%06X", time.Now().UnixNano()&0xffffff)
	plans := generatePlans(cfg, runID)
	ids, err := registerAll(ctx, c, plans)
	if err != nil {
		return stats, err
	}
	stats.PerformersRegistered = len(ids)

	// Step 3: Play sessions concurrently
	sessionIDs, err := playAll(ctx, c, cfg, plans, ids, stats, log)
	if err != nil {
		return stats, err
	}

	// Step 4: Save compositions
	for i, p := range plans {
		comp := p.Composition
		comp.PerformerID = ids[i]
		if err := c.post(ctx, "/api/compositions", comp, nil); err != nil {
			return stats, fmt.Errorf("save composition: %w", err)
		}
		stats.CompositionsSaved++
	}

	// Step 5: Verify results
	if err := verify(ctx, c, plans, ids, sessionIDs, before, stats, log); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

func fetchStats(ctx context.Context, c *client, out *globalStats) error {
	var resp struct {
		Stats globalStats `json:"stats"`
	}
	if err := c.get(ctx, "/api/stats", &resp); err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}
	*out = resp.Stats
	return nil
}

func registerAll(ctx context.Context, c *client, plans []performerPlan) ([]int64, error) {
	ids := make([]int64, len(plans))
	for i, p := range plans {
		var resp struct {
			PerformerID int64 `json:"performerId"`
		}
		if err := c.post(ctx, "/api/performers/register", map[string]string{"name": p.Name, "dni": p.DNI}, &resp); err != nil {
			return nil, fmt.Errorf("register %s: %w", p.DNI, err)
		}
		ids[i] = resp.PerformerID
	}
	return ids, nil
}

type sessionJob struct {
	performer int
	session   int
}

// playAll runs every planned session through a worker pool and returns the
// session ids indexed like the plans.
func playAll(ctx context.Context, c *client, cfg *Config, plans []performerPlan, ids []int64, stats *Stats, log logger.Logger) ([][]int64, error) {
	sessionIDs := make([][]int64, len(plans))
	for i, p := range plans {
		sessionIDs[i] = make([]int64, len(p.Sessions))
	}

	var (
		submitted int64
		failed    int64
		played    int64
		firstErr  error
		errOnce   sync.Once
	)

	jobs := make(chan sessionJob, cfg.Workers*2)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				plan := plans[job.performer].Sessions[job.session]
				id, sent, bad, err := playSession(ctx, c, ids[job.performer], plan)
				atomic.AddInt64(&submitted, int64(sent))
				atomic.AddInt64(&failed, int64(bad))
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				sessionIDs[job.performer][job.session] = id
				atomic.AddInt64(&played, 1)
				if cfg.Verbose {
					log.Info(ctx, "session played",
						logger.Int64("sessionId", id),
						logger.Int64("totalHits", plan.TotalHits),
						logger.Int64("totalNotes", plan.TotalNotes))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, p := range plans {
			for j := range p.Sessions {
				select {
				case <-ctx.Done():
					return
				case jobs <- sessionJob{performer: i, session: j}:
				}
			}
		}
	}()

	wg.Wait()

	stats.SessionsPlayed = int(played)
	stats.EventsSubmitted = int(submitted)
	stats.EventsFailed = int(failed)
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sessionIDs, nil
}

// playSession starts a session, appends its events in order and ends it the
// way the browser does on page hide.
func playSession(ctx context.Context, c *client, performerID int64, plan sessionPlan) (id int64, sent, failed int, err error) {
	var start struct {
		SessionID int64 `json:"sessionId"`
	}
	if err := c.post(ctx, "/api/sessions/start", map[string]int64{"performerId": performerID}, &start); err != nil {
		return 0, 0, 0, fmt.Errorf("start session: %w", err)
	}

	for _, e := range plan.Events {
		e.SessionID = start.SessionID
		sent++
		if err := c.post(ctx, "/api/sessions/event", e, nil); err != nil {
			failed++
		}
	}

	end := map[string]any{
		"sessionId":    start.SessionID,
		"totalHits":    plan.TotalHits,
		"totalNotes":   plan.TotalNotes,
		"avgFrequency": plan.AvgFrequency,
	}
	if err := c.beacon(ctx, "/api/sessions/end", end); err != nil {
		return start.SessionID, sent, failed, fmt.Errorf("end session %d: %w", start.SessionID, err)
	}
	return start.SessionID, sent, failed, nil
}

func leaderboardPath(limit int) string {
	return "/api/leaderboard?" + url.Values{"limit": {strconv.Itoa(min(limit, leaderboardCap))}}.Encode()
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var eventsPerSecond float64
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("performersRegistered", stats.PerformersRegistered),
		logger.Int("sessionsPlayed", stats.SessionsPlayed),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("compositionsSaved", stats.CompositionsSaved),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
