package jamsim

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/synthorbit/internal/adapters/http/api"
	service "github.com/okian/synthorbit/internal/app"
	"github.com/okian/synthorbit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func newJournalServer(t *testing.T, seed bool) *httptest.Server {
	t.Helper()
	svc := service.New(
		service.WithDBPath(filepath.Join(t.TempDir(), "journal.sqlite3")),
		service.WithSeedDemo(seed),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRun(t *testing.T) {
	Convey("Given a journal server with the demo seed", t, func() {
		ts := newJournalServer(t, true)
		cfg := &Config{
			BaseURL:              ts.URL,
			Performers:           5,
			SessionsPerPerformer: 3,
			EventsPerSession:     12,
			Workers:              4,
			Timeout:              5 * time.Second,
			Seed:                 42,
		}

		Convey("When running the simulation", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then everything sent should be accounted for", func() {
				So(err, ShouldBeNil)
				So(stats.PerformersRegistered, ShouldEqual, 5)
				So(stats.SessionsPlayed, ShouldEqual, 15)
				So(stats.EventsSubmitted, ShouldEqual, 15*12)
				So(stats.EventsFailed, ShouldEqual, 0)
				So(stats.CompositionsSaved, ShouldEqual, 5)
				So(stats.LeaderboardEntries, ShouldEqual, 6)
			})
		})

		Convey("When running it twice", func() {
			_, err1 := Run(context.Background(), cfg)
			_, err2 := Run(context.Background(), cfg)

			Convey("Then both runs should verify against the shared journal", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
			})
		})
	})
}

func TestRunErrors(t *testing.T) {
	Convey("Given an invalid config", t, func() {
		_, err := Run(context.Background(), &Config{BaseURL: "http://x", Performers: 0, SessionsPerPerformer: 1, Workers: 1})

		Convey("Then Run should refuse it", func() {
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given a server that is down", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()
		cfg := &Config{BaseURL: ts.URL, Performers: 1, SessionsPerPerformer: 1, Workers: 1, Timeout: time.Second}

		Convey("Then Run should report it unhealthy", func() {
			_, err := Run(context.Background(), cfg)
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
		})
	})
}

func TestGeneratePlans(t *testing.T) {
	Convey("Given a fixed seed", t, func() {
		cfg := &Config{Performers: 3, SessionsPerPerformer: 2, EventsPerSession: 20, Seed: 7}

		Convey("When generating plans twice", func() {
			a := generatePlans(cfg, "AAAAAA")
			b := generatePlans(cfg, "AAAAAA")

			Convey("Then they should be identical", func() {
				So(a, ShouldResemble, b)
			})

			Convey("And each session summary should match its events", func() {
				for _, p := range a {
					for _, s := range p.Sessions {
						var hits, notes int64
						for _, e := range s.Events {
							switch e.EventType {
							case "hit":
								hits++
							case "note":
								notes++
							}
						}
						So(s.TotalHits, ShouldEqual, hits)
						So(s.TotalNotes, ShouldEqual, notes)
						So(len(s.Events), ShouldEqual, 20)
					}
				}
			})
		})
	})
}

func TestRanksBefore(t *testing.T) {
	Convey("Given leaderboard rows", t, func() {
		a := leader{ID: 1, Notes: 5, Hits: 1, Sessions: 1}
		b := leader{ID: 2, Notes: 5, Hits: 1, Sessions: 1}
		c := leader{ID: 3, Notes: 5, Hits: 2, Sessions: 0}

		Convey("Then ties should fall through to hits and then id", func() {
			So(ranksBefore(c, a), ShouldBeTrue)
			So(ranksBefore(a, b), ShouldBeTrue)
			So(ranksBefore(b, a), ShouldBeFalse)
			So(verifyOrder([]leader{c, a, b}), ShouldBeNil)
			So(verifyOrder([]leader{a, c}), ShouldNotBeNil)
		})
	})
}
