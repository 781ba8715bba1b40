package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/synthorbit/internal/adapters/http/api"
	service "github.com/okian/synthorbit/internal/app"
	"github.com/okian/synthorbit/internal/domain/types"
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

// brokenStats fails GlobalStats and panics on Leaderboard; everything else
// goes to the real service.
type brokenStats struct {
	*service.Service
}

func (b brokenStats) GlobalStats(context.Context) (types.GlobalStats, error) {
	return types.GlobalStats{}, errors.New("disk on fire")
}

func (b brokenStats) Leaderboard(context.Context, int) ([]types.LeaderEntry, error) {
	panic("boom")
}

func newTestServer(t *testing.T, wrap func(*service.Service) api.Dependencies) *httptest.Server {
	t.Helper()
	svc := service.New(service.WithDBPath(filepath.Join(t.TempDir(), "journal.sqlite3")))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	var deps api.Dependencies = svc
	if wrap != nil {
		deps = wrap(svc)
	}
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func do(ts *httptest.Server, method, path, contentType, body string) (*http.Response, map[string]any) {
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	So(err, ShouldBeNil)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ts.Client().Do(req)
	So(err, ShouldBeNil)
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
	}
	return resp, out
}

func postJSON(ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	return do(ts, http.MethodPost, path, "application/json", body)
}

func get(ts *httptest.Server, path string) (*http.Response, map[string]any) {
	return do(ts, http.MethodGet, path, "", "")
}

func TestHTTP_Performers(t *testing.T) {
	Convey("Given a running API", t, func() {
		ts := newTestServer(t, nil)

		Convey("When registering a performer", func() {
			resp, body := postJSON(ts, "/api/performers/register", `{"name":" Ana ","dni":"x1"}`)

			Convey("Then it should return the normalized record", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["ok"], ShouldEqual, true)
				So(body["performerId"], ShouldEqual, 1.0)
				So(body["name"], ShouldEqual, "Ana")
				So(body["dni"], ShouldEqual, "X1")
			})
		})

		Convey("When the body is not JSON", func() {
			resp, body := postJSON(ts, "/api/performers/register", `{oops`)

			Convey("Then it should be a 400 with the required-fields message", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["ok"], ShouldEqual, false)
				So(body["error"], ShouldEqual, "Nombre y DNI obligatorios.")
			})
		})

		Convey("When the dni is a number", func() {
			resp, body := postJSON(ts, "/api/performers/register", `{"name":"Ana","dni":12345678}`)

			Convey("Then it should be accepted as text", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["dni"], ShouldEqual, "12345678")
			})
		})
	})
}

func TestHTTP_SessionFlow(t *testing.T) {
	Convey("Given a registered performer", t, func() {
		ts := newTestServer(t, nil)
		_, p := postJSON(ts, "/api/performers/register", `{"name":"Ana","dni":"X1"}`)

		Convey("When a full session is played", func() {
			resp, start := postJSON(ts, "/api/sessions/start", `{"performerId":"1"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(p["performerId"], ShouldEqual, 1.0)
			So(start["sessionId"], ShouldEqual, 1.0)

			resp, _ = postJSON(ts, "/api/sessions/event", `{"sessionId":1,"eventType":"note","note":"C4","frequency":261.63,"velocity":0.8}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			resp, _ = postJSON(ts, "/api/sessions/event", `{"sessionId":1,"eventType":"hit","payload":{"ball":2}}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			// sendBeacon posts text/plain
			resp, end := do(ts, http.MethodPost, "/api/sessions/end", "text/plain;charset=UTF-8",
				`{"sessionId":1,"totalHits":5,"totalNotes":7,"avgFrequency":300}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(end["ok"], ShouldEqual, true)

			Convey("Then the session should be closed with the summary", func() {
				resp, body := get(ts, "/api/sessions/1")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				session := body["session"].(map[string]any)
				So(session["total_hits"], ShouldEqual, 5.0)
				So(session["total_notes"], ShouldEqual, 7.0)
				So(session["ended_at"], ShouldNotBeNil)
			})

			Convey("And the events should come back in order", func() {
				resp, body := get(ts, "/api/sessions/1/events")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				events := body["events"].([]any)
				So(len(events), ShouldEqual, 2)
				first := events[0].(map[string]any)
				second := events[1].(map[string]any)
				So(first["event_type"], ShouldEqual, "note")
				So(first["note"], ShouldEqual, "C4")
				So(second["note"], ShouldBeNil)
				So(second["payload"], ShouldResemble, map[string]any{"ball": 2.0})
			})

			Convey("And the leaderboard should count it", func() {
				_, body := get(ts, "/api/leaderboard")
				leaders := body["leaders"].([]any)
				So(len(leaders), ShouldEqual, 1)
				first := leaders[0].(map[string]any)
				So(first["id"], ShouldEqual, 1.0)
				So(first["sessions"], ShouldEqual, 1.0)
				So(first["hits"], ShouldEqual, 5.0)
				So(first["notes"], ShouldEqual, 7.0)
			})

			Convey("And the stats should match", func() {
				_, body := get(ts, "/api/stats")
				stats := body["stats"].(map[string]any)
				So(stats["performers"], ShouldEqual, 1.0)
				So(stats["sessions"], ShouldEqual, 1.0)
				So(stats["events"], ShouldEqual, 2.0)
				So(stats["compositions"], ShouldEqual, 0.0)
			})
		})

		Convey("When ending a session that does not exist", func() {
			resp, body := postJSON(ts, "/api/sessions/end", `{"sessionId":999,"totalHits":1}`)

			Convey("Then it should still answer ok", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["ok"], ShouldEqual, true)
			})
		})

		Convey("When required fields are missing", func() {
			respStart, start := postJSON(ts, "/api/sessions/start", `{}`)
			respEvent, event := postJSON(ts, "/api/sessions/event", `{"sessionId":1}`)
			respEnd, end := postJSON(ts, "/api/sessions/end", `{"totalHits":3}`)

			Convey("Then each should be a 400 with its message", func() {
				So(respStart.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(start["error"], ShouldEqual, "performerId es obligatorio.")
				So(respEvent.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(event["error"], ShouldEqual, "sessionId y eventType obligatorios.")
				So(respEnd.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(end["error"], ShouldEqual, "sessionId es obligatorio.")
			})
		})

		Convey("When reading sessions by bad ids", func() {
			respMissing, missing := get(ts, "/api/sessions/42")
			respBad, _ := get(ts, "/api/sessions/abc")
			respEvents, events := get(ts, "/api/sessions/abc/events")
			respLimit, limit := get(ts, "/api/sessions/1/events?limit=-1")

			Convey("Then they should map to 404 and 400", func() {
				So(respMissing.StatusCode, ShouldEqual, http.StatusNotFound)
				So(missing["error"], ShouldEqual, "Sesión no encontrada.")
				So(respBad.StatusCode, ShouldEqual, http.StatusNotFound)
				So(respEvents.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(events["error"], ShouldEqual, "sessionId es obligatorio.")
				So(respLimit.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(limit["error"], ShouldEqual, "limit inválido.")
			})
		})
	})
}

func TestHTTP_Compositions(t *testing.T) {
	Convey("Given a registered performer", t, func() {
		ts := newTestServer(t, nil)
		postJSON(ts, "/api/performers/register", `{"name":"Ana","dni":"X1"}`)

		Convey("When saving a composition without bpm or synthType", func() {
			resp, saved := postJSON(ts, "/api/compositions",
				`{"performerId":1,"title":"Loop","grid":[[1,0],[0,1]],"scene":{"balls":[]}}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(saved["compositionId"], ShouldEqual, 1.0)

			Convey("Then reading it should return defaults and the payloads", func() {
				resp, body := get(ts, "/api/compositions/1")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				c := body["composition"].(map[string]any)
				So(c["bpm"], ShouldEqual, 100.0)
				So(c["synth_type"], ShouldEqual, "triangle")
				So(c["grid_json"], ShouldEqual, "[[1,0],[0,1]]")
				So(c["grid"], ShouldResemble, []any{[]any{1.0, 0.0}, []any{0.0, 1.0}})
				So(c["scene"], ShouldResemble, map[string]any{"balls": []any{}})
			})

			Convey("And the list should include the author", func() {
				resp, body := get(ts, "/api/compositions")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				list := body["compositions"].([]any)
				So(len(list), ShouldEqual, 1)
				So(list[0].(map[string]any)["performer_name"], ShouldEqual, "Ana")
			})
		})

		Convey("When the grid is missing", func() {
			resp, body := postJSON(ts, "/api/compositions", `{"performerId":1,"title":"Loop","scene":{}}`)

			Convey("Then it should be rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["error"], ShouldEqual, "Faltan datos para guardar composición.")
			})
		})

		Convey("When reading an unknown composition", func() {
			resp, body := get(ts, "/api/compositions/77")

			Convey("Then it should be a 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				So(body["ok"], ShouldEqual, false)
				So(body["error"], ShouldEqual, "Composición no encontrada.")
			})
		})
	})
}

func TestHTTP_Leaderboard(t *testing.T) {
	Convey("Given three performers", t, func() {
		ts := newTestServer(t, nil)
		for _, b := range []string{`{"name":"A","dni":"1"}`, `{"name":"B","dni":"2"}`, `{"name":"C","dni":"3"}`} {
			postJSON(ts, "/api/performers/register", b)
		}

		Convey("When asking for a limit", func() {
			_, body := get(ts, "/api/leaderboard?limit=2")

			Convey("Then it should be honored", func() {
				So(len(body["leaders"].([]any)), ShouldEqual, 2)
			})
		})

		Convey("When the limit is not a number", func() {
			resp, body := get(ts, "/api/leaderboard?limit=many")

			Convey("Then it should be a 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["error"], ShouldEqual, "limit inválido.")
			})
		})
	})
}

func TestHTTP_Infrastructure(t *testing.T) {
	Convey("Given a running API", t, func() {
		ts := newTestServer(t, nil)

		Convey("When checking health", func() {
			resp, body := get(ts, "/api/health")

			Convey("Then it should report the database file", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["ok"], ShouldEqual, true)
				So(body["db"], ShouldEqual, "journal.sqlite3")
				So(body["utc"], ShouldEndWith, "+00:00")
			})
		})

		Convey("When the client sends a request id", func() {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/stats", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			resp, err := ts.Client().Do(req)
			So(err, ShouldBeNil)
			resp.Body.Close()

			Convey("Then it should be echoed", func() {
				So(resp.Header.Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("When the client sends none", func() {
			resp, _ := get(ts, "/api/stats")

			Convey("Then one should be minted", func() {
				So(len(resp.Header.Get(api.RequestIDHeader)), ShouldEqual, 36)
			})
		})

		Convey("When scraping metrics after traffic", func() {
			get(ts, "/api/stats")
			resp, _ := get(ts, "/metrics")

			Convey("Then the http counters should be exposed", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When opening the dashboard", func() {
			resp, _ := get(ts, "/dashboard")

			Convey("Then it should serve html", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldStartWith, "text/html")
			})
		})

		Convey("When using the wrong method", func() {
			resp, _ := get(ts, "/api/performers/register")

			Convey("Then the mux should reject it", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestHTTP_Failures(t *testing.T) {
	Convey("Given an API whose backend misbehaves", t, func() {
		ts := newTestServer(t, func(s *service.Service) api.Dependencies { return brokenStats{s} })

		Convey("When the backend returns an unexpected error", func() {
			resp, body := get(ts, "/api/stats")

			Convey("Then it should be a 500 with the generic message", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
				So(body["ok"], ShouldEqual, false)
				So(body["error"], ShouldEqual, service.MsgInternal)
			})
		})

		Convey("When a handler panics", func() {
			resp, body := get(ts, "/api/leaderboard")

			Convey("Then it should be recovered into a 500", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
				So(body["error"], ShouldEqual, service.MsgInternal)
			})
		})
	})
}
