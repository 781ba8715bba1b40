package jamsim

import (
	"fmt"
	"math/rand/v2"
)

// Pentatonic scale in C used for note events.
var scale = []struct { //nolint:gochecknoglobals // read-only lookup table
	note string
	freq float64
}{
	{"C4", 261.63}, {"D4", 293.66}, {"E4", 329.63}, {"G4", 392.00}, {"A4", 440.00},
	{"C5", 523.25}, {"D5", 587.33}, {"E5", 659.25},
}

var synthTypes = []string{"triangle", "sine", "square", "sawtooth"} //nolint:gochecknoglobals // read-only lookup table

// Event type mix, out of 10 draws.
const (
	noteWeight  = 6
	hitWeight   = 3
	gridRows    = 7
	gridColumns = 16
	minBPM      = 80
	bpmRange    = 80
)

// performerPlan is everything one simulated performer will do.
type performerPlan struct {
	Name        string
	DNI         string
	Sessions    []sessionPlan
	Composition compositionRequest
}

// sessionPlan is one jam session: its events and the summary the client
// computes from them.
type sessionPlan struct {
	Events       []eventRequest
	TotalHits    int64
	TotalNotes   int64
	AvgFrequency float64
}

type eventRequest struct {
	SessionID int64          `json:"sessionId"`
	EventType string         `json:"eventType"`
	Note      *string        `json:"note,omitempty"`
	Frequency float64        `json:"frequency,omitempty"`
	Velocity  float64        `json:"velocity,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

type compositionRequest struct {
	PerformerID int64          `json:"performerId"`
	Title       string         `json:"title"`
	BPM         int            `json:"bpm"`
	SynthType   string         `json:"synthType"`
	Grid        [][]int        `json:"grid"`
	Scene       map[string]any `json:"scene"`
}

// generatePlans builds a reproducible plan for every performer. The run id
// keeps DNIs unique across runs against the same database.
func generatePlans(cfg *Config, runID string) []performerPlan {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5eed))
	plans := make([]performerPlan, cfg.Performers)
	for i := range plans {
		p := performerPlan{
			Name: fmt.Sprintf("Sim %03d", i+1),
			DNI:  fmt.Sprintf("SIM%s%04d", runID, i+1),
		}
		for range cfg.SessionsPerPerformer {
			p.Sessions = append(p.Sessions, generateSession(rng, cfg.EventsPerSession))
		}
		p.Composition = generateComposition(rng, p.Name)
		plans[i] = p
	}
	return plans
}

func generateSession(rng *rand.Rand, events int) sessionPlan {
	var s sessionPlan
	var freqSum float64
	for range events {
		switch draw := rng.IntN(10); {
		case draw < noteWeight:
			n := scale[rng.IntN(len(scale))]
			note := n.note
			s.Events = append(s.Events, eventRequest{
				EventType: "note",
				Note:      &note,
				Frequency: n.freq,
				Velocity:  0.4 + rng.Float64()*0.6,
			})
			s.TotalNotes++
			freqSum += n.freq
		case draw < noteWeight+hitWeight:
			s.Events = append(s.Events, eventRequest{
				EventType: "hit",
				Payload:   map[string]any{"ring": rng.IntN(3), "ball": rng.IntN(4)},
			})
			s.TotalHits++
		default:
			s.Events = append(s.Events, eventRequest{
				EventType: "spawn_ball",
				Payload:   map[string]any{"x": rng.Float64(), "y": rng.Float64()},
			})
		}
	}
	if s.TotalNotes > 0 {
		s.AvgFrequency = freqSum / float64(s.TotalNotes)
	}
	return s
}

func generateComposition(rng *rand.Rand, name string) compositionRequest {
	grid := make([][]int, gridRows)
	for r := range grid {
		grid[r] = make([]int, gridColumns)
		for c := range grid[r] {
			if rng.IntN(4) == 0 {
				grid[r][c] = 1
			}
		}
	}
	return compositionRequest{
		Title:     "Loop de " + name,
		BPM:       minBPM + rng.IntN(bpmRange),
		SynthType: synthTypes[rng.IntN(len(synthTypes))],
		Grid:      grid,
		Scene: map[string]any{
			"balls": []map[string]any{{"x": 0.5, "y": 0.5, "vx": 0.01, "vy": -0.02}},
			"rings": []map[string]any{{"r": 0.2}, {"r": 0.35}},
		},
	}
}

// expected is the leaderboard row a plan should produce.
func (p performerPlan) expected(id int64) leader {
	l := leader{ID: id, Name: p.Name, DNI: p.DNI, Sessions: int64(len(p.Sessions))}
	for _, s := range p.Sessions {
		l.Hits += s.TotalHits
		l.Notes += s.TotalNotes
	}
	return l
}

func (p performerPlan) events() int {
	n := 0
	for _, s := range p.Sessions {
		n += len(s.Events)
	}
	return n
}
