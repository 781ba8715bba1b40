// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/okian/synthorbit/internal/domain/types"
)

// Defaults applied to compositions saved without tempo or timbre.
const (
	DefaultBPM       = 100
	DefaultSynthType = "triangle"
)

var emptyPayload = json.RawMessage(`{}`) //nolint:gochecknoglobals // immutable default

// Performer is the identity sessions and compositions are attributed to.
// Names and identifier documents are not unique.
type Performer struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	DNI       string          `json:"dni"`
	CreatedAt types.Timestamp `json:"created_at"`
}

// Normalize trims both fields and upper-cases the identifier document.
func (p *Performer) Normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.DNI = strings.ToUpper(strings.TrimSpace(p.DNI))
	if p.Name == "" {
		return invalid("name", MsgPerformerRequired)
	}
	if p.DNI == "" {
		return invalid("dni", MsgPerformerRequired)
	}
	return nil
}

// Composition is a write-once snapshot of a sequencer grid and a ball scene.
// Grid and Scene are opaque JSON, stored and returned verbatim.
type Composition struct {
	ID          int64
	PerformerID int64
	Title       string
	BPM         int64
	SynthType   string
	Grid        json.RawMessage
	Scene       json.RawMessage
	CreatedAt   types.Timestamp
}

// Normalize checks required fields and fills tempo and timbre defaults.
func (c *Composition) Normalize() error {
	c.Title = strings.TrimSpace(c.Title)
	c.SynthType = strings.TrimSpace(c.SynthType)

	grid, gridOK := compactJSON(c.Grid)
	scene, sceneOK := compactJSON(c.Scene)
	switch {
	case c.PerformerID <= 0:
		return invalid("performerId", MsgCompositionIncomplete)
	case c.Title == "":
		return invalid("title", MsgCompositionIncomplete)
	case !gridOK:
		return invalid("grid", MsgCompositionIncomplete)
	case !sceneOK:
		return invalid("scene", MsgCompositionIncomplete)
	}
	c.Grid, c.Scene = grid, scene

	if c.BPM <= 0 {
		c.BPM = DefaultBPM
	}
	if c.SynthType == "" {
		c.SynthType = DefaultSynthType
	}
	return nil
}

// MarshalJSON renders the stored row columns plus the decoded payloads.
func (c Composition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          int64           `json:"id"`
		PerformerID int64           `json:"performer_id"`
		Title       string          `json:"title"`
		BPM         int64           `json:"bpm"`
		SynthType   string          `json:"synth_type"`
		GridJSON    string          `json:"grid_json"`
		SceneJSON   string          `json:"scene_json"`
		CreatedAt   types.Timestamp `json:"created_at"`
		Grid        json.RawMessage `json:"grid"`
		Scene       json.RawMessage `json:"scene"`
	}{
		ID:          c.ID,
		PerformerID: c.PerformerID,
		Title:       c.Title,
		BPM:         c.BPM,
		SynthType:   c.SynthType,
		GridJSON:    string(c.Grid),
		SceneJSON:   string(c.Scene),
		CreatedAt:   c.CreatedAt,
		Grid:        orNull(c.Grid),
		Scene:       orNull(c.Scene),
	})
}

// JamSession is open while EndedAt is nil. Summary fields hold defaults until
// the session is ended and are overwritten by every end call.
type JamSession struct {
	ID           int64            `json:"id"`
	PerformerID  int64            `json:"performer_id"`
	StartedAt    types.Timestamp  `json:"started_at"`
	EndedAt      *types.Timestamp `json:"ended_at"`
	TotalHits    int64            `json:"total_hits"`
	TotalNotes   int64            `json:"total_notes"`
	AvgFrequency float64          `json:"avg_frequency"`
}

// Open reports whether the session has not been ended yet.
func (s JamSession) Open() bool { return s.EndedAt == nil }

// SessionSummary is the client-reported totals written when a session ends.
type SessionSummary struct {
	TotalHits    int64
	TotalNotes   int64
	AvgFrequency float64
}

// Normalize clamps negative totals to zero.
func (s *SessionSummary) Normalize() {
	s.TotalHits = max(s.TotalHits, 0)
	s.TotalNotes = max(s.TotalNotes, 0)
	s.AvgFrequency = max(s.AvgFrequency, 0)
}

// SynthEvent is one entry of a session's append-only timeline. Insertion
// order (ID order) is the timeline order.
type SynthEvent struct {
	ID        int64           `json:"id"`
	SessionID int64           `json:"session_id"`
	EventType string          `json:"event_type"`
	Note      *string         `json:"note"`
	Frequency float64         `json:"frequency"`
	Velocity  float64         `json:"velocity"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt types.Timestamp `json:"created_at"`
}

// Normalize checks required fields, drops blank notes and defaults the payload to {}.
func (e *SynthEvent) Normalize() error {
	e.EventType = strings.TrimSpace(e.EventType)
	if e.SessionID <= 0 {
		return invalid("sessionId", MsgEventRequired)
	}
	if e.EventType == "" {
		return invalid("eventType", MsgEventRequired)
	}
	if e.Note != nil {
		if n := strings.TrimSpace(*e.Note); n != "" {
			e.Note = &n
		} else {
			e.Note = nil
		}
	}
	if payload, ok := compactJSON(e.Payload); ok {
		e.Payload = payload
	} else {
		e.Payload = emptyPayload
	}
	return nil
}

// ValidatePerformerID rejects ids no performer can have.
func ValidatePerformerID(id int64) error {
	if id <= 0 {
		return invalid("performerId", MsgPerformerIDRequired)
	}
	return nil
}

// ValidateSessionID rejects ids no session can have.
func ValidateSessionID(id int64) error {
	if id <= 0 {
		return invalid("sessionId", MsgSessionIDRequired)
	}
	return nil
}

// compactJSON returns raw compacted, or false when it is absent, null or not JSON.
func compactJSON(raw json.RawMessage) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
