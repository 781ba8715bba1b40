package api

import (
	"context"
	"net/http"

	"github.com/okian/synthorbit/internal/domain/model"
)

// SessionDependencies defines the interface for the session ledger and event stream.
type SessionDependencies interface {
	StartSession(ctx context.Context, performerID int64) (int64, error)
	EndSession(ctx context.Context, sessionID int64, summary model.SessionSummary) (int64, error)
	GetSession(ctx context.Context, sessionID int64) (model.JamSession, error)
	AppendEvent(ctx context.Context, e model.SynthEvent) (model.SynthEvent, error)
	SessionEvents(ctx context.Context, sessionID int64, limit int) ([]model.SynthEvent, error)
}

// SessionsHandler handles session and event requests.
type SessionsHandler struct {
	deps SessionDependencies
	resp *responder
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies, resp *responder) *SessionsHandler {
	return &SessionsHandler{deps: deps, resp: resp}
}

type startRequest struct {
	PerformerID model.Loose `json:"performerId"`
}

type startResponse struct {
	OK        bool  `json:"ok"`
	SessionID int64 `json:"sessionId"`
}

type eventRequest struct {
	SessionID model.Loose `json:"sessionId"`
	EventType model.Loose `json:"eventType"`
	Note      model.Loose `json:"note"`
	Frequency model.Loose `json:"frequency"`
	Velocity  model.Loose `json:"velocity"`
	Payload   model.Loose `json:"payload"`
}

func (req eventRequest) event() model.SynthEvent {
	e := model.SynthEvent{
		SessionID: req.SessionID.ID(),
		EventType: req.EventType.Text(),
		Frequency: req.Frequency.Float(),
		Velocity:  req.Velocity.Float(),
		Payload:   req.Payload.Raw(),
	}
	if req.Note.Present() {
		note := req.Note.Text()
		e.Note = &note
	}
	return e
}

type endRequest struct {
	SessionID    model.Loose `json:"sessionId"`
	TotalHits    model.Loose `json:"totalHits"`
	TotalNotes   model.Loose `json:"totalNotes"`
	AvgFrequency model.Loose `json:"avgFrequency"`
}

type sessionResponse struct {
	OK      bool             `json:"ok"`
	Session model.JamSession `json:"session"`
}

type eventsResponse struct {
	OK     bool               `json:"ok"`
	Events []model.SynthEvent `json:"events"`
}

// HandleStart handles POST /api/sessions/start.
func (h *SessionsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_session"
	var req startRequest
	decodeBody(r, &req)

	id, err := h.deps.StartSession(r.Context(), req.PerformerID.ID())
	if err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, startResponse{OK: true, SessionID: id})
}

// HandleEvent handles POST /api/sessions/event.
func (h *SessionsHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.append_event"
	var req eventRequest
	decodeBody(r, &req)

	if _, err := h.deps.AppendEvent(r.Context(), req.event()); err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// HandleEnd handles POST /api/sessions/end. It answers ok even when no
// session matched.
func (h *SessionsHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	const op = "api.end_session"
	var req endRequest
	decodeBody(r, &req)

	summary := model.SessionSummary{
		TotalHits:    req.TotalHits.Int(),
		TotalNotes:   req.TotalNotes.Int(),
		AvgFrequency: req.AvgFrequency.Float(),
	}
	if _, err := h.deps.EndSession(r.Context(), req.SessionID.ID(), summary); err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// HandleGet handles GET /api/sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	js, err := h.deps.GetSession(r.Context(), pathID(r))
	if err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{OK: true, Session: js})
}

// HandleEvents handles GET /api/sessions/{id}/events?limit=N.
func (h *SessionsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_events"
	limit, err := queryLimit(r, op)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	events, err := h.deps.SessionEvents(r.Context(), pathID(r), limit)
	if err != nil {
		h.resp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{OK: true, Events: events})
}
