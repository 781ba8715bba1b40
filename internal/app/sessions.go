package service

import (
	"context"
	"errors"

	repository "github.com/okian/synthorbit/internal/adapters/repository"
	"github.com/okian/synthorbit/internal/domain/model"
	"github.com/okian/synthorbit/pkg/logger"
	"github.com/okian/synthorbit/pkg/metrics"
)

// StartSession opens a session for performerID. The performer row is not
// required to exist.
func (s *Service) StartSession(ctx context.Context, performerID int64) (int64, error) {
	const op = "start_session"
	store, err := s.repo(op)
	if err != nil {
		return 0, err
	}
	if err := model.ValidatePerformerID(performerID); err != nil {
		return 0, s.reject(ctx, op, err)
	}

	js := model.JamSession{PerformerID: performerID}
	if err := store.InsertSession(ctx, &js); err != nil {
		return 0, s.fail(ctx, op, err)
	}

	metrics.RecordSessionStarted()
	s.logger.Debug(ctx, "session started",
		logger.Int64("sessionId", js.ID),
		logger.Int64("performerId", performerID),
	)
	return js.ID, nil
}

// EndSession closes sessionID with the client-reported summary. It always
// overwrites, so the last call wins, and it succeeds even when no session
// matched. The returned count is the number of sessions changed.
func (s *Service) EndSession(ctx context.Context, sessionID int64, summary model.SessionSummary) (int64, error) {
	const op = "end_session"
	store, err := s.repo(op)
	if err != nil {
		return 0, err
	}
	if err := model.ValidateSessionID(sessionID); err != nil {
		return 0, s.reject(ctx, op, err)
	}

	summary.Normalize()
	n, err := store.EndSession(ctx, sessionID, summary)
	if err != nil {
		return 0, s.fail(ctx, op, err)
	}

	metrics.RecordSessionEnded(n)
	if n == 0 {
		s.logger.Info(ctx, "end session matched no session", logger.Int64("sessionId", sessionID))
	} else {
		s.logger.Debug(ctx, "session ended",
			logger.Int64("sessionId", sessionID),
			logger.Int64("totalHits", summary.TotalHits),
			logger.Int64("totalNotes", summary.TotalNotes),
			logger.Float64("avgFrequency", summary.AvgFrequency),
		)
	}
	return n, nil
}

// GetSession returns one session with its summary.
func (s *Service) GetSession(ctx context.Context, sessionID int64) (model.JamSession, error) {
	const op = "get_session"
	store, err := s.repo(op)
	if err != nil {
		return model.JamSession{}, err
	}
	if sessionID <= 0 {
		return model.JamSession{}, notFoundError(op, model.MsgSessionNotFound, repository.ErrNotFound)
	}

	js, err := store.GetSession(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.JamSession{}, notFoundError(op, model.MsgSessionNotFound, err)
	}
	if err != nil {
		return model.JamSession{}, s.fail(ctx, op, err)
	}
	return js, nil
}

// AppendEvent adds e to its session's timeline. Neither the session's
// existence nor its openness is checked.
func (s *Service) AppendEvent(ctx context.Context, e model.SynthEvent) (model.SynthEvent, error) {
	const op = "append_event"
	store, err := s.repo(op)
	if err != nil {
		return model.SynthEvent{}, err
	}
	if err := e.Normalize(); err != nil {
		return model.SynthEvent{}, s.reject(ctx, op, err)
	}
	if err := store.InsertEvent(ctx, &e); err != nil {
		return model.SynthEvent{}, s.fail(ctx, op, err)
	}

	metrics.RecordEventAppended(e.EventType)
	s.logger.Debug(ctx, "event appended",
		logger.Int64("sessionId", e.SessionID),
		logger.Int64("eventId", e.ID),
		logger.String("eventType", e.EventType),
	)
	return e, nil
}

// SessionEvents returns a session's events in the order they were appended.
// limit <= 0 means the configured cap.
func (s *Service) SessionEvents(ctx context.Context, sessionID int64, limit int) ([]model.SynthEvent, error) {
	const op = "session_events"
	store, err := s.repo(op)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateSessionID(sessionID); err != nil {
		return nil, s.reject(ctx, op, err)
	}

	events, err := store.ListEvents(ctx, sessionID, clampLimit(limit, s.sessionEventsLimit, s.sessionEventsLimit))
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return events, nil
}
