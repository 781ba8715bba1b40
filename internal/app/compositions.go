package service

import (
	"context"
	"errors"

	repository "github.com/okian/synthorbit/internal/adapters/repository"
	"github.com/okian/synthorbit/internal/domain/model"
	"github.com/okian/synthorbit/internal/domain/types"
	"github.com/okian/synthorbit/pkg/logger"
	"github.com/okian/synthorbit/pkg/metrics"
)

// SaveComposition stores a write-once snapshot and returns it with its id.
// The performer reference is not checked.
func (s *Service) SaveComposition(ctx context.Context, c model.Composition) (model.Composition, error) {
	const op = "save_composition"
	store, err := s.repo(op)
	if err != nil {
		return model.Composition{}, err
	}
	if err := c.Normalize(); err != nil {
		return model.Composition{}, s.reject(ctx, op, err)
	}
	if err := store.InsertComposition(ctx, &c); err != nil {
		return model.Composition{}, s.fail(ctx, op, err)
	}

	metrics.RecordCompositionSaved()
	s.logger.Debug(ctx, "composition saved",
		logger.Int64("compositionId", c.ID),
		logger.Int64("performerId", c.PerformerID),
		logger.Int("gridBytes", len(c.Grid)),
		logger.Int("sceneBytes", len(c.Scene)),
	)
	return c, nil
}

// ListCompositions returns the newest compositions first, at most the
// configured list size.
func (s *Service) ListCompositions(ctx context.Context, limit int) ([]types.CompositionSummary, error) {
	const op = "list_compositions"
	store, err := s.repo(op)
	if err != nil {
		return nil, err
	}

	list, err := store.ListCompositions(ctx, clampLimit(limit, s.compositionListLimit, s.compositionListLimit))
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return list, nil
}

// GetComposition returns one composition with its payloads.
func (s *Service) GetComposition(ctx context.Context, id int64) (model.Composition, error) {
	const op = "get_composition"
	store, err := s.repo(op)
	if err != nil {
		return model.Composition{}, err
	}
	if id <= 0 {
		return model.Composition{}, notFoundError(op, model.MsgCompositionNotFound, repository.ErrNotFound)
	}

	c, err := store.GetComposition(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Composition{}, notFoundError(op, model.MsgCompositionNotFound, err)
	}
	if err != nil {
		return model.Composition{}, s.fail(ctx, op, err)
	}
	return c, nil
}
