package service

import (
	"context"

	"github.com/okian/synthorbit/internal/domain/model"
	"github.com/okian/synthorbit/pkg/logger"
	"github.com/okian/synthorbit/pkg/metrics"
)

// RegisterPerformer trims both fields, upper-cases the dni and stores a new
// performer. Duplicate names and dnis are accepted as distinct performers.
func (s *Service) RegisterPerformer(ctx context.Context, name, dni string) (model.Performer, error) {
	const op = "register_performer"
	store, err := s.repo(op)
	if err != nil {
		return model.Performer{}, err
	}

	p := model.Performer{Name: name, DNI: dni}
	if err := p.Normalize(); err != nil {
		return model.Performer{}, s.reject(ctx, op, err)
	}
	if err := store.InsertPerformer(ctx, &p); err != nil {
		return model.Performer{}, s.fail(ctx, op, err)
	}

	metrics.RecordPerformerRegistered()
	s.logger.Debug(ctx, "performer registered", logger.Int64("performerId", p.ID))
	return p, nil
}
