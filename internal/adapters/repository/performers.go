package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/synthorbit/internal/domain/model"
)

// InsertPerformer stores p and fills its ID and CreatedAt.
func (s *SQLiteStore) InsertPerformer(ctx context.Context, p *model.Performer) (err error) {
	defer observe("insert_performer", time.Now(), &err)
	if err := s.ready(ctx); err != nil {
		return err
	}

	createdAt := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO performers (name, dni, created_at) VALUES (?, ?, ?)`,
		p.Name, p.DNI, createdAt.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert performer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read performer id: %w", err)
	}
	p.ID, p.CreatedAt = id, createdAt
	return nil
}
