package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/synthorbit/internal/domain/model"
	"github.com/okian/synthorbit/pkg/logger"
)

// Demo data written into an empty journal.
const (
	demoPerformerName = "Demo"
	demoPerformerDNI  = "00000000X"
	demoTitle         = "Demo Orbit"
	demoBPM           = 108
	demoGridRows      = 7
	demoGridSteps     = 16
)

type demoBall struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Radius float64 `json:"radius"`
}

type demoScene struct {
	Balls []demoBall `json:"balls"`
	Rings int        `json:"rings"`
}

// demoGrid hits steps 0 and 4 on lanes 0, 2 and 4.
func demoGrid() [][]int {
	grid := make([][]int, demoGridRows)
	for row := range grid {
		grid[row] = make([]int, demoGridSteps)
		if row == 0 || row == 2 || row == 4 {
			grid[row][0], grid[row][4] = 1, 1
		}
	}
	return grid
}

// Seed inserts the demo performer and composition when no composition exists.
// It reports whether anything was written.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	if _, err := s.repo("seed"); err != nil {
		return false, err
	}
	return s.seed(ctx)
}

// seed does not take the service lock, so Start can call it.
func (s *Service) seed(ctx context.Context) (bool, error) {
	stats, err := s.store.Totals(ctx)
	if err != nil {
		return false, storageError("seed", err)
	}
	if stats.Compositions > 0 {
		return false, nil
	}

	grid, err := json.Marshal(demoGrid())
	if err != nil {
		return false, fmt.Errorf("encode demo grid: %w", err)
	}
	scene, err := json.Marshal(demoScene{
		Balls: []demoBall{
			{X: 0.4, Y: 0.5, DX: 3.2, DY: -2.4, Radius: 11},
			{X: 0.6, Y: 0.5, DX: -2.5, DY: 3.1, Radius: 12},
		},
		Rings: 2,
	})
	if err != nil {
		return false, fmt.Errorf("encode demo scene: %w", err)
	}

	p := model.Performer{Name: demoPerformerName, DNI: demoPerformerDNI}
	if err := p.Normalize(); err != nil {
		return false, err
	}
	if err := s.store.InsertPerformer(ctx, &p); err != nil {
		return false, storageError("seed", err)
	}

	c := model.Composition{
		PerformerID: p.ID,
		Title:       demoTitle,
		BPM:         demoBPM,
		SynthType:   model.DefaultSynthType,
		Grid:        grid,
		Scene:       scene,
	}
	if err := c.Normalize(); err != nil {
		return false, err
	}
	if err := s.store.InsertComposition(ctx, &c); err != nil {
		return false, storageError("seed", err)
	}

	s.logger.Info(ctx, "seeded demo composition",
		logger.Int64("performerId", p.ID),
		logger.Int64("compositionId", c.ID),
	)
	return true, nil
}
