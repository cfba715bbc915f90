package seeder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pathexplorer/internal/database"
)

// Runner applies seeders in order and stops at the first failure. Each
// seeder commits on its own, so earlier seeders stay applied.
type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := CheckSchema(ctx, db, s.Tables()...); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}

		start := time.Now()
		var rows int
		err := database.InTx(ctx, db, func(tx database.Tx) error {
			n, err := s.Seed(ctx, tx)
			rows = n
			return err
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Info("seeded",
			zap.String("seeder", s.Name()),
			zap.Int("rows", rows),
			zap.Duration("took", time.Since(start)),
		)
	}
	return nil
}
