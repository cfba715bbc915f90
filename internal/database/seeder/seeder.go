package seeder

import (
	"context"

	"pathexplorer/internal/database"
)

// Seeder writes one group of demo rows. The Runner checks Tables against the
// live schema first, then calls Seed inside a transaction of its own and
// logs the returned row count.
type Seeder interface {
	Name() string
	Tables() []Table
	Seed(ctx context.Context, q database.Querier) (int, error)
}
