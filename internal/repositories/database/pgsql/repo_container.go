package pgsql

import (
	"fmt"

	"github.com/SscSPs/ledger_integrity/internal/adapters/chart"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres store and an LRU-cached chart reader.
func NewRepositoryProvider(dbPool *pgxpool.Pool, chartCacheSize int) (portsrepo.RepositoryProvider, error) {
	store := newPgxStore(dbPool)
	chartReader, err := chart.NewCachedReader(newPgxChartRepository(dbPool), chartCacheSize)
	if err != nil {
		return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to create chart cache: %w", err)
	}

	return portsrepo.RepositoryProvider{
		Store: store,
		Chart: chartReader,
	}, nil
}
