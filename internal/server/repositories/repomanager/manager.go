// Package repomanager opens the configured document store backend and owns
// its lifecycle: connection, schema migrations and shutdown.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/server/config"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/documents"
)

type RepositoryManager interface {
	Documents() documents.Store
	RunMigrations(ctx context.Context) error
	Close() error
}

// New opens the backend selected by cfg.StoreBackend and brings its schema
// up to date.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)

	switch cfg.StoreBackend {
	case config.StoreMemory, "":
		m, err = NewMemoryRepositoryManager(cfg.SnapshotPath)
	case config.StoreSQLite:
		m, err = NewSQLiteRepositoryManager(ctx, cfg.SQLitePath)
	case config.StorePostgres:
		m, err = NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return m, nil
}
