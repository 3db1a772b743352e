package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/finsync/internal/server/migrations"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/documents"
)

// SQLiteRepositoryManager vends the SQLite-backed document store.
type SQLiteRepositoryManager struct {
	db *sql.DB
}

func NewSQLiteRepositoryManager(ctx context.Context, path string) (*SQLiteRepositoryManager, error) {
	db, err := documents.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return &SQLiteRepositoryManager{db: db}, nil
}

func (m *SQLiteRepositoryManager) Documents() documents.Store {
	return documents.NewSQLiteStore(m.db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	return runMigrations(ctx, m.db, "sqlite3", migrations.SQLiteDir)
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}
