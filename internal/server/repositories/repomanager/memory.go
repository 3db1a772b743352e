package repomanager

import (
	"context"

	"github.com/dmitrijs2005/finsync/internal/server/repositories/documents"
)

// MemoryRepositoryManager serves an in-process store, optionally persisted
// to a snapshot file on Close.
type MemoryRepositoryManager struct {
	store *documents.MemoryStore
}

func NewMemoryRepositoryManager(snapshotPath string) (*MemoryRepositoryManager, error) {
	s, err := documents.OpenMemoryStore(snapshotPath)
	if err != nil {
		return nil, err
	}
	return &MemoryRepositoryManager{store: s}, nil
}

func (m *MemoryRepositoryManager) Documents() documents.Store {
	return m.store
}

// RunMigrations is a no-op: the memory store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Close() error {
	return m.store.Close()
}
