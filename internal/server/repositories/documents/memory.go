package documents

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/finsync/internal/common"
)

type collectionData map[string]map[string]any // id -> fields

// MemoryStore keeps documents in process memory. When opened with a snapshot
// path it loads that file on open and writes it back on Close.
type MemoryStore struct {
	mu           sync.RWMutex
	data         map[string]map[string]collectionData // user -> collection -> docs
	snapshotPath string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]collectionData)}
}

// OpenMemoryStore returns a MemoryStore backed by a JSON snapshot file.
// A missing file yields an empty store.
func OpenMemoryStore(path string) (*MemoryStore, error) {
	s := NewMemoryStore()
	s.snapshotPath = path

	snap, err := loadSnapshot(path)
	if err != nil {
		return nil, storageError("load snapshot", err)
	}
	if snap != nil {
		s.data = snap
	}
	return s, nil
}

func (s *MemoryStore) ListAll(_ context.Context, userID, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.data[userID][collection]
	ids := slices.Sorted(maps.Keys(docs))

	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, Document{ID: id, Data: copyMap(docs[id])})
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, userID, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[userID][collection][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &Document{ID: id, Data: copyMap(doc)}, nil
}

func (s *MemoryStore) UpsertMerge(_ context.Context, userID, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.merge(userID, collection, id, fields)
	return nil
}

func (s *MemoryStore) CommitBatch(_ context.Context, b *Batch) error {
	if b.Len() == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range b.Writes() {
		s.merge(w.UserID, w.Collection, w.ID, w.Fields)
	}
	return nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, userID, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[userID][collection], id)
	return nil
}

// Save writes the snapshot file if the store has one.
func (s *MemoryStore) Save() error {
	if s.snapshotPath == "" {
		return nil
	}

	s.mu.RLock()
	b, err := json.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return storageError("encode snapshot", err)
	}

	if err := writeFileAtomic(s.snapshotPath, b); err != nil {
		return storageError("write snapshot", err)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return s.Save()
}

// merge must be called with mu held for writing.
func (s *MemoryStore) merge(userID, collection, id string, fields map[string]any) {
	colls, ok := s.data[userID]
	if !ok {
		colls = make(map[string]collectionData)
		s.data[userID] = colls
	}
	docs, ok := colls[collection]
	if !ok {
		docs = make(collectionData)
		colls[collection] = docs
	}
	docs[id] = mergeFields(docs[id], copyMap(fields))
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyValue(val)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

var _ Store = (*MemoryStore)(nil)
