// Package documents provides the per-user, per-collection document store the
// sync engine runs against, with in-memory, PostgreSQL and SQLite backends.
//
// Every backend merges at the top level: keys present in a write replace the
// stored keys, all other stored keys are left untouched.
package documents

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/common"
)

// Document is one stored record addressed by its id.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the document store capability set used by the reconciler.
type Store interface {
	// ListAll returns every document of the collection ordered by id.
	ListAll(ctx context.Context, userID, collection string) ([]Document, error)

	// Get returns one document or common.ErrorNotFound.
	Get(ctx context.Context, userID, collection, id string) (*Document, error)

	// UpsertMerge merges fields into the document, creating it if needed.
	UpsertMerge(ctx context.Context, userID, collection, id string, fields map[string]any) error

	// CommitBatch applies all staged merge-writes or none of them.
	CommitBatch(ctx context.Context, b *Batch) error

	// DeleteByID removes a document. Deleting a missing id is not an error.
	DeleteByID(ctx context.Context, userID, collection, id string) error
}

// Write is a single staged merge-write.
type Write struct {
	UserID     string
	Collection string
	ID         string
	Fields     map[string]any
}

// Batch accumulates merge-writes for an atomic commit.
type Batch struct {
	writes []Write
}

func NewBatch() *Batch {
	return &Batch{}
}

// Merge stages a merge-write of fields at collection/id for the user.
func (b *Batch) Merge(userID, collection, id string, fields map[string]any) {
	b.writes = append(b.writes, Write{UserID: userID, Collection: collection, ID: id, Fields: fields})
}

func (b *Batch) Writes() []Write {
	if b == nil {
		return nil
	}
	return b.writes
}

func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.writes)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrStorageUnavailable, op, err)
}
