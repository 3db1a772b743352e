package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/dmitrijs2005/finsync/internal/dbx"
	_ "modernc.org/sqlite"
)

const (
	sqliteListQuery = `SELECT id, data FROM documents
		WHERE user_id = ? AND collection = ?
		ORDER BY id`

	sqliteGetQuery = `SELECT data FROM documents
		WHERE user_id = ? AND collection = ? AND id = ?`

	sqliteUpsertQuery = `INSERT INTO documents (user_id, collection, id, data, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, collection, id) DO UPDATE
		SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`

	sqliteDeleteQuery = `DELETE FROM documents
		WHERE user_id = ? AND collection = ? AND id = ?`
)

// OpenSQLite opens a database file with the modernc driver and the pragmas
// the store relies on. SQLite has one writer, so the pool is a single
// connection.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	return db, nil
}

// SQLiteStore keeps documents as JSON text. Merges are done in Go inside a
// transaction so they behave exactly like the jsonb merge of PostgresStore.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) ListAll(ctx context.Context, userID, collection string) ([]Document, error) {
	return listAll(ctx, s.db, sqliteListQuery, userID, collection)
}

func (s *SQLiteStore) Get(ctx context.Context, userID, collection, id string) (*Document, error) {
	return getOne(ctx, s.db, sqliteGetQuery, userID, collection, id)
}

func (s *SQLiteStore) UpsertMerge(ctx context.Context, userID, collection, id string, fields map[string]any) error {
	b := NewBatch()
	b.Merge(userID, collection, id, fields)
	return s.CommitBatch(ctx, b)
}

func (s *SQLiteStore) CommitBatch(ctx context.Context, b *Batch) error {
	if b.Len() == 0 {
		return nil
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, w := range b.Writes() {
			if err := sqliteMerge(ctx, tx, w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrStorageUnavailable) {
			return err
		}
		return storageError("commit batch", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteByID(ctx context.Context, userID, collection, id string) error {
	if _, err := s.db.ExecContext(ctx, sqliteDeleteQuery, userID, collection, id); err != nil {
		return storageError("delete document", err)
	}
	return nil
}

func sqliteMerge(ctx context.Context, tx dbx.DBTX, w Write) error {
	var current map[string]any

	doc, err := getOne(ctx, tx, sqliteGetQuery, w.UserID, w.Collection, w.ID)
	switch {
	case errors.Is(err, common.ErrorNotFound):
	case err != nil:
		return err
	default:
		current = doc.Data
	}

	b, err := encodeData(mergeFields(current, w.Fields))
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, sqliteUpsertQuery, w.UserID, w.Collection, w.ID, string(b)); err != nil {
		return storageError("upsert document", err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
