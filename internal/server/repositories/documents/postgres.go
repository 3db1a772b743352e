package documents

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/dmitrijs2005/finsync/internal/dbx"
)

const (
	pgListQuery = `SELECT id, data FROM documents
		WHERE user_id = $1 AND collection = $2
		ORDER BY id`

	pgGetQuery = `SELECT data FROM documents
		WHERE user_id = $1 AND collection = $2 AND id = $3`

	pgUpsertMergeQuery = `INSERT INTO documents (user_id, collection, id, data, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, now())
		ON CONFLICT (user_id, collection, id) DO UPDATE
		SET data = documents.data || EXCLUDED.data, updated_at = now();`

	pgDeleteQuery = `DELETE FROM documents
		WHERE user_id = $1 AND collection = $2 AND id = $3`
)

// PostgresStore keeps documents as jsonb rows. The merge uses the jsonb
// concatenation operator, which replaces top-level keys only.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListAll(ctx context.Context, userID, collection string) ([]Document, error) {
	return listAll(ctx, s.db, pgListQuery, userID, collection)
}

func (s *PostgresStore) Get(ctx context.Context, userID, collection, id string) (*Document, error) {
	return getOne(ctx, s.db, pgGetQuery, userID, collection, id)
}

func (s *PostgresStore) UpsertMerge(ctx context.Context, userID, collection, id string, fields map[string]any) error {
	return pgUpsertMerge(ctx, s.db, Write{UserID: userID, Collection: collection, ID: id, Fields: fields})
}

func (s *PostgresStore) CommitBatch(ctx context.Context, b *Batch) error {
	if b.Len() == 0 {
		return nil
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, w := range b.Writes() {
			if err := pgUpsertMerge(ctx, tx, w); err != nil {
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

func (s *PostgresStore) DeleteByID(ctx context.Context, userID, collection, id string) error {
	if _, err := s.db.ExecContext(ctx, pgDeleteQuery, userID, collection, id); err != nil {
		return storageError("delete document", err)
	}
	return nil
}

func pgUpsertMerge(ctx context.Context, db dbx.DBTX, w Write) error {
	b, err := encodeData(w.Fields)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, pgUpsertMergeQuery, w.UserID, w.Collection, w.ID, string(b)); err != nil {
		return storageError("upsert document", err)
	}
	return nil
}

func listAll(ctx context.Context, db dbx.DBTX, query, userID, collection string) ([]Document, error) {
	rows, err := db.QueryContext(ctx, query, userID, collection)
	if err != nil {
		return nil, storageError("list documents", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, storageError("scan document", err)
		}
		data, err := decodeData(raw)
		if err != nil {
			return nil, storageError("list documents", err)
		}
		out = append(out, Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list documents", err)
	}
	return out, nil
}

func getOne(ctx context.Context, db dbx.DBTX, query, userID, collection, id string) (*Document, error) {
	var raw []byte
	err := db.QueryRowContext(ctx, query, userID, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, storageError("get document", err)
	}

	data, err := decodeData(raw)
	if err != nil {
		return nil, storageError("get document", err)
	}
	return &Document{ID: id, Data: data}, nil
}

var _ Store = (*PostgresStore)(nil)
