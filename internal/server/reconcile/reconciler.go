// Package reconcile merges client record batches into the document store and
// computes the delta a client still has to pull. Timestamps are the only
// ordering signal; concurrent writers resolve by last write wins.
package reconcile

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/finsync/internal/logging"
	"github.com/dmitrijs2005/finsync/internal/server/models"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/documents"
	"github.com/dmitrijs2005/finsync/internal/timex"
)

// Result is the outcome of a sync call: the delta newest-first and the
// watermark the client should send next time.
type Result struct {
	Upserts    []models.Record
	ServerTime int64
}

type Reconciler struct {
	store                documents.Store
	now                  func() time.Time
	logger               logging.Logger
	trustClientUpdatedAt bool
}

type Option func(*Reconciler)

// WithClock replaces the wall clock used for server time.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// WithClientUpdatedAt controls whether a client-supplied updatedAt is kept on
// upsert. When false every upsert is stamped with server time; a supplied
// createdAt is still accepted.
func WithClientUpdatedAt(trust bool) Option {
	return func(r *Reconciler) { r.trustClientUpdatedAt = trust }
}

func New(store documents.Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:                store,
		now:                  time.Now,
		logger:               logging.Nop(),
		trustClientUpdatedAt: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) serverTime() int64 {
	return timex.Millis(r.now())
}

// Apply merges records into the collection as one atomic batch. Missing or
// malformed timestamps are set to a single server time captured for the
// call, and the normalized values are written back into records.
// An empty batch does nothing.
func (r *Reconciler) Apply(ctx context.Context, userID string, c models.Collection, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	serverTime := r.serverTime()
	batch := documents.NewBatch()

	for i := range records {
		rec := &records[i]
		rec.CreatedAt = orDefault(rec.CreatedAt, serverTime)
		if r.trustClientUpdatedAt {
			rec.UpdatedAt = orDefault(rec.UpdatedAt, serverTime)
		} else {
			rec.UpdatedAt = serverTime
		}
		batch.Merge(userID, c.String(), rec.ID, rec.Map())
	}

	if err := r.store.CommitBatch(ctx, batch); err != nil {
		return fmt.Errorf("apply %s batch: %w", c, err)
	}

	r.logger.Debug(ctx, "batch applied",
		"collection", c.String(), "records", len(records), "server_time", serverTime)
	return nil
}

// Delta returns every record of the collection updated strictly after
// watermark (all records when watermark is nil), newest first. Documents
// without createdAt or updatedAt get them backfilled with server time and
// persisted before they are evaluated.
func (r *Reconciler) Delta(ctx context.Context, userID string, c models.Collection, watermark *int64) ([]models.Record, error) {
	serverTime := r.serverTime()

	docs, err := r.store.ListAll(ctx, userID, c.String())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c, err)
	}

	out := make([]models.Record, 0, len(docs))
	for _, doc := range docs {
		rec := models.RecordFromDocument(doc.ID, doc.Data)

		// only absent or malformed values are backfilled, a stored 0 stays
		hasCreated, hasUpdated := rec.TimestampsStored()
		backfill := make(map[string]any, 2)
		if !hasUpdated {
			rec.UpdatedAt = serverTime
			backfill[models.FieldUpdatedAt] = serverTime
		}
		if !hasCreated {
			rec.CreatedAt = serverTime
			backfill[models.FieldCreatedAt] = serverTime
		}
		if len(backfill) > 0 {
			if err := r.store.UpsertMerge(ctx, userID, c.String(), doc.ID, backfill); err != nil {
				return nil, fmt.Errorf("backfill %s/%s: %w", c, doc.ID, err)
			}
			r.logger.Debug(ctx, "timestamps backfilled",
				"collection", c.String(), "id", doc.ID, "fields", len(backfill))
		}

		if watermark != nil && rec.UpdatedAt <= *watermark {
			continue
		}
		out = append(out, rec)
	}

	// stable over the id-ordered scan, so ties come out by id
	slices.SortStableFunc(out, func(a, b models.Record) int {
		return cmp.Compare(b.UpdatedAt, a.UpdatedAt)
	})
	return out, nil
}

// Sync applies records (if any), then computes the delta since watermark.
// The delta includes the records just applied.
func (r *Reconciler) Sync(ctx context.Context, userID string, c models.Collection, records []models.Record, watermark *int64) (*Result, error) {
	if len(records) > 0 {
		if err := r.Apply(ctx, userID, c, records); err != nil {
			return nil, err
		}
	}

	upserts, err := r.Delta(ctx, userID, c, watermark)
	if err != nil {
		return nil, err
	}

	return &Result{Upserts: upserts, ServerTime: r.serverTime()}, nil
}

func orDefault(ms, def int64) int64 {
	if ms == 0 {
		return def
	}
	return ms
}
