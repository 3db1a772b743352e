// Package services contains server-side business logic shared by the gRPC
// and HTTP transports: validating and reconciling sync batches, deleting
// records and exporting backups.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/dmitrijs2005/finsync/internal/logging"
	"github.com/dmitrijs2005/finsync/internal/server/models"
	"github.com/dmitrijs2005/finsync/internal/server/reconcile"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/documents"
	"github.com/dmitrijs2005/finsync/internal/server/validation"
)

// SyncService validates client batches and hands them to the reconciler.
type SyncService struct {
	store      documents.Store
	reconciler *reconcile.Reconciler
	logger     logging.Logger
}

func NewSyncService(store documents.Store, r *reconcile.Reconciler, logger logging.Logger) *SyncService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &SyncService{store: store, reconciler: r, logger: logger}
}

// Sync validates every item, fills in defaulted fields, upserts the batch
// and returns the delta since req.LastSync. Nothing is written if any item
// is invalid.
func (s *SyncService) Sync(ctx context.Context, userID string, c models.Collection, req *models.SyncRequest) (*models.SyncResponse, error) {
	items, err := validation.NormalizeItems(c, req.Items)
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(items))
	for i, item := range items {
		rec, err := models.NewRecord(item)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		records = append(records, rec)
	}

	res, err := s.reconciler.Sync(ctx, userID, c, records, req.LastSync)
	if err != nil {
		s.logger.Error(ctx, "sync failed", "collection", c.String(), "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "sync completed",
		"collection", c.String(), "pushed", len(records), "pulled", len(res.Upserts))

	return &models.SyncResponse{Upserts: res.Upserts, ServerTime: res.ServerTime}, nil
}

// Delete removes one record. Deleting an unknown id succeeds.
func (s *SyncService) Delete(ctx context.Context, userID string, c models.Collection, id string) error {
	if id == "" {
		return fmt.Errorf("%w: record id must not be empty", common.ErrValidation)
	}
	if err := s.store.DeleteByID(ctx, userID, c.String(), id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", c, id, err)
	}
	s.logger.Info(ctx, "record deleted", "collection", c.String(), "id", id)
	return nil
}
