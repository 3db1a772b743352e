package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/dmitrijs2005/finsync/internal/server/models"
	"github.com/dmitrijs2005/finsync/internal/server/reconcile"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/documents"
	"github.com/dmitrijs2005/finsync/internal/server/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncService(t *testing.T, ms int64) (*SyncService, *documents.MemoryStore) {
	t.Helper()
	store := documents.NewMemoryStore()
	r := reconcile.New(store, reconcile.WithClock(func() time.Time { return time.UnixMilli(ms) }))
	return NewSyncService(store, r, nil), store
}

func walletItem(id string) map[string]any {
	return map[string]any{
		"id":      id,
		"name":    "Cash",
		"balance": json.Number("10"),
		"type":    "cash",
		"icon":    "wallet",
		"color":   "#fff",
	}
}

func TestSyncService_Sync(t *testing.T) {
	svc, _ := newSyncService(t, 1000)

	resp, err := svc.Sync(context.Background(), "u1", models.Wallets, &models.SyncRequest{
		Items: []map[string]any{walletItem("w1")},
	})
	require.NoError(t, err)

	require.Len(t, resp.Upserts, 1)
	assert.Equal(t, "w1", resp.Upserts[0].ID)
	assert.Equal(t, int64(1000), resp.Upserts[0].UpdatedAt)
	assert.Equal(t, int64(1000), resp.ServerTime)
}

func TestSyncService_Sync_StoresDefaults(t *testing.T) {
	svc, store := newSyncService(t, 1000)
	ctx := context.Background()

	item := walletItem("w1")
	resp, err := svc.Sync(ctx, "u1", models.Wallets, &models.SyncRequest{
		Items: []map[string]any{item},
	})
	require.NoError(t, err)

	require.Len(t, resp.Upserts, 1)
	assert.Equal(t, true, resp.Upserts[0].Fields["isActive"])
	assert.Equal(t, false, resp.Upserts[0].Fields["isMonthlyRollover"])

	doc, err := store.Get(ctx, "u1", "wallets", "w1")
	require.NoError(t, err)
	assert.Equal(t, true, doc.Data["isActive"])
	assert.Equal(t, false, doc.Data["isMonthlyRollover"])

	assert.NotContains(t, item, "isActive", "request item is not modified")
}

func TestSyncService_Sync_InvalidItemWritesNothing(t *testing.T) {
	svc, store := newSyncService(t, 1000)

	bad := walletItem("w2")
	bad["type"] = "crypto"

	_, err := svc.Sync(context.Background(), "u1", models.Wallets, &models.SyncRequest{
		Items: []map[string]any{walletItem("w1"), bad},
	})
	require.ErrorIs(t, err, common.ErrValidation)

	var fe *validation.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Index)

	docs, err := store.ListAll(context.Background(), "u1", "wallets")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSyncService_Sync_PullOnly(t *testing.T) {
	svc, store := newSyncService(t, 1000)
	ctx := context.Background()

	require.NoError(t, store.UpsertMerge(ctx, "u1", "budgets", "b1", map[string]any{"createdAt": int64(1), "updatedAt": int64(50)}))

	wm := int64(50)
	resp, err := svc.Sync(ctx, "u1", models.Budgets, &models.SyncRequest{Items: []map[string]any{}, LastSync: &wm})
	require.NoError(t, err)
	assert.NotNil(t, resp.Upserts)
	assert.Empty(t, resp.Upserts)
}

type failingStore struct {
	*documents.MemoryStore
}

func (failingStore) DeleteByID(context.Context, string, string, string) error {
	return common.ErrStorageUnavailable
}

func (failingStore) ListAll(context.Context, string, string) ([]documents.Document, error) {
	return nil, common.ErrStorageUnavailable
}

func TestSyncService_Sync_StorageError(t *testing.T) {
	store := failingStore{documents.NewMemoryStore()}
	svc := NewSyncService(store, reconcile.New(store), nil)

	_, err := svc.Sync(context.Background(), "u1", models.Wallets, &models.SyncRequest{})
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestSyncService_Delete(t *testing.T) {
	svc, store := newSyncService(t, 1000)
	ctx := context.Background()

	require.NoError(t, store.UpsertMerge(ctx, "u1", "transactions", "t1", map[string]any{}))
	require.NoError(t, svc.Delete(ctx, "u1", models.Transactions, "t1"))

	_, err := store.Get(ctx, "u1", "transactions", "t1")
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	// unknown ids are fine
	require.NoError(t, svc.Delete(ctx, "u1", models.Transactions, "t1"))

	assert.ErrorIs(t, svc.Delete(ctx, "u1", models.Transactions, ""), common.ErrValidation)
}

func TestSyncService_Delete_StorageError(t *testing.T) {
	store := failingStore{documents.NewMemoryStore()}
	svc := NewSyncService(store, reconcile.New(store), nil)

	err := svc.Delete(context.Background(), "u1", models.Budgets, "b1")
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}
