package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks behavior every Store backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("merge keeps unset fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.UpsertMerge(ctx, "u1", "transactions", "x", map[string]any{"amount": int64(50)}))
		require.NoError(t, s.UpsertMerge(ctx, "u1", "transactions", "x", map[string]any{"note": "lunch"}))

		doc, err := s.Get(ctx, "u1", "transactions", "x")
		require.NoError(t, err)
		if diff := cmp.Diff(map[string]any{"amount": int64(50), "note": "lunch"}, doc.Data); diff != "" {
			t.Fatalf("merged document mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("merge replaces present fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.UpsertMerge(ctx, "u1", "wallets", "w", map[string]any{"balance": 1.5, "name": "cash"}))
		require.NoError(t, s.UpsertMerge(ctx, "u1", "wallets", "w", map[string]any{"balance": 2.25}))

		doc, err := s.Get(ctx, "u1", "wallets", "w")
		require.NoError(t, err)
		assert.Equal(t, 2.25, doc.Data["balance"])
		assert.Equal(t, "cash", doc.Data["name"])
	})

	t.Run("list is ordered by id and scoped", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b := NewBatch()
		b.Merge("u1", "budgets", "c", map[string]any{"n": int64(3)})
		b.Merge("u1", "budgets", "a", map[string]any{"n": int64(1)})
		b.Merge("u1", "budgets", "b", map[string]any{"n": int64(2)})
		b.Merge("u2", "budgets", "z", map[string]any{"n": int64(9)})
		b.Merge("u1", "wallets", "w", map[string]any{"n": int64(0)})
		require.NoError(t, s.CommitBatch(ctx, b))

		docs, err := s.ListAll(ctx, "u1", "budgets")
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{docs[0].ID, docs[1].ID, docs[2].ID})
		assert.Equal(t, int64(1), docs[0].Data["n"])
	})

	t.Run("batch merges repeated ids in order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b := NewBatch()
		b.Merge("u1", "transactions", "t", map[string]any{"amount": int64(1)})
		b.Merge("u1", "transactions", "t", map[string]any{"amount": int64(2), "note": "x"})
		require.NoError(t, s.CommitBatch(ctx, b))

		doc, err := s.Get(ctx, "u1", "transactions", "t")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"amount": int64(2), "note": "x"}, doc.Data)
	})

	t.Run("empty batch", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CommitBatch(context.Background(), NewBatch()))
		require.NoError(t, s.CommitBatch(context.Background(), nil))
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "u1", "transactions", "nope")
		if !errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("want ErrorNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.UpsertMerge(ctx, "u1", "transactions", "x", map[string]any{"a": int64(1)}))
		require.NoError(t, s.DeleteByID(ctx, "u1", "transactions", "x"))
		require.NoError(t, s.DeleteByID(ctx, "u1", "transactions", "x"))

		docs, err := s.ListAll(ctx, "u1", "transactions")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("nested values survive", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		in := map[string]any{
			"tags": []any{"food", "work"},
			"meta": map[string]any{"rate": 0.5, "count": int64(2)},
		}
		require.NoError(t, s.UpsertMerge(ctx, "u1", "transactions", "n", in))

		doc, err := s.Get(ctx, "u1", "transactions", "n")
		require.NoError(t, err)
		assert.Equal(t, in, doc.Data)
	})
}
