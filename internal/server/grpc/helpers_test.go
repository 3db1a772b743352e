package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/finsync/internal/logging"
	"github.com/dmitrijs2005/finsync/internal/server/reconcile"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/documents"
	"github.com/dmitrijs2005/finsync/internal/server/services"
)

const testSecret = "secret"

func newTestServer(t *testing.T, store documents.Store) *GRPCServer {
	t.Helper()
	if store == nil {
		store = documents.NewMemoryStore()
	}
	r := reconcile.New(store, reconcile.WithClock(func() time.Time { return time.UnixMilli(5000) }))
	srv, err := NewGRPCServer("127.0.0.1:0", logging.Nop(), services.NewSyncService(store, r, nil), testSecret)
	if err != nil {
		t.Fatalf("NewGRPCServer error: %v", err)
	}
	return srv
}

func authed(userID string) context.Context {
	return context.WithValue(context.Background(), userIDKey, userID)
}
