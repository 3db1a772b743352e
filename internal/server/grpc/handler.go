package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/dmitrijs2005/finsync/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"status": "OK"})
}

func (s *GRPCServer) SyncTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.syncCollection(ctx, models.Transactions, req)
}

func (s *GRPCServer) SyncWallets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.syncCollection(ctx, models.Wallets, req)
}

func (s *GRPCServer) SyncBudgets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.syncCollection(ctx, models.Budgets, req)
}

func (s *GRPCServer) syncCollection(ctx context.Context, c models.Collection, req *structpb.Struct) (*structpb.Struct, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	body, err := json.Marshal(req.AsMap())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	syncReq, err := models.DecodeSyncRequest(body)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := s.sync.Sync(ctx, userID, c, syncReq)
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(resp)
}

// DeleteRecord takes {"collection": ..., "id": ...}.
func (s *GRPCServer) DeleteRecord(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	fields := req.GetFields()
	c, err := models.ParseCollection(fields["collection"].GetStringValue())
	if err != nil {
		return nil, toStatus(err)
	}
	id := fields["id"].GetStringValue()

	if err := s.sync.Delete(ctx, userID, c, id); err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{"status": "deleted", "id": id})
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrUnknownCollection):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, "storage unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
