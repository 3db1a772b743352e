package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. Every message is a
// google.protobuf.Struct carrying the same JSON shapes as the HTTP API.
const ServiceName = "finsync.v1.SyncService"

const (
	MethodPing             = "Ping"
	MethodSyncTransactions = "SyncTransactions"
	MethodSyncWallets      = "SyncWallets"
	MethodSyncBudgets      = "SyncBudgets"
	MethodDeleteRecord     = "DeleteRecord"
)

// FullMethod returns "/finsync.v1.SyncService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// SyncServiceServer is the server API for finsync.v1.SyncService.
type SyncServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SyncTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SyncWallets(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SyncBudgets(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteRecord(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(SyncServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SyncServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SyncServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SyncServiceDesc describes finsync.v1.SyncService for grpc.Server.RegisterService.
var SyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodPing, Handler: unaryHandler(MethodPing, SyncServiceServer.Ping)},
		{MethodName: MethodSyncTransactions, Handler: unaryHandler(MethodSyncTransactions, SyncServiceServer.SyncTransactions)},
		{MethodName: MethodSyncWallets, Handler: unaryHandler(MethodSyncWallets, SyncServiceServer.SyncWallets)},
		{MethodName: MethodSyncBudgets, Handler: unaryHandler(MethodSyncBudgets, SyncServiceServer.SyncBudgets)},
		{MethodName: MethodDeleteRecord, Handler: unaryHandler(MethodDeleteRecord, SyncServiceServer.DeleteRecord)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "finsync/v1/sync.proto",
}

// Client calls finsync.v1.SyncService over any client connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
