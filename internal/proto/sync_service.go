// Package proto describes the cogniflash.sync.v1.SyncService gRPC contract.
//
// Messages are protobuf well-known wrappers: mutation and query payloads
// travel as JSON inside BytesValue, so the service needs no generated
// message types.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "cogniflash.sync.v1.SyncService"

// Method names.
const (
	MethodSubmitReview  = "SubmitReview"
	MethodCreateCard    = "CreateCard"
	MethodUpdateCard    = "UpdateCard"
	MethodDeleteCard    = "DeleteCard"
	MethodCreateDeck    = "CreateDeck"
	MethodUpdateDeck    = "UpdateDeck"
	MethodGetStudyQueue = "GetStudyQueue"
	MethodListDecks     = "ListDecks"
	MethodPing          = "Ping"
)

// actionMethods maps mutation action names onto their RPC.
var actionMethods = map[string]string{
	"review":      MethodSubmitReview,
	"create_card": MethodCreateCard,
	"update_card": MethodUpdateCard,
	"delete_card": MethodDeleteCard,
	"create_deck": MethodCreateDeck,
	"update_deck": MethodUpdateDeck,
}

// FullMethod returns "/<service>/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// MethodForAction returns the RPC that replays a mutation action.
func MethodForAction(action string) (string, bool) {
	m, ok := actionMethods[action]
	return m, ok
}

// ActionForMethod is the inverse of MethodForAction.
func ActionForMethod(method string) (string, bool) {
	for a, m := range actionMethods {
		if m == method {
			return a, true
		}
	}
	return "", false
}

// SyncServiceServer is implemented by the remote authority. Mutate serves
// every mutation RPC; method tells them apart.
type SyncServiceServer interface {
	Mutate(ctx context.Context, method string, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	GetStudyQueue(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	ListDecks(ctx context.Context, in *emptypb.Empty) (*wrapperspb.BytesValue, error)
	Ping(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error)
}

func RegisterSyncServiceServer(s grpc.ServiceRegistrar, srv SyncServiceServer) {
	s.RegisterService(&SyncService_ServiceDesc, srv)
}

func mutationHandler(method string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.BytesValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return srv.(SyncServiceServer).Mutate(ctx, method, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return srv.(SyncServiceServer).Mutate(ctx, method, req.(*wrapperspb.BytesValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func getStudyQueueHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).GetStudyQueue(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(MethodGetStudyQueue)}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServiceServer).GetStudyQueue(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listDecksHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).ListDecks(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(MethodListDecks)}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServiceServer).ListDecks(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(MethodPing)}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServiceServer).Ping(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var SyncService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodSubmitReview, Handler: mutationHandler(MethodSubmitReview)},
		{MethodName: MethodCreateCard, Handler: mutationHandler(MethodCreateCard)},
		{MethodName: MethodUpdateCard, Handler: mutationHandler(MethodUpdateCard)},
		{MethodName: MethodDeleteCard, Handler: mutationHandler(MethodDeleteCard)},
		{MethodName: MethodCreateDeck, Handler: mutationHandler(MethodCreateDeck)},
		{MethodName: MethodUpdateDeck, Handler: mutationHandler(MethodUpdateDeck)},
		{MethodName: MethodGetStudyQueue, Handler: getStudyQueueHandler},
		{MethodName: MethodListDecks, Handler: listDecksHandler},
		{MethodName: MethodPing, Handler: pingHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cogniflash/sync/v1/sync.proto",
}

// SyncServiceClient is the client side of the service.
type SyncServiceClient interface {
	Mutate(ctx context.Context, method string, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	GetStudyQueue(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	ListDecks(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type syncServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSyncServiceClient(cc grpc.ClientConnInterface) SyncServiceClient {
	return &syncServiceClient{cc: cc}
}

func (c *syncServiceClient) Mutate(ctx context.Context, method string, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *syncServiceClient) GetStudyQueue(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, FullMethod(MethodGetStudyQueue), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *syncServiceClient) ListDecks(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, FullMethod(MethodListDecks), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *syncServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, FullMethod(MethodPing), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
