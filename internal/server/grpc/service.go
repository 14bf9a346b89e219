package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. Messages are
// google.protobuf.Struct documents shaped like the REST API's JSON bodies.
const ServiceName = "handtohand.v1.Marketplace"

const (
	MethodPing                = "Ping"
	MethodFindMatches         = "FindMatches"
	MethodProposeExchange     = "ProposeExchange"
	MethodGetActiveExchange   = "GetActiveExchange"
	MethodApplyExchangeAction = "ApplyExchangeAction"
	MethodSubmitFeedback      = "SubmitFeedback"
	MethodGetUserStats        = "GetUserStats"
)

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// MarketplaceServer is the server API for the Marketplace service.
type MarketplaceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindMatches(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProposeExchange(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetActiveExchange(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApplyExchangeAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitFeedback(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUserStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(MarketplaceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MarketplaceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MarketplaceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the Marketplace service for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, MarketplaceServer.Ping),
		unary(MethodFindMatches, MarketplaceServer.FindMatches),
		unary(MethodProposeExchange, MarketplaceServer.ProposeExchange),
		unary(MethodGetActiveExchange, MarketplaceServer.GetActiveExchange),
		unary(MethodApplyExchangeAction, MarketplaceServer.ApplyExchangeAction),
		unary(MethodSubmitFeedback, MarketplaceServer.SubmitFeedback),
		unary(MethodGetUserStats, MarketplaceServer.GetUserStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "handtohand/v1/marketplace.proto",
}

// RegisterMarketplaceServer registers srv on s.
func RegisterMarketplaceServer(s grpc.ServiceRegistrar, srv MarketplaceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
