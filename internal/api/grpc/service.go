package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "statistics.v1.StatisticsService"

// StatisticsServer is the server API of the statistics service. Requests carry
// component parameters as string fields, responses mirror the HTTP JSON
// payloads.
type StatisticsServer interface {
	ListSections(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Chart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Table(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TableRow(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(StatisticsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StatisticsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(StatisticsServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// ServiceDesc describes StatisticsService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StatisticsServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("ListSections", StatisticsServer.ListSections),
		unaryHandler("Chart", StatisticsServer.Chart),
		unaryHandler("Table", StatisticsServer.Table),
		unaryHandler("TableRow", StatisticsServer.TableRow),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "statistics/v1/statistics.proto",
}

// Client calls StatisticsService over a client connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ListSections(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListSections", in, opts...)
}

func (c *Client) Chart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Chart", in, opts...)
}

func (c *Client) Table(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Table", in, opts...)
}

func (c *Client) TableRow(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "TableRow", in, opts...)
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
