// Package feed exposes the dashboard to external orbit sources over gRPC.
//
// The service has no generated stubs: every message is a protobuf well-known
// type (google.protobuf.Struct or Empty), so any gRPC client can call it
// without a .proto file. The descriptor below is written the way
// protoc-gen-go-grpc would emit it.
package feed

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "satwatch.feed.v1.OrbitFeed"

// Full method names.
const (
	MethodSetSatellitePosition = "/" + ServiceName + "/SetSatellitePosition"
	MethodSetSatelliteInfo     = "/" + ServiceName + "/SetSatelliteInfo"
	MethodAddTrackPoint        = "/" + ServiceName + "/AddTrackPoint"
	MethodClearGroundTrack     = "/" + ServiceName + "/ClearGroundTrack"
	MethodSetObserver          = "/" + ServiceName + "/SetObserver"
	MethodGetTelemetry         = "/" + ServiceName + "/GetTelemetry"
)

// OrbitFeedServer is the server API for the orbit feed.
type OrbitFeedServer interface {
	// SetSatellitePosition takes {lon, lat, alt}; alt in km is optional.
	SetSatellitePosition(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	// SetSatelliteInfo takes {name, catalog_id}.
	SetSatelliteInfo(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	// AddTrackPoint takes {lon, lat, time_ms}; time_ms is Unix milliseconds.
	AddTrackPoint(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	ClearGroundTrack(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	// SetObserver takes {lon, lat, alt, label}; alt in metres is optional.
	SetObserver(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	GetTelemetry(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterOrbitFeedServer attaches srv to s.
func RegisterOrbitFeedServer(s grpc.ServiceRegistrar, srv OrbitFeedServer) {
	s.RegisterService(&OrbitFeedServiceDesc, srv)
}

// OrbitFeedServiceDesc describes the service for grpc.Server.
var OrbitFeedServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrbitFeedServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SetSatellitePosition",
			Handler:    unaryHandler(MethodSetSatellitePosition, OrbitFeedServer.SetSatellitePosition),
		},
		{
			MethodName: "SetSatelliteInfo",
			Handler:    unaryHandler(MethodSetSatelliteInfo, OrbitFeedServer.SetSatelliteInfo),
		},
		{
			MethodName: "AddTrackPoint",
			Handler:    unaryHandler(MethodAddTrackPoint, OrbitFeedServer.AddTrackPoint),
		},
		{
			MethodName: "ClearGroundTrack",
			Handler:    unaryHandler(MethodClearGroundTrack, OrbitFeedServer.ClearGroundTrack),
		},
		{
			MethodName: "SetObserver",
			Handler:    unaryHandler(MethodSetObserver, OrbitFeedServer.SetObserver),
		},
		{
			MethodName: "GetTelemetry",
			Handler:    unaryHandler(MethodGetTelemetry, OrbitFeedServer.GetTelemetry),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "satwatch/feed/v1/orbit_feed.proto",
}

// unaryHandler adapts a typed method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(OrbitFeedServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OrbitFeedServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(OrbitFeedServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// OrbitFeedClient is the raw client API for the orbit feed.
type OrbitFeedClient interface {
	SetSatellitePosition(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SetSatelliteInfo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	AddTrackPoint(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ClearGroundTrack(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SetObserver(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	GetTelemetry(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type orbitFeedClient struct {
	cc grpc.ClientConnInterface
}

// NewOrbitFeedClient wraps a connection.
func NewOrbitFeedClient(cc grpc.ClientConnInterface) OrbitFeedClient {
	return &orbitFeedClient{cc: cc}
}

func (c *orbitFeedClient) SetSatellitePosition(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodSetSatellitePosition, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orbitFeedClient) SetSatelliteInfo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodSetSatelliteInfo, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orbitFeedClient) AddTrackPoint(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodAddTrackPoint, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orbitFeedClient) ClearGroundTrack(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodClearGroundTrack, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orbitFeedClient) SetObserver(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodSetObserver, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orbitFeedClient) GetTelemetry(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetTelemetry, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
