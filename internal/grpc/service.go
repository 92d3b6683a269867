package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "draftsim.v1.DraftService"

// DraftServiceServer is the server side of draftsim.v1.DraftService
type DraftServiceServer interface {
	InitializeDraft(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartDraft(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PauseDraft(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResumeDraft(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDraftSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GenerateCompetitiveLeague(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RegenerateLeague(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StreamEvents(*structpb.Struct, EventStream) error
}

// EventStream is the server side of the StreamEvents call
type EventStream interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type eventStream struct {
	grpc.ServerStream
}

func (s *eventStream) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

type unaryCall func(DraftServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DraftServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(DraftServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func streamEventsHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DraftServiceServer).StreamEvents(in, &eventStream{stream})
}

// ServiceDesc describes draftsim.v1.DraftService. Every message is a
// google.protobuf.Struct, so no generated code is involved.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DraftServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("InitializeDraft", DraftServiceServer.InitializeDraft),
		unary("StartDraft", DraftServiceServer.StartDraft),
		unary("PauseDraft", DraftServiceServer.PauseDraft),
		unary("ResumeDraft", DraftServiceServer.ResumeDraft),
		unary("GetDraftSummary", DraftServiceServer.GetDraftSummary),
		unary("GenerateCompetitiveLeague", DraftServiceServer.GenerateCompetitiveLeague),
		unary("RegenerateLeague", DraftServiceServer.RegenerateLeague),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamEvents",
			Handler:       streamEventsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "draftsim/v1/draft.proto",
}

// Register adds the DraftService to a gRPC server
func Register(s grpc.ServiceRegistrar, srv DraftServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls draftsim.v1.DraftService
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes a unary method by name
func (c *Client) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// StreamEvents opens an event stream for leagueID, or every league when empty
func (c *Client) StreamEvents(ctx context.Context, leagueID string, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], "/"+ServiceName+"/StreamEvents", opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	req, err := structpb.NewStruct(map[string]interface{}{"leagueId": leagueID})
	if err != nil {
		return nil, err
	}
	if err := x.ClientStream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
