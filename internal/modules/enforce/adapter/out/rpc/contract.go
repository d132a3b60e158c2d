package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey    = "locker"
	serviceName     = "pomo.locker.v1.Locker"
	jsonCodecName   = "json"
	methodDescribe  = "/" + serviceName + "/Describe"
	methodEngage    = "/" + serviceName + "/Engage"
	methodRelease   = "/" + serviceName + "/Release"
	methodGetStatus = "/" + serviceName + "/GetStatus"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "POMO_LOCKER",
	MagicCookieValue: "pomo",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Describe struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Platforms []string `json:"platforms"`
}

type Status struct {
	Engaged bool `json:"engaged"`
}

type LockerServer interface {
	Describe(ctx context.Context, in *Empty) (*Describe, error)
	Engage(ctx context.Context, in *Empty) (*Empty, error)
	Release(ctx context.Context, in *Empty) (*Empty, error)
	GetStatus(ctx context.Context, in *Empty) (*Status, error)
}

type LockerClient interface {
	Describe(ctx context.Context) (*Describe, error)
	Engage(ctx context.Context) error
	Release(ctx context.Context) error
	GetStatus(ctx context.Context) (*Status, error)
}

type lockerClient struct {
	conn *grpc.ClientConn
}

func NewLockerClient(conn *grpc.ClientConn) LockerClient {
	return &lockerClient{conn: conn}
}

func (c *lockerClient) Describe(ctx context.Context) (*Describe, error) {
	out := &Describe{}
	if err := c.conn.Invoke(ctx, methodDescribe, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lockerClient) Engage(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodEngage, &Empty{}, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *lockerClient) Release(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodRelease, &Empty{}, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *lockerClient) GetStatus(ctx context.Context) (*Status, error) {
	out := &Status{}
	if err := c.conn.Invoke(ctx, methodGetStatus, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterLockerServer(server grpc.ServiceRegistrar, impl LockerServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*LockerServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Describe",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Describe(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDescribe}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Describe(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Engage",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Engage(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodEngage}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Engage(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Release",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Release(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodRelease}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Release(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "GetStatus",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetStatus(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetStatus}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetStatus(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/locker-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl LockerServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterLockerServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewLockerClient(conn), nil
}

func PluginMap(impl LockerServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
