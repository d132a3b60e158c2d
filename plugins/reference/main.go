// Reference locker plugin: tracks lock state in memory and reports it
// over the locker RPC contract. Useful for exercising the plugin host
// without touching any real window system.
package main

import (
	"context"
	"sync"

	"github.com/hashicorp/go-plugin"

	lockerrpc "pomo/internal/modules/enforce/adapter/out/rpc"
)

type server struct {
	mu      sync.Mutex
	engaged bool
}

func (s *server) Describe(_ context.Context, _ *lockerrpc.Empty) (*lockerrpc.Describe, error) {
	return &lockerrpc.Describe{
		Name:      "reference",
		Version:   "1.0.0",
		Platforms: []string{"linux", "darwin", "windows"},
	}, nil
}

func (s *server) Engage(_ context.Context, _ *lockerrpc.Empty) (*lockerrpc.Empty, error) {
	s.mu.Lock()
	s.engaged = true
	s.mu.Unlock()
	return &lockerrpc.Empty{}, nil
}

func (s *server) Release(_ context.Context, _ *lockerrpc.Empty) (*lockerrpc.Empty, error) {
	s.mu.Lock()
	s.engaged = false
	s.mu.Unlock()
	return &lockerrpc.Empty{}, nil
}

func (s *server) GetStatus(_ context.Context, _ *lockerrpc.Empty) (*lockerrpc.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &lockerrpc.Status{Engaged: s.engaged}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: lockerrpc.HandshakeConfig,
		Plugins:         lockerrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
