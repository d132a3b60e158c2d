package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"pomo/internal/modules/enforce/adapter/out/rpc"
	"pomo/internal/modules/enforce/domain"
	enforceout "pomo/internal/modules/enforce/port/out"
)

const (
	pluginStartTimeout = 3 * time.Second
	pluginCallTimeout  = 5 * time.Second
)

// PluginLocker drives a platform lock implementation shipped as an
// external go-plugin binary. Unlike one-shot plugin calls, the client
// stays connected for the process lifetime: lock state lives in the
// plugin and must survive between Engage and Release.
type PluginLocker struct {
	manifest domain.Manifest

	mu     sync.Mutex
	client *plugin.Client
	rpc    rpc.LockerClient
}

func NewPluginLocker(manifest domain.Manifest) (*PluginLocker, error) {
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	if !manifest.Enabled {
		return nil, fmt.Errorf("locker plugin %s is disabled", manifest.Name)
	}
	return &PluginLocker{manifest: manifest}, nil
}

func (l *PluginLocker) Engage(ctx context.Context) error {
	client, err := l.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := callContext(ctx)
	defer cancel()
	if err := client.Engage(callCtx); err != nil {
		return fmt.Errorf("engage lock: %w", err)
	}
	return nil
}

func (l *PluginLocker) Release(ctx context.Context) error {
	client, err := l.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := callContext(ctx)
	defer cancel()
	if err := client.Release(callCtx); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

func (l *PluginLocker) IsEngaged(ctx context.Context) (bool, error) {
	client, err := l.connect()
	if err != nil {
		return false, err
	}
	callCtx, cancel := callContext(ctx)
	defer cancel()
	status, err := client.GetStatus(callCtx)
	if err != nil {
		return false, fmt.Errorf("lock status: %w", err)
	}
	return status.Engaged, nil
}

// Close kills the plugin process. Any held lock dies with it.
func (l *PluginLocker) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		l.client.Kill()
		l.client = nil
		l.rpc = nil
	}
}

func (l *PluginLocker) connect() (rpc.LockerClient, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rpc != nil {
		return l.rpc, nil
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(l.manifest.Binary),
		Managed:          true,
		StartTimeout:     pluginStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start locker plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense locker plugin: %w", err)
	}
	typed, ok := raw.(rpc.LockerClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("locker rpc client type mismatch")
	}
	l.client = client
	l.rpc = typed
	return typed, nil
}

func callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, pluginCallTimeout)
}

var _ enforceout.Locker = (*PluginLocker)(nil)
