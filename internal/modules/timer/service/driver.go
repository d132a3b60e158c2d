package service

import (
	"context"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
)

// Driver is the single periodic mutator of session state. It fires once
// per interval and drops, rather than queues, any tick that cannot take
// the engine lock in time.
type Driver struct {
	engine   *Engine
	interval time.Duration
	logger   hclog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}

	skipped uint64
}

func NewDriver(engine *Engine, interval time.Duration, logger hclog.Logger) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	return &Driver{engine: engine, interval: interval, logger: logger.Named("driver")}
}

func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.done = make(chan struct{})
	d.mu.Unlock()

	go d.run(ctx)
}

func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.stopCh)
	done := d.done
	d.mu.Unlock()
	<-done
}

// Skipped reports how many ticks were dropped on lock contention.
func (d *Driver) Skipped() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.skipped
}

func (d *Driver) run(ctx context.Context) {
	defer close(d.done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, ok := d.engine.TryTick(ctx); !ok {
				d.mu.Lock()
				d.skipped++
				d.mu.Unlock()
				d.logger.Debug("tick dropped on contention")
			}
		}
	}
}
