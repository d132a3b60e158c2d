package service

import (
	"context"
	"errors"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"pomo/internal/modules/enforce/domain"
	enforceout "pomo/internal/modules/enforce/port/out"
	timerdomain "pomo/internal/modules/timer/domain"
)

const defaultAutoLockDelay = 10 * time.Second

// Coordinator subscribes to the timer event stream and drives the
// enforcement machine; locker and presenter failures are logged, never
// propagated back into the timer.
type Coordinator struct {
	mu        sync.Mutex
	machine   *domain.Machine
	autoTimer *time.Timer

	locker        enforceout.Locker
	presenter     enforceout.Presenter
	logger        hclog.Logger
	autoLockDelay time.Duration
}

func NewCoordinator(locker enforceout.Locker, presenter enforceout.Presenter, logger hclog.Logger, autoLockDelay time.Duration) *Coordinator {
	if autoLockDelay <= 0 {
		autoLockDelay = defaultAutoLockDelay
	}
	return &Coordinator{
		machine:       domain.NewMachine(),
		locker:        locker,
		presenter:     presenter,
		logger:        logger.Named("enforce"),
		autoLockDelay: autoLockDelay,
	}
}

// Run consumes timer events until the channel closes or ctx is done.
func (c *Coordinator) Run(ctx context.Context, events <-chan timerdomain.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			c.handleEvent(ctx, event)
		}
	}
}

func (c *Coordinator) Activate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Activate()
}

func (c *Coordinator) Deactivate(ctx context.Context) error {
	c.mu.Lock()
	c.cancelAutoLockLocked()
	actions := c.machine.Deactivate()
	c.mu.Unlock()
	c.apply(ctx, actions)
	return nil
}

// BeginBreak is the manual confirmation path of the begin-break trigger.
func (c *Coordinator) BeginBreak(ctx context.Context) error {
	c.mu.Lock()
	c.cancelAutoLockLocked()
	actions, err := c.machine.BeginBreak()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.apply(ctx, actions)
	return nil
}

// EmergencyExit releases the lock and deactivates in one call; the
// machine transition is atomic, no intermediate state is observable.
func (c *Coordinator) EmergencyExit(ctx context.Context) error {
	c.mu.Lock()
	c.cancelAutoLockLocked()
	actions := c.machine.EmergencyExit()
	c.mu.Unlock()
	c.apply(ctx, actions)
	return nil
}

func (c *Coordinator) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.State()
}

func (c *Coordinator) handleEvent(ctx context.Context, event timerdomain.Event) {
	c.mu.Lock()
	actions := c.machine.HandleEvent(event)
	presentTransition := false
	for _, action := range actions {
		if action == domain.ActionPresentTransition {
			presentTransition = true
		}
	}
	if presentTransition {
		c.scheduleAutoLockLocked()
	} else if len(actions) > 0 {
		c.cancelAutoLockLocked()
	}
	c.mu.Unlock()
	c.apply(ctx, actions)
}

// scheduleAutoLockLocked arms the countdown that locks the break when
// the user does not confirm it themselves.
func (c *Coordinator) scheduleAutoLockLocked() {
	c.cancelAutoLockLocked()
	c.autoTimer = time.AfterFunc(c.autoLockDelay, func() {
		if err := c.BeginBreak(context.Background()); err != nil && !errors.Is(err, domain.ErrNoPendingBreak) && !errors.Is(err, domain.ErrNotActive) {
			c.logger.Warn("auto lock failed", "error", err)
		}
	})
}

func (c *Coordinator) cancelAutoLockLocked() {
	if c.autoTimer != nil {
		c.autoTimer.Stop()
		c.autoTimer = nil
	}
}

func (c *Coordinator) apply(ctx context.Context, actions []domain.Action) {
	for _, action := range actions {
		var err error
		switch action {
		case domain.ActionMinimize:
			err = c.presenter.Minimize(ctx)
		case domain.ActionPresentTransition:
			err = c.presenter.PresentTransition(ctx)
		case domain.ActionEngageLock:
			err = c.locker.Engage(ctx)
		case domain.ActionReleaseLock:
			err = c.locker.Release(ctx)
		}
		if err != nil {
			c.logger.Warn("enforcement action failed", "action", action, "error", err)
		}
	}
}
