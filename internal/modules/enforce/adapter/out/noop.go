package out

import (
	"context"
	"sync"

	enforceout "pomo/internal/modules/enforce/port/out"
)

// InProcessLocker tracks lock state in memory. Used when no locker
// plugin is installed and as the test double: enforcement transitions
// still run, they just do not reach the platform.
type InProcessLocker struct {
	mu      sync.Mutex
	engaged bool
}

func NewInProcessLocker() *InProcessLocker {
	return &InProcessLocker{}
}

func (l *InProcessLocker) Engage(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.engaged = true
	return nil
}

func (l *InProcessLocker) Release(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.engaged = false
	return nil
}

func (l *InProcessLocker) IsEngaged(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engaged, nil
}

// NoopPresenter satisfies the presenter port when no window system is
// attached.
type NoopPresenter struct{}

func (NoopPresenter) Minimize(context.Context) error          { return nil }
func (NoopPresenter) PresentTransition(context.Context) error { return nil }

var _ enforceout.Locker = (*InProcessLocker)(nil)
var _ enforceout.Presenter = NoopPresenter{}
