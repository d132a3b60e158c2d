package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"pomo/internal/modules/timer/domain"
	timerout "pomo/internal/modules/timer/port/out"
	"pomo/internal/platform/clock"
	apperrors "pomo/internal/platform/errors"
	"pomo/internal/platform/id"
)

// Engine owns exactly one machine and one session clock per process.
// Command handlers and the tick driver serialize through mu; events
// produced under the lock are published only after it is released.
type Engine struct {
	mu sync.Mutex

	clk    clock.Clock
	ids    id.Generator
	store  timerout.SessionStore
	bus    *Bus
	logger hclog.Logger

	machine      *domain.Machine
	sessionClock *domain.Clock
	record       domain.SessionRecord
}

func NewEngine(clk clock.Clock, ids id.Generator, store timerout.SessionStore, bus *Bus, logger hclog.Logger, settings domain.Settings, schedule domain.Schedule) *Engine {
	return &Engine{
		clk:     clk,
		ids:     ids,
		store:   store,
		bus:     bus,
		logger:  logger.Named("engine"),
		machine: domain.NewMachine(settings, schedule),
	}
}

// StartFocus begins a focus phase from Idle. The in-memory transition is
// authoritative: a failed record write surfaces ErrPersistenceDesync
// alongside the new state instead of rolling the timer back.
func (e *Engine) StartFocus(ctx context.Context) (domain.CycleState, error) {
	e.mu.Lock()
	now := e.clk.Now()
	events, persistErr, err := e.startFocusLocked(ctx, now)
	if err != nil {
		e.mu.Unlock()
		return domain.CycleState{}, err
	}
	state := e.machine.Snapshot()
	e.mu.Unlock()

	e.publish(events)
	if persistErr != nil {
		return state, fmt.Errorf("%w: %v", apperrors.ErrPersistenceDesync, persistErr)
	}
	return state, nil
}

// StartBreak begins a break phase from Idle, long when forced or when
// the cycle cadence says so.
func (e *Engine) StartBreak(ctx context.Context, forceLong bool) (domain.CycleState, error) {
	e.mu.Lock()
	now := e.clk.Now()
	events, persistErr, err := e.startBreakLocked(ctx, forceLong, now)
	if err != nil {
		e.mu.Unlock()
		return domain.CycleState{}, err
	}
	state := e.machine.Snapshot()
	e.mu.Unlock()

	e.publish(events)
	if persistErr != nil {
		return state, fmt.Errorf("%w: %v", apperrors.ErrPersistenceDesync, persistErr)
	}
	return state, nil
}

func (e *Engine) Pause(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.machine.Pause(); err != nil {
		return err
	}
	e.sessionClock.Pause(e.clk.Now())
	return nil
}

func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.machine.Resume(); err != nil {
		return err
	}
	e.sessionClock.Resume(e.clk.Now())
	return nil
}

// EndSession terminates the active phase. When a focus phase is ended as
// completed, the engine immediately chains into the following break.
func (e *Engine) EndSession(ctx context.Context, completed bool) (domain.CycleState, error) {
	e.mu.Lock()
	if e.machine.Phase() == domain.PhaseIdle {
		e.mu.Unlock()
		return domain.CycleState{}, apperrors.ErrNoActiveSession
	}
	now := e.clk.Now()
	endedFocus := e.machine.Phase() == domain.PhaseFocus

	events, err := e.machine.EndSession(completed)
	if err != nil {
		e.mu.Unlock()
		return domain.CycleState{}, err
	}
	persistErr := e.closeRecordLocked(ctx, completed, now)

	if completed && endedFocus {
		chained, chainPersistErr, chainErr := e.startBreakLocked(ctx, false, now)
		if chainErr != nil {
			e.logger.Warn("auto break rejected", "error", chainErr)
		} else {
			events = append(events, chained...)
			if persistErr == nil {
				persistErr = chainPersistErr
			}
		}
	}
	state := e.machine.Snapshot()
	e.mu.Unlock()

	e.publish(events)
	if persistErr != nil {
		return state, fmt.Errorf("%w: %v", apperrors.ErrPersistenceDesync, persistErr)
	}
	return state, nil
}

// Tick is the command-surface tick: it never fails and is a no-op when
// idle or paused.
func (e *Engine) Tick(ctx context.Context) domain.CycleState {
	e.mu.Lock()
	state, events := e.tickLocked(ctx)
	e.mu.Unlock()
	e.publish(events)
	return state
}

// TryTick is the driver's entry point. A tick that cannot take the lock
// is dropped, never queued.
func (e *Engine) TryTick(ctx context.Context) (domain.CycleState, bool) {
	if !e.mu.TryLock() {
		return domain.CycleState{}, false
	}
	state, events := e.tickLocked(ctx)
	e.mu.Unlock()
	e.publish(events)
	return state, true
}

func (e *Engine) GetState(ctx context.Context) domain.CycleState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Snapshot()
}

func (e *Engine) ResetCycleCount(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.ResetCycleCount()
}

// Bus exposes the event stream for subscribers.
func (e *Engine) Bus() *Bus {
	return e.bus
}

// restore rehydrates a recovered focus session. Reconciler use only,
// before the driver starts.
func (e *Engine) restore(record domain.SessionRecord, elapsed time.Duration, cycleCount int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clk.Now()
	e.sessionClock = domain.RehydrateClock(record.PlannedDuration, elapsed, now)
	e.machine.RestoreFocus(record.ID, record.PlannedDuration, e.sessionClock.Remaining(now), cycleCount, record.StartTime)
	e.record = record
}

func (e *Engine) restoreCycleCount(count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.RestoreCycleCount(count)
}

func (e *Engine) tickLocked(ctx context.Context) (domain.CycleState, []domain.Event) {
	if e.machine.Phase() == domain.PhaseIdle || !e.machine.Running() {
		return e.machine.Snapshot(), nil
	}
	now := e.clk.Now()
	endedFocus := e.machine.Phase() == domain.PhaseFocus

	events := e.machine.Tick(e.sessionClock.Remaining(now))
	if containsKind(events, domain.EventPhaseEnded) {
		// Completion by timeout: log and continue on a write error, the
		// record is reconciled at next startup.
		if err := e.closeRecordLocked(ctx, true, now); err != nil {
			e.logger.Warn("close session record", "session_id", e.record.ID, "error", err)
		}
		if endedFocus {
			chained, persistErr, err := e.startBreakLocked(ctx, false, now)
			if err != nil {
				e.logger.Warn("auto break rejected", "error", err)
			} else {
				events = append(events, chained...)
				if persistErr != nil {
					e.logger.Warn("create break record", "error", persistErr)
				}
			}
		}
	}
	return e.machine.Snapshot(), events
}

func (e *Engine) startFocusLocked(ctx context.Context, now time.Time) ([]domain.Event, error, error) {
	sessionID := e.ids.New()
	events, err := e.machine.StartFocus(sessionID, now)
	if err != nil {
		return nil, nil, err
	}
	settings := e.machine.Settings()
	e.sessionClock = domain.NewClock(settings.FocusDuration, now)
	persistErr := e.createRecordLocked(ctx, sessionID, domain.PhaseFocus, settings.FocusDuration, now)
	return events, persistErr, nil
}

func (e *Engine) startBreakLocked(ctx context.Context, forceLong bool, now time.Time) ([]domain.Event, error, error) {
	sessionID := e.ids.New()
	events, err := e.machine.StartBreak(sessionID, forceLong, now)
	if err != nil {
		return nil, nil, err
	}
	phase := e.machine.Phase()
	duration := e.machine.Settings().BreakDuration(phase == domain.PhaseLongBreak)
	e.sessionClock = domain.NewClock(duration, now)
	persistErr := e.createRecordLocked(ctx, sessionID, phase, duration, now)
	return events, persistErr, nil
}

func (e *Engine) createRecordLocked(ctx context.Context, sessionID string, kind domain.Phase, planned time.Duration, now time.Time) error {
	e.record = domain.SessionRecord{
		ID:              sessionID,
		Kind:            kind,
		StartTime:       now,
		PlannedDuration: planned,
		StrictMode:      e.machine.Settings().StrictMode,
		CreatedAt:       now,
	}
	if err := e.store.CreateSession(ctx, e.record); err != nil {
		return fmt.Errorf("create session record: %w", err)
	}
	return nil
}

func (e *Engine) closeRecordLocked(ctx context.Context, completed bool, now time.Time) error {
	record := e.record
	endTime := now
	actual := e.sessionClock.Elapsed(now)
	if actual > record.PlannedDuration {
		actual = record.PlannedDuration
	}
	record.EndTime = &endTime
	record.ActualDuration = &actual
	record.Completed = completed
	if err := e.store.UpdateSession(ctx, record); err != nil {
		return fmt.Errorf("update session record: %w", err)
	}
	return nil
}

func (e *Engine) publish(events []domain.Event) {
	if len(events) == 0 {
		return
	}
	if dropped := e.bus.Publish(events...); dropped > 0 {
		e.logger.Debug("event deliveries dropped", "count", dropped)
	}
}

func containsKind(events []domain.Event, kind domain.EventKind) bool {
	for _, event := range events {
		if event.Kind == kind {
			return true
		}
	}
	return false
}
