package domain

import (
	"errors"

	timerdomain "pomo/internal/modules/timer/domain"
)

var (
	ErrNotActive      = errors.New("enforcement is not active")
	ErrAlreadyActive  = errors.New("enforcement is already active")
	ErrNoPendingBreak = errors.New("no break transition is pending")
)

type Status string

const (
	StatusInactive       Status = "inactive"
	StatusActiveUnlocked Status = "active_unlocked"
	StatusActiveLocked   Status = "active_locked"
)

type Window string

const (
	WindowNone       Window = "none"
	WindowMinimized  Window = "minimized"
	WindowTransition Window = "transition"
	WindowBreak      Window = "break"
)

// Action is a side effect the coordinator must perform after a
// transition. The machine itself stays pure.
type Action string

const (
	ActionMinimize          Action = "minimize"
	ActionPresentTransition Action = "present_transition"
	ActionEngageLock        Action = "engage_lock"
	ActionReleaseLock       Action = "release_lock"
)

// State is the externally visible snapshot. IsLocked can only be true
// while IsActive is true and only during a break phase.
type State struct {
	IsActive bool
	IsLocked bool
	Window   Window
}

// Machine drives break enforcement off the timer event stream. It has
// no other way to learn about phase changes; Activate/Deactivate and
// the begin-break confirmation are the only direct commands.
type Machine struct {
	status       Status
	window       Window
	pendingBreak bool
}

func NewMachine() *Machine {
	return &Machine{status: StatusInactive, window: WindowNone}
}

func (m *Machine) Activate() error {
	if m.status != StatusInactive {
		return ErrAlreadyActive
	}
	m.status = StatusActiveUnlocked
	m.window = WindowNone
	m.pendingBreak = false
	return nil
}

// Deactivate always succeeds; a held lock is released on the way out.
func (m *Machine) Deactivate() []Action {
	locked := m.status == StatusActiveLocked
	m.status = StatusInactive
	m.window = WindowNone
	m.pendingBreak = false
	if locked {
		return []Action{ActionReleaseLock}
	}
	return nil
}

// HandleEvent reacts to one timer event. Events are ignored entirely
// while inactive.
func (m *Machine) HandleEvent(event timerdomain.Event) []Action {
	if m.status == StatusInactive {
		return nil
	}
	switch event.Kind {
	case timerdomain.EventPhaseStarted:
		if event.Phase == timerdomain.PhaseFocus {
			m.window = WindowMinimized
			m.pendingBreak = false
			return []Action{ActionMinimize}
		}
		if event.Phase.IsBreak() {
			m.window = WindowTransition
			m.pendingBreak = true
			return []Action{ActionPresentTransition}
		}
	case timerdomain.EventPhaseEnded:
		if event.Phase.IsBreak() {
			locked := m.status == StatusActiveLocked
			m.status = StatusActiveUnlocked
			m.window = WindowNone
			m.pendingBreak = false
			if locked {
				return []Action{ActionReleaseLock}
			}
		}
	}
	return nil
}

// BeginBreak is the explicit begin-break trigger, either the automatic
// countdown elapsing or a manual confirmation.
func (m *Machine) BeginBreak() ([]Action, error) {
	if m.status == StatusInactive {
		return nil, ErrNotActive
	}
	if !m.pendingBreak {
		return nil, ErrNoPendingBreak
	}
	m.status = StatusActiveLocked
	m.window = WindowBreak
	m.pendingBreak = false
	return []Action{ActionEngageLock}, nil
}

// EmergencyExit unconditionally releases any lock and deactivates in a
// single transition. It is the sole bypass and is never rate-limited.
func (m *Machine) EmergencyExit() []Action {
	locked := m.status == StatusActiveLocked
	m.status = StatusInactive
	m.window = WindowNone
	m.pendingBreak = false
	if locked {
		return []Action{ActionReleaseLock}
	}
	return nil
}

func (m *Machine) State() State {
	return State{
		IsActive: m.status != StatusInactive,
		IsLocked: m.status == StatusActiveLocked,
		Window:   m.window,
	}
}

func (m *Machine) Status() Status     { return m.status }
func (m *Machine) PendingBreak() bool { return m.pendingBreak }
