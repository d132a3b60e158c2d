package domain

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

func (p Phase) Validate() error {
	switch p {
	case PhaseIdle, PhaseFocus, PhaseShortBreak, PhaseLongBreak:
		return nil
	default:
		return fmt.Errorf("unknown phase: %s", p)
	}
}

func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Settings are the timer durations and cadence consumed by the machine.
type Settings struct {
	FocusDuration      time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	CyclesPerLongBreak int
	PreAlert           time.Duration
	StrictMode         bool
}

func DefaultSettings() Settings {
	return Settings{
		FocusDuration:      25 * time.Minute,
		ShortBreakDuration: 5 * time.Minute,
		LongBreakDuration:  15 * time.Minute,
		CyclesPerLongBreak: 4,
		PreAlert:           2 * time.Minute,
		StrictMode:         false,
	}
}

func (s Settings) BreakDuration(long bool) time.Duration {
	if long {
		return s.LongBreakDuration
	}
	return s.ShortBreakDuration
}

// CycleState is the externally visible snapshot of the machine.
// SessionID is non-empty exactly when Phase != Idle.
type CycleState struct {
	Phase      Phase
	Remaining  time.Duration
	Planned    time.Duration
	CycleCount int
	Running    bool
	SessionID  string
	StartedAt  time.Time
}
