package domain

import "time"

type EventKind string

const (
	EventPhaseStarted     EventKind = "phase_started"
	EventPhaseEnded       EventKind = "phase_ended"
	EventTick             EventKind = "tick"
	EventPreAlert         EventKind = "pre_alert"
	EventCycleCompleted   EventKind = "cycle_completed"
	EventLongBreakReached EventKind = "long_break_reached"
)

// Event is one entry of the ordered stream produced by machine
// transitions. Fields beyond Kind are populated per kind; consumers
// must not rely on unset fields.
type Event struct {
	Kind       EventKind
	Phase      Phase
	SessionID  string
	Duration   time.Duration
	Remaining  time.Duration
	CycleCount int
	Completed  bool
	StrictMode bool
}
