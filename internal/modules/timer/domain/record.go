package domain

import "time"

// SessionRecord is the persisted form of one phase. Created open when a
// phase starts, closed exactly once when the phase ends, never mutated
// again. Only the engine writes records; the reconciler and reporting
// read them.
type SessionRecord struct {
	ID              string
	Kind            Phase
	StartTime       time.Time
	EndTime         *time.Time
	PlannedDuration time.Duration
	ActualDuration  *time.Duration
	StrictMode      bool
	Completed       bool
	CreatedAt       time.Time
}

func (r SessionRecord) Open() bool {
	return r.EndTime == nil
}
