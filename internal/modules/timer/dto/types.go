package dto

import "time"

type CycleStateOutput struct {
	Phase      string
	Remaining  time.Duration
	Planned    time.Duration
	CycleCount int
	Running    bool
	SessionID  string
	StartedAt  time.Time
}

type StartBreakInput struct {
	ForceLong bool
}

type EndSessionInput struct {
	Completed bool
}

type SessionOutput struct {
	ID              string
	Kind            string
	StartTime       time.Time
	EndTime         time.Time
	PlannedDuration time.Duration
	ActualDuration  time.Duration
	Completed       bool
}
