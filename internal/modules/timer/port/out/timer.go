package out

import (
	"context"

	"pomo/internal/modules/timer/domain"
)

// SessionStore is the narrow save/load/query contract over the
// persistent store. Implementations must be safe for use from the
// engine's single writer plus read-only reporting callers.
type SessionStore interface {
	CreateSession(ctx context.Context, record domain.SessionRecord) error
	UpdateSession(ctx context.Context, record domain.SessionRecord) error
	// GetActiveSession returns the most recent record with no end time,
	// or apperrors.ErrNoActiveSession when every record is closed.
	GetActiveSession(ctx context.Context) (domain.SessionRecord, error)
	// CycleCountSinceLongBreak counts completed focus records newer than
	// the most recent completed long break, restoring cadence at startup.
	CycleCountSinceLongBreak(ctx context.Context) (int, error)
	ListSessions(ctx context.Context, limit int) ([]domain.SessionRecord, error)
}

// SettingsSource provides the configured durations and flags.
type SettingsSource interface {
	Load(ctx context.Context) (domain.Settings, error)
}

// ScheduleSource provides the optional work-hours window.
type ScheduleSource interface {
	LoadSchedule(ctx context.Context) (domain.Schedule, error)
}
