package apperrors

import "errors"

var (
	// Transition guards.
	ErrInvalidTransition = errors.New("invalid transition")
	ErrOutOfSchedule     = errors.New("outside configured work schedule")
	ErrNoActiveSession   = errors.New("no active session")
	ErrNotRunning        = errors.New("session is not running")
	ErrAlreadyRunning    = errors.New("session is already running")

	// ErrPersistenceDesync reports that the in-memory transition succeeded
	// but the durable session record could not be written. The timer keeps
	// running; the record is reconciled at next startup.
	ErrPersistenceDesync = errors.New("session record out of sync with timer state")
)
