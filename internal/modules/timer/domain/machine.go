package domain

import (
	"time"

	apperrors "pomo/internal/platform/errors"
)

// Machine sequences focus and break phases. Every completed phase
// returns to Idle; the machine never chains into the next phase by
// itself, the engine decides what follows. Transitions return the
// ordered event list they produced.
type Machine struct {
	settings Settings
	schedule Schedule

	phase         Phase
	remaining     time.Duration
	planned       time.Duration
	cycleCount    int
	running       bool
	sessionID     string
	startedAt     time.Time
	preAlertFired bool
}

func NewMachine(settings Settings, schedule Schedule) *Machine {
	return &Machine{settings: settings, schedule: schedule, phase: PhaseIdle}
}

// StartFocus transitions Idle -> Focus. Fails from any other phase and
// when now falls outside the configured work schedule.
func (m *Machine) StartFocus(sessionID string, now time.Time) ([]Event, error) {
	if m.phase != PhaseIdle {
		return nil, apperrors.ErrInvalidTransition
	}
	if !m.schedule.Contains(now) {
		return nil, apperrors.ErrOutOfSchedule
	}
	m.enterPhase(PhaseFocus, m.settings.FocusDuration, sessionID, now)
	return []Event{{
		Kind:       EventPhaseStarted,
		Phase:      PhaseFocus,
		SessionID:  sessionID,
		Duration:   m.settings.FocusDuration,
		CycleCount: m.cycleCount,
		StrictMode: m.settings.StrictMode,
	}}, nil
}

// StartBreak transitions Idle -> ShortBreak or LongBreak. A long break
// is chosen when forced or when the cycle count has reached a multiple
// of the configured cadence.
func (m *Machine) StartBreak(sessionID string, forceLong bool, now time.Time) ([]Event, error) {
	if m.phase != PhaseIdle {
		return nil, apperrors.ErrInvalidTransition
	}
	long := forceLong || (m.cycleCount > 0 && m.settings.CyclesPerLongBreak > 0 &&
		m.cycleCount%m.settings.CyclesPerLongBreak == 0)
	phase := PhaseShortBreak
	if long {
		phase = PhaseLongBreak
	}
	duration := m.settings.BreakDuration(long)
	m.enterPhase(phase, duration, sessionID, now)

	events := []Event{{
		Kind:       EventPhaseStarted,
		Phase:      phase,
		SessionID:  sessionID,
		Duration:   duration,
		CycleCount: m.cycleCount,
		StrictMode: m.settings.StrictMode,
	}}
	if long {
		events = append(events, Event{Kind: EventLongBreakReached, Phase: phase, CycleCount: m.cycleCount})
	}
	return events, nil
}

func (m *Machine) Pause() error {
	if !m.running {
		return apperrors.ErrNotRunning
	}
	m.running = false
	return nil
}

func (m *Machine) Resume() error {
	if m.phase == PhaseIdle {
		return apperrors.ErrNoActiveSession
	}
	if m.running {
		return apperrors.ErrAlreadyRunning
	}
	m.running = true
	return nil
}

// Tick advances the machine to the authoritative remaining value the
// engine derived from the session clock. No-op when idle or paused.
// Event order is fixed: Tick, then PreAlert on a threshold crossing,
// then the end-of-session events when remaining hits zero.
func (m *Machine) Tick(remaining time.Duration) []Event {
	if m.phase == PhaseIdle || !m.running {
		return nil
	}
	if remaining < 0 {
		remaining = 0
	}
	previous := m.remaining
	m.remaining = remaining

	events := []Event{{Kind: EventTick, Phase: m.phase, SessionID: m.sessionID, Remaining: remaining}}

	threshold := m.settings.PreAlert
	if threshold > 0 && !m.preAlertFired && previous > threshold && remaining <= threshold {
		m.preAlertFired = true
		events = append(events, Event{Kind: EventPreAlert, Phase: m.phase, SessionID: m.sessionID, Remaining: remaining})
	}

	if remaining == 0 {
		ended, err := m.EndSession(true)
		if err == nil {
			events = append(events, ended...)
		}
	}
	return events
}

// EndSession closes the current phase, completed or not, and always
// resets to Idle. Only a completed focus phase advances the cycle count.
func (m *Machine) EndSession(completed bool) ([]Event, error) {
	if m.phase == PhaseIdle {
		return nil, apperrors.ErrNoActiveSession
	}
	ended := m.phase
	sessionID := m.sessionID

	events := []Event{{
		Kind:      EventPhaseEnded,
		Phase:     ended,
		SessionID: sessionID,
		Completed: completed,
	}}
	if completed && ended == PhaseFocus {
		m.cycleCount++
		events = append(events, Event{Kind: EventCycleCompleted, CycleCount: m.cycleCount})
	}

	m.phase = PhaseIdle
	m.remaining = 0
	m.planned = 0
	m.running = false
	m.sessionID = ""
	m.startedAt = time.Time{}
	m.preAlertFired = false
	return events, nil
}

// ResetCycleCount is unconditional and valid in any state; used after a
// long break to restart the cadence.
func (m *Machine) ResetCycleCount() {
	m.cycleCount = 0
}

// RestoreFocus rehydrates a recovered focus session without emitting
// events. Reconciler use only.
func (m *Machine) RestoreFocus(sessionID string, planned, remaining time.Duration, cycleCount int, startedAt time.Time) {
	m.phase = PhaseFocus
	m.remaining = remaining
	m.planned = planned
	m.cycleCount = cycleCount
	m.running = true
	m.sessionID = sessionID
	m.startedAt = startedAt
	m.preAlertFired = remaining <= m.settings.PreAlert
}

func (m *Machine) RestoreCycleCount(count int) {
	if count >= 0 {
		m.cycleCount = count
	}
}

func (m *Machine) Snapshot() CycleState {
	return CycleState{
		Phase:      m.phase,
		Remaining:  m.remaining,
		Planned:    m.planned,
		CycleCount: m.cycleCount,
		Running:    m.running,
		SessionID:  m.sessionID,
		StartedAt:  m.startedAt,
	}
}

func (m *Machine) Phase() Phase       { return m.phase }
func (m *Machine) SessionID() string  { return m.sessionID }
func (m *Machine) CycleCount() int    { return m.cycleCount }
func (m *Machine) Running() bool      { return m.running }
func (m *Machine) Settings() Settings { return m.settings }

func (m *Machine) enterPhase(phase Phase, duration time.Duration, sessionID string, now time.Time) {
	m.phase = phase
	m.remaining = duration
	m.planned = duration
	m.running = true
	m.sessionID = sessionID
	m.startedAt = now
	m.preAlertFired = false
}
