package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "pomo/internal/platform/errors"
)

func testSettings() Settings {
	return Settings{
		FocusDuration:      25 * time.Minute,
		ShortBreakDuration: 5 * time.Minute,
		LongBreakDuration:  15 * time.Minute,
		CyclesPerLongBreak: 4,
		PreAlert:           2 * time.Minute,
	}
}

func startedAt() time.Time {
	return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func TestStartFocusFromIdle(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})

	events, err := m.StartFocus("s-1", startedAt())
	if err != nil {
		t.Fatalf("start focus: %v", err)
	}
	if len(events) != 1 || events[0].Kind != EventPhaseStarted {
		t.Fatalf("expected single PhaseStarted event, got %v", events)
	}
	if events[0].Duration != 25*time.Minute {
		t.Fatalf("unexpected duration: %s", events[0].Duration)
	}
	state := m.Snapshot()
	if state.Phase != PhaseFocus || !state.Running || state.SessionID != "s-1" {
		t.Fatalf("unexpected state after start: %+v", state)
	}
	if state.Planned != 25*time.Minute || state.Remaining != 25*time.Minute {
		t.Fatalf("expected full planned duration, got %+v", state)
	}
}

func TestStartFocusRejectedOutsideIdle(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	if _, err := m.StartFocus("s-1", startedAt()); err != nil {
		t.Fatalf("start focus: %v", err)
	}
	if _, err := m.StartFocus("s-2", startedAt()); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := m.StartBreak("s-3", false, startedAt()); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for break, got %v", err)
	}
	if state := m.Snapshot(); state.SessionID != "s-1" {
		t.Fatalf("rejected start must not disturb the active session: %+v", state)
	}
}

func TestStartFocusRespectsSchedule(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{Enabled: true, Start: "09:00", End: "17:00"})

	late := time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC)
	if _, err := m.StartFocus("s-1", late); !errors.Is(err, apperrors.ErrOutOfSchedule) {
		t.Fatalf("expected ErrOutOfSchedule, got %v", err)
	}
	if _, err := m.StartFocus("s-1", startedAt()); err != nil {
		t.Fatalf("start inside schedule: %v", err)
	}
}

func TestBreaksIgnoreSchedule(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{Enabled: true, Start: "09:00", End: "17:00"})

	late := time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC)
	if _, err := m.StartBreak("s-1", false, late); err != nil {
		t.Fatalf("break outside schedule must be allowed: %v", err)
	}
}

func TestLongBreakCadence(t *testing.T) {
	t.Parallel()
	cases := []struct {
		cycles int
		want   Phase
	}{
		{0, PhaseShortBreak},
		{1, PhaseShortBreak},
		{2, PhaseShortBreak},
		{3, PhaseShortBreak},
		{4, PhaseLongBreak},
		{5, PhaseShortBreak},
		{8, PhaseLongBreak},
		{12, PhaseLongBreak},
	}
	for _, tc := range cases {
		m := NewMachine(testSettings(), Schedule{})
		m.RestoreCycleCount(tc.cycles)
		events, err := m.StartBreak("s-1", false, startedAt())
		if err != nil {
			t.Fatalf("cycles=%d start break: %v", tc.cycles, err)
		}
		if got := m.Phase(); got != tc.want {
			t.Fatalf("cycles=%d expected %s, got %s", tc.cycles, tc.want, got)
		}
		if tc.want == PhaseLongBreak {
			if len(events) != 2 || events[1].Kind != EventLongBreakReached {
				t.Fatalf("cycles=%d expected LongBreakReached after PhaseStarted, got %v", tc.cycles, events)
			}
		}
	}
}

func TestForceLongBreak(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	events, err := m.StartBreak("s-1", true, startedAt())
	if err != nil {
		t.Fatalf("start break: %v", err)
	}
	if m.Phase() != PhaseLongBreak {
		t.Fatalf("forced break must be long, got %s", m.Phase())
	}
	if events[0].Duration != 15*time.Minute {
		t.Fatalf("unexpected long break duration: %s", events[0].Duration)
	}
}

func TestPauseResumeGuards(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})

	if err := m.Pause(); !errors.Is(err, apperrors.ErrNotRunning) {
		t.Fatalf("pause while idle: expected ErrNotRunning, got %v", err)
	}
	if err := m.Resume(); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("resume while idle: expected ErrNoActiveSession, got %v", err)
	}

	if _, err := m.StartFocus("s-1", startedAt()); err != nil {
		t.Fatalf("start focus: %v", err)
	}
	if err := m.Resume(); !errors.Is(err, apperrors.ErrAlreadyRunning) {
		t.Fatalf("resume while running: expected ErrAlreadyRunning, got %v", err)
	}
	if err := m.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := m.Pause(); !errors.Is(err, apperrors.ErrNotRunning) {
		t.Fatalf("double pause: expected ErrNotRunning, got %v", err)
	}
	if err := m.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
}

func TestTickWhilePausedIsNoop(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	if _, err := m.StartFocus("s-1", startedAt()); err != nil {
		t.Fatalf("start focus: %v", err)
	}
	if err := m.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if events := m.Tick(10 * time.Minute); events != nil {
		t.Fatalf("paused tick must emit nothing, got %v", events)
	}
	if m.Snapshot().Remaining != 25*time.Minute {
		t.Fatalf("paused tick must not advance remaining")
	}
}

func TestPreAlertFiresOnceOnThresholdCrossing(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	if _, err := m.StartFocus("s-1", startedAt()); err != nil {
		t.Fatalf("start focus: %v", err)
	}

	if events := m.Tick(121 * time.Second); countKind(events, EventPreAlert) != 0 {
		t.Fatalf("pre-alert above threshold: %v", events)
	}
	events := m.Tick(120 * time.Second)
	if countKind(events, EventPreAlert) != 1 {
		t.Fatalf("expected pre-alert on crossing, got %v", events)
	}
	if events[0].Kind != EventTick || events[1].Kind != EventPreAlert {
		t.Fatalf("pre-alert must follow the tick event: %v", events)
	}
	if events := m.Tick(119 * time.Second); countKind(events, EventPreAlert) != 0 {
		t.Fatalf("pre-alert must be one-shot, got %v", events)
	}
}

func TestPreAlertDisabledWhenZero(t *testing.T) {
	t.Parallel()
	settings := testSettings()
	settings.PreAlert = 0
	m := NewMachine(settings, Schedule{})
	if _, err := m.StartFocus("s-1", startedAt()); err != nil {
		t.Fatalf("start focus: %v", err)
	}
	if events := m.Tick(time.Second); countKind(events, EventPreAlert) != 0 {
		t.Fatalf("pre-alert disabled, got %v", events)
	}
}

func TestTickToZeroCompletesFocus(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	if _, err := m.StartFocus("s-1", startedAt()); err != nil {
		t.Fatalf("start focus: %v", err)
	}

	events := m.Tick(0)
	wantOrder := []EventKind{EventTick, EventPreAlert, EventPhaseEnded, EventCycleCompleted}
	if len(events) != len(wantOrder) {
		t.Fatalf("expected %d events, got %v", len(wantOrder), events)
	}
	for i, kind := range wantOrder {
		if events[i].Kind != kind {
			t.Fatalf("event %d: expected %s, got %s", i, kind, events[i].Kind)
		}
	}
	if !events[2].Completed {
		t.Fatalf("tick-to-zero must close the phase as completed")
	}
	state := m.Snapshot()
	if state.Phase != PhaseIdle || state.Running || state.SessionID != "" {
		t.Fatalf("expected idle reset, got %+v", state)
	}
	if state.CycleCount != 1 {
		t.Fatalf("completed focus must advance cycle count, got %d", state.CycleCount)
	}
}

func TestTickToZeroOnBreakDoesNotAdvanceCycles(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	if _, err := m.StartBreak("s-1", false, startedAt()); err != nil {
		t.Fatalf("start break: %v", err)
	}
	events := m.Tick(0)
	if countKind(events, EventCycleCompleted) != 0 {
		t.Fatalf("break completion must not advance cycles: %v", events)
	}
	if m.CycleCount() != 0 {
		t.Fatalf("cycle count moved on break completion")
	}
}

func TestAbandonedFocusDoesNotAdvanceCycles(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	if _, err := m.StartFocus("s-1", startedAt()); err != nil {
		t.Fatalf("start focus: %v", err)
	}
	events, err := m.EndSession(false)
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if countKind(events, EventCycleCompleted) != 0 {
		t.Fatalf("abandoned focus must not advance cycles: %v", events)
	}
	if events[0].Completed {
		t.Fatalf("abandoned phase reported completed")
	}
	if m.Phase() != PhaseIdle {
		t.Fatalf("abandon must reset to idle, got %s", m.Phase())
	}
}

func TestEndSessionWhileIdle(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	if _, err := m.EndSession(true); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestRestoreFocusSetsPreAlertGuard(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	m.RestoreFocus("s-1", 25*time.Minute, 90*time.Second, 2, startedAt())

	state := m.Snapshot()
	if state.Phase != PhaseFocus || !state.Running || state.CycleCount != 2 {
		t.Fatalf("unexpected restored state: %+v", state)
	}
	if state.Planned != 25*time.Minute {
		t.Fatalf("restored planned duration lost: %+v", state)
	}
	// Remaining already inside the pre-alert window: the alert was due
	// before the restart and must not fire again.
	if events := m.Tick(80 * time.Second); countKind(events, EventPreAlert) != 0 {
		t.Fatalf("restored session re-fired pre-alert: %v", events)
	}
}

func TestResetCycleCount(t *testing.T) {
	t.Parallel()
	m := NewMachine(testSettings(), Schedule{})
	m.RestoreCycleCount(7)
	m.ResetCycleCount()
	if m.CycleCount() != 0 {
		t.Fatalf("expected reset to zero, got %d", m.CycleCount())
	}
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
