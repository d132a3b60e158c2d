package out

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pomo/internal/modules/timer/domain"
	timerout "pomo/internal/modules/timer/port/out"
	apperrors "pomo/internal/platform/errors"
)

func newTestStore(t *testing.T) timerout.SessionStore {
	t.Helper()
	store, err := NewSQLiteSessionStore(filepath.Join(t.TempDir(), "pomo.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func openRecord(id string, kind domain.Phase, start time.Time, planned time.Duration) domain.SessionRecord {
	return domain.SessionRecord{
		ID:              id,
		Kind:            kind,
		StartTime:       start,
		PlannedDuration: planned,
		CreatedAt:       start,
	}
}

func closeRecord(t *testing.T, store timerout.SessionStore, record domain.SessionRecord, completed bool, actual time.Duration) {
	t.Helper()
	end := record.StartTime.Add(actual)
	record.EndTime = &end
	record.ActualDuration = &actual
	record.Completed = completed
	if err := store.UpdateSession(context.Background(), record); err != nil {
		t.Fatalf("close %s: %v", record.ID, err)
	}
}

func TestSessionStoreCreateAndGetActive(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	record := openRecord("s-1", domain.PhaseFocus, start, 25*time.Minute)
	record.StrictMode = true
	if err := store.CreateSession(ctx, record); err != nil {
		t.Fatalf("create: %v", err)
	}

	active, err := store.GetActiveSession(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.ID != "s-1" || active.Kind != domain.PhaseFocus || !active.Open() {
		t.Fatalf("unexpected active record: %+v", active)
	}
	if !active.StartTime.Equal(start) || active.PlannedDuration != 25*time.Minute || !active.StrictMode {
		t.Fatalf("round trip lost fields: %+v", active)
	}
}

func TestSessionStoreGetActivePicksNewestOpen(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	older := openRecord("s-1", domain.PhaseFocus, base, 25*time.Minute)
	newer := openRecord("s-2", domain.PhaseShortBreak, base.Add(time.Hour), 5*time.Minute)
	if err := store.CreateSession(ctx, older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	if err := store.CreateSession(ctx, newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}

	active, err := store.GetActiveSession(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.ID != "s-2" {
		t.Fatalf("expected newest open record, got %s", active.ID)
	}
}

func TestSessionStoreNoActiveSession(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetActiveSession(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("empty store: expected ErrNoActiveSession, got %v", err)
	}

	record := openRecord("s-1", domain.PhaseFocus, time.Now().UTC(), 25*time.Minute)
	if err := store.CreateSession(ctx, record); err != nil {
		t.Fatalf("create: %v", err)
	}
	closeRecord(t, store, record, true, 25*time.Minute)

	if _, err := store.GetActiveSession(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("all closed: expected ErrNoActiveSession, got %v", err)
	}
}

func TestSessionStoreUpdateClosesOnce(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	record := openRecord("s-1", domain.PhaseFocus, start, 25*time.Minute)
	if err := store.CreateSession(ctx, record); err != nil {
		t.Fatalf("create: %v", err)
	}
	closeRecord(t, store, record, false, 10*time.Minute)

	sessions, err := store.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one record, got %d", len(sessions))
	}
	got := sessions[0]
	if got.Open() || got.Completed {
		t.Fatalf("expected closed abandoned record: %+v", got)
	}
	if *got.ActualDuration != 10*time.Minute {
		t.Fatalf("actual duration round trip: %s", *got.ActualDuration)
	}
	if !got.EndTime.Equal(start.Add(10 * time.Minute)) {
		t.Fatalf("end time round trip: %s", got.EndTime)
	}
}

func TestSessionStoreUpdateRequiresCloseFields(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	record := openRecord("s-1", domain.PhaseFocus, time.Now().UTC(), 25*time.Minute)
	if err := store.UpdateSession(context.Background(), record); err == nil {
		t.Fatalf("expected error for update without end time")
	}
}

func TestSessionStoreUpdateUnknownID(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	record := openRecord("ghost", domain.PhaseFocus, time.Now().UTC(), 25*time.Minute)
	end := record.StartTime.Add(time.Minute)
	actual := time.Minute
	record.EndTime = &end
	record.ActualDuration = &actual
	if err := store.UpdateSession(context.Background(), record); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestSessionStoreCycleCountSinceLongBreak(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	seed := func(id string, kind domain.Phase, completed bool, offset time.Duration) {
		record := openRecord(id, kind, base.Add(offset), 10*time.Minute)
		if err := store.CreateSession(ctx, record); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
		closeRecord(t, store, record, completed, 10*time.Minute)
	}

	// Empty store: zero cycles.
	count, err := store.CycleCountSinceLongBreak(ctx)
	if err != nil {
		t.Fatalf("count empty: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 on empty store, got %d", count)
	}

	seed("f1", domain.PhaseFocus, true, 0)
	seed("f2", domain.PhaseFocus, true, time.Hour)
	seed("lb", domain.PhaseLongBreak, true, 2*time.Hour)
	seed("f3", domain.PhaseFocus, true, 3*time.Hour)
	seed("f4", domain.PhaseFocus, false, 4*time.Hour) // abandoned, not counted
	seed("sb", domain.PhaseShortBreak, true, 5*time.Hour)
	seed("f5", domain.PhaseFocus, true, 6*time.Hour)

	count, err = store.CycleCountSinceLongBreak(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 completed focus since long break, got %d", count)
	}
}

func TestSessionStoreListOrdersNewestFirst(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"s-1", "s-2", "s-3"} {
		record := openRecord(id, domain.PhaseFocus, base.Add(time.Duration(i)*time.Hour), 25*time.Minute)
		if err := store.CreateSession(ctx, record); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
		closeRecord(t, store, record, true, 25*time.Minute)
	}

	sessions, err := store.ListSessions(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != "s-3" || sessions[1].ID != "s-2" {
		t.Fatalf("unexpected order: %+v", sessions)
	}
}
