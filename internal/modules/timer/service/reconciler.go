package service

import (
	"context"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"pomo/internal/modules/timer/domain"
	timerout "pomo/internal/modules/timer/port/out"
	"pomo/internal/platform/clock"
	apperrors "pomo/internal/platform/errors"
)

// Reconciler resolves a persisted, never-closed session record into
// either a rehydrated running session or a forcibly closed historical
// record. It runs once, synchronously, before the engine accepts any
// command. Focus records are recovered when still in flight; break
// records are closed immediately, losing break time costs nothing while
// losing focus continuity distorts the user's reported productivity.
type Reconciler struct {
	clk    clock.Clock
	store  timerout.SessionStore
	logger hclog.Logger
}

func NewReconciler(clk clock.Clock, store timerout.SessionStore, logger hclog.Logger) *Reconciler {
	return &Reconciler{clk: clk, store: store, logger: logger.Named("reconciler")}
}

func (r *Reconciler) Run(ctx context.Context, engine *Engine) error {
	cycles, err := r.store.CycleCountSinceLongBreak(ctx)
	if err != nil {
		return fmt.Errorf("restore cycle count: %w", err)
	}
	engine.restoreCycleCount(cycles)

	record, err := r.store.GetActiveSession(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return nil
		}
		return fmt.Errorf("query active session: %w", err)
	}

	now := r.clk.Now()
	elapsed := now.Sub(record.StartTime)

	if record.Kind == domain.PhaseFocus && elapsed < record.PlannedDuration {
		engine.restore(record, elapsed, cycles)
		r.logger.Info("rehydrated focus session",
			"session_id", record.ID, "elapsed", elapsed, "planned", record.PlannedDuration)
		return nil
	}

	// Stale focus record past its planned duration, or any break record:
	// close it as completed with the full planned duration.
	actual := record.PlannedDuration
	endTime := record.StartTime.Add(actual)
	record.EndTime = &endTime
	record.ActualDuration = &actual
	record.Completed = true
	if err := r.store.UpdateSession(ctx, record); err != nil {
		return fmt.Errorf("close stale session record: %w", err)
	}
	if record.Kind == domain.PhaseFocus {
		// The force-closed focus session counts toward the cadence.
		engine.restoreCycleCount(cycles + 1)
	}
	r.logger.Info("closed stale session record", "session_id", record.ID, "kind", record.Kind)
	return nil
}
