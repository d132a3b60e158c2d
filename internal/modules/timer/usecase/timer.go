package usecase

import (
	"context"
	"fmt"

	"pomo/internal/modules/timer/domain"
	"pomo/internal/modules/timer/dto"
	timerin "pomo/internal/modules/timer/port/in"
	timerout "pomo/internal/modules/timer/port/out"
	"pomo/internal/modules/timer/service"
)

type Interactor struct {
	engine *service.Engine
	store  timerout.SessionStore
}

func NewInteractor(engine *service.Engine, store timerout.SessionStore) timerin.Usecase {
	return &Interactor{engine: engine, store: store}
}

func (i *Interactor) StartFocus(ctx context.Context) (dto.CycleStateOutput, error) {
	state, err := i.engine.StartFocus(ctx)
	return toCycleState(state), err
}

func (i *Interactor) StartBreak(ctx context.Context, input dto.StartBreakInput) (dto.CycleStateOutput, error) {
	state, err := i.engine.StartBreak(ctx, input.ForceLong)
	return toCycleState(state), err
}

func (i *Interactor) Pause(ctx context.Context) error {
	return i.engine.Pause(ctx)
}

func (i *Interactor) Resume(ctx context.Context) error {
	return i.engine.Resume(ctx)
}

func (i *Interactor) EndSession(ctx context.Context, input dto.EndSessionInput) (dto.CycleStateOutput, error) {
	state, err := i.engine.EndSession(ctx, input.Completed)
	return toCycleState(state), err
}

func (i *Interactor) GetState(ctx context.Context) (dto.CycleStateOutput, error) {
	return toCycleState(i.engine.GetState(ctx)), nil
}

func (i *Interactor) ResetCycleCount(ctx context.Context) error {
	i.engine.ResetCycleCount(ctx)
	return nil
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.SessionOutput, error) {
	if limit <= 0 {
		limit = 20
	}
	records, err := i.store.ListSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]dto.SessionOutput, 0, len(records))
	for _, record := range records {
		session := dto.SessionOutput{
			ID:              record.ID,
			Kind:            string(record.Kind),
			StartTime:       record.StartTime,
			PlannedDuration: record.PlannedDuration,
			Completed:       record.Completed,
		}
		if record.EndTime != nil {
			session.EndTime = *record.EndTime
		}
		if record.ActualDuration != nil {
			session.ActualDuration = *record.ActualDuration
		}
		out = append(out, session)
	}
	return out, nil
}

func toCycleState(state domain.CycleState) dto.CycleStateOutput {
	return dto.CycleStateOutput{
		Phase:      string(state.Phase),
		Remaining:  state.Remaining,
		Planned:    state.Planned,
		CycleCount: state.CycleCount,
		Running:    state.Running,
		SessionID:  state.SessionID,
		StartedAt:  state.StartedAt,
	}
}
