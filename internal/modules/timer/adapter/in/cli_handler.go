package in

import (
	"context"

	"pomo/internal/modules/timer/dto"
	timerin "pomo/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) StartFocus(ctx context.Context) (dto.CycleStateOutput, error) {
	return h.usecase.StartFocus(ctx)
}

func (h CLIHandler) StartBreak(ctx context.Context, forceLong bool) (dto.CycleStateOutput, error) {
	return h.usecase.StartBreak(ctx, dto.StartBreakInput{ForceLong: forceLong})
}

func (h CLIHandler) Pause(ctx context.Context) error {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) error {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) EndSession(ctx context.Context, completed bool) (dto.CycleStateOutput, error) {
	return h.usecase.EndSession(ctx, dto.EndSessionInput{Completed: completed})
}

func (h CLIHandler) GetState(ctx context.Context) (dto.CycleStateOutput, error) {
	return h.usecase.GetState(ctx)
}

func (h CLIHandler) ResetCycleCount(ctx context.Context) error {
	return h.usecase.ResetCycleCount(ctx)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.SessionOutput, error) {
	return h.usecase.History(ctx, limit)
}
