package in

import (
	"context"

	"pomo/internal/modules/timer/dto"
)

type Usecase interface {
	StartFocus(ctx context.Context) (dto.CycleStateOutput, error)
	StartBreak(ctx context.Context, input dto.StartBreakInput) (dto.CycleStateOutput, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	EndSession(ctx context.Context, input dto.EndSessionInput) (dto.CycleStateOutput, error)
	GetState(ctx context.Context) (dto.CycleStateOutput, error)
	ResetCycleCount(ctx context.Context) error
	History(ctx context.Context, limit int) ([]dto.SessionOutput, error)
}
