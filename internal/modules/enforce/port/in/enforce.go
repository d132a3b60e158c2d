package in

import (
	"context"

	"pomo/internal/modules/enforce/dto"
)

type Usecase interface {
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context) error
	BeginBreak(ctx context.Context) error
	EmergencyExit(ctx context.Context) error
	GetState(ctx context.Context) (dto.StateOutput, error)
	ListPlugins(ctx context.Context) ([]dto.PluginOutput, error)
}
