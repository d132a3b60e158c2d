package in

import (
	"context"

	"pomo/internal/modules/enforce/dto"
	enforcein "pomo/internal/modules/enforce/port/in"
)

type CLIHandler struct {
	usecase enforcein.Usecase
}

func NewCLIHandler(usecase enforcein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Activate(ctx context.Context) error {
	return h.usecase.Activate(ctx)
}

func (h CLIHandler) Deactivate(ctx context.Context) error {
	return h.usecase.Deactivate(ctx)
}

func (h CLIHandler) BeginBreak(ctx context.Context) error {
	return h.usecase.BeginBreak(ctx)
}

func (h CLIHandler) EmergencyExit(ctx context.Context) error {
	return h.usecase.EmergencyExit(ctx)
}

func (h CLIHandler) GetState(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.GetState(ctx)
}

func (h CLIHandler) ListPlugins(ctx context.Context) ([]dto.PluginOutput, error) {
	return h.usecase.ListPlugins(ctx)
}
