package usecase

import (
	"context"
	"fmt"

	"pomo/internal/modules/enforce/dto"
	enforcein "pomo/internal/modules/enforce/port/in"
	enforceout "pomo/internal/modules/enforce/port/out"
	"pomo/internal/modules/enforce/service"
)

type Interactor struct {
	coordinator *service.Coordinator
	manifests   enforceout.ManifestStore
}

func NewInteractor(coordinator *service.Coordinator, manifests enforceout.ManifestStore) enforcein.Usecase {
	return &Interactor{coordinator: coordinator, manifests: manifests}
}

func (i *Interactor) Activate(ctx context.Context) error {
	return i.coordinator.Activate(ctx)
}

func (i *Interactor) Deactivate(ctx context.Context) error {
	return i.coordinator.Deactivate(ctx)
}

func (i *Interactor) BeginBreak(ctx context.Context) error {
	return i.coordinator.BeginBreak(ctx)
}

func (i *Interactor) EmergencyExit(ctx context.Context) error {
	return i.coordinator.EmergencyExit(ctx)
}

func (i *Interactor) GetState(ctx context.Context) (dto.StateOutput, error) {
	state := i.coordinator.State()
	return dto.StateOutput{
		Active: state.IsActive,
		Locked: state.IsLocked,
		Window: string(state.Window),
	}, nil
}

func (i *Interactor) ListPlugins(ctx context.Context) ([]dto.PluginOutput, error) {
	if i.manifests == nil {
		return nil, nil
	}
	manifests, err := i.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load locker manifests: %w", err)
	}
	out := make([]dto.PluginOutput, 0, len(manifests))
	for _, manifest := range manifests {
		out = append(out, dto.PluginOutput{
			Name:    manifest.Name,
			Version: manifest.Version,
			Binary:  manifest.Binary,
			Enabled: manifest.Enabled,
		})
	}
	return out, nil
}
