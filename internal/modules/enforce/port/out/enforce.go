package out

import (
	"context"

	"pomo/internal/modules/enforce/domain"
)

// Locker is the platform lock capability. One implementation per target
// platform; the coordinator depends only on this interface.
type Locker interface {
	Engage(ctx context.Context) error
	Release(ctx context.Context) error
	IsEngaged(ctx context.Context) (bool, error)
}

// Presenter moves the break-taking experience between window states.
// Actual window placement and rendering live outside this module.
type Presenter interface {
	Minimize(ctx context.Context) error
	PresentTransition(ctx context.Context) error
}

// ManifestStore discovers installed locker plugins.
type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}
