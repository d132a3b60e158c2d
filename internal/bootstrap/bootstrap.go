package bootstrap

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	enforceinadapter "pomo/internal/modules/enforce/adapter/in"
	enforceoutadapter "pomo/internal/modules/enforce/adapter/out"
	enforceout "pomo/internal/modules/enforce/port/out"
	enforceservice "pomo/internal/modules/enforce/service"
	enforceusecase "pomo/internal/modules/enforce/usecase"
	timerinadapter "pomo/internal/modules/timer/adapter/in"
	timeroutadapter "pomo/internal/modules/timer/adapter/out"
	timerdomain "pomo/internal/modules/timer/domain"
	timerservice "pomo/internal/modules/timer/service"
	timerusecase "pomo/internal/modules/timer/usecase"
	"pomo/internal/platform/clock"
	"pomo/internal/platform/config"
	"pomo/internal/platform/id"
	"pomo/internal/platform/notify"
	uiapp "pomo/internal/ui/app"
)

type App struct {
	TimerCLI   timerinadapter.CLIHandler
	EnforceCLI enforceinadapter.CLIHandler

	driver      *timerservice.Driver
	coordinator *enforceservice.Coordinator
	bus         *timerservice.Bus
	cancel      context.CancelFunc
}

// New wires the whole application. The recovery reconciler runs here,
// synchronously, before any command can reach the engine.
func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	ctx := context.Background()
	clk := clock.SystemClock{}
	ids := id.UUID{}

	store, err := timeroutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new session store: %w", err)
	}

	settingsStore := timeroutadapter.NewYAMLSettingsStore(cfg.SettingsPath)
	settings, err := settingsStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	schedule, err := settingsStore.LoadSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("load work schedule: %w", err)
	}

	bus := timerservice.NewBus()
	engine := timerservice.NewEngine(clk, ids, store, bus, logger, settings, schedule)
	if err := timerservice.NewReconciler(clk, store, logger).Run(ctx, engine); err != nil {
		return nil, fmt.Errorf("reconcile sessions: %w", err)
	}

	coordinator := enforceservice.NewCoordinator(
		newLocker(ctx, cfg, logger),
		enforceoutadapter.NoopPresenter{},
		logger,
		0,
	)

	app := &App{
		TimerCLI:    timerinadapter.NewCLIHandler(timerusecase.NewInteractor(engine, store)),
		EnforceCLI:  enforceinadapter.NewCLIHandler(enforceusecase.NewInteractor(coordinator, enforceoutadapter.NewFileManifestStore(cfg.PluginsPath))),
		driver:      timerservice.NewDriver(engine, time.Second, logger),
		coordinator: coordinator,
		bus:         bus,
	}
	return app, nil
}

// Start launches the tick driver and the event subscribers. Safe to
// call once per App.
func (a *App) Start(notifier notify.Notifier) {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.driver.Start(ctx)
	go a.coordinator.Run(ctx, a.bus.Subscribe(64))
	if notifier != nil {
		go notifyLoop(ctx, a.bus.Subscribe(16), notifier)
	}
}

func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	a.driver.Stop()
	a.bus.Close()
}

// newLocker prefers the first enabled locker plugin and falls back to
// the in-process locker when none is installed or usable.
func newLocker(ctx context.Context, cfg config.Config, logger hclog.Logger) enforceout.Locker {
	manifests, err := enforceoutadapter.NewFileManifestStore(cfg.PluginsPath).Load(ctx)
	if err != nil {
		logger.Warn("load locker manifests", "error", err)
		return enforceoutadapter.NewInProcessLocker()
	}
	for _, manifest := range manifests {
		if !manifest.Enabled {
			continue
		}
		locker, err := enforceoutadapter.NewPluginLocker(manifest)
		if err != nil {
			logger.Warn("locker plugin rejected", "plugin", manifest.Name, "error", err)
			continue
		}
		logger.Info("using locker plugin", "plugin", manifest.Name, "version", manifest.Version)
		return locker
	}
	return enforceoutadapter.NewInProcessLocker()
}

func notifyLoop(ctx context.Context, events <-chan timerdomain.Event, notifier notify.Notifier) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if n, send := notificationFor(event); send {
				_ = notifier.Send(n)
			}
		}
	}
}

func notificationFor(event timerdomain.Event) (notify.Notification, bool) {
	switch event.Kind {
	case timerdomain.EventPhaseStarted:
		return notify.Notification{
			Title:   "pomo",
			Message: fmt.Sprintf("%s started (%s)", phaseLabel(event.Phase), event.Duration),
		}, true
	case timerdomain.EventPreAlert:
		return notify.Notification{
			Title:   "pomo",
			Message: fmt.Sprintf("%s ends in %s", phaseLabel(event.Phase), event.Remaining),
		}, true
	case timerdomain.EventLongBreakReached:
		return notify.Notification{
			Title:   "pomo",
			Message: fmt.Sprintf("long break earned after %d cycles", event.CycleCount),
		}, true
	default:
		return notify.Notification{}, false
	}
}

func phaseLabel(phase timerdomain.Phase) string {
	switch phase {
	case timerdomain.PhaseFocus:
		return "focus"
	case timerdomain.PhaseShortBreak:
		return "short break"
	case timerdomain.PhaseLongBreak:
		return "long break"
	default:
		return string(phase)
	}
}

// RunTUI starts the interactive timer view on top of a started App.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.TimerCLI, app.EnforceCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
