package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pomo/internal/bootstrap"
	"pomo/internal/platform/config"
	"pomo/internal/platform/logging"
	"pomo/internal/platform/notify"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir, logLevel string

	root := &cobra.Command{
		Use:           "pomo",
		Short:         "Focus and break session timer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: trace|debug|info|warn|error")

	root.AddCommand(newRunCmd(&dataDir, &logLevel))
	root.AddCommand(newStatusCmd(&dataDir, &logLevel))
	root.AddCommand(newStartCmd(&dataDir, &logLevel))
	root.AddCommand(newBreakCmd(&dataDir, &logLevel))
	root.AddCommand(newEndCmd(&dataDir, &logLevel))
	root.AddCommand(newHistoryCmd(&dataDir, &logLevel))
	root.AddCommand(newResetCyclesCmd(&dataDir, &logLevel))
	root.AddCommand(newEnforceCmd(&dataDir, &logLevel))
	return root
}

func defaultDataDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "pomo")
	}
	return ".pomo"
}

func loadApp(dataDir, logLevel string) (*bootstrap.App, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New(os.Stderr, logLevel))
}

func newRunCmd(dataDir, logLevel *string) *cobra.Command {
	var silent bool
	run := &cobra.Command{
		Use:   "run",
		Short: "Run the interactive timer",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			app.Start(notify.NewDesktopNotifier(!silent))
			defer app.Stop()
			return bootstrap.RunTUI(app)
		},
	}
	run.Flags().BoolVar(&silent, "silent", false, "suppress desktop notifications")
	return run
}

func newStatusCmd(dataDir, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			state, err := app.TimerCLI.GetState(context.Background())
			if err != nil {
				return err
			}
			if state.Phase == "idle" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "idle, %d cycle(s) since long break\n", state.CycleCount)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "phase=%s remaining=%s running=%t cycles=%d started=%s\n",
				state.Phase, state.Remaining.Round(time.Second), state.Running,
				state.CycleCount, state.StartedAt.Format(time.RFC3339))
			return nil
		},
	}
}

func newStartCmd(dataDir, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a focus session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			state, err := app.TimerCLI.StartFocus(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "focus started, %s on the clock\n", state.Remaining.Round(time.Second))
			return nil
		},
	}
}

func newBreakCmd(dataDir, logLevel *string) *cobra.Command {
	var long bool
	breakCmd := &cobra.Command{
		Use:   "break",
		Short: "Start a break",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			state, err := app.TimerCLI.StartBreak(context.Background(), long)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s started, %s on the clock\n", state.Phase, state.Remaining.Round(time.Second))
			return nil
		},
	}
	breakCmd.Flags().BoolVar(&long, "long", false, "force a long break")
	return breakCmd
}

func newEndCmd(dataDir, logLevel *string) *cobra.Command {
	var completed bool
	end := &cobra.Command{
		Use:   "end",
		Short: "End the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			state, err := app.TimerCLI.EndSession(context.Background(), completed)
			if err != nil {
				return err
			}
			if state.Phase != "idle" {
				// A completed focus chains straight into the break.
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session ended, %s started\n", state.Phase)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session ended")
			return nil
		},
	}
	end.Flags().BoolVar(&completed, "completed", false, "record the session as completed")
	return end
}

func newHistoryCmd(dataDir, logLevel *string) *cobra.Command {
	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recent sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			sessions, err := app.TimerCLI.History(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions recorded")
				return nil
			}
			for _, s := range sessions {
				mark := "abandoned"
				if s.Completed {
					mark = "completed"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%-11s\t%s\t%s\n",
					s.StartTime.Format("2006-01-02 15:04"), s.Kind,
					s.ActualDuration.Round(time.Second), mark)
			}
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "sessions to show")
	return history
}

func newResetCyclesCmd(dataDir, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-cycles",
		Short: "Reset the long-break cadence counter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			if err := app.TimerCLI.ResetCycleCount(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cycle count reset")
			return nil
		},
	}
}

func newEnforceCmd(dataDir, logLevel *string) *cobra.Command {
	enforce := &cobra.Command{Use: "enforce", Short: "Break enforcement operations"}

	enforce.AddCommand(&cobra.Command{
		Use:   "state",
		Short: "Show enforcement state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			state, err := app.EnforceCLI.GetState(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "active=%t locked=%t window=%s\n", state.Active, state.Locked, state.Window)
			return nil
		},
	})

	enforce.AddCommand(&cobra.Command{
		Use:   "plugins",
		Short: "List locker plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			plugins, err := app.EnforceCLI.ListPlugins(context.Background())
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no locker plugins configured")
				return nil
			}
			for _, p := range plugins {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s\n", p.Name, p.Version, p.Enabled, p.Binary)
			}
			return nil
		},
	})

	enforce.AddCommand(&cobra.Command{
		Use:   "emergency-exit",
		Short: "Release any held lock and deactivate enforcement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *logLevel)
			if err != nil {
				return err
			}
			if err := app.EnforceCLI.EmergencyExit(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "enforcement released")
			return nil
		},
	})

	return enforce
}
