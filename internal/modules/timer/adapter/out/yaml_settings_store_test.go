package out

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pomo/internal/modules/timer/domain"
)

func writeSettings(t *testing.T, content string) *YAMLSettingsStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return NewYAMLSettingsStore(path)
}

func TestSettingsMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()
	store := NewYAMLSettingsStore(filepath.Join(t.TempDir(), "missing.yaml"))

	settings, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings != domain.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}
	schedule, err := store.LoadSchedule(context.Background())
	if err != nil {
		t.Fatalf("load schedule: %v", err)
	}
	if schedule.Enabled {
		t.Fatalf("expected disabled schedule, got %+v", schedule)
	}
}

func TestSettingsLoadOverrides(t *testing.T) {
	t.Parallel()
	store := writeSettings(t, `
focus_minutes: 50
short_break_minutes: 10
long_break_minutes: 30
cycles_per_long_break: 3
pre_alert_seconds: 90
strict_mode: true
work_schedule:
  enabled: true
  start: "08:30"
  end: "16:30"
`)

	settings, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.FocusDuration != 50*time.Minute {
		t.Fatalf("focus: %s", settings.FocusDuration)
	}
	if settings.ShortBreakDuration != 10*time.Minute || settings.LongBreakDuration != 30*time.Minute {
		t.Fatalf("breaks: %+v", settings)
	}
	if settings.CyclesPerLongBreak != 3 || settings.PreAlert != 90*time.Second || !settings.StrictMode {
		t.Fatalf("cadence/alert/strict: %+v", settings)
	}

	schedule, err := store.LoadSchedule(context.Background())
	if err != nil {
		t.Fatalf("load schedule: %v", err)
	}
	if !schedule.Enabled || schedule.Start != "08:30" || schedule.End != "16:30" {
		t.Fatalf("unexpected schedule: %+v", schedule)
	}
}

func TestSettingsPartialFileKeepsOtherDefaults(t *testing.T) {
	t.Parallel()
	store := writeSettings(t, "focus_minutes: 45\n")

	settings, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.FocusDuration != 45*time.Minute {
		t.Fatalf("focus override: %s", settings.FocusDuration)
	}
	defaults := domain.DefaultSettings()
	if settings.ShortBreakDuration != defaults.ShortBreakDuration || settings.CyclesPerLongBreak != defaults.CyclesPerLongBreak {
		t.Fatalf("defaults lost: %+v", settings)
	}
}

func TestSettingsRejectsBadYAML(t *testing.T) {
	t.Parallel()
	store := writeSettings(t, "focus_minutes: [nope\n")
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSettingsRejectsInvalidSchedule(t *testing.T) {
	t.Parallel()
	store := writeSettings(t, `
work_schedule:
  enabled: true
  start: "9am"
  end: "17:00"
`)
	if _, err := store.LoadSchedule(context.Background()); err == nil {
		t.Fatalf("expected schedule validation error")
	}
}
