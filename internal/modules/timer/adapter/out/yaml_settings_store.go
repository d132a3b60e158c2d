package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pomo/internal/modules/timer/domain"
)

// YAMLSettingsStore reads timer settings and the optional work schedule
// from one settings file. A missing file yields defaults.
type YAMLSettingsStore struct {
	path string
}

type yamlSettings struct {
	FocusMinutes       int          `yaml:"focus_minutes"`
	ShortBreakMinutes  int          `yaml:"short_break_minutes"`
	LongBreakMinutes   int          `yaml:"long_break_minutes"`
	CyclesPerLongBreak int          `yaml:"cycles_per_long_break"`
	PreAlertSeconds    int          `yaml:"pre_alert_seconds"`
	StrictMode         bool         `yaml:"strict_mode"`
	Schedule           yamlSchedule `yaml:"work_schedule"`
}

type yamlSchedule struct {
	Enabled bool   `yaml:"enabled"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

func NewYAMLSettingsStore(path string) *YAMLSettingsStore {
	return &YAMLSettingsStore{path: path}
}

func (s *YAMLSettingsStore) Load(_ context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	fileData, err := s.read()
	if err != nil {
		return settings, err
	}
	if fileData == nil {
		return settings, nil
	}
	if fileData.FocusMinutes > 0 {
		settings.FocusDuration = time.Duration(fileData.FocusMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreakDuration = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreakDuration = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.CyclesPerLongBreak > 0 {
		settings.CyclesPerLongBreak = fileData.CyclesPerLongBreak
	}
	if fileData.PreAlertSeconds > 0 {
		settings.PreAlert = time.Duration(fileData.PreAlertSeconds) * time.Second
	}
	settings.StrictMode = fileData.StrictMode
	return settings, nil
}

func (s *YAMLSettingsStore) LoadSchedule(_ context.Context) (domain.Schedule, error) {
	fileData, err := s.read()
	if err != nil || fileData == nil {
		return domain.Schedule{}, err
	}
	schedule := domain.Schedule{
		Enabled: fileData.Schedule.Enabled,
		Start:   fileData.Schedule.Start,
		End:     fileData.Schedule.End,
	}
	if err := schedule.Validate(); err != nil {
		return domain.Schedule{}, fmt.Errorf("settings %s: %w", s.path, err)
	}
	return schedule, nil
}

func (s *YAMLSettingsStore) read() (*yamlSettings, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	fileData := &yamlSettings{}
	if err := yaml.Unmarshal(raw, fileData); err != nil {
		return nil, fmt.Errorf("parse settings yaml: %w", err)
	}
	return fileData, nil
}
