package config

import (
	"fmt"
	"path/filepath"
)

type Config struct {
	DataDir      string
	DBPath       string
	SettingsPath string
	PluginsPath  string
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "pomo.db"),
		SettingsPath: filepath.Join(dataDir, "settings.yaml"),
		PluginsPath:  filepath.Join(dataDir, "plugins", "plugins.json"),
	}, nil
}
