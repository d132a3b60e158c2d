package domain

import "fmt"

// Manifest describes one installed locker plugin binary.
type Manifest struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Binary   string   `json:"binary"`
	Enabled  bool     `json:"enabled"`
	Platform []string `json:"platforms,omitempty"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("locker plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("locker plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("locker plugin binary path is required")
	}
	return nil
}
