package dto

type StateOutput struct {
	Active bool
	Locked bool
	Window string
}

type PluginOutput struct {
	Name    string
	Version string
	Binary  string
	Enabled bool
}
