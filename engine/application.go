package engine

import "github.com/spaghettifunk/meshops/engine/core"

type ApplicationConfig struct {
	// The application name, used in logs.
	Name string
	// Path of a TOML configuration file. Empty means defaults.
	ConfigPath string
	// Config, when set, is used instead of ConfigPath.
	Config *core.Config
}

func (ac *ApplicationConfig) load() (*core.Config, error) {
	switch {
	case ac.Config != nil:
		return ac.Config, ac.Config.Validate()
	case ac.ConfigPath != "":
		return core.LoadConfig(ac.ConfigPath)
	}
	return core.DefaultConfig(), nil
}
