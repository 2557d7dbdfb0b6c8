// Package config is the TOML-backed settings layer: default window
// flags, the coordinator's origin/path used to build child URLs, and
// the IPC socket path, with fsnotify-driven hot reload.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/SphereStacking/Fluopanel/base/errors"
)

// WindowDefaults are the documented default window flags applied when
// a caller does not override them.
type WindowDefaults struct {
	Transparent bool `toml:"transparent"`
	AlwaysOnTop bool `toml:"always_on_top"`
	Decorations bool `toml:"decorations"`
	Resizable   bool `toml:"resizable"`
	SkipTaskbar bool `toml:"skip_taskbar"`
}

// Settings is the process-wide configuration, persisted as TOML.
type Settings struct {
	CoordinatorOrigin string         `toml:"coordinator_origin"`
	CoordinatorPath   string         `toml:"coordinator_path"`
	IPCSocketPath     string         `toml:"ipc_socket_path"`
	Debug             bool           `toml:"debug"`
	DefaultWindow     WindowDefaults `toml:"default_window"`
}

// Default returns the documented baseline configuration.
func Default() Settings {
	return Settings{
		CoordinatorOrigin: "app://fluopanel",
		CoordinatorPath:   "/",
		IPCSocketPath:     defaultSocketPath(),
		DefaultWindow: WindowDefaults{
			Transparent: true,
			AlwaysOnTop: true,
			Decorations: false,
			Resizable:   false,
			SkipTaskbar: true,
		},
	}
}

func defaultSocketPath() string {
	dir := os.TempDir()
	return dir + "/fluopanel.sock"
}

// Load reads Settings from path, falling back to Default() with no
// error if the file does not exist.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return Settings{}, errors.Log(err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Log(err)
	}
	return s, nil
}

// Save writes s to path as TOML.
func Save(s Settings, path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return errors.Log(err)
	}
	return errors.Log(os.WriteFile(path, data, 0o644))
}
