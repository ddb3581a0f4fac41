// Package paths resolves where snapmixer reads its config and writes its log.
//
// Layout (XDG-style):
//
//	Config: ~/.config/snapmixer/config.yaml      (override: SNAPMIXER_CONFIG_DIR)
//	State:  ~/.local/state/snapmixer/            (override: SNAPMIXER_STATE_DIR)
//	Log:    ~/.local/state/snapmixer/snapmixer.log
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const appName = "snapmixer"

var (
	configDirOnce   sync.Once
	configDirCached string

	stateDirOnce   sync.Once
	stateDirCached string
)

func resolve(env string, rel ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(append([]string{home}, rel...)...)
}

// ConfigDir resolves the config directory.
// Priority: SNAPMIXER_CONFIG_DIR env > ~/.config/snapmixer/
func ConfigDir() string {
	configDirOnce.Do(func() {
		configDirCached = resolve("SNAPMIXER_CONFIG_DIR", ".config", appName)
	})
	return configDirCached
}

// StateDir resolves the state directory.
// Priority: SNAPMIXER_STATE_DIR env > ~/.local/state/snapmixer/
func StateDir() string {
	stateDirOnce.Do(func() {
		stateDirCached = resolve("SNAPMIXER_STATE_DIR", ".local", "state", appName)
	})
	return stateDirCached
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogPath returns the default log file path.
func LogPath() string {
	return filepath.Join(StateDir(), appName+".log")
}

// EnsureStateDir creates the state directory if it doesn't exist and returns its path.
func EnsureStateDir() (string, error) {
	dir := StateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create state dir %s: %w", dir, err)
	}
	return dir, nil
}

// ResetForTest clears cached values so tests can re-run resolution logic.
// Only use in tests.
func ResetForTest() {
	configDirOnce = sync.Once{}
	configDirCached = ""
	stateDirOnce = sync.Once{}
	stateDirCached = ""
}
