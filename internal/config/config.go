// Package config provides the configuration schema and loader for
// sotf-rescue.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// ReadMode selects which files of a save are loaded.
type ReadMode string

const (
	// ReadCore loads only SaveData.json, GameStateSaveData.json and
	// PlayerStateSaveData.json.
	ReadCore ReadMode = "core"

	// ReadExtended loads every non-image file of a save directory.
	ReadExtended ReadMode = "extended"
)

// IsValid reports whether m is a recognised read mode.
func (m ReadMode) IsValid() bool {
	return m == ReadCore || m == ReadExtended
}

// Config is the root configuration structure for sotf-rescue.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// SavesRoot is the directory holding the save profile directory.
	SavesRoot string `yaml:"saves_root" env:"SAVES_ROOT"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level" env:"LOG_LEVEL"`

	// ReadMode is the default load mode for saves.
	ReadMode ReadMode `yaml:"read_mode" env:"READ_MODE"`

	// IncludeClientSaves makes discovery list saves joined as a
	// multiplayer client.
	IncludeClientSaves bool `yaml:"include_client_saves" env:"INCLUDE_CLIENT_SAVES"`

	// RescuePosition is where "move ... rescue" places a companion.
	RescuePosition Position `yaml:"rescue_position" envPrefix:"RESCUE_"`
}

// Position is a world coordinate.
type Position struct {
	X float64 `yaml:"x" env:"X"`
	Y float64 `yaml:"y" env:"Y"`
	Z float64 `yaml:"z" env:"Z"`
}

// DefaultRescuePosition is a safe spot near the starting beach.
var DefaultRescuePosition = Position{X: -627, Y: 100, Z: 533}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SavesRoot:      DefaultSavesRoot(),
		LogLevel:       LogInfo,
		ReadMode:       ReadCore,
		RescuePosition: DefaultRescuePosition,
	}
}

// steamAppID is the Steam app id of Sons of the Forest, used to find the
// Proton prefix on Linux.
const steamAppID = "1326470"

// DefaultSavesRoot returns the game's save directory for the current
// platform, or "" if the home directory cannot be determined.
func DefaultSavesRoot() string {
	if runtime.GOOS == "windows" {
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			return ""
		}
		return filepath.Join(local+"Low", "Endnight", "SonsOfTheForest", "Saves")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "Steam", "steamapps", "compatdata", steamAppID,
		"pfx", "drive_c", "users", "steamuser", "AppData", "LocalLow", "Endnight", "SonsOfTheForest", "Saves")
}
