package config_test

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/MrWong99/sotf-rescue/internal/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if cfg.LogLevel != config.LogInfo {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.ReadMode != config.ReadCore {
		t.Errorf("ReadMode = %q, want core", cfg.ReadMode)
	}
	if cfg.IncludeClientSaves {
		t.Error("IncludeClientSaves = true, want false")
	}
	if cfg.RescuePosition != (config.Position{X: -627, Y: 100, Z: 533}) {
		t.Errorf("RescuePosition = %+v", cfg.RescuePosition)
	}
}

func TestDefaultSavesRoot_EndsInGameDirectory(t *testing.T) {
	t.Parallel()
	root := config.DefaultSavesRoot()
	if root == "" {
		t.Skip("no home directory in this environment")
	}
	want := filepath.Join("Endnight", "SonsOfTheForest", "Saves")
	if !strings.HasSuffix(root, want) {
		t.Errorf("DefaultSavesRoot() = %q, want suffix %q", root, want)
	}
	if runtime.GOOS != "windows" && !strings.Contains(root, "1326470") {
		t.Errorf("DefaultSavesRoot() = %q, want the Proton prefix of app 1326470", root)
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()
	for _, l := range []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError} {
		if !l.IsValid() {
			t.Errorf("%q.IsValid() = false", l)
		}
	}
	if config.LogLevel("trace").IsValid() {
		t.Error(`"trace".IsValid() = true`)
	}
}

func TestReadMode_IsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mode config.ReadMode
		want bool
	}{
		{config.ReadCore, true},
		{config.ReadExtended, true},
		{"", false},
		{"all", false},
	}
	for _, tc := range tests {
		if got := tc.mode.IsValid(); got != tc.want {
			t.Errorf("%q.IsValid() = %v, want %v", tc.mode, got, tc.want)
		}
	}
}
