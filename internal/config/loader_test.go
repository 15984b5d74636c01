package config_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrWong99/sotf-rescue/internal/config"
)

const sampleYAML = `
saves_root: /games/sotf/Saves
log_level: debug
read_mode: extended
include_client_saves: true
rescue_position:
  x: 10.5
  y: 20
  z: -30
`

func TestLoadFromReader_FullConfig(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.SavesRoot != "/games/sotf/Saves" {
		t.Errorf("SavesRoot = %q", cfg.SavesRoot)
	}
	if cfg.LogLevel != config.LogDebug {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.ReadMode != config.ReadExtended {
		t.Errorf("ReadMode = %q, want extended", cfg.ReadMode)
	}
	if !cfg.IncludeClientSaves {
		t.Error("IncludeClientSaves = false, want true")
	}
	if want := (config.Position{X: 10.5, Y: 20, Z: -30}); cfg.RescuePosition != want {
		t.Errorf("RescuePosition = %+v, want %+v", cfg.RescuePosition, want)
	}
}

func TestLoadFromReader_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader("saves_root: /tmp/saves\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.ReadMode != config.ReadCore {
		t.Errorf("ReadMode = %q, want default core", cfg.ReadMode)
	}
	if cfg.RescuePosition != config.DefaultRescuePosition {
		t.Errorf("RescuePosition = %+v, want default", cfg.RescuePosition)
	}
}

func TestLoadFromReader_Empty(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader("saves_root: /x\n# nothing else\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.LogLevel != config.LogInfo {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromReader_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		yaml    string
		wantErr []string
	}{
		{"unknown field", "saves_root: /x\nlisten_addr: :8080\n", []string{"listen_addr"}},
		{"bad log level", "saves_root: /x\nlog_level: loud\n", []string{"log_level"}},
		{"bad read mode", "saves_root: /x\nread_mode: everything\n", []string{"read_mode"}},
		{"empty saves root", "saves_root: \"\"\n", []string{"saves_root is required"}},
		{
			"errors are joined",
			"saves_root: \"\"\nlog_level: loud\nread_mode: all\n",
			[]string{"saves_root", "log_level", "read_mode"},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadFromReader(strings.NewReader(tc.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q should mention %q", err, want)
				}
			}
		})
	}
}

func TestValidate_NonFiniteRescuePosition(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.SavesRoot = "/x"
	cfg.RescuePosition.Y = math.Inf(1)
	err := config.Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "rescue_position.y") {
		t.Errorf("Validate = %v, want rescue_position.y error", err)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "sotf-rescue.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SavesRoot != "/games/sotf/Saves" {
		t.Errorf("SavesRoot = %q", cfg.SavesRoot)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SOTF_SAVES_ROOT", "/from/env")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReadMode != config.ReadCore {
		t.Errorf("ReadMode = %q, want core", cfg.ReadMode)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("saves_root: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("Load error = %v, want error naming %q", err, path)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sotf-rescue.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOTF_SAVES_ROOT", "/override")
	t.Setenv("SOTF_READ_MODE", "core")
	t.Setenv("SOTF_INCLUDE_CLIENT_SAVES", "false")
	t.Setenv("SOTF_RESCUE_X", "1.25")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SavesRoot != "/override" {
		t.Errorf("SavesRoot = %q, want /override", cfg.SavesRoot)
	}
	if cfg.ReadMode != config.ReadCore {
		t.Errorf("ReadMode = %q, want core", cfg.ReadMode)
	}
	if cfg.IncludeClientSaves {
		t.Error("IncludeClientSaves = true, want env override false")
	}
	if cfg.RescuePosition.X != 1.25 || cfg.RescuePosition.Z != -30 {
		t.Errorf("RescuePosition = %+v, want x from env and z from file", cfg.RescuePosition)
	}
	if cfg.LogLevel != config.LogDebug {
		t.Errorf("LogLevel = %q, want file value debug", cfg.LogLevel)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("SOTF_INCLUDE_CLIENT_SAVES", "maybe")
	err := config.ApplyEnv(config.Default())
	if err == nil || !strings.Contains(err.Error(), "config: parse env:") {
		t.Errorf("ApplyEnv = %v, want parse env error", err)
	}
}
