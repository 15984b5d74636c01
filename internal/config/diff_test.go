package config_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MrWong99/sotf-rescue/internal/config"
)

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if d := config.Diff(cfg, cfg); len(d) != 0 {
		t.Errorf("Diff(identical) = %+v, want none", d)
	}
}

func TestDiff_ReportsChangedFieldsInOrder(t *testing.T) {
	t.Parallel()
	old := &config.Config{SavesRoot: "/a", LogLevel: config.LogInfo, RescuePosition: config.Position{X: 1, Y: 2, Z: 3}}
	new := &config.Config{SavesRoot: "/b", LogLevel: config.LogInfo, IncludeClientSaves: true, RescuePosition: config.Position{X: 1, Y: 2, Z: -3}}

	want := []config.Change{
		{Field: "saves_root", Old: "/a", New: "/b"},
		{Field: "include_client_saves", Old: "false", New: "true"},
		{Field: "rescue_position.z", Old: "3", New: "-3"},
	}
	if diff := cmp.Diff(want, config.Diff(old, new)); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}
