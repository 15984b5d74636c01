package save_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/MrWong99/sotf-rescue/internal/save"
	"github.com/MrWong99/sotf-rescue/internal/savetest"
)

// newSavesRoot lays out a saves root with one profile and one save per kind
// plus a second singleplayer save with the same SaveTime as the first.
func newSavesRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	profile := filepath.Join(root, "76561198000000001")

	write := func(kind, id, saveTime string) {
		savetest.WriteFiles(t, filepath.Join(profile, kind, id), map[string][]byte{
			savetest.SaveDataFile:    savetest.SaveData(savetest.DefaultWorld),
			savetest.GameStateFile:   savetest.GameStateAt(saveTime),
			savetest.PlayerStateFile: savetest.PlayerState(),
		})
	}
	write("Singleplayer", "2000000002", "2026-10-01T10:00:00+00:00")
	write("Singleplayer", "2000000001", "2026-10-01T10:00:00+00:00")
	write("Multiplayer", "3000000001", "2026-10-05T18:30:00+00:00")
	write("MultiplayerClient", "4000000001", "2026-10-09T08:00:00+00:00")

	// A stray file next to the save directories is ignored.
	if err := os.WriteFile(filepath.Join(profile, "Singleplayer", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func ids(entries []save.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestDiscover_OrderAndClientFilter(t *testing.T) {
	t.Parallel()
	root := newSavesRoot(t)

	tests := []struct {
		name          string
		includeClient bool
		want          []string
	}{
		{"without client saves", false, []string{"3000000001", "2000000001", "2000000002"}},
		{"with client saves", true, []string{"4000000001", "3000000001", "2000000001", "2000000002"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			entries, err := save.Discover(context.Background(), root, tc.includeClient)
			if err != nil {
				t.Fatalf("Discover: %v", err)
			}
			if diff := cmp.Diff(tc.want, ids(entries)); diff != "" {
				t.Errorf("IDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscover_EntryFields(t *testing.T) {
	t.Parallel()
	root := newSavesRoot(t)

	entries, err := save.Discover(context.Background(), root, true)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	e, err := save.Find(entries, "4000000001")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if e.Kind != save.MultiplayerClient {
		t.Errorf("Kind = %v, want MultiplayerClient", e.Kind)
	}
	want := time.Date(2026, 10, 9, 8, 0, 0, 0, time.UTC)
	if !e.SaveTime.Equal(want) {
		t.Errorf("SaveTime = %v, want %v", e.SaveTime, want)
	}
	if e.DisplayName != "[MultiplayerClient] [2026-10-09 08:00:00] - 4000000001" {
		t.Errorf("DisplayName = %q", e.DisplayName)
	}
	if e.LastModified.IsZero() {
		t.Error("LastModified is zero")
	}
	if filepath.Base(e.Dir) != e.ID {
		t.Errorf("Dir = %q does not end in ID", e.Dir)
	}
}

func TestDiscover_UnreadableSaveTimeSortsLast(t *testing.T) {
	t.Parallel()
	root := newSavesRoot(t)
	broken := filepath.Join(root, "76561198000000001", "Multiplayer", "0000000009")
	savetest.WriteFiles(t, broken, map[string][]byte{
		savetest.GameStateFile: []byte(`{"Data":{"GameState":"{\"SaveTime\":\"yesterday\"}"}}`),
	})

	entries, err := save.Discover(context.Background(), root, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	last := entries[len(entries)-1]
	if last.ID != "0000000009" {
		t.Fatalf("last entry = %q, want the save without a readable time", last.ID)
	}
	if !last.SaveTime.IsZero() {
		t.Errorf("SaveTime = %v, want zero", last.SaveTime)
	}
	if last.DisplayName != "[Multiplayer] [unknown] - 0000000009" {
		t.Errorf("DisplayName = %q", last.DisplayName)
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no profile", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, "readme.txt"), nil, 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := save.Discover(context.Background(), root, false)
		if !errors.Is(err, save.ErrNoProfile) {
			t.Errorf("Discover error = %v, want ErrNoProfile", err)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		_, err := save.Discover(context.Background(), filepath.Join(t.TempDir(), "absent"), false)
		var ioErr *save.IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("Discover error = %v, want *IOError", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("IOError does not unwrap to ErrNotExist: %v", err)
		}
	})

	t.Run("empty profile", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		if err := os.Mkdir(filepath.Join(root, "profile"), 0o755); err != nil {
			t.Fatal(err)
		}
		entries, err := save.Discover(context.Background(), root, true)
		if err != nil {
			t.Fatalf("Discover: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("got %d entries, want 0", len(entries))
		}
	})
}

func TestParseSaveTime(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-10-18T21:14:05+02:00", time.Date(2026, 10, 18, 19, 14, 5, 0, time.UTC)},
		{"2026-10-18T21:14:05.1234567", time.Date(2026, 10, 18, 21, 14, 5, 123456700, time.UTC)},
		{"10/18/2026 21:14:05", time.Date(2026, 10, 18, 21, 14, 5, 0, time.UTC)},
		{"10/18/2026 9:14:05 PM", time.Date(2026, 10, 18, 21, 14, 5, 0, time.UTC)},
	}
	for _, tc := range tests {
		got, err := save.ParseSaveTime(tc.in)
		if err != nil {
			t.Errorf("ParseSaveTime(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseSaveTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := save.ParseSaveTime("not a time"); err == nil {
		t.Error("ParseSaveTime(garbage) succeeded")
	}
}

func TestFind_SuggestsClosestID(t *testing.T) {
	t.Parallel()
	entries := []save.Entry{{ID: "1234567890"}, {ID: "9876543210"}}

	if _, err := save.Find(entries, "1234567890"); err != nil {
		t.Fatalf("Find existing: %v", err)
	}

	_, err := save.Find(entries, "1234567899")
	var unknown *save.UnknownSaveError
	if !errors.As(err, &unknown) {
		t.Fatalf("Find error = %v, want *UnknownSaveError", err)
	}
	if !errors.Is(err, save.ErrUnknownSave) {
		t.Error("error does not match ErrUnknownSave")
	}
	if unknown.Suggestion != "1234567890" {
		t.Errorf("Suggestion = %q, want 1234567890", unknown.Suggestion)
	}

	if got := save.Suggest(entries, "zzz"); got != "" {
		t.Errorf("Suggest(unrelated) = %q, want empty", got)
	}
}
