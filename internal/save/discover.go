package save

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/tidwall/gjson"

	"github.com/MrWong99/sotf-rescue/internal/observe"
)

// Entry is a discovered save. It is a snapshot taken by [Discover] and is
// never updated.
type Entry struct {
	// ID is the save directory name.
	ID string

	// DisplayName is "[Kind] [SaveTime] - ID".
	DisplayName string

	Kind Kind

	// SaveTime is Data.GameState.SaveTime of GameStateSaveData.json, or the
	// zero time when it could not be read.
	SaveTime time.Time

	// LastModified is the modification time of PlayerStateSaveData.json,
	// falling back to the directory's.
	LastModified time.Time

	// Dir is the absolute path of the save directory.
	Dir string
}

// saveTimeLayouts are tried in order when parsing SaveTime.
var saveTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
}

const displayTimeLayout = "2006-01-02 15:04:05"

// Discover lists the saves below root. root must contain a profile
// directory (the first one by name is used), which holds Multiplayer,
// Singleplayer and optionally MultiplayerClient directories of saves.
//
// Entries are ordered newest SaveTime first, ties broken by ID.
func Discover(ctx context.Context, root string, includeClient bool) (entries []Entry, err error) {
	ctx, span := observe.StartSpan(ctx, "save.discover")
	defer func() { observe.EndSpan(span, err) }()

	profile, err := profileDir(root)
	if err != nil {
		return nil, err
	}

	kinds := []Kind{Multiplayer, Singleplayer}
	if includeClient {
		kinds = append(kinds, MultiplayerClient)
	}

	m := observe.DefaultMetrics()
	for _, kind := range kinds {
		kindDir := filepath.Join(profile, kind.String())
		dirents, err := os.ReadDir(kindDir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &IOError{Op: "list", Path: kindDir, Err: err}
		}
		for _, d := range dirents {
			if !d.IsDir() {
				continue
			}
			e := readEntry(ctx, filepath.Join(kindDir, d.Name()))
			entries = append(entries, e)
			m.RecordDiscovered(ctx, e.Kind.String())
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := b.SaveTime.Compare(a.SaveTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	observe.Logger(ctx).Debug("saves discovered", "profile", profile, "count", len(entries))
	return entries, nil
}

func profileDir(root string) (string, error) {
	dirents, err := os.ReadDir(root)
	if err != nil {
		return "", &IOError{Op: "list", Path: root, Err: err}
	}
	for _, d := range dirents {
		if d.IsDir() {
			return filepath.Join(root, d.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoProfile, root)
}

func readEntry(ctx context.Context, dir string) Entry {
	e := Entry{
		ID:   filepath.Base(dir),
		Kind: Classify(dir),
		Dir:  dir,
	}

	t, err := readSaveTime(filepath.Join(dir, GameStateFile))
	if err != nil {
		observe.Logger(ctx).Warn("could not read save time", "dir", dir, "err", err)
	}
	e.SaveTime = t

	if info, err := os.Stat(filepath.Join(dir, PlayerStateFile)); err == nil {
		e.LastModified = info.ModTime()
	} else if info, err := os.Stat(dir); err == nil {
		e.LastModified = info.ModTime()
	}

	shown := "unknown"
	if !e.SaveTime.IsZero() {
		shown = e.SaveTime.Format(displayTimeLayout)
	}
	e.DisplayName = fmt.Sprintf("[%s] [%s] - %s", e.Kind, shown, e.ID)
	return e
}

// readSaveTime extracts SaveTime without decoding the whole file. The
// GameState document is a string inside the outer document, so it takes two
// lookups.
func readSaveTime(path string) (time.Time, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, err
	}
	inner := gjson.GetBytes(raw, DataKeyGameState)
	if inner.Type != gjson.String {
		return time.Time{}, fmt.Errorf("save: %s is not a string-encoded document", DataKeyGameState)
	}
	st := gjson.Get(inner.String(), "SaveTime")
	if !st.Exists() {
		return time.Time{}, errors.New("save: SaveTime not present")
	}
	return ParseSaveTime(st.String())
}

// ParseSaveTime parses a SaveTime value in any of the layouts the game has
// been seen to write.
func ParseSaveTime(s string) (time.Time, error) {
	for _, layout := range saveTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("save: unrecognised SaveTime %q", s)
}
