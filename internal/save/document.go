// Package save finds Sons of the Forest saves on disk and loads them as
// editable documents.
//
// A save directory holds the three core files [SaveDataFile],
// [GameStateFile] and [PlayerStateFile] plus a number of optional files and
// a thumbnail. [Load] decodes them with [savecodec] into a [Document];
// edits made to the document's trees are written back by
// [Document.Commit].
package save

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrWong99/sotf-rescue/internal/observe"
	"github.com/MrWong99/sotf-rescue/pkg/jsontree"
	"github.com/MrWong99/sotf-rescue/pkg/savecodec"
)

// Core file names.
const (
	SaveDataFile    = "SaveData.json"
	GameStateFile   = "GameStateSaveData.json"
	PlayerStateFile = "PlayerStateSaveData.json"
)

// CoreFiles lists the files loaded in [Core] mode, in load order.
var CoreFiles = []string{SaveDataFile, GameStateFile, PlayerStateFile}

// DataKeyGameState is the path of the game state document inside
// GameStateSaveData.json.
const DataKeyGameState = savecodec.DataKey + ".GameState"

// imageExts are skipped in [Extended] mode.
var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Mode selects which files [Load] reads.
type Mode int

const (
	// Core loads only [CoreFiles].
	Core Mode = iota

	// Extended loads every non-image file in the save directory.
	Extended
)

func (m Mode) String() string {
	if m == Extended {
		return "extended"
	}
	return "core"
}

// Document holds the decoded trees of one save. It owns the trees; cells
// resolved from them stay valid for the lifetime of the document.
type Document struct {
	dir   string
	mode  Mode
	names []string
	trees map[string]*jsontree.Node
}

// Load reads and decodes the files of the save in dir.
//
// In [Core] mode every core file is checked for presence before anything is
// decoded; if any is absent a [*MissingFileError] is returned and no
// document is built. Read failures return an [*IOError]; decode failures
// wrap a [*savecodec.ParseError] and name the file.
func Load(ctx context.Context, dir string, mode Mode) (doc *Document, err error) {
	ctx, span := observe.StartSpan(ctx, "save.load")
	defer func() { observe.EndSpan(span, err) }()

	var names []string
	switch mode {
	case Core:
		if err := checkPresent(dir, CoreFiles); err != nil {
			return nil, err
		}
		names = CoreFiles
	case Extended:
		if names, err = listFiles(dir); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("save: unknown mode %d", mode)
	}

	doc = &Document{
		dir:   dir,
		mode:  mode,
		names: make([]string, 0, len(names)),
		trees: make(map[string]*jsontree.Node, len(names)),
	}
	m := observe.DefaultMetrics()
	for _, name := range names {
		tree, err := loadFile(ctx, filepath.Join(dir, name))
		m.RecordFileLoaded(ctx, mode.String(), err)
		if err != nil {
			return nil, err
		}
		doc.names = append(doc.names, name)
		doc.trees[name] = tree
	}

	observe.Logger(ctx).Debug("save loaded", "dir", dir, "mode", mode, "files", len(doc.names))
	return doc, nil
}

func checkPresent(dir string, names []string) error {
	var missing []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, name)
		case err != nil:
			return &IOError{Op: "read", Path: path, Err: err}
		case !info.Mode().IsRegular():
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingFileError{Dir: dir, Files: missing}
	}
	return nil
}

func listFiles(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Op: "list", Path: dir, Err: err}
	}
	var names []string
	for _, d := range dirents {
		if !d.Type().IsRegular() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(d.Name()))] {
			continue
		}
		names = append(names, d.Name())
	}
	return names, nil
}

func loadFile(ctx context.Context, path string) (*jsontree.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	start := time.Now()
	tree, err := savecodec.Decode(raw)
	observe.DefaultMetrics().RecordDecode(ctx, filepath.Base(path), start)
	if err != nil {
		return nil, fmt.Errorf("save: decode %q: %w", filepath.Base(path), err)
	}
	return tree, nil
}

// Dir returns the save directory.
func (d *Document) Dir() string { return d.dir }

// Mode returns the mode the document was loaded with.
func (d *Document) Mode() Mode { return d.mode }

// Names returns the loaded file names in load order.
func (d *Document) Names() []string {
	return append([]string(nil), d.names...)
}

// File returns the decoded tree of name.
func (d *Document) File(name string) (*jsontree.Node, bool) {
	t, ok := d.trees[name]
	return t, ok
}

// Commit encodes every loaded file and overwrites it on disk, in load order.
// Each file is written to a temporary sibling and renamed into place. The
// writes are independent: on failure the files before the failing one stay
// written and the rest are untouched.
func (d *Document) Commit(ctx context.Context) (err error) {
	ctx, span := observe.StartSpan(ctx, "save.commit")
	defer func() { observe.EndSpan(span, err) }()

	m := observe.DefaultMetrics()
	log := observe.Logger(ctx)
	for _, name := range d.names {
		path := filepath.Join(d.dir, name)

		start := time.Now()
		out, err := savecodec.Encode(d.trees[name])
		m.RecordEncode(ctx, name, start)
		if err != nil {
			return fmt.Errorf("save: encode %q: %w", name, err)
		}

		err = savecodec.WriteFileAtomic(path, out)
		m.RecordFileWritten(ctx, len(out), err)
		if err != nil {
			return &IOError{Op: "write", Path: path, Err: err}
		}
		log.Debug("save file written", "file", name, "bytes", len(out))
	}
	log.Info("save committed", "dir", d.dir, "files", len(d.names))
	return nil
}
