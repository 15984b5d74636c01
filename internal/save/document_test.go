package save_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MrWong99/sotf-rescue/internal/save"
	"github.com/MrWong99/sotf-rescue/internal/savetest"
	"github.com/MrWong99/sotf-rescue/pkg/jsontree"
	"github.com/MrWong99/sotf-rescue/pkg/savecodec"
)

func TestLoad_Core(t *testing.T) {
	t.Parallel()
	dir := savetest.NewSaveDir(t)

	doc, err := save.Load(context.Background(), dir, save.Core)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(save.CoreFiles, doc.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	if doc.Mode() != save.Core || doc.Dir() != dir {
		t.Errorf("Mode/Dir = %v/%q", doc.Mode(), doc.Dir())
	}
	tree, ok := doc.File(save.SaveDataFile)
	if !ok {
		t.Fatal("SaveData.json not loaded")
	}
	if _, err := jsontree.Lookup(tree, "Data.VailWorldSim.Actors"); err != nil {
		t.Errorf("decoded tree lacks actors: %v", err)
	}
	if _, ok := doc.File(savetest.ThumbnailFile); ok {
		t.Error("thumbnail loaded in core mode")
	}
}

func TestLoad_NamesIsACopy(t *testing.T) {
	t.Parallel()
	doc, err := save.Load(context.Background(), savetest.NewSaveDir(t), save.Core)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	names := doc.Names()
	names[0] = "changed"
	if doc.Names()[0] != save.SaveDataFile {
		t.Error("modifying Names() result changed the document")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		remove []string
	}{
		{"save data", []string{save.SaveDataFile}},
		{"game and player state", []string{save.GameStateFile, save.PlayerStateFile}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := savetest.NewSaveDir(t)
			for _, name := range tc.remove {
				if err := os.Remove(filepath.Join(dir, name)); err != nil {
					t.Fatal(err)
				}
			}

			doc, err := save.Load(context.Background(), dir, save.Core)
			if doc != nil {
				t.Error("Load returned a partial document")
			}
			var missing *save.MissingFileError
			if !errors.As(err, &missing) {
				t.Fatalf("Load error = %v, want *MissingFileError", err)
			}
			if diff := cmp.Diff(tc.remove, missing.Files); diff != "" {
				t.Errorf("missing files mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_DecodeErrorNamesFile(t *testing.T) {
	t.Parallel()
	dir := savetest.NewSaveDir(t)
	savetest.WriteFiles(t, dir, map[string][]byte{
		save.GameStateFile: []byte(`{"Data":{"GameState":"{broken"}}`),
	})

	_, err := save.Load(context.Background(), dir, save.Core)
	var pe *savecodec.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load error = %v, want wrapped *ParseError", err)
	}
	if pe.Key != "GameState" {
		t.Errorf("ParseError.Key = %q, want GameState", pe.Key)
	}
	if !bytes.Contains([]byte(err.Error()), []byte(save.GameStateFile)) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestLoad_ExtendedSkipsImages(t *testing.T) {
	t.Parallel()
	dir := savetest.NewSaveDir(t)
	savetest.WriteFiles(t, dir, map[string][]byte{
		"ConstructionsSaveData.json": savetest.Wrap("Constructions", `{"Structures":[]}`),
		"preview.JPG":                {0xff, 0xd8},
	})
	if err := os.Mkdir(filepath.Join(dir, "backup"), 0o755); err != nil {
		t.Fatal(err)
	}

	doc, err := save.Load(context.Background(), dir, save.Extended)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	names := doc.Names()
	slices.Sort(names)
	want := []string{"ConstructionsSaveData.json", save.GameStateFile, save.PlayerStateFile, save.SaveDataFile}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestCommit_UnchangedIsByteIdentical(t *testing.T) {
	t.Parallel()
	dir := savetest.NewSaveDir(t)
	before := map[string][]byte{}
	for _, name := range save.CoreFiles {
		before[name] = savetest.ReadFile(t, dir, name)
	}

	doc, err := save.Load(context.Background(), dir, save.Core)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := doc.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	for _, name := range save.CoreFiles {
		if got := savetest.ReadFile(t, dir, name); !bytes.Equal(got, before[name]) {
			t.Errorf("%s changed:\n got %s\nwant %s", name, got, before[name])
		}
	}
}

func TestCommit_PersistsEdits(t *testing.T) {
	t.Parallel()
	dir := savetest.NewSaveDir(t)
	ctx := context.Background()

	doc, err := save.Load(ctx, dir, save.Core)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	gs, _ := doc.File(save.GameStateFile)
	cell, err := jsontree.Resolve(gs, "Data.GameState.IsRobbyDead")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := cell.SetBool(false); err != nil {
		t.Fatalf("SetBool: %v", err)
	}

	// Not on disk until commit.
	if bytes.Contains(savetest.ReadFile(t, dir, save.GameStateFile), []byte(`IsRobbyDead\":false`)) {
		t.Fatal("edit persisted before Commit")
	}
	if err := doc.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	reloaded, err := save.Load(ctx, dir, save.Core)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	gs2, _ := reloaded.File(save.GameStateFile)
	if !jsontree.Equal(gs, gs2) {
		t.Error("reloaded game state differs from committed tree")
	}
}

func TestCommit_WriteFailure(t *testing.T) {
	t.Parallel()
	dir := savetest.NewSaveDir(t)

	doc, err := save.Load(context.Background(), dir, save.Core)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	err = doc.Commit(context.Background())
	var ioErr *save.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Commit error = %v, want *IOError", err)
	}
	if ioErr.Op != "write" || filepath.Base(ioErr.Path) != save.SaveDataFile {
		t.Errorf("IOError = %+v, want write of the first file", ioErr)
	}
}
