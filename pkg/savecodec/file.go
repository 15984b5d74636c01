package savecodec

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrWong99/sotf-rescue/pkg/jsontree"
)

// DecodeFile reads and decodes the save file at path.
func DecodeFile(path string) (*jsontree.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// EncodeFile encodes root and replaces the file at path with the result. The
// bytes are written to a temporary file in the same directory first and
// renamed over path, so a failed write leaves the previous content intact.
// The existing file's permissions are kept.
func EncodeFile(path string, root *jsontree.Node) error {
	out, err := Encode(root)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, out)
}

// WriteFileAtomic writes data to a temporary sibling of path and renames it
// into place.
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("savecodec: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("savecodec: write %q: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("savecodec: sync %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("savecodec: close %q: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("savecodec: chmod %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("savecodec: rename into %q: %w", path, err)
	}
	return nil
}
