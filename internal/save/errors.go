package save

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoProfile is returned by [Discover] when the saves root holds no
	// profile directory.
	ErrNoProfile = errors.New("save: no profile directory under saves root")

	// ErrUnknownSave is matched by [UnknownSaveError].
	ErrUnknownSave = errors.New("save: unknown save")
)

// MissingFileError is returned by [Load] in [Core] mode when required files
// are absent from a save directory.
type MissingFileError struct {
	Dir   string
	Files []string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("save: %q is missing %s", e.Dir, strings.Join(e.Files, ", "))
}

// IOError reports a failed read or write of a save file.
type IOError struct {
	// Op is "read", "write" or "list".
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("save: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// UnknownSaveError is returned by [Find] when no entry has the requested ID.
type UnknownSaveError struct {
	ID string

	// Suggestion is the closest known ID, or "" when nothing is close.
	Suggestion string
}

func (e *UnknownSaveError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("save: unknown save %q (did you mean %q?)", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("save: unknown save %q", e.ID)
}

func (e *UnknownSaveError) Unwrap() error { return ErrUnknownSave }
