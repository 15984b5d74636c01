// Package health runs preflight checks before a save is edited.
//
// A [Runner] evaluates named [Checker] functions in order and collects the
// outcome of each into a [Report]. The built-in checkers verify that the
// saves root can be listed and that a save directory's files can be
// replaced, so that a commit does not fail halfway through.
package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Checker is a named check function. Check returns nil when the check
// passes and an error describing the failure otherwise.
type Checker struct {
	// Name is a short, human-readable label (e.g. "saves_root").
	Name string

	Check func(ctx context.Context) error
}

// Result is the outcome of one checker.
type Result struct {
	Name string
	Err  error
}

// Report is the outcome of a [Runner.Run].
type Report struct {
	Results []Result
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	return r.Err() == nil
}

// Err joins the errors of all failed checks, prefixed with their names.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}

// WriteTo prints one "name: ok" or "name: fail: reason" line per check.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, res := range r.Results {
		status := "ok"
		if res.Err != nil {
			status = "fail: " + res.Err.Error()
		}
		n, err := fmt.Fprintf(w, "%s: %s\n", res.Name, status)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Runner evaluates a fixed list of checkers.
type Runner struct {
	checkers []Checker
}

// New creates a [Runner]. The checkers are evaluated sequentially in the
// order provided.
func New(checkers ...Checker) *Runner {
	c := make([]Checker, len(checkers))
	copy(c, checkers)
	return &Runner{checkers: c}
}

// Run evaluates every checker, including those after a failure.
func (r *Runner) Run(ctx context.Context) Report {
	rep := Report{Results: make([]Result, 0, len(r.checkers))}
	for _, c := range r.checkers {
		rep.Results = append(rep.Results, Result{Name: c.Name, Err: c.Check(ctx)})
	}
	return rep
}

// SavesRoot checks that root is a directory that can be listed.
func SavesRoot(root string) Checker {
	return Checker{
		Name: "saves_root",
		Check: func(context.Context) error {
			info, err := os.Stat(root)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%q is not a directory", root)
			}
			_, err = os.ReadDir(root)
			return err
		},
	}
}

// Writable checks that new files can be created in dir, which a commit
// needs for its temporary files.
func Writable(dir string) Checker {
	return Checker{
		Name: "writable",
		Check: func(context.Context) error {
			f, err := os.CreateTemp(dir, ".sotf-rescue-check-*")
			if err != nil {
				return err
			}
			name := f.Name()
			if err := f.Close(); err != nil {
				_ = os.Remove(name)
				return err
			}
			return os.Remove(name)
		},
	}
}

// Files checks that each named file in dir exists, is a regular file and
// can be opened for reading and writing.
func Files(dir string, names []string) Checker {
	return Checker{
		Name: "files",
		Check: func(context.Context) error {
			var errs []error
			for _, name := range names {
				path := filepath.Join(dir, name)
				info, err := os.Stat(path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if !info.Mode().IsRegular() {
					errs = append(errs, fmt.Errorf("%q is not a regular file", path))
					continue
				}
				f, err := os.OpenFile(path, os.O_RDWR, 0)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				_ = f.Close()
			}
			return errors.Join(errs...)
		},
	}
}
