// Package app implements the sotf-rescue use cases on top of the save and
// companion packages.
//
// Each method of [App] discovers the saves under the configured root, loads
// the requested one, performs its work and, for edits, commits the result
// unless the App was created in dry-run mode. Human-readable output goes to
// the writer given with [WithOutput].
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tidwall/pretty"

	"github.com/MrWong99/sotf-rescue/internal/companion"
	"github.com/MrWong99/sotf-rescue/internal/config"
	"github.com/MrWong99/sotf-rescue/internal/health"
	"github.com/MrWong99/sotf-rescue/internal/observe"
	"github.com/MrWong99/sotf-rescue/internal/save"
	"github.com/MrWong99/sotf-rescue/pkg/jsontree"
)

// App runs the use cases against one saves root.
type App struct {
	cfg    *config.Config
	out    io.Writer
	mode   save.Mode
	dryRun bool
}

// Option is a functional option for New.
type Option func(*App)

// WithOutput sets where results are printed. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithDryRun makes edits stay in memory; nothing is written back.
func WithDryRun(dryRun bool) Option {
	return func(a *App) { a.dryRun = dryRun }
}

// WithMode overrides the read mode from the config.
func WithMode(m save.Mode) Option {
	return func(a *App) { a.mode = m }
}

// ─── New ─────────────────────────────────────────────────────────────────────

// New creates an App for cfg.
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		cfg:  cfg,
		out:  os.Stdout,
		mode: ModeFromConfig(cfg.ReadMode),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// ModeFromConfig maps the configured read mode to a [save.Mode].
func ModeFromConfig(m config.ReadMode) save.Mode {
	if m == config.ReadExtended {
		return save.Extended
	}
	return save.Core
}

// ─── Read-only use cases ─────────────────────────────────────────────────────

// List prints every discovered save, newest first.
func (a *App) List(ctx context.Context) error {
	entries, err := save.Discover(ctx, a.cfg.SavesRoot, a.cfg.IncludeClientSaves)
	if err != nil {
		return fmt.Errorf("app: list saves: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintf(a.out, "no saves found under %s\n", a.cfg.SavesRoot)
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSAVED\tMODIFIED")
	for _, e := range entries {
		saved := "unknown"
		if !e.SaveTime.IsZero() {
			saved = e.SaveTime.Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Kind, saved, e.LastModified.Format(time.DateTime))
	}
	return tw.Flush()
}

// Status prints health, status and position of both companions.
func (a *App) Status(ctx context.Context, saveID string) error {
	entry, doc, err := a.open(ctx, saveID, a.mode)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, entry.DisplayName)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPANION\tSTATUS\tHEALTH\tPOSITION")
	for _, c := range companion.Known() {
		actor, err := companion.FindActor(doc, c.ID)
		if errors.Is(err, companion.ErrEntityNotFound) {
			fmt.Fprintf(tw, "%s\tnot in save\t-\t-\n", c.Name)
			continue
		}
		if err != nil {
			return fmt.Errorf("app: status of %s: %w", c.Name, err)
		}
		health, err := actor.HealthValue()
		if err != nil {
			return fmt.Errorf("app: status of %s: %w", c.Name, err)
		}
		pos, err := actor.Position()
		if err != nil {
			return fmt.Errorf("app: status of %s: %w", c.Name, err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, actor.Status, formatNumber(health), formatVec(pos))
	}
	return tw.Flush()
}

// Check runs the preflight checks and prints their results. With a saveID
// the save's directory and core files are checked as well.
func (a *App) Check(ctx context.Context, saveID string) error {
	checkers := []health.Checker{health.SavesRoot(a.cfg.SavesRoot)}
	if saveID != "" {
		entries, err := save.Discover(ctx, a.cfg.SavesRoot, a.cfg.IncludeClientSaves)
		if err != nil {
			return fmt.Errorf("app: list saves: %w", err)
		}
		entry, err := save.Find(entries, saveID)
		if err != nil {
			return err
		}
		checkers = append(checkers, health.Writable(entry.Dir), health.Files(entry.Dir, save.CoreFiles))
	}

	rep := health.New(checkers...).Run(ctx)
	if _, err := rep.WriteTo(a.out); err != nil {
		return err
	}
	if err := rep.Err(); err != nil {
		return fmt.Errorf("app: preflight: %w", err)
	}
	return nil
}

// Dump prints one decoded file of a save as indented JSON, with its
// string-encoded documents expanded.
func (a *App) Dump(ctx context.Context, saveID, file string) error {
	mode := a.mode
	if !slices.ContainsFunc(save.CoreFiles, func(n string) bool { return strings.EqualFold(n, file) }) {
		mode = save.Extended
	}
	_, doc, err := a.open(ctx, saveID, mode)
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(doc.Names(), func(n string) bool { return strings.EqualFold(n, file) })
	if idx < 0 {
		return fmt.Errorf("app: save %s has no file %q (have: %s)", saveID, file, strings.Join(doc.Names(), ", "))
	}
	tree, _ := doc.File(doc.Names()[idx])
	raw, err := jsontree.Marshal(tree)
	if err != nil {
		return fmt.Errorf("app: dump %q: %w", file, err)
	}
	_, err = a.out.Write(pretty.PrettyOptions(raw, &pretty.Options{Width: 100, Indent: "  "}))
	return err
}

// ─── Edits ───────────────────────────────────────────────────────────────────

// Revive brings a companion back to life.
func (a *App) Revive(ctx context.Context, saveID, who string) error {
	id, err := companion.ParseTypeID(who)
	if err != nil {
		return err
	}
	_, doc, err := a.open(ctx, saveID, a.mode)
	if err != nil {
		return err
	}
	if err := companion.Revive(ctx, doc, id); err != nil {
		return fmt.Errorf("app: revive %s: %w", id, err)
	}
	fmt.Fprintf(a.out, "%s revived (health %d, state %d)\n", id, companion.ReviveHealth, companion.ActiveState)
	return a.finish(ctx, doc)
}

// Move places a companion at target: "player" for the player's position,
// "rescue" for the configured rescue point, or explicit "x,y,z" coordinates.
func (a *App) Move(ctx context.Context, saveID, who, target string) error {
	id, err := companion.ParseTypeID(who)
	if err != nil {
		return err
	}
	_, doc, err := a.open(ctx, saveID, a.mode)
	if err != nil {
		return err
	}

	var to companion.Vec3
	switch strings.ToLower(target) {
	case "player":
		if to, err = companion.PlayerPosition(doc); err != nil {
			return fmt.Errorf("app: move %s: %w", id, err)
		}
	case "rescue":
		p := a.cfg.RescuePosition
		to = companion.Vec3{X: p.X, Y: p.Y, Z: p.Z}
	default:
		if to, err = ParseVec(target); err != nil {
			return err
		}
	}

	actor, err := companion.FindActor(doc, id)
	if err != nil {
		return fmt.Errorf("app: move %s: %w", id, err)
	}
	if err := companion.Reposition(ctx, actor, to); err != nil {
		return fmt.Errorf("app: move %s: %w", id, err)
	}
	fmt.Fprintf(a.out, "%s moved to %s\n", id, formatVec(to))
	return a.finish(ctx, doc)
}

// SetHealth overwrites a companion's health.
func (a *App) SetHealth(ctx context.Context, saveID, who string, health float64) error {
	id, err := companion.ParseTypeID(who)
	if err != nil {
		return err
	}
	_, doc, err := a.open(ctx, saveID, a.mode)
	if err != nil {
		return err
	}
	actor, err := companion.FindActor(doc, id)
	if err != nil {
		return fmt.Errorf("app: set health of %s: %w", id, err)
	}
	if err := companion.SetHealth(ctx, actor, health); err != nil {
		return fmt.Errorf("app: set health of %s: %w", id, err)
	}
	fmt.Fprintf(a.out, "%s health set to %s (%s)\n", id, formatNumber(health), companion.StatusOf(health))
	return a.finish(ctx, doc)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// open finds and loads the save with the given ID.
func (a *App) open(ctx context.Context, saveID string, mode save.Mode) (save.Entry, *save.Document, error) {
	entries, err := save.Discover(ctx, a.cfg.SavesRoot, a.cfg.IncludeClientSaves)
	if err != nil {
		return save.Entry{}, nil, fmt.Errorf("app: list saves: %w", err)
	}
	entry, err := save.Find(entries, saveID)
	if err != nil {
		return save.Entry{}, nil, err
	}
	doc, err := save.Load(ctx, entry.Dir, mode)
	if err != nil {
		return save.Entry{}, nil, fmt.Errorf("app: load save %s: %w", saveID, err)
	}
	return entry, doc, nil
}

// finish commits doc unless running dry. The directory and files are
// checked first so that a commit does not stop halfway on a permission
// problem.
func (a *App) finish(ctx context.Context, doc *save.Document) error {
	if a.dryRun {
		observe.Logger(ctx).Info("dry run, save not written", "dir", doc.Dir())
		fmt.Fprintln(a.out, "dry run: changes not written")
		return nil
	}
	rep := health.New(health.Writable(doc.Dir()), health.Files(doc.Dir(), doc.Names())).Run(ctx)
	if err := rep.Err(); err != nil {
		return fmt.Errorf("app: preflight: %w", err)
	}
	if err := doc.Commit(ctx); err != nil {
		return fmt.Errorf("app: commit: %w", err)
	}
	fmt.Fprintf(a.out, "saved %d files to %s\n", len(doc.Names()), doc.Dir())
	return nil
}

// ParseVec parses "x,y,z".
func ParseVec(s string) (companion.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return companion.Vec3{}, fmt.Errorf("app: position %q: want player, rescue or x,y,z", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return companion.Vec3{}, fmt.Errorf("app: position %q: %w", s, err)
		}
		xyz[i] = v
	}
	return companion.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatVec(p companion.Vec3) string {
	return fmt.Sprintf("(%s, %s, %s)", formatNumber(p.X), formatNumber(p.Y), formatNumber(p.Z))
}
