// Command sotf-rescue revives and relocates the Sons of the Forest
// companions Kelvin and Virginia by editing a save's files.
//
// Usage:
//
//	sotf-rescue [flags] list
//	sotf-rescue [flags] status <save>
//	sotf-rescue [flags] revive <save> <companion>
//	sotf-rescue [flags] move <save> <companion> player|rescue|x,y,z
//	sotf-rescue [flags] health <save> <companion> <value>
//	sotf-rescue [flags] dump <save> <file>
//	sotf-rescue [flags] check [save]
//
// The game must not be running while a save is edited.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/MrWong99/sotf-rescue/internal/app"
	"github.com/MrWong99/sotf-rescue/internal/config"
	"github.com/MrWong99/sotf-rescue/internal/observe"
	"github.com/MrWong99/sotf-rescue/internal/save"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errUsage marks errors caused by a malformed command line.
var errUsage = errors.New("usage")

func run(args []string, stdout, stderr io.Writer) int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	fs := flag.NewFlagSet("sotf-rescue", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "sotf-rescue.yaml", "path to the YAML configuration file (optional)")
	savesRoot := fs.String("saves-root", "", "saves directory (overrides config)")
	client := fs.Bool("client", false, "include saves joined as a multiplayer client")
	dryRun := fs.Bool("dry-run", false, "apply edits in memory only, do not write the save")
	extended := fs.Bool("extended", false, "load every non-image file of a save, not only the core files")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	stats := fs.Bool("stats", false, "print collected metrics before exit")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "sotf-rescue: %v\n", err)
		return 1
	}
	if *savesRoot != "" {
		cfg.SavesRoot = *savesRoot
	}
	if *client {
		cfg.IncludeClientSaves = true
	}
	if *logLevel != "" {
		cfg.LogLevel = config.LogLevel(*logLevel)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "sotf-rescue: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	slog.SetDefault(newLogger(stderr, cfg.LogLevel))
	slog.Debug("sotf-rescue starting",
		"version", version,
		"config", *configPath,
		"saves_root", cfg.SavesRoot,
		"read_mode", cfg.ReadMode,
	)

	ctx := context.Background()

	// ── Telemetry (optional) ──────────────────────────────────────────────────
	if *stats {
		provider, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
		if err != nil {
			slog.Error("failed to initialise telemetry", "err", err)
			return 1
		}
		defer func() {
			lines, err := observe.Summary(ctx, provider.Reader)
			if err != nil {
				slog.Warn("failed to collect metrics", "err", err)
			}
			for _, l := range lines {
				fmt.Fprintln(stderr, l)
			}
			if err := provider.Shutdown(ctx); err != nil {
				slog.Warn("telemetry shutdown error", "err", err)
			}
		}()
	}

	// ── Command ───────────────────────────────────────────────────────────────
	opts := []app.Option{app.WithOutput(stdout), app.WithDryRun(*dryRun)}
	if *extended {
		opts = append(opts, app.WithMode(save.Extended))
	}
	application := app.New(cfg, opts...)

	if err := dispatch(ctx, application, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "sotf-rescue: %v\n\n", err)
			usage(fs)
			return 2
		}
		slog.Error("command failed", "err", err)
		return 1
	}
	return 0
}

// dispatch runs the command named by args[0].
func dispatch(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	cmd, rest := args[0], args[1:]

	if cmd == "check" {
		if len(rest) > 1 {
			return fmt.Errorf("%w: check takes at most 1 argument, got %d", errUsage, len(rest))
		}
		saveID := ""
		if len(rest) == 1 {
			saveID = rest[0]
		}
		return a.Check(ctx, saveID)
	}

	want := map[string]int{"list": 0, "status": 1, "revive": 2, "move": 3, "health": 3, "dump": 2}
	n, ok := want[cmd]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	if len(rest) != n {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", errUsage, cmd, n, len(rest))
	}

	switch cmd {
	case "list":
		return a.List(ctx)
	case "status":
		return a.Status(ctx, rest[0])
	case "revive":
		return a.Revive(ctx, rest[0], rest[1])
	case "move":
		return a.Move(ctx, rest[0], rest[1], rest[2])
	case "health":
		h, err := strconv.ParseFloat(rest[2], 64)
		if err != nil {
			return fmt.Errorf("%w: health %q is not a number", errUsage, rest[2])
		}
		return a.SetHealth(ctx, rest[0], rest[1], h)
	default:
		return a.Dump(ctx, rest[0], rest[1])
	}
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, `Usage: sotf-rescue [flags] <command> [arguments]

Commands:
  list                                   list saves, newest first
  status <save>                          show Kelvin's and Virginia's state
  revive <save> <companion>              bring a dead companion back
  move   <save> <companion> <target>     move to player, rescue or x,y,z
  health <save> <companion> <value>      set a companion's health
  dump   <save> <file>                   print a decoded save file
  check  [save]                          verify the saves root and a save can be written

<companion> is Kelvin, Virginia or a numeric actor type id.

Flags:`)
	fs.PrintDefaults()
}

func newLogger(w io.Writer, level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
