package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spiffcs/gameshell/config"
	"github.com/spiffcs/gameshell/internal/app"
	"github.com/spiffcs/gameshell/internal/assets"
	"github.com/spiffcs/gameshell/internal/headless"
	"github.com/spiffcs/gameshell/internal/input"
	"github.com/spiffcs/gameshell/internal/log"
	"github.com/spiffcs/gameshell/internal/progress"
	"github.com/spiffcs/gameshell/internal/stats"
	"github.com/spiffcs/gameshell/internal/tui"
)

// ErrInterrupted is returned when a run is stopped by a signal or ctrl+c
// rather than through the shell's quit action.
var ErrInterrupted = errors.New("interrupted")

func runShell(cmd *cobra.Command, opts *Options) error {
	stopProfiles, err := startProfiles(opts)
	if err != nil {
		return err
	}
	defer stopProfiles()

	host, reason := pickHost(opts)
	useTUI := host == hostTUI

	logOut, closeLog, err := logOutput(useTUI, opts.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Initialize(log.LevelInfo+opts.Verbosity, logOut)

	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, settings, host)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Debug("starting shell", "host", host, "reason", reason, "tickRate", settings.TickRate.String(), "manifest", settings.Manifest)

	if useTUI {
		_, err := tui.Run(ctx, a, tui.WithTickRate(settings.TickRate))
		if errors.Is(err, tui.ErrAborted) {
			return ErrInterrupted
		}
		return err
	}

	res, err := headless.Run(ctx, a, headless.Options{
		TickRate: settings.TickRate,
		MaxTicks: opts.MaxTicks,
		Keys:     os.Stdin,
		Out:      cmd.OutOrStdout(),
	})
	if errors.Is(err, context.Canceled) {
		return ErrInterrupted
	}
	if err != nil {
		return err
	}
	log.Debug("shell stopped", "ticks", res.Ticks, "exited", res.Exited)
	return nil
}

// logOutput picks where logs go. The TUI owns the terminal, so its logs
// go to the log file or nowhere.
func logOutput(useTUI bool, path string) (io.Writer, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if useTUI {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

// loadSettings resolves config files and applies command-line overrides.
func loadSettings(opts *Options) (config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	s, err := cfg.GetSettings()
	if err != nil {
		return config.Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	applyOverrides(&s, opts)
	return s, nil
}

func applyOverrides(s *config.Settings, opts *Options) {
	if opts.Manifest != "" {
		s.Manifest = opts.Manifest
	}
	if opts.TickRate > 0 {
		s.TickRate = opts.TickRate
	}
	if opts.Watch {
		s.WatchAssets = true
	}
}

// releaseTicks returns how many ticks a key stays held without a repeat
// event. An explicit tick count wins over the duration.
func releaseTicks(s config.Settings) int {
	if s.ReleaseAfterTicks > 0 {
		return s.ReleaseAfterTicks
	}
	return input.ReleaseTicks(s.ReleaseAfter, s.TickRate)
}

// buildApp assembles the shell and its plugins from resolved settings.
func buildApp(ctx context.Context, s config.Settings, host string) (*app.App, error) {
	inputMap, err := input.NewInputMap(
		input.Bind{Action: input.ActionQuit, Key: input.Key(s.QuitKey)},
		input.Bind{Action: input.ActionInspect, Key: input.Key(s.InspectKey)},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid key bindings: %w", err)
	}

	policy := progress.EmptyNeverCompletes
	if s.EmptyCompletes {
		policy = progress.EmptyCompletes
	}

	plugins := app.DefaultPlugins(inputMap, releaseTicks(s), policy)

	if s.Manifest != "" {
		manifest, err := assets.LoadManifest(s.Manifest)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, app.AssetLoadingPlugin{
			Manifest: manifest,
			Loader:   assets.NewLoader(assets.WithWorkers(s.Workers)),
			Watch:    s.WatchAssets,
		})
	}

	if s.StatsEnabled {
		store, err := stats.NewStore()
		if err != nil {
			log.Warn("session stats disabled", "error", err)
		} else {
			plugins = append(plugins, app.StatsPlugin{Store: store, Host: host})
		}
	}

	a := app.New(app.WithContext(ctx))
	if err := a.AddPlugins(plugins...); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}
