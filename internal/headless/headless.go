// Package headless drives an App from a plain ticker, for pipes, CI and
// terminals where the TUI is not wanted.
package headless

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spiffcs/gameshell/internal/app"
	"github.com/spiffcs/gameshell/internal/lifecycle"
	"github.com/spiffcs/gameshell/internal/log"
	"github.com/spiffcs/gameshell/internal/progress"
)

// DefaultTickRate is used when Options.TickRate is not positive.
const DefaultTickRate = 16 * time.Millisecond

// Options configures Run.
type Options struct {
	// TickRate is the time between ticks.
	TickRate time.Duration
	// MaxTicks stops the loop after this many ticks; 0 means no bound.
	MaxTicks uint64
	// Keys supplies key presses, one or more whitespace-separated keys per
	// line. Nil disables key input.
	Keys io.Reader
	// Out receives phase change lines. Nil discards them.
	Out io.Writer
}

// Result describes how the loop ended.
type Result struct {
	Ticks  uint64
	Status app.ExitStatus
	// Exited is false when the loop stopped on MaxTicks.
	Exited bool
}

var phaseColors = map[lifecycle.Phase]*color.Color{
	lifecycle.Loading:     color.New(color.FgYellow),
	lifecycle.Ready:       color.New(color.FgGreen),
	lifecycle.Terminating: color.New(color.FgRed),
}

// Run ticks a until the shell requests exit, MaxTicks is reached or ctx is
// cancelled. Cancellation returns ctx.Err().
func Run(ctx context.Context, a *app.App, opts Options) (Result, error) {
	rate := opts.TickRate
	if rate <= 0 {
		rate = DefaultTickRate
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	keys := readKeys(ctx, opts.Keys)
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	var res Result
	var loaded progress.Snapshot
	last := a.World().Phase.Current()
	printPhase(out, last, 0)

	for {
		select {
		case <-ctx.Done():
			log.ProgressClear()
			return res, ctx.Err()
		case <-ticker.C:
		}

		drainKeys(a, keys)
		a.Tick()
		res.Ticks++

		if last == lifecycle.Loading {
			if snap := a.World().Progress.Snapshot(); snap != loaded && snap.Total > 0 {
				loaded = snap
				log.Progress("Loading assets %d/%d", snap.Done, snap.Total)
			}
		}

		if p := a.World().Phase.Current(); p != last {
			if last == lifecycle.Loading {
				log.ProgressDone()
			}
			last = p
			printPhase(out, p, a.World().Diagnostics.FrameCount())
		}

		if status, ok := a.Exit(); ok {
			res.Status = status
			res.Exited = true
			return res, nil
		}
		if opts.MaxTicks > 0 && res.Ticks >= opts.MaxTicks {
			log.ProgressClear()
			log.Warn("tick limit reached", "ticks", res.Ticks, "phase", last.String())
			return res, nil
		}
	}
}

func printPhase(out io.Writer, p lifecycle.Phase, frame uint64) {
	c, ok := phaseColors[p]
	if !ok {
		c = color.New(color.Reset)
	}
	c.Fprintf(out, "● %s", p)
	color.New(color.Faint).Fprintf(out, " (frame %d)\n", frame)
}

// drainKeys forwards every key read so far without blocking.
func drainKeys(a *app.App, keys <-chan string) {
	for {
		select {
		case k, ok := <-keys:
			if !ok {
				return
			}
			a.PressKey(k)
		default:
			return
		}
	}
}

// readKeys scans r on its own goroutine. A blocked read outlives ctx; the
// goroutine exits at the next line or EOF.
func readKeys(ctx context.Context, r io.Reader) <-chan string {
	if r == nil {
		return nil
	}
	keys := make(chan string, 16)
	go func() {
		defer close(keys)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			for _, k := range strings.Fields(scanner.Text()) {
				select {
				case keys <- k:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			log.Debug("key input closed", "error", err)
		}
	}()
	return keys
}
