// Package app wires the lifecycle, progress and input packages into a
// tick-driven application shell that any host loop can drive.
package app

import (
	"context"
	"fmt"

	"github.com/spiffcs/gameshell/internal/input"
	"github.com/spiffcs/gameshell/internal/lifecycle"
	"github.com/spiffcs/gameshell/internal/log"
)

// Tickable is anything a host loop can advance by one tick.
type Tickable interface {
	Tick()
}

// Plugin installs systems and hooks into an App.
type Plugin interface {
	Name() string
	Build(a *App) error
}

// App owns the World and the schedule that runs over it.
type App struct {
	world   *World
	runner  *Runner
	startup []func(ctx context.Context, w *World)
	plugins []string
	started bool

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures an App.
type Option func(*App)

// WithContext sets the parent context for background collaborators.
func WithContext(ctx context.Context) Option {
	return func(a *App) {
		a.ctx = ctx
	}
}

// New creates an App in the Loading phase with no plugins.
func New(opts ...Option) *App {
	a := &App{
		world:  newWorld(),
		runner: NewRunner(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ctx, a.cancel = context.WithCancel(a.ctx)

	a.world.Phase.OnExit(lifecycle.Loading, func(lifecycle.Transition) {
		a.world.loadFrame = a.world.Diagnostics.FrameCount()
	})
	a.world.Phase.OnEnter(lifecycle.Ready, a.logTransition)
	a.world.Phase.OnEnter(lifecycle.Terminating, a.logTransition)
	return a
}

func (a *App) logTransition(t lifecycle.Transition) {
	log.Debug("phase transition",
		"from", t.From.String(),
		"to", t.To.String(),
		"frame", a.world.Diagnostics.FrameCount(),
	)
}

// AddPlugins builds each plugin in order.
func (a *App) AddPlugins(plugins ...Plugin) error {
	for _, p := range plugins {
		if err := p.Build(a); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		a.plugins = append(a.plugins, p.Name())
		log.Debug("plugin added", "plugin", p.Name())
	}
	return nil
}

// AddSystem registers a per-tick system.
func (a *App) AddSystem(s System) {
	a.runner.Register(s)
}

// AddStartup registers fn to run once, before the first tick's systems.
func (a *App) AddStartup(fn func(ctx context.Context, w *World)) {
	a.startup = append(a.startup, fn)
}

// OnEnter registers a one-shot hook for entering p.
func (a *App) OnEnter(p lifecycle.Phase, fn func(w *World)) {
	a.world.Phase.OnEnter(p, func(lifecycle.Transition) { fn(a.world) })
}

// OnExit registers a one-shot hook for leaving p.
func (a *App) OnExit(p lifecycle.Phase, fn func(w *World)) {
	a.world.Phase.OnExit(p, func(lifecycle.Transition) { fn(a.world) })
}

// World returns the app's state.
func (a *App) World() *World {
	return a.world
}

// Plugins returns the names of the installed plugins.
func (a *App) Plugins() []string {
	out := make([]string, len(a.plugins))
	copy(out, a.plugins)
	return out
}

// Context returns the context background collaborators should use.
func (a *App) Context() context.Context {
	return a.ctx
}

// Tick runs one coherent pass: startup (first tick only), the phase
// boundary with its enter/exit hooks, then every active system in stage
// order.
func (a *App) Tick() {
	if !a.started {
		a.started = true
		for _, fn := range a.startup {
			fn(a.ctx, a.world)
		}
	}

	a.world.Phase.Apply()
	a.runner.Run(a.world)

	if log.IsTrace() {
		log.Trace("tick", "frame", a.world.Diagnostics.FrameCount(), "phase", a.world.Phase.Current().String())
	}
}

// PressKey records a key event from the host. It applies to the next tick.
func (a *App) PressKey(k string) {
	a.world.Keyboard.Press(input.Key(k))
}

// Exit reports whether termination was requested and with which status.
func (a *App) Exit() (ExitStatus, bool) {
	return a.world.Exit()
}

// Close stops background collaborators. It is safe to call more than once.
func (a *App) Close() {
	a.cancel()
}
