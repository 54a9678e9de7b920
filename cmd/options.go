package cmd

import "time"

// Options holds the command-line options for a shell run.
type Options struct {
	Verbosity int
	Manifest  string        // empty = use config
	TickRate  time.Duration // 0 = use config
	MaxTicks  uint64        // 0 = unbounded
	LogFile   string
	Watch     bool
	TUI       *bool // nil = auto-detect, true = force TUI, false = disable TUI

	// Profiling options
	CPUProfile string // Write CPU profile to file
	MemProfile string // Write memory profile to file
	Trace      string // Write execution trace to file
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithManifest sets the asset manifest path.
func WithManifest(path string) Option {
	return func(o *Options) {
		o.Manifest = path
	}
}

// WithTickRate sets the time between ticks.
func WithTickRate(d time.Duration) Option {
	return func(o *Options) {
		o.TickRate = d
	}
}

// WithMaxTicks bounds a headless run.
func WithMaxTicks(n uint64) Option {
	return func(o *Options) {
		o.MaxTicks = n
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
