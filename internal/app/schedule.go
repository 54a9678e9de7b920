package app

import (
	"sort"

	"github.com/spiffcs/gameshell/internal/lifecycle"
)

// Stage defines execution ordering within a single tick.
type Stage int

const (
	StageFirst     Stage = iota // 0: frame diagnostics
	StagePreUpdate              // 1: collaborator bookkeeping (asset loader, input polling)
	StageUpdate                 // 2: phase-scoped shell logic
	StageLast                   // 3: end-of-tick checks that request transitions
)

// String returns a human-readable representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageFirst:
		return "First"
	case StagePreUpdate:
		return "PreUpdate"
	case StageUpdate:
		return "Update"
	case StageLast:
		return "Last"
	default:
		return "Unknown"
	}
}

// Condition decides whether a system runs this tick.
type Condition func(w *World) bool

// InPhase runs a system only while p is the current phase.
func InPhase(p lifecycle.Phase) Condition {
	return func(w *World) bool {
		return w.Phase.IsActive(p)
	}
}

// System is one per-tick behavior.
type System struct {
	Name  string
	Stage Stage
	RunIf Condition // nil = always
	Run   func(w *World)
}

// Runner executes systems in stage order each tick. Systems within a stage
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
}

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

// Register adds a system.
func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Run executes every system whose condition holds.
func (r *Runner) Run(w *World) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.RunIf != nil && !s.RunIf(w) {
			continue
		}
		s.Run(w)
	}
}

// Systems returns the registered systems in execution order.
func (r *Runner) Systems() []System {
	r.ensureSorted()
	out := make([]System, len(r.systems))
	copy(out, r.systems)
	return out
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Stage < r.systems[j].Stage
		})
		r.sorted = true
	}
}
