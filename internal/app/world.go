package app

import (
	"github.com/spiffcs/gameshell/internal/assets"
	"github.com/spiffcs/gameshell/internal/diagnostics"
	"github.com/spiffcs/gameshell/internal/input"
	"github.com/spiffcs/gameshell/internal/lifecycle"
	"github.com/spiffcs/gameshell/internal/progress"
)

// ExitStatus is the process status requested on termination.
type ExitStatus int

const (
	ExitSuccess ExitStatus = 0
)

// World is the explicitly owned state every system reads and writes. It is
// only touched from the tick loop.
type World struct {
	Phase       *lifecycle.Machine
	Progress    *progress.Aggregator
	Input       *input.InputMap
	Keyboard    *input.Keyboard
	Actions     *input.ActionState
	Diagnostics *diagnostics.Diagnostics
	Assets      *assets.Store

	// InspectorVisible is toggled by the inspect action.
	InspectorVisible bool

	exit      ExitStatus
	exitSet   bool
	loadFrame uint64
}

func newWorld() *World {
	return &World{
		Phase:       lifecycle.NewMachine(),
		Progress:    progress.New(),
		Input:       input.DefaultInputMap(),
		Keyboard:    input.NewKeyboard(input.DefaultReleaseAfter),
		Actions:     input.NewActionState(),
		Diagnostics: diagnostics.New(),
		Assets:      assets.NewStore(nil),
	}
}

// RequestExit asks the host to stop after the current tick.
func (w *World) RequestExit(status ExitStatus) {
	if w.exitSet {
		return
	}
	w.exit = status
	w.exitSet = true
}

// Exit returns the requested exit status, if any.
func (w *World) Exit() (ExitStatus, bool) {
	return w.exit, w.exitSet
}

// LoadFrames returns the frame on which the Loading phase ended, or 0.
func (w *World) LoadFrames() uint64 {
	return w.loadFrame
}
