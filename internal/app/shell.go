package app

import (
	"github.com/spiffcs/gameshell/internal/input"
	"github.com/spiffcs/gameshell/internal/lifecycle"
	"github.com/spiffcs/gameshell/internal/log"
	"github.com/spiffcs/gameshell/internal/progress"
)

// ShellPlugin installs the shell's own behavior: progress reporting while
// loading, quitting on the bound action once ready, and the one-shot
// shutdown notification.
type ShellPlugin struct{}

func (ShellPlugin) Name() string { return "shell" }

func (ShellPlugin) Build(a *App) error {
	a.AddSystem(System{
		Name:  "print_progress",
		Stage: StageUpdate,
		RunIf: InPhase(lifecycle.Loading),
		Run:   printProgress,
	})
	a.AddSystem(System{
		Name:  "quit_on_action",
		Stage: StageUpdate,
		RunIf: InPhase(lifecycle.Ready),
		Run:   quitOnAction,
	})
	a.OnEnter(lifecycle.Terminating, onQuit)
	return nil
}

// printProgress logs the progress snapshot whenever done has increased.
func printProgress(w *World) {
	snap, ok := w.Progress.CheckAndReport()
	if !ok {
		return
	}
	log.Info("changed progress",
		"frame", w.Diagnostics.FrameCount(),
		"done", snap.Done,
		"total", snap.Total,
	)
}

// quitOnAction requests termination on the tick the quit action is pressed.
func quitOnAction(w *World) {
	if w.Actions.JustPressed(input.ActionQuit) {
		w.Phase.Request(lifecycle.Terminating)
	}
}

func onQuit(w *World) {
	log.Info("quitting", "frame", w.Diagnostics.FrameCount())
	w.RequestExit(ExitSuccess)
}

// DefaultPlugins returns the plugins every shell installs, in order.
func DefaultPlugins(inputMap *input.InputMap, releaseAfter int, policy progress.EmptyPolicy) []Plugin {
	return []Plugin{
		DiagnosticsPlugin{},
		InputPlugin{Map: inputMap, ReleaseAfter: releaseAfter},
		ProgressPlugin{ContinueTo: lifecycle.Ready, EmptyPolicy: policy},
		InspectorPlugin{},
		ShellPlugin{},
	}
}
