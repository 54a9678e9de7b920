package app

import (
	"github.com/spiffcs/gameshell/internal/diagnostics"
	"github.com/spiffcs/gameshell/internal/input"
	"github.com/spiffcs/gameshell/internal/lifecycle"
	"github.com/spiffcs/gameshell/internal/progress"
)

// DiagnosticsPlugin counts frames and measures frame time.
type DiagnosticsPlugin struct {
	Options []diagnostics.Option
}

func (DiagnosticsPlugin) Name() string { return "diagnostics" }

func (p DiagnosticsPlugin) Build(a *App) error {
	a.world.Diagnostics = diagnostics.New(p.Options...)
	a.AddSystem(System{
		Name:  "frame_diagnostics",
		Stage: StageFirst,
		Run: func(w *World) {
			w.Diagnostics.Frame()
		},
	})
	return nil
}

// InputPlugin installs the action map and polls the keyboard once per tick.
type InputPlugin struct {
	Map          *input.InputMap
	ReleaseAfter int
}

func (InputPlugin) Name() string { return "input" }

func (p InputPlugin) Build(a *App) error {
	if p.Map != nil {
		a.world.Input = p.Map
	}
	a.world.Keyboard = input.NewKeyboard(p.ReleaseAfter)
	a.world.Actions = input.NewActionState()
	a.AddSystem(System{
		Name:  "poll_input",
		Stage: StagePreUpdate,
		Run: func(w *World) {
			w.Keyboard.Advance()
			w.Actions.Update(w.Input, w.Keyboard)
		},
	})
	return nil
}

// ProgressPlugin requests ContinueTo once every registered loading task is
// done, and seals the aggregator when Loading ends.
type ProgressPlugin struct {
	ContinueTo  lifecycle.Phase
	EmptyPolicy progress.EmptyPolicy
}

func (ProgressPlugin) Name() string { return "progress" }

func (p ProgressPlugin) Build(a *App) error {
	a.world.Progress = progress.New(progress.WithEmptyPolicy(p.EmptyPolicy))
	a.AddSystem(System{
		Name:  "check_progress",
		Stage: StageLast,
		RunIf: InPhase(lifecycle.Loading),
		Run: func(w *World) {
			if w.Progress.IsComplete() {
				w.Phase.Request(p.ContinueTo)
			}
		},
	})
	a.OnExit(lifecycle.Loading, func(w *World) {
		w.Progress.Seal()
	})
	return nil
}

// InspectorPlugin toggles the world inspector on the inspect action.
type InspectorPlugin struct {
	Visible bool
}

func (InspectorPlugin) Name() string { return "inspector" }

func (p InspectorPlugin) Build(a *App) error {
	a.world.InspectorVisible = p.Visible
	a.AddSystem(System{
		Name:  "toggle_inspector",
		Stage: StageUpdate,
		Run: func(w *World) {
			if w.Actions.JustPressed(input.ActionInspect) {
				w.InspectorVisible = !w.InspectorVisible
			}
		},
	})
	return nil
}
