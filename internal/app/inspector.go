package app

import (
	"time"

	"github.com/spiffcs/gameshell/internal/assets"
	"github.com/spiffcs/gameshell/internal/lifecycle"
	"github.com/spiffcs/gameshell/internal/progress"
)

// Inspection is a read-only view of the world for the inspector panel.
type Inspection struct {
	Phase     lifecycle.Phase
	Pending   string
	Frame     uint64
	FPS       float64
	FrameTime time.Duration
	Uptime    time.Duration
	Progress  progress.Snapshot
	Sealed    bool
	Assets    []assets.Asset
	Plugins   []string
	Systems   []string
}

// Inspect captures the current world state.
func (a *App) Inspect() Inspection {
	w := a.world
	in := Inspection{
		Phase:     w.Phase.Current(),
		Frame:     w.Diagnostics.FrameCount(),
		FPS:       w.Diagnostics.FPS(),
		FrameTime: w.Diagnostics.FrameTime(),
		Uptime:    w.Diagnostics.Uptime(),
		Progress:  w.Progress.Snapshot(),
		Sealed:    w.Progress.Sealed(),
		Assets:    w.Assets.All(),
		Plugins:   a.Plugins(),
	}
	if next, ok := w.Phase.Pending(); ok {
		in.Pending = next.String()
	}
	for _, s := range a.runner.Systems() {
		in.Systems = append(in.Systems, s.Stage.String()+"/"+s.Name)
	}
	return in
}
