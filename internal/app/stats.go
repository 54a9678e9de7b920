package app

import (
	"time"

	"github.com/spiffcs/gameshell/internal/lifecycle"
	"github.com/spiffcs/gameshell/internal/log"
	"github.com/spiffcs/gameshell/internal/stats"
)

// StatsPlugin appends a session record to Store when the shell terminates.
type StatsPlugin struct {
	Store *stats.Store
	Host  string
}

func (StatsPlugin) Name() string { return "stats" }

func (p StatsPlugin) Build(a *App) error {
	var loadDuration time.Duration
	a.OnExit(lifecycle.Loading, func(w *World) {
		loadDuration = w.Diagnostics.Uptime()
	})
	a.OnEnter(lifecycle.Terminating, func(w *World) {
		if p.Store == nil {
			return
		}
		sess := SessionFromWorld(w, loadDuration, p.Host)
		if err := p.Store.Append(sess); err != nil {
			log.Warn("could not save session stats", "error", err)
			return
		}
		log.Debug("session stats saved", "path", p.Store.Path())
	})
	return nil
}

// SessionFromWorld summarizes the world for the stats store.
func SessionFromWorld(w *World, loadDuration time.Duration, host string) stats.Session {
	loaded, failed := w.Assets.Counts()
	reloads := 0
	for _, asset := range w.Assets.All() {
		reloads += asset.Reloads
	}
	return stats.Session{
		Timestamp:    time.Now(),
		Frames:       w.Diagnostics.FrameCount(),
		LoadFrames:   w.LoadFrames(),
		LoadDuration: loadDuration,
		Uptime:       w.Diagnostics.Uptime(),
		AssetsLoaded: loaded,
		AssetsFailed: failed,
		Reloads:      reloads,
		Host:         host,
	}
}
