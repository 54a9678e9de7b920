package app

import (
	"context"

	"github.com/spiffcs/gameshell/internal/assets"
	"github.com/spiffcs/gameshell/internal/lifecycle"
	"github.com/spiffcs/gameshell/internal/log"
)

// AssetLoadingPlugin loads a manifest during the Loading phase and feeds
// the progress aggregator. With Watch set, assets are hot-reloaded while
// Ready.
type AssetLoadingPlugin struct {
	Manifest *assets.Manifest
	Loader   *assets.Loader
	Watch    bool
}

func (AssetLoadingPlugin) Name() string { return "assets" }

func (p AssetLoadingPlugin) Build(a *App) error {
	loader := p.Loader
	if loader == nil {
		loader = assets.NewLoader()
	}
	a.world.Assets = assets.NewStore(p.Manifest)

	var completions <-chan assets.Completion
	a.AddStartup(func(ctx context.Context, w *World) {
		if err := w.Progress.Register(uint32(p.Manifest.Len())); err != nil {
			log.Error("could not register assets", "error", err)
			return
		}
		log.Debug("loading assets", "count", p.Manifest.Len())
		completions = loader.Start(ctx, p.Manifest)
	})

	a.AddSystem(System{
		Name:  "drain_asset_loads",
		Stage: StagePreUpdate,
		RunIf: InPhase(lifecycle.Loading),
		Run: func(w *World) {
			completions = drainLoads(w, completions)
		},
	})

	if !p.Watch || p.Manifest.Len() == 0 {
		return nil
	}

	reloads := make(chan assets.Completion, 16)
	a.OnEnter(lifecycle.Ready, func(w *World) {
		startWatcher(a.Context(), w.Assets, loader, reloads)
	})
	a.AddSystem(System{
		Name:  "apply_asset_reloads",
		Stage: StagePreUpdate,
		RunIf: InPhase(lifecycle.Ready),
		Run: func(w *World) {
			for {
				select {
				case c := <-reloads:
					w.Assets.Apply(c)
					if c.Err != nil {
						log.Warn("asset reload failed", "asset", c.Name, "error", c.Err)
						continue
					}
					log.Info("asset reloaded", "asset", c.Name, "bytes", len(c.Data))
				default:
					return
				}
			}
		},
	})
	return nil
}

// drainLoads applies every completion that is ready without blocking and
// returns nil once the loader has finished.
func drainLoads(w *World, ch <-chan assets.Completion) <-chan assets.Completion {
	if ch == nil {
		return nil
	}
	for {
		select {
		case c, ok := <-ch:
			if !ok {
				return nil
			}
			w.Assets.Apply(c)
			if c.Err != nil {
				log.Error("asset failed to load", "asset", c.Name, "error", c.Err)
			} else {
				log.Debug("asset loaded", "asset", c.Name, "bytes", len(c.Data))
			}
			// Failed assets still count as done so Loading cannot starve.
			w.Progress.MarkDone(1)
		default:
			return ch
		}
	}
}

func startWatcher(ctx context.Context, store *assets.Store, loader *assets.Loader, out chan<- assets.Completion) {
	watcher, err := assets.NewWatcher(store.Paths())
	if err != nil {
		log.Warn("asset hot reload disabled", "error", err)
		return
	}
	go watcher.Run(ctx)
	go func() {
		for path := range watcher.Changed() {
			name, ok := store.NameForPath(path)
			if !ok {
				continue
			}
			select {
			case out <- loader.Load(name, path):
			case <-ctx.Done():
				return
			}
		}
	}()
}
