package assets

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the default number of concurrent file reads.
const DefaultWorkers = 4

// Completion is the outcome of loading one asset.
type Completion struct {
	Name string
	Path string
	Data []byte
	Err  error
	At   time.Time
}

// Loader reads manifest entries from disk concurrently. It never touches
// application state; results are delivered on a channel and applied by the
// tick loop.
type Loader struct {
	workers int
	read    func(string) ([]byte, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithWorkers sets the number of concurrent reads.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithReadFunc overrides how files are read (useful for testing).
func WithReadFunc(fn func(string) ([]byte, error)) LoaderOption {
	return func(l *Loader) {
		l.read = fn
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		workers: DefaultWorkers,
		read:    os.ReadFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins loading every entry of m and returns a channel that receives
// exactly one Completion per entry, then closes. A failed read is reported
// as a Completion with Err set; it does not stop the other reads.
// Cancelling ctx stops reads that have not started yet; their entries are
// reported with the context error.
func (l *Loader) Start(ctx context.Context, m *Manifest) <-chan Completion {
	out := make(chan Completion, m.Len())
	if m.Len() == 0 {
		close(out)
		return out
	}

	go func() {
		defer close(out)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(l.workers)

		for _, e := range m.Assets {
			path := m.Resolve(e)
			name := e.Name
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					out <- Completion{Name: name, Path: path, Err: err, At: time.Now()}
					return nil
				}
				out <- l.Load(name, path)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return out
}

// Load reads a single asset synchronously.
func (l *Loader) Load(name, path string) Completion {
	data, err := l.read(path)
	if err != nil {
		err = fmt.Errorf("load asset %q: %w", name, err)
	}
	return Completion{Name: name, Path: path, Data: data, Err: err, At: time.Now()}
}
