package assets

import (
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Status is the load state of a single asset.
type Status int

const (
	StatusPending Status = iota
	StatusLoaded
	StatusFailed
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Asset is one loaded (or failed) manifest entry.
type Asset struct {
	Name     string
	Path     string
	Status   Status
	Data     []byte
	Err      error
	LoadedAt time.Time
	Reloads  int
}

// Size returns the asset's size in bytes.
func (a Asset) Size() int {
	return len(a.Data)
}

// Store keeps assets by name.
type Store struct {
	mu     sync.RWMutex
	assets map[string]*Asset
}

// NewStore creates a store with every manifest entry pending.
func NewStore(m *Manifest) *Store {
	s := &Store{assets: make(map[string]*Asset)}
	if m == nil {
		return s
	}
	for _, e := range m.Assets {
		s.assets[e.Name] = &Asset{Name: e.Name, Path: m.Resolve(e)}
	}
	return s
}

// Apply records the outcome of a load.
func (s *Store) Apply(c Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[c.Name]
	if !ok {
		a = &Asset{Name: c.Name, Path: c.Path}
		s.assets[c.Name] = a
	}
	if a.Status != StatusPending && c.Err == nil {
		a.Reloads++
	}
	if c.Err != nil {
		a.Status = StatusFailed
		a.Err = c.Err
		return
	}
	a.Status = StatusLoaded
	a.Data = c.Data
	a.Err = nil
	a.LoadedAt = c.At
}

// Get returns a copy of the named asset.
func (s *Store) Get(name string) (Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[name]
	if !ok {
		return Asset{}, false
	}
	return *a, true
}

// All returns every asset sorted by name.
func (s *Store) All() []Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Asset, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Counts returns the number of loaded and failed assets.
func (s *Store) Counts() (loaded, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assets {
		switch a.Status {
		case StatusLoaded:
			loaded++
		case StatusFailed:
			failed++
		}
	}
	return loaded, failed
}

// NameForPath returns the asset loaded from path.
func (s *Store) NameForPath(path string) (string, bool) {
	want := absPath(path)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assets {
		if absPath(a.Path) == want {
			return a.Name, true
		}
	}
	return "", false
}

// Paths returns the on-disk path of every asset.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, a.Path)
	}
	sort.Strings(out)
	return out
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
