package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "assets.yaml", `
base_dir: data
assets:
  - name: player
    path: sprites/player.txt
  - name: level
    path: levels/one.txt
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 assets, got %d", m.Len())
	}
	want := filepath.Join(dir, "data", "sprites", "player.txt")
	if got := m.Resolve(m.Assets[0]); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLoadManifestTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "assets.toml", `
base_dir = "data"

[[assets]]
name = "player"
path = "sprites/player.txt"

[[assets]]
name = "music"
path = "audio/theme.ogg"
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 2 || m.Assets[1].Name != "music" {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if m.BaseDir != filepath.Join(dir, "data") {
		t.Errorf("expected base dir resolved against manifest, got %q", m.BaseDir)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"bad yaml", "assets: [", nil},
		{"missing name", "assets:\n  - path: a.txt\n", nil},
		{"missing path", "assets:\n  - name: a\n", nil},
		{"duplicate", "assets:\n  - {name: a, path: a.txt}\n  - {name: a, path: b.txt}\n", ErrDuplicateAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "assets.yaml", tt.content)
			_, err := LoadManifest(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestLoaderStart(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha")
	writeFile(t, dir, "b.txt", "bravo!")

	m := &Manifest{
		BaseDir: dir,
		Assets: []Entry{
			{Name: "a", Path: "a.txt"},
			{Name: "b", Path: "b.txt"},
			{Name: "missing", Path: "nope.txt"},
		},
	}

	store := NewStore(m)
	results := make(map[string]Completion)
	for c := range NewLoader(WithWorkers(2)).Start(context.Background(), m) {
		results[c.Name] = c
		store.Apply(c)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 completions, got %d", len(results))
	}
	if results["missing"].Err == nil {
		t.Error("expected error for missing asset")
	}
	if string(results["b"].Data) != "bravo!" {
		t.Errorf("unexpected data %q", results["b"].Data)
	}

	loaded, failed := store.Counts()
	if loaded != 2 || failed != 1 {
		t.Errorf("expected 2 loaded 1 failed, got %d/%d", loaded, failed)
	}
	a, ok := store.Get("a")
	if !ok || a.Status != StatusLoaded || a.Size() != 5 {
		t.Errorf("unexpected asset %+v", a)
	}
}

func TestLoaderEmptyManifest(t *testing.T) {
	ch := NewLoader().Start(context.Background(), &Manifest{})
	if _, ok := <-ch; ok {
		t.Error("expected closed channel for empty manifest")
	}
}

func TestLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &Manifest{Assets: []Entry{{Name: "a", Path: "a"}, {Name: "b", Path: "b"}}}
	l := NewLoader(WithWorkers(1), WithReadFunc(func(string) ([]byte, error) {
		return []byte("x"), nil
	}))

	n := 0
	for c := range l.Start(ctx, m) {
		n++
		if !errors.Is(c.Err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", c.Err)
		}
	}
	if n != 2 {
		t.Errorf("expected 2 completions, got %d", n)
	}
}

func TestStoreReload(t *testing.T) {
	m := &Manifest{BaseDir: "/data", Assets: []Entry{{Name: "a", Path: "a.txt"}}}
	s := NewStore(m)

	s.Apply(Completion{Name: "a", Data: []byte("1"), At: time.Now()})
	s.Apply(Completion{Name: "a", Data: []byte("22"), At: time.Now()})

	a, _ := s.Get("a")
	if a.Reloads != 1 {
		t.Errorf("expected 1 reload, got %d", a.Reloads)
	}
	if a.Size() != 2 {
		t.Errorf("expected reloaded data, got %q", a.Data)
	}

	name, ok := s.NameForPath("/data/a.txt")
	if !ok || name != "a" {
		t.Errorf("expected a, got %q (%v)", name, ok)
	}
}

func TestStatusString(t *testing.T) {
	for _, tt := range []struct {
		s    Status
		want string
	}{
		{StatusPending, "pending"},
		{StatusLoaded, "loaded"},
		{StatusFailed, "failed"},
		{Status(7), "unknown"},
	} {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one")

	w, err := NewWatcher([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(path, []byte("two"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Changed():
		want, _ := filepath.Abs(path)
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}
