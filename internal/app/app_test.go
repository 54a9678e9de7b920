package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/gameshell/internal/assets"
	"github.com/spiffcs/gameshell/internal/input"
	"github.com/spiffcs/gameshell/internal/lifecycle"
	"github.com/spiffcs/gameshell/internal/log"
	"github.com/spiffcs/gameshell/internal/progress"
	"github.com/spiffcs/gameshell/internal/stats"
)

// countingPlugin stands in for an asset loader: it registers total tasks at
// startup and completes one per tick while loading.
type countingPlugin struct {
	total uint32
}

func (countingPlugin) Name() string { return "counting" }

func (p countingPlugin) Build(a *App) error {
	a.AddStartup(func(_ context.Context, w *World) {
		if err := w.Progress.Register(p.total); err != nil {
			panic(err)
		}
	})
	a.AddSystem(System{
		Name:  "complete_one",
		Stage: StagePreUpdate,
		RunIf: InPhase(lifecycle.Loading),
		Run: func(w *World) {
			if w.Progress.Snapshot().Done < p.total {
				w.Progress.MarkDone(1)
			}
		},
	})
	return nil
}

func newTestApp(t *testing.T, policy progress.EmptyPolicy, extra ...Plugin) *App {
	t.Helper()
	a := New()
	t.Cleanup(a.Close)
	plugins := append(DefaultPlugins(input.DefaultInputMap(), 1, policy), extra...)
	if err := a.AddPlugins(plugins...); err != nil {
		t.Fatal(err)
	}
	return a
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.Initialize(log.LevelInfo, &buf)
	t.Cleanup(func() { log.Initialize(log.LevelQuiet, os.Stderr) })
	return &buf
}

func TestLoadingScenario(t *testing.T) {
	buf := captureLogs(t)
	a := newTestApp(t, progress.EmptyNeverCompletes, countingPlugin{total: 3})
	w := a.World()

	for tick := 1; tick <= 3; tick++ {
		before := strings.Count(buf.String(), "changed progress")
		a.Tick()
		after := strings.Count(buf.String(), "changed progress")
		if after-before != 1 {
			t.Errorf("tick %d: expected exactly one progress report, got %d", tick, after-before)
		}
		if got := w.Progress.Snapshot().Done; got != uint32(tick) {
			t.Errorf("tick %d: expected done %d, got %d", tick, tick, got)
		}
		if w.Phase.Current() != lifecycle.Loading {
			t.Errorf("tick %d: expected Loading, got %s", tick, w.Phase.Current())
		}
	}

	if !w.Progress.IsComplete() {
		t.Fatal("expected progress complete after third tick")
	}
	if next, ok := w.Phase.Pending(); !ok || next != lifecycle.Ready {
		t.Fatalf("expected Ready pending, got %s (%v)", next, ok)
	}

	a.Tick()
	if w.Phase.Current() != lifecycle.Ready {
		t.Fatalf("expected Ready on the following tick, got %s", w.Phase.Current())
	}
	if !w.Progress.Sealed() {
		t.Error("expected progress sealed after Loading")
	}
	if w.LoadFrames() != 3 {
		t.Errorf("expected Loading to end after frame 3, got %d", w.LoadFrames())
	}

	// No further reports once Loading is over.
	before := strings.Count(buf.String(), "changed progress")
	a.Tick()
	if strings.Count(buf.String(), "changed progress") != before {
		t.Error("unexpected progress report outside Loading")
	}
}

func TestZeroTasksNeverCompletes(t *testing.T) {
	a := newTestApp(t, progress.EmptyNeverCompletes)
	for range 100 {
		a.Tick()
	}
	if a.World().Phase.Current() != lifecycle.Loading {
		t.Errorf("expected to stay in Loading, got %s", a.World().Phase.Current())
	}
}

func TestZeroTasksEmptyCompletes(t *testing.T) {
	a := newTestApp(t, progress.EmptyCompletes)
	a.Tick()
	if a.World().Phase.Current() != lifecycle.Loading {
		t.Fatalf("transition must wait for the next tick, got %s", a.World().Phase.Current())
	}
	a.Tick()
	if a.World().Phase.Current() != lifecycle.Ready {
		t.Errorf("expected Ready, got %s", a.World().Phase.Current())
	}
}

func toReady(t *testing.T, a *App) {
	t.Helper()
	for range 10 {
		if a.World().Phase.IsActive(lifecycle.Ready) {
			return
		}
		a.Tick()
	}
	t.Fatalf("app never reached Ready, stuck in %s", a.World().Phase.Current())
}

// tickUntil ticks a until done reports true, for conditions that depend on
// background loads.
func tickUntil(t *testing.T, a *App, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !done() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out in %s with %s", a.World().Phase.Current(), a.World().Progress.Snapshot())
		}
		a.Tick()
		time.Sleep(time.Millisecond)
	}
}

func TestQuitHeldFiresOnce(t *testing.T) {
	buf := captureLogs(t)
	a := newTestApp(t, progress.EmptyCompletes)
	toReady(t, a)
	w := a.World()

	var requested []int
	for tick := 1; tick <= 5; tick++ {
		a.PressKey("q")
		_, pendingBefore := w.Phase.Pending()
		a.Tick()
		if next, ok := w.Phase.Pending(); ok && next == lifecycle.Terminating && !pendingBefore {
			requested = append(requested, tick)
		}
		if tick == 1 && w.Phase.Current() != lifecycle.Ready {
			t.Errorf("request must not take effect within the tick, got %s", w.Phase.Current())
		}
	}

	if len(requested) != 1 || requested[0] != 1 {
		t.Errorf("expected one Terminating request on tick 1, got %v", requested)
	}

	terminations := 0
	for _, tr := range w.Phase.History() {
		if tr.To == lifecycle.Terminating {
			terminations++
		}
	}
	if terminations != 1 {
		t.Errorf("expected exactly one Terminating transition, got %d", terminations)
	}

	status, ok := a.Exit()
	if !ok || status != ExitSuccess {
		t.Errorf("expected successful exit, got %v (%v)", status, ok)
	}
	if n := strings.Count(buf.String(), "quitting"); n != 1 {
		t.Errorf("expected one shutdown notification, got %d", n)
	}
}

func TestQuitIgnoredWhileLoading(t *testing.T) {
	a := newTestApp(t, progress.EmptyNeverCompletes)
	a.PressKey("q")
	a.Tick()
	a.Tick()
	if _, ok := a.Exit(); ok {
		t.Error("quit must not fire while Loading")
	}
}

func TestOnEnterRunsBeforePhaseSystems(t *testing.T) {
	a := New()
	t.Cleanup(a.Close)
	var order []string

	a.AddSystem(System{
		Name:  "ready_system",
		Stage: StageFirst,
		RunIf: InPhase(lifecycle.Ready),
		Run:   func(*World) { order = append(order, "system") },
	})
	a.OnEnter(lifecycle.Ready, func(*World) { order = append(order, "enter") })

	a.World().Phase.Request(lifecycle.Ready)
	a.Tick()
	a.Tick()

	want := []string{"enter", "system", "system"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestRunnerStageOrder(t *testing.T) {
	r := NewRunner()
	var order []string
	add := func(name string, stage Stage) {
		r.Register(System{Name: name, Stage: stage, Run: func(*World) { order = append(order, name) }})
	}
	add("last", StageLast)
	add("update-a", StageUpdate)
	add("first", StageFirst)
	add("update-b", StageUpdate)
	add("pre", StagePreUpdate)

	r.Run(newWorld())

	want := "first,pre,update-a,update-b,last"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestInspectorToggle(t *testing.T) {
	a := newTestApp(t, progress.EmptyCompletes)
	a.Tick()
	if a.World().InspectorVisible {
		t.Fatal("inspector should start hidden")
	}

	a.PressKey("i")
	a.Tick()
	if !a.World().InspectorVisible {
		t.Error("expected inspector visible after pressing i")
	}

	in := a.Inspect()
	if in.Frame != 2 {
		t.Errorf("expected frame 2, got %d", in.Frame)
	}
	if len(in.Plugins) != 5 {
		t.Errorf("expected 5 plugins, got %v", in.Plugins)
	}
	if len(in.Systems) == 0 || in.Systems[0] != "First/frame_diagnostics" {
		t.Errorf("unexpected systems %v", in.Systems)
	}
}

func TestAssetLoadingPlugin(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{"a.txt": "alpha", "b.txt": "bravo"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	m := &assets.Manifest{
		BaseDir: dir,
		Assets: []assets.Entry{
			{Name: "a", Path: "a.txt"},
			{Name: "b", Path: "b.txt"},
			{Name: "gone", Path: "missing.txt"},
		},
	}

	a := newTestApp(t, progress.EmptyNeverCompletes, AssetLoadingPlugin{Manifest: m})
	tickUntil(t, a, func() bool { return a.World().Phase.IsActive(lifecycle.Ready) })

	snap := a.World().Progress.Snapshot()
	if snap.Done != 3 || snap.Total != 3 {
		t.Errorf("expected 3/3, got %s", snap)
	}
	loaded, failed := a.World().Assets.Counts()
	if loaded != 2 || failed != 1 {
		t.Errorf("expected 2 loaded 1 failed, got %d/%d", loaded, failed)
	}
}

func TestAssetHotReloadWhileReady(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("alpha"), 0644); err != nil {
		t.Fatal(err)
	}
	m := &assets.Manifest{BaseDir: dir, Assets: []assets.Entry{{Name: "a", Path: "a.txt"}}}

	logs := captureLogs(t)
	a := newTestApp(t, progress.EmptyNeverCompletes, AssetLoadingPlugin{Manifest: m, Watch: true})
	tickUntil(t, a, func() bool { return a.World().Phase.IsActive(lifecycle.Ready) })

	if got, _ := a.World().Assets.Get("a"); got.Reloads != 0 {
		t.Fatalf("expected no reloads after loading, got %d", got.Reloads)
	}

	// Unrelated files in the watched directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("alpha v2"), 0644); err != nil {
		t.Fatal(err)
	}

	tickUntil(t, a, func() bool {
		got, _ := a.World().Assets.Get("a")
		return got.Reloads > 0 && string(got.Data) == "alpha v2"
	})

	if _, ok := a.World().Assets.Get("notes"); ok {
		t.Error("files outside the manifest should not be loaded")
	}
	if !strings.Contains(logs.String(), "asset reloaded") {
		t.Errorf("expected reload to be logged, got %q", logs.String())
	}
	if !a.World().Phase.IsActive(lifecycle.Ready) {
		t.Errorf("reloads should not leave Ready, got %s", a.World().Phase.Current())
	}
}

func TestStatsPluginRecordsSession(t *testing.T) {
	store := stats.NewStoreWithPath(filepath.Join(t.TempDir(), "sessions.jsonl"))
	a := newTestApp(t, progress.EmptyCompletes, StatsPlugin{Store: store, Host: "test"})
	toReady(t, a)

	a.PressKey("q")
	a.Tick()
	a.Tick()

	got := store.Recent(10)
	if len(got) != 1 {
		t.Fatalf("expected 1 session, got %d", len(got))
	}
	if got[0].Host != "test" {
		t.Errorf("expected host test, got %q", got[0].Host)
	}
	// The session is recorded at the phase boundary, before that tick's frame.
	if want := a.World().Diagnostics.FrameCount() - 1; got[0].Frames != want {
		t.Errorf("expected %d frames, got %d", want, got[0].Frames)
	}
	if got[0].LoadFrames != 1 {
		t.Errorf("expected Loading to end after frame 1, got %d", got[0].LoadFrames)
	}
}

func TestTickTraceLogs(t *testing.T) {
	var buf bytes.Buffer
	log.Initialize(log.LevelTrace, &buf)
	t.Cleanup(func() { log.Initialize(log.LevelQuiet, os.Stderr) })

	a := newTestApp(t, progress.EmptyNeverCompletes)
	a.Tick()
	a.Tick()

	for _, want := range []string{"tick", "frame=1", "frame=2", "phase=Loading"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in trace output %q", want, buf.String())
		}
	}

	buf.Reset()
	log.Initialize(log.LevelDebug, &buf)
	a.Tick()
	if strings.Contains(buf.String(), "frame=") {
		t.Errorf("per-tick logs should need trace level, got %q", buf.String())
	}
}

func TestTickableInterface(t *testing.T) {
	var _ Tickable = New()
}
