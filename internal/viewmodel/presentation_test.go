package viewmodel

import (
	"context"
	"image"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/walltile/internal/event"
	"github.com/1broseidon/walltile/internal/model"
	"github.com/1broseidon/walltile/internal/thumbnail"
	"github.com/google/uuid"
)

type fakeThumbs struct {
	mu      sync.Mutex
	entries map[uuid.UUID]thumbnail.Entry
	bus     *event.Bus[thumbnail.Update]
}

func newFakeThumbs() *fakeThumbs {
	return &fakeThumbs{entries: map[uuid.UUID]thumbnail.Entry{}, bus: event.New[thumbnail.Update]()}
}

func (f *fakeThumbs) Get(id uuid.UUID) (thumbnail.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	return e, ok
}

func (f *fakeThumbs) Subscribe(fn func(thumbnail.Update)) *event.Subscription[thumbnail.Update] {
	return f.bus.Subscribe(fn)
}

func (f *fakeThumbs) load(id uuid.UUID, size image.Point) {
	f.mu.Lock()
	f.entries[id] = thumbnail.Entry{Original: size}
	f.mu.Unlock()
	f.bus.Notify(thumbnail.Update{Loaded: []uuid.UUID{id}})
}

var twoMonitors = []model.Monitor{
	{ID: "DP-1", Name: "DP-1", X: 0, Y: 0, Width: 1920, Height: 1080},
	{ID: "HDMI-1", Name: "HDMI-1", X: 1920, Y: 0, Width: 1280, Height: 1024},
}

func TestRefreshMonitorsComputesPreviewAndSelection(t *testing.T) {
	state := model.NewState(nil)
	p := New(state, nil)
	defer p.Close()

	if got := p.Snapshot().Selected; got != NoSelection {
		t.Fatalf("initial selection = %d, want NoSelection", got)
	}

	state.SetMonitors(twoMonitors)
	p.RefreshMonitors()

	snap := p.Snapshot()
	if len(snap.Monitors) != 2 {
		t.Fatalf("monitors = %d, want 2", len(snap.Monitors))
	}
	if snap.Selected != 0 {
		t.Fatalf("selection = %d, want 0", snap.Selected)
	}
	first := snap.Monitors[0].Preview
	if math.Abs(first.Top-0.33125) > 1e-9 || math.Abs(first.Right-0.6) > 1e-9 {
		t.Fatalf("first preview = %+v", first)
	}

	if err := p.Select(1); err != nil {
		t.Fatal(err)
	}
	state.SetMonitors(twoMonitors)
	p.RefreshMonitors()
	if got := p.Snapshot().Selected; got != 0 {
		t.Fatalf("selection after replace = %d, want 0", got)
	}

	state.SetMonitors(nil)
	p.RefreshMonitors()
	snap = p.Snapshot()
	if snap.Selected != NoSelection || len(snap.Monitors) != 0 {
		t.Fatalf("after clearing: selected=%d monitors=%d", snap.Selected, len(snap.Monitors))
	}
	if _, ok := snap.SelectedMonitor(); ok {
		t.Fatalf("SelectedMonitor reported a monitor with none present")
	}
}

func TestSelectBounds(t *testing.T) {
	state := model.NewState(nil)
	p := New(state, nil)
	defer p.Close()

	if err := p.Select(0); err == nil {
		t.Fatalf("Select with no monitors should fail")
	}
	p.SelectNext(1)
	if got := p.Snapshot().Selected; got != NoSelection {
		t.Fatalf("SelectNext changed empty selection to %d", got)
	}

	state.SetMonitors(twoMonitors)
	p.RefreshMonitors()
	p.SelectNext(-1)
	if got := p.Snapshot().Selected; got != 1 {
		t.Fatalf("SelectNext(-1) from 0 = %d, want 1", got)
	}
	p.SelectNext(1)
	if got := p.Snapshot().Selected; got != 0 {
		t.Fatalf("SelectNext(1) from 1 = %d, want 0", got)
	}
}

func TestWallpaperViewsAndSizes(t *testing.T) {
	state := model.NewState(nil)
	thumbs := newFakeThumbs()
	p := New(state, thumbs)
	defer p.Close()

	w := model.NewWallpaper("/home/u/Pictures/forest.png", model.FittingContain)
	state.AddWallpaper(w)
	p.RefreshWallpapers()

	snap := p.Snapshot()
	if len(snap.Wallpapers) != 1 {
		t.Fatalf("wallpapers = %d", len(snap.Wallpapers))
	}
	v := snap.Wallpapers[0]
	if v.Filename != "forest.png" || v.Fitting != model.FittingContain || v.ID != w.ID {
		t.Fatalf("view = %+v", v)
	}
	if v.SizeLabel() != "Unknown" {
		t.Fatalf("size label = %q, want Unknown", v.SizeLabel())
	}

	thumbs.load(w.ID, image.Point{X: 3840, Y: 2160})
	p.RefreshThumbnails()
	if got := p.Snapshot().Wallpapers[0].SizeLabel(); got != "3840x2160" {
		t.Fatalf("size label = %q", got)
	}

	p.RefreshWallpapers()
	if got := p.Snapshot().Wallpapers[0].SizeLabel(); got != "3840x2160" {
		t.Fatalf("size lost on rebuild: %q", got)
	}
}

func TestEmptyWallpapersWithMonitors(t *testing.T) {
	state := model.NewState(nil)
	p := New(state, nil)
	defer p.Close()

	state.SetMonitors(twoMonitors)
	state.AddWallpaper(model.NewWallpaper("a.png", model.FittingCover))
	p.RefreshMonitors()
	p.RefreshWallpapers()

	if err := state.UpdateWallpaper(0, model.Remove()); err != nil {
		t.Fatal(err)
	}
	p.RefreshWallpapers()

	snap := p.Snapshot()
	if snap.Selected != 0 {
		t.Fatalf("selection = %d, want 0", snap.Selected)
	}
	if len(snap.Wallpapers) != 0 {
		t.Fatalf("wallpapers = %d, want 0", len(snap.Wallpapers))
	}
}

func TestStaleRecomputeIsDropped(t *testing.T) {
	state := model.NewState(nil)
	p := New(state, nil)
	defer p.Close()

	state.AddWallpaper(model.NewWallpaper("a.png", model.FittingCover))
	state.AddWallpaper(model.NewWallpaper("b.png", model.FittingCover))
	p.RefreshWallpapers()

	// Simulate a recompute that raced ahead of an older one.
	p.mu.Lock()
	p.wallpapersVersion = 99
	p.mu.Unlock()

	state.AddWallpaper(model.NewWallpaper("c.png", model.FittingCover))
	p.RefreshWallpapers()
	if got := len(p.Snapshot().Wallpapers); got != 2 {
		t.Fatalf("stale recompute applied: %d wallpapers", got)
	}
}

func TestRunHandsOffModelEvents(t *testing.T) {
	state := model.NewState(nil)
	thumbs := newFakeThumbs()
	p := New(state, thumbs)
	defer p.Close()

	changes := make(chan Change, 16)
	sub := p.Subscribe(func(c Change) { changes <- c })
	defer sub.Unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()

	w := model.NewWallpaper("a.png", model.FittingCover)
	state.SetMonitors(twoMonitors)
	state.AddWallpaper(w)
	thumbs.load(w.ID, image.Point{X: 10, Y: 20})

	deadline := time.After(5 * time.Second)
	for {
		snap := p.Snapshot()
		if len(snap.Monitors) == 2 && len(snap.Wallpapers) == 1 && snap.Wallpapers[0].SizeKnown {
			break
		}
		select {
		case <-changes:
		case <-deadline:
			t.Fatalf("presentation never caught up: %+v", snap)
		}
	}

	cancel()
	<-done
}

func TestSyncCatchesUpWithoutRun(t *testing.T) {
	state := model.NewState(nil)
	thumbs := newFakeThumbs()
	p := New(state, thumbs)
	defer p.Close()

	state.SetMonitors(twoMonitors)
	w := model.NewWallpaper("/walls/a.png", model.FittingCover)
	state.AddWallpaper(w)

	p.Sync()
	snap := p.Snapshot()
	if len(snap.Monitors) != 2 || len(snap.Wallpapers) != 1 || snap.Selected != 0 {
		t.Fatalf("snapshot after Sync = %+v", snap)
	}

	if err := p.Select(1); err != nil {
		t.Fatal(err)
	}
	thumbs.load(w.ID, image.Pt(800, 600))
	p.Sync()
	snap = p.Snapshot()
	if snap.Selected != 1 {
		t.Fatalf("Sync with current monitors reset selection to %d", snap.Selected)
	}
	if got := snap.Wallpapers[0].SizeLabel(); got != "800x600" {
		t.Fatalf("size = %q, want 800x600", got)
	}
}

func TestRunKeepsSelectionAfterSync(t *testing.T) {
	state := model.NewState(nil)
	p := New(state, nil)
	defer p.Close()

	state.SetMonitors(twoMonitors)
	p.Sync()
	if err := p.Select(1); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := p.Snapshot().Selected; got != 1 {
		t.Fatalf("selection after Run = %d, want 1", got)
	}

	state.SetMonitors(twoMonitors)
	p.Sync()
	if got := p.Snapshot().Selected; got != 0 {
		t.Fatalf("selection after new monitor list = %d, want 0", got)
	}
}
