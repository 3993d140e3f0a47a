// Package viewmodel derives display-ready records from the model: monitor
// preview rectangles with a selection, and a wallpaper list whose sizes fill
// in as thumbnails load.
package viewmodel

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/1broseidon/walltile/internal/event"
	"github.com/1broseidon/walltile/internal/layout"
	"github.com/1broseidon/walltile/internal/model"
	"github.com/1broseidon/walltile/internal/thumbnail"
	"github.com/google/uuid"
)

// NoSelection marks that no monitor is selected.
const NoSelection = -1

// MonitorView is a monitor plus its preview rectangle.
type MonitorView struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	X       int                `json:"x"`
	Y       int                `json:"y"`
	Width   int                `json:"width"`
	Height  int                `json:"height"`
	Preview layout.PreviewRect `json:"preview"`
}

// WallpaperView is a wallpaper as the list displays it.
type WallpaperView struct {
	ID       uuid.UUID     `json:"id"`
	Path     string        `json:"path"`
	Filename string        `json:"filename"`
	Fitting  model.Fitting `json:"fitting"`
	// SizeKnown is false until the thumbnail for this wallpaper has loaded.
	SizeKnown bool        `json:"size_known"`
	Size      image.Point `json:"size"`
}

// SizeLabel renders the original image size for display.
func (w WallpaperView) SizeLabel() string {
	switch {
	case !w.SizeKnown:
		return "Unknown"
	case w.Size == image.Point{}:
		return "Unreadable"
	default:
		return fmt.Sprintf("%dx%d", w.Size.X, w.Size.Y)
	}
}

// Snapshot is an immutable copy of the presentation state.
type Snapshot struct {
	Monitors          []MonitorView   `json:"monitors"`
	Selected          int             `json:"selected"`
	Wallpapers        []WallpaperView `json:"wallpapers"`
	MonitorsVersion   uint64          `json:"monitors_version"`
	WallpapersVersion uint64          `json:"wallpapers_version"`
}

// SelectedMonitor returns the selected monitor, if any.
func (s Snapshot) SelectedMonitor() (MonitorView, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Monitors) {
		return MonitorView{}, false
	}
	return s.Monitors[s.Selected], true
}

// Change identifies what part of the presentation was recomputed.
type Change int

const (
	MonitorsChanged Change = iota
	WallpapersChanged
	SelectionChanged
	ThumbnailsChanged
)

func (c Change) String() string {
	switch c {
	case MonitorsChanged:
		return "monitors"
	case WallpapersChanged:
		return "wallpapers"
	case SelectionChanged:
		return "selection"
	case ThumbnailsChanged:
		return "thumbnails"
	default:
		return fmt.Sprintf("change(%d)", int(c))
	}
}

// ThumbnailSource is the thumbnail cache as seen by the presentation.
type ThumbnailSource interface {
	Get(id uuid.UUID) (thumbnail.Entry, bool)
	Subscribe(fn func(thumbnail.Update)) *event.Subscription[thumbnail.Update]
}

// Presentation caches the projections and republishes changes.
//
// Model events are handed to the Run goroutine through coalescing signals;
// bus callbacks never recompute inline. Each recompute records the model
// version it was built from and is dropped if a newer one already landed.
type Presentation struct {
	state  *model.State
	thumbs ThumbnailSource

	mu                sync.RWMutex
	monitors          []MonitorView
	selected          int
	wallpapers        []WallpaperView
	monitorsVersion   uint64
	wallpapersVersion uint64

	bus      *event.Bus[Change]
	stateSub *event.Subscription[model.Event]
	thumbSub *event.Subscription[thumbnail.Update]

	monitorsDirty   chan struct{}
	wallpapersDirty chan struct{}
	thumbsDirty     chan struct{}
}

// New builds a Presentation over state. thumbs may be nil.
func New(state *model.State, thumbs ThumbnailSource) *Presentation {
	p := &Presentation{
		state:           state,
		thumbs:          thumbs,
		selected:        NoSelection,
		bus:             event.New[Change](),
		monitorsDirty:   make(chan struct{}, 1),
		wallpapersDirty: make(chan struct{}, 1),
		thumbsDirty:     make(chan struct{}, 1),
	}
	p.stateSub = state.Subscribe(func(e model.Event) {
		switch e {
		case model.MonitorsUpdated:
			signal(p.monitorsDirty)
		case model.WallpapersUpdated:
			signal(p.wallpapersDirty)
		}
	})
	if thumbs != nil {
		p.thumbSub = thumbs.Subscribe(func(thumbnail.Update) {
			signal(p.thumbsDirty)
		})
	}
	return p
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Subscribe registers fn for presentation changes.
func (p *Presentation) Subscribe(fn func(Change)) *event.Subscription[Change] {
	return p.bus.Subscribe(fn)
}

// Close detaches the presentation from its sources.
func (p *Presentation) Close() {
	p.stateSub.Unsubscribe()
	p.thumbSub.Unsubscribe()
}

// Run recomputes projections as model events arrive until ctx is cancelled.
// Both projections are computed once on start.
func (p *Presentation) Run(ctx context.Context) error {
	p.RefreshMonitors()
	p.RefreshWallpapers()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.monitorsDirty:
			p.RefreshMonitors()
		case <-p.wallpapersDirty:
			p.RefreshWallpapers()
		case <-p.thumbsDirty:
			p.RefreshThumbnails()
		}
	}
}

// Sync recomputes any projection older than the state, on the caller's
// goroutine. Readers outside the Run loop use it to see their own writes.
func (p *Presentation) Sync() {
	_, mv := p.state.Monitors()
	_, wv := p.state.Wallpapers()

	p.mu.RLock()
	staleMonitors := mv > p.monitorsVersion
	staleWallpapers := wv > p.wallpapersVersion
	p.mu.RUnlock()

	if staleMonitors {
		p.RefreshMonitors()
	}
	if staleWallpapers {
		p.RefreshWallpapers()
	} else {
		p.RefreshThumbnails()
	}
}

// RefreshMonitors recomputes the monitor previews and resets the selection to
// the first monitor, or to NoSelection when there are none. A version that was
// already applied is skipped, so each MonitorsUpdated resets the selection
// once.
func (p *Presentation) RefreshMonitors() {
	monitors, version := p.state.Monitors()

	rects := make([]layout.Rect, len(monitors))
	for i, m := range monitors {
		rects[i] = m.Rect()
	}
	previews := layout.Normalize(rects)

	views := make([]MonitorView, len(monitors))
	for i, m := range monitors {
		views[i] = MonitorView{
			ID:      m.ID,
			Name:    m.Name,
			X:       m.X,
			Y:       m.Y,
			Width:   m.Width,
			Height:  m.Height,
			Preview: previews[i],
		}
	}

	p.mu.Lock()
	if version <= p.monitorsVersion {
		p.mu.Unlock()
		return
	}
	p.monitors = views
	p.monitorsVersion = version
	if len(views) > 0 {
		p.selected = 0
	} else {
		p.selected = NoSelection
	}
	p.mu.Unlock()

	p.bus.Notify(MonitorsChanged)
}

// RefreshWallpapers rebuilds the wallpaper records.
func (p *Presentation) RefreshWallpapers() {
	wallpapers, version := p.state.Wallpapers()

	views := make([]WallpaperView, len(wallpapers))
	for i, w := range wallpapers {
		views[i] = WallpaperView{
			ID:       w.ID,
			Path:     w.Path,
			Filename: w.Filename(),
			Fitting:  w.Fitting,
		}
		p.fillSize(&views[i])
	}

	p.mu.Lock()
	if version <= p.wallpapersVersion {
		p.mu.Unlock()
		return
	}
	p.wallpapers = views
	p.wallpapersVersion = version
	p.mu.Unlock()

	p.bus.Notify(WallpapersChanged)
}

// RefreshThumbnails fills in sizes for wallpapers whose thumbnails have
// loaded since the last rebuild.
func (p *Presentation) RefreshThumbnails() {
	if p.thumbs == nil {
		return
	}
	changed := false
	p.mu.Lock()
	for i := range p.wallpapers {
		if p.wallpapers[i].SizeKnown {
			continue
		}
		if p.fillSize(&p.wallpapers[i]) {
			changed = true
		}
	}
	p.mu.Unlock()

	if changed {
		p.bus.Notify(ThumbnailsChanged)
	}
}

func (p *Presentation) fillSize(v *WallpaperView) bool {
	if p.thumbs == nil {
		return false
	}
	entry, ok := p.thumbs.Get(v.ID)
	if !ok {
		return false
	}
	v.SizeKnown = true
	v.Size = entry.Original
	return true
}

// Select makes the monitor at index the selected one.
func (p *Presentation) Select(index int) error {
	p.mu.Lock()
	if index < 0 || index >= len(p.monitors) {
		n := len(p.monitors)
		p.mu.Unlock()
		return fmt.Errorf("monitor %d of %d: %w", index, n, model.ErrIndexOutOfRange)
	}
	p.selected = index
	p.mu.Unlock()

	p.bus.Notify(SelectionChanged)
	return nil
}

// SelectNext moves the selection by delta, wrapping around. It does nothing
// when there are no monitors.
func (p *Presentation) SelectNext(delta int) {
	p.mu.Lock()
	n := len(p.monitors)
	if n == 0 {
		p.mu.Unlock()
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
	p.mu.Unlock()

	p.bus.Notify(SelectionChanged)
}

// Snapshot returns a copy of the current projections.
func (p *Presentation) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		Monitors:          append([]MonitorView(nil), p.monitors...),
		Selected:          p.selected,
		Wallpapers:        append([]WallpaperView(nil), p.wallpapers...),
		MonitorsVersion:   p.monitorsVersion,
		WallpapersVersion: p.wallpapersVersion,
	}
}

// Thumbnail returns the cached thumbnail for a wallpaper.
func (p *Presentation) Thumbnail(id uuid.UUID) (thumbnail.Entry, bool) {
	if p.thumbs == nil {
		return thumbnail.Entry{}, false
	}
	return p.thumbs.Get(id)
}
