// Package thumbnail keeps a cache of square wallpaper thumbnails in step with
// the wallpaper list.
package thumbnail

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"

	"github.com/1broseidon/walltile/internal/event"
	"github.com/1broseidon/walltile/internal/model"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Uploader converts a decoded thumbnail into whatever handle the renderer
// draws from. The loader stores the handle without inspecting it.
type Uploader interface {
	Upload(img *image.NRGBA) (any, error)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(img *image.NRGBA) (any, error)

func (f UploaderFunc) Upload(img *image.NRGBA) (any, error) { return f(img) }

// ImageUploader keeps the decoded image itself as the handle.
var ImageUploader Uploader = UploaderFunc(func(img *image.NRGBA) (any, error) { return img, nil })

// Entry is one cached thumbnail.
type Entry struct {
	Texture any
	// Original is the source size in pixels, or zero when decoding failed.
	Original image.Point
}

// Failed reports whether the entry holds a placeholder.
func (e Entry) Failed() bool { return e.Original == image.Point{} }

// Update is published after a reconciliation pass that changed the cache.
type Update struct {
	Loaded  []uuid.UUID
	Evicted []uuid.UUID
}

// Source supplies the current wallpaper list.
type Source interface {
	Wallpapers() ([]model.Wallpaper, uint64)
	Subscribe(fn func(model.Event)) *event.Subscription[model.Event]
}

// Options configures a Loader. Zero values pick defaults.
type Options struct {
	MaxSize         int
	PlaceholderSize int
	Workers         int
	Decoder         Decoder
	Uploader        Uploader
	Logger          *slog.Logger
}

// Loader reconciles the thumbnail cache against the wallpaper list.
//
// Passes are serialized: at most one runs at a time, and triggers that arrive
// while one is running coalesce into a single follow-up pass. Decoding within
// a pass runs in parallel; uploads and cache mutation happen on the pass
// goroutine.
type Loader struct {
	src  Source
	opts Options

	passMu sync.Mutex

	mu    sync.RWMutex
	cache map[uuid.UUID]Entry

	bus  *event.Bus[Update]
	sub  *event.Subscription[model.Event]
	wake chan struct{}
}

// NewLoader creates a Loader and subscribes it to src. Call Run to process
// triggers in the background, or Reconcile to run a pass directly.
func NewLoader(src Source, opts Options) *Loader {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.PlaceholderSize <= 0 {
		opts.PlaceholderSize = DefaultPlaceholderSize
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Decoder == nil {
		opts.Decoder = FileDecoder
	}
	if opts.Uploader == nil {
		opts.Uploader = ImageUploader
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	l := &Loader{
		src:   src,
		opts:  opts,
		cache: make(map[uuid.UUID]Entry),
		bus:   event.New[Update](),
		wake:  make(chan struct{}, 1),
	}
	l.sub = src.Subscribe(func(e model.Event) {
		if e == model.WallpapersUpdated {
			l.Trigger()
		}
	})
	return l
}

// Subscribe registers fn for cache updates.
func (l *Loader) Subscribe(fn func(Update)) *event.Subscription[Update] {
	return l.bus.Subscribe(fn)
}

// Trigger requests a reconciliation pass without blocking.
func (l *Loader) Trigger() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run performs an initial pass and then one pass per coalesced trigger until
// ctx is cancelled.
func (l *Loader) Run(ctx context.Context) error {
	l.Trigger()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
			if err := l.Reconcile(ctx); err != nil && !errors.Is(err, context.Canceled) {
				l.opts.Logger.Error("thumbnail reconciliation failed", "error", err)
			}
		}
	}
}

// Close detaches the loader from its source.
func (l *Loader) Close() {
	l.sub.Unsubscribe()
}

type loaded struct {
	id   uuid.UUID
	path string
	img  *image.NRGBA
	size image.Point
	err  error
}

// Reconcile runs one pass: load every wallpaper missing from the cache, then
// evict every entry whose wallpaper is gone. A file that fails to decode gets
// a placeholder; it never fails the pass.
func (l *Loader) Reconcile(ctx context.Context) error {
	l.passMu.Lock()
	defer l.passMu.Unlock()

	wallpapers, version := l.src.Wallpapers()
	active := make(map[uuid.UUID]struct{}, len(wallpapers))
	for _, w := range wallpapers {
		active[w.ID] = struct{}{}
	}

	var unmet []*loaded
	l.mu.RLock()
	for _, w := range wallpapers {
		if _, ok := l.cache[w.ID]; !ok {
			unmet = append(unmet, &loaded{id: w.ID, path: w.Path})
		}
	}
	l.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)
	for _, item := range unmet {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item.img, item.size, item.err = Make(l.opts.Decoder, item.path, l.opts.MaxSize)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var update Update
	fresh := make(map[uuid.UUID]Entry, len(unmet))
	for _, item := range unmet {
		img := item.img
		if item.err != nil {
			l.opts.Logger.Warn("thumbnail decode failed", "path", item.path, "error", item.err)
			img = Placeholder(l.opts.PlaceholderSize)
			item.size = image.Point{}
		}
		tex, err := l.opts.Uploader.Upload(img)
		if err != nil {
			l.opts.Logger.Warn("thumbnail upload failed", "path", item.path, "error", err)
			continue
		}
		fresh[item.id] = Entry{Texture: tex, Original: item.size}
		update.Loaded = append(update.Loaded, item.id)
	}

	l.mu.Lock()
	for id, e := range fresh {
		l.cache[id] = e
	}
	for id := range l.cache {
		if _, ok := active[id]; !ok {
			delete(l.cache, id)
			update.Evicted = append(update.Evicted, id)
		}
	}
	size := len(l.cache)
	l.mu.Unlock()

	if len(update.Loaded) == 0 && len(update.Evicted) == 0 {
		return nil
	}
	l.opts.Logger.Debug("thumbnail cache reconciled",
		"version", version,
		"loaded", len(update.Loaded),
		"evicted", len(update.Evicted),
		"size", size,
	)
	l.bus.Notify(update)
	return nil
}

// Get returns the cached entry for id.
func (l *Loader) Get(id uuid.UUID) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.cache[id]
	return e, ok
}

// Keys returns the identifiers currently cached, in no particular order.
func (l *Loader) Keys() []uuid.UUID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]uuid.UUID, 0, len(l.cache))
	for id := range l.cache {
		keys = append(keys, id)
	}
	return keys
}

// Len returns the number of cached entries.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}
