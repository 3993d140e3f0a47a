// Package app wires the wallpaper state, its projections and the platform
// collaborators together. Its methods are the action boundary used by the
// daemon, the IPC server and the terminal UI: collaborator failures are
// logged here and returned to the caller.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/1broseidon/walltile/internal/actionlog"
	"github.com/1broseidon/walltile/internal/config"
	"github.com/1broseidon/walltile/internal/model"
	"github.com/1broseidon/walltile/internal/picker"
	"github.com/1broseidon/walltile/internal/platform"
	"github.com/1broseidon/walltile/internal/thumbnail"
	"github.com/1broseidon/walltile/internal/viewmodel"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrNoMonitors       = errors.New("no monitors")
	ErrNoWallpapers     = errors.New("no wallpapers")
	ErrNoPicker         = errors.New("no file picker available")
)

// Options configures an App. Backend and Picker may be nil; the matching
// actions then fail.
type Options struct {
	Config   *config.Config
	Backend  platform.Backend
	Picker   picker.Picker
	Uploader thumbnail.Uploader
	Actions  *actionlog.Logger
	Logger   *slog.Logger
}

// App is the running wallpaper manager.
type App struct {
	state  *model.State
	loader *thumbnail.Loader
	pres   *viewmodel.Presentation

	backend platform.Backend
	picker  picker.Picker
	actions *actionlog.Logger
	logger  *slog.Logger

	mu          sync.Mutex
	cfg         *config.Config
	lastApplied map[string]uuid.UUID
}

// New builds the state, thumbnail loader and presentation.
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var setter model.WallpaperSetter
	if opts.Backend != nil {
		setter = opts.Backend
	}
	state := model.NewState(setter)
	loader := thumbnail.NewLoader(state, thumbnail.Options{
		MaxSize:         cfg.ThumbnailSize,
		PlaceholderSize: cfg.PlaceholderSize,
		Workers:         cfg.DecodeWorkers,
		Uploader:        opts.Uploader,
		Logger:          logger.With("component", "thumbnails"),
	})

	return &App{
		state:       state,
		loader:      loader,
		pres:        viewmodel.New(state, loader),
		backend:     opts.Backend,
		picker:      opts.Picker,
		actions:     opts.Actions,
		logger:      logger,
		cfg:         cfg,
		lastApplied: make(map[string]uuid.UUID),
	}
}

func (a *App) State() *model.State { return a.state }
func (a *App) Presentation() *viewmodel.Presentation { return a.pres }
func (a *App) Thumbnails() *thumbnail.Loader { return a.loader }

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// SetConfig swaps the configuration used by later actions. Thumbnail sizing
// is fixed at construction.
func (a *App) SetConfig(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
}

// SetPicker replaces the file picker.
func (a *App) SetPicker(p picker.Picker) {
	a.mu.Lock()
	a.picker = p
	a.mu.Unlock()
}

// Run starts the presentation and thumbnail workers and blocks until ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.pres.Run(gctx) })
	g.Go(func() error { return a.loader.Run(gctx) })
	return g.Wait()
}

// Close detaches the workers from the state.
func (a *App) Close() {
	a.pres.Close()
	a.loader.Close()
}

// RefreshMonitors asks the backend for the current monitors and replaces the
// monitor list with the result.
func (a *App) RefreshMonitors() error {
	if a.backend == nil {
		err := &platform.PlatformError{Op: "list monitors", Err: fmt.Errorf("no backend")}
		a.logger.Error("failed to list monitors", "error", err)
		return err
	}
	monitors, err := a.backend.Monitors()
	if err != nil {
		a.logger.Error("failed to list monitors", "error", err)
		return err
	}
	a.SetMonitors(monitors)
	return nil
}

// SetMonitors replaces the monitor list.
func (a *App) SetMonitors(monitors []model.Monitor) {
	a.state.SetMonitors(monitors)
	a.logger.Info("monitors updated", "count", len(monitors))
	a.actions.Log(actionlog.ActionMonitors, "", map[string]any{"count": len(monitors)})
}

// AddWallpaper appends the image at path. A nil fitting uses the configured
// default.
func (a *App) AddWallpaper(path string, fitting *model.Fitting) (model.Wallpaper, error) {
	cfg := a.Config()

	abs, err := filepath.Abs(path)
	if err != nil {
		return model.Wallpaper{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	if !cfg.HasImageExtension(abs) {
		return model.Wallpaper{}, fmt.Errorf("%s: %w", abs, ErrUnsupportedImage)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return model.Wallpaper{}, err
	}
	if info.IsDir() {
		return model.Wallpaper{}, fmt.Errorf("%s is a directory", abs)
	}

	f := cfg.DefaultFitting
	if fitting != nil {
		f = *fitting
	}
	w := model.NewWallpaper(abs, f)
	a.state.AddWallpaper(w)

	a.logger.Info("wallpaper added", "id", w.ID, "path", w.Path, "fitting", w.Fitting)
	a.actions.Log(actionlog.ActionAdd, w.Path, map[string]any{"id": w.ID.String(), "fitting": w.Fitting.String()})
	return w, nil
}

// PickWallpaper runs the file picker and adds the chosen file. ok is false
// when the user cancelled.
func (a *App) PickWallpaper(ctx context.Context) (w model.Wallpaper, ok bool, err error) {
	a.mu.Lock()
	p := a.picker
	exts := a.cfg.ImageExtensions
	a.mu.Unlock()
	if p == nil {
		return model.Wallpaper{}, false, ErrNoPicker
	}

	path, err := p.Pick(ctx, exts)
	if errors.Is(err, picker.ErrCancelled) {
		a.actions.Log(actionlog.ActionPick, "", map[string]any{"result": "cancelled"})
		return model.Wallpaper{}, false, nil
	}
	if err != nil {
		a.logger.Error("file picker failed", "error", err)
		return model.Wallpaper{}, false, err
	}

	w, err = a.AddWallpaper(path, nil)
	if err != nil {
		return model.Wallpaper{}, false, err
	}
	return w, true, nil
}

// UpdateWallpaper applies op to the wallpaper with the given id.
func (a *App) UpdateWallpaper(id uuid.UUID, op model.Operation) error {
	w, _ := a.state.Wallpaper(id)
	if err := a.state.UpdateWallpaperByID(id, op); err != nil {
		return err
	}

	details := map[string]any{"id": id.String()}
	var action actionlog.Action
	switch op.Kind {
	case model.OpRemove:
		action = actionlog.ActionRemove
		a.forget(id)
	case model.OpMoveUp:
		action = actionlog.ActionMoveUp
	case model.OpMoveDown:
		action = actionlog.ActionMoveDown
	case model.OpSetFitting:
		action = actionlog.ActionSetFitting
		details["fitting"] = op.Fitting.String()
	}
	a.logger.Info("wallpaper updated", "id", id, "op", op.String())
	a.actions.Log(action, w.Path, details)
	return nil
}

// ApplyWallpaper sets a wallpaper on a monitor.
func (a *App) ApplyWallpaper(monitorID string, id uuid.UUID) error {
	w, _ := a.state.Wallpaper(id)
	if err := a.state.ApplyWallpaperByID(monitorID, id); err != nil {
		a.logger.Error("failed to apply wallpaper", "monitor", monitorID, "id", id, "error", err)
		a.actions.Log(actionlog.ActionApplyFail, w.Path, map[string]any{"monitor": monitorID, "error": err})
		return err
	}

	a.mu.Lock()
	a.lastApplied[monitorID] = id
	a.mu.Unlock()

	a.logger.Info("wallpaper applied", "monitor", monitorID, "path", w.Path, "fitting", w.Fitting)
	a.actions.Log(actionlog.ActionApply, w.Path, map[string]any{"monitor": monitorID, "fitting": w.Fitting.String()})
	return nil
}

// CycleMonitor applies the wallpaper after the one last applied to
// monitorID, wrapping at the end of the list.
func (a *App) CycleMonitor(monitorID string) (model.Wallpaper, error) {
	wallpapers, _ := a.state.Wallpapers()
	if len(wallpapers) == 0 {
		return model.Wallpaper{}, ErrNoWallpapers
	}

	a.mu.Lock()
	last, ok := a.lastApplied[monitorID]
	a.mu.Unlock()

	next := 0
	if ok {
		for i, w := range wallpapers {
			if w.ID == last {
				next = (i + 1) % len(wallpapers)
				break
			}
		}
	}

	w := wallpapers[next]
	if err := a.ApplyWallpaper(monitorID, w.ID); err != nil {
		return model.Wallpaper{}, err
	}
	return w, nil
}

// CycleUnderPointer cycles the monitor the pointer is on.
func (a *App) CycleUnderPointer() (model.Wallpaper, error) {
	if a.backend == nil {
		return model.Wallpaper{}, ErrNoMonitors
	}
	monitorID, err := a.backend.MonitorUnderPointer()
	if err != nil {
		return model.Wallpaper{}, err
	}
	return a.CycleMonitor(monitorID)
}

// LastApplied returns the wallpaper last applied to each monitor.
func (a *App) LastApplied() map[string]uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]uuid.UUID, len(a.lastApplied))
	for k, v := range a.lastApplied {
		out[k] = v
	}
	return out
}

func (a *App) forget(id uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for mon, applied := range a.lastApplied {
		if applied == id {
			delete(a.lastApplied, mon)
		}
	}
}
