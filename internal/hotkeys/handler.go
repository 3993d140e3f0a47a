// Package hotkeys binds global X11 key sequences to wallpaper actions.
package hotkeys

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/walltile/internal/model"
	"github.com/1broseidon/walltile/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Cycler advances the wallpaper on the monitor under the pointer.
type Cycler interface {
	CycleUnderPointer() (model.Wallpaper, error)
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	cycler Cycler
	logger *slog.Logger

	// cycles run off the X event loop; a press while one is running is dropped.
	busy sync.Mutex
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. It returns nil when backend has
// no X11 connection.
func NewHandler(backend platform.Backend, cycler Cycler, logger *slog.Logger) *Handler {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		cycler: cycler,
		logger: logger,
	}
}

// RegisterCycle binds keySequence to cycling the wallpaper on the monitor
// under the pointer. An empty sequence disables the hotkey.
func (h *Handler) RegisterCycle(keySequence string) error {
	if keySequence == "" {
		return nil
	}
	return h.RegisterFunc(keySequence, func() {
		if !h.busy.TryLock() {
			h.logger.Debug("cycle hotkey ignored, previous cycle still running")
			return
		}
		go func() {
			defer h.busy.Unlock()
			w, err := h.cycler.CycleUnderPointer()
			if err != nil {
				h.logger.Error("cycle hotkey failed", "error", err)
				return
			}
			h.logger.Info("cycle hotkey applied", "wallpaper", w.Filename())
		}()
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
