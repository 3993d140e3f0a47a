//go:build linux

package platform

import (
	"fmt"
	"image"
	"sync"

	"github.com/1broseidon/walltile/internal/compose"
	"github.com/1broseidon/walltile/internal/model"
	"github.com/1broseidon/walltile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/disintegration/imaging"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
//
// The root window shows one image spanning every monitor. The backend keeps
// that image between calls so that setting one monitor preserves the others.
type LinuxBackend struct {
	conn *x11.Connection

	mu     sync.Mutex
	canvas *image.NRGBA
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection to display.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, &PlatformError{Op: "connect", Err: err}
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// QuitEventLoop stops EventLoop.
func (b *LinuxBackend) QuitEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Monitors returns all active monitors.
func (b *LinuxBackend) Monitors() ([]model.Monitor, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, wrap("list monitors", err)
	}
	out := make([]model.Monitor, len(monitors))
	for i, m := range monitors {
		out[i] = monitorFromX11(m)
	}
	return out, nil
}

// MonitorUnderPointer returns the output name of the monitor under the pointer.
func (b *LinuxBackend) MonitorUnderPointer() (string, error) {
	conn, err := b.connection()
	if err != nil {
		return "", err
	}
	mon, err := conn.MonitorUnderPointer()
	if err != nil {
		return "", wrap("locate pointer", err)
	}
	return mon.Output, nil
}

// SetWallpaper decodes path, fits it to the monitor and repaints the root.
func (b *LinuxBackend) SetWallpaper(monitorID, path string, fitting model.Fitting) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	monitors, err := conn.GetMonitors()
	if err != nil {
		return wrap("set wallpaper", err)
	}
	var target *x11.Monitor
	for i := range monitors {
		if monitors[i].Output == monitorID {
			target = &monitors[i]
			break
		}
	}
	if target == nil {
		return wrap("set wallpaper", fmt.Errorf("monitor %q not connected", monitorID))
	}

	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return wrap("set wallpaper", fmt.Errorf("open %s: %w", path, err))
	}
	fitted := compose.Render(src, target.Width, target.Height, fitting)

	b.mu.Lock()
	defer b.mu.Unlock()

	canvas := b.rootCanvas(conn)
	b.canvas = imaging.Paste(canvas, fitted, image.Pt(target.X, target.Y))
	if err := conn.PaintRoot(b.canvas); err != nil {
		return wrap("set wallpaper", err)
	}
	return nil
}

// rootCanvas returns the image currently on the root, reusing the last one
// painted when the root size is unchanged.
func (b *LinuxBackend) rootCanvas(conn *x11.Connection) *image.NRGBA {
	w, h := conn.RootSize()
	if b.canvas != nil && b.canvas.Bounds().Dx() == w && b.canvas.Bounds().Dy() == h {
		return b.canvas
	}
	if current, err := conn.CurrentBackground(); err == nil {
		return imaging.Clone(current)
	}
	return imaging.New(w, h, compose.Background)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, &PlatformError{Op: "connect", Err: fmt.Errorf("linux backend is not connected")}
	}
	return b.conn, nil
}

func monitorFromX11(m x11.Monitor) model.Monitor {
	return model.Monitor{
		ID:     m.Output,
		Name:   m.Output,
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
}
