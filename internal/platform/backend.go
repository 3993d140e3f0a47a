package platform

import (
	"fmt"

	"github.com/1broseidon/walltile/internal/model"
)

// Backend abstracts the window-system operations the wallpaper core needs.
type Backend interface {
	// Monitors lists the connected monitors in platform order.
	Monitors() ([]model.Monitor, error)
	// SetWallpaper renders the image at path onto one monitor.
	SetWallpaper(monitorID, path string, fitting model.Fitting) error
	// MonitorUnderPointer returns the identifier of the monitor the pointer is on.
	MonitorUnderPointer() (string, error)
}

// PlatformError wraps a failure from the window system.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform %s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PlatformError{Op: op, Err: err}
}
