package x11

import (
	"fmt"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ActiveWindowCenter returns the center of the focused window in root
// coordinates, as reported by _NET_ACTIVE_WINDOW.
func (c *Connection) ActiveWindowCenter() (int, int, error) {
	active, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, 0, fmt.Errorf("active window: %w", err)
	}
	if active == 0 {
		return 0, 0, fmt.Errorf("no active window")
	}

	geom, err := xwindow.New(c.XUtil, active).DecorGeometry()
	if err != nil {
		return 0, 0, fmt.Errorf("active window geometry: %w", err)
	}
	return geom.X() + geom.Width()/2, geom.Y() + geom.Height()/2, nil
}
