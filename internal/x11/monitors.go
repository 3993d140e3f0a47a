package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor is one enabled RandR CRTC, named after its first output.
type Monitor struct {
	Output  string
	X       int
	Y       int
	Width   int
	Height  int
	Primary bool
}

// Contains reports whether the root coordinate (x, y) is on m.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// GetMonitors lists enabled CRTCs in RandR order.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		mon := Monitor{
			Output:  fmt.Sprintf("Monitor%d", i),
			X:       int(info.X),
			Y:       int(info.Y),
			Width:   int(info.Width),
			Height:  int(info.Height),
			Primary: primary != 0 && slices.Contains(info.Outputs, primary),
		}
		out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil && len(out.Name) > 0 {
			mon.Output = string(out.Name)
		}
		monitors = append(monitors, mon)
	}

	return monitors, nil
}

// PointerPosition returns the pointer location in root coordinates.
func (c *Connection) PointerPosition() (int, int, error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer: %w", err)
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}

// MonitorUnderPointer returns the monitor the pointer is on. When the
// pointer cannot be queried the monitor holding the focused window is used,
// then the primary monitor, then the first.
func (c *Connection) MonitorUnderPointer() (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	x, y, err := c.PointerPosition()
	if err != nil {
		x, y, err = c.ActiveWindowCenter()
	}
	if err == nil {
		if mon, ok := findMonitorAt(monitors, x, y); ok {
			return mon, nil
		}
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}
	return fallbackMonitor(monitors), nil
}

func fallbackMonitor(monitors []Monitor) Monitor {
	for _, mon := range monitors {
		if mon.Primary {
			return mon
		}
	}
	return monitors[0]
}

func findMonitorAt(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, mon := range monitors {
		if mon.Contains(x, y) {
			return mon, true
		}
	}
	return Monitor{}, false
}
