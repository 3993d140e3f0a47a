package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/walltile/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the daemon listening on socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request, timeout time.Duration) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with an optional payload and decodes the response data
// into out when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	return c.callTimeout(command, payload, out, c.timeout)
}

func (c *Client) callTimeout(command CommandType, payload any, out any, timeout time.Duration) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req, timeout)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.call(CommandGetMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// RefreshMonitors asks the daemon to re-query the window system.
func (c *Client) RefreshMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.call(CommandRefreshMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// ListWallpapers retrieves the wallpaper list in order.
func (c *Client) ListWallpapers() (*WallpapersData, error) {
	var data WallpapersData
	if err := c.call(CommandListWallpapers, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// AddWallpaper adds the image at path. An empty fitting uses the daemon's
// default.
func (c *Client) AddWallpaper(path, fitting string) (*WallpaperInfo, error) {
	var info WallpaperInfo
	if err := c.call(CommandAddWallpaper, AddWallpaperPayload{Path: path, Fitting: fitting}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// PickWallpaper opens the daemon's file picker. It waits as long as the
// dialog stays open.
func (c *Client) PickWallpaper() (*PickData, error) {
	var data PickData
	if err := c.callTimeout(CommandPickWallpaper, nil, &data, pickTimeout); err != nil {
		return nil, err
	}
	return &data, nil
}

// UpdateWallpaper applies op (remove, up, down, fit) to a wallpaper.
func (c *Client) UpdateWallpaper(id, op, fitting string) error {
	return c.call(CommandUpdateWallpaper, UpdateWallpaperPayload{ID: id, Op: op, Fitting: fitting}, nil)
}

// ApplyWallpaper sets a wallpaper on a monitor.
func (c *Client) ApplyWallpaper(monitorID, wallpaperID string) error {
	return c.call(CommandApplyWallpaper, ApplyWallpaperPayload{MonitorID: monitorID, WallpaperID: wallpaperID}, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
