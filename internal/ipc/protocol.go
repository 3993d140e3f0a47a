package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/walltile/internal/layout"
	"github.com/1broseidon/walltile/internal/viewmodel"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload          CommandType = "RELOAD"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetMonitors     CommandType = "GET_MONITORS"
	CommandListWallpapers  CommandType = "LIST_WALLPAPERS"
	CommandAddWallpaper    CommandType = "ADD_WALLPAPER"
	CommandPickWallpaper   CommandType = "PICK_WALLPAPER"
	CommandUpdateWallpaper CommandType = "UPDATE_WALLPAPER"
	CommandApplyWallpaper  CommandType = "APPLY_WALLPAPER"
	CommandRefreshMonitors CommandType = "REFRESH_MONITORS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	MonitorCount   int    `json:"monitor_count"`
	WallpaperCount int    `json:"wallpaper_count"`
	ThumbnailCount int    `json:"thumbnail_count"`
	DefaultFitting string `json:"default_fitting"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	X       int                `json:"x"`
	Y       int                `json:"y"`
	Width   int                `json:"width"`
	Height  int                `json:"height"`
	Preview layout.PreviewRect `json:"preview"`
	// Wallpaper is the ID last applied to this monitor by the daemon, if any.
	Wallpaper string `json:"wallpaper,omitempty"`
}

// MonitorsData represents the data returned by GET_MONITORS and
// REFRESH_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
	Selected int           `json:"selected"`
}

// WallpaperInfo is one wallpaper list entry. Width and Height are zero until
// the image has been read.
type WallpaperInfo struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	Fitting   string `json:"fitting"`
	SizeKnown bool   `json:"size_known"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Size      string `json:"size"`
}

type WallpapersData struct {
	Wallpapers []WallpaperInfo `json:"wallpapers"`
}

type AddWallpaperPayload struct {
	Path    string `json:"path"`
	Fitting string `json:"fitting,omitempty"`
}

// PickData is returned by PICK_WALLPAPER. Picked is false when the dialog
// was dismissed.
type PickData struct {
	Picked    bool           `json:"picked"`
	Wallpaper *WallpaperInfo `json:"wallpaper,omitempty"`
}

// UpdateWallpaperPayload addresses a wallpaper by ID. Op is one of remove,
// up, down or fit; fit reads Fitting.
type UpdateWallpaperPayload struct {
	ID      string `json:"id"`
	Op      string `json:"op"`
	Fitting string `json:"fitting,omitempty"`
}

type ApplyWallpaperPayload struct {
	MonitorID   string `json:"monitor_id"`
	WallpaperID string `json:"wallpaper_id"`
}

func wallpaperInfo(v viewmodel.WallpaperView) WallpaperInfo {
	return WallpaperInfo{
		ID:        v.ID.String(),
		Path:      v.Path,
		Filename:  v.Filename,
		Fitting:   v.Fitting.String(),
		SizeKnown: v.SizeKnown,
		Width:     v.Size.X,
		Height:    v.Size.Y,
		Size:      v.SizeLabel(),
	}
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
