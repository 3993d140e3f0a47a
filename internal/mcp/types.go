package mcp

import "github.com/1broseidon/walltile/internal/ipc"

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorsOutput is the output for list_monitors and refresh_monitors.
type MonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
	Selected int               `json:"selected"`
}

// ListWallpapersInput is the input for the list_wallpapers tool.
type ListWallpapersInput struct{}

// ListWallpapersOutput is the output for the list_wallpapers tool.
type ListWallpapersOutput struct {
	Wallpapers []ipc.WallpaperInfo `json:"wallpapers"`
}

// AddWallpaperInput is the input for the add_wallpaper tool.
type AddWallpaperInput struct {
	Path    string `json:"path" jsonschema:"required,Absolute path of the image file to add"`
	Fitting string `json:"fitting,omitempty" jsonschema:"How the image fills a monitor: center, tile, stretch, contain or cover (default: configured default_fitting)"`
}

// UpdateWallpaperInput is the input for the update_wallpaper tool.
type UpdateWallpaperInput struct {
	Wallpaper string `json:"wallpaper" jsonschema:"required,Wallpaper ID, unique ID prefix, 0-based list index or filename"`
	Op        string `json:"op" jsonschema:"required,One of remove, up, down, fit"`
	Fitting   string `json:"fitting,omitempty" jsonschema:"New fitting when op is fit"`
}

// UpdateWallpaperOutput is the output for the update_wallpaper tool.
type UpdateWallpaperOutput struct {
	Wallpapers []ipc.WallpaperInfo `json:"wallpapers"`
}

// ApplyWallpaperInput is the input for the apply_wallpaper tool.
type ApplyWallpaperInput struct {
	Monitor   string `json:"monitor" jsonschema:"required,Monitor ID, output name or 0-based index"`
	Wallpaper string `json:"wallpaper" jsonschema:"required,Wallpaper ID, unique ID prefix, 0-based list index or filename"`
}

// ApplyWallpaperOutput is the output for the apply_wallpaper tool.
type ApplyWallpaperOutput struct {
	Monitor   string `json:"monitor"`
	Wallpaper string `json:"wallpaper"`
	Path      string `json:"path"`
	Fitting   string `json:"fitting"`
}

// RefreshMonitorsInput is the input for the refresh_monitors tool.
type RefreshMonitorsInput struct{}
