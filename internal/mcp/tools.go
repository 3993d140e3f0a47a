package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/walltile/internal/ipc"
)

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, MonitorsOutput, error) {
	data, err := s.ctl.GetMonitors()
	if err != nil {
		return nil, MonitorsOutput{}, err
	}
	return nil, monitorsOutput(data), nil
}

func (s *Server) handleRefreshMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ RefreshMonitorsInput) (*mcpsdk.CallToolResult, MonitorsOutput, error) {
	data, err := s.ctl.RefreshMonitors()
	if err != nil {
		return nil, MonitorsOutput{}, err
	}
	return nil, monitorsOutput(data), nil
}

func monitorsOutput(data *ipc.MonitorsData) MonitorsOutput {
	out := MonitorsOutput{Monitors: data.Monitors, Selected: data.Selected}
	if out.Monitors == nil {
		out.Monitors = []ipc.MonitorInfo{}
	}
	return out
}

func (s *Server) handleListWallpapers(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWallpapersInput) (*mcpsdk.CallToolResult, ListWallpapersOutput, error) {
	walls, err := s.wallpapers()
	if err != nil {
		return nil, ListWallpapersOutput{}, err
	}
	return nil, ListWallpapersOutput{Wallpapers: walls}, nil
}

func (s *Server) handleAddWallpaper(_ context.Context, _ *mcpsdk.CallToolRequest, args AddWallpaperInput) (*mcpsdk.CallToolResult, ipc.WallpaperInfo, error) {
	if strings.TrimSpace(args.Path) == "" {
		return nil, ipc.WallpaperInfo{}, fmt.Errorf("path is required")
	}
	info, err := s.ctl.AddWallpaper(args.Path, args.Fitting)
	if err != nil {
		return nil, ipc.WallpaperInfo{}, err
	}
	return nil, *info, nil
}

func (s *Server) handleUpdateWallpaper(_ context.Context, _ *mcpsdk.CallToolRequest, args UpdateWallpaperInput) (*mcpsdk.CallToolResult, UpdateWallpaperOutput, error) {
	op := strings.ToLower(strings.TrimSpace(args.Op))
	switch op {
	case "remove", "up", "down":
	case "fit":
		if args.Fitting == "" {
			return nil, UpdateWallpaperOutput{}, fmt.Errorf("fitting is required when op is fit")
		}
	default:
		return nil, UpdateWallpaperOutput{}, fmt.Errorf("unknown op %q (valid: remove, up, down, fit)", args.Op)
	}

	walls, err := s.wallpapers()
	if err != nil {
		return nil, UpdateWallpaperOutput{}, err
	}
	target, err := ipc.ResolveWallpaper(walls, args.Wallpaper)
	if err != nil {
		return nil, UpdateWallpaperOutput{}, err
	}
	if err := s.ctl.UpdateWallpaper(target.ID, op, args.Fitting); err != nil {
		return nil, UpdateWallpaperOutput{}, err
	}

	walls, err = s.wallpapers()
	if err != nil {
		return nil, UpdateWallpaperOutput{}, err
	}
	return nil, UpdateWallpaperOutput{Wallpapers: walls}, nil
}

func (s *Server) handleApplyWallpaper(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyWallpaperInput) (*mcpsdk.CallToolResult, ApplyWallpaperOutput, error) {
	monitors, err := s.ctl.GetMonitors()
	if err != nil {
		return nil, ApplyWallpaperOutput{}, err
	}
	mon, err := ipc.ResolveMonitor(monitors.Monitors, args.Monitor)
	if err != nil {
		return nil, ApplyWallpaperOutput{}, err
	}
	walls, err := s.wallpapers()
	if err != nil {
		return nil, ApplyWallpaperOutput{}, err
	}
	w, err := ipc.ResolveWallpaper(walls, args.Wallpaper)
	if err != nil {
		return nil, ApplyWallpaperOutput{}, err
	}

	if err := s.ctl.ApplyWallpaper(mon.ID, w.ID); err != nil {
		return nil, ApplyWallpaperOutput{}, err
	}
	return nil, ApplyWallpaperOutput{
		Monitor:   mon.ID,
		Wallpaper: w.ID,
		Path:      w.Path,
		Fitting:   w.Fitting,
	}, nil
}

func (s *Server) wallpapers() ([]ipc.WallpaperInfo, error) {
	data, err := s.ctl.ListWallpapers()
	if err != nil {
		return nil, err
	}
	if data.Wallpapers == nil {
		return []ipc.WallpaperInfo{}, nil
	}
	return data.Wallpapers, nil
}
