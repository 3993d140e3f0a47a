// Package mcp exposes the daemon's wallpaper actions as MCP tools over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/walltile/internal/ipc"
)

const (
	ServerName    = "walltile"
	ServerVersion = "0.1.0"
)

// Controller is the daemon as the tools see it. *ipc.Client implements it.
type Controller interface {
	GetMonitors() (*ipc.MonitorsData, error)
	RefreshMonitors() (*ipc.MonitorsData, error)
	ListWallpapers() (*ipc.WallpapersData, error)
	AddWallpaper(path, fitting string) (*ipc.WallpaperInfo, error)
	UpdateWallpaper(id, op, fitting string) error
	ApplyWallpaper(monitorID, wallpaperID string) error
}

// Server is the MCP server for walltile.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
}

// NewServer creates an MCP server that forwards every tool call to ctl.
func NewServer(ctl Controller) *Server {
	s := &Server{ctl: ctl}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List connected monitors with their geometry, a normalized preview rectangle in the unit square, and the wallpaper last applied by the daemon.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_wallpapers",
		Description: "List wallpapers in order with ID, path, fitting and original image size (\"Unknown\" until the daemon has read the file, \"Unreadable\" if it could not).",
	}, s.handleListWallpapers)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_wallpaper",
		Description: "Append an image file to the wallpaper list. Supported extensions come from image_extensions in the daemon config.",
	}, s.handleAddWallpaper)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_wallpaper",
		Description: "Remove a wallpaper, move it one place up or down, or change its fitting. Returns the resulting list.",
	}, s.handleUpdateWallpaper)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_wallpaper",
		Description: "Set a wallpaper on one monitor using the wallpaper's fitting.",
	}, s.handleApplyWallpaper)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "refresh_monitors",
		Description: "Re-query the window system for connected monitors and return the new list.",
	}, s.handleRefreshMonitors)
}
