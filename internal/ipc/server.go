package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/walltile/internal/app"
	"github.com/1broseidon/walltile/internal/config"
	"github.com/1broseidon/walltile/internal/model"
	"github.com/1broseidon/walltile/internal/runtimepath"
	"github.com/google/uuid"
)

// pickTimeout bounds how long a PICK_WALLPAPER request may hold a dialog open.
const pickTimeout = 5 * time.Minute

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	app          *app.App
	loadConfig   func() (*config.Config, error)
	logger       *slog.Logger
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server on the runtime socket path. reloadChan is
// signalled, without blocking, after a successful RELOAD.
func NewServer(a *app.App, reloadChan chan struct{}, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, a, reloadChan, logger), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, a *app.App, reloadChan chan struct{}, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		app:        a,
		loadConfig: config.Load,
		logger:     logger,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}
}

// SetConfigLoader replaces the loader RELOAD uses.
func (s *Server) SetConfigLoader(load func() (*config.Config, error)) {
	s.loadConfig = load
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Error("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves a single newline-terminated JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Error("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Error("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandListWallpapers:
		return s.handleListWallpapers()
	case CommandAddWallpaper:
		return s.handleAddWallpaper(req.Payload)
	case CommandPickWallpaper:
		return s.handlePickWallpaper()
	case CommandUpdateWallpaper:
		return s.handleUpdateWallpaper(req.Payload)
	case CommandApplyWallpaper:
		return s.handleApplyWallpaper(req.Payload)
	case CommandRefreshMonitors:
		return s.handleRefreshMonitors()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD")

	newCfg, err := s.loadConfig()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	s.app.SetConfig(newCfg)

	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	return ok(nil)
}

func (s *Server) handleGetStatus() *Response {
	monitors, _ := s.app.State().Monitors()
	wallpapers, _ := s.app.State().Wallpapers()

	return ok(StatusData{
		MonitorCount:   len(monitors),
		WallpaperCount: len(wallpapers),
		ThumbnailCount: s.app.Thumbnails().Len(),
		DefaultFitting: s.app.Config().DefaultFitting.String(),
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
		DaemonRunning:  true,
	})
}

func (s *Server) handleGetMonitors() *Response {
	return ok(s.monitorsData())
}

func (s *Server) monitorsData() MonitorsData {
	pres := s.app.Presentation()
	pres.Sync()
	snap := pres.Snapshot()
	applied := s.app.LastApplied()

	infos := make([]MonitorInfo, len(snap.Monitors))
	for i, m := range snap.Monitors {
		infos[i] = MonitorInfo{
			ID:      m.ID,
			Name:    m.Name,
			X:       m.X,
			Y:       m.Y,
			Width:   m.Width,
			Height:  m.Height,
			Preview: m.Preview,
		}
		if id, ok := applied[m.ID]; ok {
			infos[i].Wallpaper = id.String()
		}
	}
	return MonitorsData{Monitors: infos, Selected: snap.Selected}
}

func (s *Server) handleListWallpapers() *Response {
	pres := s.app.Presentation()
	pres.Sync()
	snap := pres.Snapshot()

	infos := make([]WallpaperInfo, len(snap.Wallpapers))
	for i, w := range snap.Wallpapers {
		infos[i] = wallpaperInfo(w)
	}
	return ok(WallpapersData{Wallpapers: infos})
}

func (s *Server) handleAddWallpaper(payload json.RawMessage) *Response {
	var req AddWallpaperPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid add payload: %v", err))
	}
	if req.Path == "" {
		return NewErrorResponse("path is required")
	}

	var fitting *model.Fitting
	if req.Fitting != "" {
		f, err := model.ParseFitting(req.Fitting)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		fitting = &f
	}

	w, err := s.app.AddWallpaper(req.Path, fitting)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to add wallpaper: %v", err))
	}
	return ok(s.wallpaperInfo(w.ID))
}

func (s *Server) handlePickWallpaper() *Response {
	ctx, cancel := context.WithTimeout(context.Background(), pickTimeout)
	defer cancel()

	w, picked, err := s.app.PickWallpaper(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to pick wallpaper: %v", err))
	}
	if !picked {
		return ok(PickData{})
	}
	info := s.wallpaperInfo(w.ID)
	return ok(PickData{Picked: true, Wallpaper: &info})
}

func (s *Server) handleUpdateWallpaper(payload json.RawMessage) *Response {
	var req UpdateWallpaperPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid update payload: %v", err))
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid wallpaper id %q", req.ID))
	}

	opText := req.Op
	if opText == "fit" {
		opText = "fit:" + req.Fitting
	}
	op, err := model.ParseOperation(opText)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	if err := s.app.UpdateWallpaper(id, op); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to update wallpaper: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleApplyWallpaper(payload json.RawMessage) *Response {
	var req ApplyWallpaperPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid apply payload: %v", err))
	}
	if req.MonitorID == "" {
		return NewErrorResponse("monitor_id is required")
	}
	id, err := uuid.Parse(req.WallpaperID)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid wallpaper id %q", req.WallpaperID))
	}

	if err := s.app.ApplyWallpaper(req.MonitorID, id); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply wallpaper: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleRefreshMonitors() *Response {
	if err := s.app.RefreshMonitors(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to refresh monitors: %v", err))
	}
	return ok(s.monitorsData())
}

func (s *Server) wallpaperInfo(id uuid.UUID) WallpaperInfo {
	pres := s.app.Presentation()
	pres.Sync()
	for _, w := range pres.Snapshot().Wallpapers {
		if w.ID == id {
			return wallpaperInfo(w)
		}
	}
	// Removed between the action and the read.
	return WallpaperInfo{ID: id.String()}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}
