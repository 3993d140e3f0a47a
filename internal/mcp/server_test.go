package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/walltile/internal/ipc"
)

type updateCall struct {
	id, op, fitting string
}

type fakeController struct {
	monitors   []ipc.MonitorInfo
	wallpapers []ipc.WallpaperInfo
	refreshes  int
	updates    []updateCall
	applied    [][2]string
	added      []string
	applyErr   error
}

func (f *fakeController) GetMonitors() (*ipc.MonitorsData, error) {
	return &ipc.MonitorsData{Monitors: f.monitors}, nil
}

func (f *fakeController) RefreshMonitors() (*ipc.MonitorsData, error) {
	f.refreshes++
	return f.GetMonitors()
}

func (f *fakeController) ListWallpapers() (*ipc.WallpapersData, error) {
	return &ipc.WallpapersData{Wallpapers: append([]ipc.WallpaperInfo(nil), f.wallpapers...)}, nil
}

func (f *fakeController) AddWallpaper(path, fitting string) (*ipc.WallpaperInfo, error) {
	f.added = append(f.added, path+"|"+fitting)
	w := ipc.WallpaperInfo{ID: "new-id", Path: path, Filename: "x.png", Fitting: "cover", Size: "Unknown"}
	f.wallpapers = append(f.wallpapers, w)
	return &w, nil
}

func (f *fakeController) UpdateWallpaper(id, op, fitting string) error {
	f.updates = append(f.updates, updateCall{id, op, fitting})
	if op == "remove" {
		for i, w := range f.wallpapers {
			if w.ID == id {
				f.wallpapers = append(f.wallpapers[:i], f.wallpapers[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (f *fakeController) ApplyWallpaper(monitorID, wallpaperID string) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, [2]string{monitorID, wallpaperID})
	return nil
}

func newFake() *fakeController {
	return &fakeController{
		monitors: []ipc.MonitorInfo{
			{ID: "0x41", Name: "DP-1", Width: 2560, Height: 1440},
			{ID: "0x42", Name: "HDMI-1", X: 2560, Width: 1920, Height: 1080},
		},
		wallpapers: []ipc.WallpaperInfo{
			{ID: "aaaa-1111", Path: "/w/forest.jpg", Filename: "forest.jpg", Fitting: "cover"},
			{ID: "bbbb-2222", Path: "/w/sea.png", Filename: "sea.png", Fitting: "tile"},
		},
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(newFake())
	if s.mcpServer == nil {
		t.Fatal("mcp server not created")
	}
}

func TestListTools(t *testing.T) {
	fake := newFake()
	s := NewServer(fake)

	_, mons, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("list_monitors: %v", err)
	}
	if len(mons.Monitors) != 2 || mons.Monitors[1].Name != "HDMI-1" {
		t.Fatalf("monitors = %+v", mons.Monitors)
	}

	_, mons, err = s.handleRefreshMonitors(context.Background(), nil, RefreshMonitorsInput{})
	if err != nil {
		t.Fatalf("refresh_monitors: %v", err)
	}
	if fake.refreshes != 1 || len(mons.Monitors) != 2 {
		t.Fatalf("refreshes = %d, monitors = %d", fake.refreshes, len(mons.Monitors))
	}

	_, walls, err := s.handleListWallpapers(context.Background(), nil, ListWallpapersInput{})
	if err != nil {
		t.Fatalf("list_wallpapers: %v", err)
	}
	if len(walls.Wallpapers) != 2 || walls.Wallpapers[0].Filename != "forest.jpg" {
		t.Fatalf("wallpapers = %+v", walls.Wallpapers)
	}
}

func TestListWallpapersNeverNil(t *testing.T) {
	s := NewServer(&fakeController{})
	_, out, err := s.handleListWallpapers(context.Background(), nil, ListWallpapersInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Wallpapers == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestAddWallpaper(t *testing.T) {
	fake := newFake()
	s := NewServer(fake)

	if _, _, err := s.handleAddWallpaper(context.Background(), nil, AddWallpaperInput{Path: "  "}); err == nil {
		t.Fatal("expected error for blank path")
	}

	_, info, err := s.handleAddWallpaper(context.Background(), nil, AddWallpaperInput{Path: "/w/x.png", Fitting: "contain"})
	if err != nil {
		t.Fatalf("add_wallpaper: %v", err)
	}
	if info.ID != "new-id" {
		t.Fatalf("id = %q", info.ID)
	}
	if len(fake.added) != 1 || fake.added[0] != "/w/x.png|contain" {
		t.Fatalf("added = %v", fake.added)
	}
}

func TestUpdateWallpaper(t *testing.T) {
	tests := []struct {
		name    string
		in      UpdateWallpaperInput
		wantErr string
		want    updateCall
	}{
		{name: "by index", in: UpdateWallpaperInput{Wallpaper: "1", Op: "up"}, want: updateCall{"bbbb-2222", "up", ""}},
		{name: "by prefix", in: UpdateWallpaperInput{Wallpaper: "aaaa", Op: "DOWN"}, want: updateCall{"aaaa-1111", "down", ""}},
		{name: "by filename", in: UpdateWallpaperInput{Wallpaper: "sea.png", Op: "fit", Fitting: "center"}, want: updateCall{"bbbb-2222", "fit", "center"}},
		{name: "fit needs fitting", in: UpdateWallpaperInput{Wallpaper: "0", Op: "fit"}, wantErr: "fitting is required"},
		{name: "unknown op", in: UpdateWallpaperInput{Wallpaper: "0", Op: "spin"}, wantErr: "unknown op"},
		{name: "no match", in: UpdateWallpaperInput{Wallpaper: "zzz", Op: "up"}, wantErr: "no wallpaper matches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFake()
			s := NewServer(fake)
			_, _, err := s.handleUpdateWallpaper(context.Background(), nil, tt.in)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				if len(fake.updates) != 0 {
					t.Fatalf("controller called on error: %v", fake.updates)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(fake.updates) != 1 || fake.updates[0] != tt.want {
				t.Fatalf("updates = %v, want %v", fake.updates, tt.want)
			}
		})
	}
}

func TestUpdateWallpaperReturnsNewList(t *testing.T) {
	fake := newFake()
	s := NewServer(fake)

	_, out, err := s.handleUpdateWallpaper(context.Background(), nil, UpdateWallpaperInput{Wallpaper: "forest.jpg", Op: "remove"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Wallpapers) != 1 || out.Wallpapers[0].ID != "bbbb-2222" {
		t.Fatalf("wallpapers = %+v", out.Wallpapers)
	}
}

func TestApplyWallpaper(t *testing.T) {
	fake := newFake()
	s := NewServer(fake)

	_, out, err := s.handleApplyWallpaper(context.Background(), nil, ApplyWallpaperInput{Monitor: "hdmi-1", Wallpaper: "0"})
	if err != nil {
		t.Fatalf("apply_wallpaper: %v", err)
	}
	if out.Monitor != "0x42" || out.Wallpaper != "aaaa-1111" || out.Path != "/w/forest.jpg" || out.Fitting != "cover" {
		t.Fatalf("out = %+v", out)
	}
	if len(fake.applied) != 1 || fake.applied[0] != [2]string{"0x42", "aaaa-1111"} {
		t.Fatalf("applied = %v", fake.applied)
	}

	if _, _, err := s.handleApplyWallpaper(context.Background(), nil, ApplyWallpaperInput{Monitor: "VGA-9", Wallpaper: "0"}); err == nil {
		t.Fatal("expected error for unknown monitor")
	}

	fake.applyErr = errors.New("daemon error: platform set wallpaper: boom")
	if _, _, err := s.handleApplyWallpaper(context.Background(), nil, ApplyWallpaperInput{Monitor: "0", Wallpaper: "1"}); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v, want daemon error", err)
	}
}
