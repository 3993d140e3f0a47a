package ipc

import (
	"strings"
	"testing"
)

func TestResolveWallpaper(t *testing.T) {
	walls := []WallpaperInfo{
		{ID: "1f0c1b2e-0000-4000-8000-000000000001", Filename: "forest.jpg"},
		{ID: "1f0c1b2e-0000-4000-8000-000000000002", Filename: "sea.png"},
		{ID: "9a9a9a9a-0000-4000-8000-000000000003", Filename: "sea.png"},
	}

	tests := []struct {
		ref     string
		wantID  string
		wantErr string
	}{
		{"1f0c1b2e-0000-4000-8000-000000000002", walls[1].ID, ""},
		{"0", walls[0].ID, ""},
		{"2", walls[2].ID, ""},
		{"9a9a", walls[2].ID, ""},
		{"forest.jpg", walls[0].ID, ""},
		{"3", "", "out of range"},
		{"-1", "", "out of range"},
		{"1f0c", "", "matches 2"},
		{"sea.png", "", "matches 2"},
		{"lake.png", "", "no wallpaper"},
		{"  ", "", "empty"},
	}
	for _, tt := range tests {
		got, err := ResolveWallpaper(walls, tt.ref)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ResolveWallpaper(%q) err = %v, want %q", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got.ID != tt.wantID {
			t.Errorf("ResolveWallpaper(%q) = %s, %v; want %s", tt.ref, got.ID, err, tt.wantID)
		}
	}
}

func TestResolveMonitor(t *testing.T) {
	mons := []MonitorInfo{{ID: "DP-1", Name: "DP-1"}, {ID: "HDMI-A-1", Name: "HDMI-A-1"}}

	for ref, want := range map[string]string{"DP-1": "DP-1", "1": "HDMI-A-1", "hdmi-a-1": "HDMI-A-1"} {
		got, err := ResolveMonitor(mons, ref)
		if err != nil || got.ID != want {
			t.Errorf("ResolveMonitor(%q) = %s, %v; want %s", ref, got.ID, err, want)
		}
	}
	if _, err := ResolveMonitor(mons, "5"); err == nil {
		t.Errorf("expected out of range error")
	}
	if _, err := ResolveMonitor(mons, "VGA-1"); err == nil {
		t.Errorf("expected no match error")
	}
}
