package x11

import "testing"

func TestFindMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{Output: "DP-1", X: 0, Y: 0, Width: 1920, Height: 1080},
		{Output: "HDMI-1", X: 1920, Y: 0, Width: 2560, Height: 1440},
	}

	tests := []struct {
		x, y int
		want string
		ok   bool
	}{
		{0, 0, "DP-1", true},
		{1919, 1079, "DP-1", true},
		{1920, 0, "HDMI-1", true},
		{3000, 1200, "HDMI-1", true},
		{100, 1200, "", false},
		{-1, 0, "", false},
	}
	for _, tc := range tests {
		mon, ok := findMonitorAt(monitors, tc.x, tc.y)
		if ok != tc.ok || mon.Output != tc.want {
			t.Errorf("findMonitorAt(%d,%d) = %q,%v want %q,%v", tc.x, tc.y, mon.Output, ok, tc.want, tc.ok)
		}
	}
}

func TestFallbackMonitorPrefersPrimary(t *testing.T) {
	monitors := []Monitor{
		{Output: "DP-1", Width: 1920, Height: 1080},
		{Output: "HDMI-1", X: 1920, Width: 2560, Height: 1440, Primary: true},
	}
	if got := fallbackMonitor(monitors); got.Output != "HDMI-1" {
		t.Fatalf("fallbackMonitor = %q, want primary HDMI-1", got.Output)
	}

	monitors[1].Primary = false
	if got := fallbackMonitor(monitors); got.Output != "DP-1" {
		t.Fatalf("fallbackMonitor = %q, want first monitor", got.Output)
	}
}
