//go:build linux

package platform

import (
	"errors"
	"testing"

	"github.com/1broseidon/walltile/internal/model"
	"github.com/1broseidon/walltile/internal/x11"
)

func TestDisconnectedBackendReturnsPlatformError(t *testing.T) {
	var b *LinuxBackend
	var pe *PlatformError

	if _, err := b.Monitors(); !errors.As(err, &pe) {
		t.Fatalf("Monitors err = %v", err)
	}
	if err := b.SetWallpaper("DP-1", "/tmp/x.png", model.FittingCover); !errors.As(err, &pe) {
		t.Fatalf("SetWallpaper err = %v", err)
	}
	if _, err := b.MonitorUnderPointer(); !errors.As(err, &pe) {
		t.Fatalf("MonitorUnderPointer err = %v", err)
	}
	b.Disconnect()
}

func TestMonitorFromX11(t *testing.T) {
	got := monitorFromX11(x11.Monitor{Output: "eDP-1", X: -1920, Y: 0, Width: 1920, Height: 1200})
	want := model.Monitor{ID: "eDP-1", Name: "eDP-1", X: -1920, Y: 0, Width: 1920, Height: 1200}
	if got != want {
		t.Fatalf("monitorFromX11 = %+v, want %+v", got, want)
	}
}
