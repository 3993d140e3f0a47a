package runtimepath

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDirUnderXDGRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	want := filepath.Join(td, "walltile")
	if got != want {
		t.Fatalf("Dir() = %q, want %q", got, want)
	}
	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("runtime dir not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Fatalf("runtime dir mode = %o, want 700", perm)
	}
}

func TestDirWithoutXDGRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if !strings.Contains(got, "walltile") {
		t.Fatalf("Dir() = %q, want a walltile directory", got)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv(SocketEnv, "")

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if want := filepath.Join(td, "walltile", "walltile.sock"); socket != want {
		t.Fatalf("SocketPath() = %q, want %q", socket, want)
	}
}

func TestSocketPathOverride(t *testing.T) {
	t.Setenv(SocketEnv, "/tmp/other.sock")

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if socket != "/tmp/other.sock" {
		t.Fatalf("SocketPath() = %q, want override", socket)
	}
}
