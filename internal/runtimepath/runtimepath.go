// Package runtimepath locates the per-user directory and socket the daemon
// and its clients meet at.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SocketEnv overrides the socket path for both the daemon and clients.
const SocketEnv = "WALLTILE_SOCKET"

const socketName = "walltile.sock"

// Dir returns the walltile runtime directory, creating it with mode 0700.
// It lives under XDG_RUNTIME_DIR when that is set, else under /run/user/<uid>
// when present, else it is /tmp/walltile-runtime-<uid>.
func Dir() (string, error) {
	uid := strconv.Itoa(os.Getuid())

	dir := filepath.Join(os.TempDir(), "walltile-runtime-"+uid)
	if base := os.Getenv("XDG_RUNTIME_DIR"); base != "" {
		dir = filepath.Join(base, "walltile")
	} else if isDir(filepath.Join("/run/user", uid)) {
		dir = filepath.Join("/run/user", uid, "walltile")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketPath returns the daemon IPC socket path. WALLTILE_SOCKET wins when
// set, so a second daemon can run against another display.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}
