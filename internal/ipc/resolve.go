package ipc

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolveWallpaper finds the wallpaper ref names: a full ID, a unique ID
// prefix, a 0-based list index, or a unique filename.
func ResolveWallpaper(wallpapers []WallpaperInfo, ref string) (WallpaperInfo, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return WallpaperInfo{}, fmt.Errorf("wallpaper reference is empty")
	}
	for _, w := range wallpapers {
		if w.ID == ref {
			return w, nil
		}
	}
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= len(wallpapers) {
			return WallpaperInfo{}, fmt.Errorf("wallpaper index %d out of range (have %d)", i, len(wallpapers))
		}
		return wallpapers[i], nil
	}

	var matches []WallpaperInfo
	for _, w := range wallpapers {
		if strings.HasPrefix(w.ID, ref) || w.Filename == ref {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 0:
		return WallpaperInfo{}, fmt.Errorf("no wallpaper matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return WallpaperInfo{}, fmt.Errorf("%q matches %d wallpapers", ref, len(matches))
	}
}

// ResolveMonitor finds the monitor ref names: an ID, a 0-based index, or a
// name.
func ResolveMonitor(monitors []MonitorInfo, ref string) (MonitorInfo, error) {
	ref = strings.TrimSpace(ref)
	for _, m := range monitors {
		if m.ID == ref {
			return m, nil
		}
	}
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range (have %d)", i, len(monitors))
		}
		return monitors[i], nil
	}
	for _, m := range monitors {
		if strings.EqualFold(m.Name, ref) {
			return m, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("no monitor matches %q", ref)
}
