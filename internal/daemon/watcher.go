// Package daemon holds the background loops the wallpaper daemon runs
// alongside the IPC server.
package daemon

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/1broseidon/walltile/internal/model"
)

// MonitorLister returns the monitors currently connected.
type MonitorLister func() ([]model.Monitor, error)

// MonitorSink receives a changed monitor list.
type MonitorSink func([]model.Monitor)

// WatcherConfig holds configuration for the topology watcher.
type WatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Watcher polls the window system and pushes the monitor list into the
// state whenever the topology changes.
type Watcher struct {
	interval time.Duration
	list     MonitorLister
	sink     MonitorSink
	logger   *slog.Logger

	mu   sync.Mutex
	last []model.Monitor
	seen bool
}

// NewWatcher creates a watcher. The first poll always reaches sink.
func NewWatcher(cfg WatcherConfig, list MonitorLister, sink MonitorSink) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		interval: interval,
		list:     list,
		sink:     sink,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("monitor watcher started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("monitor watcher stopped")
			return
		case <-ticker.C:
			w.PollNow()
		}
	}
}

// PollNow performs one poll and reports whether the monitor list changed.
func (w *Watcher) PollNow() (changed bool) {
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("monitor watcher panic recovered", "error", err)
			changed = false
		}
	}()

	monitors, err := w.list()
	if err != nil {
		w.logger.Error("monitor watcher: failed to list monitors", "error", err)
		return false
	}

	w.mu.Lock()
	if w.seen && slices.Equal(w.last, monitors) {
		w.mu.Unlock()
		return false
	}
	w.last = slices.Clone(monitors)
	w.seen = true
	w.mu.Unlock()

	w.logger.Info("monitor topology changed", "count", len(monitors))
	w.sink(monitors)
	return true
}
