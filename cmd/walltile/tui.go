package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/walltile/internal/app"
	"github.com/1broseidon/walltile/internal/platform"
	"github.com/1broseidon/walltile/internal/termimage"
	"github.com/1broseidon/walltile/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/walltile/config.yaml)")
	debugLog := fs.String("log", "", "Write debug logs to this file")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: walltile tui [--path PATH] [--log FILE]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive wallpaper manager. Runs its own copy of the wallpaper")
		fmt.Fprintln(os.Stderr, "state; it does not need the daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓      Navigate wallpapers")
		fmt.Fprintln(os.Stderr, "  tab/shift+tab Select next/previous monitor")
		fmt.Fprintln(os.Stderr, "  Enter         Apply highlighted wallpaper to selected monitor")
		fmt.Fprintln(os.Stderr, "  a             Add wallpaper (file dialog or path prompt)")
		fmt.Fprintln(os.Stderr, "  K/J           Move wallpaper up/down")
		fmt.Fprintln(os.Stderr, "  f             Cycle fitting")
		fmt.Fprintln(os.Stderr, "  x, Delete     Remove wallpaper")
		fmt.Fprintln(os.Stderr, "  r             Refresh monitors")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C     Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := loadConfigResult(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	// The alternate screen owns stdout and stderr while the TUI runs.
	logOut := io.Discard
	if *debugLog != "" {
		f, err := tea.LogToFile(*debugLog, "walltile")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg, logOut)

	var backend platform.Backend
	lb, err := connectBackend(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (monitors unavailable)\n", err)
	} else {
		defer lb.Disconnect()
		backend = lb
	}

	actions := openActionLog(cfg)
	defer actions.Close()

	a := app.New(app.Options{
		Config:   cfg,
		Backend:  backend,
		Picker:   dialogPicker(cfg.FilePicker, logger),
		Uploader: termimage.HalfblockUploader(tui.ThumbCols, tui.ThumbRows),
		Actions:  actions,
		Logger:   logger,
	})
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := a.Run(ctx); err != nil {
			logger.Error("workers stopped", "error", err)
		}
	}()
	if backend != nil {
		if err := a.RefreshMonitors(); err != nil {
			logger.Warn("monitor query failed", slog.Any("error", err))
		}
	}

	if err := tui.Run(ctx, a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
