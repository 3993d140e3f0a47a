package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/walltile/internal/actionlog"
	"github.com/1broseidon/walltile/internal/app"
	"github.com/1broseidon/walltile/internal/config"
	"github.com/1broseidon/walltile/internal/daemon"
	"github.com/1broseidon/walltile/internal/hotkeys"
	"github.com/1broseidon/walltile/internal/ipc"
	"github.com/1broseidon/walltile/internal/picker"
	"github.com/1broseidon/walltile/internal/platform"
	"github.com/1broseidon/walltile/internal/thumbnail"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: walltile daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: walltile daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "refresh":
		os.Exit(runRefresh(os.Args[2:]))
	case "wallpaper":
		os.Exit(runWallpaper(os.Args[2:]))
	case "apply":
		os.Exit(runApply(os.Args[2:]))
	case "thumb":
		os.Exit(runThumb(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: walltile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the walltile daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  monitors            List monitors and their preview layout")
	fmt.Fprintln(w, "  refresh             Re-query monitors from the window system")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  wallpaper list      List wallpapers")
	fmt.Fprintln(w, "  wallpaper add       Add an image (opens a file picker without PATH)")
	fmt.Fprintln(w, "  wallpaper pick      Choose an image in a file picker and add it")
	fmt.Fprintln(w, "  wallpaper remove    Remove a wallpaper")
	fmt.Fprintln(w, "  wallpaper up        Move a wallpaper one place up")
	fmt.Fprintln(w, "  wallpaper down      Move a wallpaper one place down")
	fmt.Fprintln(w, "  wallpaper fit       Change a wallpaper's fitting")
	fmt.Fprintln(w, "  apply               Set a wallpaper on a monitor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  thumb               Render an image thumbnail in the terminal")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'walltile <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: walltile status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:  %v\n", status.DaemonRunning)
	fmt.Printf("monitor_count:   %d\n", status.MonitorCount)
	fmt.Printf("wallpaper_count: %d\n", status.WallpaperCount)
	fmt.Printf("thumbnail_count: %d\n", status.ThumbnailCount)
	fmt.Printf("default_fitting: %s\n", status.DefaultFitting)
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  walltile config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  walltile config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  walltile config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/walltile/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfigResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/walltile/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		_ = fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfigResult(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			if res.File != "" {
				fmt.Printf("# file: %s\n", res.File)
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/walltile/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfigResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

func openActionLog(cfg *config.Config) *actionlog.Logger {
	lc := cfg.GetLoggingConfig()
	actions, err := actionlog.New(actionlog.Config{
		Enabled:   lc.Enabled,
		Level:     actionlog.ParseLevel(lc.Level),
		FilePath:  lc.File,
		MaxSizeMB: lc.MaxSizeMB,
		MaxFiles:  lc.MaxFiles,
	})
	if err != nil {
		log.Printf("Warning: action log disabled: %v", err)
		return nil
	}
	return actions
}

// dialogPicker returns the configured picker unless it would prompt on the
// terminal, which a daemon or a running TUI cannot share.
func dialogPicker(setting string, logger *slog.Logger) picker.Picker {
	backend := setting
	if backend == "" || backend == "auto" {
		backend = picker.DetectBackend()
	}
	if backend == "terminal" {
		logger.Info("no dialog file picker available; PATH must be given when adding")
		return nil
	}
	p, err := picker.New(backend)
	if err != nil {
		logger.Warn("file picker unavailable", "error", err)
		return nil
	}
	return p
}

func connectBackend(cfg *config.Config) (*platform.LinuxBackend, error) {
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	display := cfg.Display
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	return platform.NewLinuxBackendFromDisplay(display)
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := newLogger(cfg, os.Stderr)
	logger.Info("configuration loaded",
		"default_fitting", cfg.DefaultFitting,
		"cycle_hotkey", cfg.CycleHotkey,
		"monitor_poll_seconds", cfg.MonitorPollSeconds)

	backend, err := connectBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	actions := openActionLog(cfg)
	defer actions.Close()

	a := app.New(app.Options{
		Config:   cfg,
		Backend:  backend,
		Picker:   dialogPicker(cfg.FilePicker, logger),
		Uploader: thumbnail.ImageUploader,
		Actions:  actions,
		Logger:   logger,
	})
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := a.Run(ctx); err != nil {
			logger.Error("workers stopped", "error", err)
		}
	}()

	watcher := daemon.NewWatcher(daemon.WatcherConfig{
		Interval: time.Duration(cfg.MonitorPollSeconds) * time.Second,
		Logger:   logger,
	}, backend.Monitors, a.SetMonitors)
	// Immediate poll so clients see monitors before the first tick.
	watcher.PollNow()
	if cfg.MonitorPollSeconds > 0 {
		go watcher.Run(ctx)
	}

	if h := hotkeys.NewHandler(backend, a, logger); h != nil {
		if err := h.RegisterCycle(cfg.CycleHotkey); err != nil {
			logger.Warn("failed to register cycle hotkey", "hotkey", cfg.CycleHotkey, "error", err)
		} else if cfg.CycleHotkey != "" {
			logger.Info("cycle hotkey registered", "hotkey", cfg.CycleHotkey)
		}
	}

	reloadChan := make(chan struct{}, 1)

	ipcServer, err := ipc.NewServer(a, reloadChan, logger)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("received SIGHUP, reloading config")
					newCfg, err := config.Load()
					if err != nil {
						logger.Error("config reload failed", "error", err)
						continue
					}
					a.SetConfig(newCfg)
					a.SetPicker(dialogPicker(newCfg.FilePicker, logger))
					logger.Info("config reloaded")

				case os.Interrupt, syscall.SIGTERM:
					logger.Info("shutting down walltile daemon")
					cancel()
					ipcServer.Stop()
					backend.QuitEventLoop()
					return
				}

			case <-reloadChan:
				// RELOAD already swapped the app config.
				a.SetPicker(dialogPicker(a.Config().FilePicker, logger))
			}
		}
	}()

	logger.Info("walltile daemon started", "socket", ipcServer.SocketPath())
	backend.EventLoop()
}
