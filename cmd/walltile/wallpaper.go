package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/walltile/internal/app"
	"github.com/1broseidon/walltile/internal/config"
	"github.com/1broseidon/walltile/internal/ipc"
	"github.com/1broseidon/walltile/internal/picker"
)

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printMonitors(data *ipc.MonitorsData) {
	if len(data.Monitors) == 0 {
		fmt.Println("(no monitors)")
		return
	}
	for i, m := range data.Monitors {
		marker := " "
		if i == data.Selected {
			marker = "*"
		}
		fmt.Printf("%s %d  %-10s %dx%d+%d+%d  preview=[%.3f,%.3f %.3f,%.3f]",
			marker, i, m.Name, m.Width, m.Height, m.X, m.Y,
			m.Preview.Left, m.Preview.Top, m.Preview.Right, m.Preview.Bottom)
		if m.Wallpaper != "" {
			fmt.Printf("  wallpaper=%s", shortID(m.Wallpaper))
		}
		fmt.Println()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: walltile monitors [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List monitors known to the daemon with their normalized preview rectangles.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monitors takes no arguments")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}
	printMonitors(data)
	return 0
}

func runRefresh(args []string) int {
	fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: walltile refresh")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Re-query monitors from the window system and print the result.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "refresh takes no arguments")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().RefreshMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printMonitors(data)
	return 0
}

func printWallpaperUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  walltile wallpaper list [--json]")
	fmt.Fprintln(w, "  walltile wallpaper add [--fit FITTING] [PATH]")
	fmt.Fprintln(w, "  walltile wallpaper pick")
	fmt.Fprintln(w, "  walltile wallpaper remove <wallpaper>")
	fmt.Fprintln(w, "  walltile wallpaper up <wallpaper>")
	fmt.Fprintln(w, "  walltile wallpaper down <wallpaper>")
	fmt.Fprintln(w, "  walltile wallpaper fit <wallpaper> <center|tile|stretch|contain|cover>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "<wallpaper> is an ID, a unique ID prefix, a 0-based index or a filename.")
}

func runWallpaper(args []string) int {
	if len(args) == 0 {
		printWallpaperUsage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		jsonOut := fs.Bool("json", false, "Output as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		data, err := client.ListWallpapers()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			return printJSON(data)
		}
		if len(data.Wallpapers) == 0 {
			fmt.Println("(no wallpapers)")
			return 0
		}
		for i, w := range data.Wallpapers {
			fmt.Printf("%d  %s  %-8s %-11s %s\n", i, shortID(w.ID), w.Fitting, w.Size, w.Path)
		}
		return 0

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fit := fs.String("fit", "", "Fitting for the new wallpaper (default: default_fitting)")
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: walltile wallpaper add [--fit FITTING] [PATH]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Add an image. Without PATH the daemon's file dialog opens, or a")
			fmt.Fprintln(os.Stderr, "terminal file browser when no dialog program is installed.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() > 1 {
			fs.Usage()
			return 2
		}

		path := fs.Arg(0)
		if path == "" {
			picked, local, ok, err := pickWallpaper(client)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			if !ok {
				return 0
			}
			if picked != nil {
				if *fit != "" {
					if err := client.UpdateWallpaper(picked.ID, "fit", *fit); err != nil {
						fmt.Fprintln(os.Stderr, err)
						return 1
					}
				}
				fmt.Printf("added %s %s\n", shortID(picked.ID), picked.Path)
				return 0
			}
			path = local
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}

		info, err := client.AddWallpaper(path, *fit)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("added %s %s\n", shortID(info.ID), info.Path)
		return 0

	case "pick":
		if len(args) != 1 {
			printWallpaperUsage(os.Stderr)
			return 2
		}
		return runWallpaper([]string{"add"})

	case "remove", "up", "down":
		if len(args) != 2 {
			printWallpaperUsage(os.Stderr)
			return 2
		}
		return updateWallpaper(client, args[1], args[0], "")

	case "fit":
		if len(args) != 3 {
			printWallpaperUsage(os.Stderr)
			return 2
		}
		return updateWallpaper(client, args[1], "fit", args[2])

	case "help", "-h", "--help":
		printWallpaperUsage(os.Stdout)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown wallpaper command: %s\n\n", args[0])
		printWallpaperUsage(os.Stderr)
		return 2
	}
}

// pickWallpaper asks the daemon to run its file dialog, which also adds the
// chosen file. When the daemon has no dialog the terminal picker runs here
// instead and only the chosen path is returned.
func pickWallpaper(client *ipc.Client) (added *ipc.WallpaperInfo, local string, ok bool, err error) {
	data, err := client.PickWallpaper()
	if err == nil {
		return data.Wallpaper, "", data.Picked, nil
	}
	if !strings.Contains(err.Error(), app.ErrNoPicker.Error()) {
		return nil, "", false, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, "", false, err
	}
	path, err := picker.NewTerminal().Pick(context.Background(), cfg.ImageExtensions)
	if errors.Is(err, picker.ErrCancelled) {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, err
	}
	return nil, path, true, nil
}

func updateWallpaper(client *ipc.Client, ref, op, fitting string) int {
	data, err := client.ListWallpapers()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	w, err := ipc.ResolveWallpaper(data.Wallpapers, ref)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.UpdateWallpaper(w.ID, op, fitting); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runApply(args []string) int {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: walltile apply <monitor> <wallpaper>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Set a wallpaper on a monitor with the wallpaper's fitting.")
		fmt.Fprintln(os.Stderr, "<monitor> is an ID, an output name or a 0-based index.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	monitors, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	mon, err := ipc.ResolveMonitor(monitors.Monitors, fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	walls, err := client.ListWallpapers()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	w, err := ipc.ResolveWallpaper(walls.Wallpapers, fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := client.ApplyWallpaper(mon.ID, w.ID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%s: %s (%s)\n", mon.Name, w.Filename, w.Fitting)
	return 0
}
