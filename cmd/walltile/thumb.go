package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/walltile/internal/config"
	"github.com/1broseidon/walltile/internal/termimage"
	"github.com/1broseidon/walltile/internal/thumbnail"
)

func runThumb(args []string) int {
	fs := flag.NewFlagSet("thumb", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	protoFlag := fs.String("protocol", "", "Graphics protocol: auto, halfblocks, kitty, iterm2, sixel (default: thumbnail_protocol)")
	cols := fs.Int("cols", 0, "Width in cells (default: terminal width)")
	rows := fs.Int("rows", 0, "Height in cells (default: terminal height minus 2)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: walltile thumb [--protocol P] [--cols N] [--rows N] PATH")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Decode an image the way the daemon does and draw it in the terminal.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	name := cfg.ThumbnailProtocol
	if *protoFlag != "" {
		name = *protoFlag
	}
	proto, err := termimage.ParseProtocol(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	path := fs.Arg(0)
	if !cfg.HasImageExtension(path) {
		fmt.Fprintf(os.Stderr, "%s: extension not in image_extensions %v\n", path, cfg.ImageExtensions)
		return 1
	}
	img, err := thumbnail.FileDecoder.Decode(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	tc, tr := termimage.TerminalSize()
	if *cols <= 0 {
		*cols = tc
	}
	if *rows <= 0 {
		*rows = max(tr-2, 1)
	}

	out, err := termimage.Render(img, proto, *cols, *rows)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	b := img.Bounds()
	fmt.Println(out)
	fmt.Printf("%s  %dx%d  (%s)\n", path, b.Dx(), b.Dy(), proto.Resolve())
	return 0
}
