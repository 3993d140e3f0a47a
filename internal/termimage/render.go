package termimage

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/disintegration/imaging"
	"golang.org/x/term"
)

// Render draws img into a cols x rows cell area using p.
func Render(img image.Image, p Protocol, cols, rows int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image is nil")
	}
	if cols <= 0 || rows <= 0 {
		return "", nil
	}

	switch p.Resolve() {
	case ProtocolKitty:
		return renderTermimg(img, termimg.Kitty, cols, rows)
	case ProtocolITerm2:
		return renderTermimg(img, termimg.ITerm2, cols, rows)
	case ProtocolSixel:
		return renderTermimg(img, termimg.Sixel, cols, rows)
	default:
		return Halfblocks(img, cols, rows), nil
	}
}

func renderTermimg(img image.Image, proto termimg.Protocol, cols, rows int) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("go-termimg: failed to create image wrapper")
	}
	ti.Protocol(proto).Size(cols, rows).Scale(termimg.ScaleFit)
	return ti.Render()
}

// Halfblocks renders img with upper half blocks and 24-bit color. Each cell
// carries two vertically stacked pixels, so the image is fitted into
// cols x 2*rows pixels without upscaling.
func Halfblocks(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}

	var px *image.NRGBA
	if b.Dx() > cols || b.Dy() > rows*2 {
		px = imaging.Fit(img, cols, rows*2, imaging.Box)
	} else {
		px = imaging.Clone(img)
	}
	w, h := px.Bounds().Dx(), px.Bounds().Dy()

	var sb strings.Builder
	sb.Grow(w * (h/2 + 1) * 40)
	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteString("\x1b[0m\n")
		}
		for x := 0; x < w; x++ {
			top := px.NRGBAAt(x, y)
			if y+1 >= h {
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
				continue
			}
			bot := px.NRGBAAt(x, y+1)
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}

// TerminalSize returns the size of the terminal on stdout, or 80x24 when
// stdout is not a terminal.
func TerminalSize() (cols, rows int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80, 24
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}
