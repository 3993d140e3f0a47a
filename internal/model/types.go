package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/1broseidon/walltile/internal/layout"
	"github.com/google/uuid"
)

// Monitor is a physical display as reported by the platform. ID is the
// platform identifier (the RandR output name on X11).
type Monitor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Rect returns the monitor geometry.
func (m Monitor) Rect() layout.Rect {
	return layout.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// Fitting selects how an image is mapped onto a monitor.
type Fitting int

const (
	FittingCenter Fitting = iota
	FittingTile
	FittingStretch
	FittingContain
	FittingCover
)

var fittingNames = [...]string{
	FittingCenter:  "center",
	FittingTile:    "tile",
	FittingStretch: "stretch",
	FittingContain: "contain",
	FittingCover:   "cover",
}

// AllFittings lists every fitting in order.
func AllFittings() []Fitting {
	return []Fitting{FittingCenter, FittingTile, FittingStretch, FittingContain, FittingCover}
}

func (f Fitting) String() string {
	if f < 0 || int(f) >= len(fittingNames) {
		return fmt.Sprintf("fitting(%d)", int(f))
	}
	return fittingNames[f]
}

// Valid reports whether f is a known fitting.
func (f Fitting) Valid() bool {
	return f >= FittingCenter && f <= FittingCover
}

// Next returns the following fitting, wrapping from Cover back to Center.
func (f Fitting) Next() Fitting {
	return Fitting((int(f) + 1) % len(fittingNames))
}

// ParseFitting accepts a fitting name, case-insensitively.
func ParseFitting(s string) (Fitting, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range fittingNames {
		if n == name {
			return Fitting(i), nil
		}
	}
	return 0, fmt.Errorf("unknown fitting %q (valid: center, tile, stretch, contain, cover)", s)
}

func (f Fitting) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid fitting %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *Fitting) UnmarshalText(text []byte) error {
	parsed, err := ParseFitting(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Wallpaper is an image the user added to the list.
type Wallpaper struct {
	ID      uuid.UUID `json:"id"`
	Path    string    `json:"path"`
	Fitting Fitting   `json:"fitting"`
}

// NewWallpaper creates a wallpaper with a fresh identifier.
func NewWallpaper(path string, fitting Fitting) Wallpaper {
	return Wallpaper{ID: uuid.New(), Path: path, Fitting: fitting}
}

// Filename returns the last element of the wallpaper path.
func (w Wallpaper) Filename() string {
	return filepath.Base(w.Path)
}

// OpKind identifies a wallpaper list operation.
type OpKind int

const (
	OpRemove OpKind = iota
	OpMoveUp
	OpMoveDown
	OpSetFitting
)

// Operation is a single edit applied to one wallpaper entry.
type Operation struct {
	Kind    OpKind
	Fitting Fitting
}

func Remove() Operation { return Operation{Kind: OpRemove} }
func MoveUp() Operation { return Operation{Kind: OpMoveUp} }
func MoveDown() Operation { return Operation{Kind: OpMoveDown} }
func SetFitting(f Fitting) Operation { return Operation{Kind: OpSetFitting, Fitting: f} }

func (o Operation) String() string {
	switch o.Kind {
	case OpRemove:
		return "remove"
	case OpMoveUp:
		return "up"
	case OpMoveDown:
		return "down"
	case OpSetFitting:
		return "fit:" + o.Fitting.String()
	default:
		return fmt.Sprintf("op(%d)", int(o.Kind))
	}
}

// ParseOperation parses "remove", "up", "down" or "fit:<fitting>".
func ParseOperation(s string) (Operation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "remove", "rm":
		return Remove(), nil
	case "up", "move-up":
		return MoveUp(), nil
	case "down", "move-down":
		return MoveDown(), nil
	}
	if rest, ok := strings.CutPrefix(s, "fit:"); ok {
		f, err := ParseFitting(rest)
		if err != nil {
			return Operation{}, err
		}
		return SetFitting(f), nil
	}
	return Operation{}, fmt.Errorf("unknown operation %q", s)
}

// Event is published by State after a mutation.
type Event int

const (
	MonitorsUpdated Event = iota
	WallpapersUpdated
)

func (e Event) String() string {
	switch e {
	case MonitorsUpdated:
		return "monitors-updated"
	case WallpapersUpdated:
		return "wallpapers-updated"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}
