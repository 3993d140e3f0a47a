// Package layout maps monitor geometry into a square, aspect-preserving
// 0..1 preview space.
package layout

// Rect is a monitor rectangle in virtual-screen pixels. X and Y may be negative.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// PreviewRect is a rectangle in normalized preview space. All coordinates lie
// in [0,1].
type PreviewRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the normalized width.
func (p PreviewRect) Width() float64 { return p.Right - p.Left }

// Height returns the normalized height.
func (p PreviewRect) Height() float64 { return p.Bottom - p.Top }

// Bounds returns the union bounding box of rects. ok is false for an empty input.
func Bounds(rects []Rect) (left, top, right, bottom int, ok bool) {
	if len(rects) == 0 {
		return 0, 0, 0, 0, false
	}
	left, top = rects[0].X, rects[0].Y
	right, bottom = rects[0].X+rects[0].Width, rects[0].Y+rects[0].Height
	for _, r := range rects[1:] {
		left = min(left, r.X)
		top = min(top, r.Y)
		right = max(right, r.X+r.Width)
		bottom = max(bottom, r.Y+r.Height)
	}
	return left, top, right, bottom, true
}

// Normalize projects rects into a square preview space whose side is the
// larger extent of their bounding box. The bounding box is centered along its
// shorter axis. The result has one entry per input, in input order; an empty
// input yields an empty result.
func Normalize(rects []Rect) []PreviewRect {
	left, top, right, bottom, ok := Bounds(rects)
	if !ok {
		return []PreviewRect{}
	}

	extentX := float64(right - left)
	extentY := float64(bottom - top)
	divider := max(extentX, extentY)
	out := make([]PreviewRect, len(rects))
	if divider <= 0 {
		return out
	}

	offsetX := (divider - extentX) / 2
	offsetY := (divider - extentY) / 2

	for i, r := range rects {
		x := (float64(r.X-left) + offsetX) / divider
		y := (float64(r.Y-top) + offsetY) / divider
		out[i] = PreviewRect{
			Left:   x,
			Top:    y,
			Right:  x + float64(r.Width)/divider,
			Bottom: y + float64(r.Height)/divider,
		}
	}
	return out
}
