// Package compose renders an image into a monitor-sized canvas according to
// a fitting mode.
package compose

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/1broseidon/walltile/internal/model"
	"github.com/disintegration/imaging"
)

// Background fills the area a fitting leaves uncovered.
var Background = color.NRGBA{A: 255}

// Render draws src onto a width x height canvas.
//
//	center   unscaled, centered, cropped by the canvas
//	tile     unscaled, repeated from the top-left corner
//	stretch  scaled to exactly width x height
//	contain  scaled uniformly to fit inside, letterboxed
//	cover    scaled uniformly to fill, center-cropped
func Render(src image.Image, width, height int, fitting model.Fitting) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return &image.NRGBA{}
	}
	canvas := imaging.New(width, height, Background)
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return canvas
	}

	switch fitting {
	case model.FittingCenter:
		return imaging.PasteCenter(canvas, src)
	case model.FittingTile:
		for y := 0; y < height; y += sb.Dy() {
			for x := 0; x < width; x += sb.Dx() {
				draw.Draw(canvas, image.Rect(x, y, x+sb.Dx(), y+sb.Dy()), src, sb.Min, draw.Src)
			}
		}
		return canvas
	case model.FittingStretch:
		return imaging.Resize(src, width, height, imaging.Lanczos)
	case model.FittingContain:
		w, h := containSize(sb.Dx(), sb.Dy(), width, height)
		return imaging.PasteCenter(canvas, imaging.Resize(src, w, h, imaging.Lanczos))
	default:
		return imaging.Fill(src, width, height, imaging.Center, imaging.Lanczos)
	}
}

// containSize scales (w, h) uniformly so it fits in (maxW, maxH), growing it
// if needed.
func containSize(w, h, maxW, maxH int) (int, int) {
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}
