package termimage

import (
	"image"

	"github.com/1broseidon/walltile/internal/thumbnail"
)

// HalfblockUploader pre-renders each thumbnail as a half block string of at
// most cols x rows cells. The resulting entry texture is a string.
func HalfblockUploader(cols, rows int) thumbnail.Uploader {
	return thumbnail.UploaderFunc(func(img *image.NRGBA) (any, error) {
		return Halfblocks(img, cols, rows), nil
	})
}
