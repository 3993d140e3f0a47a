package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxSize caps the larger side of a thumbnail before it is cropped.
	DefaultMaxSize = 512
	// DefaultPlaceholderSize is the side of the blank image used for files
	// that cannot be decoded.
	DefaultPlaceholderSize = 128
)

// DecodeError reports an image file that could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder turns a file path into an image.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(path string) (image.Image, error)

func (f DecoderFunc) Decode(path string) (image.Image, error) { return f(path) }

// FileDecoder decodes image files from disk, honoring EXIF orientation.
var FileDecoder Decoder = DecoderFunc(func(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
})

// Resize shrinks img with a Gaussian filter so that neither side exceeds
// maxSize, preserving aspect ratio. Images already within bounds are copied
// unscaled.
func Resize(img image.Image, maxSize int) *image.NRGBA {
	return imaging.Fit(img, maxSize, maxSize, imaging.Gaussian)
}

// CropSquare cuts the largest centered square out of img.
func CropSquare(img image.Image) *image.NRGBA {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	return imaging.CropCenter(img, side, side)
}

// Placeholder returns a transparent size x size image.
func Placeholder(size int) *image.NRGBA {
	return imaging.New(size, size, color.NRGBA{})
}

// Make decodes path and produces a square thumbnail no larger than maxSize,
// along with the source dimensions.
func Make(dec Decoder, path string, maxSize int) (*image.NRGBA, image.Point, error) {
	img, err := dec.Decode(path)
	if err != nil {
		var de *DecodeError
		if !errors.As(err, &de) {
			err = &DecodeError{Path: path, Err: err}
		}
		return nil, image.Point{}, err
	}
	original := img.Bounds().Size()
	if original.X <= 0 || original.Y <= 0 {
		return nil, image.Point{}, &DecodeError{Path: path, Err: fmt.Errorf("empty image %dx%d", original.X, original.Y)}
	}
	return CropSquare(Resize(img, maxSize)), original, nil
}
