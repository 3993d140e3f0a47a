package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Root pixmap properties read by compositors, terminals and other setters.
var rootPixmapAtoms = []string{"_XROOTPMAP_ID", "ESETROOT_PMAP_ID"}

// RootSize returns the size of the root window in pixels.
func (c *Connection) RootSize() (int, int) {
	screen := c.XUtil.Screen()
	return int(screen.WidthInPixels), int(screen.HeightInPixels)
}

// CurrentBackground reads the pixmap advertised in _XROOTPMAP_ID. It fails
// when no client has set one or its size no longer matches the root.
func (c *Connection) CurrentBackground() (image.Image, error) {
	pix, err := xprop.PropValNum(xprop.GetProperty(c.XUtil, c.Root, rootPixmapAtoms[0]))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rootPixmapAtoms[0], err)
	}
	if pix == 0 {
		return nil, fmt.Errorf("%s is unset", rootPixmapAtoms[0])
	}
	img, err := xgraphics.NewDrawable(c.XUtil, xproto.Drawable(pix))
	if err != nil {
		return nil, fmt.Errorf("read root pixmap: %w", err)
	}
	w, h := c.RootSize()
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		img.Destroy()
		return nil, fmt.Errorf("root pixmap is %dx%d, root is %dx%d", b.Dx(), b.Dy(), w, h)
	}
	return img, nil
}

// PaintRoot installs img as the root window background and advertises it
// through the root pixmap properties. The previous pixmap set by this
// connection is released once the new one is in place.
func (c *Connection) PaintRoot(img image.Image) error {
	ximg := xgraphics.NewConvert(c.XUtil, img)
	if err := ximg.CreatePixmap(); err != nil {
		return fmt.Errorf("create pixmap: %w", err)
	}
	ximg.XDraw()
	ximg.XPaint(c.Root)

	for _, atom := range rootPixmapAtoms {
		if err := xprop.ChangeProp32(c.XUtil, c.Root, atom, "PIXMAP", uint(ximg.Pixmap)); err != nil {
			ximg.Destroy()
			return fmt.Errorf("set %s: %w", atom, err)
		}
	}

	c.bgMu.Lock()
	prev := c.background
	c.background = ximg
	c.bgMu.Unlock()

	if prev != nil {
		prev.Destroy()
	}
	c.XUtil.Sync()
	return nil
}
