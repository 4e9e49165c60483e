// Package gfx is a small raster graphics subsystem for a 320x200 surface with 256
// palette colors.
//
// Callers draw through device contexts taken from a fixed pool:
//
//	h, err := dev.AcquireContext()
//	if err != nil {
//		return err
//	}
//	defer dev.ReleaseContext(h)
//
//	dev.SelectPen(h, 40)
//	dev.MoveTo(h, 0, 0)
//	dev.LineTo(h, 319, 199)
//
// Coordinates passed to MoveTo, LineTo and FillRect are clamped to the surface, while
// SetPixel, SelectPen and SetPaletteEntry reject out of range arguments.
package gfx

import (
	"image"

	"github.com/BeatGlow/gfx/framebuffer"
	"github.com/BeatGlow/gfx/pixel"
)

// Surface dimensions.
const (
	Width  = framebuffer.Width
	Height = framebuffer.Height
)

const (
	// MaxContexts is the number of device contexts in the pool.
	MaxContexts = 20

	// DefaultPen is the pen color of a freshly acquired context.
	DefaultPen = pixel.White

	// Foreground is the color written by SetPixel.
	Foreground = pixel.White

	// MinPen and MaxPen bound the palette indices available for drawing.
	MinPen = pixel.FirstFree
	MaxPen = 255
)

// Rect is a rectangle with inclusive edges.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Rectangle converts r to an [image.Rectangle].
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right+1, r.Bottom+1)
}

// clip pulls left and top up to the surface origin and right and bottom down to the
// last row and column. The opposite edges are left alone.
func (r Rect) clip() Rect {
	if r.Left < 0 {
		r.Left = 0
	}
	if r.Top < 0 {
		r.Top = 0
	}
	if r.Right >= Width {
		r.Right = Width - 1
	}
	if r.Bottom >= Height {
		r.Bottom = Height - 1
	}
	return r
}

func (r Rect) valid() bool {
	return r.Left <= r.Right && r.Top <= r.Bottom
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPoint(x, y int) image.Point {
	return image.Pt(clamp(x, Width-1), clamp(y, Height-1))
}
