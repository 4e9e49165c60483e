// Package framebuffer provides the 320x200 8-bit indexed pixel plane that all drawing
// funnels through.
//
// A [Surface] is backed by ordinary memory ([New]), by the legacy VGA window mapped from
// physical memory ([OpenMem]) or by a Linux framebuffer device running at 320x200 with
// 8 bits per pixel ([OpenDevice]). The hardware backed surfaces are only available on Linux.
package framebuffer

import (
	"fmt"
	"image"

	"github.com/go-errors/errors"
	"golang.org/x/image/draw"
	periph "periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"

	gfxdraw "github.com/BeatGlow/gfx/draw"
	"github.com/BeatGlow/gfx/pixel"
)

// Surface dimensions.
const (
	Width  = 320
	Height = 200
)

// Errors
var (
	ErrNotSupported = errors.New("framebuffer: not supported")
	ErrSurfaceSize  = errors.Errorf("framebuffer: surface is not %dx%d with 8 bits per pixel", Width, Height)
)

// Plane is a pixel plane addressed by palette index.
type Plane interface {
	gfxdraw.Plane

	// ColorIndexAt returns the palette index at (x, y).
	ColorIndexAt(x, y int) uint8

	// FillIndex sets every pixel of the plane to index.
	FillIndex(index uint8)
}

// Config describes where a hardware surface lives.
type Config struct {
	// Device is the path of the memory or framebuffer device.
	Device string

	// Base is the physical address of the VGA window, only used by [OpenMem].
	Base int64
}

// DefaultMemConfig maps the VGA window at 0xA0000 from /dev/mem.
var DefaultMemConfig = Config{
	Device: "/dev/mem",
	Base:   0xA0000,
}

// DefaultDeviceConfig uses the first Linux framebuffer device.
var DefaultDeviceConfig = Config{
	Device: "/dev/fb0",
}

// Surface is a 320x200 plane of palette indices.
type Surface struct {
	*pixel.Indexed8Image
	name  string
	unmap func() error
}

// New allocates a surface in memory.
func New() *Surface {
	return &Surface{
		Indexed8Image: pixel.NewIndexed8Image(Width, Height),
		name:          "memory",
	}
}

func (s *Surface) String() string {
	return fmt.Sprintf("framebuffer %s (%dx%d)", s.name, s.Rect.Dx(), s.Rect.Dy())
}

// Halt implements [periph.Resource]; a surface has no operation in flight.
func (s *Surface) Halt() error {
	return nil
}

// Close releases the mapping of a hardware surface.
func (s *Surface) Close() error {
	if s.unmap == nil {
		return nil
	}
	err := s.unmap()
	s.unmap = nil
	return err
}

// Draw copies src onto the surface, pixels are mapped to the nearest palette entry.
//
// Only the part of r within the surface is updated.
func (s *Surface) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if src == nil {
		return errors.New("framebuffer: nil source image")
	}
	gfxdraw.Draw(s, r.Intersect(s.Rect), src, sp, gfxdraw.Src)
	return nil
}

// DrawScaled scales all of src into r using nearest neighbour sampling.
func (s *Surface) DrawScaled(r image.Rectangle, src image.Image) error {
	if src == nil {
		return errors.New("framebuffer: nil source image")
	}
	draw.NearestNeighbor.Scale(s, r, src, src.Bounds(), draw.Src, nil)
	return nil
}

// Interface checks.
var (
	_ Plane           = (*Surface)(nil)
	_ display.Drawer  = (*Surface)(nil)
	_ periph.Resource = (*Surface)(nil)
)
