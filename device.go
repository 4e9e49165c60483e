package gfx

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"sync"

	"github.com/go-errors/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/BeatGlow/gfx/conn"
	"github.com/BeatGlow/gfx/framebuffer"
	"github.com/BeatGlow/gfx/pixel"
)

// Device owns the surface, the palette and the pool of device contexts.
//
// All methods are safe for concurrent use.
type Device struct {
	mu      sync.Mutex
	plane   framebuffer.Plane
	palette *paletteProgrammer
	pool    contextPool
	face    font.Face
	log     *slog.Logger
}

// paletteMirror is implemented by planes that resolve indices to colors themselves.
type paletteMirror interface {
	SetPaletteColor(i int, c color.Color)
}

// New creates a device drawing on plane and programming the palette through ports.
// The plane must be exactly Width by Height pixels.
func New(plane framebuffer.Plane, ports conn.PortWriter, config *Config) (*Device, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	if plane == nil || ports == nil {
		return nil, errors.New("gfx: plane and ports are required")
	}
	if plane.Bounds() != image.Rect(0, 0, Width, Height) {
		return nil, framebuffer.ErrSurfaceSize
	}

	d := &Device{
		plane:   plane,
		palette: newPaletteProgrammer(ports),
		face:    config.Font,
		log:     config.Logger,
	}
	if d.face == nil {
		d.face = basicfont.Face7x13
	}
	if d.log == nil {
		d.log = defaultLogger()
	}
	if config.ClearOnInit {
		plane.FillIndex(pixel.Black)
	}
	d.log.Debug("device ready", "surface", plane, "ports", ports)
	return d, nil
}

// Close closes the plane and the ports if they hold resources.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	if c, ok := d.plane.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := d.palette.ports.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// AcquireContext takes the lowest numbered free context. The context starts at the
// origin with the default pen. It returns InvalidHandle and ErrNoFreeContext when all
// contexts are in use.
func (d *Device) AcquireContext() (Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, ok := d.pool.acquire()
	if !ok {
		d.log.Debug("acquire failed, pool exhausted", "size", MaxContexts)
		return InvalidHandle, ErrNoFreeContext
	}
	d.log.Debug("acquire", "handle", h)
	return h, nil
}

// ReleaseContext returns h to the pool.
func (d *Device) ReleaseContext(h Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pool.release(h) {
		d.log.Debug("release rejected", "handle", h)
		return ErrInvalidHandle
	}
	d.log.Debug("release", "handle", h)
	return nil
}

// InUse returns the number of acquired contexts.
func (d *Device) InUse() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pool.count()
}

// Cursor returns the current position of h.
func (d *Device) Cursor(h Handle) (image.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := d.pool.get(h)
	if c == nil {
		return image.Point{}, ErrInvalidHandle
	}
	return c.cursor, nil
}

// Pen returns the pen color of h.
func (d *Device) Pen(h Handle) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := d.pool.get(h)
	if c == nil {
		return 0, ErrInvalidHandle
	}
	return c.pen, nil
}

// SetPaletteEntry programs palette entry index, which must be in [MinPen, MaxPen].
// Components are clamped to [0, 63].
func (d *Device) SetPaletteEntry(index, r, g, b int) error {
	c, err := d.palette.set(index, r, g, b)
	if err != nil {
		d.log.Debug("palette rejected", "index", index, "error", err)
		return err
	}
	d.log.Debug("palette", "index", index, "r", c.R, "g", c.G, "b", c.B)

	if m, ok := d.plane.(paletteMirror); ok {
		d.mu.Lock()
		m.SetPaletteColor(index, c)
		d.mu.Unlock()
	}
	return nil
}

// PaletteEntry returns the last value programmed for index.
func (d *Device) PaletteEntry(index uint8) pixel.DAC {
	return d.palette.entry(index)
}

// ClearSurface sets every pixel to black.
func (d *Device) ClearSurface() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.plane.FillIndex(pixel.Black)
}
