package gfx

import (
	"image"

	"github.com/BeatGlow/gfx/draw"
)

// context returns the active context for h. The caller holds d.mu.
func (d *Device) context(op string, h Handle) (*deviceContext, error) {
	c := d.pool.get(h)
	if c == nil {
		d.log.Debug("rejected", "op", op, "handle", h, "error", ErrInvalidHandle)
		return nil, ErrInvalidHandle
	}
	return c, nil
}

// SetPixel writes the foreground color at (x, y). Points outside the surface are
// rejected with ErrOutOfBounds. The cursor does not move.
func (d *Device) SetPixel(h Handle, x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.context("set_pixel", h); err != nil {
		return err
	}
	if !(image.Point{X: x, Y: y}).In(d.plane.Bounds()) {
		return ErrOutOfBounds
	}
	d.plane.SetColorIndex(x, y, Foreground)
	return nil
}

// MoveTo sets the cursor of h to (x, y), clamped to the surface.
func (d *Device) MoveTo(h Handle, x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.context("move_to", h)
	if err != nil {
		return err
	}
	c.cursor = clampPoint(x, y)
	return nil
}

// LineTo draws a line in the pen color from the cursor to (x, y), clamped to the
// surface, and leaves the cursor at the end point.
func (d *Device) LineTo(h Handle, x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.context("line_to", h)
	if err != nil {
		return err
	}
	to := clampPoint(x, y)
	draw.Line(d.plane, c.cursor, to, c.pen)
	c.cursor = to
	return nil
}

// SelectPen sets the pen color of h. The index must be in [MinPen, MaxPen].
func (d *Device) SelectPen(h Handle, index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.context("select_pen", h)
	if err != nil {
		return err
	}
	if index < MinPen || index > MaxPen {
		return ErrInvalidArgument
	}
	c.pen = uint8(index)
	return nil
}

// FillRect fills rect in the pen color. Left and top are raised to zero, right and
// bottom are lowered to the last column and row; a rectangle that is empty afterwards
// is rejected with ErrInvalidRect.
func (d *Device) FillRect(h Handle, rect Rect) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.context("fill_rect", h)
	if err != nil {
		return err
	}
	if rect = rect.clip(); !rect.valid() {
		return ErrInvalidRect
	}
	draw.Box(d.plane, rect.Rectangle(), c.pen)
	return nil
}

// FrameRect draws the outline of rect in the pen color, clipping like FillRect.
func (d *Device) FrameRect(h Handle, rect Rect) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.context("frame_rect", h)
	if err != nil {
		return err
	}
	if rect = rect.clip(); !rect.valid() {
		return ErrInvalidRect
	}
	draw.Rectangle(d.plane, rect.Rectangle(), c.pen)
	return nil
}
