package gfx

import (
	"image"
	"os"

	"github.com/go-errors/errors"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// LoadFont reads a TrueType font for use as Config.Font.
func LoadFont(name string, size float64) (font.Face, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.WrapPrefix(err, "gfx: font", 0)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.WrapPrefix(err, "gfx: font "+name, 0)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// TextOut renders s in the pen color with the top left corner of the first glyph at
// the cursor. The cursor does not move.
func (d *Device) TextOut(h Handle, s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.context("text_out", h)
	if err != nil {
		return err
	}

	var (
		dot = fixed.Point26_6{
			X: fixed.I(c.cursor.X),
			Y: fixed.I(c.cursor.Y) + d.face.Metrics().Ascent,
		}
		prev rune = -1
	)
	for _, r := range s {
		if prev >= 0 {
			dot.X += d.face.Kern(prev, r)
		}
		dr, mask, mp, advance, ok := d.face.Glyph(dot, r)
		if !ok {
			continue
		}
		d.plotMask(dr, mask, mp, c.pen)
		dot.X += advance
		prev = r
	}
	return nil
}

// plotMask sets every pixel of dr whose mask coverage is at least one half.
func (d *Device) plotMask(dr image.Rectangle, mask image.Image, mp image.Point, index uint8) {
	bounds := d.plane.Bounds()
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			_, _, _, a := mask.At(mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y).RGBA()
			if a >= 0x8000 {
				d.plane.SetColorIndex(x, y, index)
			}
		}
	}
}
