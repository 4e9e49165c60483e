package pixel

import (
	"image"
	"image/color"

	"github.com/BeatGlow/gfx/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// Indexed8Image is an 8-bits per pixel palette indexed image.
//
// Pixels are stored row-major, the pixel at (x, y) lives at Pix[y*Stride+x].
type Indexed8Image struct {
	Buffer

	// Palette resolves pixel indices to colors.
	Palette color.Palette
}

// NewIndexed8Image allocates an image using the default palette.
func NewIndexed8Image(w, h int) *Indexed8Image {
	palette := DefaultPalette()
	return &Indexed8Image{
		Buffer:  makeBuffer(w, h, w, w*h),
		Palette: palette.Colors(),
	}
}

// WrapIndexed8Image uses pix as the backing store of a w by h image. The pix slice
// must hold at least w*h bytes.
func WrapIndexed8Image(pix []byte, w, h int) *Indexed8Image {
	palette := DefaultPalette()
	return &Indexed8Image{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    pix[:w*h],
			Stride: w,
		},
		Palette: palette.Colors(),
	}
}

func (p *Indexed8Image) ColorModel() color.Model {
	return p.Palette
}

func (p *Indexed8Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

func (p *Indexed8Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	index := p.Pix[p.PixOffset(x, y)]
	if int(index) >= len(p.Palette) {
		return color.Transparent
	}
	return p.Palette[index]
}

func (p *Indexed8Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) || len(p.Palette) == 0 {
		return
	}
	p.Pix[p.PixOffset(x, y)] = uint8(p.Palette.Index(c))
}

// ColorIndexAt returns the palette index of the pixel at (x, y).
func (p *Indexed8Image) ColorIndexAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return 0
	}
	return p.Pix[p.PixOffset(x, y)]
}

// SetColorIndex stores index at (x, y). The point is not checked against the
// image bounds, callers clip first.
func (p *Indexed8Image) SetColorIndex(x, y int, index uint8) {
	p.Pix[p.PixOffset(x, y)] = index
}

func (p *Indexed8Image) Fill(c color.Color) {
	if len(p.Palette) == 0 {
		return
	}
	p.FillIndex(uint8(p.Palette.Index(c)))
}

// FillIndex sets every pixel to index.
func (p *Indexed8Image) FillIndex(index uint8) {
	w := p.Rect.Dx()
	for y := 0; y < p.Rect.Dy(); y++ {
		row := p.Pix[y*p.Stride : y*p.Stride+w]
		for i := range row {
			row[i] = index
		}
	}
}

// SetPaletteColor replaces palette entry i, out of range entries are ignored.
func (p *Indexed8Image) SetPaletteColor(i int, c color.Color) {
	if i >= 0 && i < len(p.Palette) {
		p.Palette[i] = c
	}
}

// Paletted returns an [image.Paletted] sharing the pixels and palette of the image.
func (p *Indexed8Image) Paletted() *image.Paletted {
	return &image.Paletted{
		Pix:     p.Pix,
		Stride:  p.Stride,
		Rect:    p.Rect,
		Palette: p.Palette,
	}
}

// Interface checks.
var (
	_ Image = (*Indexed8Image)(nil)
)
