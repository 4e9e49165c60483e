package pixel

import "image/color"

// DACModel is the color model of the palette DAC.
var DACModel color.Model = color.ModelFunc(dacModel)

// Standard palette indices.
const (
	Black = 0
	White = 15

	// FirstFree is the first palette index that is not part of the standard
	// 16 color set.
	FirstFree = 16
)

// DAC represents one palette register, 6 bits each of red, green and blue.
type DAC struct {
	R, G, B uint8
}

func (c DAC) RGBA() (r, g, b, a uint32) {
	r = uint32(Expand6(c.R))
	g = uint32(Expand6(c.G))
	b = uint32(Expand6(c.B))
	// Duplicate the whole value in the high byte.
	r |= r << 8
	g |= g << 8
	b |= b << 8
	return r, g, b, 0xffff
}

func dacModel(c color.Color) color.Color {
	if _, ok := c.(DAC); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return DAC{
		R: uint8(r >> 10),
		G: uint8(g >> 10),
		B: uint8(b >> 10),
	}
}

// Clamp6 pulls v into the 6-bit range [0, 63].
func Clamp6(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0x3f {
		return 0x3f
	}
	return uint8(v)
}

// Expand6 widens a 6-bit component to 8 bits, duplicating the high bits in the low bits.
func Expand6(v uint8) uint8 {
	v &= 0x3f
	return v<<2 | v>>4
}

// Palette is a full set of 256 DAC registers.
type Palette [256]DAC

// DefaultPalette returns the power-on palette: the 16 standard colors, a 6x6x6 color cube
// and a 24 step gray ramp.
func DefaultPalette() Palette {
	var p Palette
	copy(p[:], []DAC{
		{0, 0, 0},    // black
		{0, 0, 42},   // blue
		{0, 42, 0},   // green
		{0, 42, 42},  // cyan
		{42, 0, 0},   // red
		{42, 0, 42},  // magenta
		{42, 21, 0},  // brown
		{42, 42, 42}, // light gray
		{21, 21, 21}, // dark gray
		{21, 21, 63}, // light blue
		{21, 63, 21}, // light green
		{21, 63, 63}, // light cyan
		{63, 21, 21}, // light red
		{63, 21, 63}, // light magenta
		{63, 63, 21}, // yellow
		{63, 63, 63}, // white
	})

	i := FirstFree
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[i] = DAC{uint8(r * 63 / 5), uint8(g * 63 / 5), uint8(b * 63 / 5)}
				i++
			}
		}
	}
	for y := 0; i < len(p); y++ {
		v := uint8(y * 63 / 23)
		p[i] = DAC{v, v, v}
		i++
	}
	return p
}

// Colors returns the palette as a [color.Palette].
func (p *Palette) Colors() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = c
	}
	return out
}
