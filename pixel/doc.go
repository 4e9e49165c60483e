// Package pixel implements the indexed color model of a 256 color VGA style raster.
//
// Pixels are 8-bit palette indices; the palette holds 18-bit DAC values (6 bits per
// component). The types are compatible with Go's native [color.Color] and
// [image.Image] / [draw.Image] interfaces.
package pixel
