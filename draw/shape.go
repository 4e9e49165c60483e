package draw

import (
	"image"
)

// Line draws a line between two points, both end points included.
//
// Points outside the plane are skipped, the line is not shortened.
func Line(dst Plane, a, b image.Point, index uint8) {
	var (
		bounds = dst.Bounds()
		dx     = abs(b.X - a.X)
		dy     = -abs(b.Y - a.Y)
		sx     = -1
		sy     = -1
		e      = dx + dy
		p      = a
	)
	if a.X < b.X {
		sx = 1
	}
	if a.Y < b.Y {
		sy = 1
	}

	for {
		if p.In(bounds) {
			dst.SetColorIndex(p.X, p.Y, index)
		}
		if p == b {
			return
		}

		// Both steps may fire in one iteration, that is a diagonal step.
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p.X += sx
		}
		if e2 <= dx {
			e += dx
			p.Y += sy
		}
	}
}

// HorizontalLine draws a line between (x,y) and (x+w-1,y).
func HorizontalLine(dst Plane, x, y, w int, index uint8) {
	if w <= 0 {
		return
	}
	Line(dst, image.Pt(x, y), image.Pt(x+w-1, y), index)
}

// VerticalLine draws a line between (x,y) and (x,y+h-1).
func VerticalLine(dst Plane, x, y, h int, index uint8) {
	if h <= 0 {
		return
	}
	Line(dst, image.Pt(x, y), image.Pt(x, y+h-1), index)
}

// Rectangle draws the outline of rect.
func Rectangle(dst Plane, rect image.Rectangle, index uint8) {
	if rect.Empty() {
		return
	}
	var (
		w = rect.Dx()
		h = rect.Dy()
	)
	HorizontalLine(dst, rect.Min.X, rect.Min.Y, w, index)
	HorizontalLine(dst, rect.Min.X, rect.Max.Y-1, w, index)
	VerticalLine(dst, rect.Min.X, rect.Min.Y, h, index)
	VerticalLine(dst, rect.Max.X-1, rect.Min.Y, h, index)
}

// Box draws a filled rectangle, row by row from top to bottom and left to right
// within a row. The rectangle is clipped to the plane.
func Box(dst Plane, rect image.Rectangle, index uint8) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.SetColorIndex(x, y, index)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
