// Package raster rasterizes decoded glyph outlines onto a pixel canvas: a
// fixed-size RGB buffer with line/rectangle/Bezier stamping primitives, and
// a scan-line filler that walks a glyph's contours to produce spans.
package raster

import (
	"math"

	"github.com/glyphrender/ttfrender/geom"
)

// Color is an 8-bit-per-channel RGB color.
type Color struct {
	R, G, B uint8
}

// Canvas is a fixed-size RGB pixel grid, origin top-left, Y growing
// downward.
type Canvas struct {
	Width, Height int
	pix           []Color
}

// NewCanvas allocates a w x h canvas, initialized to the zero Color.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, pix: make([]Color, w*h)}
}

// At returns the color at (x, y), or the zero Color if out of range.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return Color{}
	}
	return c.pix[y*c.Width+x]
}

// Set writes col at (x, y); out-of-range coordinates are silently ignored.
func (c *Canvas) Set(x, y int, col Color) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.pix[y*c.Width+x] = col
}

// drawRect fills an integer-bounded rectangle of size w x h centered on
// (cx, cy), clipped to the canvas.
func (c *Canvas) drawRect(cx, cy, w, h int, col Color) {
	x0, y0 := cx-w/2, cy-h/2
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			c.Set(x, y, col)
		}
	}
}

// DrawLine draws a line from a to b, thickness pixels wide, using an
// integer DDA walk along the major axis: decide steepness by |dx| vs |dy|,
// swap ends so the walk proceeds left-to-right (or top-to-bottom) along
// that axis, and stamp a thickness x thickness rectangle at each sample.
func (c *Canvas) DrawLine(a, b geom.Vec2, thickness int, col Color) {
	dx, dy := b.X-a.X, b.Y-a.Y
	if absF(dx) >= absF(dy) {
		if a.X > b.X {
			a, b = b, a
		}
		steps := int(math.Round(float64(b.X - a.X)))
		if steps == 0 {
			c.drawRect(int(math.Round(float64(a.X))), int(math.Round(float64(a.Y))), thickness, thickness, col)
			return
		}
		slope := (b.Y - a.Y) / float32(steps)
		x0 := int(math.Round(float64(a.X)))
		for i := 0; i <= steps; i++ {
			x := x0 + i
			y := a.Y + slope*float32(i)
			c.drawRect(x, int(math.Round(float64(y))), thickness, thickness, col)
		}
		return
	}
	if a.Y > b.Y {
		a, b = b, a
	}
	steps := int(math.Round(float64(b.Y - a.Y)))
	if steps == 0 {
		c.drawRect(int(math.Round(float64(a.X))), int(math.Round(float64(a.Y))), thickness, thickness, col)
		return
	}
	slope := (b.X - a.X) / float32(steps)
	y0 := int(math.Round(float64(a.Y)))
	for i := 0; i <= steps; i++ {
		y := y0 + i
		x := a.X + slope*float32(i)
		c.drawRect(int(math.Round(float64(x))), y, thickness, thickness, col)
	}
}

// DrawBezier approximates the quadratic Bezier (p0, c, p1) with a polyline
// of max(1, ceil(|c-p0| + |p1-c|)) segments.
func (c *Canvas) DrawBezier(p0, ctrl, p1 geom.Vec2, thickness int, col Color) {
	segLen := vecLen(ctrl.Sub(p0)) + vecLen(p1.Sub(ctrl))
	n := int(math.Ceil(float64(segLen)))
	if n < 1 {
		n = 1
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float32(i) / float32(n)
		cur := geom.QuadBezier(p0, ctrl, p1, t)
		c.DrawLine(prev, cur, thickness, col)
		prev = cur
	}
}

func absF(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func vecLen(v geom.Vec2) float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}
