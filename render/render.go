// Package render drives a parsed font and the raster package together: it
// scales and positions a run of code points along a baseline and paints
// each glyph's filled outline onto a canvas.
package render

import (
	"fmt"

	"github.com/glyphrender/ttfrender/geom"
	"github.com/glyphrender/ttfrender/raster"
	"github.com/glyphrender/ttfrender/sfnt"
)

// GlyphNotFoundError reports that a code point in the requested text has
// no mapping in the font's cmap.
type GlyphNotFoundError struct {
	CodePoint rune
}

func (e GlyphNotFoundError) Error() string {
	return fmt.Sprintf("render: no glyph for code point U+%04X", e.CodePoint)
}

// cacheEntry memoizes one glyph's decoded components, keyed by glyph index,
// so repeated code points in a run don't re-walk the glyf table.
type cacheEntry struct {
	valid      bool
	components []sfnt.GlyphComponent
}

// Context drives rendering of text runs against one font at one pixel
// height, reusing a small per-glyph-index decode cache across calls.
type Context struct {
	font   *sfnt.Font
	Height float64
	Color  raster.Color
	Rule   raster.FillRule

	cache map[sfnt.GlyphIndex]cacheEntry
}

// NewContext creates a rendering context for f, targeting the given pixel
// height and using the non-zero winding fill rule by default. The default
// Color is a dark grey rather than black, because a fresh raster.Canvas
// holds the zero Color (black) and black text could not be told apart from
// unpainted pixels.
func NewContext(f *sfnt.Font, height float64) *Context {
	return &Context{
		font:   f,
		Height: height,
		Color:  raster.Color{R: 0x1f, G: 0x1f, B: 0x1f},
		Rule:   raster.NonZero,
		cache:  make(map[sfnt.GlyphIndex]cacheEntry),
	}
}

// scale returns the design-unit-to-pixel scale factor for the context's
// target height, derived from the font's ascent/descent span.
func (ctx *Context) scale() float32 {
	m := ctx.font.Metrics()
	span := float64(m.Ascent) - float64(m.Descent)
	if span <= 0 {
		return 1
	}
	return float32(ctx.Height / span)
}

func (ctx *Context) loadCached(i sfnt.GlyphIndex) ([]sfnt.GlyphComponent, error) {
	if e, ok := ctx.cache[i]; ok && e.valid {
		return e.components, nil
	}
	g, err := ctx.font.LoadGlyph(i)
	if err != nil {
		return nil, err
	}
	ctx.cache[i] = cacheEntry{valid: true, components: g.Components}
	return g.Components, nil
}

// RenderText draws text onto canvas, left-to-right starting at xOrigin on
// the baseline row implied by the font's ascent, and returns the total
// horizontal advance in pixels. Rendering stops and returns
// GlyphNotFoundError at the first code point absent from the font's cmap;
// nothing already drawn is undone.
func (ctx *Context) RenderText(canvas *raster.Canvas, text string, xOrigin float64) (float64, error) {
	scale := ctx.scale()
	yBaseline := float32(ctx.font.Metrics().Ascent) * scale
	x := float32(xOrigin)

	for _, cp := range text {
		idx, err := ctx.font.Index(cp)
		if err != nil {
			return float64(x) - xOrigin, GlyphNotFoundError{CodePoint: cp}
		}

		components, err := ctx.loadCached(idx)
		if err != nil {
			return float64(x) - xOrigin, err
		}

		// Y-up design space -> Y-down canvas space: flip Y, scale both
		// axes, and place the glyph's origin at (x, yBaseline).
		xf := geom.Matrix3{A: scale, B: 0, C: 0, D: -scale, E: x, F: yBaseline}
		for _, comp := range components {
			transformed := transformComponent(comp, xf)
			raster.FillComponent(canvas, transformed, ctx.Rule, ctx.Color)
		}

		metric, err := ctx.font.Advance(idx)
		if err != nil {
			return float64(x) - xOrigin, err
		}
		x += float32(metric.AdvanceWidth) * scale
	}
	return float64(x) - xOrigin, nil
}

// transformComponent re-projects a component's already-design-space
// coordinates through xf, recomputing its bounding rect; the decode-time
// transform and this one compose, since sfnt.Glyph coordinates are plain
// design-unit points for an identity-loaded glyph.
func transformComponent(c sfnt.GlyphComponent, xf geom.Matrix3) sfnt.GlyphComponent {
	coords := make([]geom.Vec2, len(c.Coordinates))
	bounds := sfnt.Rect{}
	for i, p := range c.Coordinates {
		tp := xf.Apply(p)
		coords[i] = tp
		xi, yi := int32(tp.X), int32(tp.Y)
		if i == 0 || xi < bounds.XMin {
			bounds.XMin = xi
		}
		if i == 0 || xi > bounds.XMax {
			bounds.XMax = xi
		}
		if i == 0 || yi < bounds.YMin {
			bounds.YMin = yi
		}
		if i == 0 || yi > bounds.YMax {
			bounds.YMax = yi
		}
	}
	c.Coordinates = coords
	c.BoundingRect = bounds
	return c
}
