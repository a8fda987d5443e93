// Package ttfface adapts an sfnt.Font to golang.org/x/image/font.Face, so
// fonts decoded by this module can be used with the wider x/image text
// layout and drawing tooling.
package ttfface

import (
	"image"
	"image/color"

	"github.com/glyphrender/ttfrender/geom"
	"github.com/glyphrender/ttfrender/raster"
	"github.com/glyphrender/ttfrender/sfnt"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// face implements golang.org/x/image/font.Face over an sfnt.Font, scaled
// to one fixed pixel size.
type face struct {
	f     *sfnt.Font
	scale float32 // design units -> pixels (callers multiply by 64 for 26.6)
}

// NewFace returns a font.Face for f at the given point size and DPI. A
// non-positive size defaults to 12pt and a non-positive dpi to 72, each
// independently, matching the convention the original truetype package's
// NewFace used.
func NewFace(f *sfnt.Font, size, dpi float64) font.Face {
	if size <= 0 {
		size = 12
	}
	if dpi <= 0 {
		dpi = 72
	}
	m := f.Metrics()
	span := float64(m.Ascent) - float64(m.Descent)
	if span <= 0 {
		span = 1000
	}
	pixelHeight := size * dpi / 72
	return &face{f: f, scale: float32(pixelHeight / span)}
}

func (a *face) Close() error { return nil }

// Kern is not modeled by this decoder's tables (no kern/GPOS support); it
// always returns zero, same as the teacher's no-hinting default path.
func (a *face) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

func (a *face) Metrics() font.Metrics {
	m := a.f.Metrics()
	ascent := fixed.Int26_6(float32(m.Ascent) * a.scale * 64)
	descent := fixed.Int26_6(float32(-m.Descent) * a.scale * 64)
	return font.Metrics{
		Height:  ascent + descent,
		Ascent:  ascent,
		Descent: descent,
	}
}

func (a *face) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	idx, err := a.f.Index(r)
	if err != nil {
		return 0, false
	}
	metric, err := a.f.Advance(idx)
	if err != nil {
		return 0, false
	}
	return fixed.Int26_6(float32(metric.AdvanceWidth) * a.scale * 64), true
}

func (a *face) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	idx, err := a.f.Index(r)
	if err != nil {
		return fixed.Rectangle26_6{}, 0, false
	}
	g, err := a.f.LoadGlyph(idx)
	if err != nil {
		return fixed.Rectangle26_6{}, 0, false
	}
	var rect sfnt.Rect
	for i, c := range g.Components {
		if i == 0 || c.BoundingRect.XMin < rect.XMin {
			rect.XMin = c.BoundingRect.XMin
		}
		if i == 0 || c.BoundingRect.XMax > rect.XMax {
			rect.XMax = c.BoundingRect.XMax
		}
		if i == 0 || c.BoundingRect.YMin < rect.YMin {
			rect.YMin = c.BoundingRect.YMin
		}
		if i == 0 || c.BoundingRect.YMax > rect.YMax {
			rect.YMax = c.BoundingRect.YMax
		}
	}
	bounds = fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: toFixed(float32(rect.XMin) * a.scale), Y: toFixed(-float32(rect.YMax) * a.scale)},
		Max: fixed.Point26_6{X: toFixed(float32(rect.XMax) * a.scale), Y: toFixed(-float32(rect.YMin) * a.scale)},
	}
	adv, _ := a.GlyphAdvance(r)
	return bounds, adv, true
}

// Glyph rasterizes r at dot and returns it as an *image.Alpha mask, the
// way the teacher's face.Glyph method composes a per-call mask rather than
// caching a glyph atlas.
func (a *face) Glyph(dot fixed.Point26_6, r rune) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	idx, err := a.f.Index(r)
	if err != nil {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	g, err := a.f.LoadGlyph(idx)
	if err != nil {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}

	var rect sfnt.Rect
	for i, c := range g.Components {
		if i == 0 || c.BoundingRect.XMin < rect.XMin {
			rect.XMin = c.BoundingRect.XMin
		}
		if i == 0 || c.BoundingRect.XMax > rect.XMax {
			rect.XMax = c.BoundingRect.XMax
		}
		if i == 0 || c.BoundingRect.YMin < rect.YMin {
			rect.YMin = c.BoundingRect.YMin
		}
		if i == 0 || c.BoundingRect.YMax > rect.YMax {
			rect.YMax = c.BoundingRect.YMax
		}
	}

	ix, iy := int(dot.X>>6), int(dot.Y>>6)
	w := int((float32(rect.XMax-rect.XMin) * a.scale)) + 2
	h := int((float32(rect.YMax-rect.YMin) * a.scale)) + 2
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	canvas := raster.NewCanvas(w, h)

	xf := geom.Matrix3{
		A: a.scale, B: 0, C: 0, D: -a.scale,
		E: -float32(rect.XMin) * a.scale,
		F: float32(rect.YMax) * a.scale,
	}
	for _, c := range g.Components {
		coords := make([]geom.Vec2, len(c.Coordinates))
		var bounds sfnt.Rect
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
		raster.FillComponent(canvas, c, raster.NonZero, raster.Color{R: 255, G: 255, B: 255})
	}

	alpha := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.At(x, y) != (raster.Color{}) {
				alpha.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}

	dr = image.Rectangle{
		Min: image.Point{X: ix, Y: iy - h},
		Max: image.Point{X: ix + w, Y: iy},
	}
	adv, _ := a.GlyphAdvance(r)
	return dr, alpha, image.Point{}, adv, true
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
