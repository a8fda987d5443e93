// Copyright 2010 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// Command raster fills the outline of the `A' glyph from the Droid Serif
// Regular font, using this module's scan-line filler instead of stroking
// it with an edge-table rasterizer.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/glyphrender/ttfrender/geom"
	"github.com/glyphrender/ttfrender/raster"
	"github.com/glyphrender/ttfrender/sfnt"
)

// node is one vertex of a contour. degree is 1 for a line to the next
// vertex, 2 for a quadratic curve through the next vertex as control point,
// and -1 to mark the end of the contour.
type node struct {
	x, y, degree int
}

// These contours "outside" and "inside" are from the `A' glyph from the
// Droid Serif Regular font.

var outside = []node{
	{414, 489, 1},
	{336, 274, 2},
	{327, 250, 0},
	{322, 226, 2},
	{317, 203, 0},
	{317, 186, 2},
	{317, 134, 0},
	{350, 110, 2},
	{384, 86, 0},
	{453, 86, 1},
	{500, 86, 1},
	{500, 0, 1},
	{0, 0, 1},
	{0, 86, 1},
	{39, 86, 2},
	{69, 86, 0},
	{90, 92, 2},
	{111, 99, 0},
	{128, 117, 2},
	{145, 135, 0},
	{160, 166, 2},
	{176, 197, 0},
	{195, 246, 1},
	{649, 1462, 1},
	{809, 1462, 1},
	{1272, 195, 2},
	{1284, 163, 0},
	{1296, 142, 2},
	{1309, 121, 0},
	{1326, 108, 2},
	{1343, 96, 0},
	{1365, 91, 2},
	{1387, 86, 0},
	{1417, 86, 1},
	{1444, 86, 1},
	{1444, 0, 1},
	{881, 0, 1},
	{881, 86, 1},
	{928, 86, 2},
	{1051, 86, 0},
	{1051, 184, 2},
	{1051, 201, 0},
	{1046, 219, 2},
	{1042, 237, 0},
	{1034, 260, 1},
	{952, 489, 1},
	{414, 489, -1},
}

var inside = []node{
	{686, 1274, 1},
	{453, 592, 1},
	{915, 592, 1},
	{686, 1274, -1},
}

// toVertices walks a node list into the alternating on-curve/off-curve
// points the glyph decoder produces, scaling glyph units down into a
// 400x400 canvas and flipping Y the way a Y-up font is placed onto a
// Y-down canvas.
func toVertices(ns []node) (pts []geom.Vec2, onCurve []bool) {
	p := func(n node) geom.Vec2 {
		return geom.Vec2{X: float32(20 + n.x/4), Y: float32(380 - n.y/4)}
	}
	if len(ns) == 0 {
		return nil, nil
	}
	i := 0
	pts = append(pts, p(ns[i]))
	onCurve = append(onCurve, true)
	for {
		switch ns[i].degree {
		case -1:
			return pts, onCurve
		case 1:
			i++
			pts = append(pts, p(ns[i]))
			onCurve = append(onCurve, true)
		case 2:
			pts = append(pts, p(ns[i+1]))
			onCurve = append(onCurve, false)
			i += 2
			pts = append(pts, p(ns[i]))
			onCurve = append(onCurve, true)
		default:
			panic("bad degree")
		}
	}
}

// glyphComponent packs one or more contours into a single
// sfnt.GlyphComponent, the unit raster.FillComponent scans. Non-zero
// winding fills the outer contour and subtracts the opposite-wound inner
// one in a single pass, without any explicit boolean-difference step.
func glyphComponent(contours [][]node) sfnt.GlyphComponent {
	var coords []geom.Vec2
	var onCurve []bool
	var ends []bool
	for _, c := range contours {
		pts, oc := toVertices(c)
		coords = append(coords, pts...)
		onCurve = append(onCurve, oc...)
		for range pts {
			ends = append(ends, false)
		}
		if len(ends) > 0 {
			ends[len(ends)-1] = true
		}
	}
	var bounds sfnt.Rect
	for i, p := range coords {
		xi, yi := int32(p.X), int32(p.Y)
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
	return sfnt.GlyphComponent{
		NumVertices:      uint16(len(coords)),
		EndPtsOfContours: ends,
		PtsOnCurve:       onCurve,
		BoundingRect:     bounds,
		Coordinates:      coords,
	}
}

func main() {
	const w, h = 400, 400
	canvas := raster.NewCanvas(w, h)
	comp := glyphComponent([][]node{outside, inside})
	raster.FillComponent(canvas, comp, raster.NonZero, raster.Color{R: 0x1f, G: 0x1f, B: 0x1f})

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rgba.Set(x, y, bg)
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := canvas.At(x, y)
			if c != (raster.Color{}) {
				rgba.Set(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
			}
		}
	}

	f, err := os.Create("out.png")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, rgba); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote out.png OK.")
}
