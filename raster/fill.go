package raster

import (
	"sort"

	"github.com/glyphrender/ttfrender/geom"
	"github.com/glyphrender/ttfrender/sfnt"
)

// FillRule selects how the scan-line filler turns ray intersections into
// filled spans.
type FillRule int

const (
	// NonZero fills a region whose signed winding count is positive; regions
	// with a negative count are left unfilled.
	NonZero FillRule = iota
	// EvenOdd fills a region when an odd number of edges have been crossed.
	EvenOdd
)

// lineEdge is a straight contour segment between two on-curve points.
type lineEdge struct {
	a, b geom.Vec2
}

// quadEdge is a quadratic contour segment: two on-curve endpoints and one
// off-curve control point.
type quadEdge struct {
	p0, ctrl, p1 geom.Vec2
}

// edges is one contour's line/quad segments in traversal order.
type edges struct {
	lines []lineEdge
	quads []quadEdge
}

// buildContourEdges converts a component's raw vertex stream into
// line/quadratic edges, synthesizing the implicit on-curve midpoint
// between two consecutive off-curve control points, per the TrueType
// contour encoding.
func buildContourEdges(c sfnt.GlyphComponent) []edges {
	var out []edges
	start := 0
	for end := 0; end < int(c.NumVertices); end++ {
		if !c.EndPtsOfContours.Contains(end) {
			continue
		}
		out = append(out, buildOneContour(c, start, end))
		start = end + 1
	}
	return out
}

func buildOneContour(c sfnt.GlyphComponent, start, end int) edges {
	n := end - start + 1
	if n <= 0 {
		return edges{}
	}
	pt := func(i int) geom.Vec2 { return c.Coordinates[start+(i%n+n)%n] }
	onCurve := func(i int) bool { return c.PtsOnCurve.Contains(start + (i%n+n)%n) }

	// Find a starting on-curve vertex; if the contour has none, synthesize
	// one at the midpoint of the last and first points.
	firstOn := -1
	for i := 0; i < n; i++ {
		if onCurve(i) {
			firstOn = i
			break
		}
	}
	var cur geom.Vec2
	var e edges
	if firstOn == -1 {
		cur = geom.Lerp(pt(0), pt(n-1), 0.5)
	} else {
		cur = pt(firstOn)
	}

	i := firstOn + 1
	for visited := 0; visited < n; {
		if onCurve(i) {
			next := pt(i)
			e.lines = append(e.lines, lineEdge{a: cur, b: next})
			cur = next
			i++
			visited++
			continue
		}
		ctrl := pt(i)
		var p1 geom.Vec2
		if onCurve(i + 1) {
			p1 = pt(i + 1)
			i += 2
			visited += 2
		} else {
			p1 = geom.Lerp(ctrl, pt(i+1), 0.5)
			i++
			visited++
		}
		e.quads = append(e.quads, quadEdge{p0: cur, ctrl: ctrl, p1: p1})
		cur = p1
	}
	return e
}

// intersection is one ray/edge crossing: its X coordinate and winding
// direction (true = upward, i.e. the edge's Y decreases in canvas space).
type intersection struct {
	x   float32
	dir bool
}

// scanContour produces the sorted intersections of the horizontal ray at
// y with one contour's edges.
func scanContour(e edges, y float32) []intersection {
	var xs []intersection

	for _, l := range e.lines {
		ylo, yhi := l.a.Y, l.b.Y
		if ylo > yhi {
			ylo, yhi = yhi, ylo
		}
		if y <= ylo || y > yhi {
			continue
		}
		t := (y - l.a.Y) / (l.b.Y - l.a.Y)
		x := l.a.X + t*(l.b.X-l.a.X)
		xs = append(xs, intersection{x: x, dir: l.b.Y < l.a.Y})
	}

	for _, q := range e.quads {
		a := q.p0.Y - 2*q.ctrl.Y + q.p1.Y
		b := 2 * (q.ctrl.Y - q.p0.Y)
		c := q.p0.Y - y
		roots := geom.SolveQuadratic(a, b, c)

		var valid []float32
		for _, t := range roots {
			if t < -1e-8 || t > 1+1e-8 {
				continue
			}
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			valid = append(valid, t)
		}

		switch len(valid) {
		case 0:
			// no crossing on this scan-line
		case 1:
			p := geom.QuadBezier(q.p0, q.ctrl, q.p1, valid[0])
			xs = append(xs, intersection{x: p.X, dir: q.p0.Y > q.p1.Y})
		default:
			p0 := geom.QuadBezier(q.p0, q.ctrl, q.p1, valid[0])
			p1 := geom.QuadBezier(q.p0, q.ctrl, q.p1, valid[1])
			// Convex-upward (a <= 0 on Y) contributes one upward and one
			// downward crossing; the root nearer q.p0 in X takes that
			// upward sign, the other takes downward (and vice versa).
			closerIsFirst := absF(p0.X-q.p0.X) <= absF(p1.X-q.p0.X)
			firstUpward := a <= 0
			if closerIsFirst {
				xs = append(xs, intersection{x: p0.X, dir: firstUpward}, intersection{x: p1.X, dir: !firstUpward})
			} else {
				xs = append(xs, intersection{x: p1.X, dir: firstUpward}, intersection{x: p0.X, dir: !firstUpward})
			}
		}
	}

	sort.Slice(xs, func(i, j int) bool { return xs[i].x < xs[j].x })
	return xs
}

// spansNonZero converts sorted intersections into fill spans under the
// non-zero winding rule: a closing transition (previous running count > 0,
// current count >= 0) fills between the two X values. Opening transitions
// do not fill, avoiding double-filling shared edges.
func spansNonZero(xs []intersection) [][2]float32 {
	var spans [][2]float32
	count := 0
	for i, x := range xs {
		prev := count
		if x.dir {
			count++
		} else {
			count--
		}
		if i == 0 {
			continue
		}
		if prev > 0 && count >= 0 {
			spans = append(spans, [2]float32{xs[i-1].x, x.x})
		}
	}
	return spans
}

// spansEvenOdd converts sorted intersections into fill spans under the
// even-odd rule, filling between every odd-indexed and even-indexed pair.
func spansEvenOdd(xs []float32) [][2]float32 {
	var spans [][2]float32
	for i := 0; i+1 < len(xs); i += 2 {
		spans = append(spans, [2]float32{xs[i], xs[i+1]})
	}
	return spans
}

// FillComponent rasterizes one glyph component onto the canvas at the
// given color, scanning every integer Y in [yMin, yMax).
func FillComponent(c *Canvas, comp sfnt.GlyphComponent, rule FillRule, col Color) {
	contours := buildContourEdges(comp)
	if len(contours) == 0 {
		return
	}
	yMin, yMax := comp.BoundingRect.YMin, comp.BoundingRect.YMax
	for y := yMin; y < yMax; y++ {
		yf := float32(y) + 0.5

		switch rule {
		case EvenOdd:
			var xs []float32
			for _, ct := range contours {
				for _, inter := range scanContour(ct, yf) {
					xs = append(xs, inter.x)
				}
			}
			sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
			for _, span := range spansEvenOdd(xs) {
				fillSpan(c, int(y), span[0], span[1], col)
			}
		default:
			var xs []intersection
			for _, ct := range contours {
				xs = append(xs, scanContour(ct, yf)...)
			}
			sort.Slice(xs, func(i, j int) bool { return xs[i].x < xs[j].x })
			for _, span := range spansNonZero(xs) {
				fillSpan(c, int(y), span[0], span[1], col)
			}
		}
	}
}

func fillSpan(c *Canvas, y int, x0, x1 float32, col Color) {
	lo, hi := int(x0+0.5), int(x1+0.5)
	for x := lo; x < hi; x++ {
		c.Set(x, y, col)
	}
}
