package sfnt

import "github.com/glyphrender/ttfrender/geom"

// GlyphIndex identifies a glyph within a font, independent of Unicode.
type GlyphIndex uint16

// Rect is a bounding rectangle in design units (or, once a glyph has been
// transformed, in whatever space its coordinates were mapped into).
type Rect struct {
	XMin, XMax, YMin, YMax int32
}

// vertexSet is a per-vertex boolean slice recording set membership of vertex
// indices (endPtsOfContours, ptsOnCurve): both sets are small (tens of
// entries per glyph) and consulted in the filler's inner loop.
type vertexSet []bool

func newVertexSet(n int) vertexSet { return make(vertexSet, n) }

func (s vertexSet) set(i int)            { s[i] = true }
func (s vertexSet) Contains(i int) bool  { return i >= 0 && i < len(s) && s[i] }

// GlyphComponent is one atomic contour set: a simple glyph, or one leaf of a
// flattened composite glyph.
type GlyphComponent struct {
	NumVertices      uint16
	EndPtsOfContours vertexSet
	PtsOnCurve       vertexSet
	BoundingRect     Rect
	Coordinates      []geom.Vec2
}

// Glyph is the fully decoded, self-contained outline of one glyph: no
// back-reference into the font that produced it.
type Glyph struct {
	Components []GlyphComponent
	Metric     GlyphMetric
}

const maxCompositeDepth = 16

// decodeGlyph resolves glyphIndex to its contour data, applying xf to every
// emitted coordinate. glyphOffsets is the glyphIndex -> glyfOffset+1 map (0
// == empty glyph, per parseLoca's sentinel convention); glyf is the full
// glyf table's bytes (offsets in glyphOffsets are absolute within glyf,
// once the +1 bias is removed). The returned metricOverride is the glyph
// index whose metric should be adopted (USE_MY_METRICS), if any.
func decodeGlyph(glyf []byte, glyphOffsets []uint32, i GlyphIndex, xf geom.Matrix3, depth int) (components []GlyphComponent, metricOverride *GlyphIndex, err error) {
	if int(i) >= len(glyphOffsets) {
		return nil, nil, UnknownGlyphError{Index: i}
	}
	if depth > maxCompositeDepth {
		return nil, nil, UnsupportedCompositeError{GlyphIndex: i}
	}
	offset := glyphOffsets[i]
	if offset == 0 {
		return nil, nil, nil
	}
	r := newReader(glyf)
	r.seekAbsolute(int64(offset - 1))

	numContours, err := r.readI16("glyph.numberOfContours")
	if err != nil {
		return nil, nil, err
	}
	r.skip(8) // xMin, yMin, xMax, yMax (design-space bounds; recomputed post-transform below)

	if numContours >= 0 {
		comp, err := decodeSimpleGlyph(r, i, int(numContours), xf)
		if err != nil {
			return nil, nil, err
		}
		return []GlyphComponent{comp}, nil, nil
	}
	return decodeCompositeGlyph(r, glyf, glyphOffsets, xf, depth)
}

func decodeSimpleGlyph(r *reader, glyphIndex GlyphIndex, numContours int, xf geom.Matrix3) (GlyphComponent, error) {
	endPts := make([]uint16, numContours)
	for i := range endPts {
		v, err := r.readU16("simple glyph endPtsOfContours")
		if err != nil {
			return GlyphComponent{}, err
		}
		endPts[i] = v
	}
	numVertices := 1
	if numContours > 0 {
		numVertices = int(endPts[numContours-1]) + 1
	}

	instrLen, err := r.readU16("simple glyph instructionLength")
	if err != nil {
		return GlyphComponent{}, err
	}
	r.skip(int64(instrLen))

	flags := make([]uint8, numVertices)
	for i := 0; i < numVertices; {
		f, err := r.readU8("simple glyph flags")
		if err != nil {
			return GlyphComponent{}, err
		}
		flags[i] = f
		i++
		if f&0x08 != 0 { // repeat
			count, err := r.readU8("simple glyph flag repeat count")
			if err != nil {
				return GlyphComponent{}, err
			}
			if i+int(count) > numVertices {
				return GlyphComponent{}, InvalidFlagRunError{GlyphIndex: glyphIndex}
			}
			for ; count > 0; count-- {
				flags[i] = f
				i++
			}
		}
	}

	xs, err := decodeCoords(r, flags, 0x02, 0x10)
	if err != nil {
		return GlyphComponent{}, err
	}
	ys, err := decodeCoords(r, flags, 0x04, 0x20)
	if err != nil {
		return GlyphComponent{}, err
	}

	endSet := newVertexSet(numVertices)
	onCurve := newVertexSet(numVertices)
	coords := make([]geom.Vec2, numVertices)
	bounds := Rect{}
	for i := 0; i < numVertices; i++ {
		if flags[i]&0x01 != 0 {
			onCurve.set(i)
		}
		p := xf.Apply(geom.Vec2{X: float32(xs[i]), Y: float32(ys[i])})
		coords[i] = p
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
	for _, e := range endPts {
		endSet.set(int(e))
	}

	return GlyphComponent{
		NumVertices:      uint16(numVertices),
		EndPtsOfContours: endSet,
		PtsOnCurve:       onCurve,
		BoundingRect:     bounds,
		Coordinates:      coords,
	}, nil
}

// decodeCoords decodes one axis' delta-encoded coordinate stream. shortBit
// and sameBit select the X or Y flag bits (0x02/0x10 for X, 0x04/0x20 for Y).
func decodeCoords(r *reader, flags []uint8, shortBit, sameBit uint8) ([]int32, error) {
	out := make([]int32, len(flags))
	var cur int32
	for i, f := range flags {
		switch {
		case f&shortBit != 0:
			mag, err := r.readU8("glyph coordinate delta")
			if err != nil {
				return nil, err
			}
			if f&sameBit != 0 {
				cur += int32(mag)
			} else {
				cur -= int32(mag)
			}
		case f&sameBit == 0:
			delta, err := r.readI16("glyph coordinate delta")
			if err != nil {
				return nil, err
			}
			cur += int32(delta)
		}
		out[i] = cur
	}
	return out, nil
}

// Composite glyph component flags, per the TrueType glyf table spec.
const (
	flagArg1And2AreWords    = 1 << 0
	flagArgsAreXYValues     = 1 << 1
	flagRoundXYToGrid       = 1 << 2
	flagWeHaveAScale        = 1 << 3
	flagMoreComponents      = 1 << 5
	flagWeHaveXAndYScale    = 1 << 6
	flagWeHaveTwoByTwo      = 1 << 7
	flagWeHaveInstructions  = 1 << 8
	flagUseMyMetrics        = 1 << 9
	flagOverlapCompound     = 1 << 10
)

func decodeCompositeGlyph(r *reader, glyf []byte, glyphOffsets []uint32, outer geom.Matrix3, depth int) (components []GlyphComponent, metricOverride *GlyphIndex, err error) {
	for {
		flags, err := r.readU16("composite glyph flags")
		if err != nil {
			return nil, nil, err
		}
		childIndex, err := r.readU16("composite glyph glyphIndex")
		if err != nil {
			return nil, nil, err
		}
		var dx, dy float32
		if flags&flagArg1And2AreWords != 0 {
			a1, err := r.readI16("composite glyph arg1")
			if err != nil {
				return nil, nil, err
			}
			a2, err := r.readI16("composite glyph arg2")
			if err != nil {
				return nil, nil, err
			}
			dx, dy = float32(a1), float32(a2)
		} else {
			a1, err := r.readI8("composite glyph arg1")
			if err != nil {
				return nil, nil, err
			}
			a2, err := r.readI8("composite glyph arg2")
			if err != nil {
				return nil, nil, err
			}
			dx, dy = float32(a1), float32(a2)
		}
		if flags&flagArgsAreXYValues == 0 {
			return nil, nil, UnsupportedCompositeError{GlyphIndex: GlyphIndex(childIndex)}
		}

		a, b, c, d := float32(1), float32(0), float32(0), float32(1)
		switch {
		case flags&flagWeHaveAScale != 0:
			s, serr := r.readF2Dot14("composite glyph scale")
			if serr != nil {
				return nil, nil, serr
			}
			a, d = s, s
		case flags&flagWeHaveXAndYScale != 0:
			a, err = r.readF2Dot14("composite glyph x scale")
			if err != nil {
				return nil, nil, err
			}
			d, err = r.readF2Dot14("composite glyph y scale")
			if err != nil {
				return nil, nil, err
			}
		case flags&flagWeHaveTwoByTwo != 0:
			a, err = r.readF2Dot14("composite glyph 2x2 a")
			if err != nil {
				return nil, nil, err
			}
			b, err = r.readF2Dot14("composite glyph 2x2 b")
			if err != nil {
				return nil, nil, err
			}
			c, err = r.readF2Dot14("composite glyph 2x2 c")
			if err != nil {
				return nil, nil, err
			}
			d, err = r.readF2Dot14("composite glyph 2x2 d")
			if err != nil {
				return nil, nil, err
			}
		}

		m := absF32(a)
		if bAbs := absF32(b); bAbs > m {
			m = bAbs
		}
		if absF32(absF32(a)-absF32(c)) <= 33.0/65536.0 {
			m *= 2
		}
		n := absF32(c)
		if dAbs := absF32(d); dAbs > n {
			n = dAbs
		}
		if absF32(absF32(b)-absF32(d)) <= 33.0/65536.0 {
			n *= 2
		}

		local := geom.Matrix3{A: a, B: b, C: c, D: d, E: m * dx, F: n * dy}
		combined := outer.Mul(local)

		pos := r.tell()
		childComponents, childOverride, err := decodeGlyph(glyf, glyphOffsets, GlyphIndex(childIndex), combined, depth+1)
		if err != nil {
			return nil, nil, err
		}
		r.seekAbsolute(pos)

		components = append(components, childComponents...)

		if flags&flagUseMyMetrics != 0 {
			ci := GlyphIndex(childIndex)
			metricOverride = &ci
		} else if childOverride != nil {
			metricOverride = childOverride
		}

		if flags&flagMoreComponents == 0 {
			break
		}
	}
	// ROUND_XY_TO_GRID, WE_HAVE_INSTRUCTIONS and OVERLAP_COMPOUND are
	// documented limitations: recognized but otherwise ignored.
	_ = flagRoundXYToGrid
	_ = flagWeHaveInstructions
	_ = flagOverlapCompound
	return components, metricOverride, nil
}

func absF32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
