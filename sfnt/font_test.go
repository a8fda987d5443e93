package sfnt

import (
	"testing"

	"github.com/glyphrender/ttfrender/geom"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGlyf concatenates glyph byte blobs and returns the glyf table bytes
// plus the loca-style offset list (len(glyphs)+1 entries; adjacent equal
// entries mean an empty glyph).
func buildGlyf(glyphs ...[]byte) (glyf []byte, offsets []uint32) {
	offsets = make([]uint32, len(glyphs)+1)
	var cur uint32
	for i, g := range glyphs {
		offsets[i] = cur
		glyf = append(glyf, g...)
		cur += uint32(len(g))
	}
	offsets[len(glyphs)] = cur
	return glyf, offsets
}

func simpleFontBytes(t *testing.T, numGlyphs uint16, numLongHorMetrics uint16,
	longMetrics []hMetric, trailingLSBs []int16, glyphs [][]byte, groups []cmapGroupSpec) []byte {
	t.Helper()
	glyf, offsets := buildGlyf(glyphs...)
	b := newFontBuilder()
	b.add("head", headTable(locaFormatShort))
	b.add("maxp", maxpTable(numGlyphs))
	b.add("hhea", hheaTable(1000, -200, numLongHorMetrics))
	b.add("hmtx", hmtxTable(longMetrics, trailingLSBs))
	b.add("loca", locaTableShort(offsets))
	b.add("glyf", glyf)
	b.add("cmap", cmapTable(groups))
	return b.build()
}

func TestParseAndLoadSimpleGlyph(t *testing.T) {
	data := simpleFontBytes(t, 1, 1,
		[]hMetric{{advance: 100, lsb: 10}}, nil,
		[][]byte{simpleTriangleGlyph()},
		[]cmapGroupSpec{{start: 'A', end: 'A', startGlyph: 0}},
	)

	f, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, Metrics{Ascent: 1000, Descent: -200}, f.Metrics())

	idx, err := f.Index('A')
	require.NoError(t, err)
	assert.Equal(t, GlyphIndex(0), idx)

	g, err := f.LoadGlyph(idx)
	require.NoError(t, err)
	require.Len(t, g.Components, 1)
	assert.Equal(t, GlyphMetric{AdvanceWidth: 100, LeftSideBearing: 10}, g.Metric)

	c := g.Components[0]
	require.Len(t, c.Coordinates, 3)
	assert.Equal(t, float32(10), c.Coordinates[0].X)
	assert.Equal(t, float32(0), c.Coordinates[0].Y)
	assert.Equal(t, float32(20), c.Coordinates[1].X)
	assert.Equal(t, float32(30), c.Coordinates[1].Y)
	assert.True(t, c.PtsOnCurve.Contains(0))
	assert.True(t, c.EndPtsOfContours.Contains(2))
	assert.Equal(t, int32(10), c.BoundingRect.XMin)
	assert.Equal(t, int32(30), c.BoundingRect.YMax)
}

func TestIndexMissReturnsUnknownGlyphError(t *testing.T) {
	data := simpleFontBytes(t, 1, 1,
		[]hMetric{{advance: 100, lsb: 10}}, nil,
		[][]byte{simpleTriangleGlyph()},
		[]cmapGroupSpec{{start: 'A', end: 'A', startGlyph: 0}},
	)
	f, err := Parse(data)
	require.NoError(t, err)

	_, err = f.Index('Z')
	var notFound UnknownGlyphError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 'Z', notFound.CodePoint)
}

func TestEmptyGlyphHasNoComponents(t *testing.T) {
	glyf, offsets := buildGlyf(nil, simpleTriangleGlyph())
	b := newFontBuilder()
	b.add("head", headTable(locaFormatShort))
	b.add("maxp", maxpTable(2))
	b.add("hhea", hheaTable(1000, -200, 1))
	b.add("hmtx", hmtxTable([]hMetric{{advance: 50, lsb: 0}}, []int16{0}))
	b.add("loca", locaTableShort(offsets))
	b.add("glyf", glyf)
	b.add("cmap", cmapTable([]cmapGroupSpec{{start: 0x20, end: 0x20, startGlyph: 0}}))

	f, err := Parse(b.build())
	require.NoError(t, err)

	g, err := f.LoadGlyph(0)
	require.NoError(t, err)
	assert.Empty(t, g.Components)
}

func TestCompositeGlyphScaleOffsetAndMetricsOverride(t *testing.T) {
	child := simpleTriangleGlyph()
	parent := compositeGlyph(compArg1And2AreWords|compArgsAreXYValues|compWeHaveAScale|compUseMyMetrics, 0, 5, 7, 1.5)
	glyf, offsets := buildGlyf(child, parent)

	b := newFontBuilder()
	b.add("head", headTable(locaFormatShort))
	b.add("maxp", maxpTable(2))
	b.add("hhea", hheaTable(1000, -200, 2))
	b.add("hmtx", hmtxTable([]hMetric{
		{advance: 111, lsb: 1}, // glyph 0 (child)
		{advance: 222, lsb: 2}, // glyph 1 (composite, overridden)
	}, nil))
	b.add("loca", locaTableShort(offsets))
	b.add("glyf", glyf)
	b.add("cmap", cmapTable([]cmapGroupSpec{{start: 'B', end: 'B', startGlyph: 1}}))

	f, err := Parse(b.build())
	require.NoError(t, err)

	g, err := f.LoadGlyph(1)
	require.NoError(t, err)
	require.Len(t, g.Components, 1)

	// USE_MY_METRICS: the composite adopts glyph 0's advance/lsb, not its own.
	assert.Equal(t, GlyphMetric{AdvanceWidth: 111, LeftSideBearing: 1}, g.Metric)

	want := []geom.Vec2{
		{X: 22.5, Y: 10.5},
		{X: 37.5, Y: 55.5},
		{X: 37.5, Y: 55.5},
	}
	if diff := cmp.Diff(want, g.Components[0].Coordinates); diff != "" {
		t.Errorf("composite transform mismatch (-want +got):\n%s", diff)
	}
}

func TestCompositePointMatchingUnsupported(t *testing.T) {
	child := simpleTriangleGlyph()
	parent := compositeGlyph(0 /* ARGS_ARE_XY_VALUES unset */, 0, 0, 0, 1)
	glyf, offsets := buildGlyf(child, parent)

	b := newFontBuilder()
	b.add("head", headTable(locaFormatShort))
	b.add("maxp", maxpTable(2))
	b.add("hhea", hheaTable(1000, -200, 2))
	b.add("hmtx", hmtxTable([]hMetric{{advance: 1, lsb: 0}, {advance: 2, lsb: 0}}, nil))
	b.add("loca", locaTableShort(offsets))
	b.add("glyf", glyf)
	b.add("cmap", cmapTable([]cmapGroupSpec{{start: 'C', end: 'C', startGlyph: 1}}))

	f, err := Parse(b.build())
	require.NoError(t, err)

	_, err = f.LoadGlyph(1)
	var unsupported UnsupportedCompositeError
	require.ErrorAs(t, err, &unsupported)
}

func TestMissingTableError(t *testing.T) {
	b := newFontBuilder()
	b.add("head", headTable(locaFormatShort))
	b.add("maxp", maxpTable(1))
	b.add("hhea", hheaTable(1000, -200, 1))
	b.add("hmtx", hmtxTable([]hMetric{{advance: 1, lsb: 0}}, nil))
	b.add("loca", locaTableShort([]uint32{0, 0}))
	b.add("glyf", nil)
	// cmap intentionally omitted.

	_, err := Parse(b.build())
	var missing MissingTableError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "cmap", missing.Tag)
}

func TestTruncatedHheaReturnsTruncatedInputError(t *testing.T) {
	b := newFontBuilder()
	b.add("head", headTable(locaFormatShort))
	b.add("maxp", maxpTable(1))
	b.add("hhea", hheaTable(1000, -200, 1)[:10]) // too short for numberOfHMetrics at byte 34
	b.add("hmtx", hmtxTable([]hMetric{{advance: 1, lsb: 0}}, nil))
	b.add("loca", locaTableShort([]uint32{0, 0}))
	b.add("glyf", nil)
	b.add("cmap", cmapTable(nil))

	_, err := Parse(b.build())
	var truncated TruncatedInputError
	require.ErrorAs(t, err, &truncated)
}

func TestInvalidFlagRunError(t *testing.T) {
	// A repeat count that claims more vertices than the glyph declares.
	glyph := []byte{
		0, 1, // numberOfContours = 1
		0, 0, 0, 0, 0, 0, 0, 0, // bounds
		0, 0, // endPtsOfContours[0] = 0 -> 1 vertex
		0, 0, // instructionLength = 0
		0x09,  // flags: on-curve(0x01) | repeat(0x08)
		0xFF,  // repeat count: far more than the single remaining vertex
	}
	glyf, offsets := buildGlyf(glyph)
	b := newFontBuilder()
	b.add("head", headTable(locaFormatShort))
	b.add("maxp", maxpTable(1))
	b.add("hhea", hheaTable(1000, -200, 1))
	b.add("hmtx", hmtxTable([]hMetric{{advance: 1, lsb: 0}}, nil))
	b.add("loca", locaTableShort(offsets))
	b.add("glyf", glyf)
	b.add("cmap", cmapTable(nil))

	f, err := Parse(b.build())
	require.NoError(t, err)

	_, err = f.LoadGlyph(0)
	var invalid InvalidFlagRunError
	require.ErrorAs(t, err, &invalid)
}

func TestCmapFormat12MultipleGroups(t *testing.T) {
	data := simpleFontBytes(t, 1, 1,
		[]hMetric{{advance: 1, lsb: 0}}, nil,
		[][]byte{simpleTriangleGlyph()},
		[]cmapGroupSpec{
			{start: 0x41, end: 0x5A, startGlyph: 10}, // A-Z
			{start: 0x1F600, end: 0x1F64F, startGlyph: 200}, // emoji block
		},
	)
	f, err := Parse(data)
	require.NoError(t, err)

	idx, err := f.Index('M')
	require.NoError(t, err)
	assert.Equal(t, GlyphIndex(10+('M'-0x41)), idx)

	idx, err = f.Index(0x1F600)
	require.NoError(t, err)
	assert.Equal(t, GlyphIndex(200), idx)
}
