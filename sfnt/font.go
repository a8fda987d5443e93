package sfnt

import "github.com/glyphrender/ttfrender/geom"

// Font is a parsed sfnt font: the directory and per-table data needed to
// resolve a code point to a glyph and decode that glyph's outline. A Font
// holds no reference to the original byte slice beyond what its tables
// retain; it is safe for concurrent read-only use by multiple goroutines.
type Font struct {
	metrics      Metrics
	numGlyphs    uint16
	hMetrics     []GlyphMetric
	glyphOffsets []uint32
	glyf         []byte
	cmapGroups   []cmapGroup
}

// Parse decodes the sfnt table directory and the required tables (head,
// maxp, hhea, hmtx, loca, glyf, cmap) from data. The returned Font keeps
// the glyf table as a subslice of data, sharing its memory, so data must not
// be modified while the Font is in use; the other tables are decoded into
// the Font's own fields.
func Parse(data []byte) (*Font, error) {
	dir, err := parseDirectory(data)
	if err != nil {
		return nil, err
	}

	head, err := tableBytes(data, dir, "head")
	if err != nil {
		return nil, err
	}
	locaFormat, err := parseHead(head)
	if err != nil {
		return nil, err
	}

	maxp, err := tableBytes(data, dir, "maxp")
	if err != nil {
		return nil, err
	}
	numGlyphs, err := parseMaxp(maxp)
	if err != nil {
		return nil, err
	}

	hhea, err := tableBytes(data, dir, "hhea")
	if err != nil {
		return nil, err
	}
	metrics, numLongHorMetrics, err := parseHhea(hhea)
	if err != nil {
		return nil, err
	}

	hmtx, err := tableBytes(data, dir, "hmtx")
	if err != nil {
		return nil, err
	}
	hMetrics, err := parseHmtx(hmtx, numGlyphs, numLongHorMetrics)
	if err != nil {
		return nil, err
	}

	loca, err := tableBytes(data, dir, "loca")
	if err != nil {
		return nil, err
	}
	glyf, err := tableBytes(data, dir, "glyf")
	if err != nil {
		return nil, err
	}
	glyphOffsets, err := parseLoca(loca, glyf, numGlyphs, locaFormat, 0)
	if err != nil {
		return nil, err
	}

	cmap, err := tableBytes(data, dir, "cmap")
	if err != nil {
		return nil, err
	}
	cmapGroups, err := parseCmap(cmap)
	if err != nil {
		return nil, err
	}

	return &Font{
		metrics:      metrics,
		numGlyphs:    numGlyphs,
		hMetrics:     hMetrics,
		glyphOffsets: glyphOffsets,
		glyf:         glyf,
		cmapGroups:   cmapGroups,
	}, nil
}

// Metrics returns the font's ascent and descent in design units.
func (f *Font) Metrics() Metrics { return f.metrics }

// NumGlyphs returns the number of glyphs the font defines.
func (f *Font) NumGlyphs() int { return int(f.numGlyphs) }

// Advance returns i's horizontal metric in design units.
func (f *Font) Advance(i GlyphIndex) (GlyphMetric, error) {
	if int(i) >= len(f.hMetrics) {
		return GlyphMetric{}, UnknownGlyphError{Index: i}
	}
	return f.hMetrics[i], nil
}

// Index resolves cp to a glyph index via the font's cmap. It returns
// UnknownGlyphError if cp has no mapping.
func (f *Font) Index(cp rune) (GlyphIndex, error) {
	i, ok := lookupCmap(f.cmapGroups, cp)
	if !ok {
		return 0, UnknownGlyphError{CodePoint: cp, fromCmap: true}
	}
	return i, nil
}

// LoadGlyph decodes i's outline, flattening any composite glyph into its
// constituent simple-glyph components and resolving USE_MY_METRICS
// overrides against the font's own hmtx table.
func (f *Font) LoadGlyph(i GlyphIndex) (Glyph, error) {
	components, override, err := decodeGlyph(f.glyf, f.glyphOffsets, i, geom.Identity, 0)
	if err != nil {
		return Glyph{}, err
	}
	metricIndex := i
	if override != nil {
		metricIndex = *override
	}
	metric, err := f.Advance(metricIndex)
	if err != nil {
		return Glyph{}, err
	}
	return Glyph{Components: components, Metric: metric}, nil
}
