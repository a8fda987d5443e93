package sfnt

// tableEntry is one record from the sfnt table directory.
type tableEntry struct {
	checksum uint32
	offset   uint32
	length   uint32
}

const (
	locaFormatShort int16 = 0
	locaFormatLong  int16 = 1
)

var requiredTables = [...]string{"head", "maxp", "hhea", "hmtx", "loca", "glyf", "cmap"}

// parseDirectory reads the sfnt table directory (version, numTables, and one
// entry per table) and returns it keyed by 4-byte tag.
func parseDirectory(data []byte) (map[string]tableEntry, error) {
	r := newReader(data)
	if _, err := r.readU32("sfnt version"); err != nil {
		return nil, err
	}
	numTables, err := r.readU16("numTables")
	if err != nil {
		return nil, err
	}
	r.skip(6) // searchRange, entrySelector, rangeShift

	dir := make(map[string]tableEntry, numTables)
	for i := uint16(0); i < numTables; i++ {
		tag, err := r.readTag("table tag")
		if err != nil {
			return nil, err
		}
		checksum, err := r.readU32("table checksum")
		if err != nil {
			return nil, err
		}
		offset, err := r.readU32("table offset")
		if err != nil {
			return nil, err
		}
		length, err := r.readU32("table length")
		if err != nil {
			return nil, err
		}
		dir[tag] = tableEntry{checksum: checksum, offset: offset, length: length}
	}
	for _, tag := range requiredTables {
		if _, ok := dir[tag]; !ok {
			return nil, MissingTableError{Tag: tag}
		}
	}
	return dir, nil
}

// tableBytes slices the table named tag out of the font's raw data.
func tableBytes(data []byte, dir map[string]tableEntry, tag string) ([]byte, error) {
	e, ok := dir[tag]
	if !ok {
		return nil, MissingTableError{Tag: tag}
	}
	end := uint64(e.offset) + uint64(e.length)
	if end > uint64(len(data)) {
		return nil, TruncatedInputError{Context: "table " + tag}
	}
	return data[e.offset:end], nil
}

// Metrics holds a font's ascent/descent in design units.
type Metrics struct {
	Ascent  int16
	Descent int16
}

func parseHead(head []byte) (locaFormat int16, err error) {
	r := newReader(head)
	if len(head) < 52 {
		return 0, TruncatedInputError{Context: "head table"}
	}
	r.seekAbsolute(50)
	format, err := r.readI16("head.indexToLocFormat")
	if err != nil {
		return 0, err
	}
	if format != locaFormatShort && format != locaFormatLong {
		return 0, UnsupportedIndexToLocFormatError{Format: format}
	}
	return format, nil
}

func parseMaxp(maxp []byte) (numGlyphs uint16, err error) {
	r := newReader(maxp)
	r.seekAbsolute(4)
	return r.readU16("maxp.numGlyphs")
}

func parseHhea(hhea []byte) (metrics Metrics, numLongHorMetrics uint16, err error) {
	r := newReader(hhea)
	r.seekAbsolute(4)
	ascent, err := r.readI16("hhea.ascent")
	if err != nil {
		return Metrics{}, 0, err
	}
	descent, err := r.readI16("hhea.descent")
	if err != nil {
		return Metrics{}, 0, err
	}
	r.seekAbsolute(34)
	numLongHorMetrics, err = r.readU16("hhea.numberOfHMetrics")
	if err != nil {
		return Metrics{}, 0, err
	}
	return Metrics{Ascent: ascent, Descent: descent}, numLongHorMetrics, nil
}

// GlyphMetric is a glyph's horizontal metrics in design units.
type GlyphMetric struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

// parseHmtx reads numLongHorMetrics {advance, lsb} pairs, then one
// lsb-only int16 per remaining glyph; trailing glyphs share the last
// advance width (spec.md §3 Glyph metric invariant).
func parseHmtx(hmtx []byte, numGlyphs, numLongHorMetrics uint16) ([]GlyphMetric, error) {
	r := newReader(hmtx)
	metrics := make([]GlyphMetric, numGlyphs)
	var lastAdvance uint16
	for i := uint16(0); i < numGlyphs; i++ {
		if i < numLongHorMetrics {
			aw, err := r.readU16("hmtx.advanceWidth")
			if err != nil {
				return nil, err
			}
			lsb, err := r.readI16("hmtx.lsb")
			if err != nil {
				return nil, err
			}
			lastAdvance = aw
			metrics[i] = GlyphMetric{AdvanceWidth: aw, LeftSideBearing: lsb}
			continue
		}
		lsb, err := r.readI16("hmtx.lsb (trailing)")
		if err != nil {
			return nil, err
		}
		metrics[i] = GlyphMetric{AdvanceWidth: lastAdvance, LeftSideBearing: lsb}
	}
	return metrics, nil
}

// parseLoca reads numGlyphs+1 loca entries and returns, for each glyph
// index, one plus glyfBase plus the offset of its glyf record within the
// glyf table (Parse passes glyfBase 0, so the values are glyf-relative),
// so that 0 unambiguously means "empty glyph" even when a real glyph starts at
// glyf-relative offset 0 (loca's own empty-glyph convention is two
// successive equal entries, which says nothing about the offset value
// itself). Callers must subtract 1 from a non-zero entry before seeking.
func parseLoca(loca, glyf []byte, numGlyphs uint16, format int16, glyfBase uint32) ([]uint32, error) {
	r := newReader(loca)
	n := int(numGlyphs) + 1
	raw := make([]uint32, n)
	for i := 0; i < n; i++ {
		if format == locaFormatShort {
			v, err := r.readU16("loca entry")
			if err != nil {
				return nil, err
			}
			raw[i] = uint32(v) * 2
		} else {
			v, err := r.readU32("loca entry")
			if err != nil {
				return nil, err
			}
			raw[i] = v
		}
	}
	offsets := make([]uint32, numGlyphs)
	for i := uint16(0); i < numGlyphs; i++ {
		if raw[i] == raw[i+1] {
			offsets[i] = 0 // sentinel: empty glyph
			continue
		}
		offsets[i] = glyfBase + raw[i] + 1
	}
	return offsets, nil
}
