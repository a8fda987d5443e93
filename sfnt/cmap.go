package sfnt

import "sort"

// cmapGroup is one format-12 sequential map group: code points
// [startCharCode, endCharCode] map to consecutive glyph indices starting at
// startGlyphCode.
type cmapGroup struct {
	startCharCode uint32
	endCharCode   uint32
	startGlyph    uint32
}

// parseCmap scans the cmap subtable records for the Unicode full-repertoire
// encoding (platform 0, encoding 4), requires it be format 12, and returns
// its groups sorted by startCharCode (format 12 already stores them sorted;
// we trust the font but binary-search assumes the order holds).
func parseCmap(cmap []byte) ([]cmapGroup, error) {
	r := newReader(cmap)
	r.skip(2) // version
	numTables, err := r.readU16("cmap.numTables")
	if err != nil {
		return nil, err
	}

	var subtableOffset uint32
	found := false
	for i := uint16(0); i < numTables; i++ {
		platformID, err := r.readU16("cmap record platformID")
		if err != nil {
			return nil, err
		}
		encodingID, err := r.readU16("cmap record encodingID")
		if err != nil {
			return nil, err
		}
		offset, err := r.readU32("cmap record offset")
		if err != nil {
			return nil, err
		}
		if platformID == 0 && encodingID == 4 {
			subtableOffset = offset
			found = true
			break
		}
	}
	if !found {
		return nil, UnsupportedCmapFormatError{}
	}

	r.seekAbsolute(int64(subtableOffset))
	format, err := r.readU16("cmap subtable format")
	if err != nil {
		return nil, err
	}
	if format != 12 {
		return nil, UnsupportedCmapFormatError{Format: format}
	}
	r.skip(10) // reserved, length, language
	nGroups, err := r.readU32("cmap format 12 nGroups")
	if err != nil {
		return nil, err
	}

	groups := make([]cmapGroup, nGroups)
	for i := uint32(0); i < nGroups; i++ {
		start, err := r.readU32("cmap group startCharCode")
		if err != nil {
			return nil, err
		}
		end, err := r.readU32("cmap group endCharCode")
		if err != nil {
			return nil, err
		}
		startGlyph, err := r.readU32("cmap group startGlyphCode")
		if err != nil {
			return nil, err
		}
		groups[i] = cmapGroup{startCharCode: start, endCharCode: end, startGlyph: startGlyph}
	}
	return groups, nil
}

// lookupCmap returns the glyph index for cp, and false if no group covers it.
// groups are sorted by startCharCode (parseCmap's contract), so this binary
// searches for the last group whose startCharCode is <= cp and checks that
// it also covers cp's high end.
func lookupCmap(groups []cmapGroup, cp rune) (GlyphIndex, bool) {
	c := uint32(cp)
	i := sort.Search(len(groups), func(i int) bool { return groups[i].startCharCode > c }) - 1
	if i < 0 || c > groups[i].endCharCode {
		return 0, false
	}
	return GlyphIndex(groups[i].startGlyph + (c - groups[i].startCharCode)), true
}
