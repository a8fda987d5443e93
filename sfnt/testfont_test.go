package sfnt

import (
	"bytes"
	"encoding/binary"
)

// fontBuilder assembles a minimal, well-formed sfnt byte stream from named
// table payloads, the way a real font file lays them out: a table
// directory followed by the tables themselves, each at the offset its
// directory entry names. No fixture .ttf files exist anywhere in this
// module; every test below builds its own font bytes.
type fontBuilder struct {
	tables map[string][]byte
	order  []string
}

func newFontBuilder() *fontBuilder {
	return &fontBuilder{tables: make(map[string][]byte)}
}

func (b *fontBuilder) add(tag string, data []byte) *fontBuilder {
	if _, ok := b.tables[tag]; !ok {
		b.order = append(b.order, tag)
	}
	b.tables[tag] = data
	return b
}

func (b *fontBuilder) build() []byte {
	numTables := len(b.order)
	headerLen := 12 + 16*numTables
	offset := uint32(headerLen)

	offsets := make(map[string]uint32, numTables)
	for _, tag := range b.order {
		offsets[tag] = offset
		offset += uint32(len(b.tables[tag]))
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(0x00010000)) // sfnt version
	binary.Write(&buf, binary.BigEndian, uint16(numTables))
	binary.Write(&buf, binary.BigEndian, uint16(0)) // searchRange
	binary.Write(&buf, binary.BigEndian, uint16(0)) // entrySelector
	binary.Write(&buf, binary.BigEndian, uint16(0)) // rangeShift

	for _, tag := range b.order {
		buf.WriteString(tag)
		binary.Write(&buf, binary.BigEndian, uint32(0)) // checksum, unchecked
		binary.Write(&buf, binary.BigEndian, offsets[tag])
		binary.Write(&buf, binary.BigEndian, uint32(len(b.tables[tag])))
	}
	for _, tag := range b.order {
		buf.Write(b.tables[tag])
	}
	return buf.Bytes()
}

// headTable builds a minimal head table (52+ bytes) with indexToLocFormat
// at byte offset 50, the only field this package reads.
func headTable(locaFormat int16) []byte {
	buf := make([]byte, 54)
	binary.BigEndian.PutUint16(buf[50:], uint16(locaFormat))
	return buf
}

func maxpTable(numGlyphs uint16) []byte {
	buf := make([]byte, 6)
	binary.BigEndian.PutUint16(buf[4:], numGlyphs)
	return buf
}

func hheaTable(ascent, descent int16, numLongHorMetrics uint16) []byte {
	buf := make([]byte, 36)
	binary.BigEndian.PutUint16(buf[4:], uint16(ascent))
	binary.BigEndian.PutUint16(buf[6:], uint16(descent))
	binary.BigEndian.PutUint16(buf[34:], numLongHorMetrics)
	return buf
}

type hMetric struct {
	advance uint16
	lsb     int16
}

// hmtxTable writes numLongHorMetrics {advance,lsb} pairs followed by one
// lsb-only entry per remaining glyph, mirroring the real hmtx layout.
func hmtxTable(longMetrics []hMetric, trailingLSBs []int16) []byte {
	var buf bytes.Buffer
	for _, m := range longMetrics {
		binary.Write(&buf, binary.BigEndian, m.advance)
		binary.Write(&buf, binary.BigEndian, m.lsb)
	}
	for _, lsb := range trailingLSBs {
		binary.Write(&buf, binary.BigEndian, lsb)
	}
	return buf.Bytes()
}

// locaTableShort builds a short-format (word-offset) loca table: n+1 entries,
// each offset/2 into the glyf table, assuming numGlyphs == len(glyfOffsets)-1.
func locaTableShort(glyfOffsets []uint32) []byte {
	var buf bytes.Buffer
	for _, o := range glyfOffsets {
		binary.Write(&buf, binary.BigEndian, uint16(o/2))
	}
	return buf.Bytes()
}

type cmapGroupSpec struct {
	start, end, startGlyph uint32
}

// cmapTable builds a single-subtable cmap with a platform=0,encoding=4
// format-12 Unicode subtable.
func cmapTable(groups []cmapGroupSpec) []byte {
	var sub bytes.Buffer
	binary.Write(&sub, binary.BigEndian, uint16(12)) // format
	binary.Write(&sub, binary.BigEndian, uint16(0))  // reserved
	length := uint32(16 + 12*len(groups))
	binary.Write(&sub, binary.BigEndian, length)
	binary.Write(&sub, binary.BigEndian, uint32(0)) // language
	binary.Write(&sub, binary.BigEndian, uint32(len(groups)))
	for _, g := range groups {
		binary.Write(&sub, binary.BigEndian, g.start)
		binary.Write(&sub, binary.BigEndian, g.end)
		binary.Write(&sub, binary.BigEndian, g.startGlyph)
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint16(0)) // cmap version
	binary.Write(&buf, binary.BigEndian, uint16(1)) // numTables
	binary.Write(&buf, binary.BigEndian, uint16(0)) // platformID
	binary.Write(&buf, binary.BigEndian, uint16(4)) // encodingID
	binary.Write(&buf, binary.BigEndian, uint32(12)) // subtable offset: right after the one encoding record
	buf.Write(sub.Bytes())
	return buf.Bytes()
}

// simpleTriangleGlyph builds one simple glyph: a 3-point on-curve triangle,
// all deltas encoded as positive single bytes.
func simpleTriangleGlyph() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, int16(1)) // numberOfContours
	buf.Write(make([]byte, 8))                     // xMin,yMin,xMax,yMax: unused by this decoder
	binary.Write(&buf, binary.BigEndian, uint16(2)) // endPtsOfContours[0]
	binary.Write(&buf, binary.BigEndian, uint16(0)) // instructionLength
	flag := byte(0x01 | 0x02 | 0x10 | 0x04 | 0x20)   // on-curve, short+positive X and Y
	buf.WriteByte(flag)
	buf.WriteByte(flag)
	buf.WriteByte(flag)
	// X deltas: 10, 10, 0 -> cumulative 10, 20, 20
	buf.Write([]byte{10, 10, 0})
	// Y deltas: 0, 30, 0 -> cumulative 0, 30, 30
	buf.Write([]byte{0, 30, 0})
	if buf.Len()%2 != 0 {
		buf.WriteByte(0) // pad to an even length, as loca's short format requires
	}
	return buf.Bytes()
}

const (
	compArg1And2AreWords = 1 << 0
	compArgsAreXYValues  = 1 << 1
	compWeHaveAScale     = 1 << 3
	compMoreComponents   = 1 << 5
	compUseMyMetrics     = 1 << 9
)

// compositeGlyph builds one composite glyph with a single child component.
func compositeGlyph(flags uint16, childIndex uint16, dx, dy int16, scale float32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, int16(-1)) // numberOfContours: composite
	buf.Write(make([]byte, 8))                      // bounds: unused
	binary.Write(&buf, binary.BigEndian, flags)
	binary.Write(&buf, binary.BigEndian, childIndex)
	binary.Write(&buf, binary.BigEndian, dx)
	binary.Write(&buf, binary.BigEndian, dy)
	if flags&compWeHaveAScale != 0 {
		binary.Write(&buf, binary.BigEndian, int16(scale*16384))
	}
	return buf.Bytes()
}
