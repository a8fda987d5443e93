package sfnt

import (
	"github.com/tdewolff/parse/v2"
)

// reader is a random-access big-endian binary decoder over the font's byte
// source. It wraps tdewolff/parse/v2's BinaryReader, which already does the
// cursor bookkeeping and bounds checking; reader adds the TrueType-specific
// primitives (F2Dot14, a 4-byte tag) and translates EOF into TruncatedInputError.
type reader struct {
	br   *parse.BinaryReader
	base []byte
}

func newReader(b []byte) *reader {
	return &reader{br: parse.NewBinaryReader(b), base: b}
}

func (r *reader) tell() int64 {
	return r.br.Pos()
}

func (r *reader) seekAbsolute(offset int64) {
	r.br.Seek(offset)
}

func (r *reader) skip(n int64) {
	r.br.Seek(r.br.Pos() + n)
}

func (r *reader) truncated(context string) error {
	return TruncatedInputError{Context: context}
}

func (r *reader) readU8(context string) (uint8, error) {
	if r.br.Len() < 1 {
		return 0, r.truncated(context)
	}
	return r.br.ReadUint8(), nil
}

func (r *reader) readU16(context string) (uint16, error) {
	if r.br.Len() < 2 {
		return 0, r.truncated(context)
	}
	return r.br.ReadUint16(), nil
}

func (r *reader) readU32(context string) (uint32, error) {
	if r.br.Len() < 4 {
		return 0, r.truncated(context)
	}
	return r.br.ReadUint32(), nil
}

func (r *reader) readI8(context string) (int8, error) {
	if r.br.Len() < 1 {
		return 0, r.truncated(context)
	}
	return r.br.ReadInt8(), nil
}

func (r *reader) readI16(context string) (int16, error) {
	if r.br.Len() < 2 {
		return 0, r.truncated(context)
	}
	return r.br.ReadInt16(), nil
}

func (r *reader) readI32(context string) (int32, error) {
	if r.br.Len() < 4 {
		return 0, r.truncated(context)
	}
	return r.br.ReadInt32(), nil
}

// readF2Dot14 reads a signed 2.14 fixed-point number: value = raw / 16384.
func (r *reader) readF2Dot14(context string) (float32, error) {
	raw, err := r.readI16(context)
	if err != nil {
		return 0, err
	}
	return float32(raw) / 16384, nil
}

func (r *reader) readTag(context string) (string, error) {
	if r.br.Len() < 4 {
		return "", r.truncated(context)
	}
	b := r.br.ReadBytes(4)
	return string(b), nil
}

func (r *reader) readBytes(n int64, context string) ([]byte, error) {
	if r.br.Len() < n {
		return nil, r.truncated(context)
	}
	return r.br.ReadBytes(n), nil
}
