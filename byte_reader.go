package amf3

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ByteReader is a cursor over an immutable byte slice. Every primitive
// decoder is bounds-checked: a read past the end returns an error
// wrapping ErrTruncated and leaves the cursor where it was.
//
// signExtend controls U29 decoding and is fixed for the lifetime of a
// reader; SubReaderAt propagates it to the child so a back-reference
// replay is decoded under the same rules as the original.
type ByteReader struct {
	buf        []byte
	cursor     int
	signExtend bool
}

// NewByteReader wraps buf in a ByteReader starting at offset 0.
func NewByteReader(buf []byte, signExtend bool) *ByteReader {
	return &ByteReader{buf: buf, signExtend: signExtend}
}

// Consumed returns how many bytes the cursor has advanced from the
// start of buf.
func (r *ByteReader) Consumed() int {
	return r.cursor
}

// Remaining returns how many unread bytes are left in buf.
func (r *ByteReader) Remaining() int {
	return len(r.buf) - r.cursor
}

// SubReaderAt carves a child ByteReader sharing buf with r but with an
// independent cursor positioned at offset. Used to re-parse a captured
// object/array/date region on a back-reference without disturbing r's
// own cursor.
func (r *ByteReader) SubReaderAt(offset int) *ByteReader {
	return &ByteReader{buf: r.buf, cursor: offset, signExtend: r.signExtend}
}

func (r *ByteReader) require(n int) error {
	if n < 0 || r.cursor+n > len(r.buf) {
		return errors.Wrapf(ErrTruncated, "need %d byte(s) at offset %d, have %d", n, r.cursor, r.Remaining())
	}
	return nil
}

// ReadU8 reads a single byte.
func (r *ByteReader) ReadU8() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.buf[r.cursor]
	r.cursor++
	return b, nil
}

// ReadBytes reads n raw bytes. The returned slice aliases buf and must
// not be retained past the lifetime of the caller's decode.
func (r *ByteReader) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return b, nil
}

// ReadU16BE reads a big-endian uint16.
func (r *ByteReader) ReadU16BE() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadU32BE reads a big-endian uint32.
func (r *ByteReader) ReadU32BE() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadF64BE reads 8 bytes as a big-endian IEEE-754 double. The
// canonical little-endian-misordered NaN sequence is recognized as-is
// and yields a quiet NaN regardless of host endianness; Go's
// encoding/binary already performs host-independent big-endian
// conversion for every other value, so no further endian handling is
// needed here (see endian.go).
func (r *ByteReader) ReadF64BE() (float64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	if isCanonicalNaN(b) {
		return math.NaN(), nil
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// ReadU29 decodes an AMF3 variable-length U29 integer: up to four
// bytes, the high bit of each of the first three signaling whether
// another byte follows. The fourth byte, if reached, uses all 8 bits.
//
// The result is sign-extended from 29 to 32 bits when signExtend is
// true (the standards-correct default); disabling it reproduces a
// legacy peer that omits the sign-extension step. The same decoding is
// used both for the signed Integer marker's payload and for the
// unsigned length/index tags in string, array, and object headers —
// callers interpret bit 0 and shift the result themselves.
func (r *ByteReader) ReadU29() (int32, error) {
	start := r.cursor
	b, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	var result uint32
	count := 0
	for b&0x80 != 0 && count < 3 {
		result = (result << 7) | uint32(b&0x7F)
		b, err = r.ReadU8()
		if err != nil {
			r.cursor = start
			return 0, err
		}
		count++
	}
	if count < 3 {
		result = (result << 7) | uint32(b&0x7F)
	} else {
		result = (result << 8) | uint32(b)
	}
	if r.signExtend && result&0x10000000 != 0 {
		result -= 0x20000000
	}
	return int32(result), nil
}
