package amf3

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/torresjeff/amf3/config"
)

// ByteWriter is an append-only byte buffer with AMF3's primitive
// encoders, mirroring ByteReader.
type ByteWriter struct {
	buf []byte
}

// NewByteWriter returns an empty ByteWriter.
func NewByteWriter() *ByteWriter {
	return &ByteWriter{}
}

// Bytes returns the accumulated output. The returned slice aliases the
// writer's internal buffer.
func (w *ByteWriter) Bytes() []byte {
	return w.buf
}

// WriteU8 appends a single byte.
func (w *ByteWriter) WriteU8(b byte) {
	w.buf = append(w.buf, b)
}

// WriteBytes appends raw bytes verbatim.
func (w *ByteWriter) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteU16BE appends a big-endian uint16.
func (w *ByteWriter) WriteU16BE(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.WriteBytes(b[:])
}

// WriteU32BE appends a big-endian uint32.
func (w *ByteWriter) WriteU32BE(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.WriteBytes(b[:])
}

// WriteF64BE appends 8 bytes: a big-endian IEEE-754 double, or the
// canonical NaN sequence when v is NaN, so a NaN written on any host
// is recognized by any host.
func (w *ByteWriter) WriteF64BE(v float64) {
	if math.IsNaN(v) {
		w.WriteBytes(config.CanonicalNaN[:])
		return
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.WriteBytes(b[:])
}

// WriteU29 encodes n using 1-4 bytes per the AMF3 variable-length
// integer layout. Negative or out-of-range (>= 2^29) values fail with
// ErrRangeError; a well-formed Value never produces one.
func (w *ByteWriter) WriteU29(n int64) error {
	if n < 0 {
		return errors.Wrapf(ErrRangeError, "negative u29 value %d", n)
	}
	if n >= 0x20000000 {
		return errors.Wrapf(ErrRangeError, "u29 value %d exceeds 29 bits", n)
	}
	switch {
	case n < 0x80:
		w.WriteU8(byte(n))
	case n < 0x4000:
		w.WriteU8(byte(n>>7) | 0x80)
		w.WriteU8(byte(n & 0x7F))
	case n < 0x200000:
		w.WriteU8(byte(n>>14) | 0x80)
		w.WriteU8(byte((n>>7)&0x7F) | 0x80)
		w.WriteU8(byte(n & 0x7F))
	default:
		w.WriteU8(byte(n>>22) | 0x80)
		w.WriteU8(byte((n>>15)&0x7F) | 0x80)
		w.WriteU8(byte((n>>8)&0x7F) | 0x80)
		w.WriteU8(byte(n))
	}
	return nil
}
