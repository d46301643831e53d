// Package config holds the tunable constants that govern how the amf3
// package encodes and decodes values. They are kept separate from the
// codec itself so a caller can see at a glance what is configurable
// without wading through marker-dispatch logic.
package config

// MaxEncodedInteger is the exclusive upper bound of the values the
// encoder emits using the Integer marker (0x04): only [0,
// MaxEncodedInteger) qualify. Non-negative values at or above it that
// would still fit in a 29-bit signed integer are instead emitted as
// doubles, working around a historical bug in a widely deployed peer
// that mis-parses U29 integers above this threshold.
// Negative integers are always emitted as doubles too, since the
// Integer range starts at 0 — a deliberate asymmetry inherited from the
// legacy encoder this codec stays bit-compatible with.
const MaxEncodedInteger = 0x00200000

// DefaultSignExtend controls whether a Decoder sign-extends the 29th bit
// of an assembled U29 into a 32-bit two's-complement integer. True
// matches the AMF3 specification; false reproduces one legacy peer that
// omits the sign-extension step (the AMFLIB_COMPAT toggle).
const DefaultSignExtend = true

// CanonicalNaN is the exact 8-byte sequence used to encode and recognize
// NaN regardless of host endianness: the IEEE-754 quiet-NaN bit pattern
// as a little-endian peer would have written it.
var CanonicalNaN = [8]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF8, 0x7F}
