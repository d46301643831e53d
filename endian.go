package amf3

import "github.com/torresjeff/amf3/config"

// The reference AMF3 implementations this codec is compatible with are
// written in C/C++ and probe host endianness once at startup so they
// can byte-swap multi-byte values by hand. Go's encoding/binary already
// performs that conversion in a host-independent way (BigEndian.Uint64
// always reads/writes most-significant-byte-first, regardless of the
// machine it runs on), so ByteReader and ByteWriter never need to know
// or care what the host's native endianness is.
//
// The one place a host-endianness assumption survives on the wire is
// the canonical NaN encoding: a little-endian peer that never corrected
// for endianness would have written the quiet-NaN bit pattern as
// 00 00 00 00 00 00 F8 7F. This codec treats that exact byte sequence
// as a special case on both read and write, independent of host
// endianness, so a NaN produced by any peer round-trips through any
// other.
func isCanonicalNaN(b []byte) bool {
	if len(b) != len(config.CanonicalNaN) {
		return false
	}
	for i, want := range config.CanonicalNaN {
		if b[i] != want {
			return false
		}
	}
	return true
}
