package amf3

import "github.com/pkg/errors"

// Sentinel errors identifying the kind of failure a Decoder or Encoder
// hit. Every error returned by this package wraps exactly one of
// these; use errors.Is(err, amf3.ErrTruncated) (etc.) to classify it.
// All of them are fatal to the call that produced them: decoding never
// retries or resynchronizes, and no partial Value is ever returned
// alongside an error.
var (
	// ErrTruncated means the reader needed more bytes than buf had left.
	ErrTruncated = errors.New("amf3: truncated input")

	// ErrUnsupportedMarker means a marker byte fell outside the set this
	// codec understands: no XML, ByteArray, or Vector<T> support.
	ErrUnsupportedMarker = errors.New("amf3: unsupported marker")

	// ErrUnsupportedExternalizable means an object's trait tag declared
	// it externalizable, which this codec refuses to parse.
	ErrUnsupportedExternalizable = errors.New("amf3: externalizable traits are not supported")

	// ErrBadStringRef means a string back-reference index was not less
	// than the current size of the string reference table.
	ErrBadStringRef = errors.New("amf3: string reference out of range")

	// ErrBadObjectRef means an object/array/date back-reference index
	// was not less than the current size of the object reference table.
	ErrBadObjectRef = errors.New("amf3: object reference out of range")

	// ErrBadTraitRef means a trait back-reference index was not less
	// than the current size of the trait reference table.
	ErrBadTraitRef = errors.New("amf3: trait reference out of range")

	// ErrInvalidUTF8 means a string's bytes were not valid UTF-8.
	ErrInvalidUTF8 = errors.New("amf3: string is not valid utf-8")

	// ErrRangeError means the encoder was asked to write a negative or
	// out-of-range U29 value. Should be unreachable from a well-formed
	// Value; Integer values outside the U29 range are encoded as
	// doubles instead of reaching WriteU29 at all.
	ErrRangeError = errors.New("amf3: u29 value out of range")

	// errMaxDepthExceeded guards against runaway recursion when an
	// object/array/date back-reference points into a region that itself
	// contains a back-reference to the same slot, which would otherwise
	// recurse forever re-parsing the same bytes. This codec does not
	// fully materialize true self-reference cycles; this keeps that
	// case an error instead of a stack overflow. It is also returned for
	// any input nested deeper than maxDecodeDepth, cyclic or not. It is
	// kept out of the documented error-kind list above because it is not
	// reachable from any input this codec is meant to interpret as
	// self-referential in the ordinary (sibling back-reference) sense --
	// only from a pathological cyclic one or from excessive nesting.
	errMaxDepthExceeded = errors.New("amf3: maximum nesting depth exceeded")
)
