package amf3

import (
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/torresjeff/amf3/config"
)

// maxDecodeDepth bounds recursion through nested values and
// object/array/date back-reference replays. See errMaxDepthExceeded.
const maxDecodeDepth = 1000

// objectRef is what the object reference table actually stores: not a
// parsed Value, but enough to re-parse one. offset indexes into the
// original input buffer, at the position immediately after the tag
// that introduced the object/array/date; tag is that same U29 value,
// needed to know how to resume parsing from offset. This mirrors the
// reference decoder, which captures a byte region plus the original
// inline tag rather than a materialized value.
type objectRef struct {
	offset int
	tag    int32
}

// traitInfo is a decoded trait (class) descriptor: whether the object
// accepts dynamic properties beyond its sealed set, its class name, and
// the ordered sealed property names.
type traitInfo struct {
	dynamic    bool
	className  string
	properties []string
}

// Decoder walks an AMF3 byte stream and produces a Value tree. A
// Decoder may be reused across calls to Decode; each call resets the
// three reference tables, since AMF3 reference tables live for exactly
// one top-level decode.
type Decoder struct {
	// SignExtend selects standards-correct U29 sign extension (true,
	// the default) or reproduces a legacy peer that omits it
	// (AMFLIB_COMPAT, false). See ByteReader.ReadU29.
	SignExtend bool

	stringRefs []string
	objectRefs []objectRef
	traitRefs  []traitInfo
	depth      int
}

// NewDecoder returns a Decoder with standards-correct sign extension.
func NewDecoder() *Decoder {
	return &Decoder{SignExtend: config.DefaultSignExtend}
}

// Unmarshal decodes a single top-level AMF3 value from b using a
// fresh Decoder, returning the value and how many bytes were consumed
// from the front of b. Trailing bytes are ignored but reported.
func Unmarshal(b []byte) (Value, int, error) {
	return NewDecoder().Decode(b)
}

// Decode reads a single top-level value from b, returning the decoded
// value and the number of bytes the cursor advanced. On error the
// returned Value is the zero Value and consumed reflects how far the
// cursor got before the failure; the caller must discard it.
func (d *Decoder) Decode(b []byte) (Value, int, error) {
	d.stringRefs = d.stringRefs[:0]
	d.objectRefs = d.objectRefs[:0]
	d.traitRefs = d.traitRefs[:0]
	d.depth = 0

	r := NewByteReader(b, d.SignExtend)
	v, err := d.decodeValue(r)
	if err != nil {
		return Value{}, r.Consumed(), err
	}
	return v, r.Consumed(), nil
}

func (d *Decoder) decodeValue(r *ByteReader) (Value, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDecodeDepth {
		return Value{}, errMaxDepthExceeded
	}

	markerOffset := r.Consumed()
	marker, err := r.ReadU8()
	if err != nil {
		return Value{}, err
	}

	switch marker {
	case markerUndefined:
		return Undefined(), nil
	case markerNull:
		return Null(), nil
	case markerFalse:
		return Bool(false), nil
	case markerTrue:
		return Bool(true), nil
	case markerInteger:
		n, err := r.ReadU29()
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case markerDouble:
		f, err := r.ReadF64BE()
		if err != nil {
			return Value{}, err
		}
		return Double(f), nil
	case markerString:
		s, err := d.decodeString(r)
		if err != nil {
			return Value{}, err
		}
		return Str(s), nil
	case markerDate:
		return d.decodeDate(r)
	case markerArray:
		return d.decodeArray(r)
	case markerObject:
		return d.decodeObject(r)
	default:
		return Value{}, errors.Wrapf(ErrUnsupportedMarker, "marker 0x%02x at offset %d", marker, markerOffset)
	}
}

// decodeString reads a string by its U29-prefixed back-reference or
// inline-length encoding. It is also used, unchanged, for object class
// names, sealed/dynamic property keys, and array associative-portion
// keys, all of which participate in the same string reference table as
// top-level strings.
func (d *Decoder) decodeString(r *ByteReader) (string, error) {
	n, err := r.ReadU29()
	if err != nil {
		return "", err
	}

	if n&1 == 0 {
		idx := int(n) >> 1
		if idx < 0 || idx >= len(d.stringRefs) {
			return "", errors.Wrapf(ErrBadStringRef, "index %d at offset %d", idx, r.Consumed())
		}
		return d.stringRefs[idx], nil
	}

	length := int(n) >> 1
	if length == 0 {
		return "", nil
	}
	if length < 0 {
		return "", errors.Wrapf(ErrTruncated, "negative string length at offset %d", r.Consumed())
	}

	raw, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", errors.Wrapf(ErrInvalidUTF8, "string at offset %d", r.Consumed()-length)
	}
	s := string(raw)
	d.stringRefs = append(d.stringRefs, s)
	return s, nil
}

// decodeDate reads a date by its U29-prefixed object-reference or
// inline encoding, replaying the captured byte region on a back-reference.
func (d *Decoder) decodeDate(r *ByteReader) (Value, error) {
	n, err := r.ReadU29()
	if err != nil {
		return Value{}, err
	}
	if n&1 == 0 {
		idx := int(n) >> 1
		if idx < 0 || idx >= len(d.objectRefs) {
			return Value{}, errors.Wrapf(ErrBadObjectRef, "date reference index %d", idx)
		}
		ref := d.objectRefs[idx]
		return d.decodeDateBody(r.SubReaderAt(ref.offset))
	}

	d.objectRefs = append(d.objectRefs, objectRef{offset: r.Consumed(), tag: n})
	return d.decodeDateBody(r)
}

func (d *Decoder) decodeDateBody(r *ByteReader) (Value, error) {
	ms, err := r.ReadF64BE()
	if err != nil {
		return Value{}, err
	}
	return DateValue(time.UnixMilli(int64(ms))), nil
}

// decodeArray reads an array by its U29-prefixed object-reference or
// inline encoding, replaying the captured byte region on a back-reference.
func (d *Decoder) decodeArray(r *ByteReader) (Value, error) {
	n, err := r.ReadU29()
	if err != nil {
		return Value{}, err
	}
	if n&1 == 0 {
		idx := int(n) >> 1
		if idx < 0 || idx >= len(d.objectRefs) {
			return Value{}, errors.Wrapf(ErrBadObjectRef, "array reference index %d", idx)
		}
		ref := d.objectRefs[idx]
		return d.decodeArrayBody(r.SubReaderAt(ref.offset), ref.tag)
	}

	ref := objectRef{offset: r.Consumed(), tag: n}
	d.objectRefs = append(d.objectRefs, ref)
	return d.decodeArrayBody(r, n)
}

func (d *Decoder) decodeArrayBody(r *ByteReader, tag int32) (Value, error) {
	// Associative portion: AMF3 permits string-keyed entries ahead of
	// the dense portion. This codec surfaces only the dense portion;
	// associative entries are decoded (so the cursor and string table
	// stay correct) and discarded.
	for {
		key, err := d.decodeString(r)
		if err != nil {
			return Value{}, err
		}
		if key == "" {
			break
		}
		if _, err := d.decodeValue(r); err != nil {
			return Value{}, err
		}
	}

	length := int(tag) >> 1
	if length < 0 {
		length = 0
	}
	items := make([]Value, 0, length)
	for i := 0; i < length; i++ {
		v, err := d.decodeValue(r)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	return Value{kind: KindArray, items: items}, nil
}

// decodeObject reads the leading U29 tag and either resolves an object
// back-reference or registers a fresh object reference slot before
// handing the tag to decodeObjectTagged, which does the trait-flag
// dispatch shared by both the original parse and a back-reference
// replay.
func (d *Decoder) decodeObject(r *ByteReader) (Value, error) {
	n, err := r.ReadU29()
	if err != nil {
		return Value{}, err
	}

	if n&1 == 0 {
		idx := int(n) >> 1
		if idx < 0 || idx >= len(d.objectRefs) {
			return Value{}, errors.Wrapf(ErrBadObjectRef, "object reference index %d", idx)
		}
		ref := d.objectRefs[idx]
		return d.decodeObjectTagged(r.SubReaderAt(ref.offset), ref.tag)
	}

	ref := objectRef{offset: r.Consumed(), tag: n}
	d.objectRefs = append(d.objectRefs, ref)
	return d.decodeObjectTagged(r, n)
}

func (d *Decoder) decodeObjectTagged(r *ByteReader, n int32) (Value, error) {
	switch {
	case n&7 == 7:
		return Value{}, errors.Wrapf(ErrUnsupportedExternalizable, "at offset %d", r.Consumed())
	case n&7 == 3:
		dynamic := n&8 != 0
		sealedCount := int(n) >> 4
		className, err := d.decodeString(r)
		if err != nil {
			return Value{}, err
		}
		if sealedCount < 0 {
			return Value{}, errors.Wrapf(ErrTruncated, "negative sealed property count at offset %d", r.Consumed())
		}
		names := make([]string, 0, sealedCount)
		for i := 0; i < sealedCount; i++ {
			name, err := d.decodeString(r)
			if err != nil {
				return Value{}, err
			}
			names = append(names, name)
		}
		tr := traitInfo{dynamic: dynamic, className: className, properties: names}
		d.traitRefs = append(d.traitRefs, tr)
		return d.readObjectProperties(r, tr)
	case n&3 == 1:
		idx := int(n) >> 2
		if idx < 0 || idx >= len(d.traitRefs) {
			return Value{}, errors.Wrapf(ErrBadTraitRef, "index %d at offset %d", idx, r.Consumed())
		}
		return d.readObjectProperties(r, d.traitRefs[idx])
	default:
		return Value{}, errors.Wrapf(ErrUnsupportedMarker, "unrecognized object flag 0x%x at offset %d", n, r.Consumed())
	}
}

func (d *Decoder) readObjectProperties(r *ByteReader, tr traitInfo) (Value, error) {
	props := make([]Property, 0, len(tr.properties))
	for _, name := range tr.properties {
		v, err := d.decodeValue(r)
		if err != nil {
			return Value{}, err
		}
		props = append(props, Property{Name: name, Value: v})
	}

	if tr.dynamic {
		for {
			key, err := d.decodeString(r)
			if err != nil {
				return Value{}, err
			}
			if key == "" {
				break
			}
			v, err := d.decodeValue(r)
			if err != nil {
				return Value{}, err
			}
			props = append(props, Property{Name: key, Value: v})
		}
	}

	return Value{kind: KindObject, object: &ObjectValue{ClassName: tr.className, Properties: props}}, nil
}
