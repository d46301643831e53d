package amf3

import (
	"github.com/pkg/errors"

	"github.com/torresjeff/amf3/config"
)

// Encoder walks a Value tree and emits AMF3 bytes. It maintains only an
// object-reference table: strings and trait descriptors are never
// deduplicated on encode, which keeps the Encoder nearly stateless
// between top-level calls and guarantees a Value's property order
// round-trips exactly regardless of how many times a given string
// appears elsewhere in the tree.
type Encoder struct {
	refs map[*ObjectValue]int
}

// NewEncoder returns a ready-to-use Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Marshal encodes v to AMF3 bytes using a fresh Encoder.
func Marshal(v Value) ([]byte, error) {
	return NewEncoder().Encode(v)
}

// Encode resets the object-reference table and emits v.
func (e *Encoder) Encode(v Value) ([]byte, error) {
	e.refs = make(map[*ObjectValue]int)
	w := NewByteWriter()
	if err := e.encodeValue(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (e *Encoder) encodeValue(w *ByteWriter, v Value) error {
	switch v.kind {
	case KindUndefined:
		w.WriteU8(markerUndefined)
		return nil
	case KindNull:
		w.WriteU8(markerNull)
		return nil
	case KindBoolean:
		if v.boolean {
			w.WriteU8(markerTrue)
		} else {
			w.WriteU8(markerFalse)
		}
		return nil
	case KindInteger:
		return e.encodeInteger(w, v.integer)
	case KindDouble:
		w.WriteU8(markerDouble)
		w.WriteF64BE(v.double)
		return nil
	case KindString:
		w.WriteU8(markerString)
		return e.encodeStringValue(w, v.str)
	case KindDate:
		return e.encodeDate(w, v)
	case KindArray:
		return e.encodeArray(w, v.items)
	case KindObject:
		return e.encodeObject(w, v.object)
	default:
		return errors.Errorf("amf3: cannot encode value of kind %v", v.kind)
	}
}

// encodeInteger applies the encoder's conservative threshold: only
// values in [0, 0x00200000) use the Integer marker. Everything else,
// including every negative Integer, is emitted as a double —
// intentionally narrower than the 29-bit range the wire format
// actually allows, to work around a historical peer bug.
func (e *Encoder) encodeInteger(w *ByteWriter, i int32) error {
	if i >= 0 && i < config.MaxEncodedInteger {
		w.WriteU8(markerInteger)
		return w.WriteU29(int64(i))
	}
	w.WriteU8(markerDouble)
	w.WriteF64BE(float64(i))
	return nil
}

// encodeStringValue writes a string's U29 length tag and UTF-8 bytes,
// without the leading 0x06 marker (used both for the top-level String
// case and for keys/class names, which carry no marker of their own).
// Strings are never interned on encode.
func (e *Encoder) encodeStringValue(w *ByteWriter, s string) error {
	if err := w.WriteU29((int64(len(s)) << 1) | 1); err != nil {
		return err
	}
	w.WriteBytes([]byte(s))
	return nil
}

func (e *Encoder) encodeArray(w *ByteWriter, items []Value) error {
	w.WriteU8(markerArray)
	if err := w.WriteU29((int64(len(items)) << 1) | 1); err != nil {
		return err
	}
	// Empty associative portion: a single empty-string terminator.
	if err := e.encodeStringValue(w, ""); err != nil {
		return err
	}
	for _, item := range items {
		if err := e.encodeValue(w, item); err != nil {
			return err
		}
	}
	return nil
}

// encodeObject writes every object through the dynamic-trait branch
// (tag 0x0B, dynamic with zero sealed members, not externalizable),
// deduplicated only by *ObjectValue identity.
func (e *Encoder) encodeObject(w *ByteWriter, obj *ObjectValue) error {
	w.WriteU8(markerObject)

	if idx, ok := e.refs[obj]; ok {
		return w.WriteU29(int64(idx) << 1)
	}

	idx := len(e.refs)
	e.refs[obj] = idx

	if err := w.WriteU29(0x0B); err != nil {
		return err
	}
	if err := e.encodeStringValue(w, obj.ClassName); err != nil {
		return err
	}
	for _, p := range obj.Properties {
		if err := e.encodeStringValue(w, p.Name); err != nil {
			return err
		}
		if err := e.encodeValue(w, p.Value); err != nil {
			return err
		}
	}
	return e.encodeStringValue(w, "")
}

// encodeDate always writes inline and is never deduplicated, since the
// Encoder's object-reference table only tracks *ObjectValue identity.
func (e *Encoder) encodeDate(w *ByteWriter, v Value) error {
	w.WriteU8(markerDate)
	if err := w.WriteU29(1); err != nil {
		return err
	}
	w.WriteF64BE(float64(v.date.UnixMilli()))
	return nil
}
