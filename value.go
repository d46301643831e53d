package amf3

import "time"

// Kind tags which AMF3 variant a Value holds.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindInteger
	KindDouble
	KindString
	KindDate
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// ObjectValue is the backing storage for a KindObject Value. It is
// always reached through a pointer so that two Values sharing the same
// *ObjectValue are recognized as the same object by the Encoder's
// object-reference table: identity equality determines reuse.
// Properties preserves insertion order; sealed properties (if any were
// declared on decode) come first, followed by dynamic ones in the
// order they were read.
type ObjectValue struct {
	ClassName  string
	Properties []Property
}

// Property is one name/value pair of an Object, kept in an ordered
// slice rather than a map so that property order round-trips.
type Property struct {
	Name  string
	Value Value
}

// Value is a tagged variant over the AMF3 data model: Undefined, Null,
// Boolean, Integer, Double, String, Date, Array, and Object. The zero
// Value is Undefined.
type Value struct {
	kind    Kind
	boolean bool
	integer int32
	double  float64
	str     string
	date    time.Time
	items   []Value
	object  *ObjectValue
}

// Undefined returns the AMF3 undefined value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Null returns the AMF3 null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns an AMF3 boolean.
func Bool(b bool) Value { return Value{kind: KindBoolean, boolean: b} }

// Int returns an AMF3 integer. i must fit the 29-bit signed range
// [-2^28, 2^28-1]; the Encoder does not validate this beyond what
// encoding as a double would already handle for an out-of-range value.
func Int(i int32) Value { return Value{kind: KindInteger, integer: i} }

// Double returns an AMF3 double. NaN is canonicalized on encode.
func Double(f float64) Value { return Value{kind: KindDouble, double: f} }

// Str returns an AMF3 string.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// DateValue returns an AMF3 date holding t as given. AMF3's wire
// representation is milliseconds since the Unix epoch, so
// sub-millisecond precision in t is lost on encode.
func DateValue(t time.Time) Value { return Value{kind: KindDate, date: t} }

// ArrayValue returns an AMF3 array holding the dense portion only;
// AMF3's associative portion is not represented.
func ArrayValue(items ...Value) Value { return Value{kind: KindArray, items: items} }

// NewObject returns an AMF3 object with the given class name (empty for
// an anonymous object) and properties, in the order given.
func NewObject(className string, properties ...Property) Value {
	return Value{kind: KindObject, object: &ObjectValue{ClassName: className, Properties: properties}}
}

// Prop constructs a Property, for use with NewObject.
func Prop(name string, v Value) Property { return Property{Name: name, Value: v} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; only meaningful when Kind() == KindBoolean.
func (v Value) Bool() bool { return v.boolean }

// Int returns the integer payload; only meaningful when Kind() == KindInteger.
func (v Value) Int() int32 { return v.integer }

// Float returns the double payload; only meaningful when Kind() == KindDouble.
func (v Value) Float() float64 { return v.double }

// Str returns the string payload; only meaningful when Kind() == KindString.
func (v Value) Str() string { return v.str }

// Time returns the date payload; only meaningful when Kind() == KindDate.
func (v Value) Time() time.Time { return v.date }

// Items returns the array's dense elements in order; only meaningful
// when Kind() == KindArray. The returned slice aliases v's storage.
func (v Value) Items() []Value { return v.items }

// ClassName returns the object's class name ("" for an anonymous
// object, or for any non-object Value).
func (v Value) ClassName() string {
	if v.object == nil {
		return ""
	}
	return v.object.ClassName
}

// Properties returns the object's properties in insertion order; nil
// for any non-object Value.
func (v Value) Properties() []Property {
	if v.object == nil {
		return nil
	}
	return v.object.Properties
}

// Get returns the named property's value and true, or the zero Value
// and false if v is not an object or has no such property.
func (v Value) Get(name string) (Value, bool) {
	for _, p := range v.Properties() {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// identity returns the pointer the Encoder's object-reference table
// keys on. Two Values produced from the same NewObject call (or copied
// from one another) share it; two separately constructed objects never
// do, even with identical contents.
func (v Value) identity() *ObjectValue { return v.object }

// Equal reports whether v and other have the same structure and
// values. Object identity is not considered: two separately built
// objects with equal class name and properties compare equal, matching
// the decoder's own inability to reconstruct encode-time identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return v.boolean == other.boolean
	case KindInteger:
		return v.integer == other.integer
	case KindDouble:
		return v.double == other.double || (isNaN(v.double) && isNaN(other.double))
	case KindString:
		return v.str == other.str
	case KindDate:
		return v.date.Equal(other.date)
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		a, b := v.object, other.object
		if a == nil || b == nil {
			return a == b
		}
		if a.ClassName != b.ClassName || len(a.Properties) != len(b.Properties) {
			return false
		}
		for i := range a.Properties {
			if a.Properties[i].Name != b.Properties[i].Name {
				return false
			}
			if !a.Properties[i].Value.Equal(b.Properties[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isNaN(f float64) bool { return f != f }
