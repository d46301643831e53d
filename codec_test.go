package amf3

import (
	"encoding/hex"
	"errors"
	"math"
	"testing"
	"time"
)

// TestScenarios_SpecExamples pins the worked hex examples the AMF3
// encoder's behavior is defined against: conservative integer
// thresholds, string/array/object layout, and object identity
// back-references.
func TestScenarios_SpecExamples(t *testing.T) {
	t.Run("E1 Integer(0)", func(t *testing.T) {
		b, err := Marshal(Int(0))
		if err != nil {
			t.Fatal(err)
		}
		if hex.EncodeToString(b) != "0400" {
			t.Errorf("Marshal(Int(0)) = %x, want 0400", b)
		}
		v, n, err := Unmarshal(b)
		if err != nil {
			t.Fatal(err)
		}
		if n != len(b) || !v.Equal(Int(0)) {
			t.Errorf("round-trip: got %v (%d bytes)", v, n)
		}
	})

	t.Run("E2 Integer threshold", func(t *testing.T) {
		b, _ := Marshal(Int(127))
		if hex.EncodeToString(b) != "047f" {
			t.Errorf("Marshal(Int(127)) = %x, want 047f", b)
		}
		b, _ = Marshal(Int(128))
		if hex.EncodeToString(b) != "048100" {
			t.Errorf("Marshal(Int(128)) = %x, want 048100", b)
		}
		// 0x200000 exceeds the encoder's conservative threshold and
		// must be emitted as a Double, not an Integer.
		b, _ = Marshal(Int(0x200000))
		if b[0] != markerDouble {
			t.Errorf("Marshal(Int(0x200000))[0] = %#x, want markerDouble", b[0])
		}
		if len(b) != 9 {
			t.Errorf("Marshal(Int(0x200000)) length = %d, want 9", len(b))
		}
	})

	t.Run("E3 strings", func(t *testing.T) {
		b, _ := Marshal(Str(""))
		if hex.EncodeToString(b) != "0601" {
			t.Errorf("Marshal(Str(\"\")) = %x, want 0601", b)
		}
		b, _ = Marshal(Str("a"))
		if hex.EncodeToString(b) != "060361" {
			t.Errorf("Marshal(Str(\"a\")) = %x, want 060361", b)
		}
	})

	t.Run("E4 array", func(t *testing.T) {
		b, err := Marshal(ArrayValue(Int(1), Int(2)))
		if err != nil {
			t.Fatal(err)
		}
		want := "09050104010402"
		if hex.EncodeToString(b) != want {
			t.Errorf("Marshal(Array([1,2])) = %x, want %s", b, want)
		}
	})

	t.Run("E5 object", func(t *testing.T) {
		b, err := Marshal(NewObject("Object", Prop("a", Int(1))))
		if err != nil {
			t.Fatal(err)
		}
		want := "0a0b0d4f626a6563740361040101"
		if hex.EncodeToString(b) != want {
			t.Errorf("Marshal(Object) = %x, want %s", b, want)
		}
	})

	t.Run("E6 shared object back-reference", func(t *testing.T) {
		o := NewObject("Object")
		b, err := Marshal(ArrayValue(o, o))
		if err != nil {
			t.Fatal(err)
		}
		v, n, err := Unmarshal(b)
		if err != nil {
			t.Fatal(err)
		}
		if n != len(b) {
			t.Errorf("consumed %d, want %d", n, len(b))
		}
		items := v.Items()
		if len(items) != 2 {
			t.Fatalf("got %d items, want 2", len(items))
		}
		if !items[0].Equal(items[1]) {
			t.Errorf("shared object did not round-trip equal: %v vs %v", items[0], items[1])
		}
	})
}

func TestRoundTrip_Leaves(t *testing.T) {
	values := []Value{
		Undefined(),
		Null(),
		Bool(true),
		Bool(false),
		Int(0),
		Int(1),
		Int(0x1FFFFF), // largest value still under the encoder's Integer threshold
		Double(0),
		Double(-1.5),
		Double(math.NaN()),
		Str(""),
		Str("hello, world"),
		Str("unicode: é中\U0001F600"),
		DateValue(time.UnixMilli(1_700_000_000_000).UTC()),
	}

	for _, v := range values {
		b, err := Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", v, err)
		}
		got, n, err := Unmarshal(b)
		if err != nil {
			t.Fatalf("Unmarshal(Marshal(%v)): %v", v, err)
		}
		if n != len(b) {
			t.Errorf("Unmarshal consumed %d of %d bytes for %v", n, len(b), v)
		}
		if !got.Equal(v) {
			t.Errorf("round-trip %v => %v", v, got)
		}
	}
}

func TestRoundTrip_ArrayAndObject(t *testing.T) {
	v := ArrayValue(
		Int(1),
		Str("two"),
		NewObject("Point", Prop("x", Int(1)), Prop("y", Int(2))),
		ArrayValue(),
		NewObject(""),
	)

	b, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	got, n, err := Unmarshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(b) {
		t.Errorf("consumed %d of %d", n, len(b))
	}
	if !got.Equal(v) {
		t.Errorf("round-trip mismatch:\n got  %+v\n want %+v", got, v)
	}
}

func TestObjectPropertyOrderPreserved(t *testing.T) {
	v := NewObject("Foo", Prop("z", Int(1)), Prop("a", Int(2)), Prop("m", Int(3)))
	b, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := Unmarshal(b)
	if err != nil {
		t.Fatal(err)
	}
	props := got.Properties()
	wantOrder := []string{"z", "a", "m"}
	if len(props) != len(wantOrder) {
		t.Fatalf("got %d properties, want %d", len(props), len(wantOrder))
	}
	for i, name := range wantOrder {
		if props[i].Name != name {
			t.Errorf("property %d = %q, want %q", i, props[i].Name, name)
		}
	}
}

func TestEncoder_ObjectIdentityDedup(t *testing.T) {
	shared := NewObject("Shared", Prop("n", Int(1)))
	separatelyBuilt := NewObject("Shared", Prop("n", Int(1)))

	b, err := Marshal(ArrayValue(shared, shared, separatelyBuilt))
	if err != nil {
		t.Fatal(err)
	}

	v, _, err := Unmarshal(b)
	if err != nil {
		t.Fatal(err)
	}
	items := v.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i, item := range items {
		if !item.Equal(shared) {
			t.Errorf("item %d = %v, want equal to shared", i, item)
		}
	}
}

func TestDecode_TruncatedPrefixesAlwaysFail(t *testing.T) {
	full, err := Marshal(NewObject("Foo", Prop("a", Int(1)), Prop("b", Str("hello"))))
	if err != nil {
		t.Fatal(err)
	}
	for n := 0; n < len(full); n++ {
		if _, _, err := Unmarshal(full[:n]); err == nil {
			t.Errorf("Unmarshal(full[:%d]) succeeded on a truncated prefix", n)
		}
	}
	// The full buffer must still decode cleanly.
	if _, _, err := Unmarshal(full); err != nil {
		t.Errorf("Unmarshal(full buffer) failed: %v", err)
	}
}

func TestDecode_UnsupportedMarker(t *testing.T) {
	// 0x0D (Vector<int>) is outside the supported marker set.
	if _, _, err := Unmarshal([]byte{0x0D}); err == nil {
		t.Error("Unmarshal(Vector<int> marker) succeeded, want ErrUnsupportedMarker")
	} else if !errorsIs(err, ErrUnsupportedMarker) {
		t.Errorf("got error %v, want wrapping ErrUnsupportedMarker", err)
	}
}

func TestDecode_ExternalizableRejected(t *testing.T) {
	// Object marker, U29 tag 0x07 (externalizable flag, low bits 111).
	b := []byte{markerObject, 0x07}
	if _, _, err := Unmarshal(b); err == nil {
		t.Error("Unmarshal(externalizable object) succeeded, want ErrUnsupportedExternalizable")
	} else if !errorsIs(err, ErrUnsupportedExternalizable) {
		t.Errorf("got error %v, want wrapping ErrUnsupportedExternalizable", err)
	}
}

func TestDecode_BadBackReferences(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		want error
	}{
		{"string ref", []byte{markerString, 0x00}, ErrBadStringRef},
		{"array ref", []byte{markerArray, 0x00}, ErrBadObjectRef},
		{"object ref", []byte{markerObject, 0x00}, ErrBadObjectRef},
		{"date ref", []byte{markerDate, 0x00}, ErrBadObjectRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Unmarshal(tt.b); err == nil {
				t.Fatalf("Unmarshal(%x) succeeded, want %v", tt.b, tt.want)
			} else if !errorsIs(err, tt.want) {
				t.Errorf("got error %v, want wrapping %v", err, tt.want)
			}
		})
	}
}

func TestDecode_InvalidUTF8(t *testing.T) {
	// String marker, length tag (1<<1)|1=3, then one invalid UTF-8 byte.
	b := []byte{markerString, 0x03, 0xFF}
	if _, _, err := Unmarshal(b); err == nil {
		t.Error("Unmarshal(invalid utf-8 string) succeeded, want ErrInvalidUTF8")
	} else if !errorsIs(err, ErrInvalidUTF8) {
		t.Errorf("got error %v, want wrapping ErrInvalidUTF8", err)
	}
}

func TestDecoder_AMFLIBCompat_DisablesSignExtension(t *testing.T) {
	w := NewByteWriter()
	w.WriteU8(markerInteger)
	if err := w.WriteU29(0x1FFFFFFF); err != nil {
		t.Fatal(err)
	}
	b := w.Bytes()

	d := &Decoder{SignExtend: false}
	v, _, err := d.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int() != 0x1FFFFFFF {
		t.Errorf("with SignExtend=false, Int() = %#x, want 0x1FFFFFFF", v.Int())
	}

	d = NewDecoder()
	v, _, err = d.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int() != -1 {
		t.Errorf("with default SignExtend, Int() = %d, want -1", v.Int())
	}
}

// errorsIs is a thin wrapper so test cases read the same whether the
// wrap came from github.com/pkg/errors (which implements Unwrap as of
// v0.9) or the standard library.
func errorsIs(err, target error) bool {
	return errors.Is(err, target)
}
