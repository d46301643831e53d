package amf3

import (
	"math"
	"testing"
	"time"
)

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"undefined", Undefined(), Undefined(), true},
		{"null vs undefined", Null(), Undefined(), false},
		{"equal ints", Int(5), Int(5), true},
		{"different ints", Int(5), Int(6), false},
		{"nan doubles", Double(math.NaN()), Double(math.NaN()), true},
		{"equal strings", Str("a"), Str("a"), true},
		{"equal arrays", ArrayValue(Int(1), Int(2)), ArrayValue(Int(1), Int(2)), true},
		{"different array length", ArrayValue(Int(1)), ArrayValue(Int(1), Int(2)), false},
		{
			"separately built equal objects",
			NewObject("Foo", Prop("a", Int(1))),
			NewObject("Foo", Prop("a", Int(1))),
			true,
		},
		{
			"different property order",
			NewObject("Foo", Prop("a", Int(1)), Prop("b", Int(2))),
			NewObject("Foo", Prop("b", Int(2)), Prop("a", Int(1))),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Get(t *testing.T) {
	obj := NewObject("Foo", Prop("a", Int(1)), Prop("b", Str("two")))

	v, ok := obj.Get("b")
	if !ok || v.Str() != "two" {
		t.Errorf("Get(%q) = (%v, %v), want (Str(two), true)", "b", v, ok)
	}

	if _, ok := obj.Get("missing"); ok {
		t.Error("Get on missing property returned true")
	}

	if _, ok := Int(1).Get("a"); ok {
		t.Error("Get on a non-object Value returned true")
	}
}

func TestValue_DateRoundTripsToMillisecondPrecision(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 500_000_000, time.UTC)
	v := DateValue(now)
	if !v.Time().Equal(now) {
		t.Errorf("Time() = %v, want %v", v.Time(), now)
	}
}

func TestKind_String(t *testing.T) {
	if got := KindObject.String(); got != "object" {
		t.Errorf("KindObject.String() = %q, want %q", got, "object")
	}
}
