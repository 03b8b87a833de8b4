package reflectx

import (
	"encoding"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestTypeName(t *testing.T) {
	if got := TypeName(reflect.Value{}); got != "nil" {
		t.Errorf("TypeName(invalid) = %q, want nil", got)
	}
	if got := TypeName(reflect.ValueOf(42)); got != "int" {
		t.Errorf("TypeName(42) = %q, want int", got)
	}
}

func TestIsNil(t *testing.T) {
	var p *int
	var m map[string]int
	tests := []struct {
		name string
		v    reflect.Value
		want bool
	}{
		{"invalid", reflect.Value{}, true},
		{"nil pointer", reflect.ValueOf(p), true},
		{"nil map", reflect.ValueOf(m), true},
		{"int", reflect.ValueOf(0), false},
		{"empty slice", reflect.ValueOf([]int{}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNil(tt.v); got != tt.want {
				t.Errorf("IsNil = %v, want %v", got, tt.want)
			}
		})
	}
}

type ptrText struct{}

func (*ptrText) MarshalText() ([]byte, error) { return []byte("x"), nil }

func TestImplementsAndReceiver(t *testing.T) {
	textMarshaler := reflect.TypeFor[encoding.TextMarshaler]()

	if !Implements(reflect.TypeFor[time.Time](), textMarshaler, false) {
		t.Error("time.Time should implement TextMarshaler by value")
	}
	if Implements(reflect.TypeFor[ptrText](), textMarshaler, false) {
		t.Error("ptrText should not implement TextMarshaler by value")
	}
	if !Implements(reflect.TypeFor[ptrText](), textMarshaler, true) {
		t.Error("addressable ptrText should implement TextMarshaler")
	}

	holder := struct{ P ptrText }{}
	field := reflect.ValueOf(&holder).Elem().Field(0)
	recv, ok := Receiver(field, textMarshaler)
	if !ok || recv.Kind() != reflect.Pointer {
		t.Errorf("Receiver = %v, %v; want pointer receiver", recv, ok)
	}

	if _, ok := Receiver(reflect.ValueOf(ptrText{}), textMarshaler); ok {
		t.Error("unaddressable ptrText should have no receiver")
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		f    float64
		bits int
		want string
	}{
		{0, 64, "0"},
		{1, 64, "1"},
		{1.5, 64, "1.5"},
		{-2.25, 64, "-2.25"},
		{1e21, 64, "1e+21"},
		{1e-7, 64, "1e-7"},
		{123456789, 64, "123456789"},
		{0.1, 32, "0.1"},
	}
	for _, tt := range tests {
		got, ok := FormatFloat(tt.f, tt.bits)
		if !ok || got != tt.want {
			t.Errorf("FormatFloat(%v, %d) = %q, %v; want %q", tt.f, tt.bits, got, ok, tt.want)
		}
	}

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, ok := FormatFloat(f, 64); ok {
			t.Errorf("FormatFloat(%v) should fail", f)
		}
	}
}

func TestParseNumber(t *testing.T) {
	a, ok := ParseNumber("1.5e3")
	if !ok {
		t.Fatal("ParseNumber(1.5e3) failed")
	}
	b, _ := ParseNumber("1500")
	if a.Cmp(b) != 0 {
		t.Errorf("1.5e3 and 1500 should compare equal")
	}

	big1, _ := ParseNumber("18446744073709551616")
	big2, _ := ParseNumber("18446744073709551617")
	if big1.Cmp(big2) >= 0 {
		t.Error("large integers should compare exactly")
	}

	if _, ok := ParseNumber(""); ok {
		t.Error("empty literal should not parse")
	}
}

func TestParseNumber_Order(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0", "-0", 0},
		{"0.000", "0e10", 0},
		{"1", "1.0", 0},
		{"10", "1e1", 0},
		{"0.01", "1e-2", 0},
		{"-1", "0", -1},
		{"-2", "-1", -1},
		{"1.25", "1.3", -1},
		{"99", "100", -1},
		{"1e100000000", "2e100000000", -1},
		{"-1e100000000", "1e-100000000", -1},
		{"1e99999999999999999999", "1e100000000", 1},
		{"123456789012345678901234567890", "123456789012345678901234567891", -1},
	}

	for _, tt := range tests {
		a, ok := ParseNumber(tt.a)
		if !ok {
			t.Fatalf("ParseNumber(%q) failed", tt.a)
		}
		b, ok := ParseNumber(tt.b)
		if !ok {
			t.Fatalf("ParseNumber(%q) failed", tt.b)
		}
		if got := a.Cmp(b); got != tt.want {
			t.Errorf("Cmp(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := b.Cmp(a); got != -tt.want {
			t.Errorf("Cmp(%s, %s) = %d, want %d", tt.b, tt.a, got, -tt.want)
		}
	}
}

func TestParseNumber_Invalid(t *testing.T) {
	for _, lit := range []string{"", "-", "01", "1.", ".5", "1e", "1e+", "+1", "1x", "0x10", "NaN"} {
		if _, ok := ParseNumber(lit); ok {
			t.Errorf("ParseNumber(%q) should fail", lit)
		}
	}
}

func TestIsIntegerLiteral(t *testing.T) {
	for lit, want := range map[string]bool{"1": true, "-42": true, "1.0": false, "1e5": false, "": false} {
		if got := IsIntegerLiteral(lit); got != want {
			t.Errorf("IsIntegerLiteral(%q) = %v, want %v", lit, got, want)
		}
	}
}
