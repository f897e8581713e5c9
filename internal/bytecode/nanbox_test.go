package bytecode

import (
	"math"
	"testing"
)

func TestBoxedFloatRoundTrip(t *testing.T) {
	for _, f := range []float64{3.14, -2.5, 1e300, -0.0, 0.5} {
		d := BoxFloat(f).Decode()
		if d.Kind != DecNumber || d.Num != f {
			t.Errorf("roundtrip %v failed: %+v", f, d)
		}
	}
}

func TestBoxedNaNCanonicalizes(t *testing.T) {
	d := BoxFloat(math.NaN()).Decode()
	if d.Kind != DecNumber || !math.IsNaN(d.Num) {
		t.Errorf("NaN roundtrip failed: %+v", d)
	}
}

func TestBoxedSmallIntRoundTrip(t *testing.T) {
	for _, n := range []int32{0, 1, -1, 42, -7, math.MaxInt32, math.MinInt32} {
		d := BoxInt(n).Decode()
		if d.Kind != DecInt || d.Int != n {
			t.Errorf("roundtrip %d failed: %+v", n, d)
		}
	}
}

func TestBoxedPrimitives(t *testing.T) {
	if BoxNull().Decode().Kind != DecNull {
		t.Error("null roundtrip failed")
	}
	if BoxUndefined().Decode().Kind != DecUndefined {
		t.Error("undefined roundtrip failed")
	}
	if d := BoxBool(true).Decode(); d.Kind != DecBool || !d.Bool {
		t.Error("true roundtrip failed")
	}
	if d := BoxBool(false).Decode(); d.Kind != DecBool || d.Bool {
		t.Error("false roundtrip failed")
	}
}

func TestBoxedPointerRoundTrip(t *testing.T) {
	d := BoxPointer(12345).Decode()
	if d.Kind != DecPointer || d.Ptr != 12345 {
		t.Errorf("pointer roundtrip failed: %+v", d)
	}
}

func TestEncodeSelectsSmallInts(t *testing.T) {
	heap := NewHeapStore()
	if Encode(VMNumberValue(7), heap).Decode().Kind != DecInt {
		t.Error("integral double must encode as a small int")
	}
	if Encode(VMNumberValue(7.5), heap).Decode().Kind != DecNumber {
		t.Error("fractional double must stay a float")
	}
	negZero := math.Copysign(0, -1)
	if Encode(VMNumberValue(negZero), heap).Decode().Kind != DecNumber {
		t.Error("-0 must not become a small int")
	}
	if Encode(VMNumberValue(0), heap).Decode().Kind != DecInt {
		t.Error("+0 encodes as int 0")
	}
}

func TestEncodeStringsGoThroughHeapStore(t *testing.T) {
	heap := NewHeapStore()
	boxed := Encode(VMStringValue("hello"), heap)
	d := boxed.Decode()
	if d.Kind != DecPointer {
		t.Fatalf("string must box as a pointer, got %+v", d)
	}
	back := boxed.DecodeValue(heap)
	if back.Kind != VMString || back.Str != "hello" {
		t.Error("string decode failed")
	}
}

func TestBoxedCoercions(t *testing.T) {
	if BoxBool(true).ToFloat() != 1 {
		t.Error("true coerces to 1")
	}
	if BoxNull().ToFloat() != 0 {
		t.Error("null coerces to 0")
	}
	if !math.IsNaN(BoxUndefined().ToFloat()) {
		t.Error("undefined coerces to NaN")
	}
	if BoxFloat(0).ToBool() || !BoxFloat(2).ToBool() {
		t.Error("number truthiness wrong")
	}
	if BoxNull().ToBool() || BoxUndefined().ToBool() {
		t.Error("nullish truthiness wrong")
	}
	if !BoxPointer(0).ToBool() {
		t.Error("heap values are truthy")
	}
}
