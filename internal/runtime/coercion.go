package runtime

import (
	"math"
	"strconv"
	"strings"
)

// ToBoolean applies JS truthiness.
func ToBoolean(v Value) bool {
	switch val := v.(type) {
	case *UndefinedValue, *NullValue:
		return false
	case *BooleanValue:
		return val.Value
	case *NumberValue:
		return val.Value != 0 && !math.IsNaN(val.Value)
	case *StringValue:
		return val.Value != ""
	default:
		return true
	}
}

// ToNumber applies JS numeric coercion. Objects coerce through their
// string form; symbols coerce to NaN, and no TypeError is raised for them.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case *NumberValue:
		return val.Value
	case *BooleanValue:
		if val.Value {
			return 1
		}
		return 0
	case *NullValue:
		return 0
	case *UndefinedValue:
		return math.NaN()
	case *StringValue:
		return StringToNumber(val.Value)
	case *Array:
		// [] → 0, [x] → ToNumber(x), otherwise NaN, via string coercion.
		return StringToNumber(val.String())
	default:
		return math.NaN()
	}
}

// StringToNumber parses a numeric string the way JS does: empty and
// blank strings are 0, hex/binary/octal prefixes are honored, anything
// else unparseable is NaN.
func StringToNumber(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		if n, err := strconv.ParseUint(trimmed[2:], 16, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	if strings.HasPrefix(trimmed, "0b") || strings.HasPrefix(trimmed, "0B") {
		if n, err := strconv.ParseUint(trimmed[2:], 2, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	if strings.HasPrefix(trimmed, "0o") || strings.HasPrefix(trimmed, "0O") {
		if n, err := strconv.ParseUint(trimmed[2:], 8, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	if trimmed == "Infinity" || trimmed == "+Infinity" {
		return math.Inf(1)
	}
	if trimmed == "-Infinity" {
		return math.Inf(-1)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return math.NaN()
}

// ToString applies JS string coercion.
func ToString(v Value) string {
	return v.String()
}

// PrimitiveHint selects the preferred type for ToPrimitive.
type PrimitiveHint int

const (
	HintDefault PrimitiveHint = iota
	HintNumber
	HintString
)

// ToPrimitive converts objects to primitives: arrays and plain objects go
// through their string form; primitives pass through. The Symbol
// .toPrimitive protocol is applied by the interpreter before falling back
// here.
func ToPrimitive(v Value, hint PrimitiveHint) Value {
	switch v.(type) {
	case *UndefinedValue, *NullValue, *BooleanValue, *NumberValue, *StringValue, *SymbolValue:
		return v
	case *Array:
		return NewString(v.String())
	default:
		if hint == HintNumber {
			return NewNumber(ToNumber(v))
		}
		return NewString(v.String())
	}
}

// StrictEquals implements ===. Primitives compare by value (NaN !== NaN);
// heap kinds compare by reference identity.
func StrictEquals(a, b Value) bool {
	switch av := a.(type) {
	case *UndefinedValue:
		_, ok := b.(*UndefinedValue)
		return ok
	case *NullValue:
		_, ok := b.(*NullValue)
		return ok
	case *BooleanValue:
		bv, ok := b.(*BooleanValue)
		return ok && av.Value == bv.Value
	case *NumberValue:
		bv, ok := b.(*NumberValue)
		return ok && av.Value == bv.Value
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Value == bv.Value
	case *SymbolValue:
		bv, ok := b.(*SymbolValue)
		return ok && av.ID == bv.ID
	default:
		return a == b
	}
}

// SameValueZero is the Map/Set key equality: like === except NaN equals
// NaN (±0 already collapse under ==).
func SameValueZero(a, b Value) bool {
	an, aok := a.(*NumberValue)
	bn, bok := b.(*NumberValue)
	if aok && bok {
		if math.IsNaN(an.Value) && math.IsNaN(bn.Value) {
			return true
		}
		return an.Value == bn.Value
	}
	return StrictEquals(a, b)
}

// AbstractEquals implements ==: null == undefined, numeric coercion
// across number/string/boolean, objects via ToPrimitive.
func AbstractEquals(a, b Value) bool {
	if StrictEquals(a, b) {
		return true
	}

	_, aUndef := a.(*UndefinedValue)
	_, aNull := a.(*NullValue)
	_, bUndef := b.(*UndefinedValue)
	_, bNull := b.(*NullValue)
	if (aUndef || aNull) && (bUndef || bNull) {
		return true
	}
	if aUndef || aNull || bUndef || bNull {
		return false
	}

	aPrim := ToPrimitive(a, HintDefault)
	bPrim := ToPrimitive(b, HintDefault)

	if _, ok := aPrim.(*SymbolValue); ok {
		return false
	}
	if _, ok := bPrim.(*SymbolValue); ok {
		return false
	}

	as, aIsStr := aPrim.(*StringValue)
	bs, bIsStr := bPrim.(*StringValue)
	if aIsStr && bIsStr {
		return as.Value == bs.Value
	}

	return ToNumber(aPrim) == ToNumber(bPrim)
}
