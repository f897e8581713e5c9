// Package runtime defines the value model of the engine: primitives,
// heap-backed objects, the lexical environment, and the coercion and
// equality rules shared by the tree interpreter and the builtins.
package runtime

import (
	"strconv"

	"github.com/cwbudde/go-jsvm/internal/gc"
)

// Value represents a runtime JavaScript value. All runtime values
// implement this interface.
type Value interface {
	// Type returns the variant tag (e.g. "number", "object").
	Type() string
	// String returns the ToString coercion of the value.
	String() string
}

// Variant tags returned by Type. These also drive typeof, with the
// adjustments applied in TypeOf.
const (
	TypeUndefined = "undefined"
	TypeNull      = "null"
	TypeBoolean   = "boolean"
	TypeNumber    = "number"
	TypeString    = "string"
	TypeSymbol    = "symbol"
	TypeFunction  = "function"
	TypeObject    = "object"
	TypeArray     = "array"
	TypePromise   = "promise"
	TypeMap       = "map"
	TypeSet       = "set"
	TypeWeakMap   = "weakmap"
	TypeWeakSet   = "weakset"
	TypeRegExp    = "regexp"
	TypeProxy     = "proxy"
	TypeGenerator = "generator"
)

// UndefinedValue is the undefined primitive.
type UndefinedValue struct{}

func (*UndefinedValue) Type() string   { return TypeUndefined }
func (*UndefinedValue) String() string { return "undefined" }

// NullValue is the null primitive.
type NullValue struct{}

func (*NullValue) Type() string   { return TypeNull }
func (*NullValue) String() string { return "null" }

// BooleanValue is true or false.
type BooleanValue struct {
	Value bool
}

func (b *BooleanValue) Type() string { return TypeBoolean }
func (b *BooleanValue) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// NumberValue is an IEEE-754 double.
type NumberValue struct {
	Value float64
}

func (n *NumberValue) Type() string   { return TypeNumber }
func (n *NumberValue) String() string { return FormatNumber(n.Value) }

// StringValue is an immutable UTF-8 string.
type StringValue struct {
	Value string
}

func (s *StringValue) Type() string   { return TypeString }
func (s *StringValue) String() string { return s.Value }

// Shared singletons for the three nullary primitives plus the two
// booleans. Number and string values are allocated per use.
var (
	Undefined = &UndefinedValue{}
	Null      = &NullValue{}
	True      = &BooleanValue{Value: true}
	False     = &BooleanValue{Value: false}
)

// NewNumber wraps a float64.
func NewNumber(f float64) *NumberValue { return &NumberValue{Value: f} }

// NewString wraps a Go string.
func NewString(s string) *StringValue { return &StringValue{Value: s} }

// NewBoolean returns the shared boolean singleton.
func NewBoolean(b bool) *BooleanValue {
	if b {
		return True
	}
	return False
}

// FormatNumber renders a float the way JS output does: integral values
// without a fraction, NaN and infinities by name.
func FormatNumber(f float64) string {
	switch {
	case f != f:
		return "NaN"
	case f > 1.797e308:
		return "Infinity"
	case f < -1.797e308:
		return "-Infinity"
	}
	if f == float64(int64(f)) && f < 9.2e18 && f > -9.2e18 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// HeapObject returns the gc object backing a heap-kind value, or nil for
// primitives. WeakMap/WeakSet key identity and GC rooting both go through
// this mapping.
func HeapObject(v Value) gc.Object {
	switch val := v.(type) {
	case *Object:
		return val
	case *Array:
		return val
	case *Promise:
		return val
	case *MapValue:
		return val
	case *SetValue:
		return val
	case *WeakMapValue:
		return val
	case *WeakSetValue:
		return val
	case *RegExpValue:
		return val
	case *ProxyValue:
		return val
	case *Function:
		return val
	case *NativeFunction:
		return val
	case *Generator:
		return val
	case *Scope:
		return val
	}
	return nil
}

// MarkValue marks the heap object behind v, if any. Trace implementations
// use it to emit every owned reference without switching on variants.
func MarkValue(m *gc.Marker, v Value) {
	if v == nil {
		return
	}
	if obj := HeapObject(v); obj != nil {
		m.Mark(obj)
	}
}

// IsCallable reports whether v can be invoked.
func IsCallable(v Value) bool {
	switch v.(type) {
	case *Function, *NativeFunction:
		return true
	case *ProxyValue:
		p := v.(*ProxyValue)
		return !p.Revoked && IsCallable(p.Target)
	}
	return false
}

// TypeOf implements the typeof operator.
func TypeOf(v Value) string {
	switch v.(type) {
	case *UndefinedValue:
		return "undefined"
	case *BooleanValue:
		return "boolean"
	case *NumberValue:
		return "number"
	case *StringValue:
		return "string"
	case *SymbolValue:
		return "symbol"
	case *Function, *NativeFunction:
		return "function"
	default:
		return "object"
	}
}
