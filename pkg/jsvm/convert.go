package jsvm

import (
	"fmt"

	"github.com/cwbudde/go-jsvm/internal/interp"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// Value is an opaque handle to a runtime value crossing the embedding
// boundary.
type Value struct {
	inner runtime.Value
}

func wrap(v runtime.Value) Value {
	if v == nil {
		v = runtime.Undefined
	}
	return Value{inner: v}
}

// IsUndefined reports whether the value is undefined.
func (v Value) IsUndefined() bool {
	_, ok := v.inner.(*runtime.UndefinedValue)
	return ok
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	_, ok := v.inner.(*runtime.NullValue)
	return ok
}

// String returns the value's string coercion.
func (v Value) String() string {
	if v.inner == nil {
		return "undefined"
	}
	return v.inner.String()
}

// Number returns the value's numeric coercion.
func (v Value) Number() float64 { return runtime.ToNumber(v.inner) }

// Bool returns the value's truthiness.
func (v Value) Bool() bool { return runtime.ToBoolean(v.inner) }

// Int returns the value as an int64.
func (v Value) Int() int64 { return int64(runtime.ToNumber(v.inner)) }

// Export converts the value into plain Go data: nil, bool, float64,
// string, []any, or map[string]any.
func (v Value) Export() any {
	return export(v.inner, make(map[runtime.Value]bool))
}

func export(v runtime.Value, seen map[runtime.Value]bool) any {
	switch val := v.(type) {
	case *runtime.UndefinedValue, *runtime.NullValue, nil:
		return nil
	case *runtime.BooleanValue:
		return val.Value
	case *runtime.NumberValue:
		return val.Value
	case *runtime.StringValue:
		return val.Value
	case *runtime.Array:
		if seen[v] {
			return nil
		}
		seen[v] = true
		defer delete(seen, v)
		out := make([]any, len(val.Elements))
		for i, el := range val.Elements {
			out[i] = export(el, seen)
		}
		return out
	case *runtime.Object:
		if seen[v] {
			return nil
		}
		seen[v] = true
		defer delete(seen, v)
		out := make(map[string]any, len(val.Keys()))
		for _, k := range val.Keys() {
			if prop, ok := val.GetOwn(k); ok && !prop.IsAccessor() {
				out[k] = export(prop.Value, seen)
			}
		}
		return out
	default:
		return v.String()
	}
}

// toRuntime converts Go data into a runtime value. Supported kinds:
// nil, bool, int, int32, int64, uint64, float32, float64, string, []any,
// map[string]any, Value, and runtime.Value; any other kind is an error.
func toRuntime(i *interp.Interpreter, value any) (runtime.Value, error) {
	switch v := value.(type) {
	case nil:
		return runtime.Undefined, nil
	case runtime.Value:
		return v, nil
	case Value:
		return v.inner, nil
	case bool:
		return runtime.NewBoolean(v), nil
	case int:
		return runtime.NewNumber(float64(v)), nil
	case int32:
		return runtime.NewNumber(float64(v)), nil
	case int64:
		return runtime.NewNumber(float64(v)), nil
	case uint64:
		return runtime.NewNumber(float64(v)), nil
	case float32:
		return runtime.NewNumber(float64(v)), nil
	case float64:
		return runtime.NewNumber(v), nil
	case string:
		return runtime.NewString(v), nil
	case []any:
		arr := runtime.NewArray()
		i.Heap().Alloc(arr)
		for _, el := range v {
			converted, err := toRuntime(i, el)
			if err != nil {
				return nil, err
			}
			arr.Push(converted)
		}
		return arr, nil
	case map[string]any:
		obj := runtime.NewObject()
		i.Heap().Alloc(obj)
		for k, el := range v {
			converted, err := toRuntime(i, el)
			if err != nil {
				return nil, err
			}
			obj.Set(k, converted)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a script value", value)
	}
}
