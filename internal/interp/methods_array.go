package interp

import (
	"sort"
	"strings"

	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// arrayMember dispatches Array.prototype methods on an array receiver.
func (i *Interpreter) arrayMember(arr *runtime.Array, key string) (runtime.Value, error) {
	method := func(name string, fn runtime.NativeHandler) (runtime.Value, error) {
		nf := i.newNative(name, fn)
		nf.Captured = []runtime.Value{arr}
		return nf, nil
	}

	switch key {
	case "push":
		return method("push", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewNumber(float64(arr.Push(args.Args...))), nil
		})
	case "pop":
		return method("pop", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return arr.Pop(), nil
		})
	case "shift":
		return method("shift", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return arr.Shift(), nil
		})
	case "unshift":
		return method("unshift", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewNumber(float64(arr.Unshift(args.Args...))), nil
		})
	case "indexOf":
		return method("indexOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for idx, el := range arr.Elements {
				if runtime.StrictEquals(el, args.Arg(0)) {
					return runtime.NewNumber(float64(idx)), nil
				}
			}
			return runtime.NewNumber(-1), nil
		})
	case "lastIndexOf":
		return method("lastIndexOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for idx := arr.Length() - 1; idx >= 0; idx-- {
				if runtime.StrictEquals(arr.Elements[idx], args.Arg(0)) {
					return runtime.NewNumber(float64(idx)), nil
				}
			}
			return runtime.NewNumber(-1), nil
		})
	case "includes":
		return method("includes", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for _, el := range arr.Elements {
				if runtime.SameValueZero(el, args.Arg(0)) {
					return runtime.True, nil
				}
			}
			return runtime.False, nil
		})
	case "join":
		return method("join", func(args runtime.FunctionArgs) (runtime.Value, error) {
			sep := ","
			if args.ArgCount() > 0 {
				sep = runtime.ToString(args.Arg(0))
			}
			parts := make([]string, arr.Length())
			for idx, el := range arr.Elements {
				if isNullish(el) {
					parts[idx] = ""
					continue
				}
				parts[idx] = runtime.ToString(el)
			}
			return runtime.NewString(strings.Join(parts, sep)), nil
		})
	case "slice":
		return method("slice", func(args runtime.FunctionArgs) (runtime.Value, error) {
			start, end := sliceBounds(args, arr.Length())
			out := i.newArray()
			for idx := start; idx < end; idx++ {
				out.Push(arr.Get(idx))
			}
			return out, nil
		})
	case "splice":
		return method("splice", func(args runtime.FunctionArgs) (runtime.Value, error) {
			start := normalizeIndex(int(runtime.ToNumber(args.Arg(0))), arr.Length())
			deleteCount := arr.Length() - start
			if args.ArgCount() > 1 {
				deleteCount = int(runtime.ToNumber(args.Arg(1)))
			}
			if deleteCount < 0 {
				deleteCount = 0
			}
			if start+deleteCount > arr.Length() {
				deleteCount = arr.Length() - start
			}
			removed := i.newArray()
			removed.Push(arr.Elements[start : start+deleteCount]...)

			var inserted []runtime.Value
			if args.ArgCount() > 2 {
				inserted = args.Args[2:]
			}
			tail := append([]runtime.Value{}, arr.Elements[start+deleteCount:]...)
			arr.Elements = append(arr.Elements[:start], append(inserted, tail...)...)
			return removed, nil
		})
	case "concat":
		return method("concat", func(args runtime.FunctionArgs) (runtime.Value, error) {
			out := i.newArray()
			out.Push(arr.Elements...)
			for _, a := range args.Args {
				if other, ok := a.(*runtime.Array); ok {
					out.Push(other.Elements...)
					continue
				}
				out.Push(a)
			}
			return out, nil
		})
	case "reverse":
		return method("reverse", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for l, r := 0, arr.Length()-1; l < r; l, r = l+1, r-1 {
				arr.Elements[l], arr.Elements[r] = arr.Elements[r], arr.Elements[l]
			}
			return arr, nil
		})
	case "flat":
		return method("flat", func(args runtime.FunctionArgs) (runtime.Value, error) {
			depth := 1
			if args.ArgCount() > 0 {
				depth = int(runtime.ToNumber(args.Arg(0)))
			}
			out := i.newArray()
			flatten(out, arr, depth)
			return out, nil
		})
	case "fill":
		return method("fill", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for idx := range arr.Elements {
				arr.Elements[idx] = args.Arg(0)
			}
			return arr, nil
		})
	case "at":
		return method("at", func(args runtime.FunctionArgs) (runtime.Value, error) {
			idx := int(runtime.ToNumber(args.Arg(0)))
			if idx < 0 {
				idx += arr.Length()
			}
			return arr.Get(idx), nil
		})
	case "keys":
		return method("keys", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items := make([]runtime.Value, arr.Length())
			for idx := range items {
				items[idx] = runtime.NewNumber(float64(idx))
			}
			return i.sliceIterator(items), nil
		})
	case "values":
		return method("values", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items := append([]runtime.Value{}, arr.Elements...)
			return i.sliceIterator(items), nil
		})
	case "entries":
		return method("entries", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items := make([]runtime.Value, arr.Length())
			for idx, el := range arr.Elements {
				items[idx] = i.newArray(runtime.NewNumber(float64(idx)), el)
			}
			return i.sliceIterator(items), nil
		})

	case "map":
		return method("map", func(args runtime.FunctionArgs) (runtime.Value, error) {
			out := i.newArray()
			for idx, el := range arr.Elements {
				mapped, err := i.callFunction(args.Arg(0), []runtime.Value{el, runtime.NewNumber(float64(idx)), arr}, runtime.Undefined)
				if err != nil {
					return nil, err
				}
				out.Push(mapped)
			}
			return out, nil
		})
	case "filter":
		return method("filter", func(args runtime.FunctionArgs) (runtime.Value, error) {
			out := i.newArray()
			for idx, el := range arr.Elements {
				keep, err := i.callFunction(args.Arg(0), []runtime.Value{el, runtime.NewNumber(float64(idx)), arr}, runtime.Undefined)
				if err != nil {
					return nil, err
				}
				if runtime.ToBoolean(keep) {
					out.Push(el)
				}
			}
			return out, nil
		})
	case "forEach":
		return method("forEach", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for idx, el := range arr.Elements {
				if _, err := i.callFunction(args.Arg(0), []runtime.Value{el, runtime.NewNumber(float64(idx)), arr}, runtime.Undefined); err != nil {
					return nil, err
				}
			}
			return runtime.Undefined, nil
		})
	case "reduce":
		return method("reduce", func(args runtime.FunctionArgs) (runtime.Value, error) {
			var acc runtime.Value
			start := 0
			if args.ArgCount() > 1 {
				acc = args.Arg(1)
			} else {
				if arr.Length() == 0 {
					return nil, runtime.NewTypeError("reduce of empty array with no initial value")
				}
				acc = arr.Get(0)
				start = 1
			}
			for idx := start; idx < arr.Length(); idx++ {
				next, err := i.callFunction(args.Arg(0), []runtime.Value{acc, arr.Get(idx), runtime.NewNumber(float64(idx)), arr}, runtime.Undefined)
				if err != nil {
					return nil, err
				}
				acc = next
			}
			return acc, nil
		})
	case "find":
		return method("find", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for idx, el := range arr.Elements {
				hit, err := i.callFunction(args.Arg(0), []runtime.Value{el, runtime.NewNumber(float64(idx)), arr}, runtime.Undefined)
				if err != nil {
					return nil, err
				}
				if runtime.ToBoolean(hit) {
					return el, nil
				}
			}
			return runtime.Undefined, nil
		})
	case "findIndex":
		return method("findIndex", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for idx, el := range arr.Elements {
				hit, err := i.callFunction(args.Arg(0), []runtime.Value{el, runtime.NewNumber(float64(idx)), arr}, runtime.Undefined)
				if err != nil {
					return nil, err
				}
				if runtime.ToBoolean(hit) {
					return runtime.NewNumber(float64(idx)), nil
				}
			}
			return runtime.NewNumber(-1), nil
		})
	case "some":
		return method("some", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for idx, el := range arr.Elements {
				hit, err := i.callFunction(args.Arg(0), []runtime.Value{el, runtime.NewNumber(float64(idx)), arr}, runtime.Undefined)
				if err != nil {
					return nil, err
				}
				if runtime.ToBoolean(hit) {
					return runtime.True, nil
				}
			}
			return runtime.False, nil
		})
	case "every":
		return method("every", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for idx, el := range arr.Elements {
				hit, err := i.callFunction(args.Arg(0), []runtime.Value{el, runtime.NewNumber(float64(idx)), arr}, runtime.Undefined)
				if err != nil {
					return nil, err
				}
				if !runtime.ToBoolean(hit) {
					return runtime.False, nil
				}
			}
			return runtime.True, nil
		})
	case "sort":
		return method("sort", func(args runtime.FunctionArgs) (runtime.Value, error) {
			cmp := args.Arg(0)
			var sortErr error
			sort.SliceStable(arr.Elements, func(a, b int) bool {
				if sortErr != nil {
					return false
				}
				if runtime.IsCallable(cmp) {
					result, err := i.callFunction(cmp, []runtime.Value{arr.Elements[a], arr.Elements[b]}, runtime.Undefined)
					if err != nil {
						sortErr = err
						return false
					}
					return runtime.ToNumber(result) < 0
				}
				return runtime.ToString(arr.Elements[a]) < runtime.ToString(arr.Elements[b])
			})
			if sortErr != nil {
				return nil, sortErr
			}
			return arr, nil
		})
	case "toString":
		return method("toString", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(arr.String()), nil
		})
	}
	return runtime.Undefined, nil
}

func flatten(out, arr *runtime.Array, depth int) {
	for _, el := range arr.Elements {
		if inner, ok := el.(*runtime.Array); ok && depth > 0 {
			flatten(out, inner, depth-1)
			continue
		}
		out.Push(el)
	}
}
