package interp

import (
	"math"
	"time"

	"github.com/cwbudde/go-jsvm/internal/eventloop"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

func microtaskCallback(cb runtime.Value) eventloop.Microtask {
	return eventloop.Microtask{Callback: cb}
}

// installConstructors defines the runtime-visible constructors: Number,
// String, Boolean, Object, Array, Function, Date, RegExp, Promise, Proxy,
// Map, Set, WeakMap, WeakSet, Symbol, and the error family.
func (i *Interpreter) installConstructors(define func(string, runtime.Value)) {
	define("Number", i.newNative("Number", func(args runtime.FunctionArgs) (runtime.Value, error) {
		if args.ArgCount() == 0 {
			return runtime.NewNumber(0), nil
		}
		return runtime.NewNumber(runtime.ToNumber(args.Arg(0))), nil
	}))
	define("String", i.newNative("String", func(args runtime.FunctionArgs) (runtime.Value, error) {
		if args.ArgCount() == 0 {
			return runtime.NewString(""), nil
		}
		return runtime.NewString(runtime.ToString(args.Arg(0))), nil
	}))
	define("Boolean", i.newNative("Boolean", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.NewBoolean(runtime.ToBoolean(args.Arg(0))), nil
	}))
	define("Object", i.newNative("Object", func(args runtime.FunctionArgs) (runtime.Value, error) {
		if obj, ok := args.Arg(0).(*runtime.Object); ok {
			return obj, nil
		}
		return i.newObject(), nil
	}))
	define("Array", i.newNative("Array", func(args runtime.FunctionArgs) (runtime.Value, error) {
		if args.ArgCount() == 1 {
			if n, ok := args.Arg(0).(*runtime.NumberValue); ok {
				arr := i.newArray()
				arr.SetLength(int(n.Value))
				return arr, nil
			}
		}
		return i.newArray(args.Args...), nil
	}))
	define("Function", i.newNative("Function", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return nil, runtime.NewTypeError("the Function constructor is not supported")
	}))

	define("Date", i.newNative("Date", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return i.makeDate(time.Now()), nil
	}))

	define("RegExp", i.newNative("RegExp", func(args runtime.FunctionArgs) (runtime.Value, error) {
		pattern := runtime.ToString(args.Arg(0))
		flags := ""
		if args.ArgCount() > 1 {
			flags = runtime.FlagString(runtime.ToString(args.Arg(1)))
		}
		if re, ok := args.Arg(0).(*runtime.RegExpValue); ok {
			pattern = re.Pattern
			if args.ArgCount() < 2 {
				flags = re.Flags
			}
		}
		re, err := runtime.NewRegExp(pattern, flags)
		if err != nil {
			return nil, err
		}
		i.alloc(re)
		return re, nil
	}))

	define("Promise", i.newNative("Promise", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return i.newPromiseWithExecutor(args.Arg(0))
	}))

	define("Proxy", i.newNative("Proxy", func(args runtime.FunctionArgs) (runtime.Value, error) {
		handler, ok := args.Arg(1).(*runtime.Object)
		if !ok {
			return nil, runtime.NewTypeError("Cannot create proxy with a non-object as handler")
		}
		if runtime.HeapObject(args.Arg(0)) == nil {
			return nil, runtime.NewTypeError("Cannot create proxy with a non-object as target")
		}
		p := runtime.NewProxy(args.Arg(0), handler)
		i.alloc(p)
		return p, nil
	}))

	define("Map", i.newNative("Map", func(args runtime.FunctionArgs) (runtime.Value, error) {
		m := runtime.NewMap()
		i.alloc(m)
		if args.ArgCount() > 0 && !isNullish(args.Arg(0)) {
			entries, err := i.iterate(args.Arg(0))
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				pair, ok := entry.(*runtime.Array)
				if !ok || pair.Length() < 2 {
					return nil, runtime.NewTypeError("iterator value is not an entry object")
				}
				m.Set(pair.Get(0), pair.Get(1))
			}
		}
		return m, nil
	}))
	define("Set", i.newNative("Set", func(args runtime.FunctionArgs) (runtime.Value, error) {
		s := runtime.NewSet()
		i.alloc(s)
		if args.ArgCount() > 0 && !isNullish(args.Arg(0)) {
			items, err := i.iterate(args.Arg(0))
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				s.Add(item)
			}
		}
		return s, nil
	}))
	define("WeakMap", i.newNative("WeakMap", func(args runtime.FunctionArgs) (runtime.Value, error) {
		w := runtime.NewWeakMap()
		i.alloc(w)
		return w, nil
	}))
	define("WeakSet", i.newNative("WeakSet", func(args runtime.FunctionArgs) (runtime.Value, error) {
		w := runtime.NewWeakSet()
		i.alloc(w)
		return w, nil
	}))

	define("Symbol", i.newNative("Symbol", func(args runtime.FunctionArgs) (runtime.Value, error) {
		desc := ""
		if args.ArgCount() > 0 {
			desc = runtime.ToString(args.Arg(0))
		}
		return i.symbols.New(desc), nil
	}))

	for _, name := range []string{"Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError"} {
		errName := name
		define(errName, i.newNative(errName, func(args runtime.FunctionArgs) (runtime.Value, error) {
			message := ""
			if args.ArgCount() > 0 {
				message = runtime.ToString(args.Arg(0))
			}
			return i.makeErrorObject(errName, message), nil
		}))
	}
}

// newPromiseWithExecutor implements `new Promise(executor)`.
func (i *Interpreter) newPromiseWithExecutor(executor runtime.Value) (runtime.Value, error) {
	promise := i.newPromise()
	if !runtime.IsCallable(executor) {
		return nil, runtime.NewTypeError("Promise resolver is not a function")
	}

	resolve := i.newNative("resolve", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.Undefined, i.settlePromise(promise, false, args.Arg(0))
	})
	resolve.Captured = []runtime.Value{promise}
	reject := i.newNative("reject", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.Undefined, i.settlePromise(promise, true, args.Arg(0))
	})
	reject.Captured = []runtime.Value{promise}

	if _, err := i.callFunction(executor, []runtime.Value{resolve, reject}, runtime.Undefined); err != nil {
		rejected := i.errorToValue(runtime.AsError(err))
		if settleErr := i.settlePromise(promise, true, rejected); settleErr != nil {
			return nil, settleErr
		}
	}
	return promise, nil
}

// makeDate builds the minimal Date surface: getTime, toISOString, and
// numeric coercion through a valueOf that returns the getTime value.
func (i *Interpreter) makeDate(t time.Time) *runtime.Object {
	obj := i.newObject()
	obj.ClassName = "Date"
	ms := float64(t.UnixMilli())
	obj.Set("getTime", i.newNative("getTime", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.NewNumber(ms), nil
	}))
	obj.Set("valueOf", i.newNative("valueOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.NewNumber(ms), nil
	}))
	obj.Set("toISOString", i.newNative("toISOString", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.NewString(t.UTC().Format("2006-01-02T15:04:05.000Z")), nil
	}))
	return obj
}

// builtinStatic resolves static members on the builtin constructors
// (Promise.resolve, Number.isNaN, Symbol.for, Array.isArray, ...).
func (i *Interpreter) builtinStatic(ctor, key string) (runtime.Value, bool) {
	switch ctor {
	case "Object":
		return i.objectStatic(key)
	case "Promise":
		return i.promiseStatic(key)
	case "Number":
		return i.numberStatic(key)
	case "Symbol":
		return i.symbolStatic(key)
	case "Array":
		return i.arrayStatic(key)
	case "String":
		if key == "fromCharCode" {
			return i.newNative("fromCharCode", func(args runtime.FunctionArgs) (runtime.Value, error) {
				runes := make([]rune, args.ArgCount())
				for idx := range args.Args {
					runes[idx] = rune(int(runtime.ToNumber(args.Arg(idx))))
				}
				return runtime.NewString(string(runes)), nil
			}), true
		}
	case "Proxy":
		if key == "revocable" {
			return i.newNative("revocable", func(args runtime.FunctionArgs) (runtime.Value, error) {
				handler, ok := args.Arg(1).(*runtime.Object)
				if !ok {
					return nil, runtime.NewTypeError("Cannot create proxy with a non-object as handler")
				}
				p := runtime.NewProxy(args.Arg(0), handler)
				i.alloc(p)
				revoke := i.newNative("revoke", func(runtime.FunctionArgs) (runtime.Value, error) {
					p.Revoked = true
					return runtime.Undefined, nil
				})
				revoke.Captured = []runtime.Value{p}
				result := i.newObject()
				result.Set("proxy", p)
				result.Set("revoke", revoke)
				return result, nil
			}), true
		}
	case "Date":
		if key == "now" {
			return i.newNative("now", func(args runtime.FunctionArgs) (runtime.Value, error) {
				return runtime.NewNumber(float64(time.Now().UnixMilli())), nil
			}), true
		}
	}
	return nil, false
}

func (i *Interpreter) promiseStatic(key string) (runtime.Value, bool) {
	switch key {
	case "resolve":
		return i.newNative("resolve", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if p, ok := args.Arg(0).(*runtime.Promise); ok {
				return p, nil
			}
			p := i.newPromise()
			if err := i.settlePromise(p, false, args.Arg(0)); err != nil {
				return nil, err
			}
			return p, nil
		}), true
	case "reject":
		return i.newNative("reject", func(args runtime.FunctionArgs) (runtime.Value, error) {
			p := i.newPromise()
			if err := i.settlePromise(p, true, args.Arg(0)); err != nil {
				return nil, err
			}
			return p, nil
		}), true
	case "all":
		return i.newNative("all", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items, err := i.iterate(args.Arg(0))
			if err != nil {
				return nil, err
			}
			result := i.newPromise()
			values := make([]runtime.Value, len(items))
			remaining := len(items)
			if remaining == 0 {
				return result, i.settlePromise(result, false, i.newArray())
			}
			for idx, item := range items {
				p, ok := item.(*runtime.Promise)
				if !ok {
					values[idx] = item
					remaining--
					continue
				}
				slot := idx
				onF := i.newNative("", func(inner runtime.FunctionArgs) (runtime.Value, error) {
					values[slot] = inner.Arg(0)
					remaining--
					if remaining == 0 {
						return runtime.Undefined, i.settlePromise(result, false, i.newArray(values...))
					}
					return runtime.Undefined, nil
				})
				onR := i.newNative("", func(inner runtime.FunctionArgs) (runtime.Value, error) {
					return runtime.Undefined, i.settlePromise(result, true, inner.Arg(0))
				})
				if _, err := i.promiseThen(p, onF, onR); err != nil {
					return nil, err
				}
			}
			if remaining == 0 {
				return result, i.settlePromise(result, false, i.newArray(values...))
			}
			return result, nil
		}), true
	case "race":
		return i.newNative("race", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items, err := i.iterate(args.Arg(0))
			if err != nil {
				return nil, err
			}
			result := i.newPromise()
			for _, item := range items {
				p, ok := item.(*runtime.Promise)
				if !ok {
					return result, i.settlePromise(result, false, item)
				}
				onF := i.newNative("", func(inner runtime.FunctionArgs) (runtime.Value, error) {
					return runtime.Undefined, i.settlePromise(result, false, inner.Arg(0))
				})
				onR := i.newNative("", func(inner runtime.FunctionArgs) (runtime.Value, error) {
					return runtime.Undefined, i.settlePromise(result, true, inner.Arg(0))
				})
				if _, err := i.promiseThen(p, onF, onR); err != nil {
					return nil, err
				}
			}
			return result, nil
		}), true
	}
	return nil, false
}

func (i *Interpreter) numberStatic(key string) (runtime.Value, bool) {
	switch key {
	case "MAX_SAFE_INTEGER":
		return runtime.NewNumber(9007199254740991), true
	case "MIN_SAFE_INTEGER":
		return runtime.NewNumber(-9007199254740991), true
	case "EPSILON":
		return runtime.NewNumber(math.Nextafter(1, 2) - 1), true
	case "MAX_VALUE":
		return runtime.NewNumber(math.MaxFloat64), true
	case "MIN_VALUE":
		return runtime.NewNumber(math.SmallestNonzeroFloat64), true
	case "POSITIVE_INFINITY":
		return runtime.NewNumber(math.Inf(1)), true
	case "NEGATIVE_INFINITY":
		return runtime.NewNumber(math.Inf(-1)), true
	case "NaN":
		return runtime.NewNumber(math.NaN()), true
	case "isNaN":
		return i.newNative("isNaN", func(args runtime.FunctionArgs) (runtime.Value, error) {
			n, ok := args.Arg(0).(*runtime.NumberValue)
			return runtime.NewBoolean(ok && math.IsNaN(n.Value)), nil
		}), true
	case "isFinite":
		return i.newNative("isFinite", func(args runtime.FunctionArgs) (runtime.Value, error) {
			n, ok := args.Arg(0).(*runtime.NumberValue)
			return runtime.NewBoolean(ok && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0)), nil
		}), true
	case "isInteger":
		return i.newNative("isInteger", func(args runtime.FunctionArgs) (runtime.Value, error) {
			n, ok := args.Arg(0).(*runtime.NumberValue)
			return runtime.NewBoolean(ok && n.Value == math.Trunc(n.Value) && !math.IsInf(n.Value, 0)), nil
		}), true
	case "parseFloat":
		return i.newNative("parseFloat", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewNumber(parseFloatPrefix(runtime.ToString(args.Arg(0)))), nil
		}), true
	case "parseInt":
		return i.newNative("parseInt", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewNumber(parseIntPrefix(runtime.ToString(args.Arg(0)), 10)), nil
		}), true
	}
	return nil, false
}

func (i *Interpreter) symbolStatic(key string) (runtime.Value, bool) {
	switch key {
	case "iterator":
		return runtime.SymbolIterator, true
	case "toPrimitive":
		return runtime.SymbolToPrimitive, true
	case "hasInstance":
		return runtime.SymbolHasInstance, true
	case "toStringTag":
		return runtime.SymbolToStringTag, true
	case "for":
		return i.newNative("for", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return i.symbols.For(runtime.ToString(args.Arg(0))), nil
		}), true
	case "keyFor":
		return i.newNative("keyFor", func(args runtime.FunctionArgs) (runtime.Value, error) {
			sym, ok := args.Arg(0).(*runtime.SymbolValue)
			if !ok {
				return nil, runtime.NewTypeError("Symbol.keyFor requires a symbol")
			}
			if key, found := i.symbols.KeyFor(sym); found {
				return runtime.NewString(key), nil
			}
			return runtime.Undefined, nil
		}), true
	}
	return nil, false
}

func (i *Interpreter) arrayStatic(key string) (runtime.Value, bool) {
	switch key {
	case "isArray":
		return i.newNative("isArray", func(args runtime.FunctionArgs) (runtime.Value, error) {
			_, ok := args.Arg(0).(*runtime.Array)
			return runtime.NewBoolean(ok), nil
		}), true
	case "from":
		return i.newNative("from", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items, err := i.iterate(args.Arg(0))
			if err != nil {
				return nil, err
			}
			if runtime.IsCallable(args.Arg(1)) {
				mapped := i.newArray()
				for idx, item := range items {
					v, err := i.callFunction(args.Arg(1), []runtime.Value{item, runtime.NewNumber(float64(idx))}, runtime.Undefined)
					if err != nil {
						return nil, err
					}
					mapped.Push(v)
				}
				return mapped, nil
			}
			return i.newArray(items...), nil
		}), true
	case "of":
		return i.newNative("of", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return i.newArray(args.Args...), nil
		}), true
	}
	return nil, false
}
