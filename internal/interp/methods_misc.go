package interp

import (
	"strconv"

	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// numberMember dispatches Number.prototype methods.
func (i *Interpreter) numberMember(n *runtime.NumberValue, key string) (runtime.Value, error) {
	switch key {
	case "toFixed":
		return i.newNative("toFixed", func(args runtime.FunctionArgs) (runtime.Value, error) {
			digits := int(runtime.ToNumber(args.Arg(0)))
			return runtime.NewString(strconv.FormatFloat(n.Value, 'f', digits, 64)), nil
		}), nil
	case "toPrecision":
		return i.newNative("toPrecision", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if args.ArgCount() == 0 {
				return runtime.NewString(n.String()), nil
			}
			prec := int(runtime.ToNumber(args.Arg(0)))
			return runtime.NewString(strconv.FormatFloat(n.Value, 'g', prec, 64)), nil
		}), nil
	case "toString":
		return i.newNative("toString", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if args.ArgCount() > 0 {
				radix := int(runtime.ToNumber(args.Arg(0)))
				if radix >= 2 && radix <= 36 {
					return runtime.NewString(strconv.FormatInt(int64(n.Value), radix)), nil
				}
			}
			return runtime.NewString(n.String()), nil
		}), nil
	case "valueOf":
		return i.newNative("valueOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return n, nil
		}), nil
	}
	return runtime.Undefined, nil
}

// mapMember dispatches Map.prototype methods.
func (i *Interpreter) mapMember(m *runtime.MapValue, key string) (runtime.Value, error) {
	switch key {
	case "size":
		return runtime.NewNumber(float64(m.Size())), nil
	case "get":
		return i.newNative("get", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return m.Get(args.Arg(0)), nil
		}), nil
	case "set":
		return i.newNative("set", func(args runtime.FunctionArgs) (runtime.Value, error) {
			m.Set(args.Arg(0), args.Arg(1))
			return m, nil
		}), nil
	case "has":
		return i.newNative("has", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(m.Has(args.Arg(0))), nil
		}), nil
	case "delete":
		return i.newNative("delete", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(m.Delete(args.Arg(0))), nil
		}), nil
	case "clear":
		return i.newNative("clear", func(args runtime.FunctionArgs) (runtime.Value, error) {
			m.Clear()
			return runtime.Undefined, nil
		}), nil
	case "forEach":
		return i.newNative("forEach", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for _, e := range m.Entries {
				if _, err := i.callFunction(args.Arg(0), []runtime.Value{e.Value, e.Key, m}, runtime.Undefined); err != nil {
					return nil, err
				}
			}
			return runtime.Undefined, nil
		}), nil
	case "keys":
		return i.newNative("keys", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items := make([]runtime.Value, len(m.Entries))
			for idx, e := range m.Entries {
				items[idx] = e.Key
			}
			return i.sliceIterator(items), nil
		}), nil
	case "values":
		return i.newNative("values", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items := make([]runtime.Value, len(m.Entries))
			for idx, e := range m.Entries {
				items[idx] = e.Value
			}
			return i.sliceIterator(items), nil
		}), nil
	case "entries":
		return i.newNative("entries", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items := make([]runtime.Value, len(m.Entries))
			for idx, e := range m.Entries {
				items[idx] = i.newArray(e.Key, e.Value)
			}
			return i.sliceIterator(items), nil
		}), nil
	}
	return runtime.Undefined, nil
}

// setMemberMethods dispatches Set.prototype methods.
func (i *Interpreter) setMemberMethods(s *runtime.SetValue, key string) (runtime.Value, error) {
	switch key {
	case "size":
		return runtime.NewNumber(float64(s.Size())), nil
	case "add":
		return i.newNative("add", func(args runtime.FunctionArgs) (runtime.Value, error) {
			s.Add(args.Arg(0))
			return s, nil
		}), nil
	case "has":
		return i.newNative("has", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(s.Has(args.Arg(0))), nil
		}), nil
	case "delete":
		return i.newNative("delete", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(s.Delete(args.Arg(0))), nil
		}), nil
	case "clear":
		return i.newNative("clear", func(args runtime.FunctionArgs) (runtime.Value, error) {
			s.Clear()
			return runtime.Undefined, nil
		}), nil
	case "forEach":
		return i.newNative("forEach", func(args runtime.FunctionArgs) (runtime.Value, error) {
			for _, item := range s.Items {
				if _, err := i.callFunction(args.Arg(0), []runtime.Value{item, item, s}, runtime.Undefined); err != nil {
					return nil, err
				}
			}
			return runtime.Undefined, nil
		}), nil
	case "values", "keys":
		return i.newNative(key, func(args runtime.FunctionArgs) (runtime.Value, error) {
			items := append([]runtime.Value{}, s.Items...)
			return i.sliceIterator(items), nil
		}), nil
	}
	return runtime.Undefined, nil
}

// weakMapMember dispatches WeakMap.prototype methods.
func (i *Interpreter) weakMapMember(w *runtime.WeakMapValue, key string) (runtime.Value, error) {
	requireHeapKey := func(v runtime.Value) error {
		if runtime.HeapObject(v) == nil {
			return runtime.NewTypeError("Invalid value used as weak map key")
		}
		return nil
	}
	switch key {
	case "get":
		return i.newNative("get", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return w.Get(args.Arg(0)), nil
		}), nil
	case "set":
		return i.newNative("set", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if err := requireHeapKey(args.Arg(0)); err != nil {
				return nil, err
			}
			w.Set(args.Arg(0), args.Arg(1))
			return w, nil
		}), nil
	case "has":
		return i.newNative("has", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(w.Has(args.Arg(0))), nil
		}), nil
	case "delete":
		return i.newNative("delete", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(w.Delete(args.Arg(0))), nil
		}), nil
	}
	return runtime.Undefined, nil
}

// weakSetMember dispatches WeakSet.prototype methods.
func (i *Interpreter) weakSetMember(w *runtime.WeakSetValue, key string) (runtime.Value, error) {
	switch key {
	case "add":
		return i.newNative("add", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if runtime.HeapObject(args.Arg(0)) == nil {
				return nil, runtime.NewTypeError("Invalid value used in weak set")
			}
			w.Add(args.Arg(0))
			return w, nil
		}), nil
	case "has":
		return i.newNative("has", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(w.Has(args.Arg(0))), nil
		}), nil
	case "delete":
		return i.newNative("delete", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(w.Delete(args.Arg(0))), nil
		}), nil
	}
	return runtime.Undefined, nil
}

// regexpMember dispatches RegExp.prototype members.
func (i *Interpreter) regexpMember(r *runtime.RegExpValue, key string) (runtime.Value, error) {
	switch key {
	case "source":
		return runtime.NewString(r.Pattern), nil
	case "flags":
		return runtime.NewString(r.Flags), nil
	case "lastIndex":
		return runtime.NewNumber(float64(r.LastIndex)), nil
	case "global":
		return runtime.NewBoolean(r.Global), nil
	case "ignoreCase":
		return runtime.NewBoolean(r.IgnoreCase), nil
	case "multiline":
		return runtime.NewBoolean(r.Multiline), nil
	case "sticky":
		return runtime.NewBoolean(r.Sticky), nil
	case "test":
		return i.newNative("test", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(r.Test(runtime.ToString(args.Arg(0)))), nil
		}), nil
	case "exec":
		return i.newNative("exec", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return i.regexpExec(r, runtime.ToString(args.Arg(0)))
		}), nil
	case "toString":
		return i.newNative("toString", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(r.String()), nil
		}), nil
	}
	return runtime.Undefined, nil
}

// regexpExec returns the match array (matched text, then captures) or
// null on failure. The array has no index or input property.
func (i *Interpreter) regexpExec(r *runtime.RegExpValue, input string) (runtime.Value, error) {
	m, ok := r.Exec(input)
	if !ok {
		return runtime.Null, nil
	}
	arr := i.newArray(runtime.NewString(m.Text))
	for _, c := range m.Captures {
		arr.Push(runtime.NewString(c))
	}
	return arr, nil
}

// regexpMatch implements String.prototype.match: all matches for global
// regexps, exec-style result otherwise.
func (i *Interpreter) regexpMatch(r *runtime.RegExpValue, input string) (runtime.Value, error) {
	if !r.Global {
		return i.regexpExec(r, input)
	}
	r.LastIndex = 0
	arr := i.newArray()
	for {
		m, ok := r.Exec(input)
		if !ok {
			break
		}
		arr.Push(runtime.NewString(m.Text))
	}
	if arr.Length() == 0 {
		return runtime.Null, nil
	}
	return arr, nil
}

// generatorMember dispatches next/return/throw on a generator object.
func (i *Interpreter) generatorMember(g *runtime.Generator, key string) (runtime.Value, error) {
	switch key {
	case "next":
		nf := i.newNative("next", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if err := i.startGenerator(g); err != nil {
				return nil, err
			}
			value, done := g.Next()
			return i.generatorResult(value, done), nil
		})
		nf.Captured = []runtime.Value{g}
		return nf, nil
	case "return":
		nf := i.newNative("return", func(args runtime.FunctionArgs) (runtime.Value, error) {
			value, done := g.Return(args.Arg(0))
			return i.generatorResult(value, done), nil
		})
		nf.Captured = []runtime.Value{g}
		return nf, nil
	case "throw":
		nf := i.newNative("throw", func(args runtime.FunctionArgs) (runtime.Value, error) {
			g.Return(runtime.Undefined)
			return nil, runtime.NewThrownError(args.Arg(0))
		})
		nf.Captured = []runtime.Value{g}
		return nf, nil
	}
	return runtime.Undefined, nil
}

// functionMember dispatches properties and call/apply/bind on closures.
func (i *Interpreter) functionMember(fn *runtime.Function, key string) (runtime.Value, error) {
	switch key {
	case "name":
		return runtime.NewString(fn.Name), nil
	case "length":
		return runtime.NewNumber(float64(len(fn.Params))), nil
	case "prototype":
		return fn.Prototype(), nil
	case "call":
		return i.newNative("call", func(args runtime.FunctionArgs) (runtime.Value, error) {
			var rest []runtime.Value
			if args.ArgCount() > 1 {
				rest = args.Args[1:]
			}
			return i.callFunction(fn, rest, args.Arg(0))
		}), nil
	case "apply":
		return i.newNative("apply", func(args runtime.FunctionArgs) (runtime.Value, error) {
			var rest []runtime.Value
			if arr, ok := args.Arg(1).(*runtime.Array); ok {
				rest = arr.Elements
			}
			return i.callFunction(fn, rest, args.Arg(0))
		}), nil
	case "bind":
		return i.newNative("bind", func(args runtime.FunctionArgs) (runtime.Value, error) {
			boundThis := args.Arg(0)
			var boundArgs []runtime.Value
			if args.ArgCount() > 1 {
				boundArgs = append(boundArgs, args.Args[1:]...)
			}
			bound := i.newNative("bound "+fn.Name, func(call runtime.FunctionArgs) (runtime.Value, error) {
				return i.callFunction(fn, append(append([]runtime.Value{}, boundArgs...), call.Args...), boundThis)
			})
			bound.Captured = append([]runtime.Value{fn, boundThis}, boundArgs...)
			return bound, nil
		}), nil
	}
	if fn.Properties != nil {
		if prop, ok := fn.Properties.GetOwn(key); ok && prop.Value != nil {
			return prop.Value, nil
		}
	}
	// Class statics resolve through the class registry.
	if info, ok := i.classes[fn.Name]; ok && info.Value == fn {
		if prop, _, found := info.Statics.Lookup(key); found {
			if prop.Getter != nil {
				return i.callFunction(prop.Getter, nil, fn)
			}
			if prop.Value != nil {
				return prop.Value, nil
			}
		}
	}
	return runtime.Undefined, nil
}

// nativeFunctionMember dispatches properties on native functions.
func (i *Interpreter) nativeFunctionMember(fn *runtime.NativeFunction, key string) (runtime.Value, error) {
	switch key {
	case "name":
		return runtime.NewString(fn.Name), nil
	case "call":
		return i.newNative("call", func(args runtime.FunctionArgs) (runtime.Value, error) {
			var rest []runtime.Value
			if args.ArgCount() > 1 {
				rest = args.Args[1:]
			}
			return i.callFunction(fn, rest, args.Arg(0))
		}), nil
	case "apply":
		return i.newNative("apply", func(args runtime.FunctionArgs) (runtime.Value, error) {
			var rest []runtime.Value
			if arr, ok := args.Arg(1).(*runtime.Array); ok {
				rest = arr.Elements
			}
			return i.callFunction(fn, rest, args.Arg(0))
		}), nil
	}
	if v, ok := i.builtinStatic(fn.Name, key); ok {
		return v, nil
	}
	if statics, ok := i.nativeStatics[fn.Name]; ok {
		if v, found := statics[key]; found {
			return v, nil
		}
	}
	return runtime.Undefined, nil
}
