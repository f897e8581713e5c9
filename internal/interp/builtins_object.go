package interp

import "github.com/cwbudde/go-jsvm/internal/runtime"

// objectStatic resolves the Object.* statics.
func (i *Interpreter) objectStatic(key string) (runtime.Value, bool) {
	switch key {
	case "keys":
		return i.newNative("keys", func(args runtime.FunctionArgs) (runtime.Value, error) {
			arr := i.newArray()
			for _, k := range ownEnumerableKeys(args.Arg(0)) {
				arr.Push(runtime.NewString(k))
			}
			return arr, nil
		}), true
	case "values":
		return i.newNative("values", func(args runtime.FunctionArgs) (runtime.Value, error) {
			arr := i.newArray()
			obj, ok := args.Arg(0).(*runtime.Object)
			if !ok {
				return arr, nil
			}
			for _, k := range obj.Keys() {
				v, err := i.getMember(obj, k)
				if err != nil {
					return nil, err
				}
				arr.Push(v)
			}
			return arr, nil
		}), true
	case "entries":
		return i.newNative("entries", func(args runtime.FunctionArgs) (runtime.Value, error) {
			arr := i.newArray()
			obj, ok := args.Arg(0).(*runtime.Object)
			if !ok {
				return arr, nil
			}
			for _, k := range obj.Keys() {
				v, err := i.getMember(obj, k)
				if err != nil {
					return nil, err
				}
				arr.Push(i.newArray(runtime.NewString(k), v))
			}
			return arr, nil
		}), true
	case "assign":
		return i.newNative("assign", func(args runtime.FunctionArgs) (runtime.Value, error) {
			target, ok := args.Arg(0).(*runtime.Object)
			if !ok {
				return nil, runtime.NewTypeError("Object.assign target must be an object")
			}
			for _, src := range args.Args[1:] {
				obj, ok := src.(*runtime.Object)
				if !ok {
					continue
				}
				for _, k := range obj.Keys() {
					v, err := i.getMember(obj, k)
					if err != nil {
						return nil, err
					}
					target.Set(k, v)
				}
			}
			return target, nil
		}), true
	case "create":
		return i.newNative("create", func(args runtime.FunctionArgs) (runtime.Value, error) {
			obj := i.newObject()
			if proto, ok := args.Arg(0).(*runtime.Object); ok {
				obj.Proto = proto
			}
			if props, ok := args.Arg(1).(*runtime.Object); ok {
				for _, k := range props.Keys() {
					descProp, _ := props.GetOwn(k)
					desc, ok := descProp.Value.(*runtime.Object)
					if !ok {
						continue
					}
					prop, err := i.descriptorToProperty(desc)
					if err != nil {
						return nil, err
					}
					obj.DefineProperty(k, prop)
				}
			}
			return obj, nil
		}), true
	case "freeze":
		return i.newNative("freeze", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				obj.Freeze()
			}
			return args.Arg(0), nil
		}), true
	case "isFrozen":
		return i.newNative("isFrozen", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				return runtime.NewBoolean(obj.Frozen), nil
			}
			return runtime.True, nil
		}), true
	case "seal":
		return i.newNative("seal", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				obj.Seal()
			}
			return args.Arg(0), nil
		}), true
	case "isSealed":
		return i.newNative("isSealed", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				return runtime.NewBoolean(obj.Sealed), nil
			}
			return runtime.True, nil
		}), true
	case "preventExtensions":
		return i.newNative("preventExtensions", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				obj.PreventExtensions()
			}
			return args.Arg(0), nil
		}), true
	case "isExtensible":
		return i.newNative("isExtensible", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				return runtime.NewBoolean(obj.Extensible), nil
			}
			return runtime.False, nil
		}), true
	case "fromEntries":
		return i.newNative("fromEntries", func(args runtime.FunctionArgs) (runtime.Value, error) {
			items, err := i.iterate(args.Arg(0))
			if err != nil {
				return nil, err
			}
			obj := i.newObject()
			for _, item := range items {
				pair, ok := item.(*runtime.Array)
				if !ok || pair.Length() < 2 {
					return nil, runtime.NewTypeError("iterator value is not an entry object")
				}
				obj.Set(runtime.ToString(pair.Get(0)), pair.Get(1))
			}
			return obj, nil
		}), true
	case "hasOwn":
		return i.newNative("hasOwn", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				return runtime.NewBoolean(obj.HasOwn(runtime.ToString(args.Arg(1)))), nil
			}
			return runtime.False, nil
		}), true
	case "is":
		return i.newNative("is", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(runtime.SameValueZero(args.Arg(0), args.Arg(1))), nil
		}), true
	case "getPrototypeOf":
		return i.newNative("getPrototypeOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if obj, ok := args.Arg(0).(*runtime.Object); ok && obj.Proto != nil {
				return obj.Proto, nil
			}
			return runtime.Null, nil
		}), true
	case "setPrototypeOf":
		return i.newNative("setPrototypeOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
			obj, ok := args.Arg(0).(*runtime.Object)
			if !ok {
				return args.Arg(0), nil
			}
			if proto, ok := args.Arg(1).(*runtime.Object); ok {
				obj.Proto = proto
			} else if isNullish(args.Arg(1)) {
				obj.Proto = nil
			}
			return obj, nil
		}), true
	case "defineProperty":
		return i.newNative("defineProperty", func(args runtime.FunctionArgs) (runtime.Value, error) {
			obj, ok := args.Arg(0).(*runtime.Object)
			if !ok {
				return nil, runtime.NewTypeError("Object.defineProperty called on non-object")
			}
			desc, ok := args.Arg(2).(*runtime.Object)
			if !ok {
				return nil, runtime.NewTypeError("property descriptor must be an object")
			}
			prop, err := i.descriptorToProperty(desc)
			if err != nil {
				return nil, err
			}
			obj.DefineProperty(runtime.ToString(args.Arg(1)), prop)
			return obj, nil
		}), true
	case "defineProperties":
		return i.newNative("defineProperties", func(args runtime.FunctionArgs) (runtime.Value, error) {
			obj, ok := args.Arg(0).(*runtime.Object)
			if !ok {
				return nil, runtime.NewTypeError("Object.defineProperties called on non-object")
			}
			descs, ok := args.Arg(1).(*runtime.Object)
			if !ok {
				return nil, runtime.NewTypeError("property descriptors must be an object")
			}
			for _, k := range descs.Keys() {
				descProp, _ := descs.GetOwn(k)
				desc, ok := descProp.Value.(*runtime.Object)
				if !ok {
					continue
				}
				prop, err := i.descriptorToProperty(desc)
				if err != nil {
					return nil, err
				}
				obj.DefineProperty(k, prop)
			}
			return obj, nil
		}), true
	case "getOwnPropertyDescriptor":
		return i.newNative("getOwnPropertyDescriptor", func(args runtime.FunctionArgs) (runtime.Value, error) {
			obj, ok := args.Arg(0).(*runtime.Object)
			if !ok {
				return runtime.Undefined, nil
			}
			prop, found := obj.GetOwn(runtime.ToString(args.Arg(1)))
			if !found {
				return runtime.Undefined, nil
			}
			return i.propertyToDescriptor(prop), nil
		}), true
	case "getOwnPropertyDescriptors":
		return i.newNative("getOwnPropertyDescriptors", func(args runtime.FunctionArgs) (runtime.Value, error) {
			out := i.newObject()
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				for _, k := range obj.OwnKeys() {
					prop, _ := obj.GetOwn(k)
					out.Set(k, i.propertyToDescriptor(prop))
				}
			}
			return out, nil
		}), true
	case "getOwnPropertyNames":
		return i.newNative("getOwnPropertyNames", func(args runtime.FunctionArgs) (runtime.Value, error) {
			arr := i.newArray()
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				for _, k := range obj.OwnKeys() {
					arr.Push(runtime.NewString(k))
				}
			}
			return arr, nil
		}), true
	case "getOwnPropertySymbols":
		return i.newNative("getOwnPropertySymbols", func(args runtime.FunctionArgs) (runtime.Value, error) {
			arr := i.newArray()
			if obj, ok := args.Arg(0).(*runtime.Object); ok {
				for _, sym := range obj.OwnSymbols() {
					arr.Push(sym)
				}
			}
			return arr, nil
		}), true
	}
	return nil, false
}

// ownEnumerableKeys lists own enumerable string keys for Object.keys and
// the spread/rest paths.
func ownEnumerableKeys(v runtime.Value) []string {
	switch obj := v.(type) {
	case *runtime.Object:
		return obj.Keys()
	case *runtime.Array:
		keys := make([]string, obj.Length())
		for idx := range obj.Elements {
			keys[idx] = runtime.FormatNumber(float64(idx))
		}
		return keys
	default:
		return nil
	}
}

// descriptorToProperty converts a {value, get, set, writable, enumerable,
// configurable} object into a property slot.
func (i *Interpreter) descriptorToProperty(desc *runtime.Object) (*runtime.Property, error) {
	prop := &runtime.Property{}
	readBool := func(key string, def bool) bool {
		p, ok := desc.GetOwn(key)
		if !ok || p.Value == nil {
			return def
		}
		return runtime.ToBoolean(p.Value)
	}
	prop.Writable = readBool("writable", false)
	prop.Enumerable = readBool("enumerable", false)
	prop.Configurable = readBool("configurable", false)

	if p, ok := desc.GetOwn("get"); ok && p.Value != nil && runtime.IsCallable(p.Value) {
		prop.Getter = p.Value
	}
	if p, ok := desc.GetOwn("set"); ok && p.Value != nil && runtime.IsCallable(p.Value) {
		prop.Setter = p.Value
	}
	if p, ok := desc.GetOwn("value"); ok {
		if prop.IsAccessor() {
			return nil, runtime.NewTypeError("property descriptors must not specify a value and an accessor")
		}
		prop.Value = p.Value
	}
	if prop.Value == nil && !prop.IsAccessor() {
		prop.Value = runtime.Undefined
	}
	return prop, nil
}

// propertyToDescriptor mirrors a slot back into descriptor object form.
func (i *Interpreter) propertyToDescriptor(prop *runtime.Property) *runtime.Object {
	desc := i.newObject()
	if prop.IsAccessor() {
		if prop.Getter != nil {
			desc.Set("get", prop.Getter)
		} else {
			desc.Set("get", runtime.Undefined)
		}
		if prop.Setter != nil {
			desc.Set("set", prop.Setter)
		} else {
			desc.Set("set", runtime.Undefined)
		}
	} else {
		desc.Set("value", prop.Value)
		desc.Set("writable", runtime.NewBoolean(prop.Writable))
	}
	desc.Set("enumerable", runtime.NewBoolean(prop.Enumerable))
	desc.Set("configurable", runtime.NewBoolean(prop.Configurable))
	return desc
}

// installReflect defines the Reflect namespace mirroring the object
// model's fundamental operations.
func (i *Interpreter) installReflect(define func(string, runtime.Value)) {
	r := i.newObject()

	r.Set("get", i.newNative("get", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return i.getMember(args.Arg(0), runtime.ToString(args.Arg(1)))
	}))
	r.Set("set", i.newNative("set", func(args runtime.FunctionArgs) (runtime.Value, error) {
		err := i.setMember(args.Arg(0), runtime.ToString(args.Arg(1)), args.Arg(2))
		return runtime.NewBoolean(err == nil), err
	}))
	r.Set("has", i.newNative("has", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return i.evalInOperator(args.Arg(1), args.Arg(0))
	}))
	r.Set("deleteProperty", i.newNative("deleteProperty", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return i.deleteMember(args.Arg(0), runtime.ToString(args.Arg(1)))
	}))
	r.Set("ownKeys", i.newNative("ownKeys", func(args runtime.FunctionArgs) (runtime.Value, error) {
		arr := i.newArray()
		switch obj := args.Arg(0).(type) {
		case *runtime.Object:
			for _, k := range obj.OwnKeys() {
				arr.Push(runtime.NewString(k))
			}
		case *runtime.ProxyValue:
			keys, err := i.proxyOwnKeys(obj)
			if err != nil {
				return nil, err
			}
			for _, k := range keys {
				arr.Push(runtime.NewString(k))
			}
		}
		return arr, nil
	}))
	r.Set("getPrototypeOf", i.newNative("getPrototypeOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
		if obj, ok := args.Arg(0).(*runtime.Object); ok && obj.Proto != nil {
			return obj.Proto, nil
		}
		return runtime.Null, nil
	}))
	r.Set("setPrototypeOf", i.newNative("setPrototypeOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
		obj, ok := args.Arg(0).(*runtime.Object)
		if !ok {
			return runtime.False, nil
		}
		if proto, isObj := args.Arg(1).(*runtime.Object); isObj {
			obj.Proto = proto
		} else if isNullish(args.Arg(1)) {
			obj.Proto = nil
		}
		return runtime.True, nil
	}))
	r.Set("apply", i.newNative("apply", func(args runtime.FunctionArgs) (runtime.Value, error) {
		var callArgs []runtime.Value
		if arr, ok := args.Arg(2).(*runtime.Array); ok {
			callArgs = arr.Elements
		}
		return i.callFunction(args.Arg(0), callArgs, args.Arg(1))
	}))
	r.Set("construct", i.newNative("construct", func(args runtime.FunctionArgs) (runtime.Value, error) {
		var callArgs []runtime.Value
		if arr, ok := args.Arg(1).(*runtime.Array); ok {
			callArgs = arr.Elements
		}
		return i.construct(args.Arg(0), callArgs)
	}))
	r.Set("defineProperty", i.newNative("defineProperty", func(args runtime.FunctionArgs) (runtime.Value, error) {
		obj, ok := args.Arg(0).(*runtime.Object)
		if !ok {
			return runtime.False, nil
		}
		desc, ok := args.Arg(2).(*runtime.Object)
		if !ok {
			return runtime.False, nil
		}
		prop, err := i.descriptorToProperty(desc)
		if err != nil {
			return nil, err
		}
		return runtime.NewBoolean(obj.DefineProperty(runtime.ToString(args.Arg(1)), prop)), nil
	}))
	r.Set("getOwnPropertyDescriptor", i.newNative("getOwnPropertyDescriptor", func(args runtime.FunctionArgs) (runtime.Value, error) {
		obj, ok := args.Arg(0).(*runtime.Object)
		if !ok {
			return runtime.Undefined, nil
		}
		prop, found := obj.GetOwn(runtime.ToString(args.Arg(1)))
		if !found {
			return runtime.Undefined, nil
		}
		return i.propertyToDescriptor(prop), nil
	}))

	define("Reflect", r)
}
