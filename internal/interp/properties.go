package interp

import (
	"strconv"

	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// getMember reads receiver.key per the object model: own table, then
// prototype chain, with getters invoked against the original receiver.
// Non-object receivers dispatch into the builtin method tables.
func (i *Interpreter) getMember(receiver runtime.Value, key string) (runtime.Value, error) {
	switch r := receiver.(type) {
	case *runtime.UndefinedValue, *runtime.NullValue:
		return nil, runtime.NewTypeError("cannot read properties of %s (reading '%s')", receiver.Type(), key)

	case *runtime.Object:
		prop, _, found := r.Lookup(key)
		if found {
			if prop.Getter != nil {
				return i.callFunction(prop.Getter, nil, receiver)
			}
			if prop.Value != nil {
				return prop.Value, nil
			}
			return runtime.Undefined, nil
		}
		return i.objectDefaultMember(r, key)

	case *runtime.Array:
		if key == "length" {
			return runtime.NewNumber(float64(r.Length())), nil
		}
		if idx, err := strconv.Atoi(key); err == nil {
			return r.Get(idx), nil
		}
		return i.arrayMember(r, key)

	case *runtime.StringValue:
		if key == "length" {
			return runtime.NewNumber(float64(len([]rune(r.Value)))), nil
		}
		if idx, err := strconv.Atoi(key); err == nil {
			runes := []rune(r.Value)
			if idx >= 0 && idx < len(runes) {
				return runtime.NewString(string(runes[idx])), nil
			}
			return runtime.Undefined, nil
		}
		return i.stringMember(r, key)

	case *runtime.NumberValue:
		return i.numberMember(r, key)

	case *runtime.BooleanValue:
		if key == "toString" {
			return i.newNative("toString", func(args runtime.FunctionArgs) (runtime.Value, error) {
				return runtime.NewString(r.String()), nil
			}), nil
		}
		return runtime.Undefined, nil

	case *runtime.SymbolValue:
		switch key {
		case "description":
			return runtime.NewString(r.Description), nil
		case "toString":
			return i.newNative("toString", func(args runtime.FunctionArgs) (runtime.Value, error) {
				return runtime.NewString(r.String()), nil
			}), nil
		}
		return runtime.Undefined, nil

	case *runtime.MapValue:
		return i.mapMember(r, key)

	case *runtime.SetValue:
		return i.setMemberMethods(r, key)

	case *runtime.WeakMapValue:
		return i.weakMapMember(r, key)

	case *runtime.WeakSetValue:
		return i.weakSetMember(r, key)

	case *runtime.Promise:
		return i.promiseMember(r, key)

	case *runtime.RegExpValue:
		return i.regexpMember(r, key)

	case *runtime.Generator:
		return i.generatorMember(r, key)

	case *runtime.Function:
		return i.functionMember(r, key)

	case *runtime.NativeFunction:
		return i.nativeFunctionMember(r, key)

	case *runtime.ProxyValue:
		return i.proxyGet(r, key)

	default:
		return runtime.Undefined, nil
	}
}

// objectDefaultMember resolves the Object.prototype-style defaults when
// no own or inherited slot shadows them.
func (i *Interpreter) objectDefaultMember(obj *runtime.Object, key string) (runtime.Value, error) {
	switch key {
	case "hasOwnProperty":
		return i.newNative("hasOwnProperty", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(obj.HasOwn(runtime.ToString(args.Arg(0)))), nil
		}), nil
	case "isPrototypeOf":
		return i.newNative("isPrototypeOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(obj.IsPrototypeOf(args.Arg(0))), nil
		}), nil
	case "propertyIsEnumerable":
		return i.newNative("propertyIsEnumerable", func(args runtime.FunctionArgs) (runtime.Value, error) {
			prop, ok := obj.GetOwn(runtime.ToString(args.Arg(0)))
			return runtime.NewBoolean(ok && prop.Enumerable), nil
		}), nil
	case "toString":
		return i.newNative("toString", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if prop, found := obj.LookupSymbol(runtime.SymbolToStringTag); found && prop.Value != nil {
				return runtime.NewString("[object " + runtime.ToString(prop.Value) + "]"), nil
			}
			return runtime.NewString("[object Object]"), nil
		}), nil
	case "valueOf":
		return i.newNative("valueOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return obj, nil
		}), nil
	case "constructor":
		if obj.ClassName != "" {
			if ci, ok := i.classes[obj.ClassName]; ok {
				return ci.Value, nil
			}
		}
		return runtime.Undefined, nil
	}
	return runtime.Undefined, nil
}

// getComputedMember handles obj[key] where key may be a symbol.
func (i *Interpreter) getComputedMember(receiver, key runtime.Value) (runtime.Value, error) {
	if sym, ok := key.(*runtime.SymbolValue); ok {
		return i.getSymbolMember(receiver, sym)
	}
	return i.getMember(receiver, runtime.ToString(key))
}

// getSymbolMember resolves symbol-keyed access, including the well-known
// iterator on builtin iterables.
func (i *Interpreter) getSymbolMember(receiver runtime.Value, sym *runtime.SymbolValue) (runtime.Value, error) {
	if obj, ok := receiver.(*runtime.Object); ok {
		if prop, found := obj.LookupSymbol(sym); found {
			if prop.Getter != nil {
				return i.callFunction(prop.Getter, nil, receiver)
			}
			if prop.Value != nil {
				return prop.Value, nil
			}
		}
		return runtime.Undefined, nil
	}
	if sym.ID == runtime.SymbolIteratorID {
		switch receiver.(type) {
		case *runtime.Array, *runtime.StringValue, *runtime.MapValue, *runtime.SetValue, *runtime.Generator:
			self := receiver
			return i.newNative("[Symbol.iterator]", func(args runtime.FunctionArgs) (runtime.Value, error) {
				items, err := i.iterate(self)
				if err != nil {
					return nil, err
				}
				return i.sliceIterator(items), nil
			}), nil
		}
	}
	return runtime.Undefined, nil
}

// setMember writes receiver.key = value: ancestor setters win, otherwise
// the receiver's own table takes the write. Frozen receivers fail
// silently.
func (i *Interpreter) setMember(receiver runtime.Value, key string, value runtime.Value) error {
	switch r := receiver.(type) {
	case *runtime.UndefinedValue, *runtime.NullValue:
		return runtime.NewTypeError("cannot set properties of %s (setting '%s')", receiver.Type(), key)

	case *runtime.Object:
		if prop, _, found := r.Lookup(key); found && prop.Setter != nil {
			_, err := i.callFunction(prop.Setter, []runtime.Value{value}, receiver)
			return err
		}
		r.Set(key, value)
		return nil

	case *runtime.Array:
		if key == "length" {
			r.SetLength(int(runtime.ToNumber(value)))
			return nil
		}
		if idx, err := strconv.Atoi(key); err == nil {
			r.Set(idx, value)
		}
		return nil

	case *runtime.RegExpValue:
		if key == "lastIndex" {
			n := int(runtime.ToNumber(value))
			if n < 0 {
				n = 0
			}
			r.LastIndex = n
		}
		return nil

	case *runtime.Function:
		if r.Properties == nil {
			r.Properties = runtime.NewObject()
			i.alloc(r.Properties)
		}
		r.Properties.Set(key, value)
		return nil

	case *runtime.ProxyValue:
		return i.proxySet(r, key, value)

	default:
		// Property writes on primitives are silently dropped.
		return nil
	}
}

// deleteMember implements the delete operator.
func (i *Interpreter) deleteMember(receiver runtime.Value, key string) (runtime.Value, error) {
	switch r := receiver.(type) {
	case *runtime.Object:
		return runtime.NewBoolean(r.Delete(key)), nil
	case *runtime.Array:
		if idx, err := strconv.Atoi(key); err == nil {
			if idx >= 0 && idx < r.Length() {
				r.Elements[idx] = runtime.Undefined
			}
			return runtime.True, nil
		}
		return runtime.True, nil
	case *runtime.ProxyValue:
		return i.proxyDelete(r, key)
	default:
		return runtime.True, nil
	}
}

// evalInstanceof walks the instance's prototype chain looking for the
// constructor's prototype object, honoring Symbol.hasInstance.
func (i *Interpreter) evalInstanceof(instance, ctor runtime.Value) (runtime.Value, error) {
	if obj, ok := ctor.(*runtime.Object); ok {
		if prop, found := obj.LookupSymbol(runtime.SymbolHasInstance); found && prop.Value != nil && runtime.IsCallable(prop.Value) {
			result, err := i.callFunction(prop.Value, []runtime.Value{instance}, ctor)
			if err != nil {
				return nil, err
			}
			return runtime.NewBoolean(runtime.ToBoolean(result)), nil
		}
	}

	fn, ok := ctor.(*runtime.Function)
	if !ok {
		if nf, isNative := ctor.(*runtime.NativeFunction); isNative {
			// Error constructors tag instances with a class name.
			target := instance
			if p, isProxy := target.(*runtime.ProxyValue); isProxy {
				target = p.Target
			}
			if obj, isObj := target.(*runtime.Object); isObj {
				return runtime.NewBoolean(errorInstanceMatches(obj, nf.Name)), nil
			}
			return runtime.False, nil
		}
		return nil, runtime.NewTypeError("right-hand side of 'instanceof' is not callable")
	}

	target := instance
	if p, isProxy := target.(*runtime.ProxyValue); isProxy {
		if trap, hasTrap := p.Trap(runtime.TrapGetPrototypeOf); hasTrap {
			proto, err := i.callFunction(trap, []runtime.Value{p.Target}, p.Handler)
			if err != nil {
				return nil, err
			}
			if protoObj, isObj := proto.(*runtime.Object); isObj {
				return runtime.NewBoolean(protoObj == fn.Prototype() || fn.Prototype().IsPrototypeOf(protoObj)), nil
			}
			return runtime.False, nil
		}
		target = p.Target
	}

	obj, isObj := target.(*runtime.Object)
	if !isObj {
		return runtime.False, nil
	}
	ctorProto := fn.Prototype()
	for proto := obj.Proto; proto != nil; proto = proto.Proto {
		if proto == ctorProto {
			return runtime.True, nil
		}
	}
	return runtime.False, nil
}

// errorInstanceMatches reports whether obj was synthesized by the named
// error constructor (or its base Error).
func errorInstanceMatches(obj *runtime.Object, ctorName string) bool {
	if obj.ClassName == "" {
		return false
	}
	if ctorName == "Error" {
		switch obj.ClassName {
		case "Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError":
			return true
		}
	}
	return obj.ClassName == ctorName
}
