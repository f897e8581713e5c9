package jsvm

import "github.com/cwbudde/go-jsvm/internal/runtime"

// ClassDef describes a host-implemented class: an optional constructor,
// instance methods, property accessors, static methods, and an optional
// parent class whose constructor, methods, and accessors are merged in
// (its statics are not).
type ClassDef struct {
	Name        string
	Parent      string
	Constructor HostFunc
	Methods     map[string]HostFunc
	Getters     map[string]HostFunc
	Setters     map[string]HostFunc
	Statics     map[string]HostFunc
}

// RegisterClass installs a class definition. Instantiation invokes the
// constructor to produce a base instance, then installs methods and
// accessors on it; getters/setters become accessor properties.
func (e *Engine) RegisterClass(def ClassDef) error {
	merged := ClassDef{
		Name:        def.Name,
		Parent:      def.Parent,
		Constructor: def.Constructor,
		Methods:     make(map[string]HostFunc),
		Getters:     make(map[string]HostFunc),
		Setters:     make(map[string]HostFunc),
		Statics:     make(map[string]HostFunc),
	}
	if def.Parent != "" {
		parent, ok := e.classes[def.Parent]
		if !ok {
			return runtime.NewTypeError("unknown parent class %q", def.Parent)
		}
		for name, fn := range parent.Methods {
			merged.Methods[name] = fn
		}
		for name, fn := range parent.Getters {
			merged.Getters[name] = fn
		}
		for name, fn := range parent.Setters {
			merged.Setters[name] = fn
		}
		if merged.Constructor == nil {
			merged.Constructor = parent.Constructor
		}
	}
	for name, fn := range def.Methods {
		merged.Methods[name] = fn
	}
	for name, fn := range def.Getters {
		merged.Getters[name] = fn
	}
	for name, fn := range def.Setters {
		merged.Setters[name] = fn
	}
	for name, fn := range def.Statics {
		merged.Statics[name] = fn
	}

	e.SetGlobalFunction(def.Name, func(args FunctionArgs) (any, error) {
		return e.instantiateNativeClass(merged, args)
	})
	for name, fn := range merged.Statics {
		static := name
		staticFn := fn
		native := runtime.NewNativeFunction(static, func(inner runtime.FunctionArgs) (runtime.Value, error) {
			result, err := staticFn(FunctionArgs{engine: e, inner: inner})
			if err != nil {
				return nil, runtime.AsError(err)
			}
			return toRuntime(e.interp, result)
		})
		e.interp.Heap().Alloc(native)
		e.interp.RegisterNativeStatic(def.Name, static, native)
	}
	e.classes[def.Name] = merged
	return nil
}

func (e *Engine) instantiateNativeClass(def ClassDef, args FunctionArgs) (any, error) {
	var instance runtime.Value
	if def.Constructor != nil {
		result, err := def.Constructor(args)
		if err != nil {
			return nil, err
		}
		converted, err := toRuntime(e.interp, result)
		if err != nil {
			return nil, err
		}
		instance = converted
	} else {
		obj := runtime.NewObject()
		e.interp.Heap().Alloc(obj)
		instance = obj
	}

	obj, ok := instance.(*runtime.Object)
	if !ok {
		return instance, nil
	}
	obj.ClassName = def.Name

	bindMethod := func(name string, fn HostFunc) *runtime.NativeFunction {
		native := runtime.NewNativeFunction(name, func(inner runtime.FunctionArgs) (runtime.Value, error) {
			inner.This = obj
			result, err := fn(FunctionArgs{engine: e, inner: inner})
			if err != nil {
				return nil, runtime.AsError(err)
			}
			return toRuntime(e.interp, result)
		})
		e.interp.Heap().Alloc(native)
		return native
	}

	for name, fn := range def.Methods {
		obj.Set(name, bindMethod(name, fn))
	}
	for name, fn := range def.Getters {
		obj.SetGetter(name, bindMethod("get "+name, fn))
	}
	for name, fn := range def.Setters {
		obj.SetSetter(name, bindMethod("set "+name, fn))
	}
	return obj, nil
}
