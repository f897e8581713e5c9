package interp

import (
	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// internal scope bindings used for super resolution inside class bodies.
const (
	superProtoBinding = "%superproto%"
	superCtorBinding  = "%superctor%"
)

// evalClassDeclaration registers a class: a constructor closure, a
// prototype object carrying methods and accessors, and the binding
// scripts use to reference the class.
func (i *Interpreter) evalClassDeclaration(decl *ast.ClassDeclaration) error {
	var parent *ClassInfo
	if decl.Parent != "" {
		p, ok := i.classes[decl.Parent]
		if !ok {
			return runtime.NewTypeError("class %s extends unknown class %s", decl.Name, decl.Parent)
		}
		parent = p
	}

	proto := i.newObject()
	statics := i.newObject()
	if parent != nil {
		proto.Proto = parent.Proto
		statics.Proto = parent.Statics
	}

	// The class scope carries the super bindings every method body sees.
	i.env.PushScope()
	if parent != nil {
		i.env.Define(superProtoBinding, parent.Proto, runtime.BindConst)
		i.env.Define(superCtorBinding, parent.Value, runtime.BindConst)
	}

	var ctor *runtime.Function
	if decl.Constructor != nil {
		ctor = i.makeFunction(decl.Constructor)
		ctor.Name = decl.Name
	}

	for _, method := range decl.Methods {
		fn := i.makeFunction(method.Function)
		fn.Name = method.Name
		target := proto
		if method.Static {
			target = statics
		}
		switch method.Kind {
		case ast.MethodKindGetter:
			target.SetGetter(method.Name, fn)
		case ast.MethodKindSetter:
			target.SetSetter(method.Name, fn)
		default:
			target.Set(method.Name, fn)
		}
	}
	i.env.PopScope()

	classValue := &runtime.Function{
		Name:    decl.Name,
		Closure: i.env.Capture(),
	}
	i.alloc(classValue)
	props := i.newObject()
	props.Set("prototype", proto)
	props.Set("name", runtime.NewString(decl.Name))
	classValue.Properties = props

	info := &ClassInfo{
		Name:    decl.Name,
		Parent:  decl.Parent,
		Ctor:    ctor,
		Proto:   proto,
		Statics: statics,
		Value:   classValue,
	}
	i.classes[decl.Name] = info
	i.env.Define(decl.Name, classValue, runtime.BindLet)
	return nil
}

func (i *Interpreter) evalNewExpression(e *ast.NewExpression) (runtime.Value, error) {
	callee, err := i.evalExpression(e.Callee)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArguments(e.Arguments)
	if err != nil {
		return nil, err
	}
	return i.construct(callee, args)
}

// construct implements `new callee(args)`: class instantiation, plain
// function constructors, construct traps, and the builtin constructors
// (which are native functions).
func (i *Interpreter) construct(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.Function:
		if info, ok := i.classes[fn.Name]; ok && info.Value == fn {
			return i.instantiateClass(info, args)
		}
		// Function-style constructor: fresh object prototyped on
		// fn.prototype, returned unless the body returns an object.
		instance := i.newObject()
		instance.Proto = fn.Prototype()
		result, err := i.executeFunctionBody(fn, args, instance)
		if err != nil {
			return nil, err
		}
		if obj, isObj := result.(*runtime.Object); isObj {
			return obj, nil
		}
		return instance, nil

	case *runtime.NativeFunction:
		// Builtin constructors construct through a plain call.
		result, err := fn.Fn(runtime.FunctionArgs{This: runtime.Undefined, Args: args})
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = runtime.Undefined
		}
		return result, nil

	case *runtime.ProxyValue:
		return i.proxyConstruct(fn, args)

	default:
		return nil, runtime.NewNotAFunctionError(callee.String())
	}
}

// instantiateClass allocates a fresh instance prototyped on the class's
// prototype and runs the constructor chain against it.
func (i *Interpreter) instantiateClass(info *ClassInfo, args []runtime.Value) (runtime.Value, error) {
	instance := i.newObject()
	instance.Proto = info.Proto
	instance.ClassName = info.Name

	result, err := i.runConstructor(info, instance, args)
	if err != nil {
		return nil, err
	}
	if obj, isObj := result.(*runtime.Object); isObj && obj != instance {
		return obj, nil
	}
	return instance, nil
}

// runConstructor invokes the class's own constructor, or the parent's
// when the class declares none.
func (i *Interpreter) runConstructor(info *ClassInfo, instance *runtime.Object, args []runtime.Value) (runtime.Value, error) {
	if info.Ctor == nil {
		if info.Parent != "" {
			parent, ok := i.classes[info.Parent]
			if !ok {
				return runtime.Undefined, nil
			}
			return i.runConstructor(parent, instance, args)
		}
		return runtime.Undefined, nil
	}
	return i.executeFunctionBody(info.Ctor, args, instance)
}

// evalSuperCall invokes the parent constructor against the current this.
func (i *Interpreter) evalSuperCall(e *ast.SuperCallExpression) (runtime.Value, error) {
	superCtor, err := i.env.Get(superCtorBinding)
	if err != nil {
		return nil, runtime.NewTypeError("'super' keyword unexpected here")
	}
	args, err := i.evalArguments(e.Arguments)
	if err != nil {
		return nil, err
	}
	this := i.env.This()
	fn, ok := superCtor.(*runtime.Function)
	if !ok {
		return nil, runtime.NewTypeError("'super' is not a constructor")
	}
	if info, isClass := i.classes[fn.Name]; isClass && info.Value == fn {
		instance, isObj := this.(*runtime.Object)
		if !isObj {
			return nil, runtime.NewTypeError("'super' called outside a constructor")
		}
		return i.runConstructor(info, instance, args)
	}
	return i.executeFunctionBody(fn, args, this)
}

// evalSuperMember resolves super.method against the parent prototype,
// bound to the current this.
func (i *Interpreter) evalSuperMember(e *ast.SuperMemberExpression) (runtime.Value, error) {
	superProto, err := i.env.Get(superProtoBinding)
	if err != nil {
		return nil, runtime.NewTypeError("'super' keyword unexpected here")
	}
	proto, ok := superProto.(*runtime.Object)
	if !ok {
		return nil, runtime.NewTypeError("'super' has no prototype")
	}
	prop, _, found := proto.Lookup(e.Property)
	if !found {
		return runtime.Undefined, nil
	}
	this := i.env.This()
	if prop.Getter != nil {
		return i.callFunction(prop.Getter, nil, this)
	}
	method := prop.Value
	if method == nil {
		return runtime.Undefined, nil
	}
	// Bind the method to the current instance so super.m() sees this.
	if fn, isFn := method.(*runtime.Function); isFn {
		self := this
		bound := i.newNative(fn.Name, func(args runtime.FunctionArgs) (runtime.Value, error) {
			return i.executeFunctionBody(fn, args.Args, self)
		})
		bound.Captured = []runtime.Value{fn, self}
		return bound, nil
	}
	return method, nil
}
