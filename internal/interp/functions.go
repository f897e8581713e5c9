package interp

import (
	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

func (i *Interpreter) evalCallExpression(e *ast.CallExpression) (runtime.Value, error) {
	var thisValue runtime.Value = runtime.Undefined
	var callee runtime.Value
	var err error

	switch target := e.Callee.(type) {
	case *ast.MemberExpression:
		object, objErr := i.evalExpression(target.Object)
		if objErr != nil {
			return nil, objErr
		}
		if (target.Optional || e.Optional) && isNullish(object) {
			return runtime.Undefined, nil
		}
		thisValue = object
		callee, err = i.getMember(object, target.Property)
		if err != nil {
			return nil, err
		}
	case *ast.ComputedMemberExpression:
		object, objErr := i.evalExpression(target.Object)
		if objErr != nil {
			return nil, objErr
		}
		key, keyErr := i.evalExpression(target.Property)
		if keyErr != nil {
			return nil, keyErr
		}
		thisValue = object
		callee, err = i.getComputedMember(object, key)
		if err != nil {
			return nil, err
		}
	default:
		callee, err = i.evalExpression(e.Callee)
		if err != nil {
			return nil, err
		}
		if e.Optional && isNullish(callee) {
			return runtime.Undefined, nil
		}
	}

	args, err := i.evalArguments(e.Arguments)
	if err != nil {
		return nil, err
	}
	if !runtime.IsCallable(callee) {
		return nil, runtime.NewNotAFunctionError(calleeName(e.Callee))
	}
	return i.callFunction(callee, args, thisValue)
}

func calleeName(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Value
	case *ast.MemberExpression:
		return e.Property
	default:
		return expr.String()
	}
}

// evalArguments evaluates a call argument list, expanding spreads.
func (i *Interpreter) evalArguments(exprs []ast.Expression) ([]runtime.Value, error) {
	var args []runtime.Value
	for _, arg := range exprs {
		if spread, ok := arg.(*ast.SpreadExpression); ok {
			items, err := i.iterateToSlice(spread.Argument)
			if err != nil {
				return nil, err
			}
			args = append(args, items...)
			continue
		}
		v, err := i.evalExpression(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// callFunction is the function call protocol: native handlers, closures,
// async wrapping, generator objects, and proxy apply traps.
func (i *Interpreter) callFunction(callee runtime.Value, args []runtime.Value, this runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.NativeFunction:
		i.pushFrame(fn.Name)
		result, err := fn.Fn(runtime.FunctionArgs{This: this, Args: args})
		i.popFrame()
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = runtime.Undefined
		}
		return result, nil

	case *runtime.Function:
		if fn.IsGenerator {
			gen := runtime.NewGenerator(fn, args, this)
			i.alloc(gen)
			return gen, nil
		}
		if fn.IsAsync {
			return i.executeAsyncFunction(fn, args, this)
		}
		return i.executeFunctionBody(fn, args, this)

	case *runtime.ProxyValue:
		if fn.Revoked {
			return nil, runtime.NewTypeError("cannot perform 'apply' on a revoked proxy")
		}
		if trap, ok := fn.Trap(runtime.TrapApply); ok {
			argArray := i.newArray(args...)
			return i.callFunction(trap, []runtime.Value{fn.Target, this, argArray}, fn.Handler)
		}
		return i.callFunction(fn.Target, args, this)

	default:
		return nil, runtime.NewNotAFunctionError(callee.String())
	}
}

// executeFunctionBody swaps in the closure's captured scope chain, binds
// parameters, runs the body, and interprets a Return signal as the call
// value.
func (i *Interpreter) executeFunctionBody(fn *runtime.Function, args []runtime.Value, this runtime.Value) (runtime.Value, error) {
	if fn.Body == nil {
		return nil, runtime.NewTypeError("class constructor %s cannot be invoked without 'new'", fn.Name)
	}
	saved := i.env.ReplaceScopes(fn.Closure)
	if fn.IsArrow {
		// Arrows inherit `this` through the captured chain.
		i.env.PushScope()
	} else {
		i.env.PushScopeWithThis(this)
	}
	i.pushFrame(fn.Name)

	err := i.bindParams(fn.Params, args)
	var result runtime.Value = runtime.Undefined
	if err == nil {
		var sig signal
		sig, err = i.evalStatements(fn.Body.Statements)
		if err == nil && sig.kind == signalReturn {
			result = sig.value
		}
	}

	i.popFrame()
	i.env.PopScope()
	i.env.ReplaceScopes(saved)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// bindParams evaluates each parameter pattern against its positional
// argument, substituting defaults for undefined.
func (i *Interpreter) bindParams(params []*ast.Param, args []runtime.Value) error {
	for idx, param := range params {
		if rest, ok := param.Pattern.(*ast.RestPattern); ok {
			remainder := i.newArray()
			if idx < len(args) {
				remainder.Push(args[idx:]...)
			}
			return i.bindPattern(rest.Target, remainder, runtime.BindLet)
		}
		var value runtime.Value = runtime.Undefined
		if idx < len(args) {
			value = args[idx]
		}
		if _, isUndef := value.(*runtime.UndefinedValue); isUndef && param.Default != nil {
			v, err := i.evalExpression(param.Default)
			if err != nil {
				return err
			}
			value = v
		}
		if err := i.bindPattern(param.Pattern, value, runtime.BindLet); err != nil {
			return err
		}
	}
	return nil
}

// bindPattern destructures value into the current scope.
func (i *Interpreter) bindPattern(pattern ast.Pattern, value runtime.Value, kind runtime.BindingKind) error {
	switch p := pattern.(type) {
	case *ast.IdentifierPattern:
		i.env.Define(p.Name, value, kind)
		return nil

	case *ast.ArrayPattern:
		items, err := i.valueToSlice(value)
		if err != nil {
			return err
		}
		for idx, element := range p.Elements {
			if element == nil {
				continue // hole
			}
			if rest, ok := element.(*ast.RestPattern); ok {
				remainder := i.newArray()
				if idx < len(items) {
					remainder.Push(items[idx:]...)
				}
				return i.bindPattern(rest.Target, remainder, kind)
			}
			var item runtime.Value = runtime.Undefined
			if idx < len(items) {
				item = items[idx]
			}
			if err := i.bindPattern(element, item, kind); err != nil {
				return err
			}
		}
		return nil

	case *ast.ObjectPattern:
		used := make(map[string]bool)
		for _, prop := range p.Properties {
			if prop.IsRest {
				rest := i.newObject()
				if src, ok := value.(*runtime.Object); ok {
					for _, k := range src.Keys() {
						if used[k] {
							continue
						}
						v, err := i.getMember(src, k)
						if err != nil {
							return err
						}
						rest.Set(k, v)
					}
				}
				i.env.Define(prop.Key, rest, kind)
				continue
			}
			used[prop.Key] = true
			v, err := i.getMember(value, prop.Key)
			if err != nil {
				return err
			}
			if _, isUndef := v.(*runtime.UndefinedValue); isUndef && prop.Default != nil {
				v, err = i.evalExpression(prop.Default)
				if err != nil {
					return err
				}
			}
			if prop.Alias != nil {
				if err := i.bindPattern(prop.Alias, v, kind); err != nil {
					return err
				}
				continue
			}
			i.env.Define(prop.Key, v, kind)
		}
		return nil

	case *ast.DefaultPattern:
		if _, isUndef := value.(*runtime.UndefinedValue); isUndef {
			v, err := i.evalExpression(p.Default)
			if err != nil {
				return err
			}
			value = v
		}
		return i.bindPattern(p.Target, value, kind)

	case *ast.RestPattern:
		return i.bindPattern(p.Target, value, kind)

	default:
		return runtime.NewTypeError("unsupported binding pattern")
	}
}

// executeAsyncFunction wraps a synchronous body execution in a promise:
// normal completion fulfills, a throw rejects.
func (i *Interpreter) executeAsyncFunction(fn *runtime.Function, args []runtime.Value, this runtime.Value) (runtime.Value, error) {
	promise := i.newPromise()
	i.asyncDepth++
	result, err := i.executeFunctionBody(fn, args, this)
	i.asyncDepth--

	if err != nil {
		rejected := i.errorToValue(runtime.AsError(err))
		if settleErr := i.settlePromise(promise, true, rejected); settleErr != nil {
			return nil, settleErr
		}
		i.trackRejection(promise)
		return promise, nil
	}
	if err := i.settlePromise(promise, false, result); err != nil {
		return nil, err
	}
	return promise, nil
}

// evalAwaitExpression resolves non-promises synchronously; for promises
// it drives the event loop until settlement.
func (i *Interpreter) evalAwaitExpression(e *ast.AwaitExpression) (runtime.Value, error) {
	if i.asyncDepth == 0 {
		return nil, runtime.NewTypeError("await is only valid inside async functions")
	}
	value, err := i.evalExpression(e.Operand)
	if err != nil {
		return nil, err
	}
	promise, ok := value.(*runtime.Promise)
	if !ok {
		return value, nil
	}

	if err := i.RunEventLoopUntilSettled(promise); err != nil {
		return nil, err
	}
	switch promise.State {
	case runtime.PromiseFulfilled:
		return promise.Value, nil
	case runtime.PromiseRejected:
		promise.Handled = true
		return nil, runtime.NewThrownError(promise.Value)
	default:
		return nil, runtime.NewTypeError("awaited promise did not settle")
	}
}

// evalYieldExpression appends to the innermost generator's yield sink.
func (i *Interpreter) evalYieldExpression(e *ast.YieldExpression) (runtime.Value, error) {
	if len(i.yieldSinks) == 0 {
		return nil, runtime.NewTypeError("yield is only valid inside generator functions")
	}
	sink := i.yieldSinks[len(i.yieldSinks)-1]

	var value runtime.Value = runtime.Undefined
	if e.Operand != nil {
		v, err := i.evalExpression(e.Operand)
		if err != nil {
			return nil, err
		}
		value = v
	}

	if e.Delegate {
		items, err := i.iterate(value)
		if err != nil {
			return nil, err
		}
		*sink = append(*sink, items...)
		return runtime.Undefined, nil
	}

	*sink = append(*sink, value)
	return runtime.Undefined, nil
}

// startGenerator runs the generator body once, collecting its yield
// sequence and return value for replay through next().
func (i *Interpreter) startGenerator(g *runtime.Generator) error {
	if g.Started {
		return nil
	}
	g.Started = true

	sink := &[]runtime.Value{}
	i.yieldSinks = append(i.yieldSinks, sink)
	defer func() { i.yieldSinks = i.yieldSinks[:len(i.yieldSinks)-1] }()

	saved := i.env.ReplaceScopes(g.Captured)
	i.env.PushScopeWithThis(g.ThisBinding)
	i.pushFrame(g.Name)

	err := i.bindParams(g.Params, g.Args)
	if err == nil {
		var sig signal
		sig, err = i.evalStatements(g.Body.Statements)
		if err == nil && sig.kind == signalReturn {
			g.ReturnValue = sig.value
		}
	}

	i.popFrame()
	i.env.PopScope()
	i.env.ReplaceScopes(saved)

	g.Yielded = *sink
	if err != nil {
		g.Done = true
		return err
	}
	return nil
}

// generatorResult wraps a step into an iterator {value, done} record.
func (i *Interpreter) generatorResult(value runtime.Value, done bool) *runtime.Object {
	result := i.newObject()
	result.Set("value", value)
	result.Set("done", runtime.NewBoolean(done))
	return result
}
