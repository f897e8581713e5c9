package interp

import (
	"math"
	"strings"

	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// evalExpression evaluates one expression to a value.
func (i *Interpreter) evalExpression(expr ast.Expression) (runtime.Value, error) {
	i.currentNode = expr

	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return runtime.NewNumber(e.Value), nil
	case *ast.StringLiteral:
		return runtime.NewString(e.Value), nil
	case *ast.BooleanLiteral:
		return runtime.NewBoolean(e.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil
	case *ast.UndefinedLiteral:
		return runtime.Undefined, nil

	case *ast.Identifier:
		return i.env.Get(e.Value)

	case *ast.RegexLiteral:
		re, err := runtime.NewRegExp(e.Pattern, e.Flags)
		if err != nil {
			return nil, err
		}
		i.alloc(re)
		return re, nil

	case *ast.TemplateLiteral:
		return i.evalTemplateLiteral(e)

	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(e)

	case *ast.ObjectLiteral:
		return i.evalObjectLiteral(e)

	case *ast.FunctionLiteral:
		fn := i.makeFunction(e)
		if e.Name != "" && !e.IsArrow {
			// Named function expressions can refer to themselves.
			i.env.Define(e.Name, fn, runtime.BindVar)
		}
		return fn, nil

	case *ast.BinaryExpression:
		return i.evalBinaryExpression(e)

	case *ast.LogicalExpression:
		return i.evalLogicalExpression(e)

	case *ast.UnaryExpression:
		return i.evalUnaryExpression(e)

	case *ast.UpdateExpression:
		return i.evalUpdateExpression(e)

	case *ast.ConditionalExpression:
		cond, err := i.evalExpression(e.Condition)
		if err != nil {
			return nil, err
		}
		if runtime.ToBoolean(cond) {
			return i.evalExpression(e.Then)
		}
		return i.evalExpression(e.Else)

	case *ast.AssignExpression:
		return i.evalAssignExpression(e)

	case *ast.MemberExpression:
		object, err := i.evalExpression(e.Object)
		if err != nil {
			return nil, err
		}
		if e.Optional && isNullish(object) {
			return runtime.Undefined, nil
		}
		return i.getMember(object, e.Property)

	case *ast.ComputedMemberExpression:
		object, err := i.evalExpression(e.Object)
		if err != nil {
			return nil, err
		}
		key, err := i.evalExpression(e.Property)
		if err != nil {
			return nil, err
		}
		return i.getComputedMember(object, key)

	case *ast.CallExpression:
		return i.evalCallExpression(e)

	case *ast.NewExpression:
		return i.evalNewExpression(e)

	case *ast.ThisExpression:
		return i.env.This(), nil

	case *ast.SuperCallExpression:
		return i.evalSuperCall(e)

	case *ast.SuperMemberExpression:
		return i.evalSuperMember(e)

	case *ast.AwaitExpression:
		return i.evalAwaitExpression(e)

	case *ast.YieldExpression:
		return i.evalYieldExpression(e)

	case *ast.SpreadExpression:
		// Spread outside a call/array position evaluates its argument.
		return i.evalExpression(e.Argument)

	default:
		return nil, runtime.NewTypeError("unsupported expression %T", expr)
	}
}

func isNullish(v runtime.Value) bool {
	switch v.(type) {
	case *runtime.UndefinedValue, *runtime.NullValue:
		return true
	}
	return false
}

// makeFunction builds a closure capturing the current scope chain.
func (i *Interpreter) makeFunction(lit *ast.FunctionLiteral) *runtime.Function {
	fn := &runtime.Function{
		Name:        lit.Name,
		Params:      lit.Params,
		Body:        lit.Body,
		Closure:     i.env.Capture(),
		IsAsync:     lit.IsAsync,
		IsGenerator: lit.IsGenerator,
		IsArrow:     lit.IsArrow,
		SourcePath:  i.sourcePath,
		SourcePos:   lit.Token.Pos.Offset,
	}
	if lit.IsArrow {
		fn.BoundThis = i.env.This()
		fn.HasThis = true
	}
	i.alloc(fn)
	return fn
}

func (i *Interpreter) evalTemplateLiteral(e *ast.TemplateLiteral) (runtime.Value, error) {
	var sb strings.Builder
	for _, part := range e.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Str)
			continue
		}
		v, err := i.evalExpression(part.Expr)
		if err != nil {
			return nil, err
		}
		sb.WriteString(runtime.ToString(v))
	}
	return runtime.NewString(sb.String()), nil
}

func (i *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral) (runtime.Value, error) {
	arr := i.newArray()
	for _, el := range e.Elements {
		if spread, ok := el.(*ast.SpreadExpression); ok {
			items, err := i.iterateToSlice(spread.Argument)
			if err != nil {
				return nil, err
			}
			arr.Push(items...)
			continue
		}
		v, err := i.evalExpression(el)
		if err != nil {
			return nil, err
		}
		arr.Push(v)
	}
	return arr, nil
}

func (i *Interpreter) evalObjectLiteral(e *ast.ObjectLiteral) (runtime.Value, error) {
	obj := i.newObject()
	for _, prop := range e.Properties {
		switch {
		case prop.Spread:
			source, err := i.evalExpression(prop.Value)
			if err != nil {
				return nil, err
			}
			if src, ok := source.(*runtime.Object); ok {
				for _, k := range src.Keys() {
					v, err := i.getMember(src, k)
					if err != nil {
						return nil, err
					}
					obj.Set(k, v)
				}
			}

		case prop.Getter:
			fn, err := i.evalExpression(prop.Value)
			if err != nil {
				return nil, err
			}
			obj.SetGetter(prop.Key, fn)

		case prop.Setter:
			fn, err := i.evalExpression(prop.Value)
			if err != nil {
				return nil, err
			}
			obj.SetSetter(prop.Key, fn)

		case prop.Computed != nil:
			key, err := i.evalExpression(prop.Computed)
			if err != nil {
				return nil, err
			}
			value, err := i.evalExpression(prop.Value)
			if err != nil {
				return nil, err
			}
			if sym, ok := key.(*runtime.SymbolValue); ok {
				obj.SetSymbol(sym, value)
			} else {
				obj.Set(runtime.ToString(key), value)
			}

		default:
			value, err := i.evalExpression(prop.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(prop.Key, value)
		}
	}
	return obj, nil
}

// evalBinaryExpression implements arithmetic, comparison, equality,
// `in`, and `instanceof`.
func (i *Interpreter) evalBinaryExpression(e *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evalExpression(e.Left)
	if err != nil {
		return nil, err
	}
	i.pin(left)
	defer i.unpin()
	right, err := i.evalExpression(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "+":
		return i.evalAdd(left, right)
	case "-":
		return runtime.NewNumber(runtime.ToNumber(left) - runtime.ToNumber(right)), nil
	case "*":
		return runtime.NewNumber(runtime.ToNumber(left) * runtime.ToNumber(right)), nil
	case "/":
		return runtime.NewNumber(runtime.ToNumber(left) / runtime.ToNumber(right)), nil
	case "%":
		return runtime.NewNumber(math.Mod(runtime.ToNumber(left), runtime.ToNumber(right))), nil
	case "**":
		return runtime.NewNumber(math.Pow(runtime.ToNumber(left), runtime.ToNumber(right))), nil
	case "===":
		return runtime.NewBoolean(runtime.StrictEquals(left, right)), nil
	case "!==":
		return runtime.NewBoolean(!runtime.StrictEquals(left, right)), nil
	case "==":
		return runtime.NewBoolean(runtime.AbstractEquals(left, right)), nil
	case "!=":
		return runtime.NewBoolean(!runtime.AbstractEquals(left, right)), nil
	case "<", "<=", ">", ">=":
		return i.evalComparison(e.Op, left, right)
	case "in":
		return i.evalInOperator(left, right)
	case "instanceof":
		return i.evalInstanceof(left, right)
	default:
		return nil, runtime.NewTypeError("unknown operator %q", e.Op)
	}
}

// evalAdd applies ToPrimitive to both sides; if either is a string,
// concatenate, else numeric add.
func (i *Interpreter) evalAdd(left, right runtime.Value) (runtime.Value, error) {
	lp := i.toPrimitive(left, runtime.HintDefault)
	rp := i.toPrimitive(right, runtime.HintDefault)

	_, lStr := lp.(*runtime.StringValue)
	_, rStr := rp.(*runtime.StringValue)
	if lStr || rStr {
		return runtime.NewString(runtime.ToString(lp) + runtime.ToString(rp)), nil
	}
	return runtime.NewNumber(runtime.ToNumber(lp) + runtime.ToNumber(rp)), nil
}

// toPrimitive applies the Symbol.toPrimitive protocol before the default
// coercion.
func (i *Interpreter) toPrimitive(v runtime.Value, hint runtime.PrimitiveHint) runtime.Value {
	if obj, ok := v.(*runtime.Object); ok {
		if prop, found := obj.LookupSymbol(runtime.SymbolToPrimitive); found && prop.Value != nil && runtime.IsCallable(prop.Value) {
			hintName := "default"
			switch hint {
			case runtime.HintNumber:
				hintName = "number"
			case runtime.HintString:
				hintName = "string"
			}
			result, err := i.callFunction(prop.Value, []runtime.Value{runtime.NewString(hintName)}, v)
			if err == nil {
				return result
			}
		}
		// valueOf then toString, the ordinary-object path.
		if prop, _, found := obj.Lookup("valueOf"); found && prop.Value != nil && runtime.IsCallable(prop.Value) {
			if result, err := i.callFunction(prop.Value, nil, v); err == nil {
				if _, isObj := result.(*runtime.Object); !isObj {
					return result
				}
			}
		}
		if prop, _, found := obj.Lookup("toString"); found && prop.Value != nil && runtime.IsCallable(prop.Value) {
			if result, err := i.callFunction(prop.Value, nil, v); err == nil {
				return result
			}
		}
	}
	return runtime.ToPrimitive(v, hint)
}

// evalComparison orders two strings lexicographically, anything else
// numerically.
func (i *Interpreter) evalComparison(op string, left, right runtime.Value) (runtime.Value, error) {
	lp := i.toPrimitive(left, runtime.HintNumber)
	rp := i.toPrimitive(right, runtime.HintNumber)

	if ls, ok := lp.(*runtime.StringValue); ok {
		if rs, ok := rp.(*runtime.StringValue); ok {
			switch op {
			case "<":
				return runtime.NewBoolean(ls.Value < rs.Value), nil
			case "<=":
				return runtime.NewBoolean(ls.Value <= rs.Value), nil
			case ">":
				return runtime.NewBoolean(ls.Value > rs.Value), nil
			case ">=":
				return runtime.NewBoolean(ls.Value >= rs.Value), nil
			}
		}
	}

	ln := runtime.ToNumber(lp)
	rn := runtime.ToNumber(rp)
	switch op {
	case "<":
		return runtime.NewBoolean(ln < rn), nil
	case "<=":
		return runtime.NewBoolean(ln <= rn), nil
	case ">":
		return runtime.NewBoolean(ln > rn), nil
	default:
		return runtime.NewBoolean(ln >= rn), nil
	}
}

func (i *Interpreter) evalInOperator(key, container runtime.Value) (runtime.Value, error) {
	switch c := container.(type) {
	case *runtime.Object:
		return runtime.NewBoolean(c.Has(runtime.ToString(key))), nil
	case *runtime.Array:
		idx := int(runtime.ToNumber(key))
		return runtime.NewBoolean(idx >= 0 && idx < c.Length()), nil
	case *runtime.ProxyValue:
		return i.proxyHas(c, runtime.ToString(key))
	case *runtime.MapValue, *runtime.SetValue:
		return runtime.False, nil
	default:
		return nil, runtime.NewTypeError("cannot use 'in' operator on %s", container.Type())
	}
}

func (i *Interpreter) evalLogicalExpression(e *ast.LogicalExpression) (runtime.Value, error) {
	left, err := i.evalExpression(e.Left)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "&&":
		if !runtime.ToBoolean(left) {
			return left, nil
		}
	case "||":
		if runtime.ToBoolean(left) {
			return left, nil
		}
	case "??":
		if !isNullish(left) {
			return left, nil
		}
	}
	return i.evalExpression(e.Right)
}

func (i *Interpreter) evalUnaryExpression(e *ast.UnaryExpression) (runtime.Value, error) {
	if e.Op == "typeof" {
		// typeof never throws for undefined identifiers.
		if ident, ok := e.Operand.(*ast.Identifier); ok && !i.env.Has(ident.Value) {
			return runtime.NewString("undefined"), nil
		}
	}
	if e.Op == "delete" {
		return i.evalDelete(e.Operand)
	}

	operand, err := i.evalExpression(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		return runtime.NewNumber(-runtime.ToNumber(operand)), nil
	case "+":
		return runtime.NewNumber(runtime.ToNumber(operand)), nil
	case "!":
		return runtime.NewBoolean(!runtime.ToBoolean(operand)), nil
	case "typeof":
		return runtime.NewString(runtime.TypeOf(operand)), nil
	default:
		return nil, runtime.NewTypeError("unknown unary operator %q", e.Op)
	}
}

func (i *Interpreter) evalDelete(target ast.Expression) (runtime.Value, error) {
	switch t := target.(type) {
	case *ast.MemberExpression:
		object, err := i.evalExpression(t.Object)
		if err != nil {
			return nil, err
		}
		return i.deleteMember(object, t.Property)
	case *ast.ComputedMemberExpression:
		object, err := i.evalExpression(t.Object)
		if err != nil {
			return nil, err
		}
		key, err := i.evalExpression(t.Property)
		if err != nil {
			return nil, err
		}
		return i.deleteMember(object, runtime.ToString(key))
	default:
		return runtime.True, nil
	}
}

// evalUpdateExpression reads, coerces to number, writes back, and yields
// the pre- or post-value.
func (i *Interpreter) evalUpdateExpression(e *ast.UpdateExpression) (runtime.Value, error) {
	old, err := i.evalExpression(e.Target)
	if err != nil {
		return nil, err
	}
	oldNum := runtime.ToNumber(old)
	delta := 1.0
	if e.Op == "--" {
		delta = -1
	}
	newVal := runtime.NewNumber(oldNum + delta)
	if err := i.assignTo(e.Target, newVal); err != nil {
		return nil, err
	}
	if e.Prefix {
		return newVal, nil
	}
	return runtime.NewNumber(oldNum), nil
}

func (i *Interpreter) evalAssignExpression(e *ast.AssignExpression) (runtime.Value, error) {
	value, err := i.evalExpression(e.Value)
	if err != nil {
		return nil, err
	}

	if e.Op != "=" {
		old, err := i.evalExpression(e.Target)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case "+=":
			value, err = i.evalAdd(old, value)
			if err != nil {
				return nil, err
			}
		case "-=":
			value = runtime.NewNumber(runtime.ToNumber(old) - runtime.ToNumber(value))
		case "*=":
			value = runtime.NewNumber(runtime.ToNumber(old) * runtime.ToNumber(value))
		case "/=":
			value = runtime.NewNumber(runtime.ToNumber(old) / runtime.ToNumber(value))
		case "%=":
			value = runtime.NewNumber(math.Mod(runtime.ToNumber(old), runtime.ToNumber(value)))
		}
	}

	if err := i.assignTo(e.Target, value); err != nil {
		return nil, err
	}
	return value, nil
}

// assignTo writes value through an assignment target: an identifier, a
// member expression, or a computed member expression.
func (i *Interpreter) assignTo(target ast.Expression, value runtime.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if err := i.env.Set(t.Value, value); err != nil {
			rerr := runtime.AsError(err)
			if rerr.Kind == runtime.ErrUndefinedVariable {
				// Implicit global, matching sloppy-mode scripts.
				i.env.DefineGlobal(t.Value, value, runtime.BindVar)
				return nil
			}
			return err
		}
		return nil

	case *ast.MemberExpression:
		object, err := i.evalExpression(t.Object)
		if err != nil {
			return err
		}
		return i.setMember(object, t.Property, value)

	case *ast.ComputedMemberExpression:
		object, err := i.evalExpression(t.Object)
		if err != nil {
			return err
		}
		key, err := i.evalExpression(t.Property)
		if err != nil {
			return err
		}
		if sym, ok := key.(*runtime.SymbolValue); ok {
			if obj, ok := object.(*runtime.Object); ok {
				obj.SetSymbol(sym, value)
				return nil
			}
		}
		return i.setMember(object, runtime.ToString(key), value)

	default:
		return runtime.NewTypeError("invalid assignment target")
	}
}
