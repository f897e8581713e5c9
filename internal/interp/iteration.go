package interp

import (
	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// iterate consumes an iterable into a slice: arrays and strings directly,
// maps and sets by entries, anything else through [Symbol.iterator] and
// the {value, done} protocol.
func (i *Interpreter) iterate(value runtime.Value) ([]runtime.Value, error) {
	switch v := value.(type) {
	case *runtime.Array:
		items := make([]runtime.Value, v.Length())
		for idx := range v.Elements {
			items[idx] = v.Get(idx)
		}
		return items, nil

	case *runtime.StringValue:
		runes := []rune(v.Value)
		items := make([]runtime.Value, len(runes))
		for idx, r := range runes {
			items[idx] = runtime.NewString(string(r))
		}
		return items, nil

	case *runtime.MapValue:
		items := make([]runtime.Value, len(v.Entries))
		for idx, e := range v.Entries {
			items[idx] = i.newArray(e.Key, e.Value)
		}
		return items, nil

	case *runtime.SetValue:
		items := make([]runtime.Value, len(v.Items))
		copy(items, v.Items)
		return items, nil

	case *runtime.Generator:
		if err := i.startGenerator(v); err != nil {
			return nil, err
		}
		var items []runtime.Value
		for {
			item, done := v.Next()
			if done {
				break
			}
			items = append(items, item)
		}
		return items, nil

	case *runtime.Object:
		iterFn, err := i.getSymbolMember(v, runtime.SymbolIterator)
		if err != nil {
			return nil, err
		}
		if !runtime.IsCallable(iterFn) {
			return nil, runtime.NewTypeError("%s is not iterable", value.Type())
		}
		iterator, err := i.callFunction(iterFn, nil, v)
		if err != nil {
			return nil, err
		}
		return i.drainIterator(iterator)

	default:
		return nil, runtime.NewTypeError("%s is not iterable", value.Type())
	}
}

// drainIterator loops next() until done becomes true. done=true
// terminates iteration; its value is the return value, not yielded.
func (i *Interpreter) drainIterator(iterator runtime.Value) ([]runtime.Value, error) {
	var items []runtime.Value
	for {
		nextFn, err := i.getMember(iterator, "next")
		if err != nil {
			return nil, err
		}
		if !runtime.IsCallable(nextFn) {
			return nil, runtime.NewTypeError("iterator has no callable next method")
		}
		result, err := i.callFunction(nextFn, nil, iterator)
		if err != nil {
			return nil, err
		}
		done, err := i.getMember(result, "done")
		if err != nil {
			return nil, err
		}
		if runtime.ToBoolean(done) {
			return items, nil
		}
		value, err := i.getMember(result, "value")
		if err != nil {
			return nil, err
		}
		items = append(items, value)
	}
}

// iterateToSlice evaluates expr and iterates the result (spread sites).
func (i *Interpreter) iterateToSlice(expr ast.Expression) ([]runtime.Value, error) {
	value, err := i.evalExpression(expr)
	if err != nil {
		return nil, err
	}
	return i.iterate(value)
}

// valueToSlice iterates value for destructuring; undefined and null
// cannot be destructured and raise a TypeError.
func (i *Interpreter) valueToSlice(value runtime.Value) ([]runtime.Value, error) {
	if isNullish(value) {
		return nil, runtime.NewTypeError("cannot destructure %s", value.Type())
	}
	return i.iterate(value)
}

// sliceIterator builds a protocol-conforming iterator object over a
// snapshot of items.
func (i *Interpreter) sliceIterator(items []runtime.Value) *runtime.Object {
	iter := i.newObject()
	idx := 0
	next := i.newNative("next", func(args runtime.FunctionArgs) (runtime.Value, error) {
		if idx >= len(items) {
			return i.generatorResult(runtime.Undefined, true), nil
		}
		item := items[idx]
		idx++
		return i.generatorResult(item, false), nil
	})
	next.Captured = items
	iter.Set("next", next)
	self := i.newNative("[Symbol.iterator]", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return iter, nil
	})
	self.Captured = []runtime.Value{iter}
	iter.SetSymbol(runtime.SymbolIterator, self)
	return iter
}

func (i *Interpreter) evalForOfStatement(s *ast.ForOfStatement, label string) (signal, error) {
	iterable, err := i.evalExpression(s.Iterable)
	if err != nil {
		return noSignal, err
	}
	items, err := i.iterate(iterable)
	if err != nil {
		return noSignal, err
	}

	for _, item := range items {
		i.env.PushScope()
		if err := i.bindLoopPattern(s.Kind, s.Pattern, item); err != nil {
			i.env.PopScope()
			return noSignal, err
		}
		sig, err := i.evalStatement(s.Body)
		i.env.PopScope()
		if err != nil {
			return noSignal, err
		}
		switch sig.kind {
		case signalBreak:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
			return noSignal, nil
		case signalContinue:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
		case signalReturn:
			return sig, nil
		}
	}
	return noSignal, nil
}

func (i *Interpreter) evalForInStatement(s *ast.ForInStatement, label string) (signal, error) {
	object, err := i.evalExpression(s.Object)
	if err != nil {
		return noSignal, err
	}

	var keys []string
	switch o := object.(type) {
	case *runtime.Object:
		// Enumerable string keys across the prototype chain, own first.
		seen := make(map[string]bool)
		for obj := o; obj != nil; obj = obj.Proto {
			for _, k := range obj.Keys() {
				if !seen[k] {
					seen[k] = true
					keys = append(keys, k)
				}
			}
		}
	case *runtime.Array:
		for idx := range o.Elements {
			keys = append(keys, runtime.FormatNumber(float64(idx)))
		}
	case *runtime.StringValue:
		for idx := range []rune(o.Value) {
			keys = append(keys, runtime.FormatNumber(float64(idx)))
		}
	case *runtime.ProxyValue:
		proxied, err := i.proxyOwnKeys(o)
		if err != nil {
			return noSignal, err
		}
		keys = proxied
	default:
		return noSignal, nil
	}

	for _, key := range keys {
		i.env.PushScope()
		if err := i.bindLoopPattern(s.Kind, s.Pattern, runtime.NewString(key)); err != nil {
			i.env.PopScope()
			return noSignal, err
		}
		sig, err := i.evalStatement(s.Body)
		i.env.PopScope()
		if err != nil {
			return noSignal, err
		}
		switch sig.kind {
		case signalBreak:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
			return noSignal, nil
		case signalContinue:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
		case signalReturn:
			return sig, nil
		}
	}
	return noSignal, nil
}

// bindLoopPattern binds the per-iteration variable: declared kinds define
// fresh bindings, a bare pattern assigns an existing one.
func (i *Interpreter) bindLoopPattern(kind string, pattern ast.Pattern, value runtime.Value) error {
	if kind == "" {
		if ident, ok := pattern.(*ast.IdentifierPattern); ok {
			if err := i.env.Set(ident.Name, value); err == nil {
				return nil
			}
		}
	}
	bindKind := runtime.BindLet
	switch kind {
	case "var":
		bindKind = runtime.BindVar
	case "const":
		bindKind = runtime.BindConst
	}
	return i.bindPattern(pattern, value, bindKind)
}
