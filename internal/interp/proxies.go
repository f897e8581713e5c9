package interp

import "github.com/cwbudde/go-jsvm/internal/runtime"

func (i *Interpreter) proxyCheck(p *runtime.ProxyValue, op string) error {
	if p.Revoked {
		return runtime.NewTypeError("cannot perform '%s' on a revoked proxy", op)
	}
	return nil
}

// proxyGet routes a property read through the get trap, forwarding to the
// target when the trap is absent.
func (i *Interpreter) proxyGet(p *runtime.ProxyValue, key string) (runtime.Value, error) {
	if err := i.proxyCheck(p, runtime.TrapGet); err != nil {
		return nil, err
	}
	if trap, ok := p.Trap(runtime.TrapGet); ok {
		return i.callFunction(trap, []runtime.Value{p.Target, runtime.NewString(key), p}, p.Handler)
	}
	return i.getMember(p.Target, key)
}

// proxySet routes a property write through the set trap.
func (i *Interpreter) proxySet(p *runtime.ProxyValue, key string, value runtime.Value) error {
	if err := i.proxyCheck(p, runtime.TrapSet); err != nil {
		return err
	}
	if trap, ok := p.Trap(runtime.TrapSet); ok {
		_, err := i.callFunction(trap, []runtime.Value{p.Target, runtime.NewString(key), value, p}, p.Handler)
		return err
	}
	return i.setMember(p.Target, key, value)
}

// proxyHas implements the `in` operator against a proxy.
func (i *Interpreter) proxyHas(p *runtime.ProxyValue, key string) (runtime.Value, error) {
	if err := i.proxyCheck(p, runtime.TrapHas); err != nil {
		return nil, err
	}
	if trap, ok := p.Trap(runtime.TrapHas); ok {
		result, err := i.callFunction(trap, []runtime.Value{p.Target, runtime.NewString(key)}, p.Handler)
		if err != nil {
			return nil, err
		}
		return runtime.NewBoolean(runtime.ToBoolean(result)), nil
	}
	return i.evalInOperator(runtime.NewString(key), p.Target)
}

// proxyDelete implements the delete operator against a proxy.
func (i *Interpreter) proxyDelete(p *runtime.ProxyValue, key string) (runtime.Value, error) {
	if err := i.proxyCheck(p, runtime.TrapDeleteProperty); err != nil {
		return nil, err
	}
	if trap, ok := p.Trap(runtime.TrapDeleteProperty); ok {
		result, err := i.callFunction(trap, []runtime.Value{p.Target, runtime.NewString(key)}, p.Handler)
		if err != nil {
			return nil, err
		}
		return runtime.NewBoolean(runtime.ToBoolean(result)), nil
	}
	return i.deleteMember(p.Target, key)
}

// proxyOwnKeys lists keys through the ownKeys trap.
func (i *Interpreter) proxyOwnKeys(p *runtime.ProxyValue) ([]string, error) {
	if err := i.proxyCheck(p, runtime.TrapOwnKeys); err != nil {
		return nil, err
	}
	if trap, ok := p.Trap(runtime.TrapOwnKeys); ok {
		result, err := i.callFunction(trap, []runtime.Value{p.Target}, p.Handler)
		if err != nil {
			return nil, err
		}
		if arr, isArr := result.(*runtime.Array); isArr {
			keys := make([]string, 0, arr.Length())
			for _, el := range arr.Elements {
				keys = append(keys, runtime.ToString(el))
			}
			return keys, nil
		}
		return nil, nil
	}
	if obj, ok := p.Target.(*runtime.Object); ok {
		return obj.OwnKeys(), nil
	}
	return nil, nil
}

// proxyConstruct implements `new` on a proxy.
func (i *Interpreter) proxyConstruct(p *runtime.ProxyValue, args []runtime.Value) (runtime.Value, error) {
	if err := i.proxyCheck(p, runtime.TrapConstruct); err != nil {
		return nil, err
	}
	if trap, ok := p.Trap(runtime.TrapConstruct); ok {
		argArray := i.newArray(args...)
		return i.callFunction(trap, []runtime.Value{p.Target, argArray, p}, p.Handler)
	}
	return i.construct(p.Target, args)
}
