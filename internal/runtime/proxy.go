package runtime

import "github.com/cwbudde/go-jsvm/internal/gc"

// Trap names a proxy handler may implement. Missing traps forward to the
// target.
const (
	TrapGet            = "get"
	TrapSet            = "set"
	TrapHas            = "has"
	TrapDeleteProperty = "deleteProperty"
	TrapOwnKeys        = "ownKeys"
	TrapGetPrototypeOf = "getPrototypeOf"
	TrapSetPrototypeOf = "setPrototypeOf"
	TrapApply          = "apply"
	TrapConstruct      = "construct"
)

// ProxyValue intercepts operations on Target through trap methods on
// Handler. A revoked proxy fails every operation with a TypeError.
type ProxyValue struct {
	gc.Header
	Target  Value
	Handler *Object
	Revoked bool
}

// NewProxy wraps target with the given handler object.
func NewProxy(target Value, handler *Object) *ProxyValue {
	return &ProxyValue{Target: target, Handler: handler}
}

func (p *ProxyValue) Type() string   { return TypeProxy }
func (p *ProxyValue) String() string { return "[object Proxy]" }

// Trace implements gc.Object.
func (p *ProxyValue) Trace(m *gc.Marker) {
	MarkValue(m, p.Target)
	m.Mark(p.Handler)
}

// Trap returns the handler's trap function for name, when present and
// callable.
func (p *ProxyValue) Trap(name string) (Value, bool) {
	if p.Handler == nil {
		return nil, false
	}
	prop, _, ok := p.Handler.Lookup(name)
	if !ok || prop.Value == nil || !IsCallable(prop.Value) {
		return nil, false
	}
	return prop.Value, true
}
