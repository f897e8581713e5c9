package runtime

import "github.com/cwbudde/go-jsvm/internal/gc"

// BindingKind distinguishes var, let, and const declarations.
type BindingKind int

const (
	BindVar BindingKind = iota
	BindLet
	BindConst
)

// Binding is one name slot of a scope.
type Binding struct {
	Value Value
	Kind  BindingKind
}

// Scope is one frame of the environment chain: an insertion-ordered
// name-to-binding table with an optional `this` binding. Scopes are heap
// objects so closures keep their captured frames alive through the GC.
type Scope struct {
	gc.Header
	names    []string
	bindings map[string]*Binding
	This     Value
	HasThis  bool
}

// NewScope returns an empty scope frame.
func NewScope() *Scope {
	return &Scope{bindings: make(map[string]*Binding)}
}

func (s *Scope) Type() string   { return "scope" }
func (s *Scope) String() string { return "[scope]" }

// Trace implements gc.Object.
func (s *Scope) Trace(m *gc.Marker) {
	for _, b := range s.bindings {
		MarkValue(m, b.Value)
	}
	MarkValue(m, s.This)
}

// Define inserts (or overwrites) a binding in this scope.
func (s *Scope) Define(name string, value Value, kind BindingKind) {
	if _, ok := s.bindings[name]; !ok {
		s.names = append(s.names, name)
	}
	s.bindings[name] = &Binding{Value: value, Kind: kind}
}

// Get returns the binding for name in this scope only.
func (s *Scope) Get(name string) (*Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Names returns the bound names in insertion order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Environment is the lexical scope chain: a stack of scopes with the
// global scope at the bottom. It is a GC root provider.
type Environment struct {
	scopes []*Scope
	alloc  func(gc.Object)
}

// NewEnvironment returns an environment holding only the global scope.
// allocHook, when non-nil, registers each new scope with the heap.
func NewEnvironment(allocHook func(gc.Object)) *Environment {
	env := &Environment{alloc: allocHook}
	env.scopes = []*Scope{env.newScope()}
	return env
}

func (e *Environment) newScope() *Scope {
	s := NewScope()
	if e.alloc != nil {
		e.alloc(s)
	}
	return s
}

// TraceRoots implements gc.RootProvider.
func (e *Environment) TraceRoots(m *gc.Marker) {
	for _, s := range e.scopes {
		m.Mark(s)
	}
}

// GlobalScope returns the outermost frame.
func (e *Environment) GlobalScope() *Scope { return e.scopes[0] }

// CurrentScope returns the innermost frame.
func (e *Environment) CurrentScope() *Scope { return e.scopes[len(e.scopes)-1] }

// PushScope enters a new lexical block.
func (e *Environment) PushScope() {
	e.scopes = append(e.scopes, e.newScope())
}

// PushScopeWithThis enters a new block carrying a `this` binding.
func (e *Environment) PushScopeWithThis(this Value) {
	s := e.newScope()
	s.This = this
	s.HasThis = true
	e.scopes = append(e.scopes, s)
}

// PopScope leaves the innermost block. The global scope is preserved.
func (e *Environment) PopScope() {
	if len(e.scopes) > 1 {
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

// Define inserts a binding into the innermost scope.
func (e *Environment) Define(name string, value Value, kind BindingKind) {
	e.CurrentScope().Define(name, value, kind)
}

// DefineGlobal inserts a binding into the global scope.
func (e *Environment) DefineGlobal(name string, value Value, kind BindingKind) {
	e.GlobalScope().Define(name, value, kind)
}

// Get walks the chain outward and returns the first binding for name.
func (e *Environment) Get(name string) (Value, error) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if b, ok := e.scopes[i].Get(name); ok {
			return b.Value, nil
		}
	}
	return nil, NewUndefinedVariableError(name)
}

// Has reports whether name is bound anywhere on the chain.
func (e *Environment) Has(name string) bool {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i].Get(name); ok {
			return true
		}
	}
	return false
}

// Set rebinds the first occurrence of name walking outward. Const
// bindings reject; unbound names fail with a ReferenceError.
func (e *Environment) Set(name string, value Value) error {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if b, ok := e.scopes[i].Get(name); ok {
			if b.Kind == BindConst {
				return NewConstReassignmentError(name)
			}
			b.Value = value
			return nil
		}
	}
	return NewUndefinedVariableError(name)
}

// This walks outward to the nearest scope carrying a `this` binding.
// Top-level `this` is the global this (bound on the global scope).
func (e *Environment) This() Value {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if e.scopes[i].HasThis {
			return e.scopes[i].This
		}
	}
	return Undefined
}

// Capture returns a structural snapshot of the scope chain for use as a
// closure environment. The snapshot shares the scope cells, so later
// mutations through either side stay visible.
func (e *Environment) Capture() []*Scope {
	snapshot := make([]*Scope, len(e.scopes))
	copy(snapshot, e.scopes)
	return snapshot
}

// ReplaceScopes installs a snapshot as the active chain and returns the
// previous chain so the caller can restore it after the call.
func (e *Environment) ReplaceScopes(snapshot []*Scope) []*Scope {
	prev := e.scopes
	e.scopes = snapshot
	return prev
}

// Depth returns the number of active scopes.
func (e *Environment) Depth() int { return len(e.scopes) }
