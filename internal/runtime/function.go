package runtime

import (
	"fmt"

	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/gc"
)

// Function is a closure: a function body plus a structural snapshot of
// the scope chain taken at creation. Scopes mutated through the closure
// after creation stay visible, consistent with lexical scoping.
type Function struct {
	gc.Header
	Name        string
	Params      []*ast.Param
	Body        *ast.BlockStatement
	Closure     []*Scope
	IsAsync     bool
	IsGenerator bool
	IsArrow     bool
	// BoundThis is set for arrow functions (captured at creation) and for
	// functions produced by bind-style operations.
	BoundThis Value
	HasThis   bool
	// Properties backs function-as-object uses, notably `prototype` for
	// function-style constructors.
	Properties *Object
	SourcePath string
	SourcePos  int
}

func (f *Function) Type() string { return TypeFunction }

func (f *Function) String() string {
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("[Function: %s]", name)
}

// Trace implements gc.Object.
func (f *Function) Trace(m *gc.Marker) {
	for _, scope := range f.Closure {
		m.Mark(scope)
	}
	MarkValue(m, f.BoundThis)
	m.Mark(f.Properties)
}

// Prototype returns the function's `prototype` object, creating it on
// first use the way function-constructors expect.
func (f *Function) Prototype() *Object {
	if f.Properties == nil {
		f.Properties = NewObject()
	}
	if p, ok := f.Properties.GetOwn("prototype"); ok {
		if obj, ok := p.Value.(*Object); ok {
			return obj
		}
	}
	proto := NewObject()
	f.Properties.Set("prototype", proto)
	return proto
}

// FunctionArgs is the call bundle a native handler receives.
type FunctionArgs struct {
	This Value
	Args []Value
}

// Arg returns the positional argument at i, or undefined.
func (fa FunctionArgs) Arg(i int) Value {
	if i < 0 || i >= len(fa.Args) {
		return Undefined
	}
	return fa.Args[i]
}

// ArgCount returns the number of positional arguments.
func (fa FunctionArgs) ArgCount() int { return len(fa.Args) }

// NativeHandler is the signature of a Go-implemented function exposed to
// scripts. Returning a *Error rejects/throws into JS.
type NativeHandler func(args FunctionArgs) (Value, error)

// NativeFunction wraps a Go handler as a callable value. Identity is the
// wrapper pointer.
type NativeFunction struct {
	gc.Header
	Name string
	Fn   NativeHandler
	// Captured holds values the handler closes over that must stay
	// GC-reachable (generator state, promise cells, revocable proxies).
	Captured []Value
}

// NewNativeFunction wraps fn under the given name.
func NewNativeFunction(name string, fn NativeHandler) *NativeFunction {
	return &NativeFunction{Name: name, Fn: fn}
}

func (n *NativeFunction) Type() string { return TypeFunction }

func (n *NativeFunction) String() string {
	return fmt.Sprintf("[Function: %s]", n.Name)
}

// Trace implements gc.Object.
func (n *NativeFunction) Trace(m *gc.Marker) {
	for _, v := range n.Captured {
		MarkValue(m, v)
	}
}
