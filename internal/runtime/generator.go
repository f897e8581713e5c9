package runtime

import (
	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/gc"
)

// Generator is a generator object produced by calling a generator
// function. The engine drives it with a pre-resolved yield sequence: the
// body runs once on first resumption, collecting every yielded value and
// the final return value; next() then replays the sequence. The yielded
// values and the captured scope stay rooted through Trace until the
// generator is exhausted.
type Generator struct {
	gc.Header
	Name        string
	Params      []*ast.Param
	Body        *ast.BlockStatement
	Captured    []*Scope
	Args        []Value
	ThisBinding Value

	Started     bool
	Done        bool
	Yielded     []Value
	Index       int
	ReturnValue Value
}

// NewGenerator builds the suspended generator for fn applied to args.
func NewGenerator(fn *Function, args []Value, this Value) *Generator {
	return &Generator{
		Name:        fn.Name,
		Params:      fn.Params,
		Body:        fn.Body,
		Captured:    fn.Closure,
		Args:        args,
		ThisBinding: this,
		ReturnValue: Undefined,
	}
}

func (g *Generator) Type() string   { return TypeGenerator }
func (g *Generator) String() string { return "[object Generator]" }

// Trace implements gc.Object.
func (g *Generator) Trace(m *gc.Marker) {
	for _, scope := range g.Captured {
		m.Mark(scope)
	}
	for _, v := range g.Args {
		MarkValue(m, v)
	}
	for _, v := range g.Yielded {
		MarkValue(m, v)
	}
	MarkValue(m, g.ThisBinding)
	MarkValue(m, g.ReturnValue)
}

// Next advances the replay cursor. The caller must have populated the
// yield sequence (Started) first. The returned done flag follows the
// iterator protocol: the final ReturnValue is returned, not yielded.
func (g *Generator) Next() (value Value, done bool) {
	if g.Done || g.Index >= len(g.Yielded) {
		g.Done = true
		return g.ReturnValue, true
	}
	v := g.Yielded[g.Index]
	g.Index++
	if g.Index > len(g.Yielded) {
		g.Done = true
	}
	return v, false
}

// Return finishes the generator early with value.
func (g *Generator) Return(value Value) (Value, bool) {
	g.Done = true
	g.ReturnValue = value
	return value, true
}
