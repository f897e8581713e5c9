// Package interp implements the tree-walking interpreter: statement and
// expression evaluation, the function call protocol, classes, proxies,
// generators, the iteration protocol, builtins, the module runtime, and
// the event-loop driver.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/eventloop"
	"github.com/cwbudde/go-jsvm/internal/gc"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// ClassInfo is one entry of the class registry: the constructor closure,
// the prototype object holding methods and accessors, and the optional
// parent class name.
type ClassInfo struct {
	Name    string
	Parent  string
	Ctor    *runtime.Function
	Proto   *runtime.Object
	Statics *runtime.Object
	Value   *runtime.Function // the binding scripts see
}

// Interpreter executes JavaScript AST nodes against a managed heap and an
// event loop. One Interpreter is one isolated execution context.
type Interpreter struct {
	heap    *gc.Heap
	env     *runtime.Environment
	loop    *eventloop.Loop
	symbols *runtime.SymbolRegistry

	classes map[string]*ClassInfo

	// nativeStatics holds embedder-registered static members, keyed by
	// native constructor name then member name.
	nativeStatics map[string]map[string]runtime.Value

	moduleCache    map[string]map[string]runtime.Value
	moduleInFlight map[string]bool
	moduleStack    []string

	output      io.Writer
	outputLines []string

	callStack  []runtime.StackFrame
	asyncDepth int

	stepCount int
	stepLimit int

	// yieldSinks collects values produced by yield expressions while a
	// generator body runs; one sink per active generator frame.
	yieldSinks []*[]runtime.Value

	// scratch pins in-flight values (return values, operands) so a
	// collection triggered mid-expression cannot sweep them.
	scratch []runtime.Value

	currentNode ast.Node
	sourcePath  string

	unhandledRejections []*runtime.Promise
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput routes console output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.output = w }
}

// WithRealtimeTimers makes timer waits sleep on the wall clock. The
// default is virtual time, where the clock snaps to each due time.
func WithRealtimeTimers(realtime bool) Option {
	return func(i *Interpreter) { i.loop = eventloop.New(realtime) }
}

// WithStepLimit terminates the run with an error once the interpreter has
// entered more than limit statements. Zero disables the guard.
func WithStepLimit(limit int) Option {
	return func(i *Interpreter) { i.stepLimit = limit }
}

// New creates an interpreter with a fresh heap, global environment, and
// event loop, and installs the runtime globals.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		heap:           gc.NewHeap(),
		symbols:        runtime.NewSymbolRegistry(),
		classes:        make(map[string]*ClassInfo),
		nativeStatics:  make(map[string]map[string]runtime.Value),
		moduleCache:    make(map[string]map[string]runtime.Value),
		moduleInFlight: make(map[string]bool),
		output:         os.Stdout,
	}
	i.env = runtime.NewEnvironment(func(obj gc.Object) { i.heap.Alloc(obj) })
	for _, opt := range opts {
		opt(i)
	}
	if i.loop == nil {
		i.loop = eventloop.New(false)
	}

	i.heap.AddRoot(i.env)
	i.heap.AddRoot(i.loop)
	i.heap.AddRoot(i)

	i.installGlobals()
	return i
}

// TraceRoots implements gc.RootProvider for the interpreter's own state:
// in-flight values, the class registry, and cached module exports.
func (i *Interpreter) TraceRoots(m *gc.Marker) {
	for _, v := range i.scratch {
		runtime.MarkValue(m, v)
	}
	for _, sink := range i.yieldSinks {
		for _, v := range *sink {
			runtime.MarkValue(m, v)
		}
	}
	for _, ci := range i.classes {
		m.Mark(ci.Ctor)
		m.Mark(ci.Proto)
		m.Mark(ci.Statics)
		m.Mark(ci.Value)
	}
	for _, exports := range i.moduleCache {
		for _, v := range exports {
			runtime.MarkValue(m, v)
		}
	}
	for _, statics := range i.nativeStatics {
		for _, v := range statics {
			runtime.MarkValue(m, v)
		}
	}
	for _, p := range i.unhandledRejections {
		m.Mark(p)
	}
}

// RegisterNativeStatic attaches a static member to a native constructor
// registered under ctorName (the embedder class-builder path).
func (i *Interpreter) RegisterNativeStatic(ctorName, member string, value runtime.Value) {
	if i.nativeStatics[ctorName] == nil {
		i.nativeStatics[ctorName] = make(map[string]runtime.Value)
	}
	i.nativeStatics[ctorName][member] = value
}

// alloc registers a heap value and returns it. Collection is deferred to
// statement boundaries so traced roots stay stable mid-expression.
func (i *Interpreter) alloc(obj gc.Object) gc.Object {
	return i.heap.Alloc(obj)
}

func (i *Interpreter) newObject() *runtime.Object {
	obj := runtime.NewObject()
	i.alloc(obj)
	return obj
}

func (i *Interpreter) newArray(elements ...runtime.Value) *runtime.Array {
	arr := runtime.NewArray(elements...)
	i.alloc(arr)
	return arr
}

func (i *Interpreter) newPromise() *runtime.Promise {
	p := runtime.NewPromise()
	i.alloc(p)
	return p
}

func (i *Interpreter) newNative(name string, fn runtime.NativeHandler) *runtime.NativeFunction {
	nf := runtime.NewNativeFunction(name, fn)
	i.alloc(nf)
	return nf
}

// pin keeps v alive across a potential collection; unpin releases it.
func (i *Interpreter) pin(v runtime.Value) {
	i.scratch = append(i.scratch, v)
}

func (i *Interpreter) unpin() {
	i.scratch = i.scratch[:len(i.scratch)-1]
}

// maybeCollect runs a GC cycle at a safe point when the allocation
// counter has crossed the threshold.
func (i *Interpreter) maybeCollect() {
	if i.heap.ShouldCollect() {
		i.heap.Collect()
	}
}

// CollectGarbage forces a full collection and returns its stats.
func (i *Interpreter) CollectGarbage() gc.CollectStats {
	return i.heap.Collect()
}

// Heap exposes the managed heap (tests and the embedder use it).
func (i *Interpreter) Heap() *gc.Heap { return i.heap }

// Env exposes the environment.
func (i *Interpreter) Env() *runtime.Environment { return i.env }

// Loop exposes the event loop.
func (i *Interpreter) Loop() *eventloop.Loop { return i.loop }

// Symbols exposes the context's symbol registry.
func (i *Interpreter) Symbols() *runtime.SymbolRegistry { return i.symbols }

// Output returns the lines printed through console so far.
func (i *Interpreter) Output() []string {
	lines := make([]string, len(i.outputLines))
	copy(lines, i.outputLines)
	return lines
}

func (i *Interpreter) printLine(s string) {
	i.outputLines = append(i.outputLines, s)
	fmt.Fprintln(i.output, s)
}

// Run executes a program as a script in the global scope, then drains the
// event loop to quiescence.
func (i *Interpreter) Run(program *ast.Program) error {
	return i.RunWithPath(program, "")
}

// RunWithPath runs a program whose statements resolve relative imports
// against path.
func (i *Interpreter) RunWithPath(program *ast.Program, path string) error {
	if path != "" {
		i.sourcePath = path
		i.moduleStack = append(i.moduleStack, path)
		defer func() { i.moduleStack = i.moduleStack[:len(i.moduleStack)-1] }()
	}
	for _, stmt := range program.Statements {
		if _, err := i.evalStatement(stmt); err != nil {
			return i.attachStack(err)
		}
	}
	if err := i.RunEventLoopUntilIdle(); err != nil {
		return i.attachStack(err)
	}
	i.reportUnhandledRejections()
	return nil
}

// EvalProgram evaluates a program and returns the value of its final
// expression statement, without draining the event loop (the REPL path).
func (i *Interpreter) EvalProgram(program *ast.Program) (runtime.Value, error) {
	var last runtime.Value = runtime.Undefined
	for _, stmt := range program.Statements {
		if exprStmt, ok := stmt.(*ast.ExpressionStatement); ok {
			v, err := i.evalExpression(exprStmt.Expression)
			if err != nil {
				return nil, i.attachStack(err)
			}
			last = v
			continue
		}
		if _, err := i.evalStatement(stmt); err != nil {
			return nil, i.attachStack(err)
		}
	}
	return last, nil
}

// countStep enforces the embedder-imposed step ceiling.
func (i *Interpreter) countStep() error {
	i.stepCount++
	if i.stepLimit > 0 && i.stepCount > i.stepLimit {
		return runtime.NewStepLimitError(i.stepLimit)
	}
	return nil
}

func (i *Interpreter) pushFrame(name string) {
	frame := runtime.StackFrame{Function: name, File: i.sourcePath}
	if i.currentNode != nil {
		pos := i.currentNode.Pos()
		frame.Line = pos.Line
		frame.Column = pos.Column
	}
	i.callStack = append(i.callStack, frame)
}

func (i *Interpreter) popFrame() {
	if len(i.callStack) > 0 {
		i.callStack = i.callStack[:len(i.callStack)-1]
	}
}

// attachStack copies the live call stack onto an error that does not
// carry one yet.
func (i *Interpreter) attachStack(err error) error {
	rerr := runtime.AsError(err)
	if len(rerr.Stack) == 0 && len(i.callStack) > 0 {
		rerr.Stack = append(rerr.Stack, i.callStack...)
	}
	return rerr
}

func (i *Interpreter) reportUnhandledRejections() {
	for _, p := range i.unhandledRejections {
		if p.State == runtime.PromiseRejected && !p.Handled {
			fmt.Fprintf(os.Stderr, "Unhandled promise rejection: %s\n", runtime.Inspect(p.Value))
		}
	}
	i.unhandledRejections = nil
}
