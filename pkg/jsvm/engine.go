// Package jsvm is the embedding API: an isolated JavaScript execution
// context with script evaluation, module loading, host function and class
// registration, and event-loop hooks for embedders that drive their own
// outer loop.
package jsvm

import (
	"fmt"
	"io"

	"github.com/cwbudde/go-jsvm/internal/bytecode"
	"github.com/cwbudde/go-jsvm/internal/interp"
	"github.com/cwbudde/go-jsvm/internal/parser"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// Engine is one isolated execution context: its own heap, environment,
// event loop, and globals.
type Engine struct {
	interp  *interp.Interpreter
	options *options
	classes map[string]ClassDef
}

// Result describes a completed evaluation.
type Result struct {
	Success bool
	Value   Value
}

// New creates an engine with initialized globals.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	interpOpts := []interp.Option{
		interp.WithRealtimeTimers(o.realtimeTimers),
	}
	if o.output != nil {
		interpOpts = append(interpOpts, interp.WithOutput(o.output))
	}
	if o.stepLimit > 0 {
		interpOpts = append(interpOpts, interp.WithStepLimit(o.stepLimit))
	}

	return &Engine{
		interp:  interp.New(interpOpts...),
		options: o,
		classes: make(map[string]ClassDef),
	}, nil
}

// SetOutput routes console output to w.
func (e *Engine) SetOutput(w io.Writer) {
	interp.WithOutput(w)(e.interp)
}

// Eval runs source as a script in the context's global scope and drains
// the event loop to quiescence.
func (e *Engine) Eval(source string) (*Result, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return &Result{}, err
	}

	if e.options.useVM {
		chunk := bytecode.Compile(program)
		if !chunk.RequiresTreeWalk {
			if e.options.optimize {
				bytecode.Optimize(chunk)
			}
			vm := bytecode.NewVM()
			if e.options.output != nil {
				vm.SetOutput(e.options.output)
			}
			if err := vm.Run(chunk); err != nil {
				return &Result{}, err
			}
			return &Result{Success: true}, nil
		}
		// Fall back to the tree walker for out-of-subset programs.
	}

	if err := e.interp.Run(program); err != nil {
		return &Result{}, err
	}
	return &Result{Success: true}, nil
}

// EvalExpr evaluates source and returns the value of its final
// expression without draining the event loop (the REPL path).
func (e *Engine) EvalExpr(source string) (Value, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return Value{}, err
	}
	v, err := e.interp.EvalProgram(program)
	if err != nil {
		return Value{}, err
	}
	return wrap(v), nil
}

// EvalModule loads and evaluates path as a module; repeated loads of the
// same canonical path are memoized.
func (e *Engine) EvalModule(path string) (*Result, error) {
	if _, err := e.interp.EvalModulePath(path); err != nil {
		return &Result{}, err
	}
	if err := e.interp.RunEventLoopUntilIdle(); err != nil {
		return &Result{}, err
	}
	return &Result{Success: true}, nil
}

// GetGlobal returns the named global binding.
func (e *Engine) GetGlobal(name string) (Value, error) {
	v, err := e.interp.Env().Get(name)
	if err != nil {
		return Value{}, err
	}
	return wrap(v), nil
}

// SetGlobal rebinds or defines a global.
func (e *Engine) SetGlobal(name string, value any) error {
	v, err := toRuntime(e.interp, value)
	if err != nil {
		return err
	}
	if setErr := e.interp.Env().Set(name, v); setErr != nil {
		e.interp.Env().DefineGlobal(name, v, runtime.BindVar)
	}
	return nil
}

// FunctionArgs carries `this` and the positional arguments into a host
// function.
type FunctionArgs struct {
	engine *Engine
	inner  runtime.FunctionArgs
}

// This returns the call's this value.
func (fa FunctionArgs) This() Value { return wrap(fa.inner.This) }

// Arg returns the positional argument at i (undefined out of range).
func (fa FunctionArgs) Arg(i int) Value { return wrap(fa.inner.Arg(i)) }

// ArgCount returns the number of positional arguments.
func (fa FunctionArgs) ArgCount() int { return fa.inner.ArgCount() }

// HostFunc is the signature of a Go function exposed to scripts.
type HostFunc func(args FunctionArgs) (any, error)

// SetGlobalFunction registers a native function under the given global
// name. Errors returned by the handler surface as thrown values.
func (e *Engine) SetGlobalFunction(name string, fn HostFunc) {
	native := runtime.NewNativeFunction(name, func(args runtime.FunctionArgs) (runtime.Value, error) {
		result, err := fn(FunctionArgs{engine: e, inner: args})
		if err != nil {
			return nil, runtime.AsError(err)
		}
		return toRuntime(e.interp, result)
	})
	e.interp.Heap().Alloc(native)
	e.interp.Env().DefineGlobal(name, native, runtime.BindVar)
}

// RunMicrotasks drains the microtask queue only.
func (e *Engine) RunMicrotasks() error { return e.interp.RunMicrotasks() }

// RunPendingTimers fires every scheduled timer in due order.
func (e *Engine) RunPendingTimers() error { return e.interp.RunPendingTimers() }

// RunAnimationCallbacks drains the animation-frame queue with the given
// timestamp argument.
func (e *Engine) RunAnimationCallbacks(timestampMS float64) error {
	return e.interp.RunAnimationCallbacks(timestampMS)
}

// Output returns the lines emitted through console.log so far.
func (e *Engine) Output() []string { return e.interp.Output() }

// CollectGarbage forces a heap collection and returns a summary line.
func (e *Engine) CollectGarbage() string {
	stats := e.interp.CollectGarbage()
	return fmt.Sprintf("collected %d of %d objects", stats.Collected, stats.Before)
}
