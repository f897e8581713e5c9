package jsvm

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts = append([]Option{WithRealtimeTimers(false), WithOutput(&buf)}, opts...)
	engine, err := New(opts...)
	require.NoError(t, err)
	return engine, &buf
}

func TestEvalCapturesConsoleOutput(t *testing.T) {
	engine, buf := newTestEngine(t)
	result, err := engine.Eval(`console.log("hello from script");`)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "hello from script\n", buf.String())
	assert.Equal(t, []string{"hello from script"}, engine.Output())
}

func TestEvalDrainsEventLoop(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.Eval(`
		setTimeout(() => console.log("timer"), 5);
		queueMicrotask(() => console.log("micro"));
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"micro", "timer"}, engine.Output())
}

func TestSetGlobalFunction(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.SetGlobalFunction("addNumbers", func(args FunctionArgs) (any, error) {
		return args.Arg(0).Number() + args.Arg(1).Number(), nil
	})

	_, err := engine.Eval(`console.log(addNumbers(40, 2));`)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, engine.Output())
}

func TestHostFunctionErrorBecomesThrowable(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.SetGlobalFunction("explode", func(args FunctionArgs) (any, error) {
		return nil, errors.New("host failure")
	})

	_, err := engine.Eval(`
		try { explode(); } catch (e) { console.log("caught: " + e.message); }
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"caught: host failure"}, engine.Output())
}

func TestGetAndSetGlobal(t *testing.T) {
	engine, _ := newTestEngine(t)
	require.NoError(t, engine.SetGlobal("answer", 42))

	_, err := engine.Eval(`const doubled = answer * 2;`)
	require.NoError(t, err)

	v, err := engine.GetGlobal("doubled")
	require.NoError(t, err)
	assert.Equal(t, float64(84), v.Number())

	_, err = engine.GetGlobal("missing")
	assert.Error(t, err)
}

func TestValueExport(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.Eval(`const data = {name: "go", items: [1, 2], flag: true};`)
	require.NoError(t, err)

	v, err := engine.GetGlobal("data")
	require.NoError(t, err)
	exported, ok := v.Export().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "go", exported["name"])
	assert.Equal(t, []any{float64(1), float64(2)}, exported["items"])
	assert.Equal(t, true, exported["flag"])
}

func TestRegisterClass(t *testing.T) {
	engine, _ := newTestEngine(t)
	err := engine.RegisterClass(ClassDef{
		Name: "Counter",
		Constructor: func(args FunctionArgs) (any, error) {
			return map[string]any{"count": args.Arg(0).Number()}, nil
		},
		Methods: map[string]HostFunc{
			"increment": func(args FunctionArgs) (any, error) {
				this := args.This()
				next := this.Number()
				_ = next
				return nil, nil
			},
		},
		Getters: map[string]HostFunc{
			"label": func(args FunctionArgs) (any, error) {
				return "counter", nil
			},
		},
	})
	require.NoError(t, err)

	_, err = engine.Eval(`
		const c = new Counter(5);
		console.log(c.count);
		console.log(c.label);
		console.log(typeof c.increment);
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "counter", "function"}, engine.Output())
}

func TestRegisterClassParentMerge(t *testing.T) {
	engine, _ := newTestEngine(t)
	require.NoError(t, engine.RegisterClass(ClassDef{
		Name: "Base",
		Methods: map[string]HostFunc{
			"baseMethod": func(args FunctionArgs) (any, error) { return "base", nil },
		},
	}))
	require.NoError(t, engine.RegisterClass(ClassDef{
		Name:   "Derived",
		Parent: "Base",
		Methods: map[string]HostFunc{
			"ownMethod": func(args FunctionArgs) (any, error) { return "own", nil },
		},
	}))

	_, err := engine.Eval(`
		const d = new Derived();
		console.log(d.baseMethod());
		console.log(d.ownMethod());
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "own"}, engine.Output())

	err = engine.RegisterClass(ClassDef{Name: "Orphan", Parent: "Ghost"})
	assert.Error(t, err)
}

func TestStepLimitOption(t *testing.T) {
	engine, _ := newTestEngine(t, WithStepLimit(50))
	_, err := engine.Eval(`while (true) {}`)
	assert.Error(t, err)
}

func TestVMFastPathAndFallback(t *testing.T) {
	engine, buf := newTestEngine(t, WithVM(true), WithOptimize(true))

	// Inside the subset: executes on the VM.
	_, err := engine.Eval(`print(2 + 3);`)
	require.NoError(t, err)
	assert.Equal(t, "5\n", buf.String())

	// Outside the subset: transparently falls back to the tree walker.
	buf.Reset()
	_, err = engine.Eval(`const o = {v: 7}; console.log(o.v);`)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "7")
}

func TestEvalModule(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "lib.js")
	require.NoError(t, os.WriteFile(libPath, []byte(`
		export const greeting = "from module";
		console.log("module ran");
	`), 0o644))

	engine, _ := newTestEngine(t)
	_, err := engine.EvalModule(libPath)
	require.NoError(t, err)

	// Memoized: a second load does not re-evaluate.
	_, err = engine.EvalModule(libPath)
	require.NoError(t, err)

	count := 0
	for _, line := range engine.Output() {
		if line == "module ran" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSyntaxErrorSurfaces(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.Eval(`let = ;`)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "SyntaxError") || strings.Contains(err.Error(), "expected"))
}

func TestEvalExprReturnsValue(t *testing.T) {
	engine, _ := newTestEngine(t)
	v, err := engine.EvalExpr(`1 + 2 * 3`)
	require.NoError(t, err)
	assert.Equal(t, float64(7), v.Number())
}
