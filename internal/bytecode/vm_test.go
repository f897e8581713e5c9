package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/go-jsvm/internal/parser"
)

func runVM(t *testing.T, source string) []string {
	t.Helper()
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	chunk := Compile(program)
	if chunk.RequiresTreeWalk {
		t.Fatalf("program unexpectedly outside the VM subset")
	}
	var buf bytes.Buffer
	vm := NewVM()
	vm.SetOutput(&buf)
	if err := vm.Run(chunk); err != nil {
		t.Fatalf("vm failed: %v", err)
	}
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestVMArithmetic(t *testing.T) {
	out := runVM(t, `
		print(1 + 2 * 3);
		print(10 / 4);
		print(7 % 4);
		print(-5);
		print(!true);
	`)
	want := []string{"7", "2.5", "3", "-5", "false"}
	for idx, w := range want {
		if out[idx] != w {
			t.Errorf("out[%d] = %q, want %q", idx, out[idx], w)
		}
	}
}

func TestVMStringConcatDispatch(t *testing.T) {
	out := runVM(t, `
		print("a" + "b");
		print("n=" + 5);
		print(1 + 2 + "!");
	`)
	want := []string{"ab", "n=5", "3!"}
	for idx, w := range want {
		if out[idx] != w {
			t.Errorf("out[%d] = %q, want %q", idx, out[idx], w)
		}
	}
}

func TestVMGlobalsAndLocals(t *testing.T) {
	out := runVM(t, `
		var g = 10;
		{
			let l = g + 5;
			print(l);
		}
		g = g * 2;
		print(g);
	`)
	if out[0] != "15" || out[1] != "20" {
		t.Errorf("out = %v", out)
	}
}

func TestVMControlFlow(t *testing.T) {
	out := runVM(t, `
		var i = 0;
		while (i < 3) {
			print(i);
			i = i + 1;
		}
		if (i === 3) { print("done"); } else { print("broken"); }
		for (var j = 0; j < 2; j = j + 1) { print("j" + j); }
	`)
	want := []string{"0", "1", "2", "done", "j0", "j1"}
	for idx, w := range want {
		if out[idx] != w {
			t.Errorf("out[%d] = %q, want %q", idx, out[idx], w)
		}
	}
}

func TestVMFunctionCalls(t *testing.T) {
	out := runVM(t, `
		function add(a, b) {
			return a + b;
		}
		function twice(n) {
			return add(n, n);
		}
		print(add(1, 2));
		print(twice(21));
	`)
	if out[0] != "3" || out[1] != "42" {
		t.Errorf("out = %v", out)
	}
}

func TestVMRecursion(t *testing.T) {
	out := runVM(t, `
		function fib(n) {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		print(fib(10));
	`)
	if out[0] != "55" {
		t.Errorf("fib(10) = %q, want 55", out[0])
	}
}

func TestVMArityMismatchFails(t *testing.T) {
	program, err := parser.Parse(`
		function f(a) { return a; }
		print(f(1, 2));
	`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	chunk := Compile(program)
	vm := NewVM()
	vm.SetOutput(&bytes.Buffer{})
	if err := vm.Run(chunk); err == nil {
		t.Fatal("arity mismatch must fail")
	}
}

func TestVMTypeof(t *testing.T) {
	out := runVM(t, `
		print(typeof 1);
		print(typeof "s");
		print(typeof true);
		print(typeof undefined);
	`)
	want := []string{"number", "string", "boolean", "undefined"}
	for idx, w := range want {
		if out[idx] != w {
			t.Errorf("out[%d] = %q, want %q", idx, out[idx], w)
		}
	}
}

func TestVMPropertyICDegradesToStringLength(t *testing.T) {
	out := runVM(t, `
		var s = "hello";
		print(s.length);
	`)
	if out[0] != "5" {
		t.Errorf("length = %q", out[0])
	}
}

func TestCompilerFallbackFlagsOutOfSubsetConstructs(t *testing.T) {
	sources := []string{
		`class C {}`,
		`try { f(); } catch (e) {}`,
		`for (const x of [1]) {}`,
		`for (const k in {}) {}`,
		`switch (x) { case 1: break; }`,
		`const [a] = [1];`,
		`async function f() {}`,
		`const o = {a: 1};`,
		`throw 1;`,
	}
	for _, src := range sources {
		program, err := parser.Parse(src)
		if err != nil {
			t.Fatalf("parse %q failed: %v", src, err)
		}
		chunk := Compile(program)
		if !chunk.RequiresTreeWalk {
			t.Errorf("%q must require tree-walk fallback", src)
		}
	}
}

func TestVMRejectsFallbackChunks(t *testing.T) {
	program, err := parser.Parse(`class C {}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	chunk := Compile(program)
	vm := NewVM()
	if err := vm.Run(chunk); err == nil {
		t.Fatal("fallback chunks must be rejected by the VM")
	}
}

func TestVMConsoleLogMapsToPrint(t *testing.T) {
	out := runVM(t, `console.log("via console");`)
	if out[0] != "via console" {
		t.Errorf("out = %v", out)
	}
}

func TestVMReturnShrinksFrameStack(t *testing.T) {
	// The call's value lands on the caller's stack; the frame and its
	// locals are gone afterwards.
	out := runVM(t, `
		function inner() {
			var a = 1;
			var b = 2;
			return a + b;
		}
		var r = inner();
		print(r);
		print(inner() + 10);
	`)
	if out[0] != "3" || out[1] != "13" {
		t.Errorf("out = %v", out)
	}
}
