package interp

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/cwbudde/go-jsvm/internal/parser"
)

// runScript executes source in a fresh context with virtual-time timers
// and returns the captured console output.
func runScript(t *testing.T, source string) []string {
	t.Helper()
	var buf bytes.Buffer
	i := New(WithOutput(&buf), WithRealtimeTimers(false))
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := i.Run(program); err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	return i.Output()
}

// newTestInterp runs source and returns the interpreter for further
// driving (animation frames, GC, globals).
func newTestInterp(t *testing.T, source string) (*Interpreter, error) {
	t.Helper()
	var buf bytes.Buffer
	i := New(WithOutput(&buf), WithRealtimeTimers(false))
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	runErr := i.Run(program)
	if runErr != nil {
		t.Fatalf("execution failed: %v", runErr)
	}
	return i, nil
}

// runScriptErr executes source expecting a runtime error.
func runScriptErr(t *testing.T, source string) error {
	t.Helper()
	var buf bytes.Buffer
	i := New(WithOutput(&buf), WithRealtimeTimers(false))
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	err = i.Run(program)
	if err == nil {
		t.Fatal("expected an execution error")
	}
	return err
}

func expectOutput(t *testing.T, source string, want []string) {
	t.Helper()
	got := runScript(t, source)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("output = %v, want %v", got, want)
	}
}

func TestArithmeticAndCoercion(t *testing.T) {
	expectOutput(t, `
		console.log(1 + 2 * 3);
		console.log("a" + 1);
		console.log(1 + "2");
		console.log("5" - 2);
		console.log(7 % 4);
		console.log(2 ** 10);
		console.log(10 / 4);
	`, []string{"7", "a1", "12", "3", "3", "1024", "2.5"})
}

func TestEqualityOperators(t *testing.T) {
	expectOutput(t, `
		console.log(1 === 1);
		console.log(NaN === NaN);
		console.log(1 == "1");
		console.log(null == undefined);
		console.log(null === undefined);
		console.log("b" > "a");
	`, []string{"true", "false", "true", "true", "false", "true"})
}

func TestLogicalOperatorsReturnOperands(t *testing.T) {
	expectOutput(t, `
		console.log(0 || "fallback");
		console.log("first" && "second");
		console.log(null ?? "default");
		console.log(0 ?? "not-used");
	`, []string{"fallback", "second", "default", "0"})
}

func TestTypeofNeverThrows(t *testing.T) {
	expectOutput(t, `
		console.log(typeof undefined);
		console.log(typeof true);
		console.log(typeof 1);
		console.log(typeof "s");
		console.log(typeof console.log);
		console.log(typeof {});
		console.log(typeof null);
		console.log(typeof neverDeclared);
	`, []string{"undefined", "boolean", "number", "string", "function", "object", "object", "undefined"})
}

func TestUpdateExpressions(t *testing.T) {
	expectOutput(t, `
		let i = 5;
		console.log(i++);
		console.log(i);
		console.log(++i);
		console.log(i--);
		console.log(--i);
	`, []string{"5", "6", "7", "7", "5"})
}

func TestTemplateLiterals(t *testing.T) {
	expectOutput(t, `
		const name = "world";
		console.log(`+"`hello ${name}, ${1 + 2} times`"+`);
	`, []string{"hello world, 3 times"})
}

func TestTernaryAndCompoundAssignment(t *testing.T) {
	expectOutput(t, `
		let x = 10;
		x += 5; console.log(x);
		x -= 3; console.log(x);
		x *= 2; console.log(x);
		x /= 4; console.log(x);
		console.log(x > 5 ? "big" : "small");
	`, []string{"15", "12", "24", "6", "big"})
}

func TestConstReassignmentFails(t *testing.T) {
	err := runScriptErr(t, `const k = 1; k = 2;`)
	if !strings.Contains(err.Error(), "constant") {
		t.Errorf("error = %v, want const reassignment", err)
	}
}

func TestUndefinedVariableFails(t *testing.T) {
	err := runScriptErr(t, `console.log(missing);`)
	if !strings.Contains(err.Error(), "not defined") {
		t.Errorf("error = %v, want ReferenceError", err)
	}
}

func TestStepLimitGuard(t *testing.T) {
	var buf bytes.Buffer
	i := New(WithOutput(&buf), WithRealtimeTimers(false), WithStepLimit(100))
	program, err := parser.Parse(`while (true) {}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := i.Run(program); err == nil {
		t.Fatal("the step limit must terminate an infinite loop")
	}
}

func TestStringMethods(t *testing.T) {
	expectOutput(t, `
		const s = "Hello World";
		console.log(s.toUpperCase());
		console.log(s.indexOf("World"));
		console.log(s.slice(0, 5));
		console.log(s.split(" ").length);
		console.log("  pad  ".trim());
		console.log("ab".repeat(3));
		console.log(s.includes("World"));
		console.log(s.charAt(1));
		console.log(s.length);
	`, []string{"HELLO WORLD", "6", "Hello", "2", "pad", "ababab", "true", "e", "11"})
}

func TestArrayMethods(t *testing.T) {
	expectOutput(t, `
		const a = [3, 1, 2];
		a.push(4);
		console.log(a.length);
		console.log(a.join("-"));
		console.log(a.map(x => x * 10).join(","));
		console.log(a.filter(x => x > 1).join(","));
		console.log(a.reduce((acc, x) => acc + x, 0));
		console.log(a.indexOf(2));
		console.log(a.includes(9));
		a.sort();
		console.log(a.join(","));
		console.log(a.slice(1, 3).join(","));
	`, []string{"4", "3-1-2-4", "30,10,20,40", "3,2,4", "10", "2", "false", "1,2,3,4", "2,3"})
}

func TestObjectLiteralFeatures(t *testing.T) {
	expectOutput(t, `
		const key = "dyn";
		const base = {a: 1};
		const obj = {b: 2, [key]: 3, ...base, get doubled() { return this.b * 2; }};
		console.log(obj.a, obj.b, obj.dyn);
		console.log(obj.doubled);
		obj.b = 10;
		console.log(obj.doubled);
	`, []string{"1 2 3", "4", "20"})
}

func TestDestructuringBindings(t *testing.T) {
	expectOutput(t, `
		const [a, , b = 9, ...rest] = [1, 2, undefined, 4, 5];
		console.log(a, b, rest.join(","));
		const {x, y: alias, z = 7, ...others} = {x: 1, y: 2, w: 3};
		console.log(x, alias, z, others.w);
		function f([p, q], {r}) { return p + q + r; }
		console.log(f([1, 2], {r: 3}));
	`, []string{"1 9 4,5", "1 2 7 3", "6"})
}

func TestClosuresShareScopeCells(t *testing.T) {
	expectOutput(t, `
		function counter() {
			let n = 0;
			return { inc: () => ++n, get: () => n };
		}
		const c = counter();
		c.inc(); c.inc(); c.inc();
		console.log(c.get());
	`, []string{"3"})
}

func TestDefaultAndRestParams(t *testing.T) {
	expectOutput(t, `
		function greet(name = "anon", ...tags) {
			return name + ":" + tags.join("+");
		}
		console.log(greet());
		console.log(greet("bob", "a", "b"));
	`, []string{"anon:", "bob:a+b"})
}

func TestFunctionCallApplyBind(t *testing.T) {
	expectOutput(t, `
		function hello(suffix) { return this.name + suffix; }
		const ctx = {name: "go"};
		console.log(hello.call(ctx, "!"));
		console.log(hello.apply(ctx, ["?"]));
		const bound = hello.bind(ctx, ".");
		console.log(bound());
	`, []string{"go!", "go?", "go."})
}
