package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/go-jsvm/internal/parser"
)

func writeModule(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}
	return path
}

func runModuleScript(t *testing.T, dir, source string) ([]string, error) {
	t.Helper()
	var buf bytes.Buffer
	i := New(WithOutput(&buf), WithRealtimeTimers(false))
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	err = i.RunWithPath(program, filepath.Join(dir, "main.js"))
	return i.Output(), err
}

func TestNamedAndDefaultImports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "lib.js", `
		export const answer = 42;
		export function double(n) { return n * 2; }
		export default "the default";
		const hidden = 1;
		export {hidden as exposed};
	`)

	out, err := runModuleScript(t, dir, `
		import def, {answer, double, exposed} from "./lib";
		console.log(def);
		console.log(answer);
		console.log(double(21));
		console.log(exposed);
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := []string{"the default", "42", "42", "1"}
	for idx, w := range want {
		if out[idx] != w {
			t.Errorf("out[%d] = %q, want %q", idx, out[idx], w)
		}
	}
}

func TestNamespaceImport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "util.js", `export const a = 1; export const b = 2;`)

	out, err := runModuleScript(t, dir, `
		import * as util from "./util";
		console.log(util.a + util.b);
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out[0] != "3" {
		t.Errorf("out = %v", out)
	}
}

func TestModuleCacheSharesExports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "state.js", `
		export const registry = [];
		console.log("state evaluated");
	`)
	writeModule(t, dir, "writer.js", `
		import {registry} from "./state";
		registry.push("from writer");
		export const done = true;
	`)

	out, err := runModuleScript(t, dir, `
		import {registry} from "./state";
		import {done} from "./writer";
		console.log(registry.length);
		console.log(registry[0]);
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// One evaluation only, and both importers share the exports object.
	evalCount := 0
	for _, line := range out {
		if line == "state evaluated" {
			evalCount++
		}
	}
	if evalCount != 1 {
		t.Errorf("module evaluated %d times, want 1", evalCount)
	}
	if out[len(out)-2] != "1" || out[len(out)-1] != "from writer" {
		t.Errorf("shared exports broken: %v", out)
	}
}

func TestCircularImportFails(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.js", `
		import {b} from "./b";
		export const a = "A";
	`)
	writeModule(t, dir, "b.js", `
		import {a} from "./a";
		export const b = "B";
	`)

	_, err := runModuleScript(t, dir, `import {a} from "./a";`)
	if err == nil {
		t.Fatal("circular import must fail")
	}
	if !strings.Contains(err.Error(), "circular import") {
		t.Errorf("error = %v, want circular import message", err)
	}
}

func TestMissingExtensionDefaultsToJS(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "plain.js", `export const ok = true;`)

	out, err := runModuleScript(t, dir, `
		import {ok} from "./plain";
		console.log(ok);
	`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out[0] != "true" {
		t.Errorf("out = %v", out)
	}
}

func TestMissingModuleSurfacesError(t *testing.T) {
	dir := t.TempDir()
	_, err := runModuleScript(t, dir, `import {x} from "./ghost";`)
	if err == nil {
		t.Fatal("missing module must fail")
	}
	if !strings.Contains(err.Error(), "failed to read module") {
		t.Errorf("error = %v", err)
	}
}
