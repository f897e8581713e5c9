package interp

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestScriptFixtures runs representative end-to-end scripts and snapshots
// their console output with go-snaps. The fixtures pin down cross-cutting
// behavior (event-loop ordering, class dispatch, iteration, JSON) that
// the focused tests cover piecewise.
func TestScriptFixtures(t *testing.T) {
	fixtures := []struct {
		name   string
		source string
	}{
		{
			name: "microtask_ordering",
			source: `
				setTimeout(() => console.log("t"), 0);
				queueMicrotask(() => console.log("m"));
			`,
		},
		{
			name: "promise_chain",
			source: `
				Promise.resolve(1).then(v => v + 1).then(v => v * 2).then(v => console.log(v));
			`,
		},
		{
			name: "class_inheritance",
			source: `
				class A { constructor(n) { this.n = n; } speak() { return this.n + " a"; } }
				class B extends A { constructor(n) { super(n); } speak() { return this.n + " b"; } }
				const b = new B("x");
				console.log(b.speak());
				console.log(b instanceof A);
			`,
		},
		{
			name: "iterator_spread",
			source: `
				function* nums() { yield 1; yield 2; yield 3; }
				console.log([...nums()].join(","));
			`,
		},
		{
			name: "json_roundtrip",
			source: `
				console.log(JSON.stringify(JSON.parse('{"a":1}')));
			`,
		},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			out := runScript(t, fx.source)
			snaps.MatchSnapshot(t, strings.Join(out, "|"))
		})
	}
}
