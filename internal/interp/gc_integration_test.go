package interp

import (
	"bytes"
	"testing"

	"github.com/cwbudde/go-jsvm/internal/parser"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

func TestCollectKeepsReachableScriptValues(t *testing.T) {
	i, _ := newTestInterp(t, `
		const keep = {tag: "alive"};
		const arr = [keep, {nested: [1, 2, 3]}];
	`)
	i.CollectGarbage()

	v, err := i.Env().Get("keep")
	if err != nil {
		t.Fatalf("global lost after GC: %v", err)
	}
	obj := v.(*runtime.Object)
	prop, ok := obj.GetOwn("tag")
	if !ok || prop.Value.(*runtime.StringValue).Value != "alive" {
		t.Error("reachable object corrupted by GC")
	}
}

func TestCollectReclaimsUnreachableScriptValues(t *testing.T) {
	var buf bytes.Buffer
	i := New(WithOutput(&buf), WithRealtimeTimers(false))
	program, err := parser.Parse(`
		function scratch() {
			let tmp = [];
			for (let n = 0; n < 100; n++) tmp.push({n: n});
			return tmp.length;
		}
		scratch();
	`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := i.Run(program); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	stats := i.CollectGarbage()
	if stats.Collected == 0 {
		t.Error("temporaries from the finished call should be reclaimed")
	}

	// A second collection finds nothing new.
	again := i.CollectGarbage()
	if again.Collected != 0 {
		t.Errorf("second collection reclaimed %d, want 0", again.Collected)
	}
}

func TestWeakMapKeepsEntryWithLiveKeyAcrossCollection(t *testing.T) {
	i, _ := newTestInterp(t, `
		const wm = new WeakMap();
		const kept = {};
		wm.set(kept, "kept payload");
		{
			let dropped = {};
			wm.set(dropped, "dropped payload");
			dropped = null;
		}
	`)

	v, err := i.Env().Get("wm")
	if err != nil {
		t.Fatalf("weak map global missing: %v", err)
	}
	wm := v.(*runtime.WeakMapValue)

	i.CollectGarbage()

	keptV, _ := i.Env().Get("kept")
	if _, ok := wm.Get(keptV).(*runtime.StringValue); !ok {
		t.Error("entry with a live key must survive collection")
	}

	// The live key is still present after the collection.
	count := 0
	probe := runtime.NewObject()
	_ = probe
	if wm.Has(keptV) {
		count++
	}
	if count != 1 {
		t.Error("live key lost")
	}
}

func TestClassRegistryIsARoot(t *testing.T) {
	i, _ := newTestInterp(t, `
		class Keeper { tag() { return "still here"; } }
	`)
	i.CollectGarbage()

	out := runInSameInterp(t, i, `console.log(new Keeper().tag());`)
	if len(out) == 0 || out[len(out)-1] != "still here" {
		t.Errorf("class registry must survive GC, output = %v", out)
	}
}

func runInSameInterp(t *testing.T, i *Interpreter, src string) []string {
	t.Helper()
	program, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := i.Run(program); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return i.Output()
}
