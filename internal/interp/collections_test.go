package interp

import "testing"

func TestMapBasicsFromScript(t *testing.T) {
	expectOutput(t, `
		const m = new Map();
		m.set("a", 1).set("b", 2).set("a", 3);
		console.log(m.get("a"), m.size);
		console.log(m.has("b"), m.has("zz"));
		m.delete("b");
		console.log(m.size);
		const keyObj = {};
		m.set(keyObj, "by identity");
		console.log(m.get(keyObj));
		console.log(m.get({}) === undefined);
	`, []string{"3 2", "true false", "1", "by identity", "true"})
}

func TestMapNaNKeyCollapses(t *testing.T) {
	expectOutput(t, `
		const m = new Map();
		m.set(NaN, "first");
		m.set(NaN, "second");
		console.log(m.size, m.get(NaN));
	`, []string{"1 second"})
}

func TestSetDeduplicates(t *testing.T) {
	expectOutput(t, `
		const s = new Set();
		s.add(1); s.add(1); s.add(2); s.add(NaN); s.add(NaN);
		console.log(s.size);
		console.log(s.has(1), s.has(NaN), s.has(3));
	`, []string{"3", "true true false"})
}

func TestMapIterationHelpers(t *testing.T) {
	expectOutput(t, `
		const m = new Map([["x", 1], ["y", 2]]);
		const keys = [];
		m.forEach((v, k) => keys.push(k + ":" + v));
		console.log(keys.join(","));
		console.log([...m.keys()].join(","));
		console.log([...m.values()].join(","));
	`, []string{"x:1,y:2", "x,y", "1,2"})
}

func TestWeakMapFromScript(t *testing.T) {
	expectOutput(t, `
		const wm = new WeakMap();
		const key = {};
		wm.set(key, "payload");
		console.log(wm.get(key));
		console.log(wm.has(key));
		wm.delete(key);
		console.log(wm.has(key));
		try { wm.set(1, "nope"); } catch (e) { console.log(e.name); }
	`, []string{"payload", "true", "false", "TypeError"})
}

func TestWeakSetFromScript(t *testing.T) {
	expectOutput(t, `
		const ws = new WeakSet();
		const item = [];
		ws.add(item);
		console.log(ws.has(item));
		console.log(ws.has([]));
		try { ws.add("str"); } catch (e) { console.log(e.name); }
	`, []string{"true", "false", "TypeError"})
}
