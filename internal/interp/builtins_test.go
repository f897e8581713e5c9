package interp

import "testing"

func TestMathSurface(t *testing.T) {
	expectOutput(t, `
		console.log(Math.abs(-5));
		console.log(Math.floor(2.9), Math.ceil(2.1), Math.round(2.5), Math.trunc(-2.7));
		console.log(Math.max(1, 9, 3), Math.min(4, -2));
		console.log(Math.pow(2, 8), Math.sqrt(81));
		console.log(Math.sign(-3), Math.sign(0), Math.sign(7));
		console.log(Math.hypot(3, 4));
		console.log(Math.imul(3, 4), Math.clz32(1));
		const r = Math.random();
		console.log(r >= 0 && r < 1);
	`, []string{"5", "2 3 3 -2", "9 -2", "256 9", "-1 0 1", "5", "12 31", "true"})
}

func TestJSONStringifyAndParse(t *testing.T) {
	expectOutput(t, `
		const data = {name: "go", tags: ["a", "b"], count: 2, ok: true, none: null};
		const text = JSON.stringify(data);
		console.log(text);
		const back = JSON.parse(text);
		console.log(back.name, back.tags[1], back.count, back.ok, back.none);
	`, []string{
		`{"name":"go","tags":["a","b"],"count":2,"ok":true,"none":null}`,
		"go b 2 true null",
	})
}

func TestJSONSkipsFunctionsAndUndefined(t *testing.T) {
	expectOutput(t, `
		console.log(JSON.stringify({keep: 1, fn: () => 1, missing: undefined}));
		console.log(JSON.stringify([1, undefined, () => 1]));
	`, []string{`{"keep":1}`, `[1,null,null]`})
}

func TestJSONThrowsOnCycles(t *testing.T) {
	expectOutput(t, `
		const a = {};
		a.self = a;
		try { JSON.stringify(a); } catch (e) { console.log(e.name); }
	`, []string{"TypeError"})
}

func TestObjectStatics(t *testing.T) {
	expectOutput(t, `
		const o = {b: 2, a: 1};
		console.log(Object.keys(o).join(","));
		console.log(Object.values(o).join(","));
		console.log(Object.entries(o)[0].join("="));
		const merged = Object.assign({}, o, {c: 3});
		console.log(Object.keys(merged).join(","));
		console.log(Object.fromEntries([["x", 1], ["y", 2]]).y);
		console.log(Object.hasOwn(o, "a"), Object.hasOwn(o, "zz"));
		console.log(Object.is(NaN, NaN));
	`, []string{"b,a", "2,1", "b=2", "b,a,c", "2", "true false", "true"})
}

func TestObjectFreezeSealSemantics(t *testing.T) {
	expectOutput(t, `
		const frozen = Object.freeze({x: 1});
		frozen.x = 99;
		frozen.y = 1;
		console.log(frozen.x, frozen.y === undefined);
		console.log(Object.isFrozen(frozen));

		const sealed = Object.seal({x: 1});
		sealed.x = 2;
		sealed.y = 5;
		console.log(sealed.x, sealed.y === undefined);
		console.log(Object.isSealed(sealed));
	`, []string{"1 true", "true", "2 true", "true"})
}

func TestObjectFreezeIdempotent(t *testing.T) {
	expectOutput(t, `
		const o = Object.freeze({a: 1});
		console.log(Object.freeze(o) === o);
		console.log(Object.isFrozen(o));
	`, []string{"true", "true"})
}

func TestObjectCreateAndPrototypes(t *testing.T) {
	expectOutput(t, `
		const proto = {greet() { return "hi " + this.name; }};
		const obj = Object.create(proto);
		obj.name = "go";
		console.log(obj.greet());
		console.log(Object.getPrototypeOf(obj) === proto);
	`, []string{"hi go", "true"})
}

func TestDefinePropertyAndDescriptors(t *testing.T) {
	expectOutput(t, `
		const o = {};
		Object.defineProperty(o, "hidden", {value: 42, enumerable: false, writable: false});
		console.log(o.hidden);
		console.log(Object.keys(o).length);
		const desc = Object.getOwnPropertyDescriptor(o, "hidden");
		console.log(desc.value, desc.writable, desc.enumerable);
	`, []string{"42", "0", "42 false false"})
}

func TestReflectMirrorsObjectOps(t *testing.T) {
	expectOutput(t, `
		const o = {a: 1};
		console.log(Reflect.get(o, "a"));
		Reflect.set(o, "b", 2);
		console.log(o.b);
		console.log(Reflect.has(o, "a"));
		console.log(Reflect.ownKeys(o).join(","));
		console.log(Reflect.deleteProperty(o, "a"), o.a === undefined);
		function Pair(x, y) { this.x = x; this.y = y; }
		const made = Reflect.construct(Pair, [1, 2]);
		console.log(made.x + made.y);
		console.log(Reflect.apply(function() { return this.tag; }, {tag: "T"}, []));
	`, []string{"1", "2", "true", "a,b", "true true", "3", "T"})
}

func TestSymbolRegistryBuiltins(t *testing.T) {
	expectOutput(t, `
		const s1 = Symbol("local");
		const s2 = Symbol("local");
		console.log(s1 === s2);
		const shared = Symbol.for("app.key");
		console.log(Symbol.for("app.key") === shared);
		console.log(Symbol.keyFor(shared));
		console.log(Symbol.keyFor(s1) === undefined);
		console.log(typeof Symbol.iterator);
	`, []string{"false", "true", "app.key", "true", "symbol"})
}

func TestNumberStatics(t *testing.T) {
	expectOutput(t, `
		console.log(Number.isInteger(4), Number.isInteger(4.5));
		console.log(Number.isNaN(NaN), Number.isNaN("NaN"));
		console.log(Number.MAX_SAFE_INTEGER);
		console.log(Number("12.5"), Number(""));
		console.log((3.14159).toFixed(2));
	`, []string{"true false", "true false", "9007199254740991", "12.5 0", "3.14"})
}

func TestParseIntAndFloat(t *testing.T) {
	expectOutput(t, `
		console.log(parseInt("42px"));
		console.log(parseInt("ff", 16));
		console.log(parseInt("0x10"));
		console.log(parseFloat("3.5rem"));
		console.log(isNaN(parseInt("nope")));
		console.log(isFinite(1 / 0));
	`, []string{"42", "255", "16", "3.5", "true", "false"})
}

func TestGlobalThisExists(t *testing.T) {
	expectOutput(t, `
		console.log(typeof globalThis);
		console.log(globalThis.globalThis === globalThis);
		console.log(typeof globalThis.Math);
	`, []string{"object", "true", "object"})
}
