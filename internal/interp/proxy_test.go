package interp

import (
	"strings"
	"testing"
)

func TestProxyGetHasDeleteTraps(t *testing.T) {
	expectOutput(t, `
		const p = new Proxy({a: 1}, {
			get(target, key) { return key === "x" ? 99 : undefined; },
			has() { return true; },
			deleteProperty() { return false; }
		});
		console.log(p.x);
		console.log("anything" in p);
		console.log(delete p.a);
	`, []string{"99", "true", "false"})
}

func TestProxyMissingTrapsForwardToTarget(t *testing.T) {
	expectOutput(t, `
		const target = {a: 1};
		const p = new Proxy(target, {});
		console.log(p.a);
		p.b = 2;
		console.log(target.b);
		console.log("a" in p);
		console.log(delete p.a);
		console.log(target.a === undefined);
	`, []string{"1", "2", "true", "true", "true"})
}

func TestProxySetTrapIntercepts(t *testing.T) {
	expectOutput(t, `
		const log = [];
		const p = new Proxy({}, {
			set(target, key, value) { log.push(key + "=" + value); return true; }
		});
		p.a = 1;
		p.b = 2;
		console.log(log.join(","));
	`, []string{"a=1,b=2"})
}

func TestProxyApplyTrap(t *testing.T) {
	expectOutput(t, `
		const fn = (a, b) => a + b;
		const p = new Proxy(fn, {
			apply(target, thisArg, args) { return target(args[0], args[1]) * 10; }
		});
		console.log(p(1, 2));
	`, []string{"30"})
}

func TestProxyConstructTrap(t *testing.T) {
	expectOutput(t, `
		class Point { constructor(x) { this.x = x; } }
		const P = new Proxy(Point, {
			construct(target, args) { return {x: args[0] * 2}; }
		});
		console.log(new P(21).x);
	`, []string{"42"})
}

func TestProxyOwnKeysTrapDrivesForIn(t *testing.T) {
	expectOutput(t, `
		const p = new Proxy({}, {
			ownKeys() { return ["one", "two"]; }
		});
		for (const k in p) console.log(k);
	`, []string{"one", "two"})
}

func TestRevokedProxyFailsEveryOperation(t *testing.T) {
	expectOutput(t, `
		const {proxy, revoke} = Proxy.revocable({a: 1}, {});
		console.log(proxy.a);
		revoke();
		try { proxy.a; } catch (e) { console.log(e.name); }
		try { proxy.b = 1; } catch (e) { console.log("set " + e.name); }
		try { delete proxy.a; } catch (e) { console.log("delete " + e.name); }
	`, []string{"1", "TypeError", "set TypeError", "delete TypeError"})
}

func TestProxyUsedWithReflect(t *testing.T) {
	expectOutput(t, `
		const p = new Proxy({n: 5}, {
			get(target, key) { return Reflect.get(target, key) * 2; }
		});
		console.log(p.n);
	`, []string{"10"})
}

func TestProxyErrorsSurfaceFromTraps(t *testing.T) {
	err := runScriptErr(t, `
		const p = new Proxy({}, {
			get() { throw new Error("trap failed"); }
		});
		p.x;
	`)
	if !strings.Contains(err.Error(), "trap failed") {
		t.Errorf("error = %v", err)
	}
}
