package interp

import (
	"strings"
	"testing"
)

func TestWhileAndDoWhile(t *testing.T) {
	expectOutput(t, `
		let i = 0;
		while (i < 3) { console.log(i); i++; }
		let j = 5;
		do { console.log(j); j++; } while (j < 5);
	`, []string{"0", "1", "2", "5"})
}

func TestForLoopWithBreakAndContinue(t *testing.T) {
	expectOutput(t, `
		for (let i = 0; i < 10; i++) {
			if (i === 2) continue;
			if (i === 5) break;
			console.log(i);
		}
	`, []string{"0", "1", "3", "4"})
}

func TestLabeledBreakAndContinue(t *testing.T) {
	expectOutput(t, `
		outer: for (let i = 0; i < 3; i++) {
			for (let j = 0; j < 3; j++) {
				if (j === 1 && i === 0) continue outer;
				if (i === 2) break outer;
				console.log(i + "," + j);
			}
		}
	`, []string{"0,0", "1,0", "1,1", "1,2"})
}

func TestSwitchFallthroughAndDefault(t *testing.T) {
	expectOutput(t, `
		function pick(v) {
			switch (v) {
			case 1:
				console.log("one");
				break;
			case 2:
				console.log("two");
			case 3:
				console.log("two-or-three");
				break;
			default:
				console.log("other");
			}
		}
		pick(1); pick(2); pick(3); pick(9);
	`, []string{"one", "two", "two-or-three", "two-or-three", "other"})
}

func TestSwitchUsesStrictEquality(t *testing.T) {
	expectOutput(t, `
		switch ("1") {
		case 1: console.log("number"); break;
		case "1": console.log("string"); break;
		}
	`, []string{"string"})
}

func TestTryCatchFinallyOrdering(t *testing.T) {
	expectOutput(t, `
		try {
			console.log("try");
			throw "boom";
		} catch (e) {
			console.log("caught " + e);
		} finally {
			console.log("finally");
		}
		console.log("after");
	`, []string{"try", "caught boom", "finally", "after"})
}

func TestFinallyRunsOnSuccess(t *testing.T) {
	expectOutput(t, `
		function f() {
			try { return "value"; } finally { console.log("cleanup"); }
		}
		console.log(f());
	`, []string{"cleanup", "value"})
}

func TestFinallyOverridesPendingThrow(t *testing.T) {
	expectOutput(t, `
		function f() {
			try { throw "lost"; } finally { return "won"; }
		}
		console.log(f());
	`, []string{"won"})
}

func TestThrownValuesSurviveAsValues(t *testing.T) {
	expectOutput(t, `
		try { throw 42; } catch (e) { console.log(typeof e, e); }
		try { throw {code: 7}; } catch (e) { console.log(e.code); }
	`, []string{"number 42", "7"})
}

func TestEngineErrorsAreCatchableErrorObjects(t *testing.T) {
	expectOutput(t, `
		try {
			nope();
		} catch (e) {
			console.log(e.name);
			console.log(e.message);
			console.log(e instanceof Error);
		}
	`, []string{"ReferenceError", "'nope' is not defined", "true"})
}

func TestUncaughtThrowSurfaces(t *testing.T) {
	err := runScriptErr(t, `throw new Error("kaput");`)
	if !strings.Contains(err.Error(), "kaput") {
		t.Errorf("error = %v", err)
	}
}

func TestNestedTryRethrow(t *testing.T) {
	expectOutput(t, `
		try {
			try {
				throw "inner";
			} catch (e) {
				throw "outer:" + e;
			}
		} catch (e) {
			console.log(e);
		}
	`, []string{"outer:inner"})
}
