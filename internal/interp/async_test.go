package interp

import "testing"

func TestMicrotaskBeforeMacrotask(t *testing.T) {
	expectOutput(t, `
		setTimeout(() => console.log("t"), 0);
		queueMicrotask(() => console.log("m"));
	`, []string{"m", "t"})
}

func TestPromiseChainTransformsValues(t *testing.T) {
	expectOutput(t, `
		Promise.resolve(1)
			.then(v => v + 1)
			.then(v => v * 2)
			.then(v => console.log(v));
	`, []string{"4"})
}

func TestPromiseReactionsFireInAttachmentOrder(t *testing.T) {
	expectOutput(t, `
		const p = Promise.resolve("v");
		p.then(() => console.log("first"));
		p.then(() => console.log("second"));
	`, []string{"first", "second"})
}

func TestPromiseCatchAndRecovery(t *testing.T) {
	expectOutput(t, `
		Promise.reject("boom")
			.catch(e => { console.log("caught " + e); return "recovered"; })
			.then(v => console.log(v));
	`, []string{"caught boom", "recovered"})
}

func TestThenWithoutRejectionHandlerForwards(t *testing.T) {
	expectOutput(t, `
		Promise.reject("fail")
			.then(v => console.log("not reached"))
			.catch(e => console.log("end: " + e));
	`, []string{"end: fail"})
}

func TestNewPromiseExecutor(t *testing.T) {
	expectOutput(t, `
		new Promise((resolve, reject) => {
			resolve("done");
		}).then(v => console.log(v));
	`, []string{"done"})
}

func TestExecutorThrowRejects(t *testing.T) {
	expectOutput(t, `
		new Promise(() => { throw "broken"; })
			.catch(e => console.log("caught " + e));
	`, []string{"caught broken"})
}

func TestSecondSettlementIsNoOp(t *testing.T) {
	expectOutput(t, `
		new Promise((resolve, reject) => {
			resolve("first");
			resolve("second");
			reject("third");
		}).then(v => console.log(v));
	`, []string{"first"})
}

func TestResolvingWithPromiseAdoptsState(t *testing.T) {
	expectOutput(t, `
		const inner = Promise.resolve("inner value");
		new Promise(resolve => resolve(inner)).then(v => console.log(v));
	`, []string{"inner value"})
}

func TestAsyncAwait(t *testing.T) {
	expectOutput(t, `
		async function add(a, b) { return a + b; }
		async function main() {
			const sum = await add(20, 22);
			console.log("sum " + sum);
			const plain = await "not-a-promise";
			console.log(plain);
		}
		main();
	`, []string{"sum 42", "not-a-promise"})
}

func TestAwaitRejectedPromiseThrows(t *testing.T) {
	expectOutput(t, `
		async function main() {
			try {
				await Promise.reject("denied");
			} catch (e) {
				console.log("caught " + e);
			}
		}
		main();
	`, []string{"caught denied"})
}

func TestAwaitOutsideAsyncFails(t *testing.T) {
	err := runScriptErr(t, `await 1;`)
	if err == nil {
		t.Fatal("await outside async must fail")
	}
}

func TestTimersFireInDueOrderWithVirtualClock(t *testing.T) {
	expectOutput(t, `
		setTimeout(() => console.log("second"), 20);
		setTimeout(() => console.log("first"), 10);
		setTimeout(() => console.log("third"), 30);
	`, []string{"first", "second", "third"})
}

func TestEqualDueTimersFireInRegistrationOrder(t *testing.T) {
	expectOutput(t, `
		setTimeout(() => console.log("a"), 5);
		setTimeout(() => console.log("b"), 5);
	`, []string{"a", "b"})
}

func TestClearedIntervalStopsFiring(t *testing.T) {
	expectOutput(t, `
		let count = 0;
		const id = setInterval(() => {
			count++;
			console.log("tick " + count);
			if (count === 3) clearInterval(id);
		}, 10);
	`, []string{"tick 1", "tick 2", "tick 3"})
}

func TestClearTimeoutBeforeFire(t *testing.T) {
	expectOutput(t, `
		const id = setTimeout(() => console.log("never"), 5);
		clearTimeout(id);
		setTimeout(() => console.log("only"), 10);
	`, []string{"only"})
}

func TestMicrotasksEnqueuedDuringMicrotaskRunBeforeTimers(t *testing.T) {
	expectOutput(t, `
		setTimeout(() => console.log("timer"), 0);
		queueMicrotask(() => {
			console.log("m1");
			queueMicrotask(() => console.log("m2"));
		});
	`, []string{"m1", "m2", "timer"})
}

func TestPromiseAllCollectsInOrder(t *testing.T) {
	expectOutput(t, `
		Promise.all([Promise.resolve(1), 2, Promise.resolve(3)])
			.then(values => console.log(values.join(",")));
	`, []string{"1,2,3"})
}

func TestPromiseRaceSettlesWithFirst(t *testing.T) {
	expectOutput(t, `
		Promise.race([Promise.resolve("winner"), new Promise(() => {})])
			.then(v => console.log(v));
	`, []string{"winner"})
}

func TestAnimationFrameDrain(t *testing.T) {
	src := `
		requestAnimationFrame(ts => console.log("frame at " + ts));
		const id = requestAnimationFrame(() => console.log("canceled"));
		cancelAnimationFrame(id);
	`
	i, _ := newTestInterp(t, src)
	if err := i.RunAnimationCallbacks(16.7); err != nil {
		t.Fatalf("frame drain failed: %v", err)
	}
	out := i.Output()
	if len(out) != 1 || out[0] != "frame at 16.7" {
		t.Errorf("output = %v", out)
	}
}
