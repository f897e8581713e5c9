package eventloop

import (
	"testing"

	"github.com/cwbudde/go-jsvm/internal/runtime"
)

func cb(name string) runtime.Value {
	return runtime.NewString(name)
}

func TestMicrotaskFIFO(t *testing.T) {
	loop := New(false)
	loop.EnqueueMicrotask(Microtask{Callback: cb("a")})
	loop.EnqueueMicrotask(Microtask{Callback: cb("b")})

	first, ok := loop.PopMicrotask()
	if !ok || first.Callback.String() != "a" {
		t.Fatal("microtasks must pop in FIFO order")
	}
	second, _ := loop.PopMicrotask()
	if second.Callback.String() != "b" {
		t.Fatal("wrong second microtask")
	}
	if _, ok := loop.PopMicrotask(); ok {
		t.Fatal("queue should be empty")
	}
}

func TestTimersFireInDueOrder(t *testing.T) {
	loop := New(false)
	loop.ScheduleTimer(cb("late"), 20, false)
	loop.ScheduleTimer(cb("early"), 5, false)

	loop.AdvanceToNextTimer()
	if loop.NowMS() != 5 {
		t.Fatalf("clock = %d, want 5", loop.NowMS())
	}
	task, ok := loop.PopReadyTimer()
	if !ok || task.Callback.String() != "early" {
		t.Fatal("the earlier timer must fire first")
	}

	loop.AdvanceToNextTimer()
	task, _ = loop.PopReadyTimer()
	if task.Callback.String() != "late" {
		t.Fatal("the later timer must fire second")
	}
}

func TestEqualDueTimesFireInInsertionOrder(t *testing.T) {
	loop := New(false)
	loop.ScheduleTimer(cb("first"), 10, false)
	loop.ScheduleTimer(cb("second"), 10, false)

	loop.AdvanceToNextTimer()
	a, _ := loop.PopReadyTimer()
	b, _ := loop.PopReadyTimer()
	if a.Callback.String() != "first" || b.Callback.String() != "second" {
		t.Errorf("tie broken wrong: %s then %s", a.Callback, b.Callback)
	}
}

func TestClearTimerDeactivates(t *testing.T) {
	loop := New(false)
	id := loop.ScheduleTimer(cb("x"), 0, false)
	loop.ClearTimer(id)
	if loop.HasTimers() {
		t.Error("cleared timers must not count as pending")
	}
	if _, ok := loop.PopReadyTimer(); ok {
		t.Error("cleared timers must not pop")
	}
}

func TestIntervalReschedulesUntilCleared(t *testing.T) {
	loop := New(false)
	id := loop.ScheduleTimer(cb("tick"), 10, true)

	loop.AdvanceToNextTimer()
	task, ok := loop.PopReadyTimer()
	if !ok {
		t.Fatal("interval must be ready")
	}
	loop.RescheduleInterval(task)
	if !loop.HasTimers() {
		t.Fatal("interval must reschedule")
	}
	if due, _ := loop.nextDueTime(); due != 20 {
		t.Errorf("next due = %d, want 20", due)
	}

	// Clear mid-flight: the popped task must not be rescheduled again.
	loop.AdvanceToNextTimer()
	task, _ = loop.PopReadyTimer()
	loop.ClearTimer(id)
	loop.RescheduleInterval(task)
	if loop.HasTimers() {
		t.Error("a cleared interval must not reschedule")
	}
}

func TestZeroDelayIntervalClampsToOne(t *testing.T) {
	loop := New(false)
	loop.ScheduleTimer(cb("tick"), 0, true)
	loop.AdvanceToNextTimer()
	task, _ := loop.PopReadyTimer()
	if task.IntervalMS != 1 {
		t.Errorf("interval = %d, want clamp to 1", task.IntervalMS)
	}
}

func TestAnimationFrameOrderAndCancel(t *testing.T) {
	loop := New(false)
	loop.RequestAnimationFrame(cb("a"))
	id := loop.RequestAnimationFrame(cb("b"))
	loop.RequestAnimationFrame(cb("c"))
	loop.CancelAnimationFrame(id)

	callbacks := loop.TakeAnimationCallbacks()
	if len(callbacks) != 2 {
		t.Fatalf("got %d callbacks, want 2", len(callbacks))
	}
	if callbacks[0].String() != "a" || callbacks[1].String() != "c" {
		t.Error("frame callbacks must run in insertion order, skipping canceled ids")
	}
	if len(loop.TakeAnimationCallbacks()) != 0 {
		t.Error("the frame queue must drain")
	}
}

func TestVirtualClockSnapsWithoutSleeping(t *testing.T) {
	loop := New(false)
	loop.ScheduleTimer(cb("far"), 10_000_000, false)
	loop.AdvanceToNextTimer() // must return immediately in virtual time
	if loop.NowMS() != 10_000_000 {
		t.Errorf("clock = %d", loop.NowMS())
	}
}
