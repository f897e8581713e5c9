package interp

import "github.com/cwbudde/go-jsvm/internal/runtime"

// RunEventLoopUntilIdle drains microtasks and timers to quiescence: the
// whole microtask queue runs before each timer, and microtasks enqueued
// during a task run before control returns to timers.
func (i *Interpreter) RunEventLoopUntilIdle() error {
	for i.loop.HasPending() {
		if err := i.drainMicrotasks(); err != nil {
			return err
		}
		if i.loop.HasTimers() {
			if err := i.runOneTimer(); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunEventLoopUntilSettled drives the loop until promise leaves the
// pending state (the await path) or the loop runs dry.
func (i *Interpreter) RunEventLoopUntilSettled(promise *runtime.Promise) error {
	for promise.State == runtime.PromisePending && i.loop.HasPending() {
		if err := i.drainMicrotasks(); err != nil {
			return err
		}
		if promise.State != runtime.PromisePending {
			return nil
		}
		if i.loop.HasTimers() {
			if err := i.runOneTimer(); err != nil {
				return err
			}
		}
	}
	return nil
}

// runOneTimer advances the clock to the next due time and fires one
// ready timer, rescheduling it when it is an uncanceled interval.
func (i *Interpreter) runOneTimer() error {
	i.loop.AdvanceToNextTimer()
	task, ok := i.loop.PopReadyTimer()
	if !ok {
		return nil
	}
	if !task.Active {
		return nil
	}
	if _, err := i.callFunction(task.Callback, nil, runtime.Undefined); err != nil {
		return err
	}
	i.loop.RescheduleInterval(task)
	return nil
}

// RunMicrotasks drains the microtask queue only (embedder hook).
func (i *Interpreter) RunMicrotasks() error {
	return i.drainMicrotasks()
}

// RunPendingTimers fires every scheduled timer in due order, draining
// microtasks after each (embedder hook).
func (i *Interpreter) RunPendingTimers() error {
	for i.loop.HasTimers() {
		if err := i.runOneTimer(); err != nil {
			return err
		}
		if err := i.drainMicrotasks(); err != nil {
			return err
		}
	}
	return nil
}

// RunAnimationCallbacks fires queued frame callbacks with the supplied
// timestamp, then drains microtasks (embedder hook).
func (i *Interpreter) RunAnimationCallbacks(timestampMS float64) error {
	for _, cb := range i.loop.TakeAnimationCallbacks() {
		if _, err := i.callFunction(cb, []runtime.Value{runtime.NewNumber(timestampMS)}, runtime.Undefined); err != nil {
			return err
		}
	}
	return i.drainMicrotasks()
}

func (i *Interpreter) drainMicrotasks() error {
	for {
		task, ok := i.loop.PopMicrotask()
		if !ok {
			return nil
		}
		if task.Callback != nil {
			if _, err := i.callFunction(task.Callback, nil, runtime.Undefined); err != nil {
				return err
			}
			continue
		}
		if task.Reaction != nil {
			if err := i.runPromiseReaction(task.Reaction, task.IsReject, task.Value); err != nil {
				return err
			}
		}
	}
}
