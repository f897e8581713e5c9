// Package eventloop implements the engine's deterministic scheduler: a
// FIFO microtask queue, a timer list, and an animation-frame queue. The
// loop itself is driven by the interpreter; this package owns ordering.
package eventloop

import (
	"time"

	"github.com/cwbudde/go-jsvm/internal/gc"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// Microtask is one queued microtask: either a promise reaction delivery
// or a bare callback from queueMicrotask.
type Microtask struct {
	Reaction *runtime.PromiseReaction
	IsReject bool
	Value    runtime.Value
	Callback runtime.Value // set for queueMicrotask entries
}

// TimerTask is one scheduled timer. IntervalMS is zero for one-shot
// timeouts.
type TimerTask struct {
	ID         uint64
	DueAt      uint64
	IntervalMS uint64
	Callback   runtime.Value
	Active     bool
}

// Loop holds the pending asynchronous work of one context.
type Loop struct {
	nowMS            uint64
	nextTimerID      uint64
	nextAnimationID  uint64
	realtime         bool
	microtasks       []Microtask
	timers           []TimerTask
	canceledTimers   map[uint64]bool
	canceledFrames   map[uint64]bool
	animationFrames  []animationFrame
	startWall        time.Time
}

type animationFrame struct {
	id       uint64
	callback runtime.Value
}

// New returns an empty loop. In realtime mode, advancing to a future
// timer due time sleeps the OS thread; in virtual-time mode the clock
// snaps with no wall sleep.
func New(realtime bool) *Loop {
	return &Loop{
		realtime:        realtime,
		nextTimerID:     1,
		nextAnimationID: 1,
		canceledTimers:  make(map[uint64]bool),
		canceledFrames:  make(map[uint64]bool),
		startWall:       time.Now(),
	}
}

// NowMS returns the loop clock in milliseconds.
func (l *Loop) NowMS() uint64 { return l.nowMS }

// Realtime reports the clock mode.
func (l *Loop) Realtime() bool { return l.realtime }

// TraceRoots implements gc.RootProvider: queued callbacks and in-flight
// reaction values are live.
func (l *Loop) TraceRoots(m *gc.Marker) {
	for _, t := range l.microtasks {
		if t.Reaction != nil {
			runtime.MarkValue(m, t.Reaction.OnFulfilled)
			runtime.MarkValue(m, t.Reaction.OnRejected)
			m.Mark(t.Reaction.Next)
		}
		runtime.MarkValue(m, t.Value)
		runtime.MarkValue(m, t.Callback)
	}
	for _, t := range l.timers {
		runtime.MarkValue(m, t.Callback)
	}
	for _, f := range l.animationFrames {
		runtime.MarkValue(m, f.callback)
	}
}

// EnqueueMicrotask appends a microtask.
func (l *Loop) EnqueueMicrotask(task Microtask) {
	l.microtasks = append(l.microtasks, task)
}

// PopMicrotask removes and returns the oldest microtask.
func (l *Loop) PopMicrotask() (Microtask, bool) {
	if len(l.microtasks) == 0 {
		return Microtask{}, false
	}
	task := l.microtasks[0]
	l.microtasks = l.microtasks[1:]
	return task, true
}

// HasMicrotasks reports pending microtasks.
func (l *Loop) HasMicrotasks() bool { return len(l.microtasks) > 0 }

// ScheduleTimer inserts a timer due delayMS from now. interval timers
// reschedule themselves after each firing until cleared.
func (l *Loop) ScheduleTimer(callback runtime.Value, delayMS uint64, interval bool) uint64 {
	id := l.nextTimerID
	l.nextTimerID++
	task := TimerTask{
		ID:       id,
		DueAt:    l.nowMS + delayMS,
		Callback: callback,
		Active:   true,
	}
	if interval {
		task.IntervalMS = delayMS
		if task.IntervalMS == 0 {
			task.IntervalMS = 1
		}
	}
	l.timers = append(l.timers, task)
	return id
}

// ClearTimer deactivates the timer with the given id. A cleared interval
// is not rescheduled even when the clear lands mid-flight.
func (l *Loop) ClearTimer(id uint64) {
	l.canceledTimers[id] = true
	for i := range l.timers {
		if l.timers[i].ID == id {
			l.timers[i].Active = false
		}
	}
}

// HasTimers reports pending active timers.
func (l *Loop) HasTimers() bool {
	for _, t := range l.timers {
		if t.Active {
			return true
		}
	}
	return false
}

// nextDueTime returns the earliest active due time.
func (l *Loop) nextDueTime() (uint64, bool) {
	var best uint64
	found := false
	for _, t := range l.timers {
		if !t.Active {
			continue
		}
		if !found || t.DueAt < best {
			best = t.DueAt
			found = true
		}
	}
	return best, found
}

// AdvanceToNextTimer snaps the clock to the earliest due time. In
// realtime mode it also sleeps until wall time catches up.
func (l *Loop) AdvanceToNextTimer() {
	due, ok := l.nextDueTime()
	if !ok {
		return
	}
	if due > l.nowMS {
		if l.realtime {
			time.Sleep(time.Duration(due-l.nowMS) * time.Millisecond)
		}
		l.nowMS = due
	}
}

// PopReadyTimer removes and returns one ready timer. With equal due
// times, insertion order breaks the tie (the scan keeps the first of the
// minimum).
func (l *Loop) PopReadyTimer() (TimerTask, bool) {
	bestIdx := -1
	var bestDue uint64
	for i, t := range l.timers {
		if !t.Active || t.DueAt > l.nowMS {
			continue
		}
		if bestIdx < 0 || t.DueAt < bestDue {
			bestIdx = i
			bestDue = t.DueAt
		}
	}
	if bestIdx < 0 {
		return TimerTask{}, false
	}
	task := l.timers[bestIdx]
	l.timers = append(l.timers[:bestIdx], l.timers[bestIdx+1:]...)
	return task, true
}

// RescheduleInterval reinserts an interval timer after a firing unless it
// was cleared while running.
func (l *Loop) RescheduleInterval(task TimerTask) {
	if l.canceledTimers[task.ID] {
		delete(l.canceledTimers, task.ID)
		return
	}
	if task.IntervalMS == 0 {
		return
	}
	task.DueAt = l.nowMS + task.IntervalMS
	task.Active = true
	l.timers = append(l.timers, task)
}

// RequestAnimationFrame queues callback for the next host frame tick.
func (l *Loop) RequestAnimationFrame(callback runtime.Value) uint64 {
	id := l.nextAnimationID
	l.nextAnimationID++
	l.animationFrames = append(l.animationFrames, animationFrame{id: id, callback: callback})
	return id
}

// CancelAnimationFrame deactivates a not-yet-fired frame callback.
func (l *Loop) CancelAnimationFrame(id uint64) {
	l.canceledFrames[id] = true
}

// TakeAnimationCallbacks drains the frame queue in insertion order,
// skipping canceled ids.
func (l *Loop) TakeAnimationCallbacks() []runtime.Value {
	var callbacks []runtime.Value
	for _, f := range l.animationFrames {
		if l.canceledFrames[f.id] {
			delete(l.canceledFrames, f.id)
			continue
		}
		callbacks = append(callbacks, f.callback)
	}
	l.animationFrames = nil
	return callbacks
}

// HasPending reports whether any queue holds work.
func (l *Loop) HasPending() bool {
	return l.HasMicrotasks() || l.HasTimers()
}
