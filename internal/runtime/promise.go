package runtime

import "github.com/cwbudde/go-jsvm/internal/gc"

// PromiseState is the settlement state of a Promise.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

func (s PromiseState) String() string {
	switch s {
	case PromiseFulfilled:
		return "fulfilled"
	case PromiseRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// PromiseReaction records a then/catch registration: optional handlers
// plus the downstream promise that receives the handler result.
type PromiseReaction struct {
	OnFulfilled Value // nil when absent
	OnRejected  Value // nil when absent
	Next        *Promise
}

// Promise is the engine's promise cell. It transitions Pending →
// Fulfilled|Rejected exactly once; later settlement attempts are no-ops.
type Promise struct {
	gc.Header
	State     PromiseState
	Value     Value
	Reactions []*PromiseReaction
	// Handled is set once any reaction is attached or an await consumes
	// the rejection; rejections still unhandled at loop quiescence are
	// reported.
	Handled bool
}

// NewPromise returns a pending promise.
func NewPromise() *Promise {
	return &Promise{State: PromisePending}
}

func (p *Promise) Type() string { return TypePromise }

func (p *Promise) String() string {
	switch p.State {
	case PromiseFulfilled:
		return "Promise { " + p.Value.String() + " }"
	case PromiseRejected:
		return "Promise { <rejected> " + p.Value.String() + " }"
	default:
		return "Promise { <pending> }"
	}
}

// Trace implements gc.Object.
func (p *Promise) Trace(m *gc.Marker) {
	MarkValue(m, p.Value)
	for _, r := range p.Reactions {
		MarkValue(m, r.OnFulfilled)
		MarkValue(m, r.OnRejected)
		m.Mark(r.Next)
	}
}

// Settled reports whether the promise has left the pending state.
func (p *Promise) Settled() bool { return p.State != PromisePending }
