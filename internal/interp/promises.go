package interp

import (
	"github.com/cwbudde/go-jsvm/internal/eventloop"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// settlePromise transitions a pending promise and enqueues its recorded
// reactions onto the microtask queue. Settling with a promise adopts the
// inner promise's eventual state; settling with self rejects with a cycle
// TypeError. Second and later settlements are no-ops.
func (i *Interpreter) settlePromise(p *runtime.Promise, isReject bool, value runtime.Value) error {
	if !isReject {
		if inner, ok := value.(*runtime.Promise); ok {
			if inner == p {
				return i.settlePromise(p, true, i.makeErrorObject("TypeError", "Chaining cycle detected for promise"))
			}
			passthrough := &runtime.PromiseReaction{Next: p}
			switch inner.State {
			case runtime.PromisePending:
				inner.Reactions = append(inner.Reactions, passthrough)
			case runtime.PromiseFulfilled:
				i.loop.EnqueueMicrotask(eventloop.Microtask{Reaction: passthrough, Value: inner.Value})
			case runtime.PromiseRejected:
				inner.Handled = true
				i.loop.EnqueueMicrotask(eventloop.Microtask{Reaction: passthrough, IsReject: true, Value: inner.Value})
			}
			return nil
		}
	}

	if p.Settled() {
		return nil
	}
	if isReject {
		p.State = runtime.PromiseRejected
	} else {
		p.State = runtime.PromiseFulfilled
	}
	p.Value = value

	reactions := p.Reactions
	p.Reactions = nil
	for _, reaction := range reactions {
		i.loop.EnqueueMicrotask(eventloop.Microtask{
			Reaction: reaction,
			IsReject: isReject,
			Value:    value,
		})
	}
	if isReject && len(reactions) == 0 {
		i.trackRejection(p)
	}
	return nil
}

// promiseThen attaches a reaction and returns the downstream promise.
func (i *Interpreter) promiseThen(p *runtime.Promise, onFulfilled, onRejected runtime.Value) (*runtime.Promise, error) {
	next := i.newPromise()
	reaction := &runtime.PromiseReaction{
		OnFulfilled: normalizeCallback(onFulfilled),
		OnRejected:  normalizeCallback(onRejected),
		Next:        next,
	}
	// Attaching any reaction hands rejection responsibility downstream;
	// only promises nobody observed count as unhandled at quiescence.
	p.Handled = true

	switch p.State {
	case runtime.PromisePending:
		p.Reactions = append(p.Reactions, reaction)
	case runtime.PromiseFulfilled:
		i.loop.EnqueueMicrotask(eventloop.Microtask{Reaction: reaction, Value: p.Value})
	case runtime.PromiseRejected:
		i.loop.EnqueueMicrotask(eventloop.Microtask{Reaction: reaction, IsReject: true, Value: p.Value})
	}
	return next, nil
}

func normalizeCallback(v runtime.Value) runtime.Value {
	if v == nil || !runtime.IsCallable(v) {
		return nil
	}
	return v
}

// runPromiseReaction executes one dequeued reaction: the matching handler
// runs and its result settles the downstream promise; an absent handler
// forwards the value in the same polarity.
func (i *Interpreter) runPromiseReaction(reaction *runtime.PromiseReaction, isReject bool, value runtime.Value) error {
	handler := reaction.OnFulfilled
	if isReject {
		handler = reaction.OnRejected
	}

	if handler == nil {
		return i.settlePromise(reaction.Next, isReject, value)
	}

	result, err := i.callFunction(handler, []runtime.Value{value}, runtime.Undefined)
	if err != nil {
		return i.settlePromise(reaction.Next, true, i.errorToValue(runtime.AsError(err)))
	}
	// A returned promise is adopted; anything else fulfills downstream.
	return i.settlePromise(reaction.Next, false, result)
}

// trackRejection records a promise rejected with no handler yet, for the
// quiescence report.
func (i *Interpreter) trackRejection(p *runtime.Promise) {
	for _, existing := range i.unhandledRejections {
		if existing == p {
			return
		}
	}
	i.unhandledRejections = append(i.unhandledRejections, p)
}

// promiseMember dispatches then/catch/finally on a promise receiver.
func (i *Interpreter) promiseMember(p *runtime.Promise, key string) (runtime.Value, error) {
	switch key {
	case "then":
		return i.newNative("then", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return i.promiseThen(p, args.Arg(0), args.Arg(1))
		}), nil
	case "catch":
		return i.newNative("catch", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return i.promiseThen(p, nil, args.Arg(0))
		}), nil
	case "finally":
		return i.newNative("finally", func(args runtime.FunctionArgs) (runtime.Value, error) {
			cb := normalizeCallback(args.Arg(0))
			wrap := func(passthrough bool) runtime.NativeHandler {
				return func(inner runtime.FunctionArgs) (runtime.Value, error) {
					if cb != nil {
						if _, err := i.callFunction(cb, nil, runtime.Undefined); err != nil {
							return nil, err
						}
					}
					v := inner.Arg(0)
					if passthrough {
						return v, nil
					}
					return nil, runtime.NewThrownError(v)
				}
			}
			onF := i.newNative("", wrap(true))
			onR := i.newNative("", wrap(false))
			return i.promiseThen(p, onF, onR)
		}), nil
	}
	return runtime.Undefined, nil
}
