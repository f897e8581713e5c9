package jsvm

import "io"

type options struct {
	realtimeTimers bool
	useVM          bool
	optimize       bool
	stepLimit      int
	output         io.Writer
}

func defaultOptions() *options {
	return &options{realtimeTimers: true}
}

// Option configures an Engine.
type Option func(*options)

// WithRealtimeTimers selects wall-clock timer waits (default) or virtual
// time, where the clock snaps to each due time with no sleep.
func WithRealtimeTimers(realtime bool) Option {
	return func(o *options) { o.realtimeTimers = realtime }
}

// WithVM enables the bytecode fast path for programs inside the
// decidable subset; everything else falls back to the tree walker.
func WithVM(enabled bool) Option {
	return func(o *options) { o.useVM = enabled }
}

// WithOptimize runs the constant-folding and dead-code passes over
// compiled chunks. Only meaningful together with WithVM.
func WithOptimize(enabled bool) Option {
	return func(o *options) { o.optimize = enabled }
}

// WithStepLimit terminates a run once it has entered more than limit
// statements; zero disables the guard.
func WithStepLimit(limit int) Option {
	return func(o *options) { o.stepLimit = limit }
}

// WithOutput routes console output to w from construction on.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}
