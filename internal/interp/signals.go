package interp

import "github.com/cwbudde/go-jsvm/internal/runtime"

// signalKind is the control-flow outcome of a statement. Exceptions are
// out of band: they travel as the error result.
type signalKind int

const (
	signalNone signalKind = iota
	signalReturn
	signalBreak
	signalContinue
)

// signal carries the control-flow outcome plus its payload: a return
// value or a break/continue label.
type signal struct {
	kind  signalKind
	value runtime.Value
	label string
}

var noSignal = signal{kind: signalNone}

func returnSignal(v runtime.Value) signal {
	return signal{kind: signalReturn, value: v}
}

func breakSignal(label string) signal {
	return signal{kind: signalBreak, label: label}
}

func continueSignal(label string) signal {
	return signal{kind: signalContinue, label: label}
}

// matchesLabel reports whether a break/continue signal targets the given
// label (an unlabeled signal matches any enclosing loop).
func (s signal) matchesLabel(label string) bool {
	return s.label == "" || s.label == label
}
