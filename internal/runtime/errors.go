package runtime

import "fmt"

// ErrorKind classifies runtime errors per the engine's taxonomy.
type ErrorKind int

const (
	ErrUndefinedVariable ErrorKind = iota
	ErrNotAFunction
	ErrArityMismatch
	ErrTypeError
	ErrConstReassignment
	ErrThrown
	ErrStepLimit
)

// StackFrame is one entry of a captured stack trace.
type StackFrame struct {
	Function string
	File     string
	Line     int
	Column   int
}

func (f StackFrame) String() string {
	name := f.Function
	if name == "" {
		name = "<anonymous>"
	}
	if f.File != "" {
		return fmt.Sprintf("    at %s (%s:%d:%d)", name, f.File, f.Line, f.Column)
	}
	return fmt.Sprintf("    at %s", name)
}

// Error is a runtime error. Thrown user values (including Error objects,
// strings, and numbers) travel with Kind ErrThrown and the original value
// in Value.
type Error struct {
	Kind    ErrorKind
	Message string
	Value   Value // set for ErrThrown
	Stack   []StackFrame
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUndefinedVariable:
		return fmt.Sprintf("ReferenceError: '%s' is not defined", e.Message)
	case ErrNotAFunction:
		return fmt.Sprintf("TypeError: '%s' is not a function", e.Message)
	case ErrArityMismatch:
		return "TypeError: " + e.Message
	case ErrConstReassignment:
		return fmt.Sprintf("TypeError: Assignment to constant variable '%s'", e.Message)
	case ErrThrown:
		if e.Value != nil {
			return "Uncaught " + Inspect(e.Value)
		}
		return "Uncaught"
	case ErrStepLimit:
		return "RangeError: " + e.Message
	default:
		return "TypeError: " + e.Message
	}
}

// NewUndefinedVariableError reports an unresolved identifier.
func NewUndefinedVariableError(name string) *Error {
	return &Error{Kind: ErrUndefinedVariable, Message: name}
}

// NewNotAFunctionError reports a call on a non-callable value.
func NewNotAFunctionError(name string) *Error {
	return &Error{Kind: ErrNotAFunction, Message: name}
}

// NewArityMismatchError reports a wrong argument count.
func NewArityMismatchError(expected, got int) *Error {
	return &Error{
		Kind:    ErrArityMismatch,
		Message: fmt.Sprintf("expected %d arguments but got %d", expected, got),
	}
}

// NewTypeError reports a generic type error.
func NewTypeError(format string, args ...any) *Error {
	return &Error{Kind: ErrTypeError, Message: fmt.Sprintf(format, args...)}
}

// NewConstReassignmentError reports an assignment to a const binding.
func NewConstReassignmentError(name string) *Error {
	return &Error{Kind: ErrConstReassignment, Message: name}
}

// NewThrownError wraps a user-thrown value.
func NewThrownError(v Value) *Error {
	return &Error{Kind: ErrThrown, Value: v}
}

// NewStepLimitError reports a step-count ceiling hit.
func NewStepLimitError(limit int) *Error {
	return &Error{Kind: ErrStepLimit, Message: fmt.Sprintf("step limit of %d exceeded", limit)}
}

// AsError coerces any Go error to a runtime *Error, wrapping foreign
// errors as TypeErrors.
func AsError(err error) *Error {
	if rerr, ok := err.(*Error); ok {
		return rerr
	}
	return &Error{Kind: ErrTypeError, Message: err.Error()}
}

// FormatStack renders the captured frames newest-first.
func (e *Error) FormatStack() string {
	out := ""
	for i := len(e.Stack) - 1; i >= 0; i-- {
		out += e.Stack[i].String() + "\n"
	}
	return out
}
