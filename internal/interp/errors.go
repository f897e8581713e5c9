package interp

import "github.com/cwbudde/go-jsvm/internal/runtime"

// makeErrorObject synthesizes an Error-shaped object with name, message,
// and a class tag so user-land `instanceof TypeError` and `e.message`
// work against engine-raised errors.
func (i *Interpreter) makeErrorObject(name, message string) *runtime.Object {
	obj := i.newObject()
	obj.ClassName = name
	obj.Set("name", runtime.NewString(name))
	obj.Set("message", runtime.NewString(message))
	obj.Set("stack", runtime.NewString(name+": "+message))
	return obj
}

// errorToValue converts a runtime error into the throwable JS value: the
// original value for user throws, a synthesized Error object for
// engine-generated errors.
func (i *Interpreter) errorToValue(err *runtime.Error) runtime.Value {
	if err.Kind == runtime.ErrThrown && err.Value != nil {
		return err.Value
	}
	name := "TypeError"
	switch err.Kind {
	case runtime.ErrUndefinedVariable:
		name = "ReferenceError"
	case runtime.ErrStepLimit:
		name = "RangeError"
	}
	obj := i.makeErrorObject(name, errMessage(err))
	return obj
}

func errMessage(err *runtime.Error) string {
	switch err.Kind {
	case runtime.ErrUndefinedVariable:
		return "'" + err.Message + "' is not defined"
	case runtime.ErrNotAFunction:
		return "'" + err.Message + "' is not a function"
	case runtime.ErrConstReassignment:
		return "Assignment to constant variable '" + err.Message + "'"
	default:
		return err.Message
	}
}
