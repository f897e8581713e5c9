package interp

import (
	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// evalStatement executes one statement and returns its control-flow
// signal. Thrown values and engine errors come back as the error.
func (i *Interpreter) evalStatement(stmt ast.Statement) (signal, error) {
	if err := i.countStep(); err != nil {
		return noSignal, err
	}
	i.currentNode = stmt
	i.maybeCollect()

	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evalExpression(s.Expression)
		return noSignal, err

	case *ast.VarStatement:
		return i.evalVarStatement(s)

	case *ast.BlockStatement:
		i.env.PushScope()
		defer i.env.PopScope()
		return i.evalStatements(s.Statements)

	case *ast.IfStatement:
		cond, err := i.evalExpression(s.Condition)
		if err != nil {
			return noSignal, err
		}
		if runtime.ToBoolean(cond) {
			return i.evalStatement(s.Then)
		}
		if s.Else != nil {
			return i.evalStatement(s.Else)
		}
		return noSignal, nil

	case *ast.WhileStatement:
		return i.evalWhileStatement(s, "")

	case *ast.DoWhileStatement:
		return i.evalDoWhileStatement(s, "")

	case *ast.ForStatement:
		return i.evalForStatement(s, "")

	case *ast.ForInStatement:
		return i.evalForInStatement(s, "")

	case *ast.ForOfStatement:
		return i.evalForOfStatement(s, "")

	case *ast.FunctionDeclaration:
		fn := i.makeFunction(s.Function)
		i.env.Define(s.Function.Name, fn, runtime.BindVar)
		return noSignal, nil

	case *ast.ClassDeclaration:
		return noSignal, i.evalClassDeclaration(s)

	case *ast.ReturnStatement:
		value := runtime.Value(runtime.Undefined)
		if s.Value != nil {
			v, err := i.evalExpression(s.Value)
			if err != nil {
				return noSignal, err
			}
			value = v
		}
		return returnSignal(value), nil

	case *ast.BreakStatement:
		return breakSignal(s.Label), nil

	case *ast.ContinueStatement:
		return continueSignal(s.Label), nil

	case *ast.LabeledStatement:
		return i.evalLabeledStatement(s)

	case *ast.ThrowStatement:
		value, err := i.evalExpression(s.Value)
		if err != nil {
			return noSignal, err
		}
		return noSignal, runtime.NewThrownError(value)

	case *ast.TryStatement:
		return i.evalTryStatement(s)

	case *ast.SwitchStatement:
		return i.evalSwitchStatement(s)

	case *ast.ImportDeclaration:
		return noSignal, i.evalImportDeclaration(s)

	case *ast.ExportDeclaration:
		return i.evalExportDeclaration(s)

	default:
		return noSignal, runtime.NewTypeError("unsupported statement %T", stmt)
	}
}

// evalStatements runs a statement list, stopping at the first non-None
// signal.
func (i *Interpreter) evalStatements(stmts []ast.Statement) (signal, error) {
	for _, stmt := range stmts {
		sig, err := i.evalStatement(stmt)
		if err != nil {
			return noSignal, err
		}
		if sig.kind != signalNone {
			return sig, nil
		}
	}
	return noSignal, nil
}

func (i *Interpreter) evalVarStatement(s *ast.VarStatement) (signal, error) {
	kind := runtime.BindVar
	switch s.Kind {
	case "let":
		kind = runtime.BindLet
	case "const":
		kind = runtime.BindConst
	}
	for _, decl := range s.Decls {
		var value runtime.Value = runtime.Undefined
		if decl.Init != nil {
			v, err := i.evalExpression(decl.Init)
			if err != nil {
				return noSignal, err
			}
			value = v
		}
		if err := i.bindPattern(decl.Pattern, value, kind); err != nil {
			return noSignal, err
		}
	}
	return noSignal, nil
}

func (i *Interpreter) evalWhileStatement(s *ast.WhileStatement, label string) (signal, error) {
	for {
		cond, err := i.evalExpression(s.Condition)
		if err != nil {
			return noSignal, err
		}
		if !runtime.ToBoolean(cond) {
			return noSignal, nil
		}
		sig, err := i.evalStatement(s.Body)
		if err != nil {
			return noSignal, err
		}
		switch sig.kind {
		case signalBreak:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
			return noSignal, nil
		case signalContinue:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
		case signalReturn:
			return sig, nil
		}
	}
}

func (i *Interpreter) evalDoWhileStatement(s *ast.DoWhileStatement, label string) (signal, error) {
	for {
		sig, err := i.evalStatement(s.Body)
		if err != nil {
			return noSignal, err
		}
		switch sig.kind {
		case signalBreak:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
			return noSignal, nil
		case signalContinue:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
		case signalReturn:
			return sig, nil
		}
		cond, err := i.evalExpression(s.Condition)
		if err != nil {
			return noSignal, err
		}
		if !runtime.ToBoolean(cond) {
			return noSignal, nil
		}
	}
}

func (i *Interpreter) evalForStatement(s *ast.ForStatement, label string) (signal, error) {
	i.env.PushScope()
	defer i.env.PopScope()

	if s.Init != nil {
		if _, err := i.evalStatement(s.Init); err != nil {
			return noSignal, err
		}
	}
	for {
		if s.Condition != nil {
			cond, err := i.evalExpression(s.Condition)
			if err != nil {
				return noSignal, err
			}
			if !runtime.ToBoolean(cond) {
				return noSignal, nil
			}
		}
		sig, err := i.evalStatement(s.Body)
		if err != nil {
			return noSignal, err
		}
		switch sig.kind {
		case signalBreak:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
			return noSignal, nil
		case signalContinue:
			if !sig.matchesLabel(label) {
				return sig, nil
			}
		case signalReturn:
			return sig, nil
		}
		if s.Update != nil {
			if _, err := i.evalExpression(s.Update); err != nil {
				return noSignal, err
			}
		}
	}
}

// evalLabeledStatement hands its label to a labeled loop so break/continue
// signals naming it resolve there; for non-loop bodies it catches a
// matching break itself.
func (i *Interpreter) evalLabeledStatement(s *ast.LabeledStatement) (signal, error) {
	var sig signal
	var err error
	switch body := s.Body.(type) {
	case *ast.WhileStatement:
		sig, err = i.evalWhileStatement(body, s.Label)
	case *ast.DoWhileStatement:
		sig, err = i.evalDoWhileStatement(body, s.Label)
	case *ast.ForStatement:
		sig, err = i.evalForStatement(body, s.Label)
	case *ast.ForInStatement:
		sig, err = i.evalForInStatement(body, s.Label)
	case *ast.ForOfStatement:
		sig, err = i.evalForOfStatement(body, s.Label)
	default:
		sig, err = i.evalStatement(s.Body)
	}
	if err != nil {
		return noSignal, err
	}
	switch sig.kind {
	case signalBreak, signalContinue:
		if sig.label == s.Label {
			return noSignal, nil
		}
	}
	return sig, nil
}

// evalTryStatement implements try/catch/finally. finally runs on every
// path; a completion in finally (return, break, throw) overrides a
// pending throw.
func (i *Interpreter) evalTryStatement(s *ast.TryStatement) (signal, error) {
	sig, err := i.evalStatement(s.Block)

	if err != nil && s.Catch != nil {
		thrown := i.errorToValue(runtime.AsError(err))
		i.env.PushScope()
		if s.CatchParam != nil {
			if bindErr := i.bindPattern(s.CatchParam, thrown, runtime.BindLet); bindErr != nil {
				i.env.PopScope()
				return noSignal, bindErr
			}
		}
		sig, err = i.evalStatements(s.Catch.Statements)
		i.env.PopScope()
	}

	if s.Finally != nil {
		finSig, finErr := i.evalStatement(s.Finally)
		if finErr != nil {
			return noSignal, finErr
		}
		if finSig.kind != signalNone {
			return finSig, nil
		}
	}
	return sig, err
}

func (i *Interpreter) evalSwitchStatement(s *ast.SwitchStatement) (signal, error) {
	disc, err := i.evalExpression(s.Discriminant)
	if err != nil {
		return noSignal, err
	}

	i.env.PushScope()
	defer i.env.PopScope()

	// Find the matching case (tests after the match are not evaluated),
	// falling back to default when nothing matches.
	matchIdx := -1
	defaultIdx := -1
	for idx, c := range s.Cases {
		if c.Test == nil {
			defaultIdx = idx
			continue
		}
		test, err := i.evalExpression(c.Test)
		if err != nil {
			return noSignal, err
		}
		if runtime.StrictEquals(disc, test) {
			matchIdx = idx
			break
		}
	}
	if matchIdx < 0 {
		matchIdx = defaultIdx
	}
	if matchIdx < 0 {
		return noSignal, nil
	}

	// Execute bodies from the match onward until a break.
	for idx := matchIdx; idx < len(s.Cases); idx++ {
		sig, err := i.evalStatements(s.Cases[idx].Body)
		if err != nil {
			return noSignal, err
		}
		if sig.kind == signalBreak && sig.label == "" {
			return noSignal, nil
		}
		if sig.kind != signalNone {
			return sig, nil
		}
	}
	return noSignal, nil
}
