package bytecode

import (
	"github.com/cwbudde/go-jsvm/internal/ast"
)

// local is one slot of the compiler's scope-tracking list.
type local struct {
	name  string
	depth int
}

// Compiler lowers the decidable AST subset to a chunk in a single
// top-down pass. scopeDepth zero means global: names resolve by global
// name constants instead of slots.
type Compiler struct {
	chunk      *Chunk
	locals     []local
	scopeDepth int
}

// NewCompiler returns a compiler for one chunk.
func NewCompiler() *Compiler {
	return &Compiler{chunk: NewChunk()}
}

// Compile lowers a program. When any construct falls outside the subset
// the returned chunk has RequiresTreeWalk set and must not be executed.
func Compile(program *ast.Program) *Chunk {
	c := NewCompiler()
	for _, stmt := range program.Statements {
		c.compileStatement(stmt)
	}
	return c.chunk
}

// bail marks the chunk as needing the tree-walk fallback.
func (c *Compiler) bail() {
	if !c.chunk.RequiresTreeWalk {
		c.chunk.RequiresTreeWalk = true
		c.chunk.Write(OpRunTreeWalk, 0, 0)
	}
}

func (c *Compiler) line(node ast.Node) int {
	return node.Pos().Line
}

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope discards all locals at or above the exited depth.
func (c *Compiler) endScope(line int) {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.chunk.Write(OpPop, 0, line)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// declareLocal assigns a slot on first declaration in the current scope.
func (c *Compiler) declareLocal(name string) int {
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth})
	return len(c.locals) - 1
}

// resolveLocal returns the slot of name, innermost first, or -1.
func (c *Compiler) resolveLocal(name string) int {
	for idx := len(c.locals) - 1; idx >= 0; idx-- {
		if c.locals[idx].name == name {
			return idx
		}
	}
	return -1
}

func (c *Compiler) compileStatement(stmt ast.Statement) {
	if c.chunk.RequiresTreeWalk {
		return
	}
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		if c.compilePrint(s) {
			return
		}
		c.compileExpression(s.Expression)
		c.chunk.Write(OpPop, 0, c.line(s))

	case *ast.VarStatement:
		c.compileVarStatement(s)

	case *ast.BlockStatement:
		c.beginScope()
		for _, inner := range s.Statements {
			c.compileStatement(inner)
		}
		c.endScope(c.line(s))

	case *ast.IfStatement:
		c.compileIfStatement(s)

	case *ast.WhileStatement:
		c.compileWhileStatement(s)

	case *ast.ForStatement:
		c.compileForStatement(s)

	case *ast.FunctionDeclaration:
		c.compileFunctionDeclaration(s)

	case *ast.ReturnStatement:
		if s.Value != nil {
			c.compileExpression(s.Value)
		} else {
			c.chunk.Write(OpUndefined, 0, c.line(s))
		}
		c.chunk.Write(OpReturn, 0, c.line(s))

	default:
		// Classes, try/throw, for-of, for-in, switch, imports/exports and
		// the rest of the language are outside the subset.
		c.bail()
	}
}

// compilePrint lowers single-argument print(x) and console.log(x) calls
// onto the Print opcode.
func (c *Compiler) compilePrint(s *ast.ExpressionStatement) bool {
	call, ok := s.Expression.(*ast.CallExpression)
	if !ok || len(call.Arguments) != 1 {
		return false
	}
	if _, isSpread := call.Arguments[0].(*ast.SpreadExpression); isSpread {
		return false
	}
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		if callee.Value != "print" {
			return false
		}
	case *ast.MemberExpression:
		obj, isIdent := callee.Object.(*ast.Identifier)
		if !isIdent || obj.Value != "console" || callee.Property != "log" {
			return false
		}
	default:
		return false
	}
	c.compileExpression(call.Arguments[0])
	c.chunk.Write(OpPrint, 0, c.line(s))
	return true
}

func (c *Compiler) compileVarStatement(s *ast.VarStatement) {
	for _, decl := range s.Decls {
		ident, ok := decl.Pattern.(*ast.IdentifierPattern)
		if !ok {
			c.bail()
			return
		}
		if decl.Init != nil {
			c.compileExpression(decl.Init)
		} else {
			c.chunk.Write(OpUndefined, 0, c.line(s))
		}
		if c.scopeDepth == 0 {
			nameIdx := c.chunk.AddConstant(VMStringValue(ident.Name))
			c.chunk.Write(OpSetGlobal, nameIdx, c.line(s))
		} else {
			// The initializer value stays on the stack as the local slot.
			c.declareLocal(ident.Name)
		}
	}
}

func (c *Compiler) compileIfStatement(s *ast.IfStatement) {
	c.compileExpression(s.Condition)
	elseJump := c.chunk.Write(OpJumpIfFalse, 0, c.line(s))
	c.compileStatement(s.Then)
	endJump := c.chunk.Write(OpJump, 0, c.line(s))
	c.chunk.Patch(elseJump, len(c.chunk.Code))
	if s.Else != nil {
		c.compileStatement(s.Else)
	}
	c.chunk.Patch(endJump, len(c.chunk.Code))
}

func (c *Compiler) compileWhileStatement(s *ast.WhileStatement) {
	loopStart := len(c.chunk.Code)
	c.compileExpression(s.Condition)
	exitJump := c.chunk.Write(OpJumpIfFalse, 0, c.line(s))
	c.compileStatement(s.Body)
	c.chunk.Write(OpLoop, uint16(loopStart), c.line(s))
	c.chunk.Patch(exitJump, len(c.chunk.Code))
}

func (c *Compiler) compileForStatement(s *ast.ForStatement) {
	c.beginScope()
	if s.Init != nil {
		c.compileStatement(s.Init)
	}
	loopStart := len(c.chunk.Code)
	exitJump := -1
	if s.Condition != nil {
		c.compileExpression(s.Condition)
		exitJump = c.chunk.Write(OpJumpIfFalse, 0, c.line(s))
	}
	c.compileStatement(s.Body)
	if s.Update != nil {
		c.compileExpression(s.Update)
		c.chunk.Write(OpPop, 0, c.line(s))
	}
	c.chunk.Write(OpLoop, uint16(loopStart), c.line(s))
	if exitJump >= 0 {
		c.chunk.Patch(exitJump, len(c.chunk.Code))
	}
	c.endScope(c.line(s))
}

// compileFunctionDeclaration compiles the body into a nested chunk and
// binds a VMFunction constant under the function's name.
func (c *Compiler) compileFunctionDeclaration(s *ast.FunctionDeclaration) {
	fn := s.Function
	if fn.IsAsync || fn.IsGenerator {
		c.bail()
		return
	}

	inner := NewCompiler()
	inner.scopeDepth = 1
	for _, param := range fn.Params {
		name := param.AsIdentifier()
		if name == "" || param.Default != nil {
			c.bail()
			return
		}
		inner.declareLocal(name)
	}
	for _, stmt := range fn.Body.Statements {
		inner.compileStatement(stmt)
	}
	if inner.chunk.RequiresTreeWalk {
		c.bail()
		return
	}
	inner.chunk.Write(OpUndefined, 0, c.line(s))
	inner.chunk.Write(OpReturn, 0, c.line(s))

	fnConst := c.chunk.AddConstant(VMFunctionValue(&VMFunction{
		Name:  fn.Name,
		Arity: len(fn.Params),
		Chunk: inner.chunk,
	}))
	c.chunk.Write(OpConstant, fnConst, c.line(s))
	if c.scopeDepth == 0 {
		nameIdx := c.chunk.AddConstant(VMStringValue(fn.Name))
		c.chunk.Write(OpSetGlobal, nameIdx, c.line(s))
	} else {
		c.declareLocal(fn.Name)
	}
}

func (c *Compiler) compileExpression(expr ast.Expression) {
	if c.chunk.RequiresTreeWalk {
		return
	}
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		idx := c.chunk.AddConstant(VMNumberValue(e.Value))
		c.chunk.Write(OpConstant, idx, c.line(e))

	case *ast.StringLiteral:
		idx := c.chunk.AddConstant(VMStringValue(e.Value))
		c.chunk.Write(OpConstant, idx, c.line(e))

	case *ast.BooleanLiteral:
		if e.Value {
			c.chunk.Write(OpTrue, 0, c.line(e))
		} else {
			c.chunk.Write(OpFalse, 0, c.line(e))
		}

	case *ast.NullLiteral:
		c.chunk.Write(OpNil, 0, c.line(e))

	case *ast.UndefinedLiteral:
		c.chunk.Write(OpUndefined, 0, c.line(e))

	case *ast.Identifier:
		if slot := c.resolveLocal(e.Value); slot >= 0 {
			c.chunk.Write(OpGetLocal, uint16(slot), c.line(e))
			return
		}
		nameIdx := c.chunk.AddConstant(VMStringValue(e.Value))
		c.chunk.Write(OpGetGlobal, nameIdx, c.line(e))

	case *ast.AssignExpression:
		c.compileAssign(e)

	case *ast.BinaryExpression:
		c.compileBinary(e)

	case *ast.UnaryExpression:
		switch e.Op {
		case "-":
			c.compileExpression(e.Operand)
			c.chunk.Write(OpNegate, 0, c.line(e))
		case "!":
			c.compileExpression(e.Operand)
			c.chunk.Write(OpNot, 0, c.line(e))
		case "typeof":
			c.compileExpression(e.Operand)
			c.chunk.Write(OpTypeof, 0, c.line(e))
		default:
			c.bail()
		}

	case *ast.CallExpression:
		c.compileCall(e)

	case *ast.MemberExpression:
		c.compileExpression(e.Object)
		nameIdx := c.chunk.AddConstant(VMStringValue(e.Property))
		c.chunk.Write(OpGetPropertyIC, nameIdx, c.line(e))

	default:
		// Objects, arrays, arrows, template literals, await/yield,
		// logical short-circuit and the rest stay on the tree walker.
		c.bail()
	}
}

func (c *Compiler) compileAssign(e *ast.AssignExpression) {
	ident, ok := e.Target.(*ast.Identifier)
	if !ok || e.Op != "=" {
		c.bail()
		return
	}
	c.compileExpression(e.Value)
	if slot := c.resolveLocal(ident.Value); slot >= 0 {
		c.chunk.Write(OpSetLocal, uint16(slot), c.line(e))
		c.chunk.Write(OpGetLocal, uint16(slot), c.line(e))
		return
	}
	nameIdx := c.chunk.AddConstant(VMStringValue(ident.Value))
	c.chunk.Write(OpSetGlobal, nameIdx, c.line(e))
	getIdx := c.chunk.AddConstant(VMStringValue(ident.Value))
	c.chunk.Write(OpGetGlobal, getIdx, c.line(e))
}

func (c *Compiler) compileBinary(e *ast.BinaryExpression) {
	c.compileExpression(e.Left)
	c.compileExpression(e.Right)
	switch e.Op {
	case "+":
		c.chunk.Write(OpAdd, 0, c.line(e))
	case "-":
		c.chunk.Write(OpSub, 0, c.line(e))
	case "*":
		c.chunk.Write(OpMul, 0, c.line(e))
	case "/":
		c.chunk.Write(OpDiv, 0, c.line(e))
	case "%":
		c.chunk.Write(OpMod, 0, c.line(e))
	case "==":
		c.chunk.Write(OpEqual, 0, c.line(e))
	case "===":
		c.chunk.Write(OpStrictEqual, 0, c.line(e))
	case "!=":
		c.chunk.Write(OpEqual, 0, c.line(e))
		c.chunk.Write(OpNot, 0, c.line(e))
	case "!==":
		c.chunk.Write(OpStrictEqual, 0, c.line(e))
		c.chunk.Write(OpNot, 0, c.line(e))
	case "<":
		c.chunk.Write(OpLess, 0, c.line(e))
	case ">":
		c.chunk.Write(OpGreater, 0, c.line(e))
	case "<=":
		c.chunk.Write(OpGreater, 0, c.line(e))
		c.chunk.Write(OpNot, 0, c.line(e))
	case ">=":
		c.chunk.Write(OpLess, 0, c.line(e))
		c.chunk.Write(OpNot, 0, c.line(e))
	default:
		c.bail()
	}
}

// compileCall pushes callee then arguments left-to-right, then Call.
func (c *Compiler) compileCall(e *ast.CallExpression) {
	if _, isMember := e.Callee.(*ast.MemberExpression); isMember {
		// Method calls need `this`; outside the subset.
		c.bail()
		return
	}
	c.compileExpression(e.Callee)
	for _, arg := range e.Arguments {
		if _, isSpread := arg.(*ast.SpreadExpression); isSpread {
			c.bail()
			return
		}
		c.compileExpression(arg)
	}
	c.chunk.Write(OpCall, uint16(len(e.Arguments)), c.line(e))
}
