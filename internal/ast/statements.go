package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-jsvm/internal/lexer"
)

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (s *ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) String() string       { return s.Expression.String() + ";" }
func (s *ExpressionStatement) Pos() lexer.Position  { return s.Token.Pos }

// VarDeclarator is one `pattern = init` pair of a declaration.
type VarDeclarator struct {
	Pattern Pattern
	Init    Expression // nil when no initializer
}

// VarStatement declares bindings. Kind is "var", "let", or "const".
type VarStatement struct {
	Token lexer.Token
	Kind  string
	Decls []VarDeclarator
}

func (s *VarStatement) statementNode()       {}
func (s *VarStatement) TokenLiteral() string { return s.Token.Literal }
func (s *VarStatement) String() string {
	parts := make([]string, len(s.Decls))
	for i, d := range s.Decls {
		if d.Init != nil {
			parts[i] = d.Pattern.String() + " = " + d.Init.String()
		} else {
			parts[i] = d.Pattern.String()
		}
	}
	return s.Kind + " " + strings.Join(parts, ", ") + ";"
}
func (s *VarStatement) Pos() lexer.Position { return s.Token.Pos }

// BlockStatement is a braced statement list with its own lexical scope.
type BlockStatement struct {
	Token      lexer.Token
	Statements []Statement
}

func (s *BlockStatement) statementNode()       {}
func (s *BlockStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, stmt := range s.Statements {
		out.WriteString(stmt.String())
	}
	out.WriteString(" }")
	return out.String()
}
func (s *BlockStatement) Pos() lexer.Position { return s.Token.Pos }

// IfStatement is if/else.
type IfStatement struct {
	Token     lexer.Token
	Condition Expression
	Then      Statement
	Else      Statement // nil when absent
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Literal }
func (s *IfStatement) String() string {
	out := "if (" + s.Condition.String() + ") " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}
func (s *IfStatement) Pos() lexer.Position { return s.Token.Pos }

// WhileStatement is a while loop.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      Statement
}

func (s *WhileStatement) statementNode()       {}
func (s *WhileStatement) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStatement) String() string {
	return "while (" + s.Condition.String() + ") " + s.Body.String()
}
func (s *WhileStatement) Pos() lexer.Position { return s.Token.Pos }

// DoWhileStatement is a do/while loop.
type DoWhileStatement struct {
	Token     lexer.Token
	Body      Statement
	Condition Expression
}

func (s *DoWhileStatement) statementNode()       {}
func (s *DoWhileStatement) TokenLiteral() string { return s.Token.Literal }
func (s *DoWhileStatement) String() string {
	return "do " + s.Body.String() + " while (" + s.Condition.String() + ");"
}
func (s *DoWhileStatement) Pos() lexer.Position { return s.Token.Pos }

// ForStatement is the classic three-clause for loop.
type ForStatement struct {
	Token     lexer.Token
	Init      Statement  // nil, VarStatement, or ExpressionStatement
	Condition Expression // nil means true
	Update    Expression // nil when absent
	Body      Statement
}

func (s *ForStatement) statementNode()       {}
func (s *ForStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ForStatement) String() string       { return "for (...) " + s.Body.String() }
func (s *ForStatement) Pos() lexer.Position  { return s.Token.Pos }

// ForInStatement iterates enumerable string keys.
type ForInStatement struct {
	Token   lexer.Token
	Kind    string // "", "var", "let", "const"
	Pattern Pattern
	Object  Expression
	Body    Statement
}

func (s *ForInStatement) statementNode()       {}
func (s *ForInStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ForInStatement) String() string {
	return "for (" + s.Pattern.String() + " in " + s.Object.String() + ") " + s.Body.String()
}
func (s *ForInStatement) Pos() lexer.Position { return s.Token.Pos }

// ForOfStatement iterates an iterable via the iteration protocol.
type ForOfStatement struct {
	Token    lexer.Token
	Kind     string
	Pattern  Pattern
	Iterable Expression
	Body     Statement
}

func (s *ForOfStatement) statementNode()       {}
func (s *ForOfStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ForOfStatement) String() string {
	return "for (" + s.Pattern.String() + " of " + s.Iterable.String() + ") " + s.Body.String()
}
func (s *ForOfStatement) Pos() lexer.Position { return s.Token.Pos }

// FunctionDeclaration declares a named function in the enclosing scope.
type FunctionDeclaration struct {
	Token    lexer.Token
	Function *FunctionLiteral
}

func (s *FunctionDeclaration) statementNode()       {}
func (s *FunctionDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *FunctionDeclaration) String() string       { return s.Function.String() }
func (s *FunctionDeclaration) Pos() lexer.Position  { return s.Token.Pos }

// ReturnStatement returns from the enclosing function.
type ReturnStatement struct {
	Token lexer.Token
	Value Expression // nil returns undefined
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) String() string {
	if s.Value != nil {
		return "return " + s.Value.String() + ";"
	}
	return "return;"
}
func (s *ReturnStatement) Pos() lexer.Position { return s.Token.Pos }

// BreakStatement exits the nearest (or labeled) loop or switch.
type BreakStatement struct {
	Token lexer.Token
	Label string
}

func (s *BreakStatement) statementNode()       {}
func (s *BreakStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BreakStatement) String() string       { return "break;" }
func (s *BreakStatement) Pos() lexer.Position  { return s.Token.Pos }

// ContinueStatement continues the nearest (or labeled) loop.
type ContinueStatement struct {
	Token lexer.Token
	Label string
}

func (s *ContinueStatement) statementNode()       {}
func (s *ContinueStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ContinueStatement) String() string       { return "continue;" }
func (s *ContinueStatement) Pos() lexer.Position  { return s.Token.Pos }

// LabeledStatement names a statement so break/continue can target it.
type LabeledStatement struct {
	Token lexer.Token
	Label string
	Body  Statement
}

func (s *LabeledStatement) statementNode()       {}
func (s *LabeledStatement) TokenLiteral() string { return s.Token.Literal }
func (s *LabeledStatement) String() string       { return s.Label + ": " + s.Body.String() }
func (s *LabeledStatement) Pos() lexer.Position  { return s.Token.Pos }

// ThrowStatement raises a user value.
type ThrowStatement struct {
	Token lexer.Token
	Value Expression
}

func (s *ThrowStatement) statementNode()       {}
func (s *ThrowStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ThrowStatement) String() string       { return "throw " + s.Value.String() + ";" }
func (s *ThrowStatement) Pos() lexer.Position  { return s.Token.Pos }

// TryStatement is try/catch/finally. CatchParam may be nil for a bare
// catch clause.
type TryStatement struct {
	Token      lexer.Token
	Block      *BlockStatement
	CatchParam Pattern         // nil for catch {}
	Catch      *BlockStatement // nil when no catch clause
	Finally    *BlockStatement // nil when no finally clause
}

func (s *TryStatement) statementNode()       {}
func (s *TryStatement) TokenLiteral() string { return s.Token.Literal }
func (s *TryStatement) String() string       { return "try " + s.Block.String() }
func (s *TryStatement) Pos() lexer.Position  { return s.Token.Pos }

// SwitchCase is one case (or default, when Test is nil) of a switch.
type SwitchCase struct {
	Test Expression
	Body []Statement
}

// SwitchStatement dispatches on strict equality against case tests.
type SwitchStatement struct {
	Token        lexer.Token
	Discriminant Expression
	Cases        []SwitchCase
}

func (s *SwitchStatement) statementNode()       {}
func (s *SwitchStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SwitchStatement) String() string       { return "switch (" + s.Discriminant.String() + ") {...}" }
func (s *SwitchStatement) Pos() lexer.Position  { return s.Token.Pos }
