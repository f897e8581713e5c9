package ast

import "github.com/cwbudde/go-jsvm/internal/lexer"

// ClassMethodKind distinguishes plain methods from accessors.
type ClassMethodKind int

const (
	MethodKindMethod ClassMethodKind = iota
	MethodKindGetter
	MethodKindSetter
)

// ClassMethod is one method, getter, or setter of a class body.
type ClassMethod struct {
	Name     string
	Function *FunctionLiteral
	Kind     ClassMethodKind
	Static   bool
}

// ClassDeclaration declares a class with an optional parent.
type ClassDeclaration struct {
	Token       lexer.Token
	Name        string
	Parent      string // empty when the class has no extends clause
	Constructor *FunctionLiteral
	Methods     []ClassMethod
}

func (s *ClassDeclaration) statementNode()       {}
func (s *ClassDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *ClassDeclaration) String() string {
	out := "class " + s.Name
	if s.Parent != "" {
		out += " extends " + s.Parent
	}
	return out + " {...}"
}
func (s *ClassDeclaration) Pos() lexer.Position { return s.Token.Pos }
