package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-jsvm/internal/lexer"
)

// Identifier is a variable or function name reference.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }

// NumberLiteral is a numeric literal; Value holds the parsed f64.
type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string       { return n.Token.Literal }
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }

// StringLiteral is a quoted string literal (escapes already applied).
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return "\"" + s.Value + "\"" }
func (s *StringLiteral) Pos() lexer.Position  { return s.Token.Pos }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }
func (b *BooleanLiteral) Pos() lexer.Position  { return b.Token.Pos }

// NullLiteral is the null literal.
type NullLiteral struct {
	Token lexer.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }
func (n *NullLiteral) Pos() lexer.Position  { return n.Token.Pos }

// UndefinedLiteral is the undefined literal.
type UndefinedLiteral struct {
	Token lexer.Token
}

func (u *UndefinedLiteral) expressionNode()      {}
func (u *UndefinedLiteral) TokenLiteral() string { return u.Token.Literal }
func (u *UndefinedLiteral) String() string       { return "undefined" }
func (u *UndefinedLiteral) Pos() lexer.Position  { return u.Token.Pos }

// RegexLiteral is a /pattern/flags literal.
type RegexLiteral struct {
	Token   lexer.Token
	Pattern string
	Flags   string
}

func (r *RegexLiteral) expressionNode()      {}
func (r *RegexLiteral) TokenLiteral() string { return r.Token.Literal }
func (r *RegexLiteral) String() string       { return "/" + r.Pattern + "/" + r.Flags }
func (r *RegexLiteral) Pos() lexer.Position  { return r.Token.Pos }

// TemplatePart is one segment of a template literal: either a raw string
// chunk or an interpolated expression.
type TemplatePart struct {
	Str  string
	Expr Expression // nil for raw string parts
}

// TemplateLiteral is a backtick template string.
type TemplateLiteral struct {
	Token lexer.Token
	Parts []TemplatePart
}

func (t *TemplateLiteral) expressionNode()      {}
func (t *TemplateLiteral) TokenLiteral() string { return t.Token.Literal }
func (t *TemplateLiteral) String() string       { return "`" + t.Token.Literal + "`" }
func (t *TemplateLiteral) Pos() lexer.Position  { return t.Token.Pos }

// ArrayLiteral is an array expression; spread elements appear as SpreadExpr.
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *ArrayLiteral) Pos() lexer.Position { return a.Token.Pos }

// ObjectProperty is one entry of an object literal.
type ObjectProperty struct {
	Key      string     // literal key, empty when Computed or Spread
	Computed Expression // [expr] key, nil otherwise
	Value    Expression
	Spread   bool // {...expr}
	Getter   bool // get key() {}
	Setter   bool // set key(v) {}
}

// ObjectLiteral is an object expression.
type ObjectLiteral struct {
	Token      lexer.Token
	Properties []ObjectProperty
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for i, p := range o.Properties {
		if i > 0 {
			out.WriteString(", ")
		}
		if p.Spread {
			out.WriteString("..." + p.Value.String())
			continue
		}
		out.WriteString(p.Key + ": " + p.Value.String())
	}
	out.WriteString("}")
	return out.String()
}
func (o *ObjectLiteral) Pos() lexer.Position { return o.Token.Pos }

// FunctionLiteral is a function expression, declaration body, or arrow
// function. Arrow functions have IsArrow set and inherit `this`.
type FunctionLiteral struct {
	Token       lexer.Token
	Name        string
	Params      []*Param
	Body        *BlockStatement
	IsAsync     bool
	IsGenerator bool
	IsArrow     bool
}

func (f *FunctionLiteral) expressionNode()      {}
func (f *FunctionLiteral) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionLiteral) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	prefix := "function"
	if f.IsAsync {
		prefix = "async " + prefix
	}
	if f.IsGenerator {
		prefix += "*"
	}
	return prefix + " " + f.Name + "(" + strings.Join(params, ", ") + ") " + f.Body.String()
}
func (f *FunctionLiteral) Pos() lexer.Position { return f.Token.Pos }

// CallExpression is a function call.
type CallExpression struct {
	Token     lexer.Token
	Callee    Expression
	Arguments []Expression
	Optional  bool // callee?.(...)
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (c *CallExpression) Pos() lexer.Position { return c.Token.Pos }

// NewExpression is `new Callee(args)`.
type NewExpression struct {
	Token     lexer.Token
	Callee    Expression
	Arguments []Expression
}

func (n *NewExpression) expressionNode()      {}
func (n *NewExpression) TokenLiteral() string { return n.Token.Literal }
func (n *NewExpression) String() string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = a.String()
	}
	return "new " + n.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (n *NewExpression) Pos() lexer.Position { return n.Token.Pos }

// MemberExpression is `object.property` access.
type MemberExpression struct {
	Token    lexer.Token
	Object   Expression
	Property string
	Optional bool // object?.property
}

func (m *MemberExpression) expressionNode()      {}
func (m *MemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpression) String() string       { return m.Object.String() + "." + m.Property }
func (m *MemberExpression) Pos() lexer.Position  { return m.Token.Pos }

// ComputedMemberExpression is `object[property]` access.
type ComputedMemberExpression struct {
	Token    lexer.Token
	Object   Expression
	Property Expression
}

func (m *ComputedMemberExpression) expressionNode()      {}
func (m *ComputedMemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *ComputedMemberExpression) String() string {
	return m.Object.String() + "[" + m.Property.String() + "]"
}
func (m *ComputedMemberExpression) Pos() lexer.Position { return m.Token.Pos }

// AssignExpression assigns Value to Target. Op is "=" or a compound
// operator ("+=", "-=", "*=", "/=", "%="). Target is an Identifier,
// MemberExpression, or ComputedMemberExpression.
type AssignExpression struct {
	Token  lexer.Token
	Target Expression
	Op     string
	Value  Expression
}

func (a *AssignExpression) expressionNode()      {}
func (a *AssignExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignExpression) String() string {
	return a.Target.String() + " " + a.Op + " " + a.Value.String()
}
func (a *AssignExpression) Pos() lexer.Position { return a.Token.Pos }

// UpdateExpression is ++/-- applied to Target.
type UpdateExpression struct {
	Token  lexer.Token
	Target Expression
	Op     string // "++" or "--"
	Prefix bool
}

func (u *UpdateExpression) expressionNode()      {}
func (u *UpdateExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UpdateExpression) String() string {
	if u.Prefix {
		return u.Op + u.Target.String()
	}
	return u.Target.String() + u.Op
}
func (u *UpdateExpression) Pos() lexer.Position { return u.Token.Pos }

// BinaryExpression is an arithmetic, relational, or equality operation.
type BinaryExpression struct {
	Token lexer.Token
	Left  Expression
	Op    string
	Right Expression
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}
func (b *BinaryExpression) Pos() lexer.Position { return b.Token.Pos }

// LogicalExpression is &&, || or ?? with short-circuit evaluation.
type LogicalExpression struct {
	Token lexer.Token
	Left  Expression
	Op    string
	Right Expression
}

func (l *LogicalExpression) expressionNode()      {}
func (l *LogicalExpression) TokenLiteral() string { return l.Token.Literal }
func (l *LogicalExpression) String() string {
	return "(" + l.Left.String() + " " + l.Op + " " + l.Right.String() + ")"
}
func (l *LogicalExpression) Pos() lexer.Position { return l.Token.Pos }

// UnaryExpression is a prefix operator: -, !, typeof, delete, +.
type UnaryExpression struct {
	Token   lexer.Token
	Op      string
	Operand Expression
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) String() string       { return "(" + u.Op + u.Operand.String() + ")" }
func (u *UnaryExpression) Pos() lexer.Position  { return u.Token.Pos }

// ConditionalExpression is the ternary cond ? then : else.
type ConditionalExpression struct {
	Token     lexer.Token
	Condition Expression
	Then      Expression
	Else      Expression
}

func (c *ConditionalExpression) expressionNode()      {}
func (c *ConditionalExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ConditionalExpression) String() string {
	return "(" + c.Condition.String() + " ? " + c.Then.String() + " : " + c.Else.String() + ")"
}
func (c *ConditionalExpression) Pos() lexer.Position { return c.Token.Pos }

// SpreadExpression is `...expr` in call arguments and array literals.
type SpreadExpression struct {
	Token    lexer.Token
	Argument Expression
}

func (s *SpreadExpression) expressionNode()      {}
func (s *SpreadExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SpreadExpression) String() string       { return "..." + s.Argument.String() }
func (s *SpreadExpression) Pos() lexer.Position  { return s.Token.Pos }

// AwaitExpression suspends an async function until the operand settles.
type AwaitExpression struct {
	Token   lexer.Token
	Operand Expression
}

func (a *AwaitExpression) expressionNode()      {}
func (a *AwaitExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AwaitExpression) String() string       { return "await " + a.Operand.String() }
func (a *AwaitExpression) Pos() lexer.Position  { return a.Token.Pos }

// YieldExpression yields a value from a generator.
type YieldExpression struct {
	Token    lexer.Token
	Operand  Expression // nil for bare yield
	Delegate bool       // yield*
}

func (y *YieldExpression) expressionNode()      {}
func (y *YieldExpression) TokenLiteral() string { return y.Token.Literal }
func (y *YieldExpression) String() string {
	s := "yield"
	if y.Delegate {
		s += "*"
	}
	if y.Operand != nil {
		s += " " + y.Operand.String()
	}
	return s
}
func (y *YieldExpression) Pos() lexer.Position { return y.Token.Pos }

// ThisExpression is the `this` keyword.
type ThisExpression struct {
	Token lexer.Token
}

func (t *ThisExpression) expressionNode()      {}
func (t *ThisExpression) TokenLiteral() string { return t.Token.Literal }
func (t *ThisExpression) String() string       { return "this" }
func (t *ThisExpression) Pos() lexer.Position  { return t.Token.Pos }

// SuperCallExpression is `super(args)` inside a constructor.
type SuperCallExpression struct {
	Token     lexer.Token
	Arguments []Expression
}

func (s *SuperCallExpression) expressionNode()      {}
func (s *SuperCallExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SuperCallExpression) String() string       { return "super(...)" }
func (s *SuperCallExpression) Pos() lexer.Position  { return s.Token.Pos }

// SuperMemberExpression is `super.method` inside a class method.
type SuperMemberExpression struct {
	Token    lexer.Token
	Property string
}

func (s *SuperMemberExpression) expressionNode()      {}
func (s *SuperMemberExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SuperMemberExpression) String() string       { return "super." + s.Property }
func (s *SuperMemberExpression) Pos() lexer.Position  { return s.Token.Pos }
