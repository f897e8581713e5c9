// Package parser implements a Pratt parser producing the typed AST the
// execution core consumes. It is a thin collaborator of the core: its
// only contract is the shape of the nodes it emits.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/lexer"
)

// Error is a syntax error with position information.
type Error struct {
	Message string
	Pos     lexer.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("SyntaxError: %s at line %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

// Operator precedence levels, lowest binds loosest.
const (
	precLowest = iota
	precAssign
	precTernary
	precNullish
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precPower
	precUnary
	precPostfix
	precCall
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:         precAssign,
	lexer.PLUSASSIGN:     precAssign,
	lexer.MINUSASSIGN:    precAssign,
	lexer.ASTERISKASSIGN: precAssign,
	lexer.SLASHASSIGN:    precAssign,
	lexer.PERCENTASSIGN:  precAssign,
	lexer.QUESTION:       precTernary,
	lexer.NULLISH:        precNullish,
	lexer.OR:             precOr,
	lexer.AND:            precAnd,
	lexer.EQ:             precEquality,
	lexer.NOTEQ:          precEquality,
	lexer.STRICTEQ:       precEquality,
	lexer.STRICTNE:       precEquality,
	lexer.LT:             precRelational,
	lexer.GT:             precRelational,
	lexer.LTEQ:           precRelational,
	lexer.GTEQ:           precRelational,
	lexer.IN:             precRelational,
	lexer.INSTANCEOF:     precRelational,
	lexer.PLUS:           precAdditive,
	lexer.MINUS:          precAdditive,
	lexer.ASTERISK:       precMultiplicative,
	lexer.SLASH:          precMultiplicative,
	lexer.PERCENT:        precMultiplicative,
	lexer.POWER:          precPower,
	lexer.INC:            precPostfix,
	lexer.DEC:            precPostfix,
	lexer.LPAREN:         precCall,
	lexer.DOT:            precCall,
	lexer.LBRACKET:       precCall,
	lexer.OPTCHAIN:       precCall,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a token stream and produces an *ast.Program.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []*Error

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New creates a parser over the given token stream.
func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:     p.parseIdentifier,
		lexer.NUMBER:    p.parseNumberLiteral,
		lexer.STRING:    p.parseStringLiteral,
		lexer.TEMPLATE:  p.parseTemplateLiteral,
		lexer.REGEX:     p.parseRegexLiteral,
		lexer.TRUE:      p.parseBooleanLiteral,
		lexer.FALSE:     p.parseBooleanLiteral,
		lexer.NULL:      p.parseNullLiteral,
		lexer.UNDEFINED: p.parseUndefinedLiteral,
		lexer.BANG:      p.parseUnaryExpression,
		lexer.MINUS:     p.parseUnaryExpression,
		lexer.PLUS:      p.parseUnaryExpression,
		lexer.TYPEOF:    p.parseUnaryExpression,
		lexer.DELETE:    p.parseUnaryExpression,
		lexer.INC:       p.parsePrefixUpdate,
		lexer.DEC:       p.parsePrefixUpdate,
		lexer.LPAREN:    p.parseParenOrArrow,
		lexer.LBRACKET:  p.parseArrayLiteral,
		lexer.LBRACE:    p.parseObjectLiteral,
		lexer.FUNCTION:  p.parseFunctionExpression,
		lexer.ASYNC:     p.parseAsyncExpression,
		lexer.NEW:       p.parseNewExpression,
		lexer.THIS:      p.parseThisExpression,
		lexer.SUPER:     p.parseSuperExpression,
		lexer.AWAIT:     p.parseAwaitExpression,
		lexer.YIELD:     p.parseYieldExpression,
		lexer.SPREAD:    p.parseSpreadExpression,
		lexer.GET:       p.parseIdentifier,
		lexer.SET:       p.parseIdentifier,
		lexer.OF:        p.parseIdentifier,
		lexer.FROM:      p.parseIdentifier,
		lexer.AS:        p.parseIdentifier,
		lexer.STATIC:    p.parseIdentifier,
	}

	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:           p.parseBinaryExpression,
		lexer.MINUS:          p.parseBinaryExpression,
		lexer.ASTERISK:       p.parseBinaryExpression,
		lexer.SLASH:          p.parseBinaryExpression,
		lexer.PERCENT:        p.parseBinaryExpression,
		lexer.POWER:          p.parseBinaryExpression,
		lexer.EQ:             p.parseBinaryExpression,
		lexer.NOTEQ:          p.parseBinaryExpression,
		lexer.STRICTEQ:       p.parseBinaryExpression,
		lexer.STRICTNE:       p.parseBinaryExpression,
		lexer.LT:             p.parseBinaryExpression,
		lexer.GT:             p.parseBinaryExpression,
		lexer.LTEQ:           p.parseBinaryExpression,
		lexer.GTEQ:           p.parseBinaryExpression,
		lexer.IN:             p.parseBinaryExpression,
		lexer.INSTANCEOF:     p.parseBinaryExpression,
		lexer.AND:            p.parseLogicalExpression,
		lexer.OR:             p.parseLogicalExpression,
		lexer.NULLISH:        p.parseLogicalExpression,
		lexer.QUESTION:       p.parseConditionalExpression,
		lexer.ASSIGN:         p.parseAssignExpression,
		lexer.PLUSASSIGN:     p.parseAssignExpression,
		lexer.MINUSASSIGN:    p.parseAssignExpression,
		lexer.ASTERISKASSIGN: p.parseAssignExpression,
		lexer.SLASHASSIGN:    p.parseAssignExpression,
		lexer.PERCENTASSIGN:  p.parseAssignExpression,
		lexer.INC:            p.parsePostfixUpdate,
		lexer.DEC:            p.parsePostfixUpdate,
		lexer.LPAREN:         p.parseCallExpression,
		lexer.DOT:            p.parseMemberExpression,
		lexer.OPTCHAIN:       p.parseOptionalChain,
		lexer.LBRACKET:       p.parseComputedMemberExpression,
	}

	return p
}

// Parse lexes and parses source into a program.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	p := New(tokens)
	program := p.ParseProgram()
	if len(p.errors) > 0 {
		return program, p.errors[0]
	}
	return program, nil
}

// Errors returns the accumulated syntax errors.
func (p *Parser) Errors() []*Error { return p.errors }

// ParseProgram parses the full token stream.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	return program
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) next() { p.pos++ }

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur().Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek().Type == t }

// expect consumes the current token when it matches, or records an error.
func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	tok := p.cur()
	if tok.Type != t {
		p.addError(fmt.Sprintf("expected %s, got %s (%q)", t, tok.Type, tok.Literal), tok.Pos)
		return tok
	}
	p.next()
	return tok
}

// eat consumes the current token when it matches and reports success.
func (p *Parser) eat(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) addError(msg string, pos lexer.Position) {
	p.errors = append(p.errors, &Error{Message: msg, Pos: pos})
	// Skip the offending token so the parser makes progress.
	if !p.curIs(lexer.EOF) {
		p.next()
	}
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur().Type]; ok {
		return prec
	}
	return precLowest
}

// identName returns the identifier-like name of tok (keywords usable as
// property names included).
func identName(tok lexer.Token) string { return tok.Literal }

// isIdentLike reports whether tok can serve as a property name.
func isIdentLike(tok lexer.Token) bool {
	if tok.Type == lexer.IDENT || lexer.IsContextualKeyword(tok.Type) {
		return true
	}
	// Reserved words are valid property names after a dot or in literals.
	return len(tok.Literal) > 0 && lexer.LookupIdent(strings.ToLower(tok.Literal)) != lexer.IDENT &&
		tok.Type != lexer.EOF && isWordToken(tok)
}

func isWordToken(tok lexer.Token) bool {
	for _, r := range tok.Literal {
		if !(r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return tok.Literal != ""
}

func parseNumberToken(lit string) float64 {
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		n, _ := strconv.ParseUint(lit[2:], 16, 64)
		return float64(n)
	}
	if strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B") {
		n, _ := strconv.ParseUint(lit[2:], 2, 64)
		return float64(n)
	}
	if strings.HasPrefix(lit, "0o") || strings.HasPrefix(lit, "0O") {
		n, _ := strconv.ParseUint(lit[2:], 8, 64)
		return float64(n)
	}
	f, _ := strconv.ParseFloat(lit, 64)
	return f
}
