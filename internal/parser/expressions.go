package parser

import (
	"strings"

	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/lexer"
)

// parseExpression is the Pratt core: parse a prefix, then fold infix
// operators while they bind tighter than minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	prefix := p.prefixFns[p.cur().Type]
	if prefix == nil {
		p.addError("unexpected token "+string(p.cur().Type), p.cur().Pos)
		return &ast.UndefinedLiteral{Token: p.cur()}
	}
	left := prefix()

	for !p.curIs(lexer.EOF) && minPrec < p.curPrecedence() {
		infix := p.infixFns[p.cur().Type]
		if infix == nil {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.cur()
	// ident => body is a single-parameter arrow function.
	if p.peekIs(lexer.ARROW) {
		return p.parseArrowFromParams(tok, []*ast.Param{{Pattern: &ast.IdentifierPattern{Name: tok.Literal}}}, false)
	}
	p.next()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.cur()
	p.next()
	return &ast.NumberLiteral{Token: tok, Value: parseNumberToken(tok.Literal)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur()
	p.next()
	return &ast.StringLiteral{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.cur()
	p.next()
	return &ast.BooleanLiteral{Token: tok, Value: tok.Type == lexer.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	tok := p.cur()
	p.next()
	return &ast.NullLiteral{Token: tok}
}

func (p *Parser) parseUndefinedLiteral() ast.Expression {
	tok := p.cur()
	p.next()
	return &ast.UndefinedLiteral{Token: tok}
}

func (p *Parser) parseRegexLiteral() ast.Expression {
	tok := p.cur()
	p.next()
	lit := tok.Literal
	end := strings.LastIndexByte(lit, '/')
	pattern := ""
	flags := ""
	if end > 0 {
		pattern = lit[1:end]
		flags = lit[end+1:]
	}
	return &ast.RegexLiteral{Token: tok, Pattern: pattern, Flags: flags}
}

// parseTemplateLiteral splits the raw template body into string chunks
// and ${...} interpolations; each interpolation is parsed recursively.
func (p *Parser) parseTemplateLiteral() ast.Expression {
	tok := p.cur()
	p.next()
	raw := tok.Literal

	var parts []ast.TemplatePart
	var sb strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case '`', '\\', '$':
				sb.WriteByte(raw[i+1])
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(raw[i])
				sb.WriteByte(raw[i+1])
			}
			i += 2
			continue
		}
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			if sb.Len() > 0 {
				parts = append(parts, ast.TemplatePart{Str: sb.String()})
				sb.Reset()
			}
			depth := 1
			j := i + 2
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			exprSrc := raw[i+2 : j-1]
			expr := p.parseSubExpression(exprSrc, tok.Pos)
			parts = append(parts, ast.TemplatePart{Expr: expr})
			i = j
			continue
		}
		sb.WriteByte(raw[i])
		i++
	}
	if sb.Len() > 0 {
		parts = append(parts, ast.TemplatePart{Str: sb.String()})
	}

	return &ast.TemplateLiteral{Token: tok, Parts: parts}
}

// parseSubExpression parses an embedded expression source (template
// interpolations) with a fresh lexer and parser.
func (p *Parser) parseSubExpression(src string, pos lexer.Position) ast.Expression {
	tokens, err := lexer.Lex(src)
	if err != nil {
		p.errors = append(p.errors, &Error{Message: err.Error(), Pos: pos})
		return &ast.UndefinedLiteral{}
	}
	sub := New(tokens)
	expr := sub.parseExpression(precLowest)
	p.errors = append(p.errors, sub.errors...)
	return expr
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.cur()
	p.next()
	op := tok.Literal
	if tok.Type == lexer.TYPEOF {
		op = "typeof"
	}
	if tok.Type == lexer.DELETE {
		op = "delete"
	}
	operand := p.parseExpression(precUnary)
	return &ast.UnaryExpression{Token: tok, Op: op, Operand: operand}
}

func (p *Parser) parsePrefixUpdate() ast.Expression {
	tok := p.cur()
	p.next()
	target := p.parseExpression(precUnary)
	return &ast.UpdateExpression{Token: tok, Target: target, Op: tok.Literal, Prefix: true}
}

func (p *Parser) parsePostfixUpdate(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.next()
	return &ast.UpdateExpression{Token: tok, Target: left, Op: tok.Literal}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.cur()
	prec := p.curPrecedence()
	p.next()
	op := tok.Literal
	if tok.Type == lexer.IN {
		op = "in"
	}
	if tok.Type == lexer.INSTANCEOF {
		op = "instanceof"
	}
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Token: tok, Left: left, Op: op, Right: right}
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	tok := p.cur()
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return &ast.LogicalExpression{Token: tok, Left: left, Op: tok.Literal, Right: right}
}

func (p *Parser) parseConditionalExpression(cond ast.Expression) ast.Expression {
	tok := p.cur()
	p.expect(lexer.QUESTION)
	then := p.parseExpression(precAssign - 1)
	p.expect(lexer.COLON)
	alt := p.parseExpression(precAssign - 1)
	return &ast.ConditionalExpression{Token: tok, Condition: cond, Then: then, Else: alt}
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.next()
	// Right-associative: a = b = c parses as a = (b = c).
	value := p.parseExpression(precAssign - 1)
	switch left.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.ComputedMemberExpression:
	default:
		p.errors = append(p.errors, &Error{Message: "invalid assignment target", Pos: tok.Pos})
	}
	return &ast.AssignExpression{Token: tok, Target: left, Op: tok.Literal, Value: value}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.cur()
	args := p.parseArgumentList()
	return &ast.CallExpression{Token: tok, Callee: callee, Arguments: args}
}

// parseArgumentList consumes "(" args ")".
func (p *Parser) parseArgumentList() []ast.Expression {
	p.expect(lexer.LPAREN)
	var args []ast.Expression
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseExpression(precLowest))
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	tok := p.cur()
	p.expect(lexer.DOT)
	prop := p.cur()
	if !isIdentLike(prop) {
		p.addError("expected property name after '.'", prop.Pos)
		return object
	}
	p.next()
	return &ast.MemberExpression{Token: tok, Object: object, Property: identName(prop)}
}

func (p *Parser) parseOptionalChain(object ast.Expression) ast.Expression {
	tok := p.cur()
	p.expect(lexer.OPTCHAIN)
	if p.curIs(lexer.LPAREN) {
		args := p.parseArgumentList()
		return &ast.CallExpression{Token: tok, Callee: object, Arguments: args, Optional: true}
	}
	prop := p.cur()
	if !isIdentLike(prop) {
		p.addError("expected property name after '?.'", prop.Pos)
		return object
	}
	p.next()
	return &ast.MemberExpression{Token: tok, Object: object, Property: identName(prop), Optional: true}
}

func (p *Parser) parseComputedMemberExpression(object ast.Expression) ast.Expression {
	tok := p.cur()
	p.expect(lexer.LBRACKET)
	prop := p.parseExpression(precLowest)
	p.expect(lexer.RBRACKET)
	return &ast.ComputedMemberExpression{Token: tok, Object: object, Property: prop}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.cur()
	p.expect(lexer.LBRACKET)
	var elements []ast.Expression
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.COMMA) {
			// Elision hole.
			elements = append(elements, &ast.UndefinedLiteral{Token: p.cur()})
			p.next()
			continue
		}
		elements = append(elements, p.parseExpression(precLowest))
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	return &ast.ArrayLiteral{Token: tok, Elements: elements}
}

func (p *Parser) parseSpreadExpression() ast.Expression {
	tok := p.cur()
	p.expect(lexer.SPREAD)
	arg := p.parseExpression(precAssign - 1)
	return &ast.SpreadExpression{Token: tok, Argument: arg}
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	tok := p.cur()
	p.expect(lexer.LBRACE)
	var props []ast.ObjectProperty

	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		switch {
		case p.curIs(lexer.SPREAD):
			p.next()
			props = append(props, ast.ObjectProperty{
				Spread: true,
				Value:  p.parseExpression(precAssign - 1),
			})

		case (p.curIs(lexer.GET) || p.curIs(lexer.SET)) && isIdentLike(p.peek()) && p.peekAt(2).Type == lexer.LPAREN:
			isGetter := p.curIs(lexer.GET)
			p.next()
			name := p.cur()
			p.next()
			fn := p.parseFunctionRest(name.Literal, false, false)
			props = append(props, ast.ObjectProperty{
				Key: name.Literal, Value: fn, Getter: isGetter, Setter: !isGetter,
			})

		case p.curIs(lexer.LBRACKET):
			p.next()
			keyExpr := p.parseExpression(precLowest)
			p.expect(lexer.RBRACKET)
			p.expect(lexer.COLON)
			props = append(props, ast.ObjectProperty{
				Computed: keyExpr,
				Value:    p.parseExpression(precAssign - 1),
			})

		default:
			keyTok := p.cur()
			var key string
			switch {
			case keyTok.Type == lexer.STRING, keyTok.Type == lexer.NUMBER:
				key = keyTok.Literal
				p.next()
			case isIdentLike(keyTok):
				key = identName(keyTok)
				p.next()
			default:
				p.addError("invalid property key", keyTok.Pos)
				continue
			}

			switch {
			case p.curIs(lexer.LPAREN):
				// Shorthand method: foo() {}
				fn := p.parseFunctionRest(key, false, false)
				props = append(props, ast.ObjectProperty{Key: key, Value: fn})
			case p.curIs(lexer.COLON):
				p.next()
				props = append(props, ast.ObjectProperty{Key: key, Value: p.parseExpression(precAssign - 1)})
			default:
				// Shorthand {a} binds the identifier of the same name.
				props = append(props, ast.ObjectProperty{
					Key:   key,
					Value: &ast.Identifier{Token: keyTok, Value: key},
				})
			}
		}

		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.ObjectLiteral{Token: tok, Properties: props}
}

func (p *Parser) parseThisExpression() ast.Expression {
	tok := p.cur()
	p.next()
	return &ast.ThisExpression{Token: tok}
}

func (p *Parser) parseSuperExpression() ast.Expression {
	tok := p.cur()
	p.next()
	if p.curIs(lexer.LPAREN) {
		args := p.parseArgumentList()
		return &ast.SuperCallExpression{Token: tok, Arguments: args}
	}
	p.expect(lexer.DOT)
	prop := p.cur()
	p.next()
	return &ast.SuperMemberExpression{Token: tok, Property: identName(prop)}
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	tok := p.cur()
	p.next()
	operand := p.parseExpression(precUnary)
	return &ast.AwaitExpression{Token: tok, Operand: operand}
}

func (p *Parser) parseYieldExpression() ast.Expression {
	tok := p.cur()
	p.next()
	delegate := p.eat(lexer.ASTERISK)
	var operand ast.Expression
	if !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.RPAREN) &&
		!p.curIs(lexer.RBRACKET) && !p.curIs(lexer.COMMA) && !p.curIs(lexer.EOF) {
		operand = p.parseExpression(precAssign - 1)
	}
	return &ast.YieldExpression{Token: tok, Operand: operand, Delegate: delegate}
}

func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.cur()
	p.expect(lexer.NEW)
	// Parse the callee as a member chain without consuming the argument
	// list: new a.b.C(args).
	prefix := p.prefixFns[p.cur().Type]
	if prefix == nil {
		p.addError("expected constructor after 'new'", p.cur().Pos)
		return &ast.UndefinedLiteral{Token: tok}
	}
	callee := prefix()
	for p.curIs(lexer.DOT) || p.curIs(lexer.LBRACKET) {
		infix := p.infixFns[p.cur().Type]
		callee = infix(callee)
	}
	var args []ast.Expression
	if p.curIs(lexer.LPAREN) {
		args = p.parseArgumentList()
	}
	expr := ast.Expression(&ast.NewExpression{Token: tok, Callee: callee, Arguments: args})
	// Allow member/call chains on the constructed value.
	for p.curIs(lexer.DOT) || p.curIs(lexer.LBRACKET) || p.curIs(lexer.LPAREN) {
		infix := p.infixFns[p.cur().Type]
		expr = infix(expr)
	}
	return expr
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	p.expect(lexer.FUNCTION)
	isGenerator := p.eat(lexer.ASTERISK)
	name := ""
	if p.curIs(lexer.IDENT) {
		name = p.cur().Literal
		p.next()
	}
	return p.parseFunctionRest(name, false, isGenerator)
}

// parseAsyncExpression handles `async function ...` and `async (...) =>`.
func (p *Parser) parseAsyncExpression() ast.Expression {
	tok := p.cur()
	if p.peekIs(lexer.FUNCTION) {
		p.next()
		p.expect(lexer.FUNCTION)
		isGenerator := p.eat(lexer.ASTERISK)
		name := ""
		if p.curIs(lexer.IDENT) {
			name = p.cur().Literal
			p.next()
		}
		fn := p.parseFunctionRest(name, true, isGenerator)
		return fn
	}
	if p.peekIs(lexer.LPAREN) || (p.peekIs(lexer.IDENT) && p.peekAt(2).Type == lexer.ARROW) {
		p.next()
		expr := p.parseExpression(precAssign - 1)
		if fn, ok := expr.(*ast.FunctionLiteral); ok && fn.IsArrow {
			fn.IsAsync = true
			return fn
		}
		return expr
	}
	// Plain identifier named "async".
	p.next()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

// parseFunctionRest parses "(params) { body }" after any function header.
func (p *Parser) parseFunctionRest(name string, isAsync, isGenerator bool) *ast.FunctionLiteral {
	tok := p.cur()
	params := p.parseParamList()
	body := p.parseBlockStatement()
	return &ast.FunctionLiteral{
		Token:       tok,
		Name:        name,
		Params:      params,
		Body:        body,
		IsAsync:     isAsync,
		IsGenerator: isGenerator,
	}
}

// parseParamList consumes "(" pattern [= default] , ... ")".
func (p *Parser) parseParamList() []*ast.Param {
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		param := &ast.Param{Pattern: p.parsePattern()}
		if p.eat(lexer.ASSIGN) {
			param.Default = p.parseExpression(precAssign - 1)
		}
		params = append(params, param)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

// parseParenOrArrow disambiguates "(expr)" from "(params) => body" by
// scanning ahead for the arrow after the matching close paren.
func (p *Parser) parseParenOrArrow() ast.Expression {
	tok := p.cur()
	if p.isArrowAhead() {
		params := p.parseParamList()
		return p.parseArrowBody(tok, params, false)
	}
	p.expect(lexer.LPAREN)
	expr := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN)
	return expr
}

// isArrowAhead reports whether the current "(" opens an arrow-function
// parameter list.
func (p *Parser) isArrowAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Type == lexer.ARROW
			}
		case lexer.EOF:
			return false
		}
	}
	return false
}

// parseArrowFromParams finishes an arrow whose single-identifier param
// was already consumed as the current token.
func (p *Parser) parseArrowFromParams(tok lexer.Token, params []*ast.Param, isAsync bool) ast.Expression {
	p.next() // identifier
	return p.parseArrowBody(tok, params, isAsync)
}

func (p *Parser) parseArrowBody(tok lexer.Token, params []*ast.Param, isAsync bool) ast.Expression {
	p.expect(lexer.ARROW)
	var body *ast.BlockStatement
	if p.curIs(lexer.LBRACE) {
		body = p.parseBlockStatement()
	} else {
		// Expression body is sugar for { return expr; }.
		expr := p.parseExpression(precAssign - 1)
		body = &ast.BlockStatement{
			Token:      tok,
			Statements: []ast.Statement{&ast.ReturnStatement{Token: tok, Value: expr}},
		}
	}
	return &ast.FunctionLiteral{
		Token:   tok,
		Params:  params,
		Body:    body,
		IsArrow: true,
		IsAsync: isAsync,
	}
}
