package parser

import (
	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case lexer.SEMICOLON:
		p.next()
		return nil
	case lexer.VAR, lexer.LET, lexer.CONST:
		return p.parseVarStatement()
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case lexer.ASYNC:
		if p.peekIs(lexer.FUNCTION) {
			p.next()
			return p.parseFunctionDeclaration(true)
		}
		return p.parseExpressionStatement()
	case lexer.CLASS:
		return p.parseClassDeclaration()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.IMPORT:
		return p.parseImportDeclaration()
	case lexer.EXPORT:
		return p.parseExportDeclaration()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.IDENT:
		if p.peekIs(lexer.COLON) {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression(precLowest)
	p.eat(lexer.SEMICOLON)
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

func (p *Parser) parseVarStatement() *ast.VarStatement {
	tok := p.cur()
	kind := ""
	switch tok.Type {
	case lexer.VAR:
		kind = "var"
	case lexer.LET:
		kind = "let"
	case lexer.CONST:
		kind = "const"
	}
	p.next()

	stmt := &ast.VarStatement{Token: tok, Kind: kind}
	for {
		decl := ast.VarDeclarator{Pattern: p.parsePattern()}
		if p.eat(lexer.ASSIGN) {
			decl.Init = p.parseExpression(precAssign - 1)
		}
		stmt.Decls = append(stmt.Decls, decl)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.eat(lexer.SEMICOLON)
	return stmt
}

// parsePattern parses a binding pattern: identifier, array, or object
// destructuring, with rest elements.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur().Type {
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	case lexer.LBRACE:
		return p.parseObjectPattern()
	case lexer.SPREAD:
		p.next()
		return &ast.RestPattern{Target: p.parsePattern()}
	default:
		tok := p.cur()
		if !isIdentLike(tok) {
			p.addError("expected binding name", tok.Pos)
			return &ast.IdentifierPattern{Name: "_"}
		}
		p.next()
		return &ast.IdentifierPattern{Name: tok.Literal}
	}
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	p.expect(lexer.LBRACKET)
	pattern := &ast.ArrayPattern{}
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.COMMA) {
			pattern.Elements = append(pattern.Elements, nil)
			p.next()
			continue
		}
		element := p.parsePattern()
		if p.eat(lexer.ASSIGN) {
			element = &ast.DefaultPattern{Target: element, Default: p.parseExpression(precAssign - 1)}
		}
		pattern.Elements = append(pattern.Elements, element)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	return pattern
}

func (p *Parser) parseObjectPattern() ast.Pattern {
	p.expect(lexer.LBRACE)
	pattern := &ast.ObjectPattern{}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.eat(lexer.SPREAD) {
			rest := p.cur()
			p.next()
			pattern.Properties = append(pattern.Properties, ast.ObjectPatternProp{
				Key: rest.Literal, IsRest: true,
			})
		} else {
			keyTok := p.cur()
			p.next()
			prop := ast.ObjectPatternProp{Key: keyTok.Literal}
			if p.eat(lexer.COLON) {
				prop.Alias = p.parsePattern()
			}
			if p.eat(lexer.ASSIGN) {
				prop.Default = p.parseExpression(precAssign - 1)
			}
			pattern.Properties = append(pattern.Properties, prop)
		}
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return pattern
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.cur()
	p.expect(lexer.LBRACE)
	block := &ast.BlockStatement{Token: tok}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.expect(lexer.RBRACE)
	return block
}

func (p *Parser) parseFunctionDeclaration(isAsync bool) ast.Statement {
	tok := p.cur()
	p.expect(lexer.FUNCTION)
	isGenerator := p.eat(lexer.ASTERISK)
	nameTok := p.expect(lexer.IDENT)
	fn := p.parseFunctionRest(nameTok.Literal, isAsync, isGenerator)
	return &ast.FunctionDeclaration{Token: tok, Function: fn}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.RETURN)
	stmt := &ast.ReturnStatement{Token: tok}
	if !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		stmt.Value = p.parseExpression(precLowest)
	}
	p.eat(lexer.SEMICOLON)
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.IF)
	p.expect(lexer.LPAREN)
	cond := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN)
	then := p.parseStatement()
	stmt := &ast.IfStatement{Token: tok, Condition: cond, Then: then}
	if p.eat(lexer.ELSE) {
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	cond := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.DO)
	body := p.parseStatement()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	cond := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN)
	p.eat(lexer.SEMICOLON)
	return &ast.DoWhileStatement{Token: tok, Body: body, Condition: cond}
}

// parseForStatement disambiguates for(;;), for..in, and for..of.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.FOR)
	p.expect(lexer.LPAREN)

	kind := ""
	switch p.cur().Type {
	case lexer.VAR:
		kind = "var"
	case lexer.LET:
		kind = "let"
	case lexer.CONST:
		kind = "const"
	}

	// for (pattern in/of expr) — look ahead past an optional decl keyword
	// and a binding pattern for the IN/OF keyword.
	if kind != "" || p.curIs(lexer.IDENT) || p.curIs(lexer.LBRACKET) || p.curIs(lexer.LBRACE) {
		save := p.pos
		if kind != "" {
			p.next()
		}
		pattern := p.parsePattern()
		if p.curIs(lexer.IN) || p.curIs(lexer.OF) {
			isOf := p.curIs(lexer.OF)
			p.next()
			obj := p.parseExpression(precLowest)
			p.expect(lexer.RPAREN)
			body := p.parseStatement()
			if isOf {
				return &ast.ForOfStatement{Token: tok, Kind: kind, Pattern: pattern, Iterable: obj, Body: body}
			}
			return &ast.ForInStatement{Token: tok, Kind: kind, Pattern: pattern, Object: obj, Body: body}
		}
		p.pos = save
	}

	stmt := &ast.ForStatement{Token: tok}
	if !p.curIs(lexer.SEMICOLON) {
		if kind != "" {
			stmt.Init = p.parseVarStatement()
		} else {
			stmt.Init = p.parseExpressionStatement()
		}
	} else {
		p.next()
	}
	if !p.curIs(lexer.SEMICOLON) {
		stmt.Condition = p.parseExpression(precLowest)
	}
	p.expect(lexer.SEMICOLON)
	if !p.curIs(lexer.RPAREN) {
		stmt.Update = p.parseExpression(precLowest)
	}
	p.expect(lexer.RPAREN)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseBreakStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.BREAK)
	stmt := &ast.BreakStatement{Token: tok}
	if p.curIs(lexer.IDENT) {
		stmt.Label = p.cur().Literal
		p.next()
	}
	p.eat(lexer.SEMICOLON)
	return stmt
}

func (p *Parser) parseContinueStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.CONTINUE)
	stmt := &ast.ContinueStatement{Token: tok}
	if p.curIs(lexer.IDENT) {
		stmt.Label = p.cur().Literal
		p.next()
	}
	p.eat(lexer.SEMICOLON)
	return stmt
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	tok := p.cur()
	label := tok.Literal
	p.next()
	p.expect(lexer.COLON)
	body := p.parseStatement()
	return &ast.LabeledStatement{Token: tok, Label: label, Body: body}
}

func (p *Parser) parseThrowStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.THROW)
	value := p.parseExpression(precLowest)
	p.eat(lexer.SEMICOLON)
	return &ast.ThrowStatement{Token: tok, Value: value}
}

func (p *Parser) parseTryStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.TRY)
	stmt := &ast.TryStatement{Token: tok, Block: p.parseBlockStatement()}
	if p.eat(lexer.CATCH) {
		if p.eat(lexer.LPAREN) {
			stmt.CatchParam = p.parsePattern()
			p.expect(lexer.RPAREN)
		}
		stmt.Catch = p.parseBlockStatement()
	}
	if p.eat(lexer.FINALLY) {
		stmt.Finally = p.parseBlockStatement()
	}
	if stmt.Catch == nil && stmt.Finally == nil {
		p.addError("missing catch or finally after try", tok.Pos)
	}
	return stmt
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	tok := p.cur()
	p.expect(lexer.SWITCH)
	p.expect(lexer.LPAREN)
	disc := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)

	stmt := &ast.SwitchStatement{Token: tok, Discriminant: disc}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		var c ast.SwitchCase
		if p.eat(lexer.CASE) {
			c.Test = p.parseExpression(precLowest)
		} else {
			p.expect(lexer.DEFAULT)
		}
		p.expect(lexer.COLON)
		for !p.curIs(lexer.CASE) && !p.curIs(lexer.DEFAULT) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			s := p.parseStatement()
			if s != nil {
				c.Body = append(c.Body, s)
			}
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(lexer.RBRACE)
	return stmt
}

func (p *Parser) parseClassDeclaration() ast.Statement {
	tok := p.cur()
	p.expect(lexer.CLASS)
	nameTok := p.expect(lexer.IDENT)
	decl := &ast.ClassDeclaration{Token: tok, Name: nameTok.Literal}
	if p.eat(lexer.EXTENDS) {
		parentTok := p.expect(lexer.IDENT)
		decl.Parent = parentTok.Literal
	}
	p.expect(lexer.LBRACE)

	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.eat(lexer.SEMICOLON) {
			continue
		}
		isStatic := false
		if p.curIs(lexer.STATIC) && !p.peekIs(lexer.LPAREN) {
			isStatic = true
			p.next()
		}
		kind := ast.MethodKindMethod
		if (p.curIs(lexer.GET) || p.curIs(lexer.SET)) && !p.peekIs(lexer.LPAREN) {
			if p.curIs(lexer.GET) {
				kind = ast.MethodKindGetter
			} else {
				kind = ast.MethodKindSetter
			}
			p.next()
		}
		isAsync := false
		if p.curIs(lexer.ASYNC) && !p.peekIs(lexer.LPAREN) {
			isAsync = true
			p.next()
		}
		isGenerator := p.eat(lexer.ASTERISK)

		nameTok := p.cur()
		if !isIdentLike(nameTok) {
			p.addError("expected method name", nameTok.Pos)
			continue
		}
		p.next()
		fn := p.parseFunctionRest(nameTok.Literal, isAsync, isGenerator)

		if nameTok.Literal == "constructor" && kind == ast.MethodKindMethod && !isStatic {
			decl.Constructor = fn
			continue
		}
		decl.Methods = append(decl.Methods, ast.ClassMethod{
			Name:     nameTok.Literal,
			Function: fn,
			Kind:     kind,
			Static:   isStatic,
		})
	}
	p.expect(lexer.RBRACE)
	return decl
}

func (p *Parser) parseImportDeclaration() ast.Statement {
	tok := p.cur()
	p.expect(lexer.IMPORT)
	decl := &ast.ImportDeclaration{Token: tok}

	switch {
	case p.curIs(lexer.STRING):
		// Bare import for side effects.
		decl.Source = p.cur().Literal
		p.next()
	case p.curIs(lexer.ASTERISK):
		p.next()
		p.expect(lexer.AS)
		local := p.expect(lexer.IDENT)
		decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{
			Kind: ast.ImportNamespace, Local: local.Literal,
		})
		p.expect(lexer.FROM)
		decl.Source = p.expect(lexer.STRING).Literal
	default:
		if p.curIs(lexer.IDENT) {
			local := p.cur()
			p.next()
			decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{
				Kind: ast.ImportDefault, Local: local.Literal,
			})
			p.eat(lexer.COMMA)
		}
		if p.eat(lexer.LBRACE) {
			for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
				imported := p.cur()
				p.next()
				local := imported.Literal
				if p.eat(lexer.AS) {
					local = p.cur().Literal
					p.next()
				}
				decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{
					Kind: ast.ImportNamed, Imported: imported.Literal, Local: local,
				})
				if !p.eat(lexer.COMMA) {
					break
				}
			}
			p.expect(lexer.RBRACE)
		}
		p.expect(lexer.FROM)
		decl.Source = p.expect(lexer.STRING).Literal
	}
	p.eat(lexer.SEMICOLON)
	return decl
}

func (p *Parser) parseExportDeclaration() ast.Statement {
	tok := p.cur()
	p.expect(lexer.EXPORT)
	decl := &ast.ExportDeclaration{Token: tok}

	switch {
	case p.eat(lexer.DEFAULT):
		decl.Default = p.parseExpression(precLowest)
		p.eat(lexer.SEMICOLON)
	case p.curIs(lexer.LBRACE):
		p.next()
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			local := p.cur()
			p.next()
			exported := local.Literal
			if p.eat(lexer.AS) {
				exported = p.cur().Literal
				p.next()
			}
			decl.Specifiers = append(decl.Specifiers, ast.ExportSpecifier{
				Local: local.Literal, Exported: exported,
			})
			if !p.eat(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RBRACE)
		p.eat(lexer.SEMICOLON)
	default:
		decl.Declaration = p.parseStatement()
	}
	return decl
}
