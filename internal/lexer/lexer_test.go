package lexer

import "testing"

func lexTypes(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	return tokens
}

func TestBasicTokens(t *testing.T) {
	tokens := lexTypes(t, `let x = 10 + 2.5;`)
	want := []struct {
		typ TokenType
		lit string
	}{
		{LET, "let"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{NUMBER, "10"},
		{PLUS, "+"},
		{NUMBER, "2.5"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for idx, w := range want {
		if tokens[idx].Type != w.typ || tokens[idx].Literal != w.lit {
			t.Errorf("token %d = %s %q, want %s %q", idx, tokens[idx].Type, tokens[idx].Literal, w.typ, w.lit)
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	tokens := lexTypes(t, `=== !== == != <= >= && || ?? ?. => ... ++ -- **`)
	want := []TokenType{
		STRICTEQ, STRICTNE, EQ, NOTEQ, LTEQ, GTEQ, AND, OR, NULLISH,
		OPTCHAIN, ARROW, SPREAD, INC, DEC, POWER, EOF,
	}
	for idx, typ := range want {
		if tokens[idx].Type != typ {
			t.Errorf("token %d = %s, want %s", idx, tokens[idx].Type, typ)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tokens := lexTypes(t, `"a\nb" 'c\td'`)
	if tokens[0].Literal != "a\nb" {
		t.Errorf("double-quoted literal = %q", tokens[0].Literal)
	}
	if tokens[1].Literal != "c\td" {
		t.Errorf("single-quoted literal = %q", tokens[1].Literal)
	}
}

func TestNumberForms(t *testing.T) {
	tokens := lexTypes(t, `0xff 0b101 0o17 1e3 1.5e-2`)
	want := []string{"0xff", "0b101", "0o17", "1e3", "1.5e-2"}
	for idx, lit := range want {
		if tokens[idx].Type != NUMBER || tokens[idx].Literal != lit {
			t.Errorf("token %d = %s %q, want NUMBER %q", idx, tokens[idx].Type, tokens[idx].Literal, lit)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	tokens := lexTypes(t, "a // line\n/* block\nstill */ b")
	if tokens[0].Literal != "a" || tokens[1].Literal != "b" || tokens[2].Type != EOF {
		t.Errorf("comments must vanish, got %v", tokens)
	}
}

func TestRegexVersusDivision(t *testing.T) {
	// After a value, '/' is division.
	tokens := lexTypes(t, `x / 2`)
	if tokens[1].Type != SLASH {
		t.Errorf("expected division, got %s", tokens[1].Type)
	}

	// In expression position, '/' starts a regex literal.
	tokens = lexTypes(t, `x = /ab+c/gi`)
	if tokens[2].Type != REGEX {
		t.Fatalf("expected REGEX, got %s %q", tokens[2].Type, tokens[2].Literal)
	}
	if tokens[2].Literal != "/ab+c/gi" {
		t.Errorf("regex literal = %q", tokens[2].Literal)
	}

	// Character classes may contain an unescaped slash.
	tokens = lexTypes(t, `y = /[/]/`)
	if tokens[2].Type != REGEX || tokens[2].Literal != "/[/]/" {
		t.Errorf("class regex = %s %q", tokens[2].Type, tokens[2].Literal)
	}
}

func TestTemplateLiteralCapturesRawBody(t *testing.T) {
	tokens := lexTypes(t, "`hi ${name} and ${a + b}`")
	if tokens[0].Type != TEMPLATE {
		t.Fatalf("expected TEMPLATE, got %s", tokens[0].Type)
	}
	if tokens[0].Literal != "hi ${name} and ${a + b}" {
		t.Errorf("template body = %q", tokens[0].Literal)
	}
}

func TestPositionsAreRuneColumns(t *testing.T) {
	tokens := lexTypes(t, "let Δ = 1")
	// Δ is one rune wide, so '=' lands at column 7.
	if tokens[2].Pos.Column != 7 {
		t.Errorf("'=' column = %d, want 7", tokens[2].Pos.Column)
	}
	if tokens[0].Pos.Line != 1 {
		t.Errorf("line = %d", tokens[0].Pos.Line)
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	_, err := Lex(`"abc`)
	if err == nil {
		t.Fatal("unterminated string must error")
	}
}

func TestKeywordLookup(t *testing.T) {
	if LookupIdent("while") != WHILE {
		t.Error("while must be a keyword")
	}
	if LookupIdent("whilst") != IDENT {
		t.Error("whilst must be an identifier")
	}
}
