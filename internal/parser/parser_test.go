package parser

import (
	"testing"

	"github.com/cwbudde/go-jsvm/internal/ast"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return program
}

func firstExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	program := parseProgram(t, src)
	if len(program.Statements) == 0 {
		t.Fatal("no statements")
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement is %T, not an expression statement", program.Statements[0])
	}
	return stmt.Expression
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"a === b + 1;", "(a === (b + 1))"},
		{"!a && b;", "((!a) && b)"},
		{"a ?? b || c;", "(a ?? (b || c))"},
		{"a < b === c < d;", "((a < b) === (c < d))"},
	}
	for _, tt := range tests {
		expr := firstExpr(t, tt.src)
		if got := expr.String(); got != tt.want {
			t.Errorf("%s => %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestVarStatementKindsAndPatterns(t *testing.T) {
	program := parseProgram(t, `
		var a = 1;
		let [x, , y, ...rest] = arr;
		const {p, q: alias, r = 5, ...others} = obj;
	`)
	if len(program.Statements) != 3 {
		t.Fatalf("got %d statements", len(program.Statements))
	}

	letStmt := program.Statements[1].(*ast.VarStatement)
	if letStmt.Kind != "let" {
		t.Errorf("kind = %q", letStmt.Kind)
	}
	arrPat := letStmt.Decls[0].Pattern.(*ast.ArrayPattern)
	if len(arrPat.Elements) != 4 {
		t.Fatalf("array pattern has %d elements", len(arrPat.Elements))
	}
	if arrPat.Elements[1] != nil {
		t.Error("hole must parse as nil element")
	}
	if _, ok := arrPat.Elements[3].(*ast.RestPattern); !ok {
		t.Error("rest element must parse as RestPattern")
	}

	constStmt := program.Statements[2].(*ast.VarStatement)
	objPat := constStmt.Decls[0].Pattern.(*ast.ObjectPattern)
	if len(objPat.Properties) != 4 {
		t.Fatalf("object pattern has %d properties", len(objPat.Properties))
	}
	if objPat.Properties[1].Alias == nil {
		t.Error("alias must be recorded")
	}
	if objPat.Properties[2].Default == nil {
		t.Error("default must be recorded")
	}
	if !objPat.Properties[3].IsRest {
		t.Error("rest property must be flagged")
	}
}

func TestArrowFunctions(t *testing.T) {
	fn, ok := firstExpr(t, "x => x + 1;").(*ast.FunctionLiteral)
	if !ok || !fn.IsArrow {
		t.Fatal("single-param arrow failed to parse")
	}
	if len(fn.Params) != 1 || fn.Params[0].AsIdentifier() != "x" {
		t.Error("wrong arrow params")
	}
	// Expression body desugars to a return statement.
	if len(fn.Body.Statements) != 1 {
		t.Fatal("expression body must desugar to one statement")
	}
	if _, ok := fn.Body.Statements[0].(*ast.ReturnStatement); !ok {
		t.Error("expression body must become a return")
	}

	fn2, ok := firstExpr(t, "(a, b = 2) => { return a + b; };").(*ast.FunctionLiteral)
	if !ok || !fn2.IsArrow {
		t.Fatal("paren arrow failed to parse")
	}
	if len(fn2.Params) != 2 || fn2.Params[1].Default == nil {
		t.Error("defaults must parse in arrow params")
	}
}

func TestAsyncAndGeneratorFunctions(t *testing.T) {
	program := parseProgram(t, `
		async function f() { await g(); }
		function* gen() { yield 1; yield* inner(); }
	`)
	f := program.Statements[0].(*ast.FunctionDeclaration).Function
	if !f.IsAsync {
		t.Error("async flag missing")
	}
	gen := program.Statements[1].(*ast.FunctionDeclaration).Function
	if !gen.IsGenerator {
		t.Error("generator flag missing")
	}
	yieldStmt := gen.Body.Statements[1].(*ast.ExpressionStatement)
	if y, ok := yieldStmt.Expression.(*ast.YieldExpression); !ok || !y.Delegate {
		t.Error("yield* must set Delegate")
	}
}

func TestClassDeclaration(t *testing.T) {
	program := parseProgram(t, `
		class B extends A {
			constructor(n) { super(n); }
			speak() { return this.n; }
			get size() { return 1; }
			static make() { return new B(0); }
		}
	`)
	decl := program.Statements[0].(*ast.ClassDeclaration)
	if decl.Name != "B" || decl.Parent != "A" {
		t.Errorf("name/parent = %s/%s", decl.Name, decl.Parent)
	}
	if decl.Constructor == nil {
		t.Fatal("constructor missing")
	}
	if len(decl.Methods) != 3 {
		t.Fatalf("got %d methods", len(decl.Methods))
	}
	if decl.Methods[1].Kind != ast.MethodKindGetter {
		t.Error("getter kind missing")
	}
	if !decl.Methods[2].Static {
		t.Error("static flag missing")
	}
}

func TestForVariants(t *testing.T) {
	program := parseProgram(t, `
		for (let i = 0; i < 3; i++) {}
		for (const k in obj) {}
		for (const v of list) {}
	`)
	if _, ok := program.Statements[0].(*ast.ForStatement); !ok {
		t.Error("classic for failed")
	}
	if _, ok := program.Statements[1].(*ast.ForInStatement); !ok {
		t.Error("for-in failed")
	}
	if _, ok := program.Statements[2].(*ast.ForOfStatement); !ok {
		t.Error("for-of failed")
	}
}

func TestTryCatchFinally(t *testing.T) {
	program := parseProgram(t, `try { f(); } catch (e) { g(e); } finally { h(); }`)
	stmt := program.Statements[0].(*ast.TryStatement)
	if stmt.Catch == nil || stmt.Finally == nil || stmt.CatchParam == nil {
		t.Error("try clauses missing")
	}

	// Bare catch without a parameter.
	program = parseProgram(t, `try { f(); } catch { g(); }`)
	stmt = program.Statements[0].(*ast.TryStatement)
	if stmt.CatchParam != nil {
		t.Error("bare catch must have no parameter")
	}

	if _, err := Parse(`try { f(); }`); err == nil {
		t.Error("try without catch or finally must be a syntax error")
	}
}

func TestTemplateLiteralParts(t *testing.T) {
	expr := firstExpr(t, "`a ${x} b ${y + 1}`;")
	tmpl := expr.(*ast.TemplateLiteral)
	if len(tmpl.Parts) != 4 {
		t.Fatalf("got %d parts", len(tmpl.Parts))
	}
	if tmpl.Parts[0].Str != "a " || tmpl.Parts[2].Str != " b " {
		t.Error("string chunks wrong")
	}
	if tmpl.Parts[1].Expr == nil || tmpl.Parts[3].Expr == nil {
		t.Error("interpolations missing")
	}
}

func TestObjectLiteralForms(t *testing.T) {
	obj := firstExpr(t, `x = {a: 1, b, c() {}, get d() {}, [k]: 2, ...rest};`).(*ast.AssignExpression).Value.(*ast.ObjectLiteral)
	if len(obj.Properties) != 6 {
		t.Fatalf("got %d properties", len(obj.Properties))
	}
	if obj.Properties[1].Key != "b" {
		t.Error("shorthand failed")
	}
	if _, ok := obj.Properties[2].Value.(*ast.FunctionLiteral); !ok {
		t.Error("method shorthand failed")
	}
	if !obj.Properties[3].Getter {
		t.Error("getter flag missing")
	}
	if obj.Properties[4].Computed == nil {
		t.Error("computed key missing")
	}
	if !obj.Properties[5].Spread {
		t.Error("spread flag missing")
	}
}

func TestNewExpressionWithMemberCallee(t *testing.T) {
	expr := firstExpr(t, "new ns.Thing(1, 2);")
	ne := expr.(*ast.NewExpression)
	if _, ok := ne.Callee.(*ast.MemberExpression); !ok {
		t.Errorf("callee is %T, want member expression", ne.Callee)
	}
	if len(ne.Arguments) != 2 {
		t.Errorf("got %d args", len(ne.Arguments))
	}
}

func TestImportExportForms(t *testing.T) {
	program := parseProgram(t, `
		import def from "./a";
		import {x, y as z} from "./b";
		import * as ns from "./c";
		export default 42;
		export const k = 1;
		export {k as key};
	`)
	imp := program.Statements[1].(*ast.ImportDeclaration)
	if len(imp.Specifiers) != 2 || imp.Specifiers[1].Local != "z" {
		t.Error("named import alias failed")
	}
	ns := program.Statements[2].(*ast.ImportDeclaration)
	if ns.Specifiers[0].Kind != ast.ImportNamespace {
		t.Error("namespace import failed")
	}
	def := program.Statements[3].(*ast.ExportDeclaration)
	if def.Default == nil {
		t.Error("default export failed")
	}
	named := program.Statements[5].(*ast.ExportDeclaration)
	if len(named.Specifiers) != 1 || named.Specifiers[0].Exported != "key" {
		t.Error("export list alias failed")
	}
}

func TestLabeledStatement(t *testing.T) {
	program := parseProgram(t, `outer: for (;;) { break outer; }`)
	labeled := program.Statements[0].(*ast.LabeledStatement)
	if labeled.Label != "outer" {
		t.Errorf("label = %q", labeled.Label)
	}
	loop := labeled.Body.(*ast.ForStatement)
	brk := loop.Body.(*ast.BlockStatement).Statements[0].(*ast.BreakStatement)
	if brk.Label != "outer" {
		t.Errorf("break label = %q", brk.Label)
	}
}

func TestRegexLiteralSplitsFlags(t *testing.T) {
	expr := firstExpr(t, `x = /a+b/gi;`).(*ast.AssignExpression).Value
	re := expr.(*ast.RegexLiteral)
	if re.Pattern != "a+b" || re.Flags != "gi" {
		t.Errorf("pattern/flags = %q %q", re.Pattern, re.Flags)
	}
}
