package ast

import "github.com/cwbudde/go-jsvm/internal/lexer"

// ImportSpecifierKind selects the import binding form.
type ImportSpecifierKind int

const (
	ImportDefault ImportSpecifierKind = iota
	ImportNamed
	ImportNamespace
)

// ImportSpecifier is one binding of an import declaration.
type ImportSpecifier struct {
	Kind     ImportSpecifierKind
	Imported string // exported name, unused for Default/Namespace
	Local    string // local binding name
}

// ImportDeclaration is `import ... from "specifier"`.
type ImportDeclaration struct {
	Token      lexer.Token
	Specifiers []ImportSpecifier
	Source     string
}

func (s *ImportDeclaration) statementNode()       {}
func (s *ImportDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *ImportDeclaration) String() string       { return "import ... from \"" + s.Source + "\";" }
func (s *ImportDeclaration) Pos() lexer.Position  { return s.Token.Pos }

// ExportSpecifier renames a local binding on export.
type ExportSpecifier struct {
	Local    string
	Exported string
}

// ExportDeclaration covers `export <decl>`, `export default <expr>`, and
// `export { a, b as c }`. Exactly one of Declaration, Default, or
// Specifiers is set.
type ExportDeclaration struct {
	Token       lexer.Token
	Declaration Statement  // export function f() {} / export const x = 1
	Default     Expression // export default expr
	Specifiers  []ExportSpecifier
}

func (s *ExportDeclaration) statementNode()       {}
func (s *ExportDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *ExportDeclaration) String() string       { return "export ...;" }
func (s *ExportDeclaration) Pos() lexer.Position  { return s.Token.Pos }
