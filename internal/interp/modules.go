package interp

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/go-jsvm/internal/ast"
	"github.com/cwbudde/go-jsvm/internal/parser"
	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// Internal binding prefixes the module loader collects as exports.
const (
	defaultExportBinding = "__default_export"
	namedExportPrefix    = "__export_"
)

// resolveModule maps (specifier, importer) to a canonical path: relative
// specifiers resolve against the importer's directory, a missing
// extension defaults to .js, and the result is cleaned.
func resolveModule(specifier, fromFile string) string {
	base := "."
	if fromFile != "" {
		base = filepath.Dir(fromFile)
	}

	var candidate string
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		candidate = filepath.Join(base, specifier)
	} else {
		candidate = specifier
	}
	if filepath.Ext(candidate) == "" {
		candidate += ".js"
	}
	if abs, err := filepath.Abs(candidate); err == nil {
		candidate = abs
	}
	return filepath.Clean(candidate)
}

func (i *Interpreter) currentModulePath() string {
	if len(i.moduleStack) > 0 {
		return i.moduleStack[len(i.moduleStack)-1]
	}
	return ""
}

// loadModuleExports loads, evaluates, and memoizes a module. Re-entering
// an in-progress module surfaces a circular-import error.
func (i *Interpreter) loadModuleExports(path string) (map[string]runtime.Value, error) {
	if cached, ok := i.moduleCache[path]; ok {
		return cached, nil
	}
	if i.moduleInFlight[path] {
		return nil, runtime.NewTypeError("circular import detected for module '%s'", path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, runtime.NewTypeError("failed to read module '%s': %v", path, err)
	}
	program, err := parser.Parse(string(source))
	if err != nil {
		return nil, runtime.NewTypeError("failed to parse module '%s': %v", path, err)
	}

	i.moduleInFlight[path] = true
	i.moduleStack = append(i.moduleStack, path)
	i.env.PushScope()

	var evalErr error
	for _, stmt := range program.Statements {
		if _, evalErr = i.evalStatement(stmt); evalErr != nil {
			break
		}
	}

	exports := make(map[string]runtime.Value)
	if evalErr == nil {
		scope := i.env.CurrentScope()
		for _, name := range scope.Names() {
			binding, _ := scope.Get(name)
			switch {
			case name == defaultExportBinding:
				exports["default"] = binding.Value
			case strings.HasPrefix(name, namedExportPrefix):
				exports[strings.TrimPrefix(name, namedExportPrefix)] = binding.Value
			default:
				// Declarations are exported under their own name too.
				exports[name] = binding.Value
			}
		}
	}

	i.env.PopScope()
	i.moduleStack = i.moduleStack[:len(i.moduleStack)-1]
	delete(i.moduleInFlight, path)
	if evalErr != nil {
		return nil, evalErr
	}

	i.moduleCache[path] = exports
	return exports, nil
}

// EvalModulePath loads and evaluates path as a module, memoized, and
// returns its exports.
func (i *Interpreter) EvalModulePath(path string) (map[string]runtime.Value, error) {
	canonical := resolveModule(path, i.currentModulePath())
	return i.loadModuleExports(canonical)
}

func (i *Interpreter) evalImportDeclaration(decl *ast.ImportDeclaration) error {
	path := resolveModule(decl.Source, i.currentModulePath())
	exports, err := i.loadModuleExports(path)
	if err != nil {
		return err
	}

	for _, spec := range decl.Specifiers {
		switch spec.Kind {
		case ast.ImportDefault:
			value, ok := exports["default"]
			if !ok {
				value = runtime.Undefined
			}
			i.env.Define(spec.Local, value, runtime.BindConst)
		case ast.ImportNamed:
			value, ok := exports[spec.Imported]
			if !ok {
				value = runtime.Undefined
			}
			i.env.Define(spec.Local, value, runtime.BindConst)
		case ast.ImportNamespace:
			ns := i.newObject()
			for name, value := range exports {
				ns.Set(name, value)
			}
			i.env.Define(spec.Local, ns, runtime.BindConst)
		}
	}
	return nil
}

func (i *Interpreter) evalExportDeclaration(decl *ast.ExportDeclaration) (signal, error) {
	switch {
	case decl.Declaration != nil:
		return i.evalStatement(decl.Declaration)

	case decl.Default != nil:
		value, err := i.evalExpression(decl.Default)
		if err != nil {
			return noSignal, err
		}
		i.env.Define(defaultExportBinding, value, runtime.BindConst)
		return noSignal, nil

	default:
		for _, spec := range decl.Specifiers {
			value, err := i.env.Get(spec.Local)
			if err != nil {
				return noSignal, err
			}
			i.env.Define(namedExportPrefix+spec.Exported, value, runtime.BindConst)
		}
		return noSignal, nil
	}
}
