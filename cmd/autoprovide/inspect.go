package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// declared is a type declaration together with the name its file uses for the
// provider import ("" when the file does not import it).
type declared struct {
	spec  *ast.TypeSpec
	alias string
	file  string
}

// packageScan is what the generator learns from the target package.
type packageScan struct {
	name    string
	types   map[string]declared
	methods map[string]map[string]bool // receiver type -> method names
}

// isSourceFile reports whether name is a hand-written Go source file.
// Generated outputs and tests are never fed back into inference.
func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, ".gen.go") &&
		!strings.HasSuffix(name, "_gen.go")
}

// scanPackage parses every source file in dir and indexes type declarations
// and method names. providerImport is used to resolve the per-file alias.
func scanPackage(dir, providerImport string) (*packageScan, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	scan := &packageScan{
		types:   make(map[string]declared),
		methods: make(map[string]map[string]bool),
	}
	fset := token.NewFileSet()

	for _, entry := range entries {
		if entry.IsDir() || !isSourceFile(entry.Name()) {
			continue
		}

		filePath := filepath.Join(dir, entry.Name())
		file, err := parser.ParseFile(fset, filePath, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filePath, err)
		}

		if scan.name == "" {
			scan.name = file.Name.Name
		} else if scan.name != file.Name.Name {
			return nil, fmt.Errorf("multiple packages in %s: %s and %s", dir, scan.name, file.Name.Name)
		}

		alias := importAlias(file, providerImport)

		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, s := range d.Specs {
					ts := s.(*ast.TypeSpec)
					scan.types[ts.Name.Name] = declared{spec: ts, alias: alias, file: filePath}
				}
			case *ast.FuncDecl:
				recv := receiverName(d)
				if recv == "" {
					continue
				}
				if scan.methods[recv] == nil {
					scan.methods[recv] = make(map[string]bool)
				}
				scan.methods[recv][d.Name.Name] = true
			}
		}
	}

	if scan.name == "" {
		return nil, fmt.Errorf("no Go source files in %s", dir)
	}
	return scan, nil
}

// importAlias returns the identifier file uses for importPath, or "".
func importAlias(file *ast.File, importPath string) string {
	for _, imp := range file.Imports {
		if strings.Trim(imp.Path.Value, `"`) != importPath {
			continue
		}
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				return ""
			}
			return imp.Name.Name
		}
		return path.Base(importPath)
	}
	return ""
}

// receiverName returns the base type name of a method receiver, or "" for
// free functions.
func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.IndexListExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}

// checkBinding verifies the host and capability declarations the generated
// code relies on. Every failure names the declaration to fix.
func checkBinding(scan *packageScan, spec *Spec) error {
	if err := checkCapability(scan, spec.Capability, map[string]bool{}); err != nil {
		return err
	}

	host, ok := scan.types[spec.Host]
	if !ok {
		return fmt.Errorf("host type %s not found in package %s", spec.Host, scan.name)
	}
	if host.spec.TypeParams != nil {
		return fmt.Errorf("host type %s is generic; only non-generic hosts are supported", spec.Host)
	}
	st, ok := host.spec.Type.(*ast.StructType)
	if !ok {
		return fmt.Errorf("host type %s is not a struct", spec.Host)
	}

	fieldType, ok := findField(st, spec.Field)
	if !ok {
		return fmt.Errorf("host %s has no field %q; add `%s *provider.Container[%s]`",
			spec.Host, spec.Field, spec.Field, spec.Capability)
	}
	if host.alias == "" || !isContainerOf(fieldType, host.alias, spec.Capability) {
		return fmt.Errorf("host field %s.%s must have type *provider.Container[%s] (import %q)",
			spec.Host, spec.Field, spec.Capability, spec.Imports.Provider)
	}

	for _, method := range []string{"Provider", "Manage"} {
		if scan.methods[spec.Host][method] {
			return fmt.Errorf("host %s already declares method %s", spec.Host, method)
		}
	}
	return nil
}

// checkCapability accepts an interface that embeds provider.Capability,
// directly or through other interfaces of the same package, or a type
// declared as provider.Capability itself.
func checkCapability(scan *packageScan, name string, visiting map[string]bool) error {
	if visiting[name] {
		return fmt.Errorf("capability %s embeds itself", name)
	}
	visiting[name] = true

	decl, ok := scan.types[name]
	if !ok {
		return fmt.Errorf("capability interface %s not found in package %s", name, scan.name)
	}

	if isProviderCapability(decl.spec.Type, decl.alias) {
		return nil
	}

	iface, ok := decl.spec.Type.(*ast.InterfaceType)
	if !ok {
		return fmt.Errorf("capability %s is not an interface", name)
	}

	for _, m := range iface.Methods.List {
		if len(m.Names) > 0 {
			continue
		}
		if isProviderCapability(m.Type, decl.alias) {
			return nil
		}
		if id, ok := m.Type.(*ast.Ident); ok {
			if _, local := scan.types[id.Name]; local && checkCapability(scan, id.Name, visiting) == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("capability %s must embed provider.Capability", name)
}

func isProviderCapability(expr ast.Expr, alias string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || alias == "" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == alias && sel.Sel.Name == "Capability"
}

func findField(st *ast.StructType, name string) (ast.Expr, bool) {
	for _, f := range st.Fields.List {
		for _, n := range f.Names {
			if n.Name == name {
				return f.Type, true
			}
		}
	}
	return nil, false
}

// isContainerOf matches `*alias.Container[capability]`.
func isContainerOf(expr ast.Expr, alias, capability string) bool {
	star, ok := expr.(*ast.StarExpr)
	if !ok {
		return false
	}
	idx, ok := star.X.(*ast.IndexExpr)
	if !ok {
		return false
	}
	sel, ok := idx.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != alias || sel.Sel.Name != "Container" {
		return false
	}
	arg, ok := idx.Index.(*ast.Ident)
	return ok && arg.Name == capability
}
