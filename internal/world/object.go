package world

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	m "gooze.dev/pkg/mutenv/internal/model"
)

// packageObject represents one Go package found on the load path.
type packageObject struct {
	name string
	dir  m.Path
}

func (o packageObject) Name() any          { return o.name }
func (o packageObject) Kind() m.ObjectKind { return m.KindPackage }

func (o packageObject) Describe() string {
	return fmt.Sprintf("package %s (%s)", o.name, o.dir)
}

// funcObject represents a package-level function or a method.
type funcObject struct {
	qualified string
	kind      m.ObjectKind
	region    m.SourceRegion
}

func (o funcObject) Name() any          { return o.qualified }
func (o funcObject) Kind() m.ObjectKind { return o.kind }

func (o funcObject) Describe() string {
	return fmt.Sprintf("%s %s (%s:%d)", o.kind, o.qualified, o.region.File, o.region.StartLine)
}

// Region implements model.Locatable.
func (o funcObject) Region() m.SourceRegion { return o.region }

// scanDir parses the Go files directly inside dir and extracts one package
// object plus one object per function and method declaration. Test files
// are not analyzable units and are skipped.
func scanDir(dir string) ([]m.Object, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()

	var objects []m.Object

	packages := make(map[string]bool)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}

		path := filepath.Join(dir, name)

		file, parseErr := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if parseErr != nil {
			// Unparseable files are enumeration noise, not a reason to
			// abort the scan of the whole tree.
			continue
		}

		pkgName := file.Name.Name
		if !packages[pkgName] {
			packages[pkgName] = true

			objects = append(objects, packageObject{name: pkgName, dir: m.Path(dir)})
		}

		objects = append(objects, extractFuncObjects(fset, file, pkgName, m.Path(path))...)
	}

	return objects, nil
}

// extractFuncObjects returns one object per function or method declared in
// file, qualified as pkg.Func or pkg.Type.Method.
func extractFuncObjects(fset *token.FileSet, file *ast.File, pkgName string, path m.Path) []m.Object {
	var objects []m.Object

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		kind := m.KindFunction
		qualified := pkgName + "." + fn.Name.Name

		if fn.Recv != nil && len(fn.Recv.List) > 0 {
			if recv := receiverTypeName(fn.Recv.List[0].Type); recv != "" {
				kind = m.KindMethod
				qualified = pkgName + "." + recv + "." + fn.Name.Name
			}
		}

		objects = append(objects, funcObject{
			qualified: qualified,
			kind:      kind,
			region: m.SourceRegion{
				File:      path,
				StartLine: fset.Position(fn.Pos()).Line,
				EndLine:   fset.Position(fn.End()).Line,
			},
		})
	}

	return objects
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	}

	return ""
}
