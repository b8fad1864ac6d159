// Package load scans Go packages for type declarations carrying
// `//derive:` directives and lowers them into the declaration model the
// generators consume. Structs lower directly; interfaces with at least one
// method lower into enums, with every package-local struct implementing the
// interface becoming a variant. An interface opts in with the bare
// `//derive:enum` marker; conversion directives attach to the variants.
package load

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/derivekit/derivekit/schema/attr"
	"github.com/derivekit/derivekit/schema/decl"
)

// directivePrefix introduces a derive directive in a doc comment line.
const directivePrefix = "derive:"

// enumDirective is the bare marker opting an interface in as an enum.
// Conversion sources never attach to the interface itself, only to variants
// and their fields.
const enumDirective = "enum"

// Config controls package scanning.
type Config struct {
	// Dir is the working directory for the build system queries.
	Dir string
	// BuildFlags are extra flags passed to the build system.
	BuildFlags []string
}

// Package is one scanned package and the directive-carrying declarations
// found in it.
type Package struct {
	Name    string
	Dir     string
	PkgPath string
	Decls   []*decl.TypeDecl
}

// Load loads and scans the packages matching the given patterns. Packages
// without any directive-carrying declaration are omitted from the result.
func (c *Config) Load(patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedImports | packages.NeedTypes | packages.NeedSyntax |
			packages.NeedTypesInfo,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	var out []*Package
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("load %s: %v", pkg.PkgPath, pkg.Errors[0])
		}
		p, err := scanPackage(pkg)
		if err != nil {
			return nil, err
		}
		if len(p.Decls) > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// typeSpec pairs one parsed type declaration with its enclosing file and
// the directives attached to its doc comment.
type typeSpec struct {
	spec  *ast.TypeSpec
	file  *ast.File
	attrs []attr.Attr
}

func scanPackage(pkg *packages.Package) (*Package, error) {
	p := &Package{Name: pkg.Name, PkgPath: pkg.PkgPath}
	if len(pkg.GoFiles) > 0 {
		p.Dir = filepath.Dir(pkg.GoFiles[0])
	}
	// First pass: every type declaration in source order, directives parsed.
	// Plain structs stay around as enum variant candidates.
	var specs []*typeSpec
	for _, file := range pkg.Syntax {
		for _, d := range file.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, s := range gd.Specs {
				ts := s.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				attrs, err := parseDirectives(doc)
				if err != nil {
					return nil, fmt.Errorf("%s: type %s: %w",
						pkg.Fset.Position(ts.Pos()), ts.Name.Name, err)
				}
				specs = append(specs, &typeSpec{spec: ts, file: file, attrs: attrs})
			}
		}
	}
	// Second pass: lower directive-carrying declarations. Structs also
	// participate when only their fields are annotated.
	for _, s := range specs {
		pos := pkg.Fset.Position(s.spec.Pos()).String()
		switch t := s.spec.Type.(type) {
		case *ast.StructType:
			if len(s.attrs) == 0 && !fieldsAnnotated(t) {
				continue
			}
			d, err := lowerStruct(s, t, pos)
			if err != nil {
				return nil, err
			}
			p.Decls = append(p.Decls, d)
		case *ast.InterfaceType:
			if len(s.attrs) == 0 {
				continue
			}
			d, err := lowerEnum(pkg, s, specs, pos)
			if err != nil {
				return nil, err
			}
			p.Decls = append(p.Decls, d)
		default:
			if len(s.attrs) == 0 {
				continue
			}
			return nil, fmt.Errorf("%s: type %s: derive directives require a struct or interface declaration",
				pos, s.spec.Name.Name)
		}
	}
	return p, nil
}

// fieldsAnnotated reports whether any field of the struct carries a derive
// directive in its doc comment.
func fieldsAnnotated(st *ast.StructType) bool {
	for _, f := range st.Fields.List {
		if f.Doc == nil {
			continue
		}
		for _, c := range f.Doc.List {
			if strings.HasPrefix(strings.TrimPrefix(c.Text, "//"), directivePrefix) {
				return true
			}
		}
	}
	return false
}

// parseDirectives extracts the derive directives of one doc comment group.
// Directive comments are read raw: ast.CommentGroup.Text strips them.
func parseDirectives(doc *ast.CommentGroup) ([]attr.Attr, error) {
	if doc == nil {
		return nil, nil
	}
	var attrs []attr.Attr
	for _, c := range doc.List {
		text := strings.TrimPrefix(c.Text, "//")
		if !strings.HasPrefix(text, directivePrefix) {
			continue
		}
		a, err := attr.Parse(strings.TrimPrefix(text, directivePrefix))
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func lowerStruct(s *typeSpec, st *ast.StructType, pos string) (*decl.TypeDecl, error) {
	fields, err := lowerFields(s.file, st)
	if err != nil {
		return nil, fmt.Errorf("%s: type %s: %w", pos, s.spec.Name.Name, err)
	}
	return &decl.TypeDecl{
		Name:       s.spec.Name.Name,
		Kind:       decl.Struct,
		Pos:        pos,
		Attrs:      s.attrs,
		Fields:     fields,
		TypeParams: lowerTypeParams(s.file, s.spec.TypeParams),
	}, nil
}

// lowerEnum lowers a directive-carrying interface into an enum: every
// package-local struct implementing the interface becomes a variant, in
// source order. An empty interface is rejected because everything would
// implement it.
func lowerEnum(pkg *packages.Package, s *typeSpec, specs []*typeSpec, pos string) (*decl.TypeDecl, error) {
	name := s.spec.Name.Name
	for _, a := range decl.FindAttrs(s.attrs, enumDirective) {
		if err := a.RequireSingular(); err != nil {
			return nil, fmt.Errorf("%s: type %s: the enum marker takes no arguments: %w", pos, name, err)
		}
	}
	obj := pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("%s: type %s: not found in package scope", pos, name)
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("%s: type %s: not an interface", pos, name)
	}
	if iface.NumMethods() == 0 {
		return nil, fmt.Errorf("%s: type %s: an enum interface must declare at least one method", pos, name)
	}
	d := &decl.TypeDecl{
		Name:  name,
		Kind:  decl.Enum,
		Pos:   pos,
		Attrs: s.attrs,
	}
	for _, cand := range specs {
		st, ok := cand.spec.Type.(*ast.StructType)
		if !ok || cand.spec.TypeParams != nil {
			continue
		}
		cobj := pkg.Types.Scope().Lookup(cand.spec.Name.Name)
		if cobj == nil {
			continue
		}
		ct := cobj.Type()
		if !types.Implements(ct, iface) && !types.Implements(types.NewPointer(ct), iface) {
			continue
		}
		fields, err := lowerFields(cand.file, st)
		if err != nil {
			return nil, fmt.Errorf("%s: variant %s: %w", pos, cand.spec.Name.Name, err)
		}
		d.Variants = append(d.Variants, &decl.Variant{
			Name:   cand.spec.Name.Name,
			Attrs:  cand.attrs,
			Fields: fields,
		})
	}
	return d, nil
}

func lowerFields(file *ast.File, st *ast.StructType) ([]*decl.Field, error) {
	var out []*decl.Field
	for _, f := range st.Fields.List {
		attrs, err := parseDirectives(f.Doc)
		if err != nil {
			return nil, err
		}
		ref := decl.TypeRef{
			Text:    types.ExprString(f.Type),
			PkgPath: importPath(file, f.Type),
		}
		if len(f.Names) == 0 {
			out = append(out, &decl.Field{Embedded: true, Type: ref, Attrs: attrs})
			continue
		}
		for _, n := range f.Names {
			out = append(out, &decl.Field{Name: n.Name, Type: ref, Attrs: attrs})
		}
	}
	return out, nil
}

func lowerTypeParams(file *ast.File, params *ast.FieldList) []decl.TypeParam {
	if params == nil {
		return nil
	}
	var out []decl.TypeParam
	for _, p := range params.List {
		constraint := types.ExprString(p.Type)
		pkgPath := importPath(file, p.Type)
		for _, n := range p.Names {
			out = append(out, decl.TypeParam{
				Name:          n.Name,
				Constraint:    constraint,
				ConstraintPkg: pkgPath,
			})
		}
	}
	return out
}

// importPath resolves the import path qualifying a type expression of the
// form pkg.Name, possibly behind pointers, slices or arrays. It matches the
// package alias against the file's imports, falling back to the trailing
// path segment for unaliased imports.
func importPath(file *ast.File, expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ArrayType:
			expr = t.Elt
		case *ast.SelectorExpr:
			id, ok := t.X.(*ast.Ident)
			if !ok {
				return ""
			}
			return resolveImport(file, id.Name)
		default:
			return ""
		}
	}
}

func resolveImport(file *ast.File, alias string) string {
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		switch {
		case imp.Name != nil:
			if imp.Name.Name == alias {
				return path
			}
		case path == alias || strings.HasSuffix(path, "/"+alias):
			return path
		}
	}
	return ""
}
