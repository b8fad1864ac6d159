package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/derivekit/derivekit/schema/decl"
)

// SourceIdent derives the exported identifier embedded in generated
// constructor names from a source type text:
//
//	uint64      -> Uint64
//	net.IP      -> NetIP
//	my_type     -> MyType
//	*Buffer     -> BufferPtr
//	[]byte      -> Bytes
//	[]rune      -> RuneSlice
//	[4]uint8    -> Uint8Array4
func SourceIdent(text string) string {
	text = strings.TrimSpace(text)
	var suffix string
	for strings.HasPrefix(text, "*") {
		suffix += "Ptr"
		text = text[1:]
	}
	if text == "[]byte" || text == "[]uint8" {
		return "Bytes" + suffix
	}
	if strings.HasPrefix(text, "[]") {
		return SourceIdent(text[2:]) + "Slice" + suffix
	}
	if strings.HasPrefix(text, "[") {
		if end := strings.IndexByte(text, ']'); end > 0 {
			return SourceIdent(text[end+1:]) + "Array" + text[1:end] + suffix
		}
	}
	var b strings.Builder
	for _, seg := range strings.Split(text, ".") {
		b.WriteString(inflect.Camelize(seg))
	}
	return b.String() + suffix
}

// genericFunc opens a package-level generated function header, attaching
// the declaration's constraint-qualified type parameter list when present.
// Constraints from imported packages render through jen.Qual so the emitted
// file imports them.
func genericFunc(f *jen.File, name string, d *decl.TypeDecl) *jen.Statement {
	fn := f.Func().Id(name)
	if len(d.TypeParams) == 0 {
		return fn
	}
	params := make([]jen.Code, len(d.TypeParams))
	for i, p := range d.TypeParams {
		params[i] = jen.Id(p.Name).Add(constraintExpr(p))
	}
	return fn.Types(params...)
}

func constraintExpr(p decl.TypeParam) jen.Code {
	if p.ConstraintPkg == "" {
		return jen.Id(p.Constraint)
	}
	name := p.Constraint
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return jen.Qual(p.ConstraintPkg, name)
}

// typeParamsUse renders the bare type parameter list used on receivers and
// in type uses, e.g. "[K, V]". Returns "" for non-generic declarations.
func typeParamsUse(d *decl.TypeDecl) string {
	if len(d.TypeParams) == 0 {
		return ""
	}
	names := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// typeUse returns the type expression for using the declared type,
// including its bare type parameters: "Pair[K, V]".
func typeUse(d *decl.TypeDecl) string {
	return d.Name + typeParamsUse(d)
}
