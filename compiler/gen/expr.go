package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/derivekit/derivekit/schema/decl"
)

// typeExpr returns the jennifer code for a declared type reference.
// Qualified references resolved by the loader render through jen.Qual so
// the emitted file imports the package; everything else renders verbatim.
func typeExpr(t decl.TypeRef) jen.Code {
	if t.PkgPath != "" {
		name := t.Text
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		return jen.Qual(t.PkgPath, name)
	}
	return jen.Id(t.Text)
}

// zeroExpr returns the zero value expression for a declared type, used to
// fill leading positional slots in composite literals.
func zeroExpr(t decl.TypeRef) jen.Code {
	switch t.Shape() {
	case decl.Signed, decl.Unsigned, decl.Float:
		return jen.Lit(0)
	case decl.String:
		return jen.Lit("")
	case decl.Bool:
		return jen.False()
	case decl.Slice:
		return jen.Nil()
	default:
		if strings.HasPrefix(t.Text, "*") || strings.HasPrefix(t.Text, "map[") {
			return jen.Nil()
		}
		return jen.Add(typeExpr(t)).Values()
	}
}

// convExpr returns the expression converting the incoming value v from the
// source type into the destination field type: v itself when the types
// match textually, a Go conversion otherwise.
func convExpr(src, dst decl.TypeRef) jen.Code {
	if src.Canonical() == dst.Canonical() || dst.Text == "" {
		return jen.Id("v")
	}
	return jen.Add(typeExpr(dst)).Call(jen.Id("v"))
}
