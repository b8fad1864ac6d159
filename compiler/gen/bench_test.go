package gen

import (
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"

	"github.com/derivekit/derivekit/schema/attr"
	"github.com/derivekit/derivekit/schema/decl"
)

func benchDecl(b *testing.B, directives ...string) *decl.TypeDecl {
	b.Helper()
	attrs := make([]attr.Attr, 0, len(directives))
	for _, dir := range directives {
		a, err := attr.Parse(dir)
		if err != nil {
			b.Fatalf("parse %q: %v", dir, err)
		}
		attrs = append(attrs, a)
	}
	return &decl.TypeDecl{
		Name:   "Amount",
		Kind:   decl.Struct,
		Attrs:  attrs,
		Fields: []*decl.Field{{Name: "v", Type: decl.TypeRef{Text: "uint64"}}},
	}
}

func BenchmarkBuildFile(b *testing.B) {
	decls := []*decl.TypeDecl{benchDecl(b,
		"from(string, int64)",
		"wrapper(Display, Hex, MathOps, BitOps)",
		"wrapper_mut(MathAssign, BitAssign)",
	)}
	b.ReportAllocs()
	for b.Loop() {
		f := jen.NewFile("bench")
		if _, err := BuildFile(f, decls); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	decls := []*decl.TypeDecl{benchDecl(b,
		"wrapper(Display, NumberFmt, MathOps)",
	)}
	b.ReportAllocs()
	for b.Loop() {
		f := jen.NewFile("bench")
		if _, err := BuildFile(f, decls); err != nil {
			b.Fatal(err)
		}
		var sb strings.Builder
		if err := f.Render(&sb); err != nil {
			b.Fatal(err)
		}
	}
}
