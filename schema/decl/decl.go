// Package decl defines the structured representation of one type declaration
// that the derivekit generators consume. It is the contract between the
// source loader (compiler/load) and the code generators (compiler/gen):
// a declaration's kind, fields, variants, type parameters, and attached
// directive attributes, with no dependency on go/ast.
package decl

import (
	"strings"

	"github.com/derivekit/derivekit/schema/attr"
)

// Kind identifies the shape of a type declaration.
type Kind int

const (
	// Struct is a plain struct type.
	Struct Kind = iota
	// Enum is a sum type: an interface with package-local variant structs.
	Enum
	// Union is a struct-like overlay type. Treated as a struct by the
	// conversion generator and rejected by the wrapper generator.
	Union
)

// String returns the kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case Struct:
		return "struct"
	case Enum:
		return "enum"
	case Union:
		return "union"
	default:
		return "unknown"
	}
}

// TypeDecl is one parsed type declaration together with its directives.
type TypeDecl struct {
	// Name is the declared type name.
	Name string
	// Kind is the declaration shape.
	Kind Kind
	// Pos is the source position of the declaration, for diagnostics.
	Pos string
	// Attrs are the directives attached to the declaration itself.
	Attrs []attr.Attr
	// Fields are the struct/union fields. Empty for enums.
	Fields []*Field
	// Variants are the enum variants. Empty for structs and unions.
	Variants []*Variant
	// TypeParams are the declared type parameters, in order.
	TypeParams []TypeParam
}

// Variant is one enum variant: a package-local struct implementing the sum
// interface, with its own fields and directives.
type Variant struct {
	Name   string
	Attrs  []attr.Attr
	Fields []*Field
}

// Field is one struct or variant field.
type Field struct {
	// Name is the field name. Empty for embedded fields, whose selector is
	// derived from the type.
	Name string
	// Embedded marks an embedded (anonymous) field.
	Embedded bool
	// Type is the declared field type.
	Type TypeRef
	// Attrs are the directives attached to the field.
	Attrs []attr.Attr
}

// Sel returns the selector used to access the field on a value: the field
// name, or for embedded fields the base identifier of the type.
func (f *Field) Sel() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Type.BaseIdent()
}

// TypeParam is one declared type parameter and its constraint.
type TypeParam struct {
	Name string
	// Constraint is the constraint text, e.g. "comparable" or "Ordered".
	Constraint string
	// ConstraintPkg is the import path qualifying Constraint, if any.
	ConstraintPkg string
}

// VariantFields returns the declaration's field lists paired with their
// variant tag: a single untagged list for structs and unions, one tagged
// list per variant for enums.
func (d *TypeDecl) VariantFields() []struct {
	Variant string
	Attrs   []attr.Attr
	Fields  []*Field
} {
	if d.Kind != Enum {
		return []struct {
			Variant string
			Attrs   []attr.Attr
			Fields  []*Field
		}{{Fields: d.Fields, Attrs: d.Attrs}}
	}
	out := make([]struct {
		Variant string
		Attrs   []attr.Attr
		Fields  []*Field
	}, len(d.Variants))
	for i, v := range d.Variants {
		out[i].Variant = v.Name
		out[i].Attrs = v.Attrs
		out[i].Fields = v.Fields
	}
	return out
}

// FindAttrs returns all directives with the given name attached to decl's
// own attribute list.
func FindAttrs(attrs []attr.Attr, name string) []attr.Attr {
	var out []attr.Attr
	for _, a := range attrs {
		if a.Name == name {
			out = append(out, a)
		}
	}
	return out
}

// Shape classifies a type text into the categories the synthesizer cares
// about. Classification is purely textual: the generator never type-checks.
type Shape int

const (
	// Other is any type not recognized below; operations forward to the
	// value's own same-named methods.
	Other Shape = iota
	// Signed covers int, int8..int64 and rune.
	Signed
	// Unsigned covers uint, uint8..uint64, byte and uintptr.
	Unsigned
	// Float covers float32 and float64.
	Float
	// Bool is the builtin bool.
	Bool
	// String is the builtin string.
	String
	// Slice is a []E type.
	Slice
	// Array is an [N]E type.
	Array
)

// TypeRef is a declared type, carried as source text.
type TypeRef struct {
	// Text is the type as written, e.g. "uint64", "net.IP", "[]byte".
	Text string
	// PkgPath is the import path of the qualifying package, when the text
	// is of the form "pkg.Name" and the loader resolved the import.
	PkgPath string
}

var signedTexts = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"rune": true,
}

var unsignedTexts = map[string]bool{
	"uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "byte": true, "uintptr": true,
}

// Shape returns the textual classification of the type.
func (t TypeRef) Shape() Shape {
	s := t.Text
	switch {
	case signedTexts[s]:
		return Signed
	case unsignedTexts[s]:
		return Unsigned
	case s == "float32" || s == "float64":
		return Float
	case s == "bool":
		return Bool
	case s == "string":
		return String
	case strings.HasPrefix(s, "[]"):
		return Slice
	case strings.HasPrefix(s, "["):
		if strings.IndexByte(s, ']') > 0 {
			return Array
		}
		return Other
	default:
		return Other
	}
}

// Numeric reports whether the type is a builtin numeric type.
func (t TypeRef) Numeric() bool {
	switch t.Shape() {
	case Signed, Unsigned, Float:
		return true
	default:
		return false
	}
}

// Integer reports whether the type is a builtin integer type.
func (t TypeRef) Integer() bool {
	switch t.Shape() {
	case Signed, Unsigned:
		return true
	default:
		return false
	}
}

// Indexable reports whether native index/slice expressions apply.
func (t TypeRef) Indexable() bool {
	switch t.Shape() {
	case Slice, Array, String:
		return true
	default:
		return false
	}
}

// Elem returns the element type text for slice, array and string shapes.
func (t TypeRef) Elem() TypeRef {
	switch t.Shape() {
	case Slice:
		return TypeRef{Text: t.Text[2:]}
	case Array:
		return TypeRef{Text: t.Text[strings.IndexByte(t.Text, ']')+1:]}
	case String:
		return TypeRef{Text: "byte"}
	default:
		return TypeRef{}
	}
}

// IsByteSlice reports whether the type is []byte (or []uint8) as written.
func (t TypeRef) IsByteSlice() bool {
	return t.Text == "[]byte" || t.Text == "[]uint8"
}

// BaseIdent returns the trailing identifier of the type text, used as the
// selector of an embedded field: "net.IP" yields "IP", "*Buffer" yields
// "Buffer".
func (t TypeRef) BaseIdent() string {
	s := strings.TrimLeft(t.Text, "*")
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// Canonical returns the duplicate-detection key for the type: the type text
// with all spacing removed. Two conversion sources are the same type iff
// their canonical forms are equal, regardless of conversion target.
func (t TypeRef) Canonical() string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, t.Text)
}
