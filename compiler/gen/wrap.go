package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/derivekit/derivekit/schema/decl"
)

const (
	wrapperDirective    = "wrapper"
	wrapperMutDirective = "wrapper_mut"
	wrapMarker          = "wrap"
)

// WrapTarget identifies the single field the generated capabilities forward
// to: its selector on the enclosing type and its declared type.
type WrapTarget struct {
	Sel  string
	Type decl.TypeRef
}

// ResolveWrapTarget selects the wrapped field of a struct declaration: the
// sole field when there is exactly one, otherwise the single field marked
// with `//derive:wrap`. Every other configuration is fatal.
func ResolveWrapTarget(d *decl.TypeDecl) (WrapTarget, error) {
	switch d.Kind {
	case decl.Struct:
	case decl.Enum:
		return WrapTarget{}, &WrapTargetError{Type: d.Name, Message: "deriving a wrapper is not supported for enums"}
	default:
		return WrapTarget{}, &WrapTargetError{Type: d.Name, Message: "deriving a wrapper is not supported for unions"}
	}
	if len(d.Fields) == 0 {
		return WrapTarget{}, &WrapTargetError{Type: d.Name, Message: "deriving a wrapper is meaningless for a fieldless struct"}
	}
	var marked *decl.Field
	for _, f := range d.Fields {
		for _, a := range decl.FindAttrs(f.Attrs, wrapMarker) {
			if err := a.RequireSingular(); err != nil {
				return WrapTarget{}, NewDirectiveError(d.Name, wrapMarker, "marker takes no arguments", err)
			}
			if marked != nil {
				return WrapTarget{}, &WrapTargetError{Type: d.Name, Message: "only a single field may be wrapped"}
			}
			marked = f
		}
	}
	switch {
	case marked != nil:
		return WrapTarget{Sel: marked.Sel(), Type: marked.Type}, nil
	case len(d.Fields) == 1:
		return WrapTarget{Sel: d.Fields[0].Sel(), Type: d.Fields[0].Type}, nil
	default:
		return WrapTarget{}, &WrapTargetError{
			Type:    d.Name,
			Message: "a struct with multiple fields must mark the wrapped one with `//derive:wrap`",
		}
	}
}

// GenerateWrapper appends the immutable wrapper surface for d to the file:
// the wrapper base (constructor and Inner accessor) followed by one method
// per resolved leaf capability.
func GenerateWrapper(f *jen.File, d *decl.TypeDecl) error {
	target, err := ResolveWrapTarget(d)
	if err != nil {
		return err
	}
	caps, err := ResolveCapabilities(d)
	if err != nil {
		return err
	}
	s := &synthesizer{f: f, d: d, t: target}
	s.emitBase()
	for _, c := range caps {
		if err := s.emit(c); err != nil {
			return err
		}
	}
	return nil
}

// GenerateWrapperMut appends the mutable wrapper surface for d to the file:
// the mutable base (InnerPtr accessor) followed by one method per resolved
// leaf capability.
func GenerateWrapperMut(f *jen.File, d *decl.TypeDecl) error {
	target, err := ResolveWrapTarget(d)
	if err != nil {
		return err
	}
	caps, err := ResolveMutCapabilities(d)
	if err != nil {
		return err
	}
	s := &synthesizer{f: f, d: d, t: target}
	s.emitMutBase()
	for _, c := range caps {
		if err := s.emitMut(c); err != nil {
			return err
		}
	}
	return nil
}

// synthesizer emits the forwarding method for one leaf capability at a
// time, sharing the declaration and wrap-target context.
type synthesizer struct {
	f *jen.File
	d *decl.TypeDecl
	t WrapTarget
}

// self returns the enclosing type expression with bare type parameters.
func (s *synthesizer) self() string {
	return typeUse(s.d)
}

// recv returns a value receiver clause.
func (s *synthesizer) recv() jen.Code {
	return jen.Id("x").Id(s.self())
}

// recvPtr returns a pointer receiver clause.
func (s *synthesizer) recvPtr() jen.Code {
	return jen.Id("x").Op("*").Id(s.self())
}

// field returns the wrapped field selector on the receiver.
func (s *synthesizer) field() *jen.Statement {
	return jen.Id("x").Dot(s.t.Sel)
}

// rhsField returns the wrapped field selector on the operand.
func (s *synthesizer) rhsField() *jen.Statement {
	return jen.Id("rhs").Dot(s.t.Sel)
}

// rewrap constructs a new enclosing value holding expr in the wrapped field.
func (s *synthesizer) rewrap(expr jen.Code) jen.Code {
	return jen.Id(s.self()).Values(jen.Dict{jen.Id(s.t.Sel): expr})
}

// notDerivable builds the fatal error for a capability the wrapped field's
// declared shape cannot carry.
func (s *synthesizer) notDerivable(capability, message string) error {
	return &NotDerivableError{
		Type:       s.d.Name,
		Capability: capability,
		Inner:      s.t.Type.Text,
		Message:    message,
	}
}

// emitBase emits the wrapper base surface shared by every immutable
// derivation: the constructor and the Inner accessor.
func (s *synthesizer) emitBase() {
	s.f.Commentf("New%s wraps an inner %s value.", s.d.Name, s.t.Type.Text)
	genericFunc(s.f, "New"+s.d.Name, s.d).
		Params(jen.Id("v").Add(typeExpr(s.t.Type))).
		Id(s.self()).
		Block(jen.Return(s.rewrap(jen.Id("v"))))

	s.f.Commentf("Inner returns the wrapped %s value.", s.t.Type.Text)
	s.f.Func().Params(s.recv()).Id("Inner").Params().
		Add(typeExpr(s.t.Type)).
		Block(jen.Return(s.field()))
}

// emitMutBase emits the mutable wrapper base surface: the InnerPtr accessor.
func (s *synthesizer) emitMutBase() {
	s.f.Commentf("InnerPtr returns a pointer to the wrapped %s value.", s.t.Type.Text)
	s.f.Func().Params(s.recvPtr()).Id("InnerPtr").Params().
		Op("*").Add(typeExpr(s.t.Type)).
		Block(jen.Return(jen.Op("&").Add(s.field())))
}
