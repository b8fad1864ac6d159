package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/derivekit/derivekit/schema/decl"
)

// emitMut synthesizes the method of one mutable leaf capability. All mutable
// methods take a pointer receiver. Group capabilities and the NoRefs marker
// never reach this switch.
func (s *synthesizer) emitMut(c MutCapability) error {
	switch c {
	case MutDeref:
		s.refAccessor("DerefMut")
	case MutAsRef:
		s.refAccessor("AsMut")
	case MutBorrow:
		s.refAccessor("BorrowMut")
	case MutAsSlice:
		return s.emitBytesMut(c, "AsBytesMut")
	case MutBorrowSlice:
		return s.emitBytesMut(c, "BorrowBytesMut")
	case MutIndex:
		return s.emitSetAt()
	case MutIndexRange, MutIndexFull, MutIndexFrom,
		MutIndexTo, MutIndexInclusive, MutIndexToInclusive:
		return s.emitIndexMut(c)
	case MutAddAssign:
		return s.emitAssign(c, "AddAssign", "+=")
	case MutSubAssign:
		return s.emitAssign(c, "SubAssign", "-=")
	case MutMulAssign:
		return s.emitAssign(c, "MulAssign", "*=")
	case MutDivAssign:
		return s.emitAssign(c, "DivAssign", "/=")
	case MutRemAssign:
		return s.emitAssign(c, "RemAssign", "%=")
	case MutShlAssign:
		return s.emitAssign(c, "ShlAssign", "<<=")
	case MutShrAssign:
		return s.emitAssign(c, "ShrAssign", ">>=")
	case MutBitAndAssign:
		return s.emitAssign(c, "BitAndAssign", "&=")
	case MutBitOrAssign:
		return s.emitAssign(c, "BitOrAssign", "|=")
	case MutBitXorAssign:
		return s.emitAssign(c, "BitXorAssign", "^=")
	default:
		panic(fmt.Sprintf("gen: mutable capability %s cannot be synthesized", c))
	}
	return nil
}

// emitBytesMut emits a mutable []byte view accessor. Strings are immutable
// and cannot carry one.
func (s *synthesizer) emitBytesMut(c MutCapability, name string) error {
	m := s.f.Func().Params(s.recvPtr()).Id(name).Params().Index().Byte()
	switch {
	case s.t.Type.IsByteSlice():
		m.Block(jen.Return(s.field()))
	case s.t.Type.Shape() == decl.Other:
		m.Block(jen.Return(s.field().Dot(name).Call()))
	default:
		return s.notDerivable(c.String(), "requires a byte slice or forwarding inner type")
	}
	return nil
}

// emitSetAt emits the element store. Strings are immutable and rejected.
func (s *synthesizer) emitSetAt() error {
	switch s.t.Type.Shape() {
	case decl.Slice, decl.Array:
	default:
		return s.notDerivable(MutIndex.String(), "requires a slice or array inner type")
	}
	s.f.Func().Params(s.recvPtr()).Id("SetAt").
		Params(jen.Id("i").Int(), jen.Id("v").Add(typeExpr(s.t.Type.Elem()))).
		Block(s.field().Index(jen.Id("i")).Op("=").Id("v"))
	return nil
}

// mutSliceResult returns the mutable view type of a slice expression over
// the wrapped value: the slice type itself, []E for arrays.
func (s *synthesizer) mutSliceResult() jen.Code {
	if s.t.Type.Shape() == decl.Slice {
		return typeExpr(s.t.Type)
	}
	return jen.Index().Add(typeExpr(s.t.Type.Elem()))
}

// emitIndexMut emits one mutable slicing method. The returned subslice
// shares the wrapped storage, so writes through it mutate the wrapper.
func (s *synthesizer) emitIndexMut(c MutCapability) error {
	switch s.t.Type.Shape() {
	case decl.Slice, decl.Array:
	default:
		return s.notDerivable(c.String(), "requires a slice or array inner type")
	}
	result := s.mutSliceResult()
	switch c {
	case MutIndexRange:
		s.f.Func().Params(s.recvPtr()).Id("SliceMut").
			Params(jen.Id("i"), jen.Id("j").Int()).Add(result).
			Block(jen.Return(s.field().Index(jen.Id("i"), jen.Id("j"))))
	case MutIndexFrom:
		s.f.Func().Params(s.recvPtr()).Id("SliceFromMut").
			Params(jen.Id("i").Int()).Add(result).
			Block(jen.Return(s.field().Index(jen.Id("i"), jen.Empty())))
	case MutIndexTo:
		s.f.Func().Params(s.recvPtr()).Id("SliceToMut").
			Params(jen.Id("j").Int()).Add(result).
			Block(jen.Return(s.field().Index(jen.Empty(), jen.Id("j"))))
	case MutIndexInclusive:
		s.f.Func().Params(s.recvPtr()).Id("SliceInclusiveMut").
			Params(jen.Id("i"), jen.Id("j").Int()).Add(result).
			Block(jen.Return(s.field().Index(jen.Id("i"), jen.Id("j").Op("+").Lit(1))))
	case MutIndexToInclusive:
		s.f.Func().Params(s.recvPtr()).Id("SliceToInclusiveMut").
			Params(jen.Id("j").Int()).Add(result).
			Block(jen.Return(s.field().Index(jen.Empty(), jen.Id("j").Op("+").Lit(1))))
	default: // MutIndexFull
		s.f.Func().Params(s.recvPtr()).Id("SliceFullMut").
			Params().Add(result).
			Block(jen.Return(s.field().Index(jen.Empty(), jen.Empty())))
	}
	return nil
}

// emitAssign emits one in-place compound assignment. Builtin shapes use the
// native compound operator; unrecognized inner types forward to the inner
// value's same-named method.
func (s *synthesizer) emitAssign(c MutCapability, name, op string) error {
	m := s.f.Func().Params(s.recvPtr()).Id(name).
		Params(jen.Id("rhs").Id(s.self()))
	integerOnly := op == "%=" || op == "<<=" || op == ">>=" ||
		op == "&=" || op == "|=" || op == "^="
	switch {
	case s.t.Type.Integer(),
		!integerOnly && s.t.Type.Numeric(),
		op == "+=" && s.t.Type.Shape() == decl.String:
		m.Block(s.field().Op(op).Add(s.rhsField()))
	case s.t.Type.Shape() == decl.Other:
		m.Block(s.field().Dot(name).Call(s.rhsField()))
	default:
		if integerOnly {
			return s.notDerivable(c.String(), "requires an integer inner type")
		}
		return s.notDerivable(c.String(), "requires a numeric inner type")
	}
	return nil
}
