package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/derivekit/derivekit/schema/decl"
)

// emit synthesizes the method(s) of one immutable leaf capability. Group
// capabilities and the NoRefs marker are expanded away during resolution
// and must never reach this switch.
func (s *synthesizer) emit(c Capability) error {
	switch c {
	case CapDisplay:
		s.method("String").String().
			Block(jen.Return(jen.Qual("fmt", "Sprint").Call(s.field())))
	case CapDebug:
		s.method("GoString").String().
			Block(jen.Return(jen.Qual("fmt", "Sprintf").
				Call(jen.Lit(s.d.Name+"(%#v)"), s.field())))
	case CapOctal:
		return s.emitIntegerFmt(c, "Octal", "%o")
	case CapLowerHex:
		return s.emitHexFmt(c, "LowerHex", "%x")
	case CapUpperHex:
		return s.emitHexFmt(c, "UpperHex", "%X")
	case CapLowerExp:
		return s.emitFloatFmt(c, "LowerExp", "%e")
	case CapUpperExp:
		return s.emitFloatFmt(c, "UpperExp", "%E")
	case CapFromStr:
		return s.emitParse()
	case CapFromHex:
		return s.emitParseHex()
	case CapDeref:
		s.refAccessor("Deref")
	case CapAsRef:
		s.refAccessor("AsRef")
	case CapBorrow:
		s.refAccessor("Borrow")
	case CapAsSlice:
		return s.emitBytes(c, "AsBytes")
	case CapBorrowSlice:
		return s.emitBytes(c, "BorrowBytes")
	case CapIndex, CapIndexRange, CapIndexFull, CapIndexFrom,
		CapIndexTo, CapIndexInclusive, CapIndexToInclusive:
		return s.emitIndex(c)
	case CapNeg:
		return s.emitNeg()
	case CapAdd:
		return s.emitBinary(c, "Add", "+")
	case CapSub:
		return s.emitBinary(c, "Sub", "-")
	case CapMul:
		return s.emitBinary(c, "Mul", "*")
	case CapDiv:
		return s.emitBinary(c, "Div", "/")
	case CapRem:
		return s.emitBinary(c, "Rem", "%")
	case CapNot:
		return s.emitNot()
	case CapShl:
		return s.emitBinary(c, "Shl", "<<")
	case CapShr:
		return s.emitBinary(c, "Shr", ">>")
	case CapBitAnd:
		return s.emitBinary(c, "BitAnd", "&")
	case CapBitOr:
		return s.emitBinary(c, "BitOr", "|")
	case CapBitXor:
		return s.emitBinary(c, "BitXor", "^")
	default:
		panic(fmt.Sprintf("gen: capability %s cannot be synthesized", c))
	}
	return nil
}

// method starts a value-receiver method declaration with no parameters.
func (s *synthesizer) method(name string) *jen.Statement {
	return s.f.Func().Params(s.recv()).Id(name).Params()
}

// fmtString emits a no-argument string method rendering the wrapped value
// through one fmt verb.
func (s *synthesizer) fmtString(name, verb string) {
	s.method(name).String().
		Block(jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(verb), s.field())))
}

// forwardString emits a string method forwarding to the inner value's
// same-named method.
func (s *synthesizer) forwardString(name string) {
	s.method(name).String().
		Block(jen.Return(s.field().Dot(name).Call()))
}

func (s *synthesizer) emitIntegerFmt(c Capability, name, verb string) error {
	switch {
	case s.t.Type.Integer():
		s.fmtString(name, verb)
	case s.t.Type.Shape() == decl.Other:
		s.forwardString(name)
	default:
		return s.notDerivable(c.String(), "requires an integer inner type")
	}
	return nil
}

func (s *synthesizer) emitHexFmt(c Capability, name, verb string) error {
	switch {
	case s.t.Type.Integer(), s.t.Type.IsByteSlice(), s.t.Type.Shape() == decl.String:
		s.fmtString(name, verb)
	case s.t.Type.Shape() == decl.Other:
		s.forwardString(name)
	default:
		return s.notDerivable(c.String(), "requires an integer, string or byte slice inner type")
	}
	return nil
}

func (s *synthesizer) emitFloatFmt(c Capability, name, verb string) error {
	switch s.t.Type.Shape() {
	case decl.Float:
		s.fmtString(name, verb)
	case decl.Signed, decl.Unsigned:
		// Integer inners render through float64 so the verb applies.
		s.method(name).String().
			Block(jen.Return(jen.Qual("fmt", "Sprintf").
				Call(jen.Lit(verb), jen.Float64().Call(s.field()))))
	case decl.Other:
		s.forwardString(name)
	default:
		return s.notDerivable(c.String(), "requires a numeric inner type")
	}
	return nil
}

// refAccessor emits a pointer accessor to the wrapped field.
func (s *synthesizer) refAccessor(name string) {
	s.f.Func().Params(s.recvPtr()).Id(name).Params().
		Op("*").Add(typeExpr(s.t.Type)).
		Block(jen.Return(jen.Op("&").Add(s.field())))
}

// emitBytes emits a []byte view accessor over the wrapped value.
func (s *synthesizer) emitBytes(c Capability, name string) error {
	m := s.method(name).Index().Byte()
	switch {
	case s.t.Type.IsByteSlice():
		m.Block(jen.Return(s.field()))
	case s.t.Type.Shape() == decl.String:
		m.Block(jen.Return(jen.Index().Byte().Call(s.field())))
	case s.t.Type.Shape() == decl.Other:
		m.Block(jen.Return(s.field().Dot(name).Call()))
	default:
		return s.notDerivable(c.String(), "requires a string, byte slice or forwarding inner type")
	}
	return nil
}

// sliceResult returns the type expression of a native slice expression over
// the wrapped value: the slice type itself, []E for arrays, string for
// strings.
func (s *synthesizer) sliceResult() jen.Code {
	switch s.t.Type.Shape() {
	case decl.Slice:
		return typeExpr(s.t.Type)
	case decl.Array:
		return jen.Index().Add(typeExpr(s.t.Type.Elem()))
	default: // decl.String
		return jen.String()
	}
}

// emitIndex emits one indexing method. Only natively indexable inner shapes
// (slice, array, string) are accepted.
func (s *synthesizer) emitIndex(c Capability) error {
	if !s.t.Type.Indexable() {
		return s.notDerivable(c.String(), "requires a slice, array or string inner type")
	}
	elem := typeExpr(s.t.Type.Elem())
	switch c {
	case CapIndex:
		s.f.Func().Params(s.recv()).Id("At").
			Params(jen.Id("i").Int()).Add(elem).
			Block(jen.Return(s.field().Index(jen.Id("i"))))
	case CapIndexRange:
		s.f.Func().Params(s.recv()).Id("Slice").
			Params(jen.Id("i"), jen.Id("j").Int()).Add(s.sliceResult()).
			Block(jen.Return(s.field().Index(jen.Id("i"), jen.Id("j"))))
	case CapIndexFrom:
		s.f.Func().Params(s.recv()).Id("SliceFrom").
			Params(jen.Id("i").Int()).Add(s.sliceResult()).
			Block(jen.Return(s.field().Index(jen.Id("i"), jen.Empty())))
	case CapIndexTo:
		s.f.Func().Params(s.recv()).Id("SliceTo").
			Params(jen.Id("j").Int()).Add(s.sliceResult()).
			Block(jen.Return(s.field().Index(jen.Empty(), jen.Id("j"))))
	case CapIndexInclusive:
		s.f.Func().Params(s.recv()).Id("SliceInclusive").
			Params(jen.Id("i"), jen.Id("j").Int()).Add(s.sliceResult()).
			Block(jen.Return(s.field().Index(jen.Id("i"), jen.Id("j").Op("+").Lit(1))))
	case CapIndexToInclusive:
		s.f.Func().Params(s.recv()).Id("SliceToInclusive").
			Params(jen.Id("j").Int()).Add(s.sliceResult()).
			Block(jen.Return(s.field().Index(jen.Empty(), jen.Id("j").Op("+").Lit(1))))
	default: // CapIndexFull
		s.f.Func().Params(s.recv()).Id("SliceFull").
			Params().Add(s.sliceResult()).
			Block(jen.Return(s.field().Index(jen.Empty(), jen.Empty())))
	}
	return nil
}

// emitBinary emits one rewrapping binary operation. Builtin shapes use the
// native operator; unrecognized inner types forward to the inner value's
// same-named method. Bitwise operations and Rem demand integer inners,
// arithmetic demands numeric ones, and string concatenation is kept for Add.
func (s *synthesizer) emitBinary(c Capability, name, op string) error {
	m := s.f.Func().Params(s.recv()).Id(name).
		Params(jen.Id("rhs").Id(s.self())).Id(s.self())
	integerOnly := op == "%" || op == "<<" || op == ">>" ||
		op == "&" || op == "|" || op == "^"
	switch {
	case s.t.Type.Integer(),
		!integerOnly && s.t.Type.Numeric(),
		op == "+" && s.t.Type.Shape() == decl.String:
		m.Block(jen.Return(s.rewrap(s.field().Op(op).Add(s.rhsField()))))
	case s.t.Type.Shape() == decl.Other:
		m.Block(jen.Return(s.rewrap(s.field().Dot(name).Call(s.rhsField()))))
	default:
		if integerOnly {
			return s.notDerivable(c.String(), "requires an integer inner type")
		}
		return s.notDerivable(c.String(), "requires a numeric inner type")
	}
	return nil
}

// emitNeg emits the unary negation, rewrapping the negated inner value.
func (s *synthesizer) emitNeg() error {
	m := s.method("Neg").Id(s.self())
	switch {
	case s.t.Type.Numeric():
		m.Block(jen.Return(s.rewrap(jen.Op("-").Add(s.field()))))
	case s.t.Type.Shape() == decl.Other:
		m.Block(jen.Return(s.rewrap(s.field().Dot("Neg").Call())))
	default:
		return s.notDerivable(CapNeg.String(), "requires a numeric inner type")
	}
	return nil
}

// emitNot emits the logical/bitwise complement: ! for bools, ^ for integers.
func (s *synthesizer) emitNot() error {
	m := s.method("Not").Id(s.self())
	switch {
	case s.t.Type.Shape() == decl.Bool:
		m.Block(jen.Return(s.rewrap(jen.Op("!").Add(s.field()))))
	case s.t.Type.Integer():
		m.Block(jen.Return(s.rewrap(jen.Op("^").Add(s.field()))))
	case s.t.Type.Shape() == decl.Other:
		m.Block(jen.Return(s.rewrap(s.field().Dot("Not").Call())))
	default:
		return s.notDerivable(CapNot.String(), "requires a bool or integer inner type")
	}
	return nil
}

// emitParse emits the `Parse<T>` constructor parsing the wrapped value from
// its textual form: strconv for builtin inners, UnmarshalText forwarding
// otherwise.
func (s *synthesizer) emitParse() error {
	name := "Parse" + s.d.Name
	s.f.Commentf("%s parses the textual form of the wrapped %s value.",
		name, s.t.Type.Text)
	fn := genericFunc(s.f, name, s.d).
		Params(jen.Id("s").String()).
		Params(jen.Id(s.self()), jen.Error())
	zero := jen.Id(s.self()).Values()
	switch s.t.Type.Shape() {
	case decl.String:
		fn.Block(jen.Return(s.rewrap(jen.Id("s")), jen.Nil()))
	case decl.Signed:
		fn.Block(s.parseStrconv("ParseInt", jen.Lit(10)))
	case decl.Unsigned:
		fn.Block(s.parseStrconv("ParseUint", jen.Lit(10)))
	case decl.Float:
		fn.Block(
			jen.List(jen.Id("v"), jen.Err()).Op(":=").
				Qual("strconv", "ParseFloat").Call(jen.Id("s"), jen.Lit(64)),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(zero, jen.Err())),
			jen.Return(s.rewrap(jen.Add(typeExpr(s.t.Type)).Call(jen.Id("v"))), jen.Nil()),
		)
	case decl.Bool:
		fn.Block(
			jen.List(jen.Id("v"), jen.Err()).Op(":=").
				Qual("strconv", "ParseBool").Call(jen.Id("s")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(zero, jen.Err())),
			jen.Return(s.rewrap(jen.Id("v")), jen.Nil()),
		)
	default:
		if s.t.Type.IsByteSlice() {
			fn.Block(jen.Return(s.rewrap(jen.Index().Byte().Call(jen.Id("s"))), jen.Nil()))
			return nil
		}
		fn.Block(
			jen.Var().Id("inner").Add(typeExpr(s.t.Type)),
			jen.If(
				jen.Err().Op(":=").Id("inner").Dot("UnmarshalText").
					Call(jen.Index().Byte().Call(jen.Id("s"))),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(zero, jen.Err())),
			jen.Return(s.rewrap(jen.Id("inner")), jen.Nil()),
		)
	}
	return nil
}

// parseStrconv builds the strconv integer parsing body shared by the signed
// and unsigned branches of Parse<T> and Parse<T>Hex.
func (s *synthesizer) parseStrconv(fn string, base jen.Code) jen.Code {
	return jen.Add(
		jen.List(jen.Id("v"), jen.Err()).Op(":=").
			Qual("strconv", fn).Call(jen.Id("s"), base, jen.Lit(64)),
		jen.Line(),
		jen.If(jen.Err().Op("!=").Nil()).
			Block(jen.Return(jen.Id(s.self()).Values(), jen.Err())),
		jen.Line(),
		jen.Return(s.rewrap(jen.Add(typeExpr(s.t.Type)).Call(jen.Id("v"))), jen.Nil()),
	)
}

// emitParseHex emits the `Parse<T>Hex` constructor: encoding/hex for byte
// slices and strings, base-16 strconv for integers, DecodeHex forwarding
// otherwise.
func (s *synthesizer) emitParseHex() error {
	name := "Parse" + s.d.Name + "Hex"
	s.f.Commentf("%s parses the hexadecimal form of the wrapped %s value.",
		name, s.t.Type.Text)
	fn := genericFunc(s.f, name, s.d).
		Params(jen.Id("s").String()).
		Params(jen.Id(s.self()), jen.Error())
	zero := jen.Id(s.self()).Values()
	switch {
	case s.t.Type.IsByteSlice():
		fn.Block(
			jen.List(jen.Id("b"), jen.Err()).Op(":=").
				Qual("encoding/hex", "DecodeString").Call(jen.Id("s")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(zero, jen.Err())),
			jen.Return(s.rewrap(jen.Id("b")), jen.Nil()),
		)
	case s.t.Type.Shape() == decl.String:
		fn.Block(
			jen.List(jen.Id("b"), jen.Err()).Op(":=").
				Qual("encoding/hex", "DecodeString").Call(jen.Id("s")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(zero, jen.Err())),
			jen.Return(s.rewrap(jen.String().Call(jen.Id("b"))), jen.Nil()),
		)
	case s.t.Type.Shape() == decl.Signed:
		fn.Block(s.parseStrconv("ParseInt", jen.Lit(16)))
	case s.t.Type.Shape() == decl.Unsigned:
		fn.Block(s.parseStrconv("ParseUint", jen.Lit(16)))
	case s.t.Type.Shape() == decl.Other, s.t.Type.Shape() == decl.Slice:
		fn.Block(
			jen.Var().Id("inner").Add(typeExpr(s.t.Type)),
			jen.If(
				jen.Err().Op(":=").Id("inner").Dot("DecodeHex").Call(jen.Id("s")),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(zero, jen.Err())),
			jen.Return(s.rewrap(jen.Id("inner")), jen.Nil()),
		)
	default:
		return s.notDerivable(CapFromHex.String(),
			"requires an integer, string, byte slice or hex-decodable inner type")
	}
	return nil
}
