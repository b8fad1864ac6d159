package gen

import (
	"errors"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derivekit/derivekit/schema/attr"
	"github.com/derivekit/derivekit/schema/decl"
)

func innerDecl(t *testing.T, inner string, directives ...string) *decl.TypeDecl {
	t.Helper()
	d := &decl.TypeDecl{
		Name:   "Wrapped",
		Kind:   decl.Struct,
		Fields: []*decl.Field{{Name: "v", Type: decl.TypeRef{Text: inner}}},
	}
	for _, payload := range directives {
		a, err := attr.Parse(payload)
		require.NoError(t, err)
		d.Attrs = append(d.Attrs, a)
	}
	return d
}

func renderWrapper(t *testing.T, d *decl.TypeDecl) string {
	t.Helper()
	return render(t, func(f *jen.File) error { return GenerateWrapper(f, d) })
}

func renderWrapperMut(t *testing.T, d *decl.TypeDecl) string {
	t.Helper()
	return render(t, func(f *jen.File) error { return GenerateWrapperMut(f, d) })
}

func TestSynthFormatting(t *testing.T) {
	t.Run("Display renders through fmt", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "uint64", "wrapper(Display, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) String() string")
		assert.Contains(t, out, "return fmt.Sprint(x.v)")
	})

	t.Run("Debug renders the type name and value", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "uint64", "wrapper(Debug, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) GoString() string")
		assert.Contains(t, out, `return fmt.Sprintf("Wrapped(%#v)", x.v)`)
	})

	t.Run("NumberFmt expands to every base", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "uint64", "wrapper(NumberFmt, Octal, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) Octal() string")
		assert.Contains(t, out, `fmt.Sprintf("%o", x.v)`)
		assert.Contains(t, out, "func (x Wrapped) LowerHex() string")
		assert.Contains(t, out, `fmt.Sprintf("%x", x.v)`)
		assert.Contains(t, out, "func (x Wrapped) UpperHex() string")
		assert.Contains(t, out, `fmt.Sprintf("%X", x.v)`)
	})

	t.Run("exponent forms on floats and integers", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "float64", "wrapper(Exp, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) LowerExp() string")
		assert.Contains(t, out, `fmt.Sprintf("%e", x.v)`)
		assert.Contains(t, out, `fmt.Sprintf("%E", x.v)`)

		out = renderWrapper(t, innerDecl(t, "uint64", "wrapper(LowerExp, NoRefs)"))
		assert.Contains(t, out, `fmt.Sprintf("%e", float64(x.v))`)

		err := GenerateWrapper(jen.NewFile("model"), innerDecl(t, "string", "wrapper(LowerExp, NoRefs)"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotDerivable))
	})

	t.Run("custom inner forwards the formatting methods", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "Fixed", "wrapper(Octal, LowerHex, NoRefs)"))
		assert.Contains(t, out, "return x.v.Octal()")
		assert.Contains(t, out, "return x.v.LowerHex()")
	})
}

func TestSynthParse(t *testing.T) {
	t.Run("unsigned inner parses via strconv", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "uint64", "wrapper(FromStr, NoRefs)"))
		assert.Contains(t, out, "func ParseWrapped(s string) (Wrapped, error)")
		assert.Contains(t, out, "strconv.ParseUint(s, 10, 64)")
		assert.Contains(t, out, "return Wrapped{v: uint64(v)}, nil")
	})

	t.Run("signed inner parses via strconv", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "int32", "wrapper(FromStr, NoRefs)"))
		assert.Contains(t, out, "strconv.ParseInt(s, 10, 64)")
		assert.Contains(t, out, "return Wrapped{v: int32(v)}, nil")
	})

	t.Run("string inner is identity", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "string", "wrapper(FromStr, NoRefs)"))
		assert.Contains(t, out, "return Wrapped{v: s}, nil")
	})

	t.Run("custom inner forwards to UnmarshalText", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "net.IP", "wrapper(FromStr, NoRefs)"))
		assert.Contains(t, out, "var inner net.IP")
		assert.Contains(t, out, "inner.UnmarshalText([]byte(s))")
		assert.Contains(t, out, "return Wrapped{v: inner}, nil")
	})

	t.Run("hex parse for byte slices", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "[]byte", "wrapper(FromHex, NoRefs)"))
		assert.Contains(t, out, "func ParseWrappedHex(s string) (Wrapped, error)")
		assert.Contains(t, out, "hex.DecodeString(s)")
		assert.Contains(t, out, "return Wrapped{v: b}, nil")
	})

	t.Run("hex parse for integers uses base 16", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "uint64", "wrapper(FromHex, NoRefs)"))
		assert.Contains(t, out, "strconv.ParseUint(s, 16, 64)")
	})

	t.Run("hex parse forwards to DecodeHex", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "Fixed", "wrapper(FromHex, NoRefs)"))
		assert.Contains(t, out, "inner.DecodeHex(s)")
	})

	t.Run("hex parse on bool is not derivable", func(t *testing.T) {
		err := GenerateWrapper(jen.NewFile("model"), innerDecl(t, "bool", "wrapper(FromHex, NoRefs)"))
		assert.True(t, errors.Is(err, ErrNotDerivable))
	})
}

func TestSynthBytes(t *testing.T) {
	t.Run("byte slice inner returns itself", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "[]byte", "wrapper(AsSlice, BorrowSlice, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) AsBytes() []byte")
		assert.Contains(t, out, "func (x Wrapped) BorrowBytes() []byte")
		assert.Contains(t, out, "return x.v")
	})

	t.Run("string inner converts", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "string", "wrapper(AsSlice, NoRefs)"))
		assert.Contains(t, out, "return []byte(x.v)")
	})

	t.Run("numeric inner is not derivable", func(t *testing.T) {
		err := GenerateWrapper(jen.NewFile("model"), innerDecl(t, "uint64", "wrapper(AsSlice, NoRefs)"))
		assert.True(t, errors.Is(err, ErrNotDerivable))
	})
}

func TestSynthIndex(t *testing.T) {
	t.Run("slice inner indexes natively", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "[]byte", "wrapper(Index, RangeOps, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) At(i int) byte")
		assert.Contains(t, out, "return x.v[i]")
		assert.Contains(t, out, "func (x Wrapped) Slice(i, j int) []byte")
		assert.Contains(t, out, "return x.v[i:j]")
		assert.Contains(t, out, "func (x Wrapped) SliceFrom(i int) []byte")
		assert.Contains(t, out, "return x.v[i:]")
		assert.Contains(t, out, "func (x Wrapped) SliceTo(j int) []byte")
		assert.Contains(t, out, "return x.v[:j]")
		assert.Contains(t, out, "func (x Wrapped) SliceFull() []byte")
		assert.Contains(t, out, "return x.v[:]")
	})

	t.Run("inclusive bounds add one", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "[]byte", "wrapper(IndexInclusive, IndexToInclusive, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) SliceInclusive(i, j int) []byte")
		assert.Contains(t, out, "return x.v[i : j+1]")
		assert.Contains(t, out, "func (x Wrapped) SliceToInclusive(j int) []byte")
		assert.Contains(t, out, "return x.v[:j+1]")
	})

	t.Run("array inner slices to a slice", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "[4]uint8", "wrapper(Index, IndexRange, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) At(i int) uint8")
		assert.Contains(t, out, "func (x Wrapped) Slice(i, j int) []uint8")
	})

	t.Run("string inner slices to a string", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "string", "wrapper(Index, IndexRange, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) At(i int) byte")
		assert.Contains(t, out, "func (x Wrapped) Slice(i, j int) string")
	})

	t.Run("non-indexable inner is not derivable", func(t *testing.T) {
		err := GenerateWrapper(jen.NewFile("model"), innerDecl(t, "uint64", "wrapper(Index, NoRefs)"))
		require.Error(t, err)
		var nd *NotDerivableError
		require.ErrorAs(t, err, &nd)
		assert.Equal(t, "Index", nd.Capability)
		assert.Equal(t, "uint64", nd.Inner)
	})
}

func TestSynthArithmetic(t *testing.T) {
	t.Run("numeric inner uses native operators", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "int64", "wrapper(MathOps, NoRefs)"))
		assert.Contains(t, out, "func (x Wrapped) Neg() Wrapped")
		assert.Contains(t, out, "return Wrapped{v: -x.v}")
		assert.Contains(t, out, "func (x Wrapped) Add(rhs Wrapped) Wrapped")
		assert.Contains(t, out, "return Wrapped{v: x.v + rhs.v}")
		assert.Contains(t, out, "return Wrapped{v: x.v - rhs.v}")
		assert.Contains(t, out, "return Wrapped{v: x.v * rhs.v}")
		assert.Contains(t, out, "return Wrapped{v: x.v / rhs.v}")
		assert.Contains(t, out, "return Wrapped{v: x.v % rhs.v}")
	})

	t.Run("float inner cannot derive Rem", func(t *testing.T) {
		err := GenerateWrapper(jen.NewFile("model"), innerDecl(t, "float64", "wrapper(Rem, NoRefs)"))
		assert.True(t, errors.Is(err, ErrNotDerivable))
	})

	t.Run("string inner concatenates on Add only", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "string", "wrapper(Add, NoRefs)"))
		assert.Contains(t, out, "return Wrapped{v: x.v + rhs.v}")

		err := GenerateWrapper(jen.NewFile("model"), innerDecl(t, "string", "wrapper(Sub, NoRefs)"))
		assert.True(t, errors.Is(err, ErrNotDerivable))
	})

	t.Run("bitwise family demands integers", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "uint8", "wrapper(BitOps, NoRefs)"))
		assert.Contains(t, out, "return Wrapped{v: ^x.v}")
		assert.Contains(t, out, "return Wrapped{v: x.v & rhs.v}")
		assert.Contains(t, out, "return Wrapped{v: x.v | rhs.v}")
		assert.Contains(t, out, "return Wrapped{v: x.v ^ rhs.v}")
		assert.Contains(t, out, "return Wrapped{v: x.v << rhs.v}")
		assert.Contains(t, out, "return Wrapped{v: x.v >> rhs.v}")

		err := GenerateWrapper(jen.NewFile("model"), innerDecl(t, "float64", "wrapper(BitAnd, NoRefs)"))
		assert.True(t, errors.Is(err, ErrNotDerivable))
	})

	t.Run("Not negates booleans", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "bool", "wrapper(Not, NoRefs)"))
		assert.Contains(t, out, "return Wrapped{v: !x.v}")
	})

	t.Run("custom inner forwards operations", func(t *testing.T) {
		out := renderWrapper(t, innerDecl(t, "Fixed", "wrapper(Add, Neg, NoRefs)"))
		assert.Contains(t, out, "return Wrapped{v: x.v.Add(rhs.v)}")
		assert.Contains(t, out, "return Wrapped{v: x.v.Neg()}")
	})
}

func TestSynthMut(t *testing.T) {
	t.Run("assignments mutate in place", func(t *testing.T) {
		out := renderWrapperMut(t, innerDecl(t, "int64", "wrapper_mut(MathAssign, NoRefs)"))
		assert.Contains(t, out, "func (x *Wrapped) AddAssign(rhs Wrapped)")
		assert.Contains(t, out, "x.v += rhs.v")
		assert.Contains(t, out, "x.v -= rhs.v")
		assert.Contains(t, out, "x.v *= rhs.v")
		assert.Contains(t, out, "x.v /= rhs.v")
		assert.Contains(t, out, "x.v %= rhs.v")
	})

	t.Run("bit assignments demand integers", func(t *testing.T) {
		out := renderWrapperMut(t, innerDecl(t, "uint32", "wrapper_mut(BitAssign, NoRefs)"))
		assert.Contains(t, out, "x.v &= rhs.v")
		assert.Contains(t, out, "x.v |= rhs.v")
		assert.Contains(t, out, "x.v ^= rhs.v")
		assert.Contains(t, out, "x.v <<= rhs.v")
		assert.Contains(t, out, "x.v >>= rhs.v")

		err := GenerateWrapperMut(jen.NewFile("model"), innerDecl(t, "float64", "wrapper_mut(BitAssign, NoRefs)"))
		assert.True(t, errors.Is(err, ErrNotDerivable))
	})

	t.Run("custom inner forwards assignments", func(t *testing.T) {
		out := renderWrapperMut(t, innerDecl(t, "Fixed", "wrapper_mut(AddAssign, NoRefs)"))
		assert.Contains(t, out, "x.v.AddAssign(rhs.v)")
	})

	t.Run("SetAt stores an element", func(t *testing.T) {
		out := renderWrapperMut(t, innerDecl(t, "[]byte", "wrapper_mut(IndexMut, NoRefs)"))
		assert.Contains(t, out, "func (x *Wrapped) SetAt(i int, v byte)")
		assert.Contains(t, out, "x.v[i] = v")
	})

	t.Run("strings reject element stores", func(t *testing.T) {
		err := GenerateWrapperMut(jen.NewFile("model"), innerDecl(t, "string", "wrapper_mut(IndexMut, NoRefs)"))
		assert.True(t, errors.Is(err, ErrNotDerivable))
	})

	t.Run("mutable slicing shares storage", func(t *testing.T) {
		out := renderWrapperMut(t, innerDecl(t, "[]byte", "wrapper_mut(RangeMut, NoRefs)"))
		assert.Contains(t, out, "func (x *Wrapped) SliceMut(i, j int) []byte")
		assert.Contains(t, out, "func (x *Wrapped) SliceFromMut(i int) []byte")
		assert.Contains(t, out, "func (x *Wrapped) SliceToMut(j int) []byte")
		assert.Contains(t, out, "func (x *Wrapped) SliceInclusiveMut(i, j int) []byte")
		assert.Contains(t, out, "func (x *Wrapped) SliceToInclusiveMut(j int) []byte")
		assert.Contains(t, out, "func (x *Wrapped) SliceFullMut() []byte")
	})

	t.Run("array inner yields mutable slices", func(t *testing.T) {
		out := renderWrapperMut(t, innerDecl(t, "[4]uint8", "wrapper_mut(IndexRangeMut, NoRefs)"))
		assert.Contains(t, out, "func (x *Wrapped) SliceMut(i, j int) []uint8")
	})

	t.Run("mutable byte views", func(t *testing.T) {
		out := renderWrapperMut(t, innerDecl(t, "[]byte", "wrapper_mut(AsSliceMut, BorrowSliceMut, NoRefs)"))
		assert.Contains(t, out, "func (x *Wrapped) AsBytesMut() []byte")
		assert.Contains(t, out, "func (x *Wrapped) BorrowBytesMut() []byte")

		err := GenerateWrapperMut(jen.NewFile("model"), innerDecl(t, "string", "wrapper_mut(AsSliceMut, NoRefs)"))
		assert.True(t, errors.Is(err, ErrNotDerivable))
	})
}
