// Package wrap declares the runtime contracts of generated wrapper types.
// The generated methods forward to these interfaces whenever the wrapped
// inner type is not a builtin the synthesizer knows how to handle natively:
// a wrapper around a custom numeric type derives Add by calling the inner
// type's own Add, a hex-parsable wrapper derives ParseXxxHex by calling
// DecodeHex, and so on. The interfaces also let downstream code accept any
// generated wrapper generically.
package wrap

// Wrapper is the read surface every generated wrapper type carries: the
// constructor's counterpart accessor over the single wrapped inner value.
type Wrapper[I any] interface {
	Inner() I
}

// Mutable is the write surface of wrapper types derived with the mutable
// family: a pointer to the wrapped inner value, for in-place mutation.
type Mutable[I any] interface {
	InnerPtr() *I
}

// Octaler is implemented by inner types that render themselves in octal.
type Octaler interface {
	Octal() string
}

// LowerHexer is implemented by inner types that render themselves in
// lowercase hexadecimal.
type LowerHexer interface {
	LowerHex() string
}

// UpperHexer is implemented by inner types that render themselves in
// uppercase hexadecimal.
type UpperHexer interface {
	UpperHex() string
}

// LowerExper is implemented by inner types that render themselves in
// lowercase scientific notation.
type LowerExper interface {
	LowerExp() string
}

// UpperExper is implemented by inner types that render themselves in
// uppercase scientific notation.
type UpperExper interface {
	UpperExp() string
}

// ByteSlicer is implemented by inner types that expose a byte view.
type ByteSlicer interface {
	AsBytes() []byte
}

// HexDecoder is implemented by inner types that parse themselves from a
// hexadecimal string, in place.
type HexDecoder interface {
	DecodeHex(s string) error
}
