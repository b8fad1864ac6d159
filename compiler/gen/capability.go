package gen

import (
	"github.com/derivekit/derivekit/schema/attr"
	"github.com/derivekit/derivekit/schema/decl"
)

// Capability is one derivable behavior of the immutable wrapper family,
// requested through the `wrapper` directive. The enumeration is closed and
// ordered: declaration order drives deterministic iteration only.
type Capability int

const (
	// CapNoRefs is the marker that strips reference capabilities from the
	// resolved set. It never reaches synthesis.
	CapNoRefs Capability = iota
	// Formatting
	CapFromStr
	CapDisplay
	CapDebug
	CapOctal
	CapFromHex
	CapLowerHex
	CapUpperHex
	CapLowerExp
	CapUpperExp
	// References
	CapDeref
	CapAsRef
	CapAsSlice
	CapBorrow
	CapBorrowSlice
	// Indexes
	CapIndex
	CapIndexRange
	CapIndexFull
	CapIndexFrom
	CapIndexTo
	CapIndexInclusive
	CapIndexToInclusive
	// Arithmetics
	CapNeg
	CapAdd
	CapSub
	CapMul
	CapDiv
	CapRem
	// Booleans
	CapNot
	CapShl
	CapShr
	CapBitAnd
	CapBitOr
	CapBitXor
	// Group operations. Expanded before synthesis, never synthesized.
	CapHex
	CapExp
	CapNumberFmt
	CapRangeOps
	CapMathOps
	CapBoolOps
	CapBitOps
)

var capabilityNames = map[Capability]string{
	CapNoRefs:           "NoRefs",
	CapFromStr:          "FromStr",
	CapDisplay:          "Display",
	CapDebug:            "Debug",
	CapOctal:            "Octal",
	CapFromHex:          "FromHex",
	CapLowerHex:         "LowerHex",
	CapUpperHex:         "UpperHex",
	CapLowerExp:         "LowerExp",
	CapUpperExp:         "UpperExp",
	CapDeref:            "Deref",
	CapAsRef:            "AsRef",
	CapAsSlice:          "AsSlice",
	CapBorrow:           "Borrow",
	CapBorrowSlice:      "BorrowSlice",
	CapIndex:            "Index",
	CapIndexRange:       "IndexRange",
	CapIndexFull:        "IndexFull",
	CapIndexFrom:        "IndexFrom",
	CapIndexTo:          "IndexTo",
	CapIndexInclusive:   "IndexInclusive",
	CapIndexToInclusive: "IndexToInclusive",
	CapNeg:              "Neg",
	CapAdd:              "Add",
	CapSub:              "Sub",
	CapMul:              "Mul",
	CapDiv:              "Div",
	CapRem:              "Rem",
	CapNot:              "Not",
	CapShl:              "Shl",
	CapShr:              "Shr",
	CapBitAnd:           "BitAnd",
	CapBitOr:            "BitOr",
	CapBitXor:           "BitXor",
	CapHex:              "Hex",
	CapExp:              "Exp",
	CapNumberFmt:        "NumberFmt",
	CapRangeOps:         "RangeOps",
	CapMathOps:          "MathOps",
	CapBoolOps:          "BoolOps",
	CapBitOps:           "BitOps",
}

// String returns the capability's attribute identifier.
func (c Capability) String() string {
	return capabilityNames[c]
}

// groups maps each group capability to its fixed leaf members. A capability
// absent from this table is a leaf and expands to itself.
var groups = map[Capability][]Capability{
	CapHex: {CapLowerHex, CapUpperHex, CapFromHex},
	CapExp: {CapLowerExp, CapUpperExp},
	CapNumberFmt: {
		CapLowerHex, CapUpperHex, CapLowerExp, CapUpperExp, CapOctal,
	},
	CapRangeOps: {
		CapIndexRange, CapIndexFrom, CapIndexTo,
		CapIndexInclusive, CapIndexToInclusive, CapIndexFull,
	},
	CapMathOps: {CapNeg, CapAdd, CapSub, CapMul, CapDiv, CapRem},
	CapBoolOps: {CapNot, CapBitAnd, CapBitOr, CapBitXor},
	CapBitOps:  {CapNot, CapBitAnd, CapBitOr, CapBitXor, CapShl, CapShr},
}

// IsGroup reports whether the capability only expands to other capabilities.
func (c Capability) IsGroup() bool {
	_, ok := groups[c]
	return ok
}

// wrapperFamily describes the immutable capability family for resolution.
var wrapperFamily = family[Capability]{
	directive: "wrapper",
	noRefs:    CapNoRefs,
	defaults:  []Capability{CapAsRef, CapBorrow},
	byName:    invertNames(capabilityNames),
	expand: func(c Capability) []Capability {
		if members, ok := groups[c]; ok {
			return members
		}
		return []Capability{c}
	},
	isRef: func(c Capability) bool {
		return c == CapAsRef || c == CapBorrow
	},
}

// family holds the per-family resolution rules shared by the immutable and
// mutable capability enumerations. The two families are structurally
// parallel but never interchangeable.
type family[C comparable] struct {
	directive string
	noRefs    C
	defaults  []C
	byName    map[string]C
	expand    func(C) []C
	isRef     func(C) bool
}

// resolve builds the final requested capability set for one family: the
// family defaults, unioned with every capability named in the declaration's
// directives, groups fully expanded, de-duplicated in first-seen order.
// When the NoRefs marker appears anywhere, reference capabilities are
// dropped from the final set. The marker itself never survives resolution.
func resolve[C comparable](f family[C], d *decl.TypeDecl) ([]C, error) {
	var (
		out    []C
		seen   = map[C]bool{}
		noRefs bool
	)
	add := func(c C) {
		if c == f.noRefs {
			noRefs = true
			return
		}
		for _, leaf := range f.expand(c) {
			if !seen[leaf] {
				seen[leaf] = true
				out = append(out, leaf)
			}
		}
	}
	for _, c := range f.defaults {
		add(c)
	}
	for _, a := range decl.FindAttrs(d.Attrs, f.directive) {
		if a.Form == attr.FormBare {
			// A bare directive requests the family defaults only.
			continue
		}
		args, err := a.RequireParametrized()
		if err != nil {
			return nil, NewDirectiveError(d.Name, f.directive, "capability directives must be a list of names", err)
		}
		for _, g := range args {
			path, err := g.AsPath()
			if err != nil {
				return nil, NewDirectiveError(d.Name, f.directive, "capability names must be bare identifiers", err)
			}
			c, ok := f.byName[path]
			if !ok {
				return nil, &UnknownCapabilityError{Type: d.Name, Directive: f.directive, Name: path}
			}
			add(c)
		}
	}
	if noRefs {
		kept := out[:0]
		for _, c := range out {
			if !f.isRef(c) {
				kept = append(kept, c)
			}
		}
		out = kept
	}
	return out, nil
}

func invertNames[C comparable](names map[C]string) map[string]C {
	m := make(map[string]C, len(names))
	for c, n := range names {
		m[n] = c
	}
	return m
}

// ResolveCapabilities returns the final leaf capability set requested by the
// declaration's `wrapper` directives.
func ResolveCapabilities(d *decl.TypeDecl) ([]Capability, error) {
	return resolve(wrapperFamily, d)
}

// hasAttr reports whether any attribute with the given name is present.
func hasAttr(attrs []attr.Attr, name string) bool {
	return len(decl.FindAttrs(attrs, name)) > 0
}
