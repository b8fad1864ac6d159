package gen

import (
	"github.com/derivekit/derivekit/schema/decl"
)

// MutCapability is one derivable behavior of the mutable wrapper family,
// requested through the `wrapper_mut` directive. Structurally parallel to
// Capability but a distinct type: a mutable capability can never flow into
// the immutable synthesizer or vice versa.
type MutCapability int

const (
	// MutNoRefs is the marker that strips reference capabilities from the
	// resolved set. It never reaches synthesis.
	MutNoRefs MutCapability = iota
	// References
	MutDeref
	MutAsRef
	MutAsSlice
	MutBorrow
	MutBorrowSlice
	// Indexes
	MutIndex
	MutIndexRange
	MutIndexFull
	MutIndexFrom
	MutIndexTo
	MutIndexInclusive
	MutIndexToInclusive
	// Arithmetics
	MutAddAssign
	MutSubAssign
	MutMulAssign
	MutDivAssign
	MutRemAssign
	MutShlAssign
	MutShrAssign
	// Booleans
	MutBitAndAssign
	MutBitOrAssign
	MutBitXorAssign
	// Group operations. Expanded before synthesis, never synthesized.
	MutRangeOps
	MutMathAssign
	MutBoolAssign
	MutBitAssign
)

var mutCapabilityNames = map[MutCapability]string{
	MutNoRefs:           "NoRefs",
	MutDeref:            "DerefMut",
	MutAsRef:            "AsMut",
	MutAsSlice:          "AsSliceMut",
	MutBorrow:           "BorrowMut",
	MutBorrowSlice:      "BorrowSliceMut",
	MutIndex:            "IndexMut",
	MutIndexRange:       "IndexRangeMut",
	MutIndexFull:        "IndexFullMut",
	MutIndexFrom:        "IndexFromMut",
	MutIndexTo:          "IndexToMut",
	MutIndexInclusive:   "IndexInclusiveMut",
	MutIndexToInclusive: "IndexToInclusiveMut",
	MutAddAssign:        "AddAssign",
	MutSubAssign:        "SubAssign",
	MutMulAssign:        "MulAssign",
	MutDivAssign:        "DivAssign",
	MutRemAssign:        "RemAssign",
	MutShlAssign:        "ShlAssign",
	MutShrAssign:        "ShrAssign",
	MutBitAndAssign:     "BitAndAssign",
	MutBitOrAssign:      "BitOrAssign",
	MutBitXorAssign:     "BitXorAssign",
	MutRangeOps:         "RangeMut",
	MutMathAssign:       "MathAssign",
	MutBoolAssign:       "BoolAssign",
	MutBitAssign:        "BitAssign",
}

// String returns the capability's attribute identifier.
func (c MutCapability) String() string {
	return mutCapabilityNames[c]
}

// mutGroups maps each mutable group capability to its fixed leaf members.
var mutGroups = map[MutCapability][]MutCapability{
	MutRangeOps: {
		MutIndexRange, MutIndexFrom, MutIndexTo,
		MutIndexInclusive, MutIndexToInclusive, MutIndexFull,
	},
	MutMathAssign: {
		MutAddAssign, MutSubAssign, MutMulAssign, MutDivAssign, MutRemAssign,
	},
	MutBoolAssign: {MutBitAndAssign, MutBitOrAssign, MutBitXorAssign},
	MutBitAssign: {
		MutBitAndAssign, MutBitOrAssign, MutBitXorAssign,
		MutShlAssign, MutShrAssign,
	},
}

// IsGroup reports whether the capability only expands to other capabilities.
func (c MutCapability) IsGroup() bool {
	_, ok := mutGroups[c]
	return ok
}

// wrapperMutFamily describes the mutable capability family for resolution.
var wrapperMutFamily = family[MutCapability]{
	directive: "wrapper_mut",
	noRefs:    MutNoRefs,
	defaults:  []MutCapability{MutAsRef, MutBorrow},
	byName:    invertNames(mutCapabilityNames),
	expand: func(c MutCapability) []MutCapability {
		if members, ok := mutGroups[c]; ok {
			return members
		}
		return []MutCapability{c}
	},
	isRef: func(c MutCapability) bool {
		return c == MutAsRef || c == MutBorrow
	},
}

// ResolveMutCapabilities returns the final leaf capability set requested by
// the declaration's `wrapper_mut` directives.
func ResolveMutCapabilities(d *decl.TypeDecl) ([]MutCapability, error) {
	return resolve(wrapperMutFamily, d)
}
