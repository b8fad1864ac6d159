package attr

import (
	"errors"
	"fmt"
)

// ErrMalformed anchors every attribute diagnostic for errors.Is checks.
var ErrMalformed = errors.New("derivekit: malformed directive attribute")

// DiagKind enumerates the closed set of attribute malformation conditions.
// Every way a directive attribute can be structurally wrong maps to exactly
// one kind; there are no free-form attribute errors.
type DiagKind int

const (
	// SingularRequired: the attribute must be bare or `name = value`.
	SingularRequired DiagKind = iota
	// ParametrizedRequired: the attribute must be a `name(...)` list.
	ParametrizedRequired
	// ArgMustBePath: a list argument must be a bare type path.
	ArgMustBePath
	// ArgNameRequired: the attribute or argument is missing a name.
	ArgNameRequired
	// ArgNameMustBeIdent: the name must be a plain identifier, not a path.
	ArgNameMustBeIdent
	// ArgValueRequired: the `name = value` shape is missing its value.
	ArgValueRequired
	// ArgValueMustBeLiteral: the value must be a literal (string, int, ...).
	ArgValueMustBeLiteral
	// ArgValueMustBeType: the value must be a valid type name.
	ArgValueMustBeType
	// ParametrizedHasNoValue: the parametrized attribute carries no value.
	ParametrizedHasNoValue
	// NestedListNotSupported: lists nested in arguments are not supported.
	NestedListNotSupported
)

// Diagnostic is a structured description of one malformed attribute. It is
// immutable once constructed and carries enough context (offending name,
// path, or rendered list) to point at the exact directive site.
type Diagnostic struct {
	Kind DiagKind
	// Name is the offending attribute or argument name, when known.
	Name string
	// Path is the offending path or non-path argument text, when known.
	Path string
	// List is the rendered nested list for NestedListNotSupported.
	List string
}

// Error renders the human-readable message for the diagnostic.
func (d *Diagnostic) Error() string {
	switch d.Kind {
	case SingularRequired:
		return fmt.Sprintf("directive %q must be in a singular form (`//derive:%s`)", d.Name, d.Name)
	case ParametrizedRequired:
		return fmt.Sprintf("directive %q must be in a parametrized form (`//derive:%s(...)`)", d.Name, d.Name)
	case ArgMustBePath:
		return fmt.Sprintf("directive argument %q must be a type path", d.Path)
	case ArgNameRequired:
		return "directive argument name is required"
	case ArgNameMustBeIdent:
		return fmt.Sprintf("directive arguments must be identifiers, not paths like %q", d.Path)
	case ArgValueRequired:
		return fmt.Sprintf("directive argument value is required for %q", d.Name)
	case ArgValueMustBeLiteral:
		return "directive value must be a literal (string, int, ...)"
	case ArgValueMustBeType:
		return "directive value must be a valid type name"
	case ParametrizedHasNoValue:
		return fmt.Sprintf("directive %q must be in a `%s = ...` form", d.Name, d.Name)
	case NestedListNotSupported:
		return fmt.Sprintf("directive %q does not support nested lists like `%s`", d.Name, d.List)
	default:
		return "malformed directive attribute"
	}
}

// Is reports whether the target matches the malformed-attribute sentinel.
func (d *Diagnostic) Is(target error) bool {
	return target == ErrMalformed
}

// IsDiagnostic reports whether err is an attribute diagnostic, and returns it.
func IsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	ok := errors.As(err, &d)
	return d, ok
}
