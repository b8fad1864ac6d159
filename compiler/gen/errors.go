// Package gen implements the derivekit code generators: the conversion
// generator driven by `from` directives and the wrapper generator driven by
// `wrapper`/`wrapper_mut` directives.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidDirective indicates a semantically invalid directive.
	ErrInvalidDirective = errors.New("derivekit: invalid directive")
	// ErrDuplicateSource indicates a repeated conversion source type.
	ErrDuplicateSource = errors.New("derivekit: duplicate conversion source")
	// ErrNoWrapTarget indicates a missing or ambiguous wrap target.
	ErrNoWrapTarget = errors.New("derivekit: unresolved wrap target")
	// ErrUnknownCapability indicates an unrecognized capability name.
	ErrUnknownCapability = errors.New("derivekit: unknown capability")
	// ErrNotDerivable indicates a capability the wrapped field cannot carry.
	ErrNotDerivable = errors.New("derivekit: capability not derivable")
)

// DirectiveError reports a directive used in a semantically invalid place,
// such as a top-level `from` on an enum or a bare `from` on a multi-field
// declaration.
type DirectiveError struct {
	Type      string // declaring type name
	Directive string // directive name
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *DirectiveError) Error() string {
	var b strings.Builder
	b.WriteString("derivekit: directive error")
	if e.Directive != "" {
		fmt.Fprintf(&b, " for %q", e.Directive)
	}
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DirectiveError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel for DirectiveError.
func (e *DirectiveError) Is(target error) bool {
	return target == ErrInvalidDirective
}

// NewDirectiveError creates a new DirectiveError.
func NewDirectiveError(typeName, directive, message string, cause error) *DirectiveError {
	return &DirectiveError{
		Type:      typeName,
		Directive: directive,
		Message:   message,
		Cause:     cause,
	}
}

// DuplicateSourceError reports two conversion instructions sharing the same
// source type within one generation run.
type DuplicateSourceError struct {
	Type   string // declaring type name
	Source string // rendered source type that repeats
}

// Error implements the error interface.
func (e *DuplicateSourceError) Error() string {
	return fmt.Sprintf("derivekit: directive \"from\" on type %s: repeated use of source type %q", e.Type, e.Source)
}

// Is reports whether the target matches the sentinel for DuplicateSourceError.
func (e *DuplicateSourceError) Is(target error) bool {
	return target == ErrDuplicateSource
}

// WrapTargetError reports a wrap-target resolution failure: the declaration
// is not a struct, has no fields, has multiple unmarked fields, or carries
// more than one `wrap` marker.
type WrapTargetError struct {
	Type    string
	Message string
}

// Error implements the error interface.
func (e *WrapTargetError) Error() string {
	return fmt.Sprintf("derivekit: wrapper on type %s: %s", e.Type, e.Message)
}

// Is reports whether the target matches the sentinel for WrapTargetError.
func (e *WrapTargetError) Is(target error) bool {
	return target == ErrNoWrapTarget
}

// UnknownCapabilityError reports a capability name that does not resolve
// against the family's closed enumeration.
type UnknownCapabilityError struct {
	Type      string
	Directive string // "wrapper" or "wrapper_mut"
	Name      string // offending identifier
}

// Error implements the error interface.
func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("derivekit: directive %q on type %s: unrecognized capability %q", e.Directive, e.Type, e.Name)
}

// Is reports whether the target matches the sentinel for UnknownCapabilityError.
func (e *UnknownCapabilityError) Is(target error) bool {
	return target == ErrUnknownCapability
}

// NotDerivableError reports a requested capability the wrapped field's
// declared type cannot carry, such as indexing over a non-indexable inner.
type NotDerivableError struct {
	Type       string
	Capability string
	Inner      string // wrapped field type text
	Message    string
}

// Error implements the error interface.
func (e *NotDerivableError) Error() string {
	return fmt.Sprintf("derivekit: capability %s on type %s: not derivable for inner type %s: %s",
		e.Capability, e.Type, e.Inner, e.Message)
}

// Is reports whether the target matches the sentinel for NotDerivableError.
func (e *NotDerivableError) Is(target error) bool {
	return target == ErrNotDerivable
}

// IsDirectiveError reports whether the error is a DirectiveError.
func IsDirectiveError(err error) bool {
	var de *DirectiveError
	return errors.As(err, &de)
}

// IsDuplicateSourceError reports whether the error is a DuplicateSourceError.
func IsDuplicateSourceError(err error) bool {
	var de *DuplicateSourceError
	return errors.As(err, &de)
}

// IsWrapTargetError reports whether the error is a WrapTargetError.
func IsWrapTargetError(err error) bool {
	var we *WrapTargetError
	return errors.As(err, &we)
}
