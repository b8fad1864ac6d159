// Package attr defines the directive attribute model consumed by the
// derivekit generators, together with the micro-syntax parser that turns a
// raw `//derive:` directive payload into a structured attribute value.
//
// Three attribute shapes exist:
//
//	//derive:wrap                   (bare)
//	//derive:from(net.IP, string)   (parametrized list)
//	//derive:from = "..."           (name-value; always rejected downstream)
//
// The parser is purely lexical. Shape validation (singular vs. parametrized,
// path-only arguments, and so on) is performed by the Require* and As*
// helpers so that each generator states its own grammar contract.
package attr

import (
	"strings"
	"unicode"
)

// Form identifies the syntactic shape of a parsed attribute.
type Form int

const (
	// FormBare is a marker attribute without arguments: `//derive:wrap`.
	FormBare Form = iota
	// FormList is a parenthesized argument list: `//derive:from(A, B)`.
	FormList
	// FormNameValue is the `name = value` shape.
	FormNameValue
)

// ArgKind identifies the kind of a single list argument.
type ArgKind int

const (
	// ArgPath is a bare type path such as `net.IP` or `[]byte`.
	ArgPath ArgKind = iota
	// ArgLit is a literal value such as `"text"` or `42`.
	ArgLit
	// ArgList is a nested list such as `arg(...)`. Never accepted.
	ArgList
)

// Attr is one parsed directive attribute.
type Attr struct {
	// Name is the attribute name, e.g. "from", "wrapper", "wrap".
	Name string
	// Form is the syntactic shape the attribute was written in.
	Form Form
	// Args holds the list arguments when Form is FormList.
	Args []Arg
	// Value holds the raw right-hand side when Form is FormNameValue.
	Value string
}

// Arg is a single argument of a parametrized attribute.
type Arg struct {
	Kind ArgKind
	// Path is the argument text when Kind is ArgPath.
	Path string
	// Lit is the raw literal text when Kind is ArgLit.
	Lit string
	// List is the nested attribute when Kind is ArgList.
	List *Attr
}

// Parse parses a directive payload (the text following `//derive:`) into an
// attribute. Malformed payloads yield a *Diagnostic.
func Parse(s string) (Attr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Attr{}, &Diagnostic{Kind: ArgNameRequired}
	}
	name, rest := splitName(s)
	if name == "" {
		return Attr{}, &Diagnostic{Kind: ArgNameRequired}
	}
	if !isIdent(name) {
		return Attr{}, &Diagnostic{Kind: ArgNameMustBeIdent, Path: name}
	}
	rest = strings.TrimSpace(rest)
	switch {
	case rest == "":
		return Attr{Name: name, Form: FormBare}, nil
	case strings.HasPrefix(rest, "="):
		value := strings.TrimSpace(rest[1:])
		if value == "" {
			return Attr{}, &Diagnostic{Kind: ArgValueRequired, Name: name}
		}
		return Attr{Name: name, Form: FormNameValue, Value: value}, nil
	case strings.HasPrefix(rest, "("):
		if !strings.HasSuffix(rest, ")") {
			return Attr{}, &Diagnostic{Kind: ParametrizedRequired, Name: name}
		}
		args, err := parseArgs(name, rest[1:len(rest)-1])
		if err != nil {
			return Attr{}, err
		}
		return Attr{Name: name, Form: FormList, Args: args}, nil
	default:
		return Attr{}, &Diagnostic{Kind: ParametrizedRequired, Name: name}
	}
}

// RequireSingular validates that the attribute was written without an
// argument list, per the bare-marker grammar.
func (a Attr) RequireSingular() error {
	if a.Form == FormList {
		return &Diagnostic{Kind: SingularRequired, Name: a.Name}
	}
	return nil
}

// RequireParametrized validates that the attribute was written as a
// parenthesized list and returns its arguments.
func (a Attr) RequireParametrized() ([]Arg, error) {
	if a.Form != FormList {
		return nil, &Diagnostic{Kind: ParametrizedRequired, Name: a.Name}
	}
	return a.Args, nil
}

// AsPath validates that the argument is a bare path and returns its text.
func (g Arg) AsPath() (string, error) {
	switch g.Kind {
	case ArgPath:
		return g.Path, nil
	case ArgLit:
		return "", &Diagnostic{Kind: ArgMustBePath, Path: g.Lit}
	default:
		return "", &Diagnostic{
			Kind: NestedListNotSupported,
			Name: g.List.Name,
			List: g.List.String(),
		}
	}
}

// String renders the attribute back to its directive form.
func (a Attr) String() string {
	var b strings.Builder
	b.WriteString(a.Name)
	switch a.Form {
	case FormNameValue:
		b.WriteString(" = ")
		b.WriteString(a.Value)
	case FormList:
		b.WriteByte('(')
		for i, g := range a.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			switch g.Kind {
			case ArgPath:
				b.WriteString(g.Path)
			case ArgLit:
				b.WriteString(g.Lit)
			case ArgList:
				b.WriteString(g.List.String())
			}
		}
		b.WriteByte(')')
	}
	return b.String()
}

// parseArgs splits and classifies the comma-separated argument list body.
func parseArgs(name, body string) ([]Arg, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}
	var args []Arg
	for _, part := range splitTop(body) {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, &Diagnostic{Kind: ArgNameRequired}
		}
		switch {
		case strings.ContainsRune(part, '('):
			nested, err := Parse(part)
			if err != nil {
				return nil, err
			}
			return nil, &Diagnostic{
				Kind: NestedListNotSupported,
				Name: name,
				List: nested.String(),
			}
		case isLiteral(part):
			args = append(args, Arg{Kind: ArgLit, Lit: part})
		case isTypePath(part):
			args = append(args, Arg{Kind: ArgPath, Path: part})
		default:
			return nil, &Diagnostic{Kind: ArgMustBePath, Path: part}
		}
	}
	return args, nil
}

// splitTop splits on commas that are not nested inside parentheses or
// brackets, so `map[string]int` and `f(a, b)` stay intact.
func splitTop(s string) []string {
	var (
		parts []string
		depth int
		last  int
	)
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

// splitName cuts the leading identifier off a directive payload.
func splitName(s string) (name, rest string) {
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return s[:i], s[i:]
	}
	return s, ""
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func isLiteral(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[0])
	return r == '"' || r == '\'' || r == '`' || unicode.IsDigit(r) || r == '-'
}

// isTypePath accepts qualified identifiers with the common Go type prefixes:
// `Name`, `pkg.Name`, `*T`, `[]T`, and `[N]T`.
func isTypePath(s string) bool {
	for strings.HasPrefix(s, "*") {
		s = s[1:]
	}
	for strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return false
		}
		for _, r := range s[1:end] {
			if !unicode.IsDigit(r) {
				return false
			}
		}
		s = s[end+1:]
	}
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, ".") {
		if !isIdent(seg) {
			return false
		}
	}
	return true
}
