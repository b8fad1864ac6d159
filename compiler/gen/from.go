package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/derivekit/derivekit/schema/attr"
	"github.com/derivekit/derivekit/schema/decl"
)

// fromDirective is the attribute name of the conversion family.
const fromDirective = "from"

// TargetKind identifies where a converted value is written during
// construction of the declared type.
type TargetKind int

const (
	// TargetDefault constructs the whole value: through the sole field when
	// the entity has exactly one, as a zero value otherwise.
	TargetDefault TargetKind = iota
	// TargetUnit constructs a fieldless value or variant.
	TargetUnit
	// TargetNamed routes the value into a named field.
	TargetNamed
	// TargetPositional routes the value into a positional (embedded or
	// unnamed) slot; leading slots are zero-filled.
	TargetPositional
)

// Target is the construction recipe of one conversion instruction.
type Target struct {
	Kind TargetKind
	// Variant is the enum variant receiving the value; empty for structs.
	Variant string
	// Field is the target field name for TargetNamed.
	Field string
	// Index is the target slot for TargetPositional.
	Index int
	// FieldType is the declared type of the target field, when any.
	FieldType decl.TypeRef
	// Slots are the declared types of every field of the entity, used to
	// zero fill the remaining slots of a positional construction. Go
	// positional literals must supply all fields.
	Slots []decl.TypeRef
}

// Instruction pairs a conversion source type with its construction recipe.
// Two instructions are equal iff their source types are canonically equal,
// regardless of target; that equality drives duplicate rejection.
type Instruction struct {
	Source decl.TypeRef
	Target Target
}

// instructionTable is the insertion-ordered set of unique instructions
// collected from one declaration. It rejects duplicates on extend, not at
// the end, so the first offending directive is reported.
type instructionTable struct {
	typeName string
	entries  []Instruction
	seen     map[string]bool
}

func newInstructionTable(typeName string) *instructionTable {
	return &instructionTable{typeName: typeName, seen: map[string]bool{}}
}

func (t *instructionTable) extend(entries ...Instruction) error {
	for _, e := range entries {
		key := e.Source.Canonical()
		if t.seen[key] {
			return &DuplicateSourceError{Type: t.typeName, Source: e.Source.Text}
		}
		t.seen[key] = true
		t.entries = append(t.entries, e)
	}
	return nil
}

// entityTarget computes the construction recipe used by entity-level
// (type or variant) directives: a unit target for fieldless entities,
// the sole field for single-field entities, and whole-value default
// construction otherwise.
func entityTarget(variant string, fields []*decl.Field) Target {
	switch len(fields) {
	case 0:
		return Target{Kind: TargetUnit, Variant: variant}
	case 1:
		return fieldTarget(variant, 0, fields)
	default:
		return Target{Kind: TargetDefault, Variant: variant}
	}
}

// fieldTarget computes the construction recipe routing into field index.
// Embedded fields construct through their keyed selector; truly unnamed
// slots (from non-Go front ends) construct positionally.
func fieldTarget(variant string, index int, fields []*decl.Field) Target {
	f := fields[index]
	if f.Name != "" || f.Embedded {
		return Target{
			Kind:      TargetNamed,
			Variant:   variant,
			Field:     f.Sel(),
			FieldType: f.Type,
		}
	}
	slots := make([]decl.TypeRef, len(fields))
	for i, sf := range fields {
		slots[i] = sf.Type
	}
	return Target{
		Kind:      TargetPositional,
		Variant:   variant,
		Index:     index,
		FieldType: f.Type,
		Slots:     slots,
	}
}

// scan collects the instructions of one entity (the whole struct/union, or
// one enum variant): entity-level directives first, then per-field markers.
func (t *instructionTable) scan(variant string, attrs []attr.Attr, fields []*decl.Field) error {
	target := entityTarget(variant, fields)
	for _, a := range decl.FindAttrs(attrs, fromDirective) {
		switch a.Form {
		case attr.FormBare:
			if len(fields) != 1 {
				return NewDirectiveError(t.typeName, fromDirective,
					"bare form allowed only for entities with a single field; mark the target field instead", nil)
			}
			if err := t.extend(Instruction{Source: fields[0].Type, Target: target}); err != nil {
				return err
			}
		case attr.FormList:
			for _, g := range a.Args {
				path, err := g.AsPath()
				if err != nil {
					return NewDirectiveError(t.typeName, fromDirective, "source types must be bare paths", err)
				}
				if err := t.extend(Instruction{Source: decl.TypeRef{Text: path}, Target: target}); err != nil {
					return err
				}
			}
		default:
			return NewDirectiveError(t.typeName, fromDirective, "name-value form is not supported",
				&attr.Diagnostic{Kind: attr.ParametrizedRequired, Name: fromDirective})
		}
	}
	for i, f := range fields {
		for _, a := range decl.FindAttrs(f.Attrs, fromDirective) {
			ft := fieldTarget(variant, i, fields)
			switch a.Form {
			case attr.FormBare:
				if err := t.extend(Instruction{Source: f.Type, Target: ft}); err != nil {
					return err
				}
			case attr.FormList:
				for _, g := range a.Args {
					path, err := g.AsPath()
					if err != nil {
						return NewDirectiveError(t.typeName, fromDirective, "source types must be bare paths", err)
					}
					if err := t.extend(Instruction{Source: decl.TypeRef{Text: path}, Target: ft}); err != nil {
						return err
					}
				}
			default:
				return NewDirectiveError(t.typeName, fromDirective, "name-value form is not supported",
					&attr.Diagnostic{Kind: attr.ParametrizedRequired, Name: fromDirective})
			}
		}
	}
	return nil
}

// Instructions extracts the validated conversion instruction list of one
// declaration. Struct and union declarations are scanned once; enums are
// scanned per variant, with the variant name tagged into every target.
// A `from` directive on the enum itself is rejected in every form; sources
// attach to variants or their fields.
func Instructions(d *decl.TypeDecl) ([]Instruction, error) {
	t := newInstructionTable(d.Name)
	if d.Kind == decl.Enum && len(decl.FindAttrs(d.Attrs, fromDirective)) > 0 {
		return nil, NewDirectiveError(d.Name, fromDirective,
			"not allowed at the top level of an enum; attach it to a variant or field", nil)
	}
	for _, vf := range d.VariantFields() {
		if err := t.scan(vf.Variant, vf.Attrs, vf.Fields); err != nil {
			return nil, err
		}
	}
	return t.entries, nil
}

// GenerateConversions appends one conversion constructor per instruction to
// the file: `func <T>From<Source>(v S) T`.
func GenerateConversions(f *jen.File, d *decl.TypeDecl) error {
	instructions, err := Instructions(d)
	if err != nil {
		return err
	}
	for _, ins := range instructions {
		emitConversion(f, d, ins)
	}
	return nil
}

func emitConversion(f *jen.File, d *decl.TypeDecl, ins Instruction) {
	name := d.Name + "From" + SourceIdent(ins.Source.Text)
	ret := typeUse(d)
	if d.Kind == decl.Enum {
		ret = d.Name
	}
	f.Commentf("%s converts a %s value into %s.", name, ins.Source.Text, d.Name)
	genericFunc(f, name, d).
		Params(jen.Id("v").Add(typeExpr(ins.Source))).
		Id(ret).
		Block(jen.Return(constructExpr(d, ins)))
}

// constructExpr builds the composite literal that routes the converted
// value into the instruction's target.
func constructExpr(d *decl.TypeDecl, ins Instruction) jen.Code {
	ctor := typeUse(d)
	if ins.Target.Variant != "" {
		ctor = ins.Target.Variant
	}
	conv := convExpr(ins.Source, ins.Target.FieldType)
	switch ins.Target.Kind {
	case TargetUnit, TargetDefault:
		return jen.Id(ctor).Values()
	case TargetNamed:
		return jen.Id(ctor).Values(jen.Dict{
			jen.Id(ins.Target.Field): conv,
		})
	default: // TargetPositional
		values := make([]jen.Code, len(ins.Target.Slots))
		for i, st := range ins.Target.Slots {
			if i == ins.Target.Index {
				values[i] = conv
				continue
			}
			values[i] = zeroExpr(st)
		}
		return jen.Id(ctor).Values(values...)
	}
}
