package types

import (
	"sort"
	"strings"
)

// KeyOf is `keyof T`.
type KeyOf struct{ Operand Type }

func (k *KeyOf) String() string   { return "keyof " + k.Operand.String() }
func (k *KeyOf) TypeKind() string { return "KeyOf" }
func (k *KeyOf) Equals(o Type) bool {
	ok2, ok := o.(*KeyOf)
	return ok && k.Operand.Equals(ok2.Operand)
}

// Keys resolves `keyof T` to the union of T's own member names as string
// literal types, for the Record/Interface/Class shapes this core can
// introspect; other operands resolve to `string` (the conservative default
// TypeScript itself falls back to for types it cannot enumerate).
func (k *KeyOf) Keys() Type {
	var names []string
	switch t := k.Operand.(type) {
	case *Record:
		names = t.sortedNames()
	case *Interface:
		for name := range t.AllMembers() {
			names = append(names, name)
		}
		sort.Strings(names)
	case *Class:
		for name := range t.mutable.Fields {
			names = append(names, name)
		}
		for name := range t.mutable.Methods {
			names = append(names, name)
		}
		sort.Strings(names)
	default:
		return StringT
	}
	if len(names) == 0 {
		return Never
	}
	members := make([]Type, len(names))
	for i, n := range names {
		members[i] = &Literal{Kind: LiteralKindString, Value: n}
	}
	return NewUnion(members...)
}

// MappedType is `{ [K in Keys]: Value }`, optionally with `readonly`/`?`
// modifiers carried at the member level (ReadonlyMod/OptionalMod use the
// usual TS `+`/`-`/absent three-state encoding: 1 adds, -1 removes, 0
// leaves as-is).
type MappedType struct {
	TypeParam    string
	Constraint   Type // the `Keys` in `K in Keys`
	Value        Type // may reference TypeParam; substitution happens on Apply
	ReadonlyMod  int
	OptionalMod  int
}

func (m *MappedType) String() string {
	return "{ [" + m.TypeParam + " in " + m.Constraint.String() + "]: " + m.Value.String() + " }"
}
func (m *MappedType) TypeKind() string { return "MappedType" }
func (m *MappedType) Equals(o Type) bool {
	om, ok := o.(*MappedType)
	return ok && m.TypeParam == om.TypeParam && m.Constraint.Equals(om.Constraint) && m.Value.Equals(om.Value)
}

// IndexedAccess is `T[K]`.
type IndexedAccess struct {
	Object Type
	Index  Type
}

func (i *IndexedAccess) String() string   { return i.Object.String() + "[" + i.Index.String() + "]" }
func (i *IndexedAccess) TypeKind() string { return "IndexedAccess" }
func (i *IndexedAccess) Equals(o Type) bool {
	oi, ok := o.(*IndexedAccess)
	return ok && i.Object.Equals(oi.Object) && i.Index.Equals(oi.Index)
}

// Resolve looks up the member named by a string-literal Index inside a
// Record/Interface Object; any other combination resolves to Unknown
// (full indexed-access resolution over arbitrary type expressions is out
// of scope for this core's static-dispatch needs).
func (i *IndexedAccess) Resolve() Type {
	lit, ok := i.Index.(*Literal)
	if !ok || lit.Kind != LiteralKindString {
		return Unknown
	}
	key, _ := lit.Value.(string)
	switch obj := i.Object.(type) {
	case *Record:
		if ty, ok := obj.Fields[key]; ok {
			return ty
		}
	case *Interface:
		if ty, ok := obj.AllMembers()[key]; ok {
			return ty
		}
	}
	return Unknown
}

// ConditionalType is `Check extends Extends ? True : False`.
type ConditionalType struct {
	Check   Type
	Extends Type
	True    Type
	False   Type
}

func (c *ConditionalType) String() string {
	return c.Check.String() + " extends " + c.Extends.String() + " ? " + c.True.String() + " : " + c.False.String()
}
func (c *ConditionalType) TypeKind() string { return "ConditionalType" }
func (c *ConditionalType) Equals(o Type) bool {
	oc, ok := o.(*ConditionalType)
	return ok && c.Check.Equals(oc.Check) && c.Extends.Equals(oc.Extends) &&
		c.True.Equals(oc.True) && c.False.Equals(oc.False)
}

// InferredTypeParameter is an `infer X` site inside a ConditionalType's
// Extends clause.
type InferredTypeParameter struct{ Name string }

func (i *InferredTypeParameter) String() string   { return "infer " + i.Name }
func (i *InferredTypeParameter) TypeKind() string { return "InferredTypeParameter" }
func (i *InferredTypeParameter) Equals(o Type) bool {
	oi, ok := o.(*InferredTypeParameter)
	return ok && oi.Name == i.Name
}

// TemplateLiteralType is a template-literal type,
// e.g. `` `on${Capitalize<Event>}` ``. Parts alternates literal string
// segments (string) and type-expression holes (Type).
type TemplateLiteralType struct{ Parts []any }

func (t *TemplateLiteralType) String() string {
	var b strings.Builder
	b.WriteString("`")
	for _, p := range t.Parts {
		switch v := p.(type) {
		case string:
			b.WriteString(v)
		case Type:
			b.WriteString("${")
			b.WriteString(v.String())
			b.WriteString("}")
		}
	}
	b.WriteString("`")
	return b.String()
}
func (t *TemplateLiteralType) TypeKind() string { return "TemplateLiteralType" }
func (t *TemplateLiteralType) Equals(o Type) bool {
	ot, ok := o.(*TemplateLiteralType)
	return ok && CanonicalString(t) == CanonicalString(ot)
}

// IntrinsicStringKind names one of the compiler-provided string
// transformation intrinsics.
type IntrinsicStringKind int

const (
	IntrinsicUppercase IntrinsicStringKind = iota
	IntrinsicLowercase
	IntrinsicCapitalize
	IntrinsicUncapitalize
)

func (k IntrinsicStringKind) String() string {
	switch k {
	case IntrinsicUppercase:
		return "Uppercase"
	case IntrinsicLowercase:
		return "Lowercase"
	case IntrinsicCapitalize:
		return "Capitalize"
	default:
		return "Uncapitalize"
	}
}

// IntrinsicStringType applies one of the built-in string-case intrinsics to
// an operand type (usually resolved against a Literal at emission time).
type IntrinsicStringType struct {
	Kind    IntrinsicStringKind
	Operand Type
}

func (i *IntrinsicStringType) String() string {
	return i.Kind.String() + "<" + i.Operand.String() + ">"
}
func (i *IntrinsicStringType) TypeKind() string { return "IntrinsicStringType" }
func (i *IntrinsicStringType) Equals(o Type) bool {
	oi, ok := o.(*IntrinsicStringType)
	return ok && oi.Kind == i.Kind && i.Operand.Equals(oi.Operand)
}

// Apply resolves the intrinsic against a string literal operand;
// non-literal operands are out of scope (no const-string folding across
// generic instantiation in this core) and resolve to StringT.
func (i *IntrinsicStringType) Apply() Type {
	lit, ok := i.Operand.(*Literal)
	if !ok || lit.Kind != LiteralKindString {
		return StringT
	}
	s, _ := lit.Value.(string)
	var out string
	switch i.Kind {
	case IntrinsicUppercase:
		out = strings.ToUpper(s)
	case IntrinsicLowercase:
		out = strings.ToLower(s)
	case IntrinsicCapitalize:
		if s == "" {
			out = s
		} else {
			out = strings.ToUpper(s[:1]) + s[1:]
		}
	case IntrinsicUncapitalize:
		if s == "" {
			out = s
		} else {
			out = strings.ToLower(s[:1]) + s[1:]
		}
	}
	return &Literal{Kind: LiteralKindString, Value: out}
}
