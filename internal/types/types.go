// Package types implements the type lattice used by the SharpTS compiler
// back end: the closed set of type-expression variants from spec.md §3,
// their structural equality and canonical string form, union/intersection
// normalization, and the subtype/assignability rules C8 (dispatch registry)
// consults when routing a method call.
package types

import "golang.org/x/text/unicode/norm"

// Type is implemented by every member of the lattice.
type Type interface {
	// String returns the type's canonical source-like spelling.
	String() string
	// TypeKind names the variant, e.g. "Union", "Class", "Array".
	TypeKind() string
	// Equals reports structural equality — for Union/Intersection this goes
	// through the canonical string form per spec.md §3.
	Equals(other Type) bool
}

// CanonicalString returns the NFC-normalized canonical form used for
// structural-equality hashing of literal and union/intersection types. NFC
// normalization keeps the form stable regardless of how an upstream tool
// encoded composed-vs-decomposed Unicode in a string literal type, which
// matters for the determinism property in spec.md §8 (identical AST input
// yields identical bytecode).
func CanonicalString(t Type) string {
	return norm.NFC.String(t.String())
}

// primitive is a singleton primitive type identified by name.
type primitive struct {
	name string
}

func (p *primitive) String() string     { return p.name }
func (p *primitive) TypeKind() string   { return "Primitive:" + p.name }
func (p *primitive) Equals(o Type) bool {
	op, ok := o.(*primitive)
	return ok && op.name == p.name
}

var (
	Number    Type = &primitive{"number"}
	StringT   Type = &primitive{"string"}
	Boolean   Type = &primitive{"boolean"}
	Void      Type = &primitive{"void"}
	Any       Type = &primitive{"any"}
	Null      Type = &primitive{"null"}
	Undefined Type = &primitive{"undefined"}
	Unknown   Type = &primitive{"unknown"}
	Never     Type = &primitive{"never"}
	Symbol    Type = &primitive{"symbol"}
	BigInt    Type = &primitive{"bigint"}
	DateType  Type = &primitive{"Date"}
	RegExpT   Type = &primitive{"RegExp"}
)

// IsPrimitive reports whether t is one of the fixed primitive singletons.
func IsPrimitive(t Type) bool {
	_, ok := t.(*primitive)
	return ok
}

// IsNullish reports whether t is the null type or the undefined type
// (a union of the two is not recognised).
func IsNullish(t Type) bool {
	return t.Equals(Null) || t.Equals(Undefined)
}
