package types

import "strings"

// Union is a normalized set of alternative types (`A | B | C`). Members is
// kept flat (no Union nested inside Members) and deduplicated by canonical
// string, and sorted by that same key so that two unions built from the
// same member set in different orders produce identical String() output —
// the byte-identical-bytecode property from spec.md §8 depends on this for
// any type whose canonical form is baked into emitted IL.
type Union struct {
	Members []Type
}

// NewUnion builds a normalized Union from members, flattening nested unions
// and deduplicating by canonical string. Passing zero members returns Never
// (the identity element for union: `T | never = T`); passing one member
// after dedup returns that member directly rather than a singleton Union.
func NewUnion(members ...Type) Type {
	flat := flattenUnion(members)
	if len(flat) == 0 {
		return Never
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Union{Members: flat}
}

func flattenUnion(members []Type) []Type {
	seen := map[string]Type{}
	var order []string
	var walk func(Type)
	walk = func(t Type) {
		switch v := t.(type) {
		case *Union:
			for _, m := range v.Members {
				walk(m)
			}
		case nil:
			// skip
		default:
			if v == Never {
				return
			}
			key := CanonicalString(v)
			if _, ok := seen[key]; !ok {
				seen[key] = v
				order = append(order, key)
			}
		}
	}
	for _, m := range members {
		walk(m)
	}
	sortedKeys := append([]string(nil), order...)
	sortStrings(sortedKeys)
	out := make([]Type, len(sortedKeys))
	for i, k := range sortedKeys {
		out[i] = seen[k]
	}
	return out
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

func (u *Union) TypeKind() string { return "Union" }

func (u *Union) Equals(o Type) bool {
	ou, ok := o.(*Union)
	if !ok || len(ou.Members) != len(u.Members) {
		return false
	}
	// Members are both already normalized (sorted, deduped), so comparing
	// canonical strings position-by-position is sufficient.
	return CanonicalString(u) == CanonicalString(ou)
}

// Normalize re-flattens and re-dedups an already-built Union; calling it on
// an already-normalized Union is idempotent — NewUnion(u.Members...) always
// yields an equal result, which is the round-trip property spec.md §8
// requires of Union construction.
func (u *Union) Normalize() Type {
	return NewUnion(u.Members...)
}

// Contains reports whether t (compared by canonical string) is one of u's
// members.
func (u *Union) Contains(t Type) bool {
	key := CanonicalString(t)
	for _, m := range u.Members {
		if CanonicalString(m) == key {
			return true
		}
	}
	return false
}
