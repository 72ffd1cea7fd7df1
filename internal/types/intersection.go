package types

import "strings"

// Intersection is a normalized set of combined types (`A & B`). Like Union
// it keeps Members flat and deduplicated by canonical string; unlike Union
// it also applies absorption rules while flattening, per spec.md §8:
// `never & T = never`, `any & T = any`, `unknown & T = T`.
type Intersection struct {
	Members []Type
}

// intersectionResult distinguishes "collapsed to a single absorbing type"
// from "still an open set of members" while flattening.
type intersectionResult struct {
	absorbed Type // non-nil if flattening short-circuited to a single type
	members  []Type
}

// NewIntersection builds a normalized Intersection, applying absorption and
// deduplication. Zero members returns Unknown (the identity element for
// intersection: `T & unknown = T`); one member after simplification returns
// that member directly rather than a singleton Intersection.
func NewIntersection(members ...Type) Type {
	res := flattenIntersection(members)
	if res.absorbed != nil {
		return res.absorbed
	}
	if len(res.members) == 0 {
		return Unknown
	}
	if len(res.members) == 1 {
		return res.members[0]
	}
	return &Intersection{Members: res.members}
}

func flattenIntersection(members []Type) intersectionResult {
	seen := map[string]Type{}
	var order []string
	var absorbed Type

	var walk func(Type) bool // returns true to short-circuit
	walk = func(t Type) bool {
		switch v := t.(type) {
		case *Intersection:
			for _, m := range v.Members {
				if walk(m) {
					return true
				}
			}
			return false
		case nil:
			return false
		default:
			switch v {
			case Never:
				absorbed = Never
				return true
			case Any:
				absorbed = Any
				return true
			case Unknown:
				// identity element: unknown & T = T, simply dropped
				return false
			}
			key := CanonicalString(v)
			if _, ok := seen[key]; !ok {
				seen[key] = v
				order = append(order, key)
			}
			return false
		}
	}

	for _, m := range members {
		if walk(m) {
			return intersectionResult{absorbed: absorbed}
		}
	}

	sortedKeys := append([]string(nil), order...)
	sortStrings(sortedKeys)
	out := make([]Type, len(sortedKeys))
	for i, k := range sortedKeys {
		out[i] = seen[k]
	}
	return intersectionResult{members: out}
}

func (i *Intersection) String() string {
	parts := make([]string, len(i.Members))
	for idx, m := range i.Members {
		parts[idx] = m.String()
	}
	return strings.Join(parts, " & ")
}

func (i *Intersection) TypeKind() string { return "Intersection" }

func (i *Intersection) Equals(o Type) bool {
	oi, ok := o.(*Intersection)
	if !ok || len(oi.Members) != len(i.Members) {
		return false
	}
	return CanonicalString(i) == CanonicalString(oi)
}

// Normalize re-flattens and re-simplifies an already-built Intersection;
// NewIntersection(i.Members...) on an already-normalized Intersection always
// yields an equal result (the idempotence property spec.md §8 requires).
func (i *Intersection) Normalize() Type {
	return NewIntersection(i.Members...)
}
