package types

// IsSubtype reports whether every value of type sub can be used where a
// value of type super is expected. This is the structural half of the
// relation C8's type-directed dispatch (spec.md §4.5 rule 7) consults when
// deciding whether a union member matches a strategy-registry entry; full
// bidirectional inference is out of scope, so the rules below are the
// closed set this core's dispatch and literal-widening needs actually
// exercise.
func IsSubtype(sub, super Type) bool {
	if sub == nil || super == nil {
		return false
	}
	if super.Equals(Any) || super.Equals(Unknown) {
		return true
	}
	if sub.Equals(Never) {
		return true
	}
	if sub.Equals(Any) {
		return true
	}
	if sub.Equals(super) {
		return true
	}

	if lit, ok := sub.(*Literal); ok {
		return IsSubtype(lit.Widen(), super)
	}

	if sup, ok := super.(*Union); ok {
		if _, subIsUnion := sub.(*Union); !subIsUnion {
			return sup.Contains(sub) || subtypeOfAnyMember(sub, sup.Members)
		}
	}
	if subU, ok := sub.(*Union); ok {
		for _, m := range subU.Members {
			if !IsSubtype(m, super) {
				return false
			}
		}
		return true
	}

	if sup, ok := super.(*Intersection); ok {
		for _, m := range sup.Members {
			if !IsSubtype(sub, m) {
				return false
			}
		}
		return true
	}
	if subI, ok := sub.(*Intersection); ok {
		for _, m := range subI.Members {
			if IsSubtype(m, super) {
				return true
			}
		}
		return false
	}

	switch subT := sub.(type) {
	case *Instance:
		if supT, ok := super.(*Instance); ok {
			return subT.Class.IsSubclassOf(supT.Class)
		}
	case *Class:
		if supT, ok := super.(*Class); ok {
			return subT.IsSubclassOf(supT)
		}
	case *Array:
		if supT, ok := super.(*Array); ok {
			return IsSubtype(subT.Elem, supT.Elem)
		}
	case *Record:
		if supT, ok := super.(*Record); ok {
			return recordSatisfies(subT, supT)
		}
		if supT, ok := super.(*Interface); ok {
			return recordSatisfiesMembers(subT, supT.AllMembers())
		}
	}

	return false
}

func subtypeOfAnyMember(sub Type, members []Type) bool {
	for _, m := range members {
		if IsSubtype(sub, m) {
			return true
		}
	}
	return false
}

// recordSatisfies checks width/depth structural compatibility: every
// non-optional field of super must be present and assignable in sub.
func recordSatisfies(sub, super *Record) bool {
	for name, superTy := range super.Fields {
		subTy, ok := sub.Fields[name]
		if !ok {
			if super.Optional[name] {
				continue
			}
			return false
		}
		if !IsSubtype(subTy, superTy) {
			return false
		}
	}
	return true
}

func recordSatisfiesMembers(sub *Record, superFields map[string]Type) bool {
	for name, superTy := range superFields {
		subTy, ok := sub.Fields[name]
		if !ok {
			return false
		}
		if !IsSubtype(subTy, superTy) {
			return false
		}
	}
	return true
}

// Assignable reports whether a value of type from may be assigned to a
// location of type to — the direction a compiler checks at a `let x: To =
// expr` site. This core treats assignability as subtyping plus the
// bidirectional `any` escape hatch already covered by IsSubtype.
func Assignable(from, to Type) bool {
	return IsSubtype(from, to)
}
