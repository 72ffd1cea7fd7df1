package types

import "testing"

func TestIntersectionNeverAbsorbsEverything(t *testing.T) {
	got := NewIntersection(Number, Never, StringT)
	if got != Never {
		t.Errorf("NewIntersection(..., Never, ...) = %v, want Never", got)
	}
}

func TestIntersectionAnyAbsorbsEverything(t *testing.T) {
	got := NewIntersection(Number, Any, StringT)
	if got != Any {
		t.Errorf("NewIntersection(..., Any, ...) = %v, want Any", got)
	}
}

func TestIntersectionUnknownIsIdentity(t *testing.T) {
	got := NewIntersection(Number, Unknown)
	if got != Number {
		t.Errorf("NewIntersection(Number, Unknown) = %v, want Number", got)
	}
}

func TestIntersectionDeduplicates(t *testing.T) {
	i := NewIntersection(Number, StringT, Number)

	inter, ok := i.(*Intersection)
	if !ok {
		t.Fatalf("expected *Intersection, got %T", i)
	}
	if len(inter.Members) != 2 {
		t.Fatalf("expected 2 deduplicated members, got %d: %v", len(inter.Members), inter.Members)
	}
}

func TestIntersectionOfZeroMembersIsUnknown(t *testing.T) {
	if got := NewIntersection(); got != Unknown {
		t.Errorf("NewIntersection() = %v, want Unknown", got)
	}
}

func TestIntersectionOfOneMemberCollapses(t *testing.T) {
	if got := NewIntersection(Number); got != Number {
		t.Errorf("NewIntersection(Number) = %v, want Number itself", got)
	}
}

func TestIntersectionNormalizeIsIdempotent(t *testing.T) {
	i := NewIntersection(Number, StringT)
	once := i.(*Intersection).Normalize()
	twice := once.(*Intersection).Normalize()

	if once.String() != twice.String() {
		t.Errorf("Normalize should be idempotent: %q vs %q", once.String(), twice.String())
	}
}

func TestIntersectionFlattensNested(t *testing.T) {
	inner := NewIntersection(Number, StringT)
	i := NewIntersection(inner, Boolean)

	inter, ok := i.(*Intersection)
	if !ok {
		t.Fatalf("expected *Intersection, got %T", i)
	}
	if len(inter.Members) != 3 {
		t.Fatalf("expected 3 flattened members, got %d: %v", len(inter.Members), inter.Members)
	}
}
