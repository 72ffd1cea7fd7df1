package types

import "testing"

func TestUnionFlattensNestedUnions(t *testing.T) {
	inner := NewUnion(Number, StringT)
	u := NewUnion(inner, Boolean)

	union, ok := u.(*Union)
	if !ok {
		t.Fatalf("expected *Union, got %T", u)
	}
	if len(union.Members) != 3 {
		t.Fatalf("expected 3 flattened members, got %d: %v", len(union.Members), union.Members)
	}
}

func TestUnionDeduplicates(t *testing.T) {
	u := NewUnion(Number, StringT, Number, StringT)

	union, ok := u.(*Union)
	if !ok {
		t.Fatalf("expected *Union, got %T", u)
	}
	if len(union.Members) != 2 {
		t.Fatalf("expected 2 deduplicated members, got %d: %v", len(union.Members), union.Members)
	}
}

func TestUnionOfZeroMembersIsNever(t *testing.T) {
	if got := NewUnion(); got != Never {
		t.Errorf("NewUnion() = %v, want Never", got)
	}
}

func TestUnionOfOneMemberCollapses(t *testing.T) {
	if got := NewUnion(Number); got != Number {
		t.Errorf("NewUnion(Number) = %v, want Number itself", got)
	}
}

func TestUnionNeverIsAbsorbed(t *testing.T) {
	u := NewUnion(Number, Never, StringT)

	union, ok := u.(*Union)
	if !ok {
		t.Fatalf("expected *Union, got %T", u)
	}
	if len(union.Members) != 2 {
		t.Fatalf("never should have been absorbed, got members %v", union.Members)
	}
}

func TestUnionOrderIndependentEquality(t *testing.T) {
	a := NewUnion(Number, StringT, Boolean)
	b := NewUnion(Boolean, Number, StringT)

	if a.String() != b.String() {
		t.Errorf("union built in different orders should normalize identically: %q vs %q", a.String(), b.String())
	}
}

func TestUnionNormalizeIsIdempotent(t *testing.T) {
	u := NewUnion(Number, StringT, Boolean)
	once := u.(*Union).Normalize()
	twice := once.(*Union).Normalize()

	if once.String() != twice.String() {
		t.Errorf("Normalize should be idempotent: %q vs %q", once.String(), twice.String())
	}
}

func TestUnionContains(t *testing.T) {
	u := NewUnion(Number, StringT).(*Union)

	if !u.Contains(Number) {
		t.Error("union should contain Number")
	}
	if u.Contains(Boolean) {
		t.Error("union should not contain Boolean")
	}
}
