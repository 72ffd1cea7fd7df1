package types

import "testing"

func TestKeyOfRecord(t *testing.T) {
	rec := NewRecord()
	rec.Fields["a"] = Number
	rec.Fields["b"] = StringT

	k := &KeyOf{Operand: rec}
	keys := k.Keys()

	union, ok := keys.(*Union)
	if !ok {
		t.Fatalf("expected keyof a 2-field record to be a Union, got %T", keys)
	}
	if len(union.Members) != 2 {
		t.Fatalf("expected 2 key literals, got %d", len(union.Members))
	}
}

func TestKeyOfEmptyRecordIsNever(t *testing.T) {
	k := &KeyOf{Operand: NewRecord()}
	if got := k.Keys(); got != Never {
		t.Errorf("keyof empty record = %v, want Never", got)
	}
}

func TestKeyOfOpaqueFallsBackToString(t *testing.T) {
	k := &KeyOf{Operand: Number}
	if got := k.Keys(); got != StringT {
		t.Errorf("keyof number = %v, want string fallback", got)
	}
}

func TestIndexedAccessResolvesRecordMember(t *testing.T) {
	rec := NewRecord()
	rec.Fields["name"] = StringT

	ia := &IndexedAccess{
		Object: rec,
		Index:  &Literal{Kind: LiteralKindString, Value: "name"},
	}
	if got := ia.Resolve(); !got.Equals(StringT) {
		t.Errorf("Resolve() = %v, want string", got)
	}
}

func TestIndexedAccessMissingMemberIsUnknown(t *testing.T) {
	rec := NewRecord()
	ia := &IndexedAccess{Object: rec, Index: &Literal{Kind: LiteralKindString, Value: "missing"}}
	if got := ia.Resolve(); got != Unknown {
		t.Errorf("Resolve() on missing member = %v, want Unknown", got)
	}
}

func TestIntrinsicStringTypeApply(t *testing.T) {
	tests := []struct {
		name string
		kind IntrinsicStringKind
		in   string
		want string
	}{
		{"Uppercase", IntrinsicUppercase, "hello", "HELLO"},
		{"Lowercase", IntrinsicLowercase, "HELLO", "hello"},
		{"Capitalize", IntrinsicCapitalize, "hello", "Hello"},
		{"Uncapitalize", IntrinsicUncapitalize, "Hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &IntrinsicStringType{Kind: tt.kind, Operand: &Literal{Kind: LiteralKindString, Value: tt.in}}
			got, ok := it.Apply().(*Literal)
			if !ok {
				t.Fatalf("Apply() returned %T, want *Literal", it.Apply())
			}
			if got.Value != tt.want {
				t.Errorf("Apply() = %v, want %v", got.Value, tt.want)
			}
		})
	}
}

func TestIntrinsicStringTypeNonLiteralFallsBackToString(t *testing.T) {
	it := &IntrinsicStringType{Kind: IntrinsicUppercase, Operand: StringT}
	if got := it.Apply(); got != StringT {
		t.Errorf("Apply() on non-literal operand = %v, want string", got)
	}
}

func TestConditionalTypeEquality(t *testing.T) {
	a := &ConditionalType{Check: Number, Extends: StringT, True: Boolean, False: Void}
	b := &ConditionalType{Check: Number, Extends: StringT, True: Boolean, False: Void}
	c := &ConditionalType{Check: Number, Extends: Boolean, True: Boolean, False: Void}

	if !a.Equals(b) {
		t.Error("structurally identical conditional types should be equal")
	}
	if a.Equals(c) {
		t.Error("conditional types with different Extends should not be equal")
	}
}
