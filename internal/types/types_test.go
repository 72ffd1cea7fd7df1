package types

import "testing"

func TestPrimitiveTypes(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		expected string
	}{
		{"Number", Number, "number"},
		{"String", StringT, "string"},
		{"Boolean", Boolean, "boolean"},
		{"Void", Void, "void"},
		{"Any", Any, "any"},
		{"Null", Null, "null"},
		{"Undefined", Undefined, "undefined"},
		{"Unknown", Unknown, "unknown"},
		{"Never", Never, "never"},
		{"Symbol", Symbol, "symbol"},
		{"BigInt", BigInt, "bigint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.expected {
				t.Errorf("String() = %v, want %v", got, tt.expected)
			}
			if !IsPrimitive(tt.typ) {
				t.Errorf("IsPrimitive(%v) = false, want true", tt.name)
			}
		})
	}
}

func TestPrimitiveEquality(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Type
		expected bool
	}{
		{"Number equals Number", Number, Number, true},
		{"String equals String", StringT, StringT, true},
		{"Number not equals String", Number, StringT, false},
		{"Any not equals Unknown", Any, Unknown, false},
		{"Array(Number) equals Array(Number)", &Array{Elem: Number}, &Array{Elem: Number}, true},
		{"Array(Number) not equals Array(String)", &Array{Elem: Number}, &Array{Elem: StringT}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.expected {
				t.Errorf("Equals() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsNullish(t *testing.T) {
	if !IsNullish(Null) {
		t.Error("Null should be nullish")
	}
	if !IsNullish(Undefined) {
		t.Error("Undefined should be nullish")
	}
	if IsNullish(Number) {
		t.Error("Number should not be nullish")
	}
}

func TestCanonicalStringNormalizesUnicode(t *testing.T) {
	// "é" as a single composed codepoint vs "e" + combining acute accent —
	// both should canonicalize to the same NFC form.
	composed := &Literal{Kind: LiteralKindString, Value: "café"}
	decomposed := &Literal{Kind: LiteralKindString, Value: "café"}

	if CanonicalString(composed) != CanonicalString(decomposed) {
		t.Errorf("canonical forms diverged: %q vs %q", CanonicalString(composed), CanonicalString(decomposed))
	}
}
