package async

import (
	"testing"

	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/types"
)

func TestStateMachineFieldLayout(t *testing.T) {
	params := []*ast.Param{{Name: ident("x"), Type: types.Number}}
	body := &ast.Block{Statements: []ast.Statement{
		&ast.Var{Kind: ast.VarLet, Names: []*ast.Identifier{ident("a")}, Initializers: []ast.Expression{&ast.Literal{Value: float64(1)}}},
		&ast.ExpressionStmt{Expression: &ast.Await{Value: variable("x")}},
		&ast.ExpressionStmt{Expression: variable("a")},
	}}

	analysis := Analyze(params, body)
	sm := NewStateMachine(analysis, params, true, types.Number)

	if sm.StateField().Name != "state" {
		t.Errorf("state field name = %q", sm.StateField().Name)
	}
	if sm.BuilderField().Kind != FieldBuilder {
		t.Error("builder field should be FieldBuilder kind")
	}
	thisField, ok := sm.ThisField()
	if !ok || thisField.Kind != FieldThis {
		t.Error("expected a this_field when hasThis is true")
	}

	awaiter0, ok := sm.AwaiterField(0)
	if !ok || awaiter0.Name != "awaiter_0" {
		t.Errorf("AwaiterField(0) = %v, ok=%v", awaiter0, ok)
	}
	if _, ok := sm.AwaiterField(1); ok {
		t.Error("only one suspension exists — AwaiterField(1) should not resolve")
	}

	if _, ok := sm.VariableField("x"); !ok {
		t.Error("parameter x should have a variable field (always hoisted)")
	}
	if _, ok := sm.VariableField("a"); !ok {
		t.Error("variable 'a' used across the await should have a field")
	}
}

func TestStateMachineNoThisFieldWhenNotAMethod(t *testing.T) {
	body := &ast.Block{Statements: []ast.Statement{
		&ast.ExpressionStmt{Expression: &ast.Await{Value: &ast.Literal{Value: float64(1)}}},
	}}
	analysis := Analyze(nil, body)
	sm := NewStateMachine(analysis, nil, false, types.Void)

	if _, ok := sm.ThisField(); ok {
		t.Error("a bare function declaration should not reserve a this_field")
	}
}

func TestStateMachineFieldsDeterministicOrder(t *testing.T) {
	params := []*ast.Param{{Name: ident("b"), Type: types.Number}, {Name: ident("a"), Type: types.StringT}}
	body := &ast.Block{Statements: []ast.Statement{
		&ast.ExpressionStmt{Expression: &ast.Await{Value: &ast.Literal{Value: float64(1)}}},
	}}
	analysis := Analyze(params, body)

	sm1 := NewStateMachine(analysis, params, false, types.Void)
	sm2 := NewStateMachine(analysis, params, false, types.Void)

	names1 := fieldNames(sm1.Fields())
	names2 := fieldNames(sm2.Fields())

	if len(names1) != len(names2) {
		t.Fatalf("field count diverged: %v vs %v", names1, names2)
	}
	for i := range names1 {
		if names1[i] != names2[i] {
			t.Fatalf("field order diverged at %d: %q vs %q", i, names1[i], names2[i])
		}
	}
}

func fieldNames(fields []*Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func TestNewStubReferencesMachine(t *testing.T) {
	body := &ast.Block{Statements: []ast.Statement{
		&ast.ExpressionStmt{Expression: &ast.Await{Value: &ast.Literal{Value: float64(1)}}},
	}}
	analysis := Analyze(nil, body)
	sm := NewStateMachine(analysis, nil, false, types.Void)

	stub := NewStub(sm)
	if stub.Machine != sm {
		t.Error("stub should reference the state machine it was built from")
	}
}
