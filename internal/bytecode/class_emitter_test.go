package bytecode

import (
	"testing"

	"github.com/sharpts-lang/core/internal/ast"
)

func buildWidgetClass() *ast.ClassDecl {
	ctor := &ast.FunctionDecl{Kind: ast.MethodConstructor, Body: &ast.Block{}}
	greet := &ast.FunctionDecl{
		Kind: ast.MethodPlain, Name: testIdent("greet"), Body: &ast.Block{},
		Decorators: []ast.Expression{testVar("logged")},
	}
	create := &ast.FunctionDecl{Kind: ast.MethodStatic, Name: testIdent("create"), Body: &ast.Block{}}
	count := &ast.FieldDecl{Name: testIdent("count"), Initializer: testNum(0)}
	value := &ast.AccessorDecl{
		Kind: ast.AccessorGet, Name: testIdent("value"),
		Body: &ast.Block{Statements: []ast.Statement{&ast.Return{Value: testNum(1)}}},
	}
	return &ast.ClassDecl{
		Name:       testIdent("Widget"),
		Members:    []ast.Statement{ctor, greet, create, count, value},
		Decorators: []ast.Expression{testVar("sealed")},
	}
}

func findClassConstant(t *testing.T, chunk *Chunk) *ClassObject {
	t.Helper()
	for _, c := range chunk.Constants {
		if cls, ok := c.Data.(*ClassObject); ok {
			return cls
		}
	}
	t.Fatal("no ClassObject constant found")
	return nil
}

func TestEmitClassDeclCompilesMembers(t *testing.T) {
	e := newTestEmitter()
	e.emitClassDecl(buildWidgetClass())

	cls := findClassConstant(t, e.chunk)
	if cls.Name != "Widget" {
		t.Errorf("class name = %q, want Widget", cls.Name)
	}
	if cls.Constructor == nil {
		t.Error("expected a compiled constructor")
	}
	if cls.Methods["greet"] == nil {
		t.Error("expected a compiled instance method 'greet'")
	}
	if cls.StaticMethods["create"] == nil {
		t.Error("expected a compiled static method 'create'")
	}
	if cls.Getters["value"] == nil {
		t.Error("expected a compiled getter 'value'")
	}
	if cls.FieldInit == nil || cls.StaticFieldInit == nil {
		t.Error("expected field-initializer functions to be built even when empty")
	}
}

func TestEmitClassDeclAppliesDecoratorsInOrder(t *testing.T) {
	e := newTestEmitter()
	e.emitClassDecl(buildWidgetClass())

	var helperSeq []string
	for _, inst := range e.chunk.Code {
		if inst.OpCode() == OpCallHelper {
			if name := helperName(e.chunk, int(inst.B())); name == "ApplyMethodDecorator" || name == "ApplyClassDecorator" {
				helperSeq = append(helperSeq, name)
			}
		}
	}
	if len(helperSeq) != 2 {
		t.Fatalf("expected 2 Apply* helper calls (method, class), got %v", helperSeq)
	}
	// spec §4.6: method decorators apply before class decorators.
	if helperSeq[0] != "ApplyMethodDecorator" || helperSeq[1] != "ApplyClassDecorator" {
		t.Errorf("Apply* helper order = %v, want [ApplyMethodDecorator ApplyClassDecorator]", helperSeq)
	}
}

func TestEmitClassDeclBindsClassName(t *testing.T) {
	e := newTestEmitter()
	e.emitClassDecl(buildWidgetClass())

	if countOps(e.chunk, OpStoreLocal) == 0 {
		t.Error("expected the compiled class to be bound to a local slot")
	}
}
