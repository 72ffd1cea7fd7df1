package async

import (
	"testing"

	"github.com/sharpts-lang/core/internal/ast"
)

func TestWalkVisitsNestedExpressions(t *testing.T) {
	var visited []string
	expr := &ast.Binary{
		Left:  variable("a"),
		Op:    ast.OpAdd,
		Right: variable("b"),
	}

	Walk(expr, func(n ast.Node) bool {
		visited = append(visited, n.String())
		return true
	})

	if len(visited) != 3 {
		t.Fatalf("expected 3 visited nodes (binary + 2 operands), got %d: %v", len(visited), visited)
	}
}

func TestWalkStopsAtNestedFunctionDecl(t *testing.T) {
	inner := &ast.FunctionDecl{
		Name: ident("inner"),
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.ExpressionStmt{Expression: &ast.Await{Value: variable("shouldNotBeSeen")}},
		}},
	}
	body := &ast.Block{Statements: []ast.Statement{inner}}

	sawNested := false
	Walk(body, func(n ast.Node) bool {
		if _, ok := n.(*ast.Await); ok {
			sawNested = true
		}
		return true
	})

	if sawNested {
		t.Error("Walk should not descend into a nested FunctionDecl's body")
	}
}

func TestWalkDescendsIntoArrowFunctionBody(t *testing.T) {
	arrow := &ast.ArrowFunction{
		ExpressionBody: &ast.Await{Value: variable("x")},
	}
	body := &ast.Block{Statements: []ast.Statement{
		&ast.ExpressionStmt{Expression: arrow},
	}}

	sawAwait := false
	Walk(body, func(n ast.Node) bool {
		if _, ok := n.(*ast.Await); ok {
			sawAwait = true
		}
		return true
	})

	if !sawAwait {
		t.Error("Walk should descend into an arrow function's body (captures feed the enclosing analysis)")
	}
}
