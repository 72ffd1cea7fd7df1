// Package async implements the Await-Point Analyzer (C3) and State-Machine
// Builder (C4): the analysis that runs over an async (or generator)
// function's body before the MoveNext emitter (C5, in internal/bytecode)
// lowers it to a resumable state machine.
package async

import "github.com/sharpts-lang/core/internal/ast"

// VisitFunc is called for every node in pre-order. Returning false skips
// descending into that node's children — the analyzer uses it to stop at
// an Await/Yield. (Walk itself never enters a nested FunctionDecl body,
// which gets its own independent C3 analysis.)
type VisitFunc func(node ast.Node) bool

// Walk traverses node and its children in source order, calling visit for
// each. It descends into ArrowFunction bodies (an arrow's captured
// variables participate in the enclosing async function's hoisting
// analysis per spec §5's self_boxed sharing) but not into nested
// FunctionDecl bodies (an independent scope).
func Walk(node ast.Node, visit VisitFunc) {
	if node == nil || isNilNode(node) {
		return
	}
	if !visit(node) {
		return
	}

	switch n := node.(type) {
	case *ast.Program:
		for _, s := range n.Statements {
			Walk(s, visit)
		}
	case *ast.Block:
		for _, s := range n.Statements {
			Walk(s, visit)
		}
	case *ast.ExpressionStmt:
		Walk(n.Expression, visit)
	case *ast.Var:
		for _, init := range n.Initializers {
			if init != nil {
				Walk(init, visit)
			}
		}
	case *ast.Return:
		if n.Value != nil {
			Walk(n.Value, visit)
		}
	case *ast.If:
		Walk(n.Condition, visit)
		Walk(n.Consequence, visit)
		if n.Alternative != nil {
			Walk(n.Alternative, visit)
		}
	case *ast.While:
		Walk(n.Condition, visit)
		Walk(n.Body, visit)
	case *ast.DoWhile:
		Walk(n.Body, visit)
		Walk(n.Condition, visit)
	case *ast.ForIn:
		Walk(n.Object, visit)
		Walk(n.Body, visit)
	case *ast.ForOf:
		Walk(n.Iterable, visit)
		Walk(n.Body, visit)
	case *ast.Switch:
		Walk(n.Subject, visit)
		for _, c := range n.Cases {
			for _, v := range c.Values {
				Walk(v, visit)
			}
			for _, s := range c.Statements {
				Walk(s, visit)
			}
		}
	case *ast.LabeledStatement:
		Walk(n.Body, visit)
	case *ast.Throw:
		Walk(n.Value, visit)
	case *ast.TryCatch:
		Walk(n.Try, visit)
		if n.Catch != nil {
			Walk(n.Catch.Body, visit)
		}
		if n.Finally != nil {
			Walk(n.Finally, visit)
		}
	case *ast.FunctionDecl:
		// Independent scope: analyzed separately, not folded into the
		// enclosing function's C3 pass.
	case *ast.Binary:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *ast.Logical:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *ast.NullishCoalescing:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *ast.Unary:
		Walk(n.Operand, visit)
	case *ast.Ternary:
		Walk(n.Condition, visit)
		Walk(n.Consequent, visit)
		Walk(n.Alternative, visit)
	case *ast.Assign:
		Walk(n.Target, visit)
		Walk(n.Value, visit)
	case *ast.CompoundAssign:
		Walk(n.Target, visit)
		Walk(n.Value, visit)
	case *ast.LogicalAssign:
		Walk(n.Target, visit)
		Walk(n.Value, visit)
	case *ast.PrefixIncrement:
		Walk(n.Operand, visit)
	case *ast.PostfixIncrement:
		Walk(n.Operand, visit)
	case *ast.Call:
		Walk(n.Callee, visit)
		for _, a := range n.Arguments {
			Walk(a, visit)
		}
	case *ast.Get:
		Walk(n.Receiver, visit)
	case *ast.Set:
		Walk(n.Receiver, visit)
		Walk(n.Value, visit)
	case *ast.GetIndex:
		Walk(n.Object, visit)
		Walk(n.Index, visit)
	case *ast.SetIndex:
		Walk(n.Object, visit)
		Walk(n.Index, visit)
		Walk(n.Value, visit)
	case *ast.New:
		Walk(n.Callee, visit)
		for _, a := range n.Arguments {
			Walk(a, visit)
		}
	case *ast.TypeAssertion:
		Walk(n.Value, visit)
	case *ast.DynamicImport:
		Walk(n.Specifier, visit)
	case *ast.Spread:
		Walk(n.Value, visit)
	case *ast.ArrayLiteral:
		for _, e := range n.Elements {
			if e != nil {
				Walk(e, visit)
			}
		}
	case *ast.ObjectLiteral:
		for _, p := range n.Properties {
			if p.Computed != nil {
				Walk(p.Computed, visit)
			}
			if p.Value != nil {
				Walk(p.Value, visit)
			}
		}
	case *ast.TemplateLiteral:
		for _, e := range n.Expressions {
			Walk(e, visit)
		}
	case *ast.Await:
		Walk(n.Value, visit)
	case *ast.Yield:
		if n.Value != nil {
			Walk(n.Value, visit)
		}
	case *ast.ArrowFunction:
		if n.Block != nil {
			Walk(n.Block, visit)
		} else if n.ExpressionBody != nil {
			Walk(n.ExpressionBody, visit)
		}
	case *ast.Grouping:
		Walk(n.Inner, visit)
	case *ast.Sequence:
		for _, e := range n.Expressions {
			Walk(e, visit)
		}
	}
}

// isNilNode guards against a typed-nil interface (e.g. a `Statement(nil
// *ast.Block)`), which node == nil does not catch.
func isNilNode(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.Block:
		return n == nil
	case *ast.If:
		return n == nil
	}
	return false
}
