package bytecode

import (
	"testing"

	"github.com/sharpts-lang/core/internal/ast"
)

// async function f() { try { 1; await p; } catch (e) {} }
//
// The await inside the try body forces complex-mode segmentation: the
// protected region must be closed and reopened around the suspension
// point, since a resumed MoveNext call jumps straight to the await's
// resume label and never re-executes the try's OpTry.
func TestEmitComplexTryCatchSegmentsRegions(t *testing.T) {
	tryCatch := &ast.TryCatch{
		Try: &ast.Block{Statements: []ast.Statement{
			&ast.ExpressionStmt{Expression: testNum(1)},
			&ast.ExpressionStmt{Expression: &ast.Await{Value: testVar("p")}},
		}},
		Catch: &ast.CatchClause{Param: testIdent("e"), Body: &ast.Block{}},
	}
	fn := &ast.FunctionDecl{
		Name:    testIdent("f"),
		IsAsync: true,
		Body:    &ast.Block{Statements: []ast.Statement{tryCatch}},
	}

	e := newTestEmitter()
	obj := e.compileFunction(fn, false)
	if obj.MoveNext == nil {
		t.Fatal("expected an async function to produce a MoveNext body")
	}
	chunk := obj.MoveNext.Chunk

	// Offset 0 is the MoveNext body's own outer OpTry, which has its own
	// catch target; it is not one of this try/catch's regions.
	var tryOffsets []int
	for offset, inst := range chunk.Code {
		if inst.OpCode() == OpTry && offset > 0 {
			tryOffsets = append(tryOffsets, offset)
		}
	}
	// region before the await, region after it (try body), region around
	// the (empty) catch body: three OpTry instructions for the try/catch.
	if len(tryOffsets) != 3 {
		t.Fatalf("got %d OpTry regions, want 3", len(tryOffsets))
	}

	var sawCaughtExceptionToken bool
	for _, tok := range chunk.Tokens {
		if tok.Kind == TokenField && tok.Name == "caught_exception_0" {
			sawCaughtExceptionToken = true
		}
	}
	if !sawCaughtExceptionToken {
		t.Error("expected a caught_exception_0 field token")
	}

	var catchTargets []int
	for _, off := range tryOffsets {
		info, ok := chunk.TryInfoAt(off)
		if !ok {
			t.Fatalf("region at %d has no TryInfo", off)
		}
		if !info.HasCatch {
			t.Errorf("region at %d: HasCatch = false, want true", off)
		}
		catchTargets = append(catchTargets, info.CatchTarget)
	}
	for i := 1; i < len(catchTargets); i++ {
		if catchTargets[i] != catchTargets[0] {
			t.Errorf("all segmented regions should share one catch target, got %v", catchTargets)
		}
	}
}

// Two separate complex try/catch statements in one async body each get
// their own caught-exception field — tryRegionSeq keeps every complex
// try/catch's caught-exception field distinct across a whole MoveNext body.
func TestTryRegionSeqIsStablePerFunction(t *testing.T) {
	inner := func(id string) *ast.TryCatch {
		return &ast.TryCatch{
			Try:   &ast.Block{Statements: []ast.Statement{&ast.ExpressionStmt{Expression: &ast.Await{Value: testVar(id)}}}},
			Catch: &ast.CatchClause{Body: &ast.Block{}},
		}
	}
	fn := &ast.FunctionDecl{
		Name:    testIdent("g"),
		IsAsync: true,
		Body: &ast.Block{Statements: []ast.Statement{
			inner("a"),
			inner("b"),
		}},
	}

	e := newTestEmitter()
	obj := e.compileFunction(fn, false)
	chunk := obj.MoveNext.Chunk

	var names []string
	for _, tok := range chunk.Tokens {
		if tok.Kind == TokenField && len(tok.Name) > len("caught_exception_") && tok.Name[:len("caught_exception_")] == "caught_exception_" {
			names = append(names, tok.Name)
		}
	}
	if len(names) != 2 {
		t.Fatalf("expected two distinct caught_exception fields, got %v", names)
	}
	if names[0] == names[1] {
		t.Errorf("expected distinct field names across the two try statements, got %q twice", names[0])
	}
}

// async function h() { try { return await p; } finally { await q; } }
//
// Canonical scenario (spec §8 #3): a return inside a try whose finally
// itself suspends must not reach SET_RESULT until the finally has actually
// run the await hands control back. emitPendingReturn/the post-finally
// check wire pending_return_0/return_value_0 to make that happen.
func TestReturnInsideAwaitingFinallyDefersToAfterFinally(t *testing.T) {
	tryCatch := &ast.TryCatch{
		Try: &ast.Block{Statements: []ast.Statement{
			&ast.Return{Value: &ast.Await{Value: testVar("p")}},
		}},
		Finally: &ast.Block{Statements: []ast.Statement{
			&ast.ExpressionStmt{Expression: &ast.Await{Value: testVar("q")}},
		}},
	}
	fn := &ast.FunctionDecl{
		Name:    testIdent("h"),
		IsAsync: true,
		Body:    &ast.Block{Statements: []ast.Statement{tryCatch}},
	}

	e := newTestEmitter()
	obj := e.compileFunction(fn, false)
	chunk := obj.MoveNext.Chunk

	var sawPending, sawValue bool
	for _, tok := range chunk.Tokens {
		if tok.Kind == TokenField && tok.Name == "pending_return_0" {
			sawPending = true
		}
		if tok.Kind == TokenField && tok.Name == "return_value_0" {
			sawValue = true
		}
	}
	if !sawPending {
		t.Error("expected a pending_return_0 field token")
	}
	if !sawValue {
		t.Error("expected a return_value_0 field token")
	}
	if countOps(chunk, OpJumpIfFalse) == 0 {
		t.Error("expected a pending_return check (JUMP_IF_FALSE) after the finally")
	}
}

// async function g() { try { await p } catch (e) { await r } }
//
// The try body's await is nested inside a complex try whose own catch
// itself awaits, so its get_result must be wrapped so a rejection still
// reaches this try's caught_exception slot rather than escaping it.
func TestAwaitGetResultWrapsWhenEnclosingCatchAwaits(t *testing.T) {
	tryCatch := &ast.TryCatch{
		Try: &ast.Block{Statements: []ast.Statement{
			&ast.ExpressionStmt{Expression: &ast.Await{Value: testVar("p")}},
		}},
		Catch: &ast.CatchClause{Param: testIdent("e"), Body: &ast.Block{Statements: []ast.Statement{
			&ast.ExpressionStmt{Expression: &ast.Await{Value: testVar("r")}},
		}}},
	}
	fn := &ast.FunctionDecl{
		Name:    testIdent("g"),
		IsAsync: true,
		Body:    &ast.Block{Statements: []ast.Statement{tryCatch}},
	}

	e := newTestEmitter()
	obj := e.compileFunction(fn, false)
	chunk := obj.MoveNext.Chunk

	var tryOffsets []int
	for offset, inst := range chunk.Code {
		if inst.OpCode() == OpTry {
			tryOffsets = append(tryOffsets, offset)
		}
	}
	// One extra OpTry beyond the segmented try/catch regions: the nested
	// region emitAwaiterGetResult wraps around the try body's await's
	// get_result call, since this try's own catch body awaits.
	if len(tryOffsets) < 4 {
		t.Fatalf("got %d OpTry regions, want at least 4 (segmented regions + nested get_result guard)", len(tryOffsets))
	}
	if countOps(chunk, OpLoadNull) == 0 {
		t.Error("expected an OpLoadNull substituted in the nested get_result guard's catch path")
	}
}
