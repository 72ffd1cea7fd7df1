package bytecode

import (
	"testing"

	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/types"
)

func helperName(chunk *Chunk, idx int) string {
	if idx < 0 || idx >= len(chunk.Helpers) {
		return ""
	}
	return chunk.Helpers[idx].Name
}

// rule 1: bare `console.log(...)`.
func TestEmitCallConsoleLogVariableForm(t *testing.T) {
	e := newTestEmitter()
	call := &ast.Call{Callee: &ast.Variable{Name: "console.log"}, Arguments: []ast.Expression{testStr("hi")}}
	e.emitCall(call)

	found := false
	for _, inst := range e.chunk.Code {
		if inst.OpCode() == OpCallHelper && helperName(e.chunk, int(inst.B())) == "ConsoleLog" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a ConsoleLog helper call")
	}
}

// rule 1: `console.log(...)` as a Get-shaped member call.
func TestEmitCallConsoleLogGetForm(t *testing.T) {
	e := newTestEmitter()
	get := &ast.Get{Receiver: &ast.Variable{Name: "console"}, Name: "log"}
	call := &ast.Call{Callee: get, Arguments: []ast.Expression{testStr("hi")}}
	e.emitCall(call)

	found := false
	for _, inst := range e.chunk.Code {
		if inst.OpCode() == OpCallHelper && helperName(e.chunk, int(inst.B())) == "ConsoleLog" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a ConsoleLog helper call")
	}
}

// rule 2: a host-type static member, e.g. Math.max(...).
func TestEmitCallHostStatic(t *testing.T) {
	e := newTestEmitter()
	get := &ast.Get{Receiver: &ast.Variable{Name: "Math"}, Name: "max"}
	call := &ast.Call{Callee: get, Arguments: []ast.Expression{testNum(1), testNum(2)}}
	e.emitCall(call)

	found := false
	for _, inst := range e.chunk.Code {
		if inst.OpCode() == OpCallHelper && helperName(e.chunk, int(inst.B())) == "Math.max" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Math.max helper call")
	}
}

// rule 7: receiver statically known to be an Array.
func TestEmitCallArrayMethodKnownType(t *testing.T) {
	e := newTestEmitter()
	recv := &ast.Variable{Name: "arr"}
	recv.SetType(&types.Array{Elem: types.Any})
	get := &ast.Get{Receiver: recv, Name: "push"}
	call := &ast.Call{Callee: get, Arguments: []ast.Expression{testNum(1)}}
	e.emitCall(call)

	found := false
	for _, inst := range e.chunk.Code {
		if inst.OpCode() == OpCallHelper && helperName(e.chunk, int(inst.B())) == "Array.push" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an Array.push helper call")
	}
}

// rule 9: a Union receiver whose members both have a "slice" method must
// fall back to the runtime isinst<string> guard rather than pick one
// statically.
func TestEmitCallAmbiguousUnionUsesRuntimeGuard(t *testing.T) {
	e := newTestEmitter()
	recv := &ast.Variable{Name: "x"}
	recv.SetType(types.NewUnion(types.StringT, &types.Array{Elem: types.Any}))
	get := &ast.Get{Receiver: recv, Name: "slice"}
	call := &ast.Call{Callee: get, Arguments: []ast.Expression{testNum(0)}}
	e.emitCall(call)

	if countOps(e.chunk, OpIsInst) != 1 {
		t.Fatalf("expected exactly one OpIsInst guard, got %d", countOps(e.chunk, OpIsInst))
	}
	var sawString, sawArray bool
	for _, inst := range e.chunk.Code {
		if inst.OpCode() != OpCallHelper {
			continue
		}
		switch helperName(e.chunk, int(inst.B())) {
		case "String.slice":
			sawString = true
		case "Array.slice":
			sawArray = true
		}
	}
	if !sawString || !sawArray {
		t.Fatal("expected both String.slice and Array.slice branches emitted")
	}
}

// rule 10: a bare, unbound name calls a compiled top-level function directly.
func TestEmitCallDirectByName(t *testing.T) {
	e := newTestEmitter()
	call := &ast.Call{Callee: &ast.Variable{Name: "helperFn"}, Arguments: []ast.Expression{testNum(1)}}
	e.emitCall(call)

	if countOps(e.chunk, OpCallDirect) != 1 {
		t.Fatalf("expected exactly one OpCallDirect, got %d", countOps(e.chunk, OpCallDirect))
	}
}

// rule 11: calling through a local binding falls back to generic invocation.
func TestEmitCallGenericIndirect(t *testing.T) {
	e := newTestEmitter()
	e.declareLocal("fn", "")
	call := &ast.Call{Callee: &ast.Variable{Name: "fn"}, Arguments: []ast.Expression{testNum(1), testNum(2)}}
	e.emitCall(call)

	found := false
	for _, inst := range e.chunk.Code {
		if inst.OpCode() == OpCallHelper && helperName(e.chunk, int(inst.B())) == "InvokeValue" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an InvokeValue helper call")
	}
	if countOps(e.chunk, OpBuildArray) != 1 {
		t.Fatalf("expected the argument list to be built via OpBuildArray, got %d", countOps(e.chunk, OpBuildArray))
	}
}
