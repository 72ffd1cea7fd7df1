package bytecode

import (
	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/async"
	"github.com/sharpts-lang/core/internal/types"
)

// compileFunction lowers a FunctionDecl to a FunctionObject. For an
// ordinary synchronous function this is just a nested Emitter over the
// body; for async/generator functions it builds the C3 analysis and C4
// state machine first, then delegates the resumable body to
// emitMoveNextBody (movenext.go) and wraps it in the stub entry point
// spec §6 describes.
func (e *Emitter) compileFunction(fn *ast.FunctionDecl, hasThis bool) *FunctionObject {
	name := ""
	if fn.Name != nil {
		name = fn.Name.Name
	}
	if !fn.HasSuspensionCapableBody() {
		return e.compileSyncFunction(name, fn.Params, fn.Body, hasThis)
	}
	return e.compileAsyncFunction(name, fn, hasThis)
}

func (e *Emitter) compileSyncFunction(name string, params []*ast.Param, body *ast.Block, hasThis bool) *FunctionObject {
	sub := NewEmitter(name, e.source, e.file)
	for _, p := range params {
		idx := sub.declareLocal(p.Name.Name, "")
		sub.chunk.Write(OpLoadArg, 0, uint16(idx), body.Pos().Line)
		sub.chunk.Write(OpStoreLocal, 0, uint16(idx), body.Pos().Line)
	}
	for _, s := range body.Statements {
		sub.emitStmt(s)
	}
	sub.chunk.WriteSimple(OpLoadUndefined, body.Pos().Line)
	sub.chunk.WriteSimple(OpLeave, body.Pos().Line)
	e.errs = append(e.errs, sub.errs...)

	obj := NewFunctionObject(name, sub.chunk, len(params))
	obj.IsMethod = hasThis
	return obj
}

// compileAsyncFunction builds the full C3/C4/C5 pipeline for an async or
// generator function: analyze suspension points, build the state-machine
// record, emit its MoveNext body, and produce the stub FunctionObject that
// allocates the record and starts it (spec §4.2, §6).
func (e *Emitter) compileAsyncFunction(name string, fn *ast.FunctionDecl, hasThis bool) *FunctionObject {
	analysis := async.Analyze(fn.Params, fn.Body)

	var returnType types.Type
	switch {
	case fn.IsAsync && fn.IsGenerator:
		returnType = &types.AsyncGenerator{Yield: elementOf(fn.ReturnType)}
	case fn.IsAsync:
		returnType = &types.Promise{Elem: elementOf(fn.ReturnType)}
	case fn.IsGenerator:
		returnType = &types.Generator{Yield: elementOf(fn.ReturnType)}
	default:
		returnType = types.Any
	}

	machine := async.NewStateMachine(analysis, fn.Params, hasThis, returnType)
	stub := async.NewStub(machine)

	moveNext := NewEmitter(name+".MoveNext", e.source, e.file)
	moveNext.machine = machine
	moveNext.analysis = analysis
	moveNext.emitMoveNextBody(fn.Body, machine, analysis)
	e.errs = append(e.errs, moveNext.errs...)

	moveNextObj := NewFunctionObject(name+".MoveNext", moveNext.chunk, 0)
	moveNextObj.IsMethod = true

	stubChunk := e.emitStubEntryPoint(name, fn.Params, stub, moveNextObj, hasThis)

	obj := NewFunctionObject(name, stubChunk, len(fn.Params))
	obj.IsAsync = fn.IsAsync
	obj.IsGenerator = fn.IsGenerator
	obj.IsMethod = hasThis
	obj.MoveNext = moveNextObj
	return obj
}

func elementOf(t types.Type) types.Type {
	if t == nil {
		return types.Any
	}
	return t
}

// emitStubEntryPoint lowers spec §6's fixed stub shape: construct the
// state-machine record, copy parameters into their hoisted slots, store
// `this` when applicable, set state := -1, call driver.Start(&record), and
// return builder.Task.
func (e *Emitter) emitStubEntryPoint(name string, params []*ast.Param, stub *async.StubEntryPoint, moveNext *FunctionObject, hasThis bool) *Chunk {
	chunk := NewChunk(name + ".stub")
	line := 0

	recordTok := chunk.AddToken(MetadataToken{Kind: TokenType, Owner: name, Name: "Record"})
	chunk.Write(OpNewInstance, 0, uint16(recordTok), line)
	record := chunk.AddLocal("record", "")
	chunk.Write(OpStoreLocal, 0, uint16(record), line)

	for i, p := range params {
		if f, ok := stub.Machine.VariableField(p.Name.Name); ok {
			tok := chunk.AddToken(MetadataToken{Kind: TokenField, Name: f.Name})
			chunk.Write(OpLoadLocal, 0, uint16(record), line)
			chunk.Write(OpLoadArg, 0, uint16(i), line)
			chunk.WriteSimple(OpSwap, line)
			chunk.Write(OpStoreField, 0, uint16(tok), line)
		}
	}

	if hasThis {
		if f, ok := stub.Machine.ThisField(); ok {
			tok := chunk.AddToken(MetadataToken{Kind: TokenField, Name: f.Name})
			chunk.Write(OpLoadLocal, 0, uint16(record), line)
			chunk.WriteSimple(OpLoadThis, line)
			chunk.WriteSimple(OpSwap, line)
			chunk.Write(OpStoreField, 0, uint16(tok), line)
		}
	}

	stateTok := chunk.AddToken(MetadataToken{Kind: TokenField, Name: stub.Machine.StateField().Name})
	chunk.Write(OpLoadLocal, 0, uint16(record), line)
	negOne := chunk.AddConstant(NumberValue(-1))
	chunk.Write(OpLoadConst, 0, uint16(negOne), line)
	chunk.WriteSimple(OpSwap, line)
	chunk.Write(OpStoreField, 0, uint16(stateTok), line)

	chunk.Write(OpLoadLocal, 0, uint16(record), line)
	chunk.Write(OpCallHelper, 1, uint16(chunk.AddHelper("DriverStart")), line)
	chunk.WriteSimple(OpPop, line)

	builderTok := chunk.AddToken(MetadataToken{Kind: TokenField, Name: stub.Machine.BuilderField().Name})
	chunk.Write(OpLoadLocal, 0, uint16(record), line)
	chunk.Write(OpLoadField, 0, uint16(builderTok), line)
	chunk.Write(OpCallHelper, 1, uint16(chunk.AddHelper("WrapTaskAsPromise")), line)
	chunk.WriteSimple(OpLeave, line)

	chunk.Functions[name+".MoveNext"] = 0
	return chunk
}

// emitArrowFunction compiles an arrow function expression and pushes a
// closure value referencing it. Arrows with Captures listed are, per spec
// §5, bound via self_boxed sharing when they appear inside an
// async/generator body; here we conservatively always emit a closure
// value, deferring upvalue resolution to the runtime's generic value
// representation (erased at this ABI layer — spec §6 Non-goals).
func (e *Emitter) emitArrowFunction(n *ast.ArrowFunction) {
	line := n.Pos().Line
	body := n.Block
	if body == nil {
		body = &ast.Block{Token: n.Token, Statements: []ast.Statement{
			&ast.Return{Token: n.Token, Value: n.ExpressionBody},
		}}
	}
	fn := e.compileSyncFunction("<arrow>", n.Params, body, false)
	if n.IsAsync {
		asyncDecl := &ast.FunctionDecl{Token: n.Token, Params: n.Params, Body: body, IsAsync: true}
		fn = e.compileAsyncFunction("<arrow>", asyncDecl, false)
	}
	idx := e.chunk.AddConstant(FunctionValue(fn))
	e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
	e.setStackType(StackUnknown)
}
