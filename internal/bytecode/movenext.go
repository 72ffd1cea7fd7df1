package bytecode

import (
	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/async"
)

// emitMoveNextBody lowers an async/generator function's body into the
// fixed MoveNext shape spec §4.3 describes:
//
//	try {
//	  switch(state) { case 0: goto R0; ...; default: goto START }
//	  START: <body, with Await/Yield expanded>
//	  goto SET_RESULT
//	  SET_RESULT: state := -2; builder.SetResult(value); leave END
//	} catch e {
//	  state := -2; builder.SetException(e); leave END
//	}
//	END: return
func (e *Emitter) emitMoveNextBody(body *ast.Block, machine *async.StateMachine, analysis *async.Analysis) {
	line := body.Pos().Line
	e.resumeLabels = make([]int, analysis.SuspensionCount)

	tryOffset := e.chunk.Write(OpTry, 0, 0, line)

	// dispatchJumps[i] is left pointing at offset 0 until the matching
	// Await/Yield (state i) is reached during body emission below, at
	// which point emitAwait/emitYield patches it directly to its own
	// resume sequence's first instruction — the dispatch table and the
	// resume code are necessarily built in the same pass, since state
	// numbers are assigned by C3 in the same source order this emitter
	// walks the body.
	e.dispatchJumps = make([]int, analysis.SuspensionCount)
	for i := range e.dispatchJumps {
		e.loadStateField(line)
		idx := e.chunk.AddConstant(NumberValue(float64(i)))
		e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
		e.chunk.WriteSimple(OpStrictEq, line)
		e.dispatchJumps[i] = e.chunk.Write(OpJumpIfTrue, 0, 0, line)
	}
	startJump := e.chunk.Write(OpJump, 0, 0, line)

	startLabel := e.chunk.InstructionCount()
	e.chunk.PatchJumpTo(startJump, startLabel)

	for _, s := range body.Statements {
		e.emitStmt(s)
	}

	// Implicit fall-off-the-end return: push undefined, then join every
	// explicit `return`'s jump (collected in pendingSetResultJumps by
	// emitMoveNextReturn) at the same SET_RESULT label. Each path pushes
	// exactly one value immediately before its jump, so SET_RESULT itself
	// never touches the stack before popping that value.
	e.chunk.WriteSimple(OpLoadUndefined, line)
	fallthroughJump := e.chunk.Write(OpJump, 0, 0, line)

	setResultLabel := e.chunk.InstructionCount()
	e.chunk.PatchJumpTo(fallthroughJump, setResultLabel)
	for _, j := range e.pendingSetResultJumps {
		e.chunk.PatchJumpTo(j, setResultLabel)
	}
	e.emitSetResult(line)
	normalLeave := e.chunk.Write(OpLeave, 0, 0, line)

	catchLabel := e.chunk.InstructionCount()
	e.emitSetException(line)
	exceptionLeave := e.chunk.Write(OpLeave, 0, 0, line)

	e.chunk.SetTryInfo(tryOffset, TryInfo{HasCatch: true, CatchTarget: catchLabel})

	endLabel := e.chunk.InstructionCount()
	e.chunk.PatchJumpTo(normalLeave, endLabel)
	e.chunk.PatchJumpTo(exceptionLeave, endLabel)
	e.chunk.WriteSimple(OpHalt, line)
}

func (e *Emitter) loadStateField(line int) {
	tok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: e.machine.StateField().Name})
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.Write(OpLoadField, 0, uint16(tok), line)
}

func (e *Emitter) storeStateField(line int) {
	tok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: e.machine.StateField().Name})
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.WriteSimple(OpSwap, line)
	e.chunk.Write(OpStoreField, 0, uint16(tok), line)
}

// emitSetResult pops the top-of-stack return value, sets state := -2, and
// calls builder.SetResult(value).
func (e *Emitter) emitSetResult(line int) {
	value := e.spillTemp(line)
	idx := e.chunk.AddConstant(NumberValue(-2))
	e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
	e.storeStateField(line)

	builderTok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: e.machine.BuilderField().Name})
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.Write(OpLoadField, 0, uint16(builderTok), line)
	e.chunk.Write(OpLoadLocal, 0, uint16(value), line)
	e.emitHelperCall("PromiseResolve", 2, line)
	e.chunk.WriteSimple(OpPop, line)
}

// emitSetException pops the caught exception left on the protected
// region's stack by the VM's catch entry, sets state := -2, and calls
// builder.SetException(e).
func (e *Emitter) emitSetException(line int) {
	exc := e.spillTemp(line)
	idx := e.chunk.AddConstant(NumberValue(-2))
	e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
	e.storeStateField(line)

	builderTok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: e.machine.BuilderField().Name})
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.Write(OpLoadField, 0, uint16(builderTok), line)
	e.chunk.Write(OpLoadLocal, 0, uint16(exc), line)
	e.emitHelperCall("PromiseReject", 2, line)
	e.chunk.WriteSimple(OpPop, line)
}

// emitMoveNextReturn is `return <value>` inside a MoveNext body: rather
// than leaving the function, it jumps to SET_RESULT. Since SET_RESULT's
// offset is only known once the whole body has been emitted, a `return`
// mid-body pushes the value, then jumps forward; emitMoveNextBody patches
// every such jump once SET_RESULT's offset is fixed.
func (e *Emitter) emitMoveNextReturn(line int) {
	jump := e.chunk.Write(OpJump, 0, 0, line)
	e.pendingSetResultJumps = append(e.pendingSetResultJumps, jump)
}

// emitAwait expands an Await expression per spec §4.3's six-step
// algorithm:
//  1. normalize the awaited value to a task container (GetAwaiterTask
//     helper handles a bare non-Promise value per spec §5.4),
//  2. get_awaiter -> store into awaiter_n,
//  3. test is_completed,
//  4. if not completed: state := n; builder.AwaitUnsafeOnCompleted; leave,
//  5. resume label Rn: state := -1,
//  6. get_result on awaiter_n.
func (e *Emitter) emitAwait(n *ast.Await) {
	line := n.Pos().Line
	e.emitExpr(n.Value)
	e.EnsureBoxed(line)
	e.emitHelperCall("GetAwaiterTask", 1, line)
	e.emitHelperCall("GetAwaiter", 1, line)

	awaiterField, _ := e.machine.AwaiterField(n.State)
	awaiterTok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: awaiterField.Name})
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.WriteSimple(OpSwap, line)
	e.chunk.Write(OpStoreField, 0, uint16(awaiterTok), line)

	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.Write(OpLoadField, 0, uint16(awaiterTok), line)
	e.emitHelperCall("AwaiterIsCompleted", 1, line)
	alreadyDone := e.chunk.Write(OpJumpIfTrue, 0, 0, line)

	idx := e.chunk.AddConstant(NumberValue(float64(n.State)))
	e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
	e.storeStateField(line)

	builderTok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: e.machine.BuilderField().Name})
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.Write(OpLoadField, 0, uint16(builderTok), line)
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.Write(OpLoadField, 0, uint16(awaiterTok), line)
	e.emitHelperCall("AwaitUnsafeOnCompleted", 3, line)
	e.chunk.WriteSimple(OpPop, line)
	e.chunk.WriteSimple(OpLeave, line)

	e.chunk.PatchJumpTo(alreadyDone, e.chunk.InstructionCount())

	// This is resume label Rn: both the synchronous-completion fast path
	// above and a genuinely resumed call land here. Patch the dispatch
	// table's case n to jump straight here, skipping every other Await's
	// suspend sequence.
	resumeOffset := e.chunk.InstructionCount()
	e.resumeLabels[n.State] = resumeOffset
	e.chunk.PatchJumpTo(e.dispatchJumps[n.State], resumeOffset)

	negOne := e.chunk.AddConstant(NumberValue(-1))
	e.chunk.Write(OpLoadConst, 0, uint16(negOne), line)
	e.storeStateField(line)

	e.emitAwaiterGetResult(awaiterTok, line)
	e.setStackType(StackUnknown)
}

// emitAwaiterGetResult emits the awaiter_n.get_result() call that unwraps
// an await's settled value (or rethrows its rejection). Nested inside an
// outer complex try whose own catch itself awaits (e.caughtException set,
// spec §4.3 step 6), a rejection here must still reach that outer catch's
// sequencing rather than unwind straight past it: so the call is wrapped
// in its own protected region that, on exception, stores into the
// enclosing caught_exception field and substitutes null in place of the
// awaited value. With no such outer catch, a bare call is emitted.
func (e *Emitter) emitAwaiterGetResult(awaiterTok int, line int) {
	if e.caughtException == nil {
		e.chunk.WriteSimple(OpLoadThis, line)
		e.chunk.Write(OpLoadField, 0, uint16(awaiterTok), line)
		e.emitHelperCall("AwaiterGetResult", 1, line)
		return
	}

	tryOff := e.chunk.Write(OpTry, 0, 0, line)
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.Write(OpLoadField, 0, uint16(awaiterTok), line)
	e.emitHelperCall("AwaiterGetResult", 1, line)
	normalLeave := e.chunk.Write(OpLeave, 0, 0, line)

	catchTarget := e.chunk.InstructionCount()
	e.storeField(e.caughtException.Name, line)
	e.chunk.WriteSimple(OpLoadNull, line)
	catchLeave := e.chunk.Write(OpLeave, 0, 0, line)

	e.chunk.SetTryInfo(tryOff, TryInfo{HasCatch: true, CatchTarget: catchTarget})
	end := e.chunk.InstructionCount()
	e.chunk.PatchJumpTo(normalLeave, end)
	e.chunk.PatchJumpTo(catchLeave, end)
}

// emitYield expands a generator suspension analogously to emitAwait, but
// hands the value to the driver's YieldReturn entry point instead of
// unwrapping a task (SPEC_FULL.md §5.3).
func (e *Emitter) emitYield(n *ast.Yield) {
	line := n.Pos().Line
	if n.Value != nil {
		e.emitExpr(n.Value)
		e.EnsureBoxed(line)
	} else {
		e.chunk.WriteSimple(OpLoadUndefined, line)
	}
	value := e.spillTemp(line)

	idx := e.chunk.AddConstant(NumberValue(float64(n.State)))
	e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
	e.storeStateField(line)

	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.Write(OpLoadLocal, 0, uint16(value), line)
	e.emitHelperCall("YieldReturn", 2, line)
	e.chunk.WriteSimple(OpPop, line)
	e.chunk.WriteSimple(OpLeave, line)

	resumeOffset := e.chunk.InstructionCount()
	e.resumeLabels[n.State] = resumeOffset
	e.chunk.PatchJumpTo(e.dispatchJumps[n.State], resumeOffset)

	negOne := e.chunk.AddConstant(NumberValue(-1))
	e.chunk.Write(OpLoadConst, 0, uint16(negOne), line)
	e.storeStateField(line)
	e.chunk.WriteSimple(OpLoadUndefined, line)
	e.setStackType(StackNull)
}

// emitAwaitValue expands the implicit await inside `for await (... of ...)`
// via the same GetAwaiterTask/GetAwaiter/AwaiterGetResult sequence as
// emitAwait, always taking the synchronous get_result path. The analyzer
// assigns a for-await loop no state number, and no suspension is emitted
// here: MoveNext does not yield while an iteration's value is pending.
func (e *Emitter) emitAwaitValue(line int) {
	e.emitHelperCall("GetAwaiterTask", 1, line)
	e.emitHelperCall("GetAwaiter", 1, line)
	e.emitHelperCall("AwaiterGetResult", 1, line)
}
