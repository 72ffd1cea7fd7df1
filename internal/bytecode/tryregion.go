package bytecode

import (
	"fmt"

	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/async"
	"github.com/sharpts-lang/core/internal/types"
)

// emitComplexTryCatch lowers a try/catch/finally that can suspend somewhere
// inside it (spec §4.3). The obstacle simple mode can't handle: a single
// OpTry registers its protected region only when that instruction actually
// executes, but a resumed MoveNext call jumps straight from the dispatch
// table to a statement's resume label, never re-running any OpTry that
// precedes it in source order. So every statement capable of suspending
// closes its own protected region right after it, and a fresh OpTry opens
// immediately following — each one sharing the same catch/finally targets.
// The exception value itself is spilled into a caught_exception field rather
// than left on the operand stack, since the stack doesn't survive a
// suspend/resume round trip but the state-machine record does.
func (e *Emitter) emitComplexTryCatch(n *ast.TryCatch) {
	line := n.Pos().Line
	seq := e.tryRegionSeq
	e.tryRegionSeq++

	caughtField := &async.Field{Name: fmt.Sprintf("caught_exception_%d", seq), Kind: async.FieldVariable, Type: types.Any}
	caughtTok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: caughtField.Name})
	prevCaught := e.caughtException
	if n.Catch != nil && containsSuspension(n.Catch.Body) {
		e.caughtException = caughtField
	}
	defer func() { e.caughtException = prevCaught }()

	var info TryInfo
	var tryOffsets []int
	var leaveJumps []int

	// pending_return/return_value hold a `return` inside the protected
	// region whose builder.SetResult call must wait until after an
	// awaiting finally resumes (spec §4.3, §8 #3): rather than jumping
	// straight to SET_RESULT, emitPendingReturn stashes the value and a
	// flag, then joins leaveJumps so it converges at the same after-finally
	// point as every other exit from this try/catch; the code emitted
	// after the finally checks the flag and only then continues on to
	// SET_RESULT.
	awaitingFinally := n.Finally != nil && containsSuspension(n.Finally)
	if awaitingFinally {
		pendingField := &async.Field{Name: fmt.Sprintf("pending_return_%d", seq), Kind: async.FieldVariable, Type: types.Boolean}
		valueField := &async.Field{Name: fmt.Sprintf("return_value_%d", seq), Kind: async.FieldVariable, Type: types.Any}
		prevPending := e.pendingReturn
		prevValue := e.returnValue
		prevTargets := e.pendingReturnTo
		e.pendingReturn = pendingField
		e.returnValue = valueField
		e.pendingReturnTo = &leaveJumps
		defer func() {
			e.pendingReturn = prevPending
			e.returnValue = prevValue
			e.pendingReturnTo = prevTargets
		}()
	}

	openRegion := func() {
		tryOffsets = append(tryOffsets, e.chunk.Write(OpTry, 0, 0, line))
	}
	closeRegion := func() {
		leaveJumps = append(leaveJumps, e.chunk.Write(OpLeave, 0, 0, line))
	}

	e.pushScope()
	openRegion()
	for _, s := range n.Try.Statements {
		e.emitStmt(s)
		if containsSuspension(s) {
			closeRegion()
			openRegion()
		}
	}
	e.popScope()
	closeRegion()

	catchTarget := e.chunk.InstructionCount()
	if n.Catch != nil {
		info.HasCatch = true
		info.CatchTarget = catchTarget
		e.pushScope()

		e.chunk.WriteSimple(OpLoadThis, line)
		e.chunk.WriteSimple(OpSwap, line)
		e.chunk.Write(OpStoreField, 0, uint16(caughtTok), line)
		if n.Catch.Param != nil {
			idx := e.declareLocal(n.Catch.Param.Name, "")
			e.chunk.WriteSimple(OpLoadThis, line)
			e.chunk.Write(OpLoadField, 0, uint16(caughtTok), line)
			e.chunk.Write(OpStoreLocal, 0, uint16(idx), line)
		}

		// The catch handler's own body is a fresh protected region set (it
		// runs outside the try's region entirely), re-opened the same way
		// after any suspending statement so an exception thrown after the
		// catch body resumes still reaches this try's finally.
		openRegion()
		for _, s := range n.Catch.Body.Statements {
			e.emitStmt(s)
			if containsSuspension(s) {
				closeRegion()
				openRegion()
			}
		}
		e.popScope()
		closeRegion()
	}

	if n.Finally != nil {
		info.HasFinally = true
		finallyTarget := e.chunk.InstructionCount()
		info.FinallyTarget = finallyTarget
		e.pushScope()
		for _, s := range n.Finally.Statements {
			e.emitStmt(s)
		}
		e.popScope()
		e.chunk.WriteSimple(OpEndFinally, line)
	}

	for _, off := range tryOffsets {
		e.chunk.SetTryInfo(off, info)
	}
	end := e.chunk.InstructionCount()
	for _, j := range leaveJumps {
		e.chunk.PatchJumpTo(j, end)
	}

	// A `return` inside the region above (emitPendingReturn) joined
	// leaveJumps instead of jumping to SET_RESULT directly, so the finally
	// above always ran first. Now that it has, pick the intent back up:
	// if pending_return is set, push the stashed value and continue on to
	// SET_RESULT the normal way; otherwise fall through to whatever
	// follows this try/catch in the enclosing body.
	if awaitingFinally {
		e.loadField(e.pendingReturn.Name, line)
		skip := e.chunk.Write(OpJumpIfFalse, 0, 0, line)
		e.loadField(e.returnValue.Name, line)
		e.emitMoveNextReturn(line)
		e.chunk.PatchJumpTo(skip, e.chunk.InstructionCount())
	}
}

// emitPendingReturn handles `return` inside a complex try/catch whose
// finally itself suspends (spec §4.3, §8 #3): builder.SetResult must wait
// until the finally — which may itself await — has actually run. Rather
// than jumping straight to SET_RESULT, the return value and the intent to
// return are stashed into state-machine fields and control leaves to this
// try/catch's normal after-finally convergence point (see
// emitComplexTryCatch's pending_return check, emitted right after the
// finally), which is where the jump to SET_RESULT actually happens.
func (e *Emitter) emitPendingReturn(line int) {
	value := e.spillTemp(line)

	trueIdx := e.chunk.AddConstant(BoolValue(true))
	e.chunk.Write(OpLoadConst, 0, uint16(trueIdx), line)
	e.storeField(e.pendingReturn.Name, line)

	e.chunk.Write(OpLoadLocal, 0, uint16(value), line)
	e.storeField(e.returnValue.Name, line)

	leave := e.chunk.Write(OpLeave, 0, 0, line)
	*e.pendingReturnTo = append(*e.pendingReturnTo, leave)
}
