package bytecode

import (
	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/async"
)

// emitStmt lowers a statement, leaving the operand stack exactly as it
// found it.
func (e *Emitter) emitStmt(stmt ast.Statement) {
	line := stmt.Pos().Line
	switch n := stmt.(type) {
	case *ast.ExpressionStmt:
		e.emitExpr(n.Expression)
		e.chunk.WriteSimple(OpPop, line)
	case *ast.Var:
		e.emitVar(n)
	case *ast.Return:
		e.emitReturn(n)
	case *ast.Block:
		e.pushScope()
		for _, s := range n.Statements {
			e.emitStmt(s)
		}
		e.popScope()
	case *ast.If:
		e.emitIf(n)
	case *ast.While:
		e.emitWhile(n, "")
	case *ast.DoWhile:
		e.emitDoWhile(n, "")
	case *ast.ForIn:
		e.emitForIn(n, "")
	case *ast.ForOf:
		e.emitForOf(n, "")
	case *ast.Switch:
		e.emitSwitch(n)
	case *ast.Break:
		e.emitBreak(n.Pos(), n.Label, line)
	case *ast.Continue:
		e.emitContinue(n.Pos(), n.Label, line)
	case *ast.LabeledStatement:
		e.emitLabeled(n)
	case *ast.Throw:
		e.emitExpr(n.Value)
		e.EnsureBoxed(line)
		e.chunk.WriteSimple(OpThrow, line)
	case *ast.TryCatch:
		e.emitTryCatch(n)
	case *ast.FunctionDecl:
		e.emitNestedFunctionDecl(n)
	case *ast.ClassDecl:
		e.emitClassDecl(n)
	default:
		e.error(stmt.Pos(), "unsupported statement node %T", stmt)
	}
}

func (e *Emitter) emitVar(n *ast.Var) {
	for i, name := range n.Names {
		var init ast.Expression
		if i < len(n.Initializers) {
			init = n.Initializers[i]
		}
		if init != nil {
			e.emitExpr(init)
		} else {
			e.chunk.WriteSimple(OpLoadUndefined, n.Pos().Line)
			e.setStackType(StackNull)
		}
		e.EnsureBoxed(n.Pos().Line)
		if e.isHoisted(name.Name) {
			e.emitStoreVariable(name.Name, n.Pos().Line)
			continue
		}
		idx := e.declareLocal(name.Name, "")
		e.chunk.Write(OpStoreLocal, 0, uint16(idx), n.Pos().Line)
	}
}

func (e *Emitter) emitReturn(n *ast.Return) {
	line := n.Pos().Line
	if n.Value != nil {
		e.emitExpr(n.Value)
		e.EnsureBoxed(line)
	} else {
		e.chunk.WriteSimple(OpLoadUndefined, line)
	}
	if e.machine != nil {
		// Inside a MoveNext body a `return` does not leave the function
		// directly. Ordinarily it completes the state machine straight
		// away (emitMoveNextReturn jumps to SET_RESULT), but inside a
		// complex try whose finally itself awaits, the finally must run
		// first — so that case stashes the value and defers to
		// emitPendingReturn instead (tryregion.go).
		if e.pendingReturn != nil {
			e.emitPendingReturn(line)
			return
		}
		e.emitMoveNextReturn(line)
		return
	}
	e.chunk.WriteSimple(OpLeave, line)
}

func (e *Emitter) emitIf(n *ast.If) {
	line := n.Pos().Line
	e.emitExpr(n.Condition)
	elseJump := e.chunk.Write(OpJumpIfFalse, 0, 0, line)
	e.emitStmt(n.Consequence)
	if n.Alternative == nil {
		e.chunk.PatchJumpTo(elseJump, e.chunk.InstructionCount())
		return
	}
	endJump := e.chunk.Write(OpJump, 0, 0, line)
	e.chunk.PatchJumpTo(elseJump, e.chunk.InstructionCount())
	e.emitStmt(n.Alternative)
	e.chunk.PatchJumpTo(endJump, e.chunk.InstructionCount())
}

func (e *Emitter) emitWhile(n *ast.While, label string) {
	line := n.Pos().Line
	condStart := e.chunk.InstructionCount()
	e.emitExpr(n.Condition)
	exitJump := e.chunk.Write(OpJumpIfFalse, 0, 0, line)
	e.pushLoop(label, condStart)
	e.emitStmt(n.Body)
	e.chunk.Write(OpJump, 0, uint16(condStart), line)
	e.popLoop()
	e.chunk.PatchJumpTo(exitJump, e.chunk.InstructionCount())
}

func (e *Emitter) emitDoWhile(n *ast.DoWhile, label string) {
	line := n.Pos().Line
	// The condition is emitted ahead of the body, behind a jump straight
	// into the body, so the body's `continue` already has a known target
	// (the condition) when it is emitted.
	toBody := e.chunk.Write(OpJump, 0, 0, line)
	condStart := e.chunk.InstructionCount()
	e.emitExpr(n.Condition)
	exitJump := e.chunk.Write(OpJumpIfFalse, 0, 0, line)
	e.chunk.PatchJumpTo(toBody, e.chunk.InstructionCount())
	e.pushLoop(label, condStart)
	e.emitStmt(n.Body)
	e.chunk.Write(OpJump, 0, uint16(condStart), line)
	e.popLoop()
	e.chunk.PatchJumpTo(exitJump, e.chunk.InstructionCount())
}

func (e *Emitter) emitForIn(n *ast.ForIn, label string) {
	line := n.Pos().Line
	e.emitExpr(n.Object)
	e.EnsureBoxed(line)
	e.emitHelperCall("GetOwnKeysIterator", 1, line)
	iter := e.spillTemp(line)

	loopStart := e.chunk.InstructionCount()
	e.chunk.Write(OpLoadLocal, 0, uint16(iter), line)
	e.emitHelperCall("IteratorNext", 1, line)
	result := e.spillTemp(line)
	e.chunk.Write(OpLoadLocal, 0, uint16(result), line)
	e.emitHelperCall("IteratorResultDone", 1, line)
	exitJump := e.chunk.Write(OpJumpIfTrue, 0, 0, line)

	e.pushScope()
	e.chunk.Write(OpLoadLocal, 0, uint16(result), line)
	e.emitHelperCall("IteratorResultValue", 1, line)
	if n.Declare {
		idx := e.declareLocal(n.Variable.Name, "")
		e.chunk.Write(OpStoreLocal, 0, uint16(idx), line)
	} else {
		e.emitStoreVariable(n.Variable.Name, line)
	}

	e.pushLoop(label, loopStart)
	e.emitStmt(n.Body)
	e.popLoop()
	e.popScope()
	e.chunk.Write(OpJump, 0, uint16(loopStart), line)
	e.chunk.PatchJumpTo(exitJump, e.chunk.InstructionCount())
}

func (e *Emitter) emitForOf(n *ast.ForOf, label string) {
	line := n.Pos().Line
	e.emitExpr(n.Iterable)
	e.EnsureBoxed(line)
	helper := "GetIterator"
	if n.IsAwait {
		helper = "GetAsyncIterator"
	}
	e.emitHelperCall(helper, 1, line)
	iter := e.spillTemp(line)

	loopStart := e.chunk.InstructionCount()
	e.chunk.Write(OpLoadLocal, 0, uint16(iter), line)
	e.emitHelperCall("IteratorNext", 1, line)
	if n.IsAwait {
		e.emitAwaitValue(line)
	}
	result := e.spillTemp(line)
	e.chunk.Write(OpLoadLocal, 0, uint16(result), line)
	e.emitHelperCall("IteratorResultDone", 1, line)
	exitJump := e.chunk.Write(OpJumpIfTrue, 0, 0, line)

	e.pushScope()
	e.chunk.Write(OpLoadLocal, 0, uint16(result), line)
	e.emitHelperCall("IteratorResultValue", 1, line)
	if n.Declare {
		idx := e.declareLocal(n.Variable.Name, "")
		e.chunk.Write(OpStoreLocal, 0, uint16(idx), line)
	} else {
		e.emitStoreVariable(n.Variable.Name, line)
	}

	e.pushLoop(label, loopStart)
	e.emitStmt(n.Body)
	e.popLoop()
	e.popScope()
	e.chunk.Write(OpJump, 0, uint16(loopStart), line)
	e.chunk.PatchJumpTo(exitJump, e.chunk.InstructionCount())
}

// emitSwitch lowers `switch`: subject evaluated once, cases compared in
// source order with loose-equals-free strict comparison (JS `switch` uses
// `===`), unlabeled break exits.
func (e *Emitter) emitSwitch(n *ast.Switch) {
	line := n.Pos().Line
	e.emitExpr(n.Subject)
	e.EnsureBoxed(line)
	subject := e.spillTemp(line)

	e.pushBreakOnlyLabel("")
	var caseJumps []int
	defaultIndex := -1
	for i, c := range n.Cases {
		if len(c.Values) == 0 {
			defaultIndex = i
			continue
		}
		for _, v := range c.Values {
			e.chunk.Write(OpLoadLocal, 0, uint16(subject), line)
			e.emitExpr(v)
			e.EnsureBoxed(line)
			e.chunk.WriteSimple(OpStrictEq, line)
			jump := e.chunk.Write(OpJumpIfTrue, 0, 0, line)
			caseJumps = append(caseJumps, jump)
		}
	}
	var toDefault int
	hasDefault := defaultIndex >= 0
	if hasDefault {
		toDefault = e.chunk.Write(OpJump, 0, 0, line)
	}
	endJump := e.chunk.Write(OpJump, 0, 0, line)

	jumpIdx := 0
	for i, c := range n.Cases {
		if i == defaultIndex {
			e.chunk.PatchJumpTo(toDefault, e.chunk.InstructionCount())
		}
		if len(c.Values) > 0 {
			target := e.chunk.InstructionCount()
			for range c.Values {
				e.chunk.PatchJumpTo(caseJumps[jumpIdx], target)
				jumpIdx++
			}
		}
		for _, s := range c.Statements {
			e.emitStmt(s)
		}
	}
	e.chunk.PatchJumpTo(endJump, e.chunk.InstructionCount())
	e.popLoop()
}

func (e *Emitter) emitLabeled(n *ast.LabeledStatement) {
	if ast.IsLoop(n.Body) {
		switch body := n.Body.(type) {
		case *ast.While:
			e.emitWhile(body, n.Label)
		case *ast.DoWhile:
			e.emitDoWhile(body, n.Label)
		case *ast.ForIn:
			e.emitForIn(body, n.Label)
		case *ast.ForOf:
			e.emitForOf(body, n.Label)
		}
		return
	}
	e.pushBreakOnlyLabel(n.Label)
	e.emitStmt(n.Body)
	e.popLoop()
}

// emitTryCatch picks simple or complex lowering (spec §4.3) based on
// whether any suspension point is reachable anywhere in the statement —
// outside an async/generator body there is never one, so simple mode
// always applies there.
func (e *Emitter) emitTryCatch(n *ast.TryCatch) {
	if e.machine == nil || !containsSuspension(n) {
		e.emitSimpleTryCatch(n)
		return
	}
	e.emitComplexTryCatch(n) // tryregion.go
}

func (e *Emitter) emitSimpleTryCatch(n *ast.TryCatch) {
	line := n.Pos().Line
	tryOffset := e.chunk.Write(OpTry, 0, 0, line)
	e.pushScope()
	for _, s := range n.Try.Statements {
		e.emitStmt(s)
	}
	e.popScope()
	leaveFromTry := e.chunk.Write(OpLeave, 0, 0, line)

	info := TryInfo{}
	var finallyTarget int

	catchTarget := e.chunk.InstructionCount()
	if n.Catch != nil {
		info.HasCatch = true
		info.CatchTarget = catchTarget
		e.pushScope()
		if n.Catch.Param != nil {
			idx := e.declareLocal(n.Catch.Param.Name, "")
			e.chunk.Write(OpStoreLocal, 0, uint16(idx), line)
		} else {
			e.chunk.WriteSimple(OpPop, line)
		}
		for _, s := range n.Catch.Body.Statements {
			e.emitStmt(s)
		}
		e.popScope()
		e.chunk.Write(OpLeave, 0, 0, line)
	}

	if n.Finally != nil {
		info.HasFinally = true
		finallyTarget = e.chunk.InstructionCount()
		info.FinallyTarget = finallyTarget
		e.pushScope()
		for _, s := range n.Finally.Statements {
			e.emitStmt(s)
		}
		e.popScope()
		e.chunk.WriteSimple(OpEndFinally, line)
	}

	e.chunk.SetTryInfo(tryOffset, info)
	e.chunk.PatchJumpTo(leaveFromTry, e.chunk.InstructionCount())
}

func containsSuspension(node ast.Node) bool {
	found := false
	async.Walk(node, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.Await, *ast.Yield:
			found = true
			return false
		}
		return !found
	})
	return found
}

func (e *Emitter) emitNestedFunctionDecl(n *ast.FunctionDecl) {
	fn := e.compileFunction(n, false) // func_emitter.go
	idx := e.chunk.AddConstant(FunctionValue(fn))
	e.chunk.Write(OpLoadConst, 0, uint16(idx), n.Pos().Line)
	if n.Name != nil {
		if e.isHoisted(n.Name.Name) {
			e.emitStoreVariable(n.Name.Name, n.Pos().Line)
		} else {
			idx := e.declareLocal(n.Name.Name, "")
			e.chunk.Write(OpStoreLocal, 0, uint16(idx), n.Pos().Line)
		}
	} else {
		e.chunk.WriteSimple(OpPop, n.Pos().Line)
	}
}
