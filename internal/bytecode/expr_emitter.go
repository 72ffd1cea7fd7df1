package bytecode

import (
	"github.com/sharpts-lang/core/internal/ast"
)

// emitExpr lowers an expression, leaving exactly one value on top of the
// operand stack and updating the stack-type lattice to describe it.
func (e *Emitter) emitExpr(expr ast.Expression) {
	line := expr.Pos().Line
	switch n := expr.(type) {
	case *ast.Literal:
		e.emitLiteral(n, line)
	case *ast.Variable:
		e.emitLoadVariable(n.Name, line)
	case *ast.Grouping:
		e.emitExpr(n.Inner)
	case *ast.Sequence:
		for i, sub := range n.Expressions {
			if i > 0 {
				e.chunk.WriteSimple(OpPop, line)
			}
			e.emitExpr(sub)
		}
	case *ast.This:
		e.chunk.WriteSimple(OpLoadThis, line)
		e.setStackType(StackUnknown)
	case *ast.Super:
		e.chunk.WriteSimple(OpLoadThis, line)
		e.setStackType(StackUnknown)
	case *ast.Binary:
		e.emitBinary(n)
	case *ast.Logical:
		e.emitLogical(n)
	case *ast.NullishCoalescing:
		e.emitNullish(n)
	case *ast.Unary:
		e.emitUnary(n)
	case *ast.Ternary:
		e.emitTernary(n)
	case *ast.Assign:
		e.emitAssign(n)
	case *ast.CompoundAssign:
		e.emitCompoundAssign(n)
	case *ast.LogicalAssign:
		e.emitLogicalAssign(n)
	case *ast.PrefixIncrement:
		e.emitPrefixIncrement(n)
	case *ast.PostfixIncrement:
		e.emitPostfixIncrement(n)
	case *ast.ArrayLiteral:
		e.emitArrayLiteral(n)
	case *ast.ObjectLiteral:
		e.emitObjectLiteral(n)
	case *ast.TemplateLiteral:
		e.emitTemplateLiteral(n)
	case *ast.Get:
		e.emitGet(n)
	case *ast.Set:
		e.emitSet(n)
	case *ast.GetIndex:
		e.emitGetIndex(n)
	case *ast.SetIndex:
		e.emitSetIndex(n)
	case *ast.New:
		e.emitNew(n)
	case *ast.Call:
		e.emitCall(n) // C8 dispatch registry, dispatch.go
	case *ast.TypeAssertion:
		e.emitExpr(n.Value) // no runtime check emitted; spec Non-goals
	case *ast.DynamicImport:
		e.emitExpr(n.Specifier)
		e.EnsureBoxed(line)
		e.emitHelperCall("DynamicImportModule", 1, line)
	case *ast.ImportMeta:
		e.emitHelperCall("ImportMeta", 0, line)
	case *ast.Await:
		e.emitAwait(n) // C5, movenext.go
	case *ast.Yield:
		e.emitYield(n) // C5, movenext.go
	case *ast.ArrowFunction:
		e.emitArrowFunction(n) // func_emitter.go
	case *ast.Spread:
		// A bare Spread reached here (outside array/call/object contexts a
		// caller already special-cases) degrades to its inner value.
		e.emitExpr(n.Value)
	default:
		e.error(expr.Pos(), "unsupported expression node %T", expr)
		e.chunk.WriteSimple(OpLoadUndefined, line)
		e.setStackType(StackNull)
	}
}

func (e *Emitter) emitLiteral(n *ast.Literal, line int) {
	switch n.Kind {
	case ast.LiteralNumber:
		idx := e.chunk.AddConstant(NumberValue(toFloat(n.Value)))
		e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
		e.setStackType(StackDouble)
	case ast.LiteralString:
		idx := e.chunk.AddConstant(StringValue(toStringValue(n.Value)))
		e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
		e.setStackType(StackString)
	case ast.LiteralBoolean:
		if b, _ := n.Value.(bool); b {
			e.chunk.WriteSimple(OpLoadTrue, line)
		} else {
			e.chunk.WriteSimple(OpLoadFalse, line)
		}
		e.setStackType(StackBoolean)
	case ast.LiteralNull:
		e.chunk.WriteSimple(OpLoadNull, line)
		e.setStackType(StackNull)
	case ast.LiteralUndefined:
		e.chunk.WriteSimple(OpLoadUndefined, line)
		e.setStackType(StackNull)
	case ast.LiteralBigInt:
		idx := e.chunk.AddConstant(BigIntValue(n.Raw))
		e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
		e.setStackType(StackUnknown)
	case ast.LiteralRegExp:
		idx := e.chunk.AddConstant(StringValue(n.Raw))
		e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
		e.emitHelperCall("CreateRegExp", 1, line)
	default:
		e.chunk.WriteSimple(OpLoadUndefined, line)
		e.setStackType(StackNull)
	}
}

func toFloat(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

func toStringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// emitLoadVariable resolves a name to a hoisted state-machine field
// (inside an async/generator body), a local slot, or a global binding, in
// that order — the precedence spec §4.3 "Variable access inside
// MoveNext" requires.
func (e *Emitter) emitLoadVariable(name string, line int) {
	if e.isHoisted(name) {
		if f, ok := e.machine.VariableField(name); ok {
			tok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: f.Name})
			e.chunk.WriteSimple(OpLoadThis, line)
			e.chunk.Write(OpLoadField, 0, uint16(tok), line)
			e.setStackType(StackUnknown)
			return
		}
	}
	if idx := e.resolveLocal(name); idx >= 0 {
		e.chunk.Write(OpLoadLocal, 0, uint16(idx), line)
		e.setStackType(StackUnknown)
		return
	}
	idx := e.chunk.AddConstant(StringValue(name))
	e.chunk.Write(OpLoadGlobal, 0, uint16(idx), line)
	e.setStackType(StackUnknown)
}

// emitStoreVariable is the mirror of emitLoadVariable for assignment
// targets: it expects the value already on top of stack.
func (e *Emitter) emitStoreVariable(name string, line int) {
	if e.isHoisted(name) {
		if f, ok := e.machine.VariableField(name); ok {
			tok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: f.Name})
			e.EnsureBoxed(line)
			e.chunk.WriteSimple(OpLoadThis, line)
			e.chunk.WriteSimple(OpSwap, line)
			e.chunk.Write(OpStoreField, 0, uint16(tok), line)
			return
		}
	}
	if idx := e.resolveLocal(name); idx >= 0 {
		e.chunk.Write(OpStoreLocal, 0, uint16(idx), line)
		return
	}
	idx := e.chunk.AddConstant(StringValue(name))
	e.chunk.Write(OpStoreGlobal, 0, uint16(idx), line)
}

func (e *Emitter) emitBinary(n *ast.Binary) {
	line := n.Pos().Line
	e.emitExpr(n.Left)
	e.emitExpr(n.Right)
	switch n.Op {
	case ast.OpAdd:
		e.emitHelperCall("Add", 2, line)
	case ast.OpSub:
		e.chunk.WriteSimple(OpSub, line)
		e.setStackType(StackDouble)
	case ast.OpMul:
		e.chunk.WriteSimple(OpMul, line)
		e.setStackType(StackDouble)
	case ast.OpDiv:
		e.chunk.WriteSimple(OpDiv, line)
		e.setStackType(StackDouble)
	case ast.OpMod:
		e.chunk.WriteSimple(OpMod, line)
		e.setStackType(StackDouble)
	case ast.OpExp:
		e.chunk.WriteSimple(OpExp, line)
		e.setStackType(StackDouble)
	case ast.OpLt:
		e.chunk.WriteSimple(OpLt, line)
		e.setStackType(StackBoolean)
	case ast.OpLe:
		e.chunk.WriteSimple(OpLe, line)
		e.setStackType(StackBoolean)
	case ast.OpGt:
		e.chunk.WriteSimple(OpGt, line)
		e.setStackType(StackBoolean)
	case ast.OpGe:
		e.chunk.WriteSimple(OpGe, line)
		e.setStackType(StackBoolean)
	case ast.OpEq:
		e.emitHelperCall("Equals", 2, line)
		e.setStackType(StackBoolean)
	case ast.OpNe:
		e.emitHelperCall("Equals", 2, line)
		e.chunk.WriteSimple(OpNot, line)
		e.setStackType(StackBoolean)
	case ast.OpStrictEq:
		e.chunk.WriteSimple(OpStrictEq, line)
		e.setStackType(StackBoolean)
	case ast.OpStrictNe:
		e.chunk.WriteSimple(OpStrictNe, line)
		e.setStackType(StackBoolean)
	case ast.OpBitAnd:
		e.chunk.WriteSimple(OpBitAnd, line)
		e.setStackType(StackDouble)
	case ast.OpBitOr:
		e.chunk.WriteSimple(OpBitOr, line)
		e.setStackType(StackDouble)
	case ast.OpBitXor:
		e.chunk.WriteSimple(OpBitXor, line)
		e.setStackType(StackDouble)
	case ast.OpShl:
		e.chunk.WriteSimple(OpShl, line)
		e.setStackType(StackDouble)
	case ast.OpShr:
		e.chunk.WriteSimple(OpShr, line)
		e.setStackType(StackDouble)
	case ast.OpUShr:
		e.chunk.WriteSimple(OpUShr, line)
		e.setStackType(StackDouble)
	case ast.OpInstanceof:
		e.chunk.WriteSimple(OpInstanceOf, line)
		e.setStackType(StackBoolean)
	case ast.OpIn:
		e.chunk.WriteSimple(OpInOp, line)
		e.setStackType(StackBoolean)
	default:
		e.error(n.Pos(), "unsupported binary operator %q", n.Op)
	}
}

// emitLogical implements && and ||: the result is the selected operand's
// actual value, never a boolean coercion of it (spec §4.4).
func (e *Emitter) emitLogical(n *ast.Logical) {
	line := n.Pos().Line
	e.emitExpr(n.Left)
	var skip int
	if n.Op == ast.OpAnd {
		skip = e.chunk.Write(OpJumpIfFalseKeep, 0, 0, line)
	} else {
		skip = e.chunk.Write(OpJumpIfTrue, 0, 0, line)
	}
	e.chunk.WriteSimple(OpPop, line)
	e.emitExpr(n.Right)
	e.chunk.PatchJumpTo(skip, e.chunk.InstructionCount())
	e.setStackType(StackUnknown)
}

// emitNullish implements `??`: selects Right only when Left is
// null/undefined.
func (e *Emitter) emitNullish(n *ast.NullishCoalescing) {
	line := n.Pos().Line
	e.emitExpr(n.Left)
	takeRight := e.chunk.Write(OpJumpIfNullish, 0, 0, line)
	skipRight := e.chunk.Write(OpJump, 0, 0, line)
	e.chunk.PatchJumpTo(takeRight, e.chunk.InstructionCount())
	e.chunk.WriteSimple(OpPop, line)
	e.emitExpr(n.Right)
	e.chunk.PatchJumpTo(skipRight, e.chunk.InstructionCount())
	e.setStackType(StackUnknown)
}

func (e *Emitter) emitUnary(n *ast.Unary) {
	line := n.Pos().Line
	e.emitExpr(n.Operand)
	switch n.Op {
	case ast.OpNeg:
		e.chunk.WriteSimple(OpNeg, line)
		e.setStackType(StackDouble)
	case ast.OpPos:
		e.chunk.WriteSimple(OpPos, line)
		e.setStackType(StackDouble)
	case ast.OpNot:
		e.chunk.WriteSimple(OpNot, line)
		e.setStackType(StackBoolean)
	case ast.OpBitNot:
		e.chunk.WriteSimple(OpBitNot, line)
		e.setStackType(StackDouble)
	case ast.OpTypeof:
		e.chunk.WriteSimple(OpTypeofOp, line)
		e.setStackType(StackString)
	case ast.OpVoid:
		e.chunk.WriteSimple(OpPop, line)
		e.chunk.WriteSimple(OpLoadUndefined, line)
		e.setStackType(StackNull)
	case ast.OpDelete:
		e.chunk.WriteSimple(OpDeleteOp, line)
		e.setStackType(StackBoolean)
	default:
		e.error(n.Pos(), "unsupported unary operator %q", n.Op)
	}
}

func (e *Emitter) emitTernary(n *ast.Ternary) {
	line := n.Pos().Line
	e.emitExpr(n.Condition)
	elseJump := e.chunk.Write(OpJumpIfFalse, 0, 0, line)
	e.emitExpr(n.Consequent)
	endJump := e.chunk.Write(OpJump, 0, 0, line)
	e.chunk.PatchJumpTo(elseJump, e.chunk.InstructionCount())
	e.emitExpr(n.Alternative)
	e.chunk.PatchJumpTo(endJump, e.chunk.InstructionCount())
	e.setStackType(StackUnknown)
}

// emitAssign lowers `target = value` for the three legal lvalue shapes:
// a bare name, a property (Get), or a computed index (GetIndex). Every
// subexpression of the target is pre-evaluated before Value, as spec
// §4.3 requires for any multi-operand operation (protects against an
// Await inside Value clobbering an already-pushed receiver/index).
func (e *Emitter) emitAssign(n *ast.Assign) {
	line := n.Pos().Line
	switch target := n.Target.(type) {
	case *ast.Variable:
		e.emitExpr(n.Value)
		e.emitStoreVariable(target.Name, line)
	case *ast.Get:
		e.emitExpr(target.Receiver)
		e.EnsureBoxed(line)
		recv := e.spillTemp(line)
		e.emitExpr(n.Value)
		e.EnsureBoxed(line)
		tok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: target.Name})
		e.chunk.Write(OpLoadLocal, 0, uint16(recv), line)
		e.chunk.WriteSimple(OpSwap, line)
		e.chunk.Write(OpStoreField, 0, uint16(tok), line)
	case *ast.GetIndex:
		e.emitExpr(target.Object)
		e.EnsureBoxed(line)
		obj := e.spillTemp(line)
		e.emitExpr(target.Index)
		e.EnsureBoxed(line)
		idx := e.spillTemp(line)
		e.emitExpr(n.Value)
		e.EnsureBoxed(line)
		val := e.spillTemp(line)
		e.chunk.Write(OpLoadLocal, 0, uint16(obj), line)
		e.chunk.Write(OpLoadLocal, 0, uint16(idx), line)
		e.chunk.Write(OpLoadLocal, 0, uint16(val), line)
		e.chunk.WriteSimple(OpStoreElement, line)
	default:
		e.error(n.Pos(), "unsupported assignment target %T", n.Target)
	}
	e.setStackType(StackUnknown)
}

// spillTemp pops the top of stack into a fresh anonymous local slot and
// returns its index, then re-pushes nothing — callers reload it by index
// once they're ready. This is the "pre-evaluate into temporaries" move
// spec §4.3 requires whenever a later subexpression (e.g. Value, which
// may contain an Await) could otherwise clobber an already-computed
// operand on the runtime stack.
func (e *Emitter) spillTemp(line int) int {
	idx := e.chunk.AddLocal("", "")
	e.chunk.Write(OpStoreLocal, 0, uint16(idx), line)
	return idx
}

func (e *Emitter) emitCompoundAssign(n *ast.CompoundAssign) {
	binaryEquiv := &ast.Binary{Token: n.Token, Left: n.Target, Op: n.BaseOp, Right: n.Value}
	e.emitAssign(&ast.Assign{Token: n.Token, Target: n.Target, Value: binaryEquiv})
}

func (e *Emitter) emitLogicalAssign(n *ast.LogicalAssign) {
	switch n.BaseOp {
	case ast.OpAnd:
		e.emitAssign(&ast.Assign{Token: n.Token, Target: n.Target, Value: &ast.Logical{Token: n.Token, Left: n.Target, Op: ast.OpAnd, Right: n.Value}})
	case ast.OpOr:
		e.emitAssign(&ast.Assign{Token: n.Token, Target: n.Target, Value: &ast.Logical{Token: n.Token, Left: n.Target, Op: ast.OpOr, Right: n.Value}})
	default: // ast.OpNullish ("??=")
		e.emitAssign(&ast.Assign{Token: n.Token, Target: n.Target, Value: &ast.NullishCoalescing{Token: n.Token, Left: n.Target, Right: n.Value}})
	}
}

// emitPrefixIncrement evaluates target += 1 (or -= 1) and yields the
// updated value.
func (e *Emitter) emitPrefixIncrement(n *ast.PrefixIncrement) {
	op := ast.OpAdd
	if n.Decrement {
		op = ast.OpSub
	}
	one := &ast.Literal{Kind: ast.LiteralNumber, Value: float64(1)}
	e.emitAssign(&ast.Assign{Token: n.Token, Target: n.Operand, Value: &ast.Binary{Token: n.Token, Left: n.Operand, Op: op, Right: one}})
	e.emitExpr(n.Operand)
}

// emitPostfixIncrement yields the pre-update value, then performs the
// update as a side effect.
func (e *Emitter) emitPostfixIncrement(n *ast.PostfixIncrement) {
	line := n.Pos().Line
	e.emitExpr(n.Operand)
	e.EnsureBoxed(line)
	original := e.spillTemp(line)

	op := ast.OpAdd
	if n.Decrement {
		op = ast.OpSub
	}
	one := &ast.Literal{Kind: ast.LiteralNumber, Value: float64(1)}
	e.emitAssign(&ast.Assign{Token: n.Token, Target: n.Operand, Value: &ast.Binary{Token: n.Token, Left: n.Operand, Op: op, Right: one}})
	e.chunk.WriteSimple(OpPop, line)

	e.chunk.Write(OpLoadLocal, 0, uint16(original), line)
	e.setStackType(StackUnknown)
}

// emitArrayLiteral builds an array, expanding *ast.Spread elements via
// OpSpreadInto and leaving elided holes (nil entries) as `undefined`.
func (e *Emitter) emitArrayLiteral(n *ast.ArrayLiteral) {
	line := n.Pos().Line
	count := 0
	for _, el := range n.Elements {
		if el == nil {
			e.chunk.WriteSimple(OpLoadUndefined, line)
			count++
			continue
		}
		if spread, ok := el.(*ast.Spread); ok {
			e.chunk.Write(OpBuildArray, byte(count), 0, line)
			e.emitExpr(spread.Value)
			e.EnsureBoxed(line)
			e.chunk.WriteSimple(OpSpreadInto, line)
			count = -1 // subsequent elements build on the array already on stack
			continue
		}
		e.emitExpr(el)
		e.EnsureBoxed(line)
		if count >= 0 {
			count++
		}
	}
	if count >= 0 {
		e.chunk.Write(OpBuildArray, byte(count), 0, line)
	}
	e.setStackType(StackUnknown)
}

func (e *Emitter) emitObjectLiteral(n *ast.ObjectLiteral) {
	line := n.Pos().Line
	count := 0
	for _, p := range n.Properties {
		switch {
		case p.IsSpread:
			e.chunk.Write(OpBuildObject, byte(count), 0, line)
			e.emitExpr(p.Value)
			e.EnsureBoxed(line)
			e.emitHelperCall("MergeIntoObject", 2, line)
			count = -1
		case p.Computed != nil:
			e.emitExpr(p.Computed)
			e.EnsureBoxed(line)
			e.emitExpr(p.Value)
			e.EnsureBoxed(line)
			if count >= 0 {
				count++
			}
		default:
			idx := e.chunk.AddConstant(StringValue(p.Key))
			e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
			e.emitExpr(p.Value)
			e.EnsureBoxed(line)
			if count >= 0 {
				count++
			}
		}
	}
	if count >= 0 {
		e.chunk.Write(OpBuildObject, byte(count), 0, line)
	}
	e.setStackType(StackUnknown)
}

// emitTemplateLiteral alternates literal chunks with `Stringify`-coerced
// interpolated subexpressions (spec §4.4), then concatenates via Add.
func (e *Emitter) emitTemplateLiteral(n *ast.TemplateLiteral) {
	line := n.Pos().Line
	idx := e.chunk.AddConstant(StringValue(n.Quasis[0]))
	e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
	for i, expr := range n.Expressions {
		e.emitExpr(expr)
		e.chunk.WriteSimple(OpStringify, line)
		e.emitHelperCall("Add", 2, line)
		idx := e.chunk.AddConstant(StringValue(n.Quasis[i+1]))
		e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
		e.emitHelperCall("Add", 2, line)
	}
	e.setStackType(StackString)
}

func (e *Emitter) emitGet(n *ast.Get) {
	line := n.Pos().Line
	e.emitExpr(n.Receiver)
	e.EnsureBoxed(line)
	tok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: n.Name})
	e.chunk.Write(OpLoadField, 0, uint16(tok), line)
	e.setStackType(StackUnknown)
}

func (e *Emitter) emitSet(n *ast.Set) {
	line := n.Pos().Line
	e.emitExpr(n.Receiver)
	e.EnsureBoxed(line)
	recv := e.spillTemp(line)
	e.emitExpr(n.Value)
	e.EnsureBoxed(line)
	tok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: n.Name})
	e.chunk.Write(OpLoadLocal, 0, uint16(recv), line)
	e.chunk.WriteSimple(OpSwap, line)
	e.chunk.Write(OpStoreField, 0, uint16(tok), line)
	e.setStackType(StackUnknown)
}

func (e *Emitter) emitGetIndex(n *ast.GetIndex) {
	line := n.Pos().Line
	e.emitExpr(n.Object)
	e.EnsureBoxed(line)
	e.emitExpr(n.Index)
	e.EnsureBoxed(line)
	e.chunk.WriteSimple(OpLoadElement, line)
	e.setStackType(StackUnknown)
}

func (e *Emitter) emitSetIndex(n *ast.SetIndex) {
	line := n.Pos().Line
	e.emitExpr(n.Object)
	e.EnsureBoxed(line)
	obj := e.spillTemp(line)
	e.emitExpr(n.Index)
	e.EnsureBoxed(line)
	idx := e.spillTemp(line)
	e.emitExpr(n.Value)
	e.EnsureBoxed(line)
	val := e.spillTemp(line)
	e.chunk.Write(OpLoadLocal, 0, uint16(obj), line)
	e.chunk.Write(OpLoadLocal, 0, uint16(idx), line)
	e.chunk.Write(OpLoadLocal, 0, uint16(val), line)
	e.chunk.WriteSimple(OpStoreElement, line)
	e.setStackType(StackUnknown)
}

func (e *Emitter) emitNew(n *ast.New) {
	line := n.Pos().Line
	name := calleeName(n.Callee)
	tok := e.chunk.AddToken(MetadataToken{Kind: TokenType, Name: name})
	for _, arg := range n.Arguments {
		e.emitSpreadableArg(arg, line)
	}
	e.chunk.Write(OpNewInstance, byte(len(n.Arguments)), uint16(tok), line)
	e.setStackType(StackUnknown)
}

func (e *Emitter) emitSpreadableArg(arg ast.Expression, line int) {
	if spread, ok := arg.(*ast.Spread); ok {
		e.emitExpr(spread.Value)
		e.EnsureBoxed(line)
		e.chunk.WriteSimple(OpSpreadInto, line)
		return
	}
	e.emitExpr(arg)
	e.EnsureBoxed(line)
}

func calleeName(expr ast.Expression) string {
	switch n := expr.(type) {
	case *ast.Variable:
		return n.Name
	case *ast.Get:
		return n.Name
	default:
		return ""
	}
}

// emitHelperCall pushes a call to a fixed-catalog runtime helper (spec
// §6) — argc values are assumed already on the stack, in left-to-right
// order.
func (e *Emitter) emitHelperCall(name string, argc int, line int) {
	idx := e.chunk.AddHelper(name)
	e.chunk.Write(OpCallHelper, byte(argc), uint16(idx), line)
	e.setStackType(StackUnknown)
}
