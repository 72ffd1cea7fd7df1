// Package bytecode implements the stack-machine bytecode emitted by the
// SharpTS compiler back end: instruction encoding, the compiled-chunk
// representation, and the emitter that lowers a typed AST into it.
//
// Architecture: stack-based VM with 32-bit instructions.
// Format: [8-bit opcode][8-bit operand A][16-bit operand B], with a
// 3-byte-operand ABC variant for the rare instruction that needs it.
package bytecode

// OpCode identifies a single bytecode instruction.
type OpCode byte

const (
	// ========================================
	// Stack and constants
	// ========================================

	// OpLoadConst pushes a constant from the chunk's constant pool.
	// Format: [OpLoadConst][unused][index]
	OpLoadConst OpCode = iota
	// OpLoadNull pushes the TypeScript `null` value.
	OpLoadNull
	// OpLoadUndefined pushes `undefined`.
	OpLoadUndefined
	// OpLoadTrue pushes boolean true.
	OpLoadTrue
	// OpLoadFalse pushes boolean false.
	OpLoadFalse
	// OpLoadThis pushes the current `this` receiver (erased object slot).
	OpLoadThis
	// OpPop discards the top of stack.
	OpPop
	// OpDup duplicates the top of stack.
	OpDup
	// OpSwap exchanges the top two stack entries.
	OpSwap

	// ========================================
	// Locals, globals, arguments, upvalues
	// ========================================

	// OpLoadLocal loads a local slot. Format: [op][unused][index]
	OpLoadLocal
	// OpStoreLocal stores the top of stack into a local slot.
	OpStoreLocal
	// OpLoadArg loads a formal parameter slot.
	OpLoadArg
	// OpStoreArg stores into a formal parameter slot (reassigned parameters).
	OpStoreArg
	// OpLoadGlobal loads a module-level binding.
	OpLoadGlobal
	// OpStoreGlobal stores a module-level binding.
	OpStoreGlobal
	// OpLoadUpvalue loads a captured closure variable.
	OpLoadUpvalue
	// OpStoreUpvalue stores a captured closure variable.
	OpStoreUpvalue

	// ========================================
	// Fields and elements (erased object slots)
	// ========================================

	// OpLoadField reads a named field off the object on top of stack,
	// resolved via the metadata token in operand B. Used both for ordinary
	// property reads and for state-machine field access on `self` (C5).
	OpLoadField
	// OpStoreField writes [object, value] -> [] to a named field.
	OpStoreField
	// OpLoadElement reads [object, index] -> [value].
	OpLoadElement
	// OpStoreElement writes [object, index, value] -> [].
	OpStoreElement

	// ========================================
	// Boxing
	// ========================================

	// OpBox converts a value-type stack slot (Double/Boolean) into an
	// erased object slot. A no-op for already-reference-like values; the
	// emitter only issues it when EnsureBoxed's lattice check requires it.
	OpBox
	// OpUnbox converts an erased object slot back to its value type,
	// given in operand A (0=Double, 1=Boolean).
	OpUnbox

	// ========================================
	// Arithmetic and JavaScript-semantics operators (spec §4.4)
	// ========================================

	// OpAdd dispatches to the runtime Add helper, which disambiguates
	// string concatenation from numeric addition.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	// OpLt/OpLe/OpGt/OpGe coerce both operands to double before comparing.
	OpLt
	OpLe
	OpGt
	OpGe
	// OpLooseEq/OpLooseNe delegate to the runtime Equals helper.
	OpLooseEq
	OpLooseNe
	// OpStrictEq/OpStrictNe compare without coercion.
	OpStrictEq
	OpStrictNe
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpUShr
	OpNeg
	OpPos
	OpNot
	OpBitNot
	OpTypeofOp
	OpVoidOp
	OpDeleteOp
	OpInstanceOf
	OpInOp

	// ========================================
	// Control flow
	// ========================================

	// OpJump is an unconditional branch. Format: [op][unused][target]
	OpJump
	// OpJumpIfFalse pops and branches if falsy (IsTruthy helper).
	OpJumpIfFalse
	// OpJumpIfTrue pops and branches if truthy, without popping when not
	// taken — used to implement || short-circuit (keeps the operand as
	// the logical's result per spec §4.4).
	OpJumpIfTrue
	// OpJumpIfFalseKeep branches if falsy without popping — used for &&.
	OpJumpIfFalseKeep
	// OpJumpIfNullish branches when the top of stack is null/undefined,
	// without popping — used for `??`.
	OpJumpIfNullish
	// OpTableSwitch pops an integer index and jumps to the operand-B'th
	// entry of the chunk's jump table at index A, falling through if the
	// index is out of range. The emitter does not emit it: `switch` cases
	// and MoveNext's `switch(state)` dispatch are both lowered to
	// OpStrictEq/OpJumpIfTrue test chains.
	OpTableSwitch

	// ========================================
	// Calls and construction (C8 dispatch registry, spec §4.5)
	// ========================================

	// OpCallHelper invokes a named runtime helper (rules 1,2,3,5,7,8,9 of
	// the dispatch registry). Operand B indexes the chunk's helper table;
	// operand A is the argument count already pushed.
	OpCallHelper
	// OpCallDirect calls a compiled function by function-table index
	// (rule 10). Operand A is argument count, operand B the table index.
	OpCallDirect
	// OpCallVirtual performs virtual dispatch through a class hierarchy
	// (rule 6): [receiver, args...] -> [result].
	OpCallVirtual
	// OpCallStatic calls a known class's static method (rule 4).
	OpCallStatic
	// OpInvokeValue is the generic indirect-invocation fallback (rule 11):
	// [callee, argsArray] -> [result].
	OpInvokeValue
	// OpIsInst tests the top of stack against the built-in type named by
	// the metadata token in operand B, pushing a boolean — the
	// ambiguous-method runtime-dispatch primitive (spec §4.5 rule 9).
	OpIsInst
	// OpNewInstance constructs a class instance: [args...] -> [instance].
	OpNewInstance
	// OpBuildArray collects operand A stack values into a new array.
	OpBuildArray
	// OpBuildObject collects operand A key/value pairs into a new object.
	OpBuildObject
	// OpSpreadInto appends an iterable's elements into the array/argument
	// list being built (array literal or call-argument spread).
	OpSpreadInto
	// OpStringify coerces the top of stack to a string via the runtime
	// Stringify helper, for template-literal interpolation.
	OpStringify

	// ========================================
	// Protected regions (spec §6 — try/catch/filter/finally, `leave`)
	// ========================================

	// OpTry marks the start of a protected region. Its catch/finally
	// targets and fault-variant flag live in the chunk's TryInfo table,
	// keyed by this instruction's offset.
	OpTry
	// OpLeave exits a protected region to the given target, the only
	// legal way to transfer control out of one (spec §6 "the emitter's
	// only assumption is that protected-region exits require `leave`").
	OpLeave
	// OpEndFinally marks the end of a finally/fault handler, resuming
	// whatever control transfer the protected region's exit requested.
	OpEndFinally
	// OpRethrow re-raises the exception currently being handled.
	OpRethrow
	// OpThrow raises the value on top of stack as an exception, wrapping
	// it first via the runtime WrapException helper.
	OpThrow

	// ========================================
	// Metadata tokens (spec §6)
	// ========================================

	// OpLoadToken pushes the identity of a metadata token (a type, method,
	// or field reference) for helpers that need it, such as `get_awaiter`
	// resolution or `instanceof` against a class reference.
	OpLoadToken

	// ========================================
	// Debug / diagnostics
	// ========================================

	// OpHalt stops execution. It ends every MoveNext body (the END label
	// in movenext.go) and terminates truncated test chunks.
	OpHalt
)

// OpCodeNames maps each opcode to its disassembly mnemonic.
var OpCodeNames = [...]string{
	OpLoadConst:       "LOAD_CONST",
	OpLoadNull:        "LOAD_NULL",
	OpLoadUndefined:   "LOAD_UNDEFINED",
	OpLoadTrue:        "LOAD_TRUE",
	OpLoadFalse:       "LOAD_FALSE",
	OpLoadThis:        "LOAD_THIS",
	OpPop:             "POP",
	OpDup:             "DUP",
	OpSwap:            "SWAP",
	OpLoadLocal:       "LOAD_LOCAL",
	OpStoreLocal:      "STORE_LOCAL",
	OpLoadArg:         "LOAD_ARG",
	OpStoreArg:        "STORE_ARG",
	OpLoadGlobal:      "LOAD_GLOBAL",
	OpStoreGlobal:     "STORE_GLOBAL",
	OpLoadUpvalue:     "LOAD_UPVALUE",
	OpStoreUpvalue:    "STORE_UPVALUE",
	OpLoadField:       "LOAD_FIELD",
	OpStoreField:      "STORE_FIELD",
	OpLoadElement:     "LOAD_ELEMENT",
	OpStoreElement:    "STORE_ELEMENT",
	OpBox:             "BOX",
	OpUnbox:           "UNBOX",
	OpAdd:             "ADD",
	OpSub:             "SUB",
	OpMul:             "MUL",
	OpDiv:             "DIV",
	OpMod:             "MOD",
	OpExp:             "EXP",
	OpLt:              "LT",
	OpLe:              "LE",
	OpGt:              "GT",
	OpGe:              "GE",
	OpLooseEq:         "LOOSE_EQ",
	OpLooseNe:         "LOOSE_NE",
	OpStrictEq:        "STRICT_EQ",
	OpStrictNe:        "STRICT_NE",
	OpBitAnd:          "BIT_AND",
	OpBitOr:           "BIT_OR",
	OpBitXor:          "BIT_XOR",
	OpShl:             "SHL",
	OpShr:             "SHR",
	OpUShr:            "USHR",
	OpNeg:             "NEG",
	OpPos:             "POS",
	OpNot:             "NOT",
	OpBitNot:          "BIT_NOT",
	OpTypeofOp:        "TYPEOF",
	OpVoidOp:          "VOID",
	OpDeleteOp:        "DELETE",
	OpInstanceOf:      "INSTANCEOF",
	OpInOp:            "IN",
	OpJump:            "JUMP",
	OpJumpIfFalse:     "JUMP_IF_FALSE",
	OpJumpIfTrue:      "JUMP_IF_TRUE",
	OpJumpIfFalseKeep: "JUMP_IF_FALSE_KEEP",
	OpJumpIfNullish:   "JUMP_IF_NULLISH",
	OpTableSwitch:     "TABLE_SWITCH",
	OpCallHelper:      "CALL_HELPER",
	OpCallDirect:      "CALL_DIRECT",
	OpCallVirtual:     "CALL_VIRTUAL",
	OpCallStatic:      "CALL_STATIC",
	OpInvokeValue:     "INVOKE_VALUE",
	OpIsInst:          "IS_INST",
	OpNewInstance:     "NEW_INSTANCE",
	OpBuildArray:      "BUILD_ARRAY",
	OpBuildObject:     "BUILD_OBJECT",
	OpSpreadInto:      "SPREAD_INTO",
	OpStringify:       "STRINGIFY",
	OpTry:             "TRY",
	OpLeave:           "LEAVE",
	OpEndFinally:      "END_FINALLY",
	OpRethrow:         "RETHROW",
	OpThrow:           "THROW",
	OpLoadToken:       "LOAD_TOKEN",
	OpHalt:            "HALT",
}

// String returns an opcode's disassembly mnemonic.
func (op OpCode) String() string {
	if int(op) < len(OpCodeNames) && OpCodeNames[op] != "" {
		return OpCodeNames[op]
	}
	return "UNKNOWN"
}

// Instruction is a single fixed-width bytecode instruction.
// Format: [8-bit opcode][8-bit A][16-bit B].
type Instruction uint32

// MakeInstruction builds an instruction from an opcode and its A/B operands.
func MakeInstruction(op OpCode, a byte, b uint16) Instruction {
	return Instruction(uint32(op) | uint32(a)<<8 | uint32(b)<<16)
}

// MakeSimpleInstruction builds a zero-operand instruction.
func MakeSimpleInstruction(op OpCode) Instruction {
	return Instruction(op)
}

// MakeInstructionABC builds the rare three-byte-operand variant.
func MakeInstructionABC(op OpCode, a, b, c byte) Instruction {
	return Instruction(uint32(op) | uint32(a)<<8 | uint32(b)<<16 | uint32(c)<<24)
}

// OpCode returns the instruction's opcode.
func (inst Instruction) OpCode() OpCode { return OpCode(inst & 0xFF) }

// A returns the 8-bit A operand.
func (inst Instruction) A() byte { return byte((inst >> 8) & 0xFF) }

// B returns the 16-bit B operand.
func (inst Instruction) B() uint16 { return uint16((inst >> 16) & 0xFFFF) }

// SignedB returns B reinterpreted as a signed 16-bit value, for relative
// jump offsets.
func (inst Instruction) SignedB() int16 { return int16(inst.B()) }

// C returns the third byte operand of the ABC variant.
func (inst Instruction) C() byte { return byte((inst >> 24) & 0xFF) }

// String renders an instruction's mnemonic for disassembly.
func (inst Instruction) String() string { return inst.OpCode().String() }
