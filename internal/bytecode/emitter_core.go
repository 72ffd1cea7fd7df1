package bytecode

import (
	"fmt"

	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/async"
	"github.com/sharpts-lang/core/internal/errors"
)

// StackType is the single-symbol lattice the emitter tracks for the value
// currently on top of the operand stack (spec §4.4). Every emission
// primitive updates it; EnsureBoxed consults it to decide whether a box
// conversion is needed.
type StackType int

const (
	StackUnknown StackType = iota
	StackDouble
	StackBoolean
	StackString
	StackNull
)

func (t StackType) String() string {
	switch t {
	case StackDouble:
		return "Double"
	case StackBoolean:
		return "Boolean"
	case StackString:
		return "String"
	case StackNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// scope is one lexical block's local-variable bindings during emission.
type scope struct {
	names map[string]int
}

func newScope() *scope { return &scope{names: map[string]int{}} }

// loopLabel is one entry of the loop-label stack (spec §3): a stack of
// (break_label, continue_label, optional_name) maintained while emitting
// nested loops, so break/continue can resolve their target by walking it.
type loopLabel struct {
	name           string
	continueTarget int   // instruction offset `continue` jumps to
	breakPatches   []int // OpJump offsets whose target is patched once the loop's end is known
	isLoop         bool  // false for a labeled statement whose body is not a loop: break-only target
}

// Emitter lowers a typed AST into a Chunk. C5 (MoveNext emission), C6
// (expression/statement emission with stack-type tracking) and C8 (call
// dispatch) all share this state, the way the teacher keeps scope and
// field-table bookkeeping together in one file.
type Emitter struct {
	chunk     *Chunk
	stackType StackType
	scopes    []*scope
	loops     []*loopLabel
	errs      []*errors.CompilerError
	source    string
	file      string

	// Set only while emitting the MoveNext body of an async/generator
	// function (C5); nil in an ordinary synchronous function.
	machine         *async.StateMachine
	analysis        *async.Analysis
	caughtException *async.Field // current complex-try `caught_exception` slot
	pendingReturn   *async.Field // `pending_return` slot, only when the finally itself awaits
	returnValue     *async.Field // `return_value` slot paired with pendingReturn: the value stashed across the awaiting finally
	pendingReturnTo *[]int       // current complex-try's leaveJumps slice; a `return` joins it so it converges at the same after-finally point as every other exit
	resumeLabels    []int        // instruction offsets for Rn, indexed by suspension state
	dispatchJumps   []int        // MoveNext's switch(state) jump-if-true offsets, indexed by suspension state

	// pendingSetResultJumps collects every explicit `return`'s forward
	// jump inside a MoveNext body (emitMoveNextReturn), patched to the
	// SET_RESULT label once emitMoveNextBody has emitted the whole body.
	pendingSetResultJumps []int

	// tryRegionSeq numbers successive complex try/catch statements within
	// one MoveNext body, keeping caught_exception_N/pending_return_N field
	// names stable across recompiles of the same source (spec §8).
	tryRegionSeq int
}

// NewEmitter creates an emitter for a fresh chunk named name. source/file
// are carried purely for diagnostic formatting (spec §7).
func NewEmitter(name, source, file string) *Emitter {
	return &Emitter{
		chunk:  NewChunk(name),
		scopes: []*scope{newScope()},
		source: source,
		file:   file,
	}
}

// Chunk returns the chunk built so far.
func (e *Emitter) Chunk() *Chunk { return e.chunk }

// Errors returns every compile error collected during emission.
func (e *Emitter) Errors() []*errors.CompilerError { return e.errs }

func (e *Emitter) error(pos ast.Position, format string, args ...any) {
	e.errs = append(e.errs, errors.CompileError(pos, fmt.Sprintf(format, args...), e.source, e.file))
}

// StackType reports the emitter's current belief about the top-of-stack
// value's type.
func (e *Emitter) StackType() StackType { return e.stackType }

func (e *Emitter) setStackType(t StackType) { e.stackType = t }

// EnsureBoxed emits a box conversion when the lattice says the top of
// stack is a value type (Double/Boolean); for reference-like types
// (String, Null, Unknown — already erased-object-shaped at runtime) it is
// a no-op. Required whenever a value crosses into an erased slot: a
// field, an argument, an array element, or a return (spec §4.4).
func (e *Emitter) EnsureBoxed(line int) {
	switch e.stackType {
	case StackDouble, StackBoolean:
		e.chunk.WriteSimple(OpBox, line)
		e.setStackType(StackUnknown)
	}
}

// storeField stores the value on top of the operand stack into a
// state-machine field named name (this.<name> = value), the same
// this/swap/store_field sequence every other field write in this package
// uses.
func (e *Emitter) storeField(name string, line int) {
	tok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: name})
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.WriteSimple(OpSwap, line)
	e.chunk.Write(OpStoreField, 0, uint16(tok), line)
}

// loadField pushes the state-machine field named name onto the stack.
func (e *Emitter) loadField(name string, line int) {
	tok := e.chunk.AddToken(MetadataToken{Kind: TokenField, Name: name})
	e.chunk.WriteSimple(OpLoadThis, line)
	e.chunk.Write(OpLoadField, 0, uint16(tok), line)
}

// pushScope opens a new lexical block.
func (e *Emitter) pushScope() { e.scopes = append(e.scopes, newScope()) }

// popScope closes the innermost lexical block.
func (e *Emitter) popScope() {
	if len(e.scopes) > 1 {
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

// declareLocal reserves a local slot for name in the innermost scope and
// returns its index. Hoisted names inside an async/generator body never
// reach here — they resolve through the state-machine field map instead
// (see emitLoadVariable/emitStoreVariable in expr_emitter.go).
func (e *Emitter) declareLocal(name, typeName string) int {
	idx := e.chunk.AddLocal(name, typeName)
	e.scopes[len(e.scopes)-1].names[name] = idx
	return idx
}

// resolveLocal looks up name from the innermost scope outward, returning
// its slot index, or -1 if the name is not a local in scope (it is then
// assumed to be a global).
func (e *Emitter) resolveLocal(name string) int {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if idx, ok := e.scopes[i].names[name]; ok {
			return idx
		}
	}
	return -1
}

// isHoisted reports whether name addresses a state-machine field rather
// than an ordinary local, which is only possible while emitting an
// async/generator body.
func (e *Emitter) isHoisted(name string) bool {
	return e.machine != nil && e.analysis != nil && e.analysis.IsHoisted(name)
}

// pushLoop opens a new loop-label stack entry (spec §3). continueTarget is
// the instruction offset `continue` should jump to (the loop's
// re-test/increment point); the break target is filled in once the loop's
// exit is known, via patchLoopBreaks.
func (e *Emitter) pushLoop(name string, continueTarget int) *loopLabel {
	l := &loopLabel{name: name, continueTarget: continueTarget, isLoop: true}
	e.loops = append(e.loops, l)
	return l
}

// pushBreakOnlyLabel opens a label-stack entry for a labeled statement
// whose body is not a loop — only `break` may target it (spec §4.3); a
// `continue` naming it is rejected (Open Question #3, DESIGN.md).
func (e *Emitter) pushBreakOnlyLabel(name string) *loopLabel {
	l := &loopLabel{name: name, isLoop: false}
	e.loops = append(e.loops, l)
	return l
}

// popLoop closes the innermost loop and patches every break recorded
// against it to target the current end-of-loop offset.
func (e *Emitter) popLoop() {
	if len(e.loops) == 0 {
		return
	}
	l := e.loops[len(e.loops)-1]
	e.loops = e.loops[:len(e.loops)-1]
	end := e.chunk.InstructionCount()
	for _, offset := range l.breakPatches {
		e.chunk.PatchJumpTo(offset, end)
	}
}

// findLoop walks the loop-label stack from the top for a break/continue
// target: an unlabeled lookup returns the top (emitContinue then skips
// break-only entries); labeled forms
// walk down until the name matches (spec §4.3 "Control flow").
func (e *Emitter) findLoop(label string) *loopLabel {
	if label == "" {
		if len(e.loops) == 0 {
			return nil
		}
		return e.loops[len(e.loops)-1]
	}
	for i := len(e.loops) - 1; i >= 0; i-- {
		if e.loops[i].name == label {
			return e.loops[i]
		}
	}
	return nil
}

// emitBreak resolves a break statement's target loop and records a patch
// site. An unlabeled break inside a `switch` targets the break-only entry
// emitSwitch pushes; an unlabeled break with an empty stack emits nothing
// and reports no error.
func (e *Emitter) emitBreak(pos ast.Position, label string, line int) {
	l := e.findLoop(label)
	if l == nil {
		if label != "" {
			e.error(pos, "no enclosing loop or labeled statement named %q", label)
		}
		return
	}
	offset := e.chunk.Write(OpJump, 0, 0, line)
	l.breakPatches = append(l.breakPatches, offset)
}

// emitContinue resolves a continue statement's target loop and jumps to
// its continue point directly (no patch needed: the continue target is
// always already known when continue is emitted, since it lies inside
// the loop body being compiled).
func (e *Emitter) emitContinue(pos ast.Position, label string, line int) {
	l := e.findLoop(label)
	if label == "" {
		// An unlabeled continue passes over break-only entries (a switch)
		// to the nearest enclosing loop.
		l = nil
		for i := len(e.loops) - 1; i >= 0 && l == nil; i-- {
			if e.loops[i].isLoop {
				l = e.loops[i]
			}
		}
	}
	if l == nil {
		e.error(pos, "continue is only valid inside a loop, or naming an enclosing loop label")
		return
	}
	if !l.isLoop {
		e.error(pos, "labeled statement %q does not label a loop; continue may not target it", label)
		return
	}
	e.chunk.Write(OpJump, 0, uint16(l.continueTarget), line)
}
