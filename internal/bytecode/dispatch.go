package bytecode

import (
	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/types"
)

// hostStatics are the host-type namespaces whose static members (dispatch
// rule 2) route straight to a runtime helper named "<Host>.<member>".
var hostStatics = map[string]bool{
	"Math": true, "JSON": true, "Object": true, "Array": true,
	"Number": true, "Promise": true, "Symbol": true,
}

// builtinModules are the Node-style module namespaces rule 3 recognizes.
var builtinModules = map[string]bool{
	"fs": true, "path": true, "child_process": true, "os": true, "url": true,
}

var stringMethods = map[string]bool{
	"charAt": true, "charCodeAt": true, "slice": true, "substring": true,
	"split": true, "toUpperCase": true, "toLowerCase": true, "trim": true,
	"padStart": true, "padEnd": true, "repeat": true, "includes": true,
	"indexOf": true, "lastIndexOf": true, "concat": true, "replace": true,
	"replaceAll": true, "startsWith": true, "endsWith": true,
}

var arrayMethods = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true, "slice": true,
	"splice": true, "concat": true, "includes": true, "indexOf": true,
	"lastIndexOf": true, "join": true, "map": true, "filter": true,
	"reduce": true, "reduceRight": true, "forEach": true, "find": true,
	"findIndex": true, "some": true, "every": true, "sort": true,
	"reverse": true, "flat": true, "flatMap": true, "fill": true, "at": true,
}

var mapMethods = map[string]bool{
	"get": true, "set": true, "has": true, "delete": true, "clear": true,
	"keys": true, "values": true, "entries": true, "forEach": true,
}

var setMethods = map[string]bool{
	"add": true, "has": true, "delete": true, "clear": true,
	"keys": true, "values": true, "entries": true, "forEach": true,
}

// emitCall is C8's 11-rule dispatch registry (spec §4.5): at every call
// expression, the first matching rule wins.
func (e *Emitter) emitCall(n *ast.Call) {
	line := n.Pos().Line

	if v, ok := n.Callee.(*ast.Variable); ok && v.Name == "console.log" {
		e.emitArgs(n.Arguments, line)
		e.emitHelperCall("ConsoleLog", len(n.Arguments), line)
		return
	}

	if get, ok := n.Callee.(*ast.Get); ok {
		if e.emitMethodCall(n, get, line) {
			return
		}
	}

	e.emitGenericCall(n, line) // rules 10-11
}

// emitMethodCall tries dispatch rules 1-9, all of which apply only to a
// `receiver.method(...)`-shaped call. Returns false when nothing matches,
// leaving the caller to fall back to rules 10-11.
func (e *Emitter) emitMethodCall(n *ast.Call, get *ast.Get, line int) bool {
	if recv, ok := get.Receiver.(*ast.Variable); ok {
		// Rule 1: console.log, Get-shaped form.
		if recv.Name == "console" && get.Name == "log" {
			e.emitArgs(n.Arguments, line)
			e.emitHelperCall("ConsoleLog", len(n.Arguments), line)
			return true
		}
		// Rule 2: host-type static members.
		if hostStatics[recv.Name] {
			e.emitArgs(n.Arguments, line)
			e.emitHelperCall(recv.Name+"."+get.Name, len(n.Arguments), line)
			return true
		}
		// Rule 3: built-in module methods.
		if builtinModules[recv.Name] {
			e.emitArgs(n.Arguments, line)
			e.emitHelperCall(recv.Name+"."+get.Name, len(n.Arguments), line)
			return true
		}
	}

	// Rule 4: class static methods, receiver statically a class reference.
	if cls, ok := get.Receiver.GetType().(*types.Class); ok {
		if _, ok := cls.StaticMethod(get.Name); ok {
			e.emitArgs(n.Arguments, line)
			tok := e.chunk.AddToken(MetadataToken{Kind: TokenMethod, Owner: cls.Name(), Name: get.Name})
			e.chunk.Write(OpCallStatic, byte(len(n.Arguments)), uint16(tok), line)
			e.setStackType(StackUnknown)
			return true
		}
	}

	// Rule 5: Promise instance methods, any receiver.
	if helper, ok := map[string]string{"then": "PromiseThen", "catch": "PromiseCatch", "finally": "PromiseFinally"}[get.Name]; ok {
		e.emitExpr(get.Receiver)
		e.EnsureBoxed(line)
		e.emitArgs(n.Arguments, line)
		e.emitHelperCall(helper, 1+len(n.Arguments), line)
		return true
	}

	// Rule 6: direct virtual dispatch.
	if inst, ok := get.Receiver.GetType().(*types.Instance); ok {
		if _, ok := inst.Class.Method(get.Name); ok {
			e.emitExpr(get.Receiver)
			e.EnsureBoxed(line)
			for _, arg := range n.Arguments {
				e.emitSpreadableArg(arg, line)
			}
			tok := e.chunk.AddToken(MetadataToken{Kind: TokenMethod, Owner: inst.Class.Name(), Name: get.Name})
			e.chunk.Write(OpCallVirtual, byte(len(n.Arguments)), uint16(tok), line)
			e.setStackType(StackUnknown)
			return true
		}
	}

	// Rules 7-9: built-in collection/string strategy dispatch.
	return e.emitStrategyCall(n, get, line)
}

// builtinKind classifies t as one of the strategy-registry variants the
// emitter has a method table for, or "" when t isn't one.
func builtinKind(t types.Type) string {
	if t == nil {
		return ""
	}
	switch t.(type) {
	case *types.Array:
		return "Array"
	case *types.Map:
		return "Map"
	case *types.Set:
		return "Set"
	}
	if t.Equals(types.StringT) {
		return "String"
	}
	return ""
}

func kindHasMethod(kind, name string) bool {
	switch kind {
	case "String":
		return stringMethods[name]
	case "Array":
		return arrayMethods[name]
	case "Map":
		return mapMethods[name]
	case "Set":
		return setMethods[name]
	default:
		return false
	}
}

// emitStrategyCall implements rules 7-9: type-directed member emission keyed
// on the lattice variant, the named fallback for a method unambiguously
// owned by one built-in type, and the isinst<string>-guarded runtime
// fallback when a union leaves more than one candidate (spec names
// slice/concat/includes/indexOf as the recurring ambiguous case, which is
// exactly the String/Array overlap this emitter resolves at runtime).
func (e *Emitter) emitStrategyCall(n *ast.Call, get *ast.Get, line int) bool {
	recvType := get.Receiver.GetType()

	if union, ok := recvType.(*types.Union); ok {
		var candidates []string
		for _, m := range union.Members {
			if k := builtinKind(m); k != "" && kindHasMethod(k, get.Name) {
				candidates = append(candidates, k)
			}
		}
		switch len(candidates) {
		case 0:
			return false
		case 1:
			e.emitKindCall(n, get, candidates[0], line)
			return true
		default:
			e.emitAmbiguousCall(n, get, line)
			return true
		}
	}

	if kind := builtinKind(recvType); kind != "" {
		if kindHasMethod(kind, get.Name) {
			e.emitKindCall(n, get, kind, line)
			return true
		}
		return false
	}

	// Rule 8: receiver type unknown (lost to Any/nil) — fall back to the
	// method name alone when it names exactly one built-in type.
	owners := 0
	var onlyKind string
	for _, kind := range []string{"String", "Array", "Map", "Set"} {
		if kindHasMethod(kind, get.Name) {
			owners++
			onlyKind = kind
		}
	}
	if owners == 1 {
		e.emitKindCall(n, get, onlyKind, line)
		return true
	}
	if owners > 1 {
		// Rule 9: the name is ambiguous and the type is unknown too — same
		// runtime guard as the union case above.
		e.emitAmbiguousCall(n, get, line)
		return true
	}
	return false
}

func (e *Emitter) emitKindCall(n *ast.Call, get *ast.Get, kind string, line int) {
	e.emitExpr(get.Receiver)
	e.EnsureBoxed(line)
	e.emitArgs(n.Arguments, line)
	e.emitHelperCall(kind+"."+get.Name, 1+len(n.Arguments), line)
}

// emitAmbiguousCall is rule 9: receiver and args are pre-evaluated into
// temporaries (they must only be computed once), then an isinst<string>
// check picks between the string and array runtime variants.
func (e *Emitter) emitAmbiguousCall(n *ast.Call, get *ast.Get, line int) {
	e.emitExpr(get.Receiver)
	e.EnsureBoxed(line)
	recv := e.spillTemp(line)

	argSlots := make([]int, len(n.Arguments))
	for i, arg := range n.Arguments {
		e.emitExpr(arg)
		e.EnsureBoxed(line)
		argSlots[i] = e.spillTemp(line)
	}

	stringTok := e.chunk.AddToken(MetadataToken{Kind: TokenType, Name: "string"})
	e.chunk.Write(OpLoadLocal, 0, uint16(recv), line)
	e.chunk.Write(OpIsInst, 0, uint16(stringTok), line)
	elseJump := e.chunk.Write(OpJumpIfFalse, 0, 0, line)

	e.chunk.Write(OpLoadLocal, 0, uint16(recv), line)
	for _, slot := range argSlots {
		e.chunk.Write(OpLoadLocal, 0, uint16(slot), line)
	}
	e.emitHelperCall("String."+get.Name, 1+len(argSlots), line)
	endJump := e.chunk.Write(OpJump, 0, 0, line)

	e.chunk.PatchJumpTo(elseJump, e.chunk.InstructionCount())
	e.chunk.Write(OpLoadLocal, 0, uint16(recv), line)
	for _, slot := range argSlots {
		e.chunk.Write(OpLoadLocal, 0, uint16(slot), line)
	}
	e.emitHelperCall("Array."+get.Name, 1+len(argSlots), line)

	e.chunk.PatchJumpTo(endJump, e.chunk.InstructionCount())
	e.setStackType(StackUnknown)
}

// emitGenericCall is dispatch rules 10-11: a direct call to a compiled
// function known by name, or — for anything else, including a call through
// a local variable holding a closure — the generic InvokeValue fallback.
// Inside an async body every operand is pre-committed to a temporary first,
// since an Await nested in a later argument must not disturb an
// already-evaluated earlier one (spec §4.5's "interleaved suspensions").
func (e *Emitter) emitGenericCall(n *ast.Call, line int) {
	if v, ok := n.Callee.(*ast.Variable); ok && !e.isHoisted(v.Name) && e.resolveLocal(v.Name) < 0 {
		// Rule 10: a bare name that isn't a local/hoisted binding is assumed
		// to name a top-level compiled function.
		for _, arg := range n.Arguments {
			e.emitSpreadableArg(arg, line)
		}
		tok := e.chunk.AddToken(MetadataToken{Kind: TokenMethod, Name: v.Name})
		e.chunk.Write(OpCallDirect, byte(len(n.Arguments)), uint16(tok), line)
		e.setStackType(StackUnknown)
		return
	}

	// Rule 11: generic indirect invocation.
	e.emitExpr(n.Callee)
	e.EnsureBoxed(line)
	callee := e.spillTemp(line)

	argSlots := make([]int, len(n.Arguments))
	for i, arg := range n.Arguments {
		e.emitExpr(arg)
		e.EnsureBoxed(line)
		argSlots[i] = e.spillTemp(line)
	}
	for _, slot := range argSlots {
		e.chunk.Write(OpLoadLocal, 0, uint16(slot), line)
	}
	e.chunk.Write(OpBuildArray, byte(len(argSlots)), 0, line)
	args := e.spillTemp(line)

	e.chunk.Write(OpLoadLocal, 0, uint16(callee), line)
	e.chunk.Write(OpLoadLocal, 0, uint16(args), line)
	e.emitHelperCall("InvokeValue", 2, line)
}

// emitArgs evaluates a call's argument list left-to-right, boxing each and
// expanding *ast.Spread entries, leaving them on the stack for a helper call
// that expects argc values already pushed.
func (e *Emitter) emitArgs(args []ast.Expression, line int) {
	for _, arg := range args {
		e.emitSpreadableArg(arg, line)
	}
}
