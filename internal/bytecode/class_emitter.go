package bytecode

import (
	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/decorator"
)

// ClassObject is a compiled class: its constructor, methods, accessors, and
// field-initializer bodies, plus the bookkeeping C8 rules 4 and 6 need
// (static-method/virtual-method lookup by name) and C7 needs (decorator
// application targets by name). Instance/static identity is otherwise fully
// erased at this ABI layer — the runtime resolves a "new C()"/"C.m()" site
// by the class/method name carried in its MetadataToken (spec §6).
type ClassObject struct {
	Name  string
	Super string // declared superclass name, "" if none

	Constructor *FunctionObject
	Methods     map[string]*FunctionObject
	StaticMethods map[string]*FunctionObject
	Getters     map[string]*FunctionObject
	Setters     map[string]*FunctionObject

	// FieldInit/StaticFieldInit run every instance/static field initializer
	// in declaration order; FieldInit is invoked once per `new`, ahead of
	// the constructor body, StaticFieldInit once at class-definition time.
	FieldInit       *FunctionObject
	StaticFieldInit *FunctionObject
}

// ClassValue wraps a compiled class for the constant pool — class values
// share KindObject with every other erased reference type (arrays, records,
// closures); the runtime tells them apart by the Go type behind Data, the
// same way it already must for a *FunctionObject under KindFunction.
func ClassValue(cls *ClassObject) Value {
	return Value{Kind: KindObject, Data: cls}
}

// emitClassDecl compiles a class declaration: its constructor and methods
// (C5/C6, via compileFunction so an async/generator method gets the same
// MoveNext treatment as a free function), its field initializers, and
// finally applies C7's decorator plan in the fixed five-phase order.
func (e *Emitter) emitClassDecl(n *ast.ClassDecl) {
	line := n.Pos().Line

	cls := &ClassObject{
		Name:          n.Name.Name,
		Methods:       map[string]*FunctionObject{},
		StaticMethods: map[string]*FunctionObject{},
		Getters:       map[string]*FunctionObject{},
		Setters:       map[string]*FunctionObject{},
	}
	if n.SuperClass != nil {
		cls.Super = calleeName(n.SuperClass)
	}

	var instanceFieldInits []ast.Statement
	var staticFieldInits []ast.Statement
	for _, f := range n.Fields() {
		init := f.Initializer
		if init == nil {
			init = &ast.Literal{Kind: ast.LiteralUndefined}
		}
		stmt := &ast.ExpressionStmt{Token: f.Token, Expression: &ast.Set{
			Token: f.Token, Receiver: &ast.This{Token: f.Token}, Name: f.Name.Name, Value: init,
		}}
		if f.Static {
			staticFieldInits = append(staticFieldInits, stmt)
		} else {
			instanceFieldInits = append(instanceFieldInits, stmt)
		}
	}
	cls.FieldInit = e.compileSyncFunction(n.Name.Name+".$init", nil, &ast.Block{Statements: instanceFieldInits}, true)
	cls.StaticFieldInit = e.compileSyncFunction(n.Name.Name+".$staticInit", nil, &ast.Block{Statements: staticFieldInits}, true)

	for _, fn := range n.Methods() {
		obj := e.compileFunction(fn, true)
		switch fn.Kind {
		case ast.MethodConstructor:
			cls.Constructor = obj
		case ast.MethodStatic:
			cls.StaticMethods[fn.Name.Name] = obj
		default: // MethodPlain, MethodAbstract (body, if any, still compiled)
			if fn.Name != nil {
				cls.Methods[fn.Name.Name] = obj
			}
		}
	}

	for _, a := range n.Accessors() {
		var params []*ast.Param
		if a.Kind == ast.AccessorSet {
			params = []*ast.Param{a.Param}
		}
		obj := e.compileSyncFunction(a.Name.Name, params, a.Body, true)
		if a.Kind == ast.AccessorGet {
			cls.Getters[a.Name.Name] = obj
		} else {
			cls.Setters[a.Name.Name] = obj
		}
	}

	idx := e.chunk.AddConstant(ClassValue(cls))
	e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
	classSlot := e.spillTemp(line)

	e.chunk.Write(OpLoadLocal, 0, uint16(classSlot), line)
	e.emitHelperCall("RunStaticFieldInit", 1, line)
	e.chunk.WriteSimple(OpPop, line)

	mode := decorator.Legacy
	if n.DecoratorMode == ast.DecoratorStage3 {
		mode = decorator.Stage3
	}
	for _, step := range decorator.Plan(mode, n) {
		e.emitDecoratorStep(mode, step, classSlot, line)
	}

	e.chunk.Write(OpLoadLocal, 0, uint16(classSlot), line)
	if e.isHoisted(n.Name.Name) {
		e.emitStoreVariable(n.Name.Name, line)
	} else {
		localIdx := e.declareLocal(n.Name.Name, "")
		e.chunk.Write(OpStoreLocal, 0, uint16(localIdx), line)
	}
}

// emitDecoratorStep compiles one C7 Plan entry: evaluate the decorator
// expression, invoke it with the arguments its mode/kind combination
// dictates, and hand the result to a runtime Apply* helper that knows how
// to fold it back into the class (method replacement, field initializer
// transform, or — for a class decorator — a whole new class identity).
// What the decorator evaluates to is only known at runtime, so the
// replace-if-returned behavior spec §4.6 describes is the Apply* helper's
// job, not something this compiler can special-case on the value's shape.
func (e *Emitter) emitDecoratorStep(mode decorator.Mode, step decorator.Step, classSlot, line int) {
	e.emitExpr(step.Decorator)
	e.EnsureBoxed(line)
	decoratorVal := e.spillTemp(line)

	switch step.Kind {
	case decorator.StepParameter:
		keySlot := e.constSlot(StringValue(step.Target), line)
		idxSlot := e.constSlot(NumberValue(float64(step.ParamIndex)), line)
		e.emitInvoke(decoratorVal, []int{classSlot, keySlot, idxSlot}, line)
		e.chunk.WriteSimple(OpPop, line)

	case decorator.StepMethod, decorator.StepAccessor:
		keySlot := e.constSlot(StringValue(step.Target), line)
		var argSlots []int
		if mode == decorator.Legacy {
			argSlots = []int{classSlot, keySlot, classSlot} // descriptor: runtime builds it from (class, key)
		} else {
			ctx := e.buildContextObject(step.Kind.String(), step.Target, line)
			argSlots = []int{classSlot, ctx}
		}
		e.emitInvoke(decoratorVal, argSlots, line)
		result := e.spillTemp(line)
		helper := "ApplyMethodDecorator"
		if step.Kind == decorator.StepAccessor {
			helper = "ApplyAccessorDecorator"
		}
		e.chunk.Write(OpLoadLocal, 0, uint16(classSlot), line)
		e.chunk.Write(OpLoadLocal, 0, uint16(keySlot), line)
		e.chunk.Write(OpLoadLocal, 0, uint16(result), line)
		e.emitHelperCall(helper, 3, line)
		e.chunk.WriteSimple(OpPop, line)

	case decorator.StepField:
		keySlot := e.constSlot(StringValue(step.Target), line)
		var argSlots []int
		if mode == decorator.Legacy {
			argSlots = []int{classSlot, keySlot}
		} else {
			ctx := e.buildContextObject("field", step.Target, line)
			argSlots = []int{classSlot, ctx}
		}
		e.emitInvoke(decoratorVal, argSlots, line)
		result := e.spillTemp(line)
		e.chunk.Write(OpLoadLocal, 0, uint16(classSlot), line)
		e.chunk.Write(OpLoadLocal, 0, uint16(keySlot), line)
		e.chunk.Write(OpLoadLocal, 0, uint16(result), line)
		e.emitHelperCall("ApplyFieldDecorator", 3, line)
		e.chunk.WriteSimple(OpPop, line)

	case decorator.StepClass:
		var argSlots []int
		if mode == decorator.Legacy {
			argSlots = []int{classSlot}
		} else {
			ctx := e.buildContextObject("class", "", line)
			argSlots = []int{classSlot, ctx}
		}
		e.emitInvoke(decoratorVal, argSlots, line)
		result := e.spillTemp(line)
		e.chunk.Write(OpLoadLocal, 0, uint16(classSlot), line)
		e.chunk.Write(OpLoadLocal, 0, uint16(result), line)
		e.emitHelperCall("ApplyClassDecorator", 2, line)
		e.chunk.Write(OpStoreLocal, 0, uint16(classSlot), line)
	}
}

// constSlot interns v and spills it into a fresh temporary, for building a
// decorator-call argument list one slot at a time.
func (e *Emitter) constSlot(v Value, line int) int {
	idx := e.chunk.AddConstant(v)
	e.chunk.Write(OpLoadConst, 0, uint16(idx), line)
	return e.spillTemp(line)
}

// buildContextObject builds the Stage3 `{kind, name}` context argument.
func (e *Emitter) buildContextObject(kind, name string, line int) int {
	kindKey := e.chunk.AddConstant(StringValue("kind"))
	e.chunk.Write(OpLoadConst, 0, uint16(kindKey), line)
	kindVal := e.chunk.AddConstant(StringValue(kind))
	e.chunk.Write(OpLoadConst, 0, uint16(kindVal), line)
	nameKey := e.chunk.AddConstant(StringValue("name"))
	e.chunk.Write(OpLoadConst, 0, uint16(nameKey), line)
	nameVal := e.chunk.AddConstant(StringValue(name))
	e.chunk.Write(OpLoadConst, 0, uint16(nameVal), line)
	e.chunk.Write(OpBuildObject, 2, 0, line)
	return e.spillTemp(line)
}

// emitInvoke calls a decorator value (already in calleeSlot) with the given
// argument slots via the generic InvokeValue fallback (C8 rule 11), leaving
// its result on top of stack.
func (e *Emitter) emitInvoke(calleeSlot int, argSlots []int, line int) {
	e.chunk.Write(OpLoadLocal, 0, uint16(calleeSlot), line)
	for _, s := range argSlots {
		e.chunk.Write(OpLoadLocal, 0, uint16(s), line)
	}
	e.chunk.Write(OpBuildArray, byte(len(argSlots)), 0, line)
	e.emitHelperCall("InvokeValue", 2, line)
}
