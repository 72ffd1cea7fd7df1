// Package decorator sequences decorator application for a class
// declaration (spec §4.6, C7): the fixed five-phase order the emitter must
// call decorator expressions in, independent of which calling convention
// (Legacy or Stage3) each one uses. It does not itself evaluate anything —
// composing with C6 at class emission (internal/bytecode/class_emitter.go)
// means C6 walks a Plan and emits the actual call bytecode.
package decorator

import "github.com/sharpts-lang/core/internal/ast"

// Mode selects a decorator's calling convention.
type Mode int

const (
	// Legacy is the pre-standard `(target, key, descriptor) => descriptor?`
	// form; only Legacy mode ever applies parameter decorators.
	Legacy Mode = iota
	// Stage3 is the `(value, context) => value?` form.
	Stage3
)

// StepKind names which class-member dimension a Step decorates.
type StepKind int

const (
	StepParameter StepKind = iota
	StepMethod
	StepAccessor
	StepField
	StepClass
)

func (k StepKind) String() string {
	switch k {
	case StepParameter:
		return "parameter"
	case StepMethod:
		return "method"
	case StepAccessor:
		return "accessor"
	case StepField:
		return "field"
	default:
		return "class"
	}
}

// Step is one decorator application the emitter must compile: call
// Decorator with the arguments Kind's convention dictates, targeting
// Target (a method/accessor/field name, empty for a class decorator).
type Step struct {
	Kind        StepKind
	Target      string
	ParamIndex  int // meaningful only when Kind == StepParameter
	Decorator   ast.Expression
	IsSetter    bool // meaningful only when Kind == StepAccessor
}

// Plan returns a class's decorators in application order (spec §4.6):
//  1. parameter decorators (Legacy only), inner-to-outer across parameters
//  2. method decorators, outer-to-inner within a method, bottom-to-top
//     across methods
//  3. accessor decorators, same order as methods
//  4. field decorators, bottom-to-top
//  5. class decorators, right-to-left
func Plan(mode Mode, class *ast.ClassDecl) []Step {
	var steps []Step

	if mode == Legacy {
		methods := class.Methods()
		for i := len(methods) - 1; i >= 0; i-- {
			fn := methods[i]
			for pi := len(fn.Params) - 1; pi >= 0; pi-- {
				p := fn.Params[pi]
				for _, d := range p.Decorators {
					steps = append(steps, Step{Kind: StepParameter, Target: methodName(fn), ParamIndex: pi, Decorator: d})
				}
			}
		}
	}

	methods := class.Methods()
	for i := len(methods) - 1; i >= 0; i-- {
		fn := methods[i]
		for _, d := range fn.Decorators {
			steps = append(steps, Step{Kind: StepMethod, Target: methodName(fn), Decorator: d})
		}
	}

	accessors := class.Accessors()
	for i := len(accessors) - 1; i >= 0; i-- {
		a := accessors[i]
		for _, d := range a.Decorators {
			steps = append(steps, Step{Kind: StepAccessor, Target: a.Name.Name, IsSetter: a.Kind == ast.AccessorSet, Decorator: d})
		}
	}

	fields := class.Fields()
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		for _, d := range f.Decorators {
			steps = append(steps, Step{Kind: StepField, Target: f.Name.Name, Decorator: d})
		}
	}

	for i := len(class.Decorators) - 1; i >= 0; i-- {
		steps = append(steps, Step{Kind: StepClass, Decorator: class.Decorators[i]})
	}

	return steps
}

func methodName(fn *ast.FunctionDecl) string {
	if fn.Kind == ast.MethodConstructor {
		return "constructor"
	}
	if fn.Name == nil {
		return ""
	}
	return fn.Name.Name
}
