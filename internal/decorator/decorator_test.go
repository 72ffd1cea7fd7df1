package decorator

import (
	"testing"

	"github.com/sharpts-lang/core/internal/ast"
)

func name(n string) *ast.Identifier { return &ast.Identifier{Name: n} }

func marker(n string) ast.Expression { return &ast.Variable{Name: n} }

// class Greeter {
//   @d1 m1(@p1 x) {}
//   @d2 m2() {}
//   @f1 field = 1;
//   @a1 get g() { return 1 }
// }
// @c1 @c2
func buildClass(mode Mode) *ast.ClassDecl {
	m1 := &ast.FunctionDecl{
		Name:       name("m1"),
		Decorators: []ast.Expression{marker("d1")},
		Params: []*ast.Param{
			{Name: name("x"), Decorators: []ast.Expression{marker("p1")}},
		},
		Body: &ast.Block{},
	}
	m2 := &ast.FunctionDecl{
		Name:       name("m2"),
		Decorators: []ast.Expression{marker("d2")},
		Body:       &ast.Block{},
	}
	field := &ast.FieldDecl{
		Name:       name("field"),
		Decorators: []ast.Expression{marker("f1")},
	}
	getter := &ast.AccessorDecl{
		Name:       name("g"),
		Kind:       ast.AccessorGet,
		Decorators: []ast.Expression{marker("a1")},
		Body:       &ast.Block{},
	}
	return &ast.ClassDecl{
		Name:          name("Greeter"),
		Members:       []ast.Statement{m1, m2, field, getter},
		Decorators:    []ast.Expression{marker("c1"), marker("c2")},
		DecoratorMode: 0, // unused: Plan takes mode as a separate argument
	}
}

func TestPlanLegacyOrdering(t *testing.T) {
	class := buildClass(Legacy)
	steps := Plan(Legacy, class)

	var kinds []StepKind
	for _, s := range steps {
		kinds = append(kinds, s.Kind)
	}
	want := []StepKind{
		StepParameter, // m1's @p1, the only parameter decorator
		StepMethod,    // m2 first (bottom-to-top), then m1
		StepMethod,
		StepAccessor,
		StepField,
		StepClass, // @c2 before @c1: right-to-left
		StepClass,
	}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d: %v", len(steps), len(want), kinds)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("step %d kind = %v, want %v", i, kinds[i], k)
		}
	}

	// method decorators run bottom-to-top: m2 before m1.
	if steps[1].Target != "m2" || steps[2].Target != "m1" {
		t.Errorf("method order = %q, %q; want m2, m1", steps[1].Target, steps[2].Target)
	}

	// class decorators apply right-to-left: c2's Step (Decorator == marker
	// for c2) must precede c1's.
	c1 := class.Decorators[0]
	c2 := class.Decorators[1]
	if steps[5].Decorator != c2 || steps[6].Decorator != c1 {
		t.Error("class decorators should be planned right-to-left (c2 then c1)")
	}
}

func TestPlanStage3SkipsParameterDecorators(t *testing.T) {
	class := buildClass(Stage3)
	steps := Plan(Stage3, class)
	for _, s := range steps {
		if s.Kind == StepParameter {
			t.Fatal("Stage3 mode must never emit a StepParameter step")
		}
	}
}

func TestStepKindString(t *testing.T) {
	cases := map[StepKind]string{
		StepParameter: "parameter",
		StepMethod:    "method",
		StepAccessor:  "accessor",
		StepField:     "field",
		StepClass:     "class",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", k, got, want)
		}
	}
}
