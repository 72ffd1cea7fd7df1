package async

import "github.com/sharpts-lang/core/internal/ast"

// Analysis is the output of the Await-Point Analyzer (C3): per spec §4.1,
// the suspension count and the set of variables that must live in the
// state-machine record rather than an ordinary MoveNext local slot.
type Analysis struct {
	// SuspensionCount is the number of Await/Yield nodes found, which also
	// equals the number of resume states MoveNext must dispatch to.
	SuspensionCount int

	// Hoisted is the set of variable names (by declared/bound identifier)
	// that must be hoisted into state-machine fields: formal parameters
	// (always), plus any name with a use or definition before a suspension
	// and a use after one (or vice versa).
	Hoisted map[string]bool

	// order preserves suspension-node visitation order for Deterministic
	// re-runs and for the SuspensionCount invariant (spec §8): same AST in,
	// same number out.
	order []ast.Node
}

// occurrence records where (relative to the suspension sequence) a name was
// defined or used: the number of suspensions already seen at its earliest
// and at its latest occurrence.
type occurrence struct {
	first int
	last  int
}

// Analyze runs C3 over an async/generator function's parameters and body.
// It assigns monotonically increasing State numbers (starting at 0) to each
// Await/Yield node in source order, and returns the hoisting decision for
// every name referenced in body.
func Analyze(params []*ast.Param, body *ast.Block) *Analysis {
	a := &Analysis{Hoisted: map[string]bool{}}

	occurrences := map[string]*occurrence{}
	suspensionsSeen := 0

	record := func(name string) {
		occ, ok := occurrences[name]
		if !ok {
			occurrences[name] = &occurrence{first: suspensionsSeen, last: suspensionsSeen}
			return
		}
		occ.last = suspensionsSeen
	}

	Walk(body, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.Await:
			n.State = suspensionsSeen
			a.order = append(a.order, node)
			suspensionsSeen++
			a.SuspensionCount++
			// Descent stops here; the names inside the awaited expression
			// are recorded by the second walk below, at the final
			// suspension count, which can only widen the hoisted set.
			return false
		case *ast.Yield:
			n.State = suspensionsSeen
			a.order = append(a.order, node)
			suspensionsSeen++
			a.SuspensionCount++
			return false
		case *ast.Variable:
			record(n.Name)
		case *ast.Identifier:
			record(n.Name)
		case *ast.Assign:
			if v, ok := n.Target.(*ast.Variable); ok {
				record(v.Name)
			}
		case *ast.CompoundAssign:
			if v, ok := n.Target.(*ast.Variable); ok {
				record(v.Name)
			}
		case *ast.LogicalAssign:
			if v, ok := n.Target.(*ast.Variable); ok {
				record(v.Name)
			}
		case *ast.Var:
			for _, name := range n.Names {
				record(name.Name)
			}
		}
		return true
	})

	// Await/Yield carry a nested evaluatable (their Value) that must still
	// be walked for variable occurrences — do it explicitly since the
	// visitor above short-circuits descent to keep state assignment exactly
	// at the suspension node itself.
	Walk(body, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.Await:
			Walk(n.Value, func(inner ast.Node) bool {
				switch v := inner.(type) {
				case *ast.Variable:
					record(v.Name)
				case *ast.Identifier:
					record(v.Name)
				}
				return true
			})
		case *ast.Yield:
			if n.Value != nil {
				Walk(n.Value, func(inner ast.Node) bool {
					switch v := inner.(type) {
					case *ast.Variable:
						record(v.Name)
					case *ast.Identifier:
						record(v.Name)
					}
					return true
				})
			}
		}
		return true
	})

	for name, occ := range occurrences {
		if occ.first < occ.last {
			a.Hoisted[name] = true
		}
	}

	// Formal parameters are always hoisted (spec §4.1).
	for _, p := range params {
		a.Hoisted[p.Name.Name] = true
	}

	return a
}

// IsHoisted reports whether name must live in a state-machine field.
func (a *Analysis) IsHoisted(name string) bool {
	return a.Hoisted[name]
}
