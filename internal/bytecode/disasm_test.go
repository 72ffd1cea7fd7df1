package bytecode

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/sharpts-lang/core/internal/ast"
)

// TestDisassembleConsoleLogCall snapshots the disassembly of a small,
// representative chunk (a console.log dispatch) so a
// future change to instruction encoding or dispatch shape shows up as a
// visible diff rather than a silent behavior change.
func TestDisassembleConsoleLogCall(t *testing.T) {
	e := newTestEmitter()
	call := &ast.Call{Callee: &ast.Variable{Name: "console.log"}, Arguments: []ast.Expression{testStr("hello")}}
	e.emitCall(call)
	e.chunk.WriteSimple(OpPop, 1)

	var buf bytes.Buffer
	NewDisassembler(e.chunk, &buf).Disassemble()

	snaps.MatchSnapshot(t, buf.String())
}
