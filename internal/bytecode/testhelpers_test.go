package bytecode

import "github.com/sharpts-lang/core/internal/ast"

func testIdent(n string) *ast.Identifier { return &ast.Identifier{Token: ast.Token{Lexeme: n}, Name: n} }

func testVar(n string) *ast.Variable { return &ast.Variable{Token: ast.Token{Lexeme: n}, Name: n} }

func testNum(f float64) *ast.Literal {
	return &ast.Literal{Kind: ast.LiteralNumber, Value: f}
}

func testStr(s string) *ast.Literal {
	return &ast.Literal{Kind: ast.LiteralString, Value: s}
}

func newTestEmitter() *Emitter {
	return NewEmitter("test", "", "test.ts")
}

// countOps tallies how many instructions in the chunk carry opcode op.
func countOps(chunk *Chunk, op OpCode) int {
	n := 0
	for _, inst := range chunk.Code {
		if inst.OpCode() == op {
			n++
		}
	}
	return n
}
