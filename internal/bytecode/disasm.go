package bytecode

import (
	"fmt"
	"io"
)

// Disassembler renders a compiled Chunk as human-readable text, for
// debugging and for the golden-file snapshot tests.
type Disassembler struct {
	writer io.Writer
	chunk  *Chunk
}

// NewDisassembler creates a disassembler writing to w.
func NewDisassembler(chunk *Chunk, w io.Writer) *Disassembler {
	return &Disassembler{writer: w, chunk: chunk}
}

// Disassemble prints the whole chunk: header, constant pool, token table,
// helper table, then every instruction.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.writer, "== %s ==\n", d.chunk.Name)
	fmt.Fprintf(d.writer, "instructions=%d constants=%d locals=%d tokens=%d helpers=%d\n\n",
		len(d.chunk.Code), len(d.chunk.Constants), d.chunk.LocalCount, len(d.chunk.Tokens), len(d.chunk.Helpers))

	if len(d.chunk.Constants) > 0 {
		fmt.Fprintln(d.writer, "Constants:")
		for i, k := range d.chunk.Constants {
			fmt.Fprintf(d.writer, "  [%04d] %s\n", i, k.String())
		}
		fmt.Fprintln(d.writer)
	}

	if len(d.chunk.Tokens) > 0 {
		fmt.Fprintln(d.writer, "Tokens:")
		for i, tok := range d.chunk.Tokens {
			fmt.Fprintf(d.writer, "  [%04d] %s\n", i, tok.String())
		}
		fmt.Fprintln(d.writer)
	}

	if len(d.chunk.Helpers) > 0 {
		fmt.Fprintln(d.writer, "Helpers:")
		for i, h := range d.chunk.Helpers {
			fmt.Fprintf(d.writer, "  [%04d] %s\n", i, h.Name)
		}
		fmt.Fprintln(d.writer)
	}

	fmt.Fprintln(d.writer, "Code:")
	for offset := 0; offset < len(d.chunk.Code); offset++ {
		d.DisassembleInstruction(offset)
	}
}

func (tok MetadataToken) String() string {
	kind := "type"
	switch tok.Kind {
	case TokenMethod:
		kind = "method"
	case TokenField:
		kind = "field"
	}
	if tok.Owner == "" {
		return fmt.Sprintf("%s:%s", kind, tok.Name)
	}
	return fmt.Sprintf("%s:%s.%s", kind, tok.Owner, tok.Name)
}

// operandStyle groups opcodes by how their operands should be rendered.
type operandStyle int

const (
	styleNone operandStyle = iota
	styleConstIndex
	styleLocalIndex
	styleJumpTarget
	styleHelperIndex
	styleTokenIndex
	styleArgCountPlain
	styleUnboxKind
)

var opStyles = map[OpCode]operandStyle{
	OpLoadConst: styleConstIndex,

	OpLoadLocal: styleLocalIndex, OpStoreLocal: styleLocalIndex,
	OpLoadArg: styleLocalIndex, OpStoreArg: styleLocalIndex,
	OpLoadGlobal: styleLocalIndex, OpStoreGlobal: styleLocalIndex,
	OpLoadUpvalue: styleLocalIndex, OpStoreUpvalue: styleLocalIndex,

	OpLoadField: styleTokenIndex, OpStoreField: styleTokenIndex,

	OpJump: styleJumpTarget, OpJumpIfFalse: styleJumpTarget, OpJumpIfTrue: styleJumpTarget,
	OpJumpIfFalseKeep: styleJumpTarget, OpJumpIfNullish: styleJumpTarget,

	OpCallHelper: styleHelperIndex,
	OpCallDirect: styleArgCountPlain,
	OpIsInst:     styleTokenIndex,
	OpLoadToken:  styleTokenIndex,
	OpUnbox:      styleUnboxKind,
}

// DisassembleInstruction prints one instruction at the given offset.
func (d *Disassembler) DisassembleInstruction(offset int) {
	if offset < 0 || offset >= len(d.chunk.Code) {
		fmt.Fprintf(d.writer, "invalid offset %d\n", offset)
		return
	}
	inst := d.chunk.Code[offset]
	op := inst.OpCode()
	line := d.chunk.GetLine(offset)
	fmt.Fprintf(d.writer, "%04d %4d  %-20s", offset, line, op.String())

	switch opStyles[op] {
	case styleConstIndex:
		idx := int(inst.B())
		fmt.Fprintf(d.writer, " %d  ; %s\n", idx, d.chunk.GetConstant(idx).String())
	case styleLocalIndex:
		fmt.Fprintf(d.writer, " %d\n", inst.B())
	case styleJumpTarget:
		fmt.Fprintf(d.writer, " -> %d\n", inst.B())
	case styleHelperIndex:
		idx := int(inst.B())
		name := ""
		if idx >= 0 && idx < len(d.chunk.Helpers) {
			name = d.chunk.Helpers[idx].Name
		}
		fmt.Fprintf(d.writer, " argc=%d %s\n", inst.A(), name)
	case styleArgCountPlain:
		fmt.Fprintf(d.writer, " argc=%d idx=%d\n", inst.A(), inst.B())
	case styleTokenIndex:
		idx := int(inst.B())
		tok := ""
		if idx >= 0 && idx < len(d.chunk.Tokens) {
			tok = d.chunk.Tokens[idx].String()
		}
		fmt.Fprintf(d.writer, " %s\n", tok)
	case styleUnboxKind:
		kind := "double"
		if inst.A() == 1 {
			kind = "boolean"
		}
		fmt.Fprintf(d.writer, " %s\n", kind)
	default:
		fmt.Fprintln(d.writer)
	}
}
