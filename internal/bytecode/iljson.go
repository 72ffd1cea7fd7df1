package bytecode

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DumpChunkJSON renders a compiled Chunk as a JSON document: every
// constant, local, token, helper, and instruction, plus the try/catch
// metadata attached to any OpTry offset. It is a debugging aid alongside
// the text disassembler (disasm.go) — not a serialization format (see
// serializer.go for that) — built one path-set at a time with sjson
// rather than marshaling a Go struct, since the shape is a sparse
// instruction-indexed tree, not a fixed record.
func DumpChunkJSON(chunk *Chunk) (string, error) {
	buf := []byte("{}")
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		buf, err = sjson.SetBytes(buf, path, value)
	}

	set("name", chunk.Name)
	set("localCount", chunk.LocalCount)

	for i, k := range chunk.Constants {
		set(fmt.Sprintf("constants.%d.kind", i), k.Kind.String())
		set(fmt.Sprintf("constants.%d.value", i), k.String())
	}

	for i, l := range chunk.Locals {
		set(fmt.Sprintf("locals.%d.name", i), l.Name)
		set(fmt.Sprintf("locals.%d.type", i), l.Type)
	}

	for i, tok := range chunk.Tokens {
		set(fmt.Sprintf("tokens.%d.kind", i), tokenKindName(tok.Kind))
		set(fmt.Sprintf("tokens.%d.owner", i), tok.Owner)
		set(fmt.Sprintf("tokens.%d.name", i), tok.Name)
	}

	for i, h := range chunk.Helpers {
		set(fmt.Sprintf("helpers.%d.name", i), h.Name)
	}

	for offset := range chunk.Code {
		inst := chunk.Code[offset]
		set(fmt.Sprintf("code.%d.offset", offset), offset)
		set(fmt.Sprintf("code.%d.line", offset), chunk.GetLine(offset))
		set(fmt.Sprintf("code.%d.op", offset), inst.OpCode().String())
		set(fmt.Sprintf("code.%d.a", offset), inst.A())
		set(fmt.Sprintf("code.%d.b", offset), inst.B())

		if info, ok := chunk.TryInfoAt(offset); ok {
			set(fmt.Sprintf("code.%d.tryInfo.catchTarget", offset), info.CatchTarget)
			set(fmt.Sprintf("code.%d.tryInfo.finallyTarget", offset), info.FinallyTarget)
			set(fmt.Sprintf("code.%d.tryInfo.hasCatch", offset), info.HasCatch)
			set(fmt.Sprintf("code.%d.tryInfo.hasFinally", offset), info.HasFinally)
			set(fmt.Sprintf("code.%d.tryInfo.isFault", offset), info.IsFault)
		}
	}

	if err != nil {
		return "", fmt.Errorf("dump chunk %s: %w", chunk.Name, err)
	}
	return string(buf), nil
}

// InstructionAt queries a single instruction back out of a dump produced
// by DumpChunkJSON, letting a test assert on one opcode without
// re-walking the whole tree.
func InstructionAt(dump string, offset int) gjson.Result {
	return gjson.Get(dump, fmt.Sprintf("code.%d", offset))
}

// ConstantCount reports how many constant-pool entries a dump recorded.
func ConstantCount(dump string) int {
	return int(gjson.Get(dump, "constants.#").Int())
}

func tokenKindName(k TokenKind) string {
	switch k {
	case TokenMethod:
		return "method"
	case TokenField:
		return "field"
	default:
		return "type"
	}
}
