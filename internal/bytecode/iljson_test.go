package bytecode

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestDumpChunkJSONRoundTripsInstructions(t *testing.T) {
	chunk := NewChunk("sample")
	idx := chunk.AddConstant(NumberValue(42))
	chunk.Write(OpLoadConst, 0, uint16(idx), 1)
	chunk.WriteSimple(OpPop, 1)

	dump, err := DumpChunkJSON(chunk)
	if err != nil {
		t.Fatalf("DumpChunkJSON returned an error: %v", err)
	}
	if !gjson.Valid(dump) {
		t.Fatal("DumpChunkJSON produced invalid JSON")
	}

	if got := gjson.Get(dump, "name").String(); got != "sample" {
		t.Errorf("name = %q, want sample", got)
	}
	if got := gjson.Get(dump, "code.0.op").String(); got != "LOAD_CONST" {
		t.Errorf("code.0.op = %q, want LOAD_CONST", got)
	}
	if got := gjson.Get(dump, "code.1.op").String(); got != "POP" {
		t.Errorf("code.1.op = %q, want POP", got)
	}
	if got := gjson.Get(dump, "constants.0.value").String(); got != "42" {
		t.Errorf("constants.0.value = %q, want 42", got)
	}
	if ConstantCount(dump) != 1 {
		t.Errorf("ConstantCount = %d, want 1", ConstantCount(dump))
	}

	inst := InstructionAt(dump, 0)
	if inst.Get("op").String() != "LOAD_CONST" {
		t.Errorf("InstructionAt(0).op = %q, want LOAD_CONST", inst.Get("op").String())
	}
}

func TestDumpChunkJSONIncludesTryInfo(t *testing.T) {
	chunk := NewChunk("withTry")
	tryOffset := chunk.Write(OpTry, 0, 0, 1)
	chunk.WriteSimple(OpLeave, 1)
	chunk.SetTryInfo(tryOffset, TryInfo{HasCatch: true, CatchTarget: 1})

	dump, err := DumpChunkJSON(chunk)
	if err != nil {
		t.Fatalf("DumpChunkJSON returned an error: %v", err)
	}
	path := "code.0.tryInfo.hasCatch"
	if !gjson.Get(dump, path).Bool() {
		t.Errorf("%s = false, want true", path)
	}
	if got := gjson.Get(dump, "code.0.tryInfo.catchTarget").Int(); got != 1 {
		t.Errorf("catchTarget = %d, want 1", got)
	}
}

func TestDumpChunkJSONIncludesTokensAndHelpers(t *testing.T) {
	chunk := NewChunk("withTokens")
	chunk.AddToken(MetadataToken{Kind: TokenMethod, Owner: "Widget", Name: "greet"})
	chunk.AddHelper("ConsoleLog")

	dump, err := DumpChunkJSON(chunk)
	if err != nil {
		t.Fatalf("DumpChunkJSON returned an error: %v", err)
	}
	if !strings.Contains(dump, "greet") {
		t.Error("expected the token's method name to appear in the dump")
	}
	if got := gjson.Get(dump, "tokens.0.kind").String(); got != "method" {
		t.Errorf("tokens.0.kind = %q, want method", got)
	}
	if got := gjson.Get(dump, "helpers.0.name").String(); got != "ConsoleLog" {
		t.Errorf("helpers.0.name = %q, want ConsoleLog", got)
	}
}
