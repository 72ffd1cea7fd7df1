package errors

import (
	"strings"
	"testing"

	"github.com/sharpts-lang/core/internal/ast"
)

func TestCompilerErrorFormat(t *testing.T) {
	err := TypeError(ast.Position{Line: 3, Column: 7}, "argument of type 'string' is not assignable to parameter of type 'number'", "// header\n// line 2\nlet x: number = \"hi\";\n", "main.ts")

	got := err.Format(false)
	if !strings.Contains(got, "TypeError in main.ts:3:7") {
		t.Errorf("Format() missing header, got:\n%s", got)
	}
	if !strings.Contains(got, "let x: number") {
		t.Errorf("Format() missing source line, got:\n%s", got)
	}
}

func TestCompilerErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  *CompilerError
		want string
	}{
		{"TypeError", TypeError(ast.Position{}, "m", "", ""), "TypeError"},
		{"CompileError", CompileError(ast.Position{}, "m", "", ""), "CompileError"},
		{"DecoratorError", DecoratorError(ast.Position{}, "m", "", ""), "DecoratorError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatErrorsSingle(t *testing.T) {
	errs := []*CompilerError{CompileError(ast.Position{Line: 1, Column: 1}, "boom", "", "main.ts")}
	got := FormatErrors(errs, false)
	if strings.Contains(got, "Compilation failed with") {
		t.Error("single-error report should not include the multi-error banner")
	}
}

func TestFormatErrorsMultiple(t *testing.T) {
	errs := []*CompilerError{
		CompileError(ast.Position{Line: 1, Column: 1}, "first", "", "main.ts"),
		TypeError(ast.Position{Line: 2, Column: 1}, "second", "", "main.ts"),
	}
	got := FormatErrors(errs, false)
	if !strings.Contains(got, "Compilation failed with 2 error(s)") {
		t.Errorf("expected multi-error banner, got:\n%s", got)
	}
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Errorf("expected both messages present, got:\n%s", got)
	}
}

func TestFormatWithContext(t *testing.T) {
	source := "let a = 1;\nlet b = 2;\nlet c: number = \"x\";\nlet d = 4;\n"
	err := TypeError(ast.Position{Line: 3, Column: 16}, "type mismatch", source, "main.ts")

	got := err.FormatWithContext(1, false)
	if !strings.Contains(got, "let b = 2;") {
		t.Errorf("expected context line before the error, got:\n%s", got)
	}
	if !strings.Contains(got, "let d = 4;") {
		t.Errorf("expected context line after the error, got:\n%s", got)
	}
}
