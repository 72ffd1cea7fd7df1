// Package errors formats the diagnostics the compiler back end raises:
// compile-time TypeError/CompileError/DecoratorError, collected with source
// position and reported to the caller per spec §7, plus the WrappedException
// shape runtime exceptions are normalized into at the host/TypeScript
// boundary.
package errors

import (
	"fmt"
	"strings"

	"github.com/sharpts-lang/core/internal/ast"
)

// Kind tags the category of a CompilerError, matching the closed set
// spec.md §7 names for this core (LexicalError/ParseError are raised by the
// lexer/parser collaborators, not here).
type Kind int

const (
	// KindTypeError is a compile-time type mismatch, arity mismatch, or
	// abstract-method non-implementation.
	KindTypeError Kind = iota
	// KindCompileError is an undefined name at emission, an unsupported
	// construct, or an unknown dispatch target.
	KindCompileError
	// KindDecoratorError is a non-callable decorator value.
	KindDecoratorError
)

func (k Kind) String() string {
	switch k {
	case KindTypeError:
		return "TypeError"
	case KindCompileError:
		return "CompileError"
	case KindDecoratorError:
		return "DecoratorError"
	default:
		return "Error"
	}
}

// CompilerError is a single compile-time diagnostic with position and
// source context.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     ast.Position
}

// NewCompilerError creates a new compiler error of the given kind.
func NewCompilerError(kind Kind, pos ast.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

// TypeError reports a compile-time type mismatch, arity mismatch, or
// abstract-method non-implementation.
func TypeError(pos ast.Position, message, source, file string) *CompilerError {
	return NewCompilerError(KindTypeError, pos, message, source, file)
}

// CompileError reports an undefined name at emission, unsupported
// construct, or unknown dispatch target.
func CompileError(pos ast.Position, message, source, file string) *CompilerError {
	return NewCompilerError(KindCompileError, pos, message, source, file)
}

// DecoratorError reports a decorator expression that evaluated to a
// non-callable value.
func DecoratorError(pos ast.Position, message, source, file string) *CompilerError {
	return NewCompilerError(KindDecoratorError, pos, message, source, file)
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format formats the error message with source context. If color is true,
// ANSI color codes are used for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column))
	}

	sourceLine := e.getSourceLine(e.Pos.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompilerError) getSourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func (e *CompilerError) getSourceContext(lineNum, contextBefore, contextAfter int) []string {
	if e.Source == "" {
		return nil
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return nil
	}
	start := lineNum - contextBefore
	if start < 1 {
		start = 1
	}
	end := lineNum + contextAfter
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start-1 : end]
}

// FormatWithContext formats the error with surrounding source context.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column))
	}

	contextLinesList := e.getSourceContext(e.Pos.Line, contextLines, contextLines)
	if len(contextLinesList) == 0 {
		return e.Format(color)
	}

	startLine := e.Pos.Line - contextLines
	if startLine < 1 {
		startLine = 1
	}

	for i, line := range contextLinesList {
		currentLine := startLine + i
		lineNumStr := fmt.Sprintf("%4d | ", currentLine)

		if currentLine == e.Pos.Line {
			if color {
				sb.WriteString("\033[1m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")

			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		} else {
			if color {
				sb.WriteString("\033[2m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// FormatErrors formats multiple compiler errors, each with single-line
// source context.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compilation failed with %d error(s):\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(errs)))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// FormatErrorsWithContext formats multiple compiler errors with source
// context around each.
func FormatErrorsWithContext(errs []*CompilerError, contextLines int, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].FormatWithContext(contextLines, color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compilation failed with %d error(s):\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(errs)))
		sb.WriteString(err.FormatWithContext(contextLines, color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// StackFrame is one activation on the call stack a WrappedException
// carries when it unwinds through generated code: the host records one of
// these per MoveNext/function frame it was inside when a throw crossed it,
// so a RuntimeError can report where the value came from, not just what it
// was.
type StackFrame struct {
	Position     *ast.Position
	FunctionName string
	FileName     string
}

// String formats a frame as "FunctionName [line: N, column: M]", or just
// the function name if the frame carries no position (a native helper
// call, for instance).
func (sf StackFrame) String() string {
	if sf.Position == nil {
		return sf.FunctionName
	}
	return fmt.Sprintf("%s [line: %d, column: %d]", sf.FunctionName, sf.Position.Line, sf.Position.Column)
}

// StackTrace is a captured call stack, ordered oldest (bottom, the
// outermost caller) to newest (top, where the throw happened).
type StackTrace []StackFrame

// String prints the trace most-recent-frame-first, one per line — the
// order a thrown exception's frames are discovered in as it unwinds.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Reverse returns a new StackTrace with frames in reverse order.
func (st StackTrace) Reverse() StackTrace {
	reversed := make(StackTrace, len(st))
	for i, frame := range st {
		reversed[len(st)-1-i] = frame
	}
	return reversed
}

// Top returns the innermost frame (where the throw happened), or nil if
// the trace is empty.
func (st StackTrace) Top() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[len(st)-1]
}

// Bottom returns the outermost frame (the outermost caller), or nil if
// the trace is empty.
func (st StackTrace) Bottom() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[0]
}

// Depth returns the number of frames in the stack.
func (st StackTrace) Depth() int {
	return len(st)
}

// NewStackFrame creates a single call-stack frame.
func NewStackFrame(functionName, fileName string, position *ast.Position) StackFrame {
	return StackFrame{FunctionName: functionName, FileName: fileName, Position: position}
}

// NewStackTrace creates an empty stack trace; a host appends one
// StackFrame (see NewStackFrame) as it enters each frame.
func NewStackTrace() StackTrace {
	return make(StackTrace, 0)
}
