package ast

import (
	"strings"

	"github.com/sharpts-lang/core/internal/types"
)

// Param is a single function/method/arrow-function parameter.
type Param struct {
	Name       *Identifier
	Type       types.Type
	Default    Expression // nil if none
	Rest       bool       // `...args`
	Optional   bool       // `x?: T`
	Decorators []Expression // Legacy-mode parameter decorators (C7); empty otherwise
}

func (p *Param) String() string {
	out := p.Name.Name
	if p.Rest {
		out = "..." + out
	}
	if p.Default != nil {
		out += " = " + p.Default.String()
	}
	return out
}

// MethodKind distinguishes how a FunctionDecl is attached to a class, since
// constructors and static methods follow different dispatch and decorator
// rules (spec §4.6).
type MethodKind int

const (
	MethodPlain MethodKind = iota
	MethodConstructor
	MethodStatic
	MethodAbstract
)

// FunctionDecl is a named function: a top-level declaration, or a method
// body when nested inside a ClassDecl's Members.
type FunctionDecl struct {
	Token       Token
	Name        *Identifier // nil for an anonymous function expression
	Params      []*Param
	Body        *Block
	ReturnType  types.Type
	IsAsync     bool
	IsGenerator bool
	Kind        MethodKind
	Decorators  []Expression // class-member decorators (C7); empty for top-level functions
	Visibility  Visibility
}

func (f *FunctionDecl) statementNode()     {}
func (f *FunctionDecl) TokenLiteral() string { return f.Token.Lexeme }
func (f *FunctionDecl) Pos() Position      { return f.Token.Pos }
func (f *FunctionDecl) String() string {
	var b strings.Builder
	if f.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString("function")
	if f.IsGenerator {
		b.WriteString("*")
	}
	if f.Name != nil {
		b.WriteString(" ")
		b.WriteString(f.Name.Name)
	}
	b.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") ")
	b.WriteString(f.Body.String())
	return b.String()
}

// HasSuspensionCapableBody reports whether this function's body can contain
// Await/Yield suspension points at all — used by C3 to skip the analysis
// pass entirely for ordinary synchronous functions.
func (f *FunctionDecl) HasSuspensionCapableBody() bool {
	return f.IsAsync || f.IsGenerator
}
