package ast

import (
	"strings"

	"github.com/sharpts-lang/core/internal/types"
)

// Call is a function/method invocation. Callee is either a bare expression
// (a function value) or a Get (a method call, `receiver.method(...)`) —
// C8's dispatch registry branches on which.
type Call struct {
	typed
	Token     Token
	Callee    Expression
	Arguments []Expression
	Optional  bool // `?.()`
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Lexeme }
func (c *Call) Pos() Position        { return c.Token.Pos }
func (c *Call) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// Get reads a named property off a receiver (`receiver.name`).
type Get struct {
	typed
	Token    Token
	Receiver Expression
	Name     string
	Optional bool // `?.`
}

func (g *Get) expressionNode()      {}
func (g *Get) TokenLiteral() string { return g.Token.Lexeme }
func (g *Get) Pos() Position        { return g.Token.Pos }
func (g *Get) String() string       { return g.Receiver.String() + "." + g.Name }

// Set writes a named property on a receiver (`receiver.name = value`).
type Set struct {
	typed
	Token    Token
	Receiver Expression
	Name     string
	Value    Expression
}

func (s *Set) expressionNode()      {}
func (s *Set) TokenLiteral() string { return s.Token.Lexeme }
func (s *Set) Pos() Position        { return s.Token.Pos }
func (s *Set) String() string {
	return s.Receiver.String() + "." + s.Name + " = " + s.Value.String()
}

// GetIndex is a computed/indexed read (`object[index]`).
type GetIndex struct {
	typed
	Token    Token
	Object   Expression
	Index    Expression
	Optional bool
}

func (g *GetIndex) expressionNode()      {}
func (g *GetIndex) TokenLiteral() string { return g.Token.Lexeme }
func (g *GetIndex) Pos() Position        { return g.Token.Pos }
func (g *GetIndex) String() string {
	return g.Object.String() + "[" + g.Index.String() + "]"
}

// SetIndex is a computed/indexed write (`object[index] = value`).
type SetIndex struct {
	typed
	Token  Token
	Object Expression
	Index  Expression
	Value  Expression
}

func (s *SetIndex) expressionNode()      {}
func (s *SetIndex) TokenLiteral() string { return s.Token.Lexeme }
func (s *SetIndex) Pos() Position        { return s.Token.Pos }
func (s *SetIndex) String() string {
	return s.Object.String() + "[" + s.Index.String() + "] = " + s.Value.String()
}

// New is an object-construction expression (`new Callee(args)`).
type New struct {
	typed
	Token     Token
	Callee    Expression
	Arguments []Expression
}

func (n *New) expressionNode()      {}
func (n *New) TokenLiteral() string { return n.Token.Lexeme }
func (n *New) Pos() Position        { return n.Token.Pos }
func (n *New) String() string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = a.String()
	}
	return "new " + n.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// TypeAssertion is `expr as T` (or `<T>expr`): it changes the static type
// the emitter believes the expression has, without emitting any runtime
// check (spec is non-conformant to full TS here by design — no structural
// subtyping check is performed, per spec.md §1 Non-goals).
type TypeAssertion struct {
	typed
	Token    Token
	Value    Expression
	AsType   types.Type
}

func (t *TypeAssertion) expressionNode()      {}
func (t *TypeAssertion) TokenLiteral() string { return t.Token.Lexeme }
func (t *TypeAssertion) Pos() Position        { return t.Token.Pos }
func (t *TypeAssertion) String() string {
	return "(" + t.Value.String() + " as " + t.AsType.String() + ")"
}

// DynamicImport is `import(specifier)`, evaluated as a call to the
// (external) module resolver, surfaced here only as an expression node so
// C6 can emit the `DynamicImportModule` runtime-helper call (spec §6).
type DynamicImport struct {
	typed
	Token      Token
	Specifier  Expression
}

func (d *DynamicImport) expressionNode()      {}
func (d *DynamicImport) TokenLiteral() string { return d.Token.Lexeme }
func (d *DynamicImport) Pos() Position        { return d.Token.Pos }
func (d *DynamicImport) String() string {
	return "import(" + d.Specifier.String() + ")"
}

// ImportMeta is the `import.meta` expression.
type ImportMeta struct {
	typed
	Token Token
}

func (i *ImportMeta) expressionNode()      {}
func (i *ImportMeta) TokenLiteral() string { return i.Token.Lexeme }
func (i *ImportMeta) Pos() Position        { return i.Token.Pos }
func (i *ImportMeta) String() string       { return "import.meta" }
