// Package ast defines the abstract syntax tree node types consumed by the
// SharpTS compiler back end. The lexer and parser that produce this tree are
// external collaborators; this package only describes the shape they hand us.
package ast

import (
	"bytes"
	"strings"

	"github.com/sharpts-lang/core/internal/types"
)

// Position is a source location, preserved purely for diagnostics.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token is a minimal stand-in for the (out-of-scope) lexer's token: just
// enough for a node to report its literal text and position.
type Token struct {
	Lexeme string
	Pos    Position
}

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
	// GetType returns the type assigned by the (external) type checker, or
	// nil if none has been assigned yet.
	GetType() types.Type
	SetType(types.Type)
}

// Statement is any node that performs an action without producing a value.
type Statement interface {
	Node
	statementNode()
}

// typed is embedded by expression nodes to provide GetType/SetType.
type typed struct {
	Type types.Type
}

func (t *typed) GetType() types.Type  { return t.Type }
func (t *typed) SetType(ty types.Type) { t.Type = ty }

// Program is the root node: a flat list of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return Position{Line: 1, Column: 1}
}

// Variable is a reference to a named binding (identifier expression).
type Variable struct {
	typed
	Token Token
	Name  string
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Token.Lexeme }
func (v *Variable) Pos() Position        { return v.Token.Pos }
func (v *Variable) String() string       { return v.Name }

// LiteralKind distinguishes the primitive shape of a Literal's value.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBoolean
	LiteralNull
	LiteralUndefined
	LiteralBigInt
	LiteralRegExp
)

// Literal is a constant value appearing directly in source.
type Literal struct {
	typed
	Value any
	Raw   string
	Token Token
	Kind  LiteralKind
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) Pos() Position        { return l.Token.Pos }
func (l *Literal) String() string       { return l.Raw }

// Identifier names a declaration site: a parameter, a variable, a bound
// catch parameter, a class/function name, and so on. Unlike Variable (a use
// site wrapped as an Expression) this is a plain name-carrying node reused
// across statements.
type Identifier struct {
	Token Token
	Name  string
	Type  types.Type
}

func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) Pos() Position        { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Name }

// Grouping is a parenthesized expression, kept distinct from its inner
// expression so source round-tripping and precedence-sensitive emission have
// an explicit node to anchor on.
type Grouping struct {
	typed
	Inner Expression
	Token Token
}

func (g *Grouping) expressionNode()      {}
func (g *Grouping) TokenLiteral() string { return g.Token.Lexeme }
func (g *Grouping) Pos() Position        { return g.Token.Pos }
func (g *Grouping) String() string       { return "(" + g.Inner.String() + ")" }

// Sequence is the comma operator: evaluate each expression in order, yield
// the last one's value.
type Sequence struct {
	typed
	Expressions []Expression
	Token       Token
}

func (s *Sequence) expressionNode()      {}
func (s *Sequence) TokenLiteral() string { return s.Token.Lexeme }
func (s *Sequence) Pos() Position        { return s.Token.Pos }
func (s *Sequence) String() string {
	parts := make([]string, len(s.Expressions))
	for i, e := range s.Expressions {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// This and Super are the two receiver pseudo-expressions.
type This struct {
	typed
	Token Token
}

func (t *This) expressionNode()      {}
func (t *This) TokenLiteral() string { return t.Token.Lexeme }
func (t *This) Pos() Position        { return t.Token.Pos }
func (t *This) String() string       { return "this" }

type Super struct {
	typed
	Token Token
}

func (s *Super) expressionNode()      {}
func (s *Super) TokenLiteral() string { return s.Token.Lexeme }
func (s *Super) Pos() Position        { return s.Token.Pos }
func (s *Super) String() string       { return "super" }
