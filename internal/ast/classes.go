package ast

import (
	"strings"

	"github.com/sharpts-lang/core/internal/types"
)

// Visibility is the access level of a class member.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	default:
		return "public"
	}
}

// DecoratorMode selects which of the two calling conventions C7 applies.
type DecoratorMode int

const (
	// DecoratorLegacy is the pre-standard `(target, key, descriptor)` form.
	DecoratorLegacy DecoratorMode = iota
	// DecoratorStage3 is the `(value, context)` form.
	DecoratorStage3
)

// FieldDecl is a class instance or static field, with an optional
// initializer and decorator list (C7).
type FieldDecl struct {
	Token       Token
	Name        *Identifier
	Type        types.Type
	Initializer Expression
	Static      bool
	Readonly    bool
	Visibility  Visibility
	Decorators  []Expression
}

func (f *FieldDecl) statementNode()     {}
func (f *FieldDecl) TokenLiteral() string { return f.Token.Lexeme }
func (f *FieldDecl) Pos() Position      { return f.Token.Pos }
func (f *FieldDecl) String() string {
	out := f.Name.Name
	if f.Initializer != nil {
		out += " = " + f.Initializer.String()
	}
	return out + ";"
}

// AccessorKind distinguishes a getter from a setter.
type AccessorKind int

const (
	AccessorGet AccessorKind = iota
	AccessorSet
)

// AccessorDecl is a class `get`/`set` accessor.
type AccessorDecl struct {
	Token      Token
	Name       *Identifier
	Kind       AccessorKind
	Param      *Param // the setter's single parameter; nil for a getter
	Body       *Block
	Static     bool
	Visibility Visibility
	Decorators []Expression
}

func (a *AccessorDecl) statementNode()     {}
func (a *AccessorDecl) TokenLiteral() string { return a.Token.Lexeme }
func (a *AccessorDecl) Pos() Position      { return a.Token.Pos }
func (a *AccessorDecl) String() string {
	kw := "get"
	if a.Kind == AccessorSet {
		kw = "set"
	}
	return kw + " " + a.Name.Name + "() " + a.Body.String()
}

// ClassDecl is a class declaration. Members is the ordered list of
// FunctionDecl (methods, including the constructor), FieldDecl and
// AccessorDecl nodes in source order — the order C7 iterates
// "bottom-to-top" / "outer-to-inner" over.
type ClassDecl struct {
	Token         Token
	Name          *Identifier
	SuperClass    Expression // nil if no `extends` clause
	Implements    []types.Type
	Members       []Statement
	Decorators    []Expression
	DecoratorMode DecoratorMode
	Abstract      bool
}

func (c *ClassDecl) statementNode()     {}
func (c *ClassDecl) TokenLiteral() string { return c.Token.Lexeme }
func (c *ClassDecl) Pos() Position      { return c.Token.Pos }
func (c *ClassDecl) String() string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(c.Name.Name)
	if c.SuperClass != nil {
		b.WriteString(" extends ")
		b.WriteString(c.SuperClass.String())
	}
	b.WriteString(" {\n")
	for _, m := range c.Members {
		b.WriteString("  ")
		b.WriteString(m.String())
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// Methods returns the FunctionDecl members of a class, in source order.
func (c *ClassDecl) Methods() []*FunctionDecl {
	var out []*FunctionDecl
	for _, m := range c.Members {
		if fn, ok := m.(*FunctionDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Fields returns the FieldDecl members of a class, in source order.
func (c *ClassDecl) Fields() []*FieldDecl {
	var out []*FieldDecl
	for _, m := range c.Members {
		if f, ok := m.(*FieldDecl); ok {
			out = append(out, f)
		}
	}
	return out
}

// Accessors returns the AccessorDecl members of a class, in source order.
func (c *ClassDecl) Accessors() []*AccessorDecl {
	var out []*AccessorDecl
	for _, m := range c.Members {
		if a, ok := m.(*AccessorDecl); ok {
			out = append(out, a)
		}
	}
	return out
}
