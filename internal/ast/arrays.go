package ast

import "strings"

// Spread is `...expr`, legal inside ArrayLiteral elements, Call arguments,
// and ObjectLiteral properties.
type Spread struct {
	typed
	Token Token
	Value Expression
}

func (s *Spread) expressionNode()      {}
func (s *Spread) TokenLiteral() string { return s.Token.Lexeme }
func (s *Spread) Pos() Position        { return s.Token.Pos }
func (s *Spread) String() string       { return "..." + s.Value.String() }

// ArrayLiteral is `[e1, e2, ...rest]`. Elements may include *Spread nodes
// and nil holes (elided elements, `[1, , 3]`).
type ArrayLiteral struct {
	typed
	Token    Token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Lexeme }
func (a *ArrayLiteral) Pos() Position        { return a.Token.Pos }
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil {
			parts[i] = ""
			continue
		}
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectProperty is one `key: value` (or shorthand, or `...spread`) entry
// of an ObjectLiteral.
type ObjectProperty struct {
	Key       string
	Computed  Expression // non-nil for `[expr]: value`; Key is empty then
	Value     Expression
	Shorthand bool
	IsSpread  bool
	Method    bool // `{ foo() {...} }`
}

// ObjectLiteral is `{ k1: v1, ...rest }`.
type ObjectLiteral struct {
	typed
	Token      Token
	Properties []*ObjectProperty
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) TokenLiteral() string { return o.Token.Lexeme }
func (o *ObjectLiteral) Pos() Position        { return o.Token.Pos }
func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		switch {
		case p.IsSpread:
			parts[i] = "..." + p.Value.String()
		case p.Shorthand:
			parts[i] = p.Key
		default:
			parts[i] = p.Key + ": " + p.Value.String()
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// TemplateLiteral alternates literal source chunks with interpolated
// expressions: Quasis has one more element than Expressions.
type TemplateLiteral struct {
	typed
	Token       Token
	Quasis      []string
	Expressions []Expression
}

func (t *TemplateLiteral) expressionNode()      {}
func (t *TemplateLiteral) TokenLiteral() string { return t.Token.Lexeme }
func (t *TemplateLiteral) Pos() Position        { return t.Token.Pos }
func (t *TemplateLiteral) String() string {
	var b strings.Builder
	b.WriteString("`")
	for i, q := range t.Quasis {
		b.WriteString(q)
		if i < len(t.Expressions) {
			b.WriteString("${")
			b.WriteString(t.Expressions[i].String())
			b.WriteString("}")
		}
	}
	b.WriteString("`")
	return b.String()
}
