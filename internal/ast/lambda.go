package ast

import (
	"strings"

	"github.com/sharpts-lang/core/internal/types"
)

// ArrowFunction is a lexically-scoped function expression. ExpressionBody is
// set when the arrow has a concise (non-block) body (`x => x + 1`); exactly
// one of ExpressionBody/Block is non-nil.
type ArrowFunction struct {
	typed
	Token          Token
	Params         []*Param
	Block          *Block
	ExpressionBody Expression
	ReturnType     types.Type
	IsAsync        bool

	// Captures lists the outer-scope bindings this arrow reads or writes,
	// resolved by the (external) binder before this core runs; the emitter
	// consults it to decide whether the arrow needs a boxed closure record
	// shared with an enclosing async state machine (spec §5, self_boxed).
	Captures []string
}

func (a *ArrowFunction) expressionNode()      {}
func (a *ArrowFunction) TokenLiteral() string { return a.Token.Lexeme }
func (a *ArrowFunction) Pos() Position        { return a.Token.Pos }
func (a *ArrowFunction) String() string {
	var b strings.Builder
	if a.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString("(")
	for i, p := range a.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") => ")
	if a.Block != nil {
		b.WriteString(a.Block.String())
	} else {
		b.WriteString(a.ExpressionBody.String())
	}
	return b.String()
}
