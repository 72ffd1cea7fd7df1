package ast

// Await is a suspension point inside an async function. State is assigned
// by the await-point analyzer (C3) in source order, starting at 0; before
// analysis has run it holds the zero value, 0.
type Await struct {
	typed
	Token Token
	Value Expression
	State int
}

func (a *Await) expressionNode()      {}
func (a *Await) TokenLiteral() string { return a.Token.Lexeme }
func (a *Await) Pos() Position        { return a.Token.Pos }
func (a *Await) String() string       { return "await " + a.Value.String() }

// Yield is a generator suspension point. It is analyzed identically to
// Await (same State numbering and hoisting rules — see SPEC_FULL.md §5.3)
// but the emitted ABI hands the value to the driver's YieldReturn entry
// point instead of unwrapping a task.
type Yield struct {
	typed
	Token      Token
	Value      Expression // nil for a bare `yield;`
	Delegate   bool       // `yield*`
	State      int
}

func (y *Yield) expressionNode()      {}
func (y *Yield) TokenLiteral() string { return y.Token.Lexeme }
func (y *Yield) Pos() Position        { return y.Token.Pos }
func (y *Yield) String() string {
	kw := "yield"
	if y.Delegate {
		kw = "yield*"
	}
	if y.Value == nil {
		return kw
	}
	return kw + " " + y.Value.String()
}
