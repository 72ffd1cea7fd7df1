package ast

// Throw raises a value as an exception.
type Throw struct {
	Token Token
	Value Expression
}

func (t *Throw) statementNode()     {}
func (t *Throw) TokenLiteral() string { return t.Token.Lexeme }
func (t *Throw) Pos() Position      { return t.Token.Pos }
func (t *Throw) String() string     { return "throw " + t.Value.String() + ";" }

// CatchClause binds the (optionally absent) caught value for the catch body.
type CatchClause struct {
	Param *Identifier // nil for a parameterless `catch {}`
	Body  *Block
}

// TryCatch is a try/catch/finally statement. Catch and/or Finally may be
// nil, but not both (a bare `try {}` is meaningless and rejected upstream).
type TryCatch struct {
	Token   Token
	Try     *Block
	Catch   *CatchClause
	Finally *Block
}

func (t *TryCatch) statementNode()     {}
func (t *TryCatch) TokenLiteral() string { return t.Token.Lexeme }
func (t *TryCatch) Pos() Position      { return t.Token.Pos }
func (t *TryCatch) String() string {
	out := "try " + t.Try.String()
	if t.Catch != nil {
		out += " catch "
		if t.Catch.Param != nil {
			out += "(" + t.Catch.Param.Name + ") "
		}
		out += t.Catch.Body.String()
	}
	if t.Finally != nil {
		out += " finally " + t.Finally.String()
	}
	return out
}
