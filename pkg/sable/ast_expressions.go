package sable

// NumberLiteral is an integer literal, kept in its source spelling.
type NumberLiteral struct {
	InferredTypeHolder
	Text string
	Loc  *SourceLocation
}

// BoolLiteral is true or false.
type BoolLiteral struct {
	InferredTypeHolder
	Value bool
	Loc   *SourceLocation
}

// StringLiteral holds the decoded string contents.
type StringLiteral struct {
	InferredTypeHolder
	Value string
	Loc   *SourceLocation
}

// Identifier is a reference to a bound name.
type Identifier struct {
	InferredTypeHolder
	Name string
	Loc  *SourceLocation
}

// Unary is a prefix operator applied to an operand.
type Unary struct {
	InferredTypeHolder
	Op      string
	Operand Expr
	Loc     *SourceLocation
}

// Binary is an infix operator, including assignment (=).
type Binary struct {
	InferredTypeHolder
	Op    string
	Left  Expr
	Right Expr
	Loc   *SourceLocation
}

// Call applies Callee to Args. A call with no arguments applies the callee
// to Unit.
type Call struct {
	InferredTypeHolder
	Callee Expr
	Args   []Expr
	Loc    *SourceLocation
}

// Lambda is an anonymous function of one or more curried parameters. A
// lambda with no parameters takes Unit.
type Lambda struct {
	InferredTypeHolder
	Params []string
	Body   Expr
	Loc    *SourceLocation
}

func (*NumberLiteral) isExpr() {}
func (*BoolLiteral) isExpr()   {}
func (*StringLiteral) isExpr() {}
func (*Identifier) isExpr()    {}
func (*Unary) isExpr()         {}
func (*Binary) isExpr()        {}
func (*Call) isExpr()          {}
func (*Lambda) isExpr()        {}

func (e *NumberLiteral) GetSourceLocation() *SourceLocation { return e.Loc }
func (e *BoolLiteral) GetSourceLocation() *SourceLocation   { return e.Loc }
func (e *StringLiteral) GetSourceLocation() *SourceLocation { return e.Loc }
func (e *Identifier) GetSourceLocation() *SourceLocation    { return e.Loc }
func (e *Unary) GetSourceLocation() *SourceLocation         { return e.Loc }
func (e *Binary) GetSourceLocation() *SourceLocation        { return e.Loc }
func (e *Call) GetSourceLocation() *SourceLocation          { return e.Loc }
func (e *Lambda) GetSourceLocation() *SourceLocation        { return e.Loc }
