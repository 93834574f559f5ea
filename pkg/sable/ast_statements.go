package sable

import "github.com/vito/sable/pkg/hm"

// Let binds Name to the generalized type of Value.
type Let struct {
	Name    string
	Value   Expr
	Loc     *SourceLocation
	NameLoc *SourceLocation

	// Scheme is the generalized type, set by inference.
	Scheme *hm.Scheme
}

// Assign updates an existing binding.
type Assign struct {
	Name  string
	Value Expr
	Loc   *SourceLocation
}

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	Expr Expr
	Loc  *SourceLocation
}

// Return leaves the enclosing function. Value is nil for a bare return,
// which returns Unit.
type Return struct {
	Value Expr
	Loc   *SourceLocation
}

// Break leaves the innermost loop.
type Break struct {
	Loc *SourceLocation
}

// If runs Then when Cond holds, and Else (if any) otherwise. An
// "else if" is represented as an Else block holding a single If.
type If struct {
	Cond Expr
	Then *Block
	Else *Block
	Loc  *SourceLocation
}

type While struct {
	Cond Expr
	Body *Block
	Loc  *SourceLocation
}

// BlockStmt is a nested { ... } scope.
type BlockStmt struct {
	Body *Block
	Loc  *SourceLocation
}

// Fn declares a named function. The name is visible in its own body.
type Fn struct {
	Name    string
	Params  []string
	Body    *Block
	Loc     *SourceLocation
	NameLoc *SourceLocation

	// Scheme is the generalized function type, set by inference.
	Scheme *hm.Scheme
}

func (*Let) isStmt()       {}
func (*Assign) isStmt()    {}
func (*ExprStmt) isStmt()  {}
func (*Return) isStmt()    {}
func (*Break) isStmt()     {}
func (*If) isStmt()        {}
func (*While) isStmt()     {}
func (*BlockStmt) isStmt() {}
func (*Fn) isStmt()        {}

func (s *Let) GetSourceLocation() *SourceLocation       { return s.Loc }
func (s *Assign) GetSourceLocation() *SourceLocation    { return s.Loc }
func (s *ExprStmt) GetSourceLocation() *SourceLocation  { return s.Loc }
func (s *Return) GetSourceLocation() *SourceLocation    { return s.Loc }
func (s *Break) GetSourceLocation() *SourceLocation     { return s.Loc }
func (s *If) GetSourceLocation() *SourceLocation        { return s.Loc }
func (s *While) GetSourceLocation() *SourceLocation     { return s.Loc }
func (s *BlockStmt) GetSourceLocation() *SourceLocation { return s.Loc }
func (s *Fn) GetSourceLocation() *SourceLocation        { return s.Loc }

func (s *Let) DeclaredSymbols() []string       { return []string{s.Name} }
func (s *Assign) DeclaredSymbols() []string    { return nil }
func (s *ExprStmt) DeclaredSymbols() []string  { return nil }
func (s *Return) DeclaredSymbols() []string    { return nil }
func (s *Break) DeclaredSymbols() []string     { return nil }
func (s *If) DeclaredSymbols() []string        { return nil }
func (s *While) DeclaredSymbols() []string     { return nil }
func (s *BlockStmt) DeclaredSymbols() []string { return nil }
func (s *Fn) DeclaredSymbols() []string        { return []string{s.Name} }
