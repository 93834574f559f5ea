package sable

import (
	"github.com/vito/sable/pkg/hm"
)

// Node is any element of the syntax tree.
type Node interface {
	GetSourceLocation() *SourceLocation
}

// Expr is one of the expression variants in ast_expressions.go. The set is
// closed.
type Expr interface {
	Node
	SetInferredType(hm.Type)
	GetInferredType() hm.Type

	isExpr()
}

// Stmt is one of the statement variants in ast_statements.go. The set is
// closed.
type Stmt interface {
	Node

	// DeclaredSymbols returns the names the statement introduces into the
	// enclosing scope.
	DeclaredSymbols() []string

	isStmt()
}

// InferredTypeHolder is embedded in AST nodes to store inferred types
type InferredTypeHolder struct {
	inferredType hm.Type
}

func (h *InferredTypeHolder) SetInferredType(t hm.Type) {
	h.inferredType = t
}

func (h *InferredTypeHolder) GetInferredType() hm.Type {
	return h.inferredType
}

// Block is an ordered sequence of statements.
type Block struct {
	Stmts []Stmt
	Loc   *SourceLocation
}

func (b *Block) GetSourceLocation() *SourceLocation { return b.Loc }

// Program is the root of a parsed compilation unit: a top-level block
// without braces.
type Program struct {
	Filename string
	Body     *Block

	// Subs is the final substitution, set once inference succeeds.
	Subs hm.Subs
}

func (p *Program) GetSourceLocation() *SourceLocation { return p.Body.Loc }
