package sable

import (
	"fmt"
	"slices"
)

// Walk visits node and its descendants in source order. Children are
// skipped when visit returns false.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		Walk(n.Body, visit)
	case *Block:
		for _, s := range n.Stmts {
			Walk(s, visit)
		}

	case *Let:
		Walk(n.Value, visit)
	case *Assign:
		Walk(n.Value, visit)
	case *ExprStmt:
		Walk(n.Expr, visit)
	case *Return:
		if n.Value != nil {
			Walk(n.Value, visit)
		}
	case *Break:
	case *If:
		Walk(n.Cond, visit)
		Walk(n.Then, visit)
		if n.Else != nil {
			Walk(n.Else, visit)
		}
	case *While:
		Walk(n.Cond, visit)
		Walk(n.Body, visit)
	case *BlockStmt:
		Walk(n.Body, visit)
	case *Fn:
		Walk(n.Body, visit)

	case *NumberLiteral, *BoolLiteral, *StringLiteral, *Identifier:
	case *Unary:
		Walk(n.Operand, visit)
	case *Binary:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *Call:
		Walk(n.Callee, visit)
		for _, arg := range n.Args {
			Walk(arg, visit)
		}
	case *Lambda:
		Walk(n.Body, visit)

	default:
		panic(fmt.Sprintf("Walk: unexpected node %T", node))
	}
}

// Equal reports whether two trees have the same shape and contents,
// ignoring source locations and inferred types.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Program:
		y, ok := b.(*Program)
		return ok && Equal(x.Body, y.Body)
	case *Block:
		y, ok := b.(*Block)
		if !ok || x == nil || y == nil {
			return ok && x == nil && y == nil
		}
		return slices.EqualFunc(x.Stmts, y.Stmts, func(s1, s2 Stmt) bool { return Equal(s1, s2) })

	case *Let:
		y, ok := b.(*Let)
		return ok && x.Name == y.Name && Equal(x.Value, y.Value)
	case *Assign:
		y, ok := b.(*Assign)
		return ok && x.Name == y.Name && Equal(x.Value, y.Value)
	case *ExprStmt:
		y, ok := b.(*ExprStmt)
		return ok && Equal(x.Expr, y.Expr)
	case *Return:
		y, ok := b.(*Return)
		return ok && equalOptional(x.Value, y.Value)
	case *Break:
		_, ok := b.(*Break)
		return ok
	case *If:
		y, ok := b.(*If)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && equalBlocks(x.Else, y.Else)
	case *While:
		y, ok := b.(*While)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Body, y.Body)
	case *BlockStmt:
		y, ok := b.(*BlockStmt)
		return ok && Equal(x.Body, y.Body)
	case *Fn:
		y, ok := b.(*Fn)
		return ok && x.Name == y.Name && slices.Equal(x.Params, y.Params) && Equal(x.Body, y.Body)

	case *NumberLiteral:
		y, ok := b.(*NumberLiteral)
		return ok && x.Text == y.Text
	case *BoolLiteral:
		y, ok := b.(*BoolLiteral)
		return ok && x.Value == y.Value
	case *StringLiteral:
		y, ok := b.(*StringLiteral)
		return ok && x.Value == y.Value
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Name == y.Name
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && Equal(x.Operand, y.Operand)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Call:
		y, ok := b.(*Call)
		return ok && Equal(x.Callee, y.Callee) &&
			slices.EqualFunc(x.Args, y.Args, func(e1, e2 Expr) bool { return Equal(e1, e2) })
	case *Lambda:
		y, ok := b.(*Lambda)
		return ok && slices.Equal(x.Params, y.Params) && Equal(x.Body, y.Body)

	default:
		panic(fmt.Sprintf("Equal: unexpected node %T", a))
	}
}

func equalOptional(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}

func equalBlocks(a, b *Block) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}
