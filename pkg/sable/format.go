package sable

import (
	"fmt"
	"strings"
)

// Format prints a node in concrete syntax. Parentheses are emitted only
// where the binding powers require them, so parsing the output yields a
// tree Equal to node.
func Format(node Node) string {
	f := &formatter{}
	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Body.Stmts {
			f.stmt(stmt)
			f.sb.WriteByte('\n')
		}
	case *Block:
		f.block(n)
	case Stmt:
		f.stmt(n)
	case Expr:
		f.expr(n, 0)
	default:
		panic(fmt.Sprintf("Format: unexpected node %T", node))
	}
	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

func (f *formatter) write(s string) {
	f.sb.WriteString(s)
}

func (f *formatter) newline() {
	f.sb.WriteByte('\n')
	f.sb.WriteString(strings.Repeat("\t", f.indent))
}

func (f *formatter) block(b *Block) {
	if len(b.Stmts) == 0 {
		f.write("{}")
		return
	}
	f.write("{")
	f.indent++
	for _, stmt := range b.Stmts {
		f.newline()
		f.stmt(stmt)
	}
	f.indent--
	f.newline()
	f.write("}")
}

func (f *formatter) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *Let:
		f.write("let " + s.Name + " = ")
		f.expr(s.Value, 0)
		f.write(";")
	case *Assign:
		f.write(s.Name + " = ")
		f.expr(s.Value, bpAssign-1)
		f.write(";")
	case *ExprStmt:
		f.expr(s.Expr, 0)
		f.write(";")
	case *Return:
		if s.Value == nil {
			f.write("return;")
			return
		}
		f.write("return ")
		f.expr(s.Value, 0)
		f.write(";")
	case *Break:
		f.write("break;")
	case *If:
		f.ifStmt(s)
	case *While:
		f.write("while (")
		f.expr(s.Cond, 0)
		f.write(") ")
		f.block(s.Body)
	case *BlockStmt:
		f.block(s.Body)
	case *Fn:
		f.write("fn " + s.Name + "(" + strings.Join(s.Params, ", ") + ") ")
		f.block(s.Body)
	default:
		panic(fmt.Sprintf("Format: unexpected statement %T", stmt))
	}
}

func (f *formatter) ifStmt(s *If) {
	f.write("if (")
	f.expr(s.Cond, 0)
	f.write(") ")
	f.block(s.Then)
	if s.Else == nil {
		return
	}
	f.write(" else ")
	if len(s.Else.Stmts) == 1 {
		if nested, ok := s.Else.Stmts[0].(*If); ok {
			f.ifStmt(nested)
			return
		}
	}
	f.block(s.Else)
}

// precedence is the binding power at which an expression holds together:
// it needs parentheses in any position parsed with a minimum binding power
// at or above it.
func precedence(e Expr) int {
	switch e := e.(type) {
	case *NumberLiteral, *BoolLiteral, *StringLiteral, *Identifier, *Unary, *Call:
		return bpAtom
	case *Binary:
		return infixOps[e.Op].bp
	case *Lambda:
		return 0
	default:
		panic(fmt.Sprintf("precedence: unexpected expression %T", e))
	}
}

// expr prints e as it would be parsed by parseExpression(minBP).
func (f *formatter) expr(e Expr, minBP int) {
	if minBP > 0 && precedence(e) <= minBP {
		f.write("(")
		f.expr(e, 0)
		f.write(")")
		return
	}

	switch e := e.(type) {
	case *NumberLiteral:
		f.write(e.Text)
	case *BoolLiteral:
		if e.Value {
			f.write("true")
		} else {
			f.write("false")
		}
	case *StringLiteral:
		f.write(quoteString(e.Value))
	case *Identifier:
		f.write(e.Name)
	case *Unary:
		f.write(e.Op)
		f.expr(e.Operand, bpPrefix)
	case *Binary:
		op := infixOps[e.Op]
		leftBP, rightBP := op.bp-1, op.bp
		if op.rightAssoc {
			leftBP, rightBP = op.bp, op.bp-1
		}
		f.expr(e.Left, leftBP)
		f.write(" " + e.Op + " ")
		f.expr(e.Right, rightBP)
	case *Call:
		switch e.Callee.(type) {
		case *Unary, *Binary, *Lambda:
			f.write("(")
			f.expr(e.Callee, 0)
			f.write(")")
		default:
			f.expr(e.Callee, bpCall)
		}
		f.write("(")
		for i, arg := range e.Args {
			if i > 0 {
				f.write(", ")
			}
			f.expr(arg, 0)
		}
		f.write(")")
	case *Lambda:
		f.write(`\` + strings.Join(e.Params, " ") + ". ")
		f.expr(e.Body, 0)
	}
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
