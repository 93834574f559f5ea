package lsp

import (
	"github.com/vito/sable/pkg/sable"
)

// containsPosition reports whether the zero-based pos falls on loc's token.
func containsPosition(loc *sable.SourceLocation, pos Position) bool {
	if loc == nil || loc.Line != pos.Line+1 {
		return false
	}
	col := pos.Character + 1
	return col >= loc.Column && col < loc.Column+max(loc.Length, 1)
}

// IdentifierAt returns the identifier under pos, if any.
func IdentifierAt(prog *sable.Program, pos Position) *sable.Identifier {
	if prog == nil {
		return nil
	}
	var found *sable.Identifier
	sable.Walk(prog, func(n sable.Node) bool {
		if found != nil {
			return false
		}
		if id, ok := n.(*sable.Identifier); ok && containsPosition(id.Loc, pos) {
			found = id
		}
		return true
	})
	return found
}

// Definition returns the location of the statement or lambda that binds
// the name target refers to, following the language's scoping: a let is
// visible after its initializer, a fn within its own body and after it,
// and parameters within the body they belong to. Names from the prelude
// have no definition.
func Definition(prog *sable.Program, target *sable.Identifier) *sable.SourceLocation {
	r := &resolver{target: target}
	r.block(prog.Body)
	return r.found
}

type resolver struct {
	target *sable.Identifier
	scopes []map[string]*sable.SourceLocation
	found  *sable.SourceLocation
	done   bool
}

func (r *resolver) push() {
	r.scopes = append(r.scopes, map[string]*sable.SourceLocation{})
}

func (r *resolver) pop() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) bind(name string, loc *sable.SourceLocation) {
	r.scopes[len(r.scopes)-1][name] = loc
}

func (r *resolver) lookup(name string) *sable.SourceLocation {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if loc, ok := r.scopes[i][name]; ok {
			return loc
		}
	}
	return nil
}

func (r *resolver) block(b *sable.Block) {
	r.push()
	defer r.pop()
	for _, stmt := range b.Stmts {
		if r.done {
			return
		}
		r.stmt(stmt)
	}
}

func (r *resolver) stmt(stmt sable.Stmt) {
	switch s := stmt.(type) {
	case *sable.Let:
		r.expr(s.Value)
		r.bind(s.Name, s.NameLoc)
	case *sable.Assign:
		r.expr(s.Value)
	case *sable.ExprStmt:
		r.expr(s.Expr)
	case *sable.Return:
		if s.Value != nil {
			r.expr(s.Value)
		}
	case *sable.Break:
	case *sable.If:
		r.expr(s.Cond)
		r.block(s.Then)
		if s.Else != nil {
			r.block(s.Else)
		}
	case *sable.While:
		r.expr(s.Cond)
		r.block(s.Body)
	case *sable.BlockStmt:
		r.block(s.Body)
	case *sable.Fn:
		r.bind(s.Name, s.NameLoc)
		r.push()
		for _, p := range s.Params {
			r.bind(p, s.Loc)
		}
		r.block(s.Body)
		r.pop()
	}
}

func (r *resolver) expr(e sable.Expr) {
	if r.done {
		return
	}
	switch e := e.(type) {
	case *sable.Identifier:
		if e == r.target {
			r.found = r.lookup(e.Name)
			r.done = true
		}
	case *sable.NumberLiteral, *sable.BoolLiteral, *sable.StringLiteral:
	case *sable.Unary:
		r.expr(e.Operand)
	case *sable.Binary:
		r.expr(e.Left)
		r.expr(e.Right)
	case *sable.Call:
		r.expr(e.Callee)
		for _, arg := range e.Args {
			r.expr(arg)
		}
	case *sable.Lambda:
		r.push()
		for _, p := range e.Params {
			r.bind(p, e.Loc)
		}
		r.expr(e.Body)
		r.pop()
	}
}
