package sable

import (
	"github.com/vito/sable/pkg/hm"
)

// Resolve rewrites every inferred type in prog under subs. Type variables
// that remain free afterwards are unconstrained by the program and are
// defaulted to Unit. Nodes that were never typed are left alone.
//
// The nodes of a generalized definition keep a single representative
// type: `let id = \x. x` leaves the lambda typed Unit -> Unit however id
// is used later. The polymorphic type lives on the Let or Fn scheme.
func Resolve(prog *Program, subs hm.Subs) {
	defaults := hm.NewSubs()
	resolveTypes(prog, subs, func(free hm.TypeVarSet) {
		for _, tv := range free.Slice() {
			defaults[tv] = hm.Unit
		}
	})
	if len(defaults) > 0 {
		resolveTypes(prog, defaults, func(hm.TypeVarSet) {})
	}
}

func resolveTypes(prog *Program, subs hm.Subs, seen func(hm.TypeVarSet)) {
	Walk(prog, func(n Node) bool {
		switch n := n.(type) {
		case Expr:
			if t := n.GetInferredType(); t != nil {
				t = subs.Apply(t)
				n.SetInferredType(t)
				seen(t.FreeTypeVar())
			}
		case *Let:
			if n.Scheme != nil {
				n.Scheme = n.Scheme.Apply(subs).(*hm.Scheme)
				seen(n.Scheme.FreeTypeVar())
			}
		case *Fn:
			if n.Scheme != nil {
				n.Scheme = n.Scheme.Apply(subs).(*hm.Scheme)
				seen(n.Scheme.FreeTypeVar())
			}
		}
		return true
	})
}

// CheckResolved verifies that every expression in prog carries a type with
// no type variables, which code generation relies on.
func CheckResolved(prog *Program) Diagnostics {
	var diags Diagnostics
	Walk(prog, func(n Node) bool {
		e, ok := n.(Expr)
		if !ok {
			return true
		}
		t := e.GetInferredType()
		switch {
		case t == nil:
			diags = append(diags, newDiagnostic(InternalError, UnresolvedTypeVariable,
				e.GetSourceLocation(), "expression %s has no type", Format(e)))
		case !t.FreeTypeVar().Empty():
			diags = append(diags, newDiagnostic(InternalError, UnresolvedTypeVariable,
				e.GetSourceLocation(), "expression %s has unresolved type %s", Format(e), t))
		}
		return true
	})
	return diags
}
