package hm

import (
	"fmt"
	"strings"
)

// Scheme represents a type scheme for polymorphic types. The quantified
// variables are always a subset of the free variables of the body.
type Scheme struct {
	tvs []TypeVariable
	t   Type
}

// NewScheme creates a new type scheme. Variables that do not occur free in
// t are dropped.
func NewScheme(tvs []TypeVariable, t Type) *Scheme {
	free := t.FreeTypeVar()
	kept := make([]TypeVariable, 0, len(tvs))
	for _, tv := range tvs {
		if free.Contains(tv) {
			kept = append(kept, tv)
		}
	}
	return &Scheme{tvs: kept, t: t}
}

// Mono wraps t in a scheme with no quantified variables.
func Mono(t Type) *Scheme {
	return &Scheme{t: t}
}

// Type returns the underlying type and whether it's monomorphic
func (s *Scheme) Type() (Type, bool) {
	return s.t, len(s.tvs) == 0
}

// TypeVars returns the bound type variables
func (s *Scheme) TypeVars() []TypeVariable {
	return s.tvs
}

// Apply applies a substitution to a scheme, leaving bound variables alone.
func (s *Scheme) Apply(subs Subs) Substitutable {
	if len(subs) == 0 {
		return s
	}
	filtered := make(Subs, len(subs))
	for tv, t := range subs {
		filtered[tv] = t
	}
	for _, tv := range s.tvs {
		delete(filtered, tv)
	}
	return &Scheme{
		tvs: s.tvs,
		t:   s.t.Apply(filtered).(Type),
	}
}

// FreeTypeVar returns the free type variables in the scheme
func (s *Scheme) FreeTypeVar() TypeVarSet {
	ftvs := s.t.FreeTypeVar()
	for _, tv := range s.tvs {
		ftvs.Remove(tv)
	}
	return ftvs
}

// Normalize renames the quantified variables to a, b, c... in order of
// first appearance in the body. Free variables keep their names.
func (s *Scheme) Normalize() *Scheme {
	if len(s.tvs) == 0 {
		return s
	}
	bound := NewTypeVarSet(s.tvs...)
	renaming := NewSubs()
	var order []TypeVariable
	var walk func(Type)
	walk = func(t Type) {
		switch t := t.(type) {
		case TypeVariable:
			if bound.Contains(t) {
				if _, seen := renaming[t]; !seen {
					order = append(order, t)
					renaming[t] = TypeVariable(len(order) - 1)
				}
			}
		case *ConcreteType:
			for _, arg := range t.Args {
				walk(arg)
			}
		case *FunctionType:
			walk(t.arg)
			walk(t.ret)
		}
	}
	walk(s.t)

	// Keep free variables from colliding with the new names.
	next := TypeVariable(len(order))
	for _, tv := range s.FreeTypeVar().Slice() {
		if tv < next {
			for bound.Contains(next) || s.t.FreeTypeVar().Contains(next) {
				next++
			}
			renaming[tv] = next
			next++
		}
	}

	tvs := make([]TypeVariable, len(order))
	for i := range order {
		tvs[i] = TypeVariable(i)
	}
	return &Scheme{tvs: tvs, t: renameVars(s.t, renaming)}
}

// String returns a string representation
func (s *Scheme) String() string {
	if len(s.tvs) == 0 {
		return s.t.String()
	}
	names := make([]string, len(s.tvs))
	for i, tv := range s.tvs {
		names[i] = tv.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), s.t)
}
