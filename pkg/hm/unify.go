package hm

import (
	"fmt"
)

// UnificationError reports two types with no common instance.
type UnificationError struct {
	Expected Type
	Actual   Type
}

func (e UnificationError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.Expected, e.Actual)
}

// OccursCheckError reports an attempt to bind a variable to a type that
// contains it, which would produce an infinite type.
type OccursCheckError struct {
	Var  TypeVariable
	Type Type
}

func (e OccursCheckError) Error() string {
	return fmt.Sprintf("infinite type: %s occurs in %s", e.Var, e.Type)
}

// Unify attempts to unify two types, returning a substitution or error.
// Neither input is modified.
func Unify(t1, t2 Type) (Subs, error) {
	if tv1, ok := t1.(TypeVariable); ok {
		if tv2, ok := t2.(TypeVariable); ok && tv1 == tv2 {
			return NewSubs(), nil
		}
		return bindVar(tv1, t2)
	}
	if tv2, ok := t2.(TypeVariable); ok {
		return bindVar(tv2, t1)
	}

	switch a := t1.(type) {
	case *ConcreteType:
		b, ok := t2.(*ConcreteType)
		if !ok || a.TypeName != b.TypeName || len(a.Args) != len(b.Args) {
			return nil, UnificationError{Expected: t1, Actual: t2}
		}
		subs := NewSubs()
		for i := range a.Args {
			s, err := Unify(subs.Apply(a.Args[i]), subs.Apply(b.Args[i]))
			if err != nil {
				return nil, err
			}
			subs = subs.Compose(s)
		}
		return subs, nil

	case *FunctionType:
		b, ok := t2.(*FunctionType)
		if !ok {
			return nil, UnificationError{Expected: t1, Actual: t2}
		}
		s1, err := Unify(a.arg, b.arg)
		if err != nil {
			return nil, err
		}
		s2, err := Unify(s1.Apply(a.ret), s1.Apply(b.ret))
		if err != nil {
			return nil, err
		}
		return s1.Compose(s2), nil
	}

	return nil, UnificationError{Expected: t1, Actual: t2}
}

// bindVar binds a type variable to a type
func bindVar(tv TypeVariable, t Type) (Subs, error) {
	if tv2, ok := t.(TypeVariable); ok && tv == tv2 {
		return NewSubs(), nil
	}
	if occursCheck(tv, t) {
		return nil, OccursCheckError{Var: tv, Type: t}
	}
	return Singleton(tv, t), nil
}

// occursCheck checks if a type variable occurs in a type
func occursCheck(tv TypeVariable, t Type) bool {
	return t.FreeTypeVar().Contains(tv)
}
