package hm

import (
	"github.com/benbjohnson/immutable"
)

var emptyFrame = immutable.NewSortedMap(nil)

// Env is a type environment: a chain of persistent frames mapping names to
// schemes. Extending an Env never modifies it, so a parent frame may be
// shared freely between children.
type Env struct {
	parent *Env
	frame  *immutable.SortedMap
}

// NewEnv creates an empty root environment.
func NewEnv() *Env {
	return &Env{frame: emptyFrame}
}

// Child opens a new, empty frame on top of env.
func (env *Env) Child() *Env {
	return &Env{parent: env, frame: emptyFrame}
}

// Parent returns the enclosing frame, or nil at the root.
func (env *Env) Parent() *Env {
	return env.parent
}

// Extend returns an environment whose innermost frame additionally binds
// name. env is left unchanged.
func (env *Env) Extend(name string, scheme *Scheme) *Env {
	return &Env{parent: env.parent, frame: env.frame.Set(name, scheme)}
}

// Lookup finds name, searching from the innermost frame outwards.
func (env *Env) Lookup(name string) (*Scheme, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.frame.Get(name); ok {
			return v.(*Scheme), true
		}
	}
	return nil, false
}

// LocalNames returns the names bound in the innermost frame, sorted.
func (env *Env) LocalNames() []string {
	names := make([]string, 0, env.frame.Len())
	iter := env.frame.Iterator()
	for !iter.Done() {
		k, _ := iter.Next()
		names = append(names, k.(string))
	}
	return names
}

// FreeTypeVar returns the free type variables of every visible binding.
// Bindings shadowed by an inner frame do not contribute.
func (env *Env) FreeTypeVar() TypeVarSet {
	ftvs := NewTypeVarSet()
	seen := map[string]bool{}
	for e := env; e != nil; e = e.parent {
		iter := e.frame.Iterator()
		for !iter.Done() {
			k, v := iter.Next()
			name := k.(string)
			if seen[name] {
				continue
			}
			seen[name] = true
			ftvs.InsertAll(v.(*Scheme).FreeTypeVar())
		}
	}
	return ftvs
}

// Apply applies a substitution to every binding, producing a new chain.
func (env *Env) Apply(subs Subs) Substitutable {
	return env.apply(subs)
}

func (env *Env) apply(subs Subs) *Env {
	if env == nil {
		return nil
	}
	frame := env.frame
	iter := env.frame.Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		frame = frame.Set(k, v.(*Scheme).Apply(subs))
	}
	return &Env{parent: env.parent.apply(subs), frame: frame}
}
