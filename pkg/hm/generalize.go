package hm

// Generalize quantifies the variables that are free in subs(t) but not free
// in subs(env). Quantified variables are listed in ascending order.
func Generalize(env *Env, subs Subs, t Type) *Scheme {
	t = subs.Apply(t)
	envFtvs := NewTypeVarSet()
	for _, tv := range env.FreeTypeVar().Slice() {
		envFtvs.InsertAll(subs.Apply(tv).FreeTypeVar())
	}
	return NewScheme(t.FreeTypeVar().Difference(envFtvs).Slice(), t)
}

// Instantiate replaces every quantified variable of scheme with a fresh one.
func Instantiate(fresher Fresher, scheme *Scheme) Type {
	if len(scheme.tvs) == 0 {
		return scheme.t
	}
	renaming := NewSubs()
	for _, tv := range scheme.tvs {
		renaming[tv] = fresher.Fresh()
	}
	return renameVars(scheme.t, renaming)
}

// Fresher interface for generating fresh type variables
type Fresher interface {
	Fresh() TypeVariable
}

// Counter hands out type variables in increasing order. Each compilation
// unit owns one; it is not safe for concurrent use.
type Counter struct {
	next int
}

// NewCounter creates a Counter whose first variable is start.
func NewCounter(start int) *Counter {
	return &Counter{next: start}
}

// Fresh generates a fresh type variable
func (c *Counter) Fresh() TypeVariable {
	tv := TypeVariable(c.next)
	c.next++
	return tv
}

// Peek returns the variable the next call to Fresh will return.
func (c *Counter) Peek() TypeVariable {
	return TypeVariable(c.next)
}
