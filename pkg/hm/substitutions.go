package hm

import (
	"slices"
	"strings"
)

// Subs represents a substitution mapping from type variables to types
type Subs map[TypeVariable]Type

// NewSubs creates a new substitution
func NewSubs() Subs {
	return make(Subs)
}

// Singleton returns the substitution {tv ↦ t}.
func Singleton(tv TypeVariable, t Type) Subs {
	return Subs{tv: t}
}

// Apply applies a substitution to a type
func (s Subs) Apply(t Type) Type {
	return t.Apply(s).(Type)
}

// Compose returns a substitution equivalent to applying s first and then
// other: other is applied to the codomain of s, and bindings from other for
// variables s does not mention are added.
func (s Subs) Compose(other Subs) Subs {
	result := make(Subs, len(s)+len(other))
	for tv, t := range s {
		result[tv] = t.Apply(other).(Type)
	}
	for tv, t := range other {
		if _, exists := result[tv]; !exists {
			result[tv] = t
		}
	}
	return result
}

// Get gets a type for a type variable
func (s Subs) Get(tv TypeVariable) (Type, bool) {
	t, exists := s[tv]
	return t, exists
}

// Domain returns the substituted variables in ascending order.
func (s Subs) Domain() []TypeVariable {
	vars := make([]TypeVariable, 0, len(s))
	for tv := range s {
		vars = append(vars, tv)
	}
	slices.Sort(vars)
	return vars
}

// Idempotent reports whether applying s twice gives the same result as
// applying it once, i.e. no variable in the domain occurs in the codomain
// after resolution.
func (s Subs) Idempotent() bool {
	for _, t := range s {
		once := s.Apply(t)
		if !s.Apply(once).Eq(once) {
			return false
		}
		for _, tv := range once.FreeTypeVar().Slice() {
			if bound, ok := s[tv]; ok && !bound.Eq(tv) {
				return false
			}
		}
	}
	return true
}

func (s Subs) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, tv := range s.Domain() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tv.String())
		sb.WriteString(" ↦ ")
		sb.WriteString(s[tv].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
