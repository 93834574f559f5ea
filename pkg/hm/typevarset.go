package hm

import (
	"slices"

	"github.com/hashicorp/go-set/v3"
)

// TypeVarSet represents a set of type variables
type TypeVarSet struct {
	s *set.Set[TypeVariable]
}

// NewTypeVarSet creates a new TypeVarSet
func NewTypeVarSet(tvs ...TypeVariable) TypeVarSet {
	return TypeVarSet{s: set.From(tvs)}
}

func (tvs TypeVarSet) inner() *set.Set[TypeVariable] {
	if tvs.s == nil {
		return set.New[TypeVariable](0)
	}
	return tvs.s
}

// Union returns the union of two TypeVarSets
func (tvs TypeVarSet) Union(other TypeVarSet) TypeVarSet {
	result := NewTypeVarSet(tvs.Slice()...)
	result.InsertAll(other)
	return result
}

// Difference returns the variables of tvs that are not in other.
func (tvs TypeVarSet) Difference(other TypeVarSet) TypeVarSet {
	result := NewTypeVarSet()
	for tv := range tvs.inner().Items() {
		if !other.Contains(tv) {
			result.Add(tv)
		}
	}
	return result
}

// Contains checks if a type variable is in the set
func (tvs TypeVarSet) Contains(tv TypeVariable) bool {
	return tvs.s != nil && tvs.s.Contains(tv)
}

// Add adds a type variable to the set
func (tvs TypeVarSet) Add(tv TypeVariable) {
	tvs.s.Insert(tv)
}

// InsertAll adds every variable of other to the set.
func (tvs TypeVarSet) InsertAll(other TypeVarSet) {
	for tv := range other.inner().Items() {
		tvs.s.Insert(tv)
	}
}

// Remove removes a type variable from the set
func (tvs TypeVarSet) Remove(tv TypeVariable) {
	if tvs.s != nil {
		tvs.s.Remove(tv)
	}
}

func (tvs TypeVarSet) Len() int {
	if tvs.s == nil {
		return 0
	}
	return tvs.s.Size()
}

func (tvs TypeVarSet) Empty() bool {
	return tvs.Len() == 0
}

// Slice returns the variables in ascending order.
func (tvs TypeVarSet) Slice() []TypeVariable {
	if tvs.s == nil {
		return nil
	}
	vars := tvs.s.Slice()
	slices.Sort(vars)
	return vars
}
