package hm

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is one of TypeVariable, *ConcreteType or *FunctionType. The set is
// closed; code switching over types may assume no other implementations.
type Type interface {
	Substitutable
	Name() string
	Types() Types
	Eq(Type) bool
	fmt.Stringer

	isType()
}

// Substitutable is any type that can have substitutions applied and knows its free type variables
type Substitutable interface {
	Apply(Subs) Substitutable
	FreeTypeVar() TypeVarSet
}

// TypeVariable represents a type variable, identified by the counter value
// it was allocated with.
type TypeVariable int

func (TypeVariable) isType() {}

func (tv TypeVariable) Name() string {
	return tv.String()
}

// Apply follows the substitution chain starting at tv to a fixed point.
func (tv TypeVariable) Apply(subs Subs) Substitutable {
	t, exists := subs[tv]
	if !exists {
		return tv
	}
	if same, ok := t.(TypeVariable); ok && same == tv {
		return tv
	}
	return t.Apply(subs)
}

func (tv TypeVariable) FreeTypeVar() TypeVarSet {
	return NewTypeVarSet(tv)
}

func (tv TypeVariable) Types() Types {
	return nil
}

func (tv TypeVariable) Eq(other Type) bool {
	if ot, ok := other.(TypeVariable); ok {
		return tv == ot
	}
	return false
}

const letters = `abcdefghijklmnopqrstuvwxyz`

func (tv TypeVariable) String() string {
	if tv >= 0 && int(tv) < len(letters) {
		return string(letters[tv])
	}
	return "t" + strconv.Itoa(int(tv))
}

// ConcreteType is a named type constructor applied to zero or more
// arguments: Int, Bool, List Int.
type ConcreteType struct {
	TypeName string
	Args     Types
}

func (*ConcreteType) isType() {}

// NewConcrete constructs a concrete type.
func NewConcrete(name string, args ...Type) *ConcreteType {
	return &ConcreteType{TypeName: name, Args: args}
}

func (ct *ConcreteType) Name() string {
	return ct.TypeName
}

func (ct *ConcreteType) Apply(subs Subs) Substitutable {
	if len(ct.Args) == 0 || len(subs) == 0 {
		return ct
	}
	args := make(Types, len(ct.Args))
	for i, arg := range ct.Args {
		args[i] = arg.Apply(subs).(Type)
	}
	return &ConcreteType{TypeName: ct.TypeName, Args: args}
}

func (ct *ConcreteType) FreeTypeVar() TypeVarSet {
	ftvs := NewTypeVarSet()
	for _, arg := range ct.Args {
		ftvs.InsertAll(arg.FreeTypeVar())
	}
	return ftvs
}

func (ct *ConcreteType) Types() Types {
	return ct.Args
}

func (ct *ConcreteType) Eq(other Type) bool {
	ot, ok := other.(*ConcreteType)
	if !ok || ot.TypeName != ct.TypeName || len(ot.Args) != len(ct.Args) {
		return false
	}
	for i := range ct.Args {
		if !ct.Args[i].Eq(ot.Args[i]) {
			return false
		}
	}
	return true
}

func (ct *ConcreteType) String() string {
	if len(ct.Args) == 0 {
		return ct.TypeName
	}
	var sb strings.Builder
	sb.WriteString(ct.TypeName)
	for _, arg := range ct.Args {
		sb.WriteByte(' ')
		switch a := arg.(type) {
		case *FunctionType:
			sb.WriteString("(" + a.String() + ")")
		case *ConcreteType:
			if len(a.Args) > 0 {
				sb.WriteString("(" + a.String() + ")")
			} else {
				sb.WriteString(a.String())
			}
		default:
			sb.WriteString(a.String())
		}
	}
	return sb.String()
}

// FunctionType represents a function type
type FunctionType struct {
	arg Type
	ret Type
}

func (*FunctionType) isType() {}

func NewFnType(arg, ret Type) *FunctionType {
	return &FunctionType{arg: arg, ret: ret}
}

// NewCurriedFnType builds params[0] -> params[1] -> ... -> ret. With no
// params the result is Unit -> ret.
func NewCurriedFnType(params []Type, ret Type) *FunctionType {
	if len(params) == 0 {
		return NewFnType(Unit, ret)
	}
	t := ret
	for i := len(params) - 1; i >= 0; i-- {
		t = NewFnType(params[i], t)
	}
	return t.(*FunctionType)
}

func (ft *FunctionType) Name() string {
	return ft.String()
}

func (ft *FunctionType) Apply(subs Subs) Substitutable {
	if len(subs) == 0 {
		return ft
	}
	return &FunctionType{
		arg: ft.arg.Apply(subs).(Type),
		ret: ft.ret.Apply(subs).(Type),
	}
}

func (ft *FunctionType) FreeTypeVar() TypeVarSet {
	return ft.arg.FreeTypeVar().Union(ft.ret.FreeTypeVar())
}

func (ft *FunctionType) Types() Types {
	return Types{ft.arg, ft.ret}
}

func (ft *FunctionType) Eq(other Type) bool {
	if ot, ok := other.(*FunctionType); ok {
		return ft.arg.Eq(ot.arg) && ft.ret.Eq(ot.ret)
	}
	return false
}

func (ft *FunctionType) String() string {
	arg := ft.arg.String()
	if _, ok := ft.arg.(*FunctionType); ok {
		arg = "(" + arg + ")"
	}
	return arg + " -> " + ft.ret.String()
}

// Arg returns the argument type
func (ft *FunctionType) Arg() Type {
	return ft.arg
}

// Ret returns the return type
func (ft *FunctionType) Ret() Type {
	return ft.ret
}

// Types represents a slice of types
type Types []Type

// Built-in concrete types.
var (
	Int    = NewConcrete("Int")
	Bool   = NewConcrete("Bool")
	String = NewConcrete("String")
	Unit   = NewConcrete("Unit")
)

// Normalize renames the type variables of t to 0, 1, 2... in order of first
// appearance, so that types which differ only by the choice of generated
// variables compare equal.
func Normalize(t Type) Type {
	subs := NewSubs()
	next := 0
	var walk func(Type)
	walk = func(t Type) {
		switch t := t.(type) {
		case TypeVariable:
			if _, seen := subs[t]; !seen {
				subs[t] = TypeVariable(next)
				next++
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
	walk(t)
	return renameVars(t, subs)
}

// renameVars applies a variable-to-variable renaming in a single pass, so
// that renamings such as {a ↦ b, b ↦ a} do not chain.
func renameVars(t Type, renaming Subs) Type {
	switch t := t.(type) {
	case TypeVariable:
		if r, ok := renaming[t]; ok {
			return r
		}
		return t
	case *ConcreteType:
		if len(t.Args) == 0 {
			return t
		}
		args := make(Types, len(t.Args))
		for i, arg := range t.Args {
			args[i] = renameVars(arg, renaming)
		}
		return &ConcreteType{TypeName: t.TypeName, Args: args}
	case *FunctionType:
		return NewFnType(renameVars(t.arg, renaming), renameVars(t.ret, renaming))
	default:
		panic(fmt.Sprintf("unexpected type %T", t))
	}
}
