package sable

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/vito/sable/pkg/hm"
)

// InferenceErrors accumulates multiple errors during type inference
type InferenceErrors struct {
	Errors []error
}

func (ie *InferenceErrors) Add(err error) {
	if err != nil {
		ie.Errors = append(ie.Errors, err)
	}
}

func (ie *InferenceErrors) Unwrap() []error {
	return ie.Errors
}

func (ie *InferenceErrors) HasErrors() bool {
	return len(ie.Errors) > 0
}

func (ie *InferenceErrors) Error() string {
	if len(ie.Errors) == 0 {
		return "no errors"
	}
	if len(ie.Errors) == 1 {
		return ie.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d type errors:", len(ie.Errors))
	for i, err := range ie.Errors {
		msg += fmt.Sprintf("\n  %d: %s", i+1, err)
	}
	return msg
}

// Diagnostics converts the accumulated errors, in the order they were
// found.
func (ie *InferenceErrors) Diagnostics() Diagnostics {
	diags := make(Diagnostics, 0, len(ie.Errors))
	for _, err := range ie.Errors {
		diags = append(diags, ConvertInferError(err))
	}
	return diags
}

// Inferrer runs Algorithm W over one compilation unit. It owns the unit's
// fresh-variable counter and the substitution accumulated so far, so
// separate units never share state.
type Inferrer struct {
	fresh *hm.Counter
	subs  hm.Subs
	errs  InferenceErrors
}

// NewInferrer creates an Inferrer whose first fresh variable is start.
func NewInferrer(start int) *Inferrer {
	return &Inferrer{
		fresh: hm.NewCounter(start),
		subs:  hm.NewSubs(),
	}
}

// Subs returns the substitution accumulated so far.
func (c *Inferrer) Subs() hm.Subs {
	return c.subs
}

// Errors returns the errors collected so far.
func (c *Inferrer) Errors() *InferenceErrors {
	return &c.errs
}

// InferProgram types every statement of prog in env. A statement that
// fails to type is reported and its declared names are bound to fresh
// variables, so that later statements are still checked.
func (c *Inferrer) InferProgram(ctx context.Context, env *hm.Env, prog *Program) (*hm.Env, error) {
	for _, stmt := range prog.Body.Stmts {
		if err := ctx.Err(); err != nil {
			return env, err
		}
		env = c.inferStmtRecovering(env, stmt, nil)
	}
	prog.Subs = c.subs
	return env, nil
}

// InferExpr types a single expression in env.
func (c *Inferrer) InferExpr(env *hm.Env, e Expr) (hm.Type, error) {
	t, err := c.infer(env, e)
	if err != nil {
		return nil, err
	}
	return c.subs.Apply(t), nil
}

func (c *Inferrer) apply(t hm.Type) hm.Type {
	return c.subs.Apply(t)
}

// unify unifies expected with actual under the current substitution and
// extends the substitution with the result.
func (c *Inferrer) unify(expected, actual hm.Type, node SourceLocatable) error {
	s, err := hm.Unify(c.apply(expected), c.apply(actual))
	if err != nil {
		return NewInferError(err, node)
	}
	c.subs = c.subs.Compose(s)
	return nil
}

// generalize quantifies t over the variables not free in env.
func (c *Inferrer) generalize(env *hm.Env, t hm.Type) *hm.Scheme {
	return hm.Generalize(env, c.subs, t)
}

func (c *Inferrer) infer(env *hm.Env, e Expr) (hm.Type, error) {
	t, err := c.inferExpr(env, e)
	if err != nil {
		return nil, err
	}
	e.SetInferredType(t)
	return t, nil
}

func (c *Inferrer) inferExpr(env *hm.Env, e Expr) (hm.Type, error) {
	switch e := e.(type) {
	case *NumberLiteral:
		return hm.Int, nil

	case *BoolLiteral:
		return hm.Bool, nil

	case *StringLiteral:
		return hm.String, nil

	case *Identifier:
		scheme, found := env.Lookup(e.Name)
		if !found {
			return nil, NewInferError(UnboundVariableError{Name: e.Name}, e)
		}
		return hm.Instantiate(c.fresh, scheme), nil

	case *Unary:
		operandT, err := c.infer(env, e.Operand)
		if err != nil {
			return nil, err
		}
		sig, ok := unarySignatures[e.Op]
		if !ok {
			return nil, NewInferError(errors.Errorf("unknown prefix operator %q", e.Op), e)
		}
		fn := hm.Instantiate(c.fresh, sig).(*hm.FunctionType)
		if err := c.unify(fn.Arg(), operandT, e.Operand); err != nil {
			return nil, err
		}
		return fn.Ret(), nil

	case *Binary:
		return c.inferBinary(env, e)

	case *Call:
		return c.inferCall(env, e)

	case *Lambda:
		inner := env.Child()
		params := make([]hm.Type, len(e.Params))
		for i, name := range e.Params {
			tv := c.fresh.Fresh()
			params[i] = tv
			inner = inner.Extend(name, hm.Mono(tv))
		}
		bodyT, err := c.infer(inner, e.Body)
		if err != nil {
			return nil, err
		}
		return hm.NewCurriedFnType(params, bodyT), nil

	default:
		return nil, errors.Errorf("unexpected expression %T", e)
	}
}

func (c *Inferrer) inferBinary(env *hm.Env, e *Binary) (hm.Type, error) {
	sig, ok := binarySignatures[e.Op]
	if !ok {
		return nil, NewInferError(errors.Errorf("unknown operator %q", e.Op), e)
	}
	fn := hm.Instantiate(c.fresh, sig).(*hm.FunctionType)
	rest := fn.Ret().(*hm.FunctionType)

	var leftT hm.Type
	if e.Op == "=" {
		target, ok := e.Left.(*Identifier)
		if !ok {
			return nil, NewInferError(errors.New("assignment target must be a name"), e.Left)
		}
		t, err := c.assignTarget(env, target.Name, target)
		if err != nil {
			return nil, err
		}
		target.SetInferredType(t)
		leftT = t
	} else {
		t, err := c.infer(env, e.Left)
		if err != nil {
			return nil, err
		}
		leftT = t
	}

	// both operands are typed before either is checked against the operator
	rightT, err := c.infer(env, e.Right)
	if err != nil {
		return nil, err
	}
	if err := c.unify(fn.Arg(), leftT, e.Left); err != nil {
		return nil, err
	}
	if err := c.unify(rest.Arg(), rightT, e.Right); err != nil {
		return nil, err
	}
	return rest.Ret(), nil
}

// assignTarget returns the type a value assigned to name must have. Only
// monomorphic bindings can be assigned.
func (c *Inferrer) assignTarget(env *hm.Env, name string, node SourceLocatable) (hm.Type, error) {
	scheme, found := env.Lookup(name)
	if !found {
		return nil, NewInferError(UnboundVariableError{Name: name}, node)
	}
	t, mono := scheme.Type()
	if !mono {
		return nil, NewInferError(PolymorphicAssignmentError{Name: name, Scheme: scheme}, node)
	}
	return t, nil
}

// inferCall types every argument left to right, then applies the callee to
// each in turn. A call with no arguments applies it to Unit.
func (c *Inferrer) inferCall(env *hm.Env, e *Call) (hm.Type, error) {
	calleeT, err := c.infer(env, e.Callee)
	if err != nil {
		return nil, err
	}

	if len(e.Args) == 0 {
		ret := c.fresh.Fresh()
		if err := c.unify(calleeT, hm.NewFnType(hm.Unit, ret), e); err != nil {
			return nil, err
		}
		return ret, nil
	}

	argTs := make([]hm.Type, len(e.Args))
	for i, arg := range e.Args {
		argT, err := c.infer(env, arg)
		if err != nil {
			return nil, err
		}
		argTs[i] = argT
	}

	fnT := calleeT
	for i, arg := range e.Args {
		argT := argTs[i]
		if fn, ok := c.apply(fnT).(*hm.FunctionType); ok {
			if err := c.unify(fn.Arg(), argT, arg); err != nil {
				return nil, err
			}
			fnT = fn.Ret()
			continue
		}
		ret := c.fresh.Fresh()
		if err := c.unify(fnT, hm.NewFnType(argT, ret), e); err != nil {
			return nil, err
		}
		fnT = ret
	}
	return fnT, nil
}
