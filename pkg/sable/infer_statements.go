package sable

import (
	"github.com/pkg/errors"

	"github.com/vito/sable/pkg/hm"
)

// inferStmtRecovering types stmt and returns the environment for the
// statements that follow it. On failure the error is recorded and every
// name stmt declares is bound to a fresh variable instead.
func (c *Inferrer) inferStmtRecovering(env *hm.Env, stmt Stmt, ret hm.Type) *hm.Env {
	next, err := c.inferStmt(env, stmt, ret)
	if err == nil {
		return next
	}
	c.errs.Add(WrapInferError(err, stmt))
	return c.assignFallbackType(env, stmt)
}

// assignFallbackType binds the names declared by a statement that failed
// to type, so later references do not cascade into unbound errors.
func (c *Inferrer) assignFallbackType(env *hm.Env, stmt Stmt) *hm.Env {
	for _, name := range stmt.DeclaredSymbols() {
		env = env.Extend(name, hm.Mono(c.fresh.Fresh()))
	}
	return env
}

// inferBlock types each statement of block in order in a new child frame.
func (c *Inferrer) inferBlock(env *hm.Env, block *Block, ret hm.Type) {
	inner := env.Child()
	for _, stmt := range block.Stmts {
		inner = c.inferStmtRecovering(inner, stmt, ret)
	}
}

// inferStmt types a single statement. ret is the result type of the
// enclosing function, or nil outside of one.
func (c *Inferrer) inferStmt(env *hm.Env, stmt Stmt, ret hm.Type) (*hm.Env, error) {
	switch s := stmt.(type) {
	case *Let:
		t, err := c.infer(env, s.Value)
		if err != nil {
			return env, err
		}
		s.Scheme = c.generalize(env, t)
		return env.Extend(s.Name, s.Scheme), nil

	case *Assign:
		targetT, err := c.assignTarget(env, s.Name, s)
		if err != nil {
			return env, err
		}
		valueT, err := c.infer(env, s.Value)
		if err != nil {
			return env, err
		}
		if err := c.unify(targetT, valueT, s.Value); err != nil {
			return env, err
		}
		return env, nil

	case *ExprStmt:
		_, err := c.infer(env, s.Expr)
		return env, err

	case *Return:
		if ret == nil {
			return env, NewInferError(errors.New("return outside of a function"), s)
		}
		if s.Value == nil {
			return env, c.unify(ret, hm.Unit, s)
		}
		valueT, err := c.infer(env, s.Value)
		if err != nil {
			return env, err
		}
		return env, c.unify(ret, valueT, s.Value)

	case *Break:
		return env, nil

	case *If:
		if err := c.inferCondition(env, s.Cond); err != nil {
			return env, err
		}
		c.inferBlock(env, s.Then, ret)
		if s.Else != nil {
			c.inferBlock(env, s.Else, ret)
		}
		return env, nil

	case *While:
		if err := c.inferCondition(env, s.Cond); err != nil {
			return env, err
		}
		c.inferBlock(env, s.Body, ret)
		return env, nil

	case *BlockStmt:
		c.inferBlock(env, s.Body, ret)
		return env, nil

	case *Fn:
		return c.inferFn(env, s), nil

	default:
		return env, errors.Errorf("unexpected statement %T", stmt)
	}
}

func (c *Inferrer) inferCondition(env *hm.Env, cond Expr) error {
	t, err := c.infer(env, cond)
	if err != nil {
		return err
	}
	return c.unify(hm.Bool, t, cond)
}

// inferFn types a function declaration. The function is monomorphic within
// its own body and generalized afterwards. A body without any return
// statement returns Unit.
func (c *Inferrer) inferFn(env *hm.Env, s *Fn) *hm.Env {
	params := make([]hm.Type, len(s.Params))
	for i := range s.Params {
		params[i] = c.fresh.Fresh()
	}
	ret := c.fresh.Fresh()
	fnT := hm.NewCurriedFnType(params, ret)

	bodyEnv := env.Child().Extend(s.Name, hm.Mono(fnT))
	for i, name := range s.Params {
		bodyEnv = bodyEnv.Extend(name, hm.Mono(params[i]))
	}
	c.inferBlock(bodyEnv, s.Body, ret)

	if !hasReturn(s.Body) {
		if err := c.unify(ret, hm.Unit, s); err != nil {
			c.errs.Add(err)
		}
	}

	s.Scheme = c.generalize(env, fnT)
	return env.Extend(s.Name, s.Scheme)
}

// hasReturn reports whether block contains a return belonging to the
// function it is the body of.
func hasReturn(block *Block) bool {
	found := false
	Walk(block, func(n Node) bool {
		switch n.(type) {
		case *Return:
			found = true
		case *Fn, Expr:
			return false
		}
		return !found
	})
	return found
}
