// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"strconv"
	"strings"

	"github.com/eaburns/ty/ast"
	"github.com/eaburns/ty/typing"
)

// A Checker type-checks ty vals and expressions,
// recording their types and errors into a typing.Context.
//
// Type errors are recorded into the Context;
// the error results of the Checker's methods
// are internal errors from the Context itself,
// such as typing.ErrStaleContext.
type Checker struct {
	*state
	// x are the declared vals.
	x *scope
}

// NewChecker returns a new Checker with no declared vals.
func NewChecker(cfg Config) *Checker {
	return &Checker{state: newState(cfg)}
}

// Check type-checks a file in a new root typing.Context.
// Vals may refer to vals defined before them in the file.
func Check(f *ast.File, cfg Config) (*typing.Context, error) {
	if cfg.Locs == nil {
		cfg.Locs = f.Locs
	}
	c := NewChecker(cfg)
	ctx := c.NewContext()
	return ctx, c.CheckFile(ctx, f)
}

// CheckFile type-checks the vals of a file,
// declaring each after it is checked.
func (c *Checker) CheckFile(ctx *typing.Context, f *ast.File) error {
	seen := make(map[string]*ast.Val)
	for _, v := range f.Vals {
		if prev, ok := seen[v.Var.Name]; ok {
			err := c.err(v.Var, "%s redefined", v.Var.Name)
			note(err, "previous definition is at %s", c.loc(prev.Var))
			ctx.AddError(err)
		}
		seen[v.Var.Name] = v
		if err := c.CheckVal(ctx, v); err != nil {
			return err
		}
		c.Declare(v)
	}
	return nil
}

// Declare makes a val visible to subsequently checked vals and expressions.
// Its type must be recorded in the Context used to check them.
func (c *Checker) Declare(v *ast.Val) {
	c.x = c.x.bind(v.Var)
}

// CheckVal type-checks a val definition
// and records the type of its variable.
// The val is not declared.
func (c *Checker) CheckVal(ctx *typing.Context, v *ast.Val) (err error) {
	var t Type
	defer c.tr("CheckVal(%s)", v.Var.Name)(&t)
	if t, err = c.expr(ctx, c.x, v.Expr); err != nil {
		return err
	}
	ctx.RecordVar(v.Var, t)
	record(ctx, v.Var, t)
	record(ctx, v, t)
	return nil
}

// CheckExpr type-checks an expression and returns its type.
func (c *Checker) CheckExpr(ctx *typing.Context, e ast.Expr) (Type, error) {
	return c.expr(ctx, c.x, e)
}

func record(ctx *typing.Context, n ast.Node, t Type) Type {
	ctx.Record(n, t)
	return t
}

func (c *Checker) expr(ctx *typing.Context, x *scope, e ast.Expr) (Type, error) {
	switch e := e.(type) {
	case *ast.Int:
		if _, err := strconv.ParseInt(e.Text, 10, 64); err != nil {
			ctx.AddError(c.err(e, "integer literal %s overflows Int", e.Text))
		}
		return record(ctx, e, Int), nil
	case *ast.String:
		return record(ctx, e, String), nil
	case *ast.Bool:
		return record(ctx, e, Bool), nil
	case *ast.Paren:
		t, err := c.expr(ctx, x, e.Expr)
		if err != nil {
			return nil, err
		}
		return record(ctx, e, t), nil
	case *ast.Ident:
		return c.ident(ctx, x, e)
	case *ast.Let:
		return c.let(ctx, x, e)
	case *ast.If:
		return c.ifExpr(ctx, x, e)
	case *ast.Call:
		return c.call(ctx, x, e)
	default:
		panic("impossible")
	}
}

func (c *Checker) ident(ctx *typing.Context, x *scope, id *ast.Ident) (Type, error) {
	v := x.find(id.Name)
	if v == nil {
		ctx.AddError(c.err(id, "undefined: %s", id.Name))
		return record(ctx, id, Invalid), nil
	}
	t, err := ctx.VarTypeOf(v)
	if err != nil {
		return nil, err
	}
	return record(ctx, id, t.(Type)), nil
}

func (c *Checker) let(ctx *typing.Context, x *scope, let *ast.Let) (t Type, err error) {
	defer c.tr("let(%s)", let.Var.Name)(&t)
	if t, err = c.expr(ctx, x, let.Expr); err != nil {
		return nil, err
	}
	ctx.RecordVar(let.Var, t)
	record(ctx, let.Var, t)
	if t, err = c.expr(ctx, x.bind(let.Var), let.Body); err != nil {
		return nil, err
	}
	return record(ctx, let, t), nil
}

func (c *Checker) ifExpr(ctx *typing.Context, x *scope, e *ast.If) (t Type, err error) {
	defer c.tr("if")(&t)
	cond, err := c.expr(ctx, x, e.Cond)
	if err != nil {
		return nil, err
	}
	if !Assignable(cond, Bool) {
		ctx.AddError(c.err(e.Cond, "if condition has type %s, want Bool", cond))
	}
	then, err := c.expr(ctx, x, e.Then)
	if err != nil {
		return nil, err
	}
	els, err := c.expr(ctx, x, e.Else)
	if err != nil {
		return nil, err
	}
	return record(ctx, e, Join(then, els)), nil
}

// call resolves the overload of a call.
//
// The arguments are checked once, in ctx;
// their types do not depend on the overload.
// Each overload is then tried in a child Context
// that records the call's result type,
// and the first whose parameters accept the argument types is committed.
// If none does, and an argument has a union type,
// the call is split on the cases of the union arguments:
// each combination of cases must match an overload,
// and the result is the union of their results.
// Otherwise the call is an error.
func (c *Checker) call(ctx *typing.Context, x *scope, call *ast.Call) (t Type, err error) {
	defer c.tr("call(%s)", call.Fun)(&t)
	fun := c.cfg.Prelude.Funcs[call.Fun]
	if fun == nil {
		ctx.AddError(c.err(call, "undefined function: %s", call.Fun))
	}
	args, err := c.exprs(ctx, x, call.Args)
	if err != nil {
		return nil, err
	}
	if fun == nil || hasInvalid(args) {
		return record(ctx, call, Invalid), nil
	}
	for _, sig := range fun.Overloads {
		sig := sig
		ok, err := ctx.Try(func(child *typing.Context) bool {
			if !accepts(sig, args) {
				return false
			}
			c.log("matched %s%s", fun.Name, sig)
			record(child, call, sig.Result)
			return true
		})
		switch {
		case err != nil:
			return nil, err
		case ok:
			return sig.Result, nil
		}
	}
	if hasUnion(args) {
		if result := splitCases(fun, args); result != nil {
			c.log("split %s: %s", fun.Name, result)
			return record(ctx, call, result), nil
		}
	}
	ctx.AddError(overloadError(c, call, fun, args))
	return record(ctx, call, Invalid), nil
}

func (c *Checker) exprs(ctx *typing.Context, x *scope, es []ast.Expr) ([]Type, error) {
	var ts []Type
	for _, e := range es {
		t, err := c.expr(ctx, x, e)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}

func hasInvalid(ts []Type) bool {
	for _, t := range ts {
		if t == Invalid {
			return true
		}
	}
	return false
}

func hasUnion(ts []Type) bool {
	for _, t := range ts {
		if _, ok := t.(*Union); ok {
			return true
		}
	}
	return false
}

func accepts(sig *Sig, args []Type) bool {
	if len(sig.Params) != len(args) {
		return false
	}
	for i, a := range args {
		if !Assignable(a, sig.Params[i]) {
			return false
		}
	}
	return true
}

// splitCases returns the union of the results
// of the overloads matching each combination of argument cases,
// or nil if some combination matches no overload.
func splitCases(fun *Func, args []Type) Type {
	var results []Type
	combo := make([]Type, len(args))
	var split func(int) bool
	split = func(i int) bool {
		if i == len(args) {
			for _, sig := range fun.Overloads {
				if accepts(sig, combo) {
					results = append(results, sig.Result)
					return true
				}
			}
			return false
		}
		for _, c := range args[i].cases() {
			combo[i] = c
			if !split(i + 1) {
				return false
			}
		}
		return true
	}
	if !split(0) {
		return nil
	}
	return Join(results...)
}

func overloadError(c *Checker, call *ast.Call, fun *Func, args []Type) *checkError {
	var argStrs []string
	for _, a := range args {
		argStrs = append(argStrs, a.String())
	}
	err := c.err(call, "%s has no overload for (%s)", fun.Name, strings.Join(argStrs, ", "))
	for _, sig := range fun.Overloads {
		note(err, "candidate %s%s", fun.Name, sig)
	}
	return err
}
