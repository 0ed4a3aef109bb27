package types

import "github.com/eaburns/ty/ast"

// A scope is an immutable chain of variable bindings.
// The nil *scope is the empty scope.
type scope struct {
	up *scope
	v  *ast.Var
}

func (x *scope) bind(v *ast.Var) *scope {
	return &scope{up: x, v: v}
}

func (x *scope) find(name string) *ast.Var {
	switch {
	case x == nil:
		return nil
	case x.v.Name == name:
		return x.v
	default:
		return x.up.find(name)
	}
}
