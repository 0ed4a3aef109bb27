// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package ast is the syntax tree of ty source files.
//
// All nodes are pointers,
// so they can be used as identity keys of a typing.Context.
package ast

import "github.com/eaburns/ty/loc"

// A File is a single source code file.
type File struct {
	loc.Range
	Path string
	Vals []*Val
	// Locs are the locations of the parsed files.
	Locs *loc.Files
}

// A Node is a node of the AST with location information.
type Node interface {
	GetRange() loc.Range
}

// An Expr is an expression.
type Expr interface {
	Node
	isExpr()
}

// A Var is a variable declaration: the name bound by a val or a let.
type Var struct {
	loc.Range
	Name string
}

// A Val is a module-level value definition.
//
//	val Name = Expr
type Val struct {
	loc.Range
	Var  *Var
	Expr Expr
}

// A Let binds a variable within the body expression.
//
//	let Name = Expr in Body
type Let struct {
	loc.Range
	Var  *Var
	Expr Expr
	Body Expr
}

// An If is a conditional expression.
//
//	if Cond then Then else Else
type If struct {
	loc.Range
	Cond Expr
	Then Expr
	Else Expr
}

// A Call is a function call or an infix operator.
type Call struct {
	loc.Range
	// Fun is the name of the function or the operator.
	Fun string
	// FunRange is the range of the function name or the operator.
	FunRange loc.Range
	Args     []Expr
	// Infix is whether the call is an infix operator.
	Infix bool
}

// An Ident is a reference to a variable.
type Ident struct {
	loc.Range
	Name string
}

// An Int is an integer literal.
type Int struct {
	loc.Range
	Text string
}

// A String is a string literal.
// Text includes the quotes; Data is the unquoted value.
type String struct {
	loc.Range
	Text string
	Data string
}

// A Bool is a boolean literal.
type Bool struct {
	loc.Range
	Value bool
}

// A Paren is a parenthesized expression.
type Paren struct {
	loc.Range
	Expr Expr
}

func (*Let) isExpr()    {}
func (*If) isExpr()     {}
func (*Call) isExpr()   {}
func (*Ident) isExpr()  {}
func (*Int) isExpr()    {}
func (*String) isExpr() {}
func (*Bool) isExpr()   {}
func (*Paren) isExpr()  {}
