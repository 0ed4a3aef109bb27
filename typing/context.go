// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package typing is a hierarchical, versioned store
// of the types and type errors found by a type checker.
//
// A root Context holds confirmed results.
// A child Context, created with Child, is a speculative branch:
// the checker records into it freely,
// then either folds it into its parent with Commit
// or simply drops it.
// Lookups search the child first and then its ancestors.
//
// Each Context has a version.
// The first record made on a Context after it spawns a child
// increments its version.
// A child remembers its parent's version at the time it was spawned,
// and Commit fails if the parent has since changed.
//
// A Context is not safe for concurrent use.
package typing

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// A Node is a syntax node handle.
//
// Nodes are map keys compared by identity:
// they must be pointers (or other comparable handles)
// that are distinct for distinct syntax nodes,
// even if the nodes are structurally identical.
type Node interface{}

// A Var is a variable handle, compared by identity like a Node.
// Vars are a separate namespace from Nodes.
type Var interface{}

// A Type is an inferred type. The Context never inspects it.
type Type interface{}

// An Error is a type error found by the checker.
type Error interface {
	error
	// Node returns the node that the error concerns.
	Node() Node
}

// Config are configuration parameters for a Context tree.
type Config struct {
	// Trace is whether to enable debug tracing.
	Trace bool
	// Out is where the trace is written (default=os.Stdout).
	Out io.Writer
}

// A Context records node types, variable types, and type errors.
type Context struct {
	cfg    *Config
	depth  int
	parent *Context

	// snapshot is the parent's version when this Context was spawned.
	snapshot int
	version  int
	// pending is set when a child is spawned
	// and cleared by the next record.
	pending bool

	nodes    map[Node]Type
	nodeList []Node
	vars     map[Var]Type
	varList  []Var
	errs     []Error
}

// New returns a new root Context with version 0.
func New() *Context {
	return NewWithConfig(Config{})
}

// NewWithConfig returns a new root Context with the given config.
// Children of the root share the config.
func NewWithConfig(cfg Config) *Context {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Context{
		cfg:   &cfg,
		nodes: make(map[Node]Type),
		vars:  make(map[Var]Type),
	}
}

// Child returns a new child Context.
//
// The child starts at the receiver's version,
// and the receiver's next record increments its version.
// Siblings may be spawned in sequence,
// but at most the first to commit after the parent's last record
// commits successfully.
func (c *Context) Child() *Context {
	c.pending = true
	c.log("child v%d", c.version)
	return &Context{
		cfg:      c.cfg,
		depth:    c.depth + 1,
		parent:   c,
		snapshot: c.version,
		version:  c.version,
		nodes:    make(map[Node]Type),
		vars:     make(map[Var]Type),
	}
}

// Try runs f on a new child Context,
// and commits the child if f returns true.
// The returned bool is whether the child was committed;
// the returned error is the Commit error, if any.
func (c *Context) Try(f func(*Context) bool) (bool, error) {
	child := c.Child()
	if !f(child) {
		c.log("drop v%d", child.version)
		return false, nil
	}
	if err := child.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Parent returns the parent Context or nil for a root Context.
func (c *Context) Parent() *Context { return c.parent }

// Root returns whether the Context is a root.
func (c *Context) Root() bool { return c.parent == nil }

// Version returns the Context's version.
func (c *Context) Version() int { return c.version }

// Len returns the number of node types recorded locally.
func (c *Context) Len() int { return len(c.nodeList) }

// Record records the type of a node in this Context and returns the type.
// A previous type of the node recorded in this Context is replaced.
func (c *Context) Record(n Node, t Type) Type {
	if _, ok := c.nodes[n]; !ok {
		c.nodeList = append(c.nodeList, n)
	}
	c.nodes[n] = t
	c.update()
	return t
}

// RecordVar records the type of a variable in this Context and returns the type.
// Like Record, it increments the version if a child was spawned since the last record.
func (c *Context) RecordVar(v Var, t Type) Type {
	if _, ok := c.vars[v]; !ok {
		c.varList = append(c.varList, v)
	}
	c.vars[v] = t
	c.update()
	return t
}

func (c *Context) update() {
	if c.pending {
		c.version++
		c.pending = false
	}
}

// Has returns whether the node has a type in this Context.
// Ancestors are not consulted.
func (c *Context) Has(n Node) bool {
	_, ok := c.nodes[n]
	return ok
}

// HasVar returns whether the variable has a type in this Context.
// Ancestors are not consulted.
func (c *Context) HasVar(v Var) bool {
	_, ok := c.vars[v]
	return ok
}

// TypeOf returns the type of the node
// from the nearest Context in the chain from c to the root.
// If no Context has a type for the node,
// TypeOf returns a *NotTypedError.
func (c *Context) TypeOf(n Node) (Type, error) {
	for x := c; x != nil; x = x.parent {
		if t, ok := x.nodes[n]; ok {
			return t, nil
		}
	}
	return nil, &NotTypedError{Node: n}
}

// VarTypeOf is like TypeOf, but for variables.
func (c *Context) VarTypeOf(v Var) (Type, error) {
	for x := c; x != nil; x = x.parent {
		if t, ok := x.vars[v]; ok {
			return t, nil
		}
	}
	return nil, &NotTypedError{Node: v, Var: true}
}

// AddError appends a type error to this Context.
// It is not visible to the parent until Commit.
func (c *Context) AddError(err Error) {
	c.errs = append(c.errs, err)
}

// Errors returns the type errors recorded in this Context, in order.
func (c *Context) Errors() []Error {
	return append([]Error(nil), c.errs...)
}

// Each calls f for each node type recorded in this Context,
// in the order the nodes were first recorded.
// If f returns false, Each stops.
func (c *Context) Each(f func(Node, Type) bool) {
	for _, n := range c.nodeList {
		if !f(n, c.nodes[n]) {
			return
		}
	}
}

// EachVar is like Each, but for variables.
func (c *Context) EachVar(f func(Var, Type) bool) {
	for _, v := range c.varList {
		if !f(v, c.vars[v]) {
			return
		}
	}
}

// Commit folds this Context into its parent.
//
// The node types are recorded into the parent
// in the order they were first recorded here,
// followed by the variable types,
// and the errors are appended after the parent's errors.
//
// Commit returns ErrCommitOnRoot if c has no parent,
// and a *StaleError if the parent's version has changed
// since c was spawned; in either case nothing is changed.
// After a successful Commit, c must not be used.
func (c *Context) Commit() error {
	if c.parent == nil {
		return ErrCommitOnRoot
	}
	p := c.parent
	if p.version != c.snapshot {
		c.log("stale commit: parent v%d, snapshot v%d", p.version, c.snapshot)
		return &StaleError{Snapshot: c.snapshot, Version: p.version}
	}
	c.log("commit %d types, %d vars, %d errors into v%d",
		len(c.nodeList), len(c.varList), len(c.errs), p.version)
	for _, n := range c.nodeList {
		p.Record(n, c.nodes[n])
	}
	for _, v := range c.varList {
		p.RecordVar(v, c.vars[v])
	}
	p.errs = append(p.errs, c.errs...)
	return nil
}

func (c *Context) log(f string, vs ...interface{}) {
	if !c.cfg.Trace {
		return
	}
	fmt.Fprintf(c.cfg.Out, "%s%s\n", strings.Repeat("---", c.depth), fmt.Sprintf(f, vs...))
}
