package typing

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeNotTyped is returned by TypeOf and VarTypeOf
	// for a node or variable with no type anywhere in the chain.
	ErrNodeNotTyped = errors.New("node not typed")

	// ErrStaleContext is returned by Commit
	// if the parent changed after the child was spawned.
	ErrStaleContext = errors.New("parent modified since child was spawned")

	// ErrCommitOnRoot is returned by Commit on a root Context.
	ErrCommitOnRoot = errors.New("commit on root context")
)

// A NotTypedError is returned for a node or variable without a type.
type NotTypedError struct {
	Node Node
	// Var is whether Node is a variable.
	Var bool
}

func (err *NotTypedError) Error() string {
	if err.Var {
		return fmt.Sprintf("variable not typed: %v", err.Node)
	}
	return fmt.Sprintf("node not typed: %v", err.Node)
}

// Unwrap returns ErrNodeNotTyped.
func (err *NotTypedError) Unwrap() error { return ErrNodeNotTyped }

// A StaleError is returned when committing a stale Context.
type StaleError struct {
	// Snapshot is the parent version when the child was spawned.
	Snapshot int
	// Version is the parent version at the time of the commit.
	Version int
}

func (err *StaleError) Error() string {
	return fmt.Sprintf("%s: snapshot v%d, parent v%d", ErrStaleContext, err.Snapshot, err.Version)
}

// Unwrap returns ErrStaleContext.
func (err *StaleError) Unwrap() error { return ErrStaleContext }
