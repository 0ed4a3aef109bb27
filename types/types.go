// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package types has the types of ty expressions
// and a checker that records them into a typing.Context.
package types

import (
	"sort"
	"strings"
)

// A Type is the type of an expression.
type Type interface {
	String() string
	cases() []Basic
}

// A Basic is a built-in type.
type Basic int

// The following are the Basic types.
const (
	// Invalid is the type of an erroneous expression.
	// It is assignable to and from every type,
	// so that one error does not cascade into others.
	Invalid Basic = iota
	Int
	String
	Bool
)

var basicNames = map[string]Basic{
	"Int":    Int,
	"String": String,
	"Bool":   Bool,
}

func (b Basic) String() string {
	switch b {
	case Invalid:
		return "<invalid>"
	case Int:
		return "Int"
	case String:
		return "String"
	case Bool:
		return "Bool"
	default:
		panic("impossible")
	}
}

func (b Basic) cases() []Basic { return []Basic{b} }

// A Union is the union of two or more Basic types.
// The Cases are sorted and distinct, and none is Invalid.
type Union struct {
	Cases []Basic
}

func (u *Union) String() string {
	var s strings.Builder
	for i, c := range u.Cases {
		if i > 0 {
			s.WriteString(" | ")
		}
		s.WriteString(c.String())
	}
	return s.String()
}

func (u *Union) cases() []Basic { return u.Cases }

// Join returns the union of the types.
// If any type is Invalid, Join returns Invalid.
// If all types are the same Basic type, Join returns it.
func Join(ts ...Type) Type {
	seen := make(map[Basic]bool)
	var cases []Basic
	for _, t := range ts {
		for _, c := range t.cases() {
			if c == Invalid {
				return Invalid
			}
			if !seen[c] {
				seen[c] = true
				cases = append(cases, c)
			}
		}
	}
	switch len(cases) {
	case 0:
		return Invalid
	case 1:
		return cases[0]
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i] < cases[j] })
	return &Union{Cases: cases}
}

// Equal returns whether two types are the same.
func Equal(a, b Type) bool {
	ac, bc := a.cases(), b.cases()
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}

// Assignable returns whether a value of type src
// can be used where a dst is expected:
// either is Invalid, or every case of src is a case of dst.
func Assignable(src, dst Type) bool {
	if src == Invalid || dst == Invalid {
		return true
	}
	for _, s := range src.cases() {
		found := false
		for _, d := range dst.cases() {
			if s == d {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ParseType parses a type name: a Basic type name
// or Basic type names separated by |.
func ParseType(s string) (Type, bool) {
	var ts []Type
	for _, name := range strings.Split(s, "|") {
		b, ok := basicNames[strings.TrimSpace(name)]
		if !ok {
			return nil, false
		}
		ts = append(ts, b)
	}
	return Join(ts...), true
}
