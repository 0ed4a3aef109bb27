package types

import (
	"fmt"
	"strings"

	"github.com/eaburns/ty/ast"
	"github.com/eaburns/ty/typing"
)

// A checkError is a type error.
// It implements typing.Error.
type checkError struct {
	node  ast.Node
	msg   string
	notes []string
}

func note(err *checkError, f string, vs ...interface{}) {
	err.notes = append(err.notes, fmt.Sprintf(f, vs...))
}

// Node returns the ast.Node of the error.
func (err *checkError) Node() typing.Node { return err.node }

func (err *checkError) Error() string {
	var s strings.Builder
	s.WriteString(err.msg)
	for _, n := range err.notes {
		s.WriteString("\n\t")
		s.WriteString(n)
	}
	return s.String()
}
