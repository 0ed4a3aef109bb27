package typing

import (
	"bufio"
	"fmt"
	"io"

	"github.com/eaburns/pretty"
)

// A Summarizer returns a one-line, human-readable summary of a node,
// for example its position and the first line of its source.
type Summarizer interface {
	Summary(Node) string
}

// SummaryFunc is a func implementing Summarizer.
type SummaryFunc func(Node) string

// Summary returns f(n).
func (f SummaryFunc) Summary(n Node) string { return f(n) }

// Dump writes the node types and the errors recorded in this Context.
// Ancestors are not dumped.
// Dump does not modify the Context.
func (c *Context) Dump(w io.Writer, s Summarizer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "Typing:")
	c.Each(func(n Node, t Type) bool {
		fmt.Fprintf(bw, "  %s => %s\n", s.Summary(n), typeString(t))
		return true
	})
	fmt.Fprintln(bw, "Errors:")
	for _, err := range c.errs {
		fmt.Fprintf(bw, "  %s => %s\n", s.Summary(err.Node()), err.Error())
	}
	return bw.Flush()
}

func typeString(t Type) string {
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return pretty.String(t)
}
