package types

import (
	"fmt"
	"io"

	"github.com/eaburns/ty/loc"
	"github.com/eaburns/ty/typing"
)

// Summarizer returns a typing.Summarizer
// that summarizes nodes by their line, column, and source excerpt.
func Summarizer(locs *loc.Files) typing.Summarizer {
	return typing.SummaryFunc(func(n typing.Node) string {
		r, ok := n.(interface{ GetRange() loc.Range })
		if !ok || locs == nil {
			return fmt.Sprintf("%T", n)
		}
		return locs.Summary(r.GetRange())
	})
}

// Dump writes the types and errors recorded in a typing.Context.
func Dump(w io.Writer, ctx *typing.Context, locs *loc.Files) error {
	return ctx.Dump(w, Summarizer(locs))
}
