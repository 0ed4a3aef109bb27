package types

import (
	"fmt"
	"io"
	"os"

	"github.com/eaburns/ty/ast"
	"github.com/eaburns/ty/loc"
	"github.com/eaburns/ty/typing"
)

// Config are configuration parameters for the type checker.
type Config struct {
	// Prelude are the built-in functions (default=DefaultPrelude()).
	Prelude *Prelude
	// Locs are the source locations, used for error notes.
	// If nil, notes omit locations.
	Locs *loc.Files
	// Trace is whether to enable debug tracing
	// of the checker and its typing contexts.
	Trace bool
	// Out is where the trace is written (default=os.Stdout).
	Out io.Writer
}

type state struct {
	cfg    Config
	indent string
}

func newState(cfg Config) *state {
	x := &state{cfg: cfg}
	setConfigDefaults(x)
	return x
}

func setConfigDefaults(x *state) {
	if x.cfg.Prelude == nil {
		x.cfg.Prelude = DefaultPrelude()
	}
	if x.cfg.Out == nil {
		x.cfg.Out = os.Stdout
	}
}

// NewContext returns a new root typing.Context
// traced according to the checker's Config.
func (x *state) NewContext() *typing.Context {
	return typing.NewWithConfig(typing.Config{Trace: x.cfg.Trace, Out: x.cfg.Out})
}

func (x *state) loc(n ast.Node) string {
	if x.cfg.Locs == nil {
		return "?"
	}
	l := x.cfg.Locs.Loc(n.GetRange())
	if l == nil {
		return "?"
	}
	return l.String()
}

func (x *state) err(n ast.Node, f string, vs ...interface{}) *checkError {
	return &checkError{node: n, msg: fmt.Sprintf(f, vs...)}
}

// tr traces entry to a check
// and returns a func that traces the resulting type.
func (x *state) tr(f string, vs ...interface{}) func(*Type) {
	if !x.cfg.Trace {
		return func(*Type) {}
	}
	x.log(f, vs...)
	olddent := x.indent
	x.indent += "---"
	return func(t *Type) {
		defer func() { x.indent = olddent }()
		if t == nil || *t == nil {
			return
		}
		x.log("%s", *t)
	}
}

func (x *state) log(f string, vs ...interface{}) {
	if !x.cfg.Trace {
		return
	}
	fmt.Fprint(x.cfg.Out, x.indent)
	fmt.Fprintf(x.cfg.Out, f, vs...)
	fmt.Fprintln(x.cfg.Out, "")
}
