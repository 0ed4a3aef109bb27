package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/eaburns/pretty"
	"github.com/eaburns/ty/ast"
	"github.com/eaburns/ty/loc"
	"github.com/eaburns/ty/types"
	"github.com/eaburns/ty/typing"
	"github.com/google/go-cmp/cmp"
	"pkg.nimblebun.works/go-lsp"
)

func TestErrors(t *testing.T) {
	t.Parallel()
	root, files := check(t,
		[2]string{"b.ty", "val x = 1 + \"s\"\nval y = z"},
		[2]string{"a.ty", "val w = if 1 then 2 else 3"},
	)
	var got []string
	for _, err := range Errors(root, files) {
		got = append(got, err.Error())
	}
	want := []string{
		"a.ty:1.12: if condition has type Int, want Bool",
		"b.ty:1.9: + has no overload for (Int, String)\n" +
			"\tcandidate +(Int, Int) Int\n" +
			"\tcandidate +(String, String) String",
		"b.ty:2.9: undefined: z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsDedup(t *testing.T) {
	t.Parallel()
	files := new(loc.Files)
	files.Add("a.ty", "abc def")
	root := typing.New()
	root.AddError(&testError{node: loc.Range{4, 7}, msg: "second"})
	root.AddError(&testError{node: loc.Range{0, 3}, msg: "first"})
	root.AddError(&testError{node: loc.Range{4, 7}, msg: "third"})
	root.AddError(&testError{node: loc.Range{4, 7}, msg: "second"})
	root.AddError(&testError{node: "no location", msg: "unlocated"})
	root.AddError(&testError{node: "another node", msg: "unlocated"})
	var got []string
	for _, err := range Errors(root, files) {
		got = append(got, err.Error())
	}
	want := []string{"unlocated", "a.ty:1.1: first", "a.ty:1.5: second", "a.ty:1.5: third"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()
	inner := &testError{node: "x", msg: "m"}
	root := typing.New()
	root.AddError(inner)
	errs := Errors(root, nil)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	var te *testError
	if !errors.As(errs[0], &te) || te != inner {
		t.Errorf("errors.As failed on %v", errs[0])
	}
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()
	root, files := check(t,
		[2]string{"/src/a.ty", "val x = 1\nval y = nope + x"},
	)
	root.AddError(&testError{node: "no location", msg: "unlocated"})
	got := Diagnostics(root, files)
	want := map[lsp.DocumentURI][]lsp.Diagnostic{
		"": {{Severity: lsp.DSError, Message: "unlocated"}},
		"file:///src/a.ty": {{
			Range: lsp.Range{
				Start: lsp.Position{Line: 1, Character: 8},
				End:   lsp.Position{Line: 1, Character: 12},
			},
			Severity: lsp.DSError,
			Message:  "undefined: nope",
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPublish(t *testing.T) {
	t.Parallel()
	root, files := check(t,
		[2]string{"/src/b.ty", "val y = nope"},
		[2]string{"/src/a.ty", "val x = 1"},
	)
	got := Publish(root, files)
	if len(got) != 2 {
		t.Fatalf("got %d params, want 2:\n%s", len(got), pretty.String(got))
	}
	if got[0].URI != "file:///src/a.ty" || len(got[0].Diagnostics) != 0 || got[0].Diagnostics == nil {
		t.Errorf("got %s, want empty diagnostics for a.ty", pretty.String(got[0]))
	}
	if got[1].URI != "file:///src/b.ty" || len(got[1].Diagnostics) != 1 {
		t.Errorf("got %s, want one diagnostic for b.ty", pretty.String(got[1]))
	}
}

func TestInternal(t *testing.T) {
	t.Parallel()
	d := Internal(typing.ErrStaleContext)
	if d.Severity != lsp.DSError {
		t.Errorf("severity=%v, want DSError", d.Severity)
	}
	if !strings.HasPrefix(d.Message, "internal error: ") {
		t.Errorf("message=%q, want internal error prefix", d.Message)
	}
}

// check parses and checks files, each a path and its source,
// in a single root Context.
func check(t *testing.T, srcs ...[2]string) (*typing.Context, *loc.Files) {
	t.Helper()
	p := ast.NewParser()
	c := types.NewChecker(types.Config{Locs: p.Locs()})
	root := c.NewContext()
	for _, src := range srcs {
		f, err := p.Parse(src[0], strings.NewReader(src[1]))
		if err != nil {
			t.Fatalf("failed to parse %s: %s", src[0], err)
		}
		if err := c.CheckFile(root, f); err != nil {
			t.Fatalf("internal error: %s", err)
		}
	}
	return root, p.Locs()
}

type testError struct {
	node typing.Node
	msg  string
}

func (err *testError) Node() typing.Node { return err.node }
func (err *testError) Error() string     { return err.msg }
