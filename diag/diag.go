// Package diag reports the errors recorded in a root typing.Context
// as located errors and as LSP diagnostics.
package diag

import (
	"fmt"
	"sort"

	"github.com/eaburns/ty/loc"
	"github.com/eaburns/ty/typing"
	"pkg.nimblebun.works/go-lsp"
)

// An Error is a typing.Error with its source location.
type Error struct {
	// Loc is the location of the error's node,
	// or nil if the node has no location.
	Loc *loc.Loc
	Err typing.Error
}

func (err *Error) Error() string {
	if err.Loc == nil {
		return err.Err.Error()
	}
	return fmt.Sprintf("%s:%d.%d: %s", err.Loc.Path, err.Loc.Line[0], err.Loc.Col[0], err.Err)
}

// Unwrap returns the typing.Error.
func (err *Error) Unwrap() error { return err.Err }

// Errors returns the errors of a root Context as *Errors
// sorted by location, with duplicates removed.
// Errors without a location sort first.
func Errors(root *typing.Context, files *loc.Files) []error {
	var errs []error
	for _, err := range located(root, files) {
		errs = append(errs, err)
	}
	return errs
}

func located(root *typing.Context, files *loc.Files) []*Error {
	var errs []*Error
	for _, err := range root.Errors() {
		errs = append(errs, &Error{Loc: locate(files, err.Node()), Err: err})
	}
	sort.SliceStable(errs, func(i, j int) bool {
		switch li, lj := errs[i].Loc, errs[j].Loc; {
		case li == nil || lj == nil:
			return li == nil && lj != nil
		case li.Path == lj.Path && li.Line[0] == lj.Line[0]:
			return li.Col[0] < lj.Col[0]
		case li.Path == lj.Path:
			return li.Line[0] < lj.Line[0]
		default:
			return li.Path < lj.Path
		}
	})
	var dedup []*Error
	seen := make(map[string]bool)
	for _, e := range errs {
		if msg := e.Error(); !seen[msg] {
			seen[msg] = true
			dedup = append(dedup, e)
		}
	}
	return dedup
}

func locate(files *loc.Files, n typing.Node) *loc.Loc {
	r, ok := n.(interface{ GetRange() loc.Range })
	if !ok || files == nil {
		return nil
	}
	return files.Loc(r.GetRange())
}

// Diagnostics returns the errors of a root Context as LSP diagnostics,
// keyed by the URI of the file containing them.
// Errors without a location have a zero range and an empty URI.
func Diagnostics(root *typing.Context, files *loc.Files) map[lsp.DocumentURI][]lsp.Diagnostic {
	diags := map[lsp.DocumentURI][]lsp.Diagnostic{}
	for _, err := range located(root, files) {
		var uri lsp.DocumentURI
		var rng lsp.Range
		if l := err.Loc; l != nil {
			uri = URI(l.Path)
			rng = lsp.Range{
				Start: lsp.Position{Line: l.Line[0] - 1, Character: l.Col[0] - 1},
				End:   lsp.Position{Line: l.Line[1] - 1, Character: l.Col[1] - 1},
			}
		}
		diags[uri] = append(diags[uri], lsp.Diagnostic{
			Range:    rng,
			Severity: lsp.DSError,
			Message:  err.Err.Error(),
		})
	}
	return diags
}

// Internal returns a diagnostic for an internal error,
// one not caused by the checked source.
func Internal(err error) lsp.Diagnostic {
	return lsp.Diagnostic{
		Severity: lsp.DSError,
		Message:  "internal error: " + err.Error(),
	}
}

// URI returns the file URI of a path.
func URI(path string) lsp.DocumentURI {
	return lsp.DocumentURI("file://" + path)
}

// Publish returns the publishDiagnostics params for each file,
// sorted by URI. Every path in files has an entry,
// so that a client clears diagnostics of files that no longer have errors.
func Publish(root *typing.Context, files *loc.Files) []lsp.PublishDiagnosticsParams {
	diags := Diagnostics(root, files)
	if files != nil {
		for _, f := range *files {
			uri := URI(f.Path)
			if _, ok := diags[uri]; !ok {
				diags[uri] = []lsp.Diagnostic{}
			}
		}
	}
	var params []lsp.PublishDiagnosticsParams
	for uri, ds := range diags {
		params = append(params, lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: ds})
	}
	sort.Slice(params, func(i, j int) bool { return params[i].URI < params[j].URI })
	return params
}
