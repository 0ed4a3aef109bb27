// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/eaburns/peggy/peg"
	"github.com/eaburns/ty/loc"
)

// A Parser parses source code files.
//
// Node ranges are offsets into the Parser's loc.Files,
// so nodes from all files parsed by the same Parser
// have distinct, comparable locations.
type Parser struct {
	files []*File
	locs  *loc.Files
}

// NewParser returns a new parser.
func NewParser() *Parser {
	return &Parser{locs: new(loc.Files)}
}

// NewParserWithLocs returns a new parser
// that appends file location information to the given loc.Files.
func NewParserWithLocs(locs *loc.Files) *Parser {
	return &Parser{locs: locs}
}

// Locs returns the locations of all successfully parsed files.
func (p *Parser) Locs() *loc.Files { return p.locs }

// Files returns the successfully parsed files.
func (p *Parser) Files() []*File { return p.files }

// Parse parses a *File from an io.Reader.
// The first argument is the file path or "" if unspecified.
func (p *Parser) Parse(path string, r io.Reader) (*File, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := string(data)
	_p := newParser(text, p.locs.Len())
	var file *File
	if err := _p.run(path, func() { file = _p.file() }); err != nil {
		return nil, err
	}
	file.Path = path
	file.Locs = p.locs
	p.files = append(p.files, file)
	p.locs.Add(path, text)
	return file, nil
}

// ParseFile parses the source in the file specified by a path.
func (p *Parser) ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(path, f)
}

// ParseExpr parses a single expression.
// The source text is added to the Parser's locations
// but not to its Files.
func (p *Parser) ParseExpr(path, text string) (Expr, error) {
	_p := newParser(text, p.locs.Len())
	var expr Expr
	err := _p.run(path, func() {
		expr = _p.expr()
		_p.expect(eofTok, "")
	})
	if err != nil {
		return nil, err
	}
	p.locs.Add(path, text)
	return expr, nil
}

type parseError struct {
	path string
	loc  int
	text string
	fail *peg.Fail
}

// Tree returns the tree of parse failures.
func (err parseError) Tree() *peg.Fail { return err.fail }

func (err parseError) Error() string {
	e := peg.SimpleError(err.text, err.fail)
	e.FilePath = err.path
	return e.Error()
}

// bailout is panicked to abandon the parse at the first failure.
type bailout struct{}

type parser struct {
	text string
	base int
	toks []token
	i    int

	rules   []rule
	failPos int
	fails   []failure
}

type rule struct {
	name string
	pos  int
}

type failure struct {
	rules []rule
	want  string
}

func newParser(text string, base int) *parser {
	return &parser{
		text:    text,
		base:    base,
		toks:    lex(text, base),
		failPos: -1,
	}
}

func (p *parser) run(path string, f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		err = parseError{path: path, loc: p.failPos, text: p.text, fail: p.tree()}
	}()
	f()
	return nil
}

// enter pushes a rule onto the rule stack
// and returns a func that pops it.
func (p *parser) enter(name string) func() {
	p.rules = append(p.rules, rule{name: name, pos: p.toks[p.i].start - p.base})
	return func() { p.rules = p.rules[:len(p.rules)-1] }
}

// accept consumes the next token if it is of the given kind and,
// if text is non-empty, has the given text.
// Otherwise it records the failure and returns false.
func (p *parser) accept(kind tokKind, text string) (token, bool) {
	t := p.toks[p.i]
	if t.kind == kind && (text == "" || t.text == text) {
		p.i++
		return t, true
	}
	p.fail(t.start-p.base, want(kind, text))
	return t, false
}

func (p *parser) expect(kind tokKind, text string) token {
	t, ok := p.accept(kind, text)
	if !ok {
		panic(bailout{})
	}
	return t
}

func (p *parser) fail(pos int, w string) {
	switch {
	case pos < p.failPos:
		return
	case pos > p.failPos:
		p.failPos = pos
		p.fails = p.fails[:0]
	}
	for _, f := range p.fails {
		if f.want == w && sameRules(f.rules, p.rules) {
			return
		}
	}
	p.fails = append(p.fails, failure{
		rules: append([]rule(nil), p.rules...),
		want:  w,
	})
}

func sameRules(a, b []rule) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// tree returns the failures at the furthest failed position
// as a tree with a node for each rule.
func (p *parser) tree() *peg.Fail {
	root := &peg.Fail{Pos: 0}
	for _, f := range p.fails {
		n := root
		for _, r := range f.rules {
			n = kid(n, r)
		}
		n.Kids = append(n.Kids, &peg.Fail{Pos: p.failPos, Want: f.want})
	}
	if len(root.Kids) == 1 && root.Kids[0].Name != "" {
		return root.Kids[0]
	}
	return root
}

func kid(n *peg.Fail, r rule) *peg.Fail {
	for _, k := range n.Kids {
		if k.Name == r.name && k.Pos == r.pos {
			return k
		}
	}
	k := &peg.Fail{Name: r.name, Pos: r.pos}
	n.Kids = append(n.Kids, k)
	return k
}

func (p *parser) rng(start, end int) loc.Range { return loc.Range{start, end} }

func end(n Node) int { return n.GetRange()[1] }

// File <- Val* EOF
func (p *parser) file() *File {
	defer p.enter("File")()
	f := &File{Range: p.rng(p.base, p.base+len(p.text))}
	for {
		if _, ok := p.accept(eofTok, ""); ok {
			return f
		}
		f.Vals = append(f.Vals, p.val())
	}
}

// Val <- "val" Ident "=" Expr
func (p *parser) val() *Val {
	defer p.enter("Val")()
	kw := p.expect(opTok, "val")
	id := p.expect(identTok, "")
	p.expect(opTok, "=")
	e := p.expr()
	return &Val{
		Range: p.rng(kw.start, end(e)),
		Var:   &Var{Range: p.rng(id.start, id.end), Name: id.text},
		Expr:  e,
	}
}

// Expr <- Let / If / Cmp
func (p *parser) expr() Expr {
	defer p.enter("Expr")()
	if kw, ok := p.accept(opTok, "let"); ok {
		id := p.expect(identTok, "")
		p.expect(opTok, "=")
		e := p.expr()
		p.expect(opTok, "in")
		body := p.expr()
		return &Let{
			Range: p.rng(kw.start, end(body)),
			Var:   &Var{Range: p.rng(id.start, id.end), Name: id.text},
			Expr:  e,
			Body:  body,
		}
	}
	if kw, ok := p.accept(opTok, "if"); ok {
		cond := p.expr()
		p.expect(opTok, "then")
		then := p.expr()
		p.expect(opTok, "else")
		els := p.expr()
		return &If{Range: p.rng(kw.start, end(els)), Cond: cond, Then: then, Else: els}
	}
	return p.cmp()
}

// Cmp <- Sum (("==" / "<") Sum)?
func (p *parser) cmp() Expr {
	defer p.enter("Cmp")()
	l := p.sum()
	op, ok := p.accept(opTok, "==")
	if !ok {
		op, ok = p.accept(opTok, "<")
	}
	if !ok {
		return l
	}
	return infix(op, l, p.sum())
}

// Sum <- Prod (("+" / "-") Prod)*
func (p *parser) sum() Expr {
	defer p.enter("Sum")()
	l := p.prod()
	for {
		op, ok := p.accept(opTok, "+")
		if !ok {
			op, ok = p.accept(opTok, "-")
		}
		if !ok {
			return l
		}
		l = infix(op, l, p.prod())
	}
}

// Prod <- Primary ("*" Primary)*
func (p *parser) prod() Expr {
	defer p.enter("Prod")()
	l := p.primary()
	for {
		op, ok := p.accept(opTok, "*")
		if !ok {
			return l
		}
		l = infix(op, l, p.primary())
	}
}

func infix(op token, l, r Expr) *Call {
	return &Call{
		Range:    loc.Range{l.GetRange()[0], end(r)},
		Fun:      op.text,
		FunRange: loc.Range{op.start, op.end},
		Args:     []Expr{l, r},
		Infix:    true,
	}
}

// Primary <- Int / String / "true" / "false" / Ident ("(" Args ")")? / "(" Expr ")"
func (p *parser) primary() Expr {
	defer p.enter("Primary")()
	if t, ok := p.accept(intTok, ""); ok {
		return &Int{Range: p.rng(t.start, t.end), Text: t.text}
	}
	if t, ok := p.accept(stringTok, ""); ok {
		return &String{Range: p.rng(t.start, t.end), Text: t.text, Data: t.data}
	}
	if t, ok := p.accept(opTok, "true"); ok {
		return &Bool{Range: p.rng(t.start, t.end), Value: true}
	}
	if t, ok := p.accept(opTok, "false"); ok {
		return &Bool{Range: p.rng(t.start, t.end), Value: false}
	}
	if t, ok := p.accept(identTok, ""); ok {
		if _, ok := p.accept(opTok, "("); !ok {
			return &Ident{Range: p.rng(t.start, t.end), Name: t.text}
		}
		args, rp := p.args()
		return &Call{
			Range:    p.rng(t.start, rp.end),
			Fun:      t.text,
			FunRange: p.rng(t.start, t.end),
			Args:     args,
		}
	}
	lp := p.expect(opTok, "(")
	e := p.expr()
	rp := p.expect(opTok, ")")
	return &Paren{Range: p.rng(lp.start, rp.end), Expr: e}
}

// Args <- ")" / Expr ("," Expr)* ")"
func (p *parser) args() ([]Expr, token) {
	defer p.enter("Args")()
	if rp, ok := p.accept(opTok, ")"); ok {
		return nil, rp
	}
	args := []Expr{p.expr()}
	for {
		if _, ok := p.accept(opTok, ","); !ok {
			break
		}
		args = append(args, p.expr())
	}
	return args, p.expect(opTok, ")")
}
