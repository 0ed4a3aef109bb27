package types

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// A Prelude is a set of built-in functions.
type Prelude struct {
	Funcs map[string]*Func
}

// A Func is a built-in function with one or more overloads.
type Func struct {
	Name      string
	Overloads []*Sig
}

// A Sig is the signature of a function overload.
type Sig struct {
	Params []Type
	Result Type
}

func (s *Sig) String() string {
	var b strings.Builder
	b.WriteRune('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") ")
	b.WriteString(s.Result.String())
	return b.String()
}

// Names returns the sorted function names.
func (p *Prelude) Names() []string {
	var names []string
	for name := range p.Funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//go:embed prelude.yaml
var defaultPreludeYAML string

var defaultPrelude *Prelude

func init() {
	p, err := LoadPrelude(strings.NewReader(defaultPreludeYAML))
	if err != nil {
		panic("bad default prelude: " + err.Error())
	}
	defaultPrelude = p
}

// DefaultPrelude returns the built-in prelude.
func DefaultPrelude() *Prelude { return defaultPrelude }

type preludeDisk struct {
	Funcs []funcDisk `yaml:"funcs"`
}

type funcDisk struct {
	Name      string    `yaml:"name"`
	Overloads []sigDisk `yaml:"overloads"`
}

type sigDisk struct {
	Params []string `yaml:"params"`
	Result string   `yaml:"result"`
}

// LoadPrelude reads a prelude in YAML form.
//
//	funcs:
//	  - name: "+"
//	    overloads:
//	      - {params: [Int, Int], result: Int}
//
// Type names are Int, String, Bool, or unions of them: Int | String.
func LoadPrelude(r io.Reader) (*Prelude, error) {
	var raw preludeDisk
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("prelude: parse: %w", err)
	}
	p := &Prelude{Funcs: make(map[string]*Func)}
	for _, fd := range raw.Funcs {
		if fd.Name == "" {
			return nil, fmt.Errorf("prelude: function with no name")
		}
		if p.Funcs[fd.Name] != nil {
			return nil, fmt.Errorf("prelude: %s redefined", fd.Name)
		}
		if len(fd.Overloads) == 0 {
			return nil, fmt.Errorf("prelude: %s: no overloads", fd.Name)
		}
		fun := &Func{Name: fd.Name}
		for i, sd := range fd.Overloads {
			sig, err := sd.toSig()
			if err != nil {
				return nil, fmt.Errorf("prelude: %s overload %d: %w", fd.Name, i, err)
			}
			fun.Overloads = append(fun.Overloads, sig)
		}
		p.Funcs[fd.Name] = fun
	}
	return p, nil
}

func (sd sigDisk) toSig() (*Sig, error) {
	var sig Sig
	for _, s := range sd.Params {
		t, ok := ParseType(s)
		if !ok {
			return nil, fmt.Errorf("bad parameter type %q", s)
		}
		sig.Params = append(sig.Params, t)
	}
	t, ok := ParseType(sd.Result)
	if !ok {
		return nil, fmt.Errorf("bad result type %q", sd.Result)
	}
	sig.Result = t
	return &sig, nil
}
