// The tycheck command type-checks ty source files.
//
// Each argument is a .ty file or a directory of .ty files, checked as a unit.
// Vals may refer to vals defined before them,
// including vals in earlier files of the same directory.
//
// The exit status is 0 if there were no errors,
// 1 if there were parse or type errors,
// and 2 for an internal error.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eaburns/peggy/peg"
	"github.com/eaburns/pretty"
	"github.com/eaburns/ty/ast"
	"github.com/eaburns/ty/diag"
	"github.com/eaburns/ty/mod"
	"github.com/eaburns/ty/types"
	"github.com/eaburns/ty/typing"
	"github.com/peterh/liner"
)

var (
	printAST    = flag.Bool("ast", false, "print the parsed files and exit")
	dump        = flag.Bool("dump", false, "dump the typing context after checking")
	lspOut      = flag.Bool("lsp", false, "write publishDiagnostics params as JSON lines")
	trace       = flag.Bool("trace", false, "enable checker and typing context tracing")
	preludePath = flag.String("prelude", "", "YAML file of built-in functions")
	verbose     = flag.Bool("v", false, "print parse failure trees")
	interactive = flag.Bool("i", false, "start an interactive session")
)

const historyFile = ".tycheck_history"

func main() {
	pretty.Indent = "    "
	flag.Usage = usage
	flag.Parse()

	cfg := types.Config{Trace: *trace}
	if *preludePath != "" {
		p, err := loadPrelude(*preludePath)
		if err != nil {
			die("failed to load prelude", err)
		}
		cfg.Prelude = p
	}
	if *interactive {
		os.Exit(repl(cfg))
	}
	if len(flag.Args()) == 0 {
		usage()
		os.Exit(1)
	}
	status := 0
	for _, srcPath := range flag.Args() {
		if s := checkUnit(cfg, srcPath); s > status {
			status = s
		}
	}
	os.Exit(status)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file or dir>...\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func loadPrelude(path string) (*types.Prelude, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return types.LoadPrelude(f)
}

func checkUnit(cfg types.Config, srcPath string) int {
	m, err := mod.Load(srcPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	p := ast.NewParser()
	files, err := m.Parse(p)
	if err != nil {
		parseError(err)
		return 1
	}
	if *printAST {
		for _, f := range files {
			pretty.Print(f.Vals)
			fmt.Println("")
		}
		return 0
	}

	cfg.Locs = p.Locs()
	c := types.NewChecker(cfg)
	root := c.NewContext()
	for _, f := range files {
		if err := c.CheckFile(root, f); err != nil {
			return internalError(err)
		}
	}
	if *dump {
		if err := types.Dump(os.Stdout, root, p.Locs()); err != nil {
			die("failed to write dump", err)
		}
	}
	if *lspOut {
		enc := json.NewEncoder(os.Stdout)
		for _, params := range diag.Publish(root, p.Locs()) {
			if err := enc.Encode(params); err != nil {
				die("failed to write diagnostics", err)
			}
		}
	} else {
		for _, err := range diag.Errors(root, p.Locs()) {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if len(root.Errors()) > 0 {
		return 1
	}
	return 0
}

func parseError(err error) {
	if pe, ok := err.(interface{ Tree() *peg.Fail }); ok && *verbose {
		peg.PrettyWrite(os.Stderr, pe.Tree())
		fmt.Fprintln(os.Stderr, "")
	}
	fmt.Fprintln(os.Stderr, err)
}

func internalError(err error) int {
	if *lspOut {
		if err := json.NewEncoder(os.Stdout).Encode(diag.Internal(err)); err != nil {
			die("failed to write diagnostics", err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "internal error:", err)
	}
	return 2
}

// repl reads vals and expressions, one per line.
// Each is checked in a child of the session's root Context,
// which is committed if there are no errors and dropped otherwise.
// Committed vals are visible to subsequent lines.
func repl(cfg types.Config) int {
	fmt.Println("ty session. Enter vals or expressions; :dump to dump, :quit to exit.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	p := ast.NewParser()
	cfg.Locs = p.Locs()
	c := types.NewChecker(cfg)
	root := c.NewContext()
	for n := 1; ; n++ {
		line, err := ln.Prompt("ty> ")
		switch {
		case errors.Is(err, io.EOF):
			fmt.Println()
			return 0
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":quit":
			return 0
		case ":dump":
			if err := types.Dump(os.Stdout, root, p.Locs()); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			continue
		}
		ln.AppendHistory(line)
		if err := eval(c, root, p, fmt.Sprintf("<input %d>", n), line); err != nil {
			return internalError(err)
		}
	}
}

// eval checks a line, returning only internal errors.
func eval(c *types.Checker, root *typing.Context, p *ast.Parser, path, line string) error {
	if fs := strings.Fields(line); len(fs) > 0 && fs[0] == "val" {
		f, err := p.Parse(path, strings.NewReader(line))
		if err != nil {
			parseError(err)
			return nil
		}
		for _, v := range f.Vals {
			child := root.Child()
			if err := c.CheckVal(child, v); err != nil {
				return err
			}
			t, err := child.VarTypeOf(v.Var)
			if err != nil {
				return err
			}
			if ok, err := commit(child, p); !ok || err != nil {
				return err
			}
			c.Declare(v)
			fmt.Printf("%s: %s\n", v.Var.Name, t)
		}
		return nil
	}

	e, err := p.ParseExpr(path, line)
	if err != nil {
		parseError(err)
		return nil
	}
	child := root.Child()
	t, err := c.CheckExpr(child, e)
	if err != nil {
		return err
	}
	if ok, err := commit(child, p); !ok || err != nil {
		return err
	}
	fmt.Println(t)
	return nil
}

// commit commits the child if it has no errors,
// otherwise it prints the errors and drops the child.
func commit(child *typing.Context, p *ast.Parser) (bool, error) {
	if errs := diag.Errors(child, p.Locs()); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err)
		}
		return false, nil
	}
	if err := child.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func die(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", msg, err)
	os.Exit(2)
}
