package mod

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eaburns/ty/ast"
	"github.com/google/go-cmp/cmp"
)

func TestEmptyDir(t *testing.T) {
	t.Parallel()
	root := newFS(t, nil)
	m, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.SrcFiles) > 0 {
		t.Errorf("len(m.SrcFiles)=%d, want 0", len(m.SrcFiles))
	}
}

func TestSourceFile(t *testing.T) {
	t.Parallel()
	root := newFS(t, []file{
		{path: "foo.ty", body: ""},
	})
	m, err := Load(filepath.Join(root, "foo.ty"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := &Mod{
		Name:     "foo",
		SrcPath:  filepath.Join(root, "foo.ty"),
		SrcDir:   root,
		SrcFiles: []string{filepath.Join(root, "foo.ty")},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceFileNotFound(t *testing.T) {
	t.Parallel()
	root := newFS(t, []file{
		{path: "foo.ty", body: ""},
	})
	if _, err := Load(filepath.Join(root, "nothing.ty")); err == nil {
		t.Fatalf("Load() succeeded, wanted an error")
	}
}

func TestNotSourceFile(t *testing.T) {
	t.Parallel()
	root := newFS(t, []file{
		{path: "foo.go", body: ""},
	})
	if _, err := Load(filepath.Join(root, "foo.go")); err == nil {
		t.Fatalf("Load() succeeded, wanted an error")
	}
}

func TestSourceDir(t *testing.T) {
	t.Parallel()
	root := newFS(t, []file{
		{path: "foo.ty", body: ""},
		{path: "bar.ty", body: ""},
		{path: "baz.ty", body: ""},
		{path: ".gitignore", body: ""},
		{path: "blah", body: ""},
		{path: "something.ty_something", body: ""},
		{path: "ty", body: ""},
		{path: "sub.ty/x.ty", body: ""},
	})
	m, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{
		filepath.Join(root, "bar.ty"),
		filepath.Join(root, "baz.ty"),
		filepath.Join(root, "foo.ty"),
	}
	if diff := cmp.Diff(want, m.SrcFiles); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if m.SrcDir != root {
		t.Errorf("m.SrcDir=%s, want %s", m.SrcDir, root)
	}
}

func TestRelativePath(t *testing.T) {
	t.Parallel()
	root := newFS(t, []file{
		{path: "a/foo.ty", body: ""},
	})
	m, err := Load(root + "/a/../a/./foo.ty")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if want := filepath.Join(root, "a", "foo.ty"); m.SrcPath != want {
		t.Errorf("m.SrcPath=%s, want %s", m.SrcPath, want)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	root := newFS(t, []file{
		{path: "b.ty", body: "val y = x + 1"},
		{path: "a.ty", body: "val x = 1"},
	})
	m, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p := ast.NewParser()
	files, err := m.Parse(p)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var got []string
	for _, f := range files {
		got = append(got, filepath.Base(f.Path)+":"+f.Vals[0].Var.Name)
	}
	if diff := cmp.Diff([]string{"a.ty:x", "b.ty:y"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if len(*p.Locs()) != 2 {
		t.Errorf("len(locs)=%d, want 2", len(*p.Locs()))
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()
	root := newFS(t, []file{
		{path: "a.ty", body: "val x = 1"},
		{path: "b.ty", body: "val y ="},
	})
	m, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := m.Parse(ast.NewParser()); err == nil {
		t.Fatalf("Parse succeeded, wanted an error")
	}
}

type file struct {
	path string
	body string
}

// newFS creates the files in a root temporary directory
// that is removed when the test ends.
func newFS(t *testing.T, files []file) string {
	t.Helper()
	root := t.TempDir()
	for _, file := range files {
		path := filepath.Join(root, file.path)
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			t.Fatalf("failed to make directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(file.body), 0666); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}
	return root
}
