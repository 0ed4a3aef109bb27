// Package mod loads the source file lists of ty units.
package mod

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eaburns/ty/ast"
)

// Ext is the file extension of ty source files.
const Ext = ".ty"

// A Mod contains information about the source of a single unit.
type Mod struct {
	// Name is the base name of SrcPath without the .ty extension.
	Name string
	// SrcPath is the source file path.
	// This is path to the source file or directory of the unit.
	SrcPath string
	// SrcDir may differ from SrcPath
	// if the unit is given as a .ty file, not a directory.
	SrcDir string
	// SrcFiles contains the source file paths in alphabetical order.
	SrcFiles []string
}

// Load returns a *Mod loaded from srcPath.
// srcPath may be either a .ty source file or a directory of .ty source files.
func Load(srcPath string) (*Mod, error) {
	srcPath, err := realPath(srcPath)
	if err != nil {
		return nil, err
	}
	srcFiles, srcDir, err := srcFiles(srcPath)
	if err != nil {
		return nil, err
	}
	return &Mod{
		Name:     strings.TrimSuffix(filepath.Base(srcPath), Ext),
		SrcPath:  srcPath,
		SrcDir:   srcDir,
		SrcFiles: srcFiles,
	}, nil
}

func realPath(dir string) (string, error) {
	switch dir {
	case string([]rune{filepath.Separator}):
		return dir, nil
	case ".":
		return os.Getwd()
	default:
		base := filepath.Base(dir)
		dir, err := realPath(filepath.Dir(dir))
		if err != nil {
			return "", err
		}
		switch base {
		case ".":
			return dir, nil
		case "..":
			return filepath.Dir(dir), nil
		default:
			return filepath.Join(dir, base), nil
		}
	}
}

func srcFiles(srcPath string) ([]string, string, error) {
	stat, err := os.Stat(srcPath)
	if err != nil {
		return nil, "", err
	}
	if !stat.IsDir() {
		if filepath.Ext(srcPath) != Ext {
			return nil, "", fmt.Errorf("%s: not a %s file", srcPath, Ext)
		}
		return []string{srcPath}, filepath.Dir(srcPath), nil
	}
	ents, err := os.ReadDir(srcPath)
	if err != nil {
		return nil, "", err
	}
	var paths []string
	for _, ent := range ents {
		if ent.IsDir() || filepath.Ext(ent.Name()) != Ext {
			continue
		}
		paths = append(paths, filepath.Join(srcPath, ent.Name()))
	}
	sort.Strings(paths)
	return paths, srcPath, nil
}

// Parse parses the source files in order using p.
// Parsing stops at the first error.
func (m *Mod) Parse(p *ast.Parser) ([]*ast.File, error) {
	var files []*ast.File
	for _, path := range m.SrcFiles {
		f, err := p.ParseFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
