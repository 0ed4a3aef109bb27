// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package loc has routines for tracking file locations.
package loc

import (
	"fmt"
	"strings"
)

// A Range is a start and end byte offset.
// The end offset is exclusive.
type Range [2]int

// GetRange returns itself.
// This is useful so than Range can be embedded in a struct
// and that struct can implement interface{GetRange() Range}.
func (r Range) GetRange() Range { return r }

// A Loc describes a file location.
// Lines and columns are 1-based.
type Loc struct {
	Path string
	Line [2]int
	Col  [2]int
}

func (l Loc) String() string {
	switch {
	case l.Line[0] == l.Line[1] && l.Col[0] == l.Col[1]:
		return fmt.Sprintf("%s:%d.%d", l.Path, l.Line[0], l.Col[0])
	default:
		return fmt.Sprintf("%s:%d.%d-%d.%d", l.Path, l.Line[0], l.Col[0], l.Line[1], l.Col[1])
	}
}

// Files tracks locations within a set of files.
type Files []File

// A File is a single file in a Files.
type File struct {
	Path  string
	Offs  int
	Len   int
	Lines []int
	Text  string
}

// Len returns the total length of all files.
func (fs Files) Len() int {
	if len(fs) == 0 {
		return 0
	}
	last := fs[len(fs)-1]
	return last.Offs + last.Len
}

// Add adds a new file to the set given its path and text.
// The file's offsets begin at the previous Len of the set.
func (fs *Files) Add(path, text string) {
	var lines []int
	offs := fs.Len()
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, offs+i)
		}
	}
	*fs = append(*fs, File{
		Path:  path,
		Offs:  offs,
		Len:   len(text),
		Lines: lines,
		Text:  text,
	})
}

// Loc returns the Loc for a range.
// Loc returns nil if the range is not within the files.
func (fs Files) Loc(r Range) *Loc {
	if len(fs) == 0 || r[0] < 0 || r[1] < r[0] || r[1] > fs.Len() {
		return nil
	}
	var l Loc
	var sfile, efile *File
	sfile, l.Line[0], l.Col[0] = fs.loc1(r[0])
	efile, l.Line[1], l.Col[1] = fs.loc1(r[1])
	if sfile != efile {
		// The end offset of the last byte of a file
		// is the start offset of the next file.
		text := fs.text(sfile, r)
		l.Line[1] = l.Line[0] + strings.Count(text, "\n")
		if l.Line[1] == l.Line[0] {
			l.Col[1] = l.Col[0] + len(text)
		} else {
			l.Col[1] = len(lastLine(text)) + 1
		}
	}
	l.Path = sfile.Path
	return &l
}

// Excerpt returns the first line of the source text in the range.
func (fs Files) Excerpt(r Range) string {
	if len(fs) == 0 || r[0] < 0 || r[1] < r[0] || r[1] > fs.Len() {
		return ""
	}
	text := fs.text(fs.file(r[0]), r)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return text
}

// Summary returns a one-line summary of the range:
// its start line and column, and the excerpt.
func (fs Files) Summary(r Range) string {
	l := fs.Loc(r)
	if l == nil {
		return "?:?:"
	}
	return fmt.Sprintf("%d:%d:%s", l.Line[0], l.Col[0], fs.Excerpt(r))
}

func (fs Files) text(f *File, r Range) string {
	s, e := r[0]-f.Offs, r[1]-f.Offs
	if e > len(f.Text) {
		e = len(f.Text)
	}
	return f.Text[s:e]
}

func (fs Files) file(p int) *File {
	file := &fs[0]
	for i := range fs {
		if fs[i].Offs > p {
			break
		}
		file = &fs[i]
	}
	return file
}

func (fs Files) loc1(p int) (*File, int, int) {
	file := fs.file(p)
	line, col1 := 1, file.Offs-1
	for _, nl := range file.Lines {
		if nl >= p {
			break
		}
		col1 = nl
		line++
	}
	return file, line, p - col1
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
