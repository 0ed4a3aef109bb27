package loc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoc(t *testing.T) {
	t.Parallel()
	var fs Files
	fs.Add("a.ty", "val x = 1\nval y = x + 2\n")
	fs.Add("b.ty", "val z =\n  3")

	tests := []struct {
		name string
		r    Range
		want *Loc
	}{
		{
			name: "first byte",
			r:    Range{0, 0},
			want: &Loc{Path: "a.ty", Line: [2]int{1, 1}, Col: [2]int{1, 1}},
		},
		{
			name: "single line",
			r:    Range{8, 9},
			want: &Loc{Path: "a.ty", Line: [2]int{1, 1}, Col: [2]int{9, 10}},
		},
		{
			name: "second line",
			r:    Range{18, 23},
			want: &Loc{Path: "a.ty", Line: [2]int{2, 2}, Col: [2]int{9, 14}},
		},
		{
			name: "second file",
			r:    Range{24, 35},
			want: &Loc{Path: "b.ty", Line: [2]int{1, 2}, Col: [2]int{1, 4}},
		},
		{
			name: "ends at end of file",
			r:    Range{20, 24},
			want: &Loc{Path: "a.ty", Line: [2]int{2, 3}, Col: [2]int{11, 1}},
		},
		{
			name: "out of range",
			r:    Range{30, 100},
			want: nil,
		},
		{
			name: "negative",
			r:    Range{-1, 2},
			want: nil,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := fs.Loc(test.r)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("fs.Loc(%v) mismatch (-want +got):\n%s", test.r, diff)
			}
		})
	}
}

func TestLocString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		loc  Loc
		want string
	}{
		{Loc{Path: "a.ty", Line: [2]int{1, 1}, Col: [2]int{3, 3}}, "a.ty:1.3"},
		{Loc{Path: "a.ty", Line: [2]int{1, 2}, Col: [2]int{3, 4}}, "a.ty:1.3-2.4"},
	}
	for _, test := range tests {
		if got := test.loc.String(); got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}

func TestExcerptAndSummary(t *testing.T) {
	t.Parallel()
	var fs Files
	fs.Add("a.ty", "val x =\n  1 + 2\n")

	if got, want := fs.Excerpt(Range{0, 15}), "val x ="; got != want {
		t.Errorf("Excerpt=%q, want %q", got, want)
	}
	if got, want := fs.Excerpt(Range{10, 15}), "1 + 2"; got != want {
		t.Errorf("Excerpt=%q, want %q", got, want)
	}
	if got, want := fs.Summary(Range{10, 15}), "2:3:1 + 2"; got != want {
		t.Errorf("Summary=%q, want %q", got, want)
	}
	if got, want := fs.Summary(Range{100, 101}), "?:?:"; got != want {
		t.Errorf("Summary=%q, want %q", got, want)
	}
	var empty Files
	if got := empty.Excerpt(Range{0, 0}); got != "" {
		t.Errorf("empty Excerpt=%q, want \"\"", got)
	}
}
