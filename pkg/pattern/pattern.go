// Package pattern locates a small sparse template inside a reconstructed canvas.
//
// A [Pattern] is a rectangular mask where only "on" cells matter: off cells
// are wildcards and never disqualify a match. [Find] slides the pattern over
// the canvas under each of the 8 whole-canvas orientations, in [bitmap.All]
// order, and reports the first orientation containing at least one
// occurrence together with the union of all pixels the occurrences cover.
package pattern

import (
	"fmt"
	"strings"

	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/errors"
)

// Point is a (row, column) position on a canvas or inside a pattern.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Pattern is an immutable sparse template.
type Pattern struct {
	rows, cols int
	on         []Point
	text       []string
}

// Monster is the three-row template searched for by default.
var Monster = MustNew(
	"                  # ",
	"#    ##    ##    ###",
	" #  #  #  #  #  #   ",
)

// New builds a pattern from text rows: '#' marks an on cell, every other
// character is a wildcard. Rows may differ in length; the pattern is as wide
// as its longest row. At least one on cell is required.
func New(rows ...string) (*Pattern, error) {
	p := &Pattern{rows: len(rows), text: append([]string(nil), rows...)}
	for r, row := range rows {
		if len(row) > p.cols {
			p.cols = len(row)
		}
		for c := 0; c < len(row); c++ {
			if row[c] == bitmap.On {
				p.on = append(p.on, Point{Row: r, Col: c})
			}
		}
	}
	if len(p.on) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pattern has no '#' cells")
	}
	return p, nil
}

// MustNew is like [New] but panics on error.
func MustNew(rows ...string) *Pattern {
	p, err := New(rows...)
	if err != nil {
		panic(err)
	}
	return p
}

// Height returns the number of rows in the bounding box.
func (p *Pattern) Height() int { return p.rows }

// Width returns the number of columns in the bounding box.
func (p *Pattern) Width() int { return p.cols }

// Len returns the number of on cells.
func (p *Pattern) Len() int { return len(p.on) }

// Cells returns a copy of the on cells in row-major order.
func (p *Pattern) Cells() []Point { return append([]Point(nil), p.on...) }

// Rows returns the text rows the pattern was built from.
func (p *Pattern) Rows() []string { return append([]string(nil), p.text...) }

// MatchesAt reports whether every on cell of p lands on an on pixel of b when
// the pattern's top-left corner is placed at at.
func (p *Pattern) MatchesAt(b *bitmap.Bitmap, at Point) bool {
	if at.Row < 0 || at.Col < 0 || at.Row+p.rows > b.Size() || at.Col+p.cols > b.Size() {
		return false
	}
	for _, c := range p.on {
		if !b.At(at.Row+c.Row, at.Col+c.Col) {
			return false
		}
	}
	return true
}

// Stamp switches on every pixel of b covered by p's on cells at at.
// Cells falling outside b are ignored.
func (p *Pattern) Stamp(b *bitmap.Bitmap, at Point) {
	n := b.Size()
	for _, c := range p.on {
		r, col := at.Row+c.Row, at.Col+c.Col
		if r >= 0 && col >= 0 && r < n && col < n {
			b.Set(r, col, true)
		}
	}
}

// String renders the pattern with '#' for on cells and ' ' for wildcards.
func (p *Pattern) String() string {
	grid := make([][]byte, p.rows)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(" ", p.cols))
	}
	for _, c := range p.on {
		grid[c.Row][c.Col] = bitmap.On
	}
	lines := make([]string, p.rows)
	for r, row := range grid {
		lines[r] = string(row)
	}
	return strings.Join(lines, "\n")
}

// GoString is used by %#v.
func (p *Pattern) GoString() string {
	return fmt.Sprintf("pattern.Pattern{%dx%d, %d cells}", p.rows, p.cols, len(p.on))
}
