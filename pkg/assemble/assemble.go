// Package assemble places every tile of a resolved puzzle on the grid and
// stitches the result into a single canvas.
//
// Placement starts from an anchor corner and walks the grid row-major. Each
// new tile is the neighbor the previous tile reports on its right (or, at the
// start of a row, the neighbor below the first tile of the row above), and its
// orientation is the unique one whose facing border equals the border it
// joins. Zero or several fitting orientations fail with
// INCONSISTENT_ORIENTATION.
package assemble

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/jigsaw/pkg/adjacency"
	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

// Placement is a tile together with the orientation it is shown in.
type Placement struct {
	ID          tile.ID
	Orientation bitmap.Orientation
}

// Layout is a fully placed R×R grid.
type Layout struct {
	side  int
	cells []Placement
}

// NewLayout rebuilds a layout from square rows of placements, such as a
// layout read back from an exported result.
func NewLayout(rows [][]Placement) (*Layout, error) {
	side := len(rows)
	if side == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty layout")
	}
	l := &Layout{side: side, cells: make([]Placement, 0, side*side)}
	for r, row := range rows {
		if len(row) != side {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout row %d has %d cells, want %d", r, len(row), side)
		}
		l.cells = append(l.cells, row...)
	}
	return l, nil
}

// Side returns R.
func (l *Layout) Side() int { return l.side }

// At returns the placement at (row, col).
func (l *Layout) At(row, col int) Placement { return l.cells[row*l.side+col] }

// Rows returns the placements as a fresh slice of rows.
func (l *Layout) Rows() [][]Placement {
	rows := make([][]Placement, l.side)
	for r := range rows {
		rows[r] = append([]Placement(nil), l.cells[r*l.side:(r+1)*l.side]...)
	}
	return rows
}

// Position returns the grid cell holding id.
func (l *Layout) Position(id tile.ID) (row, col int, ok bool) {
	for i, p := range l.cells {
		if p.ID == id {
			return i / l.side, i % l.side, true
		}
	}
	return 0, 0, false
}

// String renders the grid of tile identifiers, one row per line.
func (l *Layout) String() string {
	var sb strings.Builder
	for r := 0; r < l.side; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < l.side; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", l.At(r, c).ID)
		}
	}
	return sb.String()
}

// Anchor returns the placement for the top-left cell: the smallest corner
// identifier, in the first orientation of [bitmap.All] that leaves its top
// and left sides without neighbors.
func Anchor(m *adjacency.Map) (Placement, error) {
	corners := m.Corners()
	if len(corners) == 0 {
		return Placement{}, errors.New(errors.ErrCodeInvalidArrangement, "no corner tiles")
	}
	id := corners[0]
	nb, err := m.Neighbors(id)
	if err != nil {
		return Placement{}, err
	}
	for _, o := range bitmap.All {
		on := nb.Oriented(o)
		if !on.Has(bitmap.Top) && !on.Has(bitmap.Left) {
			return Placement{ID: id, Orientation: o}, nil
		}
	}
	return Placement{}, errors.New(errors.ErrCodeInconsistentOrientation,
		"corner tile %d has neighbors on opposite sides", id)
}

// Place arranges every tile of s on the grid described by m.
func Place(ctx context.Context, s *tile.Store, m *adjacency.Map) (*Layout, error) {
	side := m.GridSide()
	l := &Layout{side: side, cells: make([]Placement, side*side)}

	anchor, err := Anchor(m)
	if err != nil {
		return nil, err
	}
	l.cells[0] = anchor
	placed := map[tile.ID]bool{anchor.ID: true}

	for r := 0; r < side; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for c := 0; c < side; c++ {
			if r == 0 && c == 0 {
				continue
			}

			// Join to the left neighbor, or to the tile above at a row start.
			var from Placement
			fromSide := bitmap.Right
			if c > 0 {
				from = l.At(r, c-1)
			} else {
				from, fromSide = l.At(r-1, 0), bitmap.Bottom
			}
			p, err := next(s, m, from, fromSide)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			if placed[p.ID] {
				return nil, errors.New(errors.ErrCodeInconsistentOrientation,
					"cell (%d,%d): tile %d is already placed", r, c, p.ID)
			}

			if r > 0 && c > 0 {
				above := l.At(r-1, c)
				want, err := border(s, above, bitmap.Bottom)
				if err != nil {
					return nil, err
				}
				got, err := border(s, p, bitmap.Top)
				if err != nil {
					return nil, err
				}
				if !got.Equal(want) {
					return nil, errors.New(errors.ErrCodeInconsistentOrientation,
						"cell (%d,%d): tile %d does not fit below tile %d", r, c, p.ID, above.ID)
				}
			}

			l.cells[r*side+c] = p
			placed[p.ID] = true
		}
	}
	return l, nil
}

// next finds the tile joined to from on side fromSide and the single
// orientation that makes its facing border equal to from's border.
func next(s *tile.Store, m *adjacency.Map, from Placement, fromSide bitmap.Side) (Placement, error) {
	nb, err := m.Neighbors(from.ID)
	if err != nil {
		return Placement{}, err
	}
	id := nb.Oriented(from.Orientation)[fromSide]
	if id == tile.None {
		return Placement{}, errors.New(errors.ErrCodeInconsistentOrientation,
			"tile %d (%s) has no %s neighbor", from.ID, from.Orientation, fromSide)
	}

	want, err := border(s, from, fromSide)
	if err != nil {
		return Placement{}, err
	}
	t, err := s.Get(id)
	if err != nil {
		return Placement{}, err
	}

	facing := fromSide.Opposite()
	found := Placement{ID: id}
	n := 0
	for _, o := range bitmap.All {
		if o.Border(t.Pixels, facing).Equal(want) {
			found.Orientation = o
			n++
		}
	}
	if n != 1 {
		return Placement{}, errors.New(errors.ErrCodeInconsistentOrientation,
			"tile %d fits %s of tile %d in %d orientations, want exactly 1", id, fromSide, from.ID, n)
	}
	return found, nil
}

func border(s *tile.Store, p Placement, side bitmap.Side) (bitmap.Border, error) {
	t, err := s.Get(p.ID)
	if err != nil {
		return nil, err
	}
	return p.Orientation.Border(t.Pixels, side), nil
}

// Stitch drops every tile's border ring and copies the oriented interiors
// into one canvas of side R·(S−2).
func Stitch(s *tile.Store, l *Layout) (*bitmap.Bitmap, error) {
	inner := s.TileSize() - 2
	canvas := bitmap.New(l.side * inner)
	for r := 0; r < l.side; r++ {
		for c := 0; c < l.side; c++ {
			p := l.At(r, c)
			px, err := s.Oriented(p.ID, p.Orientation)
			if err != nil {
				return nil, err
			}
			canvas.Blit(px.Interior(), r*inner, c*inner)
		}
	}
	return canvas, nil
}
