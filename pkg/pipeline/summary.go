package pipeline

import (
	"bytes"
	"strings"

	"github.com/matzehuels/jigsaw/pkg/adjacency"
	"github.com/matzehuels/jigsaw/pkg/assemble"
	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/cache"
	pkgio "github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/pattern"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

// InputHash returns the content hash of a tile store, independent of the
// order or formatting of the text it was read from.
func InputHash(s *tile.Store) (string, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteTiles(&buf, s); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// Summarize builds the serializable result. l, canvas and match may be nil
// for corner-only solves.
func Summarize(s *tile.Store, m *adjacency.Map, l *assemble.Layout, canvas *bitmap.Bitmap, match *pattern.Match) *pkgio.Result {
	res := &pkgio.Result{
		Tiles:         s.Len(),
		TileSize:      s.TileSize(),
		GridSide:      m.GridSide(),
		CornerProduct: m.CornerProduct(),
	}
	for _, id := range m.Corners() {
		res.Corners = append(res.Corners, int(id))
	}
	if l != nil {
		for _, row := range l.Rows() {
			cells := make([]pkgio.Cell, len(row))
			for i, p := range row {
				cells[i] = pkgio.Cell{ID: int(p.ID), Orientation: p.Orientation.String()}
			}
			res.Layout = append(res.Layout, cells)
		}
	}
	if canvas != nil {
		res.Canvas = strings.Split(canvas.String(), "\n")
	}
	if match != nil {
		res.Pattern = &pkgio.PatternHit{
			Orientation: match.Orientation.String(),
			Occurrences: match.Offsets,
			Total:       match.Total,
			Remaining:   match.Remaining,
		}
	}
	return res
}

// restore rebuilds layout, canvas and match from a cached summary.
func restore(s *tile.Store, sum *pkgio.Result, p *pattern.Pattern) (*Result, error) {
	res := &Result{Summary: sum}
	if len(sum.Layout) == 0 {
		return res, nil
	}

	rows := make([][]assemble.Placement, len(sum.Layout))
	for r, cells := range sum.Layout {
		rows[r] = make([]assemble.Placement, len(cells))
		for c, cell := range cells {
			o, err := bitmap.ParseOrientation(cell.Orientation)
			if err != nil {
				return nil, err
			}
			rows[r][c] = assemble.Placement{ID: tile.ID(cell.ID), Orientation: o}
		}
	}
	l, err := assemble.NewLayout(rows)
	if err != nil {
		return nil, err
	}
	canvas, err := assemble.Stitch(s, l)
	if err != nil {
		return nil, err
	}
	res.Layout, res.Canvas = l, canvas

	if hit := sum.Pattern; hit != nil {
		o, err := bitmap.ParseOrientation(hit.Orientation)
		if err != nil {
			return nil, err
		}
		oriented := o.Apply(canvas)
		res.Match = &pattern.Match{
			Orientation: o,
			Canvas:      oriented,
			Offsets:     hit.Occurrences,
			Covered:     pattern.Cover(oriented.Size(), p, hit.Occurrences),
			Total:       hit.Total,
			Remaining:   hit.Remaining,
		}
	}
	return res, nil
}
