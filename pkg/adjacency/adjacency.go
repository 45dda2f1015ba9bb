package adjacency

import (
	"context"
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

// Neighbors holds the neighbor on each side of a tile, indexed by [bitmap.Side].
// [tile.None] marks an unmatched side.
type Neighbors [4]tile.ID

// Count returns the number of matched sides.
func (n Neighbors) Count() int {
	c := 0
	for _, id := range n {
		if id != tile.None {
			c++
		}
	}
	return c
}

// Has reports whether side s has a neighbor.
func (n Neighbors) Has(s bitmap.Side) bool { return n[s] != tile.None }

// Oriented returns the neighbors as seen after the tile is transformed by o.
func (n Neighbors) Oriented(o bitmap.Orientation) Neighbors {
	var out Neighbors
	for _, s := range bitmap.Sides {
		src, _ := o.SourceSide(s)
		out[s] = n[src]
	}
	return out
}

// Kind classifies a tile by its position in the final grid.
type Kind int

const (
	KindCorner Kind = iota
	KindEdge
	KindInterior
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindCorner:
		return "corner"
	case KindEdge:
		return "edge"
	case KindInterior:
		return "interior"
	default:
		return "unknown"
	}
}

// Link is one undirected adjacency, reported once with A < B.
type Link struct {
	A, B         tile.ID
	SideA, SideB bitmap.Side
}

// Options configures [Resolve].
type Options struct {
	// Workers is the number of goroutines scanning tiles.
	// Values below 2 scan sequentially.
	Workers int
}

// Map is the resolved neighbor relation of a tile set.
// It is immutable and safe for concurrent reads.
type Map struct {
	neighbors map[tile.ID]Neighbors
	ids       []tile.ID
	side      int
	corners   []tile.ID
	edges     []tile.ID
	interior  []tile.ID
}

// GridSide returns the integer square root of n and whether n is a perfect square.
func GridSide(n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r, r*r == n
}

// Resolve builds the neighbor map for every tile in s.
func Resolve(ctx context.Context, s *tile.Store, opts Options) (*Map, error) {
	side, ok := GridSide(s.Len())
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidArrangement,
			"%d tiles cannot form a square grid", s.Len())
	}

	ids := s.IDs()
	own := make([]bitmap.Borders, len(ids))
	candidates := make([][8]bitmap.Border, len(ids))
	for i, id := range ids {
		bs, err := s.Borders(id, bitmap.Identity)
		if err != nil {
			return nil, err
		}
		own[i] = bs
		for k, b := range bs {
			candidates[i][k] = b
			candidates[i][k+4] = b.Reverse()
		}
	}

	found := make([]Neighbors, len(ids))
	scan := func(i int) error {
		var nb Neighbors
		for j, other := range ids {
			if j == i {
				continue
			}
			for _, sd := range bitmap.Sides {
				if !matchesAny(own[i][sd], &candidates[j]) {
					continue
				}
				if prev := nb[sd]; prev != tile.None && prev != other {
					return errors.New(errors.ErrCodeAmbiguousAdjacency,
						"%s side of tile %d matches both tile %d and tile %d", sd, ids[i], prev, other)
				}
				nb[sd] = other
			}
		}
		found[i] = nb
		return nil
	}

	if opts.Workers < 2 {
		for i := range ids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := scan(i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i := range ids {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return scan(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	m := &Map{
		neighbors: make(map[tile.ID]Neighbors, len(ids)),
		ids:       ids,
		side:      side,
	}
	for i, id := range ids {
		m.neighbors[id] = found[i]
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func matchesAny(b bitmap.Border, candidates *[8]bitmap.Border) bool {
	for _, c := range candidates {
		if b.Equal(c) {
			return true
		}
	}
	return false
}

// validate checks symmetry and the corner/edge/interior distribution, and
// fills the classification slices.
func (m *Map) validate() error {
	for _, a := range m.ids {
		for _, b := range m.neighbors[a] {
			if b == tile.None {
				continue
			}
			if n := occurrences(m.neighbors[a], b); n != 1 {
				return errors.New(errors.ErrCodeInvalidArrangement,
					"tile %d borders tile %d on %d sides", a, b, n)
			}
			if n := occurrences(m.neighbors[b], a); n != 1 {
				return errors.New(errors.ErrCodeInvalidArrangement,
					"tile %d lists tile %d as neighbor, but tile %d lists it on %d sides", a, b, b, n)
			}
		}
	}

	for _, id := range m.ids {
		switch n := m.neighbors[id].Count(); n {
		case 2:
			m.corners = append(m.corners, id)
		case 3:
			m.edges = append(m.edges, id)
		case 4:
			m.interior = append(m.interior, id)
		default:
			return errors.New(errors.ErrCodeInvalidArrangement,
				"tile %d has %d neighbors, want 2, 3 or 4", id, n)
		}
	}

	inner := m.side - 2
	if len(m.corners) != 4 || len(m.edges) != 4*inner || len(m.interior) != inner*inner {
		return errors.New(errors.ErrCodeInvalidArrangement,
			"found %d corners, %d edges, %d interior tiles; a %dx%d grid needs 4, %d, %d",
			len(m.corners), len(m.edges), len(m.interior), m.side, m.side, 4*inner, inner*inner)
	}
	return nil
}

func occurrences(nb Neighbors, id tile.ID) int {
	n := 0
	for _, x := range nb {
		if x == id {
			n++
		}
	}
	return n
}

// Neighbors returns the neighbors of id in its original orientation.
func (m *Map) Neighbors(id tile.ID) (Neighbors, error) {
	nb, ok := m.neighbors[id]
	if !ok {
		return Neighbors{}, errors.New(errors.ErrCodeUnknownTile, "tile %d not found", id)
	}
	return nb, nil
}

// Kind returns the grid position class of id.
func (m *Map) Kind(id tile.ID) (Kind, error) {
	nb, err := m.Neighbors(id)
	if err != nil {
		return 0, err
	}
	switch nb.Count() {
	case 2:
		return KindCorner, nil
	case 3:
		return KindEdge, nil
	default:
		return KindInterior, nil
	}
}

// Corners returns the four corner tiles in ascending order.
func (m *Map) Corners() []tile.ID { return slices.Clone(m.corners) }

// Edges returns the non-corner border tiles in ascending order.
func (m *Map) Edges() []tile.ID { return slices.Clone(m.edges) }

// Interior returns the tiles with four neighbors in ascending order.
func (m *Map) Interior() []tile.ID { return slices.Clone(m.interior) }

// CornerProduct multiplies the four corner identifiers.
// Identifiers are assumed small enough for the product to fit in an int64.
func (m *Map) CornerProduct() int64 {
	p := int64(1)
	for _, id := range m.corners {
		p *= int64(id)
	}
	return p
}

// GridSide returns R, the number of tiles per row and column.
func (m *Map) GridSide() int { return m.side }

// Len returns the number of tiles.
func (m *Map) Len() int { return len(m.ids) }

// IDs returns all tile identifiers in ascending order.
func (m *Map) IDs() []tile.ID { return slices.Clone(m.ids) }

// Links returns every adjacency once, ordered by (A, SideA).
func (m *Map) Links() []Link {
	var links []Link
	for _, a := range m.ids {
		nbA := m.neighbors[a]
		for _, sa := range bitmap.Sides {
			b := nbA[sa]
			if b == tile.None || b < a {
				continue
			}
			nbB := m.neighbors[b]
			for _, sb := range bitmap.Sides {
				if nbB[sb] == a {
					links = append(links, Link{A: a, B: b, SideA: sa, SideB: sb})
					break
				}
			}
		}
	}
	return links
}

// String summarizes the map for logs.
func (m *Map) String() string {
	return fmt.Sprintf("%dx%d grid: %d corners, %d edges, %d interior",
		m.side, m.side, len(m.corners), len(m.edges), len(m.interior))
}
