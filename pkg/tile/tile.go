// Package tile holds the set of scrambled tiles a jigsaw is assembled from.
//
// A [Store] owns every [Tile] for the duration of a solve. Tiles are immutable
// once the store is built, so the store can be shared read-only between the
// goroutines of a parallel adjacency scan.
package tile

import (
	"fmt"
	"slices"

	"github.com/matzehuels/jigsaw/pkg/bitmap"
	"github.com/matzehuels/jigsaw/pkg/errors"
)

// ID identifies a tile. Valid identifiers are positive; the zero ID means
// "no tile".
type ID int

// None is the zero ID used for absent neighbors.
const None ID = 0

// MinSize is the smallest usable tile side: a border ring plus one interior pixel.
const MinSize = 3

// Tile is an identified square pixel grid, border ring included.
type Tile struct {
	ID     ID
	Pixels *bitmap.Bitmap
}

// Size returns the side length, border included.
func (t *Tile) Size() int { return t.Pixels.Size() }

// Store maps tile identifiers to tiles of one uniform size.
type Store struct {
	tiles map[ID]*Tile
	ids   []ID
	size  int
}

// NewStore validates pixels and builds a store.
// All grids must share one side length of at least [MinSize], and identifiers
// must be positive. The bitmaps are cloned so later mutation by the caller
// cannot affect the store.
func NewStore(pixels map[ID]*bitmap.Bitmap) (*Store, error) {
	if len(pixels) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no tiles given")
	}
	s := &Store{
		tiles: make(map[ID]*Tile, len(pixels)),
		ids:   make([]ID, 0, len(pixels)),
		size:  -1,
	}
	for id, px := range pixels {
		if err := errors.ValidateTileID(int(id)); err != nil {
			return nil, err
		}
		if px == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "tile %d has no pixels", id)
		}
		s.ids = append(s.ids, id)
	}
	slices.Sort(s.ids)

	for _, id := range s.ids {
		px := pixels[id]
		if px.Size() < MinSize {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"tile %d is %dx%d, need at least %dx%d", id, px.Size(), px.Size(), MinSize, MinSize)
		}
		if s.size == -1 {
			s.size = px.Size()
		} else if px.Size() != s.size {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"tile %d is %dx%d, other tiles are %dx%d", id, px.Size(), px.Size(), s.size, s.size)
		}
		s.tiles[id] = &Tile{ID: id, Pixels: px.Clone()}
	}
	return s, nil
}

// Get returns the tile with the given identifier.
// Fails with UNKNOWN_TILE if it is not in the store.
func (s *Store) Get(id ID) (*Tile, error) {
	t, ok := s.tiles[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownTile, "tile %d not found", id)
	}
	return t, nil
}

// Borders returns the four borders tile id shows under orientation o.
func (s *Store) Borders(id ID, o bitmap.Orientation) (bitmap.Borders, error) {
	t, err := s.Get(id)
	if err != nil {
		return bitmap.Borders{}, err
	}
	return o.Borders(t.Pixels), nil
}

// Oriented returns tile id's pixels transformed by o.
func (s *Store) Oriented(id ID, o bitmap.Orientation) (*bitmap.Bitmap, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return o.Apply(t.Pixels), nil
}

// IDs returns all identifiers in ascending order. The slice must not be modified.
func (s *Store) IDs() []ID { return s.ids }

// Len returns the number of tiles.
func (s *Store) Len() int { return len(s.ids) }

// TileSize returns the shared tile side length, border included.
func (s *Store) TileSize() int { return s.size }

// String summarizes the store for logs.
func (s *Store) String() string {
	return fmt.Sprintf("%d tiles of %dx%d", len(s.ids), s.size, s.size)
}
